package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"semester/internal/app/tick"
	"semester/internal/domain/activity"
	"semester/internal/domain/simulation"
	"semester/internal/ui"
)

func newStatsCmd(opts *options) *cobra.Command {
	var history int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show hourly activity rates and recent days",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			e, cleanup, err := openSession(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer cleanup()
			w := cmd.OutOrStdout()
			playerID := e.session.PlayerID()

			ch := tick.LoadCharacter(ctx, e.stores.Characters, playerID, nil)
			fmt.Fprintln(w, ui.H2.Render("Hourly rates"))
			for _, act := range activity.All {
				line := ui.Key.Render(fmt.Sprintf("%-9s", act))
				for _, s := range simulation.ActivityStats(act, ch) {
					line += fmt.Sprintf("  %s %s", ui.Muted.Render(s.Resource), ui.Delta(s.PerHour, s.Resource == "stress"))
				}
				fmt.Fprintln(w, line)
			}

			if history <= 0 {
				return nil
			}
			records, err := e.stores.Journal.ListByPlayerID(ctx, playerID, history)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "")
			fmt.Fprintln(w, ui.H2.Render("Recent days"))
			if len(records) == 0 {
				fmt.Fprintln(w, ui.Muted.Render("no days simulated yet"))
			}
			for _, r := range records {
				line := fmt.Sprintf("%s energy %6.1f stress %6.1f knowledge %8.1f money %8.2f",
					ui.Key.Render(fmt.Sprintf("day %3d", r.Day)),
					r.Resources.Energy, r.Resources.Stress, r.Resources.Knowledge, r.Resources.Money)
				if r.CrashKind != simulation.CrashNone {
					line += " " + ui.Bad.Render(ui.IconCrash+" "+string(r.CrashKind))
				}
				fmt.Fprintln(w, line)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&history, "history", 7, "number of recent days to list")
	return cmd
}
