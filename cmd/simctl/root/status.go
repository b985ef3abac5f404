package root

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"semester/internal/app/session"
	"semester/internal/ui"
)

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show day, resources and allocation",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			e, cleanup, err := openSession(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			st, err := e.session.Status(ctx)
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), st)
			return nil
		},
	}
}

func printStatus(w io.Writer, st session.Status) {
	fmt.Fprintln(w, ui.Heading(ui.IconDay, fmt.Sprintf("Day %d - %s", st.Day, st.Date)))
	fmt.Fprintln(w, ui.LabelValue("Player", st.PlayerID))
	fmt.Fprintln(w, ui.LabelValue("Phase", phaseText(st)))
	if st.Resources != nil {
		fmt.Fprintln(w, ui.Resources(*st.Resources))
	}
	fmt.Fprintln(w, ui.LabelValue("Allocation", ui.Allocation(st.Allocation)))
	if st.Error != "" {
		fmt.Fprintln(w, ui.Bad.Render(ui.IconError+" "+st.Error))
	}
	for _, m := range st.Messages {
		fmt.Fprintln(w, ui.Validation(m))
	}
}

func phaseText(st session.Status) string {
	switch st.Phase {
	case session.PhaseCorrupt:
		return ui.Bad.Render(string(st.Phase))
	case session.PhaseRecovering:
		return ui.Warn.Render(fmt.Sprintf("%s from %s (%d days left)", st.Phase, st.Recovery.Kind, st.Recovery.DaysRemaining))
	case session.PhaseRunning:
		return ui.Good.Render(string(st.Phase))
	default:
		return ui.Muted.Render(string(st.Phase))
	}
}
