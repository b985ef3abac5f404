package root

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"semester/internal/domain/calendar"
	"semester/internal/ui"
)

func newDateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "date [day]",
		Short: "Print the calendar date of the current or a given day",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cal := calendar.DefaultCalendar()
			if len(args) == 1 {
				day, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("day must be a number: %w", err)
				}
				printDate(cmd, cal, day)
				return nil
			}

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
			printDate(cmd, cal, st.Day)
			return nil
		},
	}
}

func printDate(cmd *cobra.Command, cal calendar.Calendar, day int) {
	line := fmt.Sprintf("Day %d: %s", day, cal.Format(day))
	if week, ok := cal.Week(day); ok {
		line += ui.Muted.Render(fmt.Sprintf(" (week %d)", week))
	} else {
		line += ui.Muted.Render(" (semester over)")
	}
	if cal.IsWeekend(day) {
		line += ui.Muted.Render(" weekend")
	}
	fmt.Fprintln(cmd.OutOrStdout(), line)
}
