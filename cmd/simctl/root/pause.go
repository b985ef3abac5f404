package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"semester/internal/ui"
)

func newPauseCmd(opts *options) *cobra.Command {
	var off bool
	cmd := &cobra.Command{
		Use:   "pause",
		Short: "Pause simulated time (use --off to resume)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			e, cleanup, err := openSession(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := e.session.SetPaused(ctx, !off); err != nil {
				return err
			}
			if off {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render("time resumed"))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render("time paused"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "resume time instead of pausing")
	return cmd
}
