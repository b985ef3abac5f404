package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"semester/internal/ui"
)

func newResetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore starting resources and clear a corrupt state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			e, cleanup, err := openSession(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := e.session.ResetResources(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconOK+" resources reset"))
			st, err := e.session.Status(ctx)
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), st)
			return nil
		},
	}
}
