package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"semester/internal/domain/activity"
	"semester/internal/domain/simulation"
	"semester/internal/ui"
)

func newAllocateCmd(opts *options) *cobra.Command {
	values := map[activity.Activity]*float64{}
	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Set the share of each day spent on every activity",
		Example: "  simctl allocate --study 40 --work 25 --social 15 --rest 15 --exercise 5\n" +
			"  simctl allocate --rest 30 --study 25",
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
			next := st.Allocation
			changed := false
			for _, act := range activity.All {
				if cmd.Flags().Changed(string(act)) {
					next = next.With(act, *values[act])
					changed = true
				}
			}
			if !changed {
				fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Allocation", ui.Allocation(next)))
				fmt.Fprintln(cmd.OutOrStdout(), ui.Validation(simulation.ValidateAllocation(next)))
				return nil
			}

			v, err := e.session.SetAllocation(ctx, next)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Allocation", ui.Allocation(next)))
			fmt.Fprintln(cmd.OutOrStdout(), ui.Validation(v))
			if sleep := simulation.ValidateSleep(next.Rest); sleep.Message != "" {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Validation(sleep))
			}
			return nil
		},
	}
	for _, act := range activity.All {
		values[act] = cmd.Flags().Float64(string(act), 0, fmt.Sprintf("percent of the day spent on %s", act))
	}
	return cmd
}
