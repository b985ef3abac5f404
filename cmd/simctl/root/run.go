package root

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"semester/internal/app/session"
	"semester/internal/app/tick"
	"semester/internal/ui"
)

func newRunCmd(opts *options) *cobra.Command {
	var (
		days     int
		realtime bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Advance the simulation by a number of days",
		Long: "run advances the simulation. By default days are simulated back to back; " +
			"with --realtime the scheduler ticks on the configured interval until the days " +
			"have passed or the process is interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return fmt.Errorf("--days must be positive")
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			e, cleanup, err := openSession(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			if realtime {
				return runRealtime(ctx, cmd, e, days)
			}
			return runFast(ctx, cmd, e, days)
		},
	}
	cmd.Flags().IntVarP(&days, "days", "n", 1, "days to simulate")
	cmd.Flags().BoolVar(&realtime, "realtime", false, "tick on the configured interval")
	return cmd
}

func runFast(ctx context.Context, cmd *cobra.Command, e *env, days int) error {
	w := cmd.OutOrStdout()
	if !e.session.CanPlay(ctx) {
		st, err := e.session.Status(ctx)
		if err != nil {
			return err
		}
		printStatus(w, st)
		return session.ErrCannotPlay
	}
	for i := 0; i < days; i++ {
		if ctx.Err() != nil {
			return nil
		}
		resp, err := e.session.TickOnce(ctx)
		if err != nil {
			return err
		}
		printTick(cmd, resp)
		if resp.Crashed {
			fmt.Fprintln(w, ui.Warn.Render(fmt.Sprintf("%s recovery started, run again once it completes", ui.IconRecover)))
			return nil
		}
	}
	return nil
}

func runRealtime(ctx context.Context, cmd *cobra.Command, e *env, days int) error {
	w := cmd.OutOrStdout()
	st, err := e.session.Status(ctx)
	if err != nil {
		return err
	}
	target := st.Day + days
	if err := e.session.Play(ctx); err != nil {
		return err
	}
	defer e.session.Pause()

	interval := e.cfg.TickInterval()
	fmt.Fprintln(w, ui.Muted.Render(fmt.Sprintf("ticking every %s until day %d (ctrl-c to stop)", interval, target)))

	poll := time.NewTicker(interval / 4)
	defer poll.Stop()
	lastDay := st.Day
	announced := false
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-poll.C:
		}
		st, err := e.session.Status(ctx)
		if err != nil {
			return err
		}
		if st.Day != lastDay {
			lastDay = st.Day
			fmt.Fprintln(w, ui.LabelValue(fmt.Sprintf("Day %d", st.Day), st.Date))
		}
		switch {
		case st.Day >= target:
			printStatus(w, st)
			return nil
		case st.Phase == session.PhaseRecovering:
			if !announced {
				announced = true
				printStatus(w, st)
				fmt.Fprintln(w, ui.Warn.Render(ui.IconRecover+" crashed, waiting for recovery"))
			}
		case announced && st.Phase == session.PhaseStopped:
			announced = false
			fmt.Fprintln(w, ui.Good.Render(ui.IconOK+" recovered, resuming"))
			if err := e.session.Play(ctx); err != nil {
				return err
			}
		case !st.Running:
			printStatus(w, st)
			if st.Error != "" {
				return errors.New(st.Error)
			}
			return nil
		}
	}
}

func printTick(cmd *cobra.Command, resp tick.Response) {
	w := cmd.OutOrStdout()
	d := resp.Result.ResourceDeltas
	fmt.Fprintf(w, "%s energy %s stress %s knowledge %s social %s money %s\n",
		ui.Key.Render(fmt.Sprintf("day %3d", resp.State.Day)),
		ui.Delta(d.Energy, false), ui.Delta(d.Stress, true), ui.Delta(d.Knowledge, false), ui.Delta(d.Social, false), ui.Delta(d.Money, false))
	if resp.Crashed {
		fmt.Fprintln(w, ui.Bad.Render(fmt.Sprintf("%s crashed from %s", ui.IconCrash, resp.Result.CrashConditions.CrashKind)))
	}
}
