package recovery

import (
	"context"

	"semester/internal/app/scheduler"
)

// StepFunc advances recovery by one day and reports whether it finished.
type StepFunc func(ctx context.Context) (done bool)

// Runner drives the recovery countdown on its own interval, separate from
// the simulation scheduler.
type Runner struct {
	sched *scheduler.Scheduler
}

func NewRunner(cfg scheduler.Config) *Runner {
	if cfg.Name == "" {
		cfg.Name = "recovery"
	}
	cfg.Gate = nil
	return &Runner{sched: scheduler.New(cfg)}
}

func (r *Runner) Begin(ctx context.Context, step StepFunc) bool {
	r.sched.Stop()
	r.sched.SetTick(func(ctx context.Context) scheduler.TickOutcome {
		return scheduler.TickOutcome{Halt: step(ctx)}
	})
	return r.sched.Start(ctx)
}

func (r *Runner) Cancel() {
	r.sched.Stop()
}

func (r *Runner) Active() bool {
	return r.sched.IsRunning()
}
