package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"semester/internal/app/ports"
	"semester/internal/app/recovery"
	"semester/internal/app/scheduler"
	"semester/internal/app/tick"
	"semester/internal/domain/calendar"
	"semester/internal/domain/simulation"
	"semester/internal/platform/logging"
)

type CrashHandler func(ctx context.Context, kind simulation.CrashKind)

type RecoveryHandler func(ctx context.Context, bonus simulation.RecoveryBonus)

type Config struct {
	PlayerID         string
	Tick             tick.UseCase
	Recovery         recovery.UseCase
	TxManager        ports.TxManager
	StateRepo        ports.SimulationStateRepository
	Scheduler        *scheduler.Scheduler
	RecoveryRunner   *recovery.Runner
	Calendar         calendar.Calendar
	InitialResources simulation.Resources
	Logger           *log.Logger
	Now              func() time.Time
}

// Controller owns one player's play session: the tick scheduler, the
// recovery countdown and the callbacks handed in by collaborators.
type Controller struct {
	cfg    Config
	base   context.Context
	logger *log.Logger

	// tickMu serialises scheduled and manual ticks.
	tickMu sync.Mutex

	mu          sync.Mutex
	onCrash     CrashHandler
	onRecovered RecoveryHandler
	narrative   ports.NarrativeEvaluator
	corrupt     error

	lastDay atomic.Int64
}

// New wires a controller. base bounds the lifetime of the background loops
// started by Play and by crash recovery.
func New(base context.Context, cfg Config) *Controller {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = scheduler.New(scheduler.Config{Name: "simulation", Logger: cfg.Logger})
	}
	if cfg.RecoveryRunner == nil {
		cfg.RecoveryRunner = recovery.NewRunner(scheduler.Config{Logger: cfg.Logger})
	}
	if cfg.Calendar == (calendar.Calendar{}) {
		cfg.Calendar = calendar.DefaultCalendar()
	}
	if cfg.InitialResources == (simulation.Resources{}) {
		cfg.InitialResources = simulation.DefaultResources()
	}
	c := &Controller{
		cfg:    cfg,
		base:   base,
		logger: logging.OrDiscard(cfg.Logger).With("player", cfg.PlayerID),
	}
	cfg.Scheduler.SetGate(func() bool { return c.playable(base) == nil })
	c.rebuild()
	return c
}

func (c *Controller) PlayerID() string {
	return c.cfg.PlayerID
}

// Resume seeds a fresh state for a new player and restarts a recovery
// countdown that was active when the state was last saved.
func (c *Controller) Resume(ctx context.Context) error {
	st, err := c.cfg.StateRepo.GetByPlayerID(ctx, c.cfg.PlayerID)
	if errors.Is(err, ports.ErrNotFound) {
		st, err = c.seed(ctx)
	}
	if err != nil {
		return err
	}
	c.lastDay.Store(int64(st.State.Day))
	if st.RecoveryMachine().Active() && !c.cfg.RecoveryRunner.Active() {
		c.startRecovery()
	}
	return nil
}

func (c *Controller) seed(ctx context.Context) (ports.PlayerState, error) {
	state := simulation.NewSimulationState()
	state.Resources = c.cfg.InitialResources
	st := ports.PlayerState{
		PlayerID:  c.cfg.PlayerID,
		State:     state,
		Version:   1,
		UpdatedAt: c.cfg.Now(),
	}
	if err := c.cfg.StateRepo.SaveWithVersion(ctx, st, 0); err != nil {
		return ports.PlayerState{}, err
	}
	c.logger.Info("seeded new player state")
	return st, nil
}

func (c *Controller) Play(ctx context.Context) error {
	if err := c.playable(ctx); err != nil {
		return err
	}
	if !c.cfg.Scheduler.Start(c.base) {
		return ErrCannotPlay
	}
	return nil
}

func (c *Controller) Pause() {
	c.cfg.Scheduler.Stop()
}

// Toggle flips between running and stopped and reports the new running state.
func (c *Controller) Toggle(ctx context.Context) (bool, error) {
	if c.cfg.Scheduler.IsRunning() {
		c.Pause()
		return false, nil
	}
	if err := c.Play(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Controller) IsRunning() bool {
	return c.cfg.Scheduler.IsRunning()
}

// CanPlay reports whether Play would start the scheduler.
func (c *Controller) CanPlay(ctx context.Context) bool {
	return c.playable(ctx) == nil
}

func (c *Controller) playable(ctx context.Context) error {
	c.mu.Lock()
	corrupt := c.corrupt
	c.mu.Unlock()
	if corrupt != nil {
		return corrupt
	}
	st, err := c.cfg.StateRepo.GetByPlayerID(ctx, c.cfg.PlayerID)
	if err != nil {
		return err
	}
	if st.RecoveryMachine().Active() {
		return ErrRecoveryActive
	}
	if st.State.IsPaused {
		return fmt.Errorf("%w: time is paused", ErrCannotPlay)
	}
	if err := st.State.Resources.Validate(); err != nil {
		return err
	}
	if v := simulation.ValidateAllocation(st.State.Allocations); !v.Valid {
		return fmt.Errorf("%w: %s", ErrInvalidAllocation, v.Message)
	}
	return nil
}

// TickOnce runs a single tick outside the scheduler.
func (c *Controller) TickOnce(ctx context.Context) (tick.Response, error) {
	c.mu.Lock()
	corrupt := c.corrupt
	onCrash := c.onCrash
	narrative := c.narrative
	c.mu.Unlock()
	if corrupt != nil {
		return tick.Response{}, corrupt
	}

	out, outcome, err := c.process(ctx, onCrash, narrative)
	if err != nil {
		return tick.Response{}, err
	}
	if outcome.TriggerNarrative && narrative != nil {
		c.evaluateNarrative(ctx, narrative)
	}
	return out, nil
}

// SetCrashHandler replaces the crash callback. A running scheduler picks up
// the new handler on its next fire.
func (c *Controller) SetCrashHandler(fn CrashHandler) {
	c.mu.Lock()
	c.onCrash = fn
	c.mu.Unlock()
	c.rebuild()
}

func (c *Controller) SetRecoveryHandler(fn RecoveryHandler) {
	c.mu.Lock()
	c.onRecovered = fn
	c.mu.Unlock()
}

func (c *Controller) SetNarrativeEvaluator(ev ports.NarrativeEvaluator) {
	c.mu.Lock()
	c.narrative = ev
	c.mu.Unlock()
	c.rebuild()
}

// rebuild refreshes the scheduler cells from the current dependencies.
func (c *Controller) rebuild() {
	c.mu.Lock()
	onCrash := c.onCrash
	narrative := c.narrative
	c.mu.Unlock()

	c.cfg.Scheduler.SetTick(func(ctx context.Context) scheduler.TickOutcome {
		_, outcome, err := c.process(ctx, onCrash, narrative)
		if err != nil {
			c.logger.Warn("scheduled tick failed", "err", err)
		}
		return outcome
	})
	if narrative == nil {
		c.cfg.Scheduler.SetNarrative(nil)
		return
	}
	c.cfg.Scheduler.SetNarrative(func(ctx context.Context) {
		c.evaluateNarrative(ctx, narrative)
	})
}

func (c *Controller) process(ctx context.Context, onCrash CrashHandler, narrative ports.NarrativeEvaluator) (tick.Response, scheduler.TickOutcome, error) {
	c.tickMu.Lock()
	defer c.tickMu.Unlock()

	out, err := c.cfg.Tick.Execute(ctx, tick.Request{PlayerID: c.cfg.PlayerID})
	switch {
	case errors.Is(err, simulation.ErrCorruptState):
		c.markCorrupt(err)
		return tick.Response{}, scheduler.TickOutcome{Halt: true}, err
	case errors.Is(err, tick.ErrRecoveryActive):
		return tick.Response{}, scheduler.TickOutcome{Halt: true}, ErrRecoveryActive
	case errors.Is(err, ports.ErrNotFound):
		return tick.Response{}, scheduler.TickOutcome{Halt: true}, err
	case err != nil:
		return tick.Response{}, scheduler.TickOutcome{}, err
	}

	c.lastDay.Store(int64(out.State.Day))
	if out.Crashed {
		// Stop cancels the scheduler's loop context and its pending follow-ups.
		hctx := context.WithoutCancel(ctx)
		c.cfg.Scheduler.Stop()
		c.startRecovery()
		if onCrash != nil {
			onCrash(hctx, out.Result.CrashConditions.CrashKind)
		}
		if out.Result.ShouldTriggerNarrativeEvaluation && narrative != nil {
			c.evaluateNarrative(hctx, narrative)
		}
		return out, scheduler.TickOutcome{Halt: true}, nil
	}
	return out, scheduler.TickOutcome{TriggerNarrative: out.Result.ShouldTriggerNarrativeEvaluation}, nil
}

func (c *Controller) markCorrupt(err error) {
	c.mu.Lock()
	c.corrupt = err
	c.mu.Unlock()
	c.cfg.Scheduler.Stop()
	c.logger.Error("simulation halted on corrupt state", "err", err)
}

func (c *Controller) startRecovery() {
	c.cfg.RecoveryRunner.Begin(c.base, func(ctx context.Context) bool {
		out, err := c.cfg.Recovery.Execute(ctx, recovery.Request{PlayerID: c.cfg.PlayerID})
		if err != nil {
			c.logger.Warn("recovery step failed", "err", err)
			return errors.Is(err, ports.ErrNotFound)
		}
		if !out.Completed {
			return false
		}
		c.mu.Lock()
		handler := c.onRecovered
		c.mu.Unlock()
		if handler != nil && out.Bonus != nil {
			handler(ctx, *out.Bonus)
		}
		return true
	})
}

func (c *Controller) evaluateNarrative(ctx context.Context, ev ports.NarrativeEvaluator) {
	day := int(c.lastDay.Load())
	req := ports.NarrativeRequest{PlayerID: c.cfg.PlayerID, Day: day, Date: c.cfg.Calendar.Format(day)}
	if err := ev.Evaluate(ctx, req); err != nil {
		c.logger.Warn("narrative evaluation failed", "day", day, "err", err)
	}
}

// SetAllocation stores an allocation whose fields are all in range, even if
// the total is not yet 100. The returned validation says whether it can be
// played.
func (c *Controller) SetAllocation(ctx context.Context, a simulation.TimeAllocation) (simulation.Validation, error) {
	v := simulation.ValidateAllocation(a)
	if !a.InRange() {
		return v, fmt.Errorf("%w: %s", ErrInvalidAllocation, v.Message)
	}
	err := c.update(ctx, func(st *ports.PlayerState) error {
		if st.RecoveryMachine().Active() {
			return ErrRecoveryActive
		}
		st.State.Allocations = a
		return nil
	})
	if err != nil {
		return v, err
	}
	if !v.Valid {
		c.cfg.Scheduler.Stop()
	}
	return v, nil
}

// SetPaused is the external time pause. A paused session cannot play and
// ticks run as no-ops.
func (c *Controller) SetPaused(ctx context.Context, paused bool) error {
	err := c.update(ctx, func(st *ports.PlayerState) error {
		st.State.IsPaused = paused
		return nil
	})
	if err != nil {
		return err
	}
	if paused {
		c.cfg.Scheduler.Stop()
	}
	return nil
}

// ResetResources restores the starting resources and clears a corrupt halt.
func (c *Controller) ResetResources(ctx context.Context) error {
	err := c.update(ctx, func(st *ports.PlayerState) error {
		st.State.Resources = c.cfg.InitialResources
		return nil
	})
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.corrupt = nil
	c.mu.Unlock()
	c.logger.Info("resources reset")
	return nil
}

func (c *Controller) update(ctx context.Context, fn func(st *ports.PlayerState) error) error {
	return c.cfg.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := c.cfg.StateRepo.GetByPlayerID(txCtx, c.cfg.PlayerID)
		if err != nil {
			return err
		}
		next := current
		if err := fn(&next); err != nil {
			return err
		}
		next.Version = current.Version + 1
		next.UpdatedAt = c.cfg.Now()
		return c.cfg.StateRepo.SaveWithVersion(txCtx, next, current.Version)
	})
}

func (c *Controller) Status(ctx context.Context) (Status, error) {
	st, err := c.cfg.StateRepo.GetByPlayerID(ctx, c.cfg.PlayerID)
	if err != nil {
		return Status{}, err
	}
	c.mu.Lock()
	corrupt := c.corrupt
	c.mu.Unlock()

	machine := st.RecoveryMachine()
	running := c.cfg.Scheduler.IsRunning()
	out := Status{
		PlayerID:   c.cfg.PlayerID,
		Day:        st.State.Day,
		Date:       c.cfg.Calendar.Format(st.State.Day),
		Allocation: st.State.Allocations,
		Running:    running,
		Paused:     st.State.IsPaused,
		CanPlay:    c.playable(ctx) == nil,
		Recovery:   RecoveryStatus{Kind: machine.Kind(), DaysRemaining: machine.DaysRemaining()},
		Version:    st.Version,
	}

	// Non-finite values cannot be encoded and are reported through Error.
	if err := st.State.Resources.Validate(); err != nil {
		if corrupt == nil {
			corrupt = err
		}
	} else {
		res := st.State.Resources
		out.Resources = &res
	}

	switch {
	case corrupt != nil:
		out.Phase = PhaseCorrupt
		out.Error = corrupt.Error()
	case machine.Active():
		out.Phase = PhaseRecovering
	case running:
		out.Phase = PhaseRunning
	case st.State.IsPaused:
		out.Phase = PhasePaused
	default:
		out.Phase = PhaseStopped
	}

	out.Messages = statusMessages(st, machine)
	return out, nil
}

func statusMessages(st ports.PlayerState, machine simulation.Recovery) []simulation.Validation {
	var msgs []simulation.Validation
	if machine.Active() {
		msgs = append(msgs, simulation.Validation{
			Valid:    false,
			Severity: simulation.SeverityWarning,
			Message:  fmt.Sprintf("Recovering from %s - %d days remaining", machine.Kind(), machine.DaysRemaining()),
		})
		return msgs
	}
	if v := simulation.ValidateAllocation(st.State.Allocations); v.Message != "" {
		msgs = append(msgs, v)
	}
	if v := simulation.ValidateSleep(st.State.Allocations.Rest); v.Message != "" {
		msgs = append(msgs, v)
	}
	if v := simulation.CheckCrashWarnings(st.State.Resources); v.Message != "" {
		msgs = append(msgs, v)
	}
	return msgs
}

func (c *Controller) FormattedDate(ctx context.Context) (string, error) {
	st, err := c.cfg.StateRepo.GetByPlayerID(ctx, c.cfg.PlayerID)
	if err != nil {
		return "", err
	}
	return c.cfg.Calendar.Format(st.State.Day), nil
}

// Close stops both loops.
func (c *Controller) Close() {
	c.cfg.Scheduler.Stop()
	c.cfg.RecoveryRunner.Cancel()
}
