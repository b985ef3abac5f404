package simulation

import (
	"time"

	"github.com/charmbracelet/log"

	"semester/internal/domain/character"
)

type Options struct {
	HoursPerDay              float64
	DisableCrashDetection    bool
	DisableNarrativeTriggers bool
	TickInterval             time.Duration
}

func DefaultOptions() Options {
	return Options{
		HoursPerDay:  DefaultHoursPerDay,
		TickInterval: DefaultTickInterval,
	}
}

func (o Options) withDefaults() Options {
	if o.HoursPerDay <= 0 || !isFinite(o.HoursPerDay) {
		o.HoursPerDay = DefaultHoursPerDay
	}
	if o.TickInterval <= 0 {
		o.TickInterval = DefaultTickInterval
	}
	return o
}

type Result struct {
	NewDay                           int             `json:"new_day"`
	ResourceDeltas                   ResourceDelta   `json:"resource_deltas"`
	NewResources                     Resources       `json:"new_resources"`
	CrashConditions                  CrashConditions `json:"crash_conditions"`
	ShouldTriggerNarrativeEvaluation bool            `json:"should_trigger_narrative_evaluation"`
	Invalid                          bool            `json:"invalid,omitempty"`
	Err                              error           `json:"-"`
}

// Engine is stateless. One instance is built at startup and handed to every
// consumer.
type Engine struct {
	Logger *log.Logger
}

func NewEngine(logger *log.Logger) Engine {
	return Engine{Logger: logger}
}

func (e Engine) ProcessTick(state SimulationState, c character.Character, opts Options) Result {
	opts = opts.withDefaults()

	if state.IsPaused {
		return Result{
			NewDay:       state.Day,
			NewResources: state.Resources,
		}
	}

	if err := state.Resources.Validate(); err != nil {
		return e.invalid(state, err)
	}

	deltas := ComputeDeltas(state.Allocations, c, opts.HoursPerDay)
	if !deltas.IsFinite() {
		field, v := firstNonFiniteDelta(deltas)
		return e.invalid(state, &CorruptStateError{Stage: StageDelta, Field: field, Value: v})
	}

	next := state.Resources.Apply(deltas)
	if field, v, bad := next.firstNonFinite(); bad {
		return e.invalid(state, &CorruptStateError{Stage: StageApplied, Field: field, Value: v})
	}

	out := Result{
		NewDay:         state.Day + 1,
		ResourceDeltas: deltas,
		NewResources:   next,
	}
	if !opts.DisableCrashDetection {
		out.CrashConditions = EvaluateCrash(next)
	}
	if !opts.DisableNarrativeTriggers {
		out.ShouldTriggerNarrativeEvaluation = out.NewDay != state.Day
	}

	if e.Logger != nil {
		e.Logger.Debug("tick processed",
			"day", out.NewDay,
			"energy", next.Energy,
			"stress", next.Stress,
			"crash", string(out.CrashConditions.CrashKind),
		)
	}
	return out
}

func (e Engine) invalid(state SimulationState, err error) Result {
	if e.Logger != nil {
		e.Logger.Error("tick rejected", "day", state.Day, "err", err)
	}
	return Result{
		NewDay:       state.Day,
		NewResources: state.Resources,
		Invalid:      true,
		Err:          err,
	}
}

// CanProceed reports whether a tick may run at all. gate is the external
// play gate, usually allocation validity.
func (e Engine) CanProceed(state SimulationState, gate bool) bool {
	if state.IsPaused || !gate {
		return false
	}
	if state.Resources.Validate() != nil {
		return false
	}
	return !EvaluateCrash(state.Resources).Crashed()
}

func firstNonFiniteDelta(d ResourceDelta) (string, float64) {
	for _, f := range [5]namedValue{
		{"energy", d.Energy},
		{"stress", d.Stress},
		{"knowledge", d.Knowledge},
		{"social", d.Social},
		{"money", d.Money},
	} {
		if !isFinite(f.value) {
			return f.name, f.value
		}
	}
	return "", 0
}
