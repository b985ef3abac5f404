package simulation

import (
	"errors"
	"fmt"
	"math"
)

var ErrNonFiniteResource = errors.New("non-finite resource value")

type Resources struct {
	Energy    float64 `json:"energy"`
	Stress    float64 `json:"stress"`
	Knowledge float64 `json:"knowledge"`
	Social    float64 `json:"social"`
	Money     float64 `json:"money"`
}

// NewResources validates and clamps a resource record. It refuses non-finite
// values instead of coercing them.
func NewResources(energy, stress, knowledge, social, money float64) (Resources, error) {
	r := Resources{Energy: energy, Stress: stress, Knowledge: knowledge, Social: social, Money: money}
	if field, v, ok := r.firstNonFinite(); ok {
		return Resources{}, fmt.Errorf("%w: %s=%v", ErrNonFiniteResource, field, v)
	}
	return r.clamped(), nil
}

func DefaultResources() Resources {
	return Resources{Energy: 75, Stress: 25, Knowledge: 100, Social: 200, Money: 150}
}

func (r Resources) Validate() error {
	if field, v, ok := r.firstNonFinite(); ok {
		return &CorruptStateError{Stage: StageEntry, Field: field, Value: v}
	}
	return nil
}

// Apply adds a delta and clamps every field to its valid range. It is the
// only place where resources are bounded.
func (r Resources) Apply(d ResourceDelta) Resources {
	next := Resources{
		Energy:    r.Energy + d.Energy,
		Stress:    r.Stress + d.Stress,
		Knowledge: r.Knowledge + d.Knowledge,
		Social:    r.Social + d.Social,
		Money:     r.Money + d.Money,
	}
	return next.clamped()
}

func (r Resources) clamped() Resources {
	return Resources{
		Energy:    clamp(r.Energy, MinEnergy, MaxEnergy),
		Stress:    clamp(r.Stress, MinStress, MaxStress),
		Knowledge: math.Max(0, r.Knowledge),
		Social:    math.Max(0, r.Social),
		Money:     math.Max(0, r.Money),
	}
}

func (r Resources) fields() [5]namedValue {
	return [5]namedValue{
		{"energy", r.Energy},
		{"stress", r.Stress},
		{"knowledge", r.Knowledge},
		{"social", r.Social},
		{"money", r.Money},
	}
}

func (r Resources) firstNonFinite() (string, float64, bool) {
	for _, f := range r.fields() {
		if !isFinite(f.value) {
			return f.name, f.value, true
		}
	}
	return "", 0, false
}

type ResourceDelta struct {
	Energy    float64 `json:"energy"`
	Stress    float64 `json:"stress"`
	Knowledge float64 `json:"knowledge"`
	Social    float64 `json:"social"`
	Money     float64 `json:"money"`
}

// IsFinite reports whether the delta can be applied. A delta with a NaN or
// infinite field is the calculator's invalid marker.
func (d ResourceDelta) IsFinite() bool {
	return isFinite(d.Energy) && isFinite(d.Stress) && isFinite(d.Knowledge) && isFinite(d.Social) && isFinite(d.Money)
}

func (d ResourceDelta) IsZero() bool {
	return d == ResourceDelta{}
}

type namedValue struct {
	name  string
	value float64
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
