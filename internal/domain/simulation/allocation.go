package simulation

import (
	"fmt"
	"math"

	"semester/internal/domain/activity"
)

type TimeAllocation struct {
	Study    float64 `json:"study"`
	Work     float64 `json:"work"`
	Social   float64 `json:"social"`
	Rest     float64 `json:"rest"`
	Exercise float64 `json:"exercise"`
}

func DefaultAllocation() TimeAllocation {
	return TimeAllocation{Study: 40, Work: 25, Social: 15, Rest: 15, Exercise: 5}
}

// GenerateRecoveryAllocation is the forced schedule while a crash is active.
func GenerateRecoveryAllocation() TimeAllocation {
	return TimeAllocation{Rest: 100}
}

func (a TimeAllocation) Percent(act activity.Activity) float64 {
	switch act {
	case activity.Study:
		return a.Study
	case activity.Work:
		return a.Work
	case activity.Social:
		return a.Social
	case activity.Rest:
		return a.Rest
	case activity.Exercise:
		return a.Exercise
	default:
		return 0
	}
}

func (a TimeAllocation) With(act activity.Activity, percent float64) TimeAllocation {
	switch act {
	case activity.Study:
		a.Study = percent
	case activity.Work:
		a.Work = percent
	case activity.Social:
		a.Social = percent
	case activity.Rest:
		a.Rest = percent
	case activity.Exercise:
		a.Exercise = percent
	}
	return a
}

func (a TimeAllocation) Sum() float64 {
	return a.Study + a.Work + a.Social + a.Rest + a.Exercise
}

// InRange reports whether every field is a finite percentage. The sum is not
// checked.
func (a TimeAllocation) InRange() bool {
	for _, act := range activity.All {
		p := a.Percent(act)
		if !isFinite(p) || p < MinAllocationPercent || p > MaxAllocationPercent {
			return false
		}
	}
	return true
}

func PercentToHoursPerDay(percent float64) float64 {
	return percent / 100 * DefaultHoursPerDay
}

func PercentToHoursPerWeek(percent float64) float64 {
	return percent / 100 * HoursPerWeek
}

type Severity string

const (
	SeverityOK      Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Validation struct {
	Valid    bool     `json:"valid"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message,omitempty"`
}

// ValidateAllocation gates play: every field must be a finite percentage and
// the total must be 100 within AllocationSumTolerance.
func ValidateAllocation(a TimeAllocation) Validation {
	for _, act := range activity.All {
		p := a.Percent(act)
		if !isFinite(p) || p < MinAllocationPercent || p > MaxAllocationPercent {
			return Validation{
				Valid:    false,
				Severity: SeverityError,
				Message:  fmt.Sprintf("%s must be between 0%% and 100%%", act),
			}
		}
	}
	total := a.Sum()
	switch {
	case total > AllocationTotalPercent+AllocationSumTolerance:
		return Validation{
			Valid:    false,
			Severity: SeverityError,
			Message:  fmt.Sprintf("Total: %.1f%% - Reduce allocations to ≤ 100%%", total),
		}
	case total < AllocationTotalPercent-AllocationSumTolerance:
		return Validation{
			Valid:    false,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("Total: %.1f%% - Allocate the remaining %.1f%%", total, AllocationTotalPercent-total),
		}
	default:
		return Validation{Valid: true, Severity: SeverityOK, Message: fmt.Sprintf("Total: %.1f%%", math.Round(total*10)/10)}
	}
}

func ValidateSleep(restPercent float64) Validation {
	sleepHours := PercentToHoursPerDay(restPercent)
	switch {
	case sleepHours < SleepDeprivationHours:
		return Validation{
			Valid:    false,
			Severity: SeverityError,
			Message: fmt.Sprintf("Severe sleep deprivation! (%.1f hrs/day) → Energy -%d, Stress +%d per day",
				sleepHours, SleepDeprivationEnergyPerDay, SleepDeprivationStressPerDay),
		}
	case sleepHours < LowSleepHours:
		return Validation{
			Valid:    true,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("Low sleep (%.1f hrs/day) - Consider more rest", sleepHours),
		}
	default:
		return Validation{Valid: true, Severity: SeverityOK}
	}
}
