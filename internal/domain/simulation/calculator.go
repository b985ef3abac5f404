package simulation

import (
	"semester/internal/domain/activity"
	"semester/internal/domain/character"
)

// ComputeDeltas turns a time allocation into resource changes for a tick of
// tickHours. It has no notion of bounds. A non-finite result is returned as
// is and must be rejected by the caller via ResourceDelta.IsFinite.
func ComputeDeltas(allocation TimeAllocation, c character.Character, tickHours float64) ResourceDelta {
	var d ResourceDelta
	for _, act := range activity.All {
		hours := tickHours * (allocation.Percent(act) / 100)
		modifier := character.ResolveModifier(c, act)
		rate := BaseRates[act]

		d.Energy += rate.Energy * hours * modifier
		d.Stress += rate.Stress * hours * (2 - modifier)
		d.Knowledge += rate.Knowledge * hours * modifier
		d.Social += rate.Social * hours * modifier
		d.Money += rate.Money * hours * modifier
	}

	if allocation.Rest > 0 {
		restHours := tickHours * (allocation.Rest / 100)
		d.Stress -= restHours * RestStressReliefPerHour * character.RestQuality(c)
	}

	// Sleep is judged on the daily share of rest, independent of tick length.
	if PercentToHoursPerDay(allocation.Rest) < SleepDeprivationHours {
		dayFraction := tickHours / DefaultHoursPerDay
		d.Energy -= SleepDeprivationEnergyPerDay * dayFraction
		d.Stress += SleepDeprivationStressPerDay * dayFraction
	}

	return d
}

type ActivityStat struct {
	Resource string  `json:"resource"`
	PerHour  float64 `json:"per_hour"`
	Positive bool    `json:"positive"`
}

// ActivityStats lists the effective hourly rate of each resource an activity
// touches for the given character.
func ActivityStats(act activity.Activity, c character.Character) []ActivityStat {
	rate, ok := BaseRates[act]
	if !ok {
		return nil
	}
	modifier := character.ResolveModifier(c, act)
	out := make([]ActivityStat, 0, 5)
	add := func(name string, base, factor float64) {
		if base == 0 {
			return
		}
		v := base * factor
		out = append(out, ActivityStat{Resource: name, PerHour: v, Positive: base > 0})
	}
	add("energy", rate.Energy, modifier)
	add("stress", rate.Stress, 2-modifier)
	add("knowledge", rate.Knowledge, modifier)
	add("social", rate.Social, modifier)
	add("money", rate.Money, modifier)
	return out
}
