package simulation

import (
	"time"

	"semester/internal/domain/activity"
)

const (
	MinEnergy = 0
	MaxEnergy = 100
	MinStress = 0
	MaxStress = 100

	DefaultHoursPerDay  = 24
	DefaultTickInterval = 3 * time.Second

	RestStressReliefPerHour = 0.5

	SleepDeprivationHours        = 4
	SleepDeprivationEnergyPerDay = 10
	SleepDeprivationStressPerDay = 20
	LowSleepHours                = 6

	RecoveryDays            = 3
	DefaultRecoveryInterval = 3 * time.Second
	ExhaustionEnergyBonus   = 60
	ExhaustionStressRelief  = 30
	BurnoutEnergyBonus      = 50
	BurnoutStressRelief     = 50

	LowEnergyWarnThreshold  = 20
	HighStressWarnThreshold = 80

	AllocationTotalPercent = 100
	AllocationSumTolerance = 0.01
	MinAllocationPercent   = 0
	MaxAllocationPercent   = 100
	HoursPerWeek           = 168
)

type Rate struct {
	Energy    float64
	Stress    float64
	Knowledge float64
	Social    float64
	Money     float64
}

// BaseRates are per-hour resource changes for an unmodified character.
var BaseRates = map[activity.Activity]Rate{
	activity.Study:    {Energy: -0.1, Stress: 0.1, Knowledge: 5.1},
	activity.Work:     {Energy: -0.1, Stress: 0.1, Knowledge: 0.1, Money: 1.0},
	activity.Social:   {Stress: -0.1, Knowledge: 0.1, Social: 1.0, Money: -0.4},
	activity.Rest:     {Energy: 0.1},
	activity.Exercise: {Social: 0.1},
}
