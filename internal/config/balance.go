package config

import (
	"time"

	"semester/internal/domain/simulation"
)

type Balance struct {
	Name             string
	TickInterval     time.Duration
	RecoveryInterval time.Duration
	HoursPerDay      float64
	InitialResources simulation.Resources
}

func DefaultBalance() Balance {
	return Balance{
		Name:             "default",
		TickInterval:     simulation.DefaultTickInterval,
		RecoveryInterval: simulation.DefaultRecoveryInterval,
		HoursPerDay:      simulation.DefaultHoursPerDay,
		InitialResources: simulation.DefaultResources(),
	}
}

// Relaxed gives slower days and a calmer start.
func Relaxed() Balance {
	b := DefaultBalance()
	b.Name = "relaxed"
	b.TickInterval = 5 * time.Second
	b.InitialResources.Energy = 90
	b.InitialResources.Stress = 10
	b.InitialResources.Money = 250
	return b
}

func Intense() Balance {
	b := DefaultBalance()
	b.Name = "intense"
	b.TickInterval = 1500 * time.Millisecond
	b.RecoveryInterval = 2 * time.Second
	b.InitialResources.Energy = 60
	b.InitialResources.Stress = 40
	b.InitialResources.Money = 75
	return b
}

func PresetByName(name string) Balance {
	switch name {
	case "relaxed":
		return Relaxed()
	case "intense":
		return Intense()
	default:
		return DefaultBalance()
	}
}
