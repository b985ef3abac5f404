package simulation

type CrashKind string

const (
	CrashNone       CrashKind = ""
	CrashExhaustion CrashKind = "exhaustion"
	CrashBurnout    CrashKind = "burnout"
)

type CrashConditions struct {
	HasEnergyDepletion bool      `json:"has_energy_depletion"`
	HasStressBurnout   bool      `json:"has_stress_burnout"`
	CrashKind          CrashKind `json:"crash_kind,omitempty"`
}

func (c CrashConditions) Crashed() bool {
	return c.CrashKind != CrashNone
}

// EvaluateCrash inspects clamped resources. Exhaustion wins when both
// conditions hold.
func EvaluateCrash(r Resources) CrashConditions {
	out := CrashConditions{
		HasEnergyDepletion: r.Energy <= MinEnergy,
		HasStressBurnout:   r.Stress >= MaxStress,
	}
	switch {
	case out.HasEnergyDepletion:
		out.CrashKind = CrashExhaustion
	case out.HasStressBurnout:
		out.CrashKind = CrashBurnout
	}
	return out
}

func CheckCrashWarnings(r Resources) Validation {
	switch {
	case r.Energy <= MinEnergy:
		return Validation{Valid: false, Severity: SeverityError, Message: "Energy depleted! You've crashed from exhaustion!"}
	case r.Stress >= MaxStress:
		return Validation{Valid: false, Severity: SeverityError, Message: "Maximum stress reached! You've crashed from burnout!"}
	case r.Energy < LowEnergyWarnThreshold:
		return Validation{Valid: true, Severity: SeverityWarning, Message: "Low energy - consider more rest"}
	case r.Stress > HighStressWarnThreshold:
		return Validation{Valid: true, Severity: SeverityWarning, Message: "High stress - consider reducing workload"}
	default:
		return Validation{Valid: true, Severity: SeverityOK}
	}
}
