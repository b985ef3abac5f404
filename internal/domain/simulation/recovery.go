package simulation

type RecoveryPhase string

const (
	PhaseStable     RecoveryPhase = "stable"
	PhaseRecovering RecoveryPhase = "recovering"
)

// Recovery is the crash lifecycle. A crash enters the countdown directly, so
// the forced allocation and the remaining days exist from the first tick.
type Recovery struct {
	kind          CrashKind
	daysRemaining int
}

func (r Recovery) Phase() RecoveryPhase {
	if r.daysRemaining > 0 {
		return PhaseRecovering
	}
	return PhaseStable
}

func (r Recovery) Active() bool {
	return r.daysRemaining > 0
}

func (r Recovery) CanPlay() bool {
	return !r.Active()
}

func (r Recovery) Kind() CrashKind {
	return r.kind
}

func (r Recovery) DaysRemaining() int {
	return r.daysRemaining
}

// Crash starts recovery. A crash reported while already recovering is
// ignored.
func (r Recovery) Crash(kind CrashKind) Recovery {
	if r.Active() || kind == CrashNone {
		return r
	}
	return Recovery{kind: kind, daysRemaining: RecoveryDays}
}

// AdvanceDay counts one recovery day. The final day returns the bonus to
// apply and the machine goes back to stable.
func (r Recovery) AdvanceDay() (Recovery, *RecoveryBonus) {
	if !r.Active() {
		return r, nil
	}
	if r.daysRemaining > 1 {
		r.daysRemaining--
		return r, nil
	}
	bonus := BonusFor(r.kind)
	return Recovery{}, &bonus
}

func (r Recovery) Reset() Recovery {
	return Recovery{}
}

// RestoreRecovery rebuilds a machine from persisted fields.
func RestoreRecovery(kind CrashKind, daysRemaining int) Recovery {
	if kind == CrashNone || daysRemaining <= 0 {
		return Recovery{}
	}
	if daysRemaining > RecoveryDays {
		daysRemaining = RecoveryDays
	}
	return Recovery{kind: kind, daysRemaining: daysRemaining}
}

type RecoveryBonus struct {
	Kind         CrashKind `json:"kind"`
	EnergyGain   float64   `json:"energy_gain"`
	StressRelief float64   `json:"stress_relief"`
}

func BonusFor(kind CrashKind) RecoveryBonus {
	switch kind {
	case CrashExhaustion:
		return RecoveryBonus{Kind: kind, EnergyGain: ExhaustionEnergyBonus, StressRelief: ExhaustionStressRelief}
	case CrashBurnout:
		return RecoveryBonus{Kind: kind, EnergyGain: BurnoutEnergyBonus, StressRelief: BurnoutStressRelief}
	default:
		return RecoveryBonus{Kind: kind}
	}
}

func (b RecoveryBonus) Apply(r Resources) Resources {
	return r.Apply(ResourceDelta{Energy: b.EnergyGain, Stress: -b.StressRelief})
}
