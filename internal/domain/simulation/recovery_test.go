package simulation

import (
	"math"
	"testing"
)

func TestGenerateRecoveryAllocation(t *testing.T) {
	got := GenerateRecoveryAllocation()
	want := TimeAllocation{Study: 0, Work: 0, Social: 0, Rest: 100, Exercise: 0}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestRecovery_CountdownAndExhaustionBonus(t *testing.T) {
	var r Recovery
	if r.Active() || !r.CanPlay() || r.Phase() != PhaseStable {
		t.Fatalf("expected zero value to be stable")
	}

	r = r.Crash(CrashExhaustion)
	if r.Phase() != PhaseRecovering || r.DaysRemaining() != RecoveryDays || r.CanPlay() {
		t.Fatalf("expected three-day countdown after crash, got %+v", r)
	}

	var bonus *RecoveryBonus
	for day := RecoveryDays; day > 1; day-- {
		r, bonus = r.AdvanceDay()
		if bonus != nil {
			t.Fatalf("expected no bonus with %d days left", r.DaysRemaining())
		}
		if r.DaysRemaining() != day-1 {
			t.Fatalf("expected %d days remaining, got %d", day-1, r.DaysRemaining())
		}
	}
	r, bonus = r.AdvanceDay()
	if bonus == nil {
		t.Fatalf("expected bonus on final day")
	}
	if r.Active() || r.Kind() != CrashNone {
		t.Fatalf("expected stable after recovery, got %+v", r)
	}

	got := bonus.Apply(Resources{Energy: 0, Stress: 80, Knowledge: 10})
	if got.Energy != 60 || got.Stress != 50 || got.Knowledge != 10 {
		t.Fatalf("expected energy 60 stress 50, got %+v", got)
	}
}

func TestRecovery_BurnoutBonusIsClamped(t *testing.T) {
	bonus := BonusFor(CrashBurnout)
	got := bonus.Apply(Resources{Energy: 70, Stress: 30})
	if got.Energy != 100 || got.Stress != 0 {
		t.Fatalf("expected clamped 100/0, got %+v", got)
	}
}

func TestRecovery_CrashWhileActiveIsIgnored(t *testing.T) {
	r := Recovery{}.Crash(CrashBurnout)
	r, _ = r.AdvanceDay()
	again := r.Crash(CrashExhaustion)
	if again.Kind() != CrashBurnout || again.DaysRemaining() != r.DaysRemaining() {
		t.Fatalf("expected ongoing burnout recovery to be kept, got %+v", again)
	}
	if (Recovery{}).Crash(CrashNone).Active() {
		t.Fatalf("expected CrashNone not to start recovery")
	}
}

func TestRecovery_AdvanceWhenStableIsNoop(t *testing.T) {
	r, bonus := Recovery{}.AdvanceDay()
	if bonus != nil || r.Active() {
		t.Fatalf("expected no-op, got %+v %+v", r, bonus)
	}
}

func TestRestoreRecovery(t *testing.T) {
	r := RestoreRecovery(CrashExhaustion, 2)
	if r.DaysRemaining() != 2 || r.Kind() != CrashExhaustion {
		t.Fatalf("unexpected restored recovery: %+v", r)
	}
	if RestoreRecovery(CrashBurnout, 9).DaysRemaining() != RecoveryDays {
		t.Fatalf("expected days capped at %d", RecoveryDays)
	}
	if RestoreRecovery(CrashNone, 2).Active() {
		t.Fatalf("expected no recovery without a kind")
	}
}

func TestCheckCrashWarnings(t *testing.T) {
	cases := []struct {
		name     string
		in       Resources
		valid    bool
		severity Severity
	}{
		{"exhausted", Resources{Energy: 0, Stress: 50}, false, SeverityError},
		{"burnout", Resources{Energy: 50, Stress: 100}, false, SeverityError},
		{"low energy", Resources{Energy: 10, Stress: 50}, true, SeverityWarning},
		{"high stress", Resources{Energy: 50, Stress: 85}, true, SeverityWarning},
		{"fine", Resources{Energy: 50, Stress: 50}, true, SeverityOK},
	}
	for _, tc := range cases {
		got := CheckCrashWarnings(tc.in)
		if got.Valid != tc.valid || got.Severity != tc.severity {
			t.Fatalf("%s: unexpected validation %+v", tc.name, got)
		}
	}
}

func TestNewResources(t *testing.T) {
	r, err := NewResources(120, -5, 10, -1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Energy != 100 || r.Stress != 0 || r.Social != 0 {
		t.Fatalf("expected clamped resources, got %+v", r)
	}
	if _, err := NewResources(math.Inf(1), 0, 0, 0, 0); err == nil {
		t.Fatalf("expected error for infinite energy")
	}
}
