package ui

import (
	"math"
	"strings"
	"testing"

	"semester/internal/domain/simulation"
)

func TestBarFillsProportionally(t *testing.T) {
	got := Bar(50, false)
	if strings.Count(got, "█") != barWidth/2 {
		t.Fatalf("expected half filled bar, got %q", got)
	}
	if strings.Count(Bar(140, false), "█") != barWidth {
		t.Fatalf("expected full bar for values above 100")
	}
	if !strings.Contains(Bar(math.NaN(), false), "?") {
		t.Fatalf("expected placeholder for NaN")
	}
}

func TestResourcesPanelListsEveryField(t *testing.T) {
	out := Resources(simulation.DefaultResources())
	for _, want := range []string{"energy", "stress", "knowledge", "social", "money"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in panel, got %q", want, out)
		}
	}
}

func TestAllocationLine(t *testing.T) {
	out := Allocation(simulation.TimeAllocation{Study: 40, Rest: 60})
	if !strings.Contains(out, "40%") || !strings.Contains(out, "60%") {
		t.Fatalf("unexpected allocation line: %q", out)
	}
}

func TestDeltaSign(t *testing.T) {
	if got := Delta(1.5, false); !strings.Contains(got, "+1.50") {
		t.Fatalf("unexpected delta %q", got)
	}
	if got := Delta(-2, true); !strings.Contains(got, "-2.00") {
		t.Fatalf("unexpected delta %q", got)
	}
}
