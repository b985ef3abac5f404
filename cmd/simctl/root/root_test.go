package root

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SEMESTER_CONFIG", "")
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--db", db, "--player", "cli"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestStatusSeedsPlayer(t *testing.T) {
	db := filepath.Join(t.TempDir(), "sim.db")
	out, err := run(t, db, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Day 1") || !strings.Contains(out, "Thu, Sep 1, 1983") {
		t.Fatalf("unexpected status output:\n%s", out)
	}
}

func TestRunPersistsAcrossInvocations(t *testing.T) {
	db := filepath.Join(t.TempDir(), "sim.db")
	if _, err := run(t, db, "run", "--days", "3"); err != nil {
		t.Fatalf("run: %v", err)
	}
	out, err := run(t, db, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Day 4") {
		t.Fatalf("expected day 4 after three days, got:\n%s", out)
	}

	stats, err := run(t, db, "stats", "--history", "2")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(stats, "day   4") || !strings.Contains(stats, "day   3") || strings.Contains(stats, "day   2") {
		t.Fatalf("expected the two newest days, got:\n%s", stats)
	}
}

func TestAllocateRejectsIncompleteSchedule(t *testing.T) {
	db := filepath.Join(t.TempDir(), "sim.db")
	out, err := run(t, db, "allocate", "--study", "10")
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if !strings.Contains(out, "remaining") {
		t.Fatalf("expected remaining percentage warning, got:\n%s", out)
	}
	if _, err := run(t, db, "run"); err == nil {
		t.Fatalf("expected run to refuse an incomplete allocation")
	}
	if _, err := run(t, db, "allocate", "--rest", "150"); err == nil {
		t.Fatalf("expected out of range allocation to fail")
	}
}

func TestPauseBlocksRun(t *testing.T) {
	db := filepath.Join(t.TempDir(), "sim.db")
	if _, err := run(t, db, "pause"); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if _, err := run(t, db, "run"); err == nil {
		t.Fatalf("expected paused time to block run")
	}
	if _, err := run(t, db, "pause", "--off"); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if _, err := run(t, db, "run"); err != nil {
		t.Fatalf("run after resume: %v", err)
	}
}

func TestDateForGivenDay(t *testing.T) {
	out, err := run(t, filepath.Join(t.TempDir(), "sim.db"), "date", "31")
	if err != nil {
		t.Fatalf("date: %v", err)
	}
	if !strings.Contains(out, "Sat, Oct 1, 1983") || !strings.Contains(out, "weekend") {
		t.Fatalf("unexpected date output: %q", out)
	}
}
