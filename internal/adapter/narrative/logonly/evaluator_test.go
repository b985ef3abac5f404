package logonly

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"semester/internal/app/ports"
	"semester/internal/platform/logging"
)

func TestEvaluateLogsCheckpoint(t *testing.T) {
	var buf bytes.Buffer
	ev := New(logging.New(logging.Config{Level: "info", Format: "logfmt", Output: &buf}))

	if err := ev.Evaluate(context.Background(), ports.NarrativeRequest{PlayerID: "p1", Day: 3, Date: "Sat, Sep 3, 1983"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Evaluations() != 1 {
		t.Fatalf("expected one evaluation, got %d", ev.Evaluations())
	}
	out := buf.String()
	if !strings.Contains(out, "narrative checkpoint") || !strings.Contains(out, "day=3") {
		t.Fatalf("expected checkpoint log line, got %q", out)
	}
}

func TestNilLoggerIsSilent(t *testing.T) {
	ev := New(nil)
	if err := ev.Evaluate(context.Background(), ports.NarrativeRequest{PlayerID: "p1", Day: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
