package httpadapter

import (
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
)

func TestApplyCORSHeaders(t *testing.T) {
	ctx := &app.RequestContext{}
	applyCORSHeaders(ctx, nil)

	if got, want := string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")), "*"; got != want {
		t.Fatalf("allow-origin mismatch: got=%q want=%q", got, want)
	}
	if got, want := string(ctx.Response.Header.Peek("Access-Control-Allow-Methods")), corsAllowMethods; got != want {
		t.Fatalf("allow-methods mismatch: got=%q want=%q", got, want)
	}
	if got, want := string(ctx.Response.Header.Peek("Access-Control-Allow-Headers")), corsAllowHeaders; got != want {
		t.Fatalf("allow-headers mismatch: got=%q want=%q", got, want)
	}
}

func TestApplyCORSHeaders_AllowList(t *testing.T) {
	allowed := []string{"http://localhost:5173"}

	ctx := &app.RequestContext{}
	ctx.Request.Header.Set("Origin", "http://localhost:5173")
	applyCORSHeaders(ctx, allowed)
	if got := string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")); got != "http://localhost:5173" {
		t.Fatalf("expected origin to be echoed, got %q", got)
	}

	other := &app.RequestContext{}
	other.Request.Header.Set("Origin", "http://evil.example")
	applyCORSHeaders(other, allowed)
	if got := string(other.Response.Header.Peek("Access-Control-Allow-Origin")); got != "" {
		t.Fatalf("expected no allow-origin for unknown origin, got %q", got)
	}
}
