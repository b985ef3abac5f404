//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

func TestRemoteAPI_MainEndpoints(t *testing.T) {
	baseURL := strings.TrimRight(envOr("E2E_BASE_URL", "http://localhost:8080"), "/")
	playerID := envOr("E2E_PLAYER_ID", "e2e-"+time.Now().UTC().Format("20060102150405"))
	client := &http.Client{Timeout: 20 * time.Second}

	t.Run("reset and status", func(t *testing.T) {
		status, body := mustJSON(t, client, http.MethodPost, baseURL+"/api/sim/reset", playerID, map[string]any{})
		if status != http.StatusOK {
			t.Fatalf("reset status=%d body=%s", status, string(body))
		}
		status, body = mustJSON(t, client, http.MethodGet, baseURL+"/api/sim/status", playerID, nil)
		if status != http.StatusOK {
			t.Fatalf("status status=%d body=%s", status, string(body))
		}
		var out map[string]any
		if err := json.Unmarshal(body, &out); err != nil {
			t.Fatalf("unmarshal status: %v body=%s", err, string(body))
		}
		if out["player_id"] != playerID {
			t.Fatalf("expected player %q, got %v", playerID, out["player_id"])
		}
		if day, _ := out["day"].(float64); day != 1 {
			t.Fatalf("expected day 1 after reset, got %v", out["day"])
		}
		if asMap(out["resources"])["energy"] == nil {
			t.Fatalf("expected resources in status: %s", string(body))
		}
	})

	t.Run("allocation validation", func(t *testing.T) {
		status, body := mustJSON(t, client, http.MethodPost, baseURL+"/api/sim/allocation", playerID, map[string]any{"rest": 140})
		if status != http.StatusBadRequest {
			t.Fatalf("expected 400 for out-of-range rest, got %d body=%s", status, string(body))
		}
		status, body = mustJSON(t, client, http.MethodPost, baseURL+"/api/sim/allocation", playerID, map[string]any{
			"study": 30, "work": 20, "social": 15, "rest": 30, "exercise": 5,
		})
		if status != http.StatusOK {
			t.Fatalf("allocation status=%d body=%s", status, string(body))
		}
		var out map[string]any
		if err := json.Unmarshal(body, &out); err != nil {
			t.Fatalf("unmarshal allocation: %v body=%s", err, string(body))
		}
		if valid, _ := asMap(out["validation"])["valid"].(bool); !valid {
			t.Fatalf("expected valid allocation, got %s", string(body))
		}
	})

	t.Run("tick history kpi", func(t *testing.T) {
		status, body := mustJSON(t, client, http.MethodPost, baseURL+"/api/sim/tick", playerID, map[string]any{})
		if status != http.StatusOK {
			t.Fatalf("tick status=%d body=%s", status, string(body))
		}
		var tickOut map[string]any
		if err := json.Unmarshal(body, &tickOut); err != nil {
			t.Fatalf("unmarshal tick: %v body=%s", err, string(body))
		}
		if day, _ := asMap(tickOut["state"])["day"].(float64); day != 2 {
			t.Fatalf("expected day 2 after tick, got %s", string(body))
		}

		status, body = mustJSON(t, client, http.MethodGet, baseURL+"/api/sim/history?limit=5", playerID, nil)
		if status != http.StatusOK {
			t.Fatalf("history status=%d body=%s", status, string(body))
		}
		var history map[string]any
		if err := json.Unmarshal(body, &history); err != nil {
			t.Fatalf("unmarshal history: %v body=%s", err, string(body))
		}
		ticks := asSlice(history["ticks"])
		if len(ticks) == 0 {
			t.Fatalf("expected journaled ticks, got %s", string(body))
		}

		status, body = mustJSON(t, client, http.MethodGet, baseURL+"/ops/kpi", "", nil)
		if status != http.StatusOK {
			t.Fatalf("kpi status=%d body=%s", status, string(body))
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, baseURL+"/api/sim/allocation", strings.NewReader("{"))
		if err != nil {
			t.Fatalf("build request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Player-ID", playerID)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("invalid json request: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			b, _ := io.ReadAll(resp.Body)
			t.Fatalf("expected 400, got %d body=%s", resp.StatusCode, string(b))
		}
	})
}

func mustJSON(t *testing.T, client *http.Client, method, url, playerID string, body map[string]any) (int, []byte) {
	t.Helper()
	status, respBody, err := doRequest(client, method, url, playerID, body)
	if err != nil {
		t.Fatalf("%s %s request failed: %v", method, url, err)
	}
	return status, respBody
}

func doRequest(client *http.Client, method, url, playerID string, body map[string]any) (int, []byte, error) {
	var payloadBytes []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		payloadBytes = b
	}

	var lastStatus int
	var lastBody []byte
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		var payload io.Reader
		if len(payloadBytes) > 0 {
			payload = bytes.NewReader(payloadBytes)
		}
		req, err := http.NewRequest(method, url, payload)
		if err != nil {
			return 0, nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if strings.TrimSpace(playerID) != "" {
			req.Header.Set("X-Player-ID", playerID)
		}
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		lastStatus, lastBody, lastErr = resp.StatusCode, respBody, nil
		if resp.StatusCode >= 500 {
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		return resp.StatusCode, respBody, nil
	}
	if lastErr != nil {
		return 0, nil, lastErr
	}
	return lastStatus, lastBody, nil
}

func envOr(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func asSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return nil
}
