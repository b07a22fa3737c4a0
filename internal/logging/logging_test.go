package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/Leganyst/appointment-booking/internal/apperr"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestForOperationUsesContextLogger(t *testing.T) {
	var buf bytes.Buffer
	base := New("production", &buf)
	ctx := ContextWithLogger(context.Background(), base.With("request_id", "r-1"))

	ForOperation(ctx, nil, "booking", "RequestSlot", "slot_id", "s-1").Info("hello")

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	for key, want := range map[string]string{
		"request_id": "r-1",
		"service":    "booking",
		"operation":  "RequestSlot",
		"slot_id":    "s-1",
	} {
		if lines[0][key] != want {
			t.Fatalf("expected %s=%s, got %v", key, want, lines[0][key])
		}
	}
}

func TestLogResultLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := New("production", &buf)
	ctx := context.Background()

	LogResult(ctx, logger, nil, "slot requested")
	LogResult(ctx, logger, apperr.NotAvailable("slot is not available"), "slot requested")
	LogResult(ctx, logger, apperr.Connectivity(errors.New("db down"), "reserve"), "slot requested")

	lines := decodeLines(t, &buf)
	if len(lines) != 3 {
		t.Fatalf("expected three lines, got %d", len(lines))
	}
	wantLevels := []string{"INFO", "WARN", "ERROR"}
	for i, want := range wantLevels {
		if lines[i]["level"] != want {
			t.Fatalf("line %d: expected level %s, got %v", i, want, lines[i]["level"])
		}
	}
	if lines[1]["error_kind"] != "not_available" {
		t.Fatalf("unexpected error kind %v", lines[1]["error_kind"])
	}
}

func TestNewDebugInDevelopment(t *testing.T) {
	var buf bytes.Buffer
	New("development", &buf).Debug("visible")
	New("production", &buf).Debug("hidden")
	if !strings.Contains(buf.String(), "visible") || strings.Contains(buf.String(), "hidden") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
