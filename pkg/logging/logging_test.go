package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bridgecore/finality-bridge/pkg/bridgeerr"
)

func newFileLogger(t *testing.T, cfg *Config) (*Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bridge.log")
	cfg.Output = path
	l, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	return l, path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return string(raw)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"ERROR", slog.LevelError, false},
		{"bogus", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggerWritesJSONFields(t *testing.T) {
	l, path := newFileLogger(t, &Config{Level: slog.LevelInfo, Format: "json"})
	l.Info("bridge started", Field{Key: "bridge_id", Value: uint64(3)})

	var line map[string]any
	if err := json.Unmarshal([]byte(readFile(t, path)), &line); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if line["msg"] != "bridge started" {
		t.Errorf("msg = %v, want %q", line["msg"], "bridge started")
	}
	if line["bridge_id"].(float64) != 3 {
		t.Errorf("bridge_id = %v, want 3", line["bridge_id"])
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	l, path := newFileLogger(t, &Config{Level: slog.LevelWarn, Format: "json"})
	l.Debug("should not appear")
	l.Info("should not appear either")
	l.Warn("this one should appear")

	content := readFile(t, path)
	if strings.Contains(content, "should not appear") {
		t.Errorf("level filtering failed, got: %s", content)
	}
	if !strings.Contains(content, "this one should appear") {
		t.Errorf("expected warn line, got: %s", content)
	}
}

func TestWithErrorUnwrapsBridgeErr(t *testing.T) {
	l, path := newFileLogger(t, &Config{Level: slog.LevelInfo, Format: "json"})
	be := bridgeerr.New(bridgeerr.CodeBadJustification).WithContext("bridge_id", uint64(1))

	l.WithError(be).Error("justification rejected")

	var line map[string]any
	if err := json.Unmarshal([]byte(readFile(t, path)), &line); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if line["error_code"] != string(bridgeerr.CodeBadJustification) {
		t.Errorf("error_code = %v, want %q", line["error_code"], bridgeerr.CodeBadJustification)
	}
}

func TestLogJustificationVerificationLevelsByOutcome(t *testing.T) {
	l, path := newFileLogger(t, &Config{Level: slog.LevelInfo, Format: "json"})

	l.LogJustificationVerification(1, 5, 0, true, 2*time.Millisecond)
	l.LogJustificationVerification(1, 6, 0, false, time.Millisecond)

	lines := strings.Split(strings.TrimSpace(readFile(t, path)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2", len(lines))
	}
	var accepted, rejected map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &accepted); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &rejected); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if accepted["level"] != "INFO" {
		t.Errorf("accepted level = %v, want INFO", accepted["level"])
	}
	if rejected["level"] != "WARN" {
		t.Errorf("rejected level = %v, want WARN", rejected["level"])
	}
}
