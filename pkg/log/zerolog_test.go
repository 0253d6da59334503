package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v\noutput: %s", err, buf.String())
	}
	return entry
}

func TestZerologLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologProviderWithWriter(LevelDebug, &buf)

	logger := provider.GetLoggerWithName("pipeline")
	logger.Info("stage finished", "stage", "validation", "rows", 42)

	entry := decodeLine(t, &buf)
	if entry["message"] != "stage finished" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["stage"] != "validation" {
		t.Errorf("stage = %v", entry["stage"])
	}
	if entry["rows"] != float64(42) {
		t.Errorf("rows = %v", entry["rows"])
	}
	if entry["logger"] != "pipeline" {
		t.Errorf("logger = %v", entry["logger"])
	}
}

func TestZerologLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologProviderWithWriter(LevelWarn, &buf)

	logger := provider.GetLogger()
	logger.Info("below threshold")
	if buf.Len() != 0 {
		t.Errorf("info line emitted at warn level: %s", buf.String())
	}

	logger.Warn("at threshold")
	if buf.Len() == 0 {
		t.Error("warn line suppressed at warn level")
	}
}

func TestZerologLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologProviderWithWriter(LevelInfo, &buf)

	logger := provider.GetLogger().With("run_id", "abc")
	logger.Info("started")

	entry := decodeLine(t, &buf)
	if entry["run_id"] != "abc" {
		t.Errorf("run_id = %v", entry["run_id"])
	}
}

func TestZerologLoggerEnabled(t *testing.T) {
	provider := NewZerologProviderWithWriter(LevelInfo, &bytes.Buffer{})

	logger := provider.GetLogger()
	if logger.Enabled(context.Background(), LevelDebug) {
		t.Error("debug should be disabled at info level")
	}
	if !logger.Enabled(context.Background(), LevelError) {
		t.Error("error should be enabled at info level")
	}
}

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"unknown", LevelInfo},
	}
	for _, tt := range tests {
		if got := ToLogLevel(tt.in); got != tt.want {
			t.Errorf("ToLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
