package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func decode(t *testing.T, line string) LogEntry {
	t.Helper()
	var entry LogEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("bad log line %q: %v", line, err)
	}
	return entry
}

func TestJSONLoggerWritesStructuredLines(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Info("graph built",
		String("stage", "build"),
		Int("nodes", 120),
		Float64("score", 50.5),
		Bool("ok", true),
	)

	entry := decode(t, strings.TrimSpace(buf.String()))
	if entry.Level != "INFO" || entry.Message != "graph built" {
		t.Errorf("entry = %+v", entry)
	}
	if entry.Fields["stage"] != "build" {
		t.Errorf("stage = %v", entry.Fields["stage"])
	}
	// JSON numbers decode as float64.
	if entry.Fields["nodes"] != float64(120) {
		t.Errorf("nodes = %v", entry.Fields["nodes"])
	}
	if entry.Time == "" {
		t.Error("missing timestamp")
	}
}

func TestJSONLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("dropped")
	logger.Info("dropped")
	logger.Warn("kept")
	logger.Error("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2: %q", len(lines), buf.String())
	}
	if decode(t, lines[0]).Level != "WARN" || decode(t, lines[1]).Level != "ERROR" {
		t.Errorf("levels = %q", buf.String())
	}
}

func TestWithFieldsPropagate(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)
	child := logger.With(String("run_id", "abc"))

	child.Info("stage done", Int("violations", 0))
	entry := decode(t, strings.TrimSpace(buf.String()))
	if entry.Fields["run_id"] != "abc" {
		t.Errorf("child field missing: %+v", entry.Fields)
	}
	if entry.Fields["violations"] != float64(0) {
		t.Errorf("call field missing: %+v", entry.Fields)
	}

	// The parent stays clean.
	buf.Reset()
	logger.Info("plain")
	if entry := decode(t, strings.TrimSpace(buf.String())); entry.Fields["run_id"] != nil {
		t.Errorf("parent inherited child field: %+v", entry.Fields)
	}
}

func TestErrField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)
	logger.Error("stage failed", Err(errors.New("boom")))

	entry := decode(t, strings.TrimSpace(buf.String()))
	if entry.Fields["error"] != "boom" {
		t.Errorf("error field = %v", entry.Fields["error"])
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{DebugLevel, "DEBUG"}, {InfoLevel, "INFO"},
		{WarnLevel, "WARN"}, {ErrorLevel, "ERROR"}, {Level(42), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %s, want %s", tt.level, got, tt.want)
		}
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Info("ignored")
	if logger.With(String("k", "v")) == nil {
		t.Error("With returned nil")
	}
}
