package logger

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func newTestLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New(&buf, level)
	l.sink.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return l, &buf
}

func TestLoggerFormat(t *testing.T) {
	l, buf := newTestLogger(LevelInfo)
	l.Info("compiled %d definitions", 3)

	want := "[03:04:05] fhir-typegen [INFO] compiled 3 definitions\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	l, buf := newTestLogger(LevelWarn)
	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")

	out := buf.String()
	if strings.Contains(out, "debug") || strings.Contains(out, "info") {
		t.Errorf("messages below WARN were written: %q", out)
	}
	if !strings.Contains(out, "[WARN] warn") || !strings.Contains(out, "[ERROR] error") {
		t.Errorf("WARN/ERROR messages missing: %q", out)
	}

	l.SetLevel(LevelNone)
	buf.Reset()
	l.Error("silenced")
	if buf.Len() != 0 {
		t.Errorf("LevelNone should write nothing, got %q", buf.String())
	}
}

func TestLoggerNamedSharesSink(t *testing.T) {
	l, buf := newTestLogger(LevelInfo)
	w := l.Named("worker")
	w.Info("started")

	if !strings.Contains(buf.String(), "fhir-typegen/worker [INFO] started") {
		t.Errorf("named output = %q", buf.String())
	}

	l.SetLevel(LevelError)
	if w.Enabled(LevelInfo) {
		t.Error("level change on parent should apply to named logger")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"off", LevelNone, false},
		{"loud", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelString(t *testing.T) {
	if LevelNone.String() != "" {
		t.Errorf("LevelNone.String() = %q, want empty", LevelNone.String())
	}
	if LevelDebug.String() != "DEBUG" {
		t.Errorf("LevelDebug.String() = %q", LevelDebug.String())
	}
}
