package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestProductionLogsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "production", "info", "")
	log.Debug("hidden")
	log.Info("course created", slog.String("course_id", "abc"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if entry["msg"] != "course created" || entry["course_id"] != "abc" || entry["env"] != "production" {
		t.Errorf("entry = %v", entry)
	}
}

func TestDevelopmentLogsText(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, "development", "debug", "").Debug("hello")
	out := buf.String()
	if !strings.Contains(out, "level=DEBUG") || !strings.Contains(out, "msg=hello") {
		t.Errorf("unexpected text output %q", out)
	}

	buf.Reset()
	newLogger(&buf, "development", "info", "json").Info("hi")
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("explicit json format ignored: %q", buf.String())
	}
}
