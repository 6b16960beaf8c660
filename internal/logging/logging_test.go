package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"info":    slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil {
			t.Errorf("ParseLevel(%q) error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestConfigureWriterFiltersLevel(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	logger, err := ConfigureWriter(&buf, LevelWarn)
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hidden")
	slog.Warn("shown", "container", "web")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line not filtered: %s", out)
	}
	if !strings.Contains(out, "container=web") {
		t.Errorf("warn line missing: %s", out)
	}
}
