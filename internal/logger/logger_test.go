package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"disabled", zerolog.Disabled},
		{"loud", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := (Logger{Level: tt.in}).level(); got != tt.want {
			t.Errorf("level(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{Format: "json"}.New(&buf)
	l.Info().Str("run_id", "abc").Msg("loaded")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if line["run_id"] != "abc" || line["message"] != "loaded" {
		t.Errorf("unexpected fields: %v", line)
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{Format: "console"}.New(&buf)
	l.Warn().Str("provider", "openweather").Msg("slow")

	out := buf.String()
	if !strings.Contains(out, "slow") || !strings.Contains(out, "provider=openweather") {
		t.Errorf("console output = %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("console output to a buffer should not be colored: %q", out)
	}
}
