// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"disabled", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestInitJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Info().Str("key", "value").Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"key":"value"`) {
		t.Errorf("expected structured field in output, got %q", out)
	}
	if !strings.Contains(out, `"message":"hello"`) {
		t.Errorf("expected message in output, got %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Debug().Msg("should not appear")
	Warn().Msg("should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Errorf("debug message leaked through warn filter: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestWithComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	logger := With().Str("component", "suggest").Logger()
	logger.Info().Msg("component message")

	if !strings.Contains(buf.String(), `"component":"suggest"`) {
		t.Errorf("expected component field, got %q", buf.String())
	}
}

func TestNewTestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTestLogger(&buf)
	logger.Info().Msg("captured")

	if !strings.Contains(buf.String(), "captured") {
		t.Errorf("test logger did not write to buffer: %q", buf.String())
	}
}
