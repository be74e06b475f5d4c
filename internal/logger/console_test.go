package logger

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
)

func TestLogLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "warn")

	cl.LogTrace("trace message")
	cl.LogDebug("debug message")
	cl.LogInfo("info message")
	cl.LogWarn("warn message")
	cl.LogError("error message")

	out := buf.String()
	if strings.Contains(out, "info message") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, "warn message") {
		t.Error("warn message missing")
	}
	if !strings.Contains(out, "error message") {
		t.Error("error message missing")
	}
}

func TestLogFormat(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "info")

	cl.LogError("read failed")

	// Non-TTY writers get plain output: "[HH:MM:SS] [ERROR] <message>"
	pattern := regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}\] \[ERROR\] read failed\n$`)
	if !pattern.MatchString(buf.String()) {
		t.Errorf("unexpected format: %q", buf.String())
	}
}

func TestInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "verbose")

	cl.LogDebug("debug message")
	cl.LogInfo("info message")

	out := buf.String()
	if strings.Contains(out, "debug message") {
		t.Error("debug should be filtered at the default info level")
	}
	if !strings.Contains(out, "info message") {
		t.Error("info message missing at default level")
	}
}

func TestNilWriterDiscards(t *testing.T) {
	cl := NewConsoleLogger(nil, "info")

	// Must not panic.
	cl.LogInfo("into the void")
	cl.LogError("still nothing")
}

func TestNormalizeLogLevel(t *testing.T) {
	cases := map[string]string{
		"TRACE":   "trace",
		" Debug ": "debug",
		"info":    "info",
		"":        "info",
		"bogus":   "info",
	}

	for in, want := range cases {
		if got := normalizeLogLevel(in); got != want {
			t.Errorf("normalizeLogLevel(%q) = %q, want %q", in, got, want)
		}
	}
}
