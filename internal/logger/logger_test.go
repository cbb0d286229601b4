package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: WARN, Format: JSONFormat, Output: &buf, Component: "test"})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines with WARN level, got %d: %q", len(lines), buf.String())
	}
	for i, line := range lines {
		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Errorf("Line %d is not valid JSON: %v", i+1, err)
		}
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: INFO, Format: JSONFormat, Output: &buf, Component: "render"})

	logger.Error("flush failed", errors.New("disk full"), Fields{"format": "png", "groups": 2})

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}
	if entry.Level != "ERROR" {
		t.Errorf("Expected level ERROR, got %s", entry.Level)
	}
	if entry.Component != "render" {
		t.Errorf("Expected component render, got %s", entry.Component)
	}
	if entry.Message != "flush failed" {
		t.Errorf("Expected message 'flush failed', got %s", entry.Message)
	}
	if entry.Error != "disk full" {
		t.Errorf("Expected error 'disk full', got %s", entry.Error)
	}
	if entry.Fields["format"] != "png" {
		t.Errorf("Expected field format=png, got %v", entry.Fields["format"])
	}
	if entry.Fields["groups"] != float64(2) {
		t.Errorf("Expected field groups=2, got %v", entry.Fields["groups"])
	}
	if !strings.Contains(entry.Caller, "TestJSONFormat") {
		t.Errorf("Expected caller to name the test function, got %q", entry.Caller)
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: DEBUG, Format: TextFormat, Output: &buf, Component: "server"})

	logger.Info("rendered", Fields{"b": 2, "a": 1})

	out := buf.String()
	for _, want := range []string{"INFO", "[server]", "rendered", "a=1 b=2"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in text output, got %q", want, out)
		}
	}
}

func TestWithAddsFields(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Level: INFO, Format: JSONFormat, Output: &buf})
	child := base.With(Fields{"request": "abc"}).WithComponent("server")

	child.Info("hello", Fields{"status": 200})

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}
	if entry.Fields["request"] != "abc" || entry.Fields["status"] != float64(200) {
		t.Errorf("Expected merged fields, got %v", entry.Fields)
	}
	if entry.Component != "server" {
		t.Errorf("Expected component server, got %s", entry.Component)
	}

	buf.Reset()
	base.Info("plain")
	if strings.Contains(buf.String(), "request") {
		t.Errorf("Parent logger should not inherit child fields: %s", buf.String())
	}
}

func TestFatalExits(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: INFO, Output: &buf})
	code := -1
	logger.exit = func(c int) { code = c }

	logger.Fatal("cannot continue", nil)
	if code != 1 {
		t.Errorf("Expected exit code 1, got %d", code)
	}
}

func TestSetLevelAndEnabled(t *testing.T) {
	logger := New(Config{Level: INFO, Output: &bytes.Buffer{}})
	if logger.Enabled(DEBUG) {
		t.Error("DEBUG should be disabled at INFO")
	}
	logger.SetLevel(DEBUG)
	if !logger.Enabled(DEBUG) {
		t.Error("DEBUG should be enabled after SetLevel(DEBUG)")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", DEBUG, false},
		{"INFO", INFO, false},
		{"", INFO, false},
		{"warning", WARN, false},
		{"Error", ERROR, false},
		{"fatal", FATAL, false},
		{"verbose", INFO, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, expected %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestConfigure(t *testing.T) {
	saved := GetGlobalLogger()
	defer SetGlobalLogger(saved)

	var buf bytes.Buffer
	SetGlobalLogger(New(Config{Level: INFO, Format: TextFormat, Output: &buf}))

	if err := Configure("warn", "json"); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	Info("dropped")
	Warn("kept")

	out := strings.TrimSpace(buf.String())
	if strings.Contains(out, "dropped") {
		t.Errorf("INFO entry should be filtered: %s", out)
	}
	var entry LogEntry
	if err := json.Unmarshal([]byte(out), &entry); err != nil {
		t.Fatalf("Expected JSON output after Configure: %v", err)
	}

	if err := Configure("loud", "json"); err == nil {
		t.Error("Expected error for unknown level")
	}
	if err := Configure("info", "xml"); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestLogLevelString(t *testing.T) {
	if LogLevel(99).String() != "UNKNOWN" {
		t.Errorf("Expected UNKNOWN for invalid level")
	}
}
