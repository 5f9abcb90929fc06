package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestInit_DefaultLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Output: &buf})

	Debug("hidden")
	Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message logged at default level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("info message missing at default level: %q", out)
	}
}

func TestInit_DebugEnablesDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Debug: true, Output: &buf})

	Debug("verbose detail")

	if !strings.Contains(buf.String(), "verbose detail") {
		t.Errorf("debug message missing with Debug enabled: %q", buf.String())
	}
}

func TestInit_QuietOnlyShowsErrors(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Quiet: true, Output: &buf})

	Info("suppressed")
	Warn("also suppressed")
	Error("still shown")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Errorf("non-error output in quiet mode: %q", out)
	}
	if !strings.Contains(out, "still shown") {
		t.Errorf("error message missing in quiet mode: %q", out)
	}
}

func TestInit_QuietWinsOverDebug(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Debug: true, Quiet: true, Output: &buf})

	Debug("hidden")
	Info("hidden too")

	if buf.Len() != 0 {
		t.Errorf("expected no output with quiet set, got %q", buf.String())
	}
}

func TestInit_JSONHandler(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{JSON: true, Output: &buf})

	Info("structured", "key", "value")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "structured" {
		t.Errorf("msg = %v, want %q", entry["msg"], "structured")
	}
	if entry["key"] != "value" {
		t.Errorf("key = %v, want %q", entry["key"], "value")
	}
}

func TestWith_CarriesAttributes(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{JSON: true, Output: &buf})

	With("provider", "openai").Info("request sent")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry["provider"] != "openai" {
		t.Errorf("provider = %v, want %q", entry["provider"], "openai")
	}
}
