package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

// captureOutput captures console output during function execution
func captureOutput(t *testing.T, f func()) string {
	t.Helper()
	noColor := color.NoColor
	color.NoColor = true
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(prev)
		color.NoColor = noColor
	})

	f()
	return buf.String()
}

func TestHelpers(t *testing.T) {
	tests := []struct {
		name   string
		fn     func()
		want   string
		marker string
	}{
		{"success", func() { Success("started") }, "started", "✅"},
		{"error", func() { Error("boom") }, "boom", "❌"},
		{"warning", func() { Warning("careful") }, "careful", "⚠️"},
		{"info", func() { Info("hello") }, "hello", "ℹ️"},
		{"check mark", func() { CheckMark("ok") }, "ok", "✅"},
		{"cross mark", func() { CrossMark("bad") }, "bad", "❌"},
		{"status line", func() { PrintStatusLine("PID", "42") }, "PID: 42", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureOutput(t, tt.fn)
			if !strings.Contains(output, tt.want) {
				t.Errorf("output = %q, want it to contain %q", output, tt.want)
			}
			if tt.marker != "" && !strings.Contains(output, tt.marker) {
				t.Errorf("output = %q, want marker %q", output, tt.marker)
			}
		})
	}
}

func TestConsoleLogger(t *testing.T) {
	t.Run("debug hidden unless verbose", func(t *testing.T) {
		output := captureOutput(t, func() {
			NewConsole(false).Debugf("hidden %d", 1)
		})
		if output != "" {
			t.Errorf("expected no output, got %q", output)
		}

		output = captureOutput(t, func() {
			NewConsole(true).Debugf("shown %d", 2)
		})
		if !strings.Contains(output, "shown 2") {
			t.Errorf("expected debug line, got %q", output)
		}
	})

	t.Run("levels", func(t *testing.T) {
		output := captureOutput(t, func() {
			c := NewConsole(false)
			c.Infof("info %s", "a")
			c.Warnf("warn %s", "b")
			c.Errorf("error %s", "c")
		})
		for _, want := range []string{"info a", "warn b", "error c"} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q: %q", want, output)
			}
		}
		if lines := strings.Count(output, "\n"); lines != 3 {
			t.Errorf("expected 3 lines, got %d", lines)
		}
	})
}
