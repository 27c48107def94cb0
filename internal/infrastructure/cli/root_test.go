package cli

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestExecute_Help(t *testing.T) {
	withTempDir(t)

	out, err := runCLI(t, "--help")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	for _, cmd := range []string{"tasks", "projects", "export", "serve", "mcp", "doctor"} {
		if !strings.Contains(out, cmd) {
			t.Errorf("help output missing %q", cmd)
		}
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	if _, err := runCLI(t, "invalid-cmd-999"); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"", slog.LevelError, false},
		{"error", slog.LevelError, false},
		{"loud", 0, true},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInvalidLogLevel(t *testing.T) {
	withTempDir(t)
	if _, err := runCLI(t, "--log-level", "loud", "options"); err == nil {
		t.Fatal("expected error for invalid log level")
	}
}

func TestExitCode(t *testing.T) {
	if got := ExitCode(nil); got != 0 {
		t.Errorf("ExitCode(nil) = %d, want 0", got)
	}
	if got := ExitCode(errors.New("x")); got != 1 {
		t.Errorf("ExitCode(plain) = %d, want 1", got)
	}
	if got := ExitCode(&CLIError{Message: "m", ExitCode: 2}); got != 2 {
		t.Errorf("ExitCode(CLIError) = %d, want 2", got)
	}
}

func TestPrintError_WithHint(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, NewCLIError("no data loaded", "Reload first", nil))

	out := buf.String()
	if !strings.Contains(out, "Error: no data loaded") {
		t.Errorf("missing error line: %q", out)
	}
	if !strings.Contains(out, "Hint: Reload first") {
		t.Errorf("missing hint line: %q", out)
	}
}
