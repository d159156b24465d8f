// =============================================================================
// main_test.go - Tests for the Command Line (main.go, send.go)
// =============================================================================

package main

import (
	"errors"
	"strings"
	"testing"
)

// TestFullTitle verifies the title shown by --version and the banner.
func TestFullTitle(t *testing.T) {
	if got, want := fullTitle(), "zplcommander v0.3.0"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// TestVersionAndHelp verifies the informational flags.
func TestVersionAndHelp(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"version", []string{"--version"}, "zplcommander v0.3.0\n"},
		{"short version", []string{"-v"}, "zplcommander v0.3.0\n"},
		{"help lists commands", []string{"--help"}, "  batch    Print one copy of TEMPLATE per record"},
		{"help lists flags", []string{"-h"}, "--dry-run"},
		{"help command", []string{"help"}, "COMMANDS:"},
		{"help for command", []string{"help", "image"}, "USAGE: zpl image [--x n]"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stdout, _, err := runCLI(t, tc.args...)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if !strings.Contains(stdout, tc.expected) {
				t.Errorf("output %q does not contain %q", stdout, tc.expected)
			}
		})
	}
}

// TestUsageErrors verifies bad invocations exit with code 2.
func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown command", []string{"frobnicate"}},
		{"unknown help topic", []string{"help", "frobnicate"}},
		{"unknown flag", []string{"--frobnicate"}},
		{"send without files", []string{"--dry-run", "send"}},
		{"fmt without files", []string{"fmt"}},
		{"batch without records", []string{"--dry-run", "batch", "x.zpl"}},
		{"image without file", []string{"--dry-run", "image"}},
		{"repl with arguments", []string{"repl", "extra"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := runCLI(t, tc.args...)
			var ee *exitError
			if !errors.As(err, &ee) {
				t.Fatalf("got %v, want an exitError", err)
			}
			if ee.ExitCode() != 2 {
				t.Errorf("exit code = %d, want 2", ee.ExitCode())
			}
		})
	}
}

// TestInvalidConfigFlag verifies flag values are validated like file values.
func TestInvalidConfigFlag(t *testing.T) {
	_, _, err := runCLI(t, "--port", "0", "--dry-run", "status")
	if err == nil || !strings.Contains(err.Error(), "config: printer.port") {
		t.Errorf("got %v", err)
	}
}

// TestFmt verifies programs are reprinted one command per line.
func TestFmt(t *testing.T) {
	path := writeFile(t, "label.zpl", "^XA^FO1,2^FDx^FS^XZ")
	tests := []struct {
		name     string
		flags    []string
		expected string
	}{
		{"default", nil, "^XA\n^FO1,2\n^FDx\n^FS\n^XZ\n"},
		{"flat", []string{"--flat"}, "^XA^FO1,2^FDx^FS^XZ\n"},
		{"crlf", []string{"--crlf"}, "^XA\r\n^FO1,2\r\n^FDx\r\n^FS\r\n^XZ\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			args := append([]string{"fmt"}, tc.flags...)
			stdout, _, err := runCLI(t, append(args, path)...)
			if err != nil {
				t.Fatalf("fmt: %v", err)
			}
			if stdout != tc.expected {
				t.Errorf("got %q, want %q", stdout, tc.expected)
			}
		})
	}
}

// TestFmtRejectsBadInput verifies parse errors name the file.
func TestFmtRejectsBadInput(t *testing.T) {
	path := writeFile(t, "bad.zpl", "^XA^QQ^XZ")
	_, _, err := runCLI(t, "fmt", path)
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Errorf("got %v, want an error naming %s", err, path)
	}
}

// TestLint verifies findings are listed and the exit code is 1.
func TestLint(t *testing.T) {
	bad := writeFile(t, "bad.zpl", "^XA^GFA,8^QQ^XZ")
	good := writeFile(t, "good.zpl", "^XA^FO1,2^FDx^FS^XZ")

	stdout, _, err := runCLI(t, "lint", good, bad)
	var ee *exitError
	if !errors.As(err, &ee) || ee.ExitCode() != 1 {
		t.Fatalf("got %v, want exit code 1", err)
	}
	if !strings.HasSuffix(ee.msg, "problem(s) found") {
		t.Errorf("message = %q", ee.msg)
	}
	if !strings.Contains(stdout, bad+": ") {
		t.Errorf("findings %q do not name %s", stdout, bad)
	}
	if strings.Contains(stdout, good) {
		t.Errorf("clean file reported: %q", stdout)
	}

	if _, _, err := runCLI(t, "lint", good); err != nil {
		t.Errorf("clean file: %v", err)
	}
}

// TestSendDryRun verifies programs are written to stdout.
func TestSendDryRun(t *testing.T) {
	path := writeFile(t, "label.zpl", "^XA\n^FO1,2^FDx^FS\n^XZ\n")
	stdout, _, err := runCLI(t, "--dry-run", "send", path)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if want := "^XA\r\n^FO1,2\r\n^FDx\r\n^FS\r\n^XZ\r\n"; stdout != want {
		t.Errorf("got %q, want %q", stdout, want)
	}
}

// TestSendStopsOnParseError verifies nothing is sent when a file is bad.
func TestSendStopsOnParseError(t *testing.T) {
	good := writeFile(t, "good.zpl", "^XA^XZ")
	bad := writeFile(t, "bad.zpl", "^XA^QQ^XZ")
	stdout, _, err := runCLI(t, "--dry-run", "send", good, bad)
	if err == nil {
		t.Fatal("expected an error")
	}
	if stdout != "" {
		t.Errorf("sent %q before failing", stdout)
	}
}

// TestSendFanOut verifies one program reaches several printers.
func TestSendFanOut(t *testing.T) {
	p1 := startVirtualPrinter(t)
	p2 := startVirtualPrinter(t)
	path := writeFile(t, "label.zpl", "^XA^FO1,2^FDx^FS^XZ")

	_, _, err := runCLI(t, "send", "--host", p1.Addr(), "--host", p2.Addr(), path)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	waitFor(t, func() bool { return p1.Labels() == 1 && p2.Labels() == 1 })
}

// TestSendFanOutReportsFailure verifies an unreachable printer fails the
// command and is named in the error.
func TestSendFanOutReportsFailure(t *testing.T) {
	p := startVirtualPrinter(t)
	path := writeFile(t, "label.zpl", "^XA^XZ")

	_, _, err := runCLI(t, "--timeout", "200ms", "send", "--host", p.Addr(), "--host", "127.0.0.1:1", path)
	if err == nil || !strings.Contains(err.Error(), "127.0.0.1:1") {
		t.Errorf("got %v, want an error naming 127.0.0.1:1", err)
	}
}

// TestStatusDryRun verifies the canned status is decoded.
func TestStatusDryRun(t *testing.T) {
	stdout, _, err := runCLI(t, "--dry-run", "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"~HS\r\n", "9600 baud", "not ready\n"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output %q does not contain %q", stdout, want)
		}
	}
}

// TestStatusIdentify verifies --identify against a printer.
func TestStatusIdentify(t *testing.T) {
	p := startVirtualPrinter(t)
	stdout, _, err := runCLI(t, "--host", p.Addr(), "--timeout", "300ms", "status", "--identify")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	want := "identification: ZPLCOMMANDER, V" + version + ", 8, 8192KB\n"
	if !strings.HasPrefix(stdout, want) {
		t.Errorf("got %q, want prefix %q", stdout, want)
	}
}
