// =============================================================================
// mockprinter_test.go - Shared Test Helpers
// =============================================================================
//
// The virtual printer from server.go doubles as the mock printer for tests:
// it listens on a loopback port, answers ~HS and ~HI, and counts the labels
// it receives. The helpers here start one per test, build an app wired to
// in-memory buffers, and feed scripted input to the REPL.
//
// =============================================================================

package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// discardLogger drops every record.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startVirtualPrinter runs a virtual printer on a free loopback port until
// the test ends.
func startVirtualPrinter(t *testing.T) *virtualPrinter {
	t.Helper()
	cfg := defaultConfig()
	v, err := newVirtualPrinter("127.0.0.1:0", cfg.syntax(), discardLogger())
	if err != nil {
		t.Fatalf("failed to start virtual printer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- v.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Serve returned %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("virtual printer did not stop")
		}
	})
	return v
}

// testApp returns an app writing to buffers. Commands render without line
// breaks unless edit turns them back on.
func testApp(t *testing.T, dryRun bool, edit func(*Config)) (*app, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	cfg := defaultConfig()
	cfg.Syntax.LineBreaks = false
	cfg.Printer.ResponseTimeout = 200 * time.Millisecond
	if edit != nil {
		edit(cfg)
	}
	if err := cfg.validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	var stdout, stderr bytes.Buffer
	a := &app{
		cfg:    cfg,
		log:    discardLogger(),
		dryRun: dryRun,
		stdin:  bytes.NewReader(nil),
		stdout: &stdout,
		stderr: &stderr,
	}
	t.Cleanup(a.close)
	return a, &stdout, &stderr
}

// runCLI runs the CLI with args and no config file.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(configEnvVar, "")
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, bytes.NewReader(nil), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

// writeFile creates name in a temporary directory and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// readFile returns the contents of path.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// waitFor polls cond for up to two seconds.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

// scriptedInput feeds fixed lines to the REPL and records its prompts.
type scriptedInput struct {
	lines   []string
	prompts []string
}

func (s *scriptedInput) GetLine(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptedInput) Close() {}
