// =============================================================================
// main.go - zpl CLI Entry Point
// =============================================================================
//
// zpl composes, checks and sends ZPL label programs to Zebra printers over
// raw TCP (port 9100).
//
// Usage:
//
//	zpl [global flags] [command] [command flags] [args]
//
// Commands:
//
//	repl     Interactive console (default)
//	send     Send ZPL files, optionally to several printers at once
//	status   Query and decode ~HS
//	fmt      Pretty-print ZPL files
//	lint     Report unknown commands and missing parameters
//	batch    Fill a template once per YAML record and print all copies
//	watch    Resend a file whenever it changes
//	image    Print a PNG as a ^GF graphic
//	serve    Run a virtual printer that logs what it receives
//
// =============================================================================

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/zplcommander/zplcommander/zplprotocol"
)

// =============================================================================
// Version Information
// =============================================================================

const (
	version    = "0.3.0"
	appName    = "zplcommander"
	binaryName = "zpl"
)

// fullTitle returns the application name with version.
func fullTitle() string {
	return fmt.Sprintf("%s v%s", appName, version)
}

// =============================================================================
// Command Table
// =============================================================================

// command is one zpl subcommand.
type command struct {
	name    string
	args    string
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

// commandTable lists the subcommands in the order help shows them.
func commandTable() []command {
	return []command{
		{"repl", "", "Interactive console (default)", cmdREPL},
		{"send", "[--host h]... FILE...", "Send ZPL files to one or more printers", cmdSend},
		{"status", "[--identify]", "Query the printer's host status", cmdStatus},
		{"fmt", "[--flat] [--crlf] FILE...", "Print ZPL files one command per line", cmdFmt},
		{"lint", "FILE...", "Report unknown commands and missing parameters", cmdLint},
		{"batch", "--records FILE.yaml TEMPLATE", "Print one copy of TEMPLATE per record", cmdBatch},
		{"watch", "[--debounce d] FILE", "Resend FILE whenever it changes", cmdWatch},
		{"image", "[--x n] [--y n] [--threshold n] [--z64] PNG", "Print a PNG image", cmdImage},
		{"serve", "[--listen addr]", "Run a virtual printer", cmdServe},
	}
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commandTable() {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// =============================================================================
// Exit Codes
// =============================================================================

// exitError ends the program with a specific exit code. An empty message
// prints nothing.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string {
	if e.msg == "" {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.msg
}

// ExitCode returns the process exit code.
func (e *exitError) ExitCode() int { return e.code }

// usageError reports bad command-line usage (exit code 2).
func usageError(format string, args ...any) error {
	return &exitError{code: 2, msg: fmt.Sprintf(format, args...)}
}

// =============================================================================
// Global Flags
// =============================================================================

// globalOptions holds the flags accepted before the command name.
type globalOptions struct {
	configPath  string
	host        string
	port        int
	timeout     time.Duration
	dryRun      bool
	logLevel    string
	logFormat   string
	logFile     string
	showVersion bool
	showHelp    bool
}

func (g *globalOptions) register(fs *pflag.FlagSet) {
	fs.StringVarP(&g.configPath, "config", "c", "", "YAML config file (default $"+configEnvVar+")")
	fs.StringVarP(&g.host, "host", "H", "", "printer host or host:port")
	fs.IntVarP(&g.port, "port", "p", zplprotocol.DefaultPort, "printer port")
	fs.DurationVar(&g.timeout, "timeout", zplprotocol.ResponseTimeout, "how long to wait for printer responses")
	fs.BoolVarP(&g.dryRun, "dry-run", "n", false, "print programs to stdout instead of sending them")
	fs.StringVar(&g.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	fs.StringVar(&g.logFormat, "log-format", "text", "log format: text or json")
	fs.StringVar(&g.logFile, "log-file", "", "write logs to this file, rotated by size")
	fs.BoolVarP(&g.showVersion, "version", "v", false, "show version")
	fs.BoolVarP(&g.showHelp, "help", "h", false, "show help")
}

// GO CONCEPT: Flag Sets and fs.Changed
// -------------------------------------
// A pflag.FlagSet is a self-contained parser: its own flags, its own
// usage text, its own output writer. Each subcommand builds a fresh set,
// so "zpl send --host a" and "zpl status --identify" never share state.
//
// Every flag has a default, so reading g.port cannot tell "--port 9100"
// from no flag at all. fs.Changed(name) reports whether the user typed the
// flag, which lets values from the config file survive unless a flag
// overrides them.
//
// Compare with Python: argparse gets the same effect with default=None
// and an "if args.port is not None" check.
// apply copies explicitly set flags over cfg.
func (g *globalOptions) apply(fs *pflag.FlagSet, cfg *Config) {
	if fs.Changed("host") {
		cfg.Printer.Host = g.host
	}
	if fs.Changed("port") {
		cfg.Printer.Port = g.port
	}
	if fs.Changed("timeout") {
		cfg.Printer.ResponseTimeout = g.timeout
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = g.logLevel
	}
	if fs.Changed("log-format") {
		cfg.Log.Format = g.logFormat
	}
	if fs.Changed("log-file") {
		cfg.Log.File = g.logFile
	}
}

// =============================================================================
// Application State
// =============================================================================

// app carries what every command needs: configuration, logger and I/O.
type app struct {
	cfg    *Config
	log    *slog.Logger
	dryRun bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	mu      sync.Mutex
	preview *zplprotocol.WriterSender
	clients []*zplprotocol.Client
}

// sender returns where programs for host go. An empty host means the
// configured printer. In dry-run mode every host shares one stdout writer.
func (a *app) sender(host string) zplprotocol.Sender {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.dryRun {
		if a.preview == nil {
			a.preview = zplprotocol.NewWriterSender(a.stdout)
		}
		return a.preview
	}
	c := zplprotocol.NewClient(a.cfg.address(host),
		zplprotocol.WithConnectTimeout(a.cfg.Printer.ConnectTimeout),
		zplprotocol.WithResponseTimeout(a.cfg.Printer.ResponseTimeout),
		zplprotocol.WithKeepOpen(a.cfg.Printer.KeepOpen),
		zplprotocol.WithLogger(a.log),
	)
	a.clients = append(a.clients, c)
	return c
}

// printer wraps the configured printer with the configured label options.
func (a *app) printer() *zplprotocol.Printer {
	return zplprotocol.NewPrinter(a.sender(""), a.cfg.labelOptions()...)
}

// newLabel starts a label for s, selecting the configured character set.
func (a *app) newLabel(s zplprotocol.Sender) *zplprotocol.Label {
	l := zplprotocol.NewLabel(s, a.cfg.labelOptions()...)
	if cs, ok := a.cfg.charSet(); ok {
		l.Encoding(cs)
	}
	return l
}

// flagSet creates the flag set of a subcommand.
func (a *app) flagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(binaryName+" "+name, pflag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// close releases connections held open by WithKeepOpen.
func (a *app) close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, c := range a.clients {
		c.Disconnect()
	}
	a.clients = nil
}

// =============================================================================
// Help and Usage
// =============================================================================

func printUsage(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintf(w, "USAGE: %s [global flags] [command] [command flags] [args]\n\nCOMMANDS:\n", binaryName)
	for _, c := range commandTable() {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.summary)
	}
	fmt.Fprintf(w, "\nGLOBAL FLAGS:\n%s", fs.FlagUsages())
	fmt.Fprintf(w, `
EXAMPLES:
  %[1]s --host 10.0.0.12 status
  %[1]s send --host a.local --host b.local shipping.zpl
  %[1]s --dry-run image --z64 logo.png
  %[1]s serve --listen :9100
`, binaryName)
}

func printCommandUsage(w io.Writer, c command) {
	fmt.Fprintf(w, "USAGE: %s %s %s\n\n%s\n", binaryName, c.name, c.args, c.summary)
}

// =============================================================================
// Main
// =============================================================================

// GO CONCEPT: ContinueOnError
// ---------------------------
// pflag.ExitOnError calls os.Exit(2) on a bad flag, which would end a test
// binary too. With ContinueOnError, Parse returns the error instead and
// run turns it into an exitError, so main alone decides the exit code.
//
// SetInterspersed(false) stops parsing at the first non-flag argument.
// Everything from the command name on is left in fs.Args() for the
// subcommand's own flag set.
// run parses args and executes the selected command.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet(binaryName, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SetInterspersed(false)
	var g globalOptions
	g.register(fs)
	if err := fs.Parse(args); err != nil {
		return &exitError{code: 2, msg: err.Error()}
	}

	if g.showHelp {
		printUsage(stdout, fs)
		return nil
	}
	if g.showVersion {
		fmt.Fprintln(stdout, fullTitle())
		return nil
	}

	name, rest := "repl", fs.Args()
	if len(rest) > 0 {
		name, rest = rest[0], rest[1:]
	}
	if name == "help" {
		if len(rest) == 0 {
			printUsage(stdout, fs)
			return nil
		}
		c, ok := lookupCommand(rest[0])
		if !ok {
			return usageError("unknown command %q", rest[0])
		}
		printCommandUsage(stdout, c)
		return nil
	}
	cmd, ok := lookupCommand(name)
	if !ok {
		return usageError("unknown command %q (see %s --help)", name, binaryName)
	}

	cfg, err := loadConfig(g.configPath)
	if err != nil {
		return err
	}
	g.apply(fs, cfg)
	if err := cfg.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, closer, err := newLogger(cfg.Log, stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	a := &app{
		cfg:    cfg,
		log:    logger,
		dryRun: g.dryRun,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
	defer a.close()

	logger.Debug("starting", "command", cmd.name, "printer", cfg.address(""), "dry_run", g.dryRun)
	return cmd.run(ctx, a, rest)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	if err == nil {
		return
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.msg != "" {
			fmt.Fprintf(os.Stderr, "Error: %s\n", ee.msg)
		}
		os.Exit(ee.code)
	}
	if errors.Is(err, context.Canceled) {
		os.Exit(130)
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", strings.TrimSpace(err.Error()))
	os.Exit(1)
}
