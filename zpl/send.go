// =============================================================================
// send.go - File Commands: send, fmt, lint, status
// =============================================================================
//
// These commands read ZPL program files, parse them into command trees with
// the configured syntax, and either re-render them (fmt), check them (lint)
// or transmit them (send). Sending to several printers runs one goroutine
// per printer under an errgroup: the first failure cancels the others.
//
// =============================================================================

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/zplcommander/zplcommander/zplprotocol"
)

// readInput reads path, or stdin when path is "-".
func (a *app) readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(a.stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

// parseFile reads and parses one program file.
func (a *app) parseFile(path string, lenient bool) (*zplprotocol.Block, error) {
	text, err := a.readInput(path)
	if err != nil {
		return nil, err
	}
	b, err := zplprotocol.Parse(text, zplprotocol.ParseOptions{
		Syntax:  a.cfg.syntax(),
		Lenient: lenient,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// loadPrograms parses every file and renders it for transmission. Nothing
// is returned unless every file parses.
func (a *app) loadPrograms(paths []string) ([][]byte, error) {
	opts := a.cfg.renderOptions()
	payloads := make([][]byte, 0, len(paths))
	for _, p := range paths {
		b, err := a.parseFile(p, false)
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, []byte(b.Render(opts)))
	}
	return payloads, nil
}

// =============================================================================
// send
// =============================================================================

func cmdSend(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("send")
	var hosts []string
	fs.StringArrayVar(&hosts, "host", nil, "printer to send to; repeat for several printers")
	if err := fs.Parse(args); err != nil {
		return usageError("%v", err)
	}
	if fs.NArg() == 0 {
		return usageError("send: no files given")
	}

	payloads, err := a.loadPrograms(fs.Args())
	if err != nil {
		return err
	}
	if len(hosts) == 0 {
		hosts = []string{""}
	}
	return a.fanOut(ctx, hosts, payloads)
}

// GO CONCEPT: errgroup
// --------------------
// errgroup.Group runs each g.Go function in its own goroutine and g.Wait
// returns the first error. WithContext also cancels gctx on that error, so
// sends to the remaining printers stop early.
//
// Since Go 1.22 each loop iteration has its own h, addr and s, so the
// closures do not share the last value.
// fanOut sends payloads to every host concurrently.
func (a *app) fanOut(ctx context.Context, hosts []string, payloads [][]byte) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, h := range hosts {
		addr := a.cfg.address(h)
		s := a.sender(h)
		g.Go(func() error {
			if _, err := zplprotocol.SendAll(gctx, s, payloads, false); err != nil {
				return fmt.Errorf("%s: %w", addr, err)
			}
			a.log.Info("sent", "printer", addr, "programs", len(payloads))
			return nil
		})
	}
	return g.Wait()
}

// =============================================================================
// status
// =============================================================================

func cmdStatus(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("status")
	identify := fs.Bool("identify", false, "also query ~HI for model and firmware")
	if err := fs.Parse(args); err != nil {
		return usageError("%v", err)
	}

	p := a.printer()
	if *identify {
		fields, err := p.HostIdentification(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "identification: %s\n", strings.Join(fields, ", "))
	}
	st, err := p.HostStatus(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, st.String())
	if st.Ready() {
		fmt.Fprintln(a.stdout, "ready")
	} else {
		fmt.Fprintln(a.stdout, "not ready")
	}
	return nil
}

// =============================================================================
// fmt
// =============================================================================

func cmdFmt(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("fmt")
	flat := fs.Bool("flat", false, "concatenate commands without line breaks")
	crlf := fs.Bool("crlf", false, "end lines with CRLF instead of LF")
	if err := fs.Parse(args); err != nil {
		return usageError("%v", err)
	}
	if fs.NArg() == 0 {
		return usageError("fmt: no files given")
	}

	opts := a.cfg.renderOptions()
	opts.LineBreaks = !*flat
	opts.Terminator = "\n"
	if *crlf {
		opts.Terminator = zplprotocol.LineTerminator
	}
	for _, p := range fs.Args() {
		b, err := a.parseFile(p, false)
		if err != nil {
			return err
		}
		out := b.Render(opts)
		if !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		if _, err := io.WriteString(a.stdout, out); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// lint
// =============================================================================

func cmdLint(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("lint")
	if err := fs.Parse(args); err != nil {
		return usageError("%v", err)
	}
	if fs.NArg() == 0 {
		return usageError("lint: no files given")
	}

	findings := 0
	for _, p := range fs.Args() {
		b, err := a.parseFile(p, true)
		if err != nil {
			fmt.Fprintln(a.stdout, err)
			findings++
			continue
		}
		for _, e := range zplprotocol.Lint(b) {
			fmt.Fprintf(a.stdout, "%s: %v\n", p, e)
			findings++
		}
	}
	if findings > 0 {
		return &exitError{code: 1, msg: fmt.Sprintf("%d problem(s) found", findings)}
	}
	return nil
}
