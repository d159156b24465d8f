// =============================================================================
// repl.go - Interactive Console
// =============================================================================
//
// The REPL reads lines, translates them (translate.go) and sends the result
// to the printer. Replies are printed with their STX/ETX framing removed;
// .status replies are decoded first. Errors are printed and the loop goes
// on; only .quit, end of input or cancellation end it.
//
// =============================================================================

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/zplcommander/zplcommander/zplprotocol"
)

// repl is one console session.
type repl struct {
	sender zplprotocol.Sender
	tr     *translator
	in     lineReader
	out    io.Writer
	errOut io.Writer
	target string
}

func newREPL(a *app, in lineReader) *repl {
	target := a.cfg.address("")
	if a.dryRun {
		target = "dry-run"
	}
	return &repl{
		sender: a.sender(""),
		tr:     newTranslator(a.cfg),
		in:     in,
		out:    a.stdout,
		errOut: a.stderr,
		target: target,
	}
}

// prompt shows where input goes.
func (r *repl) prompt() string {
	return "[" + r.target + "] > "
}

// run loops until .quit, end of input or ctx is done.
func (r *repl) run(ctx context.Context) error {
	for {
		line, err := r.in.GetLine(r.prompt())
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out)
			return nil
		}
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		act, err := r.tr.translate(line)
		if err != nil {
			r.printError(err)
			continue
		}

		switch act.kind {
		case actionQuit:
			return nil
		case actionHelp:
			if err := printHelp(r.out, act.arg); err != nil {
				r.printError(err)
			}
		case actionShowSyntax:
			fmt.Fprintln(r.out, formatSyntax(act.syntax))
		default:
			r.execute(ctx, act)
		}
	}
}

// execute sends a translated line and shows the reply.
func (r *repl) execute(ctx context.Context, act replAction) {
	resp, err := r.sender.Send(ctx, act.payload, act.wantResponse)
	if err != nil {
		r.printError(err)
		return
	}
	r.tr.syntax = act.syntax

	if act.kind == actionStatus {
		st, err := zplprotocol.ParseHostStatus(resp)
		if err != nil {
			r.printError(err)
			return
		}
		fmt.Fprintln(r.out, st.String())
		return
	}
	if resp != "" {
		fmt.Fprintln(r.out, strings.TrimSpace(unframe(resp)))
	}
}

func (r *repl) printError(err error) {
	fmt.Fprintf(r.errOut, "Error: %v\n", err)
}

// unframe strips the STX/ETX bytes printers wrap reply lines in.
func unframe(s string) string {
	return strings.NewReplacer(string(rune(zplprotocol.STX)), "", string(rune(zplprotocol.ETX)), "").Replace(s)
}

// welcomeBanner is shown when the REPL starts on a terminal.
func welcomeBanner() string {
	return fmt.Sprintf(`%s - ZPL console

Type '.help' for available commands.
Type '.quit' to exit.
`, fullTitle())
}

func cmdREPL(ctx context.Context, a *app, args []string) error {
	if len(args) > 0 {
		return usageError("repl takes no arguments")
	}
	in, interactive := openLineReader(a.stdin, a.stdout, a.stderr)
	defer in.Close()
	if interactive {
		fmt.Fprintln(a.stdout, welcomeBanner())
	}
	return newREPL(a, in).run(ctx)
}
