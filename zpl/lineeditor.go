// =============================================================================
// lineeditor.go - REPL Input
// =============================================================================
//
// Console input comes from one of two readers:
//
//   - termReader: ergochat/readline on a terminal, with history in
//     ~/.zpl_history and tab completion of console commands and help topics.
//   - pipeReader: a bufio.Scanner for piped input and Emacs comint, which
//     prints the prompt itself so comint can match it.
//
// =============================================================================

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

const (
	historyFileName = ".zpl_history"
	historyLimit    = 500
)

// lineReader is what the REPL needs from its input.
type lineReader interface {
	GetLine(prompt string) (string, error)
	Close()
}

// GO CONCEPT: Type Assertions and the TTY Check
// ----------------------------------------------
// in is an io.Reader, which says nothing about terminals. The assertion
// in.(*os.File) recovers the concrete type when there is one; the ok form
// returns false instead of panicking for a strings.Reader or a pipe.
//
// term.IsTerminal asks the OS whether the file descriptor is a terminal.
// Only then is line editing useful; piped input and Emacs comint get the
// plain scanner, which also echoes the prompt they expect.
//
// Compare with Python: sys.stdin.isatty() answers the same question.
// openLineReader picks readline when in is a terminal outside Emacs. The
// bool reports whether it did.
func openLineReader(in io.Reader, out, errOut io.Writer) (lineReader, bool) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) && os.Getenv("INSIDE_EMACS") == "" {
		r, err := newTermReader()
		if err == nil {
			return r, true
		}
		fmt.Fprintf(errOut, "Warning: line editing unavailable (%v)\n", err)
	}
	return &pipeReader{scanner: bufio.NewScanner(in), out: out}, false
}

// termReader edits lines with readline.
type termReader struct {
	rl *readline.Instance
}

func newTermReader() (*termReader, error) {
	history := ""
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, historyFileName)
	}
	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:            history,
		HistoryLimit:           historyLimit,
		DisableAutoSaveHistory: true,
		AutoComplete:           consoleCompleter(),
	})
	if err != nil {
		return nil, err
	}
	return &termReader{rl: rl}, nil
}

// GetLine returns io.EOF on Ctrl-D and Ctrl-C. Non-blank lines are saved to
// history.
func (r *termReader) GetLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	line, err := r.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	if s := strings.TrimSpace(line); s != "" {
		r.rl.SaveToHistory(s)
	}
	return line, nil
}

func (r *termReader) Close() {
	if r.rl != nil {
		r.rl.Close()
		r.rl = nil
	}
}

// pipeReader reads one line per call from a scanner.
type pipeReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (r *pipeReader) GetLine(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (r *pipeReader) Close() {}

// GO CONCEPT: Implicit Interfaces
// -------------------------------
// readline.AutoCompleter is satisfied by any type with a matching Do
// method. completer never names the interface; the compiler checks the
// method set where consoleCompleter returns it. An empty struct works
// because the completion tables are package-level.
// completer completes dot commands, and help topics after ".help ".
// It implements readline.AutoCompleter.
type completer struct{}

func consoleCompleter() readline.AutoCompleter {
	return completer{}
}

// Do returns the suffixes that complete the word ending at pos and the
// length of that word.
func (completer) Do(line []rune, pos int) ([][]rune, int) {
	return completions(string(line[:pos]))
}

func completions(before string) ([][]rune, int) {
	var candidates []string
	word := before
	switch {
	case strings.HasPrefix(before, ".help "):
		word = strings.TrimLeft(strings.TrimPrefix(before, ".help "), " ")
		candidates = consoleTopics()
	case !strings.Contains(before, " "):
		for _, t := range consoleTopics() {
			candidates = append(candidates, "."+t)
		}
	default:
		return nil, 0
	}

	var out [][]rune
	for _, c := range candidates {
		if strings.HasPrefix(c, word) && c != word {
			out = append(out, []rune(c[len(word):]+" "))
		}
	}
	return out, len([]rune(word))
}
