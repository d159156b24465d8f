// =============================================================================
// translate.go - REPL Input Translation
// =============================================================================
//
// Translates one line of REPL input into a payload for the printer.
//
// Lines starting with a dot are console commands:
//
//	.text X Y TEXT           Text field
//	.box X Y W H [T]         Box (border thickness T, default 1)
//	.circle X Y D [T]        Circle
//	.qr X Y DATA             QR code
//	.code128 X Y H DATA      Code 128 barcode with interpretation line
//	.raw TEXT                Send TEXT as is, without parsing
//	.status                  Query and decode ~HS
//	.identify                Query ~HI
//	.syntax [F C D]          Show or change prefixes and delimiter
//	.help [topic]            Help
//	.quit                    Exit
//
// Any other line is ZPL. It is parsed with the syntax in force, so typos
// are reported before anything reaches the printer, and a reply is awaited
// when a command in it produces one (~HS, ~HI, ...).
//
// =============================================================================

package main

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/zplcommander/zplcommander/zplprotocol"
)

// actionKind says what the REPL does with a translated line.
type actionKind int

const (
	// actionSend sends the payload.
	actionSend actionKind = iota
	// actionStatus sends ~HS and decodes the reply.
	actionStatus
	// actionShowSyntax prints the syntax in force.
	actionShowSyntax
	// actionHelp prints help for arg.
	actionHelp
	// actionQuit leaves the REPL.
	actionQuit
)

// replAction is the translation of one input line.
type replAction struct {
	kind         actionKind
	arg          string
	payload      []byte
	wantResponse bool

	// syntax is in force once the payload has been sent.
	syntax zplprotocol.Syntax
}

// translator keeps the state that translation depends on.
type translator struct {
	syntax       zplprotocol.Syntax
	labelOptions []zplprotocol.LabelOption
	charSet      zplprotocol.CharSet
	hasCharSet   bool
}

func newTranslator(cfg *Config) *translator {
	cs, ok := cfg.charSet()
	return &translator{
		syntax:       cfg.syntax(),
		labelOptions: cfg.labelOptions(),
		charSet:      cs,
		hasCharSet:   ok,
	}
}

// label starts a label in the current syntax.
func (t *translator) label() *zplprotocol.Label {
	opts := append(slices.Clone(t.labelOptions), zplprotocol.WithSyntax(t.syntax))
	l := zplprotocol.NewLabel(nil, opts...)
	if t.hasCharSet {
		l.Encoding(t.charSet)
	}
	return l
}

// render writes entries in the current syntax, tracking syntax changes.
func (t *translator) render(b *zplprotocol.Block) ([]byte, zplprotocol.Syntax) {
	opts := t.label().RenderOptions()
	opts.Encode = false
	d := b.Dump(opts)
	return []byte(d.Text), d.Props.Syntax
}

func (t *translator) send(l *zplprotocol.Label) replAction {
	return replAction{kind: actionSend, payload: l.Payload(), syntax: t.syntax}
}

// GO CONCEPT: switch on Strings
// ------------------------------
// A Go switch compares against any comparable type, strings included, and
// cases do not fall through. One case can list several values, as
// ".quit" and ".exit" do below. strings.Cut splits at the first space and
// returns both halves, which is all a dot command needs.
// translate converts one non-empty line.
func (t *translator) translate(line string) (replAction, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, ".") {
		return t.translateZPL(line)
	}

	keyword, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(keyword) {
	case ".quit", ".exit":
		return replAction{kind: actionQuit}, nil

	case ".help":
		return replAction{kind: actionHelp, arg: rest}, nil

	case ".status":
		b := zplprotocol.NewBlock(nil, nil)
		b.Add(zplprotocol.HostStatusRequest.Call())
		payload, syntax := t.render(b)
		return replAction{kind: actionStatus, payload: payload, wantResponse: true, syntax: syntax}, nil

	case ".identify":
		b := zplprotocol.NewBlock(nil, nil)
		b.Add(zplprotocol.HostIdentification.Call())
		payload, syntax := t.render(b)
		return replAction{kind: actionSend, payload: payload, wantResponse: true, syntax: syntax}, nil

	case ".raw":
		if rest == "" {
			return replAction{}, errors.New("usage: .raw TEXT")
		}
		return replAction{kind: actionSend, payload: []byte(rest), syntax: t.syntax}, nil

	case ".syntax":
		return t.translateSyntax(rest)

	case ".text":
		nums, text, err := numbersThenText(rest, 2)
		if err != nil || text == "" {
			return replAction{}, errors.New("usage: .text X Y TEXT")
		}
		l := t.label()
		l.Text(nums[0], nums[1], text)
		return t.send(l), nil

	case ".box":
		nums, err := numbers(rest, 4, 5)
		if err != nil {
			return replAction{}, fmt.Errorf("usage: .box X Y W H [T]: %w", err)
		}
		thickness := 1
		if len(nums) == 5 {
			thickness = nums[4]
		}
		l := t.label()
		l.NewField().Position(nums[0], nums[1]).Box(nums[2], nums[3], thickness, zplprotocol.Black, 0).Close()
		return t.send(l), nil

	case ".circle":
		nums, err := numbers(rest, 3, 4)
		if err != nil {
			return replAction{}, fmt.Errorf("usage: .circle X Y D [T]: %w", err)
		}
		thickness := 1
		if len(nums) == 4 {
			thickness = nums[3]
		}
		l := t.label()
		l.NewField().Position(nums[0], nums[1]).Circle(nums[2], thickness, zplprotocol.Black).Close()
		return t.send(l), nil

	case ".qr":
		nums, data, err := numbersThenText(rest, 2)
		if err != nil || data == "" {
			return replAction{}, errors.New("usage: .qr X Y DATA")
		}
		l := t.label()
		l.NewField().Position(nums[0], nums[1]).QRCode(data, 5, "M").Close()
		return t.send(l), nil

	case ".code128":
		nums, data, err := numbersThenText(rest, 3)
		if err != nil || data == "" {
			return replAction{}, errors.New("usage: .code128 X Y H DATA")
		}
		l := t.label()
		l.NewField().Position(nums[0], nums[1]).Code128(data, nums[2], true).Close()
		return t.send(l), nil
	}
	return replAction{}, fmt.Errorf("unknown command %s (type .help)", keyword)
}

// translateZPL parses a line of ZPL in the current syntax.
func (t *translator) translateZPL(line string) (replAction, error) {
	b, err := zplprotocol.Parse(line, zplprotocol.ParseOptions{Syntax: t.syntax})
	if err != nil {
		return replAction{}, err
	}
	want := !b.Walk(func(c *zplprotocol.Command) bool {
		return !c.Descriptor().Response()
	})
	payload, syntax := t.render(b)
	return replAction{kind: actionSend, payload: payload, wantResponse: want, syntax: syntax}, nil
}

// translateSyntax shows the syntax, or changes it with ~CC, ~CT and ~CD.
func (t *translator) translateSyntax(rest string) (replAction, error) {
	if rest == "" {
		return replAction{kind: actionShowSyntax, syntax: t.syntax}, nil
	}
	chars := strings.Fields(rest)
	if len(chars) != 3 || len(chars[0]) != 1 || len(chars[1]) != 1 || len(chars[2]) != 1 {
		return replAction{}, errors.New("usage: .syntax FORMAT CONTROL DELIMITER")
	}
	if chars[0] == chars[1] || chars[0] == chars[2] || chars[1] == chars[2] {
		return replAction{}, errors.New("prefixes and delimiter must differ")
	}
	b := zplprotocol.NewBlock(nil, nil)
	b.Add(zplprotocol.FormatPrefixChange.Call(chars[0]))
	b.Add(zplprotocol.ControlPrefixChange.Call(chars[1]))
	b.Add(zplprotocol.DelimiterChange.Call(chars[2]))
	payload, syntax := t.render(b)
	return replAction{kind: actionSend, payload: payload, syntax: syntax}, nil
}

// numbers parses between lo and hi integer arguments.
func numbers(s string, lo, hi int) ([]int, error) {
	fields := strings.Fields(s)
	if len(fields) < lo || len(fields) > hi {
		return nil, fmt.Errorf("expected %d to %d numbers, got %d", lo, hi, len(fields))
	}
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", f)
		}
		out[i] = n
	}
	return out, nil
}

// numbersThenText parses n integers followed by free text.
func numbersThenText(s string, n int) ([]int, string, error) {
	out := make([]int, n)
	for i := range n {
		s = strings.TrimLeft(s, " \t")
		field, remainder, _ := strings.Cut(s, " ")
		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, "", fmt.Errorf("%q is not a number", field)
		}
		out[i] = v
		s = remainder
	}
	return out, strings.TrimSpace(s), nil
}

// formatSyntax describes a syntax for display.
func formatSyntax(s zplprotocol.Syntax) string {
	return fmt.Sprintf("format prefix %c, control prefix %c, delimiter %c",
		s.FormatPrefix, s.ControlPrefix, s.Delimiter)
}
