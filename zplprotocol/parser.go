package zplprotocol

import (
	"strings"
)

// ParseOptions controls Parse.
type ParseOptions struct {
	// Syntax is the syntax in force at the start of the text. The zero
	// value is DefaultSyntax.
	Syntax Syntax
	// Lenient keeps unknown commands and stray text as Raw entries instead
	// of failing.
	Lenient bool
}

// maxTokenLen is the length of the longest catalog token.
const maxTokenLen = 2

// Parse reads a ZPL program into a flat block of commands, in order.
// Line breaks between commands are ignored. Prefix and delimiter changes
// (~CC, ~CT, ~CD) apply to the text that follows them.
func Parse(text string, opts ParseOptions) (*Block, error) {
	p := parser{text: text, syntax: opts.Syntax.normalized(), lenient: opts.Lenient}
	return p.parse()
}

type parser struct {
	text    string
	pos     int
	syntax  Syntax
	lenient bool
	out     *Block
	seq     int
}

func (p *parser) add(e Entry) {
	p.out.AddAt(Position(p.seq), e)
	p.seq++
}

func (p *parser) parse() (*Block, error) {
	p.out = NewBlock(nil, nil)
	for p.pos < len(p.text) {
		c := p.text[p.pos]
		if c == '\r' || c == '\n' {
			p.pos++
			continue
		}
		if c != p.syntax.FormatPrefix && c != p.syntax.ControlPrefix {
			if err := p.stray(); err != nil {
				return nil, err
			}
			continue
		}
		if err := p.command(); err != nil {
			return nil, err
		}
	}
	return p.out, nil
}

// stray handles text that is not inside a command.
func (p *parser) stray() error {
	start := p.pos
	end := p.nextPrefix(start, false)
	chunk := p.text[start:end]
	p.pos = end
	if strings.TrimSpace(chunk) == "" {
		return nil
	}
	if !p.lenient {
		return newMissingPrefixError(chunk, start)
	}
	p.add(Raw(strings.TrimRight(chunk, "\r\n")))
	return nil
}

func (p *parser) command() error {
	start := p.pos
	ns := Format
	if p.text[start] == p.syntax.ControlPrefix && p.text[start] != p.syntax.FormatPrefix {
		ns = Control
	}

	d, tokenEnd := p.token(ns, start+1)
	if d == nil {
		end := p.nextPrefix(start+1, false)
		p.pos = end
		raw := strings.TrimRight(p.text[start:end], "\r\n")
		if !p.lenient {
			return newUnknownCommandError(raw, start)
		}
		p.add(Raw(raw))
		return nil
	}

	switch d.token {
	case "CC", "CT", "CD":
		return p.syntaxChange(d, start, tokenEnd)
	}

	end := p.nextPrefix(tokenEnd, d.verbatim)
	args := strings.TrimRight(p.text[tokenEnd:end], "\r\n")
	p.pos = end
	p.add(p.instance(d, args))
	return nil
}

// token finds the longest catalog token at pos.
func (p *parser) token(ns Namespace, pos int) (*Descriptor, int) {
	for n := maxTokenLen; n >= 1; n-- {
		if pos+n > len(p.text) {
			continue
		}
		if d, ok := Lookup(ns, strings.ToUpper(p.text[pos:pos+n])); ok {
			return d, pos + n
		}
	}
	return nil, pos
}

// syntaxChange reads the one-character argument of ~CC, ~CT or ~CD and
// switches the syntax for the rest of the text.
func (p *parser) syntaxChange(d *Descriptor, start, argPos int) error {
	if argPos >= len(p.text) || p.text[argPos] == '\r' || p.text[argPos] == '\n' {
		p.pos = argPos
		if !p.lenient {
			return newInvalidSyntaxChangeError(p.text[start:argPos], start)
		}
		p.add(Raw(p.text[start:argPos]))
		return nil
	}
	ch := p.text[argPos]
	p.pos = argPos + 1
	p.add(d.Call(string(ch)))
	switch d.token {
	case "CC":
		p.syntax.FormatPrefix = ch
	case "CT":
		p.syntax.ControlPrefix = ch
	case "CD":
		p.syntax.Delimiter = ch
	}
	return nil
}

// nextPrefix returns the index where the text starting at pos ends: the
// next command prefix, a line break, or the end of the text. Verbatim data
// runs across line breaks and control prefixes up to a format prefix.
func (p *parser) nextPrefix(pos int, verbatim bool) int {
	for i := pos; i < len(p.text); i++ {
		c := p.text[i]
		if c == p.syntax.FormatPrefix {
			return i
		}
		if !verbatim && (c == p.syntax.ControlPrefix || c == '\r' || c == '\n') {
			return i
		}
	}
	return len(p.text)
}

// instance splits args into parameters for d.
func (p *parser) instance(d *Descriptor, args string) *Command {
	c := &Command{desc: d, params: Params{desc: d}}
	if args == "" {
		return c
	}
	if d.verbatim {
		c.params.Append(args)
		return c
	}
	fields := strings.Split(args, string(p.syntax.Delimiter))
	if d.fused > 1 {
		head := fields[0]
		for i := 0; i < d.fused-1 && head != ""; i++ {
			c.params.Append(head[:1])
			head = head[1:]
		}
		if head != "" {
			c.params.Append(head)
		}
		fields = fields[1:]
	}
	for _, f := range fields {
		c.params.Append(f)
	}
	return c
}

// Lint reports commands in b whose required parameters are missing, and
// Raw entries that look like unknown commands.
func Lint(b *Block) []error {
	var errs []error
	var visit func(e Entry)
	visit = func(e Entry) {
		switch x := e.(type) {
		case *Command:
			if missing := x.Missing(); len(missing) > 0 {
				errs = append(errs, newMissingArgumentError(x.desc.String(),
					"missing "+strings.Join(missing, ", ")))
			}
		case *Block:
			lintBlock(x, visit)
		case *Field:
			lintBlock(x.Block, visit)
		case Raw:
			s := string(x)
			if s != "" && (s[0] == DefaultFormatPrefix || s[0] == DefaultControlPrefix) {
				errs = append(errs, newUnknownCommandError(s, -1))
			}
		}
	}
	lintBlock(b, visit)
	return errs
}

func lintBlock(b *Block, visit func(Entry)) {
	if b.start != nil {
		visit(b.start)
	}
	for _, e := range b.Entries() {
		visit(e)
	}
	if b.end != nil {
		visit(b.end)
	}
}
