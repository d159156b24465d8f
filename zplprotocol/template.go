package zplprotocol

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/valyala/fasttemplate"
)

// Placeholder tags in a rendered program.
const (
	TemplateStartTag = "{"
	TemplateEndTag   = "}"
)

// Template is a rendered program with {key} placeholders, filled once per
// record. Values are converted to the template's character set and hex
// escaped, so placeholders belong in ^FH-enabled field data (see
// Field.Placeholder).
type Template struct {
	tmpl    *fasttemplate.Template
	special string
	charset CharSet
	keys    []string

	// literal holds brace-wrapped words that are not placeholders, such as
	// a {word} in a ^FX comment. They are written back unchanged.
	literal map[string]bool
}

// NewTemplate parses rendered, which was produced in the default
// environment. Every {word} in it is a placeholder.
func NewTemplate(rendered string) (*Template, error) {
	return newTemplate(rendered, DefaultProperties(), nil)
}

// LabelTemplate renders l and parses the result. Values are escaped for the
// syntax and character set in force at the end of the label. Only fields
// set with Field.Placeholder are placeholders; braces anywhere else, as in
// Label.Comment text, print as written.
func LabelTemplate(l *Label) (*Template, error) {
	_, props := l.Measure(l.opts.Props)
	return newTemplate(string(l.Payload()), props, placeholderKeys(l.Block))
}

// placeholderKeys collects the keys of placeholder fields in b.
func placeholderKeys(b *Block) map[string]bool {
	keys := make(map[string]bool)
	var visit func(*Block)
	visit = func(b *Block) {
		for _, e := range b.Entries() {
			switch x := e.(type) {
			case *Field:
				if key, ok := placeholderKey(x.text); ok {
					keys[key] = true
				}
				visit(x.Block)
			case *Block:
				visit(x)
			}
		}
	}
	visit(b)
	return keys
}

func placeholderKey(text string) (string, bool) {
	if len(text) < 2 || !strings.HasPrefix(text, TemplateStartTag) || !strings.HasSuffix(text, TemplateEndTag) {
		return "", false
	}
	return text[len(TemplateStartTag) : len(text)-len(TemplateEndTag)], true
}

// newTemplate parses rendered. With a nil placeholders set every tag is a
// placeholder; otherwise tags outside the set are literal.
func newTemplate(rendered string, props Properties, placeholders map[string]bool) (*Template, error) {
	tmpl, err := fasttemplate.NewTemplate(rendered, TemplateStartTag, TemplateEndTag)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	s := props.Syntax.normalized()
	t := &Template{
		tmpl:    tmpl,
		special: specialChars + string([]byte{DefaultHexIndicator, s.FormatPrefix, s.ControlPrefix, s.Delimiter}),
		charset: props.CharSet,
		literal: make(map[string]bool),
	}
	seen := make(map[string]bool)
	tmpl.ExecuteFuncString(func(_ io.Writer, tag string) (int, error) {
		switch {
		case placeholders != nil && !placeholders[tag]:
			t.literal[tag] = true
		case !seen[tag]:
			seen[tag] = true
			t.keys = append(t.keys, tag)
		}
		return 0, nil
	})
	return t, nil
}

// Keys returns the placeholder names in order of first appearance.
func (t *Template) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Execute fills every placeholder from record. A placeholder without a
// value fails with ErrMissingRecordKey.
func (t *Template) Execute(record map[string]any) (string, error) {
	return t.tmpl.ExecuteFuncStringWithErr(func(w io.Writer, tag string) (int, error) {
		if t.literal[tag] {
			return io.WriteString(w, TemplateStartTag+tag+TemplateEndTag)
		}
		v, ok := record[tag]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrMissingRecordKey, tag)
		}
		s, _ := stringify(v)
		escaped, _ := EscapeData(EncodeText(s, t.charset), DefaultHexIndicator, t.special)
		return io.WriteString(w, escaped)
	})
}

// PrintRecords renders label once and sends one copy per record. All
// records are filled before anything is sent, so a missing key sends
// nothing.
func PrintRecords(ctx context.Context, sender Sender, label *Label, records []map[string]any) error {
	t, err := LabelTemplate(label)
	if err != nil {
		return err
	}
	payloads := make([][]byte, 0, len(records))
	for i, r := range records {
		p, err := t.Execute(r)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		payloads = append(payloads, []byte(p))
	}
	_, err = SendAll(ctx, sender, payloads, false)
	return err
}
