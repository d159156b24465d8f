package zplprotocol

import (
	"errors"
	"slices"
	"testing"
)

func tokens(b *Block) []string {
	var out []string
	for _, e := range b.Entries() {
		switch x := e.(type) {
		case *Command:
			out = append(out, x.Descriptor().Token())
		case Raw:
			out = append(out, "raw:"+string(x))
		}
	}
	return out
}

func TestParse(t *testing.T) {
	b, err := Parse("^XA\r\n^FO20,20\r\n^A0N,30,30\r\n^FDHello, World^FS\r\n^XZ", ParseOptions{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"XA", "FO", "A", "FD", "FS", "XZ"}
	if got := tokens(b); !slices.Equal(got, want) {
		t.Fatalf("tokens %v, want %v", got, want)
	}

	entries := b.Entries()
	font := entries[2].(*Command)
	for name, expected := range map[string]string{"font": "0", "orientation": "N", "height": "30", "width": "30"} {
		if v, _ := font.GetName(name); v != expected {
			t.Errorf("font %s = %q, want %q", name, v, expected)
		}
	}
	data := entries[3].(*Command)
	if v, _ := data.Get(0); v != "Hello, World" {
		t.Errorf("verbatim data = %q", v)
	}
}

func TestParseRoundTrip(t *testing.T) {
	l := NewLabel(nil)
	l.Comment("round trip").Home(5, 5)
	l.NewField().Position(10, 20).Font("0", Rotate90, 40, 0).Data("50% off").Close()
	l.NewField().Position(30, 40).Code128("ABC-123", 80, false).Close()
	l.NewField().Position(0, 0).Box(100, 50, 2, Black, 0).Close()
	l.NewField().Position(0, 0).QRCode("x", 4, "H").Close()

	rendered := l.String()
	b, err := Parse(rendered, ParseOptions{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := b.Render(l.RenderOptions()); got != rendered {
		t.Errorf("round trip:\n got %q\nwant %q", got, rendered)
	}
}

func TestParseSyntaxChanges(t *testing.T) {
	text := "~CC+~CT##CD;+XA+FO1;2#HS+XZ"
	b, err := Parse(text, ParseOptions{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"CC", "CT", "CD", "XA", "FO", "HS", "XZ"}
	if got := tokens(b); !slices.Equal(got, want) {
		t.Fatalf("tokens %v, want %v", got, want)
	}
	if got := b.Render(FlatRenderOptions()); got != text {
		t.Errorf("rendered %q, want %q", got, text)
	}
}

func TestParseStartingSyntax(t *testing.T) {
	b, err := Parse("+FO1;2", ParseOptions{Syntax: Syntax{FormatPrefix: '+', Delimiter: ';'}})
	if err != nil {
		t.Fatal(err)
	}
	c := b.Entries()[0].(*Command)
	if y, _ := c.GetName("y"); y != "2" {
		t.Errorf("y = %q", y)
	}
}

func TestParseVerbatimKeepsControlPrefix(t *testing.T) {
	b, err := Parse("^FDa~b,c^FS", ParseOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := b.Entries()[0].(*Command).Get(0); v != "a~b,c" {
		t.Errorf("data = %q", v)
	}
}

func TestParseLowercaseToken(t *testing.T) {
	b, err := Parse("^xa^fo1,2^xz", ParseOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if got := b.Render(FlatRenderOptions()); got != "^XA^FO1,2^XZ" {
		t.Errorf("got %q", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		kind   ParseErrorKind
		offset int
	}{
		{"unknown command", "^XA^QQ1^XZ", ErrKindUnknownCommand, 3},
		{"missing prefix", "hello^XA", ErrKindMissingPrefix, 0},
		{"stray text between commands", "^XA\r\nfoo\r\n^XZ", ErrKindMissingPrefix, 5},
		{"syntax change without character", "^XA~CC", ErrKindInvalidSyntaxChange, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text, ParseOptions{})
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("error = %v, want *ParseError", err)
			}
			if parseErr.Kind != tt.kind || parseErr.Offset != tt.offset {
				t.Errorf("got kind %d offset %d, want kind %d offset %d",
					parseErr.Kind, parseErr.Offset, tt.kind, tt.offset)
			}
		})
	}
}

func TestParseLenient(t *testing.T) {
	b, err := Parse("^XA^QQ1\r\nhello\r\n^XZ", ParseOptions{Lenient: true})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"XA", "raw:^QQ1", "raw:hello", "XZ"}
	if got := tokens(b); !slices.Equal(got, want) {
		t.Errorf("tokens %v, want %v", got, want)
	}
}

func TestLint(t *testing.T) {
	b, err := Parse("^XA^GFA,8^QQ^FO1,1^XZ", ParseOptions{Lenient: true})
	if err != nil {
		t.Fatal(err)
	}
	errs := Lint(b)
	if len(errs) != 2 {
		t.Fatalf("got %d findings: %v", len(errs), errs)
	}
	var first, second *ParseError
	if !errors.As(errs[0], &first) || first.Kind != ErrKindMissingArgument {
		t.Errorf("first finding %v", errs[0])
	}
	if !errors.As(errs[1], &second) || second.Kind != ErrKindUnknownCommand {
		t.Errorf("second finding %v", errs[1])
	}

	clean := NewLabel(nil)
	clean.Text(0, 0, "ok")
	if errs := Lint(clean.Block); len(errs) != 0 {
		t.Errorf("clean label has findings: %v", errs)
	}
}
