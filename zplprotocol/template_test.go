package zplprotocol

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

func nameBadge() *Label {
	l := NewLabel(nil, WithLineBreaks(false))
	l.NewField().Position(10, 10).Placeholder("name").Close()
	l.NewField().Position(10, 50).Placeholder("id").Close()
	return l
}

func TestTemplateExecute(t *testing.T) {
	tmpl, err := LabelTemplate(nameBadge())
	if err != nil {
		t.Fatalf("LabelTemplate: %v", err)
	}
	if got := tmpl.Keys(); !slices.Equal(got, []string{"name", "id"}) {
		t.Errorf("Keys() = %v", got)
	}

	got, err := tmpl.Execute(map[string]any{"name": "Ada, 100%", "id": 42})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want := "^XA^FO10,10^FH_^FDAda_2C 100_25^FS^FO10,50^FH_^FD42^FS^XZ"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTemplateMissingKey(t *testing.T) {
	tmpl, err := LabelTemplate(nameBadge())
	if err != nil {
		t.Fatal(err)
	}
	_, err = tmpl.Execute(map[string]any{"name": "x"})
	if !errors.Is(err, ErrMissingRecordKey) {
		t.Errorf("error = %v, want ErrMissingRecordKey", err)
	}
}

func TestTemplateEscapedBracesAreNotTags(t *testing.T) {
	l := NewLabel(nil, WithLineBreaks(false))
	l.Text(0, 0, "{literal}")
	tmpl, err := LabelTemplate(l)
	if err != nil {
		t.Fatal(err)
	}
	if len(tmpl.Keys()) != 0 {
		t.Errorf("escaped braces read as tags: %v", tmpl.Keys())
	}
	got, err := tmpl.Execute(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != l.String() {
		t.Errorf("got %q, want %q", got, l.String())
	}
}

func TestTemplateIgnoresBracesInComments(t *testing.T) {
	l := NewLabel(nil, WithLineBreaks(false))
	l.Comment("layout {v2}")
	l.NewField().Placeholder("name").Close()
	tmpl, err := LabelTemplate(l)
	if err != nil {
		t.Fatal(err)
	}
	if keys := tmpl.Keys(); len(keys) != 1 || keys[0] != "name" {
		t.Fatalf("keys = %v, want [name]", keys)
	}
	got, err := tmpl.Execute(map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"^FXlayout {v2}", "^FDAda"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q does not contain %q", got, want)
		}
	}
}

func TestTemplateEncodesValues(t *testing.T) {
	l := NewLabel(nil, WithLineBreaks(false))
	l.Encoding(CharSetZebra1252)
	l.NewField().Placeholder("city").Close()
	tmpl, err := LabelTemplate(l)
	if err != nil {
		t.Fatal(err)
	}
	got, err := tmpl.Execute(map[string]any{"city": "Zürich"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "^FDZ\xfcrich") {
		t.Errorf("got %q", got)
	}
}

func TestNewTemplate(t *testing.T) {
	tmpl, err := NewTemplate("^XA^FH_^FD{sku}^FS^XZ")
	if err != nil {
		t.Fatal(err)
	}
	got, err := tmpl.Execute(map[string]any{"sku": "A^B"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "^XA^FH_^FDA_5EB^FS^XZ" {
		t.Errorf("got %q", got)
	}
}

func TestPrintRecords(t *testing.T) {
	var buf bytes.Buffer
	records := []map[string]any{
		{"name": "Ada", "id": 1},
		{"name": "Grace", "id": 2},
	}
	if err := PrintRecords(context.Background(), NewWriterSender(&buf), nameBadge(), records); err != nil {
		t.Fatalf("PrintRecords: %v", err)
	}
	out := buf.String()
	if strings.Count(out, "^XA") != 2 || !strings.Contains(out, "^FDGrace") {
		t.Errorf("got %q", out)
	}
}

func TestPrintRecordsSendsNothingOnMissingKey(t *testing.T) {
	rec := &recorder{}
	records := []map[string]any{
		{"name": "Ada", "id": 1},
		{"name": "Grace"},
	}
	err := PrintRecords(context.Background(), rec, nameBadge(), records)
	if !errors.Is(err, ErrMissingRecordKey) {
		t.Fatalf("error = %v", err)
	}
	if len(rec.payloads) != 0 {
		t.Errorf("sent %d payloads", len(rec.payloads))
	}
}
