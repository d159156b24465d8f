package zplprotocol

import (
	"testing"
)

func TestParamsRender(t *testing.T) {
	tests := []struct {
		name     string
		values   []any
		expected string
	}{
		{"empty", nil, ""},
		{"all absent", []any{nil, nil}, ""},
		{"trailing absent", []any{"A", nil, nil}, "A"},
		{"leading absent", []any{nil, "B"}, ",B"},
		{"inner absent", []any{"A", nil, "C"}, "A,,C"},
		{"all present", []any{"A", "B", "C"}, "A,B,C"},
		{"empty string is present", []any{"A", ""}, "A,"},
		{"ints", []any{20, 30}, "20,30"},
		{"bools", []any{true, false}, "Y,N"},
		{"float", []any{2.5}, "2.5"},
		{"enum", []any{Rotate90, Center}, "R,C"},
		{"charset", []any{CharSetUTF8}, "28"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParams(nil, tt.values...)
			if got := p.Render(','); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
			if again := p.Render(','); again != tt.expected {
				t.Errorf("second render got %q, want %q", again, tt.expected)
			}
		})
	}
}

func TestParamsNilPointerIsAbsent(t *testing.T) {
	var n *int
	p := NewParams(nil, "A", n)
	if got := p.String(); got != "A" {
		t.Errorf("got %q, want %q", got, "A")
	}
	v := 7
	p.Set(1, &v)
	if got := p.String(); got != "A,7" {
		t.Errorf("got %q, want %q", got, "A,7")
	}
}

func TestParamsSetGrows(t *testing.T) {
	p := NewParams(nil)
	p.Set(2, "C")
	if p.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", p.Len())
	}
	if got := p.String(); got != ",,C" {
		t.Errorf("got %q, want %q", got, ",,C")
	}
	if _, ok := p.Get(0); ok {
		t.Error("padding slot should be absent")
	}

	p.Set(2, nil)
	if got := p.String(); got != "" {
		t.Errorf("after clearing got %q, want empty", got)
	}
	p.Set(-1, "X")
	if p.Len() != 3 {
		t.Errorf("negative index changed length to %d", p.Len())
	}
}

func TestParamsByName(t *testing.T) {
	p := NewParams(FieldOrigin)
	p.SetName("y", 40)
	p.SetName("x", 10)
	p.SetName("bogus", 99)

	if got := p.String(); got != "10,40" {
		t.Errorf("got %q, want %q", got, "10,40")
	}
	if v, ok := p.GetName("y"); !ok || v != "40" {
		t.Errorf("GetName(y) = %q, %v", v, ok)
	}
	if _, ok := p.GetName("bogus"); ok {
		t.Error("unknown name should report absent")
	}
}

func TestParamsCustomDelimiter(t *testing.T) {
	p := NewParams(nil, 1, nil, 3)
	if got := p.Render(';'); got != "1;;3" {
		t.Errorf("got %q, want %q", got, "1;;3")
	}
}

func TestParamsClone(t *testing.T) {
	p := NewParams(nil, "A", "B")
	c := p.clone()
	c.Set(0, "Z")
	if got := p.String(); got != "A,B" {
		t.Errorf("original changed to %q", got)
	}
	if got := c.String(); got != "Z,B" {
		t.Errorf("clone got %q, want %q", got, "Z,B")
	}
}
