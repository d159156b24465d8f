package zplprotocol

import (
	"errors"
	"strings"
	"testing"
)

func TestParseHostStatus(t *testing.T) {
	s, err := ParseHostStatus(CannedHostStatus)
	if err != nil {
		t.Fatalf("ParseHostStatus: %v", err)
	}

	expected := InterfaceSettings{
		Baud:      9600,
		Handshake: "Xon/Xoff",
		Parity:    "Odd",
		Enabled:   false,
		StopBits:  1,
		DataBits:  8,
	}
	if s.Interface != expected {
		t.Errorf("interface %+v, want %+v", s.Interface, expected)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"LabelLength", s.LabelLength, 346},
		{"PrintMode", s.PrintMode, PrintMode("Tear-Off")},
		{"RibbonOut", s.RibbonOut, true},
		{"PaperOut", s.PaperOut, false},
		{"PrintWidthMode", s.PrintWidthMode, 4},
		{"FormatWhilePrint", s.FormatWhilePrint, true},
		{"GraphicsStored", s.GraphicsStored, 12},
		{"Password", s.Password, "1234"},
		{"StaticRAMInstalled", s.StaticRAMInstalled, false},
		{"MediaType", s.Functions.MediaType, "Die-Cut"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %v, want %v", tt.got, tt.expected)
			}
		})
	}

	if s.Ready() {
		t.Error("ribbon out: printer should not be ready")
	}
	if !strings.Contains(s.String(), "9600 baud") {
		t.Errorf("String() = %q", s.String())
	}
}

func TestParseHostStatusBareNewlines(t *testing.T) {
	raw := strings.ReplaceAll(CannedHostStatus, "\r\n", "\n")
	if _, err := ParseHostStatus(raw); err != nil {
		t.Errorf("LF-only reply: %v", err)
	}
}

func TestParseHostStatusErrors(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{"empty", "", ""},
		{"garbage", "hello", ""},
		{"two lines", "\x02030,0,0,0346,000,0,0,0,000,0,0,0\x03\r\n\x02000,0,0,1,0,2,4,0,00000000,1,012\x03\r\n", ""},
		{
			"unknown print mode",
			strings.Replace(CannedHostStatus, ",2,4,", ",X,4,", 1),
			"print_mode",
		},
		{
			"interface too wide",
			strings.Replace(CannedHostStatus, "\x02030,", "\x021024,", 1),
			"interface",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHostStatus(tt.raw)
			var decodeErr *ProtocolDecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("error = %v, want *ProtocolDecodeError", err)
			}
			if decodeErr.Field != tt.field {
				t.Errorf("field %q, want %q", decodeErr.Field, tt.field)
			}
		})
	}
}
