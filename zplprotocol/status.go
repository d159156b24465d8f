package zplprotocol

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// HostStatus is the decoded reply to ~HS.
type HostStatus struct {
	Interface InterfaceSettings

	PaperOut           bool
	Paused             bool
	LabelLength        int // dots
	FormatsInBuffer    int
	BufferFull         bool
	DiagnosticMode     bool
	PartialFormat      bool
	CorruptRAM         bool
	UnderTemperature   bool
	OverTemperature    bool
	Functions          FunctionSettings
	HeadUp             bool
	RibbonOut          bool
	ThermalTransfer    bool
	PrintMode          PrintMode
	PrintWidthMode     int
	LabelWaiting       bool
	LabelsRemaining    int
	FormatWhilePrint   bool
	GraphicsStored     int
	Password           string
	StaticRAMInstalled bool
}

// InterfaceSettings describes the serial port configuration reported in
// the first ~HS line.
type InterfaceSettings struct {
	Baud      int
	Handshake string // Xon/Xoff or DTR
	Parity    string // Odd or Even
	Enabled   bool
	StopBits  int
	DataBits  int
}

// FunctionSettings is the function byte of the second ~HS line.
type FunctionSettings struct {
	MediaType       string // Die-Cut or Continuous
	SensorProfile   bool
	Diagnostics     bool
	ThermalTransfer bool
}

// PrintMode is the media handling mode reported by ~HS.
type PrintMode string

var printModes = map[string]PrintMode{
	"0": "Rewind",
	"1": "Peel-Off",
	"2": "Tear-Off",
	"3": "Cutter",
	"4": "Applicator",
	"5": "Delayed Cut",
	"6": "Linerless Peel",
	"7": "Linerless Rewind",
	"8": "Partial Cutter",
	"9": "RFID",
	"K": "Kiosk",
	"S": "Stream",
	"A": "Kiosk CutStream",
}

var bauds = map[string]int{
	"0000": 110,
	"0001": 300,
	"0010": 600,
	"0011": 1200,
	"0100": 2400,
	"0101": 4800,
	"0110": 9600,
	"0111": 19200,
	"1000": 28800,
	"1001": 38400,
	"1010": 57600,
	"1011": 14400,
}

var hostStatusPattern = regexp.MustCompile(
	`^\x02(\d+),(\d+),(\d+),(\d+),(\d+),(\d+),(\d+),(\d+),\d+,(\d+),(\d+),(\d+)\x03\r?\n` +
		`\x02(\d+),\d+,(\d+),(\d+),(\d+),(\w),(\d+),(\d+),(\d+),(\d+),(\d+)\x03\r?\n` +
		`\x02(\w+),(\d+)\x03`)

// Field names in submatch order.
var hostStatusFields = []string{
	"interface", "paper_out", "pause", "label_length", "formats_in_buffer",
	"buffer_full", "diagnostic_mode", "partial_format", "corrupt_ram",
	"under_temperature", "over_temperature",
	"function_settings", "head_up", "ribbon_out", "thermal_transfer",
	"print_mode", "print_width_mode", "label_waiting", "labels_remaining",
	"format_while_printing", "graphics_stored",
	"password", "static_ram",
}

// ParseHostStatus decodes the three framed lines of a ~HS reply.
func ParseHostStatus(raw string) (*HostStatus, error) {
	m := hostStatusPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return nil, newDecodeError(raw, "", "host status does not have three framed lines", nil)
	}
	values := make(map[string]string, len(hostStatusFields))
	for i, name := range hostStatusFields {
		values[name] = m[i+1]
	}

	d := statusDecoder{raw: raw, values: values}
	s := &HostStatus{
		PaperOut:           d.flag("paper_out"),
		Paused:             d.flag("pause"),
		LabelLength:        d.int("label_length"),
		FormatsInBuffer:    d.int("formats_in_buffer"),
		BufferFull:         d.flag("buffer_full"),
		DiagnosticMode:     d.flag("diagnostic_mode"),
		PartialFormat:      d.flag("partial_format"),
		CorruptRAM:         d.flag("corrupt_ram"),
		UnderTemperature:   d.flag("under_temperature"),
		OverTemperature:    d.flag("over_temperature"),
		HeadUp:             d.flag("head_up"),
		RibbonOut:          d.flag("ribbon_out"),
		ThermalTransfer:    d.flag("thermal_transfer"),
		PrintWidthMode:     d.int("print_width_mode"),
		LabelWaiting:       d.flag("label_waiting"),
		LabelsRemaining:    d.int("labels_remaining"),
		FormatWhilePrint:   d.flag("format_while_printing"),
		GraphicsStored:     d.int("graphics_stored"),
		Password:           values["password"],
		StaticRAMInstalled: d.flag("static_ram"),
	}
	s.Interface = d.interfaceSettings()
	s.Functions = d.functionSettings()
	s.PrintMode = d.printMode()
	if d.err != nil {
		return nil, d.err
	}
	return s, nil
}

// statusDecoder converts matched fields and keeps the first error.
type statusDecoder struct {
	raw    string
	values map[string]string
	err    error
}

func (d *statusDecoder) int(field string) int {
	n, err := strconv.Atoi(d.values[field])
	if err != nil && d.err == nil {
		d.err = newDecodeError(d.raw, field, "not a number", err)
	}
	return n
}

func (d *statusDecoder) flag(field string) bool {
	return d.int(field) == 1
}

// bits formats a numeric field as a binary string of width digits.
func (d *statusDecoder) bits(field string, width int) string {
	n := d.int(field)
	s := strconv.FormatInt(int64(n), 2)
	if len(s) > width {
		if d.err == nil {
			d.err = newDecodeError(d.raw, field, fmt.Sprintf("value %d does not fit in %d bits", n, width), nil)
		}
		return strings.Repeat("0", width)
	}
	return strings.Repeat("0", width-len(s)) + s
}

func (d *statusDecoder) interfaceSettings() InterfaceSettings {
	b := d.bits("interface", 9)
	baud, ok := bauds[b[0:1]+b[6:9]]
	if !ok && d.err == nil {
		d.err = newDecodeError(d.raw, "interface", "unknown baud rate code "+b[0:1]+b[6:9], nil)
	}
	s := InterfaceSettings{
		Baud:      baud,
		Handshake: "Xon/Xoff",
		Parity:    "Odd",
		Enabled:   b[3] == '1',
		StopBits:  2,
		DataBits:  7,
	}
	if b[1] == '1' {
		s.Handshake = "DTR"
	}
	if b[2] == '1' {
		s.Parity = "Even"
	}
	if b[4] == '1' {
		s.StopBits = 1
	}
	if b[5] == '1' {
		s.DataBits = 8
	}
	return s
}

func (d *statusDecoder) functionSettings() FunctionSettings {
	b := d.bits("function_settings", 8)
	s := FunctionSettings{
		MediaType:       "Die-Cut",
		SensorProfile:   b[1] == '1',
		Diagnostics:     b[2] == '1',
		ThermalTransfer: b[3] == '1',
	}
	if b[0] == '1' {
		s.MediaType = "Continuous"
	}
	return s
}

func (d *statusDecoder) printMode() PrintMode {
	v := d.values["print_mode"]
	m, ok := printModes[v]
	if !ok && d.err == nil {
		d.err = newDecodeError(d.raw, "print_mode", "unknown print mode "+v, nil)
	}
	return m
}

// String summarizes the status on one line per group.
func (s *HostStatus) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "interface: %d baud, %d data bits, %d stop bits, %s parity, %s\n",
		s.Interface.Baud, s.Interface.DataBits, s.Interface.StopBits, s.Interface.Parity, s.Interface.Handshake)
	fmt.Fprintf(&b, "media: %s, mode %s, label length %d dots\n",
		s.Functions.MediaType, s.PrintMode, s.LabelLength)
	fmt.Fprintf(&b, "paper out: %t, ribbon out: %t, head up: %t, paused: %t\n",
		s.PaperOut, s.RibbonOut, s.HeadUp, s.Paused)
	fmt.Fprintf(&b, "formats in buffer: %d, labels remaining: %d, graphics stored: %d\n",
		s.FormatsInBuffer, s.LabelsRemaining, s.GraphicsStored)
	fmt.Fprintf(&b, "temperature: under %t, over %t, corrupt ram: %t",
		s.UnderTemperature, s.OverTemperature, s.CorruptRAM)
	return b.String()
}

// Ready reports whether nothing keeps the printer from printing.
func (s *HostStatus) Ready() bool {
	return !s.PaperOut && !s.Paused && !s.HeadUp && !s.RibbonOut &&
		!s.UnderTemperature && !s.OverTemperature && !s.CorruptRAM
}
