// Package zplprotocol implements composition, serialization and transmission
// of ZPL (Zebra Programming Language) label programs.
//
// Protocol Format:
//
//	Format command:   ^<token><param>,<param>,...
//	Control command:  ~<token><param>,<param>,...
//	Label program:    ^XA <commands...> ^XZ
//	Field:            ^FO<x>,<y> ... ^FD<data> ^FS
//
// Example Program:
//
//	^XA
//	^FO20,20
//	^FDHello
//	^FS
//	^XZ
package zplprotocol

import "time"

// Protocol constants.
const (
	// DefaultFormatPrefix is the prefix of format commands (^XA, ^FO, ...).
	DefaultFormatPrefix = '^'

	// DefaultControlPrefix is the prefix of control commands (~HS, ~SD, ...).
	DefaultControlPrefix = '~'

	// DefaultDelimiter separates the parameters of one command.
	DefaultDelimiter = ','

	// DefaultHexIndicator introduces a two-digit hex escape inside ^FD data
	// when the field carries a ^FH command.
	DefaultHexIndicator = '_'

	// LineTerminator separates commands when a program is rendered with
	// line breaks.
	LineTerminator = "\r\n"

	// DefaultPort is the raw TCP port Zebra printers listen on.
	DefaultPort = 9100

	// ConnectionTimeout is the default timeout for establishing connections.
	ConnectionTimeout = 5 * time.Second

	// ResponseTimeout bounds how long the client reads a response.
	ResponseTimeout = 2 * time.Second

	// ReadBufferSize is the chunk size used when reading responses.
	ReadBufferSize = 1024

	// STX and ETX frame each line of a host status response.
	STX = '\x02'
	ETX = '\x03'
)

// Syntax holds the three characters that shape a ZPL program on the wire.
// Printers accept ~CC, ~CT and ~CD to change them at runtime.
type Syntax struct {
	FormatPrefix  byte
	ControlPrefix byte
	Delimiter     byte
}

// DefaultSyntax is the syntax a printer uses after power-up.
var DefaultSyntax = Syntax{
	FormatPrefix:  DefaultFormatPrefix,
	ControlPrefix: DefaultControlPrefix,
	Delimiter:     DefaultDelimiter,
}

// Prefix returns the prefix character for the given namespace.
func (s Syntax) Prefix(ns Namespace) byte {
	if ns == Control {
		return s.ControlPrefix
	}
	return s.FormatPrefix
}

// normalized fills zero characters from DefaultSyntax, so a zero Syntax
// behaves like the default one.
func (s Syntax) normalized() Syntax {
	if s.FormatPrefix == 0 {
		s.FormatPrefix = DefaultFormatPrefix
	}
	if s.ControlPrefix == 0 {
		s.ControlPrefix = DefaultControlPrefix
	}
	if s.Delimiter == 0 {
		s.Delimiter = DefaultDelimiter
	}
	return s
}
