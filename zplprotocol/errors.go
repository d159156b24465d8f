package zplprotocol

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrNotConnected indicates an operation needs an open connection.
	ErrNotConnected = errors.New("not connected")

	// ErrAlreadyConnected indicates connect was called while already connected.
	ErrAlreadyConnected = errors.New("already connected")

	// ErrTimeout indicates the printer did not answer in time.
	ErrTimeout = errors.New("timed out waiting for printer")

	// ErrNoSender indicates a label was flushed without a sender.
	ErrNoSender = errors.New("label has no sender")

	// ErrMissingRecordKey indicates a template placeholder with no value.
	ErrMissingRecordKey = errors.New("missing record key")

	// ErrUnsupportedCharSet indicates a ^CI value with no known encoding.
	ErrUnsupportedCharSet = errors.New("unsupported character set")
)

// ParseError represents an error found while parsing ZPL program text.
type ParseError struct {
	Kind    ParseErrorKind
	Value   string // The text that caused the error
	Offset  int    // Byte offset in the program
	Message string // Additional context
}

// ParseErrorKind categorizes parse errors.
type ParseErrorKind int

const (
	// ErrKindUnknownCommand indicates a prefix followed by no known token.
	ErrKindUnknownCommand ParseErrorKind = iota
	// ErrKindMissingPrefix indicates text outside of any command.
	ErrKindMissingPrefix
	// ErrKindInvalidSyntaxChange indicates a ~CC, ~CT or ~CD without a
	// usable character.
	ErrKindInvalidSyntaxChange
	// ErrKindMissingArgument indicates a required parameter is absent.
	ErrKindMissingArgument
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrKindUnknownCommand:
		return fmt.Sprintf("unknown command '%s' at offset %d", e.Value, e.Offset)
	case ErrKindMissingPrefix:
		return fmt.Sprintf("text outside command '%s' at offset %d", e.Value, e.Offset)
	case ErrKindInvalidSyntaxChange:
		return fmt.Sprintf("invalid syntax change '%s' at offset %d", e.Value, e.Offset)
	case ErrKindMissingArgument:
		return fmt.Sprintf("%s: %s", e.Value, e.Message)
	default:
		return fmt.Sprintf("parse error: %s", e.Value)
	}
}

func newUnknownCommandError(cmd string, offset int) error {
	return &ParseError{Kind: ErrKindUnknownCommand, Value: cmd, Offset: offset}
}

func newMissingPrefixError(text string, offset int) error {
	return &ParseError{Kind: ErrKindMissingPrefix, Value: text, Offset: offset}
}

func newInvalidSyntaxChangeError(cmd string, offset int) error {
	return &ParseError{Kind: ErrKindInvalidSyntaxChange, Value: cmd, Offset: offset}
}

func newMissingArgumentError(cmd, msg string) error {
	return &ParseError{Kind: ErrKindMissingArgument, Value: cmd, Message: msg}
}

// ConnectionError represents a transport failure.
type ConnectionError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("connection failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("connection failed: %s", e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// NewConnectionError creates a new connection error.
func NewConnectionError(message string, cause error) error {
	return &ConnectionError{Message: message, Cause: cause}
}

// ProtocolDecodeError reports a printer response that does not have the
// expected shape.
type ProtocolDecodeError struct {
	Response string // Raw response text
	Field    string // Field being decoded, if known
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *ProtocolDecodeError) Error() string {
	msg := "decode response"
	if e.Field != "" {
		msg += " field " + e.Field
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ProtocolDecodeError) Unwrap() error {
	return e.Cause
}

func newDecodeError(response, field, message string, cause error) error {
	return &ProtocolDecodeError{Response: response, Field: field, Message: message, Cause: cause}
}
