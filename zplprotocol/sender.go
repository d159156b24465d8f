package zplprotocol

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// Sender delivers a rendered program to a printer. When wantResponse is
// true the sender waits for and returns the printer's reply; otherwise the
// response is "".
type Sender interface {
	Send(ctx context.Context, payload []byte, wantResponse bool) (string, error)
}

// BatchSender sends several programs over one connection.
type BatchSender interface {
	Sender
	SendBatch(ctx context.Context, payloads [][]byte, wantResponse bool) ([]string, error)
}

// SendAll sends payloads with SendBatch when s supports it, else one Send
// per payload. Sending stops at the first error.
func SendAll(ctx context.Context, s Sender, payloads [][]byte, wantResponse bool) ([]string, error) {
	if bs, ok := s.(BatchSender); ok {
		return bs.SendBatch(ctx, payloads, wantResponse)
	}
	var responses []string
	for _, p := range payloads {
		resp, err := s.Send(ctx, p, wantResponse)
		if err != nil {
			return responses, err
		}
		if wantResponse {
			responses = append(responses, resp)
		}
	}
	return responses, nil
}

// CannedHostStatus is the ~HS reply of an idle 203 dpi printer in
// tear-off mode.
const CannedHostStatus = "\x02030,0,0,0346,000,0,0,0,000,0,0,0\x03\r\n" +
	"\x02000,0,0,1,0,2,4,0,00000000,1,012\x03\r\n" +
	"\x021234,0\x03\r\n"

// WriterSender writes every payload to W followed by a line break. It
// stands in for a printer when previewing programs. A payload containing
// ~HS is answered with Status, or CannedHostStatus when Status is empty.
type WriterSender struct {
	W      io.Writer
	Status string

	mu sync.Mutex
}

// NewWriterSender creates a WriterSender on w.
func NewWriterSender(w io.Writer) *WriterSender {
	return &WriterSender{W: w}
}

// Send implements Sender.
func (s *WriterSender) Send(ctx context.Context, payload []byte, wantResponse bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.W.Write(payload); err != nil {
		return "", err
	}
	if _, err := io.WriteString(s.W, LineTerminator); err != nil {
		return "", err
	}
	if !wantResponse {
		return "", nil
	}
	if bytes.Contains(payload, []byte(HostStatusRequest.String())) {
		if s.Status != "" {
			return s.Status, nil
		}
		return CannedHostStatus, nil
	}
	return "", nil
}

// SendBatch implements BatchSender.
func (s *WriterSender) SendBatch(ctx context.Context, payloads [][]byte, wantResponse bool) ([]string, error) {
	var out []string
	for _, p := range payloads {
		resp, err := s.Send(ctx, p, wantResponse)
		if err != nil {
			return out, err
		}
		if wantResponse {
			out = append(out, resp)
		}
	}
	return out, nil
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, payload []byte, wantResponse bool) (string, error)

// Send implements Sender.
func (f SenderFunc) Send(ctx context.Context, payload []byte, wantResponse bool) (string, error) {
	return f(ctx, payload, wantResponse)
}
