package zplprotocol

import (
	"context"
	"strings"
)

// Printer pairs a Sender with the label options used for it.
type Printer struct {
	sender Sender
	opts   []LabelOption
}

// NewPrinter wraps s. Labels created by the printer get opts.
func NewPrinter(s Sender, opts ...LabelOption) *Printer {
	return &Printer{sender: s, opts: opts}
}

// Sender returns the underlying sender.
func (p *Printer) Sender() Sender {
	return p.sender
}

// NewLabel creates a label that sends to the printer when closed.
func (p *Printer) NewLabel() *Label {
	return NewLabel(p.sender, p.opts...)
}

// WithLabel runs fn on a new label and sends the label however fn returns.
func (p *Printer) WithLabel(ctx context.Context, fn func(*Label) error) error {
	return WithLabel(ctx, p.sender, fn, p.opts...)
}

// Send renders entries one per line and sends them as one payload.
func (p *Printer) Send(ctx context.Context, entries ...Entry) error {
	_, err := p.sender.Send(ctx, p.render(entries), false)
	return err
}

// Query sends entries and returns the printer's reply.
func (p *Printer) Query(ctx context.Context, entries ...Entry) (string, error) {
	return p.sender.Send(ctx, p.render(entries), true)
}

// HostStatus sends ~HS and decodes the reply.
func (p *Printer) HostStatus(ctx context.Context) (*HostStatus, error) {
	resp, err := p.Query(ctx, HostStatusRequest.Call())
	if err != nil {
		return nil, err
	}
	return ParseHostStatus(resp)
}

// HostIdentification sends ~HI and returns the model and firmware fields.
func (p *Printer) HostIdentification(ctx context.Context) ([]string, error) {
	resp, err := p.Query(ctx, HostIdentification.Call())
	if err != nil {
		return nil, err
	}
	body := strings.Trim(strings.TrimSpace(resp), string([]byte{STX, ETX}))
	if body == "" {
		return nil, newDecodeError(resp, "", "empty host identification", nil)
	}
	return strings.Split(body, ","), nil
}

func (p *Printer) render(entries []Entry) []byte {
	opts := NewLabel(nil, p.opts...).RenderOptions()
	b := NewBlock(nil, nil)
	for _, e := range entries {
		b.Add(e)
	}
	return []byte(b.Render(opts))
}
