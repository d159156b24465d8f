package zplprotocol

import (
	"context"
)

// Label is a block wrapped in ^XA and ^XZ that sends itself to its Sender
// when closed.
type Label struct {
	*Block

	sender Sender
	opts   RenderOptions
	closed bool
}

// LabelOption configures a Label.
type LabelOption func(*Label)

// WithRenderOptions replaces the label's render options.
func WithRenderOptions(opts RenderOptions) LabelOption {
	return func(l *Label) { l.opts = opts }
}

// WithSyntax renders the label with different prefixes or delimiter. The
// printer must already be using them.
func WithSyntax(s Syntax) LabelOption {
	return func(l *Label) { l.opts.Props.Syntax = s.normalized() }
}

// WithDensity sets the print head density used for geometry.
func WithDensity(d Density) LabelOption {
	return func(l *Label) { l.opts.Props.Density = d }
}

// WithLineBreaks turns CRLF separators between commands on or off.
func WithLineBreaks(on bool) LabelOption {
	return func(l *Label) { l.opts.LineBreaks = on }
}

// NewLabel creates an empty label. sender may be nil, in which case Close
// does nothing.
func NewLabel(sender Sender, opts ...LabelOption) *Label {
	l := &Label{
		Block:  NewBlock(LabelStart.Call(), LabelEnd.Call()),
		sender: sender,
		opts:   DefaultRenderOptions(),
	}
	l.opts.Encode = true
	for _, o := range opts {
		o(l)
	}
	return l
}

// Sender returns the label's sender, or nil.
func (l *Label) Sender() Sender {
	return l.sender
}

// RenderOptions returns the options the label renders with.
func (l *Label) RenderOptions() RenderOptions {
	return l.opts
}

// Closed reports whether Close has run.
func (l *Label) Closed() bool {
	return l.closed
}

// NewField creates an open field that closes into the default bucket.
func (l *Label) NewField() *Field {
	return newField(l, DefaultBucket)
}

// NewFieldAt creates an open field that closes into bucket.
func (l *Label) NewFieldAt(bucket Bucket) *Field {
	return newField(l, bucket)
}

// Field runs fn on a new field and closes the field however fn returns.
func (l *Label) Field(fn func(*Field) error) error {
	return l.FieldAt(DefaultBucket, fn)
}

// FieldAt is Field with an explicit bucket.
func (l *Label) FieldAt(bucket Bucket, fn func(*Field) error) error {
	f := l.NewFieldAt(bucket)
	defer f.Close()
	return fn(f)
}

// Text adds a complete text field at x, y.
func (l *Label) Text(x, y int, text string) *Label {
	return l.NewField().Position(x, y).Data(text).Close()
}

// Font sets the default font for the fields that follow (^CF).
func (l *Label) Font(name string, height, width int) *Label {
	l.Add(LabelFontDefault.Call(name, opt(height), opt(width)))
	return l
}

// Comment adds a comment (^FX). Braces in text are not template
// placeholders (see LabelTemplate).
func (l *Label) Comment(text string) *Label {
	l.Add(FieldComment.Call(text))
	return l
}

// Home offsets every field origin (^LH).
func (l *Label) Home(x, y int) *Label {
	l.Add(LabelHome.Call(x, y))
	return l
}

// Quantity sets how many copies to print (^PQ).
func (l *Label) Quantity(n int) *Label {
	l.Add(LabelQuantity.Call(n))
	return l
}

// Length sets the label length in dots (^LL).
func (l *Label) Length(dots int) *Label {
	l.Add(LabelLength.Call(dots))
	return l
}

// PrintWidth sets the print width in dots (^PW).
func (l *Label) PrintWidth(dots int) *Label {
	l.Add(PrintWidth.Call(dots))
	return l
}

// Encoding selects the character set of the field data that follows
// (^CI). Payload encodes text accordingly.
func (l *Label) Encoding(cs CharSet) *Label {
	l.Add(ChangeEncoding.Call(cs))
	return l
}

// Darkness sets the print darkness (~SD).
func (l *Label) Darkness(n int) *Label {
	l.Add(PrintingDarkness.Call(n))
	return l
}

// BlankLine adds an empty line to the rendered program.
func (l *Label) BlankLine() *Label {
	l.Add(Raw(""))
	return l
}

// String renders the label with its own options, without charset
// encoding.
func (l *Label) String() string {
	opts := l.opts
	opts.Encode = false
	return l.Render(opts)
}

// Bounds returns the label's bounding box in its own environment.
func (l *Label) Bounds() Bounds {
	b, _ := l.Measure(l.opts.Props)
	return b
}

// Payload renders the label as it is sent to the printer.
func (l *Label) Payload() []byte {
	return []byte(l.Render(l.opts))
}

// Flush sends the label now, whether or not it is closed.
func (l *Label) Flush(ctx context.Context, wantResponse bool) (string, error) {
	if l.sender == nil {
		return "", ErrNoSender
	}
	return l.sender.Send(ctx, l.Payload(), wantResponse)
}

// Close sends the label once. Without a sender it does nothing. Errors
// from the sender are returned unchanged.
func (l *Label) Close(ctx context.Context) error {
	if l.closed {
		return nil
	}
	l.closed = true
	if l.sender == nil {
		return nil
	}
	_, err := l.sender.Send(ctx, l.Payload(), false)
	return err
}

// WithLabel runs fn on a new label and closes the label however fn
// returns. An error from fn takes precedence over an error from sending.
func WithLabel(ctx context.Context, sender Sender, fn func(*Label) error, opts ...LabelOption) (err error) {
	l := NewLabel(sender, opts...)
	defer func() {
		if cerr := l.Close(ctx); err == nil {
			err = cerr
		}
	}()
	return fn(l)
}
