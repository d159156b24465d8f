package zplprotocol

import (
	"fmt"
	"strconv"
	"strings"
)

// specialChars collide with ZPL syntax or are mangled by common printer
// firmware when sent literally in field data.
const specialChars = "^~,%\\\"'{}<>&"

// Buckets inside a field. The origin always comes first, the data last.
var (
	fieldOriginBucket = Position(0)
	fieldFormatBucket = Position(1)
	fieldSymbolBucket = Position(10)
	fieldDataBucket   = Position(11)
)

// Field is a block ending in ^FS. A field belongs to the label that
// created it; Close appends a frozen copy of it to that label.
type Field struct {
	*Block

	label     *Label
	bucket    Bucket
	indicator byte
	text      string
	closed    bool
}

func newField(l *Label, bucket Bucket) *Field {
	return &Field{
		Block:     NewBlock(nil, FieldSeparator.Call()),
		label:     l,
		bucket:    bucket,
		indicator: DefaultHexIndicator,
	}
}

func (*Field) entry() {}

// Label returns the label the field was created by, or nil for a closed
// snapshot.
func (f *Field) Label() *Label {
	return f.label
}

// Closed reports whether Close has run.
func (f *Field) Closed() bool {
	return f.closed
}

// SetHexIndicator changes the escape character used by Data. It applies to
// data set afterwards.
func (f *Field) SetHexIndicator(c byte) *Field {
	f.indicator = c
	return f
}

// Position sets the field origin (^FO).
func (f *Field) Position(x, y int) *Field {
	f.SetAt(fieldOriginBucket, FieldOrigin.Call(x, y))
	return f
}

// TypesetPosition sets the field origin at the text baseline (^FT).
func (f *Field) TypesetPosition(x, y int) *Field {
	f.SetAt(fieldOriginBucket, FieldTypeset.Call(x, y))
	return f
}

// Font selects a resident font (^A). Zero height or width and an empty
// orientation are left to the printer.
func (f *Field) Font(name string, orientation Orientation, height, width int) *Field {
	f.AddAt(fieldFormatBucket, FieldFont.Call(name, opt(orientation), opt(height), opt(width)))
	return f
}

// ResourceFont selects a font stored on the printer (^A@), e.g.
// "E:ARIAL.TTF".
func (f *Field) ResourceFont(address string, orientation Orientation, height, width int) *Field {
	f.AddAt(fieldFormatBucket, FieldFontResource.Call(opt(orientation), opt(height), opt(width), address))
	return f
}

// Orientation sets the field orientation (^FW).
func (f *Field) Orientation(o Orientation) *Field {
	f.AddAt(fieldFormatBucket, FieldOrientation.Call(o))
	return f
}

// Direction sets the print direction and extra gap between characters
// (^FP).
func (f *Field) Direction(d Direction, gap int) *Field {
	f.AddAt(fieldFormatBucket, FieldDirection.Call(d, opt(gap)))
	return f
}

// TextBlock wraps the data into lines of width dots (^FB).
func (f *Field) TextBlock(width, lines, spacing int, justification Justification, indent int) *Field {
	f.AddAt(fieldFormatBucket, FieldBlock.Call(width, opt(lines), opt(spacing), opt(justification), opt(indent)))
	return f
}

// Reverse prints the field white on black (^FR).
func (f *Field) Reverse() *Field {
	f.AddAt(fieldFormatBucket, FieldReverse.Call())
	return f
}

// Data sets the field data (^FD), replacing any earlier data. Special
// characters are written as hex escapes and ^FH is emitted before ^FD.
func (f *Field) Data(text string) *Field {
	f.text = text
	f.setData("", text)
	return f
}

// SetText is Data.
func (f *Field) SetText(text string) *Field {
	return f.Data(text)
}

// AddText appends to the field data.
func (f *Field) AddText(text string) *Field {
	return f.Data(f.text + text)
}

// Placeholder sets the field data to a {key} template tag, filled in by
// Template.Execute. The tag is written unescaped after ^FH with the
// default indicator, which is what Template escapes values with.
func (f *Field) Placeholder(key string) *Field {
	f.text = TemplateStartTag + key + TemplateEndTag
	f.SetAt(fieldDataBucket, FieldHexIndicator.Call(string(DefaultHexIndicator)))
	f.AddAt(fieldDataBucket, FieldData.Call(f.text))
	return f
}

// Text returns the unescaped field data.
func (f *Field) Text() string {
	return f.text
}

// setData writes ^FH (when needed) and ^FD with a literal prefix followed
// by the escaped text.
func (f *Field) setData(prefix, text string) {
	escaped, hex := f.escape(text)
	if !hex {
		f.SetAt(fieldDataBucket, FieldData.Call(prefix+text))
		return
	}
	f.SetAt(fieldDataBucket, FieldHexIndicator.Call(string(f.indicator)))
	f.AddAt(fieldDataBucket, FieldData.Call(prefix+escaped))
}

// escape hex-encodes the characters of text that would be read as syntax.
func (f *Field) escape(text string) (string, bool) {
	special := specialChars + string(f.indicator)
	if f.label != nil {
		s := f.label.opts.Props.Syntax.normalized()
		special += string([]byte{s.FormatPrefix, s.ControlPrefix, s.Delimiter})
	}
	return EscapeData(text, f.indicator, special)
}

// EscapeData replaces every byte of text found in special with indicator
// followed by its two-digit uppercase hex code. The second result reports
// whether anything was replaced; when it is false text is returned as is.
func EscapeData(text string, indicator byte, special string) (string, bool) {
	if !strings.ContainsAny(text, special) {
		return text, false
	}
	var b strings.Builder
	b.Grow(len(text) + 8)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if strings.IndexByte(special, c) >= 0 {
			fmt.Fprintf(&b, "%c%02X", indicator, c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String(), true
}

// UnescapeData reverses EscapeData. Malformed escapes are kept literally.
func UnescapeData(text string, indicator byte) string {
	if strings.IndexByte(text, indicator) < 0 {
		return text
	}
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		if text[i] == indicator && i+2 < len(text) {
			if v, err := strconv.ParseUint(text[i+1:i+3], 16, 8); err == nil {
				b.WriteByte(byte(v))
				i += 2
				continue
			}
		}
		b.WriteByte(text[i])
	}
	return b.String()
}

// Barcode selects a symbology with its parameters and sets value as the
// field data.
func (f *Field) Barcode(d *Descriptor, value string, params ...any) *Field {
	f.SetAt(fieldSymbolBucket, d.Instance(params))
	return f.Data(value)
}

// Code128 prints value as a Code 128 barcode of the given height.
func (f *Field) Code128(value string, height int, interpretation bool) *Field {
	return f.Barcode(BarcodeCode128, value, Normal, opt(height), interpretation)
}

// Code39 prints value as a Code 39 barcode of the given height.
func (f *Field) Code39(value string, height int, interpretation bool) *Field {
	return f.Barcode(BarcodeCode39, value, Normal, nil, opt(height), interpretation)
}

// QRCode prints value as a model 2 QR code. errorCorrection is one of H,
// Q, M or L; magnification runs from 1 to 10.
func (f *Field) QRCode(value string, magnification int, errorCorrection string) *Field {
	if errorCorrection == "" {
		errorCorrection = "Q"
	}
	f.SetAt(fieldSymbolBucket, BarcodeQRCode.Call(Normal, 2, opt(magnification)))
	f.text = value
	f.setData(errorCorrection+"A,", value)
	return f
}

// Box draws a rectangle (^GB).
func (f *Field) Box(width, height, thickness int, color LineColor, rounding int) *Field {
	f.SetAt(fieldSymbolBucket, GraphicBox.Call(width, height, opt(thickness), opt(color), opt(rounding)))
	return f
}

// Circle draws a circle (^GC).
func (f *Field) Circle(diameter, thickness int, color LineColor) *Field {
	f.SetAt(fieldSymbolBucket, GraphicCircle.Call(diameter, opt(thickness), opt(color)))
	return f
}

// Ellipse draws an ellipse (^GE).
func (f *Field) Ellipse(width, height, thickness int, color LineColor) *Field {
	f.SetAt(fieldSymbolBucket, GraphicEllipse.Call(width, height, opt(thickness), opt(color)))
	return f
}

// Diagonal draws a diagonal line (^GD).
func (f *Field) Diagonal(width, height, thickness int, color LineColor, o DiagonalOrientation) *Field {
	f.SetAt(fieldSymbolBucket, GraphicDiagonal.Call(width, height, opt(thickness), opt(color), opt(o)))
	return f
}

// Graphic prints a bitmap (^GF) with the given data encoding.
func (f *Field) Graphic(g *Graphic, enc GraphicEncoding) *Field {
	f.SetAt(fieldSymbolBucket, g.Command(enc))
	return f
}

// Symbol prints one of the symbol font glyphs (^GS).
func (f *Field) Symbol(s GraphicSymbol, orientation Orientation, height, width int) *Field {
	f.SetAt(fieldSymbolBucket, GraphicSymbolSelect.Call(opt(orientation), opt(height), opt(width)))
	f.text = string(s)
	f.SetAt(fieldDataBucket, FieldData.Call(string(s)))
	return f
}

// Close appends a frozen copy of the field to its label, in the bucket the
// field was created for. Later changes to f do not affect the label.
// Close is idempotent and returns the label.
func (f *Field) Close() *Label {
	if f.closed {
		return f.label
	}
	f.closed = true
	if f.label != nil {
		f.label.AddAt(f.bucket, f.snapshot())
	}
	return f.label
}

func (f *Field) snapshot() *Field {
	s := f.clone()
	s.label = nil
	s.closed = true
	return s
}

func (f *Field) clone() *Field {
	c := *f
	c.Block = f.Block.Clone()
	return &c
}

// Dump implements Entry. Besides the block geometry, a field with data
// reports the size of its text from the font in force.
func (f *Field) Dump(opts RenderOptions) Dump {
	d := f.Block.Dump(opts)
	if d.Bounds.Width == Unknown || d.Bounds.Height == Unknown {
		w, h := f.contentSize(opts.Props)
		if d.Bounds.Width == Unknown {
			d.Bounds.Width = w
		}
		if d.Bounds.Height == Unknown {
			d.Bounds.Height = h
		}
	}
	return d
}

// contentSize estimates the printed size of the field data: one font cell
// per character, wrapped by ^FB and rotated by the field orientation.
// Barcodes report only their height.
func (f *Field) contentSize(props Properties) (int, int) {
	font := props.Font
	indicator := byte(DefaultHexIndicator)
	var (
		orientation Orientation
		data        string
		hasData     bool
		hexOn       bool
		block       *Command
		barcode     *Command
	)
	f.Block.Walk(func(c *Command) bool {
		switch tok := c.desc.token; {
		case tok == "A":
			font = c.fontSize(props, "font", "height", "width")
			if o, ok := c.GetName("orientation"); ok && o != "" {
				orientation = Orientation(o)
			}
		case tok == "FW":
			if o, ok := c.GetName("orientation"); ok && orientation == "" {
				orientation = Orientation(o)
			}
		case tok == "FH":
			hexOn = true
			if v, ok := c.Get(0); ok && len(v) == 1 {
				indicator = v[0]
			}
		case tok == "FD" || tok == "FV":
			data, hasData = c.Get(0)
		case tok == "FB":
			block = c
		case IsBarcode(c.desc):
			barcode = c
		}
		return true
	})

	if barcode != nil {
		if h, ok := barcode.intParam("height"); ok {
			return Unknown, h
		}
		return Unknown, Unknown
	}
	if !hasData || font.Height == Unknown || font.Width == Unknown {
		return Unknown, Unknown
	}
	if hexOn {
		data = UnescapeData(data, indicator)
	}
	n := len([]rune(data))
	w, h := n*font.Width, font.Height

	if block != nil {
		if bw, ok := block.intParam("width"); ok && bw > 0 {
			maxLines, _ := block.intParam("lines")
			spacing, _ := block.intParam("spacing")
			lines := (w + bw - 1) / bw
			if lines < 1 {
				lines = 1
			}
			if maxLines > 0 && lines > maxLines {
				lines = maxLines
			}
			w = bw
			h = lines*font.Height + (lines-1)*spacing
		}
	}
	if orientation == Rotate90 || orientation == Rotate270 {
		w, h = h, w
	}
	return w, h
}

// opt returns nil for the zero value so that the parameter is omitted.
func opt[T comparable](v T) any {
	var zero T
	if v == zero {
		return nil
	}
	return v
}
