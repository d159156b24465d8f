package zplprotocol

// Entry is one element of a block: a *Command, a nested *Block, a closed
// *Field or a Raw string. The set is closed; the unexported marker keeps
// other packages from adding variants.
type Entry interface {
	// Dump renders the entry under opts and reports its geometry and the
	// properties in force after it.
	Dump(opts RenderOptions) Dump
	entry()
}

// Unknown marks a bounds component that an entry cannot determine.
const Unknown = -1

// Bounds is a rectangle in printer dots. Any component may be Unknown.
type Bounds struct {
	X, Y          int
	Width, Height int
}

// UnknownBounds has every component Unknown.
var UnknownBounds = Bounds{X: Unknown, Y: Unknown, Width: Unknown, Height: Unknown}

// IsUnknown reports whether no component of b is known.
func (b Bounds) IsUnknown() bool {
	return b == UnknownBounds
}

// Point is a position in printer dots.
type Point struct {
	X, Y int
}

// Properties is the printer environment a program is rendered in. Commands
// such as ~CC, ^CF, ^LH and ^CI change it for the entries that follow.
type Properties struct {
	Syntax  Syntax
	Density Density
	Home    Point
	Font    FontSize
	CharSet CharSet
}

// DefaultProperties returns the environment of a freshly powered printer
// with a 203 dpi head.
func DefaultProperties() Properties {
	return Properties{
		Syntax:  DefaultSyntax,
		Density: Dots8,
		Font:    FontSize{Name: "A", Height: 9, Width: 5},
		CharSet: CharSetUSA1,
	}
}

// RenderOptions controls how a tree is serialized.
type RenderOptions struct {
	// LineBreaks separates commands with Terminator.
	LineBreaks bool
	// Terminator defaults to LineTerminator when empty.
	Terminator string
	// Encode converts text to the character set in force (see ^CI).
	Encode bool
	// Props is the environment the first entry is rendered in.
	Props Properties
}

// DefaultRenderOptions renders with CRLF line breaks in the default
// environment.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{LineBreaks: true, Props: DefaultProperties()}
}

// FlatRenderOptions concatenates commands with no separator.
func FlatRenderOptions() RenderOptions {
	return RenderOptions{Props: DefaultProperties()}
}

func (o RenderOptions) separator() string {
	if !o.LineBreaks {
		return ""
	}
	if o.Terminator == "" {
		return LineTerminator
	}
	return o.Terminator
}

func (o RenderOptions) with(props Properties) RenderOptions {
	o.Props = props
	return o
}

// Dump is the result of rendering one entry.
type Dump struct {
	Text   string
	Bounds Bounds
	Props  Properties
}

// Raw is literal program text, written as is.
type Raw string

func (Raw) entry() {}

// Dump implements Entry.
func (r Raw) Dump(opts RenderOptions) Dump {
	text := string(r)
	if opts.Encode {
		text = EncodeText(text, opts.Props.CharSet)
	}
	return Dump{Text: text, Bounds: UnknownBounds, Props: opts.Props}
}

// String returns the raw text.
func (r Raw) String() string {
	return string(r)
}

// accumulator folds child bounds into a running minimum origin and maximum
// extent, ignoring Unknown components.
type accumulator struct {
	b Bounds
}

func newAccumulator() accumulator {
	return accumulator{b: UnknownBounds}
}

func (a *accumulator) add(c Bounds) {
	a.b.X = foldMin(a.b.X, c.X)
	a.b.Y = foldMin(a.b.Y, c.Y)
	a.b.Width = foldMax(a.b.Width, c.Width)
	a.b.Height = foldMax(a.b.Height, c.Height)
}

func foldMin(acc, v int) int {
	if v == Unknown {
		return acc
	}
	if acc == Unknown || v < acc {
		return v
	}
	return acc
}

func foldMax(acc, v int) int {
	if v == Unknown {
		return acc
	}
	if acc == Unknown || v > acc {
		return v
	}
	return acc
}
