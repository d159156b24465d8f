package zplprotocol

// Density is the print head resolution in dots per millimetre.
type Density int

const (
	Dots6  Density = 6  // 152 dpi
	Dots8  Density = 8  // 203 dpi
	Dots12 Density = 12 // 300 dpi
	Dots24 Density = 24 // 600 dpi
)

// DPI returns the nominal dots per inch of the density.
func (d Density) DPI() int {
	switch d {
	case Dots6:
		return 152
	case Dots8:
		return 203
	case Dots12:
		return 300
	case Dots24:
		return 600
	default:
		return int(d) * 254 / 10
	}
}

// Font describes a resident bitmap font.
type Font struct {
	Name      string
	MinHeight int
	MinWidth  int
	Type      string // U-L-D, U, OCR-A, OCR-B or SYMBOL
}

// String returns the font name as written in ^A and ^CF.
func (f Font) String() string {
	return f.Name
}

// FontSize is a font name with a resolved character cell in dots.
type FontSize struct {
	Name   string
	Height int
	Width  int
}

var (
	fonts6Dots = []Font{
		{"A", 9, 5, "U-L-D"},
		{"B", 11, 7, "U"},
		{"D", 18, 10, "U-L-D"},
		{"E", 21, 10, "OCR-B"},
		{"F", 26, 13, "U-L-D"},
		{"G", 60, 40, "U-L-D"},
		{"H", 17, 11, "OCR-A"},
		{"GS", 24, 24, "SYMBOL"},
		{"0", 15, 12, "U-L-D"},
	}
	fonts8Dots = []Font{
		{"A", 9, 5, "U-L-D"},
		{"B", 11, 7, "U"},
		{"D", 18, 10, "U-L-D"},
		{"E", 28, 15, "OCR-B"},
		{"F", 26, 13, "U-L-D"},
		{"G", 60, 40, "U-L-D"},
		{"H", 21, 13, "OCR-A"},
		{"GS", 24, 24, "SYMBOL"},
		{"P", 20, 18, "U-L-D"},
		{"Q", 28, 24, "U-L-D"},
		{"R", 35, 31, "U-L-D"},
		{"S", 40, 35, "U-L-D"},
		{"T", 48, 42, "U-L-D"},
		{"U", 59, 53, "U-L-D"},
		{"V", 80, 71, "U-L-D"},
		{"0", 15, 12, "U-L-D"},
	}
	fonts12Dots = []Font{
		{"A", 9, 5, "U-L-D"},
		{"B", 11, 7, "U"},
		{"D", 18, 10, "U-L-D"},
		{"E", 42, 20, "OCR-B"},
		{"F", 26, 13, "U-L-D"},
		{"G", 60, 40, "U-L-D"},
		{"H", 34, 22, "OCR-A"},
		{"GS", 24, 24, "SYMBOL"},
		{"P", 20, 18, "U-L-D"},
		{"Q", 28, 24, "U-L-D"},
		{"R", 35, 31, "U-L-D"},
		{"S", 40, 35, "U-L-D"},
		{"T", 48, 42, "U-L-D"},
		{"U", 59, 53, "U-L-D"},
		{"V", 80, 71, "U-L-D"},
		{"0", 15, 12, "U-L-D"},
	}
)

// Fonts returns the resident fonts of a printer with density d. Unknown
// densities use the 203 dpi table. The 600 dpi table matches 300 dpi.
func Fonts(d Density) []Font {
	switch d {
	case Dots6:
		return fonts6Dots
	case Dots12, Dots24:
		return fonts12Dots
	default:
		return fonts8Dots
	}
}

// LookupFont finds a resident font by name.
func LookupFont(d Density, name string) (Font, bool) {
	for _, f := range Fonts(d) {
		if f.Name == name {
			return f, true
		}
	}
	return Font{}, false
}

// ResolveFont computes the character cell of font name at the requested
// height and width. A missing dimension (Unknown) is scaled from the
// font's nominal cell; when both are missing the nominal cell is used.
// Fonts that are not resident keep Unknown for what cannot be derived.
func ResolveFont(d Density, name string, height, width int) FontSize {
	fs := FontSize{Name: name, Height: height, Width: width}
	f, ok := LookupFont(d, name)
	if !ok {
		if fs.Width == Unknown && fs.Height != Unknown {
			fs.Width = fs.Height
		}
		return fs
	}
	switch {
	case height == Unknown && width == Unknown:
		fs.Height, fs.Width = f.MinHeight, f.MinWidth
	case width == Unknown:
		fs.Width = height * f.MinWidth / f.MinHeight
	case height == Unknown:
		fs.Height = width * f.MinHeight / f.MinWidth
	}
	return fs
}

// Orientation is the rotation of a field.
type Orientation string

const (
	Normal    Orientation = "N" // 0 degrees
	Rotate90  Orientation = "R" // 90 degrees
	Rotate180 Orientation = "I" // 180 degrees
	Rotate270 Orientation = "B" // 270 degrees
)

// Direction is the print direction set by ^FP.
type Direction string

const (
	Horizontal Direction = "H"
	Vertical   Direction = "V"
	Reverse    Direction = "R"
)

// Justification aligns lines in a ^FB block.
type Justification string

const (
	Left      Justification = "L"
	Center    Justification = "C"
	Right     Justification = "R"
	Justified Justification = "J"
)

// LineColor is the color argument of the graphic commands.
type LineColor string

const (
	Black LineColor = "B"
	White LineColor = "W"
)

// DiagonalOrientation is the slant of a ^GD line.
type DiagonalOrientation string

const (
	LeanRight DiagonalOrientation = "R" // /
	LeanLeft  DiagonalOrientation = "L" // \
)

// GraphicSymbol selects a ^GS glyph.
type GraphicSymbol string

const (
	RegisteredTradeMark GraphicSymbol = "A"
	Copyright           GraphicSymbol = "B"
	TradeMark           GraphicSymbol = "C"
	UnderwritersLab     GraphicSymbol = "D"
	CanadianStandards   GraphicSymbol = "E"
)
