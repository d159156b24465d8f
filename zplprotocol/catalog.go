package zplprotocol

import (
	"cmp"
	"slices"
)

type catalogKey struct {
	ns    Namespace
	token string
}

var (
	byToken = map[catalogKey]*Descriptor{}
	byName  = map[string]*Descriptor{}
	ordered []*Descriptor
)

// define builds a descriptor and adds it to the catalog.
func define(spec DescriptorSpec) *Descriptor {
	d := NewDescriptor(spec)
	byToken[catalogKey{d.namespace, d.token}] = d
	byName[d.name] = d
	ordered = append(ordered, d)
	return d
}

// Lookup returns the catalog descriptor for a token in a namespace.
func Lookup(ns Namespace, token string) (*Descriptor, bool) {
	d, ok := byToken[catalogKey{ns, token}]
	return d, ok
}

// LookupName returns the catalog descriptor with the given symbolic name,
// e.g. "FIELD_ORIGIN".
func LookupName(name string) (*Descriptor, bool) {
	d, ok := byName[name]
	return d, ok
}

// Descriptors returns every catalog entry sorted by namespace and token.
func Descriptors() []*Descriptor {
	out := slices.Clone(ordered)
	slices.SortFunc(out, func(a, b *Descriptor) int {
		if c := cmp.Compare(a.namespace, b.namespace); c != 0 {
			return c
		}
		return cmp.Compare(a.token, b.token)
	})
	return out
}

// Printer settings.
var (
	PrintingDarkness = define(DescriptorSpec{
		Name:        "PRINTING_DARKNESS",
		Token:       "SD",
		Namespace:   Control,
		Description: "Set darkness",
		Params:      []string{"darkness"},
		Required:    1,
	})
	MediaDarkness = define(DescriptorSpec{
		Name:        "MEDIA_DARKNESS",
		Token:       "MD",
		Namespace:   Format,
		Description: "Adjust darkness relative to the current setting",
		Params:      []string{"darkness"},
		Defaults:    []string{"0"},
		Required:    1,
	})
	PrintRate = define(DescriptorSpec{
		Name:        "PRINT_RATE",
		Token:       "PR",
		Namespace:   Format,
		Description: "Set print, slew and backfeed speed",
		Params:      []string{"print_speed", "slew_speed", "backfeed_speed"},
		Defaults:    []string{"2", "6", "2"},
		Required:    1,
	})
	PrintWidth = define(DescriptorSpec{
		Name:        "PRINT_WIDTH",
		Token:       "PW",
		Namespace:   Format,
		Description: "Set print width in dots",
		Params:      []string{"width"},
		Required:    1,
	})
	MediaTracking = define(DescriptorSpec{
		Name:        "MEDIA_TRACKING",
		Token:       "MN",
		Namespace:   Format,
		Description: "Select media tracking",
		Params:      []string{"media_tracking", "offset"},
		Defaults:    []string{"Y", "0"},
		Required:    1,
	})
)

// Field commands.
var (
	FieldComment = define(DescriptorSpec{
		Name:        "FIELD_COMMENT",
		Token:       "FX",
		Namespace:   Format,
		Description: "Comment",
		Params:      []string{"comment"},
		Required:    1,
		Verbatim:    true,
	})
	FieldOrigin = define(DescriptorSpec{
		Name:        "FIELD_ORIGIN",
		Token:       "FO",
		Namespace:   Format,
		Description: "Set field origin",
		Params:      []string{"x", "y", "justification"},
		Defaults:    []string{"0", "0"},
	})
	FieldTypeset = define(DescriptorSpec{
		Name:        "FIELD_TYPESET",
		Token:       "FT",
		Namespace:   Format,
		Description: "Set field origin at the text baseline",
		Params:      []string{"x", "y", "justification"},
	})
	FieldData = define(DescriptorSpec{
		Name:        "FIELD_DATA",
		Token:       "FD",
		Namespace:   Format,
		Description: "Set field data",
		Params:      []string{"data"},
		Required:    1,
		Verbatim:    true,
	})
	FieldVariable = define(DescriptorSpec{
		Name:        "FIELD_VARIABLE",
		Token:       "FV",
		Namespace:   Format,
		Description: "Set field data that is cleared after printing",
		Params:      []string{"data"},
		Required:    1,
		Verbatim:    true,
	})
	FieldSeparator = define(DescriptorSpec{
		Name:        "FIELD_SEPARATOR",
		Token:       "FS",
		Namespace:   Format,
		Description: "End the current field",
	})
	FieldFont = define(DescriptorSpec{
		Name:        "FIELD_FONT",
		Token:       "A",
		Namespace:   Format,
		Description: "Select a resident font",
		Params:      []string{"font", "orientation", "height", "width"},
		Required:    1,
		Fused:       2,
	})
	FieldFontResource = define(DescriptorSpec{
		Name:        "FIELD_FONT_RESOURCES",
		Token:       "A@",
		Namespace:   Format,
		Description: "Select a font stored on the printer",
		Params:      []string{"orientation", "height", "width", "font_address"},
		Required:    1,
	})
	FieldOrientation = define(DescriptorSpec{
		Name:        "FIELD_ORIENTATION",
		Token:       "FW",
		Namespace:   Format,
		Description: "Set default field orientation",
		Params:      []string{"orientation", "justification"},
		Required:    1,
	})
	FieldDirection = define(DescriptorSpec{
		Name:        "FIELD_DIRECTION",
		Token:       "FP",
		Namespace:   Format,
		Description: "Set field direction",
		Params:      []string{"direction", "gap"},
		Defaults:    []string{"H", "0"},
		Required:    1,
	})
	FieldBlock = define(DescriptorSpec{
		Name:        "FIELD_BLOCK",
		Token:       "FB",
		Namespace:   Format,
		Description: "Wrap field data into a multi-line block",
		Params:      []string{"width", "lines", "spacing", "justification", "indent"},
		Defaults:    []string{"0", "1", "0", "L", "0"},
	})
	FieldHexIndicator = define(DescriptorSpec{
		Name:        "FIELD_HEX_INDICATOR",
		Token:       "FH",
		Namespace:   Format,
		Description: "Enable hex escapes in field data",
		Params:      []string{"indicator"},
		Defaults:    []string{"_"},
	})
	FieldClock = define(DescriptorSpec{
		Name:        "FIELD_CLOCK",
		Token:       "FC",
		Namespace:   Format,
		Description: "Set real time clock indicators",
		Params:      []string{"primary", "secondary", "tertiary"},
		Defaults:    []string{"%"},
	})
	FieldReverse = define(DescriptorSpec{
		Name:        "FIELD_REVERSE",
		Token:       "FR",
		Namespace:   Format,
		Description: "Print the field white on black",
	})
)

// Label commands.
var (
	LabelStart = define(DescriptorSpec{
		Name:        "LABEL_START_BLOCK",
		Token:       "XA",
		Namespace:   Format,
		Description: "Start a label format",
	})
	LabelEnd = define(DescriptorSpec{
		Name:        "LABEL_END_BLOCK",
		Token:       "XZ",
		Namespace:   Format,
		Description: "End a label format",
	})
	LabelHome = define(DescriptorSpec{
		Name:        "LABEL_HOME",
		Token:       "LH",
		Namespace:   Format,
		Description: "Set label home",
		Params:      []string{"x", "y"},
		Defaults:    []string{"0", "0"},
		Required:    2,
	})
	LabelQuantity = define(DescriptorSpec{
		Name:        "LABEL_QUANTITY",
		Token:       "PQ",
		Namespace:   Format,
		Description: "Set print quantity",
		Params:      []string{"quantity", "pause", "replicates", "override_pause", "cut_on_error"},
		Defaults:    []string{"1", "0", "0", "N", "Y"},
	})
	LabelFontDefault = define(DescriptorSpec{
		Name:        "LABEL_FONT_DEFAULT",
		Token:       "CF",
		Namespace:   Format,
		Description: "Set default font",
		Params:      []string{"font", "height", "width"},
		Required:    1,
	})
	LabelLength = define(DescriptorSpec{
		Name:        "LABEL_LENGTH",
		Token:       "LL",
		Namespace:   Format,
		Description: "Set label length in dots",
		Params:      []string{"length"},
		Required:    1,
	})
	LabelOrientation = define(DescriptorSpec{
		Name:        "LABEL_ORIENTATION",
		Token:       "PO",
		Namespace:   Format,
		Description: "Set print orientation",
		Params:      []string{"orientation"},
		Defaults:    []string{"N"},
		Required:    1,
	})
	ChangeEncoding = define(DescriptorSpec{
		Name:        "CHANGE_ENCODING",
		Token:       "CI",
		Namespace:   Format,
		Description: "Select character set",
		Params:      []string{"encoding"},
		Defaults:    []string{"0"},
		Required:    1,
	})
)

// Printer control.
var (
	PrinterPause = define(DescriptorSpec{
		Name:        "PRINTER_PAUSE",
		Token:       "PP",
		Namespace:   Control,
		Description: "Pause printing",
	})
	PrinterFeed = define(DescriptorSpec{
		Name:        "PRINTER_FEED",
		Token:       "FF",
		Namespace:   Format,
		Description: "Feed media",
		Params:      []string{"number_dots"},
		Required:    1,
	})
	CancelAll = define(DescriptorSpec{
		Name:        "CANCEL_ALL",
		Token:       "JA",
		Namespace:   Control,
		Description: "Cancel all formats in the buffer",
	})
	HostStatusRequest = define(DescriptorSpec{
		Name:        "PRINTER_STATUS",
		Token:       "HS",
		Namespace:   Control,
		Description: "Request host status",
		Response:    true,
	})
	HostIdentification = define(DescriptorSpec{
		Name:        "HOST_IDENTIFICATION",
		Token:       "HI",
		Namespace:   Control,
		Description: "Request printer model and firmware",
		Response:    true,
	})
	PrintHeadTest = define(DescriptorSpec{
		Name:        "PRINT_HEAD_TEST",
		Token:       "JT",
		Namespace:   Format,
		Description: "Run a head test",
	})
)

// Syntax changes. Each has a ^ and a ~ form.
var (
	FormatPrefixChange = define(DescriptorSpec{
		Name:        "ZPL_CMD_PREFIX",
		Token:       "CC",
		Namespace:   Control,
		Description: "Change the format prefix",
		Params:      []string{"prefix"},
		Required:    1,
	})
	ControlPrefixChange = define(DescriptorSpec{
		Name:        "ZPL_CONTROL_PREFIX",
		Token:       "CT",
		Namespace:   Control,
		Description: "Change the control prefix",
		Params:      []string{"prefix"},
		Required:    1,
	})
	DelimiterChange = define(DescriptorSpec{
		Name:        "ZPL_PARAM_DELIMITER",
		Token:       "CD",
		Namespace:   Control,
		Description: "Change the parameter delimiter",
		Params:      []string{"delimiter"},
		Required:    1,
	})
	FormatPrefixChangeFormat = define(DescriptorSpec{
		Name:        "ZPL_CMD_PREFIX_FORMAT",
		Token:       "CC",
		Namespace:   Format,
		Description: "Change the format prefix",
		Params:      []string{"prefix"},
		Required:    1,
	})
	ControlPrefixChangeFormat = define(DescriptorSpec{
		Name:        "ZPL_CONTROL_PREFIX_FORMAT",
		Token:       "CT",
		Namespace:   Format,
		Description: "Change the control prefix",
		Params:      []string{"prefix"},
		Required:    1,
	})
	DelimiterChangeFormat = define(DescriptorSpec{
		Name:        "ZPL_PARAM_DELIMITER_FORMAT",
		Token:       "CD",
		Namespace:   Format,
		Description: "Change the parameter delimiter",
		Params:      []string{"delimiter"},
		Required:    1,
	})
)

// Graphics.
var (
	GraphicBox = define(DescriptorSpec{
		Name:        "GRAPHIC_BOX",
		Token:       "GB",
		Namespace:   Format,
		Description: "Draw a box",
		Params:      []string{"width", "height", "thickness", "color", "rounding"},
		Defaults:    []string{"1", "1", "1", "B", "0"},
	})
	GraphicCircle = define(DescriptorSpec{
		Name:        "GRAPHIC_CIRCLE",
		Token:       "GC",
		Namespace:   Format,
		Description: "Draw a circle",
		Params:      []string{"diameter", "thickness", "color"},
		Defaults:    []string{"3", "1", "B"},
	})
	GraphicDiagonal = define(DescriptorSpec{
		Name:        "GRAPHIC_DIAGONAL",
		Token:       "GD",
		Namespace:   Format,
		Description: "Draw a diagonal line",
		Params:      []string{"width", "height", "thickness", "color", "orientation"},
		Defaults:    []string{"3", "3", "1", "B", "R"},
	})
	GraphicEllipse = define(DescriptorSpec{
		Name:        "GRAPHIC_ELLIPSE",
		Token:       "GE",
		Namespace:   Format,
		Description: "Draw an ellipse",
		Params:      []string{"width", "height", "thickness", "color"},
		Defaults:    []string{"3", "3", "1", "B"},
	})
	GraphicSymbolSelect = define(DescriptorSpec{
		Name:        "GRAPHIC_SYMBOL",
		Token:       "GS",
		Namespace:   Format,
		Description: "Select the symbol font",
		Params:      []string{"orientation", "height", "width"},
	})
	GraphicField = define(DescriptorSpec{
		Name:        "GRAPHIC_FIELD",
		Token:       "GF",
		Namespace:   Format,
		Description: "Download bitmap data into the field",
		Params:      []string{"compression", "binary_bytes", "field_count", "bytes_per_row", "data"},
		Defaults:    []string{"A"},
		Required:    5,
	})
)

// Barcodes.
var (
	BarcodeDefaults = define(DescriptorSpec{
		Name:        "BARCODE_FIELD_DEFAULT",
		Token:       "BY",
		Namespace:   Format,
		Description: "Set barcode module width, ratio and height",
		Params:      []string{"module_width", "ratio", "height"},
		Defaults:    []string{"2", "3.0", "10"},
	})
	BarcodeCode11 = define(DescriptorSpec{
		Name:        "BARCODE_CODE_11",
		Token:       "B1",
		Namespace:   Format,
		Description: "Code 11",
		Params:      []string{"orientation", "check_digit", "height", "interpretation_line", "interpretation_line_above"},
		Defaults:    []string{"", "N", "", "Y", "N"},
	})
	BarcodeInterleaved2of5 = define(DescriptorSpec{
		Name:        "BARCODE_INTERLEAVED_2_OF_5",
		Token:       "B2",
		Namespace:   Format,
		Description: "Interleaved 2 of 5",
		Params:      []string{"orientation", "height", "interpretation_line", "interpretation_line_above", "check_digit"},
		Defaults:    []string{"", "", "Y", "N", "N"},
	})
	BarcodeCode39 = define(DescriptorSpec{
		Name:        "BARCODE_CODE_39",
		Token:       "B3",
		Namespace:   Format,
		Description: "Code 39",
		Params:      []string{"orientation", "check_digit", "height", "interpretation_line", "interpretation_line_above"},
		Defaults:    []string{"", "N", "", "Y", "N"},
	})
	BarcodeCode49 = define(DescriptorSpec{
		Name:        "BARCODE_CODE_49",
		Token:       "B4",
		Namespace:   Format,
		Description: "Code 49",
		Params:      []string{"orientation", "height", "interpretation_line", "starting_mode"},
		Defaults:    []string{"", "", "N", "A"},
	})
	BarcodePlanet = define(DescriptorSpec{
		Name:        "BARCODE_PLANET_CODE",
		Token:       "B5",
		Namespace:   Format,
		Description: "Planet Code",
		Params:      []string{"orientation", "height", "interpretation_line", "interpretation_line_above"},
		Defaults:    []string{"", "", "N", "N"},
	})
	BarcodePDF417 = define(DescriptorSpec{
		Name:        "BARCODE_PDF417",
		Token:       "B7",
		Namespace:   Format,
		Description: "PDF417",
		Params:      []string{"orientation", "row_height", "security_level", "columns", "rows", "truncate"},
		Defaults:    []string{"", "", "0", "", "", "N"},
	})
	BarcodeEAN8 = define(DescriptorSpec{
		Name:        "BARCODE_EAN_8",
		Token:       "B8",
		Namespace:   Format,
		Description: "EAN-8",
		Params:      []string{"orientation", "height", "interpretation_line", "interpretation_line_above"},
		Defaults:    []string{"", "", "Y", "N"},
	})
	BarcodeUPCE = define(DescriptorSpec{
		Name:        "BARCODE_UPC_E",
		Token:       "B9",
		Namespace:   Format,
		Description: "UPC-E",
		Params:      []string{"orientation", "height", "interpretation_line", "interpretation_line_above", "check_digit"},
		Defaults:    []string{"", "", "Y", "N", "Y"},
	})
	BarcodeCode93 = define(DescriptorSpec{
		Name:        "BARCODE_CODE_93",
		Token:       "BA",
		Namespace:   Format,
		Description: "Code 93",
		Params:      []string{"orientation", "height", "interpretation_line", "interpretation_line_above", "check_digit"},
		Defaults:    []string{"", "", "Y", "N", "N"},
	})
	BarcodeCodablock = define(DescriptorSpec{
		Name:        "BARCODE_CODABLOCK",
		Token:       "BB",
		Namespace:   Format,
		Description: "CODABLOCK",
		Params:      []string{"orientation", "row_height", "security_level", "characters_per_row", "rows", "mode"},
		Defaults:    []string{"N", "8", "Y", "", "", "F"},
	})
	BarcodeCode128 = define(DescriptorSpec{
		Name:        "BARCODE_CODE_128",
		Token:       "BC",
		Namespace:   Format,
		Description: "Code 128",
		Params:      []string{"orientation", "height", "interpretation_line", "interpretation_line_above", "check_digit", "mode"},
		Defaults:    []string{"", "", "Y", "N", "N", "N"},
	})
	BarcodeMaxiCode = define(DescriptorSpec{
		Name:        "BARCODE_UPS_MAXICODE",
		Token:       "BD",
		Namespace:   Format,
		Description: "UPS MaxiCode",
		Params:      []string{"mode", "symbol_number", "symbol_count"},
		Defaults:    []string{"2", "1", "1"},
	})
	BarcodeEAN13 = define(DescriptorSpec{
		Name:        "BARCODE_EAN_13",
		Token:       "BE",
		Namespace:   Format,
		Description: "EAN-13",
		Params:      []string{"orientation", "height", "interpretation_line", "interpretation_line_above"},
		Defaults:    []string{"", "", "Y", "N"},
	})
	BarcodeMicroPDF417 = define(DescriptorSpec{
		Name:        "BARCODE_MICRO_PDF417",
		Token:       "BF",
		Namespace:   Format,
		Description: "MicroPDF417",
		Params:      []string{"orientation", "height", "mode"},
		Defaults:    []string{"", "", "0"},
	})
	BarcodeIndustrial2of5 = define(DescriptorSpec{
		Name:        "BARCODE_INDUSTRIAL_2_OF_5",
		Token:       "BI",
		Namespace:   Format,
		Description: "Industrial 2 of 5",
		Params:      []string{"orientation", "height", "interpretation_line", "interpretation_line_above"},
		Defaults:    []string{"", "", "Y", "N"},
	})
	BarcodeStandard2of5 = define(DescriptorSpec{
		Name:        "BARCODE_STANDARD_2_OF_5",
		Token:       "BJ",
		Namespace:   Format,
		Description: "Standard 2 of 5",
		Params:      []string{"orientation", "height", "interpretation_line", "interpretation_line_above"},
		Defaults:    []string{"", "", "Y", "N"},
	})
	BarcodeCodabar = define(DescriptorSpec{
		Name:        "BARCODE_ANSI_CODABAR",
		Token:       "BK",
		Namespace:   Format,
		Description: "ANSI Codabar",
		Params:      []string{"orientation", "check_digit", "height", "interpretation_line", "interpretation_line_above", "start_character", "stop_character"},
		Defaults:    []string{"", "N", "", "Y", "N", "A", "A"},
	})
	BarcodeLOGMARS = define(DescriptorSpec{
		Name:        "BARCODE_LOGMARS",
		Token:       "BL",
		Namespace:   Format,
		Description: "LOGMARS",
		Params:      []string{"orientation", "height", "interpretation_line_above"},
		Defaults:    []string{"", "", "N"},
	})
	BarcodeMSI = define(DescriptorSpec{
		Name:        "BARCODE_MSI",
		Token:       "BM",
		Namespace:   Format,
		Description: "MSI",
		Params:      []string{"orientation", "check_digit_selection", "height", "interpretation_line", "interpretation_line_above", "check_digit_in_interpretation_line"},
		Defaults:    []string{"", "B", "", "Y", "N", "N"},
	})
	BarcodePlessey = define(DescriptorSpec{
		Name:        "BARCODE_PLESSEY_CODE",
		Token:       "BP",
		Namespace:   Format,
		Description: "Plessey",
		Params:      []string{"orientation", "check_digit", "height", "interpretation_line", "interpretation_line_above"},
		Defaults:    []string{"", "N", "", "Y", "N"},
	})
	BarcodeQRCode = define(DescriptorSpec{
		Name:        "BARCODE_QR_CODE",
		Token:       "BQ",
		Namespace:   Format,
		Description: "QR Code",
		Params:      []string{"orientation", "model", "magnification", "error_correction", "mask"},
		Defaults:    []string{"N", "2", "", "Q", "7"},
	})
	BarcodeGS1DataBar = define(DescriptorSpec{
		Name:        "BARCODE_GS1_DATABAR",
		Token:       "BR",
		Namespace:   Format,
		Description: "GS1 DataBar",
		Params:      []string{"orientation", "symbology_type", "magnification", "separator_height", "height", "segment_width"},
		Defaults:    []string{"R", "1", "", "1", "25", "22"},
	})
	BarcodeUPCEANExtension = define(DescriptorSpec{
		Name:        "BARCODE_UPC_EAN_EXTENSION",
		Token:       "BS",
		Namespace:   Format,
		Description: "UPC/EAN extension",
		Params:      []string{"orientation", "height", "interpretation_line", "interpretation_line_above"},
		Defaults:    []string{"", "", "Y", "N"},
	})
	BarcodeTLC39 = define(DescriptorSpec{
		Name:        "BARCODE_TLC39",
		Token:       "BT",
		Namespace:   Format,
		Description: "TLC39",
		Params:      []string{"orientation", "width", "wide_bar_ratio", "height", "row_height", "narrow_bar_width"},
		Defaults:    []string{"", "4", "2.0", "120", "8", "4"},
	})
	BarcodeUPCA = define(DescriptorSpec{
		Name:        "BARCODE_UPC_A",
		Token:       "BU",
		Namespace:   Format,
		Description: "UPC-A",
		Params:      []string{"orientation", "height", "interpretation_line", "interpretation_line_above", "check_digit"},
		Defaults:    []string{"", "", "Y", "N", "Y"},
	})
	BarcodeDataMatrix = define(DescriptorSpec{
		Name:        "BARCODE_DATA_MATRIX",
		Token:       "BX",
		Namespace:   Format,
		Description: "Data Matrix",
		Params:      []string{"orientation", "height", "quality", "columns", "rows", "format_id", "escape", "aspect_ratio"},
		Defaults:    []string{"", "", "0", "", "", "6", "~", "1"},
	})
	BarcodePostal = define(DescriptorSpec{
		Name:        "BARCODE_POSTAL_CODE",
		Token:       "BZ",
		Namespace:   Format,
		Description: "POSTAL",
		Params:      []string{"orientation", "height", "interpretation_line", "interpretation_line_above", "postal_code_type"},
		Defaults:    []string{"", "", "N", "N", "0"},
	})
	BarcodeAztec = define(DescriptorSpec{
		Name:        "BARCODE_AZTEC_CODE",
		Token:       "B0",
		Namespace:   Format,
		Description: "Aztec",
		Params:      []string{"orientation", "magnification", "extended_channel", "error_control", "menu_symbol", "symbol_count", "id_field"},
		Defaults:    []string{"", "", "N", "0", "N", "1"},
	})
)

// IsBarcode reports whether d selects a barcode symbology.
func IsBarcode(d *Descriptor) bool {
	return d != nil && d.namespace == Format && len(d.token) == 2 && d.token[0] == 'B' && d.token != "BY"
}
