package zplprotocol

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// CharSet is a ^CI character set number.
//
// CharSet deliberately has no String method: it is written to the wire as
// its number. Use Name for display.
type CharSet int

const (
	CharSetUSA1              CharSet = 0
	CharSetUSA2              CharSet = 1
	CharSetUK                CharSet = 2
	CharSetHolland           CharSet = 3
	CharSetDenmarkNorway     CharSet = 4
	CharSetSwedenFinland     CharSet = 5
	CharSetGermany           CharSet = 6
	CharSetFrance1           CharSet = 7
	CharSetFrance2           CharSet = 8
	CharSetItaly             CharSet = 9
	CharSetSpain             CharSet = 10
	CharSetMiscellaneous     CharSet = 11
	CharSetJapan             CharSet = 12
	CharSetZebra850          CharSet = 13
	CharSetDoubleByte        CharSet = 14
	CharSetShiftJIS          CharSet = 15
	CharSetEUC               CharSet = 16
	CharSetBig5              CharSet = 17
	CharSetSingleByteAsian   CharSet = 24
	CharSetMultibyteAsian    CharSet = 26
	CharSetZebra1252         CharSet = 27
	CharSetUTF8              CharSet = 28
	CharSetUTF16BigEndian    CharSet = 29
	CharSetUTF16LittleEndian CharSet = 30
	CharSetZebra1250         CharSet = 31
	CharSetZebra1251         CharSet = 33
	CharSetZebra1253         CharSet = 34
	CharSetZebra1254         CharSet = 35
	CharSetZebra1255         CharSet = 36
)

var charSetNames = map[CharSet]string{
	CharSetUSA1:              "USA1",
	CharSetUSA2:              "USA2",
	CharSetUK:                "UK",
	CharSetHolland:           "Holland",
	CharSetDenmarkNorway:     "Denmark/Norway",
	CharSetSwedenFinland:     "Sweden/Finland",
	CharSetGermany:           "Germany",
	CharSetFrance1:           "France1",
	CharSetFrance2:           "France2",
	CharSetItaly:             "Italy",
	CharSetSpain:             "Spain",
	CharSetMiscellaneous:     "Miscellaneous",
	CharSetJapan:             "Japan",
	CharSetZebra850:          "Zebra850",
	CharSetDoubleByte:        "DoubleByte",
	CharSetShiftJIS:          "ShiftJIS",
	CharSetEUC:               "EUC",
	CharSetBig5:              "Big5",
	CharSetSingleByteAsian:   "SingleByteAsian",
	CharSetMultibyteAsian:    "MultibyteAsian",
	CharSetZebra1252:         "Zebra1252",
	CharSetUTF8:              "UTF8",
	CharSetUTF16BigEndian:    "UTF16BE",
	CharSetUTF16LittleEndian: "UTF16LE",
	CharSetZebra1250:         "Zebra1250",
	CharSetZebra1251:         "Zebra1251",
	CharSetZebra1253:         "Zebra1253",
	CharSetZebra1254:         "Zebra1254",
	CharSetZebra1255:         "Zebra1255",
}

// Name returns a display name such as "UTF8" or "Zebra1252".
func (c CharSet) Name() string {
	if n, ok := charSetNames[c]; ok {
		return n
	}
	return "CharSet(" + strconv.Itoa(int(c)) + ")"
}

// Valid reports whether c is a ^CI value this package knows.
func (c CharSet) Valid() bool {
	_, ok := charSetNames[c]
	return ok
}

// ParseCharSet accepts a ^CI number or a name as returned by Name
// (case-insensitive).
func ParseCharSet(s string) (CharSet, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if cs := CharSet(n); cs.Valid() {
			return cs, nil
		}
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedCharSet, s)
	}
	for cs, name := range charSetNames {
		if strings.EqualFold(name, s) {
			return cs, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedCharSet, s)
}

// Encoding returns the byte encoding the printer expects under c. The
// national sets 0 to 13 are variants of code page 850. Sets whose command
// text would not stay ASCII (UTF-16) or that depend on a downloaded table
// report ErrUnsupportedCharSet.
func (c CharSet) Encoding() (encoding.Encoding, error) {
	if c >= CharSetUSA1 && c <= CharSetZebra850 {
		return charmap.CodePage850, nil
	}
	switch c {
	case CharSetShiftJIS:
		return japanese.ShiftJIS, nil
	case CharSetEUC:
		return japanese.EUCJP, nil
	case CharSetBig5:
		return traditionalchinese.Big5, nil
	case CharSetZebra1252:
		return charmap.Windows1252, nil
	case CharSetUTF8:
		return encoding.Nop, nil
	case CharSetZebra1250:
		return charmap.Windows1250, nil
	case CharSetZebra1251:
		return charmap.Windows1251, nil
	case CharSetZebra1253:
		return charmap.Windows1253, nil
	case CharSetZebra1254:
		return charmap.Windows1254, nil
	case CharSetZebra1255:
		return charmap.Windows1255, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedCharSet, c.Name())
}

// EncodeText converts UTF-8 text to the bytes the printer expects under cs,
// returned as a string. Runes the code page cannot represent become its
// replacement byte.
// Text is returned unchanged when it is plain ASCII or cs has no encoding.
func EncodeText(text string, cs CharSet) string {
	if isASCII(text) {
		return text
	}
	enc, err := cs.Encoding()
	if err != nil || enc == encoding.Nop {
		return text
	}
	out, err := encoding.ReplaceUnsupported(enc.NewEncoder()).String(text)
	if err != nil {
		return text
	}
	return out
}

// DecodeText converts printer bytes under cs back to UTF-8.
func DecodeText(data string, cs CharSet) (string, error) {
	if isASCII(data) {
		return data, nil
	}
	enc, err := cs.Encoding()
	if err != nil {
		return "", err
	}
	return enc.NewDecoder().String(data)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
