package zplprotocol

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zlib"
)

// GraphicEncoding selects how ^GF bitmap data is written.
type GraphicEncoding int

const (
	// GraphicHex writes two hex digits per byte.
	GraphicHex GraphicEncoding = iota
	// GraphicZ64 writes zlib-compressed, base64-encoded data with a CRC.
	GraphicZ64
	// GraphicB64 writes base64-encoded data with a CRC.
	GraphicB64
)

// Graphic is a monochrome bitmap. Each row is packed into RowBytes bytes,
// most significant bit first; a set bit prints black.
type Graphic struct {
	Width    int
	Height   int
	RowBytes int
	Data     []byte
}

// NewGraphic converts img to a bitmap. Pixels darker than threshold (on a
// 0-255 luminance scale) print black; transparent pixels stay white.
func NewGraphic(img image.Image, threshold uint8) *Graphic {
	r := img.Bounds()
	g := &Graphic{
		Width:    r.Dx(),
		Height:   r.Dy(),
		RowBytes: (r.Dx() + 7) / 8,
	}
	g.Data = make([]byte, g.RowBytes*g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := img.At(r.Min.X+x, r.Min.Y+y)
			if _, _, _, a := c.RGBA(); a < 0x8000 {
				continue
			}
			if color.GrayModel.Convert(c).(color.Gray).Y < threshold {
				g.Data[y*g.RowBytes+x/8] |= 0x80 >> (x % 8)
			}
		}
	}
	return g
}

// Encode returns the ^GF data field for g.
func (g *Graphic) Encode(enc GraphicEncoding) (string, error) {
	switch enc {
	case GraphicZ64:
		var buf bytes.Buffer
		zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
		if err != nil {
			return "", err
		}
		if _, err := zw.Write(g.Data); err != nil {
			return "", err
		}
		if err := zw.Close(); err != nil {
			return "", err
		}
		return armor("Z64", buf.Bytes()), nil
	case GraphicB64:
		return armor("B64", g.Data), nil
	default:
		return strings.ToUpper(hex.EncodeToString(g.Data)), nil
	}
}

// armor wraps data as :<kind>:<base64>:<crc>.
func armor(kind string, data []byte) string {
	b64 := base64.StdEncoding.EncodeToString(data)
	return fmt.Sprintf(":%s:%s:%04X", kind, b64, crc16XModem([]byte(b64)))
}

// Command returns the ^GF command printing g. If compression fails the
// data is written as hex.
func (g *Graphic) Command(enc GraphicEncoding) *Command {
	data, err := g.Encode(enc)
	if err != nil {
		data, _ = g.Encode(GraphicHex)
	}
	total := len(g.Data)
	return GraphicField.Call("A", total, total, g.RowBytes, data)
}

// DecodeGraphicData reverses Encode for hex, :B64: and :Z64: data. The CRC
// of armored data is verified.
func DecodeGraphicData(data string) ([]byte, error) {
	if !strings.HasPrefix(data, ":") {
		return hex.DecodeString(data)
	}
	parts := strings.Split(strings.TrimPrefix(data, ":"), ":")
	if len(parts) != 3 {
		return nil, newDecodeError(data, "data", "armored data needs kind, payload and crc", nil)
	}
	kind, b64, sum := parts[0], parts[1], parts[2]
	want, err := strconv.ParseUint(sum, 16, 16)
	if err != nil {
		return nil, newDecodeError(data, "crc", "not a hex number", err)
	}
	if got := crc16XModem([]byte(b64)); uint64(got) != want {
		return nil, newDecodeError(data, "crc", fmt.Sprintf("checksum %04X does not match %04X", got, want), nil)
	}
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, newDecodeError(data, "data", "invalid base64", err)
	}
	switch kind {
	case "B64":
		return raw, nil
	case "Z64":
		zr, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, newDecodeError(data, "data", "invalid zlib stream", err)
		}
		defer zr.Close()
		var out bytes.Buffer
		if _, err := out.ReadFrom(zr); err != nil {
			return nil, newDecodeError(data, "data", "invalid zlib stream", err)
		}
		return out.Bytes(), nil
	}
	return nil, newDecodeError(data, "kind", "unknown encoding "+kind, nil)
}

// crc16XModem is CRC-16/XMODEM (polynomial 0x1021, initial value 0), the
// checksum ZPL expects after base64 graphic data.
func crc16XModem(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
