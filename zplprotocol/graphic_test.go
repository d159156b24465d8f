package zplprotocol

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestCRC16XModem(t *testing.T) {
	// Standard check value for CRC-16/XMODEM.
	if got := crc16XModem([]byte("123456789")); got != 0x31C3 {
		t.Errorf("got %04X, want 31C3", got)
	}
	if got := crc16XModem(nil); got != 0 {
		t.Errorf("empty input got %04X", got)
	}
}

func checker() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 10, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 10; x++ {
			if (x+y)%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

func TestNewGraphic(t *testing.T) {
	g := NewGraphic(checker(), 128)
	if g.Width != 10 || g.Height != 2 || g.RowBytes != 2 {
		t.Fatalf("got %dx%d rowbytes %d", g.Width, g.Height, g.RowBytes)
	}
	want := []byte{0xAA, 0x80, 0x55, 0x40}
	if !bytes.Equal(g.Data, want) {
		t.Errorf("data % X, want % X", g.Data, want)
	}
}

func TestNewGraphicTransparent(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 1))
	img.SetNRGBA(0, 0, color.NRGBA{A: 0})
	img.SetNRGBA(1, 0, color.NRGBA{A: 255})
	g := NewGraphic(img, 128)
	if g.Data[0] != 0x40 {
		t.Errorf("got %08b, want 01000000", g.Data[0])
	}
}

func TestGraphicEncodeRoundTrip(t *testing.T) {
	g := &Graphic{Width: 16, Height: 4, RowBytes: 2, Data: bytes.Repeat([]byte{0xF0, 0x0F}, 4)}
	for _, enc := range []GraphicEncoding{GraphicHex, GraphicB64, GraphicZ64} {
		data, err := g.Encode(enc)
		if err != nil {
			t.Fatalf("Encode(%d): %v", enc, err)
		}
		back, err := DecodeGraphicData(data)
		if err != nil {
			t.Fatalf("DecodeGraphicData(%q): %v", data, err)
		}
		if !bytes.Equal(back, g.Data) {
			t.Errorf("encoding %d round trip: got % X", enc, back)
		}
	}
}

func TestGraphicEncodeFormats(t *testing.T) {
	g := &Graphic{Width: 8, Height: 1, RowBytes: 1, Data: []byte{0xAB}}
	hex, _ := g.Encode(GraphicHex)
	if hex != "AB" {
		t.Errorf("hex %q", hex)
	}
	b64, _ := g.Encode(GraphicB64)
	if !strings.HasPrefix(b64, ":B64:qw==:") || len(b64) != len(":B64:qw==:")+4 {
		t.Errorf("b64 %q", b64)
	}
	z64, _ := g.Encode(GraphicZ64)
	if !strings.HasPrefix(z64, ":Z64:") {
		t.Errorf("z64 %q", z64)
	}
}

func TestDecodeGraphicDataBadCRC(t *testing.T) {
	_, err := DecodeGraphicData(":B64:qw==:0000")
	var decodeErr *ProtocolDecodeError
	if !errors.As(err, &decodeErr) || decodeErr.Field != "crc" {
		t.Errorf("error = %v, want crc decode error", err)
	}
}

func TestGraphicCommand(t *testing.T) {
	g := &Graphic{Width: 16, Height: 2, RowBytes: 2, Data: []byte{1, 2, 3, 4}}
	c := g.Command(GraphicHex)
	if got := c.String(); got != "^GFA,4,4,2,01020304" {
		t.Errorf("got %q", got)
	}
	if len(c.Missing()) != 0 {
		t.Errorf("missing %v", c.Missing())
	}

	l := NewLabel(nil)
	l.NewField().Position(10, 10).Graphic(g, GraphicHex).Close()
	if got := l.Bounds(); got != (Bounds{X: 10, Y: 10, Width: 16, Height: 2}) {
		t.Errorf("bounds %+v", got)
	}
}
