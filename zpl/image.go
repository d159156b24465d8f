// =============================================================================
// image.go - Print a PNG Image as a ^GF Graphic
// =============================================================================

package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/zplcommander/zplcommander/zplprotocol"
)

// loadImage decodes a PNG file.
func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// imageLabel places img at x, y on a new label for s.
func (a *app) imageLabel(s zplprotocol.Sender, img image.Image, x, y int, threshold uint8, enc zplprotocol.GraphicEncoding) *zplprotocol.Label {
	g := zplprotocol.NewGraphic(img, threshold)
	l := a.newLabel(s)
	l.NewField().Position(x, y).Graphic(g, enc).Close()
	return l
}

func cmdImage(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("image")
	x := fs.Int("x", 0, "left edge in dots")
	y := fs.Int("y", 0, "top edge in dots")
	threshold := fs.Uint8("threshold", 128, "pixels darker than this print black")
	z64 := fs.Bool("z64", false, "compress the graphic (Z64)")
	b64 := fs.Bool("b64", false, "base64 encode the graphic (B64)")
	if err := fs.Parse(args); err != nil {
		return usageError("%v", err)
	}
	if fs.NArg() != 1 {
		return usageError("image: need exactly one PNG file")
	}

	enc := zplprotocol.GraphicHex
	switch {
	case *z64:
		enc = zplprotocol.GraphicZ64
	case *b64:
		enc = zplprotocol.GraphicB64
	}

	img, err := loadImage(fs.Arg(0))
	if err != nil {
		return err
	}
	l := a.imageLabel(a.sender(""), img, *x, *y, *threshold, enc)
	a.log.Info("printing image", "path", fs.Arg(0), "bounds", fmt.Sprintf("%+v", l.Bounds()))
	return l.Close(ctx)
}
