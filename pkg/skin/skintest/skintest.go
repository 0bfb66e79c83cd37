// Package skintest builds synthetic skin sheets for tests.
package skintest

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
)

// Texel returns the colour Sheet places at (x, y). Every texel of a 64x64
// sheet gets a distinct, fully opaque colour.
func Texel(x, y int) color.NRGBA {
	return color.NRGBA{R: uint8(x * 4), G: uint8(y * 4), B: uint8(0x80 + x%2*0x10 + y%2*0x20), A: 0xFF}
}

// Sheet returns a w x h sheet filled with Texel colours.
func Sheet(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, Texel(x, y))
		}
	}
	return img
}

// PNG encodes img as PNG bytes, panicking on failure.
func PNG(img image.Image) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
