package skin

import (
	"image"
	"image/color"
)

// ColorSpace tags how texel values should be interpreted by a renderer.
type ColorSpace int

const (
	// ColorSpaceSRGB marks perceptual (gamma-encoded) colour data.
	ColorSpaceSRGB ColorSpace = iota
	// ColorSpaceLinear marks linear colour data.
	ColorSpaceLinear
)

// Filter is the sampling filter a renderer must use for a texture.
type Filter int

const (
	// FilterNearest maps every texel to a sharp block.
	FilterNearest Filter = iota
	// FilterLinear blends neighbouring texels.
	FilterLinear
)

// PlaceholderColor fills faces that could not be extracted.
var PlaceholderColor = color.NRGBA{R: 0x8B, G: 0x69, B: 0x14, A: 0xFF}

// FaceTexture is the pixel data for one cube face together with the sampling
// state renderers must honour.
type FaceTexture struct {
	Face        Face
	Image       *image.NRGBA
	ColorSpace  ColorSpace
	Filter      Filter
	Mipmaps     bool
	Placeholder bool
}

// Size returns the texture's width and height in texels.
func (t *FaceTexture) Size() (int, int) {
	b := t.Image.Bounds()
	return b.Dx(), b.Dy()
}

// At returns the texel at (x, y) relative to the texture origin.
func (t *FaceTexture) At(x, y int) color.NRGBA {
	b := t.Image.Bounds()
	return t.Image.NRGBAAt(b.Min.X+x, b.Min.Y+y)
}

// SampleNearest returns the texel covering the normalized coordinate (u, v),
// where v grows downward from the image's top row. Coordinates are clamped
// to the edge.
func (t *FaceTexture) SampleNearest(u, v float64) color.NRGBA {
	w, h := t.Size()
	x := clampIndex(int(u*float64(w)), w)
	y := clampIndex(int(v*float64(h)), h)
	return t.At(x, y)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func newFaceTexture(face Face, img *image.NRGBA) *FaceTexture {
	return &FaceTexture{
		Face:       face,
		Image:      img,
		ColorSpace: ColorSpaceSRGB,
		Filter:     FilterNearest,
	}
}
