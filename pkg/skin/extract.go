package skin

import (
	"errors"
	"image"

	"golang.org/x/image/draw"
)

// ErrNoSurface is returned by a surface allocator that cannot provide a
// raster to draw into.
var ErrNoSurface = errors.New("skin: no drawing surface available")

// Extractor copies sheet regions into face textures.
//
// The zero value is ready to use and produces FaceSize x FaceSize textures.
type Extractor struct {
	// Size is the edge length of produced textures. Zero means FaceSize.
	Size int

	// NewSurface allocates the off-screen raster for one face. Nil means
	// image.NewNRGBA. When it fails the face degrades to a placeholder.
	NewSurface func(w, h int) (*image.NRGBA, error)
}

func (e *Extractor) size() int {
	if e.Size > 0 {
		return e.Size
	}
	return FaceSize
}

func (e *Extractor) surface(w, h int) (*image.NRGBA, error) {
	if e.NewSurface == nil {
		return image.NewNRGBA(image.Rect(0, 0, w, h)), nil
	}
	return e.NewSurface(w, h)
}

// ExtractFace produces a nearest-neighbour copy of region r of img, mirrored
// as r requests. The region must lie inside the sheet; callers validate the
// sheet with CheckSheet first.
func (e *Extractor) ExtractFace(img image.Image, face Face, r Region) *FaceTexture {
	n := e.size()
	dst, err := e.surface(n, n)
	if err != nil || dst == nil {
		return Placeholder(face, n)
	}

	origin := img.Bounds().Min
	src := image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H).Add(origin)
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)

	if r.FlipH {
		mirrorHorizontal(dst)
	}
	if r.FlipV {
		mirrorVertical(dst)
	}
	return newFaceTexture(face, dst)
}

// ExtractHead extracts all six faces using HeadLayout.
func (e *Extractor) ExtractHead(img image.Image) [FaceCount]*FaceTexture {
	var faces [FaceCount]*FaceTexture
	for _, f := range Faces {
		faces[f] = e.ExtractFace(img, f, HeadLayout[f])
	}
	return faces
}

// Placeholder returns a flat PlaceholderColor texture for face. It never
// allocates through an injected surface allocator.
func Placeholder(face Face, size int) *FaceTexture {
	if size <= 0 {
		size = FaceSize
	}
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(PlaceholderColor), image.Point{}, draw.Src)
	t := newFaceTexture(face, img)
	t.Placeholder = true
	return t
}

func mirrorHorizontal(img *image.NRGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for l, r := b.Min.X, b.Max.X-1; l < r; l, r = l+1, r-1 {
			swapTexel(img, l, y, r, y)
		}
	}
}

func mirrorVertical(img *image.NRGBA) {
	b := img.Bounds()
	for t, btm := b.Min.Y, b.Max.Y-1; t < btm; t, btm = t+1, btm-1 {
		for x := b.Min.X; x < b.Max.X; x++ {
			swapTexel(img, x, t, x, btm)
		}
	}
}

func swapTexel(img *image.NRGBA, x0, y0, x1, y1 int) {
	a, b := img.NRGBAAt(x0, y0), img.NRGBAAt(x1, y1)
	img.SetNRGBA(x0, y0, b)
	img.SetNRGBA(x1, y1, a)
}
