package avatar

import (
	"image"
	"time"

	"github.com/Faultbox/skinhead/internal/avatar/pointer"
)

// LayerRects places the two layers inside a square avatar of edge S, in
// avatar-local coordinates.
type LayerRects struct {
	Body pointer.Rect
	Head pointer.Rect
}

// Layout returns the layer rectangles for an avatar of the given size. The
// body strip is 0.8S x 0.4S, centred, 0.1S above the bottom edge. The head
// canvas is S x S, 0.01S from the top, centred at 0.49S.
func Layout(size int) LayerRects {
	s := float64(size)
	return LayerRects{
		Body: pointer.Rect{X: 0.1 * s, Y: s - 0.1*s - 0.4*s, W: 0.8 * s, H: 0.4 * s},
		Head: pointer.Rect{X: 0.49*s - s/2, Y: 0.01 * s, W: s, H: s},
	}
}

// Place positions a square avatar of edge size inside a width x height
// viewport so that its centre sits at (anchorX*width, anchorY*height).
// Anchors are clamped to [0, 1].
func Place(width, height, size int, anchorX, anchorY float64) pointer.Rect {
	anchorX = min(max(anchorX, 0), 1)
	anchorY = min(max(anchorY, 0), 1)
	s := float64(size)
	return pointer.Rect{
		X: anchorX*float64(width) - s/2,
		Y: anchorY*float64(height) - s/2,
		W: s,
		H: s,
	}
}

// Contain fits an image of w x h inside r keeping its aspect ratio, centred.
func Contain(r pointer.Rect, w, h int) pointer.Rect {
	if w <= 0 || h <= 0 || r.W <= 0 || r.H <= 0 {
		return pointer.Rect{X: r.X + r.W/2, Y: r.Y + r.H/2}
	}
	scale := min(r.W/float64(w), r.H/float64(h))
	cw, ch := float64(w)*scale, float64(h)*scale
	return pointer.Rect{X: r.X + (r.W-cw)/2, Y: r.Y + (r.H-ch)/2, W: cw, H: ch}
}

// FrameInfo is what a compositor needs to draw one avatar frame.
type FrameInfo struct {
	Size   int
	Bounds pointer.Rect // avatar square in viewport coordinates

	// Order lists the layers back to front.
	Order         [2]pointer.Layer
	Transitioning bool

	Body     image.Image  // nil until the body image loads
	BodyRect pointer.Rect // contained body rect, avatar-local
	HeadRect pointer.Rect // head canvas, avatar-local
	HasHead  bool
}

// Frame snapshots the layer order and placement for the frame at now.
func (a *Avatar) Frame(now time.Time) FrameInfo {
	rects := Layout(a.opts.Size)
	info := FrameInfo{
		Size:          a.opts.Size,
		Order:         a.layers.Order(now),
		Transitioning: a.layers.Transitioning(now),
		Body:          a.body,
		HeadRect:      rects.Head,
	}
	if a.deps.Bounds != nil {
		info.Bounds = a.deps.Bounds()
	}
	if a.body != nil {
		b := a.body.Bounds()
		info.BodyRect = Contain(rects.Body, b.Dx(), b.Dy())
	}
	if a.loop != nil && a.loop.Head() != nil {
		info.HasHead = true
	}
	return info
}
