// Package raster is a CPU renderer for the avatar. It draws the head with a
// z-buffered, perspective-correct, nearest-sampled triangle rasterizer and
// composites the layers into an image, without a GPU.
package raster

import (
	"image"
	"math"
)

// FrameBuffer holds the render target as flat slices for cache locality.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // non-premultiplied RGBA, len = W*H*4
	ZBuf   []float64 // NDC depth per pixel, len = W*H, cleared to +inf
}

// NewFrameBuffer allocates a transparent color buffer and a cleared z-buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	fb := &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, w*h*4),
		ZBuf:   make([]float64, w*h),
	}
	fb.Clear()
	return fb
}

// Clear resets every pixel to transparent and every depth to +inf.
func (fb *FrameBuffer) Clear() {
	clear(fb.Color)
	inf := math.Inf(1)
	for i := range fb.ZBuf {
		fb.ZBuf[i] = inf
	}
}

// Image returns the color buffer as an image sharing its memory.
func (fb *FrameBuffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    fb.Color,
		Stride: fb.Width * 4,
		Rect:   image.Rect(0, 0, fb.Width, fb.Height),
	}
}
