package raster

import (
	"math"

	"github.com/Faultbox/skinhead/pkg/skin"
)

// screenVertex is a projected vertex: pixel position, NDC depth, 1/w and
// texture coordinates pre-divided by w.
type screenVertex struct {
	x, y, z float64
	invW    float64
	uw, vw  float64
}

// rasterizeTriangle fills one front-facing triangle. Vertices wound
// clockwise on screen (y down) face the viewer; others are culled.
func rasterizeTriangle(fb *FrameBuffer, v0, v1, v2 screenVertex, tex *skin.FaceTexture) {
	area := (v1.x-v0.x)*(v2.y-v0.y) - (v2.x-v0.x)*(v1.y-v0.y)
	if area <= 1e-12 {
		return
	}
	invArea := 1.0 / area

	minX := int(math.Floor(min(v0.x, v1.x, v2.x)))
	maxX := int(math.Ceil(max(v0.x, v1.x, v2.x)))
	minY := int(math.Floor(min(v0.y, v1.y, v2.y)))
	maxY := int(math.Ceil(max(v0.y, v1.y, v2.y)))
	minX = max(minX, 0)
	minY = max(minY, 0)
	maxX = min(maxX, fb.Width-1)
	maxY = min(maxY, fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	for sy := minY; sy <= maxY; sy++ {
		py := float64(sy) + 0.5
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			px := float64(sx) + 0.5

			// Edge functions, normalized so w0+w1+w2 = 1 inside.
			w0 := ((v2.x-v1.x)*(py-v1.y) - (v2.y-v1.y)*(px-v1.x)) * invArea
			w1 := ((v0.x-v2.x)*(py-v2.y) - (v0.y-v2.y)*(px-v2.x)) * invArea
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*v0.z + w1*v1.z + w2*v2.z
			zIdx := rowOff + sx
			if z < -1 || z >= fb.ZBuf[zIdx] {
				continue
			}

			invW := w0*v0.invW + w1*v1.invW + w2*v2.invW
			u := (w0*v0.uw + w1*v1.uw + w2*v2.uw) / invW
			v := (w0*v0.vw + w1*v1.vw + w2*v2.vw) / invW
			c := tex.SampleNearest(u, v)
			if c.A == 0 {
				continue
			}
			fb.ZBuf[zIdx] = z

			i := zIdx * 4
			fb.Color[i] = c.R
			fb.Color[i+1] = c.G
			fb.Color[i+2] = c.B
			fb.Color[i+3] = c.A
		}
	}
}
