package raster

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"golang.org/x/image/draw"

	"github.com/Faultbox/skinhead/internal/avatar"
	"github.com/Faultbox/skinhead/internal/avatar/head"
	"github.com/Faultbox/skinhead/internal/avatar/pointer"
	"github.com/Faultbox/skinhead/internal/engine/camera"
	"github.com/Faultbox/skinhead/pkg/math"
	"github.com/Faultbox/skinhead/pkg/skin"
)

// ErrForeignResource is returned when a head holds resources created by
// another device.
var ErrForeignResource = errors.New("raster: head resources belong to another device")

// Renderer draws the head into a square CPU frame buffer. It implements
// scene.Renderer.
type Renderer struct {
	fb *FrameBuffer

	mu           sync.Mutex
	liveTextures int
	liveMeshes   int
}

// New creates a renderer with a size x size head canvas.
func New(size int) *Renderer {
	return &Renderer{fb: NewFrameBuffer(size, size)}
}

// Size returns the edge of the square head canvas.
func (r *Renderer) Size() int {
	return r.fb.Width
}

// Frame returns the last rendered head frame. It shares memory with the
// renderer and is overwritten by the next Render.
func (r *Renderer) Frame() *image.NRGBA {
	return r.fb.Image()
}

// Live returns the number of unreleased meshes and textures.
func (r *Renderer) Live() (meshes, textures int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.liveMeshes, r.liveTextures
}

type texture struct {
	r        *Renderer
	face     *skin.FaceTexture
	released bool
}

func (t *texture) Release() {
	t.r.mu.Lock()
	defer t.r.mu.Unlock()
	if !t.released {
		t.released = true
		t.r.liveTextures--
	}
}

type mesh struct {
	r        *Renderer
	vertices []head.Vertex
	indices  []uint16
	released bool
}

func (m *mesh) Release() {
	m.r.mu.Lock()
	defer m.r.mu.Unlock()
	if !m.released {
		m.released = true
		m.r.liveMeshes--
	}
}

// NewTexture implements head.Device.
func (r *Renderer) NewTexture(tex *skin.FaceTexture) (head.Texture, error) {
	if tex == nil || tex.Image == nil {
		return nil, errors.New("raster: nil face texture")
	}
	r.mu.Lock()
	r.liveTextures++
	r.mu.Unlock()
	return &texture{r: r, face: tex}, nil
}

// NewMesh implements head.Device.
func (r *Renderer) NewMesh(vertices []head.Vertex, indices []uint16) (head.Mesh, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("raster: index count %d is not a multiple of 3", len(indices))
	}
	for _, i := range indices {
		if int(i) >= len(vertices) {
			return nil, fmt.Errorf("raster: index %d out of range", i)
		}
	}
	r.mu.Lock()
	r.liveMeshes++
	r.mu.Unlock()
	return &mesh{
		r:        r,
		vertices: append([]head.Vertex(nil), vertices...),
		indices:  append([]uint16(nil), indices...),
	}, nil
}

// Render clears the canvas and draws h as seen by cam. A nil head leaves
// the canvas transparent.
func (r *Renderer) Render(cam camera.Perspective, h *head.Model) error {
	r.fb.Clear()
	if h == nil {
		return nil
	}
	if h.Disposed() {
		return errors.New("raster: head is disposed")
	}

	m, ok := h.Mesh().(*mesh)
	if !ok || m.r != r {
		return ErrForeignResource
	}

	mvp := cam.ViewProjection().Mul(h.ModelMatrix())
	projected := make([]screenVertex, len(m.vertices))
	visible := make([]bool, len(m.vertices))
	for i, v := range m.vertices {
		projected[i], visible[i] = r.project(mvp, v)
	}

	for _, f := range skin.Faces {
		t, ok := h.Texture(f).(*texture)
		if !ok || t.r != r {
			return ErrForeignResource
		}
		start := int(f) * head.IndicesPerFace
		for k := start; k < start+head.IndicesPerFace; k += 3 {
			a, b, c := m.indices[k], m.indices[k+1], m.indices[k+2]
			if !visible[a] || !visible[b] || !visible[c] {
				continue
			}
			rasterizeTriangle(r.fb, projected[a], projected[b], projected[c], t.face)
		}
	}
	return nil
}

// project maps a model-space vertex to pixel space. Vertices behind the
// camera are reported invisible.
func (r *Renderer) project(mvp math.Mat4, v head.Vertex) (screenVertex, bool) {
	clip := mvp.MulVec4(math.Vec4{v.Position[0], v.Position[1], v.Position[2], 1})
	w := float64(clip[3])
	if w <= 1e-6 {
		return screenVertex{}, false
	}
	invW := 1 / w
	ndcX := float64(clip[0]) * invW
	ndcY := float64(clip[1]) * invW
	return screenVertex{
		x:    (ndcX + 1) / 2 * float64(r.fb.Width),
		y:    (1 - ndcY) / 2 * float64(r.fb.Height),
		z:    float64(clip[2]) * invW,
		invW: invW,
		uw:   float64(v.TexCoord[0]) * invW,
		vw:   float64(v.TexCoord[1]) * invW,
	}, true
}

// Composite draws the body and head layers back to front into a new
// size x size image, using the head frame from the last Render.
func (r *Renderer) Composite(info avatar.FrameInfo) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, info.Size, info.Size))
	for _, layer := range info.Order {
		switch layer {
		case pointer.LayerBody:
			if info.Body != nil {
				// Pixelated scaling keeps the body's hard edges.
				draw.NearestNeighbor.Scale(out, pixelRect(info.BodyRect), info.Body, info.Body.Bounds(), draw.Over, nil)
			}
		case pointer.LayerHead:
			if info.HasHead {
				draw.NearestNeighbor.Scale(out, pixelRect(info.HeadRect), r.fb.Image(), r.fb.Image().Bounds(), draw.Over, nil)
			}
		}
	}
	return out
}

func pixelRect(rc pointer.Rect) image.Rectangle {
	return image.Rect(round(rc.X), round(rc.Y), round(rc.X+rc.W), round(rc.Y+rc.H))
}

func round(v float64) int {
	if v < 0 {
		return -int(-v + 0.5)
	}
	return int(v + 0.5)
}
