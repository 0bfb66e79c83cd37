// Package renderer draws the avatar with OpenGL: the head into an
// offscreen sRGB framebuffer, then both layers into the window.
package renderer

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/skinhead/internal/avatar"
	"github.com/Faultbox/skinhead/internal/avatar/head"
	"github.com/Faultbox/skinhead/internal/avatar/pointer"
	"github.com/Faultbox/skinhead/internal/engine/camera"
	"github.com/Faultbox/skinhead/internal/engine/framebuffer"
	"github.com/Faultbox/skinhead/internal/engine/shader"
	"github.com/Faultbox/skinhead/internal/engine/texture"
	"github.com/Faultbox/skinhead/internal/logger"
	"github.com/Faultbox/skinhead/pkg/skin"
)

// ErrForeignResource is returned when a head holds resources created by
// another device.
var ErrForeignResource = errors.New("renderer: head resources belong to another device")

// Config holds renderer configuration.
type Config struct {
	Width  int // window drawable size
	Height int
	Size   int // head canvas edge in pixels

	Background [4]float32
}

// Stats counts live GPU resources and drawn frames.
type Stats struct {
	Textures int
	Meshes   int
	Frames   uint64
}

// Renderer implements scene.Renderer on OpenGL 4.1 core. All methods must
// run on the thread that owns the GL context.
type Renderer struct {
	config Config
	log    *zap.Logger

	headProgram *shader.Program
	quadProgram *shader.Program
	headFB      *framebuffer.Framebuffer

	quadVAO uint32
	quadVBO uint32

	body        image.Image
	bodyTexture uint32

	stats Stats
}

// New creates the renderer. It must be called after the GL context exists.
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}

	r := &Renderer{config: cfg, log: logger.Named("renderer")}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	var err error
	if r.headProgram, err = shader.Head(); err != nil {
		r.Close()
		return nil, err
	}
	if r.quadProgram, err = shader.Quad(); err != nil {
		r.Close()
		return nil, err
	}
	if r.headFB, err = framebuffer.New(int32(cfg.Size), int32(cfg.Size)); err != nil {
		r.Close()
		return nil, err
	}
	r.createQuad()

	return r, nil
}

// Close releases every GL object the renderer owns. Head resources are
// owned by their model and released through it.
func (r *Renderer) Close() {
	r.log.Info("closing renderer", r.stats.Fields()...)
	texture.Delete(r.bodyTexture)
	r.bodyTexture = 0
	if r.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &r.quadVAO)
		r.quadVAO = 0
	}
	if r.quadVBO != 0 {
		gl.DeleteBuffers(1, &r.quadVBO)
		r.quadVBO = 0
	}
	if r.headFB != nil {
		r.headFB.Destroy()
		r.headFB = nil
	}
	if r.headProgram != nil {
		r.headProgram.Delete()
	}
	if r.quadProgram != nil {
		r.quadProgram.Delete()
	}
}

// Resize records the window drawable size.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Stats returns resource and frame counters.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// Fields renders the counters as log fields.
func (s Stats) Fields() []zap.Field {
	return []zap.Field{
		zap.Int("live_textures", s.Textures),
		zap.Int("live_meshes", s.Meshes),
		zap.Uint64("frames", s.Frames),
	}
}

type glTexture struct {
	r  *Renderer
	id uint32
}

func (t *glTexture) Release() {
	if t.id == 0 {
		return
	}
	texture.Delete(t.id)
	t.id = 0
	t.r.stats.Textures--
}

type glMesh struct {
	r          *Renderer
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

func (m *glMesh) Release() {
	if m.vao == 0 {
		return
	}
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
	m.vao, m.vbo, m.ebo = 0, 0, 0
	m.r.stats.Meshes--
}

// NewTexture implements head.Device. Face textures are sRGB, nearest
// filtered and have no mipmaps.
func (r *Renderer) NewTexture(tex *skin.FaceTexture) (head.Texture, error) {
	id, err := texture.UploadFace(tex)
	if err != nil {
		return nil, err
	}
	r.stats.Textures++
	return &glTexture{r: r, id: id}, nil
}

// NewMesh implements head.Device.
func (r *Renderer) NewMesh(vertices []head.Vertex, indices []uint16) (head.Mesh, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, errors.New("renderer: empty mesh")
	}
	m := &glMesh{r: r, indexCount: int32(len(indices))}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	stride := int32(unsafe.Sizeof(head.Vertex{}))
	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*int(stride), gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*2, gl.Ptr(indices), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, unsafe.Offsetof(head.Vertex{}.TexCoord))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		r.stats.Meshes++
		m.Release()
		return nil, fmt.Errorf("renderer: creating mesh: gl error 0x%x", code)
	}
	r.stats.Meshes++
	return m, nil
}

// Render draws h into the head framebuffer. A nil head clears it.
func (r *Renderer) Render(cam camera.Perspective, h *head.Model) error {
	r.headFB.Bind()
	defer r.headFB.Unbind()

	gl.Enable(gl.FRAMEBUFFER_SRGB)
	defer gl.Disable(gl.FRAMEBUFFER_SRGB)
	r.headFB.Clear()
	r.stats.Frames++

	if h == nil {
		return nil
	}
	if h.Disposed() {
		return errors.New("renderer: head is disposed")
	}
	m, ok := h.Mesh().(*glMesh)
	if !ok || m.r != r {
		return ErrForeignResource
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.FrontFace(gl.CW)
	gl.CullFace(gl.BACK)
	gl.Disable(gl.BLEND)
	defer gl.Disable(gl.CULL_FACE)
	defer gl.Disable(gl.DEPTH_TEST)

	mvp := cam.ViewProjection().Mul(h.ModelMatrix())
	r.headProgram.Use()
	gl.UniformMatrix4fv(r.headProgram.Uniform("uMVP"), 1, false, mvp.Ptr())
	gl.Uniform1i(r.headProgram.Uniform("uFace"), 0)
	gl.ActiveTexture(gl.TEXTURE0)

	gl.BindVertexArray(m.vao)
	for _, f := range skin.Faces {
		t, ok := h.Texture(f).(*glTexture)
		if !ok || t.r != r {
			gl.BindVertexArray(0)
			return ErrForeignResource
		}
		gl.BindTexture(gl.TEXTURE_2D, t.id)
		offset := uintptr(int(f) * head.IndicesPerFace * 2)
		gl.DrawElementsWithOffset(gl.TRIANGLES, head.IndicesPerFace, gl.UNSIGNED_SHORT, offset)
	}
	gl.BindVertexArray(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("renderer: drawing head: gl error 0x%x", code)
	}
	return nil
}

// Composite clears the window and draws the body and head layers back to
// front at the avatar's bounds, using the head frame from the last Render.
func (r *Renderer) Composite(info avatar.FrameInfo) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(r.config.Width), int32(r.config.Height))
	bg := r.config.Background
	gl.ClearColor(bg[0], bg[1], bg[2], bg[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.syncBody(info.Body)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	defer gl.Disable(gl.BLEND)

	r.quadProgram.Use()
	gl.Uniform2f(r.quadProgram.Uniform("uViewport"), float32(r.config.Width), float32(r.config.Height))
	gl.Uniform1i(r.quadProgram.Uniform("uImage"), 0)
	gl.Uniform1i(r.quadProgram.Uniform("uEncodeSRGB"), 1)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindVertexArray(r.quadVAO)

	for _, layer := range info.Order {
		switch layer {
		case pointer.LayerBody:
			if r.bodyTexture != 0 {
				r.drawQuad(r.bodyTexture, offset(info.BodyRect, info.Bounds), false)
			}
		case pointer.LayerHead:
			if info.HasHead {
				r.drawQuad(r.headFB.ColorTexture(), offset(info.HeadRect, info.Bounds), true)
			}
		}
	}
	gl.BindVertexArray(0)
}

// Snapshot reads the avatar region of the window back as an image. The
// region is clipped to the window.
func (r *Renderer) Snapshot(bounds pointer.Rect) *image.NRGBA {
	rc := image.Rect(int(bounds.X), int(bounds.Y), int(bounds.X+bounds.W), int(bounds.Y+bounds.H)).
		Intersect(image.Rect(0, 0, r.config.Width, r.config.Height))
	// GL rows count from the bottom.
	return framebuffer.ReadPixels(rc.Min.X, r.config.Height-rc.Max.Y, rc.Dx(), rc.Dy())
}

func (r *Renderer) drawQuad(tex uint32, rect pointer.Rect, flipY bool) {
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.Uniform4f(r.quadProgram.Uniform("uRect"), float32(rect.X), float32(rect.Y), float32(rect.W), float32(rect.H))
	flip := int32(0)
	if flipY {
		flip = 1
	}
	gl.Uniform1i(r.quadProgram.Uniform("uFlipY"), flip)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
}

// syncBody uploads the body image when it changes.
func (r *Renderer) syncBody(body image.Image) {
	if body == r.body {
		return
	}
	texture.Delete(r.bodyTexture)
	r.bodyTexture = 0
	r.body = body
	if body == nil {
		return
	}
	id, err := texture.Upload(body, texture.Options{SRGB: true, Nearest: true})
	if err != nil {
		r.log.Warn("body upload failed", zap.Error(err))
		return
	}
	r.bodyTexture = id
}

func (r *Renderer) createQuad() {
	corners := []float32{
		0, 0,
		0, 1,
		1, 0,
		1, 1,
	}
	gl.GenVertexArrays(1, &r.quadVAO)
	gl.BindVertexArray(r.quadVAO)

	gl.GenBuffers(1, &r.quadVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(corners)*4, gl.Ptr(corners), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 2*4, 0)
	gl.EnableVertexAttribArray(0)

	gl.BindVertexArray(0)
}

// offset moves an avatar-local rect into viewport coordinates.
func offset(rc, bounds pointer.Rect) pointer.Rect {
	return pointer.Rect{X: bounds.X + rc.X, Y: bounds.Y + rc.Y, W: rc.W, H: rc.H}
}
