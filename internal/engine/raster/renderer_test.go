package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/Faultbox/skinhead/internal/avatar"
	"github.com/Faultbox/skinhead/internal/avatar/head"
	"github.com/Faultbox/skinhead/internal/avatar/pointer"
	"github.com/Faultbox/skinhead/internal/engine/camera"
	"github.com/Faultbox/skinhead/pkg/math"
	"github.com/Faultbox/skinhead/pkg/skin"
	"github.com/Faultbox/skinhead/pkg/skin/skintest"
)

const size = 256

func buildHead(t *testing.T, r *Renderer) *head.Model {
	t.Helper()
	ex := &skin.Extractor{}
	m, err := head.Build(r, ex.ExtractHead(skintest.Sheet(64, 64)))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(m.Dispose)
	return m
}

// pixelOf projects a point on the unrotated head (model space) to the
// pixel that covers it.
func pixelOf(cam camera.Perspective, m *head.Model, p math.Vec3) (int, int) {
	ndc := cam.ViewProjection().Mul(m.ModelMatrix()).TransformPoint(p)
	x := (float64(ndc.X) + 1) / 2 * size
	y := (1 - float64(ndc.Y)) / 2 * size
	return int(x), int(y)
}

func TestEmptyFrameIsTransparent(t *testing.T) {
	r := New(size)
	if err := r.Render(camera.Default(), nil); err != nil {
		t.Fatalf("Render: %v", err)
	}
	for i, v := range r.Frame().Pix {
		if v != 0 {
			t.Fatalf("byte %d = %d, want a fully transparent frame", i, v)
		}
	}
}

func TestFrontFaceTexels(t *testing.T) {
	r := New(size)
	m := buildHead(t, r)
	cam := camera.Default()
	if err := r.Render(cam, m); err != nil {
		t.Fatalf("Render: %v", err)
	}

	// Centres of a few front-face texels; the front face is sheet (8,8).
	for _, tx := range [][2]int{{0, 0}, {2, 2}, {7, 3}, {4, 7}} {
		s := (float32(tx[0]) + 0.5) / skin.FaceSize
		tt := (float32(tx[1]) + 0.5) / skin.FaceSize
		x, y := pixelOf(cam, m, math.Vec3{X: -0.5 + s, Y: 0.5 - tt, Z: 0.5})
		got := r.Frame().NRGBAAt(x, y)
		want := skintest.Texel(8+tx[0], 8+tx[1])
		if got != want {
			t.Errorf("texel %v at pixel (%d,%d) = %v, want %v", tx, x, y, got, want)
		}
	}
}

func TestZeroAlphaTexelIsDiscarded(t *testing.T) {
	r := New(size)
	sheet := skintest.Sheet(64, 64)
	sheet.SetNRGBA(8+2, 8+2, color.NRGBA{R: 255, G: 0, B: 0, A: 0})
	ex := &skin.Extractor{}
	m, err := head.Build(r, ex.ExtractHead(sheet))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(m.Dispose)
	cam := camera.Default()
	if err := r.Render(cam, m); err != nil {
		t.Fatalf("Render: %v", err)
	}

	hole := float32(2.5) / skin.FaceSize
	x, y := pixelOf(cam, m, math.Vec3{X: -0.5 + hole, Y: 0.5 - hole, Z: 0.5})
	if a := r.Frame().NRGBAAt(x, y).A; a != 0 {
		t.Errorf("pixel (%d,%d) alpha = %d, want 0 through the clear texel", x, y, a)
	}
	solid := float32(4.5) / skin.FaceSize
	x, y = pixelOf(cam, m, math.Vec3{X: -0.5 + solid, Y: 0.5 - solid, Z: 0.5})
	if got, want := r.Frame().NRGBAAt(x, y), skintest.Texel(8+4, 8+4); got != want {
		t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
	}
}

func TestYawShowsSideFace(t *testing.T) {
	r := New(size)
	m := buildHead(t, r)
	m.SetRotation(90, 0)
	cam := camera.Default()
	if err := r.Render(cam, m); err != nil {
		t.Fatalf("Render: %v", err)
	}

	// Turned 90 degrees, the -X face looks at the camera. Its texel (3,4)
	// centre in model space:
	s, tt := float32(3.5)/8, float32(4.5)/8
	x, y := pixelOf(cam, m, math.Vec3{X: -0.5, Y: 0.5 - tt, Z: -0.5 + s})
	want := skintest.Texel(16+3, 8+4)
	if got := r.Frame().NRGBAAt(x, y); got != want {
		t.Errorf("pixel (%d,%d) = %v, want -X texel %v", x, y, got, want)
	}
}

func TestPitchShowsTopFace(t *testing.T) {
	r := New(size)
	m := buildHead(t, r)
	m.SetRotation(0, 90)
	cam := camera.Default()
	if err := r.Render(cam, m); err != nil {
		t.Fatalf("Render: %v", err)
	}

	s, tt := float32(5.5)/8, float32(6.5)/8
	x, y := pixelOf(cam, m, math.Vec3{X: -0.5 + s, Y: 0.5, Z: -0.5 + tt})
	want := skintest.Texel(8+5, 0+6)
	if got := r.Frame().NRGBAAt(x, y); got != want {
		t.Errorf("pixel (%d,%d) = %v, want +Y texel %v", x, y, got, want)
	}
}

func TestHeadSitsAboveCentre(t *testing.T) {
	r := New(size)
	m := buildHead(t, r)
	if err := r.Render(camera.Default(), m); err != nil {
		t.Fatalf("Render: %v", err)
	}
	img := r.Frame()

	// Just below the centre row is empty; the head starts at y=0 in world
	// space, which projects to the centre row.
	if a := img.NRGBAAt(size/2, size/2+4).A; a != 0 {
		t.Errorf("pixel below centre alpha = %d, want 0", a)
	}
	if a := img.NRGBAAt(size/2, size/2-8).A; a == 0 {
		t.Error("pixel above centre is empty, want head")
	}
	if a := img.NRGBAAt(2, 2).A; a != 0 {
		t.Error("corner pixel is not transparent")
	}
}

func TestRenderTransparentAfterHeadRemoved(t *testing.T) {
	r := New(size)
	m := buildHead(t, r)
	r.Render(camera.Default(), m)
	r.Render(camera.Default(), nil)
	if a := r.Frame().NRGBAAt(size/2, size/2-8).A; a != 0 {
		t.Error("stale head pixels survived a headless frame")
	}
}

func TestResourceCounts(t *testing.T) {
	r := New(32)
	m := buildHead(t, r)
	if meshes, textures := r.Live(); meshes != 1 || textures != skin.FaceCount {
		t.Errorf("live = %d/%d, want 1/%d", meshes, textures, skin.FaceCount)
	}
	m.Dispose()
	m.Dispose()
	if meshes, textures := r.Live(); meshes != 0 || textures != 0 {
		t.Errorf("live after Dispose = %d/%d, want 0/0", meshes, textures)
	}
}

func TestForeignHeadRejected(t *testing.T) {
	a, b := New(32), New(32)
	m := buildHead(t, a)
	if err := b.Render(camera.Default(), m); err != ErrForeignResource {
		t.Errorf("Render foreign head = %v, want ErrForeignResource", err)
	}
}

func TestNewMeshValidates(t *testing.T) {
	r := New(8)
	if _, err := r.NewMesh(make([]head.Vertex, 3), []uint16{0, 1}); err == nil {
		t.Error("accepted a partial triangle")
	}
	if _, err := r.NewMesh(make([]head.Vertex, 3), []uint16{0, 1, 3}); err == nil {
		t.Error("accepted an out-of-range index")
	}
}

func TestCompositeOrder(t *testing.T) {
	const s = 100
	r := New(s)
	m := buildHead(t, r)
	if err := r.Render(camera.Default(), m); err != nil {
		t.Fatalf("Render: %v", err)
	}

	red := color.NRGBA{R: 255, A: 255}
	body := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for i := 0; i < len(body.Pix); i += 4 {
		copy(body.Pix[i:], []uint8{red.R, red.G, red.B, red.A})
	}

	rects := avatar.Layout(s)
	info := avatar.FrameInfo{
		Size:     s,
		Body:     body,
		BodyRect: avatar.Contain(rects.Body, 8, 4),
		HeadRect: rects.Head,
		HasHead:  true,
	}

	// Find a pixel both layers cover: inside the body strip and on the head.
	var px, py int
	found := false
	for y := 50; y < 90 && !found; y++ {
		for x := 10; x < 90 && !found; x++ {
			if r.Frame().NRGBAAt(x+1, y-1).A != 0 {
				px, py, found = x, y, true
			}
		}
	}
	if !found {
		t.Fatal("head does not overlap the body strip")
	}

	info.Order = [2]pointer.Layer{pointer.LayerBody, pointer.LayerHead}
	if got := r.Composite(info).NRGBAAt(px, py); got == red {
		t.Error("head-on-top composite shows the body at an overlap pixel")
	}

	info.Order = [2]pointer.Layer{pointer.LayerHead, pointer.LayerBody}
	if got := r.Composite(info).NRGBAAt(px, py); got != red {
		t.Errorf("body-on-top composite = %v at overlap, want body red", got)
	}
}

func TestCompositeWithoutLayers(t *testing.T) {
	r := New(16)
	out := r.Composite(avatar.FrameInfo{Size: 16, Order: [2]pointer.Layer{pointer.LayerBody, pointer.LayerHead}})
	if out.Bounds().Dx() != 16 {
		t.Fatalf("composite size = %v", out.Bounds())
	}
	for _, v := range out.Pix {
		if v != 0 {
			t.Fatal("empty composite is not transparent")
		}
	}
}
