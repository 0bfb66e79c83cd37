// Package head builds the textured cube that represents the avatar's head
// and owns its transform and GPU resources.
package head

import (
	"errors"
	"fmt"

	"github.com/Faultbox/skinhead/pkg/math"
	"github.com/Faultbox/skinhead/pkg/skin"
)

// ErrIncomplete is returned by Build when fewer than six face textures are
// supplied.
var ErrIncomplete = errors.New("head: face textures incomplete")

// Offset raises the head above the body's vertical centre.
var Offset = math.Vec3{X: 0, Y: 0.5, Z: 0}

// Texture is a GPU-resident face texture.
type Texture interface {
	Release()
}

// Mesh is GPU-resident cube geometry.
type Mesh interface {
	Release()
}

// Device allocates the GPU resources a head needs.
type Device interface {
	NewTexture(tex *skin.FaceTexture) (Texture, error)
	NewMesh(vertices []Vertex, indices []uint16) (Mesh, error)
}

// Model is one head cube with its six bound textures.
//
// A Model is either fully built or does not exist: Build never returns a
// model with missing textures. Dispose releases the mesh and all textures
// together.
type Model struct {
	mesh     Mesh
	textures [skin.FaceCount]Texture
	faces    [skin.FaceCount]*skin.FaceTexture

	position math.Vec3
	yaw      float64 // radians
	pitch    float64 // radians

	disposed bool
}

// Build uploads the cube geometry and six face textures through dev. Faces
// must be in skin.Faces order. On failure nothing stays allocated.
func Build(dev Device, faces [skin.FaceCount]*skin.FaceTexture) (*Model, error) {
	for i, f := range faces {
		if f == nil {
			return nil, fmt.Errorf("%w: face %v missing", ErrIncomplete, skin.Face(i))
		}
	}

	m := &Model{faces: faces, position: Offset}

	vertices, indices := Geometry()
	mesh, err := dev.NewMesh(vertices, indices)
	if err != nil {
		return nil, fmt.Errorf("creating head mesh: %w", err)
	}
	m.mesh = mesh

	for _, f := range skin.Faces {
		tex, err := dev.NewTexture(faces[f])
		if err != nil {
			m.Dispose()
			return nil, fmt.Errorf("creating %v texture: %w", f, err)
		}
		m.textures[f] = tex
	}
	return m, nil
}

// SetRotation sets yaw (around Y) and pitch (around X) in degrees.
func (m *Model) SetRotation(yawDeg, pitchDeg float64) {
	m.yaw = math.Radians(yawDeg)
	m.pitch = math.Radians(pitchDeg)
}

// Rotation returns yaw and pitch in radians.
func (m *Model) Rotation() (yaw, pitch float64) {
	return m.yaw, m.pitch
}

// Position returns the head's offset in world space.
func (m *Model) Position() math.Vec3 {
	return m.position
}

// ModelMatrix returns T(position) * Rx(pitch) * Ry(yaw), the XYZ Euler order.
func (m *Model) ModelMatrix() math.Mat4 {
	t := math.Translate(m.position.X, m.position.Y, m.position.Z)
	return t.Mul(math.RotateX(float32(m.pitch))).Mul(math.RotateY(float32(m.yaw)))
}

// Mesh returns the GPU mesh.
func (m *Model) Mesh() Mesh {
	return m.mesh
}

// Texture returns the GPU texture bound to face f.
func (m *Model) Texture(f skin.Face) Texture {
	return m.textures[f]
}

// Face returns the CPU-side texture bound to face f.
func (m *Model) Face(f skin.Face) *skin.FaceTexture {
	return m.faces[f]
}

// Faces returns the CPU-side textures in skin.Faces order.
func (m *Model) Faces() [skin.FaceCount]*skin.FaceTexture {
	return m.faces
}

// Disposed reports whether Dispose has run.
func (m *Model) Disposed() bool {
	return m.disposed
}

// Dispose releases the mesh and all six textures. It is safe to call more
// than once.
func (m *Model) Dispose() {
	if m == nil || m.disposed {
		return
	}
	m.disposed = true

	if m.mesh != nil {
		m.mesh.Release()
		m.mesh = nil
	}
	for i, t := range m.textures {
		if t != nil {
			t.Release()
			m.textures[i] = nil
		}
	}
}
