// Package camera provides the perspective camera used to frame the head.
package camera

import (
	"github.com/Faultbox/skinhead/pkg/math"
)

// Perspective is a fixed pinhole camera. FOV is the vertical field of view
// in degrees.
type Perspective struct {
	FOV    float32
	Aspect float32
	Near   float32
	Far    float32

	Eye    math.Vec3
	Target math.Vec3
	Up     math.Vec3
}

// Default returns the avatar camera: 75 degree FOV, square aspect, placed
// five units in front of the origin and looking at it.
func Default() Perspective {
	return Perspective{
		FOV:    75,
		Aspect: 1,
		Near:   0.1,
		Far:    1000,
		Eye:    math.Vec3{X: 0, Y: 0, Z: 5},
		Target: math.Vec3{},
		Up:     math.Vec3{X: 0, Y: 1, Z: 0},
	}
}

// ViewMatrix returns the world-to-camera transform.
func (c Perspective) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Eye, c.Target, c.Up)
}

// ProjectionMatrix returns the camera-to-clip transform.
func (c Perspective) ProjectionMatrix() math.Mat4 {
	return math.Perspective(float32(math.Radians(float64(c.FOV))), c.Aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c Perspective) ViewProjection() math.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// Project maps a world-space point to normalized device coordinates.
func (c Perspective) Project(p math.Vec3) math.Vec3 {
	return c.ViewProjection().TransformPoint(p)
}
