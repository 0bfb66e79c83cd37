// Package pointer turns viewport-wide pointer movement into a head target
// rotation and decides which avatar layer draws on top.
package pointer

import (
	"math"
	"sync"
	"time"

	"github.com/Faultbox/skinhead/internal/avatar/motion"
)

// MinReferenceDistance is the floor applied to the pointer's distance from
// the avatar centre before converting offsets to angles. It keeps the head
// from spinning when the pointer is close to the centre.
const MinReferenceDistance = 200.0

// TargetFor converts a pointer offset from the avatar centre (screen units,
// +x right, +y down) into a target rotation in degrees.
func TargetFor(dx, dy float64) motion.Angles {
	ref := math.Max(MinReferenceDistance, math.Sqrt(dx*dx+dy*dy))
	return motion.Angles{
		Yaw:   math.Atan2(dx, ref) * 180 / math.Pi,
		Pitch: motion.ClampPitch(math.Atan2(dy, ref) * 180 / math.Pi),
	}
}

// Rect is an axis-aligned screen rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the rectangle's centre point.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Source delivers pointer movement for the whole viewport.
type Source interface {
	// AddMoveListener registers fn and returns a function that removes it.
	AddMoveListener(fn func(x, y int)) (remove func())
}

// Controller feeds pointer movement into the rotation state and the layer
// ordering.
type Controller struct {
	state    *motion.State
	layers   *Layering
	bounds   func() Rect
	viewport func() (w, h int)
	now      func() time.Time

	mu     sync.Mutex
	remove func()
}

// NewController returns a controller. bounds reports the avatar's current
// on-screen rectangle; viewport reports the viewport size.
func NewController(state *motion.State, layers *Layering, bounds func() Rect, viewport func() (w, h int)) *Controller {
	return &Controller{
		state:    state,
		layers:   layers,
		bounds:   bounds,
		viewport: viewport,
		now:      time.Now,
	}
}

// SetClock replaces the time source used for layer transitions.
func (c *Controller) SetClock(now func() time.Time) {
	c.now = now
}

// HandleMove processes one pointer position in viewport coordinates.
//
// The layer rule looks only at the viewport half the pointer is in, not at
// where the avatar sits.
func (c *Controller) HandleMove(x, y float64) {
	cx, cy := c.bounds().Center()
	c.state.SetTarget(TargetFor(x-cx, y-cy))

	_, h := c.viewport()
	c.layers.Update(y < float64(h)/2, c.now())
}

// Attach starts listening to src. A previous listener is detached first.
func (c *Controller) Attach(src Source) {
	remove := src.AddMoveListener(func(x, y int) {
		c.HandleMove(float64(x), float64(y))
	})

	c.mu.Lock()
	prev := c.remove
	c.remove = remove
	c.mu.Unlock()

	if prev != nil {
		prev()
	}
}

// Detach stops listening. It is safe to call when not attached.
func (c *Controller) Detach() {
	c.mu.Lock()
	remove := c.remove
	c.remove = nil
	c.mu.Unlock()

	if remove != nil {
		remove()
	}
}
