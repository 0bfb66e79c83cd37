// Package scenetest provides a recording scene.Renderer for tests.
package scenetest

import (
	"sync"

	"github.com/Faultbox/skinhead/internal/avatar/head"
	"github.com/Faultbox/skinhead/internal/avatar/head/headtest"
	"github.com/Faultbox/skinhead/internal/engine/camera"
)

// Call records one Render invocation.
type Call struct {
	Camera     camera.Perspective
	Head       *head.Model
	Yaw, Pitch float64 // radians, as set on the head at render time
}

// Renderer is a headtest.Device that also records Render calls. Err, when
// set, is returned from every Render.
type Renderer struct {
	headtest.Device

	mu    sync.Mutex
	Err   error
	calls []Call
}

// Render implements scene.Renderer.
func (r *Renderer) Render(cam camera.Perspective, h *head.Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := Call{Camera: cam, Head: h}
	if h != nil {
		c.Yaw, c.Pitch = h.Rotation()
	}
	r.calls = append(r.calls, c)
	return r.Err
}

// SetErr changes the error Render returns.
func (r *Renderer) SetErr(err error) {
	r.mu.Lock()
	r.Err = err
	r.mu.Unlock()
}

// Calls returns a copy of the recorded calls.
func (r *Renderer) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Last returns the most recent call and whether there was one.
func (r *Renderer) Last() (Call, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return Call{}, false
	}
	return r.calls[len(r.calls)-1], true
}
