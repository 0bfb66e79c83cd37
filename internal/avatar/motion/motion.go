// Package motion holds the head's target and smoothed rotation.
package motion

import "sync"

// Smoothing constants.
const (
	// SmoothingFactor is the fraction of the remaining distance to the
	// target closed on every draw cycle.
	SmoothingFactor = 0.1

	// MaxPitch bounds the target pitch in degrees, in both directions.
	MaxPitch = 30.0
)

// Angles is a yaw/pitch pair in degrees.
type Angles struct {
	Yaw   float64
	Pitch float64
}

// State links the target rotation written by the pointer handler to the
// current rotation advanced by the render loop. Only Current is ever
// applied to the head.
//
// The pointer side only calls SetTarget and the loop side only calls Step,
// so each field has a single writer; the mutex keeps that true when the two
// sides run on different goroutines.
type State struct {
	mu      sync.Mutex
	target  Angles
	current Angles
	factor  float64
}

// NewState returns a state at rest at yaw=0, pitch=0.
func NewState() *State {
	return &State{factor: SmoothingFactor}
}

// SetTarget records a new target rotation. Pitch is clamped to ±MaxPitch;
// yaw is unbounded.
func (s *State) SetTarget(a Angles) {
	a.Pitch = ClampPitch(a.Pitch)

	s.mu.Lock()
	s.target = a
	s.mu.Unlock()
}

// Target returns the current target.
func (s *State) Target() Angles {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

// Current returns the smoothed rotation.
func (s *State) Current() Angles {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Step advances Current toward Target by the smoothing factor on each axis
// and returns the new value. The approach is geometric: it never overshoots
// and after n steps from rest Current = Target * (1 - 0.9^n).
func (s *State) Step() Angles {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.Yaw += (s.target.Yaw - s.current.Yaw) * s.factor
	s.current.Pitch += (s.target.Pitch - s.current.Pitch) * s.factor
	return s.current
}

// ClampPitch limits pitch to [-MaxPitch, MaxPitch].
func ClampPitch(p float64) float64 {
	if p > MaxPitch {
		return MaxPitch
	}
	if p < -MaxPitch {
		return -MaxPitch
	}
	return p
}
