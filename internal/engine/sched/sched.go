// Package sched is the cooperative scheduler that drives the frame loop.
//
// Frame callbacks run once per Tick, the way a display-refresh callback
// runs once per vsync. Work posted from other goroutines (asset loads) is
// queued and drained at the start of the next Tick, so all callbacks run on
// the goroutine that calls Tick and never overlap.
package sched

import (
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/skinhead/internal/logger"
)

// FrameID identifies a pending frame callback. Zero is never issued.
type FrameID uint64

// Scheduler queues frame callbacks and posted events.
type Scheduler struct {
	nextID  FrameID
	pending []frameRequest
	running []frameRequest
	ticks   uint64

	mu     sync.Mutex
	events []func()
}

type frameRequest struct {
	id FrameID
	fn func()
}

// New returns an empty scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

// RequestFrame schedules fn for the next Tick. It must be called from the
// Tick goroutine (typically from inside a callback).
func (s *Scheduler) RequestFrame(fn func()) FrameID {
	s.nextID++
	s.pending = append(s.pending, frameRequest{id: s.nextID, fn: fn})
	return s.nextID
}

// CancelFrame removes a pending callback. Unknown or already-run IDs are
// ignored.
func (s *Scheduler) CancelFrame(id FrameID) {
	for i, r := range s.pending {
		if r.id == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
	for i := range s.running {
		if s.running[i].id == id {
			s.running[i].fn = nil
			return
		}
	}
}

// Post queues fn to run on the Tick goroutine. Safe for concurrent use.
func (s *Scheduler) Post(fn func()) {
	s.mu.Lock()
	s.events = append(s.events, fn)
	s.mu.Unlock()
}

// Pending returns the number of frame callbacks waiting for the next Tick.
func (s *Scheduler) Pending() int {
	return len(s.pending)
}

// Ticks returns how many times Tick has run.
func (s *Scheduler) Ticks() uint64 {
	return s.ticks
}

// Tick drains posted events, then runs the frame callbacks that were
// pending when it started. Callbacks requested during this Tick run on the
// next one. A panicking callback is logged and does not stop the others.
func (s *Scheduler) Tick() {
	s.ticks++

	s.mu.Lock()
	events := s.events
	s.events = nil
	s.mu.Unlock()
	for _, fn := range events {
		run(fn, "event")
	}

	s.running = s.pending
	s.pending = nil
	for i := range s.running {
		if fn := s.running[i].fn; fn != nil {
			s.running[i].fn = nil
			run(fn, "frame")
		}
	}
	s.running = nil
}

func run(fn func(), kind string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("scheduled callback panicked",
				zap.String("kind", kind),
				zap.Any("panic", r),
			)
		}
	}()
	fn()
}
