// Package scene runs the per-frame render loop for the avatar head.
package scene

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/skinhead/internal/avatar/head"
	"github.com/Faultbox/skinhead/internal/avatar/motion"
	"github.com/Faultbox/skinhead/internal/engine/camera"
	"github.com/Faultbox/skinhead/internal/engine/sched"
	"github.com/Faultbox/skinhead/internal/logger"
)

// ErrLoopCancelled is returned by InstallHead once the loop has been
// cancelled.
var ErrLoopCancelled = errors.New("scene: loop cancelled")

// Scheduler queues per-frame callbacks.
type Scheduler interface {
	RequestFrame(fn func()) sched.FrameID
	CancelFrame(id sched.FrameID)
}

// Renderer creates head resources and draws one frame. A nil head renders
// a transparent frame.
type Renderer interface {
	head.Device
	Render(cam camera.Perspective, h *head.Model) error
}

// Loop advances the rotation state and renders once per scheduled frame.
// It is the sole owner of the installed head. All methods must be called
// from the scheduler's goroutine.
type Loop struct {
	sched    Scheduler
	renderer Renderer
	state    *motion.State
	cam      camera.Perspective
	log      *zap.Logger

	head      *head.Model
	frameID   sched.FrameID
	scheduled bool
	cancelled bool
	frames    uint64
	failing   bool
}

// NewLoop creates a stopped loop with the default camera.
func NewLoop(s Scheduler, r Renderer, state *motion.State) *Loop {
	return &Loop{
		sched:    s,
		renderer: r,
		state:    state,
		cam:      camera.Default(),
		log:      logger.Named("scene"),
	}
}

// Camera returns the camera the loop renders with.
func (l *Loop) Camera() camera.Perspective {
	return l.cam
}

// Start schedules the first frame. It does nothing if the loop is already
// running or has been cancelled.
func (l *Loop) Start() {
	if l.scheduled || l.cancelled {
		return
	}
	l.schedule()
}

// Cancel stops the loop. The pending frame, if any, is withdrawn and no
// further frames are scheduled.
func (l *Loop) Cancel() {
	if l.cancelled {
		return
	}
	l.cancelled = true
	if l.scheduled {
		l.sched.CancelFrame(l.frameID)
		l.scheduled = false
	}
}

// Cancelled reports whether Cancel has been called.
func (l *Loop) Cancelled() bool {
	return l.cancelled
}

// InstallHead replaces the current head, disposing the old one first.
// After Cancel the new head is disposed and ErrLoopCancelled returned.
func (l *Loop) InstallHead(m *head.Model) error {
	if l.cancelled {
		m.Dispose()
		return ErrLoopCancelled
	}
	if l.head != nil && l.head != m {
		l.head.Dispose()
	}
	l.head = m
	if m != nil {
		cur := l.state.Current()
		m.SetRotation(cur.Yaw, cur.Pitch)
	}
	return nil
}

// Head returns the installed head, or nil.
func (l *Loop) Head() *head.Model {
	return l.head
}

// Frames returns the number of frames drawn.
func (l *Loop) Frames() uint64 {
	return l.frames
}

// Dispose cancels the loop and releases the head.
func (l *Loop) Dispose() {
	l.Cancel()
	if l.head != nil {
		l.head.Dispose()
		l.head = nil
	}
}

func (l *Loop) schedule() {
	l.frameID = l.sched.RequestFrame(l.frame)
	l.scheduled = true
}

func (l *Loop) frame() {
	l.scheduled = false
	if l.cancelled {
		return
	}

	cur := l.state.Step()
	if l.head != nil {
		l.head.SetRotation(cur.Yaw, cur.Pitch)
	}

	if err := l.renderer.Render(l.cam, l.head); err != nil {
		if !l.failing {
			l.log.Warn("render failed", zap.Error(err), zap.Uint64("frame", l.frames))
			l.failing = true
		}
	} else if l.failing {
		l.log.Info("render recovered", zap.Uint64("frame", l.frames))
		l.failing = false
	}
	l.frames++

	if !l.cancelled {
		l.schedule()
	}
}
