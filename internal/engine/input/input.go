// Package input translates SDL2 events for the application and forwards
// pointer movement to avatar listeners.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/skinhead/internal/avatar/pointer"
)

// EventType classifies a processed event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Ctrl   bool // a Ctrl or Cmd key was held
	Width  int
	Height int
}

// Input polls SDL events. Mouse motion anywhere in the window is forwarded
// to move listeners, so Input is a pointer.Source.
type Input struct {
	events []Event
	hub    *pointer.Hub
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		hub:    pointer.NewHub(),
	}
}

// AddMoveListener implements pointer.Source.
func (i *Input) AddMoveListener(fn func(x, y int)) (remove func()) {
	return i.hub.AddMoveListener(fn)
}

// Update polls SDL events, dispatches pointer moves and records the rest.
// Returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	quit := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			quit = true

		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			typ := EventKeyUp
			if e.Type == sdl.KEYDOWN {
				typ = EventKeyDown
			}
			i.events = append(i.events, Event{
				Type: typ,
				Key:  e.Keysym.Scancode,
				Ctrl: uint16(e.Keysym.Mod)&uint16(sdl.KMOD_CTRL|sdl.KMOD_GUI) != 0,
			})

		case *sdl.MouseMotionEvent:
			i.hub.Move(int(e.X), int(e.Y))
		}
	}

	return quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}
