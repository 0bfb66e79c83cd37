package pointer

import (
	"math"
	"testing"
	"time"

	"github.com/Faultbox/skinhead/internal/avatar/motion"
)

func TestTargetForFormula(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float64
	}{
		{"origin", 0, 0},
		{"near right", 50, 0},
		{"far right", 300, 0},
		{"far left up", -800, -600},
		{"below", 10, 400},
		{"straight down far", 0, 5000},
		{"diagonal", 150, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TargetFor(tt.dx, tt.dy)

			ref := math.Max(200, math.Sqrt(tt.dx*tt.dx+tt.dy*tt.dy))
			wantYaw := math.Atan2(tt.dx, ref) * 180 / math.Pi
			if got.Yaw != wantYaw {
				t.Errorf("yaw = %v, want %v", got.Yaw, wantYaw)
			}
			if got.Pitch < -30 || got.Pitch > 30 {
				t.Errorf("pitch %v outside [-30, 30]", got.Pitch)
			}
		})
	}
}

func TestTargetForPitchAlwaysClamped(t *testing.T) {
	for dx := -2000.0; dx <= 2000; dx += 97 {
		for dy := -2000.0; dy <= 2000; dy += 89 {
			p := TargetFor(dx, dy).Pitch
			if p < -30 || p > 30 {
				t.Fatalf("pitch %v outside [-30, 30] for (%v, %v)", p, dx, dy)
			}
		}
	}
}

func TestTargetForUsesDistanceFloor(t *testing.T) {
	// Within the floor, offsets are normalized by 200, not by the distance.
	got := TargetFor(0, 100)
	want := math.Atan2(100, 200) * 180 / math.Pi
	if math.Abs(got.Pitch-want) > 1e-12 {
		t.Errorf("pitch = %v, want %v", got.Pitch, want)
	}
}

type fakeSource struct {
	listeners map[int]func(x, y int)
	next      int
}

func newFakeSource() *fakeSource {
	return &fakeSource{listeners: make(map[int]func(x, y int))}
}

func (s *fakeSource) AddMoveListener(fn func(x, y int)) func() {
	id := s.next
	s.next++
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

func (s *fakeSource) move(x, y int) {
	for _, fn := range s.listeners {
		fn(x, y)
	}
}

func newTestController() (*Controller, *motion.State, *Layering) {
	state := motion.NewState()
	layers := NewLayering()
	c := NewController(state, layers,
		func() Rect { return Rect{X: 350, Y: 250, W: 300, H: 300} }, // centre (500, 400)
		func() (int, int) { return 1200, 800 },
	)
	return c, state, layers
}

func TestControllerEndToEndYaw45(t *testing.T) {
	c, state, layers := newTestController()

	c.HandleMove(800, 400)

	target := state.Target()
	if math.Abs(target.Yaw-45) > 1e-9 || target.Pitch != 0 {
		t.Fatalf("target = %v, want yaw 45 pitch 0", target)
	}
	if layers.Upper() {
		t.Error("y = h/2 is not in the upper half")
	}

	for i := 0; i < 200; i++ {
		state.Step()
	}
	if cur := state.Current(); math.Abs(cur.Yaw-45) > 1e-6 {
		t.Errorf("current yaw = %v, want ~45", cur.Yaw)
	}
}

func TestControllerLayerStateFollowsViewportHalf(t *testing.T) {
	c, _, layers := newTestController()

	tests := []struct {
		y     float64
		upper bool
	}{
		{0, true},
		{399, true},
		{399.9, true},
		{400, false},
		{799, false},
		{10, true},
	}
	for _, tt := range tests {
		c.HandleMove(20, tt.y)
		if layers.Upper() != tt.upper {
			t.Errorf("y=%v: upper = %v, want %v", tt.y, layers.Upper(), tt.upper)
		}
	}
}

func TestControllerLayerIgnoresAvatarPosition(t *testing.T) {
	state := motion.NewState()
	layers := NewLayering()
	// Avatar near the bottom of the viewport; pointer above it but in the
	// lower half.
	c := NewController(state, layers,
		func() Rect { return Rect{X: 0, Y: 700, W: 100, H: 100} },
		func() (int, int) { return 1000, 800 },
	)
	c.HandleMove(50, 600)
	if layers.Upper() {
		t.Error("layer state must depend on the viewport half only")
	}
}

func TestControllerAttachDetach(t *testing.T) {
	c, state, _ := newTestController()
	src := newFakeSource()

	c.Attach(src)
	src.move(800, 400)
	if state.Target().Yaw == 0 {
		t.Fatal("attached controller ignored movement")
	}

	c.Detach()
	c.Detach()
	if len(src.listeners) != 0 {
		t.Fatalf("listeners after detach = %d, want 0", len(src.listeners))
	}

	before := state.Target()
	src.move(0, 0)
	if state.Target() != before {
		t.Error("detached controller still receives movement")
	}
}

func TestControllerReattachReplacesListener(t *testing.T) {
	c, _, _ := newTestController()
	src := newFakeSource()
	c.Attach(src)
	c.Attach(src)
	if len(src.listeners) != 1 {
		t.Errorf("listeners = %d, want 1", len(src.listeners))
	}
}

func TestControllerUsesClock(t *testing.T) {
	c, _, layers := newTestController()
	t0 := time.Unix(100, 0)
	c.SetClock(func() time.Time { return t0 })

	c.HandleMove(0, 0)
	if !layers.Transitioning(t0) {
		t.Error("swap should be transitioning at its start time")
	}
	if layers.Transitioning(t0.Add(TransitionDuration)) {
		t.Error("swap should be finished after the transition duration")
	}
}
