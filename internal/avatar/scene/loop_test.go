package scene

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/skinhead/internal/avatar/head"
	"github.com/Faultbox/skinhead/internal/avatar/motion"
	"github.com/Faultbox/skinhead/internal/avatar/scene/scenetest"
	"github.com/Faultbox/skinhead/internal/engine/camera"
	"github.com/Faultbox/skinhead/internal/engine/sched"
	"github.com/Faultbox/skinhead/pkg/skin"
)

func newLoop(t *testing.T) (*Loop, *sched.Scheduler, *scenetest.Renderer, *motion.State) {
	t.Helper()
	s := sched.New()
	r := &scenetest.Renderer{}
	st := motion.NewState()
	return NewLoop(s, r, st), s, r, st
}

func buildHead(t *testing.T, dev head.Device) *head.Model {
	t.Helper()
	var faces [skin.FaceCount]*skin.FaceTexture
	for _, f := range skin.Faces {
		faces[f] = skin.Placeholder(f, skin.FaceSize)
	}
	m, err := head.Build(dev, faces)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m
}

func TestHeadlessLoopRendersEmptyFrames(t *testing.T) {
	l, s, r, _ := newLoop(t)
	l.Start()
	l.Start() // second Start must not double-schedule

	for i := 0; i < 10; i++ {
		s.Tick()
	}

	if l.Frames() != 10 {
		t.Errorf("Frames() = %d, want 10", l.Frames())
	}
	calls := r.Calls()
	if len(calls) != 10 {
		t.Fatalf("Render called %d times, want 10", len(calls))
	}
	for i, c := range calls {
		if c.Head != nil {
			t.Errorf("frame %d rendered a head, want none", i)
		}
	}
	if calls[0].Camera.FOV != 75 {
		t.Errorf("camera FOV = %v, want 75", calls[0].Camera.FOV)
	}
}

func TestLoopAppliesSmoothedRotation(t *testing.T) {
	l, s, r, st := newLoop(t)
	if err := l.InstallHead(buildHead(t, r)); err != nil {
		t.Fatalf("InstallHead: %v", err)
	}
	st.SetTarget(motion.Angles{Yaw: 45, Pitch: -20})
	l.Start()

	s.Tick()
	c, ok := r.Last()
	if !ok || c.Head == nil {
		t.Fatal("no head rendered")
	}
	// One step covers 10% of the distance.
	wantYaw := 4.5 * gomath.Pi / 180
	wantPitch := -2.0 * gomath.Pi / 180
	if gomath.Abs(c.Yaw-wantYaw) > 1e-9 || gomath.Abs(c.Pitch-wantPitch) > 1e-9 {
		t.Errorf("rotation after one frame = (%v, %v), want (%v, %v)", c.Yaw, c.Pitch, wantYaw, wantPitch)
	}

	for i := 0; i < 9; i++ {
		s.Tick()
	}
	cur := st.Current()
	if want := 45 * (1 - gomath.Pow(0.9, 10)); gomath.Abs(cur.Yaw-want) > 1e-9 {
		t.Errorf("yaw after 10 frames = %v, want %v", cur.Yaw, want)
	}
}

func TestCancelStopsRescheduling(t *testing.T) {
	l, s, r, _ := newLoop(t)
	l.Start()
	s.Tick()
	s.Tick()

	l.Cancel()
	if s.Pending() != 0 {
		t.Errorf("Pending() after Cancel = %d, want 0", s.Pending())
	}
	for i := 0; i < 5; i++ {
		s.Tick()
	}
	if n := len(r.Calls()); n != 2 {
		t.Errorf("Render called %d times, want 2", n)
	}

	l.Start()
	s.Tick()
	if n := len(r.Calls()); n != 2 {
		t.Error("Start after Cancel resumed the loop")
	}
}

func TestCancelFromInsideFrame(t *testing.T) {
	s := sched.New()
	st := motion.NewState()
	var l *Loop
	r := &cancellingRenderer{onRender: func() { l.Cancel() }}
	l = NewLoop(s, r, st)
	l.Start()

	s.Tick()
	s.Tick()
	if r.calls != 1 {
		t.Errorf("Render called %d times after cancelling inside a frame, want 1", r.calls)
	}
}

func TestInstallHeadDisposesPrevious(t *testing.T) {
	l, _, r, _ := newLoop(t)

	first := buildHead(t, r)
	second := buildHead(t, r)
	if err := l.InstallHead(first); err != nil {
		t.Fatal(err)
	}
	if err := l.InstallHead(second); err != nil {
		t.Fatal(err)
	}

	if !first.Disposed() {
		t.Error("previous head not disposed")
	}
	if l.Head() != second {
		t.Error("Head() is not the newest head")
	}
	meshes, textures := r.Live()
	if meshes != 1 || textures != skin.FaceCount {
		t.Errorf("live = %d meshes, %d textures; want 1, %d", meshes, textures, skin.FaceCount)
	}
}

func TestInstallAfterCancelRejected(t *testing.T) {
	l, _, r, _ := newLoop(t)
	l.Cancel()

	m := buildHead(t, r)
	if err := l.InstallHead(m); !errors.Is(err, ErrLoopCancelled) {
		t.Errorf("InstallHead after Cancel = %v, want ErrLoopCancelled", err)
	}
	if !m.Disposed() {
		t.Error("rejected head was not disposed")
	}
	if l.Head() != nil {
		t.Error("rejected head was installed")
	}
	if meshes, textures := r.Live(); meshes != 0 || textures != 0 {
		t.Errorf("live = %d/%d after rejected install, want 0/0", meshes, textures)
	}
}

func TestRenderErrorsDoNotStopLoop(t *testing.T) {
	l, s, r, _ := newLoop(t)
	r.SetErr(errors.New("context lost"))
	l.Start()

	for i := 0; i < 3; i++ {
		s.Tick()
	}
	r.SetErr(nil)
	s.Tick()

	if l.Frames() != 4 {
		t.Errorf("Frames() = %d, want 4", l.Frames())
	}
	if s.Pending() != 1 {
		t.Error("loop stopped rescheduling after render errors")
	}
}

func TestDisposeReleasesHead(t *testing.T) {
	l, s, r, _ := newLoop(t)
	if err := l.InstallHead(buildHead(t, r)); err != nil {
		t.Fatal(err)
	}
	l.Start()
	s.Tick()

	l.Dispose()
	l.Dispose()
	if l.Head() != nil {
		t.Error("head still installed after Dispose")
	}
	if meshes, textures := r.Live(); meshes != 0 || textures != 0 {
		t.Errorf("live = %d/%d after Dispose, want 0/0", meshes, textures)
	}
	if !l.Cancelled() {
		t.Error("Dispose did not cancel")
	}
}

type cancellingRenderer struct {
	scenetest.Renderer
	onRender func()
	calls    int
}

func (r *cancellingRenderer) Render(cam camera.Perspective, h *head.Model) error {
	r.calls++
	r.onRender()
	return nil
}
