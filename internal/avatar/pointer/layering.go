package pointer

import (
	"math"
	"sync"
	"time"
)

// Layer is one of the two stacked avatar renderings.
type Layer int

const (
	// LayerBody is the flat body image.
	LayerBody Layer = iota
	// LayerHead is the 3D head canvas.
	LayerHead
)

func (l Layer) String() string {
	if l == LayerHead {
		return "head"
	}
	return "body"
}

// TransitionDuration is how long a draw-order swap takes.
const TransitionDuration = 150 * time.Millisecond

// Stacking values for each LayerState.
var (
	stackLower = zPair{body: 1, head: 3} // pointer in the lower half: head on top
	stackUpper = zPair{body: 3, head: 2} // pointer in the upper half: body on top
)

// ease times the stacking transition.
var ease = CubicBezier{X1: 0.4, Y1: 0, X2: 0.2, Y2: 1}

type zPair struct {
	body, head float64
}

// Layering holds LayerState and animates the stacking order between the
// two layers when it changes.
type Layering struct {
	mu sync.Mutex

	upper bool
	from  zPair
	to    zPair
	start time.Time
	swaps int
}

// NewLayering returns layering with the pointer assumed in the lower half.
func NewLayering() *Layering {
	return &Layering{from: stackLower, to: stackLower}
}

// Update records LayerState for one pointer event. It returns true when the
// state changed and a swap transition started; repeated calls with the same
// state do nothing.
func (l *Layering) Update(upper bool, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if upper == l.upper {
		return false
	}
	l.from = l.zAt(now)
	if upper {
		l.to = stackUpper
	} else {
		l.to = stackLower
	}
	l.upper = upper
	l.start = now
	l.swaps++
	return true
}

// Upper returns LayerState: whether the last pointer event was in the upper
// half of the viewport.
func (l *Layering) Upper() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.upper
}

// Swaps returns how many swap transitions have started.
func (l *Layering) Swaps() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.swaps
}

// Transitioning reports whether a swap is still animating at now.
func (l *Layering) Transitioning(now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.swaps > 0 && now.Sub(l.start) < TransitionDuration
}

// ZIndex returns the integer stacking values of body and head at now.
// Values interpolate like CSS integers: eased as reals, rounded half up.
func (l *Layering) ZIndex(now time.Time) (body, head int) {
	l.mu.Lock()
	z := l.zAt(now)
	l.mu.Unlock()
	return roundHalfUp(z.body), roundHalfUp(z.head)
}

// Order returns the layers back to front at now. Equal stacking values keep
// document order, where the head follows the body.
func (l *Layering) Order(now time.Time) [2]Layer {
	body, head := l.ZIndex(now)
	if body > head {
		return [2]Layer{LayerHead, LayerBody}
	}
	return [2]Layer{LayerBody, LayerHead}
}

func (l *Layering) zAt(now time.Time) zPair {
	if l.swaps == 0 {
		return l.to
	}
	p := float64(now.Sub(l.start)) / float64(TransitionDuration)
	if p >= 1 {
		return l.to
	}
	if p < 0 {
		p = 0
	}
	e := ease.At(p)
	return zPair{
		body: l.from.body + (l.to.body-l.from.body)*e,
		head: l.from.head + (l.to.head-l.from.head)*e,
	}
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
