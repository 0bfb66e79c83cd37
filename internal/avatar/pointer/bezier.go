package pointer

import "math"

// CubicBezier is a timing curve through (0,0), (X1,Y1), (X2,Y2), (1,1).
type CubicBezier struct {
	X1, Y1, X2, Y2 float64
}

// At returns the curve's output for input progress x in [0, 1].
func (c CubicBezier) At(x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	return bezier(c.Y1, c.Y2, c.solveT(x))
}

// solveT finds the curve parameter whose x coordinate is x: Newton steps
// first, bisection if they stall.
func (c CubicBezier) solveT(x float64) float64 {
	const epsilon = 1e-7

	t := x
	for i := 0; i < 8; i++ {
		err := bezier(c.X1, c.X2, t) - x
		if math.Abs(err) < epsilon {
			return t
		}
		d := bezierSlope(c.X1, c.X2, t)
		if math.Abs(d) < 1e-6 {
			break
		}
		t -= err / d
		if t < 0 || t > 1 {
			break
		}
	}

	lo, hi := 0.0, 1.0
	t = x
	for lo < hi {
		v := bezier(c.X1, c.X2, t)
		if math.Abs(v-x) < epsilon {
			return t
		}
		if v < x {
			lo = t
		} else {
			hi = t
		}
		next := (lo + hi) / 2
		if next == t {
			break
		}
		t = next
	}
	return t
}

// bezier evaluates one coordinate of the curve with endpoints 0 and 1.
func bezier(p1, p2, t float64) float64 {
	u := 1 - t
	return 3*u*u*t*p1 + 3*u*t*t*p2 + t*t*t
}

func bezierSlope(p1, p2, t float64) float64 {
	u := 1 - t
	return 3*u*u*p1 + 6*u*t*(p2-p1) + 3*t*t*(1-p2)
}
