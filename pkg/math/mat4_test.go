package math

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3).Mul(RotateY(0.3))
	if got := m.Mul(Identity()); got != m {
		t.Errorf("M * I = %v, want %v", got, m)
	}
	if got := Identity().Mul(m); got != m {
		t.Errorf("I * M = %v, want %v", got, m)
	}
}

func TestMulAppliesRightOperandFirst(t *testing.T) {
	// Rotate first, then translate: +Z turns to +X and moves by (0, 0, 5).
	m := Translate(0, 0, 5).Mul(RotateY(float32(math.Pi / 2)))
	p := m.TransformPoint(Vec3{0, 0, 1})
	if !near(p.X, 1) || !near(p.Y, 0) || !near(p.Z, 5) {
		t.Errorf("got %v, want (1, 0, 5)", p)
	}
}

func TestTranslatePoint(t *testing.T) {
	got := Translate(10, 20, 30).TransformPoint(Vec3{1, 2, 3})
	want := Vec3{11, 22, 33}
	if got != want {
		t.Errorf("TransformPoint: got %v, want %v", got, want)
	}
}

func TestRotateYTurnsFrontTowardPositiveX(t *testing.T) {
	// A positive yaw must swing the +Z face toward +X (pointer to the right).
	p := RotateY(float32(math.Pi / 2)).TransformPoint(Vec3{0, 0, 1})
	if !near(p.X, 1) || !near(p.Y, 0) || !near(p.Z, 0) {
		t.Errorf("RotateY 90 of +Z: got %v, want (1, 0, 0)", p)
	}
}

func TestRotateXTurnsFrontDown(t *testing.T) {
	// A positive pitch must tip the +Z face downward (pointer below).
	p := RotateX(float32(math.Pi / 2)).TransformPoint(Vec3{0, 0, 1})
	if !near(p.X, 0) || !near(p.Y, -1) || !near(p.Z, 0) {
		t.Errorf("RotateX 90 of +Z: got %v, want (0, -1, 0)", p)
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(float32(Radians(75)), 1, 0.1, 1000)

	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
	// A point on the near plane maps to NDC depth -1.
	p := m.TransformPoint(Vec3{0, 0, -0.1})
	if !near(p.Z, -1) {
		t.Errorf("near plane depth: got %f, want -1", p.Z)
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	m := LookAt(Vec3{0, 0, 5}, Vec3{}, Vec3{0, 1, 0})

	eye := m.TransformPoint(Vec3{0, 0, 5})
	if !near(eye.X, 0) || !near(eye.Y, 0) || !near(eye.Z, 0) {
		t.Errorf("eye in view space: got %v, want origin", eye)
	}
	target := m.TransformPoint(Vec3{})
	if !near(target.Z, -5) {
		t.Errorf("target depth in view space: got %f, want -5", target.Z)
	}
}

func TestDegreesRoundTrip(t *testing.T) {
	if got := Degrees(Radians(45)); math.Abs(got-45) > 1e-12 {
		t.Errorf("Degrees(Radians(45)) = %v", got)
	}
}
