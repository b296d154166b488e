package speedlimiter

import (
	"math"
	"testing"
)

func TestNoLimits(t *testing.T) {
	var l Limiter
	if v := l.Limit(99, 0, 0.02); v != 99 {
		t.Errorf("unlimited limiter changed the command: %v", v)
	}
}

func TestVelocityClamp(t *testing.T) {
	l := Symmetric(1.5, 1000)
	expectLimit(t, l, 2.0, 0, 1.5)
	expectLimit(t, l, -2.0, 0, -1.5)
	expectLimit(t, l, 0.4, 0, 0.4)
}

func TestAccelerationClamp(t *testing.T) {
	l := Symmetric(10, 2) // 2 m/s² over 0.1 s → 0.2 m/s per tick.
	expectLimit(t, l, 1.0, 0, 0.2)
	expectLimit(t, l, -1.0, 0, -0.2)
	expectLimit(t, l, 0.15, 0, 0.15)
	// Ramping down from speed is limited the same way.
	expectLimit(t, l, 0, 1.0, 0.8)
}

func TestAsymmetricBraking(t *testing.T) {
	l := Limiter{
		HasAccelerationLimits: true,
		MinAcceleration:       -50, // Hard braking allowed...
		MaxAcceleration:       1,   // ...gentle speed-up only.
	}
	expectLimit(t, l, 5, 0, 0.1)
	expectLimit(t, l, 0, 5, 0)
}

func TestZeroDtSkipsAccelerationLimit(t *testing.T) {
	l := Symmetric(10, 1)
	if got := l.Limit(3, 0, 0); got != 3 {
		t.Errorf("expected 3, got %v", got)
	}
}

func expectLimit(t *testing.T, l Limiter, v, v0, expected float64) {
	t.Helper()
	got := l.Limit(v, v0, 0.1)
	if math.Abs(got-expected) > 1e-12 {
		t.Errorf("Limit(%v, %v): expected %v, got %v", v, v0, expected, got)
	}
}
