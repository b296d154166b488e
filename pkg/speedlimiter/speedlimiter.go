// Package speedlimiter clamps commanded velocities before they reach the
// motors: absolute limits first, then the per-tick change implied by the
// acceleration limits.  One Limiter per axis (linear, angular).
package speedlimiter

import "math"

type Limiter struct {
	HasVelocityLimits     bool
	HasAccelerationLimits bool

	MinVelocity float64
	MaxVelocity float64

	MinAcceleration float64 // Most negative allowed dv/dt (braking).
	MaxAcceleration float64
}

// Limit returns v clamped against the configured limits, where v0 is the
// velocity applied on the previous tick and dt the elapsed time in seconds.
func (l Limiter) Limit(v, v0, dt float64) float64 {
	v = l.LimitVelocity(v)
	return l.limitAcceleration(v, v0, dt)
}

func (l Limiter) LimitVelocity(v float64) float64 {
	if !l.HasVelocityLimits {
		return v
	}
	return clamp(v, l.MinVelocity, l.MaxVelocity)
}

func (l Limiter) limitAcceleration(v, v0, dt float64) float64 {
	if !l.HasAccelerationLimits || dt <= 0 {
		return v
	}
	dvMin := l.MinAcceleration * dt
	dvMax := l.MaxAcceleration * dt
	return v0 + clamp(v-v0, dvMin, dvMax)
}

// Symmetric builds a limiter that allows ±velocity and ±acceleration, the
// common case for a robot that drives equally well in both directions.
func Symmetric(velocity, acceleration float64) Limiter {
	return Limiter{
		HasVelocityLimits:     true,
		HasAccelerationLimits: true,
		MinVelocity:           -velocity,
		MaxVelocity:           velocity,
		MinAcceleration:       -acceleration,
		MaxAcceleration:       acceleration,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
