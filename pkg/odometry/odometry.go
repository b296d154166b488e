// Package odometry dead-reckons the robot's planar pose (x, y, heading)
// from wheel travel, and keeps a smoothed estimate of linear and angular
// velocity.  x and y are metres in the odometry frame, heading is radians
// and accumulates without wrapping.
package odometry

import (
	"math"
	"time"

	"github.com/hunterbot-team/hunterbot/go-controller/pkg/rollingmean"
)

const (
	// MinUpdateInterval is the smallest time delta (seconds) accepted by
	// the closed-loop Update path.  Below this the derived velocities
	// would be dominated by clock granularity, so the update is skipped.
	MinUpdateInterval = 0.0001

	// AngularEpsilon is the angular displacement (radians) below which a
	// step is integrated with the midpoint rule instead of the exact arc
	// formula, whose 1/angular radius blows up near zero.
	AngularEpsilon = 1e-6
)

type Odometry struct {
	timestamp time.Time

	x       float64
	y       float64
	heading float64

	linear  float64
	angular float64

	wheelSeparation  float64
	leftWheelRadius  float64
	rightWheelRadius float64

	linearOldPos  float64
	angularOldPos float64

	rollingWindowSize  int
	linearAccumulator  *rollingmean.Accumulator[float64]
	angularAccumulator *rollingmean.Accumulator[float64]
}

func New(velocityRollingWindowSize int) *Odometry {
	o := &Odometry{
		rollingWindowSize: velocityRollingWindowSize,
	}
	o.resetAccumulators()
	return o
}

// Init empties the velocity accumulators and sets the reference timestamp.
// Pose is left alone.  Call once before the first update.
func (o *Odometry) Init(now time.Time) {
	o.resetAccumulators()
	o.timestamp = now
}

// Update advances the estimate from cumulative wheel-derived linear and
// angular displacement readings (closed loop).  The previous readings are
// remembered unconditionally, even when the update itself is rejected.
// Returns false, changing nothing else, if less than MinUpdateInterval has
// elapsed since the last accepted update; the caller should just retry
// next tick.
func (o *Odometry) Update(linearPos, angularPos float64, now time.Time) bool {
	linear := linearPos - o.linearOldPos
	angular := angularPos - o.angularOldPos
	o.linearOldPos = linearPos
	o.angularOldPos = angularPos

	dt := now.Sub(o.timestamp).Seconds()
	if dt < MinUpdateInterval {
		return false
	}

	return o.UpdateFromVelocity(linear, angular, now)
}

// UpdateFromVelocity advances the estimate from displacement accrued since
// the last update (despite the name the inputs are per-tick deltas, not
// velocities).  Pose integrates the raw displacement; the smoothed velocity
// comes from pushing displacement/dt through the rolling accumulators.
// A non-positive dt integrates the pose but skips the velocity sample, so
// a zero delta can never poison the accumulators with NaN.
func (o *Odometry) UpdateFromVelocity(linear, angular float64, now time.Time) bool {
	dt := now.Sub(o.timestamp).Seconds()

	o.integrateExact(linear, angular)
	o.timestamp = now

	if dt > 0 {
		o.linearAccumulator.Accumulate(linear / dt)
		o.angularAccumulator.Accumulate(angular / dt)
	}
	o.linear = o.linearAccumulator.RollingMean()
	o.angular = o.angularAccumulator.RollingMean()
	return true
}

// UpdateOpenLoop advances the estimate from a commanded velocity, with no
// measurement feedback: the command is stored verbatim as the current
// velocity and integrated over the elapsed time.
func (o *Odometry) UpdateOpenLoop(linear, angular float64, now time.Time) {
	o.linear = linear
	o.angular = angular

	dt := now.Sub(o.timestamp).Seconds()
	o.timestamp = now
	o.integrateExact(linear*dt, angular*dt)
}

// ResetOdometry moves the pose back to the origin.  Velocity, timestamp and
// the accumulators are untouched.
func (o *Odometry) ResetOdometry() {
	o.x = 0
	o.y = 0
	o.heading = 0
}

// SetWheelParams records the wheel geometry used by callers to convert
// wheel rotation into travel.  Values are stored verbatim.
func (o *Odometry) SetWheelParams(separation, leftRadius, rightRadius float64) {
	o.wheelSeparation = separation
	o.leftWheelRadius = leftRadius
	o.rightWheelRadius = rightRadius
}

// SetVelocityRollingWindowSize replaces both accumulators with fresh ones
// of the given size.  Any accumulated samples are discarded.
func (o *Odometry) SetVelocityRollingWindowSize(n int) {
	o.rollingWindowSize = n
	o.resetAccumulators()
}

func (o *Odometry) X() float64       { return o.x }
func (o *Odometry) Y() float64       { return o.y }
func (o *Odometry) Heading() float64 { return o.heading }
func (o *Odometry) Linear() float64  { return o.linear }
func (o *Odometry) Angular() float64 { return o.angular }

func (o *Odometry) WheelSeparation() float64  { return o.wheelSeparation }
func (o *Odometry) LeftWheelRadius() float64  { return o.leftWheelRadius }
func (o *Odometry) RightWheelRadius() float64 { return o.rightWheelRadius }

// integrateRungeKutta2 advances the pose by a (linear, angular)
// displacement using the midpoint heading.  Exact for straight-line motion,
// second-order accurate otherwise.
func (o *Odometry) integrateRungeKutta2(linear, angular float64) {
	direction := o.heading + angular*0.5

	o.x += linear * math.Cos(direction)
	o.y += linear * math.Sin(direction)
	o.heading += angular
}

// integrateExact advances the pose by a (linear, angular) displacement.
// Steps with meaningful curvature use the closed-form constant-curvature
// arc, which is exact regardless of step size; near-straight steps fall
// back to the midpoint rule to keep the signed radius finite.
func (o *Odometry) integrateExact(linear, angular float64) {
	if math.Abs(angular) < AngularEpsilon {
		o.integrateRungeKutta2(linear, angular)
		return
	}

	headingOld := o.heading
	r := linear / angular
	o.heading += angular
	o.x += r * (math.Sin(o.heading) - math.Sin(headingOld))
	o.y += -r * (math.Cos(o.heading) - math.Cos(headingOld))
}

func (o *Odometry) resetAccumulators() {
	o.linearAccumulator = rollingmean.New[float64](o.rollingWindowSize)
	o.angularAccumulator = rollingmean.New[float64](o.rollingWindowSize)
}
