// Package drive runs the per-tick velocity control loop: it rate-limits the
// commanded (linear, angular) velocity, turns it into wheel speed demands,
// and keeps the dead-reckoned pose estimate up to date from the wheel
// encoders, falling back to integrating the command itself while encoder
// data is unavailable.
package drive

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hunterbot-team/hunterbot/go-controller/pkg/chassis"
	"github.com/hunterbot-team/hunterbot/go-controller/pkg/odometry"
	"github.com/hunterbot-team/hunterbot/go-controller/pkg/speedlimiter"
)

type Motors interface {
	SetWheelSpeeds(left, right int16)
}

// WheelSnapshot is a consistent pair of cumulative wheel rotation readings.
type WheelSnapshot struct {
	CaptureTime    time.Time
	LeftRotations  float64
	RightRotations float64
}

// Encoders reports the latest wheel snapshot; ok is false until the first
// successful encoder poll (and stays false on encoder-less robots, which
// run open-loop forever).
type Encoders interface {
	CurrentWheelRotations() (WheelSnapshot, bool)
}

type Params struct {
	Geometry                  chassis.Geometry
	LoopHz                    int
	VelocityRollingWindowSize int
	Linear                    speedlimiter.Limiter
	Angular                   speedlimiter.Limiter
}

// Pose is the published estimate, a copy of the odometry state at the end
// of a tick.
type Pose struct {
	X, Y, Heading   float64
	Linear, Angular float64

	// Fresh is the estimator's success flag for the tick that produced
	// this pose: false when the closed-loop update was rejected.
	Fresh bool
}

func New(motors Motors, encoders Encoders, params Params) *Drive {
	if params.LoopHz <= 0 {
		params.LoopHz = 50
	}
	d := &Drive{
		motors:   motors,
		encoders: encoders,
		params:   params,
		odo:      odometry.New(params.VelocityRollingWindowSize),
	}
	d.odo.SetWheelParams(
		params.Geometry.WheelSeparation,
		params.Geometry.LeftWheelRadius,
		params.Geometry.RightWheelRadius,
	)
	return d
}

type Drive struct {
	motors   Motors
	encoders Encoders
	params   Params

	controlLock sync.Mutex
	controls

	poseLock sync.Mutex
	pose     Pose

	// Loop-goroutine state, no lock needed.
	odo                           *odometry.Odometry
	appliedLinear, appliedAngular float64
	lastSnapshot                  time.Time
	lastTick                      time.Time
}

type controls struct {
	targetLinear  float64
	targetAngular float64

	resetRequested bool
	newWindowSize  int // 0 = leave alone
}

// SetVelocities sets the commanded body velocity.  The loop applies it on
// the next tick, subject to the configured limits.
func (d *Drive) SetVelocities(linear, angular float64) {
	d.controlLock.Lock()
	defer d.controlLock.Unlock()
	d.targetLinear = linear
	d.targetAngular = angular
}

// ResetOdometry asks the loop to move the pose estimate back to the origin.
func (d *Drive) ResetOdometry() {
	d.controlLock.Lock()
	defer d.controlLock.Unlock()
	d.resetRequested = true
}

// SetVelocityRollingWindowSize asks the loop to rebuild the velocity
// smoothing window at the new size, discarding accumulated samples.
func (d *Drive) SetVelocityRollingWindowSize(n int) {
	if n < 1 {
		return
	}
	d.controlLock.Lock()
	defer d.controlLock.Unlock()
	d.newWindowSize = n
}

// CurrentPose returns the estimate published at the end of the last tick.
func (d *Drive) CurrentPose() Pose {
	d.poseLock.Lock()
	defer d.poseLock.Unlock()
	return d.pose
}

func (d *Drive) Loop(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	defer fmt.Println("Drive: loop exited")
	defer d.motors.SetWheelSpeeds(0, 0)

	now := time.Now()
	d.odo.Init(now)
	d.lastTick = now

	interval := time.Second / time.Duration(d.params.LoopHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.tick(time.Now())
		}
	}
}

func (d *Drive) tick(now time.Time) {
	d.controlLock.Lock()
	target := d.controls
	d.controls.resetRequested = false
	d.controls.newWindowSize = 0
	d.controlLock.Unlock()

	if target.resetRequested {
		fmt.Println("Drive: resetting odometry to origin")
		d.odo.ResetOdometry()
	}
	if target.newWindowSize > 0 {
		fmt.Println("Drive: velocity rolling window size =", target.newWindowSize)
		d.odo.SetVelocityRollingWindowSize(target.newWindowSize)
	}

	dt := now.Sub(d.lastTick).Seconds()
	d.lastTick = now

	// Rate-limit the command relative to what we actually applied last
	// tick, then send the wheel demands.
	linear := d.params.Linear.Limit(target.targetLinear, d.appliedLinear, dt)
	angular := d.params.Angular.Limit(target.targetAngular, d.appliedAngular, dt)
	d.appliedLinear = linear
	d.appliedAngular = angular

	left, right := d.params.Geometry.WheelSpeeds(linear, angular)
	d.motors.SetWheelSpeeds(wheelDemand(left), wheelDemand(right))

	// Advance the estimate: closed-loop from a fresh encoder snapshot,
	// open-loop from the applied command otherwise.
	var pose Pose
	if snap, ok := d.encoders.CurrentWheelRotations(); ok && snap.CaptureTime.After(d.lastSnapshot) {
		d.lastSnapshot = snap.CaptureTime
		linearPos, angularPos := d.params.Geometry.WheelTravel(snap.LeftRotations, snap.RightRotations)
		pose.Fresh = d.odo.Update(linearPos, angularPos, snap.CaptureTime)
	} else {
		d.odo.UpdateOpenLoop(linear, angular, now)
		pose.Fresh = true
	}

	pose.X = d.odo.X()
	pose.Y = d.odo.Y()
	pose.Heading = d.odo.Heading()
	pose.Linear = d.odo.Linear()
	pose.Angular = d.odo.Angular()

	d.poseLock.Lock()
	d.pose = pose
	d.poseLock.Unlock()
}

// wheelDemand converts a wheel speed in rad/s to the motor board's demand
// register unit (mrad/s), saturating at the int16 range.
func wheelDemand(radPerSec float64) int16 {
	v := radPerSec * 1000
	if v > 32767 {
		v = 32767
	} else if v < -32768 {
		v = -32768
	}
	return int16(v)
}
