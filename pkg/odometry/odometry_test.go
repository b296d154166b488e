package odometry

import (
	"math"
	"testing"
	"time"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func at(seconds float64) time.Time {
	return t0.Add(time.Duration(seconds * float64(time.Second)))
}

func TestFirstUpdate(t *testing.T) {
	o := New(10)
	o.Init(t0)
	if !o.Update(0.1, 0, at(1.0)) {
		t.Fatal("expected first update to succeed")
	}
	expectPose(t, o, 0.1, 0, 0)
	expectNear(t, "linear velocity", o.Linear(), 0.1)
	expectNear(t, "angular velocity", o.Angular(), 0)
}

func TestZeroMotionInvariance(t *testing.T) {
	o := New(3)
	o.Init(t0)
	o.Update(0.5, 0.2, at(1))
	for i := 2; i < 10; i++ {
		if !o.Update(0.5, 0.2, at(float64(i))) {
			t.Fatalf("update %d unexpectedly rejected", i)
		}
	}
	expectPose(t, o, 2.5*math.Sin(0.2), 2.5*(1-math.Cos(0.2)), 0.2)
	expectNear(t, "linear velocity", o.Linear(), 0)
	expectNear(t, "angular velocity", o.Angular(), 0)
}

func TestStraightLine(t *testing.T) {
	o := New(10)
	o.Init(t0)

	// Point the robot somewhere first so cos/sin both matter.
	o.UpdateFromVelocity(0, 1.0, at(1))
	x, y, heading := o.X(), o.Y(), o.Heading()

	o.UpdateFromVelocity(0.25, 0, at(2))
	expectPose(t, o, x+0.25*math.Cos(heading), y+0.25*math.Sin(heading), heading)
}

func TestFullCircleOneStep(t *testing.T) {
	o := New(10)
	o.Init(t0)
	o.UpdateFromVelocity(1.5, 2*math.Pi, at(1))

	// A closed constant-curvature arc ends where it started, one full
	// turn later.
	expectPose(t, o, 0, 0, 2*math.Pi)
}

func TestTwoQuarterTurns(t *testing.T) {
	o := New(10)
	o.Init(t0)

	// Quarter of a circle of radius 2: arc length π, turn π/2.
	o.UpdateFromVelocity(math.Pi, math.Pi/2, at(1))
	expectPose(t, o, 2, 2, math.Pi/2)
	o.UpdateFromVelocity(math.Pi, math.Pi/2, at(2))
	expectPose(t, o, 0, 4, math.Pi)
}

func TestAngularEpsilonBoundary(t *testing.T) {
	for _, angular := range []float64{0, AngularEpsilon / 2, AngularEpsilon, AngularEpsilon * 2} {
		o := New(10)
		o.Init(t0)
		o.UpdateFromVelocity(1, angular, at(1))
		if math.IsNaN(o.X()) || math.IsNaN(o.Y()) || math.IsNaN(o.Heading()) {
			t.Errorf("angular=%v produced NaN pose", angular)
		}
		expectNear(t, "heading", o.Heading(), angular)
		// Either branch must land within second-order error of the
		// straight-line step for displacements this small.
		expectNear(t, "x", o.X(), 1)
		expectNear(t, "y", o.Y(), angular/2)
	}
}

func TestDegenerateTimeRejected(t *testing.T) {
	o := New(10)
	o.Init(t0)
	o.Update(1.0, 0, at(1))
	x, heading := o.X(), o.Heading()

	// Same timestamp again: rejected, pose and timestamp untouched...
	if o.Update(1.5, 0, at(1)) {
		t.Error("expected zero-dt update to be rejected")
	}
	if o.Update(2.0, 0, at(1.00005)) {
		t.Error("expected sub-interval update to be rejected")
	}
	if o.X() != x || o.Heading() != heading {
		t.Error("rejected update changed the pose")
	}

	// ...but the old-position cache still advanced: the next accepted
	// update must integrate relative to the *latest* readings.
	if !o.Update(2.25, 0, at(2)) {
		t.Fatal("expected update to succeed")
	}
	expectNear(t, "x", o.X(), x+0.25)
}

func TestOpenLoopMatchesClosedLoopPose(t *testing.T) {
	closed := New(4)
	closed.Init(t0)
	open := New(4)
	open.Init(t0)

	// Same displacement per tick, fed as cumulative positions on one
	// side and as commanded velocities on the other.
	linPos, angPos := 0.0, 0.0
	for i := 1; i <= 6; i++ {
		dLin, dAng := 0.1, 0.05
		linPos += dLin
		angPos += dAng
		closed.Update(linPos, angPos, at(float64(i)))
		open.UpdateOpenLoop(dLin, dAng, at(float64(i)))
	}

	expectNear(t, "x", open.X(), closed.X())
	expectNear(t, "y", open.Y(), closed.Y())
	expectNear(t, "heading", open.Heading(), closed.Heading())

	// Velocities agree here in value but not in provenance: the open
	// side is the raw command, the closed side a rolling mean.
	expectNear(t, "open linear", open.Linear(), 0.1)
	expectNear(t, "closed linear", closed.Linear(), 0.1)
}

func TestOpenLoopVelocityIsVerbatim(t *testing.T) {
	o := New(5)
	o.Init(t0)
	o.UpdateOpenLoop(3.5, -1.25, at(1))
	if o.Linear() != 3.5 || o.Angular() != -1.25 {
		t.Errorf("expected verbatim command velocity, got %v/%v", o.Linear(), o.Angular())
	}
	// Negative dt is allowed open-loop; it just integrates backwards.
	o.UpdateOpenLoop(1, 0, at(0.5))
	expectNear(t, "x", o.X(), -2.8*math.Sin(-1.25)-0.5*math.Cos(-1.25))
}

func TestClosedLoopVelocityIsSmoothed(t *testing.T) {
	o := New(3)
	o.Init(t0)
	pos := 0.0
	for i, step := range []float64{0.1, 0.2, 0.3, 0.4, 0.5} {
		pos += step
		o.Update(pos, 0, at(float64(i+1)))
	}
	expectNear(t, "linear velocity", o.Linear(), (0.3+0.4+0.5)/3)
}

func TestResetOdometry(t *testing.T) {
	o := New(5)
	o.Init(t0)
	o.Update(1, 0.5, at(1))
	linear := o.Linear()

	o.ResetOdometry()
	expectPose(t, o, 0, 0, 0)
	if o.Linear() != linear {
		t.Error("reset should not touch velocity")
	}

	// Timestamp also survives a reset: an immediate re-update is still
	// degenerate.
	if o.Update(1, 0.5, at(1)) {
		t.Error("expected update at unchanged time to be rejected after reset")
	}
}

func TestSetVelocityRollingWindowSize(t *testing.T) {
	o := New(2)
	o.Init(t0)
	o.Update(1, 0, at(1))
	if o.Linear() == 0 {
		t.Fatal("expected non-zero smoothed velocity")
	}

	o.SetVelocityRollingWindowSize(4)
	o.UpdateFromVelocity(0, 0, at(2))
	// Only the post-resize sample is in the window.
	expectNear(t, "linear velocity", o.Linear(), 0)
}

func TestSetWheelParams(t *testing.T) {
	o := New(1)
	o.SetWheelParams(0.55, 0.165, 0.165)
	if o.WheelSeparation() != 0.55 || o.LeftWheelRadius() != 0.165 || o.RightWheelRadius() != 0.165 {
		t.Error("wheel params not stored verbatim")
	}
}

func TestZeroIntervalVelocityUpdate(t *testing.T) {
	o := New(3)
	o.Init(t0)
	if !o.UpdateFromVelocity(0.2, 0, at(1)) {
		t.Fatal("update rejected")
	}
	expectNear(t, "linear", o.Linear(), 0.2)

	// Same timestamp again: the displacement still integrates, but a zero
	// interval must not feed the velocity estimate (0.3/0 is +Inf).
	if !o.UpdateFromVelocity(0.3, 0, at(1)) {
		t.Fatal("update rejected")
	}
	expectPose(t, o, 0.5, 0, 0)
	expectNear(t, "linear", o.Linear(), 0.2)
	expectNear(t, "angular", o.Angular(), 0)
	if math.IsNaN(o.Linear()) || math.IsInf(o.Linear(), 0) ||
		math.IsNaN(o.Angular()) || math.IsInf(o.Angular(), 0) {
		t.Errorf("velocity estimate poisoned: linear=%v angular=%v", o.Linear(), o.Angular())
	}

	// A clock that steps backwards gets the same treatment.
	if !o.UpdateFromVelocity(0.1, 0, at(0.5)) {
		t.Fatal("update rejected")
	}
	expectPose(t, o, 0.6, 0, 0)
	expectNear(t, "linear", o.Linear(), 0.2)
}

func expectPose(t *testing.T, o *Odometry, x, y, heading float64) {
	t.Helper()
	expectNear(t, "x", o.X(), x)
	expectNear(t, "y", o.Y(), y)
	expectNear(t, "heading", o.Heading(), heading)
}

func expectNear(t *testing.T, what string, got, expected float64) {
	t.Helper()
	if math.Abs(got-expected) > 1e-9 {
		t.Errorf("expected %s %v, got %v", what, expected, got)
	}
}
