package chassis

import (
	"math"
	"testing"
)

func TestWheelTravelStraight(t *testing.T) {
	g := Default()
	linear, angular := g.WheelTravel(1, 1)
	expectNear(t, "linear", linear, 2*math.Pi*WheelRadiusM)
	expectNear(t, "angular", angular, 0)
}

func TestWheelTravelSpinOnSpot(t *testing.T) {
	g := Default()
	linear, angular := g.WheelTravel(-0.5, 0.5)
	expectNear(t, "linear", linear, 0)
	expectNear(t, "angular", angular, 2*math.Pi*WheelRadiusM/g.WheelSeparation)
	if angular <= 0 {
		t.Error("right wheel forward should turn anticlockwise (positive angular)")
	}
}

func TestWheelSpeedsRoundTrip(t *testing.T) {
	g := Default()
	g.LeftWheelRadius = 0.16 // Mismatched wheels must still round-trip.
	for _, c := range []struct{ linear, angular float64 }{
		{1, 0}, {0, 1}, {0.7, -0.3}, {-0.2, 0.9},
	} {
		left, right := g.WheelSpeeds(c.linear, c.angular)
		// Wheel rad/s over one second is rotations*2π, so divide back.
		linear, angular := g.WheelTravel(left/(2*math.Pi), right/(2*math.Pi))
		expectNear(t, "linear", linear, c.linear)
		expectNear(t, "angular", angular, c.angular)
	}
}

func expectNear(t *testing.T, what string, got, expected float64) {
	t.Helper()
	if math.Abs(got-expected) > 1e-9 {
		t.Errorf("expected %s %v, got %v", what, expected, got)
	}
}
