// Package chassis holds the hunterbot's drive geometry and the conversions
// between per-wheel travel and body-frame (linear, angular) motion.
package chassis

import "math"

const (
	WheelDiameterMM float64 = 330
	WheelCircumMM           = WheelDiameterMM * math.Pi

	// Distance between the contact patches of the left and right wheels.
	WheelSeparationMM = 605
)

const (
	WheelRadiusM     = WheelDiameterMM / 2 / 1000
	WheelSeparationM = WheelSeparationMM / 1000
)

// Geometry is the calibrated drive geometry in metres.  The zero value is
// useless; start from Default and override from config/calibration.
type Geometry struct {
	WheelSeparation  float64
	LeftWheelRadius  float64
	RightWheelRadius float64
}

func Default() Geometry {
	return Geometry{
		WheelSeparation:  WheelSeparationM,
		LeftWheelRadius:  WheelRadiusM,
		RightWheelRadius: WheelRadiusM,
	}
}

// WheelTravel converts cumulative left/right wheel rotations into the
// cumulative linear (metres) and angular (radians) displacement of the
// body since the same origin.
func (g Geometry) WheelTravel(leftRotations, rightRotations float64) (linear, angular float64) {
	left := leftRotations * 2 * math.Pi * g.LeftWheelRadius
	right := rightRotations * 2 * math.Pi * g.RightWheelRadius
	linear = (left + right) / 2
	angular = (right - left) / g.WheelSeparation
	return
}

// WheelSpeeds converts a commanded body velocity into per-wheel angular
// velocities (rad/s), the inverse of WheelTravel's differential.
func (g Geometry) WheelSpeeds(linear, angular float64) (left, right float64) {
	left = (linear - angular*g.WheelSeparation/2) / g.LeftWheelRadius
	right = (linear + angular*g.WheelSeparation/2) / g.RightWheelRadius
	return
}
