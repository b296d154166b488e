package angle

import "math"

// PlusMinusPi is an angle in radians, stored as a value in range (-π, π].
// All operations clamp their output into range.
type PlusMinusPi struct {
	float64
}

// Sub returns the wrapped difference a-b.
func (a PlusMinusPi) Sub(b PlusMinusPi) PlusMinusPi {
	return FromFloat(a.float64 - b.float64)
}

// Float returns the angle in radians, range (-π, π].
func (a PlusMinusPi) Float() float64 {
	return a.float64
}

// Degrees returns the angle in degrees, range (-180, 180].
func (a PlusMinusPi) Degrees() float64 {
	return a.float64 * 180 / math.Pi
}

// FromFloat converts a float of any magnitude to a PlusMinusPi by
// calculating f mod 2π and shifting into range.
func FromFloat(f float64) PlusMinusPi {
	r := math.Mod(f, 2*math.Pi)
	if r <= -math.Pi {
		r += 2 * math.Pi
	} else if r > math.Pi {
		r -= 2 * math.Pi
	}
	return PlusMinusPi{r}
}
