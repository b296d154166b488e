package angle

import (
	"math"
	"testing"
)

func TestFromFloat(t *testing.T) {
	expectWrap(t, 0, 0)
	expectWrap(t, math.Pi, math.Pi)
	expectWrap(t, -math.Pi, math.Pi)
	expectWrap(t, 2*math.Pi, 0)
	expectWrap(t, 3*math.Pi, math.Pi)
	expectWrap(t, -math.Pi/2, -math.Pi/2)
	expectWrap(t, 5*math.Pi/2, math.Pi/2)
	expectWrap(t, -7*math.Pi/2, math.Pi/2)
}

func TestSub(t *testing.T) {
	a := FromFloat(3 * math.Pi / 4)
	expectNear(t, a.Sub(FromFloat(-math.Pi/2)).Float(), -3*math.Pi/4)
	expectNear(t, FromFloat(-3*math.Pi/4).Sub(a).Float(), math.Pi/2)
	expectNear(t, a.Sub(a).Float(), 0)
}

func TestDegrees(t *testing.T) {
	expectNear(t, FromFloat(math.Pi/2).Degrees(), 90)
	expectNear(t, FromFloat(-3*math.Pi).Degrees(), 180)
}

func expectWrap(t *testing.T, in, expected float64) {
	t.Helper()
	expectNear(t, FromFloat(in).Float(), expected)
}

func expectNear(t *testing.T, got, expected float64) {
	t.Helper()
	if math.Abs(got-expected) > 1e-12 {
		t.Errorf("expected %v, got %v", expected, got)
	}
}
