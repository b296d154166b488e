package rollingmean

import (
	"math"
	"testing"
)

func TestWindowOfThree(t *testing.T) {
	a := New[float64](3)
	expectMean(t, a, 0) // Empty accumulator reads as zero.
	for _, v := range []float64{1, 2, 3, 4, 5} {
		a.Accumulate(v)
	}
	if a.Len() != 3 {
		t.Errorf("expected window capped at 3 samples, got %d", a.Len())
	}
	expectMean(t, a, 4) // (3+4+5)/3
}

func TestWindowOfOne(t *testing.T) {
	a := New[float64](1)
	for _, v := range []float64{10, -3, 0.5} {
		a.Accumulate(v)
		expectMean(t, a, v)
	}
}

func TestPartialWindow(t *testing.T) {
	a := New[float64](5)
	a.Accumulate(2)
	a.Accumulate(4)
	expectMean(t, a, 3)
	if a.Len() != 2 {
		t.Errorf("expected 2 samples, got %d", a.Len())
	}
}

func TestReplaceDiscardsHistory(t *testing.T) {
	a := New[float64](3)
	a.Accumulate(100)
	a.Accumulate(200)

	// Window resize is replacement, never an in-place resize.
	a = New[float64](4)
	expectMean(t, a, 0)
	if a.Len() != 0 {
		t.Errorf("fresh accumulator should be empty, has %d samples", a.Len())
	}
	a.Accumulate(7)
	expectMean(t, a, 7)
}

func TestSillyWindowSizeClamped(t *testing.T) {
	a := New[float64](0)
	a.Accumulate(1)
	a.Accumulate(9)
	expectMean(t, a, 9)
}

func TestFloat32(t *testing.T) {
	a := New[float32](2)
	a.Accumulate(1.5)
	a.Accumulate(2.5)
	if m := a.RollingMean(); m != 2 {
		t.Errorf("expected mean 2, got %v", m)
	}
}

func expectMean(t *testing.T, a *Accumulator[float64], expected float64) {
	t.Helper()
	m := a.RollingMean()
	if math.Abs(m-expected) > 1e-12 {
		t.Errorf("expected rolling mean %v, got %v", expected, m)
	}
}
