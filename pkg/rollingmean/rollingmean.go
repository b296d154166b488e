// Package rollingmean provides a fixed-window mean over a stream of samples.
package rollingmean

import "golang.org/x/exp/constraints"

// Accumulator keeps the last windowSize samples pushed into it and reports
// their arithmetic mean.  Storage is a fixed-capacity ring allocated once at
// construction; Accumulate never allocates.  To change the window size,
// replace the accumulator with a fresh one (there is deliberately no
// in-place resize: partial history would survive it).
type Accumulator[T constraints.Float] struct {
	samples []T
	next    int
	full    bool
}

func New[T constraints.Float](windowSize int) *Accumulator[T] {
	if windowSize < 1 {
		windowSize = 1
	}
	return &Accumulator[T]{
		samples: make([]T, 0, windowSize),
	}
}

// Accumulate appends a sample, evicting the oldest one once the window is
// full.
func (a *Accumulator[T]) Accumulate(v T) {
	if !a.full {
		a.samples = append(a.samples, v)
		if len(a.samples) == cap(a.samples) {
			a.full = true
		}
		return
	}
	a.samples[a.next] = v
	a.next++
	if a.next == len(a.samples) {
		a.next = 0
	}
}

// RollingMean returns the mean of the currently held samples, or 0 if no
// sample has been pushed yet.
func (a *Accumulator[T]) RollingMean() T {
	if len(a.samples) == 0 {
		return 0
	}
	var sum T
	for _, v := range a.samples {
		sum += v
	}
	return sum / T(len(a.samples))
}

func (a *Accumulator[T]) Len() int {
	return len(a.samples)
}
