// Package wheeltrack accumulates raw wrap-around encoder counts into
// cumulative wheel rotations.
package wheeltrack

import "github.com/hunterbot-team/hunterbot/go-controller/pkg/motorboard"

type countProvider interface {
	RawEncoderCounts() (left, right int16, err error)
}

// Tracker polls a 16-bit encoder count source and integrates the deltas
// into 64-bit accumulators, so the counts can wrap as often as they like
// provided Poll is called at least once per half-wrap.
type Tracker struct {
	source countProvider

	doneFirstPoll       bool
	lastLeft, lastRight int16

	accumLeft, accumRight int64
}

func New(source countProvider) *Tracker {
	return &Tracker{
		source: source,
	}
}

func (t *Tracker) Poll() error {
	left, right, err := t.source.RawEncoderCounts()
	if err != nil {
		return err
	}

	if t.doneFirstPoll {
		// int16 subtraction wraps, which is exactly what we want.
		t.accumLeft += int64(left - t.lastLeft)
		t.accumRight += int64(right - t.lastRight)
	}

	t.lastLeft = left
	t.lastRight = right
	t.doneFirstPoll = true
	return nil
}

// AccumulatedRotations returns the cumulative wheel rotations since
// construction (or the last Zero), left then right.
func (t *Tracker) AccumulatedRotations() (left, right float64) {
	left = float64(t.accumLeft) / motorboard.CountsPerRev
	right = float64(t.accumRight) / motorboard.CountsPerRev
	return
}

func (t *Tracker) Zero() {
	t.accumLeft = 0
	t.accumRight = 0
}
