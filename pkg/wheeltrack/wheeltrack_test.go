package wheeltrack

import (
	"testing"

	"github.com/hunterbot-team/hunterbot/go-controller/pkg/motorboard"
)

type fakeCounts struct {
	left, right int16
}

func (f *fakeCounts) RawEncoderCounts() (int16, int16, error) {
	return f.left, f.right, nil
}

func TestFirstPollOnlyLatches(t *testing.T) {
	f := &fakeCounts{left: 12345, right: -2000}
	tr := New(f)
	mustPoll(t, tr)
	expectRotations(t, tr, 0, 0)
}

func TestAccumulation(t *testing.T) {
	f := &fakeCounts{}
	tr := New(f)
	mustPoll(t, tr)

	f.left = motorboard.CountsPerRev
	f.right = -motorboard.CountsPerRev / 2
	mustPoll(t, tr)
	expectRotations(t, tr, 1, -0.5)

	f.left += motorboard.CountsPerRev
	f.right -= motorboard.CountsPerRev / 2
	mustPoll(t, tr)
	expectRotations(t, tr, 2, -1)
}

func TestWrapAround(t *testing.T) {
	f := &fakeCounts{left: 32700, right: -32700}
	tr := New(f)
	mustPoll(t, tr)

	// Both counters step over the int16 boundary.
	f.left = -32736 // +100 counts with wrap.
	f.right = 32736 // -100 counts with wrap.
	mustPoll(t, tr)
	expectRotations(t, tr, 100.0/motorboard.CountsPerRev, -100.0/motorboard.CountsPerRev)
}

func TestZero(t *testing.T) {
	f := &fakeCounts{}
	tr := New(f)
	mustPoll(t, tr)
	f.left = 512
	mustPoll(t, tr)

	tr.Zero()
	expectRotations(t, tr, 0, 0)

	// Zero resets the accumulator, not the latched raw values.
	f.left = 1024
	mustPoll(t, tr)
	expectRotations(t, tr, 0.5, 0)
}

func mustPoll(t *testing.T, tr *Tracker) {
	t.Helper()
	if err := tr.Poll(); err != nil {
		t.Fatal(err)
	}
}

func expectRotations(t *testing.T, tr *Tracker, left, right float64) {
	t.Helper()
	gotL, gotR := tr.AccumulatedRotations()
	if gotL != left || gotR != right {
		t.Errorf("expected rotations %v/%v, got %v/%v", left, right, gotL, gotR)
	}
}
