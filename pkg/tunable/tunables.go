// Package tunable provides named integer knobs that can be nudged from the
// joystick while the robot is driving.
package tunable

import (
	"fmt"
	"sync/atomic"
)

type Tunable struct {
	Name     string
	Min, Max int64
	value    int64
}

func (t *Tunable) Add(delta int) {
	newV := atomic.AddInt64(&t.value, int64(delta))
	if newV < t.Min {
		newV = t.Min
		atomic.StoreInt64(&t.value, newV)
	} else if newV > t.Max {
		newV = t.Max
		atomic.StoreInt64(&t.value, newV)
	}
	fmt.Println("Tunable", t.Name, "=", newV)
}

func (t *Tunable) Get() int {
	return int(atomic.LoadInt64(&t.value))
}

type Tunables struct {
	All      []*Tunable
	selected int
}

// Create registers a knob with its initial value and allowed range.
func (t *Tunables) Create(name string, value, min, max int) *Tunable {
	newTunable := &Tunable{
		Name:  name,
		Min:   int64(min),
		Max:   int64(max),
		value: int64(value),
	}
	t.All = append(t.All, newTunable)
	return newTunable
}

func (t *Tunables) SelectNext() {
	t.selected++
	if t.selected >= len(t.All) {
		t.selected = 0
	}
	fmt.Println("Tunable", t.Current().Name, "selected, value:", t.Current().Get())
}

func (t *Tunables) SelectPrev() {
	t.selected--
	if t.selected < 0 {
		t.selected = len(t.All) - 1
	}
	fmt.Println("Tunable", t.Current().Name, "selected, value:", t.Current().Get())
}

func (t *Tunables) Current() *Tunable {
	return t.All[t.selected]
}
