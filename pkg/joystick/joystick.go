// Package joystick reads events from a linux joydev device (PS4 pad over
// bluetooth on the real robot).
package joystick

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"time"
)

type EventType uint8

const (
	EventTypeButton EventType = 1
	EventTypeAxis   EventType = 2

	// The kernel replays the current state with this bit set when the
	// device is opened.
	eventTypeInitFlag = 0x80
)

const (
	ButtonCross    = 0
	ButtonCircle   = 1
	ButtonTriangle = 2
	ButtonSquare   = 3
	ButtonL1       = 4
	ButtonR1       = 5
	ButtonL2       = 6
	ButtonR2       = 7
	ButtonShare    = 8
	ButtonOptions  = 9
	ButtonPS       = 10
	ButtonLStick   = 11
	ButtonRStick   = 12

	AxisLStickX = 0
	AxisLStickY = 1
	AxisRStickX = 3
	AxisRStickY = 4
	AxisDPadX   = 6
	AxisDPadY   = 7
)

func (e EventType) String() string {
	switch e {
	case EventTypeAxis:
		return "axis"
	case EventTypeButton:
		return "button"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(e))
	}
}

type Event struct {
	Time   time.Time
	Value  int16
	Type   EventType
	Number uint8

	// Initial is set on the state-replay events sent at open time, so
	// drive code can ignore stale stick positions.
	Initial bool
}

func (e *Event) String() string {
	return fmt.Sprintf("%v(%v)=%v", e.Type, e.Number, e.Value)
}

// AxisValue returns the axis position scaled to [-1, 1] with a small
// deadzone around centre.
func (e *Event) AxisValue() float64 {
	const deadzone = 1500
	v := int(e.Value)
	if v > -deadzone && v < deadzone {
		return 0
	}
	return float64(v) / 32767
}

type rawEvent struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

type Joystick struct {
	device *os.File
}

func New(device string) (*Joystick, error) {
	f, err := os.Open(device)
	if err != nil {
		return nil, err
	}
	return &Joystick{
		device: f,
	}, nil
}

func (j *Joystick) ReadEvent() (*Event, error) {
	var raw rawEvent
	if err := binary.Read(j.device, binary.LittleEndian, &raw); err != nil {
		return nil, err
	}
	return &Event{
		// The raw timestamp is milliseconds from an arbitrary epoch;
		// consumers only ever compare event times, so just restamp.
		Time:    time.Now(),
		Value:   raw.Value,
		Type:    EventType(raw.Type &^ eventTypeInitFlag),
		Number:  raw.Number,
		Initial: raw.Type&eventTypeInitFlag != 0,
	}, nil
}

func (j *Joystick) Close() error {
	return j.device.Close()
}

// Loop reads events into the channel until the device fails or ctx is
// cancelled.  The channel is closed on the way out so consumers notice a
// disconnected pad.
func (j *Joystick) Loop(ctx context.Context, events chan<- *Event) {
	defer close(events)
	defer j.device.Close()
	for {
		event, err := j.ReadEvent()
		if err != nil {
			fmt.Println("Failed to read from joystick:", err)
			return
		}
		select {
		case events <- event:
		case <-ctx.Done():
			return
		}
	}
}
