// Package drivemode is the normal way to drive the robot: joystick sticks
// map to commanded body velocity, the drive loop does the rest.  Share
// resets the odometry to the origin; the d-pad nudges the selected tunable.
package drivemode

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/hunterbot-team/hunterbot/go-controller/pkg/hardware"
	"github.com/hunterbot-team/hunterbot/go-controller/pkg/joystick"
	"github.com/hunterbot-team/hunterbot/go-controller/pkg/poselog"
	"github.com/hunterbot-team/hunterbot/go-controller/pkg/screen"
	"github.com/hunterbot-team/hunterbot/go-controller/pkg/tunable"
)

type DriveMode struct {
	hw    hardware.Interface
	trace *poselog.Writer // may be nil

	cancel         context.CancelFunc
	stopWG         sync.WaitGroup
	joystickEvents chan *joystick.Event

	tunables    tunable.Tunables
	maxSpeedPct *tunable.Tunable
	windowSize  *tunable.Tunable
	maxLinear   float64
	maxAngular  float64
}

func New(hw hardware.Interface, trace *poselog.Writer, maxLinear, maxAngular float64, windowSize int) *DriveMode {
	m := &DriveMode{
		hw:             hw,
		trace:          trace,
		joystickEvents: make(chan *joystick.Event),
		maxLinear:      maxLinear,
		maxAngular:     maxAngular,
	}
	m.maxSpeedPct = m.tunables.Create("max speed %", 60, 10, 100)
	m.windowSize = m.tunables.Create("velocity window", windowSize, 1, 100)
	return m
}

func (m *DriveMode) Name() string {
	return "Drive mode"
}

func (m *DriveMode) StartupSound() string {
	return "/sounds/drivemode.wav"
}

func (m *DriveMode) Start(ctx context.Context) {
	m.stopWG.Add(1)
	var loopCtx context.Context
	loopCtx, m.cancel = context.WithCancel(ctx)
	go m.loop(loopCtx)
}

func (m *DriveMode) Stop() {
	m.cancel()
	m.stopWG.Wait()
}

func (m *DriveMode) OnJoystickEvent(event *joystick.Event) {
	m.joystickEvents <- event
}

func (m *DriveMode) loop(ctx context.Context) {
	defer m.stopWG.Done()

	d := m.hw.StartDriveMode()
	lastWindowSize := m.windowSize.Get()

	// Publish the estimate even while the sticks are idle.
	poseTicker := time.NewTicker(100 * time.Millisecond)
	defer poseTicker.Stop()

	var stickLinear, stickAngular float64
	for {
		select {
		case <-ctx.Done():
			return
		case <-poseTicker.C:
			pose := d.CurrentPose()
			screen.SetPose(pose.X, pose.Y, pose.Heading, pose.Fresh)
			if m.trace != nil {
				err := m.trace.Append(poselog.Entry{
					Time:    time.Now(),
					X:       pose.X,
					Y:       pose.Y,
					Heading: pose.Heading,
					Linear:  pose.Linear,
					Angular: pose.Angular,
				})
				if err != nil {
					fmt.Println("Drive mode: failed to append pose trace:", err)
					m.trace = nil
				}
			}
		case event := <-m.joystickEvents:
			if event.Initial {
				continue
			}
			switch event.Type {
			case joystick.EventTypeAxis:
				switch event.Number {
				case joystick.AxisLStickY:
					// Stick up is negative; forwards is positive.
					stickLinear = -event.AxisValue()
				case joystick.AxisRStickX:
					// Stick right is positive; anticlockwise is
					// positive, so flip.
					stickAngular = -event.AxisValue()
				case joystick.AxisDPadY:
					if event.Value < 0 {
						m.tunables.Current().Add(1)
					} else if event.Value > 0 {
						m.tunables.Current().Add(-1)
					}
				case joystick.AxisDPadX:
					if event.Value > 0 {
						m.tunables.SelectNext()
					} else if event.Value < 0 {
						m.tunables.SelectPrev()
					}
				}
			case joystick.EventTypeButton:
				if event.Value != 1 {
					continue
				}
				switch event.Number {
				case joystick.ButtonShare:
					fmt.Println("Drive mode: odometry reset requested")
					d.ResetOdometry()
					m.hw.PlaySound("/sounds/odoreset.wav")
				}
			}

			if n := m.windowSize.Get(); n != lastWindowSize {
				lastWindowSize = n
				d.SetVelocityRollingWindowSize(n)
			}

			scale := float64(m.maxSpeedPct.Get()) / 100
			d.SetVelocities(
				applyExpo(stickLinear, 1.6)*m.maxLinear*scale,
				applyExpo(stickAngular, 1.6)*m.maxAngular*scale,
			)
		}
	}
}

// applyExpo bends the stick response so small deflections give fine
// control; v in [-1, 1].
func applyExpo(v, expo float64) float64 {
	return math.Copysign(math.Pow(math.Abs(v), expo), v)
}
