// Package pausemode stops the motors and ignores the sticks; the safe mode
// to leave the robot in between runs.
package pausemode

import (
	"context"

	"github.com/hunterbot-team/hunterbot/go-controller/pkg/hardware"
)

type PauseMode struct {
	hw hardware.Interface
}

func New(hw hardware.Interface) *PauseMode {
	return &PauseMode{hw: hw}
}

func (t *PauseMode) Name() string {
	return "Pause mode"
}

func (t *PauseMode) StartupSound() string {
	return "/sounds/pausemode.wav"
}

func (t *PauseMode) Start(ctx context.Context) {
	t.hw.StopMotorControl()
}

func (t *PauseMode) Stop() {
}
