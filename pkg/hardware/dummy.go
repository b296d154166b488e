package hardware

import (
	"fmt"
	"time"

	"github.com/hunterbot-team/hunterbot/go-controller/pkg/drive"
)

// Dummy satisfies Interface for bench work with no robot attached.  Drive
// mode reports a frozen pose at the origin.
type Dummy struct{}

func NewDummy() *Dummy {
	return &Dummy{}
}

func (d *Dummy) StartDriveMode() DriveControl {
	fmt.Println("DHW: StartDriveMode")
	return dummyDrive{}
}

func (d *Dummy) StartRawControlMode() RawControl {
	fmt.Println("DHW: StartRawControlMode")
	return dummyMotors{}
}

func (d *Dummy) StopMotorControl() {
	fmt.Println("DHW: StopMotorControl")
}

func (d *Dummy) CurrentWheelRotations() (drive.WheelSnapshot, bool) {
	fmt.Println("DHW: CurrentWheelRotations")
	return drive.WheelSnapshot{CaptureTime: time.Now()}, false
}

func (d *Dummy) BatteryVolts() float64 {
	fmt.Println("DHW: BatteryVolts")
	return 0
}

func (d *Dummy) PlaySound(path string) {
	fmt.Printf("DHW: PlaySound path=%v\n", path)
}

func (d *Dummy) Shutdown() {
	fmt.Println("DHW: Shutdown")
}

var _ Interface = (*Dummy)(nil)

type dummyMotors struct{}

func (dummyMotors) SetWheelSpeeds(left, right int16) {
	fmt.Printf("DHW: SetWheelSpeeds l=%v r=%v\n", left, right)
}

type dummyDrive struct{}

func (dummyDrive) SetVelocities(linear, angular float64) {
	fmt.Printf("DHW: SetVelocities linear=%v angular=%v\n", linear, angular)
}

func (dummyDrive) CurrentPose() drive.Pose {
	return drive.Pose{Fresh: true}
}

func (dummyDrive) ResetOdometry() {
	fmt.Println("DHW: ResetOdometry")
}

func (dummyDrive) SetVelocityRollingWindowSize(n int) {
	fmt.Printf("DHW: SetVelocityRollingWindowSize n=%v\n", n)
}
