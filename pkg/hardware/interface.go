package hardware

import "github.com/hunterbot-team/hunterbot/go-controller/pkg/drive"

type Interface interface {
	// Enter a motor control mode (previous mode will be stopped if needed).
	StartDriveMode() DriveControl
	StartRawControlMode() RawControl
	StopMotorControl()

	// Read the current state of the hardware.  Reads the current best guess from cache.
	CurrentWheelRotations() (drive.WheelSnapshot, bool)
	BatteryVolts() float64

	PlaySound(path string)
	Shutdown()
}

type RawControl interface {
	SetWheelSpeeds(left, right int16)
}

// DriveControl is the velocity-commanded drive mode with dead-reckoned
// pose, implemented by pkg/drive.
type DriveControl interface {
	SetVelocities(linear, angular float64)
	CurrentPose() drive.Pose
	ResetOdometry()
	SetVelocityRollingWindowSize(n int)
}
