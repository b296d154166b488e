// Package config loads the robot configuration from /cfg/hunterbot.yaml,
// layered over compiled-in defaults.  The effective config is written back
// to /cfg/hunterbot-in-use.yaml so the values actually being used can be
// checked after the fact.
package config

import (
	"fmt"
	"io/ioutil"

	yaml "gopkg.in/yaml.v2"

	"github.com/hunterbot-team/hunterbot/go-controller/pkg/chassis"
)

const (
	Path      = "/cfg/hunterbot.yaml"
	inUsePath = "/cfg/hunterbot-in-use.yaml"
)

type Config struct {
	// Calibrated drive geometry (metres).
	WheelSeparation  float64 `yaml:"wheel_separation"`
	LeftWheelRadius  float64 `yaml:"left_wheel_radius"`
	RightWheelRadius float64 `yaml:"right_wheel_radius"`

	// Number of per-tick velocity samples averaged into the reported
	// velocity estimate.
	VelocityRollingWindowSize int `yaml:"velocity_rolling_window_size"`

	// Drive loop rate in Hz.
	LoopHz int `yaml:"loop_hz"`

	MaxLinearVelocity  float64 `yaml:"max_linear_velocity"`  // m/s
	MaxLinearAccel     float64 `yaml:"max_linear_accel"`     // m/s²
	MaxAngularVelocity float64 `yaml:"max_angular_velocity"` // rad/s
	MaxAngularAccel    float64 `yaml:"max_angular_accel"`    // rad/s²

	// Where the wheel encoder counts come from: "motorboard" for the
	// i2c registers, "spi" for the standalone counter board.
	EncoderSource  string `yaml:"encoder_source"`
	SPILeftDevice  string `yaml:"spi_left_device"`
	SPIRightDevice string `yaml:"spi_right_device"`

	// Pose trace CSV written by the controller; empty disables it.
	PoseTracePath string `yaml:"pose_trace_path"`
}

func Defaults() Config {
	g := chassis.Default()
	return Config{
		WheelSeparation:  g.WheelSeparation,
		LeftWheelRadius:  g.LeftWheelRadius,
		RightWheelRadius: g.RightWheelRadius,

		VelocityRollingWindowSize: 10,

		LoopHz: 50,

		MaxLinearVelocity:  1.5,
		MaxLinearAccel:     0.8,
		MaxAngularVelocity: 2.0,
		MaxAngularAccel:    2.0,

		EncoderSource:  "motorboard",
		SPILeftDevice:  "/dev/spidev0.0",
		SPIRightDevice: "/dev/spidev0.1",

		PoseTracePath: "/var/log/hunterbot/pose.csv",
	}
}

// Load reads Path over the defaults.  A missing or broken file is reported
// and otherwise ignored; the robot still has to drive.
func Load() Config {
	c := Defaults()
	raw, err := ioutil.ReadFile(Path)
	if err != nil {
		fmt.Println(err)
	} else {
		err = yaml.Unmarshal(raw, &c)
		if err != nil {
			fmt.Println(err)
		}
	}

	// Write out the config that we are using.
	fmt.Printf("Using config: %#v\n", c)
	rawOut, err := yaml.Marshal(&c)
	if err != nil {
		fmt.Println(err)
	} else {
		err = ioutil.WriteFile(inUsePath, rawOut, 0666)
		if err != nil {
			fmt.Println(err)
		}
	}
	return c
}

// Geometry returns the calibrated chassis geometry from the config.
func (c Config) Geometry() chassis.Geometry {
	return chassis.Geometry{
		WheelSeparation:  c.WheelSeparation,
		LeftWheelRadius:  c.LeftWheelRadius,
		RightWheelRadius: c.RightWheelRadius,
	}
}
