// Package motorboard drives the hunterbot's wheel motor controller over
// i2c.  The board exposes a 16-bit register file: a control word, per-side
// speed demand registers, free-running encoder count registers and some
// housekeeping (battery voltage, temperature).
package motorboard

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/io/i2c"
)

const (
	BoardAddr = 0x34
)

type Register byte

const (
	RegCtrl Register = iota
	RegStatus
	RegWatchdogTimeout
	RegFaultCount

	RegMotLeftV
	RegMotRightV

	// Encoder counts are free-running and wrap; consumers must work in
	// deltas (see pkg/wheeltrack).
	RegEncLeft
	RegEncRight

	RegBattV // LSB=4mV
	RegTemperature
)

const (
	BattVLSB       = 0.004
	TemperatureLSB = 0.01

	// Encoder counts per wheel revolution (gearbox output shaft).
	CountsPerRev = 1024
)

const (
	RegCtrlEnableI2CControl uint16 = 1 << iota
	RegCtrlRun
	RegCtrlReset
	RegCtrlWatchdogEnable
)

type StatusFlag uint16

const (
	RegStatusFault StatusFlag = 1 << iota
	RegStatusWatchdogExpired
)

type Interface interface {
	SetWheelSpeeds(left, right int16) error
	RawEncoderCounts() (left, right int16, err error)
	Close() error
}

type MotorBoard struct {
	dev *i2c.Device

	lastConfigWord  uint16
	lastConfigTime  time.Time
	watchdogEnabled bool
}

func Dummy() Interface {
	return &dummyBoard{}
}

var i2cBus = &i2c.Devfs{Dev: "/dev/i2c-1"}

func New() (*MotorBoard, error) {
	dev, err := i2c.Open(i2cBus, BoardAddr)
	if err != nil {
		return nil, err
	}

	return &MotorBoard{
		dev: dev,
	}, nil
}

var _ Interface = (*MotorBoard)(nil)

func (m *MotorBoard) Reset() error {
	return m.maybeConfigure(true, false)
}

func (m *MotorBoard) SetWatchdog(timeout time.Duration) error {
	if timeout == 0 {
		// Disable.
		m.watchdogEnabled = false
		return m.maybeConfigure(false, false)
	}

	ms := timeout.Milliseconds()
	if ms > math.MaxUint16 {
		ms = math.MaxUint16
	}
	if err := m.writeReg(RegWatchdogTimeout, uint16(ms)); err != nil {
		return err
	}

	m.watchdogEnabled = true
	return m.maybeConfigure(false, false)
}

func (m *MotorBoard) SetWheelSpeeds(left, right int16) error {
	if err := m.maybeConfigure(false, true); err != nil {
		return err
	}
	if err := m.writeReg(RegMotLeftV, uint16(left)); err != nil {
		return err
	}
	return m.writeReg(RegMotRightV, uint16(right))
}

func (m *MotorBoard) RawEncoderCounts() (left, right int16, err error) {
	rawL, err := m.readReg(RegEncLeft)
	if err != nil {
		return 0, 0, err
	}
	rawR, err := m.readReg(RegEncRight)
	if err != nil {
		return 0, 0, err
	}
	return int16(rawL), int16(rawR), nil
}

func (m *MotorBoard) BattVolts() (float64, error) {
	raw, err := m.readReg(RegBattV)
	if err != nil {
		return 0, err
	}
	return float64(raw) * BattVLSB, nil
}

func (m *MotorBoard) TemperatureC() (float64, error) {
	raw, err := m.readReg(RegTemperature)
	if err != nil {
		return 0, err
	}
	return float64(raw) * TemperatureLSB, nil
}

func (m *MotorBoard) Status() (StatusFlag, error) {
	raw, err := m.readReg(RegStatus)
	if err != nil {
		return 0, err
	}
	return StatusFlag(raw), nil
}

func (m *MotorBoard) Close() error {
	_ = m.Reset()
	return m.dev.Close()
}

func (m *MotorBoard) writeReg(reg Register, value uint16) error {
	return m.writeWithRetries([]byte{byte(reg), byte(value >> 8), byte(value)})
}

func (m *MotorBoard) readReg(reg Register) (uint16, error) {
	var buf [2]byte
	err := m.dev.ReadReg(byte(reg), buf[:])
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

func (m *MotorBoard) writeWithRetries(data []byte) error {
	var err error
	for tries := 0; tries < 20; tries++ {
		err = m.dev.Write(data)
		if err == nil {
			if tries > 0 {
				fmt.Println("Successfully wrote to motor board after retries")
			}
			return nil
		}
		fmt.Println("Failed to write to motor board:", err)
		time.Sleep(1 * time.Millisecond)
		_ = m.dev.Close()
		dev, err := i2c.Open(i2cBus, BoardAddr)
		if err != nil {
			continue
		}
		m.dev = dev
	}
	return err
}

func (m *MotorBoard) maybeConfigure(resetMotorSpeeds bool, enableMotors bool) error {
	var configWord uint16 = RegCtrlEnableI2CControl
	if resetMotorSpeeds {
		configWord |= RegCtrlReset
	}
	if enableMotors {
		configWord |= RegCtrlRun
	}
	if m.watchdogEnabled {
		configWord |= RegCtrlWatchdogEnable
	}

	if configWord == m.lastConfigWord && time.Since(m.lastConfigTime) < 100*time.Millisecond {
		// Skip writing config if we've done it recently.
		return nil
	}

	if err := m.writeReg(RegCtrl, configWord); err != nil {
		return err
	}

	m.lastConfigTime = time.Now()
	m.lastConfigWord = configWord & (^RegCtrlReset) /* Reset flag is not persistent */
	return nil
}

type dummyBoard struct {
	left, right int16
}

func (d *dummyBoard) SetWheelSpeeds(left, right int16) error {
	fmt.Printf("Dummy motor board setting wheels: l=%v r=%v\n", left, right)
	d.left = left
	d.right = right
	return nil
}

func (d *dummyBoard) RawEncoderCounts() (left, right int16, err error) {
	return
}

func (d *dummyBoard) Close() error {
	return nil
}
