// Package encoder reads the wheel encoders on robots fitted with the
// standalone quadrature counter board (one LS7366R-style counter chip per
// wheel, each on its own SPI chip select).  Robots with the newer motor
// board get the counts over i2c instead and don't need this package.
package encoder

import (
	"encoding/binary"

	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"
	"periph.io/x/periph/host"
)

// Counter chip command bytes: top bits are the op, middle bits the target
// register.
const (
	cmdClrCntr = 0x20
	cmdRdCntr  = 0x60
	cmdWrMdr0  = 0x88
	cmdWrMdr1  = 0x90

	// MDR0: 4x quadrature, free-running count.
	mdr0Config = 0x03
	// MDR1: 2-byte counter mode.
	mdr1Config = 0x02
)

type Board struct {
	left  *counter
	right *counter
}

// New opens and configures both counter chips.  Typical device files are
// /dev/spidev0.0 (left) and /dev/spidev0.1 (right).
func New(leftDev, rightDev string) (*Board, error) {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		return nil, err
	}

	left, err := newCounter(leftDev)
	if err != nil {
		return nil, err
	}
	right, err := newCounter(rightDev)
	if err != nil {
		_ = left.Close()
		return nil, err
	}
	return &Board{left: left, right: right}, nil
}

// RawEncoderCounts reads both free-running counts.  They wrap at int16
// range; pkg/wheeltrack turns them into cumulative rotations.
func (b *Board) RawEncoderCounts() (left, right int16, err error) {
	left, err = b.left.readCount()
	if err != nil {
		return 0, 0, err
	}
	right, err = b.right.readCount()
	if err != nil {
		return 0, 0, err
	}
	return left, right, nil
}

// ZeroHardwareCounts clears both chips' counters.  Only used on the bench;
// the tracker layer never needs it.
func (b *Board) ZeroHardwareCounts() error {
	if err := b.left.write(cmdClrCntr); err != nil {
		return err
	}
	return b.right.write(cmdClrCntr)
}

func (b *Board) Close() error {
	errL := b.left.Close()
	errR := b.right.Close()
	if errL != nil {
		return errL
	}
	return errR
}

type counter struct {
	port spi.PortCloser
	c    spi.Conn

	w, r [3]byte
}

func newCounter(deviceFile string) (*counter, error) {
	// Use spireg SPI port registry to find the SPI bus.
	p, err := spireg.Open(deviceFile)
	if err != nil {
		return nil, err
	}

	// Convert the spi.Port into a spi.Conn so it can be used for communication.
	c, err := p.Connect(physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		_ = p.Close()
		return nil, err
	}

	cnt := &counter{port: p, c: c}
	if err := cnt.write(cmdWrMdr0, mdr0Config); err != nil {
		_ = p.Close()
		return nil, err
	}
	if err := cnt.write(cmdWrMdr1, mdr1Config); err != nil {
		_ = p.Close()
		return nil, err
	}
	return cnt, nil
}

func (c *counter) readCount() (int16, error) {
	c.w = [3]byte{cmdRdCntr, 0, 0}
	if err := c.c.Tx(c.w[:], c.r[:]); err != nil {
		return 0, err
	}
	// The count follows the command byte on the wire.
	return int16(binary.BigEndian.Uint16(c.r[1:])), nil
}

func (c *counter) write(cmd byte, data ...byte) error {
	c.w = [3]byte{cmd}
	copy(c.w[1:], data)
	n := 1 + len(data)
	return c.c.Tx(c.w[:n], c.r[:n])
}

func (c *counter) Close() error {
	return c.port.Close()
}
