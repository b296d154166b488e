package hardware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hunterbot-team/hunterbot/go-controller/pkg/config"
	"github.com/hunterbot-team/hunterbot/go-controller/pkg/drive"
	"github.com/hunterbot-team/hunterbot/go-controller/pkg/encoder"
	"github.com/hunterbot-team/hunterbot/go-controller/pkg/motorboard"
	"github.com/hunterbot-team/hunterbot/go-controller/pkg/wheeltrack"
)

// BoardController owns the motor board (and, where fitted, the SPI counter
// board): desired wheel speeds go in from control modes, encoder/battery
// snapshots come out of the background poll loop.
type BoardController struct {
	lock sync.Mutex

	cfg config.Config

	// Desired values.  Stored off in case we need to re-initialise the hardware.
	wheelLeft, wheelRight int16

	haveSnapshot bool
	snapshot     drive.WheelSnapshot
	battVolts    float64
}

func NewBoardController(cfg config.Config) *BoardController {
	return &BoardController{
		cfg: cfg,
	}
}

func (c *BoardController) SetWheelSpeeds(left, right int16) {
	c.lock.Lock()
	c.wheelLeft = left
	c.wheelRight = right
	c.lock.Unlock()
}

func (c *BoardController) CurrentWheelRotations() (drive.WheelSnapshot, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.snapshot, c.haveSnapshot
}

func (c *BoardController) BatteryVolts() float64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.battVolts
}

func (c *BoardController) Loop(ctx context.Context, initDone *sync.WaitGroup) {
	fmt.Println("HW: board loop started")
	for {
		c.loopUntilSomethingBadHappens(ctx, initDone)
		if ctx.Err() != nil {
			return
		}
		fmt.Println("===== !!! WARNING !!! MOTOR BOARD FAILURE; TRYING TO RECOVER =====")
		initDone = nil
		time.Sleep(100 * time.Millisecond)
	}
}

func (c *BoardController) loopUntilSomethingBadHappens(ctx context.Context, initDone *sync.WaitGroup) {
	defer func() {
		if initDone != nil {
			initDone.Done()
		}
	}()

	board, err := motorboard.New()
	if err != nil {
		fmt.Println("HW: failed to open motor board:", err)
		return
	}
	defer board.Close()
	if err := board.SetWatchdog(500 * time.Millisecond); err != nil {
		fmt.Println("HW: failed to set motor watchdog:", err)
		return
	}

	// Pick the encoder count source.
	var counts interface {
		RawEncoderCounts() (left, right int16, err error)
	} = board
	if c.cfg.EncoderSource == "spi" {
		spiBoard, err := encoder.New(c.cfg.SPILeftDevice, c.cfg.SPIRightDevice)
		if err != nil {
			fmt.Println("HW: failed to open SPI counter board:", err)
			return
		}
		defer spiBoard.Close()
		counts = spiBoard
	}
	tracker := wheeltrack.New(counts)

	if initDone != nil {
		initDone.Done()
		initDone = nil
	}

	lastBattRead := time.Time{}
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			fmt.Println("HW: board loop stopping, zeroing motors")
			_ = board.SetWheelSpeeds(0, 0)
			return
		case <-ticker.C:
		}

		c.lock.Lock()
		left, right := c.wheelLeft, c.wheelRight
		c.lock.Unlock()
		if err := board.SetWheelSpeeds(left, right); err != nil {
			fmt.Println("HW: motor write failed:", err)
			return
		}

		if err := tracker.Poll(); err != nil {
			fmt.Println("HW: encoder poll failed:", err)
			return
		}
		captureTime := time.Now()
		rotL, rotR := tracker.AccumulatedRotations()

		var batt float64
		haveBatt := false
		if captureTime.Sub(lastBattRead) > time.Second {
			if batt, err = board.BattVolts(); err != nil {
				fmt.Println("HW: battery read failed:", err)
				return
			}
			haveBatt = true
			lastBattRead = captureTime
		}

		c.lock.Lock()
		c.snapshot = drive.WheelSnapshot{
			CaptureTime:    captureTime,
			LeftRotations:  rotL,
			RightRotations: rotR,
		}
		c.haveSnapshot = true
		if haveBatt {
			c.battVolts = batt
		}
		c.lock.Unlock()
	}
}
