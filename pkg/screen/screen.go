// Package screen draws the robot's status (mode, pose estimate, battery) to
// the little TFT on the back panel, exposed by the kernel as /dev/fb1.
package screen

import (
	"context"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/fogleman/gg"

	"github.com/hunterbot-team/hunterbot/go-controller/pkg/angle"
)

var (
	lock sync.Mutex

	mode      string
	poseX     float64
	poseY     float64
	heading   float64
	battVolts float64
	fresh     bool
)

func SetMode(name string) {
	lock.Lock()
	mode = name
	lock.Unlock()
}

func SetPose(x, y, headingRad float64, isFresh bool) {
	lock.Lock()
	poseX = x
	poseY = y
	heading = headingRad
	fresh = isFresh
	lock.Unlock()
}

func SetBattVolts(v float64) {
	lock.Lock()
	battVolts = v
	lock.Unlock()
}

func LoopUpdatingScreen(ctx context.Context) {
	f, err := os.OpenFile("/dev/fb1", os.O_RDWR, 0666)
	if err != nil {
		fmt.Println("Failed to open screen, ignoring")
		return
	}

	const S = 128
	for range time.NewTicker(500 * time.Millisecond).C {
		if ctx.Err() != nil {
			var buf [S * S * 2]byte
			_, _ = f.Seek(0, 0)
			_, _ = f.Write(buf[:])
			return
		}

		lock.Lock()
		m := mode
		x, y, h := poseX, poseY, heading
		v := battVolts
		ok := fresh
		lock.Unlock()

		dc := gg.NewContext(S, S)
		dc.SetRGBA(1, 0.9, 0, 1)
		dc.DrawString(m, 4, 12)

		dc.DrawString(fmt.Sprintf("x %+7.2fm", x), 4, 30)
		dc.DrawString(fmt.Sprintf("y %+7.2fm", y), 4, 42)
		dc.DrawString(fmt.Sprintf("h %+6.1f", angle.FromFloat(h).Degrees()), 4, 54)
		if !ok {
			dc.DrawString("STALE", 84, 54)
		}

		// Heading rose in the bottom-left corner.
		dc.Push()
		dc.Translate(24, 96)
		dc.DrawCircle(0, 0, 20)
		dc.Stroke()
		dc.Rotate(-h + math.Pi/2)
		dc.DrawLine(0, 0, 0, -18)
		dc.Stroke()
		dc.Pop()

		dc.Push()
		dc.Translate(90, 0)
		drawPowerBar(dc, v)
		dc.Pop()

		if err := blit(f, dc, S); err != nil {
			fmt.Println("Screen failure: ", err)
			return
		}
	}
}

// blit converts the context's image to RGB565 and writes it out a line at a
// time (the TFT driver drops data on large writes).
func blit(f *os.File, dc *gg.Context, size int) error {
	buf := make([]byte, size*size*2)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := dc.Image().At(x, y)
			r, g, b, _ := c.RGBA() // 16-bit pre-multiplied

			rb := byte(r >> (16 - 5))
			gb := byte(g >> (16 - 6)) // Green has 6 bits
			bb := byte(b >> (16 - 5))

			buf[(size-1-y)*2+x*size*2+1] = (rb << 3) | (gb >> 3)
			buf[(size-1-y)*2+x*size*2] = bb | (gb << 5)
		}
	}
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}
	lineBytes := size * 2
	for i := 0; i < size; i++ {
		if _, err := f.Write(buf[i*lineBytes : (i+1)*lineBytes]); err != nil {
			return err
		}
		time.Sleep(10 * time.Microsecond)
	}
	return nil
}

const (
	minCellVoltage = 3
	maxCellVoltage = 4.2
)

func drawPowerBar(dc *gg.Context, voltage float64) {
	var cellVoltage float64
	if voltage > 9 {
		// assume the 4-cell pack
		cellVoltage = voltage / 4
	} else {
		// assume the 2-cell pack
		cellVoltage = voltage / 2
	}
	charge := (cellVoltage - minCellVoltage) / (maxCellVoltage - minCellVoltage)

	// Colour depends on charge level.
	if charge < 0.1 {
		dc.SetRGBA(1, 0.2, 0, 1)
	}
	dc.DrawRectangle(0, 70, 30, 10)
	for n := 2; n < 13; n++ {
		if charge >= (float64(n) / 13) {
			dc.DrawRectangle(2, 75-float64(n)*5, 26, 3)
		}
	}
	dc.Fill()
	dc.DrawString(fmt.Sprintf("%.1fv", voltage), -2, 93)
}
