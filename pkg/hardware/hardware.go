package hardware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hunterbot-team/hunterbot/go-controller/pkg/config"
	"github.com/hunterbot-team/hunterbot/go-controller/pkg/drive"
	"github.com/hunterbot-team/hunterbot/go-controller/pkg/screen"
	"github.com/hunterbot-team/hunterbot/go-controller/pkg/sound"
	"github.com/hunterbot-team/hunterbot/go-controller/pkg/speedlimiter"
)

type Hardware struct {
	cfg   config.Config
	board *BoardController

	soundsToPlay chan string

	cancelCurrentControlMode context.CancelFunc
	currentControlModeDone   sync.WaitGroup
}

func New(cfg config.Config) *Hardware {
	return &Hardware{
		cfg:          cfg,
		board:        NewBoardController(cfg),
		soundsToPlay: sound.InitSound(),
	}
}

var _ Interface = (*Hardware)(nil)

func (h *Hardware) Start(ctx context.Context) {
	var initDone sync.WaitGroup
	go screen.LoopUpdatingScreen(ctx)
	initDone.Add(1)
	go h.board.Loop(ctx, &initDone)
	initDone.Wait()
}

func (h *Hardware) StartRawControlMode() RawControl {
	// Raw mode doesn't have any state so pass through.
	h.StopMotorControl()
	return h.board
}

func (h *Hardware) StartDriveMode() DriveControl {
	h.StopMotorControl()

	var ctx context.Context
	ctx, h.cancelCurrentControlMode = context.WithCancel(context.Background())

	d := drive.New(h.board, h.board, drive.Params{
		Geometry:                  h.cfg.Geometry(),
		LoopHz:                    h.cfg.LoopHz,
		VelocityRollingWindowSize: h.cfg.VelocityRollingWindowSize,
		Linear:                    speedlimiter.Symmetric(h.cfg.MaxLinearVelocity, h.cfg.MaxLinearAccel),
		Angular:                   speedlimiter.Symmetric(h.cfg.MaxAngularVelocity, h.cfg.MaxAngularAccel),
	})
	h.currentControlModeDone.Add(1)
	go d.Loop(ctx, &h.currentControlModeDone)
	return d
}

func (h *Hardware) StopMotorControl() {
	if h.cancelCurrentControlMode != nil {
		fmt.Println("HW: Stopping motor control")
		h.cancelCurrentControlMode()
		h.currentControlModeDone.Wait()
		h.cancelCurrentControlMode = nil
		fmt.Println("HW: Stopped motor control")
	}
	h.board.SetWheelSpeeds(0, 0)
	time.Sleep(30 * time.Millisecond)
}

func (h *Hardware) CurrentWheelRotations() (drive.WheelSnapshot, bool) {
	return h.board.CurrentWheelRotations()
}

func (h *Hardware) BatteryVolts() float64 {
	return h.board.BatteryVolts()
}

func (h *Hardware) PlaySound(path string) {
	defer func() {
		recover() // Don't die if the channel is already closed.
	}()
	select {
	case h.soundsToPlay <- path:
	default:
		fmt.Println("HW: dropping sound, player busy:", path)
	}
}

func (h *Hardware) Shutdown() {
	h.StopMotorControl()
}
