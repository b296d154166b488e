package hardware

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hunterbot-team/hunterbot/go-controller/pkg/config"
)

// The board loop must release the init WaitGroup even when the motor board
// fails to open, otherwise Hardware.Start blocks forever on a transient
// hardware failure at boot.  No board is present when tests run, so opening
// it fails on the first attempt.
func TestLoopReleasesInitWhenBoardOpenFails(t *testing.T) {
	c := NewBoardController(config.Defaults())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var initDone sync.WaitGroup
	initDone.Add(1)
	go c.Loop(ctx, &initDone)

	released := make(chan struct{})
	go func() {
		initDone.Wait()
		close(released)
	}()

	select {
	case <-released:
	case <-time.After(3 * time.Second):
		t.Fatal("init WaitGroup not released after board open failure")
	}
}
