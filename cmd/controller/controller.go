package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/hunterbot-team/hunterbot/go-controller/pkg/config"
	"github.com/hunterbot-team/hunterbot/go-controller/pkg/drivemode"
	"github.com/hunterbot-team/hunterbot/go-controller/pkg/hardware"
	"github.com/hunterbot-team/hunterbot/go-controller/pkg/joystick"
	"github.com/hunterbot-team/hunterbot/go-controller/pkg/pausemode"
	"github.com/hunterbot-team/hunterbot/go-controller/pkg/poselog"
	"github.com/hunterbot-team/hunterbot/go-controller/pkg/screen"
)

type Mode interface {
	Name() string
	StartupSound() string
	Start(ctx context.Context)
	Stop()
}

type JoystickUser interface {
	OnJoystickEvent(event *joystick.Event)
}

func main() {
	fmt.Println("---- Hunterbot ----")
	fmt.Println("GOMAXPROCS", runtime.GOMAXPROCS(0))

	// Our global context, we cancel it to trigger shutdown.
	ctx, cancel := context.WithCancel(context.Background())

	// Hook Ctrl-C etc.
	registerSignalHandlers(cancel)

	cfg := config.Load()

	// Initialise the hardware.
	var hw hardware.Interface
	if os.Getenv("HUNTERBOT_DUMMY_HW") != "" {
		hw = hardware.NewDummy()
	} else {
		realHW := hardware.New(cfg)
		realHW.Start(ctx)
		hw = realHW
	}
	defer func() {
		fmt.Println("Zeroing motors for shut down")
		hw.Shutdown()
		time.Sleep(100 * time.Millisecond)
	}()

	var trace *poselog.Writer
	if cfg.PoseTracePath != "" {
		var err error
		trace, err = poselog.NewWriter(cfg.PoseTracePath)
		if err != nil {
			fmt.Println("Failed to open pose trace, carrying on without:", err)
		} else {
			defer trace.Close()
		}
	}

	// Wait for the joystick and kick off a background thread to read from it.
	joystickEvents := initJoystick(cancel, ctx)

	hw.PlaySound("/sounds/hunterbotstart.wav")

	allModes := []Mode{
		drivemode.New(hw, trace, cfg.MaxLinearVelocity, cfg.MaxAngularVelocity, cfg.VelocityRollingWindowSize),
		pausemode.New(hw),
	}
	var activeMode Mode = allModes[0]
	fmt.Printf("----- %s -----\n", activeMode.Name())
	screen.SetMode(activeMode.Name())
	activeMode.Start(ctx)
	activeModeIdx := 0

	switchMode := func(delta int) {
		fmt.Println("Mode switch", delta)
		activeMode.Stop()
		fmt.Println("Mode switch: active mode stopped", delta)
		hw.StopMotorControl()
		fmt.Println("Mode switch: motors stopped", delta)
		activeModeIdx += delta
		activeModeIdx = (activeModeIdx + len(allModes)) % len(allModes)
		activeMode = allModes[activeModeIdx]
		fmt.Printf("----- %s -----\n", activeMode.Name())
		screen.SetMode(activeMode.Name())

		hw.PlaySound(activeMode.StartupSound())

		activeMode.Start(ctx)
		fmt.Println("Mode switch done.")
	}

	fmt.Println("Waiting for events...", joystickEvents)
	watchdog := time.NewTicker(5 * time.Second)

	for {
		select {
		case <-ctx.Done():
			fmt.Println("Context done, stopping active mode and shutting down")
			activeMode.Stop()
			cancel()
			time.Sleep(1 * time.Second)
			return
		case event, ok := <-joystickEvents:
			if !ok {
				fmt.Println("Joystick events channel closed!")
				activeMode.Stop()
				cancel()
				time.Sleep(1 * time.Second)
				return
			}
			// Intercept the Options button to implement mode switching.
			if event.Type == joystick.EventTypeButton &&
				event.Number == joystick.ButtonOptions &&
				event.Value == 1 && !event.Initial {
				fmt.Printf("Options pressed: switching modes >>\n")
				switchMode(1)
				continue
			}
			// Pass other joystick events through if this mode requires them.
			if ju, ok := activeMode.(JoystickUser); ok {
				done := make(chan struct{})
				go func() {
					defer close(done)
					ju.OnJoystickEvent(event)
				}()
				timeout := time.NewTimer(1 * time.Second)
				select {
				case <-done:
					timeout.Stop()
				case <-timeout.C:
					// All the modes are supposed to just queue the event to the background thread.
					// If they block this long, they've probably deadlocked.
					panic("Deadlock? Active mode blocked OnJoystickEvent for >1s")
				}
			}
		case <-watchdog.C:
			fmt.Println("Main loop still running")
			screen.SetBattVolts(hw.BatteryVolts())
		}
	}
}

func initJoystick(cancel context.CancelFunc, ctx context.Context) chan *joystick.Event {
	joystickEvents := make(chan *joystick.Event, 1)
	firstLog := true
	for {
		jDev := os.Getenv("JOYSTICK_DEVICE")
		if jDev == "" {
			jDev = "/dev/input/js0"
		}
		j, err := joystick.New(jDev)
		if err != nil {
			if firstLog {
				fmt.Printf("Waiting for joystick: %v.\n", err)
				firstLog = false
			}
			time.Sleep(1 * time.Second)
			continue
		}

		fmt.Printf("Opened joystick\n")
		go func() {
			defer cancel()
			j.Loop(ctx, joystickEvents)
		}()
		break
	}
	return joystickEvents
}

func registerSignalHandlers(cancelFunc context.CancelFunc) {
	// Hook Ctrl-C to cause shut down.
	signals := make(chan os.Signal, 2)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		s := <-signals
		log.Println("Signal: ", s)
		cancelFunc()
		time.Sleep(2 * time.Second)
		os.Exit(0)
	}()
}
