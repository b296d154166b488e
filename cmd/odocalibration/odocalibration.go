package main

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/hunterbot-team/hunterbot/go-controller/pkg/angle"
	"github.com/hunterbot-team/hunterbot/go-controller/pkg/config"
	"github.com/hunterbot-team/hunterbot/go-controller/pkg/hardware"
)

// Drives two fixed patterns and compares the odometry against what a tape
// measure says, printing corrected geometry to paste into hunterbot.yaml.

var scanner *bufio.Scanner

func init() {
	scanner = bufio.NewScanner(os.Stdin)
}

func readFloat(prompt string) float64 {
	for {
		fmt.Println(prompt)
		if !scanner.Scan() {
			panic(scanner.Err())
		}
		v, err := strconv.ParseFloat(scanner.Text(), 64)
		if err != nil {
			fmt.Printf("error: %v, please try again:\n", err)
			continue
		}
		return v
	}
}

func main() {
	fmt.Println("---- Odometry Calibration ----")
	fmt.Println("GOMAXPROCS", runtime.GOMAXPROCS(0))

	// Our global context, we cancel it to trigger shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	// Initialise the hardware.
	hw := hardware.New(cfg)
	defer func() {
		fmt.Println("Zeroing motors for shut down")
		hw.Shutdown()
		time.Sleep(100 * time.Millisecond)
	}()
	hw.Start(ctx)

	d := hw.StartDriveMode()

	// Straight run, to calibrate the wheel radius.
	fmt.Println("Mark the robot's position; straight run starts in 2s...")
	time.Sleep(2 * time.Second)
	d.ResetOdometry()
	d.SetVelocities(0.3, 0) // Slow walking pace.
	time.Sleep(5 * time.Second)
	d.SetVelocities(0, 0)
	time.Sleep(time.Second)

	pose := d.CurrentPose()
	fmt.Printf("Odometry says: x=%.3fm y=%.3fm\n", pose.X, pose.Y)
	measured := readFloat("Enter measured straight-ahead displacement (m):")
	radiusScale := 1.0
	if pose.X != 0 {
		radiusScale = measured / pose.X
	}

	// Spin on the spot, to calibrate the wheel separation.
	fmt.Println("Note the robot's heading; spin starts in 2s...")
	time.Sleep(2 * time.Second)
	d.ResetOdometry()
	d.SetVelocities(0, 1.0)
	time.Sleep(5 * time.Second)
	d.SetVelocities(0, 0)
	time.Sleep(time.Second)

	pose = d.CurrentPose()
	fmt.Printf("Odometry says: heading=%.1f deg\n", pose.Heading*180/math.Pi)
	measuredTurn := readFloat("Enter measured total turn (deg, +ve anticlockwise):")
	drift := angle.FromFloat(pose.Heading).Sub(angle.FromFloat(measuredTurn * math.Pi / 180))
	fmt.Printf("Wrapped heading error vs tape: %+.1f deg\n", drift.Degrees())
	separationScale := 1.0
	if measuredTurn != 0 {
		// The radius correction also scales the measured wheel travel
		// that the angular estimate is derived from.
		separationScale = radiusScale * pose.Heading / (measuredTurn * math.Pi / 180)
	}

	fmt.Println()
	fmt.Println("# Corrected geometry for /cfg/hunterbot.yaml:")
	fmt.Printf("wheel_separation: %.4f\n", cfg.WheelSeparation*separationScale)
	fmt.Printf("left_wheel_radius: %.4f\n", cfg.LeftWheelRadius*radiusScale)
	fmt.Printf("right_wheel_radius: %.4f\n", cfg.RightWheelRadius*radiusScale)
}
