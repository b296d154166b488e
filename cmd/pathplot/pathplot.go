package main

import (
	"fmt"
	"math"
	"os"

	"github.com/fogleman/gg"

	"github.com/hunterbot-team/hunterbot/go-controller/pkg/poselog"
)

// Renders a recorded pose trace to a PNG so a run can be eyeballed for
// drift: usage `pathplot pose.csv out.png`.

const (
	size   = 800
	margin = 40
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "usage: %s <pose.csv> <out.png>\n", os.Args[0])
		os.Exit(1)
	}

	entries, err := poselog.Read(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "pose trace has no entries")
		os.Exit(1)
	}

	minX, maxX := entries[0].X, entries[0].X
	minY, maxY := entries[0].Y, entries[0].Y
	for _, e := range entries {
		minX = math.Min(minX, e.X)
		maxX = math.Max(maxX, e.X)
		minY = math.Min(minY, e.Y)
		maxY = math.Max(maxY, e.Y)
	}
	span := math.Max(maxX-minX, maxY-minY)
	if span < 0.1 {
		span = 0.1 // The robot barely moved; don't blow up tiny noise.
	}
	scale := float64(size-2*margin) / span

	// Screen y grows downwards; flip so +y is up and +x is right.
	toCanvas := func(x, y float64) (float64, float64) {
		cx := margin + (x-minX)*scale
		cy := size - margin - (y-minY)*scale
		return cx, cy
	}

	dc := gg.NewContext(size, size)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0.2, 0.4, 1)
	dc.SetLineWidth(2)
	for i, e := range entries {
		cx, cy := toCanvas(e.X, e.Y)
		if i == 0 {
			dc.MoveTo(cx, cy)
		} else {
			dc.LineTo(cx, cy)
		}
	}
	dc.Stroke()

	// Start marker (green) and end marker with final heading (red).
	sx, sy := toCanvas(entries[0].X, entries[0].Y)
	dc.SetRGB(0, 0.7, 0)
	dc.DrawCircle(sx, sy, 6)
	dc.Fill()

	last := entries[len(entries)-1]
	ex, ey := toCanvas(last.X, last.Y)
	dc.SetRGB(0.9, 0.1, 0.1)
	dc.DrawCircle(ex, ey, 6)
	dc.Fill()
	dc.DrawLine(ex, ey, ex+18*math.Cos(last.Heading), ey-18*math.Sin(last.Heading))
	dc.Stroke()

	dc.SetRGB(0, 0, 0)
	dc.DrawString(fmt.Sprintf("%d samples, %.2fm x %.2fm", len(entries), maxX-minX, maxY-minY), margin, 24)

	if err := dc.SavePNG(os.Args[2]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println("Wrote", os.Args[2])
}
