// Package poselog records the pose estimate to a CSV file, one row per
// sample, so runs can be replayed and plotted afterwards (see cmd/pathplot).
package poselog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Entry struct {
	Time    time.Time
	X       float64
	Y       float64
	Heading float64
	Linear  float64
	Angular float64
}

var header = []string{"unix_ms", "x", "y", "heading", "linear", "angular"}

type Writer struct {
	f *os.File
	w *csv.Writer
}

func NewWriter(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Writer{f: f, w: w}, nil
}

func (w *Writer) Append(e Entry) error {
	return w.w.Write([]string{
		strconv.FormatInt(e.Time.UnixMilli(), 10),
		formatFloat(e.X),
		formatFloat(e.Y),
		formatFloat(e.Heading),
		formatFloat(e.Linear),
		formatFloat(e.Angular),
	})
}

func (w *Writer) Close() error {
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		_ = w.f.Close()
		return err
	}
	return w.f.Close()
}

func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty pose trace", path)
	}

	entries := make([]Entry, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("%s: row %d has %d fields, want %d", path, i+2, len(row), len(header))
		}
		ms, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %v", path, i+2, err)
		}
		var vals [5]float64
		for j := 0; j < 5; j++ {
			vals[j], err = strconv.ParseFloat(row[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d: %v", path, i+2, err)
			}
		}
		entries = append(entries, Entry{
			Time:    time.UnixMilli(ms),
			X:       vals[0],
			Y:       vals[1],
			Heading: vals[2],
			Linear:  vals[3],
			Angular: vals[4],
		})
	}
	return entries, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
