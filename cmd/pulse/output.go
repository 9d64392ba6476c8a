package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/stefanpenner/pulse/pkg/store"
	"github.com/stefanpenner/pulse/pkg/workload"
)

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// healthColor returns the color for a task status.
func healthColor(s store.Status) *color.Color {
	switch s {
	case store.StatusHealthy:
		return color.New(color.FgGreen)
	case store.StatusNeedsAttention:
		return color.New(color.FgYellow)
	case store.StatusAtRisk:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgWhite)
	}
}

// workloadColor returns the color for a workload status.
func workloadColor(s workload.Status) *color.Color {
	switch s {
	case workload.Overloaded:
		return color.New(color.FgRed, color.Bold)
	case workload.NearCapacity:
		return color.New(color.FgYellow)
	case workload.Balanced:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgCyan)
	}
}

// column is a fixed-width table column. Cells are padded before colouring so
// escape codes never count toward the width.
type column struct {
	Name  string
	Width int
	Right bool
}

func cell(s string, c column) string {
	s = runewidth.Truncate(s, c.Width, "…")
	if c.Right {
		return runewidth.FillLeft(s, c.Width)
	}
	return runewidth.FillRight(s, c.Width)
}

type table struct {
	w    io.Writer
	cols []column
}

func newTable(w io.Writer, cols ...column) *table {
	return &table{w: w, cols: cols}
}

func (t *table) header() {
	var parts []string
	for _, c := range t.cols {
		parts = append(parts, cell(c.Name, c))
	}
	fmt.Fprintln(t.w, color.New(color.Bold).Sprint(strings.Join(parts, "  ")))
}

// row prints one row. colors[i], when non-nil, colours cell i.
func (t *table) row(values []string, colors ...*color.Color) {
	parts := make([]string, len(t.cols))
	for i, c := range t.cols {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		s := cell(v, c)
		if i < len(colors) && colors[i] != nil {
			s = colors[i].Sprint(s)
		}
		parts[i] = s
	}
	fmt.Fprintln(t.w, strings.TrimRight(strings.Join(parts, "  "), " "))
}

func hours(h float64) string {
	return fmt.Sprintf("%gh", h)
}
