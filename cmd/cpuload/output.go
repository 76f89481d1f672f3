//go:build linux

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ja7ad/cpuload/pkg/load"
	"github.com/ja7ad/cpuload/pkg/system/util"
)

const barWidth = 20

// writeLine prints the three ratios on one line.
func writeLine(w io.Writer, rep load.Report) error {
	_, err := fmt.Fprintf(w, "%f %f %f\n", rep.PairwiseAverage, rep.Endpoint, rep.Lifetime)
	return err
}

func writeJSON(w io.Writer, rep load.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func writePretty(w io.Writer, rep load.Report) error {
	r := lipgloss.NewRenderer(w)
	var (
		title = r.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
		faint = r.NewStyle().Faint(true)
		label = r.NewStyle().Width(14)
		value = r.NewStyle().Width(10).Align(lipgloss.Right)
		box   = r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
	)

	row := func(name string, v float64, extra string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top,
			label.Render(name),
			value.Foreground(loadColor(v)).Render(fmt.Sprintf("%.6f", v)),
			"  ", bar(v),
			"  ", faint.Render(extra),
		)
	}

	head := fmt.Sprintf("pid %d", rep.PID)
	if rep.Comm != "" {
		head += fmt.Sprintf(" (%s)", rep.Comm)
	}
	if rep.State != "" {
		head += " " + rep.State
	}
	if rep.Threads > 0 {
		head += fmt.Sprintf(", %d threads", rep.Threads)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		title.Render("cpuload")+"  "+head,
		faint.Render(fmt.Sprintf("%d samples over %s at %d ticks/s",
			rep.Samples, rep.Window.Round(time.Millisecond), rep.TicksPerSecond)),
		"",
		row("pairwise avg", rep.PairwiseAverage, fmt.Sprintf("± %.4f", rep.PairwiseStddev)),
		row("endpoint", rep.Endpoint, ""),
		row("lifetime", rep.Lifetime, "age "+rep.Age.Round(time.Second).String()),
	)
	_, err := fmt.Fprintln(w, box.Render(body))
	return err
}

// bar draws v in [0,1] as a fixed-width gauge; values above one core are
// shown full.
func bar(v float64) string {
	n := int(math.Round(util.Clamp01(v) * barWidth))
	return strings.Repeat("█", n) + strings.Repeat("░", barWidth-n)
}

func loadColor(v float64) lipgloss.Color {
	switch {
	case v >= 0.9:
		return lipgloss.Color("196")
	case v >= 0.5:
		return lipgloss.Color("214")
	default:
		return lipgloss.Color("42")
	}
}
