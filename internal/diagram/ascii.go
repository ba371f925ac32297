package diagram

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"
)

// Series is a result curve along the segment.
type Series struct {
	Name     string
	Stations []float64 // m, ascending
	Values   []float64
}

// SegmentDiagramData holds what the diagrams of one handling analysis show.
type SegmentDiagramData struct {
	Title  string
	Length float64 // m

	// Support distances from each end (m)
	LeftOverhang  float64
	RightOverhang float64

	Moments []Series // kN·m per load case
	Top     []Series // MPa per load case
	Bottom  []Series // MPa per load case

	AllowableTension     float64 // MPa, drawn as a limit line
	AllowableCompression float64 // MPa, negative, drawn as a limit line
}

// ASCIIOptions control text plots.
type ASCIIOptions struct {
	Width  int // samples along the segment
	Height int // rows
}

// DefaultASCIIOptions returns a plot that fits an 80 column terminal.
func DefaultASCIIOptions() ASCIIOptions {
	return ASCIIOptions{Width: 60, Height: 12}
}

// DrawMomentDiagram plots the moment series of data as text.
func DrawMomentDiagram(data SegmentDiagramData, opts ASCIIOptions) string {
	if len(data.Moments) == 0 {
		return ""
	}
	if opts.Width <= 1 {
		opts.Width = DefaultASCIIOptions().Width
	}
	if opts.Height <= 0 {
		opts.Height = DefaultASCIIOptions().Height
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString("  BENDING MOMENT (kN·m, sagging positive)\n")
	sb.WriteString("  ───────────────────────────────────────\n\n")

	curves := make([][]float64, 0, len(data.Moments))
	names := make([]string, 0, len(data.Moments))
	for _, s := range data.Moments {
		curves = append(curves, Resample(s.Stations, s.Values, data.Length, opts.Width))
		names = append(names, s.Name)
	}
	sb.WriteString(asciigraph.PlotMany(curves,
		asciigraph.Height(opts.Height),
		asciigraph.Precision(1),
		asciigraph.Offset(4),
		asciigraph.Caption(strings.Join(names, ", ")),
	))
	sb.WriteString("\n\n")
	sb.WriteString(DrawSupportSketch(data.Length, data.LeftOverhang, data.RightOverhang, opts.Width))
	return sb.String()
}

// DrawSupportSketch draws the segment with its two supports under a plot of
// the given width.
func DrawSupportSketch(length, left, right float64, width int) string {
	if length <= 0 || width < 2 {
		return ""
	}
	pos := func(x float64) int {
		return int(math.Round(x / length * float64(width-1)))
	}
	line := []rune(strings.Repeat("═", width))
	marks := []rune(strings.Repeat(" ", width))
	for _, p := range []int{pos(left), pos(length - right)} {
		if p >= 0 && p < width {
			marks[p] = '▲'
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("        %s\n", string(line)))
	sb.WriteString(fmt.Sprintf("        %s\n", string(marks)))
	sb.WriteString(fmt.Sprintf("        overhangs %.3f m / %.3f m, span %.3f m, length %.3f m\n",
		left, right, length-left-right, length))
	return sb.String()
}

// Resample interpolates values at n evenly spaced stations over [0, length].
func Resample(stations, values []float64, length float64, n int) []float64 {
	out := make([]float64, n)
	if len(stations) == 0 || len(stations) != len(values) || n == 0 {
		return out
	}
	if n == 1 {
		out[0] = values[0]
		return out
	}
	for i := range out {
		x := length * float64(i) / float64(n-1)
		j := sort.SearchFloat64s(stations, x)
		switch {
		case j == 0:
			out[i] = values[0]
		case j >= len(stations):
			out[i] = values[len(values)-1]
		default:
			x0, x1 := stations[j-1], stations[j]
			t := 0.0
			if x1 > x0 {
				t = (x - x0) / (x1 - x0)
			}
			out[i] = values[j-1] + t*(values[j]-values[j-1])
		}
	}
	return out
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := len([]rune(title))
	for _, line := range lines {
		if n := len([]rune(line)); n > maxLen {
			maxLen = n
		}
	}
	maxLen += 4

	pad := func(s string) string {
		return s + strings.Repeat(" ", maxLen-4-len([]rune(s)))
	}

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", pad(title)))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", pad(line)))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}
