package internal

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"
)

const (
	defaultPlotHeight   = 16
	minPlotWidth        = 20
	terminalWidthBackup = 80
	axisSeparator       = " ┤"
)

// seriesColors are assigned in order: raw dividends first, then one per fit
var seriesColors = []text.Color{
	text.FgHiWhite,
	text.FgCyan,
	text.FgMagenta,
	text.FgYellow,
	text.FgGreen,
	text.FgBlue,
	text.FgRed,
}

// PlotOptions controls the terminal chart
type PlotOptions struct {
	Title  string
	Width  int  // plot area in characters, 0 fits the terminal
	Height int  // plot area in lines, 0 uses the default
	Linear bool // linear value axis instead of log10
	Color  bool // force colors even when not writing to a terminal
}

type plotPoint struct {
	x float64 // days since the first record
	y float64 // amount, possibly log-scaled
}

type plotSeries struct {
	name   string
	points []plotPoint
	line   bool
}

// PlotDividends draws the raw dividends as dots and each fit as a line on shared
// axes, using braille characters (2x4 dots per cell).
func PlotDividends(w io.Writer, records []DividendRecord, fits []Fit, opts PlotOptions) error {
	if len(records) == 0 {
		return nil
	}

	scale := func(v float64) float64 {
		if opts.Linear {
			return v
		}
		return math.Log10(v)
	}

	origin := records[0].Date
	last := records[len(records)-1].Date
	for _, f := range fits {
		for _, p := range f.Curve {
			if p.Date.Before(origin) {
				origin = p.Date
			}
			if p.Date.After(last) {
				last = p.Date
			}
		}
	}

	raw := plotSeries{name: "Dividends"}
	for _, r := range records {
		v := r.Float()
		if !opts.Linear && v <= 0 {
			continue // no place on a log axis
		}
		raw.points = append(raw.points, plotPoint{x: daysBetween(origin, r.Date), y: scale(v)})
	}
	series := []plotSeries{raw}
	for i, f := range fits {
		s := plotSeries{name: fmt.Sprintf("fit%d", i), line: true}
		for _, p := range f.Curve {
			s.points = append(s.points, plotPoint{x: daysBetween(origin, p.Date), y: scale(p.Amount)})
		}
		series = append(series, s)
	}

	minY, maxY := seriesRange(series)
	if math.IsInf(minY, 1) {
		return nil
	}
	if math.Abs(maxY-minY) < 1e-9 {
		minY -= 0.5
		maxY += 0.5
	}
	maxX := daysBetween(origin, last)

	height := opts.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	unscale := func(v float64) float64 {
		if opts.Linear {
			return v
		}
		return math.Pow(10, v)
	}
	labels := axisLabels(height, unscale(minY), unscale(maxY), unscale((minY+maxY)/2))
	labelWidth := 0
	for _, l := range labels {
		labelWidth = max(labelWidth, len(l))
	}

	width := opts.Width
	if width <= 0 {
		width = terminalWidth(w) - labelWidth - len([]rune(axisSeparator)) - 1
	}
	width = max(width, minPlotWidth)

	// One braille grid per series, composed when printing
	grids := make([][][]uint8, len(series))
	dotsX, dotsY := width*2, height*4
	for si, s := range series {
		grids[si] = makeCells(height, width)
		prevX, prevY := -1, -1
		for _, p := range s.points {
			px := toDot(p.x, 0, maxX, dotsX)
			py := dotsY - 1 - toDot(p.y, minY, maxY, dotsY)
			if s.line && prevX >= 0 {
				drawLine(prevX, prevY, px, py, func(x, y int) { setBrailleDot(grids[si], x, y) })
			} else {
				setBrailleDot(grids[si], px, py)
			}
			prevX, prevY = px, py
		}
	}

	useColor := shouldUseColor(w, opts.Color)

	var sb strings.Builder
	if opts.Title != "" {
		sb.WriteString(opts.Title)
		sb.WriteString("\n")
	}
	for y := 0; y < height; y++ {
		sb.WriteString(fmt.Sprintf("%*s%s", labelWidth, labels[y], axisSeparator))
		for x := 0; x < width; x++ {
			mask, idx := composeCell(grids, x, y)
			ch := string(rune(0x2800 + int(mask)))
			if useColor && idx >= 0 {
				ch = seriesColors[idx%len(seriesColors)].Sprint(ch)
			}
			sb.WriteString(ch)
		}
		sb.WriteString("\n")
	}
	sb.WriteString(xAxis(labelWidth, width, origin, last))
	sb.WriteString(legend(series, useColor))
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func seriesRange(series []plotSeries) (float64, float64) {
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, p := range s.points {
			minY = math.Min(minY, p.y)
			maxY = math.Max(maxY, p.y)
		}
	}
	return minY, maxY
}

// toDot maps v in [lo, hi] onto [0, n-1]
func toDot(v, lo, hi float64, n int) int {
	if hi <= lo || n <= 1 {
		return 0
	}
	d := int(math.Round((v - lo) / (hi - lo) * float64(n-1)))
	return min(max(d, 0), n-1)
}

func axisLabels(height int, bottom, top, mid float64) []string {
	labels := make([]string, height)
	labels[0] = fmt.Sprintf("%.4g", top)
	if height > 2 {
		labels[height/2] = fmt.Sprintf("%.4g", mid)
	}
	if height > 1 {
		labels[height-1] = fmt.Sprintf("%.4g", bottom)
	}
	return labels
}

func xAxis(labelWidth, width int, from, to time.Time) string {
	left, right := from.Format("2006"), to.Format("2006")
	gap := max(width-len(left)-len(right), 1)
	return fmt.Sprintf("%*s  %s%s%s\n", labelWidth, "", left, strings.Repeat(" ", gap), right)
}

func legend(series []plotSeries, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		marker := "•"
		if s.line {
			marker = "─"
		}
		label := marker + " " + s.name
		if useColor {
			label = seriesColors[i%len(seriesColors)].Sprint(label)
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ") + "\n"
}

// terminalWidth sizes the plot to w when it is a terminal
func terminalWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok {
		return terminalWidthBackup
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return cells
}

// composeCell merges the dots of all series; the color goes to the first series present
func composeCell(grids [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	idx := -1
	for i, cells := range grids {
		m := cells[y][x]
		if m == 0 {
			continue
		}
		if idx == -1 {
			idx = i
		}
		mask |= m
	}
	return mask, idx
}

// drawLine plots a Bresenham line between two dots
func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	e := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func setBrailleDot(cells [][]uint8, x, y int) {
	cy, cx := y/4, x/2
	if x < 0 || y < 0 || cy >= len(cells) || cx >= len(cells[cy]) {
		return
	}
	cells[cy][cx] |= brailleDotMask(x%2, y%4)
}

// brailleDotMask returns the bit for a dot within a 2x4 braille cell
func brailleDotMask(x, y int) uint8 {
	if y == 3 {
		if x == 0 {
			return 0x40
		}
		return 0x80
	}
	if x == 0 {
		return 1 << y
	}
	return 1 << (y + 3)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
