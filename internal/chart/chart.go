// Package chart lays out a grouped bar chart with two independent value axes.
// It only computes geometry; drawing is left to the SVG template.
package chart

import (
	"fmt"
	"math"
	"strconv"
)

const tickCount = 5

type Margin struct {
	Top, Right, Bottom, Left float64
}

type Config struct {
	Width  float64
	Height float64
	Margin Margin
	// AxisWidth is reserved on each side for tick labels.
	AxisWidth float64
	// BarGap is the share of each category band left empty, split between both sides.
	BarGap float64
}

// DefaultConfig matches the dashboard: 500px tall with room for slanted labels.
func DefaultConfig() Config {
	return Config{
		Width:     900,
		Height:    500,
		Margin:    Margin{Top: 50, Right: 30, Bottom: 80, Left: 20},
		AxisWidth: 70,
		BarGap:    0.2,
	}
}

type Series struct {
	Name   string
	Color  string
	Values []float64
	// Format renders tick labels. Defaults to the shortest decimal form.
	Format func(float64) string
}

type Rect struct {
	X, Y, W, H float64
	Fill       string
}

type Tick struct {
	Y     float64
	Label string
}

type Label struct {
	X, Y float64
	Text string
}

type LegendItem struct {
	X, Y  float64
	Color string
	Name  string
}

// Group is one category: its bars, its axis label and its tooltip lines.
type Group struct {
	Label   Label
	Bars    []Rect
	Tooltip []string
}

type Chart struct {
	Width, Height float64
	// Plot area.
	Left, Top, Right, Bottom float64

	LeftAxis, RightAxis Axis
	Groups              []Group
	Legend              []LegendItem
}

type Axis struct {
	X     float64
	Color string
	Ticks []Tick
	Max   float64
}

// Empty reports a chart without categories.
func (c Chart) Empty() bool { return len(c.Groups) == 0 }

// DualAxis lays out one left-axis and one right-axis bar per category.
// tooltip may be nil.
func DualAxis(cfg Config, categories []string, left, right Series, tooltip func(i int) []string) (Chart, error) {
	if len(left.Values) != len(categories) || len(right.Values) != len(categories) {
		return Chart{}, fmt.Errorf("chart: %d categories but %d/%d values", len(categories), len(left.Values), len(right.Values))
	}

	c := Chart{
		Width:  cfg.Width,
		Height: cfg.Height,
		Left:   cfg.Margin.Left + cfg.AxisWidth,
		Top:    cfg.Margin.Top,
		Right:  cfg.Width - cfg.Margin.Right - cfg.AxisWidth,
		Bottom: cfg.Height - cfg.Margin.Bottom,
	}
	plotH := c.Bottom - c.Top
	plotW := c.Right - c.Left

	leftMax, leftTicks := niceTicks(maxOf(left.Values))
	rightMax, rightTicks := niceTicks(maxOf(right.Values))
	c.LeftAxis = Axis{X: c.Left, Color: left.Color, Max: leftMax, Ticks: c.ticks(leftTicks, leftMax, plotH, left.Format)}
	c.RightAxis = Axis{X: c.Right, Color: right.Color, Max: rightMax, Ticks: c.ticks(rightTicks, rightMax, plotH, right.Format)}

	c.Legend = []LegendItem{
		{X: cfg.Width - cfg.Margin.Right - 140, Y: 14, Color: left.Color, Name: left.Name},
		{X: cfg.Width - cfg.Margin.Right - 140, Y: 32, Color: right.Color, Name: right.Name},
	}

	n := len(categories)
	if n == 0 {
		return c, nil
	}
	band := plotW / float64(n)
	barW := band * (1 - cfg.BarGap) / 2
	for i, name := range categories {
		x0 := c.Left + band*float64(i) + band*cfg.BarGap/2
		g := Group{
			Label: Label{X: c.Left + band*(float64(i)+0.5), Y: c.Bottom + 12, Text: name},
			Bars: []Rect{
				c.bar(x0, barW, left.Values[i], leftMax, plotH, left.Color),
				c.bar(x0+barW, barW, right.Values[i], rightMax, plotH, right.Color),
			},
		}
		if tooltip != nil {
			g.Tooltip = tooltip(i)
		}
		c.Groups = append(c.Groups, g)
	}
	return c, nil
}

func (c Chart) bar(x, w, v, max, plotH float64, fill string) Rect {
	h := 0.0
	if max > 0 && v > 0 {
		h = v / max * plotH
	}
	return Rect{X: round2(x), Y: round2(c.Bottom - h), W: round2(w), H: round2(h), Fill: fill}
}

func (c Chart) ticks(values []float64, max, plotH float64, format func(float64) string) []Tick {
	if format == nil {
		format = Plain
	}
	out := make([]Tick, 0, len(values))
	for _, v := range values {
		out = append(out, Tick{Y: round2(c.Bottom - v/max*plotH), Label: format(v)})
	}
	return out
}

// Plain formats v in its shortest decimal form.
func Plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// niceTicks returns a rounded axis maximum and tickCount evenly spaced
// values from zero to it.
func niceTicks(max float64) (float64, []float64) {
	step := 1.0
	if max > 0 {
		raw := max / float64(tickCount-1)
		mag := math.Pow(10, math.Floor(math.Log10(raw)))
		norm := raw / mag
		nice := 10.0
		for _, candidate := range []float64{1, 2, 2.5, 5, 10} {
			if norm <= candidate {
				nice = candidate
				break
			}
		}
		step = nice * mag
	}
	ticks := make([]float64, tickCount)
	for i := range ticks {
		ticks[i] = clean(float64(i) * step)
	}
	return ticks[tickCount-1], ticks
}

func maxOf(values []float64) float64 {
	m := 0.0
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}

// clean drops float noise such as 0.30000000000000004.
func clean(v float64) float64 {
	f, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 12, 64), 64)
	if err != nil {
		return v
	}
	return f
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
