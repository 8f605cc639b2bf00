// Package chart renders sentiment tallies as PNG pie charts.
package chart

import (
	"bytes"
	"fmt"
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/spacesedan/sentiscope/internal/sentiment"
)

const (
	Title    = "Sentiment Distribution"
	Filename = "sentiment_piechart.png"
	Width    = 640
	Height   = 480

	noDataLabel = "No data"
)

var (
	ColorPositive = drawing.ColorFromHex("00C49F") // green
	ColorNeutral  = drawing.ColorFromHex("FFBB28") // yellow
	ColorNegative = drawing.ColorFromHex("FF4D4F") // red
	colorNoData   = drawing.ColorFromHex("D9D9D9")
)

// Wedge is one slice of the pie before rendering.
type Wedge struct {
	Label   sentiment.Label
	Count   int
	Percent float64
	Color   drawing.Color
}

func (w Wedge) Caption() string {
	return fmt.Sprintf("%s %.1f%%", w.Label, w.Percent)
}

func ColorFor(l sentiment.Label) drawing.Color {
	switch l {
	case sentiment.Positive:
		return ColorPositive
	case sentiment.Neutral:
		return ColorNeutral
	case sentiment.Negative:
		return ColorNegative
	}
	return colorNoData
}

// Wedges lists positive, neutral, negative in that order whatever the counts.
func Wedges(t sentiment.Tally) []Wedge {
	labels := sentiment.Ordered()
	wedges := make([]Wedge, 0, len(labels))
	for _, l := range labels {
		wedges = append(wedges, Wedge{
			Label:   l,
			Count:   t.Count(l),
			Percent: t.Percent(l),
			Color:   ColorFor(l),
		})
	}
	return wedges
}

// Values converts wedges to chart values. An all-zero tally becomes a single
// placeholder slice, since a pie needs at least one non-zero value.
func Values(wedges []Wedge) []gochart.Value {
	values := make([]gochart.Value, 0, len(wedges))
	total := 0
	for _, w := range wedges {
		total += w.Count
		values = append(values, gochart.Value{
			Value: float64(w.Count),
			Label: w.Caption(),
			Style: gochart.Style{
				FillColor:   w.Color,
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 1,
			},
		})
	}

	if total == 0 {
		return []gochart.Value{{
			Value: 1,
			Label: noDataLabel,
			Style: gochart.Style{
				FillColor:   colorNoData,
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 1,
			},
		}}
	}
	return values
}

// RenderPie draws the wedges in Wedges order. go-chart starts the first
// wedge at 3 o'clock and runs clockwise; it has no start angle setting.
func RenderPie(w io.Writer, t sentiment.Tally) error {
	pie := gochart.PieChart{
		Title:  Title,
		Width:  Width,
		Height: Height,
		Values: Values(Wedges(t)),
	}

	if err := pie.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("failed to render pie chart: %w", err)
	}
	return nil
}

func RenderPiePNG(t sentiment.Tally) ([]byte, error) {
	var buf bytes.Buffer
	if err := RenderPie(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
