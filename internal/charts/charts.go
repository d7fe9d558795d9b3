// Package charts renders dashboard summaries as PNG images.
package charts

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"bookkeeping/internal/core"
)

// ErrNoData is returned when a summary has nothing to plot.
var ErrNoData = errors.New("no data to chart")

var background = chart.Style{
	Padding:   chart.Box{Top: 50, Left: 50, Right: 50, Bottom: 50},
	FillColor: chart.ColorWhite,
}

func polarityColor(p core.Polarity) drawing.Color {
	if p == core.Income {
		return chart.ColorGreen
	}
	return chart.ColorRed
}

// CategoryBars writes a bar chart of the per-category totals in s.
func CategoryBars(s core.Summary, w io.Writer) error {
	if len(s.ByCategory) == 0 {
		return ErrNoData
	}

	bars := make([]chart.Value, 0, len(s.ByCategory))
	top := 0.0
	for _, c := range s.ByCategory {
		v := c.Amount.Float()
		if v > top {
			top = v
		}
		color := polarityColor(c.Type)
		bars = append(bars, chart.Value{
			Label: c.Name,
			Value: v,
			Style: chart.Style{
				StrokeColor: color,
				FillColor:   color.WithAlpha(180),
				FontSize:    10,
				FontColor:   chart.ColorBlack,
			},
		})
	}
	if top <= 0 {
		top = 1
	}

	graph := chart.BarChart{
		Title:      fmt.Sprintf("%s to %s", s.Start, s.End),
		TitleStyle: chart.Style{FontSize: 14, FontColor: chart.ColorBlack},
		Width:      1200,
		Height:     600,
		BarWidth:   60,
		Background: background,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.2f", v.(float64))
			},
			Style: chart.Style{FontSize: 12, FontColor: chart.ColorBlack},
		},
		Bars: bars,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render category bars: %w", err)
	}
	return nil
}

// CategoryPie writes the share of each category of polarity p.
func CategoryPie(s core.Summary, p core.Polarity, w io.Writer) error {
	var total float64
	for _, c := range s.ByCategory {
		if c.Type == p {
			total += c.Amount.Float()
		}
	}
	if total == 0 {
		return ErrNoData
	}

	values := make([]chart.Value, 0, len(s.ByCategory))
	for _, c := range s.ByCategory {
		if c.Type != p {
			continue
		}
		share := c.Amount.Float() / total * 100
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: %s (%.1f%%)", c.Name, c.Amount, share),
			Value: c.Amount.Float(),
			Style: chart.Style{FontSize: 12, FontColor: chart.ColorBlack},
		})
	}

	pie := chart.PieChart{
		Title:      fmt.Sprintf("%s by category", p),
		Width:      800,
		Height:     800,
		Values:     values,
		Background: background,
	}
	if err := pie.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render category pie: %w", err)
	}
	return nil
}
