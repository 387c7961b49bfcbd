package portfolio

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/arkrank/internal/models"
)

// RenderAllocationChart renders a PNG bar chart of allocation percentages
// for a scored set. Only rows with a positive allocation are drawn.
// Returns raw PNG bytes.
func RenderAllocationChart(results []models.ScoreResult) ([]byte, error) {
	bars := make([]chart.Value, 0, len(results))
	for _, r := range results {
		if r.AllocationPct <= 0 {
			continue
		}
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s %d%%", r.Symbol, r.AllocationPct),
			Value: float64(r.AllocationPct),
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex("2563eb"), // blue-600
				StrokeColor: drawing.ColorFromHex("1e40af"), // blue-800
				StrokeWidth: 1.0,
			},
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no allocated positions to chart")
	}

	graph := chart.BarChart{
		Title:    "Allocation",
		Width:    900,
		Height:   400,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f%%", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
