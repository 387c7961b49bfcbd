package recommend

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bobmcallan/arkrank/internal/models"
)

func f64(v float64) *float64 {
	return &v
}

func TestAllocationTable(t *testing.T) {
	rows := []models.RecommendationRow{
		{Rank: 1, Ticker: "AAPL", UpsidePct: f64(12.5), AllocationPct: 60, Reason: "Strong earnings"},
		{Rank: 2, Ticker: "MSFT", UpsidePct: f64(-3.2), AllocationPct: 40},
	}

	table := AllocationTable(rows)

	assert.Contains(t, table, "| Rank | Ticker | Upside % | Allocation % | Short Description |")
	assert.Contains(t, table, "| 1 | AAPL | +12.5% | 60% | Strong earnings |")
	assert.Contains(t, table, "| 2 | MSFT | -3.2% | 40% | Ranked by score |")
	assert.True(t, strings.HasSuffix(table, "|      | TOTAL  |          | 100%         | |"))
}

func TestAllocationTableEmptyStillHasFooter(t *testing.T) {
	table := AllocationTable(nil)
	assert.Contains(t, table, "TOTAL")
}

func TestSummary(t *testing.T) {
	results := []models.ScoreResult{
		{
			Symbol: "AAPL",
			Score:  72.4,
			Points: &models.PointBreakdown{Upside: 30.4, Earnings: 15, Analyst: 10, Technical: 17, Total: 72.4},
		},
		{
			Symbol: "MSFT",
			Score:  55,
			Points: &models.PointBreakdown{Upside: 20, Earnings: 10, Analyst: 5, Technical: 20, Total: 55},
		},
	}

	summary := Summary(results)
	assert.Equal(t,
		"AAPL: score 72.4; up 30.4; earn 15.0; analyst 10.0; tech 17.0 | MSFT: score 55.0; up 20.0; earn 10.0; analyst 5.0; tech 20.0",
		summary)
}

func TestSimplePlan(t *testing.T) {
	plan := SimplePlan("aapl", f64(100), f64(98.5))
	assert.Equal(t, "Buy: 98.00 | Target: 105.00 | Stop: 94.00 | Note: MA21 98.50", plan)

	plan = SimplePlan("aapl", f64(100), nil)
	assert.Equal(t, "Buy: 98.00 | Target: 105.00 | Stop: 94.00 | Note: based on latest close", plan)

	plan = SimplePlan("aapl", nil, nil)
	assert.Equal(t, "No data to build a plan for AAPL.", plan)
}

func TestBulkReason(t *testing.T) {
	snap := &models.TickerSnapshot{
		Symbol:      "AAPL",
		UpsidePct:   f64(12.34),
		RSI14:       f64(58.6),
		VolumeTrend: f64(1.25),
	}
	snap.Fundamental.BuyRatingPct = f64(85)

	assert.Equal(t, "Upside 12.3% | Rating 85% | Vol 1.25x | RSI 59", bulkReason(snap))
	assert.Equal(t, "Data available", bulkReason(&models.TickerSnapshot{Symbol: "X"}))
}

func TestBulkSummary(t *testing.T) {
	snap := &models.TickerSnapshot{
		Symbol:      "AAPL",
		UpsidePct:   f64(12.34),
		RSI14:       f64(58.6),
		VolumeTrend: f64(1.25),
	}
	snap.Fundamental.BuyRatingPct = f64(85)

	results := []models.ScoreResult{
		{Symbol: "AAPL", Score: 0.9},
		{Symbol: "MSFT", Score: 0.75},
	}

	summary := BulkSummary(results, map[string]*models.TickerSnapshot{"AAPL": snap})
	lines := strings.Split(summary, "\n")

	assert.Len(t, lines, 2)
	assert.Equal(t, "1. AAPL (score 0.900): Upside 12.3% | Rating 85% | Vol 1.25x | RSI 59", lines[0])
	assert.Equal(t, "2. MSFT (score 0.750): Data available", lines[1])
}

func TestBuildRows(t *testing.T) {
	results := []models.ScoreResult{
		{
			Symbol:        "AAPL",
			Score:         70,
			UpsidePct:     f64(20),
			AllocationPct: 55,
			Points:        &models.PointBreakdown{Upside: 6.7, Earnings: 25, Analyst: 15, Technical: 20, Total: 66.7},
		},
		{
			Symbol:        "MSFT",
			Score:         50,
			AllocationPct: 45,
		},
	}
	snap := &models.TickerSnapshot{
		Symbol:      "AAPL",
		Close:       f64(105),
		SMA50:       f64(100),
		RSI14:       f64(50),
		VolumeTrend: f64(1.2),
	}
	snap.Fundamental.BuyRatingPct = f64(90)

	rows := BuildRows(results, map[string]*models.TickerSnapshot{"AAPL": snap})

	assert.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, "AAPL", rows[0].Ticker)
	assert.Equal(t, 55, rows[0].AllocationPct)
	assert.Contains(t, rows[0].Reason, "Upside ~20.0%")
	assert.Contains(t, rows[0].Reason, "90% buy ratings")
	assert.Contains(t, rows[0].Reason, "neutral RSI")
	assert.Contains(t, rows[0].Reason, "expanding volume")
	assert.Contains(t, rows[0].Reason, "above SMA50")
	assert.Contains(t, rows[0].Reason, "pts: up 6.7")

	// No snapshot and no points still yields a usable reason.
	assert.Equal(t, "Data-driven ranking", rows[1].Reason)
}
