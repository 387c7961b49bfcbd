package rank

import "github.com/bobmcallan/arkrank/internal/models"

func f64(v float64) *float64 {
	return &v
}

// snapshot builds a minimal TickerSnapshot for tests.
func snapshot(symbol string, mutate func(*models.TickerSnapshot)) models.TickerSnapshot {
	s := models.TickerSnapshot{Symbol: symbol}
	if mutate != nil {
		mutate(&s)
	}
	return s
}
