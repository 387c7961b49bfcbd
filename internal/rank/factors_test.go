package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/arkrank/internal/models"
)

func TestFactorScoresNeutralDefaults(t *testing.T) {
	// A ticker missing everything gets each factor's specific default, not
	// a blanket 0.5: volume trend defaults to 0.8 input which lands in the
	// 0.0 score band.
	s := snapshot("EMPTY", nil)
	factors := FactorScores(&s, DefaultConfig())

	assert.InDelta(t, 0.5, factors["momentum"], 1e-9)
	assert.InDelta(t, 0.5, factors["rsi"], 1e-9)
	assert.InDelta(t, 0.5, factors["macd"], 1e-9)
	assert.InDelta(t, 0.0, factors["volume"], 1e-9)
	assert.InDelta(t, 0.5, factors["volatility"], 1e-9)
	assert.InDelta(t, 0.5, factors["upside"], 1e-9)
}

func TestFactorScoresMomentum(t *testing.T) {
	tests := []struct {
		name     string
		close    *float64
		sma20    *float64
		sma50    *float64
		sma200   *float64
		expected float64
	}{
		{"above all", f64(110), f64(105), f64(100), f64(90), 1.0},
		{"above 50 and 200 only", f64(102), f64(105), f64(100), f64(90), 0.7},
		{"above 200 only", f64(95), f64(105), f64(100), f64(90), 0.4},
		{"below 200", f64(85), f64(105), f64(100), f64(90), 0.0},
		{"missing sma50 counts as cleared", f64(110), f64(105), nil, f64(90), 1.0},
		{"missing sma20 counts as cleared", f64(102), nil, f64(100), f64(90), 1.0},
		{"missing sma200 stays neutral", f64(110), f64(105), f64(100), nil, 0.5},
		{"missing close stays neutral", nil, f64(105), f64(100), f64(90), 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := snapshot("T", func(s *models.TickerSnapshot) {
				s.Close = tt.close
				s.SMA20 = tt.sma20
				s.SMA50 = tt.sma50
				s.SMA200 = tt.sma200
			})
			factors := FactorScores(&s, DefaultConfig())
			assert.InDelta(t, tt.expected, factors["momentum"], 1e-9)
		})
	}
}

func TestFactorScoresRSIBands(t *testing.T) {
	tests := []struct {
		rsi      float64
		expected float64
	}{
		{60, 1.0},
		{55, 1.0},
		{69.9, 1.0},
		{52, 0.7},
		{72, 0.7},
		{45, 0.5},
		{78, 0.5},
		{80, 0.5}, // top edge inclusive
		{85, 0.0},
		{30, 0.0},
	}

	for _, tt := range tests {
		s := snapshot("T", func(s *models.TickerSnapshot) { s.RSI14 = f64(tt.rsi) })
		factors := FactorScores(&s, DefaultConfig())
		assert.InDelta(t, tt.expected, factors["rsi"], 1e-9, "rsi=%v", tt.rsi)
	}
}

func TestFactorScoresMACD(t *testing.T) {
	tests := []struct {
		name     string
		macd     *float64
		hist     *float64
		expected float64
	}{
		{"both absent stays neutral", nil, nil, 0.5},
		{"both positive", f64(1), f64(0.2), 1.0},
		{"only macd positive", f64(1), f64(-0.2), 0.5},
		{"only hist positive", f64(-1), f64(0.2), 0.5},
		{"both negative", f64(-1), f64(-0.2), 0.0},
		{"one present negative drops baseline to zero", f64(-1), nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := snapshot("T", func(s *models.TickerSnapshot) {
				s.MACD = tt.macd
				s.MACDHist = tt.hist
			})
			factors := FactorScores(&s, DefaultConfig())
			assert.InDelta(t, tt.expected, factors["macd"], 1e-9)
		})
	}
}

func TestFactorScoresVolumeAndVolatility(t *testing.T) {
	s := snapshot("T", func(s *models.TickerSnapshot) {
		s.VolumeTrend = f64(1.3)
		s.Close = f64(100)
		s.ATR14 = f64(1.0) // ATR% = 1.0
	})
	factors := FactorScores(&s, DefaultConfig())
	assert.InDelta(t, 1.0, factors["volume"], 1e-9)
	assert.InDelta(t, 1.0, factors["volatility"], 1e-9)

	s.VolumeTrend = f64(0.9)
	s.ATR14 = f64(2.5) // ATR% = 2.5
	factors = FactorScores(&s, DefaultConfig())
	assert.InDelta(t, 0.5, factors["volume"], 1e-9)
	assert.InDelta(t, 0.5, factors["volatility"], 1e-9)

	s.VolumeTrend = f64(0.5)
	s.ATR14 = f64(4.0)
	factors = FactorScores(&s, DefaultConfig())
	assert.InDelta(t, 0.0, factors["volume"], 1e-9)
	assert.InDelta(t, 0.0, factors["volatility"], 1e-9)
}

func TestFactorScoresUpsideTiers(t *testing.T) {
	tests := []struct {
		upside   float64
		expected float64
	}{
		{25, 1.3}, // above full marks before the final clamp, intentionally
		{15, 1.1},
		{10, 0.9},
		{5, 0.7},
		{1, 0.5},
		{0, 0.0},
		{-5, 0.0},
	}

	for _, tt := range tests {
		s := snapshot("T", func(s *models.TickerSnapshot) { s.UpsidePct = f64(tt.upside) })
		factors := FactorScores(&s, DefaultConfig())
		assert.InDelta(t, tt.expected, factors["upside"], 1e-9, "upside=%v", tt.upside)
	}
}

func TestScoreTickerClampAndBoost(t *testing.T) {
	strong := snapshot("AAPL", func(s *models.TickerSnapshot) {
		s.Close = f64(110)
		s.SMA20 = f64(105)
		s.SMA50 = f64(100)
		s.SMA200 = f64(90)
		s.RSI14 = f64(60)
		s.MACD = f64(1)
		s.MACDHist = f64(0.2)
		s.VolumeTrend = f64(1.5)
		s.ATR14 = f64(1.0)
		s.UpsidePct = f64(25)
	})
	benchmark := snapshot("SPY", func(s *models.TickerSnapshot) {
		s.RSI14 = f64(50)
		s.VolumeTrend = f64(1.0)
	})

	result := ScoreTicker(&strong, &benchmark, DefaultConfig())

	assert.True(t, result.Boosted)
	// All factors maxed plus the boost exceeds 1.0, so the cap kicks in.
	assert.InDelta(t, 1.0, result.Score, 1e-9)
	assert.NotNil(t, result.Swing)
	assert.Contains(t, result.Reasons, "Above SMA20/50/200")
	assert.Contains(t, result.Reasons, "Outperforming benchmark on RSI+vol")
}

func TestScoreTickerNoBoostForBenchmarkItself(t *testing.T) {
	benchmark := snapshot("SPY", func(s *models.TickerSnapshot) {
		s.RSI14 = f64(60)
		s.VolumeTrend = f64(1.2)
	})

	result := ScoreTicker(&benchmark, &benchmark, DefaultConfig())
	assert.False(t, result.Boosted)
}

func TestScoreTickerNilBenchmarkSkipsBoost(t *testing.T) {
	s := snapshot("AAPL", func(s *models.TickerSnapshot) {
		s.RSI14 = f64(60)
		s.VolumeTrend = f64(1.2)
	})

	result := ScoreTicker(&s, nil, DefaultConfig())
	assert.False(t, result.Boosted)
}

func TestScoreTickerIdempotent(t *testing.T) {
	s := snapshot("AAPL", func(s *models.TickerSnapshot) {
		s.Close = f64(190)
		s.SMA200 = f64(170)
		s.RSI14 = f64(58)
		s.UpsidePct = f64(12)
	})

	first := ScoreTicker(&s, nil, DefaultConfig())
	second := ScoreTicker(&s, nil, DefaultConfig())
	assert.Equal(t, first, second)
}

func TestScoreTickerAlternateWeights(t *testing.T) {
	// Swinging all weight onto momentum must change the total without any
	// engine code changes.
	cfg := DefaultConfig()
	cfg.Weights = Weights{Momentum: 1.0}

	s := snapshot("AAPL", func(s *models.TickerSnapshot) {
		s.Close = f64(110)
		s.SMA20 = f64(105)
		s.SMA50 = f64(100)
		s.SMA200 = f64(90)
	})

	result := ScoreTicker(&s, nil, cfg)
	assert.InDelta(t, 1.0, result.Score, 1e-9)
}

func TestScoreTickerNoSwingBelowThreshold(t *testing.T) {
	s := snapshot("WEAK", func(s *models.TickerSnapshot) {
		s.Close = f64(85)
		s.SMA200 = f64(90)
		s.RSI14 = f64(30)
		s.UpsidePct = f64(-5)
	})

	result := ScoreTicker(&s, nil, DefaultConfig())
	require.Nil(t, result.Swing)
	assert.Less(t, result.Score, 0.8)
}
