package rank

import (
	"fmt"
	"math"

	"github.com/bobmcallan/arkrank/internal/models"
)

// FactorScores computes the per-factor scores for one snapshot. Each factor
// degrades to its configured neutral default when its inputs are missing, so
// sparse data never zeroes out a ticker.
func FactorScores(s *models.TickerSnapshot, cfg Config) models.FactorScoreSet {
	momentum := cfg.Neutral
	if s.Close != nil && s.SMA200 != nil {
		// A missing shorter average counts as cleared; only SMA200 is
		// required to anchor the trend read.
		above200 := *s.Close > *s.SMA200
		above50 := s.SMA50 == nil || *s.Close > *s.SMA50
		above20 := s.SMA20 == nil || *s.Close > *s.SMA20
		switch {
		case above20 && above50 && above200:
			momentum = 1.0
		case above50 && above200:
			momentum = 0.7
		case above200:
			momentum = 0.4
		default:
			momentum = 0.0
		}
	}

	rsi := cfg.Neutral
	if s.RSI14 != nil {
		rsi = lookupBand(cfg.RSIBands, *s.RSI14, 0.0)
	}

	macd := cfg.Neutral
	if s.MACD != nil || s.MACDHist != nil {
		macd = 0.0
		macdPos := orZero(s.MACD) > 0
		histPos := orZero(s.MACDHist) > 0
		if macdPos && histPos {
			macd = 1.0
		} else if macdPos || histPos {
			macd = 0.5
		}
	}

	volTrend := cfg.VolTrendBase
	if s.VolumeTrend != nil {
		volTrend = *s.VolumeTrend
	}
	volume := 0.0
	if volTrend > 1 {
		volume = 1.0
	} else if volTrend > 0.8 {
		volume = 0.5
	}

	volatility := cfg.Neutral
	if atrPct := s.ATRPct(); atrPct != nil {
		switch {
		case *atrPct < 1.5:
			volatility = 1.0
		case *atrPct < 3:
			volatility = 0.5
		default:
			volatility = 0.0
		}
	}

	upside := cfg.Neutral
	if s.UpsidePct != nil {
		upside = lookupTier(cfg.UpsideTiers, *s.UpsidePct, false)
	}

	return models.FactorScoreSet{
		"momentum":   momentum,
		"rsi":        rsi,
		"macd":       macd,
		"volume":     volume,
		"volatility": volatility,
		"upside":     upside,
	}
}

// ScoreTicker aggregates the weighted factor score for one snapshot,
// applying the relative-strength boost against the benchmark and clamping
// at the score cap. The benchmark may be nil, which skips boosting.
func ScoreTicker(s *models.TickerSnapshot, benchmark *models.TickerSnapshot, cfg Config) models.ScoreResult {
	factors := FactorScores(s, cfg)

	score := factors["momentum"]*cfg.Weights.Momentum +
		factors["rsi"]*cfg.Weights.RSI +
		factors["macd"]*cfg.Weights.MACD +
		factors["volume"]*cfg.Weights.Volume +
		factors["volatility"]*cfg.Weights.Volatility +
		factors["upside"]*cfg.Weights.Upside

	boosted := false
	if benchmark != nil && benchmark.Symbol != s.Symbol {
		if orZero(s.RSI14) > orZero(benchmark.RSI14) && orZero(s.VolumeTrend) > orZero(benchmark.VolumeTrend) {
			score += cfg.Boost
			boosted = true
		}
	}
	score = math.Min(score, cfg.ScoreCap)

	result := models.ScoreResult{
		Symbol:    s.Symbol,
		Score:     round3(score),
		Close:     s.Close,
		Factors:   factors,
		UpsidePct: s.UpsidePct,
		ATRPct:    s.ATRPct(),
		Boosted:   boosted,
		Reasons:   factorReasons(factors, s.UpsidePct, boosted),
	}

	if score >= cfg.SwingThreshold {
		result.Swing = BuildSwingSetup(s, cfg)
	}

	return result
}

// factorReasons renders display-only strings from the score bands. Nothing
// downstream consumes them.
func factorReasons(factors models.FactorScoreSet, upsidePct *float64, boosted bool) []string {
	var reasons []string

	switch {
	case factors["momentum"] >= 1.0:
		reasons = append(reasons, "Above SMA20/50/200")
	case factors["momentum"] >= 0.7:
		reasons = append(reasons, "Above SMA50/200")
	case factors["momentum"] >= 0.4:
		reasons = append(reasons, "Above SMA200")
	}
	if factors["macd"] >= 1.0 {
		reasons = append(reasons, "MACD>0 with rising hist")
	} else if factors["macd"] >= 0.5 {
		reasons = append(reasons, "MACD leaning bullish")
	}
	if factors["rsi"] >= 1.0 {
		reasons = append(reasons, "RSI in bullish zone")
	}
	if factors["volume"] >= 1.0 {
		reasons = append(reasons, "Volume trend rising")
	}
	if factors["volatility"] >= 1.0 {
		reasons = append(reasons, "ATR% <1.5")
	} else if factors["volatility"] == 0.0 {
		reasons = append(reasons, "ATR% elevated")
	}
	if upsidePct != nil {
		reasons = append(reasons, fmt.Sprintf("Upside %.1f%%", *upsidePct))
	}
	if boosted {
		reasons = append(reasons, "Outperforming benchmark on RSI+vol")
	}

	return reasons
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
