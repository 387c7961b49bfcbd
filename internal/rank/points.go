package rank

import (
	"math"

	"github.com/bobmcallan/arkrank/internal/models"
)

// EarningsPoints scores forward earnings growth: half credit each for the
// current-FY and next-FY growth percentages, negatives floored at zero,
// total capped. When the two-period trend is unavailable a single growth
// scalar stands in for both periods.
func EarningsPoints(s *models.TickerSnapshot, cfg Config) float64 {
	g0 := math.Max(0, orZero(s.Fundamental.EPSGrowthCurrent))
	g1 := math.Max(0, orZero(s.Fundamental.EPSGrowthNext))

	if g0 == 0 && g1 == 0 {
		fallback := math.Max(0, orZero(s.Fundamental.EPSGrowthYoY))
		g0 = fallback
		g1 = fallback
	}

	return math.Min(cfg.EarningsMax, g0*0.5+g1*0.5)
}

// PointScore computes the capped 0-100 component points for one snapshot.
func PointScore(s *models.TickerSnapshot, cfg Config) models.PointBreakdown {
	upside := orZero(s.UpsidePct)
	upsidePts := math.Min(math.Max(upside, 0), cfg.UpsideCapPct) * (cfg.UpsidePointsMax / cfg.UpsideCapPct)

	earnPts := EarningsPoints(s, cfg)

	analystPts := 0.0
	if s.Fundamental.BuyRatingPct != nil {
		analystPts = lookupTier(cfg.AnalystTiers, *s.Fundamental.BuyRatingPct, true)
	}

	techPts := 0.0
	if s.Close != nil && s.SMA50 != nil && *s.Close > *s.SMA50 {
		techPts += cfg.PointsSMA50
	}
	if s.RSI14 != nil && *s.RSI14 >= cfg.RSINeutralLow && *s.RSI14 <= cfg.RSINeutralHigh {
		techPts += cfg.PointsRSI
	}
	if s.VolumeTrend != nil && *s.VolumeTrend > 1 {
		techPts += cfg.PointsVolume
	}

	return models.PointBreakdown{
		Upside:    upsidePts,
		Earnings:  earnPts,
		Analyst:   analystPts,
		Technical: techPts,
		Total:     upsidePts + earnPts + analystPts + techPts,
	}
}

// ScoreTickerPoints wraps PointScore into a ScoreResult for ranking and
// allocation under the point scheme.
func ScoreTickerPoints(s *models.TickerSnapshot, cfg Config) models.ScoreResult {
	points := PointScore(s, cfg)
	return models.ScoreResult{
		Symbol:    s.Symbol,
		Score:     points.Total,
		Close:     s.Close,
		Points:    &points,
		UpsidePct: s.UpsidePct,
		ATRPct:    s.ATRPct(),
	}
}
