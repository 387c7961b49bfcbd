package models

// FactorScoreSet maps factor name to its banded score for one ticker under
// the weighted scheme. Scores are in [0,1] except upside, which may exceed
// 1.0 by design.
type FactorScoreSet map[string]float64

// PointBreakdown carries the capped component points under the 0-100 scheme.
type PointBreakdown struct {
	Upside    float64 `json:"upside_pts"`
	Earnings  float64 `json:"earn_pts"`
	Analyst   float64 `json:"analyst_pts"`
	Technical float64 `json:"tech_pts"`
	Total     float64 `json:"total"`
}

// SwingSetup is a short-horizon trade plan derived from close and ATR.
// RewardRisk is nil when the risk denominator is zero.
type SwingSetup struct {
	EntryLow   float64  `json:"entry_low"`
	EntryHigh  float64  `json:"entry_high"`
	Stop       float64  `json:"stop"`
	Target     float64  `json:"target"`
	RewardRisk *float64 `json:"reward_risk,omitempty"`
}

// ScoreResult is one ticker's outcome of a scoring pass. AllocationPct is 0
// until the allocator has run over the surviving set.
type ScoreResult struct {
	Symbol        string          `json:"symbol"`
	Score         float64         `json:"score"`
	Close         *float64        `json:"close,omitempty"`
	Factors       FactorScoreSet  `json:"factors,omitempty"`
	Points        *PointBreakdown `json:"points,omitempty"`
	UpsidePct     *float64        `json:"upside_pct,omitempty"`
	ATRPct        *float64        `json:"atr_pct,omitempty"`
	Boosted       bool            `json:"boosted"`
	Reasons       []string        `json:"reasons,omitempty"`
	Swing         *SwingSetup     `json:"swing,omitempty"`
	AllocationPct int             `json:"allocation_pct"`
}

// RecommendationRow is one rendered line of the allocation table.
type RecommendationRow struct {
	Rank          int      `json:"rank"`
	Ticker        string   `json:"ticker"`
	UpsidePct     *float64 `json:"upside_pct,omitempty"`
	AllocationPct int      `json:"allocation_pct"`
	Reason        string   `json:"reason"`
}

// RankReport is a full ranking pass output: the ranked list, the filtered
// picks, the allocation rows, and the rendered text.
type RankReport struct {
	AsOf    string              `json:"as_of"`
	Ranked  []ScoreResult       `json:"ranked"`
	Picks   []ScoreResult       `json:"picks"`
	Rows    []RecommendationRow `json:"rows,omitempty"`
	Text    string              `json:"text,omitempty"`
	Source  string              `json:"source"` // "model" or "deterministic"
	Tickers []string            `json:"tickers,omitempty"`
}
