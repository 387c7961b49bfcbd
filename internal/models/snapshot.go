// Package models defines the data structures shared across Arkrank services.
package models

import "time"

// RawPayload is one ticker's upstream record before normalization. Fields
// arrive in whatever shape the data source produced: flat fundamentals, a
// technical row, and nested modules keyed by ticker in unknown case.
type RawPayload struct {
	Symbol       string                    `json:"symbol"`
	Row          map[string]any            `json:"row,omitempty"`
	Fundamentals map[string]any            `json:"fundamentals,omitempty"`
	Modules      map[string]map[string]any `json:"modules,omitempty"`
}

// TickerSnapshot is one ticker's normalized market state at a point in time.
// Numeric fields are nil when absent; they are never NaN or infinite.
type TickerSnapshot struct {
	Symbol      string             `json:"symbol"`
	Close       *float64           `json:"close,omitempty"`
	Volume      *float64           `json:"volume,omitempty"`
	SMA20       *float64           `json:"sma20,omitempty"`
	SMA50       *float64           `json:"sma50,omitempty"`
	SMA200      *float64           `json:"sma200,omitempty"`
	RSI14       *float64           `json:"rsi14,omitempty"`
	MACD        *float64           `json:"macd,omitempty"`
	MACDHist    *float64           `json:"macd_hist,omitempty"`
	ATR14       *float64           `json:"atr14,omitempty"`
	VolumeTrend *float64           `json:"volume_trend,omitempty"`
	UpsidePct   *float64           `json:"upside_pct,omitempty"`
	Extras      map[string]string  `json:"extras,omitempty"`
	Fundamental FundamentalMetrics `json:"fundamental"`
}

// FundamentalMetrics carries the non-technical inputs used by the point
// scorer and the eligibility gates.
type FundamentalMetrics struct {
	FiftyTwoWeekHigh *float64 `json:"fifty_two_week_high,omitempty"`
	TargetMeanPrice  *float64 `json:"target_mean_price,omitempty"`
	AvgVolume        *float64 `json:"avg_volume,omitempty"`
	BuyRatingPct     *float64 `json:"buy_rating_pct,omitempty"`
	EPSGrowthCurrent *float64 `json:"eps_growth_current,omitempty"` // current FY, percent
	EPSGrowthNext    *float64 `json:"eps_growth_next,omitempty"`    // next FY, percent
	EPSGrowthYoY     *float64 `json:"eps_growth_yoy,omitempty"`     // scalar fallback, percent
	AnnualEPSGrowth  *float64 `json:"annual_eps_growth,omitempty"`
	ROE              *float64 `json:"roe,omitempty"`
	YTDPct           *float64 `json:"ytd_pct,omitempty"`
	Beta             *float64 `json:"beta,omitempty"`
	ForwardPE        *float64 `json:"forward_pe,omitempty"`
	Sector           string   `json:"sector,omitempty"`
}

// ATRPct returns ATR14 as a percentage of close, or nil if either input is
// missing or close is zero.
func (s *TickerSnapshot) ATRPct() *float64 {
	if s.ATR14 == nil || s.Close == nil || *s.Close == 0 {
		return nil
	}
	pct := *s.ATR14 / *s.Close * 100
	return &pct
}

// StoredSnapshot is the persisted form of a snapshot in the file cache.
type StoredSnapshot struct {
	Snapshot  TickerSnapshot `json:"snapshot"`
	Bars      []DailyBar     `json:"bars,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// DailyBar is one day of OHLCV history, used to derive indicators when the
// upstream snapshot is sparse.
type DailyBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}
