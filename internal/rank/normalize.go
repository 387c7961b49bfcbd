package rank

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/bobmcallan/arkrank/internal/models"
)

// coerceFloat converts an arbitrary JSON-decoded value into a finite float.
// Non-numeric values, NaN, and infinities all come back as nil, never zero.
func coerceFloat(v any) *float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// CoerceModule resolves a nested module map for a symbol. Upstream APIs key
// modules by whatever case was requested, so the lookup tries the exact
// symbol, then lowercase, then falls back to a singleton entry. Anything
// else resolves to an empty map.
func CoerceModule(modules map[string]map[string]any, name, symbol string) map[string]any {
	mod, ok := modules[name]
	if !ok || mod == nil {
		return map[string]any{}
	}
	if inner, ok := mod[symbol]; ok {
		return asMap(inner)
	}
	if inner, ok := mod[strings.ToLower(symbol)]; ok {
		return asMap(inner)
	}
	if len(mod) == 1 {
		for _, inner := range mod {
			if m := asMap(inner); len(m) > 0 {
				return m
			}
		}
	}
	// Module may already be flat rather than keyed by symbol.
	if looksFlat(mod) {
		return mod
	}
	return map[string]any{}
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// looksFlat reports whether a module map holds field values directly rather
// than per-symbol sub-maps.
func looksFlat(m map[string]any) bool {
	for _, v := range m {
		if _, ok := v.(map[string]any); !ok {
			return true
		}
	}
	return false
}

// firstFloat returns the first coercible value among the named keys in the
// given maps, searched in order.
func firstFloat(maps []map[string]any, keys ...string) *float64 {
	for _, m := range maps {
		if m == nil {
			continue
		}
		for _, k := range keys {
			if v, ok := m[k]; ok {
				if f := coerceFloat(v); f != nil {
					return f
				}
			}
		}
	}
	return nil
}

// Normalize flattens one raw ticker payload into a TickerSnapshot. It is a
// pure transform: malformed or missing values degrade to absent fields.
func Normalize(raw models.RawPayload) models.TickerSnapshot {
	symbol := strings.ToUpper(strings.TrimSpace(raw.Symbol))
	sources := []map[string]any{raw.Row, raw.Fundamentals}

	summary := CoerceModule(raw.Modules, "summaryDetail", symbol)
	keyStats := CoerceModule(raw.Modules, "defaultKeyStatistics", symbol)
	price := CoerceModule(raw.Modules, "price", symbol)
	financial := CoerceModule(raw.Modules, "financialData", symbol)
	withModules := append(sources, summary, keyStats, price, financial)

	snap := models.TickerSnapshot{
		Symbol:      symbol,
		Close:       firstFloat(withModules, "close", "current_price", "regularMarketPrice"),
		Volume:      firstFloat(sources, "volume"),
		SMA20:       firstFloat(sources, "sma20", "sma_20"),
		SMA50:       firstFloat(withModules, "sma50", "sma_50", "fiftyDayAverage"),
		SMA200:      firstFloat(withModules, "sma200", "sma_200", "twoHundredDayAverage"),
		RSI14:       firstFloat(sources, "rsi14", "rsi"),
		MACD:        firstFloat(sources, "macd"),
		MACDHist:    firstFloat(sources, "macd_hist", "macd_histogram"),
		ATR14:       firstFloat(sources, "atr14", "atr"),
		VolumeTrend: firstFloat(sources, "volume_trend"),
	}

	snap.Fundamental = models.FundamentalMetrics{
		FiftyTwoWeekHigh: firstFloat(withModules, "fifty_two_week_high", "fiftyTwoWeekHigh"),
		TargetMeanPrice:  firstFloat(withModules, "target_mean_price", "targetMeanPrice"),
		AvgVolume:        firstFloat(withModules, "avg_volume", "averageVolume"),
		BuyRatingPct:     buyRatingPct(raw, symbol, sources),
		EPSGrowthCurrent: earningsGrowthPct(raw, symbol, "0y"),
		EPSGrowthNext:    earningsGrowthPct(raw, symbol, "+1y"),
		EPSGrowthYoY:     growthScalar(firstFloat(append(sources, financial), "eps_growth_yoy", "earningsGrowth")),
		AnnualEPSGrowth:  firstFloat(sources, "annual_eps_growth"),
		ROE:              growthScalar(firstFloat(append(sources, financial), "roe", "returnOnEquity")),
		YTDPct:           firstFloat(sources, "ytd_pct"),
		Beta:             firstFloat(withModules, "beta"),
		ForwardPE:        firstFloat(withModules, "forward_pe", "forwardPE", "pe_forward"),
		Sector:           sectorName(sources, price),
	}

	// Upside prefers an explicit percentage, then the analyst target, then
	// the 52-week high as a last resort.
	snap.UpsidePct = firstFloat(sources, "upside_pct", "target_upside_pct")
	if snap.UpsidePct == nil {
		snap.UpsidePct = deriveUpside(snap.Close, snap.Fundamental.TargetMeanPrice, snap.Fundamental.FiftyTwoWeekHigh)
	}

	return snap
}

// deriveUpside computes percent upside from close to the analyst mean
// target, falling back to the 52-week high.
func deriveUpside(close, target, high *float64) *float64 {
	ref := target
	if ref == nil {
		ref = high
	}
	if ref == nil || close == nil || *close == 0 {
		return nil
	}
	pct := (*ref - *close) / *close * 100
	return &pct
}

// buyRatingPct reads an explicit buy rating percentage or derives it from
// the first row of the recommendation trend table.
func buyRatingPct(raw models.RawPayload, symbol string, sources []map[string]any) *float64 {
	if v := firstFloat(sources, "buy_rating_pct"); v != nil {
		return v
	}

	rec := CoerceModule(raw.Modules, "recommendationTrend", symbol)
	trend, ok := rec["trend"].([]any)
	if !ok || len(trend) == 0 {
		return nil
	}
	row := asMap(trend[0])
	strongBuy := coerceFloat(row["strongBuy"])
	buy := coerceFloat(row["buy"])
	hold := coerceFloat(row["hold"])
	sell := coerceFloat(row["sell"])
	strongSell := coerceFloat(row["strongSell"])

	total := orZero(strongBuy) + orZero(buy) + orZero(hold) + orZero(sell) + orZero(strongSell)
	if total == 0 {
		return nil
	}
	pct := (orZero(strongBuy) + orZero(buy)) / total * 100
	return &pct
}

// earningsGrowthPct extracts the growth figure for a named period ("0y" or
// "+1y") from the earnings trend module, expressed as a percentage.
func earningsGrowthPct(raw models.RawPayload, symbol, period string) *float64 {
	mod := CoerceModule(raw.Modules, "earningsTrend", symbol)
	trend, ok := mod["trend"].([]any)
	if !ok {
		return nil
	}
	for _, item := range trend {
		row := asMap(item)
		p, _ := row["period"].(string)
		if strings.ToLower(p) != period {
			continue
		}
		return growthScalar(coerceFloat(row["growth"]))
	}
	return nil
}

// growthScalar widens a 0.25-style fraction into a percentage; values with
// magnitude above 1 are assumed to already be percentages.
func growthScalar(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	if math.Abs(f) <= 1 {
		f *= 100
	}
	return &f
}

func sectorName(sources []map[string]any, price map[string]any) string {
	for _, m := range append(sources, price) {
		if m == nil {
			continue
		}
		for _, k := range []string{"sectorDisp", "sector"} {
			if s, ok := m[k].(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
