package rank

import "github.com/bobmcallan/arkrank/internal/models"

// PassesUptrend is the hard trend gate: a candidate fails when its close
// sits at or below SMA50 or SMA200. Each comparison needs both values
// present; missing values do not fail the gate here.
func PassesUptrend(s *models.TickerSnapshot) bool {
	if s.Close == nil {
		return true
	}
	if s.SMA50 != nil && *s.Close <= *s.SMA50 {
		return false
	}
	if s.SMA200 != nil && *s.Close <= *s.SMA200 {
		return false
	}
	return true
}

// PassesETFUptrend is the stricter ETF variant: missing close, SMA50, or
// SMA200 is an automatic drop.
func PassesETFUptrend(s *models.TickerSnapshot) bool {
	if s.Close == nil || s.SMA50 == nil || s.SMA200 == nil {
		return false
	}
	return *s.Close > *s.SMA50 && *s.Close > *s.SMA200
}

// CANSLIMResult reports the multi-rule growth-stock gate: which rules a
// candidate cleared and whether the whole gate passed.
type CANSLIMResult struct {
	Passed bool     `json:"passed"`
	Rules  []string `json:"rules"`  // rules that passed, in C-A-N-S-L-I-M order
	Failed []string `json:"failed"` // rules that failed, missing data included
}

// EvaluateCANSLIM applies the seven CANSLIM-style rules. Missing data fails
// the rule it belongs to. The market rule (M) is assumed satisfied; market
// direction is outside the snapshot's scope.
func EvaluateCANSLIM(s *models.TickerSnapshot) CANSLIMResult {
	f := s.Fundamental

	type rule struct {
		name string
		pass bool
	}

	rules := []rule{
		{"C", f.EPSGrowthCurrent != nil && *f.EPSGrowthCurrent >= 25},
		{"A", f.AnnualEPSGrowth != nil && *f.AnnualEPSGrowth >= 25 && f.ROE != nil && *f.ROE >= 17},
		{"N", nearHigh(s.Close, f.FiftyTwoWeekHigh, 5)},
		{"S", volumeSurge(s.Volume, f.AvgVolume, 1.5)},
		{"L", f.YTDPct != nil && *f.YTDPct > 0},
		{"I", f.BuyRatingPct != nil && *f.BuyRatingPct >= 50},
		{"M", true},
	}

	result := CANSLIMResult{Passed: true}
	for _, r := range rules {
		if r.pass {
			result.Rules = append(result.Rules, r.name)
		} else {
			result.Failed = append(result.Failed, r.name)
			result.Passed = false
		}
	}
	return result
}

// nearHigh reports whether close is within tolerancePct of the 52-week high.
func nearHigh(close, high *float64, tolerancePct float64) bool {
	if close == nil || high == nil || *high == 0 {
		return false
	}
	return *close >= *high*(1-tolerancePct/100)
}

// volumeSurge reports whether today's volume is at least ratio times the
// trailing average.
func volumeSurge(volume, avg *float64, ratio float64) bool {
	if volume == nil || avg == nil || *avg == 0 {
		return false
	}
	return *volume >= *avg*ratio
}

// AboveMinScore filters results by a score floor. Strict requires the score
// to exceed the floor; otherwise meeting it is enough.
func AboveMinScore(results []models.ScoreResult, floor float64, strict bool) []models.ScoreResult {
	kept := make([]models.ScoreResult, 0, len(results))
	for _, r := range results {
		if strict && r.Score > floor {
			kept = append(kept, r)
		} else if !strict && r.Score >= floor {
			kept = append(kept, r)
		}
	}
	return kept
}
