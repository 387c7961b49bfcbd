package rank

import "github.com/bobmcallan/arkrank/internal/models"

// BuildSwingSetup derives an ATR-anchored trade plan from a snapshot. When
// ATR is missing it falls back to a fixed percentage of the close. Returns
// nil when there is no close to anchor on.
func BuildSwingSetup(s *models.TickerSnapshot, cfg Config) *models.SwingSetup {
	if s.Close == nil {
		return nil
	}
	close := *s.Close

	atr := close * cfg.ATRFallbackPct / 100
	if s.ATR14 != nil && *s.ATR14 != 0 {
		atr = *s.ATR14
	}

	entryLow := close - cfg.EntryBandATR*atr
	entryHigh := close + cfg.EntryBandATR*atr
	stop := close - cfg.StopATR*atr
	target := close + cfg.TargetATR*atr

	setup := &models.SwingSetup{
		EntryLow:  round2(entryLow),
		EntryHigh: round2(entryHigh),
		Stop:      round2(stop),
		Target:    round2(target),
	}

	midEntry := (entryLow + entryHigh) / 2
	if stop != midEntry {
		rr := round2((target - midEntry) / (midEntry - stop))
		setup.RewardRisk = &rr
	}

	return setup
}
