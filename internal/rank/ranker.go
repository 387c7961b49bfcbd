package rank

import (
	"math"
	"sort"

	"github.com/bobmcallan/arkrank/internal/models"
)

// SortWeighted orders results by descending score, then descending upside,
// then ascending ATR% with missing ATR% last. The sort is stable: full ties
// keep input order.
func SortWeighted(results []models.ScoreResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if ua, ub := orZero(a.UpsidePct), orZero(b.UpsidePct); ua != ub {
			return ua > ub
		}
		return atrOrInf(a.ATRPct) < atrOrInf(b.ATRPct)
	})
}

// SortPoints orders results by descending score, then descending upside.
func SortPoints(results []models.ScoreResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return orZero(a.UpsidePct) > orZero(b.UpsidePct)
	})
}

func atrOrInf(v *float64) float64 {
	if v == nil {
		return math.Inf(1)
	}
	return *v
}

// RankWeighted scores every snapshot under the weighted scheme, sorts, and
// returns the full ranking plus the top picks that strictly clear the pick
// threshold. The benchmark snapshot drives the relative-strength boost and
// may be nil.
func RankWeighted(snapshots []models.TickerSnapshot, benchmark *models.TickerSnapshot, cfg Config) (ranked, picks []models.ScoreResult) {
	ranked = make([]models.ScoreResult, 0, len(snapshots))
	for i := range snapshots {
		ranked = append(ranked, ScoreTicker(&snapshots[i], benchmark, cfg))
	}
	SortWeighted(ranked)

	picks = AboveMinScore(ranked, cfg.PickThreshold, true)
	if len(picks) > cfg.MaxPicks {
		picks = picks[:cfg.MaxPicks]
	}
	return ranked, picks
}

// RankPoints scores snapshots under the point scheme, drops candidates
// below the minimum, sorts, caps the row count, and allocates capital
// across the survivors.
func RankPoints(snapshots []models.TickerSnapshot, cfg Config) []models.ScoreResult {
	scored := make([]models.ScoreResult, 0, len(snapshots))
	for i := range snapshots {
		scored = append(scored, ScoreTickerPoints(&snapshots[i], cfg))
	}

	scored = AboveMinScore(scored, cfg.MinPoints, false)
	SortPoints(scored)
	if len(scored) > cfg.MaxRows {
		scored = scored[:cfg.MaxRows]
	}

	Allocate(scored)
	return scored
}
