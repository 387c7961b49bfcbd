package recommend

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/arkrank/internal/models"
)

// AllocationTable renders the ranked rows as a markdown table with a forced
// TOTAL footer. Pure formatting; no decision logic.
func AllocationTable(rows []models.RecommendationRow) string {
	var sb strings.Builder
	sb.WriteString("| Rank | Ticker | Upside % | Allocation % | Short Description |\n")
	sb.WriteString("|------|--------|----------|--------------|-------------------|\n")

	for _, row := range rows {
		upside := "n/a"
		if row.UpsidePct != nil {
			upside = fmt.Sprintf("%+.1f%%", *row.UpsidePct)
		}
		reason := row.Reason
		if reason == "" {
			reason = "Ranked by score"
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %d%% | %s |\n", row.Rank, row.Ticker, upside, row.AllocationPct, reason))
	}

	sb.WriteString("|      | TOTAL  |          | 100%         | |")
	return sb.String()
}

// Summary renders a one-line per-ticker point breakdown, pipe-joined.
func Summary(results []models.ScoreResult) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		if r.Points == nil {
			continue
		}
		b := r.Points
		parts = append(parts, fmt.Sprintf(
			"%s: score %.1f; up %.1f; earn %.1f; analyst %.1f; tech %.1f",
			r.Symbol, r.Score, b.Upside, b.Earnings, b.Analyst, b.Technical,
		))
	}
	return strings.Join(parts, " | ")
}

// SimplePlan builds the deterministic trade plan used when the model is
// unavailable: a tight band around the latest close.
func SimplePlan(symbol string, close, ma *float64) string {
	if close == nil {
		return fmt.Sprintf("No data to build a plan for %s.", strings.ToUpper(symbol))
	}
	buy := *close * 0.98
	target := *close * 1.05
	stop := *close * 0.94

	note := "based on latest close"
	if ma != nil {
		note = fmt.Sprintf("MA21 %.2f", *ma)
	}
	return fmt.Sprintf("Buy: %.2f | Target: %.2f | Stop: %.2f | Note: %s", buy, target, stop, note)
}

// BulkSummary renders the deterministic bulk ranking text: one line per
// ranked ticker with its score and the compact snapshot explanation.
func BulkSummary(results []models.ScoreResult, snapshots map[string]*models.TickerSnapshot) string {
	lines := make([]string, 0, len(results))
	for i, r := range results {
		lines = append(lines, fmt.Sprintf("%d. %s (score %.3f): %s", i+1, r.Symbol, r.Score, bulkReason(snapshots[r.Symbol])))
	}
	return strings.Join(lines, "\n")
}

// bulkReason builds the compact per-row explanation used by the
// deterministic bulk ranking.
func bulkReason(snap *models.TickerSnapshot) string {
	if snap == nil {
		return "Data available"
	}
	var parts []string
	if snap.UpsidePct != nil {
		parts = append(parts, fmt.Sprintf("Upside %.1f%%", *snap.UpsidePct))
	}
	if r := snap.Fundamental.BuyRatingPct; r != nil && *r != 0 {
		parts = append(parts, fmt.Sprintf("Rating %.0f%%", *r))
	}
	if v := snap.VolumeTrend; v != nil && *v != 0 {
		parts = append(parts, fmt.Sprintf("Vol %.2fx", *v))
	}
	if r := snap.RSI14; r != nil && *r != 0 {
		parts = append(parts, fmt.Sprintf("RSI %.0f", *r))
	}
	if len(parts) == 0 {
		return "Data available"
	}
	return truncate(strings.Join(parts, " | "), 80)
}

// allocationReason builds the richer per-row explanation for the point
// scheme, ending with the component points.
func allocationReason(result *models.ScoreResult, snap *models.TickerSnapshot) string {
	var parts []string
	if result.UpsidePct != nil {
		parts = append(parts, fmt.Sprintf("Upside ~%.1f%%", *result.UpsidePct))
	}
	if snap != nil {
		if r := snap.Fundamental.BuyRatingPct; r != nil && *r != 0 {
			parts = append(parts, fmt.Sprintf("%.0f%% buy ratings", *r))
		}
		if r := snap.RSI14; r != nil && *r >= 38 && *r <= 62 {
			parts = append(parts, "neutral RSI")
		}
		if v := snap.VolumeTrend; v != nil && *v > 1 {
			parts = append(parts, "expanding volume")
		}
		if snap.Close != nil && snap.SMA50 != nil && *snap.Close > *snap.SMA50 {
			parts = append(parts, "above SMA50")
		}
	}
	if b := result.Points; b != nil {
		parts = append(parts, fmt.Sprintf(
			"pts: up %.1f, earn %.1f, analyst %.1f, tech %.1f, total %.1f",
			b.Upside, b.Earnings, b.Analyst, b.Technical, b.Total,
		))
	}
	if len(parts) == 0 {
		return "Data-driven ranking"
	}
	return truncate(strings.Join(parts, "; "), 200)
}

// BuildRows converts allocated score results into display rows.
func BuildRows(results []models.ScoreResult, snapshots map[string]*models.TickerSnapshot) []models.RecommendationRow {
	rows := make([]models.RecommendationRow, 0, len(results))
	for i, r := range results {
		rows = append(rows, models.RecommendationRow{
			Rank:          i + 1,
			Ticker:        r.Symbol,
			UpsidePct:     r.UpsidePct,
			AllocationPct: r.AllocationPct,
			Reason:        allocationReason(&r, snapshots[r.Symbol]),
		})
	}
	return rows
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
