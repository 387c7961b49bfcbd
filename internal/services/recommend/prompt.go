package recommend

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bobmcallan/arkrank/internal/models"
)

// buildBulkPrompt composes the capital-allocation prompt: the scoring rules
// the model must follow plus the snapshot data as JSON. The rules mirror
// the deterministic point scheme so either path yields comparable tables.
func buildBulkPrompt(snaps []models.TickerSnapshot, asOf string) string {
	tickers := make([]string, 0, len(snaps))
	for _, s := range snaps {
		tickers = append(tickers, s.Symbol)
	}

	data, _ := json.MarshalIndent(snaps, "", "  ")

	var sb strings.Builder
	sb.WriteString("You are a prop swing desk. 100% offline. Use ONLY the JSON I provide.\n\n")
	sb.WriteString("Task: rank the stocks and allocate capital (total = exactly 100%).\n\n")
	sb.WriteString("Scoring logic (strict order, total max 100 points):\n")
	sb.WriteString("1. Raw upside contribution: min(upside %, 120) x (40/120), max 40 points.\n")
	sb.WriteString("2. Earnings growth power: (current FY growth % x 0.5) + (next FY growth % x 0.5), negatives count 0, capped at 25.\n")
	sb.WriteString("3. Analyst conviction: buy rating 90-100% -> 15 | 70-89% -> 10 | 50-69% -> 5 | below 50% -> 0.\n")
	sb.WriteString("4. Technical confluence: +7 close above SMA50, +7 RSI14 between 38-62, +6 volume trend above 1.0.\n")
	sb.WriteString("5. Allocation % = score / sum of scores x 100, integers summing to exactly 100. Stocks under 30 points get 0% and are excluded.\n\n")
	sb.WriteString("Output ONLY a markdown table with columns Rank, Ticker, Upside %, Allocation %, Short Description, ending with a TOTAL 100% row.\n\n")
	sb.WriteString(fmt.Sprintf("Tickers: %s\n\n", strings.Join(tickers, ", ")))
	sb.WriteString(fmt.Sprintf("Data provided (as of %s): %s", asOf, string(data)))
	return sb.String()
}

// buildPlanPrompt composes the single-ticker swing plan prompt.
func buildPlanPrompt(snap *models.TickerSnapshot) string {
	data, _ := json.MarshalIndent(snap, "", "  ")

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are a swing trader. Given the metrics for %s below, ", snap.Symbol))
	sb.WriteString("reply in one line with a trade plan naming buy, target, and stop prices.\n\n")
	sb.WriteString(string(data))
	return sb.String()
}
