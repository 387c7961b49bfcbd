package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlausiblePlan(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{
			"valid plan",
			"AAPL: Buy 186.20-188.10, target 199.50, stop 178.90",
			true,
		},
		{
			"missing stop keyword",
			"AAPL: Buy 186.20, target 199.50",
			false,
		},
		{
			"too few digits",
			"Buy low, target high, stop 5",
			false,
		},
		{
			"template leakage",
			"You are a swing trader. Buy 186, target 199, stop 178",
			false,
		},
		{
			"reply-in-one-line leakage",
			"Reply in one line: buy 186, target 199, stop 178",
			false,
		},
		{
			"empty",
			"",
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PlausiblePlan(tt.text))
		})
	}
}

func TestPlausibleBulk(t *testing.T) {
	tickers := []string{"AAPL", "MSFT"}
	valid := "| 1 | AAPL | +12.5% | 40% | Strong earnings, above SMA50 |\n| 2 | MSFT | +8.0% | 60% | Expanding volume |"

	tests := []struct {
		name     string
		text     string
		tickers  []string
		expected bool
	}{
		{"valid table", valid, tickers, true},
		{"empty", "   ", tickers, false},
		{"screenshot apology", "I cannot read the screenshot you provided, please paste the data as text instead.", tickers, false},
		{"too short", "AAPL looks fine.", tickers, false},
		{"no ticker mentioned", "Here is a thorough ranking of several promising equities for your consideration today.", tickers, false},
		{"no tickers requested", "Here is a thorough ranking of several promising equities for your consideration today.", nil, true},
		{"lowercase ticker still matches", "ranked list:\n1. aapl with strong momentum and expanding volume across sessions", tickers, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PlausibleBulk(tt.text, tt.tickers))
		})
	}
}
