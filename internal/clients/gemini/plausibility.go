package gemini

import "strings"

// Model output occasionally comes back truncated, off-template, or echoing
// the prompt itself. These checks gate whether a response is usable; a
// failing response is replaced by the deterministic renderer, never
// surfaced as an error.

// leakagePhrases are prompt fragments that indicate the model echoed its
// instructions instead of answering.
var leakagePhrases = []string{
	"reply in one line",
	"you are",
}

// PlausiblePlan reports whether a single-ticker trade plan looks real: it
// must name buy, target, and stop levels, carry at least three digits, and
// not leak the prompt template.
func PlausiblePlan(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range []string{"buy", "target", "stop"} {
		if !strings.Contains(lower, kw) {
			return false
		}
	}
	if countDigits(text) < 3 {
		return false
	}
	for _, phrase := range leakagePhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}
	return true
}

// PlausibleBulk reports whether a bulk ranking response looks real: not
// empty, not an apology about screenshots, long enough to carry a table,
// and mentioning at least one of the requested tickers.
func PlausibleBulk(text string, tickers []string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	lower := strings.ToLower(trimmed)
	if strings.Contains(lower, "screenshot") {
		return false
	}
	if len(trimmed) < 50 {
		return false
	}
	if len(tickers) == 0 {
		return true
	}
	upper := strings.ToUpper(trimmed)
	for _, t := range tickers {
		if t != "" && strings.Contains(upper, strings.ToUpper(t)) {
			return true
		}
	}
	return false
}

func countDigits(s string) int {
	count := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			count++
		}
	}
	return count
}
