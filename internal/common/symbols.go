package common

import "strings"

// NormalizeSymbol canonicalizes a ticker symbol: trimmed and uppercased.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ParseSymbolList splits a comma or whitespace separated list of tickers
// into normalized symbols, dropping empties and duplicates while preserving
// first-seen order.
func ParseSymbolList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n'
	})

	seen := make(map[string]bool, len(fields))
	symbols := make([]string, 0, len(fields))
	for _, f := range fields {
		sym := NormalizeSymbol(f)
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		symbols = append(symbols, sym)
	}
	return symbols
}
