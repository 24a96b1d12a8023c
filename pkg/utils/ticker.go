// Package utils provides small shared helpers: ticker normalization and
// display formatting.
package utils

import "strings"

// Common company-name shorthands mapped to their US tickers.
var tickerAliases = map[string]string{
	"APPLE":      "AAPL",
	"MICROSOFT":  "MSFT",
	"GOOGLE":     "GOOGL",
	"ALPHABET":   "GOOGL",
	"AMAZON":     "AMZN",
	"META":       "META",
	"FACEBOOK":   "META",
	"NVIDIA":     "NVDA",
	"TESLA":      "TSLA",
	"NETFLIX":    "NFLX",
	"BERKSHIRE":  "BRK-B",
	"JPMORGAN":   "JPM",
	"WALMART":    "WMT",
	"VISA":       "V",
	"INTEL":      "INTC",
	"AMD":        "AMD",
	"ORACLE":     "ORCL",
	"SALESFORCE": "CRM",
	"DISNEY":     "DIS",
	"BOEING":     "BA",
}

// NormalizeTicker uppercases and trims a user-supplied symbol, resolves
// common company-name aliases, and converts share-class dots to the
// dash convention most providers expect (BRK.B → BRK-B).
func NormalizeTicker(s string) string {
	t := strings.ToUpper(strings.TrimSpace(s))
	if alias, ok := tickerAliases[t]; ok {
		return alias
	}
	t = strings.ReplaceAll(t, ".", "-")
	return t
}

// ValidTicker reports whether a normalized symbol looks like a real
// ticker: 1-10 chars, letters, digits and dashes only.
func ValidTicker(s string) bool {
	if len(s) == 0 || len(s) > 10 {
		return false
	}
	for _, c := range s {
		if !((c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-') {
			return false
		}
	}
	return true
}
