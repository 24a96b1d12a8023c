// Package normalize merges provider-shaped statement data into the
// canonical multi-year financial model. All defensive numeric coercion
// lives here, in exactly one function pair: StatementValue for statement
// figures (absent → zero) and MarketValue for market figures (absent →
// explicit unknown). Provider adapters call these instead of scattering
// parse-or-default logic across call sites.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/seenimoa/finlens/pkg/models"
)

// Sentinels providers use for "no value". Matched case-insensitively
// after trimming.
var absenceSentinels = map[string]bool{
	"":            true,
	"-":           true,
	"--":          true,
	"none":        true,
	"null":        true,
	"nil":         true,
	"n/a":         true,
	"na":          true,
	"nan":         true,
	"unavailable": true,
}

// StatementValue coerces any provider value to a finite float64. Absent
// and sentinel values become zero, which is the correct default for
// statement figures: a company with no reported goodwill has zero
// goodwill. The function is total — it never returns NaN or infinity.
func StatementValue(v any) float64 {
	f, ok := parseNumeric(v)
	if !ok {
		return 0
	}
	return f
}

// MarketValue coerces any provider value to an optional float64. Absent,
// sentinel and unparseable values become the explicit unknown marker:
// zero beta or zero market cap would be a misleading default.
func MarketValue(v any) models.OptFloat {
	f, ok := parseNumeric(v)
	if !ok {
		return models.Unknown()
	}
	return models.Known(f)
}

// parseNumeric handles the value shapes seen across providers: Go
// numerics, json.Number, and strings including scientific notation and
// digit grouping. NaN and infinities are rejected.
func parseNumeric(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		return finite(t)
	case float32:
		return finite(float64(t))
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return finite(f)
	case string:
		s := strings.TrimSpace(t)
		if absenceSentinels[strings.ToLower(s)] {
			return 0, false
		}
		s = strings.ReplaceAll(s, ",", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return finite(f)
	default:
		return 0, false
	}
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
