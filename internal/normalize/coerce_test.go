package normalize

import (
	"encoding/json"
	"testing"
)

func TestStatementValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"float", 42.5, 42.5},
		{"int", 7, 7},
		{"int64", int64(-3), -3},
		{"json number", json.Number("1234.5"), 1234.5},
		{"numeric string", "1000", 1000},
		{"string with commas", "1,234.5", 1234.5},
		{"scientific notation", "1.2e6", 1200000},
		{"negative string", "-500", -500},
		{"nil", nil, 0},
		{"empty string", "", 0},
		{"dash", "-", 0},
		{"none sentinel", "None", 0},
		{"na sentinel", "N/A", 0},
		{"nan string", "NaN", 0},
		{"garbage", "not a number", 0},
		{"bool", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatementValue(tt.in); got != tt.want {
				t.Errorf("StatementValue(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMarketValueTracksAbsence(t *testing.T) {
	tests := []struct {
		name      string
		in        any
		wantKnown bool
		wantValue float64
	}{
		{"present", 1.27, true, 1.27},
		{"zero is a value", 0.0, true, 0},
		{"string", "2950000000000", true, 2.95e12},
		{"nil", nil, false, 0},
		{"none sentinel", "None", false, 0},
		{"dash", "--", false, 0},
		{"garbage", "tbd", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarketValue(tt.in)
			if got.Known != tt.wantKnown {
				t.Fatalf("MarketValue(%v).Known = %v, want %v", tt.in, got.Known, tt.wantKnown)
			}
			if got.Known && got.Value != tt.wantValue {
				t.Errorf("MarketValue(%v).Value = %v, want %v", tt.in, got.Value, tt.wantValue)
			}
		})
	}
}

func TestStatementValueRejectsNonFinite(t *testing.T) {
	// A JSON payload cannot carry NaN, but a provider adapter might pass
	// one through arithmetic. The coercion must stay total.
	nan := json.Number("NaN")
	if got := StatementValue(nan); got != 0 {
		t.Errorf("StatementValue(NaN) = %v, want 0", got)
	}
	if got := MarketValue("Infinity"); got.Known {
		t.Errorf("MarketValue(Infinity) = known %v, want unknown", got.Value)
	}
}
