package roic

import (
	"testing"

	"github.com/seenimoa/finlens/pkg/models"
)

func yearWithROIC(fy string, ebit, netPPE float64) models.CanonicalFinancialYear {
	// Zero tax expense and pretax income keeps the statutory fallback
	// rate, so ROIC = ebit * 0.79 / netPPE.
	return models.CanonicalFinancialYear{
		PeriodEnd: fy + "-12-31",
		Revenue:   netPPE * 2,
		EBIT:      ebit,
		NetPPE:    netPPE,
	}
}

func TestTrendSeriesMatchesHistoryOrder(t *testing.T) {
	hist := histWith(
		yearWithROIC("2024", 300, 1000),
		yearWithROIC("2023", 250, 1000),
		yearWithROIC("2022", 200, 1000),
	)
	series := trendSeries(hist, DefaultAssumptions())

	if len(series) != 3 {
		t.Fatalf("series length = %d, want 3", len(series))
	}
	for i, want := range []string{"2024", "2023", "2022"} {
		if series[i].FiscalYear != want {
			t.Errorf("series[%d] = %s, want %s", i, series[i].FiscalYear, want)
		}
	}
	if !series[0].ROIC.Defined {
		t.Fatalf("series[0] ROIC undefined: %s", series[0].ROIC.Reason)
	}
	approx(t, "series[0] ROIC", series[0].ROIC.Value, 0.237, 0.001)
}

func TestClassifyTrend(t *testing.T) {
	defined := func(v float64) models.YearMetrics {
		return models.YearMetrics{ROIC: models.DefinedMetric(v)}
	}
	undefined := models.YearMetrics{ROIC: models.UndefinedMetric("x")}

	tests := []struct {
		name   string
		series []models.YearMetrics
		want   models.TrendDirection
	}{
		{"improving", []models.YearMetrics{defined(0.20), defined(0.15), defined(0.10)}, models.TrendImproving},
		{"declining", []models.YearMetrics{defined(0.10), defined(0.15), defined(0.20)}, models.TrendDeclining},
		{"stable within threshold", []models.YearMetrics{defined(0.105), defined(0.12), defined(0.10)}, models.TrendStable},
		{"exactly at threshold is stable", []models.YearMetrics{defined(0.02), defined(0.01)}, models.TrendStable},
		{"single point", []models.YearMetrics{defined(0.10)}, models.TrendIndeterminate},
		{"empty", nil, models.TrendIndeterminate},
		{"newest undefined", []models.YearMetrics{undefined, defined(0.10)}, models.TrendIndeterminate},
		{"oldest undefined", []models.YearMetrics{defined(0.10), undefined}, models.TrendIndeterminate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyTrend(tt.series); got != tt.want {
				t.Errorf("classifyTrend = %q, want %q", got, tt.want)
			}
		})
	}
}
