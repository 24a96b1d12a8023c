package roic

import (
	"github.com/seenimoa/finlens/pkg/models"
)

// trendThreshold is the minimum absolute ROIC change (in rate terms,
// 0.01 = one percentage point) between the oldest and newest year before
// the trend is labeled improving or declining. Smaller moves are noise,
// especially with only two years of history.
const trendThreshold = 0.01

// trendSeries computes the per-year metric points, newest first,
// mirroring the history order. Missing years are simply absent from the
// series, never imputed.
func trendSeries(hist *models.CanonicalFinancialHistory, assume Assumptions) []models.YearMetrics {
	out := make([]models.YearMetrics, 0, len(hist.Years))
	for i := range hist.Years {
		y := &hist.Years[i]

		taxRate := effectiveTaxRate(y, assume)
		nopat := y.EBIT * (1 - taxRate)
		icOp := investedCapitalOperating(y)

		out = append(out, models.YearMetrics{
			FiscalYear:               y.FiscalYear(),
			PeriodEnd:                y.PeriodEnd,
			EffectiveTaxRate:         taxRate,
			NOPAT:                    nopat,
			InvestedCapitalOperating: icOp,
			InvestedCapitalFinancing: investedCapitalFinancing(y),
			ROIC:                     ratio(nopat, icOp, models.ReasonInvestedCapitalNonPositive),
			ProfitMargin:             ratio(nopat, y.Revenue, models.ReasonRevenueNonPositive),
			CapitalTurnover:          ratio(y.Revenue, icOp, models.ReasonInvestedCapitalNonPositive),
			FreeCashFlow:             y.FreeCashFlow,
		})
	}
	return out
}

// classifyTrend compares the oldest and newest years' ROIC. It needs at
// least two points with defined ROIC at both ends; anything else is
// indeterminate rather than a guessed label.
func classifyTrend(series []models.YearMetrics) models.TrendDirection {
	if len(series) < 2 {
		return models.TrendIndeterminate
	}
	newest, oldest := series[0].ROIC, series[len(series)-1].ROIC
	if !newest.Defined || !oldest.Defined {
		return models.TrendIndeterminate
	}

	delta := newest.Value - oldest.Value
	switch {
	case delta > trendThreshold:
		return models.TrendImproving
	case delta < -trendThreshold:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}
