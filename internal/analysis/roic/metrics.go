// Package roic derives the value-creation metric set from a canonical
// financial history: NOPAT, invested capital by the operating and
// financing methods, ROIC with its DuPont decomposition, the CAPM cost
// of equity, a WACC estimate and the resulting value spread, plus the
// multi-year trend series. Compute is a pure function of its inputs;
// numeric edge cases surface as undefined metrics with reason codes,
// never as NaN or panic.
package roic

import (
	"fmt"
	"math"

	"github.com/seenimoa/finlens/pkg/models"
)

// Assumptions are the market parameters the metrics depend on.
type Assumptions struct {
	RiskFreeRate      float64
	EquityRiskPremium float64
	FallbackTaxRate   float64
}

// DefaultAssumptions returns the standard parameter set.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		RiskFreeRate:      0.04,
		EquityRiskPremium: 0.05,
		FallbackTaxRate:   0.21,
	}
}

// DuPontTolerance is the relative tolerance for the margin × turnover
// self-check against ROIC.
const DuPontTolerance = 1e-9

// implausibleROIC is the level above which a computed ROIC is flagged
// as a data-quality warning. The figure is kept, not rejected.
const implausibleROIC = 1.0

// reconciliationGap is the relative divergence between the two invested
// capital methods that triggers a data-quality warning.
const reconciliationGap = 0.5

// Compute derives the full metric set for a history. The history must
// hold at least one year; Compute returns nil for an empty one.
func Compute(hist *models.CanonicalFinancialHistory, assume Assumptions) *models.DerivedMetrics {
	if hist == nil || len(hist.Years) == 0 {
		return nil
	}
	latest := hist.Latest()

	m := &models.DerivedMetrics{
		Ticker:     hist.Ticker,
		FiscalYear: latest.FiscalYear(),
	}

	m.EffectiveTaxRate = effectiveTaxRate(latest, assume)
	m.NOPAT = latest.EBIT * (1 - m.EffectiveTaxRate)
	m.InvestedCapitalOperating = investedCapitalOperating(latest)
	m.InvestedCapitalFinancing = investedCapitalFinancing(latest)
	m.ReconciliationNote = reconcile(m, &m.Warnings)

	m.ROIC = ratio(m.NOPAT, m.InvestedCapitalOperating, models.ReasonInvestedCapitalNonPositive)
	m.ProfitMargin = ratio(m.NOPAT, latest.Revenue, models.ReasonRevenueNonPositive)
	m.CapitalTurnover = ratio(latest.Revenue, m.InvestedCapitalOperating, models.ReasonInvestedCapitalNonPositive)
	m.DuPont = duPontCheck(m, &m.Warnings)

	if m.ROIC.Defined && m.ROIC.Value > implausibleROIC {
		m.Warnings = append(m.Warnings, models.Warning{
			Code:    models.WarnImplausibleROIC,
			Message: fmt.Sprintf("ROIC of %.1f%% is implausibly high; invested capital is likely understated", m.ROIC.Value*100),
		})
	}

	m.CostOfEquity = costOfEquity(latest, assume)
	m.WACC = waccEstimate(latest, m, assume)
	m.ValueSpread, m.Verdict = valueSpread(m.ROIC, m.WACC)

	m.Trend = trendSeries(hist, assume)
	m.TrendDirection = classifyTrend(m.Trend)

	for _, metric := range []models.Metric{m.ROIC, m.ProfitMargin, m.CapitalTurnover, m.CostOfEquity, m.WACC} {
		if !metric.Defined {
			m.Warnings = append(m.Warnings, models.Warning{
				Code:    models.WarnUndefinedMetric,
				Message: "metric undefined: " + metric.Reason,
			})
		}
	}
	return m
}

// effectiveTaxRate is tax expense over pre-tax income, falling back to
// the assumed statutory rate when pre-tax income is zero. The rate is
// otherwise left unbounded; only division by zero is guarded.
func effectiveTaxRate(y *models.CanonicalFinancialYear, assume Assumptions) float64 {
	if y.PretaxIncome == 0 {
		return assume.FallbackTaxRate
	}
	return y.TaxExpense / y.PretaxIncome
}

// investedCapitalOperating is the working-capital plus fixed-asset
// construction: NWC + net PP&E + goodwill + intangibles.
func investedCapitalOperating(y *models.CanonicalFinancialYear) float64 {
	return y.NetWorkingCapital() + y.NetPPE + y.Goodwill + y.Intangibles
}

// investedCapitalFinancing is the capital-structure construction:
// equity + debt − cash. All cash is treated as excess.
func investedCapitalFinancing(y *models.CanonicalFinancialYear) float64 {
	return y.TotalEquity + y.TotalDebt() - y.Cash
}

// reconcile builds the reconciliation note for the two invested capital
// methods and flags a divergence beyond reconciliationGap.
func reconcile(m *models.DerivedMetrics, warnings *[]models.Warning) string {
	op, fin := m.InvestedCapitalOperating, m.InvestedCapitalFinancing
	scale := math.Max(math.Abs(op), math.Abs(fin))
	if scale == 0 {
		return "both invested capital methods evaluate to zero"
	}
	gap := math.Abs(op-fin) / scale
	note := fmt.Sprintf("operating method %.0f vs financing method %.0f (%.0f%% divergence); the methods differ by construction and are not forced to equality", op, fin, gap*100)
	if gap > reconciliationGap {
		*warnings = append(*warnings, models.Warning{
			Code:    models.WarnCapitalReconciliation,
			Message: note,
		})
	}
	return note
}

// ratio divides num by den, returning an undefined metric with the
// given reason when the denominator is not strictly positive.
func ratio(num, den float64, reason string) models.Metric {
	if den <= 0 {
		return models.UndefinedMetric(reason)
	}
	return models.DefinedMetric(num / den)
}

// duPontCheck verifies margin × turnover against ROIC. The identity
// holds algebraically, so a violation indicates a computation defect or
// pathological inputs and is surfaced as a warning.
func duPontCheck(m *models.DerivedMetrics, warnings *[]models.Warning) models.DuPontCheck {
	if !m.ROIC.Defined || !m.ProfitMargin.Defined || !m.CapitalTurnover.Defined {
		return models.DuPontCheck{}
	}
	product := m.ProfitMargin.Value * m.CapitalTurnover.Value
	rel := math.Abs(product - m.ROIC.Value)
	if v := math.Abs(m.ROIC.Value); v > 0 {
		rel /= v
	}
	check := models.DuPontCheck{Evaluated: true, Passed: rel <= DuPontTolerance, Relative: rel}
	if !check.Passed {
		*warnings = append(*warnings, models.Warning{
			Code:    models.WarnDuPontMismatch,
			Message: fmt.Sprintf("profit margin x capital turnover diverges from ROIC by %.3g relative error", rel),
		})
	}
	return check
}

// costOfEquity is the CAPM estimate, computed only when beta is known.
func costOfEquity(y *models.CanonicalFinancialYear, assume Assumptions) models.Metric {
	if !y.Beta.Known {
		return models.UndefinedMetric(models.ReasonBetaUnknown)
	}
	return models.DefinedMetric(assume.RiskFreeRate + y.Beta.Value*assume.EquityRiskPremium)
}

// waccEstimate weights the CAPM cost of equity and the after-tax cost
// of debt by book capital structure, preferring market cap for the
// equity weight when it is known. With no debt outstanding the WACC
// collapses to the cost of equity.
func waccEstimate(y *models.CanonicalFinancialYear, m *models.DerivedMetrics, assume Assumptions) models.Metric {
	if !m.CostOfEquity.Defined {
		return models.UndefinedMetric(models.ReasonOperandUndefined)
	}

	debt := y.TotalDebt()
	if debt <= 0 {
		return m.CostOfEquity
	}

	equity := y.TotalEquity
	if y.MarketCap.Known && y.MarketCap.Value > 0 {
		equity = y.MarketCap.Value
	}
	total := equity + debt
	if total <= 0 {
		return models.UndefinedMetric(models.ReasonInvestedCapitalNonPositive)
	}

	costOfDebt := (y.InterestExpense / debt) * (1 - m.EffectiveTaxRate)
	wacc := m.CostOfEquity.Value*(equity/total) + costOfDebt*(debt/total)
	return models.DefinedMetric(wacc)
}

// valueSpread is ROIC minus WACC. The verdict is indeterminate whenever
// either operand is undefined; it is never a false positive.
func valueSpread(roic, wacc models.Metric) (models.Metric, models.SpreadVerdict) {
	if !roic.Defined || !wacc.Defined {
		return models.UndefinedMetric(models.ReasonOperandUndefined), models.VerdictIndeterminate
	}
	spread := roic.Value - wacc.Value
	if spread >= 0 {
		return models.DefinedMetric(spread), models.VerdictValueCreating
	}
	return models.DefinedMetric(spread), models.VerdictValueDestroying
}
