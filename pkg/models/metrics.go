package models

import "encoding/json"

// Metric is a derived figure that may be undefined. Division by zero or a
// negative denominator never produces NaN or infinity anywhere in the
// analytics engine; it produces an undefined Metric carrying a reason code.
type Metric struct {
	Value   float64
	Defined bool
	Reason  string // reason code when undefined, e.g. "invested-capital-non-positive"
}

// DefinedMetric returns a defined metric holding v.
func DefinedMetric(v float64) Metric { return Metric{Value: v, Defined: true} }

// UndefinedMetric returns an undefined metric with a reason code.
func UndefinedMetric(reason string) Metric { return Metric{Reason: reason} }

type metricJSON struct {
	Value   *float64 `json:"value,omitempty"`
	Defined bool     `json:"defined"`
	Reason  string   `json:"reason,omitempty"`
}

// MarshalJSON omits the value entirely when the metric is undefined, so a
// consumer cannot mistake an undefined metric for zero.
func (m Metric) MarshalJSON() ([]byte, error) {
	out := metricJSON{Defined: m.Defined, Reason: m.Reason}
	if m.Defined {
		v := m.Value
		out.Value = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (m *Metric) UnmarshalJSON(data []byte) error {
	var in metricJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	m.Defined = in.Defined
	m.Reason = in.Reason
	if in.Value != nil {
		m.Value = *in.Value
	}
	return nil
}

// Warning is a non-fatal data-quality finding attached to a successful
// analysis (DuPont mismatch, short history, undefined metric, ...).
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Warning codes.
const (
	WarnDuPontMismatch        = "dupont-mismatch"
	WarnShortHistory          = "short-history"
	WarnImplausibleROIC       = "implausible-roic"
	WarnCapitalReconciliation = "invested-capital-gap"
	WarnOptionalMissing       = "optional-source-missing"
	WarnUndefinedMetric       = "undefined-metric"
	WarnStatementGap          = "statement-year-gap"
	WarnNarrativeUnavailable  = "narrative-unavailable"
)

// Metric reason codes.
const (
	ReasonInvestedCapitalNonPositive = "invested-capital-non-positive"
	ReasonRevenueNonPositive         = "revenue-non-positive"
	ReasonBetaUnknown                = "beta-unknown"
	ReasonOperandUndefined           = "operand-undefined"
	ReasonNoDebtOutstanding          = "no-debt-outstanding"
)

// SpreadVerdict classifies the value-creation spread.
type SpreadVerdict string

const (
	VerdictValueCreating   SpreadVerdict = "value-creating"
	VerdictValueDestroying SpreadVerdict = "value-destroying"
	VerdictIndeterminate   SpreadVerdict = "indeterminate"
)

// TrendDirection classifies the multi-year ROIC trajectory.
type TrendDirection string

const (
	TrendImproving     TrendDirection = "improving"
	TrendDeclining     TrendDirection = "declining"
	TrendStable        TrendDirection = "stable"
	TrendIndeterminate TrendDirection = "indeterminate"
)

// YearMetrics is one point of the multi-year trend series.
type YearMetrics struct {
	FiscalYear               string  `json:"fiscal_year"`
	PeriodEnd                string  `json:"period_end"`
	EffectiveTaxRate         float64 `json:"effective_tax_rate"`
	NOPAT                    float64 `json:"nopat"`
	InvestedCapitalOperating float64 `json:"invested_capital_operating"`
	InvestedCapitalFinancing float64 `json:"invested_capital_financing"`
	ROIC                     Metric  `json:"roic"`
	ProfitMargin             Metric  `json:"profit_margin"`
	CapitalTurnover          Metric  `json:"capital_turnover"`
	FreeCashFlow             float64 `json:"free_cash_flow"`
}

// DuPontCheck records the engine's mandatory margin × turnover ≈ ROIC
// self-check for the most recent year.
type DuPontCheck struct {
	Evaluated bool    `json:"evaluated"`
	Passed    bool    `json:"passed"`
	Relative  float64 `json:"relative_error"`
}

// DerivedMetrics is the analytics engine output: headline metrics for the
// most recent fiscal year plus a parallel series across all available
// years. It is a pure function of a CanonicalFinancialHistory.
type DerivedMetrics struct {
	Ticker     string `json:"ticker"`
	FiscalYear string `json:"fiscal_year"`

	EffectiveTaxRate         float64 `json:"effective_tax_rate"`
	NOPAT                    float64 `json:"nopat"`
	InvestedCapitalOperating float64 `json:"invested_capital_operating"`
	InvestedCapitalFinancing float64 `json:"invested_capital_financing"`
	ReconciliationNote       string  `json:"reconciliation_note"`

	ROIC            Metric      `json:"roic"`
	ProfitMargin    Metric      `json:"profit_margin"`
	CapitalTurnover Metric      `json:"capital_turnover"`
	DuPont          DuPontCheck `json:"dupont_check"`

	CostOfEquity Metric        `json:"cost_of_equity"`
	WACC         Metric        `json:"wacc"`
	ValueSpread  Metric        `json:"value_spread"`
	Verdict      SpreadVerdict `json:"verdict"`

	Trend          []YearMetrics  `json:"trend"`
	TrendDirection TrendDirection `json:"trend_direction"`

	Warnings []Warning `json:"warnings"`
}

// NarrativeReport is the structured response parsed from the external
// narrative service.
type NarrativeReport struct {
	Summary    string   `json:"summary"`
	Strengths  []string `json:"strengths"`
	Risks      []string `json:"risks"`
	Assessment string   `json:"assessment"` // e.g. "undervalued", "fairly valued"
	Confidence string   `json:"confidence"` // "high", "medium", "low"
}

// AnalysisResult is the full output of one analysis request.
type AnalysisResult struct {
	Ticker    string                     `json:"ticker"`
	History   *CanonicalFinancialHistory `json:"history"`
	Metrics   *DerivedMetrics            `json:"metrics"`
	Headlines []Headline                 `json:"headlines,omitempty"`
	Narrative *NarrativeReport           `json:"narrative,omitempty"`
}
