// Package models defines the provider-neutral data shapes shared across
// finlens: raw statement records produced by provider adapters, the
// canonical multi-year financial model built by the normalizer, and the
// derived metric set produced by the analytics engine.
package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// MaxHistoryYears is the number of fiscal years retained in a canonical
// history. Older years are discarded during normalization.
const MaxHistoryYears = 5

// OptFloat is a numeric value that may be unknown. Statement figures
// default to zero when absent, but for market figures (beta, market cap,
// P/E) zero is a misleading default, so absence is tracked explicitly.
type OptFloat struct {
	Value float64
	Known bool
}

// Known returns an OptFloat holding v.
func Known(v float64) OptFloat { return OptFloat{Value: v, Known: true} }

// Unknown returns the explicit not-available marker.
func Unknown() OptFloat { return OptFloat{} }

// MarshalJSON encodes a known value as a number and an unknown one as null.
func (o OptFloat) MarshalJSON() ([]byte, error) {
	if !o.Known {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// UnmarshalJSON decodes null as unknown and any number as known.
func (o *OptFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = OptFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Known(v)
	return nil
}

// CanonicalFinancialYear holds one fiscal year's normalized figures for a
// single company. Every statement field is a finite float64; absent or
// sentinel upstream values have already been coerced to zero. Market
// fields are optional and distinguish "unknown" from zero.
type CanonicalFinancialYear struct {
	// Identity
	CompanyName string `json:"company_name"`
	Ticker      string `json:"ticker"`
	PeriodEnd   string `json:"period_end"` // YYYY-MM-DD
	Currency    string `json:"currency"`

	// Income statement
	Revenue           float64 `json:"revenue"`
	CostOfRevenue     float64 `json:"cost_of_revenue"`
	GrossProfit       float64 `json:"gross_profit"`
	OperatingExpenses float64 `json:"operating_expenses"`
	OperatingIncome   float64 `json:"operating_income"`
	EBITDA            float64 `json:"ebitda"`
	EBIT              float64 `json:"ebit"`
	InterestExpense   float64 `json:"interest_expense"`
	TaxExpense        float64 `json:"tax_expense"`
	PretaxIncome      float64 `json:"pretax_income"`
	NetIncome         float64 `json:"net_income"`

	// Balance sheet
	TotalAssets        float64 `json:"total_assets"`
	CurrentAssets      float64 `json:"current_assets"`
	Cash               float64 `json:"cash"`
	Receivables        float64 `json:"receivables"`
	Inventory          float64 `json:"inventory"`
	NetPPE             float64 `json:"net_ppe"`
	Goodwill           float64 `json:"goodwill"`
	Intangibles        float64 `json:"intangibles"`
	TotalLiabilities   float64 `json:"total_liabilities"`
	CurrentLiabilities float64 `json:"current_liabilities"`
	Payables           float64 `json:"payables"`
	ShortTermDebt      float64 `json:"short_term_debt"`
	LongTermDebt       float64 `json:"long_term_debt"`
	TotalEquity        float64 `json:"total_equity"`

	// Cash flow. CapitalExpenditures is stored as a non-negative
	// magnitude regardless of the provider's sign convention.
	OperatingCashFlow   float64 `json:"operating_cash_flow"`
	CapitalExpenditures float64 `json:"capital_expenditures"`
	FreeCashFlow        float64 `json:"free_cash_flow"`

	// Market snapshot (optional, usually only on the most recent year)
	MarketCap         OptFloat `json:"market_cap"`
	Beta              OptFloat `json:"beta"`
	PETrailing        OptFloat `json:"pe_trailing"`
	PEForward         OptFloat `json:"pe_forward"`
	PriceToBook       OptFloat `json:"price_to_book"`
	High52W           OptFloat `json:"high_52w"`
	Low52W            OptFloat `json:"low_52w"`
	SharesOutstanding OptFloat `json:"shares_outstanding"`
}

// TotalDebt returns short-term plus long-term debt.
func (y *CanonicalFinancialYear) TotalDebt() float64 {
	return y.ShortTermDebt + y.LongTermDebt
}

// NetWorkingCapital returns current assets minus current liabilities.
func (y *CanonicalFinancialYear) NetWorkingCapital() float64 {
	return y.CurrentAssets - y.CurrentLiabilities
}

// FiscalYear returns the four-digit year of the period end, or "" when the
// period end is malformed.
func (y *CanonicalFinancialYear) FiscalYear() string {
	if len(y.PeriodEnd) < 4 {
		return ""
	}
	return y.PeriodEnd[:4]
}

// CanonicalFinancialHistory is an ordered sequence (most recent first) of
// up to MaxHistoryYears canonical years for one company. Fewer than five
// years is valid and must be tolerated downstream.
type CanonicalFinancialHistory struct {
	CompanyName string                   `json:"company_name"`
	Ticker      string                   `json:"ticker"`
	Currency    string                   `json:"currency"`
	Years       []CanonicalFinancialYear `json:"years"`
}

// YearsAvailable returns the number of fiscal years actually present.
func (h *CanonicalFinancialHistory) YearsAvailable() int { return len(h.Years) }

// Latest returns the most recent year, or nil when the history is empty.
func (h *CanonicalFinancialHistory) Latest() *CanonicalFinancialYear {
	if len(h.Years) == 0 {
		return nil
	}
	return &h.Years[0]
}

// RequestSignature identifies a cacheable unit of outbound work:
// provider, endpoint, subject symbol, and query parameters.
type RequestSignature struct {
	Provider string
	Endpoint string
	Symbol   string
	Params   map[string]string
}

// String renders the signature as a deterministic cache key; parameters
// are emitted in sorted order so equal requests always collide.
func (s RequestSignature) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%s:%s", s.Provider, s.Endpoint, s.Symbol)
	keys := make([]string, 0, len(s.Params))
	for k := range s.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, ":%s=%s", k, s.Params[k])
	}
	return b.String()
}
