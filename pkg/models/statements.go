package models

import "time"

// CompanyProfile is the provider-neutral company identity record.
type CompanyProfile struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Exchange string `json:"exchange"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
}

// IncomeStatement is one reporting period of provider-neutral income data.
type IncomeStatement struct {
	PeriodEnd         string  `json:"period_end"`
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
}

// BalanceSheet is one reporting period of provider-neutral balance data.
type BalanceSheet struct {
	PeriodEnd          string  `json:"period_end"`
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
}

// CashFlow is one reporting period of provider-neutral cash flow data.
// CapitalExpenditures keeps the provider's sign convention here; the
// normalizer converts it to a magnitude.
type CashFlow struct {
	PeriodEnd           string  `json:"period_end"`
	OperatingCashFlow   float64 `json:"operating_cash_flow"`
	CapitalExpenditures float64 `json:"capital_expenditures"`
	FreeCashFlow        float64 `json:"free_cash_flow"`
}

// MarketSnapshot holds current market data for a company. Every field is
// optional: providers routinely omit beta or forward P/E, and an absent
// value must not be confused with zero.
type MarketSnapshot struct {
	Price             OptFloat `json:"price"`
	MarketCap         OptFloat `json:"market_cap"`
	Beta              OptFloat `json:"beta"`
	PETrailing        OptFloat `json:"pe_trailing"`
	PEForward         OptFloat `json:"pe_forward"`
	PriceToBook       OptFloat `json:"price_to_book"`
	High52W           OptFloat `json:"high_52w"`
	Low52W            OptFloat `json:"low_52w"`
	SharesOutstanding OptFloat `json:"shares_outstanding"`
}

// Quote is a lightweight price quote exposed by the API.
type Quote struct {
	Ticker    string    `json:"ticker"`
	Price     float64   `json:"price"`
	Change    float64   `json:"change"`
	ChangePct float64   `json:"change_pct"`
	Volume    float64   `json:"volume"`
	Timestamp time.Time `json:"timestamp"`
}

// Headline is one news or earnings item attached to an analysis as
// optional enrichment.
type Headline struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}
