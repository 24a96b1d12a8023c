package normalize

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/seenimoa/finlens/pkg/models"
)

// ErrMissingStatement reports that a statement required to build the
// canonical model was absent from the inputs.
type ErrMissingStatement struct {
	Statement string // "income", "balance", "cashflow"
}

func (e *ErrMissingStatement) Error() string {
	return fmt.Sprintf("normalize: no %s statement periods available", e.Statement)
}

// Inputs carries the provider-neutral statement records for one company.
// Profile and the three statements are required; Market is optional and
// attaches to the most recent year only.
type Inputs struct {
	Ticker   string
	Profile  *models.CompanyProfile
	Income   []models.IncomeStatement
	Balance  []models.BalanceSheet
	CashFlow []models.CashFlow
	Market   *models.MarketSnapshot
}

// Build aligns the three statements by fiscal year, attaches the market
// snapshot to the most recent year, and truncates to MaxHistoryYears.
// A year is kept only when all three statements report it. Returned
// warnings flag short histories and gaps in the year sequence; they are
// advisory and never fail the build.
func Build(in Inputs) (*models.CanonicalFinancialHistory, []models.Warning, error) {
	switch {
	case len(in.Income) == 0:
		return nil, nil, &ErrMissingStatement{Statement: "income"}
	case len(in.Balance) == 0:
		return nil, nil, &ErrMissingStatement{Statement: "balance"}
	case len(in.CashFlow) == 0:
		return nil, nil, &ErrMissingStatement{Statement: "cashflow"}
	}

	incomeByYear := make(map[string]models.IncomeStatement, len(in.Income))
	for _, s := range in.Income {
		if fy := fiscalYear(s.PeriodEnd); fy != "" {
			incomeByYear[fy] = s
		}
	}
	balanceByYear := make(map[string]models.BalanceSheet, len(in.Balance))
	for _, s := range in.Balance {
		if fy := fiscalYear(s.PeriodEnd); fy != "" {
			balanceByYear[fy] = s
		}
	}
	cashByYear := make(map[string]models.CashFlow, len(in.CashFlow))
	for _, s := range in.CashFlow {
		if fy := fiscalYear(s.PeriodEnd); fy != "" {
			cashByYear[fy] = s
		}
	}

	years := make([]string, 0, len(incomeByYear))
	for fy := range incomeByYear {
		if _, ok := balanceByYear[fy]; !ok {
			continue
		}
		if _, ok := cashByYear[fy]; !ok {
			continue
		}
		years = append(years, fy)
	}
	if len(years) == 0 {
		return nil, nil, &ErrMissingStatement{Statement: "aligned"}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	if len(years) > models.MaxHistoryYears {
		years = years[:models.MaxHistoryYears]
	}

	name, currency := "", "USD"
	if in.Profile != nil {
		if in.Profile.Name != "" {
			name = in.Profile.Name
		}
		if in.Profile.Currency != "" {
			currency = in.Profile.Currency
		}
	}

	hist := &models.CanonicalFinancialHistory{
		CompanyName: name,
		Ticker:      in.Ticker,
		Currency:    currency,
		Years:       make([]models.CanonicalFinancialYear, 0, len(years)),
	}
	for _, fy := range years {
		hist.Years = append(hist.Years, buildYear(hist,
			incomeByYear[fy], balanceByYear[fy], cashByYear[fy]))
	}

	if in.Market != nil {
		attachMarket(&hist.Years[0], in.Market)
	}

	var warnings []models.Warning
	if n := len(hist.Years); n < models.MaxHistoryYears {
		warnings = append(warnings, models.Warning{
			Code:    models.WarnShortHistory,
			Message: fmt.Sprintf("only %d fiscal year(s) available; trend analysis will be limited", n),
		})
	}
	warnings = append(warnings, gapWarnings(years)...)
	return hist, warnings, nil
}

func buildYear(h *models.CanonicalFinancialHistory,
	inc models.IncomeStatement, bal models.BalanceSheet, cf models.CashFlow) models.CanonicalFinancialYear {

	y := models.CanonicalFinancialYear{
		CompanyName: h.CompanyName,
		Ticker:      h.Ticker,
		PeriodEnd:   inc.PeriodEnd,
		Currency:    h.Currency,

		Revenue:           inc.Revenue,
		CostOfRevenue:     inc.CostOfRevenue,
		GrossProfit:       inc.GrossProfit,
		OperatingExpenses: inc.OperatingExpenses,
		OperatingIncome:   inc.OperatingIncome,
		EBITDA:            inc.EBITDA,
		EBIT:              inc.EBIT,
		InterestExpense:   inc.InterestExpense,
		TaxExpense:        inc.TaxExpense,
		PretaxIncome:      inc.PretaxIncome,
		NetIncome:         inc.NetIncome,

		TotalAssets:        bal.TotalAssets,
		CurrentAssets:      bal.CurrentAssets,
		Cash:               bal.Cash,
		Receivables:        bal.Receivables,
		Inventory:          bal.Inventory,
		NetPPE:             bal.NetPPE,
		Goodwill:           bal.Goodwill,
		Intangibles:        bal.Intangibles,
		TotalLiabilities:   bal.TotalLiabilities,
		CurrentLiabilities: bal.CurrentLiabilities,
		Payables:           bal.Payables,
		ShortTermDebt:      bal.ShortTermDebt,
		LongTermDebt:       bal.LongTermDebt,
		TotalEquity:        bal.TotalEquity,

		OperatingCashFlow:   cf.OperatingCashFlow,
		CapitalExpenditures: math.Abs(cf.CapitalExpenditures),
		FreeCashFlow:        cf.FreeCashFlow,
	}

	if y.EBIT == 0 && y.OperatingIncome != 0 {
		y.EBIT = y.OperatingIncome
	}
	if y.GrossProfit == 0 && y.Revenue != 0 && y.CostOfRevenue != 0 {
		y.GrossProfit = y.Revenue - y.CostOfRevenue
	}
	if y.FreeCashFlow == 0 && y.OperatingCashFlow != 0 {
		y.FreeCashFlow = y.OperatingCashFlow - y.CapitalExpenditures
	}
	return y
}

func attachMarket(y *models.CanonicalFinancialYear, m *models.MarketSnapshot) {
	y.MarketCap = m.MarketCap
	y.Beta = m.Beta
	y.PETrailing = m.PETrailing
	y.PEForward = m.PEForward
	y.PriceToBook = m.PriceToBook
	y.High52W = m.High52W
	y.Low52W = m.Low52W
	y.SharesOutstanding = m.SharesOutstanding
}

// gapWarnings flags non-consecutive fiscal years in a descending-sorted
// year list, e.g. 2024, 2023, 2020.
func gapWarnings(years []string) []models.Warning {
	var out []models.Warning
	for i := 1; i < len(years); i++ {
		prev, err1 := strconv.Atoi(years[i-1])
		cur, err2 := strconv.Atoi(years[i])
		if err1 != nil || err2 != nil {
			continue
		}
		if prev-cur > 1 {
			out = append(out, models.Warning{
				Code:    models.WarnStatementGap,
				Message: fmt.Sprintf("no aligned statements between fiscal years %d and %d", cur, prev),
			})
		}
	}
	return out
}

func fiscalYear(periodEnd string) string {
	if len(periodEnd) < 4 {
		return ""
	}
	return periodEnd[:4]
}
