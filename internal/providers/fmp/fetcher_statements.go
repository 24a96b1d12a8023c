package fmp

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/seenimoa/finlens/internal/provider"
	"github.com/seenimoa/finlens/pkg/models"
)

// statementLimit is how many annual periods we request upstream; the
// normalizer truncates further to models.MaxHistoryYears.
const statementLimit = 7

func statementQuery(params provider.QueryParams) url.Values {
	q := url.Values{}
	limit := statementLimit
	if v := params[provider.ParamLimit]; v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	q.Set("limit", strconv.Itoa(limit))
	if params[provider.ParamPeriod] == "quarterly" {
		q.Set("period", "quarter")
	}
	return q
}

// --- IncomeStatement ---

type incomeFetcher struct {
	provider.BaseFetcher
	p *Provider
}

func (f *incomeFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]
	if err := f.AwaitBudget(ctx); err != nil {
		return nil, err
	}

	var rows []fmpIncomeStatement
	if err := f.p.getJSON(ctx, "/income-statement/"+url.PathEscape(symbol), statementQuery(params), &rows); err != nil {
		return nil, fmt.Errorf("fmp income statement %s: %w", symbol, err)
	}
	if len(rows) == 0 {
		return nil, &provider.ErrNotFound{Provider: providerName, Model: f.ModelType(), Symbol: symbol}
	}

	stmts := make([]models.IncomeStatement, 0, len(rows))
	for _, r := range rows {
		ebit := r.OperatingIncome
		if ebit == 0 {
			// Some FMP records omit operatingIncome; fall back to the
			// pre-tax plus interest construction.
			ebit = r.IncomeBeforeTax + r.InterestExpense
		}
		stmts = append(stmts, models.IncomeStatement{
			PeriodEnd:         r.Date,
			Revenue:           r.Revenue,
			CostOfRevenue:     r.CostOfRevenue,
			GrossProfit:       r.GrossProfit,
			OperatingExpenses: r.OperatingExpenses,
			OperatingIncome:   r.OperatingIncome,
			EBITDA:            r.EBITDA,
			EBIT:              ebit,
			InterestExpense:   r.InterestExpense,
			TaxExpense:        r.IncomeTaxExpense,
			PretaxIncome:      r.IncomeBeforeTax,
			NetIncome:         r.NetIncome,
		})
	}
	return &provider.FetchResult{Data: stmts, FetchedAt: time.Now()}, nil
}

// --- BalanceSheet ---

type balanceFetcher struct {
	provider.BaseFetcher
	p *Provider
}

func (f *balanceFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]
	if err := f.AwaitBudget(ctx); err != nil {
		return nil, err
	}

	var rows []fmpBalanceSheet
	if err := f.p.getJSON(ctx, "/balance-sheet-statement/"+url.PathEscape(symbol), statementQuery(params), &rows); err != nil {
		return nil, fmt.Errorf("fmp balance sheet %s: %w", symbol, err)
	}
	if len(rows) == 0 {
		return nil, &provider.ErrNotFound{Provider: providerName, Model: f.ModelType(), Symbol: symbol}
	}

	sheets := make([]models.BalanceSheet, 0, len(rows))
	for _, r := range rows {
		sheets = append(sheets, models.BalanceSheet{
			PeriodEnd:          r.Date,
			TotalAssets:        r.TotalAssets,
			CurrentAssets:      r.TotalCurrentAssets,
			Cash:               r.CashAndCashEquivalents,
			Receivables:        r.NetReceivables,
			Inventory:          r.Inventory,
			NetPPE:             r.PropertyPlantEquipmentNet,
			Goodwill:           r.Goodwill,
			Intangibles:        r.IntangibleAssets,
			TotalLiabilities:   r.TotalLiabilities,
			CurrentLiabilities: r.TotalCurrentLiabilities,
			Payables:           r.AccountPayables,
			ShortTermDebt:      r.ShortTermDebt,
			LongTermDebt:       r.LongTermDebt,
			TotalEquity:        r.TotalStockholdersEquity,
		})
	}
	return &provider.FetchResult{Data: sheets, FetchedAt: time.Now()}, nil
}

// --- CashFlowStatement ---

type cashFlowFetcher struct {
	provider.BaseFetcher
	p *Provider
}

func (f *cashFlowFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]
	if err := f.AwaitBudget(ctx); err != nil {
		return nil, err
	}

	var rows []fmpCashFlow
	if err := f.p.getJSON(ctx, "/cash-flow-statement/"+url.PathEscape(symbol), statementQuery(params), &rows); err != nil {
		return nil, fmt.Errorf("fmp cash flow %s: %w", symbol, err)
	}
	if len(rows) == 0 {
		return nil, &provider.ErrNotFound{Provider: providerName, Model: f.ModelType(), Symbol: symbol}
	}

	cfs := make([]models.CashFlow, 0, len(rows))
	for _, r := range rows {
		cfs = append(cfs, models.CashFlow{
			PeriodEnd:           r.Date,
			OperatingCashFlow:   r.OperatingCashFlow,
			CapitalExpenditures: r.CapitalExpenditure,
			FreeCashFlow:        r.FreeCashFlow,
		})
	}
	return &provider.FetchResult{Data: cfs, FetchedAt: time.Now()}, nil
}
