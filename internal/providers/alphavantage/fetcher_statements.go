package alphavantage

import (
	"context"
	"fmt"
	"time"

	"github.com/seenimoa/finlens/internal/normalize"
	"github.com/seenimoa/finlens/internal/provider"
	"github.com/seenimoa/finlens/pkg/models"
)

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

	var resp avIncomeResponse
	if err := f.p.getJSON(ctx, "INCOME_STATEMENT", symbol, &resp); err != nil {
		return nil, fmt.Errorf("alphavantage income statement %s: %w", symbol, err)
	}
	if len(resp.AnnualReports) == 0 {
		return nil, &provider.ErrNotFound{Provider: providerName, Model: f.ModelType(), Symbol: symbol}
	}

	stmts := make([]models.IncomeStatement, 0, len(resp.AnnualReports))
	for _, r := range resp.AnnualReports {
		ebit := normalize.StatementValue(r.EBIT)
		if ebit == 0 {
			ebit = normalize.StatementValue(r.OperatingIncome)
		}
		stmts = append(stmts, models.IncomeStatement{
			PeriodEnd:         r.FiscalDateEnding,
			Revenue:           normalize.StatementValue(r.TotalRevenue),
			CostOfRevenue:     normalize.StatementValue(r.CostOfRevenue),
			GrossProfit:       normalize.StatementValue(r.GrossProfit),
			OperatingExpenses: normalize.StatementValue(r.OperatingExpenses),
			OperatingIncome:   normalize.StatementValue(r.OperatingIncome),
			EBITDA:            normalize.StatementValue(r.EBITDA),
			EBIT:              ebit,
			InterestExpense:   normalize.StatementValue(r.InterestExpense),
			TaxExpense:        normalize.StatementValue(r.IncomeTaxExpense),
			PretaxIncome:      normalize.StatementValue(r.IncomeBeforeTax),
			NetIncome:         normalize.StatementValue(r.NetIncome),
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

	var resp avBalanceResponse
	if err := f.p.getJSON(ctx, "BALANCE_SHEET", symbol, &resp); err != nil {
		return nil, fmt.Errorf("alphavantage balance sheet %s: %w", symbol, err)
	}
	if len(resp.AnnualReports) == 0 {
		return nil, &provider.ErrNotFound{Provider: providerName, Model: f.ModelType(), Symbol: symbol}
	}

	sheets := make([]models.BalanceSheet, 0, len(resp.AnnualReports))
	for _, r := range resp.AnnualReports {
		sheets = append(sheets, models.BalanceSheet{
			PeriodEnd:          r.FiscalDateEnding,
			TotalAssets:        normalize.StatementValue(r.TotalAssets),
			CurrentAssets:      normalize.StatementValue(r.TotalCurrentAssets),
			Cash:               normalize.StatementValue(r.Cash),
			Receivables:        normalize.StatementValue(r.CurrentNetReceivables),
			Inventory:          normalize.StatementValue(r.Inventory),
			NetPPE:             normalize.StatementValue(r.PropertyPlantEquipment),
			Goodwill:           normalize.StatementValue(r.Goodwill),
			Intangibles:        normalize.StatementValue(r.IntangibleAssets),
			TotalLiabilities:   normalize.StatementValue(r.TotalLiabilities),
			CurrentLiabilities: normalize.StatementValue(r.TotalCurrentLiab),
			Payables:           normalize.StatementValue(r.CurrentAccountsPayable),
			ShortTermDebt:      normalize.StatementValue(r.ShortTermDebt),
			LongTermDebt:       normalize.StatementValue(r.LongTermDebt),
			TotalEquity:        normalize.StatementValue(r.TotalShareholderEquity),
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

	var resp avCashFlowResponse
	if err := f.p.getJSON(ctx, "CASH_FLOW", symbol, &resp); err != nil {
		return nil, fmt.Errorf("alphavantage cash flow %s: %w", symbol, err)
	}
	if len(resp.AnnualReports) == 0 {
		return nil, &provider.ErrNotFound{Provider: providerName, Model: f.ModelType(), Symbol: symbol}
	}

	cfs := make([]models.CashFlow, 0, len(resp.AnnualReports))
	for _, r := range resp.AnnualReports {
		ocf := normalize.StatementValue(r.OperatingCashflow)
		capex := normalize.StatementValue(r.CapitalExpenditures)
		cfs = append(cfs, models.CashFlow{
			PeriodEnd:           r.FiscalDateEnding,
			OperatingCashFlow:   ocf,
			CapitalExpenditures: capex,
			FreeCashFlow:        ocf - capex,
		})
	}
	return &provider.FetchResult{Data: cfs, FetchedAt: time.Now()}, nil
}
