package provider

// ModelType names one provider-neutral statement or data shape. Each
// model type maps to a concrete type in pkg/models.
type ModelType string

const (
	ModelCompanyProfile   ModelType = "CompanyProfile"
	ModelIncomeStatement  ModelType = "IncomeStatement"
	ModelBalanceSheet     ModelType = "BalanceSheet"
	ModelCashFlow         ModelType = "CashFlowStatement"
	ModelMarketSnapshot   ModelType = "MarketSnapshot"
	ModelCompanyHeadlines ModelType = "CompanyHeadlines"
	ModelEquityQuote      ModelType = "EquityQuote"
)

// StatementModels are the model types that feed the canonical financial
// history, in the order the normalizer consumes them.
var StatementModels = []ModelType{
	ModelCompanyProfile,
	ModelIncomeStatement,
	ModelBalanceSheet,
	ModelCashFlow,
}
