package alphavantage

// Alpha Vantage wire types. Annual periods arrive under an
// "annualReports" wrapper and every numeric field is a JSON string,
// with "None" where a value is missing. The fetchers run each field
// through the normalize coercion helpers rather than decoding to
// float64 directly.

type avOverview struct {
	Symbol            string `json:"Symbol"`
	Name              string `json:"Name"`
	Currency          string `json:"Currency"`
	Exchange          string `json:"Exchange"`
	Sector            string `json:"Sector"`
	Industry          string `json:"Industry"`
	MarketCap         string `json:"MarketCapitalization"`
	Beta              string `json:"Beta"`
	PERatio           string `json:"PERatio"`
	ForwardPE         string `json:"ForwardPE"`
	PriceToBook       string `json:"PriceToBookRatio"`
	High52Week        string `json:"52WeekHigh"`
	Low52Week         string `json:"52WeekLow"`
	SharesOutstanding string `json:"SharesOutstanding"`
}

type avIncomeReport struct {
	FiscalDateEnding  string `json:"fiscalDateEnding"`
	TotalRevenue      string `json:"totalRevenue"`
	CostOfRevenue     string `json:"costOfRevenue"`
	GrossProfit       string `json:"grossProfit"`
	OperatingExpenses string `json:"operatingExpenses"`
	OperatingIncome   string `json:"operatingIncome"`
	EBITDA            string `json:"ebitda"`
	EBIT              string `json:"ebit"`
	InterestExpense   string `json:"interestExpense"`
	IncomeTaxExpense  string `json:"incomeTaxExpense"`
	IncomeBeforeTax   string `json:"incomeBeforeTax"`
	NetIncome         string `json:"netIncome"`
}

type avIncomeResponse struct {
	Symbol        string           `json:"symbol"`
	AnnualReports []avIncomeReport `json:"annualReports"`
}

type avBalanceReport struct {
	FiscalDateEnding       string `json:"fiscalDateEnding"`
	TotalAssets            string `json:"totalAssets"`
	TotalCurrentAssets     string `json:"totalCurrentAssets"`
	Cash                   string `json:"cashAndCashEquivalentsAtCarryingValue"`
	CurrentNetReceivables  string `json:"currentNetReceivables"`
	Inventory              string `json:"inventory"`
	PropertyPlantEquipment string `json:"propertyPlantEquipment"`
	Goodwill               string `json:"goodwill"`
	IntangibleAssets       string `json:"intangibleAssets"`
	TotalLiabilities       string `json:"totalLiabilities"`
	TotalCurrentLiab       string `json:"totalCurrentLiabilities"`
	CurrentAccountsPayable string `json:"currentAccountsPayable"`
	ShortTermDebt          string `json:"shortTermDebt"`
	LongTermDebt           string `json:"longTermDebt"`
	TotalShareholderEquity string `json:"totalShareholderEquity"`
}

type avBalanceResponse struct {
	Symbol        string            `json:"symbol"`
	AnnualReports []avBalanceReport `json:"annualReports"`
}

type avCashFlowReport struct {
	FiscalDateEnding    string `json:"fiscalDateEnding"`
	OperatingCashflow   string `json:"operatingCashflow"`
	CapitalExpenditures string `json:"capitalExpenditures"` // positive magnitude
}

type avCashFlowResponse struct {
	Symbol        string             `json:"symbol"`
	AnnualReports []avCashFlowReport `json:"annualReports"`
}

type avGlobalQuote struct {
	GlobalQuote struct {
		Symbol        string `json:"01. symbol"`
		Price         string `json:"05. price"`
		Volume        string `json:"06. volume"`
		Change        string `json:"09. change"`
		ChangePercent string `json:"10. change percent"` // "1.23%"
	} `json:"Global Quote"`
}
