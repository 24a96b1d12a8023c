package fmp

// FMP wire types. Statements come back as flat arrays of period
// records, newest first, with numeric JSON fields.

type fmpProfile struct {
	Symbol            string  `json:"symbol"`
	CompanyName       string  `json:"companyName"`
	Currency          string  `json:"currency"`
	ExchangeShortName string  `json:"exchangeShortName"`
	Sector            string  `json:"sector"`
	Industry          string  `json:"industry"`
	Price             float64 `json:"price"`
	Beta              float64 `json:"beta"`
	MktCap            float64 `json:"mktCap"`
	Range             string  `json:"range"` // "164.08-260.10"
}

type fmpQuote struct {
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	Change            float64 `json:"change"`
	ChangesPercentage float64 `json:"changesPercentage"`
	YearHigh          float64 `json:"yearHigh"`
	YearLow           float64 `json:"yearLow"`
	MarketCap         float64 `json:"marketCap"`
	Volume            float64 `json:"volume"`
	PE                float64 `json:"pe"`
	SharesOutstanding float64 `json:"sharesOutstanding"`
	Timestamp         int64   `json:"timestamp"`
}

type fmpIncomeStatement struct {
	Date              string  `json:"date"`
	Period            string  `json:"period"` // "FY"
	Revenue           float64 `json:"revenue"`
	CostOfRevenue     float64 `json:"costOfRevenue"`
	GrossProfit       float64 `json:"grossProfit"`
	OperatingExpenses float64 `json:"operatingExpenses"`
	OperatingIncome   float64 `json:"operatingIncome"`
	EBITDA            float64 `json:"ebitda"`
	InterestExpense   float64 `json:"interestExpense"`
	IncomeBeforeTax   float64 `json:"incomeBeforeTax"`
	IncomeTaxExpense  float64 `json:"incomeTaxExpense"`
	NetIncome         float64 `json:"netIncome"`
}

type fmpBalanceSheet struct {
	Date                      string  `json:"date"`
	TotalAssets               float64 `json:"totalAssets"`
	TotalCurrentAssets        float64 `json:"totalCurrentAssets"`
	CashAndCashEquivalents    float64 `json:"cashAndCashEquivalents"`
	NetReceivables            float64 `json:"netReceivables"`
	Inventory                 float64 `json:"inventory"`
	PropertyPlantEquipmentNet float64 `json:"propertyPlantEquipmentNet"`
	Goodwill                  float64 `json:"goodwill"`
	IntangibleAssets          float64 `json:"intangibleAssets"`
	TotalLiabilities          float64 `json:"totalLiabilities"`
	TotalCurrentLiabilities   float64 `json:"totalCurrentLiabilities"`
	AccountPayables           float64 `json:"accountPayables"`
	ShortTermDebt             float64 `json:"shortTermDebt"`
	LongTermDebt              float64 `json:"longTermDebt"`
	TotalStockholdersEquity   float64 `json:"totalStockholdersEquity"`
}

type fmpCashFlow struct {
	Date               string  `json:"date"`
	OperatingCashFlow  float64 `json:"operatingCashFlow"`
	CapitalExpenditure float64 `json:"capitalExpenditure"` // negative by FMP convention
	FreeCashFlow       float64 `json:"freeCashFlow"`
}
