package models

// FinancialSnapshot is the typed view of a ticker's fundamentals used for
// prompt construction and target persistence. Every field is declared
// optional up front; the provider may return any subset.
type FinancialSnapshot struct {
	Ticker          string   `json:"ticker"`
	CurrentPrice    *float64 `json:"current_price"`
	MarketCap       *float64 `json:"market_cap,omitempty"`
	PERatio         *float64 `json:"pe_ratio,omitempty"`
	ForwardPE       *float64 `json:"forward_pe,omitempty"`
	PEGRatio        *float64 `json:"peg_ratio,omitempty"`
	PriceToBook     *float64 `json:"price_to_book,omitempty"`
	DebtToEquity    *float64 `json:"debt_to_equity,omitempty"`
	ReturnOnEquity  *float64 `json:"return_on_equity,omitempty"`
	RevenueGrowth   *float64 `json:"revenue_growth,omitempty"`
	EarningsGrowth  *float64 `json:"earnings_growth,omitempty"`
	ProfitMargins   *float64 `json:"profit_margins,omitempty"`
	OperatingMargin *float64 `json:"operating_margins,omitempty"`
	FreeCashFlow    *float64 `json:"free_cash_flow,omitempty"`
	EBITDA          *float64 `json:"ebitda,omitempty"`
	Revenue         *float64 `json:"revenue,omitempty"`
	Sector          string   `json:"sector,omitempty"`
	Industry        string   `json:"industry,omitempty"`
	High52Week      *float64 `json:"52_week_high,omitempty"`
	Low52Week       *float64 `json:"52_week_low,omitempty"`
	Beta            *float64 `json:"beta,omitempty"`
	DividendYield   *float64 `json:"dividend_yield,omitempty"`
}

// HasPrice reports whether the snapshot carries a usable current price.
// Tickers without a price are skipped for target generation.
func (s FinancialSnapshot) HasPrice() bool {
	return s.CurrentPrice != nil && *s.CurrentPrice > 0
}
