package marketdata

import (
	"strconv"
	"time"

	"github.com/ternarybob/speculor/internal/models"
)

// Quote holds a live OHLCV snapshot for a symbol.
type Quote struct {
	Code          string  `json:"code"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"` // current/last price
	PreviousClose float64 `json:"previousClose"`
	Change        float64 `json:"change"`
	ChangePct     float64 `json:"change_p"`
	Volume        int64   `json:"volume"`
	Timestamp     int64   `json:"timestamp"`
}

// EODData represents a single day's end-of-day price data.
type EODData struct {
	Date          time.Time `json:"-"`
	DateStr       string    `json:"date"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Close         float64   `json:"close"`
	AdjustedClose float64   `json:"adjusted_close"`
	Volume        int64     `json:"volume"`
}

// EODResponse is a slice of EODData.
type EODResponse []EODData

// FundamentalsResponse is the provider's fundamentals document. Only the
// sections the pipeline consumes are declared; the provider may omit any of
// them.
type FundamentalsResponse struct {
	General        *GeneralInfo    `json:"General"`
	Highlights     *Highlights     `json:"Highlights"`
	Valuation      *Valuation      `json:"Valuation"`
	Technicals     *Technicals     `json:"Technicals"`
	AnalystRatings *AnalystRatings `json:"AnalystRatings"`
	Financials     *Financials     `json:"Financials"`
}

// Financials holds the statement-history sections of the fundamentals
// document. The provider serializes statement values as strings.
type Financials struct {
	BalanceSheet *StatementSeries `json:"Balance_Sheet"`
	CashFlow     *StatementSeries `json:"Cash_Flow"`
}

// StatementSeries is one statement section, quarterly entries keyed by
// report date.
type StatementSeries struct {
	Quarterly map[string]StatementEntry `json:"quarterly"`
}

// StatementEntry carries the statement line items the snapshot consumes.
type StatementEntry struct {
	Date                   string `json:"date"`
	TotalLiab              string `json:"totalLiab"`
	TotalStockholderEquity string `json:"totalStockholderEquity"`
	FreeCashFlow           string `json:"freeCashFlow"`
}

// Latest returns the most recent entry in a series. Report-date keys are
// ISO dates, so lexical order is chronological order.
func (s *StatementSeries) Latest() (StatementEntry, bool) {
	if s == nil || len(s.Quarterly) == 0 {
		return StatementEntry{}, false
	}
	var latest string
	for date := range s.Quarterly {
		if date > latest {
			latest = date
		}
	}
	return s.Quarterly[latest], true
}

// GeneralInfo contains general company information.
type GeneralInfo struct {
	Code     string `json:"Code"`
	Name     string `json:"Name"`
	Sector   string `json:"Sector"`
	Industry string `json:"Industry"`
}

// Highlights contains key financial highlights.
type Highlights struct {
	MarketCapitalization       float64 `json:"MarketCapitalization"`
	EBITDA                     float64 `json:"EBITDA"`
	PERatio                    float64 `json:"PERatio"`
	PEGRatio                   float64 `json:"PEGRatio"`
	WallStreetTargetPrice      float64 `json:"WallStreetTargetPrice"`
	DividendYield              float64 `json:"DividendYield"`
	ProfitMargin               float64 `json:"ProfitMargin"`
	OperatingMarginTTM         float64 `json:"OperatingMarginTTM"`
	ReturnOnEquityTTM          float64 `json:"ReturnOnEquityTTM"`
	RevenueTTM                 float64 `json:"RevenueTTM"`
	QuarterlyRevenueGrowthYOY  float64 `json:"QuarterlyRevenueGrowthYOY"`
	QuarterlyEarningsGrowthYOY float64 `json:"QuarterlyEarningsGrowthYOY"`
}

// Valuation contains valuation metrics.
type Valuation struct {
	TrailingPE     float64 `json:"TrailingPE"`
	ForwardPE      float64 `json:"ForwardPE"`
	PriceBookMRQ   float64 `json:"PriceBookMRQ"`
	EnterpriseVal  float64 `json:"EnterpriseValue"`
	EnterpriseEbit float64 `json:"EnterpriseValueEbitda"`
}

// Technicals contains technical indicators.
type Technicals struct {
	Beta        float64 `json:"Beta"`
	High52Week  float64 `json:"52WeekHigh"`
	Low52Week   float64 `json:"52WeekLow"`
	ShortRatio  float64 `json:"ShortRatio"`
	SharesShort float64 `json:"SharesShort"`
}

// AnalystRatings contains analyst ratings data.
type AnalystRatings struct {
	Rating      float64 `json:"Rating"` // 1=strong buy .. 5=strong sell
	TargetPrice float64 `json:"TargetPrice"`
	StrongBuy   int     `json:"StrongBuy"`
	Buy         int     `json:"Buy"`
	Hold        int     `json:"Hold"`
	Sell        int     `json:"Sell"`
	StrongSell  int     `json:"StrongSell"`
}

// AnalystCount returns the total number of covering analysts across the
// rating buckets.
func (a *AnalystRatings) AnalystCount() int {
	if a == nil {
		return 0
	}
	return a.StrongBuy + a.Buy + a.Hold + a.Sell + a.StrongSell
}

// Snapshot converts a fundamentals document into the typed optional-field
// financial snapshot the analyzer consumes. Provider zero values are treated
// as absent.
func (f *FundamentalsResponse) Snapshot(ticker string, currentPrice float64) models.FinancialSnapshot {
	snap := models.FinancialSnapshot{Ticker: ticker}
	if currentPrice > 0 {
		snap.CurrentPrice = models.Float(currentPrice)
	}

	if f == nil {
		return snap
	}

	if f.General != nil {
		snap.Sector = f.General.Sector
		snap.Industry = f.General.Industry
	}
	if h := f.Highlights; h != nil {
		snap.MarketCap = optional(h.MarketCapitalization)
		snap.PERatio = optional(h.PERatio)
		snap.PEGRatio = optional(h.PEGRatio)
		snap.ProfitMargins = optional(h.ProfitMargin)
		snap.OperatingMargin = optional(h.OperatingMarginTTM)
		snap.ReturnOnEquity = optional(h.ReturnOnEquityTTM)
		snap.Revenue = optional(h.RevenueTTM)
		snap.RevenueGrowth = optional(h.QuarterlyRevenueGrowthYOY)
		snap.EarningsGrowth = optional(h.QuarterlyEarningsGrowthYOY)
		snap.EBITDA = optional(h.EBITDA)
		snap.DividendYield = optional(h.DividendYield)
	}
	if v := f.Valuation; v != nil {
		snap.ForwardPE = optional(v.ForwardPE)
		snap.PriceToBook = optional(v.PriceBookMRQ)
		if snap.PERatio == nil {
			snap.PERatio = optional(v.TrailingPE)
		}
	}
	if t := f.Technicals; t != nil {
		snap.Beta = optional(t.Beta)
		snap.High52Week = optional(t.High52Week)
		snap.Low52Week = optional(t.Low52Week)
	}
	if fin := f.Financials; fin != nil {
		if entry, ok := fin.BalanceSheet.Latest(); ok {
			liab := statementValue(entry.TotalLiab)
			equity := statementValue(entry.TotalStockholderEquity)
			if liab != nil && equity != nil {
				snap.DebtToEquity = models.Float(*liab / *equity)
			}
		}
		if entry, ok := fin.CashFlow.Latest(); ok {
			snap.FreeCashFlow = statementValue(entry.FreeCashFlow)
		}
	}

	return snap
}

// statementValue parses a statement string into an optional float. Empty,
// malformed, and zero values are treated as absent.
func statementValue(raw string) *float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v == 0 {
		return nil
	}
	return models.Float(v)
}

// optional maps a provider zero value to an absent field.
func optional(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return models.Float(v)
}
