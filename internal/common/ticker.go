package common

import (
	"strings"
)

// Ticker is a parsed exchange-qualified symbol. Portfolio entries are plain
// US symbols ("AAPL"); an explicit exchange prefix ("LSE:SHEL") is accepted
// for non-US listings.
type Ticker struct {
	Exchange string
	Code     string
	Raw      string
}

// ExchangeToSuffix maps exchange codes to EODHD API symbol suffixes.
var ExchangeToSuffix = map[string]string{
	"NYSE":   ".US",
	"NASDAQ": ".US",
	"AMEX":   ".US",
	"LSE":    ".LSE",
	"TSX":    ".TO",
	"ASX":    ".AU",
	"XETRA":  ".XETRA",
}

// DefaultExchange applies when a ticker carries no exchange prefix.
const DefaultExchange = "NYSE"

// ParseTicker parses a ticker string:
//   - "NYSE:AAPL" -> Exchange="NYSE", Code="AAPL"
//   - "AAPL"      -> Exchange="NYSE" (default), Code="AAPL"
//   - "brk.b"     -> Exchange="NYSE", Code="BRK.B" (dot only splits on a
//     known exchange prefix, so share classes pass through)
func ParseTicker(ticker string) Ticker {
	// Raw keeps the caller's original string; parsing works on the
	// trimmed form.
	trimmed := strings.TrimSpace(ticker)
	if trimmed == "" {
		return Ticker{}
	}

	if idx := strings.Index(trimmed, ":"); idx > 0 {
		return Ticker{
			Exchange: strings.ToUpper(trimmed[:idx]),
			Code:     strings.ToUpper(trimmed[idx+1:]),
			Raw:      ticker,
		}
	}

	if idx := strings.Index(trimmed, "."); idx > 0 {
		prefix := strings.ToUpper(trimmed[:idx])
		if _, ok := ExchangeToSuffix[prefix]; ok {
			return Ticker{
				Exchange: prefix,
				Code:     strings.ToUpper(trimmed[idx+1:]),
				Raw:      ticker,
			}
		}
	}

	return Ticker{
		Exchange: DefaultExchange,
		Code:     strings.ToUpper(trimmed),
		Raw:      ticker,
	}
}

// String returns the exchange-qualified form.
func (t Ticker) String() string {
	if t.Exchange == "" || t.Code == "" {
		return t.Code
	}
	return t.Exchange + ":" + t.Code
}

// EODHDSymbol converts to the EODHD API format, CODE plus exchange suffix.
// Example: "NYSE:AAPL" -> "AAPL.US". Unknown exchanges default to US.
func (t Ticker) EODHDSymbol() string {
	if t.Code == "" {
		return ""
	}
	suffix, ok := ExchangeToSuffix[t.Exchange]
	if !ok {
		suffix = ".US"
	}
	return t.Code + suffix
}
