package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTicker(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		exchange string
		code     string
	}{
		{name: "plain US symbol", input: "AAPL", exchange: "NYSE", code: "AAPL"},
		{name: "lowercase normalized", input: "msft", exchange: "NYSE", code: "MSFT"},
		{name: "colon prefix", input: "LSE:SHEL", exchange: "LSE", code: "SHEL"},
		{name: "dot prefix known exchange", input: "ASX.BHP", exchange: "ASX", code: "BHP"},
		{name: "share class keeps dot", input: "BRK.B", exchange: "NYSE", code: "BRK.B"},
		{name: "whitespace trimmed", input: "  GOOGL ", exchange: "NYSE", code: "GOOGL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticker := ParseTicker(tt.input)
			assert.Equal(t, tt.exchange, ticker.Exchange)
			assert.Equal(t, tt.code, ticker.Code)
			assert.Equal(t, tt.input, ticker.Raw)
		})
	}
}

func TestParseTickerEmpty(t *testing.T) {
	assert.Equal(t, Ticker{}, ParseTicker(""))
	assert.Equal(t, Ticker{}, ParseTicker("   "))
}

func TestEODHDSymbol(t *testing.T) {
	tests := []struct {
		input  string
		symbol string
	}{
		{input: "AAPL", symbol: "AAPL.US"},
		{input: "NASDAQ:MSFT", symbol: "MSFT.US"},
		{input: "LSE:SHEL", symbol: "SHEL.LSE"},
		{input: "TSX:SHOP", symbol: "SHOP.TO"},
		{input: "UNKNOWN:ABC", symbol: "ABC.US"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.symbol, ParseTicker(tt.input).EODHDSymbol())
		})
	}
}

func TestTickerString(t *testing.T) {
	assert.Equal(t, "NYSE:AAPL", ParseTicker("AAPL").String())
	assert.Equal(t, "", Ticker{}.String())
}
