package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/speculor/internal/common"
	"github.com/ternarybob/speculor/internal/models"
)

func TestParseResponseFullResponse(t *testing.T) {
	response := `Based on my analysis of the fundamentals:

BUY TARGET: $142.50
SELL TARGET: $198.00
CONFIDENCE: 8/10
KEY CATALYST: Data center demand continues to outpace supply.
RISK FACTOR: Valuation leaves little room for execution missteps.`

	parsed := ParseResponse("NVDA", response)

	require.True(t, parsed.Complete())
	assert.Equal(t, 142.50, *parsed.BuyTarget)
	assert.Equal(t, 198.00, *parsed.SellTarget)
	assert.Equal(t, 8, parsed.ConfidenceScore)
	assert.Equal(t, "Data center demand continues to outpace supply.", parsed.KeyCatalyst)
	assert.Equal(t, "Valuation leaves little room for execution missteps.", parsed.RiskFactor)
}

func TestParseResponseInvertedTargetsCorrected(t *testing.T) {
	parsed := ParseResponse("AAPL", "BUY TARGET: $50.00\nSELL TARGET: $40.00\nCONFIDENCE: 8/10")

	require.True(t, parsed.Complete())
	assert.Equal(t, 50.00, *parsed.BuyTarget)
	assert.Equal(t, 57.5, *parsed.SellTarget, "sell must be corrected to buy * 1.15")
}

func TestParseResponseMissingConfidenceDefaultsToFive(t *testing.T) {
	parsed := ParseResponse("AAPL", "BUY TARGET: $100\nSELL TARGET: $130")

	assert.Equal(t, 5, parsed.ConfidenceScore)
}

func TestParseResponseDefaults(t *testing.T) {
	parsed := ParseResponse("AAPL", "no labels at all in this response")

	assert.False(t, parsed.Complete())
	assert.Nil(t, parsed.BuyTarget)
	assert.Nil(t, parsed.SellTarget)
	assert.Equal(t, 5, parsed.ConfidenceScore)
	assert.Equal(t, "Fundamental analysis", parsed.KeyCatalyst)
	assert.Equal(t, "Market volatility", parsed.RiskFactor)
}

func TestParseResponseLabelVariants(t *testing.T) {
	t.Run("case insensitive", func(t *testing.T) {
		parsed := ParseResponse("AAPL", "buy target: $85.25\nsell target: $110.75")
		require.True(t, parsed.Complete())
		assert.Equal(t, 85.25, *parsed.BuyTarget)
	})

	t.Run("comma grouped", func(t *testing.T) {
		parsed := ParseResponse("BRK", "BUY TARGET: $1,250.00\nSELL TARGET: $1,500.00")
		require.True(t, parsed.Complete())
		assert.Equal(t, 1250.00, *parsed.BuyTarget)
	})

	t.Run("out of order labels", func(t *testing.T) {
		parsed := ParseResponse("AAPL", "CONFIDENCE: 9/10\nSELL TARGET: $130\nBUY TARGET: $100")
		require.True(t, parsed.Complete())
		assert.Equal(t, 9, parsed.ConfidenceScore)
	})
}

func TestParseResponseConfidenceClamped(t *testing.T) {
	parsed := ParseResponse("AAPL", "BUY TARGET: $100\nSELL TARGET: $130\nCONFIDENCE: 15/10")
	assert.Equal(t, 10, parsed.ConfidenceScore)

	parsed = ParseResponse("AAPL", "BUY TARGET: $100\nSELL TARGET: $130\nCONFIDENCE: 0/10")
	assert.Equal(t, 1, parsed.ConfidenceScore)
}

func TestBuildPrompt(t *testing.T) {
	fin := models.FinancialSnapshot{
		Ticker:       "AAPL",
		CurrentPrice: models.Float(185.50),
		MarketCap:    models.Float(2.87e12),
		Sector:       "Technology",
	}
	analyst := models.AggregatedAnalystRecord{
		Ticker:          "AAPL",
		ConsensusTarget: models.Float(205.00),
		AnalystCount:    models.Int(24),
		ConfidenceLevel: 8,
	}

	prompt := BuildPrompt("AAPL", fin, analyst)

	assert.Contains(t, prompt, "Analyze AAPL for 12-month price targets")
	assert.Contains(t, prompt, "Current Price: $185.50")
	assert.Contains(t, prompt, "Market Cap: $2870.00B")
	assert.Contains(t, prompt, "Sector: Technology")
	assert.Contains(t, prompt, "Average Target: $205.00")
	assert.Contains(t, prompt, "Analyst Coverage: 24 analysts")
	assert.Contains(t, prompt, "Data Confidence: 8/10")
	assert.Contains(t, prompt, "P/E Ratio: N/A")
	assert.Contains(t, prompt, "BUY TARGET: $XXX.XX")
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "N/A", FormatMoney(nil))
	assert.Equal(t, "$42.00", FormatMoney(models.Float(42)))
	assert.Equal(t, "$456.78M", FormatMoney(models.Float(456.78e6)))
	assert.Equal(t, "$1.23B", FormatMoney(models.Float(1.23e9)))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "N/A", FormatPercent(nil))
	assert.Equal(t, "15.3%", FormatPercent(models.Float(0.153)))
}

type stubProvider struct {
	response string
	err      error
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Generate(_ context.Context, _ string) (string, error) {
	return s.response, s.err
}

func TestGenerateTarget(t *testing.T) {
	fin := models.FinancialSnapshot{Ticker: "AAPL", CurrentPrice: models.Float(180), Sector: "Technology"}
	analystData := models.AggregatedAnalystRecord{
		Ticker:          "AAPL",
		ConsensusTarget: models.Float(200),
		ConfidenceLevel: 7,
		Sources:         []string{"eodhd", "marketwatch"},
	}

	t.Run("successful generation", func(t *testing.T) {
		provider := &stubProvider{response: "BUY TARGET: $160.00\nSELL TARGET: $210.00\nCONFIDENCE: 7/10\nKEY CATALYST: Services growth.\nRISK FACTOR: Hardware cycle."}

		record, err := NewAnalyzer(provider, common.GetLogger()).GenerateTarget(context.Background(), fin, analystData)

		require.NoError(t, err)
		assert.Equal(t, 160.00, record.BuyTarget)
		assert.Equal(t, 210.00, record.SellTarget)
		assert.Equal(t, 7, record.ConfidenceScore)
		assert.Equal(t, 7, record.AnalystConfidence)
		assert.Equal(t, []string{"eodhd", "marketwatch"}, record.DataSources)
		assert.Equal(t, "Technology", record.Sector)
	})

	t.Run("provider error propagates", func(t *testing.T) {
		provider := &stubProvider{err: errors.New("overloaded")}

		_, err := NewAnalyzer(provider, common.GetLogger()).GenerateTarget(context.Background(), fin, analystData)
		assert.Error(t, err)
	})

	t.Run("incomplete response is an error", func(t *testing.T) {
		provider := &stubProvider{response: "I cannot provide price targets."}

		_, err := NewAnalyzer(provider, common.GetLogger()).GenerateTarget(context.Background(), fin, analystData)
		assert.Error(t, err)
	})

	t.Run("missing price skips the model call", func(t *testing.T) {
		provider := &stubProvider{response: "BUY TARGET: $160.00\nSELL TARGET: $210.00"}
		noPrice := models.FinancialSnapshot{Ticker: "AAPL", Sector: "Technology"}

		_, err := NewAnalyzer(provider, common.GetLogger()).GenerateTarget(context.Background(), noPrice, analystData)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no current price")
	})
}
