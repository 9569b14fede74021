package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculor/internal/common"
	"github.com/ternarybob/speculor/internal/models"
)

// Provider abstracts the language-model backend.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewProvider selects the configured language-model backend.
func NewProvider(ctx context.Context, config *common.Config, logger arbor.ILogger) (Provider, error) {
	switch config.LLM.Provider {
	case "gemini":
		return NewGeminiProvider(ctx, &config.Gemini, logger)
	case "claude", "":
		return NewClaudeProvider(&config.Claude, logger)
	default:
		return nil, fmt.Errorf("unknown llm provider '%s'", config.LLM.Provider)
	}
}

// Analyzer turns a financial snapshot plus an aggregated analyst record
// into a persisted target record via the language model.
type Analyzer struct {
	provider Provider
	logger   arbor.ILogger
}

// NewAnalyzer creates an analyzer over a provider.
func NewAnalyzer(provider Provider, logger arbor.ILogger) *Analyzer {
	return &Analyzer{provider: provider, logger: logger}
}

// GenerateTarget runs one ticker through prompt, model call, and parse.
// Returns an error when the model call fails or the response yields no
// usable buy/sell pair; the caller skips the ticker and continues.
func (a *Analyzer) GenerateTarget(ctx context.Context, fin models.FinancialSnapshot, analystData models.AggregatedAnalystRecord) (*models.TargetRecord, error) {
	ticker := fin.Ticker
	if !fin.HasPrice() {
		return nil, fmt.Errorf("no current price for %s, cannot generate targets", ticker)
	}
	prompt := BuildPrompt(ticker, fin, analystData)

	a.logger.Info().
		Str("ticker", ticker).
		Str("provider", a.provider.Name()).
		Msg("Generating price targets")

	response, err := a.provider.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("target generation for %s failed: %w", ticker, err)
	}

	parsed := ParseResponse(ticker, response)
	if !parsed.Complete() {
		return nil, fmt.Errorf("model response for %s missing buy or sell target", ticker)
	}

	record := &models.TargetRecord{
		Ticker:            ticker,
		BuyTarget:         *parsed.BuyTarget,
		SellTarget:        *parsed.SellTarget,
		ConfidenceScore:   parsed.ConfidenceScore,
		KeyCatalyst:       parsed.KeyCatalyst,
		RiskFactor:        parsed.RiskFactor,
		AnalystConsensus:  analystData.ConsensusTarget,
		AnalystConfidence: analystData.ConfidenceLevel,
		CurrentPrice:      fin.CurrentPrice,
		Sector:            fin.Sector,
		UpdatedAt:         time.Now().UTC(),
		DataSources:       analystData.Sources,
		PERatio:           fin.PERatio,
		MarketCap:         fin.MarketCap,
	}

	a.logger.Info().
		Str("ticker", ticker).
		Float64("buy_target", record.BuyTarget).
		Float64("sell_target", record.SellTarget).
		Int("confidence", record.ConfidenceScore).
		Msg("Price targets generated")
	return record, nil
}
