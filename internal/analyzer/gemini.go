package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculor/internal/common"
	"google.golang.org/genai"
)

// GeminiProvider generates target analysis through the Google Gemini API.
type GeminiProvider struct {
	config  *common.GeminiConfig
	client  *genai.Client
	logger  arbor.ILogger
	timeout time.Duration
}

// NewGeminiProvider creates the Gemini provider from configuration.
func NewGeminiProvider(ctx context.Context, config *common.GeminiConfig, logger arbor.ILogger) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY or gemini.api_key in config)")
	}

	timeout, err := time.ParseDuration(config.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid gemini timeout '%s': %w", config.Timeout, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	logger.Debug().Str("model", config.Model).Msg("Gemini provider initialized")

	return &GeminiProvider{
		config:  config,
		client:  client,
		logger:  logger,
		timeout: timeout,
	}, nil
}

// Name returns the provider identifier.
func (p *GeminiProvider) Name() string { return "gemini" }

// Generate sends the prompt and returns the raw response text.
func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	resp, err := p.client.Models.GenerateContent(
		timeoutCtx,
		p.config.Model,
		genai.Text(prompt),
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("Gemini API call failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no response generated from Gemini API")
	}

	p.logger.Debug().
		Int("response_length", len(text)).
		Str("duration", time.Since(start).String()).
		Msg("Gemini completion finished")
	return text, nil
}
