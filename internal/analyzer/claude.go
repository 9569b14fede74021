package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculor/internal/common"
)

// ClaudeProvider generates target analysis through the Anthropic API.
type ClaudeProvider struct {
	config  *common.ClaudeConfig
	client  anthropic.Client
	logger  arbor.ILogger
	timeout time.Duration
}

// NewClaudeProvider creates the Claude provider from configuration.
func NewClaudeProvider(config *common.ClaudeConfig, logger arbor.ILogger) (*ClaudeProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required (set ANTHROPIC_API_KEY or claude.api_key in config)")
	}

	timeout, err := time.ParseDuration(config.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid claude timeout '%s': %w", config.Timeout, err)
	}

	client := anthropic.NewClient(
		option.WithAPIKey(config.APIKey),
	)

	logger.Debug().
		Str("model", config.Model).
		Int("max_tokens", config.MaxTokens).
		Float32("temperature", config.Temperature).
		Msg("Claude provider initialized")

	return &ClaudeProvider{
		config:  config,
		client:  client,
		logger:  logger,
		timeout: timeout,
	}, nil
}

// Name returns the provider identifier.
func (p *ClaudeProvider) Name() string { return "claude" }

// Generate sends the prompt and returns the raw response text.
func (p *ClaudeProvider) Generate(ctx context.Context, prompt string) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.config.Model),
		MaxTokens: int64(p.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if p.config.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(p.config.Temperature))
	}

	start := time.Now()
	resp, err := p.client.Messages.New(timeoutCtx, params)
	if err != nil {
		return "", fmt.Errorf("Claude API call failed: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("no response generated from Claude API")
	}

	p.logger.Debug().
		Int("response_length", text.Len()).
		Str("duration", time.Since(start).String()).
		Msg("Claude completion finished")
	return text.String(), nil
}
