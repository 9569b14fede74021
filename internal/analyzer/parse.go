package analyzer

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/speculor/internal/analyst"
	"github.com/ternarybob/speculor/internal/models"
)

// Default reasoning text when the response omits a label.
const (
	defaultCatalyst = "Fundamental analysis"
	defaultRisk     = "Market volatility"
)

// minSellSpread is the minimum sell/buy ratio enforced when the model
// returns an inverted pair.
const minSellSpread = 1.15

var (
	buyTargetPattern  = regexp.MustCompile(`(?i)BUY TARGET:\s*\$?([0-9,]+\.?[0-9]*)`)
	sellTargetPattern = regexp.MustCompile(`(?i)SELL TARGET:\s*\$?([0-9,]+\.?[0-9]*)`)
	confidencePattern = regexp.MustCompile(`(?i)CONFIDENCE:\s*([0-9]+)`)
	catalystPattern   = regexp.MustCompile(`(?i)KEY CATALYST:\s*([^\n]+)`)
	riskPattern       = regexp.MustCompile(`(?i)RISK FACTOR:\s*([^\n]+)`)
)

// ParsedTargets is the structured result of one model response. BuyTarget
// and SellTarget are nil when the corresponding label was missing or
// unparseable.
type ParsedTargets struct {
	Ticker          string
	BuyTarget       *float64
	SellTarget      *float64
	ConfidenceScore int
	KeyCatalyst     string
	RiskFactor      string
	RawResponse     string
	GeneratedAt     time.Time
}

// Complete reports whether both targets were extracted.
func (p ParsedTargets) Complete() bool {
	return p.BuyTarget != nil && p.SellTarget != nil
}

// ParseResponse extracts the five labeled lines from a model response.
// Labels are matched case-insensitively in any order; missing labels
// degrade to defaults instead of failing. Post-parse invariant: when both
// targets are present, the sell target must exceed the buy target, else it
// is corrected to buy*1.15.
func ParseResponse(ticker, response string) ParsedTargets {
	parsed := ParsedTargets{
		Ticker:          ticker,
		ConfidenceScore: 5,
		KeyCatalyst:     defaultCatalyst,
		RiskFactor:      defaultRisk,
		RawResponse:     response,
		GeneratedAt:     time.Now().UTC(),
	}

	parsed.BuyTarget = matchDollar(buyTargetPattern, response)
	parsed.SellTarget = matchDollar(sellTargetPattern, response)

	if m := confidencePattern.FindStringSubmatch(response); m != nil {
		if score, err := strconv.Atoi(m[1]); err == nil {
			if score < 1 {
				score = 1
			}
			if score > 10 {
				score = 10
			}
			parsed.ConfidenceScore = score
		}
	}
	if m := catalystPattern.FindStringSubmatch(response); m != nil {
		if text := strings.TrimSpace(m[1]); text != "" {
			parsed.KeyCatalyst = text
		}
	}
	if m := riskPattern.FindStringSubmatch(response); m != nil {
		if text := strings.TrimSpace(m[1]); text != "" {
			parsed.RiskFactor = text
		}
	}

	if parsed.Complete() && *parsed.SellTarget <= *parsed.BuyTarget {
		parsed.SellTarget = models.Float(analyst.Round2(*parsed.BuyTarget * minSellSpread))
	}
	if parsed.BuyTarget != nil {
		parsed.BuyTarget = models.Float(analyst.Round2(*parsed.BuyTarget))
	}
	if parsed.SellTarget != nil {
		parsed.SellTarget = models.Float(analyst.Round2(*parsed.SellTarget))
	}

	return parsed
}

func matchDollar(pattern *regexp.Regexp, text string) *float64 {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return nil
	}
	return models.Float(v)
}
