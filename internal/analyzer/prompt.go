// Package analyzer builds the target-generation prompt, calls the
// configured language-model provider, and parses the labeled-line response
// into a validated target.
package analyzer

import (
	"fmt"
	"math"
	"strings"

	"github.com/ternarybob/speculor/internal/models"
)

// FormatMoney renders a dollar amount scaled for readability, "N/A" when
// the value is absent.
func FormatMoney(v *float64) string {
	if v == nil {
		return "N/A"
	}
	switch {
	case math.Abs(*v) >= 1e9:
		return fmt.Sprintf("$%.2fB", *v/1e9)
	case math.Abs(*v) >= 1e6:
		return fmt.Sprintf("$%.2fM", *v/1e6)
	default:
		return fmt.Sprintf("$%.2f", *v)
	}
}

// FormatPercent renders a fractional ratio as a percentage, "N/A" when
// absent.
func FormatPercent(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", *v*100)
}

func formatRatio(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}

func formatInt(v *int) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", *v)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// BuildPrompt assembles the 12-month target-analysis prompt from the
// financial snapshot and the aggregated analyst record. Absent fields
// render as N/A rather than being omitted, so the model always sees the
// same shape.
func BuildPrompt(ticker string, fin models.FinancialSnapshot, analyst models.AggregatedAnalystRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze %s for 12-month price targets using fundamental analysis:\n\n", ticker)

	b.WriteString("CURRENT MARKET DATA:\n")
	fmt.Fprintf(&b, "- Current Price: %s\n", FormatMoney(fin.CurrentPrice))
	fmt.Fprintf(&b, "- Market Cap: %s\n", FormatMoney(fin.MarketCap))
	fmt.Fprintf(&b, "- Sector: %s\n", orNA(fin.Sector))
	fmt.Fprintf(&b, "- 52-Week Range: %s - %s\n", FormatMoney(fin.Low52Week), FormatMoney(fin.High52Week))
	fmt.Fprintf(&b, "- Beta: %s\n\n", formatRatio(fin.Beta))

	b.WriteString("VALUATION METRICS:\n")
	fmt.Fprintf(&b, "- P/E Ratio: %s\n", formatRatio(fin.PERatio))
	fmt.Fprintf(&b, "- Forward P/E: %s\n", formatRatio(fin.ForwardPE))
	fmt.Fprintf(&b, "- PEG Ratio: %s\n", formatRatio(fin.PEGRatio))
	fmt.Fprintf(&b, "- Price/Book: %s\n\n", formatRatio(fin.PriceToBook))

	b.WriteString("FINANCIAL HEALTH:\n")
	fmt.Fprintf(&b, "- Debt/Equity: %s\n", formatRatio(fin.DebtToEquity))
	fmt.Fprintf(&b, "- Return on Equity: %s\n", FormatPercent(fin.ReturnOnEquity))
	fmt.Fprintf(&b, "- Profit Margins: %s\n", FormatPercent(fin.ProfitMargins))
	fmt.Fprintf(&b, "- Free Cash Flow: %s\n\n", FormatMoney(fin.FreeCashFlow))

	b.WriteString("GROWTH METRICS:\n")
	fmt.Fprintf(&b, "- Revenue Growth: %s\n", FormatPercent(fin.RevenueGrowth))
	fmt.Fprintf(&b, "- Earnings Growth: %s\n\n", FormatPercent(fin.EarningsGrowth))

	b.WriteString("ANALYST CONSENSUS:\n")
	fmt.Fprintf(&b, "- Average Target: %s\n", FormatMoney(analyst.ConsensusTarget))
	fmt.Fprintf(&b, "- Target Range: %s - %s\n", FormatMoney(analyst.TargetRange.Low), FormatMoney(analyst.TargetRange.High))
	fmt.Fprintf(&b, "- Analyst Coverage: %s analysts\n", formatInt(analyst.AnalystCount))
	fmt.Fprintf(&b, "- Recommendation Score: %s (1=Strong Buy, 5=Strong Sell)\n", formatRatio(analyst.RecommendationScore))
	fmt.Fprintf(&b, "- Data Confidence: %d/10\n\n", analyst.ConfidenceLevel)

	b.WriteString(`Based on this data, provide:

1. BUY TARGET: Conservative entry point for new positions
2. SELL TARGET: Profit-taking level for existing positions
3. CONFIDENCE: Rating from 1-10 based on analysis quality
4. KEY CATALYST: Most important factor driving your targets
5. RISK FACTOR: Primary concern for the investment

Requirements:
- Use DCF-style thinking: focus on intrinsic value vs current price
- Consider analyst consensus but form independent opinion
- Factor in sector trends and market conditions
- Provide targets that are actionable for 12-month timeframe
- Be conservative on buy targets, optimistic but realistic on sell targets

Format your response as:
BUY TARGET: $XXX.XX
SELL TARGET: $XXX.XX
CONFIDENCE: X/10
KEY CATALYST: [One sentence explanation]
RISK FACTOR: [One sentence explanation]
`)

	return b.String()
}
