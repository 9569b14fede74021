package mailer

import (
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/ternarybob/speculor/internal/models"
)

var templateFuncs = template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
	"pct":   func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
}

var dailyTemplate = template.Must(template.New("daily").Funcs(templateFuncs).Parse(`<html>
<body style="font-family: Arial, sans-serif; color: #222;">
<h2>Daily Portfolio Summary</h2>
<p>{{.Date}}</p>

{{if .Alerts}}
<h3>Alerts ({{len .Alerts}})</h3>
<table border="1" cellpadding="6" cellspacing="0" style="border-collapse: collapse;">
<tr style="background: #f0f0f0;"><th>Type</th><th>Ticker</th><th>Price</th><th>Target</th><th>Detail</th></tr>
{{range .Alerts}}
<tr>
<td><b>{{.Type}}</b></td>
<td>{{.Ticker}}</td>
<td>{{money .CurrentPrice}}</td>
<td>{{money .TargetPrice}}</td>
<td>{{.Message}}</td>
</tr>
{{end}}
</table>
{{else}}
<p>No alerts today. All tickers between targets.</p>
{{end}}

<h3>Prices</h3>
<table border="1" cellpadding="6" cellspacing="0" style="border-collapse: collapse;">
<tr style="background: #f0f0f0;"><th>Ticker</th><th>Price</th><th>Buy Target</th><th>Sell Target</th><th>Confidence</th></tr>
{{range .Rows}}
<tr>
<td>{{.Ticker}}</td>
<td>{{money .Price}}</td>
<td>{{money .BuyTarget}}</td>
<td>{{money .SellTarget}}</td>
<td>{{.Confidence}}/10</td>
</tr>
{{end}}
</table>

<p>High-confidence targets: {{.HighConfidence}}</p>
</body>
</html>`))

var monthlyTemplate = template.Must(template.New("monthly").Funcs(templateFuncs).Parse(`<html>
<body style="font-family: Arial, sans-serif; color: #222;">
<h2>Monthly Target Update</h2>
<p>{{.Date}}</p>

<p>Updated {{.UpdatedCount}} of {{.TotalCount}} tickers. Estimated analysis cost: {{money .EstimatedCost}}.</p>

<h3>Targets</h3>
<table border="1" cellpadding="6" cellspacing="0" style="border-collapse: collapse;">
<tr style="background: #f0f0f0;"><th>Ticker</th><th>Buy Target</th><th>Sell Target</th><th>Confidence</th><th>Outcome</th></tr>
{{range .Rows}}
<tr>
<td>{{.Ticker}}</td>
<td>{{money .BuyTarget}}</td>
<td>{{money .SellTarget}}</td>
<td>{{.Confidence}}/10</td>
<td>{{.Outcome}}</td>
</tr>
{{end}}
</table>
</body>
</html>`))

type dailyRow struct {
	Ticker     string
	Price      float64
	BuyTarget  float64
	SellTarget float64
	Confidence int
}

type monthlyRow struct {
	Ticker     string
	BuyTarget  float64
	SellTarget float64
	Confidence int
	Outcome    string
}

// RenderDailySummary builds the daily email from a job result, returning
// HTML and a plain text fallback.
func RenderDailySummary(result *models.JobResult) (string, string, error) {
	rows := make([]dailyRow, 0, len(result.Targets))
	for ticker, target := range result.Targets {
		rows = append(rows, dailyRow{
			Ticker:     ticker,
			Price:      result.Prices[ticker],
			BuyTarget:  target.BuyTarget,
			SellTarget: target.SellTarget,
			Confidence: target.Confidence,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Ticker < rows[j].Ticker })

	data := struct {
		Date           string
		Alerts         []models.Alert
		Rows           []dailyRow
		HighConfidence int
	}{
		Date:           result.Timestamp.Format("Monday, 2 January 2006"),
		Alerts:         result.Alerts,
		Rows:           rows,
		HighConfidence: result.HighConfidenceTargets,
	}

	var html strings.Builder
	if err := dailyTemplate.Execute(&html, data); err != nil {
		return "", "", fmt.Errorf("failed to render daily summary: %w", err)
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Daily Portfolio Summary - %s\n\n", data.Date)
	if len(result.Alerts) == 0 {
		text.WriteString("No alerts today.\n")
	}
	for _, alert := range result.Alerts {
		fmt.Fprintf(&text, "[%s] %s\n", alert.Type, alert.Message)
	}
	for _, row := range rows {
		fmt.Fprintf(&text, "%s: $%.2f (buy $%.2f / sell $%.2f, confidence %d/10)\n",
			row.Ticker, row.Price, row.BuyTarget, row.SellTarget, row.Confidence)
	}

	return html.String(), text.String(), nil
}

// RenderMonthlyUpdate builds the monthly email from a job result.
func RenderMonthlyUpdate(result *models.JobResult, totalCount int) (string, string, error) {
	rows := make([]monthlyRow, 0, len(result.Targets))
	for ticker, target := range result.Targets {
		rows = append(rows, monthlyRow{
			Ticker:     ticker,
			BuyTarget:  target.BuyTarget,
			SellTarget: target.SellTarget,
			Confidence: target.Confidence,
			Outcome:    result.Outcomes[ticker],
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Ticker < rows[j].Ticker })

	data := struct {
		Date          string
		UpdatedCount  int
		TotalCount    int
		EstimatedCost float64
		Rows          []monthlyRow
	}{
		Date:          result.Timestamp.Format("Monday, 2 January 2006"),
		UpdatedCount:  result.UpdatedStocks,
		TotalCount:    totalCount,
		EstimatedCost: result.EstimatedCost,
		Rows:          rows,
	}

	var html strings.Builder
	if err := monthlyTemplate.Execute(&html, data); err != nil {
		return "", "", fmt.Errorf("failed to render monthly update: %w", err)
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Monthly Target Update - %s\n", data.Date)
	fmt.Fprintf(&text, "Updated %d of %d tickers (est. cost $%.2f)\n\n", data.UpdatedCount, data.TotalCount, data.EstimatedCost)
	for _, row := range rows {
		fmt.Fprintf(&text, "%s: buy $%.2f / sell $%.2f (confidence %d/10) - %s\n",
			row.Ticker, row.BuyTarget, row.SellTarget, row.Confidence, row.Outcome)
	}

	return html.String(), text.String(), nil
}
