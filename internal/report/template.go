package report

import "html/template"

var templates = template.Must(template.New("report").
	Funcs(template.FuncMap{"signClass": signClass}).
	Parse(documentTemplate + portfolioTemplate))

// portfolioTemplate is the portfolio body. The daily table, sentiment
// summary and risk section are always rendered, with placeholder rows when
// there is no data.
const portfolioTemplate = `{{define "portfolio"}}{{$v := .View}}
<div class="card portfolio" data-client-id="{{$v.ClientID}}">
  <h1>{{.Title}}</h1>
{{if not $v.Available}}
  <p class="unavailable">{{.UnavailableMessage}}</p>
{{else}}
  <div class="totals">
    <p>Portfolio ID: <span id="portfolio-id">{{$v.Totals.PortfolioID}}</span></p>
    <p>Total Portfolio Value: $<span id="total-value">{{$v.Totals.TotalPortfolioValue}}</span></p>
    <p>Total Purchase Value: $<span id="purchase-value">{{$v.Totals.TotalPurchaseValue}}</span></p>
    <p>Profit/Loss: <span id="profit-loss" class="{{signClass $v.Totals.ProfitSign}}">${{$v.Totals.ProfitLoss}} ({{$v.Totals.PLPercent}}%)</span></p>
  </div>
{{with $v.Satisfaction}}
  <div class="satisfaction-score">
    Satisfaction: <span id="satisfaction">{{.Score}}</span>%<br>
    Level: <span id="satisfaction-level">{{.Level}}</span>
  </div>
{{end}}
{{if .GaugeChart}}  <div class="chart-container gauge">{{.GaugeChart}}</div>
{{end}}
{{range $v.Warnings}}  <p class="warning">{{.}}</p>
{{end}}
{{if .ValueChart}}  <div class="chart-container value-chart">{{.ValueChart}}</div>
{{end}}
{{end}}
  <h2>Daily Portfolio Changes and Sentiments</h2>
  <table class="portfolio-table">
    <thead>
      <tr><th>Date</th><th>Portfolio Value</th><th>Profit/Loss</th><th>Overall Sentiment</th><th>Reason for Sentiment</th></tr>
    </thead>
    <tbody>
{{range $v.Rows}}      <tr>
        <td>{{.Date}}</td>
        <td>${{.PortfolioValue}}</td>
        <td class="{{signClass .ProfitSign}}">${{.ProfitLoss}}</td>
        <td>{{.Sentiment}}</td>
        <td>{{.Reason}}</td>
      </tr>
{{else}}      <tr class="no-data"><td colspan="5">{{.NoDataMessage}}</td></tr>
{{end}}    </tbody>
  </table>

  <h2>Sentiment Summary</h2>
  <table class="sentiment-summary-table">
    <thead>
      <tr><th>Communication Type</th><th>Positive</th><th>Negative</th></tr>
    </thead>
    <tbody>
{{range $v.Summary}}      <tr><td>{{.Channel}}</td><td>{{.Positive}}</td><td>{{.Negative}}</td></tr>
{{end}}    </tbody>
  </table>
{{if .SentimentChart}}  <div class="chart-container">{{.SentimentChart}}</div>
{{end}}
  <h2>Risk Analysis</h2>
{{range $v.Risks}}  <div class="risk-analysis">
    <h3>Date: {{.Date}}</h3>
    <p><strong>Risk Score:</strong> {{.Score}}</p>
    <p><strong>Risk Level:</strong> {{.Level}}</p>
    <p><strong>Trend Analysis:</strong> {{.Trend}}</p>
  </div>
{{else}}  <p class="no-risks">{{.NoRisksMessage}}</p>
{{end}}</div>
{{end}}`

// documentTemplate wraps the portfolio body in a standalone page.
const documentTemplate = `{{define "document"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
  :root {
    --text: #1a1a2e;
    --muted: #6b7280;
    --border: #e5e7eb;
    --accent: #2563eb;
    --green: #16a34a;
    --red: #dc2626;
    --section-bg: #f8fafc;
  }
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    color: var(--text);
    line-height: 1.6;
    max-width: 960px;
    margin: 0 auto;
    padding: 20px;
  }
  h2 { font-size: 1.2rem; margin: 24px 0 12px; padding-bottom: 6px; border-bottom: 2px solid var(--accent); }
  table { width: 100%; border-collapse: collapse; margin: 8px 0 16px; font-size: 0.9rem; }
  th { background: var(--section-bg); text-align: left; padding: 8px; }
  td { padding: 8px; border-bottom: 1px solid var(--border); }
  .card { position: relative; }
  .satisfaction-score { position: absolute; top: 0; right: 0; background: var(--section-bg); padding: 8px 12px; border-radius: 6px; }
  .positive { color: var(--green); }
  .negative { color: var(--red); }
  .warning { color: #b45309; }
  .risk-analysis { background: var(--section-bg); padding: 8px 12px; border-radius: 6px; margin: 8px 0; }
  .chart-container svg { max-width: 100%; height: auto; }
  .footer { margin-top: 30px; border-top: 1px solid var(--border); font-size: 0.8rem; color: var(--muted); text-align: center; }
  @media print {
    .risk-analysis { page-break-inside: avoid; }
  }
</style>
</head>
<body>
{{template "portfolio" .}}
<div class="footer">Generated {{.GeneratedAt}}</div>
</body>
</html>
{{end}}`
