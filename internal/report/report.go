package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/seenimoa/clientdesk/internal/portfolio"
	"github.com/seenimoa/clientdesk/pkg/utils"
)

// ════════════════════════════════════════════════════════════════════
// Report Generator — Orchestrates chart + template rendering
// ════════════════════════════════════════════════════════════════════

// Format specifies the output format.
type Format string

const (
	FormatHTML Format = "html"
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatHTML, FormatText, FormatJSON, FormatPDF:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown format %q (want html, text, json or pdf)", s)
}

// Config controls report generation.
type Config struct {
	Title    string      // defaults to "Portfolio for Client <id>"
	Charts   bool        // embed SVG charts in HTML output
	ChartCfg ChartConfig // chart rendering config
	Now      func() time.Time
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Charts:   true,
		ChartCfg: DefaultChartConfig(),
		Now:      time.Now,
	}
}

// ════════════════════════════════════════════════════════════════════
// Report Data — flattened for template rendering
// ════════════════════════════════════════════════════════════════════

// Data is the template model for the portfolio templates.
type Data struct {
	Title       string
	GeneratedAt string
	View        *portfolio.View

	NoDataMessage      string
	NoRisksMessage     string
	UnavailableMessage string

	ValueChart     template.HTML
	SentimentChart template.HTML
	GaugeChart     template.HTML
}

func buildData(v *portfolio.View, cfg Config) Data {
	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}
	d := Data{
		Title:              cfg.Title,
		GeneratedAt:        utils.FormatDateTime(now()),
		View:               v,
		NoDataMessage:      portfolio.NoDataMessage,
		NoRisksMessage:     portfolio.NoRisksMessage,
		UnavailableMessage: portfolio.UnavailableMessage,
	}
	if d.Title == "" {
		d.Title = "Portfolio for Client " + v.ClientID
	}

	if cfg.Charts && v.Available {
		// SVG is generated here from escaped text only.
		d.ValueChart = template.HTML(ValueChart(v.Chart, cfg.ChartCfg))
		d.SentimentChart = template.HTML(SentimentChart(v.Summary, ChartConfig{}))
		if s := v.Satisfaction; s != nil && s.Numeric {
			d.GaugeChart = template.HTML(GaugeChart(s.Percent, "Satisfaction", 180))
		}
	}
	return d
}

// ════════════════════════════════════════════════════════════════════
// Generate
// ════════════════════════════════════════════════════════════════════

// Fragment renders the portfolio body for embedding in a page layout.
func Fragment(v *portfolio.View, cfg Config) (template.HTML, error) {
	if v == nil {
		return "", fmt.Errorf("view is nil")
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "portfolio", buildData(v, cfg)); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// GenerateHTML renders a standalone HTML document for the view.
func GenerateHTML(v *portfolio.View, cfg Config) (string, error) {
	if v == nil {
		return "", fmt.Errorf("view is nil")
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "document", buildData(v, cfg)); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

// GenerateText renders the view for a terminal.
func GenerateText(v *portfolio.View, cfg Config) (string, error) {
	if v == nil {
		return "", fmt.Errorf("view is nil")
	}
	return renderText(buildData(v, cfg)), nil
}

// GenerateJSON renders the view as indented JSON.
func GenerateJSON(v *portfolio.View) (string, error) {
	if v == nil {
		return "", fmt.Errorf("view is nil")
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding view: %w", err)
	}
	return string(out) + "\n", nil
}

// Generate dispatches on f. FormatPDF yields HTML; pass it to ExportPDF.
func Generate(v *portfolio.View, f Format, cfg Config) (string, error) {
	switch f {
	case FormatHTML, FormatPDF:
		return GenerateHTML(v, cfg)
	case FormatJSON:
		return GenerateJSON(v)
	default:
		return GenerateText(v, cfg)
	}
}

// ════════════════════════════════════════════════════════════════════
// Plain-text renderer
// ════════════════════════════════════════════════════════════════════

func renderText(d Data) string {
	var sb strings.Builder
	v := d.View
	line := strings.Repeat("═", 72)
	thinLine := strings.Repeat("─", 72)

	sb.WriteString("\n" + line + "\n")
	sb.WriteString(fmt.Sprintf("  %s\n", d.Title))
	sb.WriteString(fmt.Sprintf("  Generated: %s\n", d.GeneratedAt))
	sb.WriteString(line + "\n")

	if !v.Available {
		sb.WriteString("\n  " + d.UnavailableMessage + "\n")
		return sb.String()
	}

	t := v.Totals
	sb.WriteString(fmt.Sprintf("  Portfolio ID:          %s\n", t.PortfolioID))
	sb.WriteString(fmt.Sprintf("  Total Portfolio Value: $%s\n", t.TotalPortfolioValue))
	sb.WriteString(fmt.Sprintf("  Total Purchase Value:  $%s\n", t.TotalPurchaseValue))
	sb.WriteString(fmt.Sprintf("  Profit/Loss:           $%s (%s%%)\n", t.ProfitLoss, t.PLPercent))
	if s := v.Satisfaction; s != nil {
		sb.WriteString(fmt.Sprintf("  Satisfaction:          %s%% (Level: %s)\n", s.Score, s.Level))
	}
	for _, w := range v.Warnings {
		sb.WriteString(fmt.Sprintf("  ! %s\n", w))
	}
	sb.WriteString(thinLine + "\n")

	sb.WriteString("\n  ■ DAILY PORTFOLIO CHANGES AND SENTIMENTS\n")
	sb.WriteString(fmt.Sprintf("    %-12s %16s %14s  %-10s %s\n", "Date", "Value", "Profit/Loss", "Sentiment", "Reason"))
	if !v.HasRows() {
		sb.WriteString("    " + d.NoDataMessage + "\n")
	}
	for _, r := range v.Rows {
		sb.WriteString(fmt.Sprintf("    %-12s %16s %14s  %-10s %s\n",
			r.Date, "$"+r.PortfolioValue, "$"+r.ProfitLoss, r.Sentiment, r.Reason))
	}
	sb.WriteString(thinLine + "\n")

	sb.WriteString("\n  ■ SENTIMENT SUMMARY\n")
	sb.WriteString(fmt.Sprintf("    %-20s %8s %8s\n", "Communication Type", "Positive", "Negative"))
	for _, r := range v.Summary {
		sb.WriteString(fmt.Sprintf("    %-20s %8d %8d\n", r.Channel, r.Positive, r.Negative))
	}
	sb.WriteString(thinLine + "\n")

	sb.WriteString("\n  ■ RISK ANALYSIS\n")
	if !v.HasRisks() {
		sb.WriteString("    " + d.NoRisksMessage + "\n")
	}
	for _, r := range v.Risks {
		sb.WriteString(fmt.Sprintf("    Date: %s\n", r.Date))
		sb.WriteString(fmt.Sprintf("      Risk Score:     %s\n", r.Score))
		sb.WriteString(fmt.Sprintf("      Risk Level:     %s\n", r.Level))
		sb.WriteString(fmt.Sprintf("      Trend Analysis: %s\n", r.Trend))
	}
	sb.WriteString(line + "\n")

	return sb.String()
}

// signClass maps a profit/loss sign to a CSS class.
func signClass(sign int) string {
	switch {
	case sign > 0:
		return "positive"
	case sign < 0:
		return "negative"
	}
	return ""
}
