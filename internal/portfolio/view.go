package portfolio

import (
	"github.com/seenimoa/clientdesk/pkg/models"
	"github.com/seenimoa/clientdesk/pkg/utils"
)

// User-facing messages of the portfolio view.
const (
	FailureMessage     = "Error fetching portfolio, risks, sentiments, or satisfaction"
	NoDataMessage      = "No data available"
	NoRisksMessage     = "No risk analysis data available"
	UnavailableMessage = "Portfolio data not available."
)

// Bundle is the raw result of a portfolio load.
type Bundle struct {
	Portfolio    *models.Portfolio
	Risks        []models.DailyRisk
	Sentiments   []models.DailySentiment
	Satisfaction *models.SatisfactionScore

	// Warnings lists sections that failed and were left empty.
	// Only populated under PolicyDegrade.
	Warnings []string
}

// Totals are the aggregate figures shown at the top of the view.
type Totals struct {
	PortfolioID         string `json:"portfolio_id"`
	TotalPortfolioValue string `json:"total_portfolio_value"`
	TotalPurchaseValue  string `json:"total_purchase_value"`
	ProfitLoss          string `json:"profit_loss"`
	PLPercent           string `json:"p_l_percent"`
	ProfitSign          int    `json:"profit_sign"`
}

// Badge is the satisfaction score badge.
type Badge struct {
	Score string `json:"score"`
	Level string `json:"level"`

	// Percent is Score as a number; Numeric is false when Score is not one.
	Percent float64 `json:"percent"`
	Numeric bool    `json:"numeric"`
}

// RiskEntry is one rendered DailyRisk record.
type RiskEntry struct {
	Date  string `json:"date"`
	Score string `json:"risk_score"`
	Level string `json:"risk_level"`
	Trend string `json:"trend_analysis"`
}

// ChartPoint is a numeric portfolio value for the value-over-time chart.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// View is everything the portfolio page renders.
type View struct {
	ClientID string `json:"client_id"`

	// Available is false when the backend returned no portfolio at all.
	Available bool `json:"available"`

	Totals       Totals       `json:"totals"`
	Satisfaction *Badge       `json:"satisfaction,omitempty"`
	Rows         []JoinedRow  `json:"daily"`
	Tally        Tally        `json:"-"`
	Summary      []TallyRow   `json:"sentiment_summary"`
	Risks        []RiskEntry  `json:"risks"`
	Chart        []ChartPoint `json:"chart,omitempty"`
	Warnings     []string     `json:"warnings,omitempty"`
}

// HasRows reports whether the daily table has data rows.
func (v *View) HasRows() bool { return len(v.Rows) > 0 }

// HasRisks reports whether any risk entries are present.
func (v *View) HasRisks() bool { return len(v.Risks) > 0 }

// BuildOption customises Build.
type BuildOption func(*buildOptions)

type buildOptions struct {
	onUnrecognized UnrecognizedFunc
}

// WithUnrecognized sets the hook called for unknown sentiment categories.
func WithUnrecognized(fn UnrecognizedFunc) BuildOption {
	return func(o *buildOptions) { o.onUnrecognized = fn }
}

// Build assembles the view for clientID from a loaded bundle.
// A nil bundle is treated as empty.
func Build(clientID string, b *Bundle, opts ...BuildOption) View {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}
	if b == nil {
		b = &Bundle{}
	}

	v := View{
		ClientID: clientID,
		Tally:    Summarize(b.Sentiments, o.onUnrecognized),
		Risks:    buildRisks(b.Risks),
		Warnings: b.Warnings,
	}
	v.Summary = v.Tally.Rows()

	if b.Satisfaction != nil {
		v.Satisfaction = buildBadge(b.Satisfaction)
	}

	if p := b.Portfolio; p != nil {
		v.Available = true
		v.Totals = Totals{
			PortfolioID:         orNotAvailable(p.PortfolioID.String()),
			TotalPortfolioValue: p.TotalPortfolioValue.Display(),
			TotalPurchaseValue:  p.TotalPurchaseValue.Display(),
			ProfitLoss:          p.ProfitLoss.Display(),
			PLPercent:           p.PLPercent.Display(),
			ProfitSign:          p.ProfitLoss.Sign(),
		}
		v.Rows = Join(p.DailyChanges, b.Sentiments)
		v.Chart = buildChart(p.DailyChanges)
	} else {
		v.Rows = []JoinedRow{}
	}
	return v
}

func buildBadge(s *models.SatisfactionScore) *Badge {
	b := &Badge{
		Score: s.OverallSatisfactionScore.Display(),
		Level: orNotAvailable(s.SatisfactionLevel.String()),
	}
	b.Percent, b.Numeric = s.OverallSatisfactionScore.Float()
	return b
}

func buildRisks(risks []models.DailyRisk) []RiskEntry {
	out := make([]RiskEntry, 0, len(risks))
	for _, r := range risks {
		e := RiskEntry{
			Date:  utils.FormatDay(r.Date.String()),
			Score: models.NotAvailable,
			Level: models.NotAvailable,
			Trend: models.NotAvailable,
		}
		if ra := r.RiskAnalysis; ra != nil {
			e.Score = ra.RiskScore.Display()
			e.Level = orNotAvailable(ra.RiskLevel.String())
			e.Trend = orNotAvailable(ra.TrendAnalysis.String())
		}
		out = append(out, e)
	}
	return out
}

// buildChart skips changes whose value is not numeric.
func buildChart(changes []models.DailyChange) []ChartPoint {
	var pts []ChartPoint
	for _, c := range changes {
		f, ok := c.PortfolioValue.Float()
		if !ok {
			continue
		}
		pts = append(pts, ChartPoint{Label: utils.FormatDay(c.Date.String()), Value: f})
	}
	return pts
}
