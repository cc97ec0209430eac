package portfolio

import (
	"github.com/seenimoa/clientdesk/pkg/models"
	"github.com/seenimoa/clientdesk/pkg/utils"
)

// JoinedRow is one day of portfolio history paired with that day's sentiment.
// Date is the calendar day of the change, or the raw text when unparseable.
type JoinedRow struct {
	Date           string `json:"date"`
	PortfolioValue string `json:"portfolio_value"`
	ProfitLoss     string `json:"profit_loss"`
	ProfitSign     int    `json:"profit_sign"`
	Sentiment      string `json:"sentiment"`
	Reason         string `json:"reason"`
	Matched        bool   `json:"matched"`
}

// Join pairs every change, in the order given, with the first sentiment
// record on the same calendar day. Unmatched rows and absent fields carry
// models.NotAvailable.
func Join(changes []models.DailyChange, sentiments []models.DailySentiment) []JoinedRow {
	rows := make([]JoinedRow, 0, len(changes))
	for _, ch := range changes {
		row := JoinedRow{
			Date:           utils.FormatDay(ch.Date.String()),
			PortfolioValue: ch.PortfolioValue.Display(),
			ProfitLoss:     ch.ProfitLoss.Display(),
			ProfitSign:     ch.ProfitLoss.Sign(),
			Sentiment:      models.NotAvailable,
			Reason:         models.NotAvailable,
		}
		if m := findSameDay(ch.Date.String(), sentiments); m != nil {
			row.Matched = true
			row.Sentiment = orNotAvailable(m.Overall())
			row.Reason = orNotAvailable(m.Reason())
		}
		rows = append(rows, row)
	}
	return rows
}

// findSameDay is a linear scan; ties resolve to the earliest record.
func findSameDay(date string, sentiments []models.DailySentiment) *models.DailySentiment {
	day, ok := utils.ParseDay(date)
	if !ok {
		return nil
	}
	for i := range sentiments {
		if d, ok := utils.ParseDay(sentiments[i].Date.String()); ok && d == day {
			return &sentiments[i]
		}
	}
	return nil
}

func orNotAvailable(s string) string {
	if s == "" {
		return models.NotAvailable
	}
	return s
}
