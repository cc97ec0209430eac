// Package portfolio aggregates a client's portfolio, risk, sentiment and
// satisfaction records into a single renderable view.
//
// Summarize and Join are pure; Loader performs the concurrent fetch.
package portfolio

import "github.com/seenimoa/clientdesk/pkg/models"

// Tally is the channel × category sentiment count table. The zero value is
// a fully populated all-zero table.
type Tally [models.NumChannels][models.NumCategories]int

// Count returns the number of events of category cat seen on channel ch.
func (t *Tally) Count(ch models.Channel, cat models.Category) int {
	return t[ch][cat]
}

// Total returns the number of recognized events on channel ch.
func (t *Tally) Total(ch models.Channel) int {
	n := 0
	for _, c := range t[ch] {
		n += c
	}
	return n
}

// TallyRow is one channel line of a Tally, ready for display.
type TallyRow struct {
	Channel  string `json:"channel"`
	Positive int    `json:"positive"`
	Negative int    `json:"negative"`
}

// Rows returns the table in display order. Always NumChannels rows.
func (t *Tally) Rows() []TallyRow {
	rows := make([]TallyRow, 0, models.NumChannels)
	for _, ch := range models.Channels() {
		rows = append(rows, TallyRow{
			Channel:  ch.Label(),
			Positive: t[ch][models.CategoryPositive],
			Negative: t[ch][models.CategoryNegative],
		})
	}
	return rows
}

// UnrecognizedFunc is called for every event whose category is neither
// Positive nor Negative. date is the date of the enclosing record.
type UnrecognizedFunc func(ch models.Channel, date, category string)

// Summarize counts every event of every channel across records.
// A record without a summary, or a channel without events, contributes
// nothing. Events with an unknown category are skipped and reported to
// onUnrecognized when it is non-nil.
func Summarize(records []models.DailySentiment, onUnrecognized UnrecognizedFunc) Tally {
	var t Tally
	for i := range records {
		rec := &records[i]
		for _, ch := range models.Channels() {
			for _, ev := range rec.SentimentSummary.Events(ch) {
				cat, ok := models.ParseCategory(ev.Sentiment.String())
				if !ok {
					if onUnrecognized != nil {
						onUnrecognized(ch, rec.Date.String(), ev.Sentiment.String())
					}
					continue
				}
				t[ch][cat]++
			}
		}
	}
	return t
}
