package models

import "strings"

// Channel is a communication medium tracked for sentiment.
type Channel int

const (
	ChannelEmails Channel = iota
	ChannelPhoneCalls
	ChannelChats

	NumChannels = 3
)

// Channels returns all channels in display order.
func Channels() []Channel {
	return []Channel{ChannelEmails, ChannelPhoneCalls, ChannelChats}
}

// Key returns the JSON key of the channel.
func (c Channel) Key() string {
	switch c {
	case ChannelEmails:
		return "emails"
	case ChannelPhoneCalls:
		return "phone_calls"
	case ChannelChats:
		return "chats"
	}
	return ""
}

// Label returns the display name of the channel.
func (c Channel) Label() string {
	switch c {
	case ChannelEmails:
		return "Emails"
	case ChannelPhoneCalls:
		return "Phone Calls"
	case ChannelChats:
		return "Chats"
	}
	return ""
}

// Category is the sentiment classification of a single event.
type Category int

const (
	CategoryPositive Category = iota
	CategoryNegative

	NumCategories = 2
)

// Categories returns all known categories in display order.
func Categories() []Category {
	return []Category{CategoryPositive, CategoryNegative}
}

func (c Category) String() string {
	switch c {
	case CategoryPositive:
		return "Positive"
	case CategoryNegative:
		return "Negative"
	}
	return ""
}

// ParseCategory maps a raw sentiment label to a Category.
// Matching is exact after trimming surrounding whitespace.
func ParseCategory(s string) (Category, bool) {
	switch strings.TrimSpace(s) {
	case "Positive":
		return CategoryPositive, true
	case "Negative":
		return CategoryNegative, true
	}
	return 0, false
}

// SentimentEvent is one classified interaction (an email, call or chat).
type SentimentEvent struct {
	Sentiment Label `json:"sentiment"`
}

// SentimentSummary groups a day's events per channel.
type SentimentSummary struct {
	Emails                []SentimentEvent `json:"emails,omitempty"`
	PhoneCalls            []SentimentEvent `json:"phone_calls,omitempty"`
	Chats                 []SentimentEvent `json:"chats,omitempty"`
	OverallDailySentiment Label            `json:"overall_daily_sentiment,omitempty"`
	ReasonForSentiment    Label            `json:"reason_for_sentiment,omitempty"`
}

// Events returns the events of channel c. A nil summary has no events.
func (s *SentimentSummary) Events(c Channel) []SentimentEvent {
	if s == nil {
		return nil
	}
	switch c {
	case ChannelEmails:
		return s.Emails
	case ChannelPhoneCalls:
		return s.PhoneCalls
	case ChannelChats:
		return s.Chats
	}
	return nil
}

// DailySentiment is one day of sentiment analysis for a client.
type DailySentiment struct {
	Date               Label             `json:"date"`
	SentimentSummary   *SentimentSummary `json:"sentiment_summary,omitempty"`
	ReasonForSentiment Label             `json:"reason_for_sentiment,omitempty"`
}

// Overall returns the overall daily sentiment label, or "" when absent.
func (d *DailySentiment) Overall() string {
	if d == nil || d.SentimentSummary == nil {
		return ""
	}
	return d.SentimentSummary.OverallDailySentiment.String()
}

// Reason returns the reason text. The record-level field wins over the
// one nested in the summary.
func (d *DailySentiment) Reason() string {
	if d == nil {
		return ""
	}
	if d.ReasonForSentiment != "" {
		return d.ReasonForSentiment.String()
	}
	if d.SentimentSummary != nil {
		return d.SentimentSummary.ReasonForSentiment.String()
	}
	return ""
}

// DailySentimentSet is the wrapper object returned by /api/dailysentiments/{id}.
// The endpoint returns a sequence of these; only the first is meaningful.
type DailySentimentSet struct {
	ClientID        ID               `json:"client_id,omitempty"`
	DailySentiments []DailySentiment `json:"daily_sentiments"`
}
