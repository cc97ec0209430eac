package models

import (
	"encoding/json"
	"testing"
)

// ── Number ──

func TestNumberUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		set     bool
		display string
		numeric bool
	}{
		{"integer", `125000`, true, "125000", true},
		{"decimal", `1250.50`, true, "1250.50", true},
		{"negative", `-320.75`, true, "-320.75", true},
		{"numeric string", `"98000.10"`, true, "98000.10", true},
		{"non-numeric string", `"pending"`, true, "pending", false},
		{"empty string", `""`, true, NotAvailable, false},
		{"null", `null`, false, NotAvailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Number
			if err := json.Unmarshal([]byte(tt.json), &n); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.json, err)
			}
			if n.IsSet() != tt.set {
				t.Errorf("IsSet: got %v, want %v", n.IsSet(), tt.set)
			}
			if n.Display() != tt.display {
				t.Errorf("Display: got %q, want %q", n.Display(), tt.display)
			}
			if _, ok := n.Decimal(); ok != tt.numeric {
				t.Errorf("Decimal ok: got %v, want %v", ok, tt.numeric)
			}
		})
	}
}

func TestNumberMissingField(t *testing.T) {
	var p Portfolio
	if err := json.Unmarshal([]byte(`{"portfolio_id":"P1"}`), &p); err != nil {
		t.Fatal(err)
	}
	if p.TotalPortfolioValue.IsSet() {
		t.Error("absent field should not be set")
	}
	if p.TotalPortfolioValue.Display() != NotAvailable {
		t.Errorf("Display: got %q", p.TotalPortfolioValue.Display())
	}
}

func TestNumberPreservesLiteral(t *testing.T) {
	// Trailing zeros and exponent forms must survive untouched.
	for _, lit := range []string{`100.00`, `1e3`, `0.10`} {
		var n Number
		if err := json.Unmarshal([]byte(lit), &n); err != nil {
			t.Fatal(err)
		}
		out, err := json.Marshal(n)
		if err != nil {
			t.Fatal(err)
		}
		if string(out) != lit {
			t.Errorf("marshal: got %s, want %s", out, lit)
		}
	}
}

func TestNumberSign(t *testing.T) {
	if NewNumber("-5").Sign() != -1 {
		t.Error("expected negative sign")
	}
	if NewNumber("12.5").Sign() != 1 {
		t.Error("expected positive sign")
	}
	if NewNumber("n/a").Sign() != 0 {
		t.Error("non-numeric should be neutral")
	}
	if (Number{}).Sign() != 0 {
		t.Error("absent should be neutral")
	}
}

// ── ID ──

func TestIDAcceptsNumberOrString(t *testing.T) {
	var c []Client
	data := `[{"client_id":7,"name":"A"},{"client_id":"C-8","name":"B"}]`
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		t.Fatal(err)
	}
	if c[0].ClientID != "7" {
		t.Errorf("numeric id: got %q", c[0].ClientID)
	}
	if c[1].ClientID != "C-8" {
		t.Errorf("string id: got %q", c[1].ClientID)
	}
}

// ── Label ──

func TestLabelUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want Label
	}{
		{`"Positive"`, "Positive"},
		{`" spaced "`, " spaced "},
		{`""`, ""},
		{`1`, "1"},
		{`-2.50`, "-2.50"},
		{`true`, "true"},
		{`null`, ""},
		{`{"x":1}`, `{"x":1}`},
	}
	for _, tt := range tests {
		var l Label
		if err := json.Unmarshal([]byte(tt.in), &l); err != nil {
			t.Errorf("Unmarshal(%s): %v", tt.in, err)
			continue
		}
		if l != tt.want {
			t.Errorf("Unmarshal(%s) = %q, want %q", tt.in, l, tt.want)
		}
	}
}

func TestSentimentEventNonStringCategory(t *testing.T) {
	var s SentimentSummary
	raw := `{"emails":[{"sentiment":"Positive"},{"sentiment":1},{"sentiment":null}],"overall_daily_sentiment":7}`
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := s.Events(ChannelEmails)
	if len(got) != 3 || got[0].Sentiment != "Positive" || got[1].Sentiment != "1" || got[2].Sentiment != "" {
		t.Errorf("events: %+v", got)
	}
	if s.OverallDailySentiment != "7" {
		t.Errorf("overall: got %q", s.OverallDailySentiment)
	}
}

// ── Sentiment ──

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
		ok   bool
	}{
		{"Positive", CategoryPositive, true},
		{" Negative ", CategoryNegative, true},
		{"Neutral", 0, false},
		{"positive", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseCategory(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseCategory(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDailySentimentOptionalFields(t *testing.T) {
	var ds DailySentiment
	if err := json.Unmarshal([]byte(`{"date":"2024-01-05"}`), &ds); err != nil {
		t.Fatal(err)
	}
	if ds.Overall() != "" || ds.Reason() != "" {
		t.Error("missing summary should yield empty labels")
	}
	for _, ch := range Channels() {
		if n := len(ds.SentimentSummary.Events(ch)); n != 0 {
			t.Errorf("%s: got %d events on nil summary", ch.Key(), n)
		}
	}
}

func TestDailySentimentReasonPrecedence(t *testing.T) {
	ds := DailySentiment{
		ReasonForSentiment: "outer",
		SentimentSummary:   &SentimentSummary{ReasonForSentiment: "inner"},
	}
	if ds.Reason() != "outer" {
		t.Errorf("Reason: got %q, want outer", ds.Reason())
	}
	ds.ReasonForSentiment = ""
	if ds.Reason() != "inner" {
		t.Errorf("Reason: got %q, want inner", ds.Reason())
	}
}

func TestChannelLabels(t *testing.T) {
	want := map[Channel][2]string{
		ChannelEmails:     {"emails", "Emails"},
		ChannelPhoneCalls: {"phone_calls", "Phone Calls"},
		ChannelChats:      {"chats", "Chats"},
	}
	for ch, w := range want {
		if ch.Key() != w[0] || ch.Label() != w[1] {
			t.Errorf("channel %d: got %q/%q", ch, ch.Key(), ch.Label())
		}
	}
	if len(Channels()) != NumChannels {
		t.Errorf("Channels(): got %d", len(Channels()))
	}
}
