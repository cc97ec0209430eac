package utils

import (
	"testing"
	"time"
)

func TestParseDateLayouts(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-01-05", "2024-01-05"},
		{"2024-01-05T09:30:00Z", "2024-01-05"},
		{"2024-01-05T23:00:00", "2024-01-05"},
		{"2024-01-05T23:00", "2024-01-05"},
		{"2024-01-05T23:30:00-05:00", "2024-01-05"},
		{"2024-01-05 08:00:00", "2024-01-05"},
		{"2024-01-05T10:00:00.123456Z", "2024-01-05"},
		{"Fri, 05 Jan 2024 00:00:00 GMT", "2024-01-05"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, ok := ParseDay(tt.in)
			if !ok {
				t.Fatalf("ParseDay(%q) failed", tt.in)
			}
			if d.String() != tt.want {
				t.Errorf("ParseDay(%q) = %s, want %s", tt.in, d, tt.want)
			}
		})
	}
}

func TestParseDateRejects(t *testing.T) {
	for _, in := range []string{"", "   ", "yesterday", "2024-13-45"} {
		if _, err := ParseDate(in); err == nil {
			t.Errorf("ParseDate(%q) should fail", in)
		}
	}
}

func TestSameDay(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"2024-01-05", "2024-01-05T23:00:00", true},
		{"2024-01-05T00:00:01Z", "2024-01-05T23:59:59Z", true},
		{"2024-01-05", "2024-01-06", false},
		{"2024-01-05", "garbage", false},
		{"garbage", "garbage", false},
		{"Fri, 05 Jan 2024 00:00:00 GMT", "2024-01-05", true},
	}
	for _, tt := range tests {
		if got := SameDay(tt.a, tt.b); got != tt.want {
			t.Errorf("SameDay(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDayIgnoresZoneConversion(t *testing.T) {
	// 23:30 at -05:00 is already the 6th in UTC, but the business day
	// written in the timestamp is the 5th.
	d, ok := ParseDay("2024-01-05T23:30:00-05:00")
	if !ok {
		t.Fatal("parse failed")
	}
	if d != (Day{2024, time.January, 5}) {
		t.Errorf("got %s", d)
	}
}

func TestFormatDay(t *testing.T) {
	if got := FormatDay("2024-01-05T12:00:00Z"); got != "2024-01-05" {
		t.Errorf("FormatDay = %s", got)
	}
	if got := FormatDay("sometime"); got != "sometime" {
		t.Errorf("FormatDay should pass through unparseable input, got %s", got)
	}
}

func TestFormatDateTime(t *testing.T) {
	d := time.Date(2026, 2, 19, 10, 30, 0, 0, time.UTC)
	if got := FormatDateTime(d); got != "2026-02-19 10:30:00 UTC" {
		t.Errorf("FormatDateTime = %s", got)
	}
}
