package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseDateLayouts(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2026-03-10", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
		{"2026-03-10T14:30:00Z", time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)},
		{"2026-03-10T14:30:00", time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)},
		{"2026-03-10 14:30:00", time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if err != nil {
			t.Errorf("ParseDate(%q): %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseDate(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "  ", "10/03/2026", "tomorrow"} {
		if _, err := ParseDate(in); err == nil {
			t.Errorf("ParseDate(%q) should fail", in)
		}
	}
}

func TestEndOfDay(t *testing.T) {
	in := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	got := EndOfDay(in)
	if got.Day() != 10 || got.Hour() != 23 || got.Minute() != 59 || got.Second() != 59 {
		t.Errorf("EndOfDay = %s", got)
	}
	if !got.Before(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)) {
		t.Error("EndOfDay must stay inside its day")
	}
}

func TestParseAmountLenientStrings(t *testing.T) {
	cases := []struct {
		in   interface{}
		want string
	}{
		{"20,000", "20000"},
		{"R$ 20,000", "20000"},
		{"R$ -20,000", "-20000"},
		{"1234.56", "1234.56"},
		{"0", "0"},
		{float64(12.5), "12.5"},
		{int(7), "7"},
		{int64(9), "9"},
		{decimal.NewFromInt(3), "3"},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if err != nil {
			t.Errorf("ParseAmount(%v): %v", tc.in, err)
			continue
		}
		if got.String() != tc.want {
			t.Errorf("ParseAmount(%v) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseAmountRejectsGarbage(t *testing.T) {
	for _, in := range []interface{}{"", "abc", nil, true} {
		if _, err := ParseAmount(in); err == nil {
			t.Errorf("ParseAmount(%v) should fail", in)
		}
	}
}

func TestParsePositiveAmount(t *testing.T) {
	if _, err := ParsePositiveAmount("0"); err == nil {
		t.Error("zero must be rejected")
	}
	if _, err := ParsePositiveAmount("-5"); err == nil {
		t.Error("negative must be rejected")
	}
	got, err := ParsePositiveAmount("150.75")
	if err != nil {
		t.Fatalf("ParsePositiveAmount: %v", err)
	}
	if got.String() != "150.75" {
		t.Errorf("got %s", got)
	}
}
