package utils

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Accepted date layouts on the wire. Date-only values come from the SPA's
// date pickers; full timestamps come from API clients.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate converts a wire date string to the canonical stored timestamp (UTC).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date: %s", s)
}

// EndOfDay pushes a date-only timestamp to the last instant of its day so
// inclusive range filters match every entry due on that day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// StartOfDay truncates a timestamp to midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseAmount converts a wire value to a decimal amount.
// Accept common user-formatted strings like:
// - "20,000"
// - "R$ 20,000"
// - "R$ -20,000"
//
// Keep digits, '.', and a leading '-' only.
func ParseAmount(i interface{}) (decimal.Decimal, error) {
	switch v := i.(type) {
	case string:
		s := strings.TrimSpace(v)
		if s != "" {
			s = strings.ReplaceAll(s, ",", "")
			s = strings.ReplaceAll(s, "R$", "")
			s = strings.ReplaceAll(s, "BRL", "")
			s = strings.ReplaceAll(s, "brl", "")
			s = strings.TrimSpace(s)
		}
		neg := false
		if strings.HasPrefix(s, "-") {
			neg = true
			s = strings.TrimSpace(strings.TrimPrefix(s, "-"))
		}
		// Strip everything except digits and '.'.
		var b strings.Builder
		b.Grow(len(s) + 1)
		for _, r := range s {
			if (r >= '0' && r <= '9') || r == '.' {
				b.WriteRune(r)
			}
		}
		clean := b.String()
		if clean == "" {
			return decimal.NewFromInt(0), fmt.Errorf("invalid value")
		}
		if neg {
			clean = "-" + clean
		}

		val, err := decimal.NewFromString(clean)
		if err != nil {
			return decimal.NewFromInt(0), err
		}
		return val, nil
	case json.Number:
		num, err := v.Float64()
		if err != nil {
			return decimal.NewFromInt(0), err
		}
		return decimal.NewFromFloat(num), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case decimal.Decimal:
		return v, nil
	default:
		return decimal.NewFromInt(0), fmt.Errorf("invalid value")
	}
}

// ParsePositiveAmount is ParseAmount restricted to amounts > 0 (monetary
// entry amounts are strictly positive).
func ParsePositiveAmount(i interface{}) (decimal.Decimal, error) {
	d, err := ParseAmount(i)
	if err != nil {
		return d, err
	}
	if !d.IsPositive() {
		return d, fmt.Errorf("amount must be greater than zero")
	}
	return d, nil
}
