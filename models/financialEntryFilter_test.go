package models

import (
	"strings"
	"testing"
	"time"
)

func TestNormalizeDefaults(t *testing.T) {
	f := FinancialEntryFilters{}
	q, err := f.normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if q.page != EntryDefaultPage || q.limit != EntryDefaultLimit {
		t.Errorf("expected default page/limit %d/%d, got %d/%d", EntryDefaultPage, EntryDefaultLimit, q.page, q.limit)
	}
	if q.sortCol != "due_date" || !q.sortDesc {
		t.Errorf("expected default sort due_date DESC, got %s desc=%v", q.sortCol, q.sortDesc)
	}
	if q.entryType != nil || q.status != nil || q.startDate != nil || q.endDate != nil ||
		q.minAmount != nil || q.maxAmount != nil || q.search != "" {
		t.Errorf("expected no predicates on empty filters: %+v", q)
	}
}

func TestNormalizeMinAmountZeroIsABound(t *testing.T) {
	f := FinancialEntryFilters{MinAmount: "0"}
	q, err := f.normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if q.minAmount == nil {
		t.Fatal("minAmount=0 must produce a bound, not be treated as absent")
	}
	if !q.minAmount.IsZero() {
		t.Errorf("expected bound 0, got %s", q.minAmount)
	}
}

func TestNormalizeEndDateDateOnlyIsInclusive(t *testing.T) {
	f := FinancialEntryFilters{StartDate: "2026-03-10", EndDate: "2026-03-10"}
	q, err := f.normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if q.startDate == nil || q.endDate == nil {
		t.Fatal("expected both bounds")
	}
	if !q.endDate.After(*q.startDate) {
		t.Errorf("date-only endDate must cover its whole day: start=%s end=%s", q.startDate, q.endDate)
	}
	wantEnd := time.Date(2026, 3, 10, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	if !q.endDate.Equal(wantEnd) {
		t.Errorf("expected end %s, got %s", wantEnd, q.endDate)
	}
}

func TestNormalizeEndDateTimestampIsExact(t *testing.T) {
	f := FinancialEntryFilters{EndDate: "2026-03-10T12:00:00Z"}
	q, err := f.normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	want := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	if !q.endDate.Equal(want) {
		t.Errorf("a full timestamp must not be pushed to end of day: got %s", q.endDate)
	}
}

func TestNormalizeRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		filters FinancialEntryFilters
	}{
		{"bad type", FinancialEntryFilters{Type: "TRANSFER"}},
		{"bad status", FinancialEntryFilters{Status: "DONE"}},
		{"bad startDate", FinancialEntryFilters{StartDate: "yesterday"}},
		{"bad minAmount", FinancialEntryFilters{MinAmount: "abc"}},
		{"bad sortBy", FinancialEntryFilters{SortBy: "category"}},
		{"bad sortOrder", FinancialEntryFilters{SortOrder: "descending"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.filters.normalize(); err == nil {
				t.Errorf("expected error for %+v", tc.filters)
			}
		})
	}
}

func TestNormalizeLimitClamp(t *testing.T) {
	f := FinancialEntryFilters{Page: 0, Limit: 5000}
	q, err := f.normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if q.page != EntryDefaultPage {
		t.Errorf("page<1 must fall back to default, got %d", q.page)
	}
	if q.limit != EntryMaxLimit {
		t.Errorf("limit must clamp to %d, got %d", EntryMaxLimit, q.limit)
	}
}

func TestOrderCarriesIdTieBreak(t *testing.T) {
	f := FinancialEntryFilters{SortBy: "amount", SortOrder: "asc"}
	q, err := f.normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	order := q.order()
	if order != "amount ASC, id ASC" {
		t.Errorf("unexpected order clause: %q", order)
	}

	f = FinancialEntryFilters{}
	q, _ = f.normalize()
	if order := q.order(); order != "due_date DESC, id DESC" {
		t.Errorf("unexpected default order clause: %q", order)
	}
}

func TestOffsetMath(t *testing.T) {
	f := FinancialEntryFilters{Page: 3, Limit: 25}
	q, err := f.normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if q.offset() != 50 {
		t.Errorf("expected offset 50, got %d", q.offset())
	}
}

func TestNormalizeSearchTrimmed(t *testing.T) {
	f := FinancialEntryFilters{Search: "  banner  "}
	q, err := f.normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if q.search != "banner" {
		t.Errorf("expected trimmed search, got %q", q.search)
	}
	if strings.Contains(q.search, " ") {
		t.Errorf("search should not keep surrounding spaces: %q", q.search)
	}
}
