package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewFinancialEntryBindsDateOnlyDueDate(t *testing.T) {
	payload := `{"type":"EXPENSE","amount":"150.00","description":"toner","due_date":"2026-03-10"}`

	var input NewFinancialEntry
	if err := json.Unmarshal([]byte(payload), &input); err != nil {
		t.Fatalf("date-only due_date must bind: %v", err)
	}

	want := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if !input.DueDate.Time().Equal(want) {
		t.Fatalf("expected due date %s; got %s", want, input.DueDate.Time())
	}
	if !input.Amount.Equal(decimal.RequireFromString("150.00")) {
		t.Fatalf("expected amount 150.00; got %s", input.Amount)
	}
	if input.PaidDate != nil {
		t.Fatalf("omitted paid_date must stay nil; got %v", input.PaidDate)
	}
}

func TestNewFinancialEntryBindsFullTimestamp(t *testing.T) {
	payload := `{"type":"INCOME","amount":250,"description":"banner","due_date":"2026-03-10T18:30:00Z","paid_date":"2026-03-01"}`

	var input NewFinancialEntry
	if err := json.Unmarshal([]byte(payload), &input); err != nil {
		t.Fatalf("timestamp due_date must bind: %v", err)
	}

	if !input.DueDate.Time().Equal(time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected due date %s", input.DueDate.Time())
	}
	if input.PaidDate == nil || !input.PaidDate.Time().Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date-only paid_date must bind; got %v", input.PaidDate)
	}
}

func TestNewFinancialEntryRejectsBadDueDate(t *testing.T) {
	for _, payload := range []string{
		`{"type":"EXPENSE","amount":"10","description":"x","due_date":"tomorrow"}`,
		`{"type":"EXPENSE","amount":"10","description":"x","due_date":12345}`,
		`{"type":"EXPENSE","amount":"10","description":"x","due_date":""}`,
	} {
		var input NewFinancialEntry
		if err := json.Unmarshal([]byte(payload), &input); err == nil {
			t.Fatalf("expected bind error for %s", payload)
		}
	}
}

func TestUpdateFinancialEntryInputBindsDateOnlyPatch(t *testing.T) {
	payload := `{"due_date":"2026-04-01","paid_date":"2026-04-02"}`

	var patch UpdateFinancialEntryInput
	if err := json.Unmarshal([]byte(payload), &patch); err != nil {
		t.Fatalf("date-only patch must bind: %v", err)
	}

	if patch.DueDate == nil || !patch.DueDate.Time().Equal(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected due date patch: %v", patch.DueDate)
	}
	if patch.PaidDate == nil || !patch.PaidDate.Time().Equal(time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected paid date patch: %v", patch.PaidDate)
	}
	if patch.Status != nil || patch.Amount != nil {
		t.Fatalf("omitted fields must stay nil: %+v", patch)
	}
}
