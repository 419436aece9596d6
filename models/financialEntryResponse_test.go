package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestToResponseFillsDefaults(t *testing.T) {
	now := time.Now().UTC()
	entry := FinancialEntry{
		ID:          7,
		CompanyId:   "c-1",
		Type:        EntryTypeExpense,
		Status:      EntryStatusPending,
		Category:    "",
		Amount:      decimal.NewFromInt(150),
		Description: "toner",
		DueDate:     now,
	}

	resp := entry.ToResponse()

	if resp.CategoryName != FallbackCategoryName {
		t.Errorf("empty category must map to %q, got %q", FallbackCategoryName, resp.CategoryName)
	}
	if resp.CategoryColor != DefaultCategoryColor {
		t.Errorf("expected default color %q, got %q", DefaultCategoryColor, resp.CategoryColor)
	}
	if resp.Tags == nil || resp.Attachments == nil {
		t.Error("tags and attachments must be empty slices, not nil")
	}
	if len(resp.Tags) != 0 || len(resp.Attachments) != 0 {
		t.Error("tags and attachments must start empty")
	}
	if resp.Installments != 1 || resp.CurrentInstallment != 1 {
		t.Errorf("expected single installment defaults, got %d/%d", resp.Installments, resp.CurrentInstallment)
	}
	if resp.PaymentMethod != DefaultPaymentMethod || resp.ReferenceType != DefaultReferenceType {
		t.Errorf("expected %q/%q defaults, got %q/%q",
			DefaultPaymentMethod, DefaultReferenceType, resp.PaymentMethod, resp.ReferenceType)
	}
	if resp.AccountId != "" || resp.AccountName != "" {
		t.Error("account fields have no backing storage and must be empty")
	}
}

func TestToResponseKeepsStoredCategory(t *testing.T) {
	entry := FinancialEntry{Category: "Ink"}
	resp := entry.ToResponse()
	if resp.CategoryName != "Ink" {
		t.Errorf("stored category must pass through, got %q", resp.CategoryName)
	}
}
