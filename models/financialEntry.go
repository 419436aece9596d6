package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/artplim/erp_backend/config"
	"bitbucket.org/artplim/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const DefaultEntryCategory = "General"

// FinancialEntry is a single ledger line of the accounts receivable/payable
// book: money owed (EXPENSE) or expected (INCOME) by the company.
type FinancialEntry struct {
	ID          int             `gorm:"primary_key" json:"id"`
	CompanyId   string          `gorm:"index;not null" json:"company_id" binding:"required"`
	Type        EntryType       `gorm:"type:enum('INCOME','EXPENSE');not null" json:"type"`
	Status      EntryStatus     `gorm:"type:enum('PENDING','PAID','OVERDUE','CANCELLED');not null;default:PENDING" json:"status"`
	Category    string          `gorm:"size:100;not null;default:'General'" json:"category"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Description string          `gorm:"size:500;not null" json:"description"`
	DueDate     time.Time       `gorm:"index;not null" json:"due_date"`
	PaidDate    *time.Time      `json:"paid_date"`
	Notes       string          `gorm:"type:text" json:"notes"`
	Reference   string          `gorm:"index;size:255" json:"reference"`
	UserId      int             `gorm:"index;not null" json:"user_id"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (e FinancialEntry) GetId() int { return e.ID }

func (e FinancialEntry) GetCompanyId() string { return e.CompanyId }

// NewFinancialEntry carries create input. There is deliberately no status
// field: entries always start PENDING no matter what the caller sends.
// Dates bind through Datetime so date-only strings are accepted.
type NewFinancialEntry struct {
	Type        EntryType       `json:"type" binding:"required"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required,max=500"`
	DueDate     Datetime        `json:"due_date" binding:"required"`
	PaidDate    *Datetime       `json:"paid_date"`
	Notes       string          `json:"notes" binding:"max=1000"`
	Reference   string          `json:"reference"`
}

// UpdateFinancialEntryInput is a partial patch. Pointer fields distinguish
// "field omitted" from a zero value; nil means keep the stored value.
type UpdateFinancialEntryInput struct {
	Type        *EntryType       `json:"type"`
	Status      *EntryStatus     `json:"status"`
	Category    *string          `json:"category"`
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
	DueDate     *Datetime        `json:"due_date"`
	PaidDate    *Datetime        `json:"paid_date"`
	Notes       *string          `json:"notes" binding:"omitempty,max=1000"`
	Reference   *string          `json:"reference"`
}

func (input *NewFinancialEntry) validate() error {
	if !input.Amount.IsPositive() {
		return errors.New("amount must be greater than zero")
	}
	if input.Type != EntryTypeIncome && input.Type != EntryTypeExpense {
		return errors.New("invalid entry type")
	}
	return nil
}

// CreateFinancialEntry stores one entry for the company in the context.
// Status is always PENDING at creation; category defaults when absent.
// Single attempt: a store rejection surfaces to the caller unretried.
func CreateFinancialEntry(ctx context.Context, input *NewFinancialEntry) (*FinancialEntry, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		return nil, errors.New("user id is required")
	}

	if err := input.validate(); err != nil {
		return nil, err
	}

	category := input.Category
	if category == "" {
		category = DefaultEntryCategory
	}

	entry := FinancialEntry{
		CompanyId:   companyId,
		Type:        input.Type,
		Status:      EntryStatusPending,
		Category:    category,
		Amount:      input.Amount,
		Description: input.Description,
		DueDate:     input.DueDate.Time(),
		PaidDate:    (*time.Time)(input.PaidDate),
		Notes:       input.Notes,
		Reference:   input.Reference,
		UserId:      userId,
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Create(&entry).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	if err := createHistory(tx.WithContext(ctx), "*CREATE*", entry.ID, "financial_entries", nil, &entry,
		fmt.Sprintf("FinancialEntry created for %v.", entry.Amount)); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}
	return &entry, nil
}

// GetFinancialEntry returns the entry or nil when no row matches id under
// the caller's company. Another tenant's row is indistinguishable from a
// missing one.
func GetFinancialEntry(ctx context.Context, id int) (*FinancialEntry, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}

	db := config.GetDB()
	var entry FinancialEntry
	err := db.WithContext(ctx).Where("company_id = ?", companyId).First(&entry, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch entry: %w", err)
	}
	return &entry, nil
}

// UpdateFinancialEntry applies only the fields present in the patch; absent
// fields keep their stored values. Status transitions are unconstrained:
// any status may follow any other (product decision pending).
func UpdateFinancialEntry(ctx context.Context, id int, patch *UpdateFinancialEntryInput) (*FinancialEntry, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}

	db := config.GetDB()
	var entry FinancialEntry
	if err := db.WithContext(ctx).Where("company_id = ?", companyId).First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}
	before := entry

	// Presence is carried by the pointer, not the value: an explicit empty
	// string or zero amount is a real update, nil is "leave alone".
	updates := map[string]interface{}{}
	if patch.Type != nil {
		if *patch.Type != EntryTypeIncome && *patch.Type != EntryTypeExpense {
			return nil, errors.New("invalid entry type")
		}
		updates["type"] = *patch.Type
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.Category != nil {
		updates["category"] = *patch.Category
	}
	if patch.Amount != nil {
		if !patch.Amount.IsPositive() {
			return nil, errors.New("amount must be greater than zero")
		}
		updates["amount"] = *patch.Amount
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.DueDate != nil {
		updates["due_date"] = patch.DueDate.Time()
	}
	if patch.PaidDate != nil {
		updates["paid_date"] = patch.PaidDate.Time()
	}
	if patch.Notes != nil {
		updates["notes"] = *patch.Notes
	}
	if patch.Reference != nil {
		updates["reference"] = *patch.Reference
	}

	if len(updates) == 0 {
		return &entry, nil
	}

	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(&entry).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	if err := createHistory(tx.WithContext(ctx), "*UPDATE*", entry.ID, "financial_entries", &before, &entry,
		"FinancialEntry updated."); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}
	return &entry, nil
}

// DeleteFinancialEntry hard-deletes an entry. A miss under the caller's
// company is a not-found error, never a silent no-op.
func DeleteFinancialEntry(ctx context.Context, id int) error {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return errors.New("company id is required")
	}

	db := config.GetDB()
	var entry FinancialEntry
	if err := db.WithContext(ctx).Where("company_id = ?", companyId).First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorRecordNotFound
		}
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	tx := db.Begin()
	result := tx.WithContext(ctx).Where("company_id = ?", companyId).Delete(&FinancialEntry{}, id)
	if result.Error != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return utils.ErrorRecordNotFound
	}

	if err := createHistory(tx.WithContext(ctx), "*DELETE*", entry.ID, "financial_entries", &entry, nil,
		"FinancialEntry deleted."); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}
