package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Response-layer defaults. Accounts and rich category relations are
// modeled in the DTO layer but have no backing storage yet; the mapper
// hard-fills them so the response shape is always fully populated.
const (
	FallbackCategoryName = "Uncategorized"
	DefaultCategoryColor = "#94A3B8"
	DefaultPaymentMethod = "OTHER"
	DefaultReferenceType = "OTHER"
)

type FinancialEntryResponse struct {
	ID                 int             `json:"id"`
	CompanyId          string          `json:"company_id"`
	Type               EntryType       `json:"type"`
	Status             EntryStatus     `json:"status"`
	Category           string          `json:"category"`
	CategoryName       string          `json:"category_name"`
	CategoryColor      string          `json:"category_color"`
	Amount             decimal.Decimal `json:"amount"`
	Description        string          `json:"description"`
	DueDate            time.Time       `json:"due_date"`
	PaidDate           *time.Time      `json:"paid_date"`
	Notes              string          `json:"notes"`
	Reference          string          `json:"reference"`
	ReferenceType      string          `json:"reference_type"`
	AccountId          string          `json:"account_id"`
	AccountName        string          `json:"account_name"`
	Tags               []string        `json:"tags"`
	Attachments        []string        `json:"attachments"`
	Installments       int             `json:"installments"`
	CurrentInstallment int             `json:"current_installment"`
	PaymentMethod      string          `json:"payment_method"`
	UserId             int             `json:"user_id"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// ToResponse projects a stored entry into the external response shape,
// filling defaults for fields the store does not carry.
func (e *FinancialEntry) ToResponse() *FinancialEntryResponse {
	categoryName := e.Category
	if categoryName == "" {
		categoryName = FallbackCategoryName
	}

	return &FinancialEntryResponse{
		ID:                 e.ID,
		CompanyId:          e.CompanyId,
		Type:               e.Type,
		Status:             e.Status,
		Category:           e.Category,
		CategoryName:       categoryName,
		CategoryColor:      DefaultCategoryColor,
		Amount:             e.Amount,
		Description:        e.Description,
		DueDate:            e.DueDate,
		PaidDate:           e.PaidDate,
		Notes:              e.Notes,
		Reference:          e.Reference,
		ReferenceType:      DefaultReferenceType,
		AccountId:          "",
		AccountName:        "",
		Tags:               []string{},
		Attachments:        []string{},
		Installments:       1,
		CurrentInstallment: 1,
		PaymentMethod:      DefaultPaymentMethod,
		UserId:             e.UserId,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}
