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

type Quote struct {
	ID             int             `gorm:"primary_key" json:"id"`
	CompanyId      string          `gorm:"index;not null" json:"company_id" binding:"required"`
	CustomerId     int             `gorm:"index;not null" json:"customer_id" binding:"required"`
	QuoteNumber    string          `gorm:"size:50;not null" json:"quote_number"`
	SequenceNo     int64           `gorm:"not null" json:"sequence_no"`
	Status         QuoteStatus     `gorm:"type:enum('DRAFT','SENT','APPROVED','REJECTED','EXPIRED');not null;default:'DRAFT'" json:"status"`
	QuoteDate      time.Time       `gorm:"not null" json:"quote_date"`
	ValidUntil     *time.Time      `json:"valid_until"`
	Notes          string          `gorm:"type:text" json:"notes"`
	Discount       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discount"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	ServiceOrderId int             `gorm:"default:0" json:"service_order_id"`
	UserId         int             `json:"user_id"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	Items          []QuoteItem     `gorm:"foreignKey:QuoteId" json:"items"`
}

func (q Quote) GetCompanyId() string { return q.CompanyId }

type QuoteItem struct {
	ID          int             `gorm:"primary_key" json:"id"`
	QuoteId     int             `gorm:"index;not null" json:"quote_id"`
	ProductId   int             `json:"product_id"`
	Name        string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Description string          `gorm:"size:255" json:"description"`
	Qty         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
}

type NewQuote struct {
	CustomerId int             `json:"customer_id" binding:"required"`
	QuoteDate  time.Time       `json:"quote_date" binding:"required"`
	ValidUntil *time.Time      `json:"valid_until"`
	Notes      string          `json:"notes"`
	Discount   decimal.Decimal `json:"discount"`
	Items      []NewQuoteItem  `json:"items" binding:"required,min=1,dive"`
}

type NewQuoteItem struct {
	ProductId   int             `json:"product_id"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Qty         decimal.Decimal `json:"qty" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func (input *NewQuote) validate(ctx context.Context, companyId string) error {

	if err := utils.ValidateResourceId[Customer](ctx, companyId, input.CustomerId); err != nil {
		return errors.New("customer not found")
	}
	if input.Discount.IsNegative() {
		return errors.New("discount must not be negative")
	}
	for _, item := range input.Items {
		if !item.Qty.IsPositive() {
			return errors.New("item qty must be positive")
		}
		if item.UnitPrice.IsNegative() {
			return errors.New("item unit price must not be negative")
		}
		if item.ProductId > 0 {
			if err := utils.ValidateResourceId[Product](ctx, companyId, item.ProductId); err != nil {
				return errors.New("product not found")
			}
		}
	}
	return nil
}

// buildItems computes per-line and document totals server-side; client-sent
// totals are ignored.
func (input *NewQuote) buildItems() ([]QuoteItem, decimal.Decimal, decimal.Decimal) {
	items := make([]QuoteItem, 0, len(input.Items))
	var subtotal decimal.Decimal
	for _, item := range input.Items {
		lineTotal := item.Qty.Mul(item.UnitPrice)
		items = append(items, QuoteItem{
			ProductId:   item.ProductId,
			Name:        item.Name,
			Description: item.Description,
			Qty:         item.Qty,
			UnitPrice:   item.UnitPrice,
			TotalAmount: lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}
	total := subtotal.Sub(input.Discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return items, subtotal, total
}

// nextSequence reserves the next per-company document number inside tx.
func nextSequence(tx *gorm.DB, model interface{}, companyId string) (int64, error) {
	var seq int64
	err := tx.Model(model).
		Where("company_id = ?", companyId).
		Select("COALESCE(MAX(sequence_no), 0) + 1").
		Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	if seq < 1 {
		seq = 1
	}
	return seq, nil
}

func CreateQuote(ctx context.Context, input *NewQuote) (*Quote, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	if err := input.validate(ctx, companyId); err != nil {
		return nil, err
	}

	items, subtotal, total := input.buildItems()
	userId, _ := utils.GetUserIdFromContext(ctx)

	quote := Quote{
		CompanyId:   companyId,
		CustomerId:  input.CustomerId,
		Status:      QuoteStatusDraft,
		QuoteDate:   input.QuoteDate,
		ValidUntil:  input.ValidUntil,
		Notes:       input.Notes,
		Discount:    input.Discount,
		Subtotal:    subtotal,
		TotalAmount: total,
		UserId:      userId,
		Items:       items,
	}

	db := config.GetDB()
	tx := db.Begin()

	seqNo, err := nextSequence(tx.WithContext(ctx), &Quote{}, companyId)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}
	quote.SequenceNo = seqNo
	quote.QuoteNumber = "ORC-" + fmt.Sprint(seqNo)

	if err := tx.WithContext(ctx).Create(&quote).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}
	if err := createHistory(tx.WithContext(ctx), "*CREATE*", quote.ID, "quotes", nil, &quote,
		"Quote "+quote.QuoteNumber+" created."); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}
	return &quote, nil
}

func GetQuote(ctx context.Context, id int) (*Quote, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	return utils.FetchModel[Quote](ctx, companyId, id, "Items")
}

type QuoteFilters struct {
	CustomerId int    `form:"customerId" json:"customerId"`
	Status     string `form:"status" json:"status"`
	Page       int    `form:"page" json:"page"`
	Limit      int    `form:"limit" json:"limit"`
}

type QuotesPage struct {
	Quotes []*Quote `json:"quotes"`
	Total  int64    `json:"total"`
	Page   int      `json:"page"`
	Limit  int      `json:"limit"`
}

func PaginateQuotes(ctx context.Context, filters *QuoteFilters) (*QuotesPage, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	if filters == nil {
		filters = &QuoteFilters{}
	}
	if filters.Status != "" && !QuoteStatus(filters.Status).IsValid() {
		return nil, errors.New("invalid status filter")
	}
	page := filters.Page
	if page < 1 {
		page = 1
	}
	limit := filters.Limit
	if limit < 1 || limit > EntryMaxLimit {
		limit = EntryDefaultLimit
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Quote{}).Where("company_id = ?", companyId)
	if filters.CustomerId > 0 {
		dbCtx = dbCtx.Where("customer_id = ?", filters.CustomerId)
	}
	if filters.Status != "" {
		dbCtx = dbCtx.Where("status = ?", filters.Status)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch quotes: %w", err)
	}

	var quotes []*Quote
	if err := dbCtx.Preload("Items").
		Order("quote_date DESC, id DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&quotes).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch quotes: %w", err)
	}

	return &QuotesPage{Quotes: quotes, Total: total, Page: page, Limit: limit}, nil
}

// UpdateQuote replaces the quote's fields and its full item set. Only DRAFT
// quotes are editable; anything already sent must be rejected and redone.
func UpdateQuote(ctx context.Context, id int, input *NewQuote) (*Quote, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	if err := input.validate(ctx, companyId); err != nil {
		return nil, err
	}

	quote, err := utils.FetchModel[Quote](ctx, companyId, id, "Items")
	if err != nil {
		return nil, err
	}
	if quote.Status != QuoteStatusDraft {
		return nil, errors.New("only draft quotes can be edited")
	}
	before := *quote

	items, subtotal, total := input.buildItems()

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Where("quote_id = ?", quote.ID).Delete(&QuoteItem{}).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update quote: %w", err)
	}

	quote.CustomerId = input.CustomerId
	quote.QuoteDate = input.QuoteDate
	quote.ValidUntil = input.ValidUntil
	quote.Notes = input.Notes
	quote.Discount = input.Discount
	quote.Subtotal = subtotal
	quote.TotalAmount = total
	quote.Items = items

	if err := tx.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(quote).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update quote: %w", err)
	}
	if err := createHistory(tx.WithContext(ctx), "*UPDATE*", quote.ID, "quotes", &before, quote,
		"Quote "+quote.QuoteNumber+" updated."); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update quote: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to update quote: %w", err)
	}
	return quote, nil
}

// quoteTransitions lists the allowed status moves. EXPIRED is also set by
// the mark-overdue sweep when validUntil passes.
var quoteTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteStatusDraft:    {QuoteStatusSent},
	QuoteStatusSent:     {QuoteStatusApproved, QuoteStatusRejected, QuoteStatusExpired},
	QuoteStatusApproved: {},
	QuoteStatusRejected: {},
	QuoteStatusExpired:  {},
}

func canTransitionQuote(from QuoteStatus, to QuoteStatus) bool {
	for _, allowed := range quoteTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func ChangeQuoteStatus(ctx context.Context, id int, status QuoteStatus) (*Quote, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	if !status.IsValid() {
		return nil, errors.New("invalid status")
	}

	quote, err := utils.FetchModel[Quote](ctx, companyId, id)
	if err != nil {
		return nil, err
	}
	if !canTransitionQuote(quote.Status, status) {
		return nil, fmt.Errorf("cannot move quote from %s to %s", quote.Status, status)
	}
	before := *quote

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(quote).Update("status", status).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update quote: %w", err)
	}
	quote.Status = status
	if err := createHistory(tx.WithContext(ctx), "*UPDATE*", quote.ID, "quotes", &before, quote,
		"Quote "+quote.QuoteNumber+" moved to "+string(status)+"."); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update quote: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to update quote: %w", err)
	}
	return quote, nil
}

func DeleteQuote(ctx context.Context, id int) error {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return errors.New("company id is required")
	}

	quote, err := utils.FetchModel[Quote](ctx, companyId, id)
	if err != nil {
		return err
	}
	if quote.Status == QuoteStatusApproved && quote.ServiceOrderId > 0 {
		return errors.New("quote already converted to a service order")
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Where("quote_id = ?", quote.ID).Delete(&QuoteItem{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete quote: %w", err)
	}
	result := tx.WithContext(ctx).Where("company_id = ?", companyId).Delete(&Quote{}, id)
	if result.Error != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete quote: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return utils.ErrorRecordNotFound
	}
	if err := createHistory(tx.WithContext(ctx), "*DELETE*", quote.ID, "quotes", quote, nil,
		"Quote "+quote.QuoteNumber+" deleted."); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete quote: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to delete quote: %w", err)
	}
	return nil
}

// ConvertQuoteToServiceOrder turns an APPROVED quote into an OPEN service
// order, copying its items and back-linking both documents.
func ConvertQuoteToServiceOrder(ctx context.Context, id int) (*ServiceOrder, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}

	quote, err := utils.FetchModel[Quote](ctx, companyId, id, "Items")
	if err != nil {
		return nil, err
	}
	if quote.Status != QuoteStatusApproved {
		return nil, errors.New("only approved quotes can be converted")
	}
	if quote.ServiceOrderId > 0 {
		return nil, errors.New("quote already converted to a service order")
	}

	userId, _ := utils.GetUserIdFromContext(ctx)

	items := make([]ServiceOrderItem, 0, len(quote.Items))
	for _, item := range quote.Items {
		items = append(items, ServiceOrderItem{
			ProductId:   item.ProductId,
			Name:        item.Name,
			Description: item.Description,
			Qty:         item.Qty,
			UnitPrice:   item.UnitPrice,
			TotalAmount: item.TotalAmount,
		})
	}

	order := ServiceOrder{
		CompanyId:   companyId,
		CustomerId:  quote.CustomerId,
		QuoteId:     quote.ID,
		Status:      ServiceOrderStatusOpen,
		OrderDate:   time.Now().UTC(),
		Notes:       quote.Notes,
		Discount:    quote.Discount,
		Subtotal:    quote.Subtotal,
		TotalAmount: quote.TotalAmount,
		UserId:      userId,
		Items:       items,
	}

	db := config.GetDB()
	tx := db.Begin()

	seqNo, err := nextSequence(tx.WithContext(ctx), &ServiceOrder{}, companyId)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to convert quote: %w", err)
	}
	order.SequenceNo = seqNo
	order.OrderNumber = "OS-" + fmt.Sprint(seqNo)

	if err := tx.WithContext(ctx).Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to convert quote: %w", err)
	}
	if err := tx.WithContext(ctx).Model(quote).Update("service_order_id", order.ID).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to convert quote: %w", err)
	}
	if err := createHistory(tx.WithContext(ctx), "*CREATE*", order.ID, "service_orders", nil, &order,
		"Service order "+order.OrderNumber+" created from quote "+quote.QuoteNumber+"."); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to convert quote: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to convert quote: %w", err)
	}
	return &order, nil
}
