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

type ServiceOrder struct {
	ID           int                `gorm:"primary_key" json:"id"`
	CompanyId    string             `gorm:"index;not null" json:"company_id" binding:"required"`
	CustomerId   int                `gorm:"index;not null" json:"customer_id" binding:"required"`
	QuoteId      int                `gorm:"index;default:0" json:"quote_id"`
	OrderNumber  string             `gorm:"size:50;not null" json:"order_number"`
	SequenceNo   int64              `gorm:"not null" json:"sequence_no"`
	Status       ServiceOrderStatus `gorm:"type:enum('OPEN','IN_PROGRESS','DONE','DELIVERED','CANCELLED');not null;default:'OPEN'" json:"status"`
	OrderDate    time.Time          `gorm:"not null" json:"order_date"`
	DueDate      *time.Time         `json:"due_date"`
	DeliveredAt  *time.Time         `json:"delivered_at"`
	Notes        string             `gorm:"type:text" json:"notes"`
	Discount     decimal.Decimal    `gorm:"type:decimal(20,4);default:0" json:"discount"`
	Subtotal     decimal.Decimal    `gorm:"type:decimal(20,4);default:0" json:"subtotal"`
	TotalAmount  decimal.Decimal    `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	UserId       int                `json:"user_id"`
	CreatedAt    time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
	Items        []ServiceOrderItem `gorm:"foreignKey:ServiceOrderId" json:"items"`
}

func (o ServiceOrder) GetCompanyId() string { return o.CompanyId }

type ServiceOrderItem struct {
	ID             int             `gorm:"primary_key" json:"id"`
	ServiceOrderId int             `gorm:"index;not null" json:"service_order_id"`
	ProductId      int             `json:"product_id"`
	Name           string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Description    string          `gorm:"size:255" json:"description"`
	Qty            decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
}

type NewServiceOrder struct {
	CustomerId int                   `json:"customer_id" binding:"required"`
	OrderDate  time.Time             `json:"order_date" binding:"required"`
	DueDate    *time.Time            `json:"due_date"`
	Notes      string                `json:"notes"`
	Discount   decimal.Decimal       `json:"discount"`
	Items      []NewServiceOrderItem `json:"items" binding:"required,min=1,dive"`
}

type NewServiceOrderItem struct {
	ProductId   int             `json:"product_id"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Qty         decimal.Decimal `json:"qty" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func (input *NewServiceOrder) validate(ctx context.Context, companyId string) error {

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

func (input *NewServiceOrder) buildItems() ([]ServiceOrderItem, decimal.Decimal, decimal.Decimal) {
	items := make([]ServiceOrderItem, 0, len(input.Items))
	var subtotal decimal.Decimal
	for _, item := range input.Items {
		lineTotal := item.Qty.Mul(item.UnitPrice)
		items = append(items, ServiceOrderItem{
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

func CreateServiceOrder(ctx context.Context, input *NewServiceOrder) (*ServiceOrder, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	if err := input.validate(ctx, companyId); err != nil {
		return nil, err
	}

	items, subtotal, total := input.buildItems()
	userId, _ := utils.GetUserIdFromContext(ctx)

	order := ServiceOrder{
		CompanyId:   companyId,
		CustomerId:  input.CustomerId,
		Status:      ServiceOrderStatusOpen,
		OrderDate:   input.OrderDate,
		DueDate:     input.DueDate,
		Notes:       input.Notes,
		Discount:    input.Discount,
		Subtotal:    subtotal,
		TotalAmount: total,
		UserId:      userId,
		Items:       items,
	}

	db := config.GetDB()
	tx := db.Begin()

	seqNo, err := nextSequence(tx.WithContext(ctx), &ServiceOrder{}, companyId)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create service order: %w", err)
	}
	order.SequenceNo = seqNo
	order.OrderNumber = "OS-" + fmt.Sprint(seqNo)

	if err := tx.WithContext(ctx).Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create service order: %w", err)
	}
	if err := createHistory(tx.WithContext(ctx), "*CREATE*", order.ID, "service_orders", nil, &order,
		"Service order "+order.OrderNumber+" created."); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create service order: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to create service order: %w", err)
	}
	return &order, nil
}

func GetServiceOrder(ctx context.Context, id int) (*ServiceOrder, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	return utils.FetchModel[ServiceOrder](ctx, companyId, id, "Items")
}

type ServiceOrderFilters struct {
	CustomerId int    `form:"customerId" json:"customerId"`
	Status     string `form:"status" json:"status"`
	Page       int    `form:"page" json:"page"`
	Limit      int    `form:"limit" json:"limit"`
}

type ServiceOrdersPage struct {
	ServiceOrders []*ServiceOrder `json:"service_orders"`
	Total         int64           `json:"total"`
	Page          int             `json:"page"`
	Limit         int             `json:"limit"`
}

func PaginateServiceOrders(ctx context.Context, filters *ServiceOrderFilters) (*ServiceOrdersPage, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	if filters == nil {
		filters = &ServiceOrderFilters{}
	}
	if filters.Status != "" && !ServiceOrderStatus(filters.Status).IsValid() {
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
	dbCtx := db.WithContext(ctx).Model(&ServiceOrder{}).Where("company_id = ?", companyId)
	if filters.CustomerId > 0 {
		dbCtx = dbCtx.Where("customer_id = ?", filters.CustomerId)
	}
	if filters.Status != "" {
		dbCtx = dbCtx.Where("status = ?", filters.Status)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch service orders: %w", err)
	}

	var orders []*ServiceOrder
	if err := dbCtx.Preload("Items").
		Order("order_date DESC, id DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch service orders: %w", err)
	}

	return &ServiceOrdersPage{ServiceOrders: orders, Total: total, Page: page, Limit: limit}, nil
}

// UpdateServiceOrder replaces fields and the full item set. Orders already
// DELIVERED or CANCELLED are frozen.
func UpdateServiceOrder(ctx context.Context, id int, input *NewServiceOrder) (*ServiceOrder, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	if err := input.validate(ctx, companyId); err != nil {
		return nil, err
	}

	order, err := utils.FetchModel[ServiceOrder](ctx, companyId, id, "Items")
	if err != nil {
		return nil, err
	}
	if order.Status == ServiceOrderStatusDelivered || order.Status == ServiceOrderStatusCancelled {
		return nil, errors.New("delivered or cancelled orders cannot be edited")
	}
	before := *order

	items, subtotal, total := input.buildItems()

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Where("service_order_id = ?", order.ID).Delete(&ServiceOrderItem{}).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update service order: %w", err)
	}

	order.CustomerId = input.CustomerId
	order.OrderDate = input.OrderDate
	order.DueDate = input.DueDate
	order.Notes = input.Notes
	order.Discount = input.Discount
	order.Subtotal = subtotal
	order.TotalAmount = total
	order.Items = items

	if err := tx.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update service order: %w", err)
	}
	if err := createHistory(tx.WithContext(ctx), "*UPDATE*", order.ID, "service_orders", &before, order,
		"Service order "+order.OrderNumber+" updated."); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update service order: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to update service order: %w", err)
	}
	return order, nil
}

// serviceOrderTransitions lists the allowed status moves. CANCELLED is
// reachable from any live state.
var serviceOrderTransitions = map[ServiceOrderStatus][]ServiceOrderStatus{
	ServiceOrderStatusOpen:       {ServiceOrderStatusInProgress, ServiceOrderStatusCancelled},
	ServiceOrderStatusInProgress: {ServiceOrderStatusDone, ServiceOrderStatusCancelled},
	ServiceOrderStatusDone:       {ServiceOrderStatusDelivered, ServiceOrderStatusCancelled},
	ServiceOrderStatusDelivered:  {},
	ServiceOrderStatusCancelled:  {},
}

func canTransitionServiceOrder(from ServiceOrderStatus, to ServiceOrderStatus) bool {
	for _, allowed := range serviceOrderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ChangeServiceOrderStatus moves an order along its lifecycle. Moving to
// DELIVERED stamps DeliveredAt and writes the matching PENDING income entry
// so the job shows up in the financial ledger.
func ChangeServiceOrderStatus(ctx context.Context, id int, status ServiceOrderStatus) (*ServiceOrder, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	if !status.IsValid() {
		return nil, errors.New("invalid status")
	}

	order, err := utils.FetchModel[ServiceOrder](ctx, companyId, id)
	if err != nil {
		return nil, err
	}
	if !canTransitionServiceOrder(order.Status, status) {
		return nil, fmt.Errorf("cannot move service order from %s to %s", order.Status, status)
	}
	before := *order

	updates := map[string]interface{}{"status": status}
	if status == ServiceOrderStatusDelivered {
		now := time.Now().UTC()
		updates["delivered_at"] = &now
		order.DeliveredAt = &now
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(order).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update service order: %w", err)
	}
	order.Status = status

	if status == ServiceOrderStatusDelivered && order.TotalAmount.IsPositive() {
		dueDate := time.Now().UTC()
		if order.DueDate != nil {
			dueDate = *order.DueDate
		}
		entry := FinancialEntry{
			CompanyId:   companyId,
			Type:        EntryTypeIncome,
			Status:      EntryStatusPending,
			Category:    "Service Orders",
			Amount:      order.TotalAmount,
			Description: "Service order " + order.OrderNumber,
			DueDate:     dueDate,
			Reference:   order.OrderNumber,
			UserId:      order.UserId,
		}
		if err := tx.WithContext(ctx).Create(&entry).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to update service order: %w", err)
		}
	}

	if err := createHistory(tx.WithContext(ctx), "*UPDATE*", order.ID, "service_orders", &before, order,
		"Service order "+order.OrderNumber+" moved to "+string(status)+"."); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update service order: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to update service order: %w", err)
	}
	return order, nil
}

func DeleteServiceOrder(ctx context.Context, id int) error {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return errors.New("company id is required")
	}

	order, err := utils.FetchModel[ServiceOrder](ctx, companyId, id)
	if err != nil {
		return err
	}
	if order.Status != ServiceOrderStatusOpen && order.Status != ServiceOrderStatusCancelled {
		return errors.New("only open or cancelled orders can be deleted")
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Where("service_order_id = ?", order.ID).Delete(&ServiceOrderItem{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete service order: %w", err)
	}
	result := tx.WithContext(ctx).Where("company_id = ?", companyId).Delete(&ServiceOrder{}, id)
	if result.Error != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete service order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return utils.ErrorRecordNotFound
	}
	if err := tx.WithContext(ctx).Model(&Quote{}).
		Where("company_id = ? AND service_order_id = ?", companyId, order.ID).
		Update("service_order_id", 0).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete service order: %w", err)
	}
	if err := createHistory(tx.WithContext(ctx), "*DELETE*", order.ID, "service_orders", order, nil,
		"Service order "+order.OrderNumber+" deleted."); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete service order: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to delete service order: %w", err)
	}
	return nil
}
