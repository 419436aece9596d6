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

// Product is one catalog item (print product or service). Deletes are soft:
// the catalog supports restore, unlike financial entries.
type Product struct {
	ID          int             `gorm:"primary_key" json:"id"`
	CompanyId   string          `gorm:"index;not null" json:"company_id" binding:"required"`
	Name        string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Description string          `gorm:"type:text" json:"description"`
	CategoryId  int             `gorm:"index;not null;default:0" json:"category_id"`
	Sku         string          `gorm:"size:100" json:"sku"`
	SalesPrice  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sales_price"`
	CostPrice   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cost_price"`
	Unit        string          `gorm:"size:20" json:"unit"`
	IsActive    *bool           `gorm:"not null;default:true" json:"is_active"`
	TrackStock  *bool           `gorm:"not null;default:false" json:"track_stock"`
	StockLevel  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"stock_level"`
	MinStock    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"min_stock"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (p Product) GetCompanyId() string { return p.CompanyId }

type NewProduct struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	CategoryId  int             `json:"category_id"`
	Sku         string          `json:"sku"`
	SalesPrice  decimal.Decimal `json:"sales_price"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	Unit        string          `json:"unit"`
	TrackStock  *bool           `json:"track_stock"`
	MinStock    decimal.Decimal `json:"min_stock"`
}

func (input *NewProduct) validate(ctx context.Context, companyId string, exceptId int) error {
	if input.CategoryId > 0 {
		if err := utils.ValidateResourceId[ProductCategory](ctx, companyId, input.CategoryId); err != nil {
			return errors.New("product category not found")
		}
	}
	if input.Sku != "" {
		if err := utils.ValidateUnique[Product](ctx, companyId, "sku", input.Sku, exceptId); err != nil {
			return err
		}
	}
	if input.SalesPrice.IsNegative() || input.CostPrice.IsNegative() {
		return errors.New("price must not be negative")
	}
	return nil
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	if err := input.validate(ctx, companyId, 0); err != nil {
		return nil, err
	}

	trackStock := input.TrackStock
	if trackStock == nil {
		trackStock = utils.NewFalse()
	}

	product := Product{
		CompanyId:   companyId,
		Name:        input.Name,
		Description: input.Description,
		CategoryId:  input.CategoryId,
		Sku:         input.Sku,
		SalesPrice:  input.SalesPrice,
		CostPrice:   input.CostPrice,
		Unit:        input.Unit,
		IsActive:    utils.NewTrue(),
		TrackStock:  trackStock,
		MinStock:    input.MinStock,
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Create(&product).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	if err := createHistory(tx.WithContext(ctx), "*CREATE*", product.ID, "products", nil, &product,
		"Product created."); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	if err := utils.RemoveRedisList[Product](companyId); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProduct returns one catalog item, redis or db. A cached row only
// counts for the company that owns it; any other tenant goes to the db
// and gets not-found there.
func GetProduct(ctx context.Context, id int) (*Product, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}

	cached, err := utils.RetrieveRedis[Product](id)
	if err != nil {
		return nil, err
	}
	if cached != nil && cached.CompanyId == companyId {
		return cached, nil
	}

	product, err := utils.FetchModel[Product](ctx, companyId, id)
	if err != nil {
		return nil, err
	}
	if err := utils.StoreRedis[Product](product, id); err != nil {
		return nil, err
	}
	return product, nil
}

type ProductFilters struct {
	Search     string `form:"search" json:"search"`
	CategoryId int    `form:"categoryId" json:"categoryId"`
	OnlyActive bool   `form:"onlyActive" json:"onlyActive"`
	Page       int    `form:"page" json:"page"`
	Limit      int    `form:"limit" json:"limit"`
}

type ProductsPage struct {
	Products []*Product `json:"products"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	Limit    int        `json:"limit"`
}

func PaginateProducts(ctx context.Context, filters *ProductFilters) (*ProductsPage, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	if filters == nil {
		filters = &ProductFilters{}
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
	dbCtx := db.WithContext(ctx).Model(&Product{}).Where("company_id = ?", companyId)
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		dbCtx = dbCtx.Where("(name LIKE ? OR sku LIKE ?)", pattern, pattern)
	}
	if filters.CategoryId > 0 {
		dbCtx = dbCtx.Where("category_id = ?", filters.CategoryId)
	}
	if filters.OnlyActive {
		dbCtx = dbCtx.Where("is_active = ?", true)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	var products []*Product
	if err := dbCtx.Order("name ASC, id ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	return &ProductsPage{Products: products, Total: total, Page: page, Limit: limit}, nil
}

func UpdateProduct(ctx context.Context, id int, input *NewProduct) (*Product, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	if err := input.validate(ctx, companyId, id); err != nil {
		return nil, err
	}

	product, err := utils.FetchModel[Product](ctx, companyId, id)
	if err != nil {
		return nil, err
	}
	before := *product

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(product).Updates(map[string]interface{}{
		"name":        input.Name,
		"description": input.Description,
		"category_id": input.CategoryId,
		"sku":         input.Sku,
		"sales_price": input.SalesPrice,
		"cost_price":  input.CostPrice,
		"unit":        input.Unit,
		"min_stock":   input.MinStock,
	}).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if err := createHistory(tx.WithContext(ctx), "*UPDATE*", product.ID, "products", &before, product,
		"Product updated."); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if err := utils.RemoveRedisList[Product](companyId); err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisItem[Product](id); err != nil {
		return nil, err
	}
	return product, nil
}

// ToggleProductActive flips IsActive without touching other fields.
func ToggleProductActive(ctx context.Context, id int, isActive bool) (*Product, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}

	product, err := utils.FetchModel[Product](ctx, companyId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(product).UpdateColumn("is_active", isActive).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if err := utils.RemoveRedisList[Product](companyId); err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisItem[Product](id); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct tombstones a product (soft delete); RestoreProduct undoes it.
func DeleteProduct(ctx context.Context, id int) error {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return errors.New("company id is required")
	}

	db := config.GetDB()
	result := db.WithContext(ctx).Where("company_id = ?", companyId).Delete(&Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}

	if err := utils.RemoveRedisList[Product](companyId); err != nil {
		return err
	}
	return utils.RemoveRedisItem[Product](id)
}

func RestoreProduct(ctx context.Context, id int) (*Product, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}

	db := config.GetDB()
	result := db.WithContext(ctx).Unscoped().Model(&Product{}).
		Where("company_id = ? AND id = ? AND deleted_at IS NOT NULL", companyId, id).
		Update("deleted_at", nil)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to restore product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, utils.ErrorRecordNotFound
	}

	if err := utils.RemoveRedisList[Product](companyId); err != nil {
		return nil, err
	}
	return utils.FetchModel[Product](ctx, companyId, id)
}
