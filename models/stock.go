package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/artplim/erp_backend/config"
	"bitbucket.org/artplim/erp_backend/utils"
	"github.com/bsm/redislock"
	"github.com/shopspring/decimal"
)

// StockMovement is one entry in a product's stock ledger. The product's
// StockLevel column is derived from these rows and mutated under a per-product
// redis lock so two concurrent movements cannot race the level.
type StockMovement struct {
	ID          int               `gorm:"primary_key" json:"id"`
	CompanyId   string            `gorm:"index;not null" json:"company_id" binding:"required"`
	ProductId   int               `gorm:"index;not null" json:"product_id" binding:"required"`
	Type        StockMovementType `gorm:"type:enum('IN','OUT','ADJUSTMENT');not null" json:"type"`
	Qty         decimal.Decimal   `gorm:"type:decimal(20,4);not null" json:"qty"`
	LevelAfter  decimal.Decimal   `gorm:"type:decimal(20,4);not null" json:"level_after"`
	Reason      string            `gorm:"size:255" json:"reason"`
	Reference   string            `gorm:"size:100" json:"reference"`
	UserId      int               `json:"user_id"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
}

func (m StockMovement) GetCompanyId() string { return m.CompanyId }

type NewStockMovement struct {
	ProductId int               `json:"product_id" binding:"required"`
	Type      StockMovementType `json:"type" binding:"required"`
	Qty       decimal.Decimal   `json:"qty" binding:"required"`
	Reason    string            `json:"reason"`
	Reference string            `json:"reference"`
}

// obtainStockLock serializes stock mutation per product.
func obtainStockLock(ctx context.Context, companyId string, productId int) (*redislock.Lock, error) {
	locker := config.GetRedisLock()
	if locker == nil {
		return nil, errors.New("service not ready (redis lock not initialized)")
	}
	lockKey := fmt.Sprintf("stock:%s:%d", companyId, productId)
	lock, err := locker.Obtain(ctx, lockKey, 30*time.Second, nil)
	if err == redislock.ErrNotObtained {
		config.LogError(config.GetLogger(), "stock", "obtainStockLock", "could not obtain stock lock", lockKey, err)
		return nil, errors.New("stock is busy, try again")
	} else if err != nil {
		return nil, err
	}
	return lock, nil
}

// CreateStockMovement records a movement and updates the product's level.
//
//	IN          adds qty
//	OUT         subtracts qty, never below zero
//	ADJUSTMENT  sets the level to qty
func CreateStockMovement(ctx context.Context, input *NewStockMovement) (*StockMovement, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	if !input.Type.IsValid() {
		return nil, errors.New("invalid stock movement type")
	}
	if input.Type != StockMovementTypeAdjustment && !input.Qty.IsPositive() {
		return nil, errors.New("qty must be positive")
	}
	if input.Type == StockMovementTypeAdjustment && input.Qty.IsNegative() {
		return nil, errors.New("qty must not be negative")
	}

	product, err := utils.FetchModel[Product](ctx, companyId, input.ProductId)
	if err != nil {
		return nil, errors.New("product not found")
	}
	if product.TrackStock == nil || !*product.TrackStock {
		return nil, errors.New("product does not track stock")
	}

	lock, err := obtainStockLock(ctx, companyId, input.ProductId)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = lock.Release(ctx)
	}()

	// re-read under the lock; the level may have moved since the guard checks
	product, err = utils.FetchModel[Product](ctx, companyId, input.ProductId)
	if err != nil {
		return nil, errors.New("product not found")
	}

	var newLevel decimal.Decimal
	switch input.Type {
	case StockMovementTypeIn:
		newLevel = product.StockLevel.Add(input.Qty)
	case StockMovementTypeOut:
		newLevel = product.StockLevel.Sub(input.Qty)
		if newLevel.IsNegative() {
			return nil, errors.New("insufficient stock")
		}
	case StockMovementTypeAdjustment:
		newLevel = input.Qty
	}

	userId, _ := utils.GetUserIdFromContext(ctx)
	movement := StockMovement{
		CompanyId:  companyId,
		ProductId:  input.ProductId,
		Type:       input.Type,
		Qty:        input.Qty,
		LevelAfter: newLevel,
		Reason:     input.Reason,
		Reference:  input.Reference,
		UserId:     userId,
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Create(&movement).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create stock movement: %w", err)
	}
	if err := tx.WithContext(ctx).Model(&Product{}).
		Where("company_id = ? AND id = ?", companyId, input.ProductId).
		UpdateColumn("stock_level", newLevel).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create stock movement: %w", err)
	}
	if err := createHistory(tx.WithContext(ctx), "*CREATE*", movement.ID, "stock_movements", nil, &movement,
		fmt.Sprintf("Stock %s of %s for product %d.", movement.Type, movement.Qty, movement.ProductId)); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create stock movement: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to create stock movement: %w", err)
	}

	if err := utils.RemoveRedisItem[Product](input.ProductId); err != nil {
		return nil, err
	}
	return &movement, nil
}

type StockMovementFilters struct {
	ProductId int    `form:"productId" json:"productId"`
	Type      string `form:"type" json:"type"`
	Page      int    `form:"page" json:"page"`
	Limit     int    `form:"limit" json:"limit"`
}

type StockMovementsPage struct {
	Movements []*StockMovement `json:"movements"`
	Total     int64            `json:"total"`
	Page      int              `json:"page"`
	Limit     int              `json:"limit"`
}

func PaginateStockMovements(ctx context.Context, filters *StockMovementFilters) (*StockMovementsPage, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	if filters == nil {
		filters = &StockMovementFilters{}
	}
	if filters.Type != "" && !StockMovementType(filters.Type).IsValid() {
		return nil, errors.New("invalid type filter")
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
	dbCtx := db.WithContext(ctx).Model(&StockMovement{}).Where("company_id = ?", companyId)
	if filters.ProductId > 0 {
		dbCtx = dbCtx.Where("product_id = ?", filters.ProductId)
	}
	if filters.Type != "" {
		dbCtx = dbCtx.Where("type = ?", filters.Type)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch stock movements: %w", err)
	}

	var movements []*StockMovement
	if err := dbCtx.Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&movements).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch stock movements: %w", err)
	}

	return &StockMovementsPage{Movements: movements, Total: total, Page: page, Limit: limit}, nil
}

// LowStockProduct pairs a tracked product with its shortfall.
type LowStockProduct struct {
	ProductId  int             `json:"product_id"`
	Name       string          `json:"name"`
	StockLevel decimal.Decimal `json:"stock_level"`
	MinStock   decimal.Decimal `json:"min_stock"`
}

// GetLowStockProducts lists tracked products at or below their minimum.
func GetLowStockProducts(ctx context.Context) ([]*LowStockProduct, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}

	db := config.GetDB()
	var results []*LowStockProduct
	err := db.WithContext(ctx).Model(&Product{}).
		Select("id AS product_id, name, stock_level, min_stock").
		Where("company_id = ? AND track_stock = ? AND stock_level <= min_stock", companyId, true).
		Order("stock_level ASC").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch low stock products: %w", err)
	}
	return results, nil
}
