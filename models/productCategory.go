package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/artplim/erp_backend/config"
	"bitbucket.org/artplim/erp_backend/utils"
)

type ProductCategory struct {
	ID        int       `gorm:"primary_key" json:"id"`
	CompanyId string    `gorm:"index;not null" json:"company_id" binding:"required"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Color     string    `gorm:"size:10" json:"color"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c ProductCategory) GetCompanyId() string { return c.CompanyId }

type NewProductCategory struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

/*
caches:
	ProductCategoryList:$companyId
*/

func CreateProductCategory(ctx context.Context, input *NewProductCategory) (*ProductCategory, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	if err := utils.ValidateUnique[ProductCategory](ctx, companyId, "name", input.Name, 0); err != nil {
		return nil, err
	}

	category := ProductCategory{
		CompanyId: companyId,
		Name:      input.Name,
		Color:     input.Color,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create product category: %w", err)
	}

	if err := utils.RemoveRedisList[ProductCategory](companyId); err != nil {
		return nil, err
	}
	return &category, nil
}

// GetAllProductCategories lists categories, redis or db, cache result.
func GetAllProductCategories(ctx context.Context) ([]*ProductCategory, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}

	results, err := utils.RetrieveRedisList[ProductCategory](companyId)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results, err = utils.FetchAllModels[ProductCategory](ctx, companyId)
		if err != nil {
			return nil, err
		}
		if err := utils.StoreRedisList[ProductCategory](results, companyId); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func UpdateProductCategory(ctx context.Context, id int, input *NewProductCategory) (*ProductCategory, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	if err := utils.ValidateUnique[ProductCategory](ctx, companyId, "name", input.Name, id); err != nil {
		return nil, err
	}

	category, err := utils.FetchModel[ProductCategory](ctx, companyId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(category).Updates(map[string]interface{}{
		"name":  input.Name,
		"color": input.Color,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update product category: %w", err)
	}

	if err := utils.RemoveRedisList[ProductCategory](companyId); err != nil {
		return nil, err
	}
	return category, nil
}

func DeleteProductCategory(ctx context.Context, id int) error {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return errors.New("company id is required")
	}

	count, err := utils.ResourceCountWhere[Product](ctx, companyId, "category_id = ?", id)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("category is in use")
	}

	db := config.GetDB()
	result := db.WithContext(ctx).Where("company_id = ?", companyId).Delete(&ProductCategory{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return utils.RemoveRedisList[ProductCategory](companyId)
}
