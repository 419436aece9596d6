package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/artplim/erp_backend/config"
	"bitbucket.org/artplim/erp_backend/utils"
)

type Customer struct {
	ID        int       `gorm:"primary_key" json:"id"`
	CompanyId string    `gorm:"index;not null" json:"company_id" binding:"required"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Email     string    `gorm:"size:100" json:"email"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Document  string    `gorm:"size:30" json:"document"`
	Address   string    `gorm:"type:text" json:"address"`
	Notes     string    `gorm:"type:text" json:"notes"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c Customer) GetCompanyId() string { return c.CompanyId }

type NewCustomer struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"omitempty,email"`
	Phone       string `json:"phone"`
	CountryCode string `json:"country_code"`
	Document    string `json:"document"`
	Address     string `json:"address"`
	Notes       string `json:"notes"`
}

func CreateCustomer(ctx context.Context, input *NewCustomer) (*Customer, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}

	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return nil, errors.New("invalid email address")
	}

	countryCode := input.CountryCode
	if countryCode == "" {
		countryCode = "BR"
	}
	phone := input.Phone
	if phone != "" {
		if err := utils.ValidatePhoneNumber(phone, countryCode); err != nil {
			return nil, errors.New("invalid phone number")
		}
		phone = utils.FormatPhoneNumber(phone, countryCode)
	}

	customer := Customer{
		CompanyId: companyId,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     phone,
		Document:  input.Document,
		Address:   input.Address,
		Notes:     input.Notes,
		IsActive:  utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	if err := utils.RemoveRedisList[Customer](companyId); err != nil {
		return nil, err
	}
	return &customer, nil
}

func GetCustomer(ctx context.Context, id int) (*Customer, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	return utils.FetchModel[Customer](ctx, companyId, id)
}

// GetAllCustomers lists the company's customers, redis or db.
func GetAllCustomers(ctx context.Context) ([]*Customer, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}

	results, err := utils.RetrieveRedisList[Customer](companyId)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results, err = utils.FetchAllModels[Customer](ctx, companyId)
		if err != nil {
			return nil, err
		}
		if err := utils.StoreRedisList[Customer](results, companyId); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func UpdateCustomer(ctx context.Context, id int, input *NewCustomer) (*Customer, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}

	customer, err := utils.FetchModel[Customer](ctx, companyId, id)
	if err != nil {
		return nil, err
	}

	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return nil, errors.New("invalid email address")
	}

	countryCode := input.CountryCode
	if countryCode == "" {
		countryCode = "BR"
	}
	phone := input.Phone
	if phone != "" {
		if err := utils.ValidatePhoneNumber(phone, countryCode); err != nil {
			return nil, errors.New("invalid phone number")
		}
		phone = utils.FormatPhoneNumber(phone, countryCode)
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(customer).Updates(map[string]interface{}{
		"name":     input.Name,
		"email":    input.Email,
		"phone":    phone,
		"document": input.Document,
		"address":  input.Address,
		"notes":    input.Notes,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	if err := utils.RemoveRedisList[Customer](companyId); err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisItem[Customer](id); err != nil {
		return nil, err
	}
	return customer, nil
}

func DeleteCustomer(ctx context.Context, id int) error {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return errors.New("company id is required")
	}

	db := config.GetDB()
	result := db.WithContext(ctx).Where("company_id = ?", companyId).Delete(&Customer{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete customer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}

	if err := utils.RemoveRedisList[Customer](companyId); err != nil {
		return err
	}
	return utils.RemoveRedisItem[Customer](id)
}
