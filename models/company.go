package models

import (
	"context"
	"errors"
	"fmt"

	"time"

	"bitbucket.org/artplim/erp_backend/config"
	"github.com/google/uuid"
)

// Company is the tenant. Every scoped table carries its id and every
// operation filters by it.
type Company struct {
	ID        string    `gorm:"primary_key;size:36" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Email     string    `gorm:"size:100" json:"email"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Address   string    `gorm:"type:text" json:"address"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCompany struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func CreateCompany(ctx context.Context, input *NewCompany) (*Company, error) {
	company := Company{
		ID:      uuid.NewString(),
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Address: input.Address,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&company).Error; err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	return &company, nil
}

func GetCompanyById(ctx context.Context, id string) (*Company, error) {
	if id == "" {
		return nil, errors.New("company id is required")
	}

	var company Company
	exists, err := config.GetRedisObject("Company:"+id, &company)
	if err != nil {
		return nil, err
	}
	if exists {
		return &company, nil
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Where("id = ?", id).Take(&company).Error; err != nil {
		return nil, err
	}
	if err := config.SetRedisObject("Company:"+id, &company, 0); err != nil {
		return nil, err
	}
	return &company, nil
}
