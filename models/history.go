package models

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bitbucket.org/artplim/erp_backend/config"
	"bitbucket.org/artplim/erp_backend/utils"
	"gorm.io/gorm"
)

type History struct {
	ID            int       `gorm:"primary_key" json:"id"`
	CompanyId     string    `gorm:"index;not null" json:"company_id"`
	ActionType    string    `gorm:"size:10;not null" json:"action_type" binding:"required"`
	Before        string    `gorm:"type:text" json:"before"`
	After         string    `gorm:"type:text" json:"after"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	ReferenceID   int       `gorm:"index" json:"reference_id"`
	ReferenceType string    `gorm:"size:255" json:"reference_type"`
	UserId        int       `gorm:"index;not null" json:"user_id"`
	UserName      string    `gorm:"size:100" json:"user_name"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// createHistory writes one audit row inside the caller's transaction so the
// audit trail commits or rolls back with the mutation it describes.
func createHistory(tx *gorm.DB,
	actionType string,
	referenceId int,
	referenceType string,
	before interface{},
	after interface{},
	description string) (err error) {

	var history History

	b, _ := json.Marshal(before)
	a, _ := json.Marshal(after)

	ctx := tx.Statement.Context
	// get companyId, userId, userName from context
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return errors.New("company id is required")
	}
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		return errors.New("user id is required")
	}
	userName, ok := utils.GetUserNameFromContext(ctx)
	if !ok {
		return errors.New("user name is required")
	}

	history.CompanyId = companyId
	history.ActionType = actionType
	history.ReferenceID = referenceId
	history.ReferenceType = referenceType
	history.UserId = userId
	history.UserName = userName
	history.Description = description
	if before != nil {
		history.Before = string(b)
	}
	if after != nil {
		history.After = string(a)
	}

	return tx.Create(&history).Error
}

// PaginateHistories lists audit rows of one record, newest first.
func PaginateHistories(ctx context.Context, referenceType string, referenceId int, page int, limit int) ([]*History, int64, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, 0, errors.New("company id is required")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&History{}).
		Where("company_id = ?", companyId).
		Where("reference_type = ? AND reference_id = ?", referenceType, referenceId)

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var histories []*History
	if err := dbCtx.Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&histories).Error; err != nil {
		return nil, 0, err
	}
	return histories, total, nil
}
