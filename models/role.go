package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bitbucket.org/artplim/erp_backend/config"
	"bitbucket.org/artplim/erp_backend/utils"
)

// Role maps a named role to the REST paths it may call. Paths is a
// comma-separated list of "METHOD /path" prefixes, e.g.
// "GET /api/entries,POST /api/entries".
type Role struct {
	ID        int       `gorm:"primary_key" json:"id"`
	CompanyId string    `gorm:"index;not null" json:"company_id"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Paths     string    `gorm:"type:text" json:"paths"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewRole struct {
	Name  string   `json:"name" binding:"required"`
	Paths []string `json:"paths"`
}

func (r *Role) PathList() []string {
	if r.Paths == "" {
		return []string{}
	}
	parts := strings.Split(r.Paths, ",")
	paths := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			paths = append(paths, trimmed)
		}
	}
	return paths
}

/*
caches:
	AllowedPaths:Role:$id
*/

func clearRolePathsCache(roleId int) error {
	return config.RemoveRedisKey("AllowedPaths:Role:" + fmt.Sprint(roleId))
}

func CreateRole(ctx context.Context, input *NewRole) (*Role, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	if err := utils.ValidateUnique[Role](ctx, companyId, "name", input.Name, 0); err != nil {
		return nil, err
	}

	role := Role{
		CompanyId: companyId,
		Name:      input.Name,
		Paths:     strings.Join(input.Paths, ","),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&role).Error; err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	return &role, nil
}

func GetAllRoles(ctx context.Context) ([]*Role, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	return utils.FetchAllModels[Role](ctx, companyId)
}

func UpdateRole(ctx context.Context, id int, input *NewRole) (*Role, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}

	role, err := utils.FetchModel[Role](ctx, companyId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(role).Updates(map[string]interface{}{
		"name":  input.Name,
		"paths": strings.Join(input.Paths, ","),
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	if err := clearRolePathsCache(id); err != nil {
		return nil, err
	}
	return role, nil
}

// GetAllowedPathsFromRole returns the role's allowed path set, redis or db.
func GetAllowedPathsFromRole(ctx context.Context, roleId int) (map[string]bool, error) {

	var allowedPaths map[string]bool
	exists, err := config.GetRedisObject("AllowedPaths:Role:"+fmt.Sprint(roleId), &allowedPaths)
	if err != nil {
		return nil, err
	}
	if exists {
		return allowedPaths, nil
	}

	db := config.GetDB()
	var role Role
	if err := db.WithContext(ctx).First(&role, roleId).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	allowedPaths = make(map[string]bool)
	for _, p := range role.PathList() {
		allowedPaths[p] = true
	}

	if err := config.SetRedisObject("AllowedPaths:Role:"+fmt.Sprint(roleId), &allowedPaths, 0); err != nil {
		return nil, err
	}
	return allowedPaths, nil
}

// GetDefaultAllowedPaths lists paths every authenticated user may call.
func GetDefaultAllowedPaths() map[string]bool {
	return map[string]bool{
		"POST /api/auth/logout":          true,
		"POST /api/auth/change-password": true,
		"GET /api/dashboard":             true,
	}
}
