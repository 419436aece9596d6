// seed-admin bootstraps a company and its admin user (role_id = 0).
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... \
//	SEED_COMPANY_NAME="ArtPlim" SEED_ADMIN_USERNAME=admin SEED_ADMIN_PASSWORD=... \
//	go run ./cmd/seed-admin
package main

import (
	"context"
	"fmt"
	"os"

	"bitbucket.org/artplim/erp_backend/config"
	"bitbucket.org/artplim/erp_backend/models"
	"bitbucket.org/artplim/erp_backend/utils"
	"gorm.io/gorm"
)

func envOr(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	companyName := envOr("SEED_COMPANY_NAME", "ArtPlim")
	adminUsername := envOr("SEED_ADMIN_USERNAME", "admin")
	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		fmt.Fprintln(os.Stderr, "SEED_ADMIN_PASSWORD is required")
		os.Exit(1)
	}

	ctx = utils.SetUserIdInContext(ctx, 0)
	ctx = utils.SetUserNameInContext(ctx, "Seed")
	ctx = utils.SetIsAdminInContext(ctx, true)
	ctx = utils.SetSkipTenantScopeInContext(ctx, true)

	var company models.Company
	err := db.WithContext(ctx).Where("name = ?", companyName).First(&company).Error
	if err == gorm.ErrRecordNotFound {
		created, createErr := models.CreateCompany(ctx, &models.NewCompany{Name: companyName})
		if createErr != nil {
			fmt.Fprintf(os.Stderr, "failed to create company: %v\n", createErr)
			os.Exit(1)
		}
		company = *created
		fmt.Printf("Created company %q (id=%s)\n", company.Name, company.ID)
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "failed to lookup company: %v\n", err)
		os.Exit(1)
	}

	hashed, err := utils.HashPassword(adminPassword)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}
	hashedStr := string(hashed)

	var existing models.User
	err = db.WithContext(ctx).Model(&models.User{}).Where("username = ?", adminUsername).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		user := models.User{
			CompanyId: company.ID,
			Username:  adminUsername,
			Name:      "Administrator",
			Password:  hashedStr,
			IsActive:  utils.NewTrue(),
			RoleId:    0,
		}
		if createErr := db.WithContext(ctx).Create(&user).Error; createErr != nil {
			fmt.Fprintf(os.Stderr, "failed to create admin user: %v\n", createErr)
			os.Exit(1)
		}
		fmt.Printf("Created admin user %q (role_id=0)\n", adminUsername)
		return
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "failed to lookup user: %v\n", err)
		os.Exit(1)
	}

	// existing user: reset password and force admin role
	if err := db.WithContext(ctx).Model(&models.User{}).Where("username = ?", adminUsername).Updates(map[string]any{
		"password":   hashedStr,
		"role_id":    0,
		"is_active":  true,
		"company_id": company.ID,
	}).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to update admin user: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Updated admin user %q (password reset, role_id=0)\n", adminUsername)
}
