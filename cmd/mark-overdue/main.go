// mark-overdue sweeps PENDING financial entries whose due date has passed and
// flips them to OVERDUE, and expires SENT quotes past their validity date.
// Run it from cron; the server itself starts no background workers.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/mark-overdue
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"bitbucket.org/artplim/erp_backend/config"
	"bitbucket.org/artplim/erp_backend/models"
	"bitbucket.org/artplim/erp_backend/utils"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	// sweep runs across all tenants
	ctx = utils.SetUserIdInContext(ctx, 0)
	ctx = utils.SetUserNameInContext(ctx, "System")
	ctx = utils.SetSkipTenantScopeInContext(ctx, true)

	now := time.Now().UTC()

	entries := db.WithContext(ctx).Model(&models.FinancialEntry{}).
		Where("status = ? AND due_date < ?", models.EntryStatusPending, now).
		Update("status", models.EntryStatusOverdue)
	if entries.Error != nil {
		fmt.Fprintf(os.Stderr, "failed to mark overdue entries: %v\n", entries.Error)
		os.Exit(1)
	}

	quotes := db.WithContext(ctx).Model(&models.Quote{}).
		Where("status = ? AND valid_until IS NOT NULL AND valid_until < ?", models.QuoteStatusSent, now).
		Update("status", models.QuoteStatusExpired)
	if quotes.Error != nil {
		fmt.Fprintf(os.Stderr, "failed to expire quotes: %v\n", quotes.Error)
		os.Exit(1)
	}

	fmt.Printf("Marked %d entries OVERDUE, expired %d quotes\n", entries.RowsAffected, quotes.RowsAffected)
}
