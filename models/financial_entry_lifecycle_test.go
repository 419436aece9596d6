package models_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"bitbucket.org/artplim/erp_backend/config"
	"bitbucket.org/artplim/erp_backend/models"
	"bitbucket.org/artplim/erp_backend/utils"
	"github.com/shopspring/decimal"
)

func TestFinancialEntryLifecycle(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx, _ := setupIntegration(t)

	// Create: status is forced PENDING and category defaults, no matter
	// what the caller sends.
	due := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)
	entry, err := models.CreateFinancialEntry(ctx, &models.NewFinancialEntry{
		Type:        models.EntryTypeExpense,
		Amount:      decimal.RequireFromString("150.75"),
		Description: "Vinyl roll restock",
		DueDate:     models.Datetime(due),
	})
	if err != nil {
		t.Fatalf("CreateFinancialEntry: %v", err)
	}
	if entry.Status != models.EntryStatusPending {
		t.Fatalf("expected status PENDING at creation; got %s", entry.Status)
	}
	if entry.Category != models.DefaultEntryCategory {
		t.Fatalf("expected default category %q; got %q", models.DefaultEntryCategory, entry.Category)
	}

	// Patch only status + paidDate; everything else must keep its value.
	paid := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	statusPaid := models.EntryStatusPaid
	updated, err := models.UpdateFinancialEntry(ctx, entry.ID, &models.UpdateFinancialEntryInput{
		Status:   &statusPaid,
		PaidDate: (*models.Datetime)(&paid),
	})
	if err != nil {
		t.Fatalf("UpdateFinancialEntry: %v", err)
	}
	if updated.Status != models.EntryStatusPaid {
		t.Fatalf("expected status PAID; got %s", updated.Status)
	}
	if updated.PaidDate == nil || !updated.PaidDate.Equal(paid) {
		t.Fatalf("expected paid date %s; got %v", paid, updated.PaidDate)
	}
	if updated.Description != "Vinyl roll restock" || !updated.Amount.Equal(entry.Amount) {
		t.Fatalf("untouched fields must survive the patch: %+v", updated)
	}

	// A second patch touching only notes must not disturb status/paidDate.
	notes := "paid in cash"
	updated, err = models.UpdateFinancialEntry(ctx, entry.ID, &models.UpdateFinancialEntryInput{
		Notes: &notes,
	})
	if err != nil {
		t.Fatalf("UpdateFinancialEntry(notes): %v", err)
	}
	if updated.Status != models.EntryStatusPaid || updated.PaidDate == nil {
		t.Fatalf("notes-only patch must keep status/paidDate: %+v", updated)
	}

	fetched, err := models.GetFinancialEntry(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetFinancialEntry: %v", err)
	}
	if fetched == nil || fetched.Notes != notes {
		t.Fatalf("expected stored notes %q; got %+v", notes, fetched)
	}

	// Delete, then delete again: the second call must say not-found.
	if err := models.DeleteFinancialEntry(ctx, entry.ID); err != nil {
		t.Fatalf("DeleteFinancialEntry: %v", err)
	}
	if err := models.DeleteFinancialEntry(ctx, entry.ID); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("expected ErrorRecordNotFound on re-delete; got %v", err)
	}

	// A read after delete is a nil entry, not an error.
	gone, err := models.GetFinancialEntry(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetFinancialEntry(after delete): %v", err)
	}
	if gone != nil {
		t.Fatalf("expected nil entry after delete; got %+v", gone)
	}

	// Audit trail: create, two updates, delete.
	_, total, err := models.PaginateHistories(ctx, "financial_entries", entry.ID, 1, 20)
	if err != nil {
		t.Fatalf("PaginateHistories: %v", err)
	}
	if total != 4 {
		t.Fatalf("expected 4 history rows (create, 2 updates, delete); got %d", total)
	}
}

func TestFinancialEntryTenantIsolation(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctxA, _ := setupIntegration(t)

	companyB, err := models.CreateCompany(ctxA, &models.NewCompany{Name: "Other Shop"})
	if err != nil {
		t.Fatalf("CreateCompany(B): %v", err)
	}
	ctxB := utils.SetCompanyIdInContext(context.Background(), companyB.ID)
	ctxB = utils.SetUserIdInContext(ctxB, 1)
	ctxB = utils.SetUserNameInContext(ctxB, "Test")

	entry, err := models.CreateFinancialEntry(ctxA, &models.NewFinancialEntry{
		Type:        models.EntryTypeIncome,
		Amount:      decimal.NewFromInt(500),
		Description: "Banner job",
		DueDate:     models.Datetime(time.Now().UTC()),
	})
	if err != nil {
		t.Fatalf("CreateFinancialEntry: %v", err)
	}

	// Company B must not see, update or delete company A's entry. A foreign
	// row is indistinguishable from a missing one.
	got, err := models.GetFinancialEntry(ctxB, entry.ID)
	if err != nil {
		t.Fatalf("GetFinancialEntry(cross-tenant): %v", err)
	}
	if got != nil {
		t.Fatalf("cross-tenant read must return nil; got %+v", got)
	}

	desc := "hijacked"
	if _, err := models.UpdateFinancialEntry(ctxB, entry.ID, &models.UpdateFinancialEntryInput{
		Description: &desc,
	}); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("cross-tenant update must be not-found; got %v", err)
	}
	if err := models.DeleteFinancialEntry(ctxB, entry.ID); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("cross-tenant delete must be not-found; got %v", err)
	}

	pageB, err := models.PaginateFinancialEntries(ctxB, nil)
	if err != nil {
		t.Fatalf("PaginateFinancialEntries(B): %v", err)
	}
	if pageB.Total != 0 {
		t.Fatalf("company B must list no entries; got total=%d", pageB.Total)
	}

	// The entry is still intact under company A.
	still, err := models.GetFinancialEntry(ctxA, entry.ID)
	if err != nil || still == nil {
		t.Fatalf("entry must survive cross-tenant attempts: entry=%v err=%v", still, err)
	}
	if still.Description != "Banner job" {
		t.Fatalf("entry description must be untouched; got %q", still.Description)
	}
}

func TestFinancialEntryQueryContract(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx, _ := setupIntegration(t)

	seed := []struct {
		amount string
		due    time.Time
		desc   string
	}{
		{"0", time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), "zero amount"},
		{"50", time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC), "Banner 2x1m"},
		{"120", time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC), "business CARDS rush"},
		{"300", time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), "vinyl cut"},
		{"990", time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC), "storefront wrap"},
	}
	for _, s := range seed {
		amount := decimal.RequireFromString(s.amount)
		if amount.IsZero() {
			// Zero amounts are rejected at create; write one directly so the
			// minAmount=0 bound has something to include.
			entry := models.FinancialEntry{
				CompanyId:   mustCompanyId(t, ctx),
				Type:        models.EntryTypeExpense,
				Status:      models.EntryStatusPending,
				Category:    models.DefaultEntryCategory,
				Amount:      amount,
				Description: s.desc,
				DueDate:     s.due,
				UserId:      1,
			}
			if err := config.GetDB().WithContext(ctx).Create(&entry).Error; err != nil {
				t.Fatalf("seed zero-amount entry: %v", err)
			}
			continue
		}
		if _, err := models.CreateFinancialEntry(ctx, &models.NewFinancialEntry{
			Type:        models.EntryTypeExpense,
			Amount:      amount,
			Description: s.desc,
			DueDate:     models.Datetime(s.due),
		}); err != nil {
			t.Fatalf("seed entry %q: %v", s.desc, err)
		}
	}

	// minAmount=0 is a real lower bound: every entry qualifies, including
	// the zero-amount one.
	page, err := models.PaginateFinancialEntries(ctx, &models.FinancialEntryFilters{MinAmount: "0"})
	if err != nil {
		t.Fatalf("PaginateFinancialEntries(minAmount=0): %v", err)
	}
	if page.Total != int64(len(seed)) {
		t.Fatalf("minAmount=0 must include all %d entries; got %d", len(seed), page.Total)
	}

	// Equal start/end on a date-only value spans the whole day.
	page, err = models.PaginateFinancialEntries(ctx, &models.FinancialEntryFilters{
		StartDate: "2026-03-10",
		EndDate:   "2026-03-10",
	})
	if err != nil {
		t.Fatalf("PaginateFinancialEntries(single day): %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("single-day range must cover both 2026-03-10 entries; got %d", page.Total)
	}

	// Free-text search is case-insensitive.
	page, err = models.PaginateFinancialEntries(ctx, &models.FinancialEntryFilters{Search: "cards"})
	if err != nil {
		t.Fatalf("PaginateFinancialEntries(search): %v", err)
	}
	if page.Total != 1 || page.Entries[0].Description != "business CARDS rush" {
		t.Fatalf("case-insensitive search failed: total=%d", page.Total)
	}

	// Walking pages with a small limit must concatenate without duplicates
	// or gaps; the id tie-break keeps the order stable.
	seen := map[int]bool{}
	var count int
	for p := 1; ; p++ {
		page, err := models.PaginateFinancialEntries(ctx, &models.FinancialEntryFilters{
			SortBy:    "amount",
			SortOrder: "asc",
			Page:      p,
			Limit:     2,
		})
		if err != nil {
			t.Fatalf("PaginateFinancialEntries(page %d): %v", p, err)
		}
		for _, e := range page.Entries {
			if seen[e.ID] {
				t.Fatalf("entry %d appeared on more than one page", e.ID)
			}
			seen[e.ID] = true
			count++
		}
		if len(page.Entries) < 2 {
			break
		}
	}
	if count != len(seed) {
		t.Fatalf("page walk must visit all %d entries exactly once; got %d", len(seed), count)
	}
}

func mustCompanyId(t *testing.T, ctx context.Context) string {
	t.Helper()
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		t.Fatal("company id missing from context")
	}
	return companyId
}

// setupIntegration starts throwaway redis + mysql containers, connects the
// global handles, migrates the schema and returns a context scoped to a
// fresh company.
func setupIntegration(t *testing.T) (context.Context, *models.Company) {
	t.Helper()

	ctx := context.Background()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	// Wire env for config.Connect* helpers.
	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "artplim_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	if err := config.ClearRedis(ctx); err != nil {
		t.Fatalf("flush redis: %v", err)
	}
	models.MigrateTable()

	// History rows require the acting user in context.
	ctx = utils.SetUserIdInContext(ctx, 1)
	ctx = utils.SetUserNameInContext(ctx, "Test")

	company, err := models.CreateCompany(ctx, &models.NewCompany{Name: "Test Shop"})
	if err != nil {
		t.Fatalf("CreateCompany: %v", err)
	}
	ctx = utils.SetCompanyIdInContext(ctx, company.ID)
	return ctx, company
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("erp-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("erp-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=artplim_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
