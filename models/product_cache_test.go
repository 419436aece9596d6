package models_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"bitbucket.org/artplim/erp_backend/models"
	"bitbucket.org/artplim/erp_backend/utils"
	"github.com/shopspring/decimal"
)

func TestGetProductCachesPerItem(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx, _ := setupIntegration(t)

	created, err := models.CreateProduct(ctx, &models.NewProduct{
		Name:       "A3 flyer",
		Sku:        "FLY-A3",
		SalesPrice: decimal.RequireFromString("1.20"),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if created.TrackStock == nil || *created.TrackStock {
		t.Fatalf("omitted track_stock must default to false; got %v", created.TrackStock)
	}

	// First read warms the cache, second read serves from it. Both must
	// agree with the stored row.
	for i := 0; i < 2; i++ {
		got, err := models.GetProduct(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetProduct(read %d): %v", i+1, err)
		}
		if got.Name != "A3 flyer" || got.Sku != "FLY-A3" {
			t.Fatalf("read %d returned wrong product: %+v", i+1, got)
		}
	}

	// An update invalidates the cached item.
	if _, err := models.UpdateProduct(ctx, created.ID, &models.NewProduct{
		Name:       "A3 flyer glossy",
		Sku:        "FLY-A3",
		SalesPrice: decimal.RequireFromString("1.50"),
	}); err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	got, err := models.GetProduct(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetProduct(after update): %v", err)
	}
	if got.Name != "A3 flyer glossy" {
		t.Fatalf("stale cache after update: %+v", got)
	}
}

func TestProductCacheStaysTenantScoped(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctxA, _ := setupIntegration(t)

	product, err := models.CreateProduct(ctxA, &models.NewProduct{Name: "Roll-up banner"})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	// Warm the per-item cache under company A.
	if _, err := models.GetProduct(ctxA, product.ID); err != nil {
		t.Fatalf("GetProduct(A): %v", err)
	}

	companyB, err := models.CreateCompany(ctxA, &models.NewCompany{Name: "Other Shop"})
	if err != nil {
		t.Fatalf("CreateCompany(B): %v", err)
	}
	ctxB := utils.SetCompanyIdInContext(context.Background(), companyB.ID)
	ctxB = utils.SetUserIdInContext(ctxB, 1)
	ctxB = utils.SetUserNameInContext(ctxB, "Test")

	// The warm cache entry belongs to company A; company B must still get
	// not-found.
	if _, err := models.GetProduct(ctxB, product.ID); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("cross-tenant read must be not-found even with a warm cache; got %v", err)
	}
}
