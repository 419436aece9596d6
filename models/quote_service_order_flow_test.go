package models_test

import (
	"os"
	"strings"
	"testing"
	"time"

	"bitbucket.org/artplim/erp_backend/models"
	"github.com/shopspring/decimal"
)

func TestQuoteToDeliveredServiceOrderCreatesIncomeEntry(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx, _ := setupIntegration(t)

	customer, err := models.CreateCustomer(ctx, &models.NewCustomer{Name: "Padaria Central"})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}

	quote, err := models.CreateQuote(ctx, &models.NewQuote{
		CustomerId: customer.ID,
		QuoteDate:  time.Now().UTC(),
		Discount:   decimal.NewFromInt(50),
		Items: []models.NewQuoteItem{
			{Name: "Banner 2x1m", Qty: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(100)},
			{Name: "Business cards", Qty: decimal.NewFromInt(2), UnitPrice: decimal.RequireFromString("45.50")},
		},
	})
	if err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}
	if quote.Status != models.QuoteStatusDraft {
		t.Fatalf("new quote must be DRAFT; got %s", quote.Status)
	}
	if quote.QuoteNumber != "ORC-1" {
		t.Fatalf("first quote must be ORC-1; got %s", quote.QuoteNumber)
	}
	if !quote.TotalAmount.Equal(decimal.RequireFromString("341")) {
		t.Fatalf("server-side total must be 341; got %s", quote.TotalAmount)
	}

	// A draft cannot be converted; it has to be sent and approved first.
	if _, err := models.ConvertQuoteToServiceOrder(ctx, quote.ID); err == nil {
		t.Fatal("converting a DRAFT quote must fail")
	}
	if _, err := models.ChangeQuoteStatus(ctx, quote.ID, models.QuoteStatusApproved); err == nil {
		t.Fatal("DRAFT -> APPROVED must be rejected")
	}
	if _, err := models.ChangeQuoteStatus(ctx, quote.ID, models.QuoteStatusSent); err != nil {
		t.Fatalf("ChangeQuoteStatus(SENT): %v", err)
	}
	if _, err := models.ChangeQuoteStatus(ctx, quote.ID, models.QuoteStatusApproved); err != nil {
		t.Fatalf("ChangeQuoteStatus(APPROVED): %v", err)
	}

	order, err := models.ConvertQuoteToServiceOrder(ctx, quote.ID)
	if err != nil {
		t.Fatalf("ConvertQuoteToServiceOrder: %v", err)
	}
	if order.OrderNumber != "OS-1" {
		t.Fatalf("first service order must be OS-1; got %s", order.OrderNumber)
	}
	if order.Status != models.ServiceOrderStatusOpen || len(order.Items) != 2 {
		t.Fatalf("converted order must be OPEN with the quote's items: %+v", order)
	}
	if !order.TotalAmount.Equal(quote.TotalAmount) {
		t.Fatalf("order total must match quote total; got %s", order.TotalAmount)
	}

	// The quote now back-links the order and cannot convert twice.
	converted, err := models.GetQuote(ctx, quote.ID)
	if err != nil || converted == nil {
		t.Fatalf("GetQuote: quote=%v err=%v", converted, err)
	}
	if converted.ServiceOrderId != order.ID {
		t.Fatalf("quote must back-link the order; got %d", converted.ServiceOrderId)
	}
	if _, err := models.ConvertQuoteToServiceOrder(ctx, quote.ID); err == nil {
		t.Fatal("second conversion must fail")
	}
	if err := models.DeleteQuote(ctx, quote.ID); err == nil {
		t.Fatal("deleting a converted quote must fail")
	}

	// Walk the order to DELIVERED; skipping states is rejected.
	if _, err := models.ChangeServiceOrderStatus(ctx, order.ID, models.ServiceOrderStatusDelivered); err == nil {
		t.Fatal("OPEN -> DELIVERED must be rejected")
	}
	if _, err := models.ChangeServiceOrderStatus(ctx, order.ID, models.ServiceOrderStatusInProgress); err != nil {
		t.Fatalf("ChangeServiceOrderStatus(IN_PROGRESS): %v", err)
	}
	if _, err := models.ChangeServiceOrderStatus(ctx, order.ID, models.ServiceOrderStatusDone); err != nil {
		t.Fatalf("ChangeServiceOrderStatus(DONE): %v", err)
	}
	delivered, err := models.ChangeServiceOrderStatus(ctx, order.ID, models.ServiceOrderStatusDelivered)
	if err != nil {
		t.Fatalf("ChangeServiceOrderStatus(DELIVERED): %v", err)
	}
	if delivered.DeliveredAt == nil {
		t.Fatal("delivery must stamp DeliveredAt")
	}

	// Delivery writes the matching PENDING income entry into the ledger.
	page, err := models.PaginateFinancialEntries(ctx, &models.FinancialEntryFilters{
		Search: order.OrderNumber,
	})
	if err != nil {
		t.Fatalf("PaginateFinancialEntries: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected exactly one ledger entry for %s; got %d", order.OrderNumber, page.Total)
	}
	entry := page.Entries[0]
	if entry.Type != models.EntryTypeIncome || entry.Status != models.EntryStatusPending {
		t.Fatalf("delivery entry must be PENDING income; got %s/%s", entry.Type, entry.Status)
	}
	if !entry.Amount.Equal(order.TotalAmount) {
		t.Fatalf("delivery entry amount must match order total; got %s", entry.Amount)
	}
	if entry.Reference != order.OrderNumber {
		t.Fatalf("delivery entry must reference the order; got %q", entry.Reference)
	}

	// Delivered orders are frozen.
	if _, err := models.ChangeServiceOrderStatus(ctx, order.ID, models.ServiceOrderStatusCancelled); err == nil {
		t.Fatal("DELIVERED -> CANCELLED must be rejected")
	}
	if err := models.DeleteServiceOrder(ctx, order.ID); err == nil {
		t.Fatal("deleting a delivered order must fail")
	}
}

func TestStockMovementsMaintainLevel(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx, _ := setupIntegration(t)

	track := true
	product, err := models.CreateProduct(ctx, &models.NewProduct{
		Name:       "Vinyl roll",
		Sku:        "VIN-001",
		TrackStock: &track,
		MinStock:   decimal.NewFromInt(5),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	in, err := models.CreateStockMovement(ctx, &models.NewStockMovement{
		ProductId: product.ID,
		Type:      models.StockMovementTypeIn,
		Qty:       decimal.NewFromInt(10),
		Reference: "PO-77",
	})
	if err != nil {
		t.Fatalf("CreateStockMovement(IN): %v", err)
	}
	if !in.LevelAfter.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("IN 10 must leave level 10; got %s", in.LevelAfter)
	}

	out, err := models.CreateStockMovement(ctx, &models.NewStockMovement{
		ProductId: product.ID,
		Type:      models.StockMovementTypeOut,
		Qty:       decimal.NewFromInt(4),
	})
	if err != nil {
		t.Fatalf("CreateStockMovement(OUT): %v", err)
	}
	if !out.LevelAfter.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("OUT 4 must leave level 6; got %s", out.LevelAfter)
	}

	// The level never goes negative.
	if _, err := models.CreateStockMovement(ctx, &models.NewStockMovement{
		ProductId: product.ID,
		Type:      models.StockMovementTypeOut,
		Qty:       decimal.NewFromInt(100),
	}); err == nil || !strings.Contains(err.Error(), "insufficient stock") {
		t.Fatalf("expected insufficient stock error; got %v", err)
	}

	adj, err := models.CreateStockMovement(ctx, &models.NewStockMovement{
		ProductId: product.ID,
		Type:      models.StockMovementTypeAdjustment,
		Qty:       decimal.NewFromInt(3),
		Reason:    "physical count",
	})
	if err != nil {
		t.Fatalf("CreateStockMovement(ADJUSTMENT): %v", err)
	}
	if !adj.LevelAfter.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("ADJUSTMENT must set the level to 3; got %s", adj.LevelAfter)
	}

	stored, err := models.GetProduct(ctx, product.ID)
	if err != nil || stored == nil {
		t.Fatalf("GetProduct: product=%v err=%v", stored, err)
	}
	if !stored.StockLevel.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("product stock level must track the ledger; got %s", stored.StockLevel)
	}

	// Level 3 is under the minimum of 5, so the product shows up as low.
	low, err := models.GetLowStockProducts(ctx)
	if err != nil {
		t.Fatalf("GetLowStockProducts: %v", err)
	}
	var found bool
	for _, p := range low {
		if p.ProductId == product.ID {
			found = true
			if !p.StockLevel.Equal(decimal.NewFromInt(3)) || !p.MinStock.Equal(decimal.NewFromInt(5)) {
				t.Fatalf("low stock row mismatch: %+v", p)
			}
		}
	}
	if !found {
		t.Fatal("product under its minimum must be listed as low stock")
	}

	// Every mutation left a ledger row.
	movements, err := models.PaginateStockMovements(ctx, &models.StockMovementFilters{ProductId: product.ID})
	if err != nil {
		t.Fatalf("PaginateStockMovements: %v", err)
	}
	if movements.Total != 3 {
		t.Fatalf("expected 3 movements (IN, OUT, ADJUSTMENT); got %d", movements.Total)
	}
}
