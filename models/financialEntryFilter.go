package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bitbucket.org/artplim/erp_backend/config"
	"bitbucket.org/artplim/erp_backend/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	EntryDefaultPage  = 1
	EntryDefaultLimit = 20
	EntryMaxLimit     = 100
)

// FinancialEntryFilters is the list-query DTO bound from the request.
// Optional fields arrive as strings so that "minAmount=0" is a real bound
// and an absent parameter stays absent (an empty string, not a zero).
type FinancialEntryFilters struct {
	Type      string `form:"type" json:"type"`
	Status    string `form:"status" json:"status"`
	StartDate string `form:"startDate" json:"startDate"`
	EndDate   string `form:"endDate" json:"endDate"`
	MinAmount string `form:"minAmount" json:"minAmount"`
	MaxAmount string `form:"maxAmount" json:"maxAmount"`
	Search    string `form:"search" json:"search"`
	Page      int    `form:"page" json:"page"`
	Limit     int    `form:"limit" json:"limit"`
	SortBy    string `form:"sortBy" json:"sortBy"`
	SortOrder string `form:"sortOrder" json:"sortOrder"`
}

// entryQuery is the normalized predicate the repository executes.
type entryQuery struct {
	entryType *EntryType
	status    *EntryStatus
	startDate *time.Time
	endDate   *time.Time
	minAmount *decimal.Decimal
	maxAmount *decimal.Decimal
	search    string
	page      int
	limit     int
	sortCol   string
	sortDesc  bool
}

// sortable columns; anything else falls back to the default.
var entrySortColumns = map[string]string{
	"dueDate":   "due_date",
	"amount":    "amount",
	"createdAt": "created_at",
	"status":    "status",
	"paidDate":  "paid_date",
}

func (f *FinancialEntryFilters) normalize() (*entryQuery, error) {
	q := entryQuery{
		page:     EntryDefaultPage,
		limit:    EntryDefaultLimit,
		sortCol:  "due_date",
		sortDesc: true,
	}

	if f.Type != "" {
		t := EntryType(f.Type)
		if t != EntryTypeIncome && t != EntryTypeExpense {
			return nil, errors.New("invalid entry type")
		}
		q.entryType = &t
	}
	if f.Status != "" {
		s := EntryStatus(f.Status)
		switch s {
		case EntryStatusPending, EntryStatusPaid, EntryStatusOverdue, EntryStatusCancelled:
			q.status = &s
		default:
			return nil, errors.New("invalid entry status")
		}
	}
	if f.StartDate != "" {
		t, err := utils.ParseDate(f.StartDate)
		if err != nil {
			return nil, err
		}
		q.startDate = &t
	}
	if f.EndDate != "" {
		t, err := utils.ParseDate(f.EndDate)
		if err != nil {
			return nil, err
		}
		// A date-only upper bound is inclusive of its whole day; a
		// startDate equal to endDate yields a single-day range.
		if len(strings.TrimSpace(f.EndDate)) == len("2006-01-02") {
			t = utils.EndOfDay(t)
		}
		q.endDate = &t
	}
	if f.MinAmount != "" {
		d, err := utils.ParseAmount(f.MinAmount)
		if err != nil {
			return nil, fmt.Errorf("invalid minAmount: %w", err)
		}
		q.minAmount = &d
	}
	if f.MaxAmount != "" {
		d, err := utils.ParseAmount(f.MaxAmount)
		if err != nil {
			return nil, fmt.Errorf("invalid maxAmount: %w", err)
		}
		q.maxAmount = &d
	}
	q.search = strings.TrimSpace(f.Search)

	if f.Page >= 1 {
		q.page = f.Page
	}
	if f.Limit >= 1 {
		q.limit = f.Limit
		if q.limit > EntryMaxLimit {
			q.limit = EntryMaxLimit
		}
	}
	if f.SortBy != "" {
		col, ok := entrySortColumns[f.SortBy]
		if !ok {
			return nil, errors.New("invalid sortBy")
		}
		q.sortCol = col
	}
	switch f.SortOrder {
	case "", string(SortOrderDesc):
		q.sortDesc = true
	case string(SortOrderAsc):
		q.sortDesc = false
	default:
		return nil, errors.New("invalid sortOrder")
	}

	return &q, nil
}

// apply chains the predicate onto a query scoped by company_id. Every kind
// of filter combines with AND; the free-text search is one OR group over
// description and notes inside that conjunction.
func (q *entryQuery) apply(dbCtx *gorm.DB) *gorm.DB {
	if q.entryType != nil {
		dbCtx = dbCtx.Where("type = ?", *q.entryType)
	}
	if q.status != nil {
		dbCtx = dbCtx.Where("status = ?", *q.status)
	}
	if q.startDate != nil {
		dbCtx = dbCtx.Where("due_date >= ?", *q.startDate)
	}
	if q.endDate != nil {
		dbCtx = dbCtx.Where("due_date <= ?", *q.endDate)
	}
	if q.minAmount != nil {
		dbCtx = dbCtx.Where("amount >= ?", *q.minAmount)
	}
	if q.maxAmount != nil {
		dbCtx = dbCtx.Where("amount <= ?", *q.maxAmount)
	}
	if q.search != "" {
		pattern := "%" + strings.ToLower(q.search) + "%"
		dbCtx = dbCtx.Where("(LOWER(description) LIKE ? OR LOWER(notes) LIKE ?)", pattern, pattern)
	}
	return dbCtx
}

func (q *entryQuery) order() string {
	dir := "ASC"
	if q.sortDesc {
		dir = "DESC"
	}
	// id tie-break keeps page concatenation free of duplicates.
	return fmt.Sprintf("%s %s, id %s", q.sortCol, dir, dir)
}

func (q *entryQuery) offset() int {
	return (q.page - 1) * q.limit
}

// FinancialEntriesPage is one page of mapped entries plus the full match
// count ignoring pagination.
type FinancialEntriesPage struct {
	Entries []*FinancialEntryResponse `json:"entries"`
	Total   int64                     `json:"total"`
	Page    int                       `json:"page"`
	Limit   int                       `json:"limit"`
}

// PaginateFinancialEntries runs the filtered list query for the company in
// the context. The page fetch and the count run concurrently over the same
// predicate without a shared snapshot, so Total is advisory under
// concurrent writes.
func PaginateFinancialEntries(ctx context.Context, filters *FinancialEntryFilters) (*FinancialEntriesPage, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}

	if filters == nil {
		filters = &FinancialEntryFilters{}
	}
	q, err := filters.normalize()
	if err != nil {
		return nil, err
	}

	db := config.GetDB()

	var entries []*FinancialEntry
	var total int64

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		dbCtx := q.apply(db.WithContext(gCtx).Model(&FinancialEntry{}).Where("company_id = ?", companyId))
		return dbCtx.Order(q.order()).Offset(q.offset()).Limit(q.limit).Find(&entries).Error
	})
	g.Go(func() error {
		dbCtx := q.apply(db.WithContext(gCtx).Model(&FinancialEntry{}).Where("company_id = ?", companyId))
		return dbCtx.Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch entries: %w", err)
	}

	page := FinancialEntriesPage{
		Entries: make([]*FinancialEntryResponse, 0, len(entries)),
		Total:   total,
		Page:    q.page,
		Limit:   q.limit,
	}
	for _, entry := range entries {
		page.Entries = append(page.Entries, entry.ToResponse())
	}
	return &page, nil
}
