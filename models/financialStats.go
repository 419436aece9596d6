package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/artplim/erp_backend/config"
	"bitbucket.org/artplim/erp_backend/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type FinancialSummary struct {
	TotalIncome    decimal.Decimal `json:"total_income"`
	TotalExpense   decimal.Decimal `json:"total_expense"`
	Balance        decimal.Decimal `json:"balance"`
	PendingIncome  decimal.Decimal `json:"pending_income"`
	PendingExpense decimal.Decimal `json:"pending_expense"`
	OverdueCount   int64           `json:"overdue_count"`
}

type MonthlyIncomeExpense struct {
	Month         string          `json:"month"`
	IncomeAmount  decimal.Decimal `json:"income_amount"`
	ExpenseAmount decimal.Decimal `json:"expense_amount"`
}

type ExpenseByCategory struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// GetFinancialSummary aggregates the company's ledger: paid totals per type,
// pending totals per type and the overdue backlog. The three aggregations run
// concurrently; each builds its own query.
func GetFinancialSummary(ctx context.Context) (*FinancialSummary, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}

	db := config.GetDB()
	var summary FinancialSummary

	type typeTotal struct {
		Type   EntryType       `json:"type"`
		Amount decimal.Decimal `json:"amount"`
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var totals []typeTotal
		err := db.WithContext(gCtx).Model(&FinancialEntry{}).
			Select("type, COALESCE(SUM(amount), 0) AS amount").
			Where("company_id = ? AND status = ?", companyId, EntryStatusPaid).
			Group("type").
			Scan(&totals).Error
		if err != nil {
			return err
		}
		for _, t := range totals {
			switch t.Type {
			case EntryTypeIncome:
				summary.TotalIncome = t.Amount
			case EntryTypeExpense:
				summary.TotalExpense = t.Amount
			}
		}
		return nil
	})

	g.Go(func() error {
		var totals []typeTotal
		err := db.WithContext(gCtx).Model(&FinancialEntry{}).
			Select("type, COALESCE(SUM(amount), 0) AS amount").
			Where("company_id = ? AND status = ?", companyId, EntryStatusPending).
			Group("type").
			Scan(&totals).Error
		if err != nil {
			return err
		}
		for _, t := range totals {
			switch t.Type {
			case EntryTypeIncome:
				summary.PendingIncome = t.Amount
			case EntryTypeExpense:
				summary.PendingExpense = t.Amount
			}
		}
		return nil
	})

	g.Go(func() error {
		return db.WithContext(gCtx).Model(&FinancialEntry{}).
			Where("company_id = ? AND status = ?", companyId, EntryStatusOverdue).
			Count(&summary.OverdueCount).Error
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch financial summary: %w", err)
	}

	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)
	return &summary, nil
}

// GetMonthlyIncomeExpense returns the paid income/expense series for the last
// months, oldest first. Months without entries are filled with zeros.
func GetMonthlyIncomeExpense(ctx context.Context, months int) ([]*MonthlyIncomeExpense, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	if months < 1 || months > 24 {
		months = 6
	}

	// normalize to whole months so the fill loop and the query agree; the
	// window ends with the current month
	startDate, endDate := utils.GetLastMonthsRange(months - 1)
	startDate = time.Date(startDate.Year(), startDate.Month(), 1, 0, 0, 0, 0, startDate.Location())

	sql := `
SELECT
    DATE_FORMAT(due_date, '%Y-%m') AS month,
    COALESCE(SUM(CASE WHEN type = 'INCOME' THEN amount ELSE 0 END), 0) AS income_amount,
    COALESCE(SUM(CASE WHEN type = 'EXPENSE' THEN amount ELSE 0 END), 0) AS expense_amount
FROM
    financial_entries
WHERE
    company_id = ?
    AND status = 'PAID'
    AND due_date BETWEEN ? AND ?
GROUP BY
    DATE_FORMAT(due_date, '%Y-%m')
ORDER BY
    month ASC;
`

	db := config.GetDB()
	var rows []*MonthlyIncomeExpense
	if err := db.WithContext(ctx).Raw(sql, companyId, startDate, endDate).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch monthly series: %w", err)
	}

	byMonth := make(map[string]*MonthlyIncomeExpense, len(rows))
	for _, row := range rows {
		byMonth[row.Month] = row
	}

	results := make([]*MonthlyIncomeExpense, 0, months)
	cursor := startDate
	for i := 0; i < months; i++ {
		month := cursor.Format("2006-01")
		if row, ok := byMonth[month]; ok {
			results = append(results, row)
		} else {
			results = append(results, &MonthlyIncomeExpense{Month: month})
		}
		cursor = cursor.AddDate(0, 1, 0)
	}
	return results, nil
}

// GetTopExpensesByCategory lists this month's biggest expense categories.
func GetTopExpensesByCategory(ctx context.Context, limit int) ([]*ExpenseByCategory, error) {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	if limit < 1 || limit > 50 {
		limit = 5
	}

	startDate, endDate := utils.GetThisMonthRange()

	sql := `
SELECT
    category,
    COALESCE(SUM(amount), 0) AS amount
FROM
    financial_entries
WHERE
    company_id = ?
    AND type = 'EXPENSE'
    AND status IN ('PAID', 'PENDING', 'OVERDUE')
    AND due_date BETWEEN ? AND ?
GROUP BY
    category
ORDER BY
    amount DESC
LIMIT ?;
`

	db := config.GetDB()
	var results []*ExpenseByCategory
	if err := db.WithContext(ctx).Raw(sql, companyId, startDate, endDate, limit).Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch expenses by category: %w", err)
	}
	return results, nil
}
