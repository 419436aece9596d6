package models

import (
	"context"
	"errors"
	"fmt"
	"io"

	"bitbucket.org/artplim/erp_backend/utils"
	"github.com/xuri/excelize/v2"
)

// ExportFinancialEntriesXlsx writes the filtered entry list as an XLSX sheet.
// The same filter contract as PaginateFinancialEntries applies, but the export
// walks every page so the file holds the full result set.
func ExportFinancialEntriesXlsx(ctx context.Context, filters *FinancialEntryFilters, w io.Writer) error {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return errors.New("company id is required")
	}

	f := excelize.NewFile()
	sheetName := "Entries"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headings := []string{"Id", "Type", "Status", "Category", "Amount", "Description", "DueDate", "PaidDate", "Notes", "Reference"}
	col := 'A'
	for _, h := range headings {
		f.SetCellValue(sheetName, string(col)+"1", h)
		col++
	}

	if filters == nil {
		filters = &FinancialEntryFilters{}
	}
	export := *filters
	export.Page = 1
	export.Limit = EntryMaxLimit

	rowNo := 2
	for {
		page, err := PaginateFinancialEntries(ctx, &export)
		if err != nil {
			return err
		}
		for _, entry := range page.Entries {
			paidDate := ""
			if entry.PaidDate != nil {
				paidDate = entry.PaidDate.Format("2006-01-02")
			}
			f.SetCellValue(sheetName, "A"+fmt.Sprint(rowNo), entry.ID)
			f.SetCellValue(sheetName, "B"+fmt.Sprint(rowNo), string(entry.Type))
			f.SetCellValue(sheetName, "C"+fmt.Sprint(rowNo), string(entry.Status))
			f.SetCellValue(sheetName, "D"+fmt.Sprint(rowNo), entry.CategoryName)
			f.SetCellValue(sheetName, "E"+fmt.Sprint(rowNo), entry.Amount.String())
			f.SetCellValue(sheetName, "F"+fmt.Sprint(rowNo), entry.Description)
			f.SetCellValue(sheetName, "G"+fmt.Sprint(rowNo), entry.DueDate.Format("2006-01-02"))
			f.SetCellValue(sheetName, "H"+fmt.Sprint(rowNo), paidDate)
			f.SetCellValue(sheetName, "I"+fmt.Sprint(rowNo), entry.Notes)
			f.SetCellValue(sheetName, "J"+fmt.Sprint(rowNo), entry.Reference)
			rowNo++
		}
		if len(page.Entries) < export.Limit {
			break
		}
		export.Page++
	}

	return f.Write(w)
}

// ExportProductsXlsx writes the filtered catalog as an XLSX sheet.
func ExportProductsXlsx(ctx context.Context, filters *ProductFilters, w io.Writer) error {

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return errors.New("company id is required")
	}

	f := excelize.NewFile()
	sheetName := "Products"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headings := []string{"Id", "Name", "Sku", "Unit", "SalesPrice", "CostPrice", "StockLevel", "MinStock", "Active"}
	col := 'A'
	for _, h := range headings {
		f.SetCellValue(sheetName, string(col)+"1", h)
		col++
	}

	if filters == nil {
		filters = &ProductFilters{}
	}
	export := *filters
	export.Page = 1
	export.Limit = EntryMaxLimit

	rowNo := 2
	for {
		page, err := PaginateProducts(ctx, &export)
		if err != nil {
			return err
		}
		for _, product := range page.Products {
			active := utils.DereferencePtr(product.IsActive)
			f.SetCellValue(sheetName, "A"+fmt.Sprint(rowNo), product.ID)
			f.SetCellValue(sheetName, "B"+fmt.Sprint(rowNo), product.Name)
			f.SetCellValue(sheetName, "C"+fmt.Sprint(rowNo), product.Sku)
			f.SetCellValue(sheetName, "D"+fmt.Sprint(rowNo), product.Unit)
			f.SetCellValue(sheetName, "E"+fmt.Sprint(rowNo), product.SalesPrice.String())
			f.SetCellValue(sheetName, "F"+fmt.Sprint(rowNo), product.CostPrice.String())
			f.SetCellValue(sheetName, "G"+fmt.Sprint(rowNo), product.StockLevel.String())
			f.SetCellValue(sheetName, "H"+fmt.Sprint(rowNo), product.MinStock.String())
			f.SetCellValue(sheetName, "I"+fmt.Sprint(rowNo), active)
			rowNo++
		}
		if len(page.Products) < export.Limit {
			break
		}
		export.Page++
	}

	return f.Write(w)
}
