package handlers

import (
	"net/http"
	"time"

	"bitbucket.org/artplim/erp_backend/models"
	"github.com/gin-gonic/gin"
)

func CreateFinancialEntry(c *gin.Context) {
	var input models.NewFinancialEntry
	if !bindJSON(c, &input) {
		return
	}

	entry, err := models.CreateFinancialEntry(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "financialEntry", "CreateFinancialEntry", err)
		return
	}
	c.JSON(http.StatusCreated, entry.ToResponse())
}

func GetFinancialEntry(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}

	entry, err := models.GetFinancialEntry(c.Request.Context(), id)
	if err != nil {
		respondError(c, "financialEntry", "GetFinancialEntry", err)
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	c.JSON(http.StatusOK, entry.ToResponse())
}

func ListFinancialEntries(c *gin.Context) {
	var filters models.FinancialEntryFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	page, err := models.PaginateFinancialEntries(c.Request.Context(), &filters)
	if err != nil {
		respondError(c, "financialEntry", "ListFinancialEntries", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func UpdateFinancialEntry(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var patch models.UpdateFinancialEntryInput
	if !bindJSON(c, &patch) {
		return
	}

	entry, err := models.UpdateFinancialEntry(c.Request.Context(), id, &patch)
	if err != nil {
		respondError(c, "financialEntry", "UpdateFinancialEntry", err)
		return
	}
	c.JSON(http.StatusOK, entry.ToResponse())
}

func DeleteFinancialEntry(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}

	if err := models.DeleteFinancialEntry(c.Request.Context(), id); err != nil {
		respondError(c, "financialEntry", "DeleteFinancialEntry", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func ExportFinancialEntries(c *gin.Context) {
	var filters models.FinancialEntryFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	filename := "entries_" + time.Now().Format("20060102") + ".xlsx"
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	if err := models.ExportFinancialEntriesXlsx(c.Request.Context(), &filters, c.Writer); err != nil {
		respondError(c, "financialEntry", "ExportFinancialEntries", err)
		return
	}
}
