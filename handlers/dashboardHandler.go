package handlers

import (
	"net/http"
	"strconv"

	"bitbucket.org/artplim/erp_backend/models"
	"github.com/gin-gonic/gin"
)

func GetDashboard(c *gin.Context) {
	summary, err := models.GetFinancialSummary(c.Request.Context())
	if err != nil {
		respondError(c, "dashboard", "GetDashboard", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func GetMonthlySeries(c *gin.Context) {
	months, _ := strconv.Atoi(c.DefaultQuery("months", "6"))

	series, err := models.GetMonthlyIncomeExpense(c.Request.Context(), months)
	if err != nil {
		respondError(c, "dashboard", "GetMonthlySeries", err)
		return
	}
	c.JSON(http.StatusOK, series)
}

func GetTopExpenses(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	results, err := models.GetTopExpensesByCategory(c.Request.Context(), limit)
	if err != nil {
		respondError(c, "dashboard", "GetTopExpenses", err)
		return
	}
	c.JSON(http.StatusOK, results)
}
