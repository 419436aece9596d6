package handlers

import (
	"net/http"

	"bitbucket.org/artplim/erp_backend/models"
	"github.com/gin-gonic/gin"
)

func CreateStockMovement(c *gin.Context) {
	var input models.NewStockMovement
	if !bindJSON(c, &input) {
		return
	}

	movement, err := models.CreateStockMovement(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "stock", "CreateStockMovement", err)
		return
	}
	c.JSON(http.StatusCreated, movement)
}

func ListStockMovements(c *gin.Context) {
	var filters models.StockMovementFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	page, err := models.PaginateStockMovements(c.Request.Context(), &filters)
	if err != nil {
		respondError(c, "stock", "ListStockMovements", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func ListLowStockProducts(c *gin.Context) {
	results, err := models.GetLowStockProducts(c.Request.Context())
	if err != nil {
		respondError(c, "stock", "ListLowStockProducts", err)
		return
	}
	c.JSON(http.StatusOK, results)
}
