package handlers

import (
	"net/http"

	"bitbucket.org/artplim/erp_backend/models"
	"github.com/gin-gonic/gin"
)

func CreateQuote(c *gin.Context) {
	var input models.NewQuote
	if !bindJSON(c, &input) {
		return
	}

	quote, err := models.CreateQuote(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "quote", "CreateQuote", err)
		return
	}
	c.JSON(http.StatusCreated, quote)
}

func GetQuote(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}

	quote, err := models.GetQuote(c.Request.Context(), id)
	if err != nil {
		respondError(c, "quote", "GetQuote", err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func ListQuotes(c *gin.Context) {
	var filters models.QuoteFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	page, err := models.PaginateQuotes(c.Request.Context(), &filters)
	if err != nil {
		respondError(c, "quote", "ListQuotes", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func UpdateQuote(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewQuote
	if !bindJSON(c, &input) {
		return
	}

	quote, err := models.UpdateQuote(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "quote", "UpdateQuote", err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

type changeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func ChangeQuoteStatus(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var req changeStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	quote, err := models.ChangeQuoteStatus(c.Request.Context(), id, models.QuoteStatus(req.Status))
	if err != nil {
		respondError(c, "quote", "ChangeQuoteStatus", err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func DeleteQuote(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}

	if err := models.DeleteQuote(c.Request.Context(), id); err != nil {
		respondError(c, "quote", "DeleteQuote", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func ConvertQuote(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}

	order, err := models.ConvertQuoteToServiceOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, "quote", "ConvertQuote", err)
		return
	}
	c.JSON(http.StatusCreated, order)
}
