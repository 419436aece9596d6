package handlers

import (
	"net/http"
	"strconv"

	"bitbucket.org/artplim/erp_backend/models"
	"github.com/gin-gonic/gin"
)

func ListHistories(c *gin.Context) {
	referenceType := c.Query("referenceType")
	referenceId, _ := strconv.Atoi(c.Query("referenceId"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	histories, total, err := models.PaginateHistories(c.Request.Context(), referenceType, referenceId, page, limit)
	if err != nil {
		respondError(c, "history", "ListHistories", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"histories": histories,
		"total":     total,
		"page":      page,
		"limit":     limit,
	})
}
