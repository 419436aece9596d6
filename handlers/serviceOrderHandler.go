package handlers

import (
	"net/http"

	"bitbucket.org/artplim/erp_backend/models"
	"github.com/gin-gonic/gin"
)

func CreateServiceOrder(c *gin.Context) {
	var input models.NewServiceOrder
	if !bindJSON(c, &input) {
		return
	}

	order, err := models.CreateServiceOrder(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "serviceOrder", "CreateServiceOrder", err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func GetServiceOrder(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}

	order, err := models.GetServiceOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, "serviceOrder", "GetServiceOrder", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func ListServiceOrders(c *gin.Context) {
	var filters models.ServiceOrderFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	page, err := models.PaginateServiceOrders(c.Request.Context(), &filters)
	if err != nil {
		respondError(c, "serviceOrder", "ListServiceOrders", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func UpdateServiceOrder(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewServiceOrder
	if !bindJSON(c, &input) {
		return
	}

	order, err := models.UpdateServiceOrder(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "serviceOrder", "UpdateServiceOrder", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func ChangeServiceOrderStatus(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var req changeStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := models.ChangeServiceOrderStatus(c.Request.Context(), id, models.ServiceOrderStatus(req.Status))
	if err != nil {
		respondError(c, "serviceOrder", "ChangeServiceOrderStatus", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func DeleteServiceOrder(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}

	if err := models.DeleteServiceOrder(c.Request.Context(), id); err != nil {
		respondError(c, "serviceOrder", "DeleteServiceOrder", err)
		return
	}
	c.Status(http.StatusNoContent)
}
