package handlers

import (
	"net/http"

	"bitbucket.org/artplim/erp_backend/models"
	"github.com/gin-gonic/gin"
)

func CreateCustomer(c *gin.Context) {
	var input models.NewCustomer
	if !bindJSON(c, &input) {
		return
	}

	customer, err := models.CreateCustomer(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "customer", "CreateCustomer", err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func GetCustomer(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}

	customer, err := models.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, "customer", "GetCustomer", err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func ListCustomers(c *gin.Context) {
	customers, err := models.GetAllCustomers(c.Request.Context())
	if err != nil {
		respondError(c, "customer", "ListCustomers", err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func UpdateCustomer(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewCustomer
	if !bindJSON(c, &input) {
		return
	}

	customer, err := models.UpdateCustomer(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "customer", "UpdateCustomer", err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func DeleteCustomer(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}

	if err := models.DeleteCustomer(c.Request.Context(), id); err != nil {
		respondError(c, "customer", "DeleteCustomer", err)
		return
	}
	c.Status(http.StatusNoContent)
}
