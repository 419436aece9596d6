package handlers

import (
	"net/http"
	"time"

	"bitbucket.org/artplim/erp_backend/models"
	"github.com/gin-gonic/gin"
)

func CreateProduct(c *gin.Context) {
	var input models.NewProduct
	if !bindJSON(c, &input) {
		return
	}

	product, err := models.CreateProduct(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "product", "CreateProduct", err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func GetProduct(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}

	product, err := models.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, "product", "GetProduct", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func ListProducts(c *gin.Context) {
	var filters models.ProductFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	page, err := models.PaginateProducts(c.Request.Context(), &filters)
	if err != nil {
		respondError(c, "product", "ListProducts", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func ExportProducts(c *gin.Context) {
	var filters models.ProductFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	filename := "products_" + time.Now().Format("20060102") + ".xlsx"
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	if err := models.ExportProductsXlsx(c.Request.Context(), &filters, c.Writer); err != nil {
		respondError(c, "product", "ExportProducts", err)
		return
	}
}

func UpdateProduct(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewProduct
	if !bindJSON(c, &input) {
		return
	}

	product, err := models.UpdateProduct(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "product", "UpdateProduct", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

type toggleActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

func ToggleProductActive(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var req toggleActiveRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := models.ToggleProductActive(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		respondError(c, "product", "ToggleProductActive", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func DeleteProduct(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}

	if err := models.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, "product", "DeleteProduct", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func RestoreProduct(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}

	product, err := models.RestoreProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, "product", "RestoreProduct", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func CreateProductCategory(c *gin.Context) {
	var input models.NewProductCategory
	if !bindJSON(c, &input) {
		return
	}

	category, err := models.CreateProductCategory(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "product", "CreateProductCategory", err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func ListProductCategories(c *gin.Context) {
	categories, err := models.GetAllProductCategories(c.Request.Context())
	if err != nil {
		respondError(c, "product", "ListProductCategories", err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func UpdateProductCategory(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}
	var input models.NewProductCategory
	if !bindJSON(c, &input) {
		return
	}

	category, err := models.UpdateProductCategory(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "product", "UpdateProductCategory", err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func DeleteProductCategory(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		return
	}

	if err := models.DeleteProductCategory(c.Request.Context(), id); err != nil {
		respondError(c, "product", "DeleteProductCategory", err)
		return
	}
	c.Status(http.StatusNoContent)
}
