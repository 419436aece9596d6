package handlers

import (
	"net/http"

	"bitbucket.org/artplim/erp_backend/middlewares"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the full REST surface. Everything under /api except
// the auth endpoints requires a valid bearer token and passes the role check.
func RegisterRoutes(r *gin.Engine) {

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/api/auth")
	{
		auth.POST("/login", Login)
		auth.POST("/refresh", Refresh)
	}

	api := r.Group("/api", middlewares.RoleMiddleware())
	{
		api.POST("/auth/logout", Logout)
		api.POST("/auth/change-password", ChangePassword)

		api.POST("/entries", CreateFinancialEntry)
		api.GET("/entries", ListFinancialEntries)
		api.GET("/entries/export", ExportFinancialEntries)
		api.GET("/entries/:id", GetFinancialEntry)
		api.PATCH("/entries/:id", UpdateFinancialEntry)
		api.DELETE("/entries/:id", DeleteFinancialEntry)

		api.POST("/products", CreateProduct)
		api.GET("/products", ListProducts)
		api.GET("/products/export", ExportProducts)
		api.GET("/products/:id", GetProduct)
		api.PUT("/products/:id", UpdateProduct)
		api.PATCH("/products/:id/active", ToggleProductActive)
		api.POST("/products/:id/restore", RestoreProduct)
		api.DELETE("/products/:id", DeleteProduct)

		api.POST("/product-categories", CreateProductCategory)
		api.GET("/product-categories", ListProductCategories)
		api.PUT("/product-categories/:id", UpdateProductCategory)
		api.DELETE("/product-categories/:id", DeleteProductCategory)

		api.POST("/customers", CreateCustomer)
		api.GET("/customers", ListCustomers)
		api.GET("/customers/:id", GetCustomer)
		api.PUT("/customers/:id", UpdateCustomer)
		api.DELETE("/customers/:id", DeleteCustomer)

		api.POST("/quotes", CreateQuote)
		api.GET("/quotes", ListQuotes)
		api.GET("/quotes/:id", GetQuote)
		api.PUT("/quotes/:id", UpdateQuote)
		api.PATCH("/quotes/:id/status", ChangeQuoteStatus)
		api.POST("/quotes/:id/convert", ConvertQuote)
		api.DELETE("/quotes/:id", DeleteQuote)

		api.POST("/service-orders", CreateServiceOrder)
		api.GET("/service-orders", ListServiceOrders)
		api.GET("/service-orders/:id", GetServiceOrder)
		api.PUT("/service-orders/:id", UpdateServiceOrder)
		api.PATCH("/service-orders/:id/status", ChangeServiceOrderStatus)
		api.DELETE("/service-orders/:id", DeleteServiceOrder)

		api.POST("/stock-movements", CreateStockMovement)
		api.GET("/stock-movements", ListStockMovements)
		api.GET("/stock-movements/low", ListLowStockProducts)

		api.GET("/dashboard", GetDashboard)
		api.GET("/dashboard/monthly", GetMonthlySeries)
		api.GET("/dashboard/top-expenses", GetTopExpenses)

		api.GET("/histories", ListHistories)

		api.POST("/users", CreateUser)
		api.GET("/users", ListUsers)
		api.GET("/users/:id", GetUser)

		api.POST("/roles", CreateRole)
		api.GET("/roles", ListRoles)
		api.PUT("/roles/:id", UpdateRole)
	}
}
