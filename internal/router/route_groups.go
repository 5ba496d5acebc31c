package router

import (
	"github.com/gin-gonic/gin"

	"repairshop_backend/internal/handlers"
	"repairshop_backend/internal/middleware"
	"repairshop_backend/internal/models"
)

// access builds role guards. With authentication disabled every guard passes.
type access struct {
	enabled bool
}

func (a access) roles(allowed ...string) gin.HandlerFunc {
	if !a.enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RoleAuthMiddleware(allowed...)
}

func (a access) staff() gin.HandlerFunc { return a.roles(models.RoleAdmin, models.RoleStaff) }
func (a access) admin() gin.HandlerFunc { return a.roles(models.RoleAdmin) }

// SetupProductRoutes sets up the product and stock routes.
func SetupProductRoutes(authenticatedGroup *gin.RouterGroup, productHandler *handlers.ProductHandler, acl access) {
	productRoutes := authenticatedGroup.Group("/products")
	productRoutes.Use(acl.staff())
	{
		productRoutes.GET("", productHandler.GetProducts)
		productRoutes.POST("", productHandler.CreateProduct)
		productRoutes.GET("/low-stock", productHandler.GetLowStockProducts)
		productRoutes.GET("/categories", productHandler.GetCategories)
		productRoutes.GET("/movements", productHandler.GetMovements)
		productRoutes.GET("/:id", productHandler.GetProductByID)
		productRoutes.PATCH("/:id", productHandler.UpdateProduct)
		productRoutes.DELETE("/:id", acl.admin(), productHandler.DeleteProduct)
		productRoutes.POST("/:id/stock", productHandler.AdjustStock)
		productRoutes.GET("/:id/movements", productHandler.GetProductMovements)
	}
}

// SetupInvoiceRoutes sets up the invoice routes.
func SetupInvoiceRoutes(authenticatedGroup *gin.RouterGroup, invoiceHandler *handlers.InvoiceHandler, acl access) {
	invoiceRoutes := authenticatedGroup.Group("/invoices")
	invoiceRoutes.Use(acl.staff())
	{
		invoiceRoutes.GET("", invoiceHandler.GetInvoices)
		invoiceRoutes.POST("", invoiceHandler.CreateInvoice)
		invoiceRoutes.GET("/today-revenue", invoiceHandler.GetTodaysRevenue)
		invoiceRoutes.GET("/export", invoiceHandler.ExportInvoices)
		invoiceRoutes.GET("/:id", invoiceHandler.GetInvoiceByID)
		invoiceRoutes.PATCH("/:id", acl.admin(), invoiceHandler.UpdateInvoice)
		invoiceRoutes.DELETE("/:id", acl.admin(), invoiceHandler.DeleteInvoice)
	}
}

// SetupRepairOrderRoutes sets up the repair order routes.
func SetupRepairOrderRoutes(authenticatedGroup *gin.RouterGroup, orderHandler *handlers.RepairOrderHandler, acl access) {
	orderRoutes := authenticatedGroup.Group("/repair-orders")
	orderRoutes.Use(acl.staff())
	{
		orderRoutes.GET("", orderHandler.GetRepairOrders)
		orderRoutes.POST("", orderHandler.CreateRepairOrder)
		orderRoutes.GET("/pending", orderHandler.GetPendingOrders)
		orderRoutes.GET("/:id", orderHandler.GetRepairOrderByID)
		orderRoutes.PATCH("/:id", orderHandler.UpdateRepairOrder)
		orderRoutes.DELETE("/:id", acl.admin(), orderHandler.DeleteRepairOrder)
		orderRoutes.POST("/:id/assign", orderHandler.AssignTechnician)
		orderRoutes.DELETE("/:id/assign", orderHandler.UnassignTechnician)
		orderRoutes.PUT("/:id/time-spent", orderHandler.UpdateTimeSpent)
	}
}

// SetupTechnicianRoutes sets up the technician routes.
func SetupTechnicianRoutes(authenticatedGroup *gin.RouterGroup, technicianHandler *handlers.TechnicianHandler, acl access) {
	technicianRoutes := authenticatedGroup.Group("/technicians")
	technicianRoutes.Use(acl.staff())
	{
		technicianRoutes.GET("", technicianHandler.GetTechnicians)
		technicianRoutes.GET("/available", technicianHandler.GetAvailableTechnicians)
		technicianRoutes.GET("/:id", technicianHandler.GetTechnicianByID)
		technicianRoutes.POST("", acl.admin(), technicianHandler.CreateTechnician)
		technicianRoutes.PATCH("/:id", technicianHandler.UpdateTechnician)
		technicianRoutes.DELETE("/:id", acl.admin(), technicianHandler.DeleteTechnician)
	}
}

// SetupPredictionRoutes sets up the restock prediction routes.
func SetupPredictionRoutes(authenticatedGroup *gin.RouterGroup, predictionHandler *handlers.PredictionHandler, acl access) {
	predictionRoutes := authenticatedGroup.Group("/restock-predictions")
	predictionRoutes.Use(acl.staff())
	{
		predictionRoutes.GET("", predictionHandler.GetPredictions)
		predictionRoutes.POST("/generate", predictionHandler.GeneratePredictions)
		predictionRoutes.GET("/:productId", predictionHandler.GetPredictionByProductID)
		predictionRoutes.PATCH("/:productId", acl.admin(), predictionHandler.UpdatePrediction)
	}
}

// SetupPOSRoutes sets up the point-of-sale cart routes.
func SetupPOSRoutes(authenticatedGroup *gin.RouterGroup, posHandler *handlers.POSHandler, acl access) {
	cartRoutes := authenticatedGroup.Group("/pos/carts")
	cartRoutes.Use(acl.staff())
	{
		cartRoutes.POST("", posHandler.CreateCart)
		cartRoutes.GET("/:id", posHandler.GetCart)
		cartRoutes.DELETE("/:id", posHandler.DeleteCart)
		cartRoutes.POST("/:id/clear", posHandler.ClearCart)
		cartRoutes.POST("/:id/items", posHandler.AddItem)
		cartRoutes.PATCH("/:id/items/:productId", posHandler.UpdateItemQuantity)
		cartRoutes.DELETE("/:id/items/:productId", posHandler.RemoveItem)
		cartRoutes.POST("/:id/checkout", posHandler.Checkout)
	}
}

// SetupCalendarRoutes sets up the assignment calendar routes.
func SetupCalendarRoutes(authenticatedGroup *gin.RouterGroup, calendarHandler *handlers.CalendarHandler, acl access) {
	calendarRoutes := authenticatedGroup.Group("/calendar")
	calendarRoutes.Use(acl.staff())
	{
		calendarRoutes.GET("/week", calendarHandler.GetWeek)
		calendarRoutes.GET("/unassigned", calendarHandler.GetUnassignedOrders)
		calendarRoutes.GET("/technicians/:id/day", calendarHandler.GetTechnicianDay)
		calendarRoutes.POST("/assignments", calendarHandler.CreateAssignment)
	}
}

// SetupReportRoutes sets up the analytics and dashboard routes.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler, acl access) {
	analyticsRoutes := authenticatedGroup.Group("/analytics")
	analyticsRoutes.Use(acl.staff())
	{
		analyticsRoutes.GET("/summary", reportHandler.GetAnalyticsSummary)
		analyticsRoutes.GET("/report", reportHandler.GetAnalyticsReport)
	}

	dashboardRoutes := authenticatedGroup.Group("/dashboard")
	dashboardRoutes.Use(acl.staff())
	{
		dashboardRoutes.GET("/summary", reportHandler.GetDashboardSummary)
	}
}

// SetupSettingsRoutes sets up the settings and backup routes.
func SetupSettingsRoutes(authenticatedGroup *gin.RouterGroup, settingHandler *handlers.SettingHandler, acl access) {
	settingsRoutes := authenticatedGroup.Group("/settings")
	settingsRoutes.Use(acl.staff())
	{
		settingsRoutes.GET("", settingHandler.GetSettings)
		settingsRoutes.PUT("", acl.admin(), settingHandler.UpdateSettings)
		settingsRoutes.POST("/backup", acl.admin(), settingHandler.RunBackup)
	}
}

// SetupNotificationRoutes sets up the notification feed routes.
func SetupNotificationRoutes(authenticatedGroup *gin.RouterGroup, settingHandler *handlers.SettingHandler, acl access) {
	notificationRoutes := authenticatedGroup.Group("/notifications")
	notificationRoutes.Use(acl.staff())
	{
		notificationRoutes.GET("", settingHandler.GetNotifications)
		notificationRoutes.DELETE("", settingHandler.ClearNotifications)
	}
}
