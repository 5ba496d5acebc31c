package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"repairshop_backend/internal/handlers"
	"repairshop_backend/internal/middleware"
	"repairshop_backend/internal/repositories"
	"repairshop_backend/internal/services"
	"repairshop_backend/pkg/utils"
)

// Services is the wired service layer over one record store.
type Services struct {
	Events        *services.Events
	Products      services.ProductService
	Invoices      services.InvoiceService
	RepairOrders  services.RepairOrderService
	Technicians   services.TechnicianService
	Predictions   services.PredictionService
	POS           services.POSService
	Calendar      services.CalendarService
	Analytics     services.AnalyticsService
	Dashboard     services.DashboardService
	Settings      services.SettingService
	Notifications services.NotificationService
	Auth          services.AuthService // nil when authentication is disabled
}

// ServiceOptions configures NewServices.
type ServiceOptions struct {
	Location         *time.Location
	NotificationFeed int
	// Tokens and Accounts enable authentication when Tokens is non-nil.
	Tokens   *utils.TokenManager
	Accounts []services.Account
}

// NewServices wires repositories and services over store.
func NewServices(store *repositories.Store, opts ServiceOptions) (*Services, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	events := services.NewEvents()

	// Initialize Repositories
	productRepo := repositories.NewProductRepository()
	movementRepo := repositories.NewInventoryMovementRepository()
	invoiceRepo := repositories.NewInvoiceRepository()
	orderRepo := repositories.NewRepairOrderRepository()
	technicianRepo := repositories.NewTechnicianRepository()
	predictionRepo := repositories.NewPredictionRepository()
	settingRepo := repositories.NewSettingRepository()

	// Initialize Services
	productService := services.NewProductService(productRepo, movementRepo, store, events)
	invoiceService := services.NewInvoiceService(invoiceRepo, store, events, loc)
	orderService := services.NewRepairOrderService(orderRepo, technicianRepo, store, events, loc)
	technicianService := services.NewTechnicianService(technicianRepo, orderRepo, store)
	predictionService := services.NewPredictionService(predictionRepo, store)
	notificationService, err := services.NewNotificationService(events, settingRepo, store, opts.NotificationFeed)
	if err != nil {
		return nil, err
	}

	svc := &Services{
		Events:        events,
		Products:      productService,
		Invoices:      invoiceService,
		RepairOrders:  orderService,
		Technicians:   technicianService,
		Predictions:   predictionService,
		POS:           services.NewPOSService(productRepo, invoiceRepo, movementRepo, store, events),
		Calendar:      services.NewCalendarService(orderService, technicianService, store.Now, loc),
		Analytics:     services.NewAnalyticsService(productService, invoiceService, predictionService),
		Dashboard:     services.NewDashboardService(productService, invoiceService, orderService, store.Now, loc),
		Settings:      services.NewSettingService(settingRepo, store, events),
		Notifications: notificationService,
	}

	if opts.Tokens != nil {
		authService, err := services.NewAuthService(opts.Accounts, opts.Tokens)
		if err != nil {
			return nil, fmt.Errorf("failed to initialise auth: %w", err)
		}
		svc.Auth = authService
	}
	return svc, nil
}

// Options configures the HTTP surface.
type Options struct {
	// Tokens enables bearer-token authentication; nil leaves the API open.
	Tokens         *utils.TokenManager
	RequestTimeout time.Duration
	Backups        handlers.BackupRunner
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, svc *Services, opts Options) {
	engine.Use(middleware.MetricsMiddleware())

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Initialize Handlers
	productHandler := handlers.NewProductHandler(svc.Products)
	invoiceHandler := handlers.NewInvoiceHandler(svc.Invoices)
	orderHandler := handlers.NewRepairOrderHandler(svc.RepairOrders, svc.Calendar.Location())
	technicianHandler := handlers.NewTechnicianHandler(svc.Technicians)
	predictionHandler := handlers.NewPredictionHandler(svc.Predictions)
	posHandler := handlers.NewPOSHandler(svc.POS)
	calendarHandler := handlers.NewCalendarHandler(svc.Calendar)
	reportHandler := handlers.NewReportHandler(svc.Analytics, svc.Dashboard)
	settingHandler := handlers.NewSettingHandler(svc.Settings, svc.Notifications, opts.Backups)

	apiV1 := engine.Group("/api/v1")
	apiV1.Use(middleware.TimeoutMiddleware(opts.RequestTimeout))

	acl := access{enabled: opts.Tokens != nil}
	authenticated := apiV1.Group("")
	if acl.enabled {
		authHandler := handlers.NewAuthHandler(svc.Auth)
		SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)
		authenticated.Use(middleware.AuthMiddleware(opts.Tokens))
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
	}

	{
		SetupProductRoutes(authenticated, productHandler, acl)
		SetupInvoiceRoutes(authenticated, invoiceHandler, acl)
		SetupRepairOrderRoutes(authenticated, orderHandler, acl)
		SetupTechnicianRoutes(authenticated, technicianHandler, acl)
		SetupPredictionRoutes(authenticated, predictionHandler, acl)
		SetupPOSRoutes(authenticated, posHandler, acl)
		SetupCalendarRoutes(authenticated, calendarHandler, acl)
		SetupReportRoutes(authenticated, reportHandler, acl)
		SetupSettingsRoutes(authenticated, settingHandler, acl)
		SetupNotificationRoutes(authenticated, settingHandler, acl)
	}
}

// SetupPublicAuthRoutes registers the login route.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/login", authHandler.LoginUser)
}

func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.GET("/me", authHandler.GetCurrentUser)
}
