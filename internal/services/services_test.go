package services

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"repairshop_backend/internal/models"
	"repairshop_backend/internal/repositories"
)

var testNow = time.Date(2024, 3, 14, 10, 30, 0, 0, time.UTC)

type sequenceIDs struct {
	mu sync.Mutex
	n  int
}

func (g *sequenceIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return "id-" + strconv.Itoa(g.n)
}

type testEnv struct {
	store         *repositories.Store
	events        *Events
	products      ProductService
	invoices      InvoiceService
	orders        RepairOrderService
	technicians   TechnicianService
	predictions   PredictionService
	pos           POSService
	calendar      CalendarService
	analytics     AnalyticsService
	dashboard     DashboardService
	settings      SettingService
	notifications NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repositories.NewStore(
		repositories.WithIDGenerator(&sequenceIDs{}),
		repositories.WithClock(func() time.Time { return testNow }),
	)
	events := NewEvents()

	productRepo := repositories.NewProductRepository()
	movementRepo := repositories.NewInventoryMovementRepository()
	invoiceRepo := repositories.NewInvoiceRepository()
	orderRepo := repositories.NewRepairOrderRepository()
	technicianRepo := repositories.NewTechnicianRepository()
	predictionRepo := repositories.NewPredictionRepository()
	settingRepo := repositories.NewSettingRepository()

	notifications, err := NewNotificationService(events, settingRepo, store, 0)
	require.NoError(t, err)

	env := &testEnv{
		store:         store,
		events:        events,
		products:      NewProductService(productRepo, movementRepo, store, events),
		invoices:      NewInvoiceService(invoiceRepo, store, events, time.UTC),
		orders:        NewRepairOrderService(orderRepo, technicianRepo, store, events, time.UTC),
		technicians:   NewTechnicianService(technicianRepo, orderRepo, store),
		predictions:   NewPredictionService(predictionRepo, store),
		pos:           NewPOSService(productRepo, invoiceRepo, movementRepo, store, events),
		settings:      NewSettingService(settingRepo, store, events),
		notifications: notifications,
	}
	env.calendar = NewCalendarService(env.orders, env.technicians, store.Now, time.UTC)
	env.analytics = NewAnalyticsService(env.products, env.invoices, env.predictions)
	env.dashboard = NewDashboardService(env.products, env.invoices, env.orders, store.Now, time.UTC)
	return env
}

func (e *testEnv) addProduct(t *testing.T, sku string, stock, minStock int, price string) *models.Product {
	t.Helper()
	p, err := e.products.Create(context.Background(), CreateProductRequest{
		SKU:      sku,
		Name:     "Product " + sku,
		Category: "Parts",
		Price:    decimal.RequireFromString(price),
		Cost:     decimal.RequireFromString("4.00"),
		Stock:    stock,
		MinStock: minStock,
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) addTechnician(t *testing.T, name string) *models.Technician {
	t.Helper()
	tech, err := e.technicians.Create(context.Background(), CreateTechnicianRequest{Name: name, Skills: []string{"Phones"}})
	require.NoError(t, err)
	return tech
}

func (e *testEnv) addOrder(t *testing.T, device string) *models.RepairOrder {
	t.Helper()
	order, err := e.orders.Create(context.Background(), CreateRepairOrderRequest{
		CustomerName: "Sam Lee",
		DeviceInfo:   device,
		Issue:        "Cracked screen",
		LaborCost:    decimal.RequireFromString("45.00"),
	})
	require.NoError(t, err)
	return order
}

func (e *testEnv) stockOf(t *testing.T, id string) int {
	t.Helper()
	p, err := e.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}
