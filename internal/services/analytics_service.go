package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"repairshop_backend/internal/models"
)

// TopSellersLimit is the number of best sellers reported.
const TopSellersLimit = 5

// UnknownProductName stands in for sold products no longer in the inventory.
const UnknownProductName = "Unknown Product"

var hundred = decimal.NewFromInt(100)

// TotalRevenue sums the invoice totals.
func TotalRevenue(invoices []models.Invoice) decimal.Decimal {
	sum := decimal.Zero
	for _, inv := range invoices {
		sum = sum.Add(inv.Total)
	}
	return sum
}

// InventoryValue sums price*stock over the products.
func InventoryValue(products []models.Product) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range products {
		sum = sum.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
	}
	return sum
}

// InventoryCost sums cost*stock over the products.
func InventoryCost(products []models.Product) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range products {
		sum = sum.Add(p.Cost.Mul(decimal.NewFromInt(int64(p.Stock))))
	}
	return sum
}

// Margin is (revenue - inventory cost) / revenue * 100, or 0 when revenue is 0.
// The result is rounded to two decimals.
func Margin(revenue decimal.Decimal, products []models.Product) decimal.Decimal {
	if revenue.IsZero() {
		return decimal.Zero
	}
	return revenue.Sub(InventoryCost(products)).Div(revenue).Mul(hundred).Round(2)
}

// TopSellingProducts tallies sold quantity per product across all invoice lines and
// returns the limit best sellers, most sold first. Ties keep first-sold order.
func TopSellingProducts(invoices []models.Invoice, products []models.Product, limit int) []models.TopProduct {
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	sold := make(map[string]int)
	var order []string
	for _, inv := range invoices {
		for _, item := range inv.Items {
			if _, seen := sold[item.ProductID]; !seen {
				order = append(order, item.ProductID)
			}
			sold[item.ProductID] += item.Quantity
		}
	}

	top := make([]models.TopProduct, 0, len(order))
	for _, id := range order {
		entry := models.TopProduct{ProductID: id, Name: UnknownProductName, Quantity: sold[id]}
		if p, ok := byID[id]; ok {
			entry.Name = p.Name
			entry.SKU = p.SKU
			entry.Category = p.Category
		}
		top = append(top, entry)
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Quantity > top[j].Quantity })
	if limit >= 0 && len(top) > limit {
		top = top[:limit]
	}
	return top
}

// CountStockBuckets counts well-stocked (stock > 1.5*minStock), low (0 < stock <= minStock)
// and out (stock == 0) products. Products between minStock and 1.5*minStock fall in none.
func CountStockBuckets(products []models.Product) models.StockBuckets {
	var b models.StockBuckets
	for _, p := range products {
		switch {
		case p.Stock == 0:
			b.Out++
		case p.Stock > 0 && p.Stock <= p.MinStock:
			b.Low++
		case float64(p.Stock) > float64(p.MinStock)*1.5:
			b.WellStocked++
		}
	}
	return b
}

// CountLowStock counts products at or below their minimum.
func CountLowStock(products []models.Product) int {
	n := 0
	for _, p := range products {
		if p.IsLowStock() {
			n++
		}
	}
	return n
}

// Summarize folds product and invoice snapshots into the analytics summary.
func Summarize(products []models.Product, invoices []models.Invoice) models.AnalyticsSummary {
	revenue := TotalRevenue(invoices)
	return models.AnalyticsSummary{
		TotalRevenue:   revenue,
		InventoryValue: InventoryValue(products),
		Margin:         Margin(revenue, products),
		TopProducts:    TopSellingProducts(invoices, products, TopSellersLimit),
		LowStockCount:  CountLowStock(products),
		TotalOrders:    len(invoices),
		StockBuckets:   CountStockBuckets(products),
	}
}

// --- AnalyticsService Interface ---
type AnalyticsService interface {
	GetSummary(ctx context.Context) (*models.AnalyticsSummary, error)
	GetReport(ctx context.Context) (*models.AnalyticsReport, error)
}

type analyticsService struct {
	products    ProductService
	invoices    InvoiceService
	predictions PredictionService
}

// NewAnalyticsService creates a new instance of AnalyticsService.
func NewAnalyticsService(products ProductService, invoices InvoiceService, predictions PredictionService) AnalyticsService {
	return &analyticsService{products: products, invoices: invoices, predictions: predictions}
}

func (s *analyticsService) load(ctx context.Context, withPredictions bool) ([]models.Product, []models.Invoice, []models.RestockPredictionView, error) {
	var (
		products    []models.Product
		invoices    []models.Invoice
		predictions []models.RestockPredictionView
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.products.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		invoices, err = s.invoices.GetAll(gctx)
		return err
	})
	if withPredictions {
		g.Go(func() error {
			var err error
			predictions, err = s.predictions.GetAll(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return products, invoices, predictions, nil
}

func (s *analyticsService) GetSummary(ctx context.Context) (*models.AnalyticsSummary, error) {
	products, invoices, _, err := s.load(ctx, false)
	if err != nil {
		return nil, err
	}
	summary := Summarize(products, invoices)
	return &summary, nil
}

// GetReport is the summary plus the current restock predictions.
func (s *analyticsService) GetReport(ctx context.Context) (*models.AnalyticsReport, error) {
	products, invoices, predictions, err := s.load(ctx, true)
	if err != nil {
		return nil, err
	}
	if predictions == nil {
		predictions = []models.RestockPredictionView{}
	}
	return &models.AnalyticsReport{Summary: Summarize(products, invoices), Predictions: predictions}, nil
}

// --- DashboardService Interface ---
type DashboardService interface {
	GetSummary(ctx context.Context) (*models.DashboardSummary, error)
}

type dashboardService struct {
	products ProductService
	invoices InvoiceService
	orders   RepairOrderService
	now      func() time.Time
	loc      *time.Location
}

// NewDashboardService creates a new instance of DashboardService.
func NewDashboardService(products ProductService, invoices InvoiceService, orders RepairOrderService, now func() time.Time, loc *time.Location) DashboardService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &dashboardService{products: products, invoices: invoices, orders: orders, now: now, loc: loc}
}

// GetSummary reports today's revenue, product and low-stock counts and pending repair orders.
func (s *dashboardService) GetSummary(ctx context.Context) (*models.DashboardSummary, error) {
	var (
		products []models.Product
		invoices []models.Invoice
		pending  []models.RepairOrder
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.products.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		invoices, err = s.invoices.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		pending, err = s.orders.GetPendingOrders(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &models.DashboardSummary{
		TodayRevenue:  RevenueOn(invoices, s.now(), s.loc),
		TotalProducts: len(products),
		LowStockCount: CountLowStock(products),
		PendingOrders: len(pending),
	}, nil
}
