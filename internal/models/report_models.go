package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TopProduct is a best-selling product with the quantity sold across all invoices.
type TopProduct struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	SKU       string `json:"sku,omitempty"`
	Category  string `json:"category,omitempty"`
	Quantity  int    `json:"quantity"`
}

// StockBuckets counts products by stock status.
type StockBuckets struct {
	WellStocked int `json:"wellStocked"` // stock > 1.5 * minStock
	Low         int `json:"low"`         // 0 < stock <= minStock
	Out         int `json:"out"`         // stock == 0
}

// AnalyticsSummary holds the business metrics of the analytics page.
type AnalyticsSummary struct {
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	InventoryValue decimal.Decimal `json:"inventoryValue"`
	Margin         decimal.Decimal `json:"margin"` // percent
	TopProducts    []TopProduct    `json:"topProducts"`
	LowStockCount  int             `json:"lowStockCount"`
	TotalOrders    int             `json:"totalOrders"`
	StockBuckets   StockBuckets    `json:"stockBuckets"`
}

// AnalyticsReport is the analytics summary together with the current restock predictions.
type AnalyticsReport struct {
	Summary     AnalyticsSummary        `json:"summary"`
	Predictions []RestockPredictionView `json:"predictions"`
}

// DashboardSummary holds key metrics for the dashboard.
type DashboardSummary struct {
	TodayRevenue  decimal.Decimal `json:"todayRevenue"`
	TotalProducts int             `json:"totalProducts"`
	LowStockCount int             `json:"lowStockCount"`
	PendingOrders int             `json:"pendingOrders"`
}

// CalendarDay is one technician's orders for one day of the week grid.
type CalendarDay struct {
	Date   time.Time     `json:"date"`
	Orders []RepairOrder `json:"orders"`
}

// TechnicianSchedule is one row of the calendar grid.
type TechnicianSchedule struct {
	Technician Technician    `json:"technician"`
	Days       []CalendarDay `json:"days"`
}

// WeekSchedule is the Monday-start weekly assignment grid.
type WeekSchedule struct {
	WeekStart  time.Time            `json:"weekStart"`
	Days       []time.Time          `json:"days"`
	Schedules  []TechnicianSchedule `json:"schedules"`
	Unassigned []RepairOrder        `json:"unassigned"`
}
