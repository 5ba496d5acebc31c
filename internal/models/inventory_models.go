package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, matching the fixture files.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a stocked item in the shop inventory.
type Product struct {
	ID             string          `json:"id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Price          decimal.Decimal `json:"price"`
	Cost           decimal.Decimal `json:"cost"`
	Stock          int             `json:"stock"`
	MinStock       int             `json:"minStock"`
	WarrantyMonths int             `json:"warrantyMonths"`
}

// StockLevel is the display bucket of a product's stock relative to its minimum.
type StockLevel string

const (
	StockLevelOut    StockLevel = "out"
	StockLevelLow    StockLevel = "low"
	StockLevelMedium StockLevel = "medium"
	StockLevelGood   StockLevel = "good"
)

// Level classifies the product stock: out (0), low (<= minStock), medium (<= 1.5*minStock), good otherwise.
func (p Product) Level() StockLevel {
	switch {
	case p.Stock <= 0:
		return StockLevelOut
	case p.Stock <= p.MinStock:
		return StockLevelLow
	case float64(p.Stock) <= float64(p.MinStock)*1.5:
		return StockLevelMedium
	default:
		return StockLevelGood
	}
}

// IsLowStock reports whether stock has fallen to or below the minimum (out of stock included).
func (p Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}

// ProductWithLevel is the API view of a product with its computed stock level.
type ProductWithLevel struct {
	Product
	StockLevel StockLevel `json:"stockLevel"`
}

// ProductFilters holds the inventory search parameters.
type ProductFilters struct {
	Query    string `form:"q"`
	Category string `form:"category"`
	Stock    string `form:"stock"` // all, low, out
}

// Stock movement types.
const (
	MovementTypeSale       = "sale"
	MovementTypeAdjustment = "adjustment"
)

// StockMovement records one change of a product's stock.
type StockMovement struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"productId"`
	MovementType    string    `json:"movementType"`
	QuantityChanged int       `json:"quantityChanged"`
	StockAfter      int       `json:"stockAfter"`
	Reference       string    `json:"reference,omitempty"` // e.g. invoice id
	MovementDate    time.Time `json:"movementDate"`
}

// StockMovementFilters holds the stock movement query parameters.
type StockMovementFilters struct {
	ProductID    string `form:"productId"`
	MovementType string `form:"movementType"`
}
