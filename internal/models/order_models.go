package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItem is a snapshot of a product line at sale time. It is not a live reference.
type InvoiceItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// LineTotal returns price * quantity.
func (i InvoiceItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Invoice represents a completed sale.
type Invoice struct {
	ID            string          `json:"id"`
	Date          time.Time       `json:"date"`
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone"`
	Items         []InvoiceItem   `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"paymentMethod"`
}

// Clone returns a deep copy of the invoice.
func (inv Invoice) Clone() Invoice {
	cp := inv
	if inv.Items != nil {
		cp.Items = append(make([]InvoiceItem, 0, len(inv.Items)), inv.Items...)
	}
	return cp
}

// ItemsSubtotal sums price*quantity over the line items.
func (inv Invoice) ItemsSubtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range inv.Items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// Recalculate re-derives subtotal from the items and total from subtotal and tax.
func (inv *Invoice) Recalculate() {
	inv.Subtotal = inv.ItemsSubtotal()
	inv.Total = inv.Subtotal.Add(inv.Tax)
}

// InvoiceFilters defines the available filters for querying invoices.
type InvoiceFilters struct {
	Query string `form:"q"` // matches id, customer name or phone
}

// InvoiceCSVRow is one exported invoice line.
type InvoiceCSVRow struct {
	InvoiceID     string `csv:"invoice_id"`
	Date          string `csv:"date"`
	CustomerName  string `csv:"customer_name"`
	CustomerPhone string `csv:"customer_phone"`
	PaymentMethod string `csv:"payment_method"`
	ProductID     string `csv:"product_id"`
	ItemName      string `csv:"item_name"`
	UnitPrice     string `csv:"unit_price"`
	Quantity      int    `csv:"quantity"`
	LineTotal     string `csv:"line_total"`
	Subtotal      string `csv:"invoice_subtotal"`
	Tax           string `csv:"invoice_tax"`
	Total         string `csv:"invoice_total"`
}
