package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one product line of a POS cart. Lines are unique per product.
type CartLine struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Cart accumulates products for a single checkout session.
type Cart struct {
	ID        string     `json:"id"`
	Lines     []CartLine `json:"lines"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Clone returns a deep copy of the cart.
func (c Cart) Clone() Cart {
	cp := c
	if c.Lines != nil {
		cp.Lines = append(make([]CartLine, 0, len(c.Lines)), c.Lines...)
	}
	return cp
}

// CartTotals holds the computed money amounts of a cart.
type CartTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// CartView is the API view of a cart with its totals.
type CartView struct {
	Cart
	Totals CartTotals `json:"totals"`
}

// Customer identifies the buyer at checkout.
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// CheckoutRequest is the checkout payload.
type CheckoutRequest struct {
	Customer      Customer `json:"customer"`
	PaymentMethod string   `json:"paymentMethod"`
}
