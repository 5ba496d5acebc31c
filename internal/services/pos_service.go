package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"repairshop_backend/internal/metrics"
	"repairshop_backend/internal/models"
	"repairshop_backend/internal/repositories"
	"repairshop_backend/pkg/utils"
)

// TaxRate is the flat sales tax applied at the point of sale. It is independent
// of the tax rate shown in the shop settings.
var TaxRate = decimal.RequireFromString("0.08")

// --- POS DTOs ---
type AddToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"` // defaults to 1
}

// UpdateCartQuantityRequest sets a line quantity. Zero or less removes the line.
type UpdateCartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CheckoutResult is the committed sale.
type CheckoutResult struct {
	Invoice models.Invoice  `json:"invoice"`
	Cart    models.CartView `json:"cart"`
}

// --- POSService Interface ---
type POSService interface {
	CreateCart(ctx context.Context) (*models.CartView, error)
	GetCart(ctx context.Context, cartID string) (*models.CartView, error)
	ClearCart(ctx context.Context, cartID string) (*models.CartView, error)
	DeleteCart(ctx context.Context, cartID string) error
	AddToCart(ctx context.Context, cartID string, req AddToCartRequest) (*models.CartView, error)
	UpdateCartQuantity(ctx context.Context, cartID, productID string, quantity int) (*models.CartView, error)
	RemoveFromCart(ctx context.Context, cartID, productID string) (*models.CartView, error)
	Checkout(ctx context.Context, cartID string, req models.CheckoutRequest) (*CheckoutResult, error)
}

type cartEntry struct {
	cart        models.Cart
	checkingOut bool
}

// --- posService Implementation ---
type posService struct {
	mu    sync.Mutex
	carts map[string]*cartEntry

	productRepo  repositories.ProductRepository
	invoiceRepo  repositories.InvoiceRepository
	movementRepo repositories.InventoryMovementRepository
	store        *repositories.Store
	events       *Events
}

// NewPOSService creates a new instance of POSService. Carts live in memory for the process lifetime.
func NewPOSService(
	pr repositories.ProductRepository,
	ir repositories.InvoiceRepository,
	mr repositories.InventoryMovementRepository,
	store *repositories.Store,
	events *Events,
) POSService {
	return &posService{
		carts:        make(map[string]*cartEntry),
		productRepo:  pr,
		invoiceRepo:  ir,
		movementRepo: mr,
		store:        store,
		events:       events,
	}
}

// CalculateSubtotal sums price*quantity over the cart lines.
func CalculateSubtotal(lines []models.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return sum
}

// CalculateTax applies TaxRate to subtotal, rounded to cents.
func CalculateTax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate).Round(2)
}

// CalculateTotals returns subtotal, tax and their sum.
func CalculateTotals(lines []models.CartLine) models.CartTotals {
	subtotal := CalculateSubtotal(lines)
	tax := CalculateTax(subtotal)
	return models.CartTotals{Subtotal: subtotal, Tax: tax, Total: subtotal.Add(tax)}
}

func cartView(c models.Cart) *models.CartView {
	cp := c.Clone()
	if cp.Lines == nil {
		cp.Lines = []models.CartLine{}
	}
	return &models.CartView{Cart: cp, Totals: CalculateTotals(cp.Lines)}
}

// withCart runs fn on the cart under the service lock and stamps UpdatedAt when fn succeeds.
func (s *posService) withCart(cartID string, fn func(c *models.Cart) error) (*models.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.carts[cartID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCartNotFound, cartID)
	}
	if entry.checkingOut {
		return nil, fmt.Errorf("%w: %s", ErrCheckoutInProgress, cartID)
	}
	next := entry.cart.Clone()
	if err := fn(&next); err != nil {
		return nil, err
	}
	next.UpdatedAt = s.store.Now()
	entry.cart = next
	return cartView(next), nil
}

func (s *posService) CreateCart(ctx context.Context) (*models.CartView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := s.store.Now()
	cart := models.Cart{ID: s.store.NewID(), Lines: []models.CartLine{}, CreatedAt: now, UpdatedAt: now}
	s.mu.Lock()
	s.carts[cart.ID] = &cartEntry{cart: cart}
	s.mu.Unlock()
	return cartView(cart), nil
}

func (s *posService) GetCart(ctx context.Context, cartID string) (*models.CartView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.carts[cartID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCartNotFound, cartID)
	}
	return cartView(entry.cart), nil
}

func (s *posService) ClearCart(ctx context.Context, cartID string) (*models.CartView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.withCart(cartID, func(c *models.Cart) error {
		c.Lines = []models.CartLine{}
		return nil
	})
}

func (s *posService) DeleteCart(ctx context.Context, cartID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.carts[cartID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrCartNotFound, cartID)
	}
	if entry.checkingOut {
		return fmt.Errorf("%w: %s", ErrCheckoutInProgress, cartID)
	}
	delete(s.carts, cartID)
	return nil
}

func findLine(c *models.Cart, productID string) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddToCart adds quantity units of the product. The product must be in stock and the
// cart may never hold more units than the product currently has.
func (s *posService) AddToCart(ctx context.Context, cartID string, req AddToCartRequest) (*models.CartView, error) {
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, validationError("quantity must be positive")
	}
	product, err := s.productRepo.GetByID(ctx, s.store, req.ProductID)
	if err != nil {
		return nil, translateRepoError(err, ErrProductNotFound)
	}
	if product.Stock <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrOutOfStock, product.Name)
	}
	return s.withCart(cartID, func(c *models.Cart) error {
		idx := findLine(c, product.ID)
		if idx == -1 {
			if quantity > product.Stock {
				return fmt.Errorf("%w: %s has %d available", ErrInsufficientStock, product.Name, product.Stock)
			}
			c.Lines = append(c.Lines, models.CartLine{
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.Price,
				Quantity:  quantity,
			})
			return nil
		}
		if c.Lines[idx].Quantity+quantity > product.Stock {
			return fmt.Errorf("%w: %s has %d available", ErrInsufficientStock, product.Name, product.Stock)
		}
		c.Lines[idx].Quantity += quantity
		return nil
	})
}

// UpdateCartQuantity sets the line quantity; zero or less removes the line.
func (s *posService) UpdateCartQuantity(ctx context.Context, cartID, productID string, quantity int) (*models.CartView, error) {
	if quantity <= 0 {
		return s.RemoveFromCart(ctx, cartID, productID)
	}
	product, err := s.productRepo.GetByID(ctx, s.store, productID)
	if err != nil {
		return nil, translateRepoError(err, ErrProductNotFound)
	}
	if quantity > product.Stock {
		return nil, fmt.Errorf("%w: %s has %d available", ErrInsufficientStock, product.Name, product.Stock)
	}
	return s.withCart(cartID, func(c *models.Cart) error {
		idx := findLine(c, productID)
		if idx == -1 {
			return fmt.Errorf("%w: %s is not in the cart", ErrProductNotFound, productID)
		}
		c.Lines[idx].Quantity = quantity
		return nil
	})
}

func (s *posService) RemoveFromCart(ctx context.Context, cartID, productID string) (*models.CartView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.withCart(cartID, func(c *models.Cart) error {
		idx := findLine(c, productID)
		if idx == -1 {
			return nil
		}
		c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
		return nil
	})
}

// beginCheckout marks the cart as checking out and returns a copy of it.
func (s *posService) beginCheckout(cartID string) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.carts[cartID]
	if !ok {
		return models.Cart{}, fmt.Errorf("%w: %s", ErrCartNotFound, cartID)
	}
	if entry.checkingOut {
		return models.Cart{}, fmt.Errorf("%w: %s", ErrCheckoutInProgress, cartID)
	}
	entry.checkingOut = true
	return entry.cart.Clone(), nil
}

func (s *posService) endCheckout(cartID string, committed bool) *models.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.carts[cartID]
	if !ok {
		return nil
	}
	entry.checkingOut = false
	if committed {
		entry.cart.Lines = []models.CartLine{}
		entry.cart.UpdatedAt = s.store.Now()
	}
	return cartView(entry.cart)
}

// Checkout turns the cart into an invoice. Stock is re-validated, the invoice is
// created and every product stock is decremented in a single transaction; on any
// failure nothing is written and the cart is kept.
func (s *posService) Checkout(ctx context.Context, cartID string, req models.CheckoutRequest) (*CheckoutResult, error) {
	cart, err := s.beginCheckout(cartID)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			s.endCheckout(cartID, false)
		}
	}()

	if len(cart.Lines) == 0 {
		metrics.Checkouts.WithLabelValues(metrics.ResultRejected).Inc()
		return nil, ErrEmptyCart
	}
	if utils.IsEmpty(req.Customer.Name) {
		metrics.Checkouts.WithLabelValues(metrics.ResultRejected).Inc()
		return nil, ErrCustomerNameRequired
	}
	paymentMethod := strings.TrimSpace(req.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	var invoice *models.Invoice
	var touched []models.Product
	err = s.store.RunInTransaction(ctx, func(tx *repositories.Tx) error {
		touched = touched[:0]
		for _, line := range cart.Lines {
			product, err := s.productRepo.GetByID(ctx, tx, line.ProductID)
			if err != nil {
				return translateRepoError(err, ErrProductNotFound)
			}
			if product.Stock < line.Quantity {
				return fmt.Errorf("%w: %s has %d, cart wants %d", ErrInsufficientStock, product.Name, product.Stock, line.Quantity)
			}
		}

		items := make([]models.InvoiceItem, len(cart.Lines))
		for i, line := range cart.Lines {
			items[i] = models.InvoiceItem{ProductID: line.ProductID, Name: line.Name, Price: line.Price, Quantity: line.Quantity}
		}
		totals := CalculateTotals(cart.Lines)
		var err error
		invoice, err = s.invoiceRepo.Create(ctx, tx, models.Invoice{
			CustomerName:  strings.TrimSpace(req.Customer.Name),
			CustomerPhone: strings.TrimSpace(req.Customer.Phone),
			Items:         items,
			Subtotal:      totals.Subtotal,
			Tax:           totals.Tax,
			Total:         totals.Total,
			PaymentMethod: paymentMethod,
		})
		if err != nil {
			return err
		}

		for _, line := range cart.Lines {
			product, err := s.productRepo.UpdateStock(ctx, tx, line.ProductID, -line.Quantity)
			if err != nil {
				return translateRepoError(err, ErrProductNotFound)
			}
			_, err = s.movementRepo.CreateMovement(ctx, tx, models.StockMovement{
				ProductID:       line.ProductID,
				MovementType:    models.MovementTypeSale,
				QuantityChanged: -line.Quantity,
				StockAfter:      product.Stock,
				Reference:       invoice.ID,
			})
			if err != nil {
				return err
			}
			touched = append(touched, *product)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrValidation) || errors.Is(err, ErrInsufficientStock) || errors.Is(err, ErrProductNotFound) {
			metrics.Checkouts.WithLabelValues(metrics.ResultRejected).Inc()
			return nil, err
		}
		metrics.Checkouts.WithLabelValues(metrics.ResultFailed).Inc()
		utils.LogError(err, "Checkout rolled back")
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrCheckoutFailed, err)
	}

	committed = true
	view := s.endCheckout(cartID, true)
	metrics.Checkouts.WithLabelValues(metrics.ResultCommitted).Inc()
	metrics.Revenue.Add(invoice.Total.InexactFloat64())
	utils.LogInfo("Checkout committed", map[string]interface{}{
		"invoice_id": invoice.ID,
		"cart_id":    cartID,
		"lines":      len(invoice.Items),
		"total":      invoice.Total.StringFixed(2),
	})
	s.events.PublishInvoiceCreated(*invoice)
	s.events.PublishLowStock(touched...)

	result := &CheckoutResult{Invoice: *invoice}
	if view != nil {
		result.Cart = *view
	}
	return result, nil
}
