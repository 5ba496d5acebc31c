package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"repairshop_backend/internal/models"
	"repairshop_backend/internal/repositories"
	"repairshop_backend/pkg/utils"
)

// DefaultPaymentMethod is used when a sale does not name one.
const DefaultPaymentMethod = "Cash"

// --- Invoice DTOs ---
type CreateInvoiceRequest struct {
	CustomerName  string               `json:"customerName" binding:"required"`
	CustomerPhone string               `json:"customerPhone"`
	Items         []models.InvoiceItem `json:"items" binding:"required"`
	Tax           decimal.Decimal      `json:"tax"`
	PaymentMethod string               `json:"paymentMethod"`
}

// --- InvoiceService Interface ---
type InvoiceService interface {
	GetAll(ctx context.Context) ([]models.Invoice, error)
	Search(ctx context.Context, filters models.InvoiceFilters) ([]models.Invoice, error)
	GetByID(ctx context.Context, id string) (*models.Invoice, error)
	Create(ctx context.Context, req CreateInvoiceRequest) (*models.Invoice, error)
	Update(ctx context.Context, id string, patch models.Patch) (*models.Invoice, error)
	Delete(ctx context.Context, id string) error
	GetTodaysRevenue(ctx context.Context) (decimal.Decimal, error)
	ExportCSV(ctx context.Context, w io.Writer) error
}

// --- invoiceService Implementation ---
type invoiceService struct {
	invoiceRepo repositories.InvoiceRepository
	store       *repositories.Store
	events      *Events
	loc         *time.Location
}

// NewInvoiceService creates a new instance of InvoiceService. loc decides what "today" means.
func NewInvoiceService(ir repositories.InvoiceRepository, store *repositories.Store, events *Events, loc *time.Location) InvoiceService {
	if loc == nil {
		loc = time.UTC
	}
	return &invoiceService{
		invoiceRepo: ir,
		store:       store,
		events:      events,
		loc:         loc,
	}
}

// validateInvoice checks the line items and re-derives subtotal and total.
func validateInvoice(inv *models.Invoice) error {
	if utils.IsEmpty(inv.CustomerName) {
		return ErrCustomerNameRequired
	}
	if len(inv.Items) == 0 {
		return validationError("an invoice needs at least one item")
	}
	for i, item := range inv.Items {
		if item.Quantity <= 0 {
			return validationError("item %d: quantity must be positive", i)
		}
		if item.Price.IsNegative() {
			return validationError("item %d: price cannot be negative", i)
		}
	}
	if inv.Tax.IsNegative() {
		return validationError("tax cannot be negative")
	}
	inv.CustomerName = strings.TrimSpace(inv.CustomerName)
	if inv.PaymentMethod == "" {
		inv.PaymentMethod = DefaultPaymentMethod
	}
	inv.Recalculate()
	return nil
}

func (s *invoiceService) GetAll(ctx context.Context) ([]models.Invoice, error) {
	invoices, err := s.invoiceRepo.GetAll(ctx, s.store)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoices: %w", err)
	}
	return invoices, nil
}

// Search matches the query against invoice id, customer name and phone.
func (s *invoiceService) Search(ctx context.Context, filters models.InvoiceFilters) ([]models.Invoice, error) {
	invoices, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	query := strings.TrimSpace(filters.Query)
	if query == "" {
		return invoices, nil
	}
	result := make([]models.Invoice, 0)
	for _, inv := range invoices {
		if utils.ContainsFold(inv.ID, query) || utils.ContainsFold(inv.CustomerName, query) || utils.ContainsFold(inv.CustomerPhone, query) {
			result = append(result, inv)
		}
	}
	return result, nil
}

// GetByID returns nil without error when no invoice has id.
func (s *invoiceService) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, s.store, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return invoice, nil
}

func (s *invoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*models.Invoice, error) {
	invoice := models.Invoice{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Items:         append([]models.InvoiceItem(nil), req.Items...),
		Tax:           req.Tax,
		PaymentMethod: req.PaymentMethod,
	}
	if err := validateInvoice(&invoice); err != nil {
		return nil, err
	}
	created, err := s.invoiceRepo.Create(ctx, s.store, invoice)
	if err != nil {
		return nil, translateRepoError(err, ErrInvoiceNotFound)
	}
	s.events.PublishInvoiceCreated(*created)
	return created, nil
}

// Update applies an administrative correction. Subtotal and total are always re-derived.
func (s *invoiceService) Update(ctx context.Context, id string, patch models.Patch) (*models.Invoice, error) {
	updated, err := s.invoiceRepo.Update(ctx, s.store, id, patch, validateInvoice)
	if err != nil {
		return nil, translateRepoError(err, ErrInvoiceNotFound)
	}
	utils.LogInfo("Invoice corrected", map[string]interface{}{"invoice_id": id})
	return updated, nil
}

func (s *invoiceService) Delete(ctx context.Context, id string) error {
	if err := s.invoiceRepo.Delete(ctx, s.store, id); err != nil {
		return translateRepoError(err, ErrInvoiceNotFound)
	}
	return nil
}

// GetTodaysRevenue sums the totals of invoices dated on the current calendar day.
func (s *invoiceService) GetTodaysRevenue(ctx context.Context) (decimal.Decimal, error) {
	invoices, err := s.GetAll(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return RevenueOn(invoices, s.store.Now(), s.loc), nil
}

// RevenueOn sums the totals of invoices dated on the same calendar day as day.
func RevenueOn(invoices []models.Invoice, day time.Time, loc *time.Location) decimal.Decimal {
	sum := decimal.Zero
	for _, inv := range invoices {
		if utils.SameDay(inv.Date, day, loc) {
			sum = sum.Add(inv.Total)
		}
	}
	return sum
}

// ExportCSV writes one row per invoice line item.
func (s *invoiceService) ExportCSV(ctx context.Context, w io.Writer) error {
	invoices, err := s.GetAll(ctx)
	if err != nil {
		return err
	}
	rows := make([]*models.InvoiceCSVRow, 0)
	for _, inv := range invoices {
		for _, item := range inv.Items {
			rows = append(rows, &models.InvoiceCSVRow{
				InvoiceID:     inv.ID,
				Date:          inv.Date.In(s.loc).Format(time.RFC3339),
				CustomerName:  inv.CustomerName,
				CustomerPhone: inv.CustomerPhone,
				PaymentMethod: inv.PaymentMethod,
				ProductID:     item.ProductID,
				ItemName:      item.Name,
				UnitPrice:     item.Price.StringFixed(2),
				Quantity:      item.Quantity,
				LineTotal:     item.LineTotal().StringFixed(2),
				Subtotal:      inv.Subtotal.StringFixed(2),
				Tax:           inv.Tax.StringFixed(2),
				Total:         inv.Total.StringFixed(2),
			})
		}
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to write invoice csv: %w", err)
	}
	return nil
}
