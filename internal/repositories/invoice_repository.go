package repositories

import (
	"context"
	"fmt"

	"repairshop_backend/internal/models"
)

// InvoiceRepository defines the record-store operations on invoices.
// Invoices are kept most recent first.
type InvoiceRepository interface {
	GetAll(ctx context.Context, ex Executor) ([]models.Invoice, error)
	GetByID(ctx context.Context, ex Executor, id string) (*models.Invoice, error)
	Create(ctx context.Context, ex Executor, invoice models.Invoice) (*models.Invoice, error)
	Update(ctx context.Context, ex Executor, id string, patch models.Patch, validate func(*models.Invoice) error) (*models.Invoice, error)
	Delete(ctx context.Context, ex Executor, id string) error
}

type invoiceRepository struct{}

// NewInvoiceRepository creates a new instance of InvoiceRepository.
func NewInvoiceRepository() InvoiceRepository {
	return &invoiceRepository{}
}

func findInvoice(st *storeState, id string) int {
	for i := range st.invoices {
		if st.invoices[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *invoiceRepository) GetAll(ctx context.Context, ex Executor) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := ex.read(ctx, func(st *storeState) error {
		invoices = make([]models.Invoice, len(st.invoices))
		for i, inv := range st.invoices {
			invoices[i] = inv.Clone()
		}
		return nil
	})
	return invoices, err
}

func (r *invoiceRepository) GetByID(ctx context.Context, ex Executor, id string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := ex.read(ctx, func(st *storeState) error {
		idx := findInvoice(st, id)
		if idx == -1 {
			return fmt.Errorf("%w: invoice %s", ErrNotFound, id)
		}
		invoice = st.invoices[idx].Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// Create prepends the invoice, assigning a fresh id and the operation date.
func (r *invoiceRepository) Create(ctx context.Context, ex Executor, invoice models.Invoice) (*models.Invoice, error) {
	invoice = invoice.Clone()
	invoice.ID = ex.NewID()
	invoice.Date = ex.Now()
	err := ex.write(ctx, func(st *storeState) error {
		st.invoices = append([]models.Invoice{invoice.Clone()}, st.invoices...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// Update merges patch onto the invoice. validate may adjust and vet the merged record before it is stored.
func (r *invoiceRepository) Update(ctx context.Context, ex Executor, id string, patch models.Patch, validate func(*models.Invoice) error) (*models.Invoice, error) {
	var updated models.Invoice
	err := ex.write(ctx, func(st *storeState) error {
		idx := findInvoice(st, id)
		if idx == -1 {
			return fmt.Errorf("%w: invoice %s", ErrNotFound, id)
		}
		updated = st.invoices[idx].Clone()
		if err := MergePatch(&updated, patch); err != nil {
			return err
		}
		updated.ID = id
		if validate != nil {
			if err := validate(&updated); err != nil {
				return err
			}
		}
		st.invoices[idx] = updated.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *invoiceRepository) Delete(ctx context.Context, ex Executor, id string) error {
	return ex.write(ctx, func(st *storeState) error {
		idx := findInvoice(st, id)
		if idx == -1 {
			return fmt.Errorf("%w: invoice %s", ErrNotFound, id)
		}
		st.invoices = append(st.invoices[:idx], st.invoices[idx+1:]...)
		return nil
	})
}
