package repositories

import (
	"context"
	"fmt"
	"strings"

	"repairshop_backend/internal/models"
)

// ProductRepository defines the record-store operations on products.
type ProductRepository interface {
	GetAll(ctx context.Context, ex Executor) ([]models.Product, error)
	GetByID(ctx context.Context, ex Executor, id string) (*models.Product, error)
	Create(ctx context.Context, ex Executor, product models.Product) (*models.Product, error)
	Update(ctx context.Context, ex Executor, id string, patch models.Patch, validate func(*models.Product) error) (*models.Product, error)
	UpdateStock(ctx context.Context, ex Executor, id string, delta int) (*models.Product, error)
	Delete(ctx context.Context, ex Executor, id string) error
}

type productRepository struct{}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository() ProductRepository {
	return &productRepository{}
}

func findProduct(st *storeState, id string) int {
	for i := range st.products {
		if st.products[i].ID == id {
			return i
		}
	}
	return -1
}

func skuTaken(st *storeState, sku, exceptID string) bool {
	for _, p := range st.products {
		if p.ID != exceptID && strings.EqualFold(p.SKU, sku) {
			return true
		}
	}
	return false
}

func (r *productRepository) GetAll(ctx context.Context, ex Executor) ([]models.Product, error) {
	var products []models.Product
	err := ex.read(ctx, func(st *storeState) error {
		products = append(make([]models.Product, 0, len(st.products)), st.products...)
		return nil
	})
	return products, err
}

func (r *productRepository) GetByID(ctx context.Context, ex Executor, id string) (*models.Product, error) {
	var product models.Product
	err := ex.read(ctx, func(st *storeState) error {
		idx := findProduct(st, id)
		if idx == -1 {
			return fmt.Errorf("%w: product %s", ErrNotFound, id)
		}
		product = st.products[idx]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Create appends the product; a fresh id is assigned.
func (r *productRepository) Create(ctx context.Context, ex Executor, product models.Product) (*models.Product, error) {
	product.ID = ex.NewID()
	err := ex.write(ctx, func(st *storeState) error {
		if skuTaken(st, product.SKU, "") {
			return fmt.Errorf("%w: sku %s", ErrDuplicateKey, product.SKU)
		}
		st.products = append(st.products, product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Update merges patch onto the product. validate, when set, may adjust and vet the merged record before it is stored.
func (r *productRepository) Update(ctx context.Context, ex Executor, id string, patch models.Patch, validate func(*models.Product) error) (*models.Product, error) {
	var updated models.Product
	err := ex.write(ctx, func(st *storeState) error {
		idx := findProduct(st, id)
		if idx == -1 {
			return fmt.Errorf("%w: product %s", ErrNotFound, id)
		}
		updated = st.products[idx]
		if err := MergePatch(&updated, patch); err != nil {
			return err
		}
		updated.ID = id
		if validate != nil {
			if err := validate(&updated); err != nil {
				return err
			}
		}
		if skuTaken(st, updated.SKU, id) {
			return fmt.Errorf("%w: sku %s", ErrDuplicateKey, updated.SKU)
		}
		st.products[idx] = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateStock adds delta to the product stock. The result may not go below zero.
func (r *productRepository) UpdateStock(ctx context.Context, ex Executor, id string, delta int) (*models.Product, error) {
	var updated models.Product
	err := ex.write(ctx, func(st *storeState) error {
		idx := findProduct(st, id)
		if idx == -1 {
			return fmt.Errorf("%w: product %s", ErrNotFound, id)
		}
		updated = st.products[idx]
		if updated.Stock+delta < 0 {
			return fmt.Errorf("%w: product %s has %d, change %d", ErrNegativeStock, id, updated.Stock, delta)
		}
		updated.Stock += delta
		st.products[idx] = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *productRepository) Delete(ctx context.Context, ex Executor, id string) error {
	return ex.write(ctx, func(st *storeState) error {
		idx := findProduct(st, id)
		if idx == -1 {
			return fmt.Errorf("%w: product %s", ErrNotFound, id)
		}
		st.products = append(st.products[:idx], st.products[idx+1:]...)
		return nil
	})
}
