package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"repairshop_backend/internal/models"
	"repairshop_backend/internal/repositories"
	"repairshop_backend/pkg/utils"
)

// --- Product DTOs ---
type CreateProductRequest struct {
	SKU            string          `json:"sku" binding:"required"`
	Name           string          `json:"name" binding:"required"`
	Category       string          `json:"category"`
	Price          decimal.Decimal `json:"price"`
	Cost           decimal.Decimal `json:"cost"`
	Stock          int             `json:"stock"`
	MinStock       int             `json:"minStock"`
	WarrantyMonths int             `json:"warrantyMonths"`
}

// AdjustStockRequest changes a product stock by Delta (negative to remove).
type AdjustStockRequest struct {
	Delta  int    `json:"delta"`
	Reason string `json:"reason"`
}

// --- ProductService Interface ---
type ProductService interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	Search(ctx context.Context, filters models.ProductFilters) ([]models.ProductWithLevel, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, req CreateProductRequest) (*models.Product, error)
	Update(ctx context.Context, id string, patch models.Patch) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	UpdateStock(ctx context.Context, id string, req AdjustStockRequest) (*models.Product, error)
	GetLowStockProducts(ctx context.Context) ([]models.Product, error)
	GetCategories(ctx context.Context) ([]string, error)
	GetMovements(ctx context.Context, filters models.StockMovementFilters) ([]models.StockMovement, error)
}

// --- productService Implementation ---
type productService struct {
	productRepo  repositories.ProductRepository
	movementRepo repositories.InventoryMovementRepository
	store        *repositories.Store
	events       *Events
}

// NewProductService creates a new instance of ProductService.
func NewProductService(
	pr repositories.ProductRepository,
	mr repositories.InventoryMovementRepository,
	store *repositories.Store,
	events *Events,
) ProductService {
	return &productService{
		productRepo:  pr,
		movementRepo: mr,
		store:        store,
		events:       events,
	}
}

func validateProduct(p *models.Product) error {
	p.SKU = strings.TrimSpace(p.SKU)
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	switch {
	case p.SKU == "":
		return validationError("sku is required")
	case p.Name == "":
		return validationError("name is required")
	case p.Price.IsNegative():
		return validationError("price cannot be negative")
	case p.Cost.IsNegative():
		return validationError("cost cannot be negative")
	case p.Stock < 0:
		return validationError("stock cannot be negative")
	case p.MinStock < 0:
		return validationError("minStock cannot be negative")
	case p.WarrantyMonths < 0:
		return validationError("warrantyMonths cannot be negative")
	}
	return nil
}

func (s *productService) GetAll(ctx context.Context) ([]models.Product, error) {
	products, err := s.productRepo.GetAll(ctx, s.store)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return products, nil
}

// Search matches the query against name, sku and category, then applies the
// category and stock filters ("low" = at or below minimum, "out" = zero).
func (s *productService) Search(ctx context.Context, filters models.ProductFilters) ([]models.ProductWithLevel, error) {
	products, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	query := strings.TrimSpace(filters.Query)
	result := make([]models.ProductWithLevel, 0, len(products))
	for _, p := range products {
		if query != "" && !utils.ContainsFold(p.Name, query) && !utils.ContainsFold(p.SKU, query) && !utils.ContainsFold(p.Category, query) {
			continue
		}
		if filters.Category != "" && filters.Category != "all" && !strings.EqualFold(p.Category, filters.Category) {
			continue
		}
		switch filters.Stock {
		case "low":
			if !p.IsLowStock() {
				continue
			}
		case "out":
			if p.Stock != 0 {
				continue
			}
		}
		result = append(result, models.ProductWithLevel{Product: p, StockLevel: p.Level()})
	}
	return result, nil
}

// GetByID returns nil without error when no product has id.
func (s *productService) GetByID(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, s.store, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (s *productService) Create(ctx context.Context, req CreateProductRequest) (*models.Product, error) {
	product := models.Product{
		SKU:            req.SKU,
		Name:           req.Name,
		Category:       req.Category,
		Price:          req.Price,
		Cost:           req.Cost,
		Stock:          req.Stock,
		MinStock:       req.MinStock,
		WarrantyMonths: req.WarrantyMonths,
	}
	if err := validateProduct(&product); err != nil {
		return nil, err
	}
	created, err := s.productRepo.Create(ctx, s.store, product)
	if err != nil {
		return nil, translateRepoError(err, ErrProductNotFound)
	}
	utils.LogInfo("Product created", map[string]interface{}{"product_id": created.ID, "sku": created.SKU})
	s.events.PublishLowStock(*created)
	return created, nil
}

func (s *productService) Update(ctx context.Context, id string, patch models.Patch) (*models.Product, error) {
	before, err := s.productRepo.GetByID(ctx, s.store, id)
	if err != nil {
		return nil, translateRepoError(err, ErrProductNotFound)
	}
	updated, err := s.productRepo.Update(ctx, s.store, id, patch, validateProduct)
	if err != nil {
		return nil, translateRepoError(err, ErrProductNotFound)
	}
	if updated.Stock < before.Stock {
		s.events.PublishLowStock(*updated)
	}
	return updated, nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	if err := s.productRepo.Delete(ctx, s.store, id); err != nil {
		return translateRepoError(err, ErrProductNotFound)
	}
	utils.LogInfo("Product deleted", map[string]interface{}{"product_id": id})
	return nil
}

// UpdateStock applies the delta and records an adjustment movement in one transaction.
func (s *productService) UpdateStock(ctx context.Context, id string, req AdjustStockRequest) (*models.Product, error) {
	var updated *models.Product
	err := s.store.RunInTransaction(ctx, func(tx *repositories.Tx) error {
		var err error
		updated, err = s.productRepo.UpdateStock(ctx, tx, id, req.Delta)
		if err != nil {
			return err
		}
		_, err = s.movementRepo.CreateMovement(ctx, tx, models.StockMovement{
			ProductID:       id,
			MovementType:    models.MovementTypeAdjustment,
			QuantityChanged: req.Delta,
			StockAfter:      updated.Stock,
			Reference:       strings.TrimSpace(req.Reason),
		})
		return err
	})
	if err != nil {
		return nil, translateRepoError(err, ErrProductNotFound)
	}
	if req.Delta < 0 {
		s.events.PublishLowStock(*updated)
	}
	return updated, nil
}

// GetLowStockProducts returns products whose stock is at or below their minimum.
func (s *productService) GetLowStockProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]models.Product, 0)
	for _, p := range products {
		if p.IsLowStock() {
			low = append(low, p)
		}
	}
	return low, nil
}

// GetCategories returns the distinct product categories, sorted.
func (s *productService) GetCategories(ctx context.Context) ([]string, error) {
	products, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

func (s *productService) GetMovements(ctx context.Context, filters models.StockMovementFilters) ([]models.StockMovement, error) {
	movements, err := s.movementRepo.GetMovements(ctx, s.store, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get stock movements: %w", err)
	}
	return movements, nil
}
