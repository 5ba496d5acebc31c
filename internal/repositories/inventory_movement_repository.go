package repositories

import (
	"context"

	"repairshop_backend/internal/models"
)

// InventoryMovementRepository defines the operations on the stock movement ledger.
type InventoryMovementRepository interface {
	CreateMovement(ctx context.Context, ex Executor, movement models.StockMovement) (*models.StockMovement, error)
	GetMovements(ctx context.Context, ex Executor, filters models.StockMovementFilters) ([]models.StockMovement, error)
}

type inventoryMovementRepository struct{}

// NewInventoryMovementRepository creates a new instance of InventoryMovementRepository.
func NewInventoryMovementRepository() InventoryMovementRepository {
	return &inventoryMovementRepository{}
}

func (r *inventoryMovementRepository) CreateMovement(ctx context.Context, ex Executor, movement models.StockMovement) (*models.StockMovement, error) {
	movement.ID = ex.NewID()
	if movement.MovementDate.IsZero() { // Default movement date to the operation time
		movement.MovementDate = ex.Now()
	}
	err := ex.write(ctx, func(st *storeState) error {
		st.movements = append(st.movements, movement)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &movement, nil
}

// GetMovements returns matching movements, most recent first.
func (r *inventoryMovementRepository) GetMovements(ctx context.Context, ex Executor, filters models.StockMovementFilters) ([]models.StockMovement, error) {
	movements := []models.StockMovement{}
	err := ex.read(ctx, func(st *storeState) error {
		for i := len(st.movements) - 1; i >= 0; i-- {
			mv := st.movements[i]
			if filters.ProductID != "" && mv.ProductID != filters.ProductID {
				continue
			}
			if filters.MovementType != "" && mv.MovementType != filters.MovementType {
				continue
			}
			movements = append(movements, mv)
		}
		return nil
	})
	return movements, err
}
