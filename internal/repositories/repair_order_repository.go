package repositories

import (
	"context"
	"fmt"

	"repairshop_backend/internal/models"
)

// RepairOrderRepository defines the record-store operations on repair orders.
// Orders are kept most recent first.
type RepairOrderRepository interface {
	GetAll(ctx context.Context, ex Executor) ([]models.RepairOrder, error)
	GetByID(ctx context.Context, ex Executor, id string) (*models.RepairOrder, error)
	Create(ctx context.Context, ex Executor, order models.RepairOrder) (*models.RepairOrder, error)
	Update(ctx context.Context, ex Executor, id string, patch models.Patch, validate func(*models.RepairOrder) error) (*models.RepairOrder, error)
	Mutate(ctx context.Context, ex Executor, id string, mutator func(*models.RepairOrder) error) (*models.RepairOrder, error)
	Delete(ctx context.Context, ex Executor, id string) error
}

type repairOrderRepository struct{}

// NewRepairOrderRepository creates a new instance of RepairOrderRepository.
func NewRepairOrderRepository() RepairOrderRepository {
	return &repairOrderRepository{}
}

func findRepairOrder(st *storeState, id string) int {
	for i := range st.repairOrders {
		if st.repairOrders[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *repairOrderRepository) GetAll(ctx context.Context, ex Executor) ([]models.RepairOrder, error) {
	var orders []models.RepairOrder
	err := ex.read(ctx, func(st *storeState) error {
		orders = make([]models.RepairOrder, len(st.repairOrders))
		for i, o := range st.repairOrders {
			orders[i] = o.Clone()
		}
		return nil
	})
	return orders, err
}

func (r *repairOrderRepository) GetByID(ctx context.Context, ex Executor, id string) (*models.RepairOrder, error) {
	var order models.RepairOrder
	err := ex.read(ctx, func(st *storeState) error {
		idx := findRepairOrder(st, id)
		if idx == -1 {
			return fmt.Errorf("%w: repair order %s", ErrNotFound, id)
		}
		order = st.repairOrders[idx].Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Create prepends the order with a fresh id.
func (r *repairOrderRepository) Create(ctx context.Context, ex Executor, order models.RepairOrder) (*models.RepairOrder, error) {
	order = order.Clone()
	order.ID = ex.NewID()
	err := ex.write(ctx, func(st *storeState) error {
		st.repairOrders = append([]models.RepairOrder{order.Clone()}, st.repairOrders...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Update merges patch onto the order, then hands it to validate before storing it.
func (r *repairOrderRepository) Update(ctx context.Context, ex Executor, id string, patch models.Patch, validate func(*models.RepairOrder) error) (*models.RepairOrder, error) {
	return r.Mutate(ctx, ex, id, func(order *models.RepairOrder) error {
		if err := MergePatch(order, patch); err != nil {
			return err
		}
		if validate != nil {
			return validate(order)
		}
		return nil
	})
}

// Mutate applies mutator to a copy of the order and stores the result if mutator succeeds.
func (r *repairOrderRepository) Mutate(ctx context.Context, ex Executor, id string, mutator func(*models.RepairOrder) error) (*models.RepairOrder, error) {
	var updated models.RepairOrder
	err := ex.write(ctx, func(st *storeState) error {
		idx := findRepairOrder(st, id)
		if idx == -1 {
			return fmt.Errorf("%w: repair order %s", ErrNotFound, id)
		}
		updated = st.repairOrders[idx].Clone()
		if err := mutator(&updated); err != nil {
			return err
		}
		updated.ID = id
		st.repairOrders[idx] = updated.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *repairOrderRepository) Delete(ctx context.Context, ex Executor, id string) error {
	return ex.write(ctx, func(st *storeState) error {
		idx := findRepairOrder(st, id)
		if idx == -1 {
			return fmt.Errorf("%w: repair order %s", ErrNotFound, id)
		}
		st.repairOrders = append(st.repairOrders[:idx], st.repairOrders[idx+1:]...)
		return nil
	})
}
