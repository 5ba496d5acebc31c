package repositories

import (
	"context"
	"fmt"

	"repairshop_backend/internal/models"
)

// TechnicianRepository defines the record-store operations on technicians.
type TechnicianRepository interface {
	GetAll(ctx context.Context, ex Executor) ([]models.Technician, error)
	GetByID(ctx context.Context, ex Executor, id string) (*models.Technician, error)
	Create(ctx context.Context, ex Executor, technician models.Technician) (*models.Technician, error)
	Update(ctx context.Context, ex Executor, id string, patch models.Patch, validate func(*models.Technician) error) (*models.Technician, error)
	Delete(ctx context.Context, ex Executor, id string) error
}

type technicianRepository struct{}

// NewTechnicianRepository creates a new instance of TechnicianRepository.
func NewTechnicianRepository() TechnicianRepository {
	return &technicianRepository{}
}

func findTechnician(st *storeState, id string) int {
	for i := range st.technicians {
		if st.technicians[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *technicianRepository) GetAll(ctx context.Context, ex Executor) ([]models.Technician, error) {
	var technicians []models.Technician
	err := ex.read(ctx, func(st *storeState) error {
		technicians = make([]models.Technician, len(st.technicians))
		for i, t := range st.technicians {
			technicians[i] = t.Clone()
		}
		return nil
	})
	return technicians, err
}

func (r *technicianRepository) GetByID(ctx context.Context, ex Executor, id string) (*models.Technician, error) {
	var technician models.Technician
	err := ex.read(ctx, func(st *storeState) error {
		idx := findTechnician(st, id)
		if idx == -1 {
			return fmt.Errorf("%w: technician %s", ErrNotFound, id)
		}
		technician = st.technicians[idx].Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &technician, nil
}

// Create appends the technician with a fresh id.
func (r *technicianRepository) Create(ctx context.Context, ex Executor, technician models.Technician) (*models.Technician, error) {
	technician = technician.Clone()
	technician.ID = ex.NewID()
	err := ex.write(ctx, func(st *storeState) error {
		st.technicians = append(st.technicians, technician.Clone())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &technician, nil
}

func (r *technicianRepository) Update(ctx context.Context, ex Executor, id string, patch models.Patch, validate func(*models.Technician) error) (*models.Technician, error) {
	var updated models.Technician
	err := ex.write(ctx, func(st *storeState) error {
		idx := findTechnician(st, id)
		if idx == -1 {
			return fmt.Errorf("%w: technician %s", ErrNotFound, id)
		}
		updated = st.technicians[idx].Clone()
		if err := MergePatch(&updated, patch); err != nil {
			return err
		}
		updated.ID = id
		if validate != nil {
			if err := validate(&updated); err != nil {
				return err
			}
		}
		st.technicians[idx] = updated.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *technicianRepository) Delete(ctx context.Context, ex Executor, id string) error {
	return ex.write(ctx, func(st *storeState) error {
		idx := findTechnician(st, id)
		if idx == -1 {
			return fmt.Errorf("%w: technician %s", ErrNotFound, id)
		}
		st.technicians = append(st.technicians[:idx], st.technicians[idx+1:]...)
		return nil
	})
}
