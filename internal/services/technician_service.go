package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"repairshop_backend/internal/models"
	"repairshop_backend/internal/repositories"
	"repairshop_backend/pkg/utils"
)

// --- Technician DTOs ---
type CreateTechnicianRequest struct {
	Name   string   `json:"name" binding:"required"`
	Skills []string `json:"skills"`
	Status string   `json:"status"`
}

// --- TechnicianService Interface ---
type TechnicianService interface {
	GetAll(ctx context.Context) ([]models.Technician, error)
	GetByID(ctx context.Context, id string) (*models.Technician, error)
	Create(ctx context.Context, req CreateTechnicianRequest) (*models.Technician, error)
	Update(ctx context.Context, id string, patch models.Patch) (*models.Technician, error)
	Delete(ctx context.Context, id string) error
	GetAvailableTechnicians(ctx context.Context) ([]models.Technician, error)
}

// --- technicianService Implementation ---
type technicianService struct {
	technicianRepo repositories.TechnicianRepository
	orderRepo      repositories.RepairOrderRepository
	store          *repositories.Store
}

// NewTechnicianService creates a new instance of TechnicianService.
func NewTechnicianService(tr repositories.TechnicianRepository, or repositories.RepairOrderRepository, store *repositories.Store) TechnicianService {
	return &technicianService{
		technicianRepo: tr,
		orderRepo:      or,
		store:          store,
	}
}

func validateTechnician(t *models.Technician) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return validationError("name is required")
	}
	if !models.IsValidTechnicianStatus(t.Status) {
		return validationError("unknown status %q", t.Status)
	}
	skills := make([]string, 0, len(t.Skills))
	for _, skill := range t.Skills {
		if skill = strings.TrimSpace(skill); skill != "" {
			skills = append(skills, skill)
		}
	}
	t.Skills = skills
	return nil
}

func (s *technicianService) GetAll(ctx context.Context) ([]models.Technician, error) {
	technicians, err := s.technicianRepo.GetAll(ctx, s.store)
	if err != nil {
		return nil, fmt.Errorf("failed to get technicians: %w", err)
	}
	return technicians, nil
}

// GetByID returns nil without error when no technician has id.
func (s *technicianService) GetByID(ctx context.Context, id string) (*models.Technician, error) {
	technician, err := s.technicianRepo.GetByID(ctx, s.store, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get technician: %w", err)
	}
	return technician, nil
}

func (s *technicianService) Create(ctx context.Context, req CreateTechnicianRequest) (*models.Technician, error) {
	technician := models.Technician{Name: req.Name, Skills: req.Skills, Status: req.Status}
	if technician.Status == "" {
		technician.Status = models.TechnicianAvailable
	}
	if err := validateTechnician(&technician); err != nil {
		return nil, err
	}
	created, err := s.technicianRepo.Create(ctx, s.store, technician)
	if err != nil {
		return nil, translateRepoError(err, ErrTechnicianNotFound)
	}
	return created, nil
}

func (s *technicianService) Update(ctx context.Context, id string, patch models.Patch) (*models.Technician, error) {
	updated, err := s.technicianRepo.Update(ctx, s.store, id, patch, validateTechnician)
	if err != nil {
		return nil, translateRepoError(err, ErrTechnicianNotFound)
	}
	return updated, nil
}

// Delete removes the technician and returns their orders to the unassigned pool.
func (s *technicianService) Delete(ctx context.Context, id string) error {
	released := 0
	err := s.store.RunInTransaction(ctx, func(tx *repositories.Tx) error {
		if err := s.technicianRepo.Delete(ctx, tx, id); err != nil {
			return err
		}
		orders, err := s.orderRepo.GetAll(ctx, tx)
		if err != nil {
			return err
		}
		for _, o := range orders {
			if !o.IsAssigned() || *o.AssignedTechnician != id {
				continue
			}
			_, err := s.orderRepo.Mutate(ctx, tx, o.ID, func(order *models.RepairOrder) error {
				order.AssignedTechnician = nil
				order.ScheduledDate = nil
				return nil
			})
			if err != nil {
				return err
			}
			released++
		}
		return nil
	})
	if err != nil {
		return translateRepoError(err, ErrTechnicianNotFound)
	}
	utils.LogInfo("Technician deleted", map[string]interface{}{"technician_id": id, "released_orders": released})
	return nil
}

func (s *technicianService) GetAvailableTechnicians(ctx context.Context) ([]models.Technician, error) {
	technicians, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	available := make([]models.Technician, 0)
	for _, t := range technicians {
		if t.Status == models.TechnicianAvailable {
			available = append(available, t)
		}
	}
	return available, nil
}
