package services

import (
	"context"
	"errors"
	"fmt"

	"repairshop_backend/internal/models"
	"repairshop_backend/internal/repositories"
)

// --- PredictionService Interface ---
type PredictionService interface {
	GetAll(ctx context.Context) ([]models.RestockPredictionView, error)
	GetByProductID(ctx context.Context, productID string) (*models.RestockPredictionView, error)
	GeneratePredictions(ctx context.Context) ([]models.RestockPredictionView, error)
	Update(ctx context.Context, productID string, patch models.Patch) (*models.RestockPredictionView, error)
}

// --- predictionService Implementation ---
type predictionService struct {
	predictionRepo repositories.PredictionRepository
	store          *repositories.Store
}

// NewPredictionService creates a new instance of PredictionService.
func NewPredictionService(pr repositories.PredictionRepository, store *repositories.Store) PredictionService {
	return &predictionService{predictionRepo: pr, store: store}
}

func toPredictionView(p models.RestockPrediction) models.RestockPredictionView {
	return models.RestockPredictionView{RestockPrediction: p, ConfidenceLabel: models.ConfidenceLabel(p.Confidence)}
}

func validatePrediction(p *models.RestockPrediction) error {
	switch {
	case p.Confidence < 0 || p.Confidence > 1:
		return validationError("confidence must be between 0 and 1")
	case p.CurrentStock < 0, p.PredictedDemand < 0, p.SuggestedOrder < 0:
		return validationError("stock, demand and suggested order cannot be negative")
	}
	return nil
}

func (s *predictionService) GetAll(ctx context.Context) ([]models.RestockPredictionView, error) {
	predictions, err := s.predictionRepo.GetAll(ctx, s.store)
	if err != nil {
		return nil, fmt.Errorf("failed to get restock predictions: %w", err)
	}
	views := make([]models.RestockPredictionView, len(predictions))
	for i, p := range predictions {
		views[i] = toPredictionView(p)
	}
	return views, nil
}

// GetByProductID returns nil without error when the product has no prediction.
func (s *predictionService) GetByProductID(ctx context.Context, productID string) (*models.RestockPredictionView, error) {
	prediction, err := s.predictionRepo.GetByProductID(ctx, s.store, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get restock prediction: %w", err)
	}
	view := toPredictionView(*prediction)
	return &view, nil
}

// GeneratePredictions returns the stored predictions unchanged; no forecasting model backs it yet.
func (s *predictionService) GeneratePredictions(ctx context.Context) ([]models.RestockPredictionView, error) {
	return s.GetAll(ctx)
}

func (s *predictionService) Update(ctx context.Context, productID string, patch models.Patch) (*models.RestockPredictionView, error) {
	updated, err := s.predictionRepo.Update(ctx, s.store, productID, patch, validatePrediction)
	if err != nil {
		return nil, translateRepoError(err, ErrPredictionNotFound)
	}
	view := toPredictionView(*updated)
	return &view, nil
}
