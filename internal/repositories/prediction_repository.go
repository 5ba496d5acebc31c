package repositories

import (
	"context"
	"fmt"

	"repairshop_backend/internal/models"
)

// PredictionRepository defines the record-store operations on restock predictions, keyed by product id.
type PredictionRepository interface {
	GetAll(ctx context.Context, ex Executor) ([]models.RestockPrediction, error)
	GetByProductID(ctx context.Context, ex Executor, productID string) (*models.RestockPrediction, error)
	Update(ctx context.Context, ex Executor, productID string, patch models.Patch, validate func(*models.RestockPrediction) error) (*models.RestockPrediction, error)
}

type predictionRepository struct{}

// NewPredictionRepository creates a new instance of PredictionRepository.
func NewPredictionRepository() PredictionRepository {
	return &predictionRepository{}
}

func findPrediction(st *storeState, productID string) int {
	for i := range st.predictions {
		if st.predictions[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (r *predictionRepository) GetAll(ctx context.Context, ex Executor) ([]models.RestockPrediction, error) {
	var predictions []models.RestockPrediction
	err := ex.read(ctx, func(st *storeState) error {
		predictions = append(make([]models.RestockPrediction, 0, len(st.predictions)), st.predictions...)
		return nil
	})
	return predictions, err
}

func (r *predictionRepository) GetByProductID(ctx context.Context, ex Executor, productID string) (*models.RestockPrediction, error) {
	var prediction models.RestockPrediction
	err := ex.read(ctx, func(st *storeState) error {
		idx := findPrediction(st, productID)
		if idx == -1 {
			return fmt.Errorf("%w: prediction for product %s", ErrNotFound, productID)
		}
		prediction = st.predictions[idx]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &prediction, nil
}

// Update merges patch onto the prediction; the product id cannot change.
func (r *predictionRepository) Update(ctx context.Context, ex Executor, productID string, patch models.Patch, validate func(*models.RestockPrediction) error) (*models.RestockPrediction, error) {
	var updated models.RestockPrediction
	err := ex.write(ctx, func(st *storeState) error {
		idx := findPrediction(st, productID)
		if idx == -1 {
			return fmt.Errorf("%w: prediction for product %s", ErrNotFound, productID)
		}
		updated = st.predictions[idx]
		if err := MergePatch(&updated, patch); err != nil {
			return err
		}
		updated.ProductID = productID
		if validate != nil {
			if err := validate(&updated); err != nil {
				return err
			}
		}
		st.predictions[idx] = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
