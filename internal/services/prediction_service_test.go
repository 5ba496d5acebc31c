package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairshop_backend/internal/models"
	"repairshop_backend/internal/repositories"
)

func TestPredictionService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.store.ImportSnapshot(repositories.Snapshot{
		RestockPredictions: []models.RestockPrediction{
			{ProductID: "p1", CurrentStock: 2, PredictedDemand: 10, SuggestedOrder: 8, Confidence: 0.85},
			{ProductID: "p2", CurrentStock: 5, PredictedDemand: 6, SuggestedOrder: 1, Confidence: 0.6},
			{ProductID: "p3", CurrentStock: 9, PredictedDemand: 3, SuggestedOrder: 0, Confidence: 0.4},
		},
	})

	all, err := env.predictions.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, models.ConfidenceHigh, all[0].ConfidenceLabel)
	assert.Equal(t, models.ConfidenceMedium, all[1].ConfidenceLabel)
	assert.Equal(t, models.ConfidenceLow, all[2].ConfidenceLabel)

	generated, err := env.predictions.GeneratePredictions(ctx)
	require.NoError(t, err)
	assert.Equal(t, all, generated)

	updated, err := env.predictions.Update(ctx, "p3", models.Patch{"confidence": 0.9, "productId": "p9"})
	require.NoError(t, err)
	assert.Equal(t, "p3", updated.ProductID)
	assert.Equal(t, models.ConfidenceHigh, updated.ConfidenceLabel)

	_, err = env.predictions.Update(ctx, "p3", models.Patch{"confidence": 1.2})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = env.predictions.Update(ctx, "p404", models.Patch{"confidence": 0.5})
	assert.ErrorIs(t, err, ErrPredictionNotFound)

	missing, err := env.predictions.GetByProductID(ctx, "p404")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
