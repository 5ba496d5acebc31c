package models

// Confidence labels for restock predictions.
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)

// RestockPrediction is a suggested reorder for a product.
type RestockPrediction struct {
	ProductID       string  `json:"productId"`
	CurrentStock    int     `json:"currentStock"`
	PredictedDemand int     `json:"predictedDemand"`
	SuggestedOrder  int     `json:"suggestedOrder"`
	Confidence      float64 `json:"confidence"`
}

// ConfidenceLabel buckets a confidence value: High (>= 0.8), Medium (>= 0.6), Low otherwise.
func ConfidenceLabel(confidence float64) string {
	switch {
	case confidence >= 0.8:
		return ConfidenceHigh
	case confidence >= 0.6:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// RestockPredictionView is the API view of a prediction with its confidence label.
type RestockPredictionView struct {
	RestockPrediction
	ConfidenceLabel string `json:"confidenceLabel"`
}
