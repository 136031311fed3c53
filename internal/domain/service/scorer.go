package service

import (
	"context"

	"DemandCast/internal/domain/models"
)

// DemandScorer is the remote scoring service as seen by the application.
// Implementations return *failure.Failure values as errors.
type DemandScorer interface {
	Predict(ctx context.Context, v models.TrainingAvailabilityVector) (*models.PredictionResult, error)
	PredictBatch(ctx context.Context, vs []models.TrainingAvailabilityVector) (*models.BatchResult, error)
	Health(ctx context.Context) (*models.HealthStatus, error)
	ModelInfo(ctx context.Context) (*models.ModelInfo, error)
}

// Metrics records scoring activity.
type Metrics interface {
	RecordCall(op string, seconds float64)
	RecordFailure(op, kind string)
	RecordPrediction(level string)
}
