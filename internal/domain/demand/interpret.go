// Package demand turns scoring-service numbers into the labels and texts shown
// to users. Everything here is pure and safe for cached or historical results.
package demand

import (
	"math"

	"DemandCast/internal/domain/models"
)

// Level is a discrete demand classification.
type Level string

const (
	LevelLow     Level = "Low"
	LevelMedium  Level = "Medium"
	LevelHigh    Level = "High"
	LevelUnknown Level = "Unknown"
)

// Confidence labels, highest band first.
const (
	ConfidenceVeryHigh = "Very High Confidence"
	ConfidenceHigh     = "High Confidence"
	ConfidenceMedium   = "Medium Confidence"
	ConfidenceLow      = "Low Confidence"
)

const (
	recommendLow     = "Market shows low demand. Focus on awareness and education programs."
	recommendMedium  = "Moderate demand expected. Consider targeted marketing and partnerships."
	recommendHigh    = "High demand potential! Prioritize manufacturing and distribution in this region."
	recommendUnknown = "Demand could not be determined. Review the input and try again."
)

// ClassifyScore maps a demand score to its level. Any score outside 1..3
// yields LevelUnknown.
func ClassifyScore(score int) Level {
	switch score {
	case 1:
		return LevelLow
	case 2:
		return LevelMedium
	case 3:
		return LevelHigh
	default:
		return LevelUnknown
	}
}

// DescribeConfidence labels a confidence value. Band boundaries belong to the
// higher band. NaN is reported as low confidence.
func DescribeConfidence(confidence float64) string {
	switch {
	case math.IsNaN(confidence):
		return ConfidenceLow
	case confidence >= 0.9:
		return ConfidenceVeryHigh
	case confidence >= 0.8:
		return ConfidenceHigh
	case confidence >= 0.7:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// DemandDescription returns the display label for a score, e.g. "High Demand".
func DemandDescription(score int) string {
	return string(ClassifyScore(score)) + " Demand"
}

// Recommendation returns the business recommendation for a score.
func Recommendation(score int) string {
	switch ClassifyScore(score) {
	case LevelLow:
		return recommendLow
	case LevelMedium:
		return recommendMedium
	case LevelHigh:
		return recommendHigh
	default:
		return recommendUnknown
	}
}

// Complete fills the level and recommendation of r when the service left them
// empty. Values supplied by the service are kept as they are.
func Complete(r *models.PredictionResult) {
	if r == nil {
		return
	}
	if r.DemandLevel == "" {
		r.DemandLevel = string(ClassifyScore(r.DemandScore))
	}
	if r.Recommendations == "" {
		r.Recommendations = Recommendation(r.DemandScore)
	}
}

// Summarize computes the input summary the service reports for v.
func Summarize(v models.TrainingAvailabilityVector) models.InputSummary {
	total := v.Total()
	pct := math.Round(float64(total)/float64(len(models.IndicatorKeys))*1000) / 10
	return models.InputSummary{
		TotalTrainingAreas:         total,
		VisionTrainingAvailable:    v.Vision == 1,
		MobilityTrainingAvailable:  v.Mobility == 1,
		TrainingCoveragePercentage: pct,
	}
}
