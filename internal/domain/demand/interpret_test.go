package demand

import (
	"math"
	"testing"

	"DemandCast/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func TestClassifyScore(t *testing.T) {
	cases := map[int]Level{
		1:  LevelLow,
		2:  LevelMedium,
		3:  LevelHigh,
		0:  LevelUnknown,
		4:  LevelUnknown,
		-1: LevelUnknown,
		99: LevelUnknown,
	}
	for score, want := range cases {
		assert.Equal(t, want, ClassifyScore(score), "score %d", score)
	}
}

func TestClassifyScoreIsTotal(t *testing.T) {
	valid := map[Level]bool{LevelLow: true, LevelMedium: true, LevelHigh: true, LevelUnknown: true}
	for _, s := range []int{math.MinInt, -1000, -3, 0, 1, 2, 3, 4, 5, 1000, math.MaxInt} {
		assert.NotPanics(t, func() { ClassifyScore(s) })
		assert.True(t, valid[ClassifyScore(s)], "score %d", s)
	}
}

func TestDescribeConfidence(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1.0, ConfidenceVeryHigh},
		{0.95, ConfidenceVeryHigh},
		{0.9, ConfidenceVeryHigh},
		{0.89999, ConfidenceHigh},
		{0.847, ConfidenceHigh},
		{0.8, ConfidenceHigh},
		{0.79, ConfidenceMedium},
		{0.7, ConfidenceMedium},
		{0.69, ConfidenceLow},
		{0.65, ConfidenceLow},
		{0, ConfidenceLow},
		{math.NaN(), ConfidenceLow},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DescribeConfidence(c.in), "confidence %v", c.in)
	}
}

func TestDemandDescription(t *testing.T) {
	assert.Equal(t, "Low Demand", DemandDescription(1))
	assert.Equal(t, "Medium Demand", DemandDescription(2))
	assert.Equal(t, "High Demand", DemandDescription(3))
	assert.Equal(t, "Unknown Demand", DemandDescription(models.ScoreUnknown))
}

func TestCompleteKeepsServiceText(t *testing.T) {
	r := &models.PredictionResult{
		DemandScore:     2,
		DemandLevel:     "Medium",
		Confidence:      0.847,
		Recommendations: "Moderate demand expected. Consider targeted marketing.",
	}
	Complete(r)
	assert.Equal(t, "Medium", r.DemandLevel)
	assert.Equal(t, "Moderate demand expected. Consider targeted marketing.", r.Recommendations)
}

func TestCompleteFillsMissing(t *testing.T) {
	r := &models.PredictionResult{DemandScore: 3, Confidence: 0.75}
	Complete(r)
	assert.Equal(t, "High", r.DemandLevel)
	assert.Equal(t, Recommendation(3), r.Recommendations)

	Complete(nil)
}

func TestSummarize(t *testing.T) {
	v := models.TrainingAvailabilityVector{Cognition: 1, Communication: 1, Hearing: 1, SelfCare: 1}
	s := Summarize(v)
	assert.Equal(t, 4, s.TotalTrainingAreas)
	assert.False(t, s.VisionTrainingAvailable)
	assert.False(t, s.MobilityTrainingAvailable)
	assert.InDelta(t, 66.7, s.TrainingCoveragePercentage, 1e-9)
}
