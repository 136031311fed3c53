package models

// ScoreUnknown marks a result that carries no usable demand score.
const ScoreUnknown = 0

// MaxBatchSize is the largest batch the scoring service accepts.
const MaxBatchSize = 50

// InputSummary echoes what the scoring service saw in the request.
type InputSummary struct {
	TotalTrainingAreas         int     `json:"total_training_areas"`
	VisionTrainingAvailable    bool    `json:"vision_training_available"`
	MobilityTrainingAvailable  bool    `json:"mobility_training_available"`
	TrainingCoveragePercentage float64 `json:"training_coverage_percentage"`
}

// PredictionResult is the typed outcome of a single prediction.
// DemandScore is 1..3, or ScoreUnknown.
type PredictionResult struct {
	DemandScore     int           `json:"demand_score"`
	DemandLevel     string        `json:"demand_level"`
	Confidence      float64       `json:"confidence"`
	Recommendations string        `json:"recommendations"`
	InputSummary    *InputSummary `json:"input_summary,omitempty"`
}

// BatchItem pairs one batch request position with its outcome.
// Exactly one of Result and Error is set.
type BatchItem struct {
	Index  int               `json:"index"`
	Result *PredictionResult `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// OK reports whether the service produced a prediction for this item.
func (b BatchItem) OK() bool { return b.Result != nil && b.Error == "" }

// BatchResult holds one item per request vector, in request order.
type BatchResult struct {
	Items []BatchItem `json:"items"`
}

// Failed returns the number of items the service could not score.
func (r BatchResult) Failed() int {
	n := 0
	for _, it := range r.Items {
		if !it.OK() {
			n++
		}
	}
	return n
}

// TestResult is the probe prediction reported by the health endpoint.
type TestResult struct {
	DemandScore int     `json:"demand_score"`
	Confidence  float64 `json:"confidence"`
}

// HealthStatus is the scoring service health report.
type HealthStatus struct {
	Status                   string      `json:"status"`
	ModelLoaded              bool        `json:"model_loaded"`
	TestPredictionSuccessful bool        `json:"test_prediction_successful,omitempty"`
	DemoMode                 bool        `json:"demo_mode,omitempty"`
	TestResult               *TestResult `json:"test_result,omitempty"`
	Error                    string      `json:"error,omitempty"`
}

// Healthy reports whether the service declared itself healthy.
func (h HealthStatus) Healthy() bool { return h.Status == "healthy" }

// ModelInfo describes the model behind the scoring service.
type ModelInfo struct {
	ModelType    string            `json:"model_type"`
	Features     []string          `json:"features"`
	FeatureCount int               `json:"feature_count"`
	Target       string            `json:"target"`
	APIInputs    []string          `json:"api_inputs"`
	DemandLevels map[string]string `json:"demand_levels"`
	Mission      string            `json:"mission,omitempty"`
}
