package scoring

import "DemandCast/internal/domain/models"

// WireRequest is the JSON body of POST /predict and one element of
// POST /predict-batch.
type WireRequest struct {
	Cognition     int `json:"cognition"`
	Communication int `json:"communication"`
	Hearing       int `json:"hearing"`
	Mobility      int `json:"mobility"`
	SelfCare      int `json:"self_care"`
	Vision        int `json:"vision"`
}

// Encode maps a validated vector onto the wire shape.
func Encode(v models.TrainingAvailabilityVector) WireRequest {
	return WireRequest{
		Cognition:     v.Cognition,
		Communication: v.Communication,
		Hearing:       v.Hearing,
		Mobility:      v.Mobility,
		SelfCare:      v.SelfCare,
		Vision:        v.Vision,
	}
}

// EncodeBatch encodes vs in order. Duplicates are kept.
func EncodeBatch(vs []models.TrainingAvailabilityVector) []WireRequest {
	out := make([]WireRequest, 0, len(vs))
	for _, v := range vs {
		out = append(out, Encode(v))
	}
	return out
}

// Decode is the inverse of Encode.
func Decode(w WireRequest) models.TrainingAvailabilityVector {
	return models.TrainingAvailabilityVector{
		Cognition:     w.Cognition,
		Communication: w.Communication,
		Hearing:       w.Hearing,
		Mobility:      w.Mobility,
		SelfCare:      w.SelfCare,
		Vision:        w.Vision,
	}
}

// wirePrediction is the 200 body of POST /predict. Pointer fields let the
// decoder tell a missing field from a zero value.
type wirePrediction struct {
	DemandScore     *int                 `json:"demand_score"`
	DemandLevel     string               `json:"demand_level"`
	Confidence      *float64             `json:"confidence"`
	Recommendations string               `json:"recommendations"`
	InputSummary    *models.InputSummary `json:"input_summary"`
}

// wireBatchItem is one entry of batch_results. Entries either carry a
// prediction or an error.
type wireBatchItem struct {
	Index       *int     `json:"index"`
	DemandScore *int     `json:"demand_score"`
	DemandLevel string   `json:"demand_level"`
	Confidence  *float64 `json:"confidence"`
	Error       string   `json:"error"`
}

type wireBatchResponse struct {
	BatchResults *[]wireBatchItem `json:"batch_results"`
}
