package models

// Requests and responses of the gateway HTTP endpoints.

// PredictRequest carries the six training-availability answers of the form.
// Pointers make a missing answer distinguishable from "No".
type PredictRequest struct {
	Cognition     *bool `json:"cognition" validate:"required"`
	Communication *bool `json:"communication" validate:"required"`
	Hearing       *bool `json:"hearing" validate:"required"`
	Mobility      *bool `json:"mobility" validate:"required"`
	SelfCare      *bool `json:"self_care" validate:"required"`
	Vision        *bool `json:"vision" validate:"required"`
}

// Vector converts the answers; call only after validation.
func (r PredictRequest) Vector() TrainingAvailabilityVector {
	return NewVectorFromFlags(*r.Cognition, *r.Communication, *r.Hearing, *r.Mobility, *r.SelfCare, *r.Vision)
}

type BatchPredictRequest struct {
	Items []PredictRequest `json:"items" validate:"required,dive"`
	// Mode "each" scores items with independent calls instead of the batch endpoint.
	Mode string `json:"mode" default:"batch" validate:"oneof=batch each"`
}

// Vectors converts every item; call only after validation.
func (r BatchPredictRequest) Vectors() []TrainingAvailabilityVector {
	vs := make([]TrainingAvailabilityVector, len(r.Items))
	for i, it := range r.Items {
		vs[i] = it.Vector()
	}
	return vs
}

type PredictResponse struct {
	*PredictionResult
	DemandDescription string `json:"demand_description"`
	ConfidenceLabel   string `json:"confidence_label"`
}

type BatchPredictResponse struct {
	Items  []BatchItem `json:"items"`
	Failed int         `json:"failed"`
}

type DescribeResponse struct {
	DemandScore       int      `json:"demand_score"`
	DemandLevel       string   `json:"demand_level"`
	DemandDescription string   `json:"demand_description"`
	Recommendations   string   `json:"recommendations"`
	Confidence        *float64 `json:"confidence,omitempty"`
	ConfidenceLabel   string   `json:"confidence_label,omitempty"`
}
