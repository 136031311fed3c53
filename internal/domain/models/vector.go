package models

// Indicator keys in their fixed declaration order.
const (
	KeyCognition     = "cognition"
	KeyCommunication = "communication"
	KeyHearing       = "hearing"
	KeyMobility      = "mobility"
	KeySelfCare      = "self_care"
	KeyVision        = "vision"
)

// IndicatorKeys lists the six training indicators in declaration order.
// Validation and error reporting iterate in this order.
var IndicatorKeys = []string{
	KeyCognition,
	KeyCommunication,
	KeyHearing,
	KeyMobility,
	KeySelfCare,
	KeyVision,
}

// TrainingAvailabilityVector describes which assistive-technology training
// categories are available in a region. Each value is 0 (No) or 1 (Yes).
// It is built at submit time and passed by value.
type TrainingAvailabilityVector struct {
	Cognition     int `json:"cognition" validate:"oneof=0 1"`
	Communication int `json:"communication" validate:"oneof=0 1"`
	Hearing       int `json:"hearing" validate:"oneof=0 1"`
	Mobility      int `json:"mobility" validate:"oneof=0 1"`
	SelfCare      int `json:"self_care" validate:"oneof=0 1"`
	Vision        int `json:"vision" validate:"oneof=0 1"`
}

// NewVectorFromFlags builds a vector from six booleans, as supplied by a form.
func NewVectorFromFlags(cognition, communication, hearing, mobility, selfCare, vision bool) TrainingAvailabilityVector {
	return TrainingAvailabilityVector{
		Cognition:     flag(cognition),
		Communication: flag(communication),
		Hearing:       flag(hearing),
		Mobility:      flag(mobility),
		SelfCare:      flag(selfCare),
		Vision:        flag(vision),
	}
}

// Value returns the indicator value for key and whether key is known.
func (v TrainingAvailabilityVector) Value(key string) (int, bool) {
	switch key {
	case KeyCognition:
		return v.Cognition, true
	case KeyCommunication:
		return v.Communication, true
	case KeyHearing:
		return v.Hearing, true
	case KeyMobility:
		return v.Mobility, true
	case KeySelfCare:
		return v.SelfCare, true
	case KeyVision:
		return v.Vision, true
	default:
		return 0, false
	}
}

// Total returns the number of training areas marked available.
func (v TrainingAvailabilityVector) Total() int {
	return v.Cognition + v.Communication + v.Hearing + v.Mobility + v.SelfCare + v.Vision
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
