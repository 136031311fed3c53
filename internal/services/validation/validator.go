// Package validation checks training availability vectors before anything is
// sent to the scoring service.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"DemandCast/internal/domain/models"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonTagName)
}

// jsonTagName makes field errors use wire keys such as "self_care".
func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// Error reports the first invalid indicator of a vector.
type Error struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *Error) Error() string { return e.Message }

// InvalidField returns the offending key.
func (e *Error) InvalidField() string { return e.Field }

func newDomainError(field string, value interface{}) *Error {
	return &Error{Field: field, Value: value, Message: fmt.Sprintf("%s must be 0 or 1", field)}
}

// Validate accepts v only when every indicator is 0 or 1. Indicators are
// checked in declaration order and the first offender is reported.
func Validate(v models.TrainingAvailabilityVector) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return newDomainError(first.Field(), first.Value())
	}
	return fmt.Errorf("validate vector: %w", err)
}

// ValidateBatch validates each vector and the batch size limit.
func ValidateBatch(vs []models.TrainingAvailabilityVector) error {
	if len(vs) > models.MaxBatchSize {
		return &Error{
			Field:   "batch",
			Value:   len(vs),
			Message: fmt.Sprintf("batch size cannot exceed %d requests, got %d", models.MaxBatchSize, len(vs)),
		}
	}
	for i, v := range vs {
		if err := Validate(v); err != nil {
			var ve *Error
			if errors.As(err, &ve) {
				return &Error{
					Field:   ve.Field,
					Value:   ve.Value,
					Message: fmt.Sprintf("item %d: %s", i, ve.Message),
				}
			}
			return err
		}
	}
	return nil
}

// ParseVector builds a vector from a loosely-typed key/value mapping.
// All six keys must be present and no other key is allowed. Missing keys are
// reported in declaration order before unknown keys, which are sorted.
func ParseVector(values map[string]int) (models.TrainingAvailabilityVector, error) {
	var v models.TrainingAvailabilityVector
	for _, key := range models.IndicatorKeys {
		if _, ok := values[key]; !ok {
			return v, &Error{Field: key, Message: fmt.Sprintf("%s is required", key)}
		}
	}
	if len(values) > len(models.IndicatorKeys) {
		extra := make([]string, 0, len(values)-len(models.IndicatorKeys))
		for key := range values {
			if _, known := v.Value(key); !known {
				extra = append(extra, key)
			}
		}
		sort.Strings(extra)
		return v, &Error{Field: extra[0], Message: fmt.Sprintf("%s is not a recognised indicator", extra[0])}
	}

	v = models.TrainingAvailabilityVector{
		Cognition:     values[models.KeyCognition],
		Communication: values[models.KeyCommunication],
		Hearing:       values[models.KeyHearing],
		Mobility:      values[models.KeyMobility],
		SelfCare:      values[models.KeySelfCare],
		Vision:        values[models.KeyVision],
	}
	if err := Validate(v); err != nil {
		return models.TrainingAvailabilityVector{}, err
	}
	return v, nil
}
