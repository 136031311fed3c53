// Package failure classifies everything that can go wrong on the way to a
// demand prediction into a small closed set of kinds.
package failure

import (
	"errors"
	"fmt"
)

// Kind identifies a class of failure.
type Kind string

const (
	KindValidation         Kind = "ValidationError"
	KindValidationRejected Kind = "ValidationRejectedError"
	KindServiceUnavailable Kind = "ServiceUnavailableError"
	KindUnexpectedStatus   Kind = "UnexpectedStatusError"
	KindTimeout            Kind = "TimeoutError"
	KindNetwork            Kind = "NetworkError"
	KindMalformedResponse  Kind = "MalformedResponseError"
)

// Kinds lists every kind in the taxonomy.
var Kinds = []Kind{
	KindValidation,
	KindValidationRejected,
	KindServiceUnavailable,
	KindUnexpectedStatus,
	KindTimeout,
	KindNetwork,
	KindMalformedResponse,
}

// Retryable reports whether repeating the same request may succeed.
func (k Kind) Retryable() bool {
	switch k {
	case KindServiceUnavailable, KindUnexpectedStatus, KindTimeout, KindNetwork:
		return true
	default:
		return false
	}
}

// Code returns a stable machine code for the kind, e.g. "ERR_TIMEOUT".
func (k Kind) Code() string {
	switch k {
	case KindValidation:
		return "ERR_VALIDATION"
	case KindValidationRejected:
		return "ERR_VALIDATION_REJECTED"
	case KindServiceUnavailable:
		return "ERR_SERVICE_UNAVAILABLE"
	case KindUnexpectedStatus:
		return "ERR_UNEXPECTED_STATUS"
	case KindTimeout:
		return "ERR_TIMEOUT"
	case KindNetwork:
		return "ERR_NETWORK"
	case KindMalformedResponse:
		return "ERR_MALFORMED_RESPONSE"
	default:
		return "ERR_UNKNOWN"
	}
}

// Failure is a classified error surfaced to callers.
type Failure struct {
	Kind    Kind
	Message string
	// Field names the offending indicator for KindValidation.
	Field string
	// Status and Reason are set for failures derived from an HTTP response.
	Status int
	Reason string
	Err    error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Unwrap returns underlying error.
func (f *Failure) Unwrap() error { return f.Err }

// Retryable reports whether the caller may offer a retry.
func (f *Failure) Retryable() bool { return f.Kind.Retryable() }

// As returns the *Failure in err's chain, if any.
func As(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsKind reports whether err carries a Failure of kind k.
func IsKind(err error, k Kind) bool {
	f, ok := As(err)
	return ok && f.Kind == k
}

func Validation(field, message string) *Failure {
	return &Failure{Kind: KindValidation, Field: field, Message: message}
}

func ValidationRejected(message string) *Failure {
	return &Failure{Kind: KindValidationRejected, Message: message, Status: 422, Reason: "Unprocessable Entity"}
}

func ServiceUnavailable(reason string) *Failure {
	return &Failure{
		Kind:    KindServiceUnavailable,
		Message: "The scoring service failed to process the request. Try again later.",
		Status:  500,
		Reason:  reason,
	}
}

func UnexpectedStatus(status int, reason string) *Failure {
	return &Failure{
		Kind:    KindUnexpectedStatus,
		Message: fmt.Sprintf("The scoring service answered with unexpected status %d %s.", status, reason),
		Status:  status,
		Reason:  reason,
	}
}

func Timeout(err error) *Failure {
	return &Failure{Kind: KindTimeout, Message: "The scoring service did not answer in time.", Err: err}
}

func Network(message string, err error) *Failure {
	return &Failure{Kind: KindNetwork, Message: message, Err: err}
}

func MalformedResponse(err error) *Failure {
	return &Failure{Kind: KindMalformedResponse, Message: "The scoring service returned a response that could not be read.", Err: err}
}
