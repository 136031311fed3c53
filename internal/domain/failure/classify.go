package failure

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/url"
	"strings"

	xhttp "DemandCast/pkg/http"
)

const genericRejection = "The scoring service rejected the input. Check that all training values are 0 (No) or 1 (Yes)."

// invalidInput is implemented by local validation errors.
type invalidInput interface {
	error
	InvalidField() string
}

// Classify maps err onto the taxonomy. It returns nil for a nil error and
// never inspects error text to decide the kind.
func Classify(err error) *Failure {
	if err == nil {
		return nil
	}

	if f, ok := As(err); ok {
		return f
	}

	var inv invalidInput
	if errors.As(err, &inv) {
		f := Validation(inv.InvalidField(), inv.Error())
		f.Err = err
		return f
	}

	var se *xhttp.StatusError
	if errors.As(err, &se) {
		return classifyStatus(se)
	}

	var de *xhttp.DecodeError
	if errors.As(err, &de) {
		return MalformedResponse(err)
	}

	if isTimeout(err) {
		return Timeout(err)
	}

	if errors.Is(err, context.Canceled) {
		return Network("The request was cancelled before the scoring service answered.", err)
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return Network("The scoring service host could not be resolved.", err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return Network("Could not connect to the scoring service.", err)
	}

	return Network("The scoring service could not be reached.", err)
}

func classifyStatus(se *xhttp.StatusError) *Failure {
	var f *Failure
	switch se.StatusCode {
	case 422:
		f = ValidationRejected(rejectionDetail(se.Body))
	case 500:
		f = ServiceUnavailable(se.Reason)
	default:
		f = UnexpectedStatus(se.StatusCode, se.Reason)
	}
	f.Err = se
	return f
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// rejectionDetail pulls the human-readable reason out of a 422 body. The
// scoring service sends {"details": "..."}; plain FastAPI sends {"detail": [...]}.
func rejectionDetail(body []byte) string {
	var payload struct {
		Details json.RawMessage `json:"details"`
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if len(body) == 0 || json.Unmarshal(body, &payload) != nil {
		return genericRejection
	}
	if s := rawText(payload.Details); s != "" {
		return s
	}
	if s := rawText(payload.Detail); s != "" {
		return s
	}
	if s := strings.TrimSpace(payload.Message); s != "" {
		return s
	}
	return genericRejection
}

// rawText renders a detail value that is either a string or a list of
// {"loc": [...], "msg": "..."} entries.
func rawText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}
	var items []struct {
		Loc []interface{} `json:"loc"`
		Msg string        `json:"msg"`
	}
	if json.Unmarshal(raw, &items) != nil {
		return ""
	}
	msgs := make([]string, 0, len(items))
	for _, it := range items {
		if it.Msg == "" {
			continue
		}
		if n := len(it.Loc); n > 0 {
			if field, ok := it.Loc[n-1].(string); ok {
				msgs = append(msgs, field+": "+it.Msg)
				continue
			}
		}
		msgs = append(msgs, it.Msg)
	}
	return strings.Join(msgs, "; ")
}
