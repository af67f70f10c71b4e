package chat

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/undrstnd-labs/undrstnd-go/wire"
)

// ErrRetriesExhausted wraps the last failure after every attempt was used.
var ErrRetriesExhausted = errors.New("chat: max retries exceeded")

// APICallError is a failed exchange with the API: a non-2xx status.
type APICallError struct {
	Message      string
	URL          string
	StatusCode   int
	ResponseBody []byte
	IsRetryable  bool
	// Data is the decoded vendor error. It is nil when the body did not match the schema.
	Data *wire.ErrorData
	// Cause is the schema mismatch when Data is nil.
	Cause error
}

func (e *APICallError) Error() string {
	return fmt.Sprintf("chat: %s (status %d)", e.Message, e.StatusCode)
}

func (e *APICallError) Unwrap() error { return e.Cause }

// newAPICallError runs body through the vendor error decoder. A body that does not
// match the schema falls back to the status text.
func newAPICallError(url string, status int, body []byte) *APICallError {
	e := &APICallError{
		URL:          url,
		StatusCode:   status,
		ResponseBody: body,
		IsRetryable:  isRetryableStatus(status),
	}
	data, err := wire.DecodeError(body)
	if err != nil {
		e.Cause = err
		e.Message = http.StatusText(status)
		if e.Message == "" {
			e.Message = fmt.Sprintf("HTTP %d", status)
		}
		return e
	}
	e.Data = &data
	e.Message = wire.ErrorMessage(data)
	return e
}

func isRetryableStatus(status int) bool {
	switch {
	case status == http.StatusRequestTimeout, status == http.StatusConflict, status == http.StatusTooManyRequests:
		return true
	case status >= 500 && status <= 599:
		return true
	default:
		return false
	}
}
