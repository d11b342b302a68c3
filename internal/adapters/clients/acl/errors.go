package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jsamuelsen/derdiedas/internal/adapters/clients"
	"github.com/jsamuelsen/derdiedas/internal/domain"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Failure builds the domain error an adapter reports for a failed call,
// e.g. domain.NewTranslationUnavailableError or domain.NewModelUnavailableError.
type Failure func(backend, reason string) error

// ErrorResponse is the error body of the supported backends. LibreTranslate
// and UDPipe send {"error": "message"}; Google sends
// {"error": {"code": 400, "message": "..."}}.
type ErrorResponse struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message,omitempty"`
}

// ErrorDetail is the nested error object used by Google APIs.
type ErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}

// GetMessage returns the error message from whichever format was sent.
func (e *ErrorResponse) GetMessage() string {
	if len(e.Error) > 0 {
		var text string
		if json.Unmarshal(e.Error, &text) == nil && text != "" {
			return text
		}

		var detail ErrorDetail
		if json.Unmarshal(e.Error, &detail) == nil && detail.Message != "" {
			return detail.Message
		}
	}

	return e.Message
}

// ParseErrorResponse attempts to parse an error response body.
// Returns nil if the body is empty or cannot be parsed.
func ParseErrorResponse(body io.Reader) *ErrorResponse {
	if body == nil {
		return nil
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&errResp); err != nil {
		return nil
	}

	if errResp.GetMessage() == "" {
		return nil
	}

	return &errResp
}

// MapHTTPError maps a failed call to a domain error built by fail.
// This function handles:
//   - Client-level errors (circuit breaker, retries exhausted, transport)
//   - HTTP status codes, with the error body message when there is one
//
// Cancellation by the caller is returned unchanged so it is not reported as
// a backend outage.
func MapHTTPError(resp *http.Response, clientErr error, backend, operation string, fail Failure) error {
	if clientErr != nil {
		return mapClientError(clientErr, backend, operation, fail)
	}

	if resp == nil {
		return fail(backend, "no response received")
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	message := defaultMessageForStatus(resp.StatusCode, operation)
	if errResp := ParseErrorResponse(resp.Body); errResp != nil {
		message = strings.TrimSpace(errResp.GetMessage())
	}

	return fail(backend, fmt.Sprintf("%s: HTTP %d: %s", operation, resp.StatusCode, message))
}

// mapClientError translates client-level errors to domain errors.
func mapClientError(err error, backend, operation string, fail Failure) error {
	switch {
	case errors.Is(err, context.Canceled):
		return err

	case errors.Is(err, clients.ErrCircuitOpen):
		return fail(backend, fmt.Sprintf("circuit breaker open during %s", operation))

	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		if code := clients.StatusCode(err); code != 0 {
			return fail(backend, fmt.Sprintf("%s: HTTP %d after retries", operation, code))
		}

		return fail(backend, fmt.Sprintf("max retries exceeded during %s", operation))

	default:
		return fail(backend, fmt.Sprintf("%s failed: %v", operation, err))
	}
}

// defaultMessageForStatus returns a default message for an HTTP status.
func defaultMessageForStatus(status int, operation string) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid request"
	case http.StatusUnauthorized, http.StatusForbidden:
		return "invalid or missing API key"
	case http.StatusNotFound:
		return "endpoint or model not found"
	case http.StatusTooManyRequests:
		return "rate limit exceeded"
	case http.StatusServiceUnavailable:
		return "service temporarily unavailable"
	default:
		return fmt.Sprintf("%s failed with status %d", operation, status)
	}
}

// TranslationFailure reports failures as domain.ErrTranslationUnavailable.
func TranslationFailure(backend, reason string) error {
	return domain.NewTranslationUnavailableError(backend, reason)
}

// ModelFailure reports failures as domain.ErrModelUnavailable.
func ModelFailure(backend, reason string) error {
	return domain.NewModelUnavailableError(backend, reason)
}
