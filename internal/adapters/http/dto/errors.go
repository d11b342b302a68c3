// Package dto holds the JSON and form shapes of the HTTP API, their
// validation, and the error envelope.
package dto

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/derdiedas/internal/domain"
	"github.com/jsamuelsen/derdiedas/internal/platform/logging"
)

// ErrorResponse is the standard error envelope for all JSON error responses.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	// Code is a machine-readable error code (e.g., "MODEL_UNAVAILABLE").
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// Details holds field-level messages for validation errors.
	Details map[string]string `json:"details,omitempty"`
}

// Error codes for machine-readable error identification.
const (
	ErrorCodeValidation             = "VALIDATION_ERROR"
	ErrorCodeBadRequest             = "BAD_REQUEST"
	ErrorCodeNotFound               = "NOT_FOUND"
	ErrorCodePayloadTooLarge        = "PAYLOAD_TOO_LARGE"
	ErrorCodeModelUnavailable       = "MODEL_UNAVAILABLE"
	ErrorCodeTranslationUnavailable = "TRANSLATION_UNAVAILABLE"
	ErrorCodeUnavailable            = "SERVICE_UNAVAILABLE"
	ErrorCodeTimeout                = "TIMEOUT"
	ErrorCodeInternal               = "INTERNAL_ERROR"
)

// NewErrorResponse creates a new error response with the given code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithDetails creates an error response with field details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	resp := NewErrorResponse(code, message)
	resp.Error.Details = details

	return resp
}

// WithTraceID adds a trace ID to the error response.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

var statusByCode = map[string]int{
	ErrorCodeValidation:             http.StatusBadRequest,
	ErrorCodeBadRequest:             http.StatusBadRequest,
	ErrorCodeNotFound:               http.StatusNotFound,
	ErrorCodePayloadTooLarge:        http.StatusRequestEntityTooLarge,
	ErrorCodeModelUnavailable:       http.StatusServiceUnavailable,
	ErrorCodeTranslationUnavailable: http.StatusServiceUnavailable,
	ErrorCodeUnavailable:            http.StatusServiceUnavailable,
	ErrorCodeTimeout:                http.StatusGatewayTimeout,
}

// HTTPStatusFromCode maps an error code to its HTTP status. Unknown codes
// are 500.
func HTTPStatusFromCode(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}

	return http.StatusInternalServerError
}

// errorRule maps errors matching match onto code. An empty message keeps
// err.Error() as the client-facing message.
type errorRule struct {
	match   func(error) bool
	code    string
	message string
}

// errorRules are checked in order and the first match wins. The specific
// unavailable codes precede the generic one.
var errorRules = []errorRule{
	{match: domain.IsValidation, code: ErrorCodeValidation},
	{match: isMaxBytes, code: ErrorCodePayloadTooLarge, message: "request body too large"},
	{match: domain.IsModelUnavailable, code: ErrorCodeModelUnavailable},
	{match: domain.IsTranslationUnavailable, code: ErrorCodeTranslationUnavailable},
	{match: domain.IsUnavailable, code: ErrorCodeUnavailable},
	{
		match:   func(err error) bool { return errors.Is(err, context.DeadlineExceeded) },
		code:    ErrorCodeTimeout,
		message: "request timeout exceeded",
	},
}

func isMaxBytes(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr)
}

// MapError maps err to a status and envelope. Errors no rule matches become
// a 500 with a generic message so internals do not leak.
func MapError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	for _, rule := range errorRules {
		if !rule.match(err) {
			continue
		}

		resp := NewErrorResponse(rule.code, cmp.Or(rule.message, err.Error()))

		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) && validationErr.Field != "" {
			resp.Error.Details = map[string]string{validationErr.Field: validationErr.Message}
		}

		return HTTPStatusFromCode(rule.code), resp
	}

	return http.StatusInternalServerError, NewErrorResponse(ErrorCodeInternal, "an internal error occurred")
}

// HandleError writes the JSON error response for err, with the trace ID.
func HandleError(c *gin.Context, err error) {
	status, resp := MapError(err)

	logger := logging.FromContext(c.Request.Context())
	switch status {
	case http.StatusInternalServerError:
		logger.Error("internal error", slog.String("error", err.Error()))
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		logger.Warn("dependency unavailable", slog.String("error", err.Error()))
	}

	c.JSON(status, resp.WithTraceID(GetTraceID(c)))
}

// HandleBindingError writes a 400 for a BindAndValidate failure, with field
// details when the validator produced them.
func HandleBindingError(c *gin.Context, err error) {
	switch {
	case isMaxBytes(err):
		HandleError(c, err)
	case IsValidationError(err):
		c.JSON(http.StatusBadRequest, NewErrorResponseWithDetails(
			ErrorCodeValidation,
			"request validation failed",
			ValidationErrors(err),
		).WithTraceID(GetTraceID(c)))
	default:
		c.JSON(http.StatusBadRequest, NewErrorResponse(
			ErrorCodeBadRequest,
			"malformed request body",
		).WithTraceID(GetTraceID(c)))
	}
}

// GetTraceID returns the active trace ID, or "".
func GetTraceID(c *gin.Context) string {
	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
		return sc.TraceID().String()
	}

	return ""
}
