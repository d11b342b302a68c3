// Package domain holds the gender classification rules, the annotation and
// translation value types, and the errors adapters map onto HTTP and CLI
// output.
package domain

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is.
var (
	// ErrValidation indicates the input was rejected before any work was done.
	ErrValidation = errors.New("validation failed")

	// ErrUnsupportedLanguage indicates a translation target outside the supported set.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrUnavailable indicates a required dependency is unavailable.
	ErrUnavailable = errors.New("unavailable")

	// ErrModelUnavailable indicates the NLP tagger or its model is missing or failed to load.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrTranslationUnavailable indicates the translation backend is unreachable or rejected the request.
	ErrTranslationUnavailable = errors.New("translation unavailable")
)

// ValidationError is rejected input. Value, when set, is the offending
// value.
type ValidationError struct {
	Field   string
	Message string
	Value   any
	cause   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

func (e *ValidationError) Unwrap() []error {
	if e.cause != nil {
		return []error{ErrValidation, e.cause}
	}

	return []error{ErrValidation}
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue creates a validation error including the invalid value.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// NewUnsupportedLanguageError reports a target language the service cannot translate into.
func NewUnsupportedLanguageError(code string) error {
	return &ValidationError{
		Field:   "target",
		Message: fmt.Sprintf("unsupported language %q (supported: %s)", code, supportedCodes()),
		Value:   code,
		cause:   ErrUnsupportedLanguage,
	}
}

// Dependency names the kind of collaborator an UnavailableError is about.
type Dependency string

const (
	DependencyService    Dependency = "service"
	DependencyModel      Dependency = "nlp model"
	DependencyTranslator Dependency = "translation backend"
)

// UnavailableError reports a dependency that could not serve a request.
// It matches ErrUnavailable plus the sentinel of its Dependency.
type UnavailableError struct {
	Dependency Dependency
	Name       string // service, model or backend name
	Reason     string
}

func (e *UnavailableError) Error() string {
	msg := fmt.Sprintf("%s %q unavailable", e.Dependency, e.Name)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}

	return msg
}

func (e *UnavailableError) Unwrap() []error {
	switch e.Dependency {
	case DependencyModel:
		return []error{ErrModelUnavailable, ErrUnavailable}
	case DependencyTranslator:
		return []error{ErrTranslationUnavailable, ErrUnavailable}
	default:
		return []error{ErrUnavailable}
	}
}

// NewUnavailableError reports a generic downstream service failure.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Dependency: DependencyService, Name: service, Reason: reason}
}

// NewModelUnavailableError reports that the NLP pipeline could not tag text
// because model is missing or failed.
func NewModelUnavailableError(model, reason string) error {
	return &UnavailableError{Dependency: DependencyModel, Name: model, Reason: reason}
}

// NewTranslationUnavailableError reports that backend could not translate.
func NewTranslationUnavailableError(backend, reason string) error {
	return &UnavailableError{Dependency: DependencyTranslator, Name: backend, Reason: reason}
}

// IsValidation reports whether err is rejected input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnavailable reports a dependency failure of any kind.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsModelUnavailable reports a missing or failed NLP model.
func IsModelUnavailable(err error) bool {
	return errors.Is(err, ErrModelUnavailable)
}

// IsTranslationUnavailable reports a failed translation backend.
func IsTranslationUnavailable(err error) bool {
	return errors.Is(err, ErrTranslationUnavailable)
}
