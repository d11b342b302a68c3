// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrModelUnavailable, ErrTranslationUnavailable)
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"

	"github.com/jsamuelsen/derdiedas/internal/domain"
)

// Tagger is the NLP pipeline capability: tokenize German text and tag each
// token with lemma, part of speech and morphology.
//
// Example usage in application layer:
//
//	tokens, err := s.tagger.Tag(ctx, text)
//	if err != nil {
//	    return nil, err // domain.NewModelUnavailableError
//	}
//	annotation := domain.Annotate(text, tokens, opts)
type Tagger interface {
	// Tag returns the tokens of text in reading order.
	// Token texts are substrings of text; whitespace is not returned.
	// Returns domain.ErrModelUnavailable if the model is missing or the
	// pipeline cannot be reached.
	Tag(ctx context.Context, text string) ([]domain.Token, error)
}

// Translator is the machine translation capability.
//
// Key considerations:
//   - One call translates a whole batch of segments
//   - Handle timeouts via context deadline
//   - Map backend errors to domain.ErrTranslationUnavailable
type Translator interface {
	// Translate returns one translated string per request segment, in order.
	Translate(ctx context.Context, req domain.TranslationRequest) ([]string, error)

	// Name identifies the backend in logs, metrics and errors.
	Name() string
}

// AnnotationService is the inbound port for gender annotation.
type AnnotationService interface {
	Annotate(ctx context.Context, text string) (*domain.Annotation, error)
}

// TranslationService is the inbound port for dialogue-aware translation.
type TranslationService interface {
	Translate(ctx context.Context, text string, target domain.Language) (*domain.Translation, error)
}
