// Package app contains application services that orchestrate use cases.
// This is the application layer in Clean Architecture - it coordinates
// domain logic and infrastructure through ports.
//
// Application Layer Responsibilities:
//   - Orchestrate use cases (annotate, translate)
//   - Coordinate between domain and infrastructure
//   - Handle cross-cutting concerns (logging, metrics)
//
// What does NOT belong here:
//   - HTTP/CLI specifics (that's adapters)
//   - Calls to concrete backends (that's client adapters)
//   - Gender classification rules (that's the domain layer)
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/jsamuelsen/derdiedas/internal/domain"
	"github.com/jsamuelsen/derdiedas/internal/platform/logging"
	"github.com/jsamuelsen/derdiedas/internal/platform/metrics"
	"github.com/jsamuelsen/derdiedas/internal/platform/telemetry"
	"github.com/jsamuelsen/derdiedas/internal/ports"
)

// DefaultMaxInputBytes bounds the text accepted by a single request.
const DefaultMaxInputBytes = 20000

// AnnotationService runs the gender annotation pass.
// It depends on port interfaces, not concrete implementations,
// following the Dependency Inversion Principle.
type AnnotationService struct {
	tagger   ports.Tagger
	lexicon  *domain.Lexicon
	opts     domain.AnnotateOptions
	maxBytes int
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// AnnotationServiceConfig contains configuration for the annotation service.
type AnnotationServiceConfig struct {
	Tagger ports.Tagger

	// ColorNouns also colors nouns after a classified article.
	ColorNouns bool

	// MaxInputBytes rejects longer input. Zero means DefaultMaxInputBytes.
	MaxInputBytes int

	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// NewAnnotationService creates a new annotation service. It panics without a tagger.
func NewAnnotationService(cfg AnnotationServiceConfig) *AnnotationService {
	if cfg.Tagger == nil {
		panic("app: annotation service requires a tagger")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	maxBytes := cfg.MaxInputBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxInputBytes
	}

	return &AnnotationService{
		tagger:   cfg.Tagger,
		lexicon:  domain.DefaultLexicon(),
		opts:     domain.AnnotateOptions{ColorNouns: cfg.ColorNouns},
		maxBytes: maxBytes,
		metrics:  cfg.Metrics,
		logger:   logger.With(slog.String("component", "app.AnnotationService")),
	}
}

// Annotate tags text and returns spans covering all of it.
//
// Whitespace-only input is returned as one plain span without calling the
// tagger. Any tagger failure is reported as domain.ErrModelUnavailable.
func (s *AnnotationService) Annotate(ctx context.Context, text string) (_ *domain.Annotation, err error) {
	ctx, span := telemetry.StartSpan(ctx, "derdiedas.annotate", attribute.Int("text.bytes", len(text)))
	defer func() { telemetry.EndSpan(span, err) }()

	logger := s.contextLogger(ctx)

	if len(text) > s.maxBytes {
		return nil, domain.NewValidationErrorWithValue("text",
			fmt.Sprintf("must be at most %d bytes", s.maxBytes), len(text))
	}

	if strings.TrimSpace(text) == "" {
		return s.lexicon.Annotate(text, nil, s.opts), nil
	}

	tokens, err := s.tagger.Tag(ctx, text)
	if err != nil {
		if !domain.IsModelUnavailable(err) && ctx.Err() == nil {
			err = domain.NewModelUnavailableError("tagger", err.Error())
		}

		logger.ErrorContext(ctx, "tagging failed", slog.Any("error", err))
		s.metrics.ObserveAnnotation(nil, err)

		return nil, fmt.Errorf("tagging text: %w", err)
	}

	annotation := s.lexicon.Annotate(text, tokens, s.opts)
	counts := annotation.Counts()
	span.SetAttributes(attribute.Int("annotate.tokens", len(tokens)), attribute.Int("annotate.colored", sum(counts)))
	s.metrics.ObserveAnnotation(counts, nil)

	logger.DebugContext(ctx, "annotated text",
		slog.Int("bytes", len(text)),
		slog.Int("tokens", len(tokens)),
		slog.Int("spans", len(annotation.Spans)),
		slog.Int("colored", sum(counts)),
	)

	return annotation, nil
}

func (s *AnnotationService) contextLogger(ctx context.Context) *slog.Logger {
	if logger, ok := logging.Lookup(ctx); ok {
		return logger.With(slog.String("component", "app.AnnotationService"))
	}

	return s.logger
}

func sum(counts map[domain.Gender]int) int {
	n := 0
	for _, c := range counts {
		n += c
	}

	return n
}
