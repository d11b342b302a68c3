package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/jsamuelsen/derdiedas/internal/domain"
	"github.com/jsamuelsen/derdiedas/internal/platform/metrics"
	"github.com/jsamuelsen/derdiedas/internal/platform/telemetry"
	"github.com/jsamuelsen/derdiedas/internal/ports"
)

// TranslationService translates German text line by line, keeping
// "Speaker:" prefixes, blank lines and surrounding whitespace verbatim.
type TranslationService struct {
	translator ports.Translator
	executor   *Executor
	maxBytes   int
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// TranslationServiceConfig contains configuration for the translation service.
type TranslationServiceConfig struct {
	Translator ports.Translator

	// MaxInputBytes rejects longer input. Zero means DefaultMaxInputBytes.
	MaxInputBytes int

	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// NewTranslationService creates a new translation service. It panics without a translator.
func NewTranslationService(cfg TranslationServiceConfig) *TranslationService {
	if cfg.Translator == nil {
		panic("app: translation service requires a translator")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	maxBytes := cfg.MaxInputBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxInputBytes
	}

	logger = logger.With(slog.String("component", "app.TranslationService"))

	return &TranslationService{
		translator: cfg.Translator,
		executor:   NewExecutor(logger),
		maxBytes:   maxBytes,
		metrics:    cfg.Metrics,
		logger:     logger,
	}
}

// translationJob is the pipeline input for one Translate call.
type translationJob struct {
	text   string
	target domain.Language
	lines  []domain.DialogueLine
	req    domain.TranslationRequest
}

// Translate returns text translated into target.
//
// All translatable line bodies go to the backend in a single call. Input
// without any translatable text is returned unchanged without a call.
// Backend failures are reported as domain.ErrTranslationUnavailable.
func (s *TranslationService) Translate(ctx context.Context, text string, target domain.Language) (*domain.Translation, error) {
	ctx, span := telemetry.StartSpan(ctx, "derdiedas.translate",
		attribute.String("translation.target", string(target)))

	job := &translationJob{text: text, target: target}

	op := Operation[*translationJob, []string, *domain.Translation]{
		Name:     "translate",
		Validate: s.validate,
		Perform:  s.perform,
		Verify:   s.verify,
		Respond:  s.respond,
	}

	result, err := Execute(ctx, s.executor, op, job)
	span.SetAttributes(attribute.Int("translation.segments", len(job.req.Segments)))
	telemetry.EndSpan(span, err)

	if step, ok := GetExecutionStep(err); !ok || step != StepValidate {
		s.metrics.ObserveTranslation(target, len(job.req.Segments), err)
	}
	if err != nil {
		return nil, fmt.Errorf("translating to %s: %w", target, err)
	}

	return result, nil
}

func (s *TranslationService) validate(_ context.Context, job *translationJob) error {
	target, err := domain.ParseLanguage(string(job.target))
	if err != nil {
		return err
	}
	job.target = target

	if len(job.text) > s.maxBytes {
		return domain.NewValidationErrorWithValue("text",
			fmt.Sprintf("must be at most %d bytes", s.maxBytes), len(job.text))
	}

	job.lines = domain.ParseLines(job.text)
	job.req = domain.TranslationRequest{
		Source: domain.SourceLanguage,
		Target: job.target,
	}

	for _, line := range job.lines {
		if line.Translatable() {
			job.req.Segments = append(job.req.Segments, line.Body)
		}
	}

	return nil
}

func (s *TranslationService) perform(ctx context.Context, job *translationJob) ([]string, error) {
	if len(job.req.Segments) == 0 {
		return nil, nil
	}

	out, err := s.translator.Translate(ctx, job.req)
	if err != nil {
		if !domain.IsTranslationUnavailable(err) && ctx.Err() == nil {
			err = domain.NewTranslationUnavailableError(s.translator.Name(), err.Error())
		}

		return nil, err
	}

	return out, nil
}

func (s *TranslationService) verify(_ context.Context, job *translationJob, out []string) error {
	if len(out) != len(job.req.Segments) {
		return domain.NewTranslationUnavailableError(s.translator.Name(),
			fmt.Sprintf("returned %d results for %d segments", len(out), len(job.req.Segments)))
	}

	return nil
}

func (s *TranslationService) respond(_ context.Context, job *translationJob, out []string) (*domain.Translation, error) {
	rendered := make([]string, 0, len(job.lines))
	next := 0

	for _, line := range job.lines {
		if !line.Translatable() {
			rendered = append(rendered, line.String())
			continue
		}

		rendered = append(rendered, line.Render(strings.TrimSpace(out[next])))
		next++
	}

	return &domain.Translation{
		Source: domain.SourceLanguage,
		Target: job.target,
		Input:  job.text,
		Text:   domain.JoinLines(rendered),
	}, nil
}
