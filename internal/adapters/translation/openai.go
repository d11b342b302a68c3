package translation

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/jsamuelsen/derdiedas/internal/domain"
	"github.com/jsamuelsen/derdiedas/internal/platform/logging"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIConfig configures the OpenAI backend.
type OpenAIConfig struct {
	APIKey string

	// BaseURL overrides the API endpoint, e.g. for an OpenAI-compatible server.
	BaseURL string

	Model      string
	Timeout    time.Duration
	MaxRetries int

	// HTTPClient is optional; tests point it at a fake server.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// OpenAITranslator implements ports.Translator with chat completions and
// structured outputs.
type OpenAITranslator struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewOpenAI creates an OpenAI translator.
func NewOpenAI(cfg OpenAIConfig) *OpenAITranslator {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(max(cfg.MaxRetries, 0)),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client := openai.NewClient(opts...)

	return &OpenAITranslator{
		client: &client,
		model:  cmp.Or(cfg.Model, DefaultOpenAIModel),
		logger: logger.With(slog.String("component", "translation.OpenAI")),
	}
}

// Name implements ports.Translator and ports.HealthChecker.
func (o *OpenAITranslator) Name() string {
	return "openai"
}

// Translate implements ports.Translator.
func (o *OpenAITranslator) Translate(ctx context.Context, req domain.TranslationRequest) ([]string, error) {
	user, err := userPrompt(req)
	if err != nil {
		return nil, o.fail(err)
	}

	o.logger.Log(ctx, logging.LevelTrace, "starting request",
		slog.String("model", o.model),
		slog.Int("segments", len(req.Segments)),
	)

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt(req)),
			openai.UserMessage(user),
		},
		Temperature:    openai.Float(0),
		ResponseFormat: responseFormat(),
	})
	if err != nil {
		return nil, o.fail(err)
	}

	if len(resp.Choices) == 0 {
		return nil, o.fail(errors.New("no choices returned"))
	}

	choice := resp.Choices[0]
	if choice.Message.Refusal != "" {
		return nil, o.fail(fmt.Errorf("model refused: %s", choice.Message.Refusal))
	}

	out, err := decodeBatch(choice.Message.Content)
	if err != nil {
		return nil, o.fail(err)
	}

	return out, nil
}

// Check implements ports.HealthChecker by looking up the configured model.
func (o *OpenAITranslator) Check(ctx context.Context) error {
	if _, err := o.client.Models.Get(ctx, o.model); err != nil {
		return o.fail(err)
	}

	return nil
}

func (o *OpenAITranslator) fail(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return domain.NewTranslationUnavailableError(o.Name(), fmt.Sprintf("HTTP %d: %s", apiErr.StatusCode, apiErr.Message))
	}

	return domain.NewTranslationUnavailableError(o.Name(), err.Error())
}

func responseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:        "translations",
				Description: openai.String("Translated segments in input order"),
				Schema:      batchSchema,
				Strict:      openai.Bool(true),
			},
		},
	}
}
