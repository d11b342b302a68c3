package translation

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"google.golang.org/genai"

	"github.com/jsamuelsen/derdiedas/internal/domain"
	"github.com/jsamuelsen/derdiedas/internal/platform/logging"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiConfig configures the Gemini backend.
type GeminiConfig struct {
	APIKey string

	// BaseURL overrides the Gemini API endpoint.
	BaseURL string

	Model string

	// HTTPClient is optional; its Timeout bounds each call.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// GeminiTranslator implements ports.Translator with the Gemini API in JSON mode.
type GeminiTranslator struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// geminiSchema mirrors batchResult in Gemini's schema dialect.
var geminiSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"translations": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"translations"},
}

// NewGemini creates a Gemini translator.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*GeminiTranslator, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &GeminiTranslator{
		client: client,
		model:  cmp.Or(cfg.Model, DefaultGeminiModel),
		logger: logger.With(slog.String("component", "translation.Gemini")),
	}, nil
}

// Name implements ports.Translator and ports.HealthChecker.
func (g *GeminiTranslator) Name() string {
	return "gemini"
}

// Translate implements ports.Translator.
func (g *GeminiTranslator) Translate(ctx context.Context, req domain.TranslationRequest) ([]string, error) {
	user, err := userPrompt(req)
	if err != nil {
		return nil, g.fail(err)
	}

	g.logger.Log(ctx, logging.LevelTrace, "starting request",
		slog.String("model", g.model),
		slog.Int("segments", len(req.Segments)),
	)

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(user), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt(req), genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    geminiSchema,
		Temperature:       genai.Ptr[float32](0),
	})
	if err != nil {
		return nil, g.fail(err)
	}

	out, err := decodeBatch(result.Text())
	if err != nil {
		return nil, g.fail(err)
	}

	return out, nil
}

// Check implements ports.HealthChecker by looking up the configured model.
func (g *GeminiTranslator) Check(ctx context.Context) error {
	if _, err := g.client.Models.Get(ctx, g.model, nil); err != nil {
		return g.fail(err)
	}

	return nil
}

func (g *GeminiTranslator) fail(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	return domain.NewTranslationUnavailableError(g.Name(), err.Error())
}
