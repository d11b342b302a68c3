package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/jsamuelsen/derdiedas/internal/adapters/clients"
	"github.com/jsamuelsen/derdiedas/internal/domain"
	"github.com/jsamuelsen/derdiedas/internal/platform/logging"
)

// LibreTranslateDefaultURL is where a local LibreTranslate container listens.
const LibreTranslateDefaultURL = "http://localhost:5000"

// LibreTranslateConfig contains configuration for the LibreTranslate adapter.
type LibreTranslateConfig struct {
	// Client is the HTTP client to use. Its BaseURL points at the server.
	Client *clients.Client

	// APIKey is optional; public instances require one.
	APIKey string

	Logger *slog.Logger
}

// LibreTranslate implements ports.Translator against a LibreTranslate server.
type LibreTranslate struct {
	BaseAdapter

	apiKey string
	logger *slog.Logger
}

// NewLibreTranslate creates a LibreTranslate adapter. Panics if Client is nil.
func NewLibreTranslate(cfg LibreTranslateConfig) *LibreTranslate {
	if cfg.Client == nil {
		panic("LibreTranslate: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &LibreTranslate{
		BaseAdapter: NewBaseAdapter(cfg.Client, "libretranslate", TranslationFailure),
		apiKey:      cfg.APIKey,
		logger:      logger.With(slog.String("component", "acl.LibreTranslate")),
	}
}

// libreRequest is the /translate request body.
// q is always sent as an array so one call carries the whole batch.
type libreRequest struct {
	Q      []string `json:"q"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Format string   `json:"format"`
	APIKey string   `json:"api_key,omitempty"`
}

// libreResponse holds translatedText, which is a string for a single q and
// an array for an array q.
type libreResponse struct {
	TranslatedText json.RawMessage `json:"translatedText"`
}

type libreLanguage struct {
	Code    string   `json:"code"`
	Name    string   `json:"name"`
	Targets []string `json:"targets"`
}

// Name implements ports.Translator and ports.HealthChecker.
func (t *LibreTranslate) Name() string {
	return t.ServiceName()
}

// Translate implements ports.Translator.
func (t *LibreTranslate) Translate(ctx context.Context, req domain.TranslationRequest) ([]string, error) {
	t.logger.Log(ctx, logging.LevelTrace, "starting request",
		slog.Int("segments", len(req.Segments)),
		slog.String("target", string(req.Target)),
	)

	body, err := t.PostJSON(ctx, "/translate", libreRequest{
		Q:      req.Segments,
		Source: string(req.Source),
		Target: string(req.Target),
		Format: "text",
		APIKey: t.apiKey,
	}, "translate")
	if err != nil {
		return nil, err
	}

	resp, err := DecodeResponse[libreResponse](body)
	if err != nil {
		return nil, t.Fail(err.Error())
	}

	out, err := decodeTranslatedText(resp.TranslatedText)
	if err != nil {
		return nil, t.Fail(err.Error())
	}

	return out, nil
}

// Check implements ports.HealthChecker: German must be an available source
// with every supported target.
func (t *LibreTranslate) Check(ctx context.Context) error {
	body, err := t.Get(ctx, "/languages", nil, "list languages")
	if err != nil {
		return err
	}

	langs, err := DecodeResponse[[]libreLanguage](body)
	if err != nil {
		return t.Fail(err.Error())
	}

	for _, lang := range *langs {
		if lang.Code != string(domain.SourceLanguage) {
			continue
		}

		for _, target := range domain.TargetLanguages() {
			if len(lang.Targets) > 0 && !slices.Contains(lang.Targets, string(target)) {
				return t.Fail(fmt.Sprintf("no %s model installed", target.Name()))
			}
		}

		return nil
	}

	return t.Fail("no German model installed")
}

func decodeTranslatedText(raw json.RawMessage) ([]string, error) {
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return many, nil
	}

	var one string
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, fmt.Errorf("unexpected translatedText: %w", err)
	}

	return []string{one}, nil
}
