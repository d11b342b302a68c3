package acl

import (
	"context"
	"html"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/jsamuelsen/derdiedas/internal/adapters/clients"
	"github.com/jsamuelsen/derdiedas/internal/domain"
	"github.com/jsamuelsen/derdiedas/internal/platform/logging"
)

// GoogleTranslateDefaultURL is the Cloud Translation API endpoint.
const GoogleTranslateDefaultURL = "https://translation.googleapis.com"

const googleTranslatePath = "/language/translate/v2"

// GoogleAPIKey returns a clients.Config AuthFunc that adds key to the query string.
func GoogleAPIKey(key string) func(*http.Request) {
	return func(r *http.Request) {
		q := r.URL.Query()
		q.Set("key", key)
		r.URL.RawQuery = q.Encode()
	}
}

// GoogleTranslateConfig contains configuration for the Google adapter.
type GoogleTranslateConfig struct {
	// Client must carry the API key, see GoogleAPIKey.
	Client *clients.Client
	Logger *slog.Logger
}

// GoogleTranslate implements ports.Translator with Cloud Translation v2.
type GoogleTranslate struct {
	BaseAdapter

	logger *slog.Logger
}

// NewGoogleTranslate creates a Google Translate adapter. Panics if Client is nil.
func NewGoogleTranslate(cfg GoogleTranslateConfig) *GoogleTranslate {
	if cfg.Client == nil {
		panic("GoogleTranslate: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &GoogleTranslate{
		BaseAdapter: NewBaseAdapter(cfg.Client, "google-translate", TranslationFailure),
		logger:      logger.With(slog.String("component", "acl.GoogleTranslate")),
	}
}

type googleRequest struct {
	Q      []string `json:"q"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Format string   `json:"format"`
}

type googleResponse struct {
	Data struct {
		Translations []googleTranslation `json:"translations"`
	} `json:"data"`
}

type googleTranslation struct {
	TranslatedText string `json:"translatedText"`
}

// Name implements ports.Translator and ports.HealthChecker.
func (t *GoogleTranslate) Name() string {
	return t.ServiceName()
}

// Translate implements ports.Translator.
func (t *GoogleTranslate) Translate(ctx context.Context, req domain.TranslationRequest) ([]string, error) {
	t.logger.Log(ctx, logging.LevelTrace, "starting request",
		slog.Int("segments", len(req.Segments)),
		slog.String("target", string(req.Target)),
	)

	body, err := t.PostJSON(ctx, googleTranslatePath, googleRequest{
		Q:      req.Segments,
		Source: string(req.Source),
		Target: string(req.Target),
		Format: "text",
	}, "translate")
	if err != nil {
		return nil, err
	}

	resp, err := DecodeResponse[googleResponse](body)
	if err != nil {
		return nil, t.Fail(err.Error())
	}

	out, err := MapSlice(resp.Data.Translations, func(tr *googleTranslation) (string, error) {
		// format=text is honored, but some proxies still return entities.
		return html.UnescapeString(tr.TranslatedText), nil
	})
	if err != nil {
		return nil, t.Fail(err.Error())
	}

	return out, nil
}

// Check implements ports.HealthChecker by listing supported languages,
// which validates the key without spending translation quota.
func (t *GoogleTranslate) Check(ctx context.Context) error {
	body, err := t.Get(ctx, googleTranslatePath+"/languages", url.Values{"target": {string(domain.English)}}, "list languages")
	if err != nil {
		return err
	}

	return body.Close()
}
