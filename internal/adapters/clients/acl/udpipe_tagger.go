package acl

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jsamuelsen/derdiedas/internal/adapters/clients"
	"github.com/jsamuelsen/derdiedas/internal/domain"
	"github.com/jsamuelsen/derdiedas/internal/platform/logging"
)

// errNotLoaded is reported until Load has resolved the model.
var errNotLoaded = errors.New("model not loaded")

// UDPipeTaggerConfig contains configuration for the UDPipe tagger.
type UDPipeTaggerConfig struct {
	// Client is the HTTP client to use. Its BaseURL points at the UDPipe REST server.
	Client *clients.Client

	// Model is a model name or prefix, e.g. "german-gsd".
	Model string

	Logger *slog.Logger
}

// UDPipeTagger implements ports.Tagger with a UDPipe 2 REST server.
//
// The model is resolved once by Load and is read-only afterwards. Until then,
// and if resolution failed, Tag returns domain.ErrModelUnavailable.
type UDPipeTagger struct {
	BaseAdapter

	model  string
	logger *slog.Logger

	loadOnce sync.Once
	state    atomic.Pointer[modelState]
}

// modelState is the outcome of Load.
type modelState struct {
	name string
	err  error
}

// NewUDPipeTagger creates a UDPipe tagger. Panics if Client is nil.
func NewUDPipeTagger(cfg UDPipeTaggerConfig) *UDPipeTagger {
	if cfg.Client == nil {
		panic("UDPipeTagger: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	t := &UDPipeTagger{
		BaseAdapter: NewBaseAdapter(cfg.Client, "udpipe", ModelFailure),
		model:       cfg.Model,
		logger:      logger.With(slog.String("component", "acl.UDPipeTagger")),
	}
	t.state.Store(&modelState{err: domain.NewModelUnavailableError(cfg.Model, errNotLoaded.Error())})

	return t
}

type udpipeModels struct {
	Models       map[string][]string `json:"models"`
	DefaultModel string              `json:"default_model"`
}

type udpipeResult struct {
	Model  string `json:"model"`
	Result string `json:"result"`
}

// Load resolves the configured model against the server's model list.
// Only the first call does any work; later calls return the same result.
func (t *UDPipeTagger) Load(ctx context.Context) error {
	t.loadOnce.Do(func() {
		name, err := t.resolve(ctx)
		t.state.Store(&modelState{name: name, err: err})

		if err != nil {
			t.logger.ErrorContext(ctx, "tagger model unavailable",
				slog.String("model", t.model),
				slog.Any("error", err),
			)

			return
		}

		t.logger.InfoContext(ctx, "tagger model loaded", slog.String("model", name))
	})

	return t.state.Load().err
}

func (t *UDPipeTagger) resolve(ctx context.Context) (string, error) {
	body, err := t.Get(ctx, "/models", nil, "list models")
	if err != nil {
		return "", err
	}

	models, err := DecodeResponse[udpipeModels](body)
	if err != nil {
		return "", t.Fail(err.Error())
	}

	name, ok := matchModel(models.Models, t.model)
	if !ok {
		return "", domain.NewModelUnavailableError(t.model, "not installed on the tagger server")
	}

	if !slices.Contains(models.Models[name], "tagger") {
		return "", domain.NewModelUnavailableError(name, "model has no tagger component")
	}

	return name, nil
}

// matchModel finds want by exact name, then as a prefix such as
// "german-gsd" for "german-gsd-ud-2.12-230717". The shortest match wins.
func matchModel(models map[string][]string, want string) (string, bool) {
	if _, ok := models[want]; ok {
		return want, true
	}

	var best string
	for name := range models {
		if !strings.HasPrefix(name, want+"-") {
			continue
		}
		if best == "" || len(name) < len(best) || (len(name) == len(best) && name < best) {
			best = name
		}
	}

	return best, best != ""
}

// Model returns the resolved model name, or "" before a successful Load.
func (t *UDPipeTagger) Model() string {
	return t.state.Load().name
}

// Tag implements ports.Tagger.
func (t *UDPipeTagger) Tag(ctx context.Context, text string) ([]domain.Token, error) {
	model := t.state.Load()
	if model.err != nil {
		return nil, model.err
	}

	t.logger.Log(ctx, logging.LevelTrace, "starting request", slog.Int("bytes", len(text)))

	body, err := t.PostForm(ctx, "/process", url.Values{
		"model":     {model.name},
		"tokenizer": {""},
		"tagger":    {""},
		"data":      {text},
	}, "tag text")
	if err != nil {
		return nil, err
	}

	resp, err := DecodeResponse[udpipeResult](body)
	if err != nil {
		return nil, t.Fail(err.Error())
	}

	tokens, err := ParseCoNLLU(resp.Result)
	if err != nil {
		return nil, t.Fail(err.Error())
	}

	t.logger.Log(ctx, logging.LevelTrace, "request complete", slog.Int("tokens", len(tokens)))

	return tokens, nil
}

// Name implements ports.HealthChecker.
func (t *UDPipeTagger) Name() string {
	return t.ServiceName()
}

// Check implements ports.HealthChecker: the model must be loaded and the
// server must still list it.
func (t *UDPipeTagger) Check(ctx context.Context) error {
	model := t.state.Load()
	if model.err != nil {
		return model.err
	}

	body, err := t.Get(ctx, "/models", nil, "list models")
	if err != nil {
		return err
	}

	models, err := DecodeResponse[udpipeModels](body)
	if err != nil {
		return t.Fail(err.Error())
	}

	if _, ok := models.Models[model.name]; !ok {
		return domain.NewModelUnavailableError(model.name, "no longer listed by the tagger server")
	}

	return nil
}
