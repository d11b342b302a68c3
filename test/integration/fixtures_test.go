//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/prometheus/client_golang/prometheus"

	httpadapter "github.com/jsamuelsen/derdiedas/internal/adapters/http"
	"github.com/jsamuelsen/derdiedas/internal/adapters/http/handlers"
	"github.com/jsamuelsen/derdiedas/internal/bootstrap"
	"github.com/jsamuelsen/derdiedas/internal/platform/config"
	"github.com/jsamuelsen/derdiedas/internal/ports"
)

const germanModel = "german-gsd-ud-2.12-230717"

// nouns is the fake tagger's vocabulary. Articles take the features of the
// noun that follows them, the way a real tagger agrees them.
var nouns = map[string]string{
	"Mann":   "Case=Nom|Gender=Masc|Number=Sing",
	"Hund":   "Case=Nom|Gender=Masc|Number=Sing",
	"Ball":   "Case=Dat|Gender=Masc|Number=Sing",
	"Frau":   "Case=Nom|Gender=Fem|Number=Sing",
	"Katze":  "Case=Dat|Gender=Fem|Number=Sing",
	"Kind":   "Case=Nom|Gender=Neut|Number=Sing",
	"Buch":   "Case=Acc|Gender=Neut|Number=Sing",
	"Männer": "Case=Nom|Gender=Masc|Number=Plur",
	"Kinder": "Case=Nom|Gender=Neut|Number=Plur",
}

var articles = map[string]bool{
	"der": true, "die": true, "das": true, "dem": true, "den": true, "des": true,
	"ein": true, "eine": true, "einen": true, "einem": true, "einer": true, "eines": true,
}

// phrases is the fake translation backend's dictionary. Anything else is
// echoed with a target prefix.
var phrases = map[string]string{
	"en|Guten Tag":      "Good day",
	"es|Guten Tag":      "Buenos días",
	"en|Der Hund":       "The dog",
	"en|Die Frau liest": "The woman reads",
}

// fakeBackends serves the UDPipe and LibreTranslate endpoints the service
// talks to.
type fakeBackends struct {
	server *httptest.Server

	noModel          atomic.Bool
	translateDown    atomic.Bool
	translateCalls   atomic.Int32
	translateLatency atomic.Int64
}

func newFakeBackends() *fakeBackends {
	f := &fakeBackends{}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))

	return f
}

func (f *fakeBackends) Close() {
	f.server.Close()
}

func (f *fakeBackends) serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.URL.Path {
	case "/models":
		models := map[string][]string{"english-ewt-ud-2.12-230717": {"tokenizer", "tagger"}}
		if !f.noModel.Load() {
			models[germanModel] = []string{"tokenizer", "tagger", "parser"}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"models": models})

	case "/process":
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"model":  r.PostForm.Get("model"),
			"result": tagCoNLLU(r.PostForm.Get("data")),
		})

	case "/translate":
		f.translate(w, r)

	case "/languages":
		_, _ = w.Write([]byte(`[{"code":"de","name":"German","targets":["en","es"]}]`))

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeBackends) translate(w http.ResponseWriter, r *http.Request) {
	f.translateCalls.Add(1)

	if d := f.translateLatency.Load(); d > 0 {
		time.Sleep(time.Duration(d))
	}

	if f.translateDown.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"translation models are reloading"}`))

		return
	}

	var req struct {
		Q      []string `json:"q"`
		Target string   `json:"target"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	out := make([]string, len(req.Q))
	for i, q := range req.Q {
		if t, ok := phrases[req.Target+"|"+q]; ok {
			out[i] = t
			continue
		}
		out[i] = fmt.Sprintf("[%s] %s", req.Target, q)
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"translatedText": out})
}

// tagCoNLLU tokenizes text into words and single punctuation marks and
// emits one CoNLL-U sentence.
func tagCoNLLU(text string) string {
	var words []string

	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			current.WriteRune(r)
		case unicode.IsSpace(r):
			flush()
		default:
			flush()
			words = append(words, string(r))
		}
	}
	flush()

	var b strings.Builder
	for i, word := range words {
		pos, feats := "X", "_"

		switch {
		case nouns[word] != "":
			pos, feats = "NOUN", nouns[word]
		case articles[strings.ToLower(word)]:
			pos = "DET"
			if i+1 < len(words) && nouns[words[i+1]] != "" {
				feats = nouns[words[i+1]]
			}
		case unicode.IsPunct([]rune(word)[0]):
			pos = "PUNCT"
		}

		fmt.Fprintf(&b, "%d\t%s\t%s\t%s\t_\t%s\t_\t_\t_\t_\n", i+1, word, word, pos, feats)
	}
	b.WriteString("\n")

	return b.String()
}

// service is an in-process derdiedas server wired to fake backends.
type service struct {
	server   *httptest.Server
	backends *fakeBackends
}

// startService wires the full stack the way cmd/service does.
func startService(backends *fakeBackends, configure func(*config.Config)) (*service, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}

	cfg.App.Environment = "test"
	cfg.Tagger.BaseURL = backends.server.URL
	cfg.Translation.BaseURL = backends.server.URL
	cfg.Client.Retry.MaxAttempts = 1

	if configure != nil {
		configure(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()

	components, err := bootstrap.Build(context.Background(), cfg, logger, reg)
	if err != nil {
		return nil, err
	}

	registry := ports.NewHealthRegistry()
	if err := components.RegisterHealth(registry); err != nil {
		return nil, err
	}

	buildInfo := handlers.NewBuildInfo("test", "none", "now")
	buildInfo.Tagger = components.Tagger.Model()
	buildInfo.Translator = components.Translator.Name()

	server := httpadapter.New(&cfg.Server, logger)
	httpadapter.SetupRouter(server.Engine(), httpadapter.RouterConfig{
		ServiceName:   cfg.App.Name,
		Logger:        logger,
		Annotator:     components.Annotation,
		Translator:    components.Translation,
		HealthHandler: handlers.NewHealthHandler(registry, buildInfo, reg),
		Timeout:       5 * time.Second,
	})

	return &service{
		server:   httptest.NewServer(server.Engine()),
		backends: backends,
	}, nil
}

func (s *service) URL() string {
	return s.server.URL
}

func (s *service) Close() {
	s.server.Close()
}
