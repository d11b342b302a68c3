// Package config loads the layered derdiedas configuration with koanf and
// validates it with go-playground/validator.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Defaults shared by defaults() and the components that fall back to them
// when a value is left at zero.
const (
	DefaultServerPort     = 8080
	DefaultMaxRequestSize = 1 << 20

	DefaultClientRetryMaxAttempts     = 3
	DefaultClientRetryMultiplier      = 2.0
	DefaultClientRetryJitterFactor    = 0.25
	DefaultClientCircuitMaxFailures   = 5
	DefaultClientCircuitHalfOpenLimit = 3
	DefaultClientRateLimitRPS         = 5.0
	DefaultClientRateLimitBurst       = 10

	DefaultTransportMaxIdleConns        = 100
	DefaultTransportMaxIdleConnsPerHost = 10
	DefaultTransportIdleConnTimeout     = 90 * time.Second

	DefaultLogFileMaxSizeMB  = 100
	DefaultLogFileMaxBackups = 3
	DefaultLogFileMaxAgeDays = 28

	// DefaultTaggerModel is resolved by the UDPipe server to its newest
	// German GSD model.
	DefaultTaggerBaseURL = "http://localhost:8001"
	DefaultTaggerModel   = "german-gsd"

	// DefaultMaxInputBytes caps annotate and translate input.
	DefaultMaxInputBytes = 20000

	// DefaultDir holds base.yaml and the profile files.
	DefaultDir = "configs"
)

// Translation providers.
const (
	ProviderLibreTranslate = "libretranslate"
	ProviderGoogle         = "google"
	ProviderOpenAI         = "openai"
	ProviderGemini         = "gemini"
)

// Config mirrors configs/base.yaml. Section and key names are the koanf
// paths used by the YAML files and APP_* variables.
type Config struct {
	App         AppConfig         `koanf:"app"         validate:"required"`
	Server      ServerConfig      `koanf:"server"      validate:"required"`
	Log         LogConfig         `koanf:"log"         validate:"required"`
	Telemetry   TelemetryConfig   `koanf:"telemetry"`
	Client      ClientConfig      `koanf:"client"      validate:"required"`
	Tagger      TaggerConfig      `koanf:"tagger"      validate:"required"`
	Translation TranslationConfig `koanf:"translation" validate:"required"`
	Annotate    AnnotateConfig    `koanf:"annotate"`
}

// AppConfig identifies the deployment.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig is the HTTP listener.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig adds a rotated JSON log file next to the console output.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig enables OTLP export. Endpoint is a URL such as
// http://otel-collector:4317; an https scheme turns on TLS.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,url"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// ClientConfig is shared by the tagger and translation backend clients.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
}

// RetryConfig bounds retries of failed backend calls.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig trips a backend after consecutive failures.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig sizes the connection pool.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

// RateLimitConfig throttles outbound requests per backend.
type RateLimitConfig struct {
	Enabled           bool    `koanf:"enabled"`
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"required_if=Enabled true,omitempty,gt=0"`
	Burst             int     `koanf:"burst"               validate:"required_if=Enabled true,omitempty,min=1"`
}

// TaggerConfig points at the UDPipe REST server used for tokenizing and tagging.
type TaggerConfig struct {
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	Model   string        `koanf:"model"    validate:"required"`
	Timeout time.Duration `koanf:"timeout"  validate:"required,min=100ms"`
}

// TranslationConfig selects and configures the machine translation backend.
type TranslationConfig struct {
	Provider string        `koanf:"provider" validate:"required,oneof=libretranslate google openai gemini"`
	BaseURL  string        `koanf:"base_url" validate:"omitempty,url"`
	APIKey   string        `koanf:"api_key"  validate:"required_unless=Provider libretranslate"`
	Model    string        `koanf:"model"`
	Timeout  time.Duration `koanf:"timeout"  validate:"required,min=100ms"`
}

// AnnotateConfig contains gender annotation settings.
type AnnotateConfig struct {
	// ColorNouns also colors nouns after a classified article.
	ColorNouns    bool `koanf:"color_nouns"`
	MaxInputBytes int  `koanf:"max_input_bytes" validate:"omitempty,min=1"`
}

// defaults is the lowest configuration layer. Every key that env variables
// may set must appear here, since envKeyMapper only knows loaded keys.
func defaults() map[string]any {
	type section = map[string]any

	return section{
		"app": section{"name": "derdiedas", "version": "dev", "environment": "local"},
		"server": section{
			"host":             "0.0.0.0",
			"port":             DefaultServerPort,
			"read_timeout":     "30s",
			"write_timeout":    "30s",
			"idle_timeout":     "2m",
			"shutdown_timeout": "10s",
			"max_request_size": DefaultMaxRequestSize,
		},
		"log": section{
			"level":  "info",
			"format": "json",
			"file": section{
				"enabled":     false,
				"path":        "./logs/derdiedas.log",
				"max_size":    DefaultLogFileMaxSizeMB,
				"max_backups": DefaultLogFileMaxBackups,
				"max_age":     DefaultLogFileMaxAgeDays,
				"compress":    true,
			},
		},
		"telemetry": section{
			"enabled":       false,
			"endpoint":      "",
			"service_name":  "derdiedas",
			"sampling_rate": 1.0,
		},
		"client": section{
			"timeout": "30s",
			"retry": section{
				"max_attempts":     DefaultClientRetryMaxAttempts,
				"initial_interval": "100ms",
				"max_interval":     "5s",
				"multiplier":       DefaultClientRetryMultiplier,
				"jitter_factor":    DefaultClientRetryJitterFactor,
			},
			"circuit_breaker": section{
				"max_failures":    DefaultClientCircuitMaxFailures,
				"timeout":         "30s",
				"half_open_limit": DefaultClientCircuitHalfOpenLimit,
			},
			"transport": section{
				"max_idle_conns":          DefaultTransportMaxIdleConns,
				"max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
				"idle_conn_timeout":       DefaultTransportIdleConnTimeout.String(),
			},
			"rate_limit": section{
				"enabled":             false,
				"requests_per_second": DefaultClientRateLimitRPS,
				"burst":               DefaultClientRateLimitBurst,
			},
		},
		"tagger": section{
			"base_url": DefaultTaggerBaseURL,
			"model":    DefaultTaggerModel,
			"timeout":  "30s",
		},
		"translation": section{
			"provider": ProviderLibreTranslate,
			"base_url": "",
			"api_key":  "",
			"model":    "",
			"timeout":  "30s",
		},
		"annotate": section{
			"color_nouns":     false,
			"max_input_bytes": DefaultMaxInputBytes,
		},
	}
}

// Option customizes Load.
type Option func(*loader)

type loader struct {
	dir string
}

// WithDir reads base.yaml and the profile file from dir. An empty dir keeps
// DefaultDir.
func WithDir(dir string) Option {
	return func(l *loader) {
		if dir != "" {
			l.dir = dir
		}
	}
}

// Load layers, lowest precedence first: defaults(), base.yaml, the
// {profile}.yaml file, and APP_* environment variables. Missing files are
// skipped. The result is not validated; call Validate.
func Load(profile string, opts ...Option) (*Config, error) {
	l := loader{dir: DefaultDir}
	for _, opt := range opts {
		opt(&l)
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if err := loadFileIfExists(k, filepath.Join(l.dir, "base.yaml")); err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if profile != "" {
		if err := loadFileIfExists(k, filepath.Join(l.dir, profile+".yaml")); err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	if err := k.Load(env.Provider("APP_", ".", envKeyMapper(k.Keys())), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKeyMapper maps APP_TRANSLATION_API_KEY onto translation.api_key.
// Known keys are matched first so underscores inside key names survive;
// unknown variables fall back to replacing every underscore with a dot.
func envKeyMapper(known []string) func(string) string {
	flat := make(map[string]string, len(known))
	for _, key := range known {
		flat[strings.ReplaceAll(key, ".", "_")] = key
	}

	return func(s string) string {
		name := strings.ToLower(strings.TrimPrefix(s, "APP_"))
		if key, ok := flat[name]; ok {
			return key
		}

		return strings.ReplaceAll(name, "_", ".")
	}
}

func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
