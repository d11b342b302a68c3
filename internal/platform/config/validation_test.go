package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a fully valid configuration for testing.
func validConfig() *Config {
	return &Config{
		App: AppConfig{Name: "derdiedas", Version: "1.0.0", Environment: "local"},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxRequestSize:  1 << 20,
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Client: ClientConfig{
			Timeout: 30 * time.Second,
			Retry: RetryConfig{
				MaxAttempts:     3,
				InitialInterval: 100 * time.Millisecond,
				MaxInterval:     5 * time.Second,
				Multiplier:      2.0,
				JitterFactor:    0.25,
			},
			CircuitBreaker: CircuitBreakerConfig{MaxFailures: 5, Timeout: 30 * time.Second, HalfOpenLimit: 3},
			Transport:      TransportConfig{MaxIdleConns: 100, MaxIdleConnsPerHost: 10, IdleConnTimeout: 90 * time.Second},
		},
		Tagger: TaggerConfig{BaseURL: "http://localhost:8001", Model: "german-gsd", Timeout: 30 * time.Second},
		Translation: TranslationConfig{
			Provider: ProviderLibreTranslate,
			BaseURL:  "http://localhost:5000",
			Timeout:  30 * time.Second,
		},
		Annotate: AnnotateConfig{MaxInputBytes: 20000},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)

		// field is the koanf path expected in the error; "" means valid.
		field   string
		message string
	}{
		{name: "valid", edit: func(*Config) {}},

		// app
		{name: "missing name", edit: func(c *Config) { c.App.Name = "" }, field: "app.name", message: "is required"},
		{name: "missing version", edit: func(c *Config) { c.App.Version = "" }, field: "app.version"},
		{name: "unknown environment", edit: func(c *Config) { c.App.Environment = "staging" }, field: "app.environment", message: "must be one of: local, dev"},
		{name: "test environment", edit: func(c *Config) { c.App.Environment = "test" }},

		// server
		{name: "port zero", edit: func(c *Config) { c.Server.Port = 0 }, field: "server.port"},
		{name: "port too high", edit: func(c *Config) { c.Server.Port = 65536 }, field: "server.port", message: "must be at most 65535"},
		{name: "port max", edit: func(c *Config) { c.Server.Port = 65535 }},
		{name: "missing host", edit: func(c *Config) { c.Server.Host = "" }, field: "server.host"},
		{name: "read timeout under 1s", edit: func(c *Config) { c.Server.ReadTimeout = 500 * time.Millisecond }, field: "server.read_timeout"},
		{name: "no body limit", edit: func(c *Config) { c.Server.MaxRequestSize = 0 }, field: "server.max_request_size"},

		// log
		{name: "trace level", edit: func(c *Config) { c.Log.Level = "trace" }},
		{name: "uppercase level", edit: func(c *Config) { c.Log.Level = "DEBUG" }, field: "log.level"},
		{name: "pretty format", edit: func(c *Config) { c.Log.Format = "pretty" }},
		{name: "xml format", edit: func(c *Config) { c.Log.Format = "xml" }, field: "log.format"},
		{name: "file without path", edit: func(c *Config) { c.Log.File.Enabled = true }, field: "log.file.path", message: "is required when enabled is true"},
		{name: "disabled file ignores path", edit: func(c *Config) { c.Log.File = LogFileConfig{MaxSizeMB: 0} }},
		{
			name: "file too large",
			edit: func(c *Config) {
				c.Log.File = LogFileConfig{Enabled: true, Path: "/var/log/derdiedas.log", MaxSizeMB: 1025}
			},
			field: "log.file.max_size",
		},

		// telemetry
		{name: "telemetry off without endpoint", edit: func(c *Config) { c.Telemetry.Endpoint = "" }},
		{
			name:  "telemetry on without endpoint",
			edit:  func(c *Config) { c.Telemetry = TelemetryConfig{Enabled: true, ServiceName: "derdiedas"} },
			field: "telemetry.endpoint",
		},
		{
			name:    "telemetry endpoint not a url",
			edit:    func(c *Config) { c.Telemetry = TelemetryConfig{Enabled: true, Endpoint: "collector", ServiceName: "derdiedas"} },
			field:   "telemetry.endpoint",
			message: `must be a valid URL, got "collector"`,
		},
		{
			name:  "telemetry on without service name",
			edit:  func(c *Config) { c.Telemetry = TelemetryConfig{Enabled: true, Endpoint: "http://localhost:4317"} },
			field: "telemetry.service_name",
		},
		{name: "sampling above one", edit: func(c *Config) { c.Telemetry.SamplingRate = 1.1 }, field: "telemetry.sampling_rate"},
		{name: "sampling below zero", edit: func(c *Config) { c.Telemetry.SamplingRate = -0.1 }, field: "telemetry.sampling_rate"},

		// tagger
		{name: "tagger without url", edit: func(c *Config) { c.Tagger.BaseURL = "" }, field: "tagger.base_url"},
		{name: "tagger without model", edit: func(c *Config) { c.Tagger.Model = "" }, field: "tagger.model"},

		// translation
		{name: "unknown provider", edit: func(c *Config) { c.Translation.Provider = "deepl" }, field: "translation.provider"},
		{name: "base url without scheme", edit: func(c *Config) { c.Translation.BaseURL = "localhost" }, field: "translation.base_url"},
		{
			name:    "google without key",
			edit:    func(c *Config) { c.Translation.Provider = ProviderGoogle },
			field:   "translation.api_key",
			message: "is required unless provider is libretranslate",
		},
		{name: "openai without key", edit: func(c *Config) { c.Translation.Provider = ProviderOpenAI }, field: "translation.api_key"},
		{name: "gemini without key", edit: func(c *Config) { c.Translation.Provider = ProviderGemini }, field: "translation.api_key"},
		{
			name: "gemini with key",
			edit: func(c *Config) {
				c.Translation.Provider = ProviderGemini
				c.Translation.APIKey = "key"
			},
		},

		// client
		{name: "client timeout under 100ms", edit: func(c *Config) { c.Client.Timeout = 50 * time.Millisecond }, field: "client.timeout"},
		{name: "no attempts", edit: func(c *Config) { c.Client.Retry.MaxAttempts = 0 }, field: "client.retry.max_attempts"},
		{name: "too many attempts", edit: func(c *Config) { c.Client.Retry.MaxAttempts = 11 }, field: "client.retry.max_attempts"},
		{name: "single attempt", edit: func(c *Config) { c.Client.Retry.MaxAttempts = 1 }},
		{name: "initial interval under 10ms", edit: func(c *Config) { c.Client.Retry.InitialInterval = 5 * time.Millisecond }, field: "client.retry.initial_interval"},
		{name: "max interval under 100ms", edit: func(c *Config) { c.Client.Retry.MaxInterval = 50 * time.Millisecond }, field: "client.retry.max_interval"},
		{name: "flat multiplier", edit: func(c *Config) { c.Client.Retry.Multiplier = 1.0 }, field: "client.retry.multiplier"},
		{name: "steep multiplier", edit: func(c *Config) { c.Client.Retry.Multiplier = 10.1 }, field: "client.retry.multiplier"},
		{name: "breaker without failures", edit: func(c *Config) { c.Client.CircuitBreaker.MaxFailures = 0 }, field: "client.circuit_breaker.max_failures"},
		{name: "breaker timeout under 1s", edit: func(c *Config) { c.Client.CircuitBreaker.Timeout = time.Millisecond }, field: "client.circuit_breaker.timeout"},
		{name: "breaker without probes", edit: func(c *Config) { c.Client.CircuitBreaker.HalfOpenLimit = 0 }, field: "client.circuit_breaker.half_open_limit"},
		{
			name:  "rate limit without rate",
			edit:  func(c *Config) { c.Client.RateLimit = RateLimitConfig{Enabled: true, Burst: 1} },
			field: "client.rate_limit.requests_per_second",
		},
		{name: "rate limit", edit: func(c *Config) { c.Client.RateLimit = RateLimitConfig{Enabled: true, RequestsPerSecond: 2.5, Burst: 5} }},

		// annotate
		{name: "negative input limit", edit: func(c *Config) { c.Annotate.MaxInputBytes = -1 }, field: "annotate.max_input_bytes"},
		{name: "default input limit", edit: func(c *Config) { c.Annotate.MaxInputBytes = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.edit(cfg)

			err := cfg.Validate()

			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.field+" "+tt.message)
			}
		})
	}
}

func TestConfig_Validate_ReportsEveryField(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: "invalid"}, Server: ServerConfig{Port: -1}}

	err := cfg.Validate()

	require.Error(t, err)
	for _, field := range []string{"app.name", "app.version", "app.environment", "server.port", "tagger"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestFormatFieldPath(t *testing.T) {
	tests := map[string]string{
		"Config.server.port":               "server.port",
		"Config.client.retry.max_attempts": "client.retry.max_attempts",
		"Config.annotate.max_input_bytes":  "annotate.max_input_bytes",
		"Config":                           "Config",
	}

	for in, want := range tests {
		assert.Equal(t, want, formatFieldPath(in))
	}
}

func TestFormatParam(t *testing.T) {
	assert.Equal(t, "provider is libretranslate", formatParam("Provider libretranslate"))
	assert.Equal(t, "Enabled", formatParam("Enabled"))
}
