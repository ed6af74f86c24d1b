// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, database paths, rate limiting, the
// assistant (NL→SQL) pipeline knobs, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "membership-backoffice")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// AssistantConfig defines settings for the natural-language query pipeline:
// which text-generation backend is primary, fallback behavior, retry budget,
// and the bounds on conversation memory and result sizes.
type AssistantConfig struct {
	// Provider selects the primary generator: "hosted", "local" or "demo".
	Provider string
	// FallbackEnabled allows the non-primary hosted/local backend to be tried
	// once before the deterministic generator.
	FallbackEnabled bool

	// Hosted (OpenAI-compatible) backend.
	HostedBaseURL string
	HostedAPIKey  string
	HostedModel   string

	// Local inference (Ollama-style) backend.
	LocalBaseURL string
	LocalModel   string

	// GenTimeout bounds a single provider call.
	GenTimeout time.Duration
	// MaxTokens / Temperature are passed to providers on every call.
	MaxTokens   int
	Temperature float64

	// MaxRetries is the shared budget across generation and SQL correction
	// for one request. RetryBaseDelay grows linearly per attempt.
	MaxRetries     int
	RetryBaseDelay time.Duration

	// SchemaCacheTTL is how long an introspected schema snapshot is reused.
	SchemaCacheTTL time.Duration

	// MemoryMaxTurns / MemoryTTL bound the per-user conversation log.
	MemoryMaxTurns int
	MemoryTTL      time.Duration

	// RowLimit caps non-bulk query results when no explicit LIMIT is present.
	RowLimit int
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// App
	DBPath string // SQLite path

	// Assistant pipeline
	Assistant AssistantConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// App
		DBPath: getenv("DB_PATH", "membership.db"),

		// Assistant pipeline
		Assistant: AssistantConfig{
			Provider:        strings.ToLower(getenv("AI_PROVIDER", "demo")),
			FallbackEnabled: getbool("AI_FALLBACK_ENABLED", true),
			HostedBaseURL:   getenv("AI_HOSTED_BASE_URL", "https://api.openai.com/v1"),
			HostedAPIKey:    getenv("AI_HOSTED_API_KEY", ""),
			HostedModel:     getenv("AI_HOSTED_MODEL", "gpt-4o-mini"),
			LocalBaseURL:    getenv("AI_LOCAL_BASE_URL", "http://localhost:11434"),
			LocalModel:      getenv("AI_LOCAL_MODEL", "sqlcoder"),
			GenTimeout:      getdur("AI_GEN_TIMEOUT", 30*time.Second),
			MaxTokens:       getint("AI_MAX_TOKENS", 512),
			Temperature:     getfloat("AI_TEMPERATURE", 0.1),
			MaxRetries:      getint("AI_MAX_RETRIES", 3),
			RetryBaseDelay:  getdur("AI_RETRY_BASE_DELAY", 500*time.Millisecond),
			SchemaCacheTTL:  getdur("AI_SCHEMA_CACHE_TTL", time.Hour),
			MemoryMaxTurns:  getint("AI_MEMORY_MAX_TURNS", 10),
			MemoryTTL:       getdur("AI_MEMORY_TTL", 30*time.Minute),
			RowLimit:        getint("AI_ROW_LIMIT", 100),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "membership-backoffice"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	switch cfg.Assistant.Provider {
	case "hosted", "local", "demo":
	default:
		return cfg, errors.New("AI_PROVIDER must be one of: hosted, local, demo")
	}
	if cfg.Assistant.Provider == "hosted" && strings.TrimSpace(cfg.Assistant.HostedAPIKey) == "" {
		return cfg, errors.New("AI_HOSTED_API_KEY must be set when AI_PROVIDER=hosted")
	}
	if cfg.Assistant.MaxRetries < 1 {
		return cfg, errors.New("AI_MAX_RETRIES must be >= 1")
	}
	if cfg.Assistant.RetryBaseDelay < 0 {
		return cfg, errors.New("AI_RETRY_BASE_DELAY must be >= 0")
	}
	if cfg.Assistant.GenTimeout <= 0 {
		return cfg, errors.New("AI_GEN_TIMEOUT must be > 0")
	}
	if cfg.Assistant.Temperature < 0 || cfg.Assistant.Temperature > 2 {
		return cfg, errors.New("AI_TEMPERATURE must be in [0,2]")
	}
	if cfg.Assistant.SchemaCacheTTL <= 0 {
		return cfg, errors.New("AI_SCHEMA_CACHE_TTL must be > 0")
	}
	if cfg.Assistant.MemoryMaxTurns < 1 {
		return cfg, errors.New("AI_MEMORY_MAX_TURNS must be >= 1")
	}
	if cfg.Assistant.MemoryTTL <= 0 {
		return cfg, errors.New("AI_MEMORY_TTL must be > 0")
	}
	if cfg.Assistant.RowLimit < 1 {
		return cfg, errors.New("AI_ROW_LIMIT must be >= 1")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
