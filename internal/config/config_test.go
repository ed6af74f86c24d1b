package config

import (
	"strings"
	"testing"
	"time"
)

// setenv applies env vars for the duration of a test.
func setenv(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with defaults: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port default = %q", cfg.Port)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode default = %q", cfg.GinMode)
	}
	if cfg.DBPath != "membership.db" {
		t.Errorf("DBPath default = %q", cfg.DBPath)
	}
	if cfg.APIBasePath != "/api/v1" {
		t.Errorf("APIBasePath default = %q", cfg.APIBasePath)
	}
	a := cfg.Assistant
	if a.Provider != "demo" {
		t.Errorf("Assistant.Provider default = %q", a.Provider)
	}
	if !a.FallbackEnabled {
		t.Errorf("FallbackEnabled default should be true")
	}
	if a.MaxRetries != 3 {
		t.Errorf("MaxRetries default = %d", a.MaxRetries)
	}
	if a.SchemaCacheTTL != time.Hour {
		t.Errorf("SchemaCacheTTL default = %v", a.SchemaCacheTTL)
	}
	if a.MemoryMaxTurns != 10 || a.MemoryTTL != 30*time.Minute {
		t.Errorf("memory bounds default = %d/%v", a.MemoryMaxTurns, a.MemoryTTL)
	}
	if a.RowLimit != 100 {
		t.Errorf("RowLimit default = %d", a.RowLimit)
	}
}

func TestLoad_OverridesAndNormalization(t *testing.T) {
	setenv(t, map[string]string{
		"PORT":             "9090",
		"GIN_MODE":         "WEIRD",
		"LOG_LEVEL":        "WARNING",
		"API_BASE_PATH":    "api/v2/",
		"AI_PROVIDER":      "LOCAL",
		"AI_MAX_RETRIES":   "5",
		"AI_MEMORY_TTL":    "10m",
		"AI_ROW_LIMIT":     "25",
		"AI_LOCAL_MODEL":   "llama3",
		"RATE_RPS":         "2.5",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example ,",
	})
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.GinMode != "release" {
		t.Errorf("unknown GIN_MODE should normalize to release, got %q", cfg.GinMode)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LOG_LEVEL=WARNING should normalize to warn, got %q", cfg.LogLevel)
	}
	if cfg.APIBasePath != "/api/v2" {
		t.Errorf("APIBasePath = %q", cfg.APIBasePath)
	}
	if cfg.Assistant.Provider != "local" || cfg.Assistant.LocalModel != "llama3" {
		t.Errorf("assistant override: %+v", cfg.Assistant)
	}
	if cfg.Assistant.MaxRetries != 5 || cfg.Assistant.MemoryTTL != 10*time.Minute || cfg.Assistant.RowLimit != 25 {
		t.Errorf("assistant numeric overrides: %+v", cfg.Assistant)
	}
	if cfg.RateRPS != 2.5 {
		t.Errorf("RateRPS = %v", cfg.RateRPS)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad log level", map[string]string{"LOG_LEVEL": "verbose"}, "LOG_LEVEL"},
		{"bad provider", map[string]string{"AI_PROVIDER": "gpt"}, "AI_PROVIDER"},
		{"hosted without key", map[string]string{"AI_PROVIDER": "hosted"}, "AI_HOSTED_API_KEY"},
		{"zero retries", map[string]string{"AI_MAX_RETRIES": "0"}, "AI_MAX_RETRIES"},
		{"zero memory turns", map[string]string{"AI_MEMORY_MAX_TURNS": "0"}, "AI_MEMORY_MAX_TURNS"},
		{"zero row limit", map[string]string{"AI_ROW_LIMIT": "0"}, "AI_ROW_LIMIT"},
		{"negative rps", map[string]string{"RATE_RPS": "-1"}, "RATE_RPS"},
		{"bad sample ratio", map[string]string{"OTEL_TRACES_SAMPLER_ARG": "3"}, "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setenv(t, tc.env)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("want error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestMustLoad_PanicsOnInvalid(t *testing.T) {
	t.Setenv("AI_PROVIDER", "bogus")
	defer func() {
		if recover() == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	MustLoad()
}

func TestNormalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":         "/",
		"/":        "/",
		"api":      "/api",
		"/api/":    "/api",
		"/api/v1":  "/api/v1",
		" /x/y/ ":  "/x/y",
	}
	for in, want := range cases {
		if got := normalizeBasePath(in); got != want {
			t.Errorf("normalizeBasePath(%q) = %q; want %q", in, got, want)
		}
	}
}
