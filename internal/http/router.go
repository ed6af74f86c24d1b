// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, and rate limiting, and assembles the
// assistant pipeline from its parts (schema loader, provider orchestrator,
// read-only executor, conversation memory).
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/bansalmayank64/membership-management-system-sub000/internal/config"
	"github.com/bansalmayank64/membership-management-system-sub000/internal/genai"
	"github.com/bansalmayank64/membership-management-system-sub000/internal/http/handlers"
	"github.com/bansalmayank64/membership-management-system-sub000/internal/http/middleware"
	"github.com/bansalmayank64/membership-management-system-sub000/internal/nlsql"
	"github.com/bansalmayank64/membership-management-system-sub000/internal/repo"
	"github.com/bansalmayank64/membership-management-system-sub000/internal/schema"
	"github.com/bansalmayank64/membership-management-system-sub000/internal/services"
)

// rowStoreShim adapts the repository free functions to the nlsql.RowStore
// interface expected by the pipeline. This keeps nlsql decoupled from the
// repo package (and from GORM) while reusing existing functions.
type rowStoreShim struct {
	db *gorm.DB
}

// SelectRows proxies repo.SelectRows, flattening the result struct.
func (s rowStoreShim) SelectRows(ctx context.Context, sql string) ([]string, []map[string]any, error) {
	res, err := repo.SelectRows(ctx, s.db, sql)
	if err != nil {
		return nil, nil, err
	}
	return res.Columns, res.Rows, nil
}

// buildOrchestrator assembles the provider chain from config. Hosted and
// local backends are registered only when their settings are complete; the
// deterministic generator is always available.
func buildOrchestrator(cfg config.AssistantConfig) (*genai.Orchestrator, error) {
	oc := genai.OrchestratorConfig{
		Primary:         cfg.Provider,
		FallbackEnabled: cfg.FallbackEnabled,
		Defaults: genai.Options{
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		},
	}

	if cfg.HostedAPIKey != "" {
		hosted, err := genai.NewHostedClient(genai.HostedConfig{
			BaseURL: cfg.HostedBaseURL,
			APIKey:  cfg.HostedAPIKey,
			Model:   cfg.HostedModel,
			Timeout: cfg.GenTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("hosted provider: %w", err)
		}
		oc.Hosted = hosted
	}

	if cfg.LocalBaseURL != "" {
		local, err := genai.NewLocalClient(genai.LocalConfig{
			BaseURL: cfg.LocalBaseURL,
			Model:   cfg.LocalModel,
			Timeout: cfg.GenTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("local provider: %w", err)
		}
		oc.Local = local
	}

	return genai.NewOrchestrator(oc)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), identity and rate
// limiting, CORS and security headers, health and metrics endpoints, and then
// mounts the versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Response compression
//  7. Metrics
//  8. AuthContext (identity before rate limiting, so buckets key by user)
//  9. Rate limiter (per user/IP)
//  10. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) error {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"Authorization", // hosted provider key must never reach logs
			"X-API-Key",
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (64 KiB; the largest payload is a question)
	r.Use(limitBody(64 << 10))

	// 6) Compress responses (row sets can be large); /metrics is scraped
	//    by Prometheus which negotiates its own encoding.
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Identity propagation (before rate limiting, so buckets key by user)
	r.Use(middleware.AuthContext(middleware.AuthOptions{
		MaxLen: 128,
	}))

	// 9) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderUserID},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderUserID},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API documentation (opt-in)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: pipeline ← loader/orchestrator/executor/memory
	orch, err := buildOrchestrator(cfg.Assistant)
	if err != nil {
		return err
	}
	loader := schema.NewLoader(repo.Introspector{DB: db}, cfg.Assistant.SchemaCacheTTL, nil)
	memory := nlsql.NewMemoryStore(cfg.Assistant.MemoryMaxTurns, cfg.Assistant.MemoryTTL, nil)
	pipeline := nlsql.NewPipeline(loader, orch, rowStoreShim{db: db}, memory, nlsql.Config{
		RowLimit:       cfg.Assistant.RowLimit,
		MaxRetries:     cfg.Assistant.MaxRetries,
		RetryBaseDelay: cfg.Assistant.RetryBaseDelay,
	}, log.Logger)

	assistantSvc := services.NewAssistantService(db, pipeline, memory, orch, log.Logger)
	studentSvc := services.NewStudentService(db)
	h := handlers.New(assistantSvc, studentSvc)

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Assistant
		api.POST("/assistant/query", h.PostQuery)
		api.DELETE("/assistant/history", h.ClearHistory)
		api.GET("/assistant/frequent", h.FrequentQueries)
		api.GET("/assistant/mode", h.GetMode)
		api.PUT("/assistant/mode", h.SwitchMode)

		// Students
		api.GET("/students", h.ListStudents)
		api.GET("/students/expiring", h.ExpiringStudents)
		api.GET("/students/:id", h.GetStudent)

		// Dashboard
		api.GET("/dashboard/stats", h.DashboardStats)
	}

	return nil
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
