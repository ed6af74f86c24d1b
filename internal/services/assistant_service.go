// Package services – AssistantService
//
// This file implements the AssistantService, the application-level owner of
// the natural-language query pipeline. It validates and normalizes incoming
// questions, delegates to the pipeline (which never fails), maintains the
// per-user query-frequency analytics, and exposes conversation-history and
// provider-mode management for the HTTP layer.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// include the user identifier and, where useful, the provider that answered.
package services

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/bansalmayank64/membership-management-system-sub000/internal/domain"
	"github.com/bansalmayank64/membership-management-system-sub000/internal/genai"
	"github.com/bansalmayank64/membership-management-system-sub000/internal/nlsql"
	"github.com/bansalmayank64/membership-management-system-sub000/internal/repo"
)

// Answerer is the pipeline contract consumed by AssistantService.
type Answerer interface {
	Answer(ctx context.Context, question, userID string) nlsql.Response
}

// ModeSwitcher manages the active generation provider.
type ModeSwitcher interface {
	SwitchMode(ctx context.Context, mode string) error
	GenerationMode() string
}

// AssistantService provides the question-answering surface plus the
// housekeeping operations around it (history, frequent queries, provider
// mode).
type AssistantService struct {
	// DB is the GORM handle used for query-frequency persistence.
	DB *gorm.DB
	// Pipeline answers questions; it encodes failures in its response.
	Pipeline Answerer
	// Memory is the bounded per-user conversation log shared with Pipeline.
	Memory *nlsql.MemoryStore
	// Modes switches the active text-generation provider.
	Modes ModeSwitcher

	// QuestionMaxLen caps accepted questions by rune length.
	QuestionMaxLen int

	Log zerolog.Logger
}

// NewAssistantService constructs an AssistantService with sane defaults.
func NewAssistantService(db *gorm.DB, pipeline Answerer, memory *nlsql.MemoryStore, modes ModeSwitcher, log zerolog.Logger) *AssistantService {
	return &AssistantService{
		DB:             db,
		Pipeline:       pipeline,
		Memory:         memory,
		Modes:          modes,
		QuestionMaxLen: 500,
		Log:            log,
	}
}

// Ask validates the question and runs the pipeline. The returned response is
// always usable; an error is only returned for input validation failures, so
// handlers can map those to 400s while pipeline failures stay 200s with
// success=false.
func (s *AssistantService) Ask(ctx context.Context, userID, question string) (nlsql.Response, error) {
	tr := otel.Tracer("services/AssistantService")
	ctx, span := tr.Start(ctx, "Ask",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	question = strings.TrimSpace(question)
	if question == "" {
		return nlsql.Response{}, ErrEmptyQuestion
	}
	if s.QuestionMaxLen > 0 && utf8.RuneCountInString(question) > s.QuestionMaxLen {
		return nlsql.Response{}, ErrQuestionTooLong
	}

	resp := s.Pipeline.Answer(ctx, question, userID)
	span.SetAttributes(
		attribute.Bool("answer.success", resp.Success),
		attribute.String("answer.provider", resp.Metadata.Provider),
	)

	// Frequency analytics are best-effort; a storage hiccup must not fail
	// an answered question.
	if _, err := repo.UpsertQueryFrequency(ctx, s.DB, userID, NormalizeQuestion(question), question, time.Now().UTC()); err != nil {
		s.Log.Warn().Err(err).Str("user_id", userID).Msg("query frequency upsert failed")
	}

	return resp, nil
}

// ClearHistory removes the user's conversation log.
func (s *AssistantService) ClearHistory(ctx context.Context, userID string) {
	tr := otel.Tracer("services/AssistantService")
	_, span := tr.Start(ctx, "ClearHistory",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	s.Memory.Clear(userID)
}

// TopQueries returns the user's most frequent questions, capped at n.
func (s *AssistantService) TopQueries(ctx context.Context, userID string, n int) ([]domain.QueryFrequency, error) {
	tr := otel.Tracer("services/AssistantService")
	ctx, span := tr.Start(ctx, "TopQueries",
		trace.WithAttributes(attribute.String("user.id", userID), attribute.Int("n", n)),
	)
	defer span.End()

	return repo.TopQueries(ctx, s.DB, userID, n)
}

// SwitchMode changes the active generation provider. genai.ErrUnknownMode is
// passed through for the handler to map to a 400.
func (s *AssistantService) SwitchMode(ctx context.Context, mode string) error {
	tr := otel.Tracer("services/AssistantService")
	ctx, span := tr.Start(ctx, "SwitchMode",
		trace.WithAttributes(attribute.String("mode", mode)),
	)
	defer span.End()

	if err := s.Modes.SwitchMode(ctx, mode); err != nil {
		return err
	}
	s.Log.Info().Str("mode", s.Modes.GenerationMode()).Msg("assistant provider switched")
	return nil
}

// Mode returns the currently active generation mode.
func (s *AssistantService) Mode() string { return s.Modes.GenerationMode() }

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)

// trailingPunctRE strips trailing question/exclamation marks and periods.
var trailingPunctRE = regexp.MustCompile(`[?!.\s]+$`)

// NormalizeQuestion produces the frequency-store key: lowercased, whitespace
// collapsed, trailing punctuation removed. "How many students? " and
// "how many students" count as the same question.
func NormalizeQuestion(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	q = whitespaceRE.ReplaceAllString(q, " ")
	return trailingPunctRE.ReplaceAllString(q, "")
}

// ensure the orchestrator satisfies the service contract.
var _ ModeSwitcher = (*genai.Orchestrator)(nil)
