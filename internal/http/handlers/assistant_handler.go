// Assistant HTTP handlers.
//
// This file exposes REST endpoints for the natural-language query assistant:
//   - POST   /assistant/query     (ask a question)
//   - DELETE /assistant/history   (clear conversation memory)
//   - GET    /assistant/frequent  (most frequent questions)
//   - GET    /assistant/mode      (current provider mode)
//   - PUT    /assistant/mode      (switch provider mode)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses. A pipeline failure is NOT an HTTP
// error; it arrives as a 200 with success=false so clients always get a
// renderable answer.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bansalmayank64/membership-management-system-sub000/internal/domain"
	"github.com/bansalmayank64/membership-management-system-sub000/internal/genai"
	"github.com/bansalmayank64/membership-management-system-sub000/internal/nlsql"
	"github.com/bansalmayank64/membership-management-system-sub000/internal/services"
)

//
// Service contracts (context-aware)
//

// AssistantService defines the assistant operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type AssistantService interface {
	// Ask answers a natural-language question for userID. A pipeline failure
	// is encoded in the response; an error is only returned for invalid input.
	Ask(ctx context.Context, userID, question string) (nlsql.Response, error)
	// ClearHistory drops the user's conversation memory.
	ClearHistory(ctx context.Context, userID string)
	// TopQueries returns the user's most frequent questions, capped at n.
	TopQueries(ctx context.Context, userID string, n int) ([]domain.QueryFrequency, error)
	// SwitchMode changes the active text-generation provider.
	SwitchMode(ctx context.Context, mode string) error
	// Mode returns the currently active provider mode.
	Mode() string
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for the assistant and student resources.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	assistantSvc AssistantService
	studentSvc   StudentService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(assistantSvc AssistantService, studentSvc StudentService) *Handlers {
	return &Handlers{assistantSvc: assistantSvc, studentSvc: studentSvc}
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to "X-User-ID" header (tests use it),
// and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

//
// DTOs
//

// QueryRequest is the JSON payload for asking the assistant a question.
type QueryRequest struct {
	// Question is the natural-language question (1–500 chars).
	Question string `json:"question" binding:"required" example:"How many active students do we have?"`
}

// ModeRequest is the JSON payload for switching the provider mode.
type ModeRequest struct {
	// Mode selects the generation backend: hosted, local or demo.
	Mode string `json:"mode" binding:"required" example:"local"`
}

// ModeResponse reports the active provider mode.
type ModeResponse struct {
	Mode string `json:"mode" example:"demo"`
}

// FrequentQuery is one entry of the frequent-questions report.
type FrequentQuery struct {
	Question string `json:"question" example:"how many active students"`
	Count    int    `json:"count" example:"12"`
	LastUsed string `json:"last_used" example:"2025-04-02T10:30:00Z"`
}

// FrequentQueriesResponse wraps the frequent-questions report.
type FrequentQueriesResponse struct {
	Queries []FrequentQuery `json:"queries"`
}

//
// Handlers
//

// PostQuery godoc
// @ID          postQuery
// @Summary     Ask the assistant a question
// @Description Answers a natural-language question about seats, students, payments and expenses. Pipeline failures are reported with success=false, not an error status.
// @Tags        Assistant
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.QueryRequest  true  "Question payload"
//
// @Success     200  {object}  nlsql.Response
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Router      /assistant/query [post]
func (h *Handlers) PostQuery(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	resp, err := h.assistantSvc.Ask(c.Request.Context(), userID(c), req.Question)
	switch {
	case errors.Is(err, services.ErrEmptyQuestion):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "question must not be empty")
		return
	case errors.Is(err, services.ErrQuestionTooLong):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "question exceeds the maximum length")
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeAnswerFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, resp)
}

// ClearHistory godoc
// @ID          clearHistory
// @Summary     Clear conversation history
// @Description Drops the current user's conversation memory so the next question starts fresh.
// @Tags        Assistant
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     204  {string} string "No Content"
// @Router      /assistant/history [delete]
func (h *Handlers) ClearHistory(c *gin.Context) {
	h.assistantSvc.ClearHistory(c.Request.Context(), userID(c))
	noContent(c)
}

// FrequentQueries godoc
// @ID          frequentQueries
// @Summary     Most frequent questions
// @Description Returns the current user's most frequently asked questions, most used first.
// @Tags        Assistant
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       limit      query   int     false "Max entries"  minimum(1) maximum(50) default(10)
//
// @Success     200  {object} handlers.FrequentQueriesResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /assistant/frequent [get]
func (h *Handlers) FrequentQueries(c *gin.Context) {
	n := clampLimit(c, 10, 50)

	items, err := h.assistantSvc.TopQueries(c.Request.Context(), userID(c), n)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	out := FrequentQueriesResponse{Queries: make([]FrequentQuery, 0, len(items))}
	for _, it := range items {
		out.Queries = append(out.Queries, FrequentQuery{
			Question: it.ExampleText,
			Count:    it.Count,
			LastUsed: it.LastUsed.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	ok(c, http.StatusOK, out)
}

// GetMode godoc
// @ID          getMode
// @Summary     Current provider mode
// @Tags        Assistant
// @Produce     json
//
// @Success     200  {object} handlers.ModeResponse
// @Router      /assistant/mode [get]
func (h *Handlers) GetMode(c *gin.Context) {
	ok(c, http.StatusOK, ModeResponse{Mode: h.assistantSvc.Mode()})
}

// SwitchMode godoc
// @ID          switchMode
// @Summary     Switch the provider mode
// @Description Validates the requested backend (connectivity check for hosted/local) and makes it the primary provider. State is unchanged on failure.
// @Tags        Assistant
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.ModeRequest  true  "Mode payload"
//
// @Success     200  {object} handlers.ModeResponse
// @Failure     400  {object} handlers.ErrorResponse "Unknown mode"
// @Failure     502  {object} handlers.ErrorResponse "Provider unreachable"
// @Router      /assistant/mode [put]
func (h *Handlers) SwitchMode(c *gin.Context) {
	var req ModeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Mode) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "mode required (hosted, local or demo)")
		return
	}

	if err := h.assistantSvc.SwitchMode(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Mode))); err != nil {
		if errors.Is(err, genai.ErrUnknownMode) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "mode must be one of: hosted, local, demo")
			return
		}
		fail(c, http.StatusBadGateway, ErrCodeModeSwitchFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ModeResponse{Mode: h.assistantSvc.Mode()})
}
