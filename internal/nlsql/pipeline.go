package nlsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bansalmayank64/membership-management-system-sub000/internal/genai"
	"github.com/bansalmayank64/membership-management-system-sub000/internal/schema"
)

// SchemaLoader yields the current schema snapshot (usually schema.Loader).
type SchemaLoader interface {
	Load(ctx context.Context) (*schema.Snapshot, error)
}

// Config bounds one pipeline invocation.
type Config struct {
	// RowLimit caps non-bulk results lacking an explicit LIMIT.
	RowLimit int
	// MaxRetries is the shared budget across generation retries and
	// correction attempts.
	MaxRetries int
	// RetryBaseDelay grows linearly per attempt (delay = base × attempt).
	RetryBaseDelay time.Duration
}

// Metadata accompanies every response for observability and debugging.
type Metadata struct {
	SQL             string `json:"sql,omitempty"`
	Provider        string `json:"provider"`
	ExecutionTimeMS int64  `json:"execution_time_ms"`
	RetryCount      int    `json:"retry_count"`
	CorrelationID   string `json:"correlation_id"`
}

// Response is the pipeline's sole output. Failure modes are encoded in
// Success=false plus a human-readable Presentation; Answer never returns an
// error.
type Response struct {
	Success      bool             `json:"success"`
	Presentation string           `json:"presentation"`
	Rows         []map[string]any `json:"rows,omitempty"`
	Metadata     Metadata         `json:"metadata"`
}

// Pipeline wires the stages together. All collaborators are injected; the
// pipeline holds no global state beyond its Prometheus counters.
type Pipeline struct {
	loader SchemaLoader
	gen    *genai.Orchestrator
	store  RowStore
	memory *MemoryStore
	cfg    Config
	log    zerolog.Logger

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// NewPipeline builds a pipeline. MaxRetries falls back to 3 when
// non-positive.
func NewPipeline(loader SchemaLoader, gen *genai.Orchestrator, store RowStore, memory *MemoryStore, cfg Config, log zerolog.Logger) *Pipeline {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	return &Pipeline{
		loader: loader,
		gen:    gen,
		store:  store,
		memory: memory,
		cfg:    cfg,
		log:    log,
		sleep:  time.Sleep,
	}
}

// Answer runs the full pipeline for one question. It never returns an error
// and never panics on a provider or execution failure; the worst outcome is
// Success=false with a hint and a correlation id.
func (p *Pipeline) Answer(ctx context.Context, question, userID string) Response {
	cid := uuid.NewString()
	meta := Metadata{CorrelationID: cid}
	logger := p.log.With().Str("correlation_id", cid).Str("user_id", userID).Logger()

	snap, err := p.loader.Load(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("schema snapshot unavailable")
		answers.WithLabelValues("schema_error").Inc()
		return p.fail(userID, question, meta,
			fmt.Sprintf("Sorry, I couldn't read the database schema right now. Please try again. (ref: %s)", cid))
	}

	budget := &retryBudget{remaining: p.cfg.MaxRetries}
	prompt := BuildPrompt(snap, p.memory.Read(userID), question)

	sqlText, provider := p.generateValidated(ctx, prompt, budget, &meta)
	meta.Provider = provider
	if provider != primaryProviderName(p.gen.GenerationMode()) {
		providerFallbacks.WithLabelValues(provider).Inc()
	}

	statement := ApplyRowCap(InjectActiveFilter(sqlText, question), question, p.cfg.RowLimit)
	meta.SQL = statement

	res, execErr := p.executeWithCorrection(ctx, snap, statement, budget, &meta)
	if execErr != nil {
		logger.Warn().Err(execErr).Str("sql", meta.SQL).Msg("execution failed")
		answers.WithLabelValues("execution_error").Inc()
		return p.fail(userID, question, meta, ErrorPresentation(execErr.Error(), cid))
	}
	meta.ExecutionTimeMS = res.ExecutionTime.Milliseconds()

	presentation := p.present(ctx, question, res)

	p.memory.Record(userID, Turn{
		Question:        question,
		ResponseSummary: TruncateSummary(presentation),
		SQL:             meta.SQL,
		Succeeded:       true,
		CorrelationID:   cid,
	})
	answers.WithLabelValues("success").Inc()
	logger.Info().Str("provider", meta.Provider).Int("rows", res.RowCount).Msg("question answered")

	return Response{
		Success:      true,
		Presentation: presentation,
		Rows:         res.Rows,
		Metadata:     meta,
	}
}

// generateValidated obtains a statement that passes the safety validator.
// Unsafe output is regenerated with a stricter prompt while the budget
// allows; the final resort is the deterministic generator, whose output is
// safe by construction.
func (p *Pipeline) generateValidated(ctx context.Context, prompt string, budget *retryBudget, meta *Metadata) (string, string) {
	attempt := 0
	current := prompt
	for {
		raw, provider, err := p.gen.Generate(ctx, current, genai.Options{})
		if err == nil {
			stmt := ExtractSQL(raw)
			if vErr := Validate(stmt); vErr == nil {
				return stmt, provider
			}
			validatorRejections.Inc()
			if provider == "deterministic" {
				// Should not happen; fall through to the explicit floor below.
				err = ErrUnsafeStatement
			}
		}

		if err == nil && budget.Spend() {
			attempt++
			meta.RetryCount++
			p.sleep(time.Duration(attempt) * p.cfg.RetryBaseDelay)
			current = prompt + "\n\nThe previous attempt was rejected: it must be a single read-only SELECT statement with no other keywords."
			continue
		}

		raw, _ = genai.Deterministic{}.Generate(ctx, prompt, p.gen.Defaults())
		return ExtractSQL(raw), "deterministic"
	}
}

// executeWithCorrection runs the statement, repairing correctable failures
// until the shared budget is spent. Each attempt tries a generation-based
// repair first and the deterministic rewrites second; every candidate is
// re-validated before re-execution.
func (p *Pipeline) executeWithCorrection(ctx context.Context, snap *schema.Snapshot, statement string, budget *retryBudget, meta *Metadata) (*Result, error) {
	current := statement
	attempt := 0
	for {
		res, err := Execute(ctx, p.store, current)
		if err == nil {
			meta.SQL = current
			return res, nil
		}

		var execErr *ExecutionError
		if !errors.As(err, &execErr) {
			return nil, err
		}
		if !IsCorrectable(execErr) {
			return nil, execErr
		}
		if !budget.Spend() {
			return nil, fmt.Errorf("%w: %v", ErrCorrectionExhausted, execErr)
		}

		attempt++
		meta.RetryCount++
		correctionRetries.Inc()
		p.sleep(time.Duration(attempt) * p.cfg.RetryBaseDelay)

		next, ok := p.correct(ctx, snap, current, execErr)
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrCorrectionExhausted, execErr)
		}
		current = next
	}
}

// correct produces a repaired candidate for a failed statement, or ok=false
// when neither generation nor the rule-based rewrites yield a new safe
// statement.
func (p *Pipeline) correct(ctx context.Context, snap *schema.Snapshot, statement string, execErr *ExecutionError) (string, bool) {
	if raw, _, err := p.gen.TryGenerate(ctx, BuildCorrectionPrompt(snap.Render(), statement, execErr.Err.Error()), genai.Options{}); err == nil {
		cand := ExtractSQL(raw)
		if cand != statement && Validate(cand) == nil {
			return cand, true
		}
	}
	if rewritten, changed := DeterministicRewrite(statement); changed && Validate(rewritten) == nil {
		return rewritten, true
	}
	return "", false
}

// present formats a successful result: the fixed message for zero rows, a
// provider-backed summary otherwise, and the deterministic renderer when no
// formatting provider is reachable.
func (p *Pipeline) present(ctx context.Context, question string, res *Result) string {
	if res.RowCount == 0 {
		return NoResultsMessage
	}
	if text, _, err := p.gen.Format(ctx, BuildFormatPrompt(question, res), genai.Options{}); err == nil {
		return text
	}
	return DeterministicFormat(res)
}

// fail records the failed turn and builds the failure response.
func (p *Pipeline) fail(userID, question string, meta Metadata, presentation string) Response {
	p.memory.Record(userID, Turn{
		Question:        question,
		ResponseSummary: TruncateSummary(presentation),
		SQL:             meta.SQL,
		Succeeded:       false,
		CorrelationID:   meta.CorrelationID,
	})
	return Response{Success: false, Presentation: presentation, Metadata: meta}
}

// primaryProviderName maps a mode name to the provider name it reports.
func primaryProviderName(mode string) string {
	if mode == genai.ModeDemo {
		return "deterministic"
	}
	return mode
}

// retryBudget is the shared attempt counter threaded through generation and
// correction; decrementing happens in exactly one place.
type retryBudget struct {
	remaining int
}

// Spend consumes one attempt, reporting false once the budget is exhausted.
func (b *retryBudget) Spend() bool {
	if b.remaining <= 0 {
		return false
	}
	b.remaining--
	return true
}
