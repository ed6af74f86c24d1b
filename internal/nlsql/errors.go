// Package nlsql implements the natural-language-to-SQL pipeline: prompt
// assembly from an introspected schema snapshot and recent conversation,
// provider-backed SQL generation with a deterministic floor, safety
// validation, default active-filter injection, capped read-only execution,
// bounded syntax correction, and result formatting. The single entry point is
// Pipeline.Answer, which never returns an error; every failure mode is
// encoded in the response.
package nlsql

import "errors"

// Sentinel errors of the pipeline stages. Callers use errors.Is; where extra
// detail matters the error is wrapped with a reason.
var (
	// ErrUnsafeStatement marks generated text that failed the safety
	// validator. The statement must not be executed.
	ErrUnsafeStatement = errors.New("unsafe statement")

	// ErrCorrectionExhausted marks a request whose shared retry budget was
	// spent without a successful execution.
	ErrCorrectionExhausted = errors.New("correction attempts exhausted")
)

// ExecutionError wraps a database error from statement execution, keeping the
// statement that failed for correction prompts and logs.
type ExecutionError struct {
	SQL string
	Err error
}

// Error implements error.
func (e *ExecutionError) Error() string { return "execute statement: " + e.Err.Error() }

// Unwrap exposes the driver error for errors.Is/As.
func (e *ExecutionError) Unwrap() error { return e.Err }
