// Package genai abstracts text generation behind a small Generator interface
// with three implementations: a hosted OpenAI-compatible API, a local
// Ollama-style inference server, and a deterministic pattern-matching
// generator that needs no network and cannot fail.
//
// The Orchestrator selects which implementation answers and walks the
// fallback chain when one errors, so callers always receive text.
package genai

import (
	"context"
	"errors"
)

// Options tune a single generation call.
type Options struct {
	MaxTokens   int
	Temperature float64
}

// Generator produces text for a prompt. Implementations must be safe for
// concurrent use.
type Generator interface {
	// Name identifies the implementation in metadata and logs.
	Name() string
	// Generate returns the raw model output for prompt.
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// Pinger is implemented by providers that can cheaply verify availability.
// The orchestrator probes it before committing a mode switch.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ErrNoProvider is returned when every network-backed provider in a chain has
// failed and no deterministic floor applies (formatting only; SQL generation
// always ends at the deterministic generator).
var ErrNoProvider = errors.New("no generation provider available")

// ErrUnknownMode is returned by SwitchMode for an unrecognized mode name.
var ErrUnknownMode = errors.New("unknown provider mode")
