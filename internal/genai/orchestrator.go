package genai

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Provider mode names accepted by SwitchMode and config.
const (
	ModeHosted = "hosted"
	ModeLocal  = "local"
	ModeDemo   = "demo"
)

// OrchestratorConfig wires the orchestrator's providers and policy.
// Hosted and Local may be nil when not configured; Primary must name a
// non-nil provider or ModeDemo.
type OrchestratorConfig struct {
	Primary         string
	FallbackEnabled bool
	Hosted          Generator
	Local           Generator
	Defaults        Options
}

// Orchestrator owns the fallback state: which provider is primary for SQL
// generation and for result formatting (tracked independently), which
// providers have been demoted by an in-flight failure, and the walk order of
// the chain. A demoted provider is skipped for the remainder of the process
// until an explicit SwitchMode back to it succeeds.
type Orchestrator struct {
	mu        sync.Mutex
	providers map[string]Generator
	genMode   string
	fmtMode   string
	fallback  bool
	demoted   map[string]bool
	defaults  Options
}

// NewOrchestrator builds an orchestrator. The deterministic generator is
// always registered under ModeDemo as the floor of the generation chain.
func NewOrchestrator(cfg OrchestratorConfig) (*Orchestrator, error) {
	providers := map[string]Generator{ModeDemo: Deterministic{}}
	if cfg.Hosted != nil {
		providers[ModeHosted] = cfg.Hosted
	}
	if cfg.Local != nil {
		providers[ModeLocal] = cfg.Local
	}

	mode := strings.ToLower(strings.TrimSpace(cfg.Primary))
	if mode == "" {
		mode = ModeDemo
	}
	if _, ok := providers[mode]; !ok {
		return nil, fmt.Errorf("primary provider %q is not configured", mode)
	}
	return &Orchestrator{
		providers: providers,
		genMode:   mode,
		fmtMode:   mode,
		fallback:  cfg.FallbackEnabled,
		demoted:   make(map[string]bool),
		defaults:  cfg.Defaults,
	}, nil
}

// Defaults returns the options passed to providers when the caller supplies
// the zero value.
func (o *Orchestrator) Defaults() Options { return o.defaults }

// GenerationMode returns the current primary mode for SQL generation.
func (o *Orchestrator) GenerationMode() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.genMode
}

// Generate walks the generation chain: primary, then the other network
// provider when fallback is enabled, then the deterministic generator. It
// returns the text together with the name of the provider that answered.
// Because the chain ends at the deterministic generator the error is nil for
// every reachable input.
func (o *Orchestrator) Generate(ctx context.Context, prompt string, opts Options) (string, string, error) {
	return o.walk(ctx, prompt, opts, o.chain(o.generationMode(), true))
}

// TryGenerate walks the generation chain without the deterministic floor.
// The correction loop uses it for generation-based repairs, where the
// pattern-matching generator would answer the wrong question; it falls back
// to rule-based rewrites when this returns ErrNoProvider.
func (o *Orchestrator) TryGenerate(ctx context.Context, prompt string, opts Options) (string, string, error) {
	return o.walk(ctx, prompt, opts, o.chain(o.generationMode(), false))
}

// Format walks the same chain for result formatting, but without the
// deterministic floor: the formatter keeps its own templated fallback, so an
// all-providers-failed walk returns ErrNoProvider.
func (o *Orchestrator) Format(ctx context.Context, prompt string, opts Options) (string, string, error) {
	return o.walk(ctx, prompt, opts, o.chain(o.formattingMode(), false))
}

// SwitchMode changes the primary provider for both generation and
// formatting. The new primary's availability is verified before committing;
// on failure the previous state is left untouched. Switching to a provider
// clears its demotion.
func (o *Orchestrator) SwitchMode(ctx context.Context, mode string) error {
	mode = strings.ToLower(strings.TrimSpace(mode))

	o.mu.Lock()
	gen, ok := o.providers[mode]
	o.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	if p, ok := gen.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("provider %q unavailable: %w", mode, err)
		}
	}

	o.mu.Lock()
	o.genMode = mode
	o.fmtMode = mode
	delete(o.demoted, mode)
	o.mu.Unlock()
	return nil
}

func (o *Orchestrator) generationMode() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.genMode
}

func (o *Orchestrator) formattingMode() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.fmtMode
}

// chain computes the walk order for a primary mode. Demoted providers are
// skipped. The deterministic generator is appended only for generation.
func (o *Orchestrator) chain(primary string, withFloor bool) []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	var order []string
	add := func(mode string) {
		if _, ok := o.providers[mode]; !ok || o.demoted[mode] || mode == ModeDemo {
			return
		}
		for _, m := range order {
			if m == mode {
				return
			}
		}
		order = append(order, mode)
	}

	add(primary)
	if o.fallback && primary != ModeDemo {
		switch primary {
		case ModeHosted:
			add(ModeLocal)
		case ModeLocal:
			add(ModeHosted)
		}
	}
	if withFloor {
		order = append(order, ModeDemo)
	}
	return order
}

func (o *Orchestrator) walk(ctx context.Context, prompt string, opts Options, order []string) (string, string, error) {
	if opts == (Options{}) {
		opts = o.defaults
	}
	var lastErr error
	for _, mode := range order {
		o.mu.Lock()
		gen := o.providers[mode]
		o.mu.Unlock()

		text, err := gen.Generate(ctx, prompt, opts)
		if err == nil {
			return text, gen.Name(), nil
		}
		lastErr = err
		if mode != ModeDemo {
			o.mu.Lock()
			o.demoted[mode] = true
			o.mu.Unlock()
		}
	}
	if lastErr == nil {
		return "", "", ErrNoProvider
	}
	return "", "", fmt.Errorf("%w: %v", ErrNoProvider, lastErr)
}
