package engine

import (
	"log/slog"

	"github.com/steinerkelvin/Kindelia/internal/graph"
	"github.com/steinerkelvin/Kindelia/internal/term"
)

// DefaultMaxSteps is the default step budget per evaluation. It bounds
// runaway reductions; raise it via WithMaxSteps for heavier programs.
const DefaultMaxSteps = 4096

// Engine evaluates node graphs against a function book.
//
// The book and the options are fixed at construction. The label source is
// shared with graph construction so that labels minted while instantiating
// equation bodies never collide with labels minted while building the
// input term.
//
// Thread-safety model:
//   - one Engine may serve many sequential evaluations
//   - a single evaluation mutates its graph from one goroutine only
//   - concurrent evaluations must not share graph nodes
type Engine struct {
	book     *Book
	labels   *graph.Labels
	maxSteps int
	tokens   TokenGenerator
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxSteps sets the step budget per evaluation.
//
// Default: 4096 (DefaultMaxSteps).
// Use WithMaxSteps(10) for testing budget enforcement.
func WithMaxSteps(maxSteps int) Option {
	return func(e *Engine) {
		e.maxSteps = maxSteps
	}
}

// WithTokenGenerator sets the evaluation-token source.
// Tests pass a FixedGenerator for deterministic traces.
func WithTokenGenerator(gen TokenGenerator) Option {
	return func(e *Engine) {
		e.tokens = gen
	}
}

// New creates an Engine over the given book, drawing duplication labels
// from labels. The same labels value must be used to Build the terms the
// engine later reduces.
func New(book *Book, labels *graph.Labels, opts ...Option) *Engine {
	e := &Engine{
		book:     book,
		labels:   labels,
		maxSteps: DefaultMaxSteps,
		tokens:   UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxSteps returns the configured step budget.
func (e *Engine) MaxSteps() int {
	return e.maxSteps
}

// Stats reports what one evaluation did.
type Stats struct {
	// Token correlates this evaluation across logs and errors.
	Token string

	// Steps is the number of rewrite rules fired.
	Steps int

	// Stuck lists function names that were called but matched no
	// equation, in first-encounter order, deduplicated.
	Stuck []term.Name
}

// Normalize reduces root to full normal form, or until the step budget
// runs out. The returned node is the reduced root; on StepsExceededError
// it is the partially reduced graph, still valid for readback.
//
// A call with no matching equation is not an error: the call stays in the
// output and its function name is recorded in Stats.Stuck.
func (e *Engine) Normalize(root graph.Node) (graph.Node, *Stats, error) {
	r := e.newRun()
	slog.Debug("normalize starting", "eval", r.token, "max_steps", e.maxSteps)

	out, err := r.normalize(root)
	stats := r.stats()
	if err != nil {
		slog.Warn("normalize aborted",
			"eval", r.token,
			"steps", stats.Steps,
			"error", err,
		)
		return out, stats, err
	}

	slog.Debug("normalize done",
		"eval", r.token,
		"steps", stats.Steps,
		"stuck", len(stats.Stuck),
	)
	return out, stats, nil
}

// Whnf reduces root to weak head normal form only: enough steps to expose
// the outermost constructor, lambda, number, or superposition.
func (e *Engine) Whnf(root graph.Node) (graph.Node, *Stats, error) {
	r := e.newRun()
	out, err := r.whnf(root)
	return out, r.stats(), err
}

func (e *Engine) newRun() *run {
	return &run{
		engine:    e,
		budget:    NewStepBudget(e.maxSteps),
		token:     e.tokens.Generate(),
		stuckSeen: map[term.Name]bool{},
		seenLams:  map[*graph.LamNode]bool{},
		seenDups:  map[*graph.DupNode]bool{},
		seenSups:  map[*graph.SupNode]bool{},
	}
}
