package generator

import (
	"fmt"
	"log/slog"

	"github.com/tslkit/tslkit/internal/model"
)

// Generator orchestrates frame generation for one specification.
//
// A Generator is not safe for concurrent use: generation mutates the
// specification's shared property table and restores it before returning.
// Two successive Generate calls on an unmodified specification yield
// identical results.
type Generator struct {
	spec *model.Specification

	// stepBudget bounds the number of search states the backtracking phase
	// may visit. Zero means unbounded, which is the faithful default; the
	// combinatorial blow-up of full category-partition coverage is inherent,
	// not a defect.
	stepBudget int
}

// Option configures a Generator.
type Option func(*Generator)

// WithStepBudget bounds the backtracking search to n visited states.
// Exceeding the budget aborts generation with a BudgetError after restoring
// the property table. n <= 0 leaves the search unbounded.
func WithStepBudget(n int) Option {
	return func(g *Generator) {
		g.stepBudget = n
	}
}

// New creates a Generator for the given specification.
func New(spec *model.Specification, opts ...Option) *Generator {
	g := &Generator{spec: spec}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces the ordered frame list for the specification.
//
// Structural invariants are checked first; a violation aborts with an
// InvariantError before any frame is produced. Single/error extraction runs
// to completion before normal-frame enumeration, and its frames are numbered
// first. On every return path, including errors, the property table is left
// all-false.
func (g *Generator) Generate() (*Result, error) {
	if err := g.spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid specification: %w", err)
	}

	// Defensive: start from a clean table even if a previous caller left
	// state behind.
	g.spec.Properties.Reset()

	result := &Result{SpecName: g.spec.Name}

	g.extractTargeted(result)

	slog.Debug("targeted extraction complete",
		"spec", g.spec.Name,
		"single", result.SingleCount(),
		"error", result.ErrorCount(),
	)

	if err := g.enumerateNormal(result); err != nil {
		g.spec.Properties.Reset()
		return nil, err
	}

	slog.Info("generation complete",
		"spec", g.spec.Name,
		"total", result.Total(),
		"normal", result.NormalCount(),
		"single", result.SingleCount(),
		"error", result.ErrorCount(),
	)

	return result, nil
}
