package harness

import (
	"fmt"
	"log/slog"

	"github.com/steinerkelvin/Kindelia/internal/engine"
	"github.com/steinerkelvin/Kindelia/internal/graph"
	"github.com/steinerkelvin/Kindelia/internal/parser"
	"github.com/steinerkelvin/Kindelia/internal/term"
)

// Result captures what running a scenario produced.
type Result struct {
	// Input is the canonical print of the evaluated term.
	Input string

	// Output is the printed normal form. On an expected budget error it
	// holds the partially reduced term.
	Output string

	// Steps is the number of rewrite rules fired.
	Steps int

	// Stuck lists functions that matched no equation.
	Stuck []string

	// ErrorKind is the matched expected error, empty on success.
	ErrorKind string
}

// Run executes a scenario: parse, build, normalize, read back, print.
//
// An error the scenario declares via expect_error is part of a passing
// run and lands in Result.ErrorKind; any other failure is returned.
func Run(s *Scenario) (*Result, error) {
	book := engine.NewBook()
	labels := graph.NewLabels()

	var main term.Term
	if s.Program != "" {
		prog, err := parser.ParseProgram(s.Program)
		if err != nil {
			if parser.IsParseError(err) && s.ExpectError == ErrorParse {
				return &Result{ErrorKind: ErrorParse}, nil
			}
			return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
		if err := prog.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
		for _, fun := range prog.Funs {
			rules := make([]engine.Rule, len(fun.Rules))
			for i, r := range fun.Rules {
				rules[i] = engine.Rule{Patterns: r.Patterns, Body: r.Body}
			}
			if err := book.Define(fun.Name, fun.Arity, rules); err != nil {
				return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
			}
		}
		main = prog.Main
	}
	if s.Term != "" {
		t, err := parser.ParseTerm(s.Term)
		if err != nil {
			if parser.IsParseError(err) && s.ExpectError == ErrorParse {
				return &Result{ErrorKind: ErrorParse}, nil
			}
			return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
		main = t
	}
	if main == nil {
		return nil, fmt.Errorf("scenario %s: no term to evaluate (no term field, no run block)", s.Name)
	}

	result := &Result{Input: term.Print(main)}

	root, err := graph.Build(main, labels)
	if err != nil {
		if graph.IsUnboundVariable(err) && s.ExpectError == ErrorBound {
			result.ErrorKind = ErrorBound
			return result, nil
		}
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	opts := []engine.Option{
		engine.WithTokenGenerator(engine.NewFixedGenerator("eval-" + s.Name)),
	}
	if s.MaxSteps > 0 {
		opts = append(opts, engine.WithMaxSteps(s.MaxSteps))
	}
	eng := engine.New(book, labels, opts...)

	out, stats, err := eng.Normalize(root)
	result.Steps = stats.Steps
	for _, name := range stats.Stuck {
		result.Stuck = append(result.Stuck, string(name))
	}
	if err != nil {
		if engine.IsBudgetError(err) && s.ExpectError == ErrorBudget {
			result.ErrorKind = ErrorBudget
		} else {
			return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
	}

	back, err := graph.Readback(out)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: readback: %w", s.Name, err)
	}
	result.Output = term.Print(back)

	slog.Debug("scenario ran",
		"scenario", s.Name,
		"steps", result.Steps,
		"stuck", len(result.Stuck),
		"error_kind", result.ErrorKind,
	)
	return result, nil
}
