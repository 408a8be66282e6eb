package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steinerkelvin/Kindelia/internal/engine"
	"github.com/steinerkelvin/Kindelia/internal/graph"
	"github.com/steinerkelvin/Kindelia/internal/parser"
	"github.com/steinerkelvin/Kindelia/internal/term"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Expr     string
	MaxSteps int
}

// evalReport is the eval command's output payload.
type evalReport struct {
	NormalForm string   `json:"normal_form"`
	Steps      int      `json:"steps"`
	Stuck      []string `json:"stuck,omitempty"`
	Token      string   `json:"token,omitempty"`
}

func (r evalReport) String() string {
	return r.NormalForm
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval [program-file]",
		Short: "Evaluate a term to normal form",
		Long: `Evaluate a term on the sharing graph and print its normal form.

The program file may declare ctr, fun, and run blocks. With --expr the
expression is evaluated against the file's declarations (or against an
empty book when no file is given).

Example:
  kindelia eval counter.kdl
  kindelia eval -e "(+ #2 #3)"
  kindelia eval counter.kdl -e "(ToSucc #10)" --max-steps 100000`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runEval(opts, path, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Expr, "expr", "e", "", "expression to evaluate")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", engine.DefaultMaxSteps, "step budget per evaluation")

	return cmd
}

func runEval(opts *EvalOptions, path string, cmd *cobra.Command) error {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	book, main, err := loadInput(path, opts.Expr)
	if err != nil {
		return reportFailure(out, err)
	}

	labels := graph.NewLabels()
	root, err := graph.Build(main, labels)
	if err != nil {
		return reportFailure(out, WrapExitError(ExitFailure, "unbound_variable", err))
	}

	eng := engine.New(book, labels, engine.WithMaxSteps(opts.MaxSteps))
	result, stats, err := eng.Normalize(root)
	if err != nil {
		if engine.IsBudgetError(err) {
			return reportFailure(out, WrapExitError(ExitFailure, "step_budget_exceeded", err))
		}
		return reportFailure(out, WrapExitError(ExitFailure, "runtime_error", err))
	}

	back, err := graph.Readback(result)
	if err != nil {
		return reportFailure(out, WrapExitError(ExitFailure, "malformed_graph", err))
	}

	report := evalReport{
		NormalForm: term.Print(back),
		Steps:      stats.Steps,
		Token:      stats.Token,
	}
	for _, name := range stats.Stuck {
		report.Stuck = append(report.Stuck, string(name))
	}

	out.VerboseLog("eval %s: %d steps", stats.Token, stats.Steps)
	if len(report.Stuck) > 0 {
		out.VerboseLog("stuck calls: %s", strings.Join(report.Stuck, ", "))
	}
	return out.Success(report)
}

// loadInput parses the optional program file and the optional expression.
// The expression takes precedence over the file's run block.
func loadInput(path, expr string) (*engine.Book, term.Term, error) {
	book := engine.NewBook()
	var main term.Term

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "read_error", err)
		}
		prog, err := parser.ParseProgram(string(data))
		if err != nil {
			return nil, nil, WrapExitError(ExitFailure, "parse_error", err)
		}
		if err := prog.Validate(); err != nil {
			return nil, nil, WrapExitError(ExitFailure, "invalid_constructor", err)
		}
		for _, fun := range prog.Funs {
			rules := make([]engine.Rule, len(fun.Rules))
			for i, r := range fun.Rules {
				rules[i] = engine.Rule{Patterns: r.Patterns, Body: r.Body}
			}
			if err := book.Define(fun.Name, fun.Arity, rules); err != nil {
				return nil, nil, WrapExitError(ExitFailure, "invalid_function", err)
			}
		}
		main = prog.Main
	}

	if expr != "" {
		t, err := parser.ParseTerm(expr)
		if err != nil {
			return nil, nil, WrapExitError(ExitFailure, "parse_error", err)
		}
		main = t
	}

	if main == nil {
		return nil, nil, NewExitError(ExitCommandError,
			"nothing to evaluate: pass a file with a run block or use --expr")
	}
	return book, main, nil
}

// reportFailure prints the error through the formatter and passes the
// exit code up unchanged.
func reportFailure(out *OutputFormatter, err error) error {
	var exitErr *ExitError
	code := "error"
	message := err.Error()
	if errors.As(err, &exitErr) {
		code = exitErr.Message
		if exitErr.Err != nil {
			message = exitErr.Err.Error()
		}
	}
	if werr := out.Error(code, message); werr != nil {
		return fmt.Errorf("write error output: %w", werr)
	}
	return err
}
