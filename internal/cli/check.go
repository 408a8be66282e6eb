package cli

import (
	"github.com/spf13/cobra"

	"github.com/steinerkelvin/Kindelia/internal/graph"
	"github.com/steinerkelvin/Kindelia/internal/term"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Expr string
}

// checkReport is the check command's output payload.
type checkReport struct {
	Checked string `json:"checked"`
}

func (r checkReport) String() string {
	return "ok: " + r.Checked
}

// NewCheckCommand creates the check command: parse and build without
// evaluating, surfacing syntax errors, invalid equations, constructor
// arity mismatches, and unbound variables.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check [program-file]",
		Short: "Parse and build without evaluating",
		Long: `Check a program or expression: parse it, validate function
equations and constructor arities, and build the run term's graph.
Nothing is reduced.

Example:
  kindelia check counter.kdl
  kindelia check -e "λx((x x))"`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runCheck(opts, path, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Expr, "expr", "e", "", "expression to check")

	return cmd
}

func runCheck(opts *CheckOptions, path string, cmd *cobra.Command) error {
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

	if _, err := graph.Build(main, graph.NewLabels()); err != nil {
		return reportFailure(out, WrapExitError(ExitFailure, "unbound_variable", err))
	}

	out.VerboseLog("checked %d functions", book.Names())
	return out.Success(checkReport{Checked: term.Print(main)})
}
