package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/bmicount/internal/bmi"
	"github.com/roach88/bmicount/internal/ir"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Kind string
}

// CheckResult is the outcome of the check command.
type CheckResult struct {
	Value string `json:"value"`
	Kind  string `json:"kind"`
	Valid bool   `json:"valid"`
}

// String renders the result for text output.
func (r CheckResult) String() string {
	return r.Value + " is a valid " + r.Kind
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <value>",
		Short: "Check that a value converts to a numeric kind",
		Long: `Run the datatype validator on a single text value.

An integer must be a base-10 whole number ("42", not "1.5"); a float is any
decimal or exponent form. Exit code 1 means the value does not convert.

Examples:
  bmicount check 42
  bmicount check 1.5 --kind float`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "integer", "expected kind (integer|float)")

	return cmd
}

func runCheck(opts *CheckOptions, value string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	kind, err := ir.ParseKind(opts.Kind)
	if err != nil {
		return f.Fail("invalid flags", err)
	}

	if _, err := bmi.Validate(ir.Text(value), kind); err != nil {
		return f.Fail("check failed", err)
	}
	return f.Success(CheckResult{Value: value, Kind: kind.String(), Valid: true})
}
