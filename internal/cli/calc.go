package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/bmicount/internal/bmi"
	"github.com/roach88/bmicount/internal/ir"
)

// CalcResult is the outcome of the calc command.
type CalcResult struct {
	HeightCm float64 `json:"height_cm"`
	WeightKg float64 `json:"weight_kg"`
	BMI      float64 `json:"bmi"`
	InRange  bool    `json:"in_range"`
}

// String renders the result as the bare BMI.
func (r CalcResult) String() string {
	return strconv.FormatFloat(r.BMI, 'f', -1, 64)
}

// NewCalcCommand creates the calc command.
func NewCalcCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc <height-cm> <weight-kg>",
		Short: "Compute one BMI value",
		Long: `Compute weight / (height/100)^2 rounded to two decimals.

Both arguments must be numeric. Exit code 1 means a datatype mismatch or a
zero height.

Examples:
  bmicount calc 175 75
  bmicount calc 167 82 --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runCalc(opts *RootOptions, heightArg, weightArg string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	height, weight := scalarFromArg(heightArg), scalarFromArg(weightArg)
	value, err := bmi.Calculate(height, weight)
	if err != nil {
		return f.Fail("calc failed", err)
	}

	// Calculate has validated both, so the conversions cannot fail.
	h, _ := ir.ToFloat(height)
	w, _ := ir.ToFloat(weight)

	return f.Success(CalcResult{
		HeightCm: h,
		WeightKg: w,
		BMI:      value,
		InRange:  opts.config().Bounds.Contains(value),
	})
}

// scalarFromArg reads a command-line argument the way a JSON field would be
// read: numeric text becomes a Number, anything else stays Text and is left
// for validation to reject.
func scalarFromArg(arg string) ir.Scalar {
	if f, err := strconv.ParseFloat(arg, 64); err == nil {
		return ir.Number(f)
	}
	return ir.Text(arg)
}
