package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/bmicount/internal/batch"
	"github.com/roach88/bmicount/internal/bmi"
	"github.com/roach88/bmicount/internal/ir"
	"github.com/roach88/bmicount/internal/metrics"
	"github.com/roach88/bmicount/internal/store"
	"github.com/roach88/bmicount/internal/watch"
)

// CountOptions holds flags for the count command.
type CountOptions struct {
	*RootOptions
	InputFormat string
	Lower       float64
	Upper       float64
	Database    string
	MetricsOut  string
	Watch       bool
	Sample      bool
}

// CountReport is the outcome of one count.
type CountReport struct {
	Count  int        `json:"count"`
	Total  int        `json:"total"`
	Bounds bmi.Bounds `json:"bounds"`
	Values []float64  `json:"values"`
	Digest string     `json:"digest"`
	RunID  string     `json:"run_id,omitempty"`
}

// String renders the report as the bare count.
func (r CountReport) String() string {
	return strconv.Itoa(r.Count)
}

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CountOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "count [file]",
		Short: "Count records whose BMI falls inside the bounds",
		Long: `Read a JSON or YAML array of records, compute each record's BMI from
HeightCm and WeightKg, and print how many values fall inside the inclusive
bounds. Reads stdin when no file (or "-") is given.

One invalid record fails the whole batch; nothing is counted.

Exit codes:
  0 - Batch counted
  1 - Batch rejected (datatype mismatch, missing field, malformed input)
  2 - Command error (unreadable file, database error, etc.)

Examples:
  bmicount count records.json
  bmicount count records.yaml --lower 18.5 --upper 24.9
  cat records.json | bmicount count --format json
  bmicount count records.json --db runs.db --metrics-out bmi.prom
  bmicount count records.json --watch
  bmicount count --sample`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runCount(opts, path, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.InputFormat, "input-format", "", "input format (json|yaml); default from file extension")
	cmd.Flags().Float64Var(&opts.Lower, "lower", bmi.DefaultLower, "lower bound (inclusive)")
	cmd.Flags().Float64Var(&opts.Upper, "upper", bmi.DefaultUpper, "upper bound (inclusive)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")
	cmd.Flags().StringVar(&opts.MetricsOut, "metrics-out", "", "write a Prometheus textfile to this path")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "recount whenever the file changes")
	cmd.Flags().BoolVar(&opts.Sample, "sample", false, "count the built-in six-record sample")

	return cmd
}

func runCount(opts *CountOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	bounds, err := resolveBounds(opts, cmd)
	if err != nil {
		return f.Fail("invalid bounds", err)
	}
	opts.resolveOutputs()

	if opts.Watch {
		if path == "" || path == "-" || opts.Sample {
			return f.Fail("invalid flags", fmt.Errorf("--watch requires a file argument"))
		}
		return watchCount(opts, path, bounds, cmd)
	}

	input, err := readInput(opts, path, cmd.InOrStdin())
	if err != nil {
		return f.Fail("failed to read input", err)
	}

	report, err := countOnce(cmd.Context(), opts, input, bounds)
	if err != nil {
		return f.Fail("count failed", err)
	}
	return f.Success(report)
}

// resolveBounds applies --lower/--upper over the configured bounds.
func resolveBounds(opts *CountOptions, cmd *cobra.Command) (bmi.Bounds, error) {
	b := opts.config().Bounds
	if cmd.Flags().Changed("lower") {
		b.Lower = opts.Lower
	}
	if cmd.Flags().Changed("upper") {
		b.Upper = opts.Upper
	}
	if b.Upper < b.Lower {
		return b, fmt.Errorf("upper %v is below lower %v", b.Upper, b.Lower)
	}
	return b, nil
}

// resolveOutputs fills --db and --metrics-out from the config when unset.
func (o *CountOptions) resolveOutputs() {
	cfg := o.config()
	if o.Database == "" {
		o.Database = cfg.Database
	}
	if o.MetricsOut == "" {
		o.MetricsOut = cfg.MetricsPath
	}
}

// readInput loads the batch from the sample, a file, or stdin.
func readInput(opts *CountOptions, path string, stdin io.Reader) (batch.Input, error) {
	if opts.Sample {
		return sampleBatch(), nil
	}

	var (
		data   []byte
		err    error
		format = batch.FormatJSON
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
		format = batch.FormatForPath(path)
	}
	if err != nil {
		return nil, err
	}

	if opts.InputFormat != "" {
		if format, err = batch.ParseFormat(opts.InputFormat); err != nil {
			return nil, err
		}
	}
	return batch.Serialized{Text: string(data), Format: format}, nil
}

// countOnce aggregates input and then records and exports the run as configured.
func countOnce(ctx context.Context, opts *CountOptions, input batch.Input, bounds bmi.Bounds) (CountReport, error) {
	res, err := batch.AggregateWithin(input, bounds)
	if err != nil {
		return CountReport{}, err
	}

	digest, err := ir.BatchDigest(res.Records)
	if err != nil {
		return CountReport{}, err
	}

	report := CountReport{
		Count:  res.Count,
		Total:  res.Total,
		Bounds: res.Bounds,
		Values: res.Values,
		Digest: digest,
	}

	if opts.Database != "" {
		run, err := recordRun(ctx, opts.Database, res)
		if err != nil {
			return CountReport{}, fmt.Errorf("record run: %w", err)
		}
		report.RunID = run.ID
		slog.Debug("run recorded", "db", opts.Database, "run_id", run.ID, "seq", run.Seq)
	}

	if opts.MetricsOut != "" {
		if err := metrics.WriteFile(opts.MetricsOut, metrics.SnapshotOf(res)); err != nil {
			return CountReport{}, fmt.Errorf("write metrics: %w", err)
		}
		slog.Debug("metrics written", "path", opts.MetricsOut)
	}

	return report, nil
}

func recordRun(ctx context.Context, dbPath string, res *batch.Result) (store.Run, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return store.Run{}, err
	}
	defer st.Close()

	run, err := store.RunFromResult(store.NewRunID(), res)
	if err != nil {
		return store.Run{}, err
	}
	return st.WriteRun(ctx, run)
}

// watchCount counts path once, then again on every change until interrupted.
// A failed recount is logged and the previous output stands.
func watchCount(opts *CountOptions, path string, bounds bmi.Bounds, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	recount := func() {
		input, err := readInput(opts, path, nil)
		if err != nil {
			slog.Error("watch: read failed", "path", path, "err", err)
			return
		}
		report, err := countOnce(ctx, opts, input, bounds)
		if err != nil {
			slog.Error("watch: count failed", "path", path, "err", err)
			return
		}
		_ = f.Success(report)
	}

	recount()
	if err := watch.Files(ctx, []string{path}, func(string) { recount() }); err != nil {
		return f.Fail("watch failed", err)
	}
	return nil
}

// sampleBatch is the six-record sample batch; it counts 1 with the default bounds.
func sampleBatch() batch.Structured {
	return batch.Structured{
		ir.NewRecord(171, 96, ir.P("Gender", ir.Text("Male"))),
		ir.NewRecord(161, 85, ir.P("Gender", ir.Text("Male"))),
		ir.NewRecord(180, 77, ir.P("Gender", ir.Text("Male"))),
		ir.NewRecord(166, 62, ir.P("Gender", ir.Text("Female"))),
		ir.NewRecord(150, 70, ir.P("Gender", ir.Text("Female"))),
		ir.NewRecord(167, 82, ir.P("Gender", ir.Text("Female"))),
	}
}
