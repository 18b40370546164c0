package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/bmicount/internal/store"
)

// HistoryOptions holds flags for the history command and its subcommands.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	Digest   string
}

// HistoryResult lists recorded runs, newest first.
type HistoryResult struct {
	Runs []store.Run `json:"runs"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List runs recorded with count --db",
		Long: `List, show and verify runs recorded in a SQLite database by
"bmicount count --db".

Exit codes:
  0 - Success
  1 - Replay differs from the recorded run (verify)
  2 - Command error (database not found, unknown run, etc.)

Examples:
  bmicount history --db runs.db
  bmicount history --db runs.db --limit 5 --format json
  bmicount history --db runs.db --digest <batch-digest>
  bmicount history show <run-id> --db runs.db
  bmicount history verify <run-id> --db runs.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(opts, cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list (0 for all)")
	cmd.Flags().StringVar(&opts.Digest, "digest", "", "list every run of the batch with this digest, oldest first (ignores --limit)")

	cmd.AddCommand(newHistoryShowCommand(opts))
	cmd.AddCommand(newHistoryVerifyCommand(opts))

	return cmd
}

func newHistoryShowCommand(opts *HistoryOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <run-id>",
		Short:         "Show one recorded run with its values",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(opts, args[0], cmd)
		},
	}
}

func newHistoryVerifyCommand(opts *HistoryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <run-id>",
		Short: "Recompute a recorded run and compare",
		Long: `Recompute a recorded run from its stored records and bounds, and
report whether the values and count match what was recorded.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryVerify(opts, args[0], cmd)
		},
	}
}

// openStore opens the --db database, falling back to the configured one.
func (o *HistoryOptions) openStore() (*store.Store, error) {
	path := o.Database
	if path == "" {
		path = o.config().Database
	}
	if path == "" {
		return nil, fmt.Errorf("no database: pass --db or set database in the config")
	}
	return store.Open(path)
}

func runHistoryList(opts *HistoryOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	st, err := opts.openStore()
	if err != nil {
		return f.Fail("failed to open database", err)
	}
	defer st.Close()

	var runs []store.Run
	if opts.Digest != "" {
		runs, err = st.RunsByDigest(cmd.Context(), opts.Digest)
	} else {
		runs, err = st.ListRuns(cmd.Context(), opts.Limit)
	}
	if err != nil {
		return f.Fail("failed to list runs", err)
	}

	if opts.Format == "json" {
		return f.Success(HistoryResult{Runs: runs})
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(w, "[%d] %s  %d/%d in [%v, %v]  digest %s\n",
			run.Seq, run.ID, run.InRange, run.Total, run.Bounds.Lower, run.Bounds.Upper, shortDigest(run.Digest))
	}
	return nil
}

func runHistoryShow(opts *HistoryOptions, id string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	st, err := opts.openStore()
	if err != nil {
		return f.Fail("failed to open database", err)
	}
	defer st.Close()

	run, err := st.ReadRun(cmd.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			return f.Fail("unknown run", err)
		}
		return f.Fail("failed to read run", err)
	}

	if opts.Format == "json" {
		return f.Success(run)
	}
	writeRunText(cmd.OutOrStdout(), run)
	return nil
}

func runHistoryVerify(opts *HistoryOptions, id string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	st, err := opts.openStore()
	if err != nil {
		return f.Fail("failed to open database", err)
	}
	defer st.Close()

	result, err := st.Replay(cmd.Context(), id)
	if err != nil {
		return f.Fail("replay failed", err)
	}

	if !result.Deterministic {
		_ = f.Error(CodeReplayDiff, fmt.Sprintf("run %s does not replay to the recorded result", id), result.Differences)
		if opts.Format != "json" {
			for _, d := range result.Differences {
				fmt.Fprintf(f.GetErrWriter(), "  %s\n", d)
			}
		}
		return reportedExitError(ExitFailure, "replay differs from recorded run")
	}

	if opts.Format == "json" {
		return f.Success(result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ run %s replays to %d/%d in range\n", id, result.Run.InRange, result.Run.Total)
	return nil
}

func writeRunText(w io.Writer, run store.Run) {
	fmt.Fprintf(w, "Run: %s\n", run.ID)
	fmt.Fprintf(w, "  Seq:      %d\n", run.Seq)
	fmt.Fprintf(w, "  Digest:   %s\n", run.Digest)
	fmt.Fprintf(w, "  Bounds:   [%v, %v]\n", run.Bounds.Lower, run.Bounds.Upper)
	fmt.Fprintf(w, "  In range: %d of %d\n", run.InRange, run.Total)

	if len(run.Values) == 0 {
		return
	}
	fmt.Fprintln(w, "\nValues:")
	for i, v := range run.Values {
		marker := " "
		if run.Bounds.Contains(v) {
			marker = "*"
		}
		fmt.Fprintf(w, "  %s [%d] %v\n", marker, i, v)
	}
}

func shortDigest(d string) string {
	if len(d) <= 12 {
		return d
	}
	return d[:12]
}
