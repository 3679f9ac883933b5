package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/isingsweep/internal/store"
	"github.com/roach88/isingsweep/internal/sweep"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	RunID    string
}

// RunDetail is one run with its invocations.
type RunDetail struct {
	store.Run
	Invocations []store.Invocation `json:"invocations"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded sweeps",
		Long: `List sweeps recorded with "run --db", newest first, or show the
invocations of a single run with --run.

Example:
  isingsweep history --db history.db
  isingsweep history --db history.db --run 0190c6d2-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite history database (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list (0 for all)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show invocations of this run")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	// Open creates missing databases; history only reads existing ones.
	if _, err := os.Stat(opts.Database); err != nil {
		return formatter.FailWith(ErrCodeNotFound, ExitCommandError, fmt.Errorf("history database: %w", err))
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.FailWith(ErrCodeHistory, ExitCommandError, err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if opts.RunID != "" {
		run, err := st.GetRun(ctx, opts.RunID)
		if err != nil {
			return formatter.Fail(err)
		}
		invs, err := st.RunInvocations(ctx, opts.RunID)
		if err != nil {
			return formatter.FailWith(ErrCodeHistory, ExitCommandError, err)
		}
		detail := RunDetail{Run: run, Invocations: invs}
		if formatter.Format == "json" {
			return formatter.Success(detail)
		}
		writeRunDetail(formatter.Writer, detail)
		return nil
	}

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return formatter.FailWith(ErrCodeHistory, ExitCommandError, err)
	}
	if formatter.Format == "json" {
		return formatter.Success(runs)
	}
	writeRunList(formatter.Writer, runs)
	return nil
}

func writeRunList(w io.Writer, runs []store.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return
	}
	for _, r := range runs {
		fmt.Fprintf(w, "[%d] %s %s L=%d temperatures=%d rows=%d output=%s\n",
			r.Seq, r.ID, r.Status, r.Config.LatticeSize, r.Temperatures, r.Rows, r.OutputPath)
		if r.Error != "" {
			fmt.Fprintf(w, "     Error: %s\n", r.Error)
		}
	}
}

func writeRunDetail(w io.Writer, d RunDetail) {
	fmt.Fprintf(w, "Run: %s\n", d.ID)
	fmt.Fprintf(w, "Status: %s\n", d.Status)
	fmt.Fprintf(w, "Output: %s (%d rows)\n", d.OutputPath, d.Rows)
	if d.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", d.Error)
	}
	fmt.Fprintf(w, "\nInvocations (%d of %d):\n", len(d.Invocations), d.Temperatures)
	for _, inv := range d.Invocations {
		status := "ok"
		if inv.ExitCode != 0 || inv.Error != "" {
			status = fmt.Sprintf("exit %d", inv.ExitCode)
		}
		fmt.Fprintf(w, "  [%d] T=%s %s %d bytes\n", inv.Index, sweep.FormatTemperature(inv.Temperature), status, inv.Bytes)
		if inv.Error != "" {
			fmt.Fprintf(w, "       %s\n", inv.Error)
		}
	}
}
