package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/isingsweep/internal/config"
	"github.com/roach88/isingsweep/internal/logging"
	"github.com/roach88/isingsweep/internal/plot"
	"github.com/roach88/isingsweep/internal/simulator"
	"github.com/roach88/isingsweep/internal/store"
	"github.com/roach88/isingsweep/internal/sweep"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions

	Simulator  string
	Lattice    int
	TMin       float64
	TMax       float64
	TCount     int
	Samples    int
	Warmup     int
	Stride     int
	Output     string
	Seed       int64
	Parallel   int
	Database   string
	PlotDir    string
	PlotFormat string
	NoPlot     bool
}

// RunSummary is the result of a completed run.
type RunSummary struct {
	RunID       string   `json:"run_id"`
	Output      string   `json:"output"`
	Rows        int      `json:"rows"`
	Columns     int      `json:"columns"`
	Invocations int      `json:"invocations"`
	Bytes       int64    `json:"bytes"`
	Plots       []string `json:"plots,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [config]",
		Short: "Run a temperature sweep",
		Long: `Run the simulator once per temperature, appending each invocation's
output to the results file, then plot the results.

Without a config file the standard settings are used: L=32,
100 temperatures from 0.1 to 5, 100 samples every 100 steps after 500
warm-up steps, results in med_L_32. Flags override config values.

Example:
  isingsweep run --simulator ./ising.exe
  isingsweep run sweep.yaml --lattice 16 --db history.db
  isingsweep run sweep.cue --parallel 4 --plot-format svg`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runSweep(opts, path, cmd)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Simulator, "simulator", simulator.DefaultCommand, "simulator executable")
	f.IntVar(&opts.Lattice, "lattice", config.DefaultLatticeSize, "lattice side length L")
	f.Float64Var(&opts.TMin, "tmin", config.DefaultTMin, "first temperature")
	f.Float64Var(&opts.TMax, "tmax", config.DefaultTMax, "last temperature")
	f.IntVar(&opts.TCount, "tcount", config.DefaultTCount, "number of temperatures")
	f.IntVar(&opts.Samples, "samples", config.DefaultSamples, "samples per temperature")
	f.IntVar(&opts.Warmup, "warmup", config.DefaultWarmupSteps, "warm-up steps before sampling")
	f.IntVar(&opts.Stride, "stride", config.DefaultSampleStride, "steps between samples")
	f.StringVarP(&opts.Output, "output", "o", "", "results file (default med_L_<L>)")
	f.Int64Var(&opts.Seed, "seed", 0, "simulator random seed")
	f.IntVar(&opts.Parallel, "parallel", 1, "concurrent simulator invocations")
	f.StringVar(&opts.Database, "db", "", "record the run in this SQLite history database")
	f.StringVar(&opts.PlotDir, "plot-dir", "", "directory for plot images (default current directory)")
	f.StringVar(&opts.PlotFormat, "plot-format", plot.DefaultFormat, fmt.Sprintf("plot image format %v", plot.Formats))
	f.BoolVar(&opts.NoPlot, "no-plot", false, "skip plotting")

	return cmd
}

func runSweep(opts *RunOptions, configPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	file := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return failConfig(formatter, err)
		}
		file = loaded
		formatter.VerboseLog("Loaded config %s", configPath)
	}
	applyRunFlags(cmd, opts, file)

	cfg, err := file.SweepConfig()
	if err != nil {
		return formatter.Fail(err)
	}

	plotFormat := file.Plots.Format
	if plotFormat == "" {
		plotFormat = plot.DefaultFormat
	}
	if !file.Plots.Disabled && !plot.IsValidFormat(plotFormat) {
		return formatter.FailWith(ErrCodeConfiguration, ExitCommandError,
			fmt.Errorf("unsupported plot format %q: must be one of %v", plotFormat, plot.Formats))
	}

	// Fail before truncating the results file if the simulator is missing.
	simPath, err := simulator.Resolve(file.Simulator)
	if err != nil {
		return formatter.Fail(err)
	}
	formatter.VerboseLog("Simulator: %s", simPath)

	runnerOpts := []sweep.Option{sweep.WithLogger(logging.New("sweep"))}

	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return formatter.FailWith(ErrCodeHistory, ExitCommandError, err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
		runnerOpts = append(runnerOpts, sweep.WithRecorder(st))
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	runner := sweep.NewRunner(simulator.New(simPath), runnerOpts...)
	res, err := runner.Run(ctx, cfg)
	if err != nil {
		return formatter.Fail(err)
	}

	summary := RunSummary{
		RunID:       res.RunID,
		Output:      res.OutputPath,
		Rows:        res.Table.Len(),
		Columns:     res.Table.Width(),
		Invocations: res.Invocations,
		Bytes:       res.Bytes,
	}

	if !file.Plots.Disabled {
		obs, err := res.Table.Observations()
		if err != nil {
			return formatter.Fail(err)
		}
		paths, err := plot.Render(obs, plot.Options{
			Dir:         file.Plots.Dir,
			Format:      plotFormat,
			LatticeSize: cfg.LatticeSize,
		})
		if err != nil {
			return formatter.Fail(err)
		}
		summary.Plots = paths
	}

	if formatter.Format == "json" {
		return formatter.Success(summary)
	}
	writeRunSummary(formatter.Writer, summary)
	return nil
}

// applyRunFlags overlays explicitly set flags onto the config file values.
func applyRunFlags(cmd *cobra.Command, opts *RunOptions, file *config.File) {
	flags := cmd.Flags()

	if flags.Changed("simulator") {
		file.Simulator = opts.Simulator
	}
	if flags.Changed("lattice") {
		file.LatticeSize = opts.Lattice
	}
	if flags.Changed("tmin") || flags.Changed("tmax") || flags.Changed("tcount") {
		start, stop, count := config.DefaultTMin, config.DefaultTMax, config.DefaultTCount
		if ts := file.Temperatures; ts.Start != nil && ts.Stop != nil {
			start, stop, count = *ts.Start, *ts.Stop, ts.Count
		}
		if flags.Changed("tmin") {
			start = opts.TMin
		}
		if flags.Changed("tmax") {
			stop = opts.TMax
		}
		if flags.Changed("tcount") {
			count = opts.TCount
		}
		file.Temperatures = config.Range(start, stop, count)
	}
	if flags.Changed("samples") {
		file.Samples = opts.Samples
	}
	if flags.Changed("warmup") {
		warmup := opts.Warmup
		file.WarmupSteps = &warmup
	}
	if flags.Changed("stride") {
		file.SampleStride = opts.Stride
	}
	if flags.Changed("output") {
		file.Output = opts.Output
	}
	if flags.Changed("seed") {
		seed := opts.Seed
		file.Seed = &seed
	}
	if flags.Changed("parallel") {
		file.Parallel = opts.Parallel
	}
	if flags.Changed("plot-dir") {
		file.Plots.Dir = opts.PlotDir
	}
	if flags.Changed("plot-format") {
		file.Plots.Format = opts.PlotFormat
	}
	if opts.NoPlot {
		file.Plots.Disabled = true
	}
}

func writeRunSummary(w io.Writer, s RunSummary) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "✓ Sweep complete: %d rows from %d invocations (%d bytes)\n", s.Rows, s.Invocations, s.Bytes)
	p.Fprintf(w, "  Run:     %s\n", s.RunID)
	p.Fprintf(w, "  Results: %s\n", s.Output)
	for _, path := range s.Plots {
		p.Fprintf(w, "  Plot:    %s\n", path)
	}
}

// signalContext cancels on SIGINT/SIGTERM so a running simulator is killed.
func signalContext(parent context.Context) (context.Context, func()) {
	// Use command's context if available (for testing), otherwise create one
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, stopping sweep", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan) // Prevent signal handler leak
		cancel()
	}
}

// failConfig reports a config load error. Missing files are E005, every
// other load problem is a configuration error.
func failConfig(f *OutputFormatter, err error) error {
	code, _ := classify(err)
	if code != ErrCodeNotFound && code != ErrCodeConfiguration {
		code = ErrCodeConfiguration
	}
	return f.FailWith(code, ExitCommandError, err)
}
