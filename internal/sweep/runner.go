package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/isingsweep/internal/logging"
	"github.com/roach88/isingsweep/internal/table"
)

// Invoker runs the simulator once and returns its complete standard output.
// Implementations should return *ExternalProcessError for start failures and
// non-zero exits; any other error is wrapped into one by the Runner.
type Invoker interface {
	Invoke(ctx context.Context, p Params) ([]byte, error)
}

// InvokerFunc adapts a function to Invoker.
type InvokerFunc func(ctx context.Context, p Params) ([]byte, error)

// Invoke calls f(ctx, p).
func (f InvokerFunc) Invoke(ctx context.Context, p Params) ([]byte, error) {
	return f(ctx, p)
}

// Result is a successful sweep.
type Result struct {
	RunID       string
	OutputPath  string
	Table       *table.Table
	Invocations int
	Bytes       int64
}

// Runner executes sweeps. A Runner holds no per-sweep state and may be reused.
type Runner struct {
	invoker  Invoker
	recorder Recorder
	logger   *slog.Logger
	ids      RunIDGenerator
}

// Option configures a Runner.
type Option func(*Runner)

// WithRecorder attaches a run history recorder.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// WithLogger overrides the default component logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRunIDGenerator overrides the UUIDv7 run ID generator.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(r *Runner) {
		if g != nil {
			r.ids = g
		}
	}
}

// NewRunner returns a Runner that invokes the simulator through inv.
func NewRunner(inv Invoker, opts ...Option) *Runner {
	r := &Runner{
		invoker:  inv,
		recorder: nopRecorder{},
		logger:   logging.New("sweep"),
		ids:      UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the sweep described by cfg and returns the parsed table.
// On any error no table is returned.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runID := r.ids.Generate()
	log := r.logger.With("run_id", runID)

	if err := truncate(cfg.OutputPath); err != nil {
		return nil, err
	}

	if err := r.recorder.StartRun(ctx, runID, cfg); err != nil {
		log.Warn("record run start failed", "error", err)
	}

	log.Info("sweep.start",
		"temperatures", len(cfg.Temperatures),
		"L", cfg.LatticeSize,
		"output", cfg.OutputPath,
		"parallel", cfg.Parallel,
	)

	var (
		written int64
		err     error
	)
	if cfg.Parallel > 1 {
		written, err = r.runParallel(ctx, runID, cfg)
	} else {
		written, err = r.runSequential(ctx, runID, cfg)
	}
	if err != nil {
		r.finish(ctx, log, runID, Outcome{Status: StatusFailed, Err: err.Error()})
		log.Error("sweep.failed", "error", err)
		return nil, err
	}

	tbl, err := table.ParseFile(cfg.OutputPath)
	if err != nil {
		var fe *table.FormatError
		if errors.As(err, &fe) {
			err = &OutputFormatError{Path: cfg.OutputPath, Err: fe}
		}
		r.finish(ctx, log, runID, Outcome{Status: StatusFailed, Err: err.Error()})
		log.Error("sweep.failed", "error", err)
		return nil, err
	}

	r.finish(ctx, log, runID, Outcome{Status: StatusOK, Rows: tbl.Len()})
	log.Info("sweep.done", "rows", tbl.Len(), "bytes", written)

	return &Result{
		RunID:       runID,
		OutputPath:  cfg.OutputPath,
		Table:       tbl,
		Invocations: len(cfg.Temperatures),
		Bytes:       written,
	}, nil
}

// runSequential invokes and appends strictly one temperature at a time.
func (r *Runner) runSequential(ctx context.Context, runID string, cfg Config) (int64, error) {
	var written int64
	for i := range cfg.Temperatures {
		out, err := r.invoke(ctx, runID, cfg.params(i))
		if err != nil {
			return written, err
		}
		if err := appendOutput(cfg.OutputPath, out); err != nil {
			return written, err
		}
		written += int64(len(out))
	}
	return written, nil
}

// runParallel invokes up to cfg.Parallel temperatures at once and appends
// the buffered outputs in temperature order once all have succeeded.
func (r *Runner) runParallel(ctx context.Context, runID string, cfg Config) (int64, error) {
	outputs := make([][]byte, len(cfg.Temperatures))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallel)
	for i := range cfg.Temperatures {
		if gCtx.Err() != nil {
			break
		}
		p := cfg.params(i)
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			out, err := r.invoke(gCtx, runID, p)
			if err != nil {
				return err
			}
			outputs[p.Index] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var written int64
	for _, out := range outputs {
		if err := appendOutput(cfg.OutputPath, out); err != nil {
			return written, err
		}
		written += int64(len(out))
	}
	return written, nil
}

// invoke runs one simulator call and normalizes failures to *ExternalProcessError.
func (r *Runner) invoke(ctx context.Context, runID string, p Params) ([]byte, error) {
	r.logger.Debug("sweep.invoke", "run_id", runID, "index", p.Index, "T", p.Temperature)

	out, err := r.invoker.Invoke(ctx, p)

	rec := InvocationRecord{Index: p.Index, Temperature: p.Temperature, Bytes: len(out)}
	if err != nil {
		var pe *ExternalProcessError
		if !errors.As(err, &pe) {
			pe = &ExternalProcessError{ExitCode: -1, Err: err}
		}
		pe.Index = p.Index
		pe.Temperature = p.Temperature

		rec.ExitCode = pe.ExitCode
		rec.Bytes = 0
		rec.Err = pe.Error()
		if recErr := r.recorder.RecordInvocation(ctx, runID, rec); recErr != nil {
			r.logger.Warn("record invocation failed", "run_id", runID, "index", p.Index, "error", recErr)
		}
		return nil, pe
	}

	if recErr := r.recorder.RecordInvocation(ctx, runID, rec); recErr != nil {
		r.logger.Warn("record invocation failed", "run_id", runID, "index", p.Index, "error", recErr)
	}
	r.logger.Debug("sweep.invoked", "run_id", runID, "index", p.Index, "bytes", len(out))
	return out, nil
}

func (r *Runner) finish(ctx context.Context, log *slog.Logger, runID string, o Outcome) {
	// The sweep context may already be cancelled; history still wants the outcome.
	if err := r.recorder.FinishRun(context.WithoutCancel(ctx), runID, o); err != nil {
		log.Warn("record run finish failed", "error", err)
	}
}

// truncate creates path or empties it.
func truncate(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("truncate results file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("truncate results file: %w", err)
	}
	return nil
}

// appendOutput writes out to the end of path and closes it, so the data is
// in the file before the next invocation starts.
func appendOutput(path string, out []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("append results: %w", err)
	}
	if _, err := f.Write(out); err != nil {
		f.Close()
		return fmt.Errorf("append results: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("append results: %w", err)
	}
	return nil
}
