package sweep

import "context"

// Run status values passed to Recorder.FinishRun.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// InvocationRecord describes one finished simulator invocation.
type InvocationRecord struct {
	Index       int
	Temperature float64
	ExitCode    int
	Bytes       int
	Err         string
}

// Outcome summarizes a finished Run.
type Outcome struct {
	Status string
	Rows   int
	Err    string
}

// Recorder receives run history events. Recording is best-effort: a Recorder
// error is logged and never fails the sweep.
//
// In parallel mode RecordInvocation may be called concurrently.
type Recorder interface {
	StartRun(ctx context.Context, runID string, cfg Config) error
	RecordInvocation(ctx context.Context, runID string, rec InvocationRecord) error
	FinishRun(ctx context.Context, runID string, outcome Outcome) error
}

type nopRecorder struct{}

func (nopRecorder) StartRun(context.Context, string, Config) error                   { return nil }
func (nopRecorder) RecordInvocation(context.Context, string, InvocationRecord) error { return nil }
func (nopRecorder) FinishRun(context.Context, string, Outcome) error                 { return nil }
