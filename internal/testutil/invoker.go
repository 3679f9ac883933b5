package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/roach88/isingsweep/internal/sweep"
)

// ScriptedInvoker is an in-memory sweep.Invoker for tests.
//
// Output, if set, renders stdout for each call; the default prints
// "<T> 0.5 0.0 -1.0 0.2\n". FailAt makes the given 1-based call return an
// *sweep.ExternalProcessError with exit status 1.
//
// Thread-safety: safe for concurrent use; Calls is guarded by a mutex.
type ScriptedInvoker struct {
	Output func(p sweep.Params) string
	FailAt int

	// Before, if set, runs on every call before output is produced.
	Before func(ctx context.Context, p sweep.Params)

	mu    sync.Mutex
	calls []sweep.Params
}

// Invoke implements sweep.Invoker.
func (s *ScriptedInvoker) Invoke(ctx context.Context, p sweep.Params) ([]byte, error) {
	s.mu.Lock()
	s.calls = append(s.calls, p)
	n := len(s.calls)
	s.mu.Unlock()

	if s.Before != nil {
		s.Before(ctx, p)
	}

	if s.FailAt > 0 && n == s.FailAt {
		return nil, &sweep.ExternalProcessError{
			ExitCode: 1,
			Command:  append([]string{"ising.exe"}, p.Args()...),
			Stderr:   "scripted failure",
		}
	}

	if s.Output != nil {
		return []byte(s.Output(p)), nil
	}
	return []byte(DefaultRow(p.Temperature)), nil
}

// Calls returns a copy of the parameters seen so far, in call order.
func (s *ScriptedInvoker) Calls() []sweep.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sweep.Params, len(s.calls))
	copy(out, s.calls)
	return out
}

// Temperatures returns the temperature of every call, in call order.
func (s *ScriptedInvoker) Temperatures() []float64 {
	calls := s.Calls()
	out := make([]float64, len(calls))
	for i, p := range calls {
		out[i] = p.Temperature
	}
	return out
}

// DefaultRow is the row ScriptedInvoker prints when Output is nil.
func DefaultRow(t float64) string {
	return fmt.Sprintf("%s 0.5 0.0 -1.0 0.2\n", sweep.FormatTemperature(t))
}
