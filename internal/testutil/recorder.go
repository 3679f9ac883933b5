package testutil

import (
	"context"
	"sync"

	"github.com/roach88/isingsweep/internal/sweep"
)

// MemoryRecorder keeps run history events in memory.
//
// Thread-safety: safe for concurrent use.
type MemoryRecorder struct {
	mu          sync.Mutex
	Started     []string
	Invocations []sweep.InvocationRecord
	Outcomes    []sweep.Outcome
}

// StartRun implements sweep.Recorder.
func (m *MemoryRecorder) StartRun(_ context.Context, runID string, _ sweep.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Started = append(m.Started, runID)
	return nil
}

// RecordInvocation implements sweep.Recorder.
func (m *MemoryRecorder) RecordInvocation(_ context.Context, _ string, rec sweep.InvocationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Invocations = append(m.Invocations, rec)
	return nil
}

// FinishRun implements sweep.Recorder.
func (m *MemoryRecorder) FinishRun(_ context.Context, _ string, o sweep.Outcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Outcomes = append(m.Outcomes, o)
	return nil
}
