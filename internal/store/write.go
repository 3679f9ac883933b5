package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/isingsweep/internal/sweep"
)

// StartRun inserts a run in "running" state with the next logical seq.
func (s *Store) StartRun(ctx context.Context, runID string, cfg sweep.Config) error {
	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("start run: marshal config: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, seq, config, output_path, temperatures, status)
		SELECT ?, COALESCE(MAX(seq), 0) + 1, ?, ?, ?, 'running' FROM runs
	`,
		runID,
		string(configJSON),
		cfg.OutputPath,
		len(cfg.Temperatures),
	)
	if err != nil {
		return fmt.Errorf("start run: %w", err)
	}
	return nil
}

// RecordInvocation inserts one invocation row. The run must already exist.
func (s *Store) RecordInvocation(ctx context.Context, runID string, rec sweep.InvocationRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invocations (run_id, idx, temperature, exit_code, bytes, error)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		runID,
		rec.Index,
		rec.Temperature,
		rec.ExitCode,
		rec.Bytes,
		rec.Err,
	)
	if err != nil {
		return fmt.Errorf("record invocation: %w", err)
	}
	return nil
}

// FinishRun stores the run's final status.
func (s *Store) FinishRun(ctx context.Context, runID string, o sweep.Outcome) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET status = ?, rows = ?, error = ? WHERE id = ?
	`, o.Status, o.Rows, o.Err, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run: run %q not found", runID)
	}
	return nil
}

var _ sweep.Recorder = (*Store)(nil)
