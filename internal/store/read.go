package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/isingsweep/internal/sweep"
)

// ErrRunNotFound is returned by GetRun for unknown IDs.
var ErrRunNotFound = errors.New("run not found")

// Run is a stored sweep.
type Run struct {
	ID           string       `json:"id"`
	Seq          int64        `json:"seq"`
	Config       sweep.Config `json:"config"`
	OutputPath   string       `json:"output_path"`
	Temperatures int          `json:"temperatures"`
	Status       string       `json:"status"`
	Rows         int          `json:"rows"`
	Error        string       `json:"error,omitempty"`
}

// Invocation is a stored simulator call.
type Invocation struct {
	Index       int     `json:"index"`
	Temperature float64 `json:"temperature"`
	ExitCode    int     `json:"exit_code"`
	Bytes       int     `json:"bytes"`
	Error       string  `json:"error,omitempty"`
}

const runColumns = `id, seq, config, output_path, temperatures, status, rows, error`

// ListRuns returns up to limit runs, newest first. limit <= 0 means all.
// Returns an empty slice (not nil) when there are none.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun returns one run or ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, runID string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return r, err
}

// RunInvocations returns a run's invocations in temperature order.
func (s *Store) RunInvocations(ctx context.Context, runID string) ([]Invocation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, temperature, exit_code, bytes, error
		FROM invocations
		WHERE run_id = ?
		ORDER BY idx ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query invocations: %w", err)
	}
	defer rows.Close()

	invs := []Invocation{}
	for rows.Next() {
		var inv Invocation
		if err := rows.Scan(&inv.Index, &inv.Temperature, &inv.ExitCode, &inv.Bytes, &inv.Error); err != nil {
			return nil, fmt.Errorf("scan invocation: %w", err)
		}
		invs = append(invs, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invocations: %w", err)
	}
	return invs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r          Run
		configJSON string
	)
	if err := sc.Scan(&r.ID, &r.Seq, &configJSON, &r.OutputPath, &r.Temperatures, &r.Status, &r.Rows, &r.Error); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	if err := json.Unmarshal([]byte(configJSON), &r.Config); err != nil {
		return Run{}, fmt.Errorf("scan run %s: config: %w", r.ID, err)
	}
	return r, nil
}
