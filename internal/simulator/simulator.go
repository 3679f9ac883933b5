// Package simulator runs the external Ising simulator binary.
//
// The binary is invoked as
//
//	<command> -T <temperature> -L <size> -n <samples> -nT <warmup> -fs <stride> [-s <seed>]
//
// and is expected to print whitespace-delimited numeric rows on stdout and
// exit 0. Nothing else about it is assumed.
package simulator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/roach88/isingsweep/internal/sweep"
)

// DefaultCommand is the simulator binary name looked up on PATH.
const DefaultCommand = "ising.exe"

// waitDelay bounds how long Wait lingers on inherited pipes after the
// process has been killed by context cancellation.
const waitDelay = 2 * time.Second

// maxStderr bounds how much of stderr is kept on an ExternalProcessError.
const maxStderr = 2048

// ExecInvoker implements sweep.Invoker by executing Command.
type ExecInvoker struct {
	// Command is the simulator path or a name resolved through PATH.
	Command string

	// Dir is the working directory; empty means the current one.
	Dir string

	// Env, if non-nil, replaces the inherited environment.
	Env []string
}

// New returns an ExecInvoker for command, or DefaultCommand if empty.
func New(command string) *ExecInvoker {
	if command == "" {
		command = DefaultCommand
	}
	return &ExecInvoker{Command: command}
}

// Invoke runs the simulator once and returns its stdout verbatim.
// Start failures and non-zero exits are reported as *sweep.ExternalProcessError.
func (e *ExecInvoker) Invoke(ctx context.Context, p sweep.Params) ([]byte, error) {
	args := p.Args()
	cmd := exec.CommandContext(ctx, e.Command, args...)
	cmd.Dir = e.Dir
	cmd.WaitDelay = waitDelay
	if e.Env != nil {
		cmd.Env = e.Env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	commandLine := append([]string{e.Command}, args...)

	if err := cmd.Start(); err != nil {
		return nil, &sweep.ExternalProcessError{
			Index:       p.Index,
			Temperature: p.Temperature,
			Command:     commandLine,
			ExitCode:    -1,
			Err:         fmt.Errorf("start simulator: %w", err),
		}
	}

	if err := cmd.Wait(); err != nil {
		pe := &sweep.ExternalProcessError{
			Index:       p.Index,
			Temperature: p.Temperature,
			Command:     commandLine,
			ExitCode:    -1,
			Stderr:      tail(stderr.String(), maxStderr),
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			pe.ExitCode = exitErr.ExitCode()
			if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
				pe.Signal = ws.Signal().String()
			}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			pe.Err = ctxErr
		} else if pe.ExitCode < 0 && pe.Signal == "" {
			pe.Err = err
		}
		return nil, pe
	}

	return stdout.Bytes(), nil
}

// Resolve checks that command can be executed and returns its full path.
// Use it as a preflight so that a missing simulator is reported before the
// results file is truncated.
func Resolve(command string) (string, error) {
	if command == "" {
		command = DefaultCommand
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return "", &sweep.ExternalProcessError{
			Command:  []string{command},
			ExitCode: -1,
			Err:      fmt.Errorf("resolve simulator: %w", err),
		}
	}
	return path, nil
}

// tail keeps the last n bytes of s, trimmed.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
