package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/roach88/isingsweep/internal/store"
	"github.com/roach88/isingsweep/internal/sweep"
	"github.com/roach88/isingsweep/internal/table"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Sweep failure (simulator error, malformed output)
	ExitCommandError = 2 // Command error (bad config or flags, missing files, database errors)
)

// Error codes reported in CLI output.
const (
	ErrCodeGeneric         = "E001" // Generic/unknown error
	ErrCodeConfiguration   = "E002" // Invalid config file or flags
	ErrCodeExternalProcess = "E003" // Simulator missing, failed to start, or exited non-zero
	ErrCodeOutputFormat    = "E004" // Results file is not a numeric table
	ErrCodeNotFound        = "E005" // Path or run not found
	ErrCodeHistory         = "E006" // Run history database error
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E002", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

func newFormatter(opts *RootOptions, w, errW io.Writer) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    w,
		ErrWriter: errW, // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// Fail reports err through the formatter and returns the matching ExitError.
func (f *OutputFormatter) Fail(err error) error {
	code, exit := classify(err)
	_ = f.Error(code, err.Error(), errorDetails(err))
	return WrapExitError(exit, code, err)
}

// FailWith reports err under a fixed code, for errors whose origin is known
// better at the call site than from their type.
func (f *OutputFormatter) FailWith(code string, exit int, err error) error {
	_ = f.Error(code, err.Error(), errorDetails(err))
	return WrapExitError(exit, code, err)
}

// classify maps an error to its CLI error code and exit code.
func classify(err error) (string, int) {
	var formatErr *table.FormatError
	switch {
	case sweep.IsConfigurationError(err):
		return ErrCodeConfiguration, ExitCommandError
	case sweep.IsExternalProcessError(err):
		return ErrCodeExternalProcess, ExitFailure
	case sweep.IsOutputFormatError(err), errors.As(err, &formatErr):
		return ErrCodeOutputFormat, ExitFailure
	case errors.Is(err, os.ErrNotExist), errors.Is(err, store.ErrRunNotFound):
		return ErrCodeNotFound, ExitCommandError
	default:
		return ErrCodeGeneric, ExitCommandError
	}
}

// errorDetails extracts structured context for JSON output.
func errorDetails(err error) any {
	var epe *sweep.ExternalProcessError
	if errors.As(err, &epe) {
		d := map[string]any{
			"index":       epe.Index,
			"temperature": epe.Temperature,
			"exit_code":   epe.ExitCode,
		}
		if epe.Signal != "" {
			d["signal"] = epe.Signal
		}
		if epe.Stderr != "" {
			d["stderr"] = epe.Stderr
		}
		if len(epe.Command) > 0 {
			d["command"] = epe.Command
		}
		return d
	}

	var formatErr *table.FormatError
	if errors.As(err, &formatErr) {
		d := map[string]any{"line": formatErr.Line}
		if formatErr.Column > 0 {
			d["column"] = formatErr.Column
		}
		if formatErr.Token != "" {
			d["token"] = formatErr.Token
		}
		return d
	}

	var cfgErr *sweep.ConfigurationError
	if errors.As(err, &cfgErr) {
		return map[string]any{"field": cfgErr.Field}
	}
	return nil
}
