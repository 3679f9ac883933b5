package sweep

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode categorizes sweep failures.
type ErrorCode string

const (
	// ErrCodeConfiguration indicates an invalid Config; nothing was executed.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION"

	// ErrCodeExternalProcess indicates the simulator failed to start or exited non-zero.
	ErrCodeExternalProcess ErrorCode = "EXTERNAL_PROCESS"

	// ErrCodeOutputFormat indicates the results file is not a rectangular numeric table.
	ErrCodeOutputFormat ErrorCode = "OUTPUT_FORMAT"
)

// ConfigurationError is returned before any side effect when Config is invalid.
type ConfigurationError struct {
	Field   string
	Message string
}

func newConfigError(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Code returns ErrCodeConfiguration.
func (e *ConfigurationError) Code() ErrorCode { return ErrCodeConfiguration }

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrCodeConfiguration, e.Field, e.Message)
}

// ExternalProcessError reports a simulator invocation that could not be
// started, exited with a non-zero status, or was killed by a signal.
type ExternalProcessError struct {
	// Index is the 0-based position in the temperature sequence.
	Index       int
	Temperature float64

	// Command is the full command line, for diagnostics.
	Command []string

	// ExitCode is -1 when the process never started or was killed by a signal.
	ExitCode int

	// Signal names the signal that terminated a started process, if any.
	Signal string

	// Stderr holds the tail of the process's standard error, if captured.
	Stderr string

	Err error
}

// Code returns ErrCodeExternalProcess.
func (e *ExternalProcessError) Code() ErrorCode { return ErrCodeExternalProcess }

func (e *ExternalProcessError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: invocation %d (T=%s)", ErrCodeExternalProcess, e.Index+1, FormatTemperature(e.Temperature))
	switch {
	case e.Signal != "":
		fmt.Fprintf(&b, " was terminated by signal %s", e.Signal)
	case e.ExitCode >= 0:
		fmt.Fprintf(&b, " exited with status %d", e.ExitCode)
	default:
		b.WriteString(" could not be started")
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Stderr != "" {
		fmt.Fprintf(&b, ": %s", e.Stderr)
	}
	return b.String()
}

func (e *ExternalProcessError) Unwrap() error {
	return e.Err
}

// OutputFormatError reports that the accumulated results file cannot be
// parsed. Err is usually a *table.FormatError carrying the line and token.
type OutputFormatError struct {
	Path string
	Err  error
}

// Code returns ErrCodeOutputFormat.
func (e *OutputFormatError) Code() ErrorCode { return ErrCodeOutputFormat }

func (e *OutputFormatError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrCodeOutputFormat, e.Path, e.Err)
}

func (e *OutputFormatError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsExternalProcessError reports whether err wraps an *ExternalProcessError.
func IsExternalProcessError(err error) bool {
	var pe *ExternalProcessError
	return errors.As(err, &pe)
}

// IsOutputFormatError reports whether err wraps an *OutputFormatError.
func IsOutputFormatError(err error) bool {
	var oe *OutputFormatError
	return errors.As(err, &oe)
}
