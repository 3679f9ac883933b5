package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/isingsweep/internal/config"
	"github.com/roach88/isingsweep/internal/plot"
	"github.com/roach88/isingsweep/internal/sweep"
)

// ValidationResult holds the expanded sweep of a valid config.
type ValidationResult struct {
	Valid     bool            `json:"valid"`
	Simulator string          `json:"simulator"`
	Sweep     sweep.Config    `json:"sweep"`
	Plots     config.PlotSpec `json:"plots"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config>",
		Short: "Validate a sweep config without running it",
		Long: `Load a YAML or CUE sweep config, apply defaults, and check every field.
The simulator is not invoked and no files are written.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	file, err := config.Load(path)
	if err != nil {
		return failConfig(formatter, err)
	}

	cfg, err := file.SweepConfig()
	if err != nil {
		return formatter.Fail(err)
	}

	if file.Plots.Format != "" && !plot.IsValidFormat(file.Plots.Format) {
		return formatter.FailWith(ErrCodeConfiguration, ExitCommandError,
			fmt.Errorf("unsupported plot format %q: must be one of %v", file.Plots.Format, plot.Formats))
	}

	result := ValidationResult{
		Valid:     true,
		Simulator: file.Simulator,
		Sweep:     cfg,
		Plots:     file.Plots,
	}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	temps := cfg.Temperatures
	fmt.Fprintln(w, "✓ Config valid")
	fmt.Fprintf(w, "  Simulator:    %s\n", file.Simulator)
	fmt.Fprintf(w, "  Lattice:      L=%d\n", cfg.LatticeSize)
	fmt.Fprintf(w, "  Temperatures: %d from %s to %s\n", len(temps),
		sweep.FormatTemperature(temps[0]), sweep.FormatTemperature(temps[len(temps)-1]))
	fmt.Fprintf(w, "  Sampling:     %d samples every %d steps after %d warm-up steps\n",
		cfg.Samples, cfg.SampleStride, cfg.WarmupSteps)
	fmt.Fprintf(w, "  Output:       %s\n", cfg.OutputPath)
	return nil
}
