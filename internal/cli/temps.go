package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/isingsweep/internal/config"
	"github.com/roach88/isingsweep/internal/sweep"
)

// TempsOptions holds flags for the temps command.
type TempsOptions struct {
	*RootOptions
	TMin   float64
	TMax   float64
	TCount int
}

// NewTempsCommand creates the temps command.
func NewTempsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TempsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "temps",
		Short: "Print the temperatures a sweep would use",
		Long: `Print the evenly spaced temperatures from --tmin to --tmax, inclusive,
one per line, formatted exactly as they are passed to the simulator.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemps(opts, cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.TMin, "tmin", config.DefaultTMin, "first temperature")
	cmd.Flags().Float64Var(&opts.TMax, "tmax", config.DefaultTMax, "last temperature")
	cmd.Flags().IntVar(&opts.TCount, "tcount", config.DefaultTCount, "number of temperatures")

	return cmd
}

func runTemps(opts *TempsOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	temps, err := config.Range(opts.TMin, opts.TMax, opts.TCount).Expand()
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Format == "json" {
		return formatter.Success(temps)
	}
	for _, t := range temps {
		fmt.Fprintln(formatter.Writer, sweep.FormatTemperature(t))
	}
	return nil
}
