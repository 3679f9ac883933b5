package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/isingsweep/internal/config"
	"github.com/roach88/isingsweep/internal/plot"
	"github.com/roach88/isingsweep/internal/table"
)

// PlotOptions holds flags for the plot command.
type PlotOptions struct {
	*RootOptions
	Lattice int
	Dir     string
	Format  string
}

// PlotResult lists the rendered files.
type PlotResult struct {
	Input string   `json:"input"`
	Rows  int      `json:"rows"`
	Files []string `json:"files"`
}

// NewPlotCommand creates the plot command.
func NewPlotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plot <results-file>",
		Short: "Plot an existing results file",
		Long: `Parse a results file written by a previous sweep and render the
magnetization, energy and heat capacity plots.

--lattice only names the output files (mag_L_<L>, e_L_<L>, c_L_<L>).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Lattice, "lattice", config.DefaultLatticeSize, "lattice size used in file names")
	cmd.Flags().StringVar(&opts.Dir, "dir", "", "output directory (default current directory)")
	cmd.Flags().StringVar(&opts.Format, "plot-format", plot.DefaultFormat, fmt.Sprintf("image format %v", plot.Formats))

	return cmd
}

func runPlot(opts *PlotOptions, input string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if !plot.IsValidFormat(opts.Format) {
		return formatter.FailWith(ErrCodeConfiguration, ExitCommandError,
			fmt.Errorf("unsupported plot format %q: must be one of %v", opts.Format, plot.Formats))
	}

	tbl, err := table.ParseFile(input)
	if err != nil {
		return formatter.Fail(err)
	}
	formatter.VerboseLog("Parsed %d rows x %d columns from %s", tbl.Len(), tbl.Width(), input)

	obs, err := tbl.Observations()
	if err != nil {
		return formatter.Fail(err)
	}

	files, err := plot.Render(obs, plot.Options{
		Dir:         opts.Dir,
		Format:      opts.Format,
		LatticeSize: opts.Lattice,
	})
	if err != nil {
		return formatter.Fail(err)
	}

	result := PlotResult{Input: input, Rows: tbl.Len(), Files: files}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Plotted %d rows from %s\n", result.Rows, input)
	for _, f := range files {
		fmt.Fprintf(formatter.Writer, "  %s\n", f)
	}
	return nil
}
