// Command isingsweep runs Ising model temperature sweeps.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/isingsweep/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Command errors were already reported by the output formatter.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
