// Package config loads sweep configuration files.
//
// Two formats are accepted, chosen by file extension:
//
//   - .yaml / .yml: decoded strictly, unknown keys are rejected.
//   - .cue: the top-level "sweep" struct is unified with an embedded
//     schema (#Sweep) that enforces field types and ranges first.
//
// Example (YAML):
//
//	simulator: ./ising.exe
//	lattice_size: 32
//	temperatures: {start: 0.1, stop: 5, count: 100}
//	samples: 100
//	warmup_steps: 500
//	sample_stride: 100
//	output: med_L_32
//	seed: 42
//	plots: {dir: plots, format: svg}
//
// Fields that are omitted keep the values from Default.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/isingsweep/internal/simulator"
	"github.com/roach88/isingsweep/internal/sweep"
)

// Standard sweep settings.
const (
	DefaultLatticeSize  = 32
	DefaultSamples      = 100
	DefaultWarmupSteps  = 500
	DefaultSampleStride = 100
	DefaultTMin         = 0.1
	DefaultTMax         = 5.0
	DefaultTCount       = 100
)

// File is the on-disk sweep configuration.
type File struct {
	Simulator    string          `yaml:"simulator" json:"simulator,omitempty"`
	LatticeSize  int             `yaml:"lattice_size" json:"lattice_size,omitempty"`
	Temperatures TemperatureSpec `yaml:"temperatures" json:"temperatures,omitempty"`
	Samples      int             `yaml:"samples" json:"samples,omitempty"`
	WarmupSteps  *int            `yaml:"warmup_steps" json:"warmup_steps,omitempty"`
	SampleStride int             `yaml:"sample_stride" json:"sample_stride,omitempty"`
	Output       string          `yaml:"output" json:"output,omitempty"`
	Seed         *int64          `yaml:"seed,omitempty" json:"seed,omitempty"`
	Parallel     int             `yaml:"parallel,omitempty" json:"parallel,omitempty"`
	Plots        PlotSpec        `yaml:"plots,omitempty" json:"plots,omitempty"`
}

// TemperatureSpec is either an explicit list or an inclusive linear range.
// A temperatures key in a file replaces the whole spec; an explicitly empty
// list expands to no temperatures and fails validation.
type TemperatureSpec struct {
	Values []float64 `yaml:"values,omitempty" json:"values,omitempty"`
	Start  *float64  `yaml:"start,omitempty" json:"start,omitempty"`
	Stop   *float64  `yaml:"stop,omitempty" json:"stop,omitempty"`
	Count  int       `yaml:"count,omitempty" json:"count,omitempty"`
}

// PlotSpec controls rendering after a successful sweep.
type PlotSpec struct {
	Dir      string `yaml:"dir,omitempty" json:"dir,omitempty"`
	Format   string `yaml:"format,omitempty" json:"format,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty" json:"disabled,omitempty"`
}

// Default returns the standard sweep: L=32, 100 temperatures in
// [0.1, 5], 100 samples every 100 steps after 500 warm-up steps.
func Default() *File {
	return &File{
		Simulator:    simulator.DefaultCommand,
		LatticeSize:  DefaultLatticeSize,
		Temperatures: Range(DefaultTMin, DefaultTMax, DefaultTCount),
		Samples:      DefaultSamples,
		WarmupSteps:  intPtr(DefaultWarmupSteps),
		SampleStride: DefaultSampleStride,
	}
}

func intPtr(v int) *int { return &v }

// Range returns a linear TemperatureSpec.
func Range(start, stop float64, count int) TemperatureSpec {
	return TemperatureSpec{Start: &start, Stop: &stop, Count: count}
}

// Expand resolves the spec to the ordered temperature list.
func (s TemperatureSpec) Expand() ([]float64, error) {
	hasRange := s.Start != nil || s.Stop != nil || s.Count != 0
	switch {
	case len(s.Values) > 0 && hasRange:
		return nil, &sweep.ConfigurationError{Field: "temperatures", Message: "set either values or start/stop/count, not both"}
	case len(s.Values) > 0:
		out := make([]float64, len(s.Values))
		copy(out, s.Values)
		return out, nil
	case hasRange:
		if s.Start == nil || s.Stop == nil {
			return nil, &sweep.ConfigurationError{Field: "temperatures", Message: "range needs both start and stop"}
		}
		if s.Count <= 0 {
			return nil, &sweep.ConfigurationError{Field: "temperatures", Message: fmt.Sprintf("count must be positive, got %d", s.Count)}
		}
		return sweep.Linspace(*s.Start, *s.Stop, s.Count), nil
	default:
		return []float64{}, nil
	}
}

// OutputPath returns Output, or med_L_<L> when unset.
func (f *File) OutputPath() string {
	if f.Output != "" {
		return f.Output
	}
	return fmt.Sprintf("med_L_%d", f.LatticeSize)
}

// SweepConfig converts the file into a validated sweep.Config.
func (f *File) SweepConfig() (sweep.Config, error) {
	temps, err := f.Temperatures.Expand()
	if err != nil {
		return sweep.Config{}, err
	}

	warmup := 0
	if f.WarmupSteps != nil {
		warmup = *f.WarmupSteps
	}

	cfg := sweep.Config{
		LatticeSize:  f.LatticeSize,
		Temperatures: temps,
		Samples:      f.Samples,
		WarmupSteps:  warmup,
		SampleStride: f.SampleStride,
		OutputPath:   f.OutputPath(),
		Seed:         f.Seed,
		Parallel:     f.Parallel,
	}
	if err := cfg.Validate(); err != nil {
		return sweep.Config{}, err
	}
	return cfg, nil
}

// Load reads a YAML or CUE config file on top of Default.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Keys present in the file replace defaults, zero values included, so
	// that "samples: 0" fails validation instead of running 100 samples.
	f := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = parseYAML(data, f)
	case ".cue":
		err = parseCUE(path, data, f)
	default:
		return nil, fmt.Errorf("unsupported config extension %q (want .yaml, .yml or .cue)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return f, nil
}
