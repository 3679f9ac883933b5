package sweep

import (
	"math"
	"strconv"
)

// Config describes one sweep. It is treated as immutable once passed to Run.
type Config struct {
	// LatticeSize is the linear size L of the LxL lattice.
	LatticeSize int `json:"lattice_size"`

	// Temperatures are visited in slice order.
	Temperatures []float64 `json:"temperatures"`

	// Samples is the number of measurements per temperature (-n).
	Samples int `json:"samples"`

	// WarmupSteps are discarded before measuring (-nT).
	WarmupSteps int `json:"warmup_steps"`

	// SampleStride is the number of steps between measurements (-fs).
	SampleStride int `json:"sample_stride"`

	// OutputPath is the aggregated results file.
	OutputPath string `json:"output_path"`

	// Seed, when set, is forwarded to the simulator as -s.
	Seed *int64 `json:"seed,omitempty"`

	// Parallel bounds concurrent invocations. 0 and 1 mean sequential.
	// See the package doc for how failure differs in parallel mode.
	Parallel int `json:"parallel,omitempty"`
}

// Validate reports the first invalid field as a *ConfigurationError.
func (c Config) Validate() error {
	switch {
	case c.LatticeSize <= 0:
		return newConfigError("lattice_size", "must be positive, got %d", c.LatticeSize)
	case len(c.Temperatures) == 0:
		return newConfigError("temperatures", "must not be empty")
	case c.Samples <= 0:
		return newConfigError("samples", "must be positive, got %d", c.Samples)
	case c.WarmupSteps < 0:
		return newConfigError("warmup_steps", "must be non-negative, got %d", c.WarmupSteps)
	case c.SampleStride <= 0:
		return newConfigError("sample_stride", "must be positive, got %d", c.SampleStride)
	case c.OutputPath == "":
		return newConfigError("output_path", "is required")
	case c.Parallel < 0:
		return newConfigError("parallel", "must be non-negative, got %d", c.Parallel)
	}

	for i, t := range c.Temperatures {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return newConfigError("temperatures", "value %d is not finite", i)
		}
	}
	return nil
}

// params returns the invocation parameters for temperature i.
func (c Config) params(i int) Params {
	return Params{
		Index:        i,
		Temperature:  c.Temperatures[i],
		LatticeSize:  c.LatticeSize,
		Samples:      c.Samples,
		WarmupSteps:  c.WarmupSteps,
		SampleStride: c.SampleStride,
		Seed:         c.Seed,
	}
}

// Params are the per-invocation simulator parameters.
type Params struct {
	Index        int
	Temperature  float64
	LatticeSize  int
	Samples      int
	WarmupSteps  int
	SampleStride int
	Seed         *int64
}

// Args renders the simulator command line:
//
//	-T <t> -L <L> -n <samples> -nT <warmup> -fs <stride> [-s <seed>]
func (p Params) Args() []string {
	args := []string{
		"-T", FormatTemperature(p.Temperature),
		"-L", strconv.Itoa(p.LatticeSize),
		"-n", strconv.Itoa(p.Samples),
		"-nT", strconv.Itoa(p.WarmupSteps),
		"-fs", strconv.Itoa(p.SampleStride),
	}
	if p.Seed != nil {
		args = append(args, "-s", strconv.FormatInt(*p.Seed, 10))
	}
	return args
}

// FormatTemperature uses the shortest decimal that round-trips.
func FormatTemperature(t float64) string {
	return strconv.FormatFloat(t, 'g', -1, 64)
}

// Linspace returns n evenly spaced values over [start, stop], endpoints included.
// n == 1 yields [start]; n <= 0 yields an empty slice.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	if n == 1 {
		return []float64{start}
	}

	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}
