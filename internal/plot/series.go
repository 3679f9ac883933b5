// Package plot renders the diagnostic sweep plots.
//
// It consumes []table.Observation and never talks to the simulator. Series
// derivation is kept separate from rendering so it can be tested headless.
package plot

import (
	"math"

	"github.com/roach88/isingsweep/internal/table"
)

// CriticalTemperature is Onsager's exact transition temperature of the
// square-lattice Ising model, in units of J/k: 2 / ln(1 + √2).
var CriticalTemperature = 2 / math.Log(1+math.Sqrt2)

// Point is one (x, y) sample.
type Point struct {
	X, Y float64
}

// MagnetizationSeries is (T, <m>).
func MagnetizationSeries(obs []table.Observation) []Point {
	pts := make([]Point, 0, len(obs))
	for _, o := range obs {
		pts = appendFinite(pts, o.Temperature, o.Magnetization)
	}
	return pts
}

// EnergySeries is (T, -<e>).
func EnergySeries(obs []table.Observation) []Point {
	pts := make([]Point, 0, len(obs))
	for _, o := range obs {
		pts = appendFinite(pts, o.Temperature, -o.Energy)
	}
	return pts
}

// HeatCapacitySeries is (T, f²/T²) where f is the energy fluctuation column.
//
// The value is unnormalized: no lattice-volume or Boltzmann factor is
// applied. T == 0 yields a non-finite value and the row is dropped.
func HeatCapacitySeries(obs []table.Observation) []Point {
	pts := make([]Point, 0, len(obs))
	for _, o := range obs {
		pts = appendFinite(pts, o.Temperature, HeatCapacityProxy(o))
	}
	return pts
}

// appendFinite adds (x, y) unless either is NaN or ±Inf. Every series drops
// such rows, leaving a gap in the plotted line.
func appendFinite(pts []Point, x, y float64) []Point {
	if !isFinite(x) || !isFinite(y) {
		return pts
	}
	return append(pts, Point{X: x, Y: y})
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// HeatCapacityProxy returns EnergyFluctuation² / Temperature².
func HeatCapacityProxy(o table.Observation) float64 {
	return (o.EnergyFluctuation * o.EnergyFluctuation) / (o.Temperature * o.Temperature)
}
