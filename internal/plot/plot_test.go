package plot

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/isingsweep/internal/table"
)

func observations() []table.Observation {
	return []table.Observation{
		{Temperature: 1.0, Magnetization: 0.9, Energy: -1.2, EnergyFluctuation: 0.3},
		{Temperature: 2.0, Magnetization: 0.7, Energy: -0.8, EnergyFluctuation: 0.5},
	}
}

func TestCriticalTemperature(t *testing.T) {
	assert.InDelta(t, 2.269185314213022, CriticalTemperature, 1e-12)
}

func TestMagnetizationSeries(t *testing.T) {
	assert.Equal(t, []Point{{1.0, 0.9}, {2.0, 0.7}}, MagnetizationSeries(observations()))
}

func TestEnergySeries_Negates(t *testing.T) {
	assert.Equal(t, []Point{{1.0, 1.2}, {2.0, 0.8}}, EnergySeries(observations()))
}

func TestHeatCapacitySeries_ExactFormula(t *testing.T) {
	pts := HeatCapacitySeries(observations())
	require.Len(t, pts, 2)
	assert.InDelta(t, 0.09, pts[0].Y, 1e-12)
	assert.InDelta(t, 0.25/4, pts[1].Y, 1e-12)
}

func TestHeatCapacitySeries_DropsZeroTemperature(t *testing.T) {
	obs := append([]table.Observation{{Temperature: 0, EnergyFluctuation: 0.1}}, observations()...)
	obs = append(obs, table.Observation{Temperature: 0, EnergyFluctuation: 0})

	pts := HeatCapacitySeries(obs)
	assert.Len(t, pts, 2)
	for _, p := range pts {
		assert.False(t, math.IsInf(p.Y, 0) || math.IsNaN(p.Y))
	}
}

func nonFiniteObservations() []table.Observation {
	return []table.Observation{
		{Temperature: 1.0, Magnetization: 0.9, Energy: -1.2, EnergyFluctuation: 0.3},
		{Temperature: 1.5, Magnetization: math.NaN(), Energy: math.Inf(-1), EnergyFluctuation: math.NaN()},
		{Temperature: math.Inf(1), Magnetization: 0.1, Energy: -0.1, EnergyFluctuation: 0.1},
		{Temperature: 2.0, Magnetization: 0.7, Energy: -0.8, EnergyFluctuation: 0.5},
	}
}

func TestSeries_DropNonFiniteRows(t *testing.T) {
	obs := nonFiniteObservations()

	assert.Equal(t, []Point{{1.0, 0.9}, {2.0, 0.7}}, MagnetizationSeries(obs))
	assert.Equal(t, []Point{{1.0, 1.2}, {2.0, 0.8}}, EnergySeries(obs))
	assert.Len(t, HeatCapacitySeries(obs), 2)
}

func TestFigures_NonFiniteValues(t *testing.T) {
	figs, err := Figures(nonFiniteObservations(), 16)
	require.NoError(t, err)
	require.Len(t, figs, 3)
}

func TestRender_NonFiniteValues(t *testing.T) {
	dir := t.TempDir()

	paths, err := Render(nonFiniteObservations(), Options{Dir: dir, Format: "svg", LatticeSize: 16})
	require.NoError(t, err)
	require.Len(t, paths, 3)
	for _, p := range paths {
		assert.FileExists(t, p)
	}
}

func TestFigures_Names(t *testing.T) {
	figs, err := Figures(observations(), 32)
	require.NoError(t, err)
	require.Len(t, figs, 3)
	assert.Equal(t, "mag_L_32", figs[0].Name)
	assert.Equal(t, "e_L_32", figs[1].Name)
	assert.Equal(t, "c_L_32", figs[2].Name)
}

func TestFigures_MagnetizationIncludesCriticalLine(t *testing.T) {
	figs, err := Figures(observations(), 4)
	require.NoError(t, err)

	mag := figs[0].Plot
	assert.LessOrEqual(t, mag.X.Min, CriticalTemperature)
	assert.GreaterOrEqual(t, mag.X.Max, CriticalTemperature)
}

func TestFigures_SVGOutput(t *testing.T) {
	figs, err := Figures(observations(), 4)
	require.NoError(t, err)

	wt, err := figs[1].Plot.WriterTo(DefaultWidth, DefaultHeight, "svg")
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = wt.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<svg")
	assert.Contains(t, buf.String(), "Energy")
}

func TestRender_WritesThreeFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")

	paths, err := Render(observations(), Options{Dir: dir, Format: "svg", LatticeSize: 4})
	require.NoError(t, err)
	require.Len(t, paths, 3)

	assert.Equal(t, filepath.Join(dir, "mag_L_4.svg"), paths[0])
	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestRender_DefaultFormatIsPNG(t *testing.T) {
	paths, err := Render(observations(), Options{Dir: t.TempDir(), LatticeSize: 8})
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(paths[0]))
}

func TestRender_RejectsUnknownFormat(t *testing.T) {
	_, err := Render(observations(), Options{Dir: t.TempDir(), Format: "bmp"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported plot format")
}

func TestRender_SingleRow(t *testing.T) {
	obs := observations()[:1]
	_, err := Render(obs, Options{Dir: t.TempDir(), Format: "svg", LatticeSize: 2})
	assert.NoError(t, err)
}

func TestFigures_NoObservations(t *testing.T) {
	figs, err := Figures(nil, 4)
	require.NoError(t, err)
	assert.Len(t, figs, 3)
}
