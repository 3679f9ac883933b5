package plot

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strconv"

	gonum "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/roach88/isingsweep/internal/table"
)

// Supported output formats. The format is also the file extension.
var Formats = []string{"png", "svg", "pdf", "eps", "jpg", "tiff"}

// DefaultFormat is used when Options.Format is empty.
const DefaultFormat = "png"

// Default figure size: 5in tall, golden-ratio wide.
var (
	DefaultHeight = 5 * vg.Inch
	DefaultWidth  = vg.Length(5*(1+math.Sqrt(5))/2) * vg.Inch
)

const temperatureLabel = "T' = kT/J"

var (
	blue  = color.RGBA{B: 200, A: 255}
	red   = color.RGBA{R: 200, A: 255}
	green = color.RGBA{G: 150, A: 255}
	black = color.RGBA{A: 255}
)

// Options controls Render.
type Options struct {
	// Dir receives the image files; empty means the current directory.
	Dir string

	// Format is one of Formats; empty means DefaultFormat.
	Format string

	// LatticeSize names the files: mag_L_<L>, e_L_<L>, c_L_<L>.
	LatticeSize int

	// Width and Height override the default figure size when non-zero.
	Width, Height vg.Length
}

// Figure is one named plot ready to be saved.
type Figure struct {
	Name string
	Plot *gonum.Plot
}

// Figures builds the magnetization, energy and heat-capacity plots.
func Figures(obs []table.Observation, latticeSize int) ([]Figure, error) {
	suffix := "_L_" + strconv.Itoa(latticeSize)

	mag, err := newFigure("Magnetization", "<m> = <M>/(N μB)", MagnetizationSeries(obs), blue)
	if err != nil {
		return nil, fmt.Errorf("magnetization plot: %w", err)
	}
	if err := addCriticalLine(mag); err != nil {
		return nil, fmt.Errorf("magnetization plot: %w", err)
	}

	energy, err := newFigure("Energy", "e = E/(NJ)", EnergySeries(obs), red)
	if err != nil {
		return nil, fmt.Errorf("energy plot: %w", err)
	}

	heat, err := newFigure("Heat capacity", "c = <ΔE>²/(N T'²)", HeatCapacitySeries(obs), green)
	if err != nil {
		return nil, fmt.Errorf("heat capacity plot: %w", err)
	}

	return []Figure{
		{Name: "mag" + suffix, Plot: mag},
		{Name: "e" + suffix, Plot: energy},
		{Name: "c" + suffix, Plot: heat},
	}, nil
}

// Render writes every figure to opts.Dir and returns the file paths.
func Render(obs []table.Observation, opts Options) ([]string, error) {
	format := opts.Format
	if format == "" {
		format = DefaultFormat
	}
	if !IsValidFormat(format) {
		return nil, fmt.Errorf("unsupported plot format %q: must be one of %v", format, Formats)
	}

	w, h := opts.Width, opts.Height
	if w == 0 {
		w = DefaultWidth
	}
	if h == 0 {
		h = DefaultHeight
	}

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create plot dir: %w", err)
		}
	}

	figs, err := Figures(obs, opts.LatticeSize)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(figs))
	for _, f := range figs {
		path := filepath.Join(opts.Dir, f.Name+"."+format)
		if err := f.Plot.Save(w, h, path); err != nil {
			return nil, fmt.Errorf("save %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// IsValidFormat reports whether format is one of Formats.
func IsValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

func newFigure(title, yLabel string, pts []Point, c color.Color) (*gonum.Plot, error) {
	p := gonum.New()
	p.Title.Text = title
	p.X.Label.Text = temperatureLabel
	p.Y.Label.Text = yLabel
	p.X.Label.TextStyle.Font.Size = vg.Points(20)
	p.Y.Label.TextStyle.Font.Size = vg.Points(20)
	p.X.Tick.Label.Font.Size = vg.Points(12)
	p.Y.Tick.Label.Font.Size = vg.Points(12)

	if len(pts) == 0 {
		return p, nil
	}

	xys := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		xys[i].X = pt.X
		xys[i].Y = pt.Y
	}

	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, err
	}
	line.Color = c
	line.Width = vg.Points(2.5)
	points.Color = c
	points.Shape = draw.CircleGlyph{}
	points.Radius = vg.Points(3)

	p.Add(line, points)
	return p, nil
}

// addCriticalLine draws a dashed vertical line at CriticalTemperature
// spanning the current y range.
func addCriticalLine(p *gonum.Plot) error {
	lo, hi := p.Y.Min, p.Y.Max
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		lo, hi = 0, 1
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	ref, err := plotter.NewLine(plotter.XYs{
		{X: CriticalTemperature, Y: lo},
		{X: CriticalTemperature, Y: hi},
	})
	if err != nil {
		return err
	}
	ref.Color = black
	ref.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}

	p.Add(ref)
	return nil
}
