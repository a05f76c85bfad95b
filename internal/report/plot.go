package report

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/roman-kulish/sol-telemetry/internal/sol"
	"github.com/roman-kulish/sol-telemetry/internal/temperature"
)

var (
	summerColor = color.RGBA{R: 0xe0, G: 0x60, B: 0x20, A: 0xff}
	winterColor = color.RGBA{R: 0x20, G: 0x60, B: 0xe0, A: 0xff}
)

// PlotFormats lists the formats accepted by WriteSeasonPlot
var PlotFormats = []string{"png", "svg", "pdf", "eps", "jpg", "tif"}

// ErrUnsupportedFormat is returned for a plot format not in PlotFormats
var ErrUnsupportedFormat = errors.New("unsupported plot format")

// PlotFormat returns the plot format implied by the file extension of path
func PlotFormat(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "jpeg":
		ext = "jpg"
	case "tiff":
		ext = "tif"
	}

	for _, f := range PlotFormats {
		if f == ext {
			return ext, nil
		}
	}
	return "", fmt.Errorf("%w: '%s'", ErrUnsupportedFormat, ext)
}

// WriteSeasonPlot writes a plot of mean temperature per Sol with summer and
// winter windows highlighted, encoded in the given format.
func WriteSeasonPlot(w io.Writer, points []Point, format string) error {
	if len(points) == 0 {
		return errors.New("no data to plot")
	}

	p := gonumplot.New()
	p.Title.Text = "Mean temperature per Sol"
	p.X.Label.Text = "Sol"
	p.Y.Label.Text = "Temperature (K)"
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i] = plotter.XY{X: float64(pt.Sol), Y: pt.Kelvin}
	}

	mean, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("mean line: %w", err)
	}
	mean.Width = vg.Points(1)
	mean.Color = lineColor
	p.Add(mean)
	p.Legend.Add("mean", mean)

	if err = addSeason(p, "summer", points, temperature.SummerWindows(), summerColor); err != nil {
		return err
	}
	if err = addSeason(p, "winter", points, temperature.WinterWindows(), winterColor); err != nil {
		return err
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	wt, err := p.WriterTo(14*vg.Inch, 6*vg.Inch, format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	if _, err = wt.WriteTo(w); err != nil {
		return fmt.Errorf("writing plot: %w", err)
	}
	return nil
}

// addSeason draws one line per window over the points it covers. Windows with
// no points are skipped; the legend entry is added once.
func addSeason(p *gonumplot.Plot, name string, points []Point, windows []temperature.Window, c color.Color) error {
	var labelled bool

	for _, window := range windows {
		var xys plotter.XYs
		for _, pt := range points {
			index := pt.Sol - sol.InitialSol
			if index >= window.Start && index <= window.End {
				xys = append(xys, plotter.XY{X: float64(pt.Sol), Y: pt.Kelvin})
			}
		}
		if len(xys) == 0 {
			continue
		}

		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("%s line %s: %w", name, window, err)
		}
		line.Width = vg.Points(2)
		line.Color = c
		p.Add(line)

		if !labelled {
			p.Legend.Add(name, line)
			labelled = true
		}
	}
	return nil
}
