package report

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/roman-kulish/sol-telemetry/internal/sol"
	"github.com/roman-kulish/sol-telemetry/internal/temperature"
	"github.com/roman-kulish/sol-telemetry/internal/units"
)

const (
	dpi            = 96.0
	fontSize       = 10.0
	tickMarkLength = 5
	pixelsPerLabel = 80.0
	pointRadius    = 2

	defaultWidth  = 960
	defaultHeight = 400

	defaultTopBorder    = 30
	defaultLeftBorder   = 70
	defaultBottomBorder = 60
	defaultRightBorder  = 30
)

var (
	axisColor = color.Black
	gridColor = color.RGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
	lineColor = color.RGBA{R: 0x90, G: 0x90, B: 0x90, A: 0xff}
)

// BorderConfig defines the white space around the plot area
type BorderConfig struct {
	Top    int
	Left   int // Space for the temperature scale
	Bottom int // Space for the Sol scale and the information bar
	Right  int
}

// ChartConfig holds the options of the temperature chart
type ChartConfig struct {
	Width    int // Plot area width in pixels
	Height   int // Plot area height in pixels
	FontSize float64
	Borders  BorderConfig
}

// Point is a single mean temperature of a Sol
type Point struct {
	Sol    int
	Kelvin float64
}

// Chart renders mean temperature per Sol as a PNG line chart
type Chart struct {
	config ChartConfig
}

// NewChart creates a chart renderer, applying defaults to zero values
func NewChart(config ChartConfig) *Chart {
	if config.Width == 0 {
		config.Width = defaultWidth
	}
	if config.Height == 0 {
		config.Height = defaultHeight
	}
	if config.FontSize == 0 {
		config.FontSize = fontSize
	}
	if config.Borders.Top == 0 {
		config.Borders.Top = defaultTopBorder
	}
	if config.Borders.Left == 0 {
		config.Borders.Left = defaultLeftBorder
	}
	if config.Borders.Bottom == 0 {
		config.Borders.Bottom = defaultBottomBorder
	}
	if config.Borders.Right == 0 {
		config.Borders.Right = defaultRightBorder
	}

	return &Chart{config: config}
}

// Points returns the mean temperature of every snapshot
func Points(snapshots []sol.Snapshot) []Point {
	points := make([]Point, len(snapshots))
	for i, s := range snapshots {
		points[i] = Point{Sol: s.Sol, Kelvin: s.Temperature.Mean}
	}
	return points
}

// Render draws the chart. Points must be ordered by Sol.
func (c *Chart) Render(points []Point) (*image.RGBA, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("no temperatures to plot")
	}

	b := c.config.Borders
	img := image.NewRGBA(image.Rect(0, 0, c.config.Width+b.Left+b.Right, c.config.Height+b.Top+b.Bottom))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	p := newPlot(image.Rect(b.Left, b.Top, b.Left+c.config.Width, b.Top+c.config.Height), points)

	ann, err := newAnnotator(c.config.FontSize)
	if err != nil {
		return nil, fmt.Errorf("creating annotator: %w", err)
	}
	defer ann.Close()

	ann.context.SetClip(img.Bounds())
	ann.context.SetDst(img)

	ops := []struct {
		msg string
		fn  func(*image.RGBA, *plot) error
	}{
		{"drawing temperature scale", ann.drawTemperatureScale},
		{"drawing Sol scale", ann.drawSolScale},
		{"drawing info bar", ann.drawInfoBar},
	}
	for _, op := range ops {
		if err = op.fn(img, p); err != nil {
			return nil, fmt.Errorf("%s: %w", op.msg, err)
		}
	}

	p.drawAxes(img)
	p.drawSeries(img)

	return img, nil
}

// WritePNG renders the chart and encodes it as PNG
func (c *Chart) WritePNG(w io.Writer, points []Point) error {
	img, err := c.Render(points)
	if err != nil {
		return err
	}
	if err = png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// plot maps Sol numbers and temperatures into the plot area
type plot struct {
	area   image.Rectangle
	points []Point

	solMin, solMax int
	kMin, kMax     float64
}

func newPlot(area image.Rectangle, points []Point) *plot {
	p := plot{
		area:   area,
		points: points,
		solMin: points[0].Sol,
		solMax: points[len(points)-1].Sol,
		kMin:   math.Inf(1),
		kMax:   math.Inf(-1),
	}
	for _, pt := range points {
		p.kMin = math.Min(p.kMin, pt.Kelvin)
		p.kMax = math.Max(p.kMax, pt.Kelvin)
	}

	// Keep a flat series in the middle of the plot
	if p.kMax-p.kMin < 1 {
		p.kMin--
		p.kMax++
	}
	return &p
}

func (p *plot) x(n int) int {
	if p.solMax == p.solMin {
		return p.area.Min.X + p.area.Dx()/2
	}
	ratio := float64(n-p.solMin) / float64(p.solMax-p.solMin)
	return p.area.Min.X + int(ratio*float64(p.area.Dx()-1))
}

func (p *plot) y(kelvin float64) int {
	ratio := (kelvin - p.kMin) / (p.kMax - p.kMin)
	return p.area.Max.Y - 1 - int(ratio*float64(p.area.Dy()-1))
}

func (p *plot) drawAxes(img *image.RGBA) {
	for x := p.area.Min.X; x < p.area.Max.X; x++ {
		img.Set(x, p.area.Max.Y, axisColor)
	}
	for y := p.area.Min.Y; y <= p.area.Max.Y; y++ {
		img.Set(p.area.Min.X-1, y, axisColor)
	}
}

func (p *plot) drawSeries(img *image.RGBA) {
	scale := thermalScale{min: p.kMin, max: p.kMax}

	for i := 1; i < len(p.points); i++ {
		drawLine(img,
			image.Pt(p.x(p.points[i-1].Sol), p.y(p.points[i-1].Kelvin)),
			image.Pt(p.x(p.points[i].Sol), p.y(p.points[i].Kelvin)),
			lineColor)
	}

	for _, pt := range p.points {
		cx, cy := p.x(pt.Sol), p.y(pt.Kelvin)
		c := scale.color(pt.Kelvin)
		for dy := -pointRadius; dy <= pointRadius; dy++ {
			for dx := -pointRadius; dx <= pointRadius; dx++ {
				if dx*dx+dy*dy <= pointRadius*pointRadius {
					img.Set(cx+dx, cy+dy, c)
				}
			}
		}
	}
}

// drawLine draws a straight line using Bresenham's algorithm
func drawLine(img *image.RGBA, from, to image.Point, c color.Color) {
	dx := abs(to.X - from.X)
	dy := -abs(to.Y - from.Y)
	sx, sy := 1, 1
	if from.X > to.X {
		sx = -1
	}
	if from.Y > to.Y {
		sy = -1
	}

	e := dx + dy
	x, y := from.X, from.Y
	for {
		img.Set(x, y, c)
		if x == to.X && y == to.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

type annotator struct {
	context  *freetype.Context
	fontFace font.Face
}

func newAnnotator(size float64) (*annotator, error) {
	parsedFont, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(size)
	ctx.SetHinting(font.HintingNone)
	ctx.SetSrc(image.Black)

	return &annotator{
		context: ctx,
		fontFace: truetype.NewFace(parsedFont, &truetype.Options{
			Size:    size,
			DPI:     dpi,
			Hinting: font.HintingNone,
		}),
	}, nil
}

func (a *annotator) Close() error {
	if a.fontFace != nil {
		return a.fontFace.Close()
	}
	return nil
}

func (a *annotator) fontHeight() int {
	metrics := a.fontFace.Metrics()
	return (metrics.Ascent + metrics.Descent).Round()
}

func (a *annotator) drawTemperatureScale(img *image.RGBA, p *plot) error {
	step := niceStep(p.kMax-p.kMin, float64(p.area.Dy())/pixelsPerLabel)
	descent := a.fontFace.Metrics().Descent.Round()

	for k := math.Ceil(p.kMin/step) * step; k <= p.kMax; k += step {
		y := p.y(k)

		for x := p.area.Min.X; x < p.area.Max.X; x++ {
			img.Set(x, y, gridColor)
		}
		for x := p.area.Min.X - tickMarkLength; x < p.area.Min.X; x++ {
			img.Set(x, y, axisColor)
		}

		label := fmt.Sprintf("%.0f K", k)
		width := font.MeasureString(a.fontFace, label).Round()
		pt := freetype.Pt(p.area.Min.X-tickMarkLength-width-3, y+a.fontHeight()/2-descent)
		if _, err := a.context.DrawString(label, pt); err != nil {
			return fmt.Errorf("drawing temperature label: %w", err)
		}
	}
	return nil
}

func (a *annotator) drawSolScale(img *image.RGBA, p *plot) error {
	span := float64(p.solMax - p.solMin)
	step := int(math.Max(1, niceStep(span, float64(p.area.Dx())/pixelsPerLabel)))
	textY := p.area.Max.Y + tickMarkLength + a.fontHeight()

	for n := p.solMin; n <= p.solMax; n += step {
		x := p.x(n)
		for y := p.area.Max.Y; y < p.area.Max.Y+tickMarkLength; y++ {
			img.Set(x, y, axisColor)
		}

		label := fmt.Sprintf("%d", n)
		width := font.MeasureString(a.fontFace, label).Round()
		if _, err := a.context.DrawString(label, freetype.Pt(x-width/2, textY)); err != nil {
			return fmt.Errorf("drawing Sol label: %w", err)
		}
	}
	return nil
}

func (a *annotator) drawInfoBar(img *image.RGBA, p *plot) error {
	kelvin := make([]float64, len(p.points))
	for i, pt := range p.points {
		kelvin[i] = pt.Kelvin
	}
	mean := temperature.Mean(kelvin)

	info := fmt.Sprintf("Mean temperature per Sol; Sols %d - %d; mean %.2f K (%.2f °C)",
		p.solMin, p.solMax, mean, mean-units.CelsiusOffset)

	descent := a.fontFace.Metrics().Descent.Round()
	textY := img.Bounds().Max.Y - descent - 6
	if _, err := a.context.DrawString(info, freetype.Pt(p.area.Min.X, textY)); err != nil {
		return fmt.Errorf("drawing info text: %w", err)
	}
	return nil
}

// niceStep returns a 1, 2 or 5 times power of ten step that splits span into
// roughly the desired number of labels
func niceStep(span, labels float64) float64 {
	if span <= 0 || labels < 1 {
		return 1
	}

	rough := span / labels
	magnitude := math.Pow(10, math.Floor(math.Log10(rough)))
	for _, m := range []float64{1, 2, 5, 10} {
		if step := m * magnitude; step >= rough {
			return step
		}
	}
	return 10 * magnitude
}
