package report

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	hueCold = 240.0
	hueHot  = 0.0
)

// thermalScale maps temperatures within [min, max] to a blue to red gradient
type thermalScale struct {
	min float64
	max float64
}

func (s thermalScale) color(kelvin float64) color.RGBA {
	normalized := 0.5
	if s.max > s.min {
		normalized = (math.Max(s.min, math.Min(kelvin, s.max)) - s.min) / (s.max - s.min)
	}

	c := colorful.Hsv(
		hueCold-normalized*(hueCold-hueHot),
		0.9+normalized*0.1,
		0.6+math.Pow(normalized, 0.7)*0.4,
	).Clamped()

	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
