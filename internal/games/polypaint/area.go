package polypaint

import (
	"math"

	"github.com/vovakirdan/tui-polypaint/internal/core"
)

// PixelSampler exposes a raster for paint-area measurement. The game's
// canvas implements it; tests can substitute synthetic rasters.
type PixelSampler interface {
	// Size returns the raster dimensions in pixels.
	Size() (w, h int)
	// At returns the color of the pixel at (x, y).
	At(x, y int) core.Color
}

// PolygonArea computes the polygon's area with the shoelace formula.
// The result is non-negative regardless of winding.
func PolygonArea(p *Polygon) float64 {
	sum := 0.0
	n := len(p.Vertices)
	for i, v := range p.Vertices {
		w := p.Vertices[(i+1)%n]
		sum += v.X*w.Y - w.X*v.Y
	}
	return math.Abs(sum) / 2
}

// PaintedArea counts pixels whose color exactly matches paint.
func PaintedArea(sample PixelSampler, paint core.Color) float64 {
	w, h := sample.Size()
	count := 0
	for y := range h {
		for x := range w {
			if sample.At(x, y) == paint {
				count++
			}
		}
	}
	return float64(count)
}

// CoveragePercent returns painted area as a percentage of the polygon area.
func CoveragePercent(painted, polygonArea float64) float64 {
	return 100 * painted / polygonArea
}
