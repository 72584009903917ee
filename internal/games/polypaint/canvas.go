package polypaint

import (
	"math"

	"github.com/vovakirdan/tui-polypaint/internal/core"
)

// Canvas is the paint raster, one color per world pixel. The trail is drawn
// here at full world resolution so the painted-pixel count and the analytic
// polygon area live in the same units.
type Canvas struct {
	width  int
	height int
	pixels []core.Color // row-major, y*width+x
}

// NewCanvas creates a cleared canvas of the given pixel dimensions.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		width:  width,
		height: height,
		pixels: make([]core.Color, width*height),
	}
}

// Size returns the raster dimensions. Part of PixelSampler.
func (c *Canvas) Size() (int, int) {
	return c.width, c.height
}

// At returns the pixel color at (x, y). Out of bounds reads the default
// color. Part of PixelSampler.
func (c *Canvas) At(x, y int) core.Color {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return core.ColorDefault
	}
	return c.pixels[y*c.width+x]
}

// set paints a single pixel, ignoring out-of-bounds coordinates.
func (c *Canvas) set(x, y int, color core.Color) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.pixels[y*c.width+x] = color
}

// Clear resets every pixel to the default color.
func (c *Canvas) Clear() {
	for i := range c.pixels {
		c.pixels[i] = core.ColorDefault
	}
}

// StrokeSegment paints a thick line from a to b: every pixel within
// halfWidth of the segment gets the color. The circle's trail is stroked
// with halfWidth equal to the circle radius, so the painted band matches
// the brush diameter.
func (c *Canvas) StrokeSegment(a, b core.Vec2, halfWidth float64, color core.Color) {
	minX := int(math.Floor(min(a.X, b.X) - halfWidth))
	maxX := int(math.Ceil(max(a.X, b.X) + halfWidth))
	minY := int(math.Floor(min(a.Y, b.Y) - halfWidth))
	maxY := int(math.Ceil(max(a.Y, b.Y) + halfWidth))

	minX = core.Clamp(minX, 0, c.width-1)
	maxX = core.Clamp(maxX, 0, c.width-1)
	minY = core.Clamp(minY, 0, c.height-1)
	maxY = core.Clamp(maxY, 0, c.height-1)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := core.V(float64(x), float64(y))
			if distToSegment(p, a, b) <= halfWidth {
				c.set(x, y, color)
			}
		}
	}
}

// CountColor returns the number of pixels with exactly the given color.
func (c *Canvas) CountColor(color core.Color) int {
	n := 0
	for _, px := range c.pixels {
		if px == color {
			n++
		}
	}
	return n
}

// distToSegment returns the distance from point p to the segment ab.
func distToSegment(p, a, b core.Vec2) float64 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return p.Sub(a).Length()
	}
	t := core.ClampF(p.Sub(a).Dot(ab)/lenSq, 0, 1)
	closest := a.Add(ab.Scale(t))
	return p.Sub(closest).Length()
}
