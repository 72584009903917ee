package polypaint

import (
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-polypaint/internal/core"
)

// fakeRaster is a synthetic PixelSampler for area tests.
type fakeRaster struct {
	w, h   int
	pixels map[[2]int]core.Color
}

func (f *fakeRaster) Size() (int, int) { return f.w, f.h }

func (f *fakeRaster) At(x, y int) core.Color {
	return f.pixels[[2]int{x, y}]
}

func TestPolygonAreaSquare(t *testing.T) {
	p := squarePolygon()

	area := PolygonArea(p)
	if math.Abs(area-100) > epsilon {
		t.Errorf("square area = %f, expected 100", area)
	}
}

func TestPolygonAreaWindingIndependent(t *testing.T) {
	// Same square with reversed winding
	p := &Polygon{
		Vertices: []core.Vec2{
			core.V(0, 10),
			core.V(10, 10),
			core.V(10, 0),
			core.V(0, 0),
		},
		EdgeStates: make([]EdgeState, 4),
	}

	area := PolygonArea(p)
	if math.Abs(area-100) > epsilon {
		t.Errorf("reversed winding area = %f, expected 100", area)
	}
}

func TestPolygonAreaTriangle(t *testing.T) {
	p := &Polygon{
		Vertices: []core.Vec2{
			core.V(0, 0),
			core.V(10, 0),
			core.V(0, 10),
		},
		EdgeStates: make([]EdgeState, 3),
	}

	area := PolygonArea(p)
	if math.Abs(area-50) > epsilon {
		t.Errorf("triangle area = %f, expected 50", area)
	}
}

func TestPolygonAreaInvariantUnderRotation(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	widths, _ := GenerateEdgeWidths(rng, 7, 150, 250)
	p, err := GeneratePolygon(7, widths, core.V(400, 300))
	if err != nil {
		t.Fatalf("GeneratePolygon failed: %v", err)
	}

	before := PolygonArea(p)
	for range 20 {
		p.Rotate(0.05)
	}
	after := PolygonArea(p)

	if math.Abs(before-after) > 1e-6 {
		t.Errorf("area drifted under rotation: %f vs %f", before, after)
	}
}

func TestPaintedAreaCountsExactMatches(t *testing.T) {
	raster := &fakeRaster{
		w: 10,
		h: 10,
		pixels: map[[2]int]core.Color{
			{1, 1}: core.ColorYellow,
			{2, 2}: core.ColorYellow,
			{3, 3}: core.ColorYellow,
			{4, 4}: core.ColorRed, // wrong color, not counted
		},
	}

	painted := PaintedArea(raster, core.ColorYellow)
	if painted != 3 {
		t.Errorf("PaintedArea = %f, expected 3", painted)
	}
}

func TestPaintedAreaEmptyRaster(t *testing.T) {
	raster := &fakeRaster{w: 10, h: 10, pixels: map[[2]int]core.Color{}}

	if painted := PaintedArea(raster, core.ColorYellow); painted != 0 {
		t.Errorf("PaintedArea of empty raster = %f, expected 0", painted)
	}
}

func TestCoveragePercent(t *testing.T) {
	tests := []struct {
		painted, area, expected float64
	}{
		{50, 200, 25},
		{200, 200, 100},
		{0, 100, 0},
		{9000, 10000, 90},
	}

	for _, tc := range tests {
		got := CoveragePercent(tc.painted, tc.area)
		if math.Abs(got-tc.expected) > epsilon {
			t.Errorf("CoveragePercent(%f, %f) = %f, expected %f", tc.painted, tc.area, got, tc.expected)
		}
	}
}

func TestCoverageMonotonicUnderPainting(t *testing.T) {
	canvas := NewCanvas(100, 100)
	area := 5000.0

	prev := 0.0
	// Paint growing strokes; coverage must never decrease.
	for i := 1; i <= 5; i++ {
		canvas.StrokeSegment(core.V(10, float64(i*15)), core.V(90, float64(i*15)), 5, PaintColor)
		cov := CoveragePercent(PaintedArea(canvas, PaintColor), area)
		if cov < prev {
			t.Errorf("coverage decreased after painting: %f -> %f", prev, cov)
		}
		prev = cov
	}
}
