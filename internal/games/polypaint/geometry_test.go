package polypaint

import (
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-polypaint/internal/core"
)

const epsilon = 1e-9

func vecNear(a, b core.Vec2) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon
}

func TestGenerateEdgeWidthsBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	widths, err := GenerateEdgeWidths(rng, 7, 150, 250)
	if err != nil {
		t.Fatalf("GenerateEdgeWidths failed: %v", err)
	}

	if len(widths) != 7 {
		t.Fatalf("expected 7 widths, got %d", len(widths))
	}
	for i, w := range widths {
		if w < 150 || w > 250 {
			t.Errorf("width %d = %f, expected within [150, 250]", i, w)
		}
	}
}

func TestGenerateEdgeWidthsInvalidRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	_, err := GenerateEdgeWidths(rng, 5, 250, 150)
	if err == nil {
		t.Error("expected error when min width exceeds max width")
	}
}

func TestGenerateEdgeWidthsDegenerateRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	// min == max is valid: every width equals that value
	widths, err := GenerateEdgeWidths(rng, 4, 100, 100)
	if err != nil {
		t.Fatalf("GenerateEdgeWidths failed: %v", err)
	}
	for i, w := range widths {
		if w != 100 {
			t.Errorf("width %d = %f, expected exactly 100", i, w)
		}
	}
}

func TestGenerateEdgeWidthsDeterminism(t *testing.T) {
	w1, err := GenerateEdgeWidths(rand.New(rand.NewSource(7)), 7, 150, 250)
	if err != nil {
		t.Fatalf("GenerateEdgeWidths failed: %v", err)
	}
	w2, err := GenerateEdgeWidths(rand.New(rand.NewSource(7)), 7, 150, 250)
	if err != nil {
		t.Fatalf("GenerateEdgeWidths failed: %v", err)
	}

	for i := range w1 {
		if w1[i] != w2[i] {
			t.Errorf("same seed produced different widths at %d: %f vs %f", i, w1[i], w2[i])
		}
	}
}

func TestGeneratePolygon(t *testing.T) {
	center := core.V(400, 300)
	widths := []float64{150, 200, 250, 180, 160, 220, 190}

	p, err := GeneratePolygon(7, widths, center)
	if err != nil {
		t.Fatalf("GeneratePolygon failed: %v", err)
	}

	if len(p.Vertices) != 7 {
		t.Fatalf("expected 7 vertices, got %d", len(p.Vertices))
	}
	if p.Rotation != 0 {
		t.Errorf("new polygon rotation = %f, expected 0", p.Rotation)
	}

	// Each vertex sits at its width's radial distance from center,
	// at evenly spaced angles.
	step := 2 * math.Pi / 7
	for i, v := range p.Vertices {
		r := v.Sub(center).Length()
		if math.Abs(r-widths[i]) > epsilon {
			t.Errorf("vertex %d radius = %f, expected %f", i, r, widths[i])
		}
		angle := math.Atan2(v.Y-center.Y, v.X-center.X)
		expected := math.Mod(float64(i)*step+math.Pi, 2*math.Pi) - math.Pi
		if math.Abs(angle-expected) > 1e-6 {
			t.Errorf("vertex %d angle = %f, expected %f", i, angle, expected)
		}
	}

	// All edges start clean
	for i, st := range p.EdgeStates {
		if st != EdgeClean {
			t.Errorf("edge %d state = %v, expected clean", i, st)
		}
	}
}

func TestGeneratePolygonWidthCountMismatch(t *testing.T) {
	_, err := GeneratePolygon(7, []float64{150, 200, 250}, core.V(400, 300))
	if err == nil {
		t.Error("expected error when width count does not match sides")
	}
}

func TestCentroid(t *testing.T) {
	p := &Polygon{
		Vertices: []core.Vec2{
			core.V(0, 0),
			core.V(10, 0),
			core.V(10, 10),
			core.V(0, 10),
		},
		EdgeStates: make([]EdgeState, 4),
	}

	c := p.Centroid()
	if !vecNear(c, core.V(5, 5)) {
		t.Errorf("Centroid = %v, expected (5, 5)", c)
	}
}

func TestRotateAccumulates(t *testing.T) {
	p, err := GeneratePolygon(5, []float64{100, 100, 100, 100, 100}, core.V(0, 0))
	if err != nil {
		t.Fatalf("GeneratePolygon failed: %v", err)
	}

	p.Rotate(0.05)
	p.Rotate(0.05)
	p.Rotate(-0.02)

	if math.Abs(p.Rotation-0.08) > epsilon {
		t.Errorf("accumulated rotation = %f, expected 0.08", p.Rotation)
	}
}

func TestRotatePreservesShape(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	widths, _ := GenerateEdgeWidths(rng, 7, 150, 250)
	p, err := GeneratePolygon(7, widths, core.V(400, 300))
	if err != nil {
		t.Fatalf("GeneratePolygon failed: %v", err)
	}

	areaBefore := PolygonArea(p)
	centroidBefore := p.Centroid()

	p.Rotate(1.234)

	if math.Abs(PolygonArea(p)-areaBefore) > 1e-6 {
		t.Errorf("rotation changed area: %f vs %f", PolygonArea(p), areaBefore)
	}
	if !vecNear(p.Centroid(), centroidBefore) {
		t.Errorf("rotation moved centroid: %v vs %v", p.Centroid(), centroidBefore)
	}
}

func TestRotateRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	widths, _ := GenerateEdgeWidths(rng, 6, 100, 200)
	p, err := GeneratePolygon(6, widths, core.V(400, 300))
	if err != nil {
		t.Fatalf("GeneratePolygon failed: %v", err)
	}

	original := append([]core.Vec2(nil), p.Vertices...)

	p.Rotate(0.7)
	p.Rotate(-0.7)

	for i, v := range p.Vertices {
		if math.Abs(v.X-original[i].X) > 1e-6 || math.Abs(v.Y-original[i].Y) > 1e-6 {
			t.Errorf("vertex %d did not return after rotate/unrotate: %v vs %v", i, v, original[i])
		}
	}
}

func TestHitCount(t *testing.T) {
	p, _ := GeneratePolygon(4, []float64{10, 10, 10, 10}, core.V(0, 0))

	if p.HitCount() != 0 {
		t.Errorf("fresh polygon HitCount = %d, expected 0", p.HitCount())
	}

	p.EdgeStates[1] = EdgeHit
	p.EdgeStates[3] = EdgeHit

	if p.HitCount() != 2 {
		t.Errorf("HitCount = %d, expected 2", p.HitCount())
	}
}
