// Package polypaint implements a physics toy: a circle bounces inside a
// random polygon, leaving a paint trail. The goal is to cover the polygon's
// interior with paint by steering the polygon's rotation.
package polypaint

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/vovakirdan/tui-polypaint/internal/core"
)

// EdgeState tracks whether the circle has ever bounced off an edge.
type EdgeState uint8

const (
	// EdgeClean marks an edge the circle has not touched yet.
	EdgeClean EdgeState = iota
	// EdgeHit marks an edge the circle has bounced off at least once.
	EdgeHit
)

// Polygon is the playfield: a closed shape whose vertices sit at per-vertex
// radial distances from a generation center. Edge i connects vertex i to
// vertex (i+1) mod len(Vertices).
type Polygon struct {
	Vertices   []core.Vec2
	EdgeStates []EdgeState
	EdgeWidths []float64
	Rotation   float64 // accumulated rotation in radians
}

// GenerateEdgeWidths produces one uniform random radial width per side,
// each in [minWidth, maxWidth]. The RNG is injected so callers control
// determinism (fixed seeds reproduce the same polygon).
func GenerateEdgeWidths(rng *rand.Rand, sides int, minWidth, maxWidth float64) ([]float64, error) {
	if minWidth > maxWidth {
		return nil, fmt.Errorf("polypaint: min width %.2f exceeds max width %.2f", minWidth, maxWidth)
	}

	widths := make([]float64, sides)
	for i := range widths {
		// rand.Float64 is [0, 1), so maxWidth itself is never drawn; the
		// gap has measure zero and is not worth a rejection loop.
		widths[i] = minWidth + rng.Float64()*(maxWidth-minWidth)
	}
	return widths, nil
}

// GeneratePolygon builds a polygon around center. Vertex i sits at angle
// i*2π/sides, at radial distance edgeWidths[i]. All edges start clean and
// the accumulated rotation starts at zero.
func GeneratePolygon(sides int, edgeWidths []float64, center core.Vec2) (*Polygon, error) {
	if len(edgeWidths) != sides {
		return nil, fmt.Errorf("polypaint: got %d edge widths for %d sides", len(edgeWidths), sides)
	}

	p := &Polygon{
		Vertices:   make([]core.Vec2, sides),
		EdgeStates: make([]EdgeState, sides),
		EdgeWidths: append([]float64(nil), edgeWidths...),
	}

	step := 2 * math.Pi / float64(sides)
	for i := range p.Vertices {
		angle := float64(i) * step
		p.Vertices[i] = center.Add(core.V(math.Cos(angle), math.Sin(angle)).Scale(edgeWidths[i]))
	}
	return p, nil
}

// Centroid returns the arithmetic mean of the vertices. It is recomputed on
// every call so it tracks the polygon through rotations.
func (p *Polygon) Centroid() core.Vec2 {
	var sum core.Vec2
	for _, v := range p.Vertices {
		sum = sum.Add(v)
	}
	return sum.Scale(1 / float64(len(p.Vertices)))
}

// Rotate rigidly rotates every vertex by angle radians about the centroid
// and accumulates the angle into Rotation. Edge states are untouched.
func (p *Polygon) Rotate(angle float64) {
	c := p.Centroid()
	for i, v := range p.Vertices {
		p.Vertices[i] = c.Add(v.Sub(c).Rotated(angle))
	}
	p.Rotation += angle
}

// Edge returns the endpoints of edge i (vertex i to vertex i+1, wrapping).
func (p *Polygon) Edge(i int) (core.Vec2, core.Vec2) {
	return p.Vertices[i], p.Vertices[(i+1)%len(p.Vertices)]
}

// HitCount returns how many edges have been bounced off so far.
func (p *Polygon) HitCount() int {
	n := 0
	for _, st := range p.EdgeStates {
		if st == EdgeHit {
			n++
		}
	}
	return n
}
