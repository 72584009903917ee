package polypaint

import (
	"math"

	"github.com/vovakirdan/tui-polypaint/internal/core"
)

// Circle is the bouncing paint brush.
type Circle struct {
	Pos    core.Vec2
	Vel    core.Vec2
	Radius float64
}

// Advance moves the circle by its velocity for one tick.
func (c *Circle) Advance() {
	c.Pos = c.Pos.Add(c.Vel)
}

// ResolveCollisions bounces the circle off every polygon edge it currently
// overlaps. Edges are checked in order with no early exit, so a circle in a
// corner reflects off both walls in the same tick. Each overlapping edge
// reflects the velocity across the edge normal, pushes the circle out of the
// wall, and marks the edge as hit. Returns the number of edges hit.
func ResolveCollisions(c *Circle, p *Polygon) int {
	hits := 0
	for i := range p.Vertices {
		start, end := p.Edge(i)
		edge := end.Sub(start)
		length := edge.Length()
		if length == 0 {
			continue
		}

		// Inward-facing perpendicular for counterclockwise winding.
		normal := edge.Perp().Scale(1 / length)

		// Signed distance from the edge line to the circle center.
		dist := normal.Dot(c.Pos.Sub(start))
		if math.Abs(dist) > c.Radius {
			continue
		}

		c.Vel = c.Vel.Sub(normal.Scale(2 * c.Vel.Dot(normal)))
		c.Pos = c.Pos.Add(normal.Scale(c.Radius - dist))
		p.EdgeStates[i] = EdgeHit
		hits++
	}
	return hits
}
