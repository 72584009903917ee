package polypaint

import (
	"math"
	"testing"

	"github.com/vovakirdan/tui-polypaint/internal/core"
)

// squarePolygon builds a 10x10 axis-aligned square for collision tests.
func squarePolygon() *Polygon {
	return &Polygon{
		Vertices: []core.Vec2{
			core.V(0, 0),
			core.V(10, 0),
			core.V(10, 10),
			core.V(0, 10),
		},
		EdgeStates: make([]EdgeState, 4),
	}
}

func TestCircleAdvance(t *testing.T) {
	c := Circle{Pos: core.V(5, 5), Vel: core.V(2, -1), Radius: 1}
	c.Advance()

	if !vecNear(c.Pos, core.V(7, 4)) {
		t.Errorf("Advance moved circle to %v, expected (7, 4)", c.Pos)
	}
}

func TestResolveCollisionsReflection(t *testing.T) {
	p := squarePolygon()
	// Circle overlapping the bottom edge (y=0), moving into it.
	c := &Circle{Pos: core.V(5, 3), Vel: core.V(0, -2), Radius: 4}

	hits := ResolveCollisions(c, p)
	if hits != 1 {
		t.Fatalf("expected 1 edge hit, got %d", hits)
	}

	// Velocity reflected across the edge normal (0, 1)
	if !vecNear(c.Vel, core.V(0, 2)) {
		t.Errorf("reflected velocity = %v, expected (0, 2)", c.Vel)
	}

	// Circle pushed out so it rests exactly at radius distance
	if !vecNear(c.Pos, core.V(5, 4)) {
		t.Errorf("corrected position = %v, expected (5, 4)", c.Pos)
	}

	if p.EdgeStates[0] != EdgeHit {
		t.Error("bottom edge should be marked hit")
	}
}

func TestResolveCollisionsTangent(t *testing.T) {
	p := squarePolygon()
	// Circle exactly tangent to the bottom edge: distance equals radius.
	c := &Circle{Pos: core.V(5, 4), Vel: core.V(1, -1), Radius: 4}

	hits := ResolveCollisions(c, p)
	if hits != 1 {
		t.Fatalf("tangent contact should count as a collision, got %d hits", hits)
	}

	// Tangent contact needs zero positional correction
	if !vecNear(c.Pos, core.V(5, 4)) {
		t.Errorf("tangent contact moved circle to %v, expected (5, 4)", c.Pos)
	}

	// Reflection still applies
	if !vecNear(c.Vel, core.V(1, 1)) {
		t.Errorf("reflected velocity = %v, expected (1, 1)", c.Vel)
	}
}

func TestResolveCollisionsNoContact(t *testing.T) {
	p := squarePolygon()
	c := &Circle{Pos: core.V(5, 5), Vel: core.V(1, 1), Radius: 2}

	hits := ResolveCollisions(c, p)
	if hits != 0 {
		t.Errorf("expected no hits for interior circle, got %d", hits)
	}
	if !vecNear(c.Vel, core.V(1, 1)) {
		t.Errorf("velocity changed without contact: %v", c.Vel)
	}
	if p.HitCount() != 0 {
		t.Errorf("edges marked without contact: %d", p.HitCount())
	}
}

func TestResolveCollisionsCorner(t *testing.T) {
	p := squarePolygon()
	// Circle overlapping both the bottom and left edges at once.
	c := &Circle{Pos: core.V(1.5, 1.5), Vel: core.V(-1, -1), Radius: 2}

	hits := ResolveCollisions(c, p)
	if hits != 2 {
		t.Fatalf("corner overlap should hit both edges, got %d", hits)
	}

	if p.EdgeStates[0] != EdgeHit {
		t.Error("bottom edge should be marked hit")
	}
	if p.EdgeStates[3] != EdgeHit {
		t.Error("left edge should be marked hit")
	}
}

func TestResolveCollisionsPreservesSpeedOnSingleBounce(t *testing.T) {
	p := squarePolygon()
	c := &Circle{Pos: core.V(5, 2), Vel: core.V(3, -4), Radius: 3}

	speedBefore := c.Vel.Length()
	hits := ResolveCollisions(c, p)
	if hits != 1 {
		t.Fatalf("expected exactly 1 hit, got %d", hits)
	}

	if math.Abs(c.Vel.Length()-speedBefore) > epsilon {
		t.Errorf("single reflection changed speed: %f vs %f", c.Vel.Length(), speedBefore)
	}
}

func TestResolveCollisionsMarksOnlyTouchedEdges(t *testing.T) {
	p := squarePolygon()
	c := &Circle{Pos: core.V(5, 2), Vel: core.V(0, -1), Radius: 3}

	ResolveCollisions(c, p)

	for i, st := range p.EdgeStates {
		if i == 0 && st != EdgeHit {
			t.Error("bottom edge should be hit")
		}
		if i != 0 && st != EdgeClean {
			t.Errorf("edge %d should stay clean", i)
		}
	}
}
