package polypaint

import "github.com/vovakirdan/tui-polypaint/internal/core"

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick       int
	Mode       string // "classic" or "zen"
	Vertices   []core.Vec2
	EdgeStates []EdgeState
	Rotation   float64
	CirclePos  core.Vec2
	CircleVel  core.Vec2
	Painted    float64
	Coverage   float64
	State      string
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	mode := "classic"
	if g.mode == ModeZen {
		mode = "zen"
	}

	return Snapshot{
		Tick:       g.elapsed,
		Mode:       mode,
		Vertices:   append([]core.Vec2(nil), g.polygon.Vertices...),
		EdgeStates: append([]EdgeState(nil), g.polygon.EdgeStates...),
		Rotation:   g.polygon.Rotation,
		CirclePos:  g.circle.Pos,
		CircleVel:  g.circle.Vel,
		Painted:    g.painted,
		Coverage:   g.coverage,
		State:      g.state,
	}
}
