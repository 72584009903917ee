package polypaint

import (
	"github.com/vovakirdan/tui-polypaint/internal/core"
	"github.com/vovakirdan/tui-polypaint/internal/multiplayer"
)

// RaceGame is the online head-to-head mode: both players get an identical
// polygon (same seed) and race to reach the coverage threshold first. Each
// player runs an independent simulation; only the rotation inputs differ.
type RaceGame struct {
	sims   [2]*Game // index 0 = Player1, index 1 = Player2
	tick   int
	over   bool
	winner multiplayer.PlayerID
}

// NewRaceGame creates an online race between two classic-mode simulations.
func NewRaceGame() *RaceGame {
	return &RaceGame{
		sims: [2]*Game{New(), New()},
	}
}

// Reset initializes both simulations with the same runtime config. The shared
// seed guarantees both players paint the same polygon.
func (r *RaceGame) Reset(cfg core.RuntimeConfig) {
	for _, sim := range r.sims {
		sim.Reset(cfg)
	}
	r.tick = 0
	r.over = false
	r.winner = 0
}

// StepMulti advances both simulations by one tick. Pause and reset are
// disabled in races; only rotation inputs pass through.
func (r *RaceGame) StepMulti(input core.MultiInputFrame) core.StepResult {
	if r.over {
		return core.StepResult{State: r.sims[0].State()}
	}

	r.tick++
	states := [2]core.GameState{}
	for i, sim := range r.sims {
		in := raceInput(input.Player(core.PlayerID(i + 1)))
		res := sim.Step(in)
		states[i] = res.State
	}

	// First to the threshold wins. If both cross on the same tick, the
	// higher coverage takes it; exact ties go to Player1.
	switch {
	case states[0].Won && states[1].Won:
		r.over = true
		if states[1].Coverage > states[0].Coverage {
			r.winner = multiplayer.Player2
		} else {
			r.winner = multiplayer.Player1
		}
	case states[0].Won:
		r.over = true
		r.winner = multiplayer.Player1
	case states[1].Won:
		r.over = true
		r.winner = multiplayer.Player2
	}

	return core.StepResult{State: states[0]}
}

// raceInput strips actions that would let a player freeze or regenerate
// their own simulation mid-race.
func raceInput(in core.InputFrame) core.InputFrame {
	out := core.NewInputFrame()
	if in.Has(core.ActionRotateLeft) {
		out.Set(core.ActionRotateLeft)
	}
	if in.Has(core.ActionRotateRight) {
		out.Set(core.ActionRotateRight)
	}
	return out
}

// IsGameOver returns true once either player has painted enough.
func (r *RaceGame) IsGameOver() bool {
	return r.over
}

// Winner returns the winning player, or 0 while the race is running.
func (r *RaceGame) Winner() multiplayer.PlayerID {
	return r.winner
}

// Score1 returns Player 1's coverage in hundredths of a percent.
func (r *RaceGame) Score1() int {
	return int(r.sims[0].Coverage() * 100)
}

// Score2 returns Player 2's coverage in hundredths of a percent.
func (r *RaceGame) Score2() int {
	return int(r.sims[1].Coverage() * 100)
}

// RacePlayerView is one player's visible state within a race snapshot.
type RacePlayerView struct {
	Vertices   []core.Vec2
	EdgeStates []EdgeState
	CirclePos  core.Vec2
	Coverage   float64
	Won        bool
}

// RaceSnapshot contains both players' state for network transmission.
type RaceSnapshot struct {
	Tick       int
	WinPercent float64
	Players    [2]RacePlayerView
	GameOver   bool
	Winner     int // 0=none, 1=Player1, 2=Player2
}

// IsGameSnapshot implements the GameSnapshot interface marker.
func (RaceSnapshot) IsGameSnapshot() {}

// Ensure RaceSnapshot implements multiplayer.GameSnapshot
var _ multiplayer.GameSnapshot = RaceSnapshot{}

// Ensure RaceGame implements multiplayer.OnlineGame
var _ multiplayer.OnlineGame = (*RaceGame)(nil)

// Snapshot returns the current race state for broadcast to both sessions.
func (r *RaceGame) Snapshot() multiplayer.GameSnapshot {
	snap := RaceSnapshot{
		Tick:       r.tick,
		WinPercent: r.sims[0].cfg.Gameplay.WinPercent,
		GameOver:   r.over,
		Winner:     int(r.winner),
	}
	for i, sim := range r.sims {
		s := sim.Snapshot()
		snap.Players[i] = RacePlayerView{
			Vertices:   s.Vertices,
			EdgeStates: s.EdgeStates,
			CirclePos:  s.CirclePos,
			Coverage:   s.Coverage,
			Won:        s.State == StateWon,
		}
	}
	return snap
}
