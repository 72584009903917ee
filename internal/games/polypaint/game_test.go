package polypaint

import (
	"math"
	"testing"

	"github.com/vovakirdan/tui-polypaint/internal/core"
)

func testConfig(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     seed,
	}
}

func newTestGame(t *testing.T, seed int64) *Game {
	t.Helper()
	SetConfigPath("")
	SetDifficultyPreset("")

	g := New()
	g.Reset(testConfig(seed))
	return g
}

// paintPixels paints exactly n canvas pixels with the trail color.
func paintPixels(g *Game, n int) {
	w, _ := g.canvas.Size()
	for i := range n {
		g.canvas.set(i%w, i/w, PaintColor)
	}
}

func TestGameDeterminism(t *testing.T) {
	// Given the same seed and inputs, two runs produce identical state.
	inputSequence := make([]core.InputFrame, 60)
	for i := range inputSequence {
		inputSequence[i] = core.NewInputFrame()
		if i%7 == 0 {
			inputSequence[i].Set(core.ActionRotateLeft)
		}
		if i%11 == 0 {
			inputSequence[i].Set(core.ActionRotateRight)
		}
	}

	run := func() Snapshot {
		g := newTestGame(t, 12345)
		for _, in := range inputSequence {
			g.Step(in)
		}
		return g.Snapshot()
	}

	s1 := run()
	s2 := run()

	if s1.Tick != s2.Tick {
		t.Errorf("ticks differ: %d vs %d", s1.Tick, s2.Tick)
	}
	if s1.CirclePos != s2.CirclePos || s1.CircleVel != s2.CircleVel {
		t.Errorf("circle state differs: %v/%v vs %v/%v", s1.CirclePos, s1.CircleVel, s2.CirclePos, s2.CircleVel)
	}
	if s1.Painted != s2.Painted || s1.Coverage != s2.Coverage {
		t.Errorf("coverage differs: %f/%f vs %f/%f", s1.Painted, s1.Coverage, s2.Painted, s2.Coverage)
	}
	for i := range s1.Vertices {
		if s1.Vertices[i] != s2.Vertices[i] {
			t.Errorf("vertex %d differs: %v vs %v", i, s1.Vertices[i], s2.Vertices[i])
		}
	}
}

func TestGameGeneratesHeptagonFromDefaults(t *testing.T) {
	g := newTestGame(t, 42)

	if len(g.polygon.Vertices) != 7 {
		t.Fatalf("default polygon should have 7 vertices, got %d", len(g.polygon.Vertices))
	}

	center := core.V(g.cfg.Polygon.CenterX, g.cfg.Polygon.CenterY)
	for i, v := range g.polygon.Vertices {
		r := v.Sub(center).Length()
		if r < g.cfg.Polygon.MinWidth-epsilon || r > g.cfg.Polygon.MaxWidth+epsilon {
			t.Errorf("vertex %d radius %f outside [%f, %f]", i, r, g.cfg.Polygon.MinWidth, g.cfg.Polygon.MaxWidth)
		}
	}

	if g.polygonArea <= 0 {
		t.Errorf("polygon area should be positive, got %f", g.polygonArea)
	}
}

func TestGameRotationInput(t *testing.T) {
	g := newTestGame(t, 42)

	in := core.NewInputFrame()
	in.Set(core.ActionRotateLeft)
	g.Step(in)

	if math.Abs(g.polygon.Rotation-(-g.cfg.Gameplay.RotateSpeed)) > epsilon {
		t.Errorf("rotation after one left step = %f, expected %f", g.polygon.Rotation, -g.cfg.Gameplay.RotateSpeed)
	}

	in = core.NewInputFrame()
	in.Set(core.ActionRotateRight)
	g.Step(in)
	g.Step(in)

	if math.Abs(g.polygon.Rotation-g.cfg.Gameplay.RotateSpeed) > epsilon {
		t.Errorf("rotation after left+right+right = %f, expected %f", g.polygon.Rotation, g.cfg.Gameplay.RotateSpeed)
	}
}

func TestGamePaintsTrail(t *testing.T) {
	g := newTestGame(t, 42)

	noInput := core.NewInputFrame()
	for range 10 {
		g.Step(noInput)
	}

	if g.canvas.CountColor(PaintColor) == 0 {
		t.Error("moving circle should leave paint on the canvas")
	}
	if g.coverage <= 0 {
		t.Errorf("coverage should be positive after painting, got %f", g.coverage)
	}
	if len(g.trail) != 10 {
		t.Errorf("trail should record one position per tick, got %d", len(g.trail))
	}
}

func TestGameWinAtExactThreshold(t *testing.T) {
	g := newTestGame(t, 42)

	// 9000 of 10000 is exactly the 90% default threshold; the boundary
	// is inclusive.
	paintPixels(g, 9000)
	g.polygonArea = 10000

	result := g.Step(core.NewInputFrame())

	if !result.State.Won {
		t.Errorf("coverage %f at threshold %f should win", g.coverage, g.cfg.Gameplay.WinPercent)
	}
	if !result.State.GameOver {
		t.Error("winning should end the run")
	}
}

func TestGameNoWinBelowThreshold(t *testing.T) {
	g := newTestGame(t, 42)

	paintPixels(g, 8999)
	g.polygonArea = 10000

	result := g.Step(core.NewInputFrame())

	if result.State.Won {
		t.Errorf("coverage %f below threshold should not win", g.coverage)
	}
}

func TestGameStopsSimulatingAfterWin(t *testing.T) {
	g := newTestGame(t, 42)

	paintPixels(g, 9500)
	g.polygonArea = 10000
	g.Step(core.NewInputFrame())

	if g.state != StateWon {
		t.Fatal("game should be won")
	}

	elapsed := g.elapsed
	trailLen := len(g.trail)

	g.Step(core.NewInputFrame())

	if g.elapsed != elapsed {
		t.Error("timer should stop after winning")
	}
	if len(g.trail) != trailLen {
		t.Error("trail should stop growing after winning")
	}
}

func TestGameFullRunToWin(t *testing.T) {
	// Drive a default game (heptagon, widths in [150, 250], center
	// (400, 300)) to a real win: no canvas poking, just ticks and
	// occasional rotation so the circle sweeps the whole interior.
	g := newTestGame(t, 424242)

	rotate := core.NewInputFrame()
	rotate.Set(core.ActionRotateRight)
	noInput := core.NewInputFrame()

	const maxTicks = 20000
	wonAt := -1
	for tick := range maxTicks {
		in := noInput
		if tick%3 == 0 {
			in = rotate
		}
		if g.Step(in).State.Won {
			wonAt = tick
			break
		}
	}
	if wonAt < 0 {
		t.Fatalf("game not won within %d ticks, coverage %.2f%%", maxTicks, g.coverage)
	}
	if g.coverage < g.cfg.Gameplay.WinPercent {
		t.Errorf("won with coverage %.2f%% below threshold %.2f%%", g.coverage, g.cfg.Gameplay.WinPercent)
	}

	// The win is terminal: the flag holds and the clock stays stopped.
	elapsed := g.elapsed
	for range 10 {
		state := g.Step(noInput).State
		if !state.Won || !state.GameOver {
			t.Fatal("win should persist on subsequent steps")
		}
	}
	if g.elapsed != elapsed {
		t.Errorf("timer advanced after winning: %d -> %d", elapsed, g.elapsed)
	}
}

func TestGameClassicResetOnlyAfterWin(t *testing.T) {
	g := newTestGame(t, 42)

	resetInput := core.NewInputFrame()
	resetInput.Set(core.ActionReset)

	// Mid-run reset is ignored in classic mode
	g.Step(core.NewInputFrame())
	g.Step(resetInput)
	if g.elapsed != 2 {
		t.Errorf("mid-run reset should be ignored, elapsed = %d", g.elapsed)
	}

	// Force a win, then reset works
	paintPixels(g, 9500)
	g.polygonArea = 10000
	g.Step(core.NewInputFrame())
	if g.state != StateWon {
		t.Fatal("game should be won")
	}

	g.Step(resetInput)

	if g.state != StatePlaying {
		t.Error("reset after win should start a new run")
	}
	if g.elapsed != 0 {
		t.Errorf("reset should clear the timer, got %d", g.elapsed)
	}
	if g.coverage != 0 {
		t.Errorf("reset should clear coverage, got %f", g.coverage)
	}
	if g.canvas.CountColor(PaintColor) != 0 {
		t.Error("reset should clear the canvas")
	}
	if len(g.trail) != 0 {
		t.Error("reset should clear the trail")
	}
}

func TestGameZenResetAnytime(t *testing.T) {
	SetConfigPath("")
	SetDifficultyPreset("")

	g := NewZen()
	g.Reset(testConfig(42))

	noInput := core.NewInputFrame()
	for range 5 {
		g.Step(noInput)
	}

	verticesBefore := append([]core.Vec2(nil), g.polygon.Vertices...)

	resetInput := core.NewInputFrame()
	resetInput.Set(core.ActionReset)
	g.Step(resetInput)

	if g.elapsed != 0 {
		t.Errorf("zen reset should clear the timer mid-run, got %d", g.elapsed)
	}

	// A reset rolls a fresh polygon from the RNG stream
	same := true
	for i, v := range g.polygon.Vertices {
		if v != verticesBefore[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("reset should generate a new random polygon")
	}
}

func TestGamePause(t *testing.T) {
	g := newTestGame(t, 42)

	pauseInput := core.NewInputFrame()
	pauseInput.Set(core.ActionPause)

	g.Step(pauseInput)
	if g.state != StatePaused {
		t.Error("game should be paused")
	}

	posBefore := g.circle.Pos
	elapsedBefore := g.elapsed

	g.Step(core.NewInputFrame())

	if g.circle.Pos != posBefore {
		t.Error("circle should not move while paused")
	}
	if g.elapsed != elapsedBefore {
		t.Error("timer should not advance while paused")
	}

	g.Step(pauseInput)
	if g.state != StatePlaying {
		t.Error("game should be unpaused")
	}
}

func TestGameStateMapping(t *testing.T) {
	g := newTestGame(t, 42)

	noInput := core.NewInputFrame()
	for range 3 {
		g.Step(noInput)
	}

	state := g.State()
	if state.Score != 3 {
		t.Errorf("Score should report elapsed ticks, got %d", state.Score)
	}
	if state.Coverage != g.coverage {
		t.Errorf("Coverage mismatch: %f vs %f", state.Coverage, g.coverage)
	}
	if state.Won || state.GameOver || state.Paused {
		t.Error("fresh run should not be won, over, or paused")
	}
}

func TestGameRender(t *testing.T) {
	g := newTestGame(t, 42)

	noInput := core.NewInputFrame()
	for range 5 {
		g.Step(noInput)
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)

	str := screen.String()
	hasContent := false
	for _, ch := range str {
		if ch != ' ' && ch != '\n' {
			hasContent = true
			break
		}
	}
	if !hasContent {
		t.Error("Render should draw something to the screen")
	}

	// Polygon edges are on screen
	foundEdge := false
	for y := range screen.Height() {
		for x := range screen.Width() {
			if screen.Get(x, y) == EdgeChar {
				foundEdge = true
			}
		}
	}
	if !foundEdge {
		t.Error("Render should draw the polygon outline")
	}
}

func TestGameRenderTooSmall(t *testing.T) {
	g := newTestGame(t, 42)

	screen := core.NewScreen(8, 4)
	g.Render(screen) // must not panic
}

func TestGameIDs(t *testing.T) {
	if id := New().ID(); id != "polypaint" {
		t.Errorf("classic ID = %q", id)
	}
	if id := NewZen().ID(); id != "polypaint_zen" {
		t.Errorf("zen ID = %q", id)
	}
}
