package polypaint

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/tui-polypaint/internal/config"
	"github.com/vovakirdan/tui-polypaint/internal/core"
	"github.com/vovakirdan/tui-polypaint/internal/registry"
)

// Visual characters for rendering
const (
	CircleChar = '●'
	PaintChar  = '▒'
	EdgeChar   = '█'
)

// PaintColor is the trail color. Coverage counts pixels of exactly this color.
const PaintColor = core.ColorYellow

// GameState constants
const (
	StatePlaying = "playing" // Circle bouncing, paint flowing
	StatePaused  = "paused"  // Game paused
	StateWon     = "won"     // Coverage threshold reached
)

// GameMode represents the game mode.
type GameMode int

const (
	ModeClassic GameMode = iota // Reset only after winning, completion time persisted
	ModeZen                     // Reset anytime, rotation speeds up over time
)

// HUD layout: two rows above the playfield.
const hudRows = 2

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	switch preset {
	case "easy":
		difficultyPreset = config.DifficultyEasy
	case "normal":
		difficultyPreset = config.DifficultyNormal
	case "hard":
		difficultyPreset = config.DifficultyHard
	case "fixed":
		difficultyPreset = config.DifficultyFixed
	default:
		difficultyPreset = ""
	}
}

// Game implements the polygon-painting game logic.
type Game struct {
	// Game mode
	mode GameMode

	// Simulation objects
	polygon *Polygon
	circle  Circle
	canvas  *Canvas
	trail   []core.Vec2

	// Coverage tracking
	polygonArea float64
	painted     float64
	coverage    float64

	// Game state
	state   string
	elapsed int // ticks since the run started
	rng     *rand.Rand

	// Configuration
	runtime    core.RuntimeConfig
	cfg        config.PolypaintConfig
	difficulty *config.DifficultyManager
}

// New creates a new polypaint game instance (classic mode).
func New() *Game {
	return &Game{mode: ModeClassic}
}

// NewZen creates a new polypaint game instance in zen mode.
func NewZen() *Game {
	return &Game{mode: ModeZen}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	if g.mode == ModeZen {
		return "polypaint_zen"
	}
	return "polypaint"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.mode == ModeZen {
		return "Polypaint (Zen)"
	}
	return "Polypaint"
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime

	// Load game config
	cfg, err := config.LoadPolypaint(configPath)
	if err != nil {
		cfg = config.DefaultPolypaintConfig()
	}

	// Apply difficulty preset if set
	if difficultyPreset != "" {
		config.ApplyPolypaintPreset(&cfg, difficultyPreset)
	}

	g.cfg = cfg

	// Initialize difficulty manager
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)

	// Seeded RNG so fixed seeds reproduce the same polygon sequence
	g.rng = rand.New(rand.NewSource(runtime.Seed))

	g.canvas = NewCanvas(cfg.World.Width, cfg.World.Height)

	g.restart()
}

// restart begins a fresh run: new random polygon, clean canvas, circle back
// at its start position. The RNG stream is kept so consecutive runs with a
// fixed seed remain reproducible.
func (g *Game) restart() {
	cfg := g.cfg
	center := core.V(cfg.Polygon.CenterX, cfg.Polygon.CenterY)

	polygon, err := g.generatePolygon(center)
	if err != nil {
		// Invalid polygon settings; fall back to known-good defaults.
		g.cfg = config.DefaultPolypaintConfig()
		cfg = g.cfg
		center = core.V(cfg.Polygon.CenterX, cfg.Polygon.CenterY)
		polygon, _ = g.generatePolygon(center)
	}
	g.polygon = polygon
	g.polygonArea = PolygonArea(g.polygon)

	g.circle = Circle{
		Pos:    core.V(cfg.Circle.StartX, cfg.Circle.StartY),
		Vel:    core.V(cfg.Circle.VelocityX, cfg.Circle.VelocityY),
		Radius: cfg.Circle.Radius,
	}

	g.canvas.Clear()
	g.trail = g.trail[:0]
	g.painted = 0
	g.coverage = 0
	g.elapsed = 0
	g.state = StatePlaying
}

// generatePolygon rolls fresh edge widths and builds the polygon.
func (g *Game) generatePolygon(center core.Vec2) (*Polygon, error) {
	widths, err := GenerateEdgeWidths(g.rng, g.cfg.Polygon.Sides, g.cfg.Polygon.MinWidth, g.cfg.Polygon.MaxWidth)
	if err != nil {
		return nil, err
	}
	return GeneratePolygon(g.cfg.Polygon.Sides, widths, center)
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	// Handle restart: classic mode only after a win, zen mode anytime
	if in.Has(core.ActionReset) && (g.mode == ModeZen || g.state == StateWon) {
		g.restart()
		return core.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if in.Has(core.ActionPause) {
		if g.state == StatePaused {
			g.state = StatePlaying
		} else if g.state == StatePlaying {
			g.state = StatePaused
		}
	}

	// Don't simulate if paused or already won
	if g.state != StatePlaying {
		return core.StepResult{State: g.State()}
	}

	g.elapsed++

	// Record the pre-move position; the trail segment between the last two
	// recorded positions is what gets painted this tick.
	g.trail = append(g.trail, g.circle.Pos)

	// Handle polygon rotation
	speed := g.rotateSpeed()
	if in.Has(core.ActionRotateLeft) {
		g.polygon.Rotate(-speed)
	}
	if in.Has(core.ActionRotateRight) {
		g.polygon.Rotate(speed)
	}

	// Move and bounce
	g.circle.Advance()
	ResolveCollisions(&g.circle, g.polygon)

	// Paint the newest trail segment at brush width
	if n := len(g.trail); n >= 2 {
		g.canvas.StrokeSegment(g.trail[n-2], g.trail[n-1], g.circle.Radius, PaintColor)
	}

	// Recompute coverage and check the win condition
	g.painted = PaintedArea(g.canvas, PaintColor)
	g.coverage = CoveragePercent(g.painted, g.polygonArea)
	if g.coverage >= g.cfg.Gameplay.WinPercent {
		g.state = StateWon
	}

	return core.StepResult{State: g.State()}
}

// rotateSpeed returns the per-tick rotation step. Zen mode ramps it up
// over time via the difficulty manager; classic mode keeps it fixed.
func (g *Game) rotateSpeed() float64 {
	base := g.cfg.Gameplay.RotateSpeed
	if g.mode == ModeZen {
		return g.difficulty.RotateSpeed(base, g.elapsed)
	}
	return base
}

// Coverage returns the current painted coverage in percent.
func (g *Game) Coverage() float64 {
	return g.coverage
}

// Polygon returns the current playfield polygon.
func (g *Game) Polygon() *Polygon {
	return g.polygon
}

// Circle returns the current brush circle.
func (g *Game) Circle() Circle {
	return g.circle
}

// Canvas returns the paint raster.
func (g *Game) Canvas() *Canvas {
	return g.canvas
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	viewH := dst.Height() - hudRows
	if dst.Width() < 10 || viewH < 5 {
		dst.DrawTextCentered(dst.Height()/2, "Window too small")
		return
	}

	// World-to-cell scale factors
	scaleX := float64(g.cfg.World.Width) / float64(dst.Width())
	scaleY := float64(g.cfg.World.Height) / float64(viewH)

	g.renderHUD(dst)
	g.renderCanvas(dst, scaleX, scaleY)
	g.renderPolygon(dst, scaleX, scaleY)
	g.renderCircle(dst, scaleX, scaleY)
	g.renderOverlay(dst)
}

// renderHUD draws coverage, timer, and hints.
func (g *Game) renderHUD(dst *core.Screen) {
	coverageText := fmt.Sprintf("Coverage: %5.1f%% / %.0f%%", g.coverage, g.cfg.Gameplay.WinPercent)
	dst.DrawText(1, 0, coverageText)

	secs := g.elapsed / max(1, g.runtime.TickRate)
	timeText := fmt.Sprintf("Time: %02d:%02d", secs/60, secs%60)
	dst.DrawText(dst.Width()-len(timeText)-1, 0, timeText)

	hint := "A/D rotate  P pause"
	if g.mode == ModeZen {
		hint += "  R new polygon"
	}
	dst.DrawTextCentered(0, hint)

	// Separator above the playfield
	for x := range dst.Width() {
		dst.Set(x, 1, '─')
	}
}

// renderCanvas downsamples the paint raster into screen cells. A cell shows
// paint when the world pixel at its center is painted.
func (g *Game) renderCanvas(dst *core.Screen, scaleX, scaleY float64) {
	viewH := dst.Height() - hudRows
	for cy := range viewH {
		for cx := range dst.Width() {
			px := int((float64(cx) + 0.5) * scaleX)
			py := int((float64(cy) + 0.5) * scaleY)
			if g.canvas.At(px, py) == PaintColor {
				dst.SetColored(cx, cy+hudRows, PaintChar, PaintColor)
			}
		}
	}
}

// renderPolygon draws the polygon outline. Edges the circle has bounced off
// are drawn red, untouched edges white.
func (g *Game) renderPolygon(dst *core.Screen, scaleX, scaleY float64) {
	for i := range g.polygon.Vertices {
		start, end := g.polygon.Edge(i)
		color := core.ColorWhite
		if g.polygon.EdgeStates[i] == EdgeHit {
			color = core.ColorRed
		}
		x0 := int(start.X / scaleX)
		y0 := hudRows + int(start.Y/scaleY)
		x1 := int(end.X / scaleX)
		y1 := hudRows + int(end.Y/scaleY)
		dst.DrawLine(x0, y0, x1, y1, EdgeChar, color)
	}
}

// renderCircle draws the brush circle.
func (g *Game) renderCircle(dst *core.Screen, scaleX, scaleY float64) {
	cx := int(g.circle.Pos.X / scaleX)
	cy := hudRows + int(g.circle.Pos.Y/scaleY)
	dst.SetColored(cx, cy, CircleChar, core.ColorBrightWhite)
}

// renderOverlay draws game state messages.
func (g *Game) renderOverlay(dst *core.Screen) {
	switch g.state {
	case StatePaused:
		g.drawCenteredBox(dst, "PAUSED", "Press P to resume")

	case StateWon:
		secs := g.elapsed / max(1, g.runtime.TickRate)
		subtitle := fmt.Sprintf("Time: %02d:%02d  |  Press R for a new polygon", secs/60, secs%60)
		g.drawCenteredBox(dst, "POLYGON PAINTED!", subtitle)
	}
}

// drawCenteredBox draws a centered message box.
func (g *Game) drawCenteredBox(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	// Draw box background
	dst.FillRect(boxX, boxY, boxW, boxH, ' ')
	dst.DrawBox(boxX, boxY, boxW, boxH)

	// Draw text
	titleX := boxX + (boxW-len(title))/2
	dst.DrawText(titleX, boxY+1, title)

	subtitleX := boxX + (boxW-len(subtitle))/2
	dst.DrawText(subtitleX, boxY+3, subtitle)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.elapsed,
		Coverage: g.coverage,
		Won:      g.state == StateWon,
		GameOver: g.state == StateWon,
		Paused:   g.state == StatePaused,
	}
}

// Register the game modes with the registry
func init() {
	registry.Register("polypaint", func() registry.Game {
		return New()
	})
	registry.Register("polypaint_zen", func() registry.Game {
		return NewZen()
	})
}
