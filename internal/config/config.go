// Package config provides YAML-based game configuration loading and
// difficulty management for the polypaint platform.
package config

// PolypaintConfig contains all configuration for the polygon-painting game.
type PolypaintConfig struct {
	World      WorldConfig      `yaml:"world"`
	Polygon    PolygonConfig    `yaml:"polygon"`
	Circle     CircleConfig     `yaml:"circle"`
	Gameplay   GameplayConfig   `yaml:"gameplay"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// WorldConfig defines the simulation space in world pixels. The paint
// canvas is allocated at exactly this resolution.
type WorldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PolygonConfig defines how the random playfield polygon is generated.
type PolygonConfig struct {
	Sides    int     `yaml:"sides"`
	MinWidth float64 `yaml:"min_width"` // minimum vertex radius
	MaxWidth float64 `yaml:"max_width"` // maximum vertex radius
	CenterX  float64 `yaml:"center_x"`
	CenterY  float64 `yaml:"center_y"`
}

// CircleConfig defines the bouncing brush circle.
type CircleConfig struct {
	Radius    float64 `yaml:"radius"`
	StartX    float64 `yaml:"start_x"`
	StartY    float64 `yaml:"start_y"`
	VelocityX float64 `yaml:"velocity_x"`
	VelocityY float64 `yaml:"velocity_y"`
}

// GameplayConfig defines player controls and the win condition.
type GameplayConfig struct {
	RotateSpeed float64 `yaml:"rotate_speed"` // radians per tick per key
	WinPercent  float64 `yaml:"win_percent"`  // coverage percentage to win
}

// DifficultyConfig defines the difficulty progression system.
// Used by zen mode to ramp rotation speed over time.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "time" or "none"
	MaxAt int    `yaml:"max_at"` // ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	RotateMultiplier float64 `yaml:"rotate_multiplier"` // added rotation speed fraction at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
