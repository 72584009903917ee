package config

import "math"

// DifficultyManager calculates dynamic game parameters based on elapsed time.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: cfg.InitialLevel,
	}
}

// Level returns the current difficulty level (0.0 to 1.0) based on elapsed ticks.
func (d *DifficultyManager) Level(ticks int) float64 {
	if !d.cfg.Enabled || d.cfg.Progression.Type != "time" {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	progress := clampF(float64(ticks)/maxAt, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// RotateSpeed returns the current rotation speed based on difficulty level.
func (d *DifficultyManager) RotateSpeed(baseSpeed float64, ticks int) float64 {
	level := d.Level(ticks)
	// Speed increases from base to base * (1 + rotateMultiplier)
	return baseSpeed * (1.0 + level*d.cfg.Scaling.RotateMultiplier)
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
