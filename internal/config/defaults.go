package config

import (
	_ "embed"
)

//go:embed defaults/polypaint.yaml
var defaultPolypaintYAML []byte

// DefaultPolypaintConfig returns the default polypaint configuration.
func DefaultPolypaintConfig() PolypaintConfig {
	return PolypaintConfig{
		World: WorldConfig{
			Width:  800,
			Height: 600,
		},
		Polygon: PolygonConfig{
			Sides:    7,
			MinWidth: 150,
			MaxWidth: 250,
			CenterX:  400,
			CenterY:  300,
		},
		Circle: CircleConfig{
			Radius:    10,
			StartX:    400,
			StartY:    300,
			VelocityX: 15,
			VelocityY: -3,
		},
		Gameplay: GameplayConfig{
			RotateSpeed: 0.05,
			WinPercent:  90.0,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "time",
				MaxAt: 18000, // 5 minutes at 60fps
			},
			Scaling: ScalingConfig{
				RotateMultiplier: 1.0,
			},
		},
	}
}
