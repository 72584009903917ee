package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadPolypaint loads polypaint configuration.
// Search order: customPath -> ~/.polypaint/configs/polypaint.yaml -> ./configs/polypaint.yaml -> embedded default
func LoadPolypaint(customPath string) (PolypaintConfig, error) {
	var cfg PolypaintConfig

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("polypaint.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/polypaint.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultPolypaintYAML, &cfg); err != nil {
		return DefaultPolypaintConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".polypaint", "configs", filename)
}

// ApplyPolypaintPreset modifies the config based on a difficulty preset.
func ApplyPolypaintPreset(cfg *PolypaintConfig, preset DifficultyPreset) {
	if IsFixedPreset(preset) {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust gameplay based on difficulty: harder means a faster brush
	// and a higher coverage bar.
	switch preset {
	case DifficultyEasy:
		cfg.Gameplay.WinPercent = 80.0
	case DifficultyHard:
		cfg.Circle.VelocityX = 20
		cfg.Circle.VelocityY = -4
		cfg.Gameplay.WinPercent = 95.0
	}
}
