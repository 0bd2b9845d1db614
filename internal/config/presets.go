package config

import (
	"fmt"
	"maps"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/vancomm/minesweeper-ai/internal/mines"
)

// Preset is a named board shape for the play command.
type Preset struct {
	Width     int  `yaml:"width"`
	Height    int  `yaml:"height"`
	MineCount int  `yaml:"mine_count"`
	Unique    bool `yaml:"unique"`
}

func (p Preset) GameParams() mines.GameParams {
	return mines.GameParams{
		Width:     p.Width,
		Height:    p.Height,
		MineCount: p.MineCount,
		Unique:    p.Unique,
	}
}

var builtinPresets = map[string]Preset{
	"beginner":     {Width: 9, Height: 9, MineCount: 10, Unique: true},
	"intermediate": {Width: 16, Height: 16, MineCount: 40, Unique: true},
	"expert":       {Width: 30, Height: 16, MineCount: 99, Unique: true},
}

/*
Presets returns the built-in board shapes, extended and overridden by
the YAML file at path when it is not empty. The file maps preset names
to shapes:

	dense:
	  width: 12
	  height: 12
	  mine_count: 36
	  unique: true
*/
func Presets(path string) (map[string]Preset, error) {
	presets := make(map[string]Preset, len(builtinPresets))
	maps.Copy(presets, builtinPresets)

	if path == "" {
		return presets, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read presets file: %w", err)
	}

	var custom map[string]Preset
	if err := yaml.Unmarshal(data, &custom); err != nil {
		return nil, fmt.Errorf("unable to parse presets file: %w", err)
	}

	for name, preset := range custom {
		if err := preset.GameParams().Validate(); err != nil {
			return nil, fmt.Errorf("invalid preset %q: %w", name, err)
		}
		presets[name] = preset
	}

	return presets, nil
}
