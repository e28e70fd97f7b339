package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"screendraw/internal/state"
)

// Thickness bounds shared with the wheel adjustment in the UI.
const (
	MinDrawThickness  = 1
	MaxDrawThickness  = 64
	MinEraseThickness = 4
	MaxEraseThickness = 128
)

// Config is the optional on-disk configuration. The tool runs fine without
// a config file; defaults are written on first launch so the knobs are
// discoverable.
type Config struct {
	Draw    DrawConfig    `toml:"draw"`
	History HistoryConfig `toml:"history"`
	Share   ShareConfig   `toml:"share"`
	Export  ExportConfig  `toml:"export"`
}

type DrawConfig struct {
	Thickness       float64 `toml:"thickness"`
	EraserThickness float64 `toml:"eraser_thickness"`
	Color           string  `toml:"color"` // red, green, blue or white
}

type HistoryConfig struct {
	Limit int `toml:"limit"` // 0 = unbounded
}

type ShareConfig struct {
	Enabled bool `toml:"enabled"`
	Port    int  `toml:"port"`
}

type ExportConfig struct {
	Dir string `toml:"dir"` // empty = current directory
}

const defaultConfigTOML = `# screendraw configuration.
# Delete this file to get the defaults back.

[draw]
thickness = 3.0
eraser_thickness = 40.0
color = "white"

[history]
limit = 0

[share]
enabled = false
port = 8898

[export]
dir = ""
`

// Default returns the built-in configuration.
func Default() Config {
	cfg, err := parse([]byte(defaultConfigTOML))
	if err != nil {
		panic(fmt.Sprintf("built-in config invalid: %v", err))
	}
	return cfg
}

// configDir returns the directory for screendraw config files, using
// XDG_CONFIG_HOME or falling back to ~/.config.
func configDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, "screendraw"), nil
}

// Load reads the config file, writing the default one first if it does not
// exist yet.
func Load() (Config, error) {
	dir, err := configDir()
	if err != nil {
		return Default(), err
	}
	path := filepath.Join(dir, "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Default(), fmt.Errorf("create config dir: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTOML), 0o644); err != nil {
			return Default(), fmt.Errorf("write default config: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("read config: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}

	if cfg.Draw.Thickness < MinDrawThickness {
		cfg.Draw.Thickness = MinDrawThickness
	}
	if cfg.Draw.Thickness > MaxDrawThickness {
		cfg.Draw.Thickness = MaxDrawThickness
	}
	if cfg.Draw.EraserThickness < MinEraseThickness {
		cfg.Draw.EraserThickness = MinEraseThickness
	}
	if cfg.Draw.EraserThickness > MaxEraseThickness {
		cfg.Draw.EraserThickness = MaxEraseThickness
	}
	if cfg.History.Limit < 0 {
		cfg.History.Limit = 0
	}
	if cfg.Share.Port <= 0 || cfg.Share.Port > 65535 {
		cfg.Share.Port = 8898
	}
	if _, err := paletteColor(cfg.Draw.Color); err != nil {
		return Default(), err
	}
	return cfg, nil
}

func paletteColor(name string) (color.NRGBA, error) {
	switch name {
	case "red":
		return state.Red, nil
	case "green":
		return state.Green, nil
	case "blue":
		return state.Blue, nil
	case "white", "":
		return state.White, nil
	}
	return color.NRGBA{}, fmt.Errorf("unknown color %q (want red, green, blue or white)", name)
}

// StartColor resolves the configured startup color.
func (c Config) StartColor() color.NRGBA {
	col, err := paletteColor(c.Draw.Color)
	if err != nil {
		return state.White
	}
	return col
}
