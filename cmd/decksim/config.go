package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// simConfig configures the simulator front end.
type simConfig struct {
	Cols int `yaml:"cols"`
	Rows int `yaml:"rows"`

	// Theme is the name of a registered theme; ThemeDir is scanned for
	// additional TOML theme files before resolution.
	Theme    string `yaml:"theme"`
	ThemeDir string `yaml:"theme_dir"`

	// Protocol selects terminal graphics: auto, halfblocks, kitty,
	// iterm2, sixel, or none.
	Protocol string `yaml:"protocol"`

	// CellWidth and CellHeight size each simulated button in terminal
	// character cells.
	CellWidth  int `yaml:"cell_width"`
	CellHeight int `yaml:"cell_height"`

	FontScale float64 `yaml:"font_scale"`
	LogFile   string  `yaml:"log_file"`
}

func defaultSimConfig() simConfig {
	return simConfig{
		Cols:       5,
		Rows:       3,
		Theme:      "dark",
		Protocol:   "auto",
		CellWidth:  12,
		CellHeight: 6,
		FontScale:  14,
	}
}

// loadConfig reads YAML configuration from path, or from the standard
// location when path is empty. A missing file yields the defaults.
func loadConfig(path string) (simConfig, error) {
	cfg := defaultSimConfig()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(home, ".config", "decksim", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (cfg simConfig) validate() error {
	if cfg.Cols <= 0 || cfg.Rows <= 0 {
		return fmt.Errorf("config: grid %dx%d must be positive", cfg.Cols, cfg.Rows)
	}
	if cfg.CellWidth <= 0 || cfg.CellHeight <= 0 {
		return fmt.Errorf("config: button cell area %dx%d must be positive", cfg.CellWidth, cfg.CellHeight)
	}
	return nil
}
