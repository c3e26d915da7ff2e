// Package config provides optional YAML configuration for the spineqc tools.
// Every setting has a built-in default matching the review pipeline's fixed
// tables, so tools run without any config file present.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// MethodPalette holds the two overlay colors for one method: the cord is a
// filled overlay, the canal a contour outline. Colors are #rrggbb hex.
type MethodPalette struct {
	Cord  string `yaml:"cord"`
	Canal string `yaml:"canal"`
}

// Config is the application configuration loaded from YAML.
type Config struct {
	// QC controls the comparison figure generator.
	QC struct {
		// Colors maps method name to its overlay palette.
		Colors map[string]MethodPalette `yaml:"colors"`

		// AxialLevels are the vertebral levels whose mid-slices become the
		// axial columns of the figure.
		AxialLevels []int `yaml:"axialLevels"`

		// PanelSize is the on-screen edge length of one figure panel in
		// pixels before aspect correction.
		PanelSize int `yaml:"panelSize"`
	} `yaml:"qc"`

	// Results controls the CSV aggregator.
	Results struct {
		// InfoColumn is the value column extracted from per-subject CSVs.
		InfoColumn string `yaml:"infoColumn"`
	} `yaml:"results"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.QC.Colors = map[string]MethodPalette{
		"totalspineseg": {Cord: "#e41a1c", Canal: "#ffff00"}, // red cord, yellow canal
		"spineps":       {Cord: "#377eb8", Canal: "#ffff00"}, // blue cord, yellow canal
		"custom-atlas":  {Cord: "#4daf4a", Canal: "#ffff00"}, // green cord, yellow canal
		"pam50":         {Cord: "#984ea3", Canal: "#ffff00"}, // purple cord, yellow canal
	}
	cfg.QC.AxialLevels = []int{1, 2, 3, 4}
	cfg.QC.PanelSize = 320

	cfg.Results.InfoColumn = "MEAN(area)"

	return cfg
}

// LoadConfig loads configuration from a YAML file. If the file doesn't
// exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath == "" {
		return cfg, nil
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
