package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/menta2k/logo-stamper/pkg/types"
)

// Config holds the application configuration
type Config struct {
	Branding types.BrandingConfig `json:"branding"`
	Vision   VisionConfig         `json:"vision"`
	Output   OutputConfig         `json:"output"`
}

// VisionConfig holds configuration for the vision model backend
type VisionConfig struct {
	Backend string `json:"backend"` // ollama, llamacpp, or none
	Model   string `json:"model"`
	URL     string `json:"url"`
}

// OutputConfig holds configuration for archive output
type OutputConfig struct {
	Dir string `json:"dir"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Branding: types.BrandingConfig{
			WatermarkOpacity: 0.25,
			WatermarkScale:   0.5,
			LogoScale:        0.15,
			LogoPadding:      24,
		},
		Vision: VisionConfig{
			Backend: "ollama",
			Model:   "openbmb/minicpm-v4.5",
			URL:     "",
		},
		Output: OutputConfig{
			Dir: "./output",
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Branding.Validate(); err != nil {
		return fmt.Errorf("branding: %w", err)
	}

	switch c.Vision.Backend {
	case "ollama", "llamacpp", "none":
	default:
		return fmt.Errorf("vision.backend must be ollama, llamacpp, or none")
	}

	if c.Vision.Backend != "none" && c.Vision.Model == "" {
		return fmt.Errorf("vision.model is required for backend %s", c.Vision.Backend)
	}

	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir cannot be empty")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "logo-stamper", "config.json")
}
