package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds all user-facing configuration for the extractor.
type Config struct {
	Data    DataConfig    `toml:"data"`
	Geocode GeocodeConfig `toml:"geocode"`
}

type DataConfig struct {
	Dir string `toml:"dir"`
}

type GeocodeConfig struct {
	Mode      string  `toml:"mode"`     // "offline" or "online"
	Provider  string  `toml:"provider"` // "nominatim" or "google"
	Rate      float64 `toml:"rate"`     // minimum seconds between online calls
	UserAgent string  `toml:"user_agent"`
	Language  string  `toml:"language"`
}

// Defaults returns a Config populated with built-in default values.
func Defaults() *Config {
	return &Config{
		Data: DataConfig{Dir: "data"},
		Geocode: GeocodeConfig{
			Mode:      "offline",
			Provider:  "nominatim",
			Rate:      1.0,
			UserAgent: "kml-city-extractor",
			Language:  "en",
		},
	}
}

// Load reads a TOML config file. If the file does not exist, built-in
// defaults are returned without error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
