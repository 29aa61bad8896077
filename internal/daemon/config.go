// Package daemon manages the Transforma service lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all service configuration.
type Config struct {
	Service   ServiceConfig   `toml:"service"`
	API       APIConfig       `toml:"api"`
	Scoring   ScoringConfig   `toml:"scoring"`
	Logging   LoggingConfig   `toml:"logging"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// ServiceConfig identifies this instance.
type ServiceConfig struct {
	ID      string `toml:"id"`
	DataDir string `toml:"data_dir"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// ScoringConfig tunes the reward-notification policy.
type ScoringConfig struct {
	NotificationsPerDay int    `toml:"notifications_per_day"`
	QuietStart          string `toml:"quiet_start"`
	QuietEnd            string `toml:"quiet_end"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level     string `toml:"level"`
	File      string `toml:"file"`
	MaxSizeMB int    `toml:"max_size_mb"`
	MaxFiles  int    `toml:"max_files"`
}

// TelemetryConfig controls the /metrics endpoint.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := transformaHome()
	return Config{
		Service: ServiceConfig{
			DataDir: homeDir,
		},
		API: APIConfig{
			Host:        "127.0.0.1",
			Port:        8470,
			CORSOrigins: []string{"*"},
		},
		Scoring: ScoringConfig{
			NotificationsPerDay: 5,
			QuietStart:          "22:00",
			QuietEnd:            "08:00",
		},
		Logging: LoggingConfig{
			Level:     "info",
			File:      filepath.Join(homeDir, "transforma.log"),
			MaxSizeMB: 50,
			MaxFiles:  5,
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
	}
}

// LoadConfig reads config from ~/.transforma/config.toml, falling back
// to defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(transformaHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet — use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Service.DataDir == "" {
		cfg.Service.DataDir = transformaHome()
	}

	return cfg, nil
}

// SaveConfig writes the config to ~/.transforma/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(transformaHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// transformaHome returns the Transforma data directory.
func transformaHome() string {
	if env := os.Getenv("TRANSFORMA_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".transforma")
}

// TransformaHome is exported for use by other packages.
func TransformaHome() string {
	return transformaHome()
}
