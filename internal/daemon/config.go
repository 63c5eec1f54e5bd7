// Package daemon manages the Codexa daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/codexa-learn/codexa/internal/app/progression"
	"github.com/codexa-learn/codexa/internal/domain"
)

// Config holds all daemon configuration.
type Config struct {
	API           APIConfig         `toml:"api"`
	Store         StoreConfig       `toml:"store"`
	Tutor         TutorConfig       `toml:"tutor"`
	Speech        SpeechConfig      `toml:"speech"`
	Notifications NotifyConfig      `toml:"notifications"`
	Rewards       progression.Rules `toml:"rewards"`
	Telemetry     TelemetryConfig   `toml:"telemetry"`
	Logging       LoggingConfig     `toml:"logging"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StoreConfig controls persistent storage.
type StoreConfig struct {
	Dir string `toml:"dir"`
}

// TutorConfig points at the local model server.
type TutorConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
	Model   string `toml:"model"`
}

// SpeechConfig controls read-aloud synthesis.
type SpeechConfig struct {
	Enabled bool   `toml:"enabled"`
	Voice   string `toml:"voice"`
	Rate    int    `toml:"rate"`
}

// NotifyConfig caps learner-facing notifications.
type NotifyConfig struct {
	MaxPerDay  int    `toml:"max_per_day"`
	QuietStart string `toml:"quiet_start"`
	QuietEnd   string `toml:"quiet_end"`
}

// Policy converts the config section into the domain policy.
func (n NotifyConfig) Policy() domain.NotificationPolicy {
	p := domain.DefaultNotificationPolicy()
	if n.MaxPerDay > 0 {
		p.MaxPerDay = n.MaxPerDay
	}
	if n.QuietStart != "" {
		p.QuietStart = n.QuietStart
	}
	if n.QuietEnd != "" {
		p.QuietEnd = n.QuietEnd
	}
	return p
}

// TelemetryConfig controls observability exports.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := codexaHome()
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8642,
		},
		Store: StoreConfig{
			Dir: homeDir,
		},
		Tutor: TutorConfig{
			Enabled: true,
			Addr:    "http://127.0.0.1:11434",
			Model:   "gpt-oss:20b",
		},
		Speech: SpeechConfig{
			Enabled: true,
			Rate:    175,
		},
		Notifications: NotifyConfig{
			MaxPerDay:  5,
			QuietStart: "22:00",
			QuietEnd:   "07:00",
		},
		Rewards: progression.DefaultRules(),
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(homeDir, "codexa.log"),
		},
	}
}

// LoadConfig reads config from ~/.codexa/config.toml, falling back to
// defaults. Reward tables from the file replace the defaults wholesale
// and are validated so a bad table aborts startup instead of corrupting
// profiles.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(codexaHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet — use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Rewards.Validate(); err != nil {
		return cfg, fmt.Errorf("rewards config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes the config to ~/.codexa/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(codexaHome(), "config.toml")
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

// codexaHome returns the Codexa data directory.
func codexaHome() string {
	if env := os.Getenv("CODEXA_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".codexa")
}

// CodexaHome is exported for use by other packages.
func CodexaHome() string {
	return codexaHome()
}
