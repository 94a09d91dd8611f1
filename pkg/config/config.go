// Package config loads the routecast TOML configuration file.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/mapryk/routecast/pkg/apperr"
)

// DefaultRecordIntervalMs is the producer poll interval used when the config
// does not set one.
const DefaultRecordIntervalMs uint64 = 100

// Config is the full application configuration.
type Config struct {
	Realtime  Realtime  `toml:"realtime"`
	Recording Recording `toml:"recording"`
	Output    Output    `toml:"output"`
}

// Realtime configures the streaming delivery pipeline.
type Realtime struct {
	Enabled    bool   `toml:"enabled"`
	BackendURL string `toml:"backend_url"`
	PushKey    string `toml:"push_key"`
}

// Recording configures the producer's polling cadence.
type Recording struct {
	RecordIntervalMs uint64 `toml:"record_interval_ms"`
}

// Output configures on-disk route persistence.
type Output struct {
	RoutesDirectory string `toml:"routes_directory"`
}

// Load reads and validates a config file, applying defaults for unset values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperr.Wrap(apperr.CodeNotFound, err, "config file %s", path)
		}
		return nil, apperr.Wrap(apperr.CodeInvalidConfig, err, "read config file %s", path)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidConfig, err, "parse config file %s", path)
	}
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Recording.RecordIntervalMs == 0 {
		c.Recording.RecordIntervalMs = DefaultRecordIntervalMs
	}
	if c.Output.RoutesDirectory == "" {
		c.Output.RoutesDirectory = "routes"
	}
}

func (c *Config) validate() error {
	if c.Realtime.Enabled {
		if c.Realtime.BackendURL == "" {
			return apperr.New(apperr.CodeInvalidConfig, "realtime.backend_url is required when realtime.enabled is true")
		}
		if c.Realtime.PushKey == "" {
			return apperr.New(apperr.CodeInvalidConfig, "realtime.push_key is required when realtime.enabled is true")
		}
	}
	return nil
}
