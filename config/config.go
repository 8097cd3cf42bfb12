// Package config loads the operational settings for a lending service
// process: logging labels, metrics toggles, persistence backend selection,
// and the default oracle used when no live feed is wired in. None of the
// accounting constants in lending/params.go are configurable here; LLTV,
// the interest rate, and the virtual offsets are compiled in, matching
// the teacher repository's own split between top-level config.Config
// (process settings) and consensus-relevant constants baked into code.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config captures the runtime settings for a lending engine process.
type Config struct {
	Service    string           `toml:"Service"`
	Env        string           `toml:"Env"`
	Logging    LoggingConfig    `toml:"Logging"`
	Metrics    MetricsConfig    `toml:"Metrics"`
	Store      StoreConfig      `toml:"Store"`
	OracleSeed OracleSeedConfig `toml:"OracleSeed"`
}

// LoggingConfig controls observability/logging.Setup.
type LoggingConfig struct {
	Level string `toml:"Level"`
}

// MetricsConfig toggles the Prometheus recorder.
type MetricsConfig struct {
	Enabled bool `toml:"Enabled"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	// Driver is one of "memory" or "sqlite".
	Driver string `toml:"Driver"`
	// DSN is the sqlite data source name; unused for the memory driver.
	DSN string `toml:"DSN"`
}

// OracleSeedConfig seeds the fixed-price oracle used when no live feed is
// configured. Value/Precision follow the same fixed-point convention as
// lending.Oracle.Price.
type OracleSeedConfig struct {
	Value     uint64 `toml:"Value"`
	Precision uint64 `toml:"Precision"`
}

// Load reads the TOML configuration from path, creating a default file if
// one does not already exist.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Service == "" {
		cfg.Service = "lending-engine"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "memory"
	}
	if cfg.OracleSeed.Precision == 0 {
		cfg.OracleSeed.Precision = 100_000_000
	}
	if cfg.OracleSeed.Value == 0 {
		cfg.OracleSeed.Value = 100 * cfg.OracleSeed.Precision
	}
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{
		Service: "lending-engine",
		Env:     "dev",
		Logging: LoggingConfig{Level: "info"},
		Metrics: MetricsConfig{Enabled: true},
		Store:   StoreConfig{Driver: "memory"},
		OracleSeed: OracleSeedConfig{
			Value:     100 * 100_000_000,
			Precision: 100_000_000,
		},
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
