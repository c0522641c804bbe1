// Package config loads the server's runtime configuration from YAML, with
// environment-variable fallbacks for anything deployment-specific.
package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	World       WorldConfig       `yaml:"world"`
	Sim         SimConfig         `yaml:"sim"`
	Server      ServerConfig      `yaml:"server"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Cache       CacheConfig       `yaml:"cache"`
}

// WorldConfig controls map and civilization generation.
type WorldConfig struct {
	Seed          int64 `yaml:"seed"`
	Width         int   `yaml:"width"`
	Height        int   `yaml:"height"`
	ErosionPasses int   `yaml:"erosion_passes"`
	CivCount      int   `yaml:"civ_count"`
	SimYears      int   `yaml:"sim_years"`
}

// SimConfig controls the simulation tick loop.
type SimConfig struct {
	TickRateMS int `yaml:"tick_rate_ms"`
}

// TickRate returns the configured tick period, defaulting to 33ms (~30Hz)
// when unset.
func (s SimConfig) TickRate() time.Duration {
	if s.TickRateMS <= 0 {
		return 33 * time.Millisecond
	}
	return time.Duration(s.TickRateMS) * time.Millisecond
}

// ServerConfig holds listen addresses.
type ServerConfig struct {
	ListenPort  int `yaml:"listen_port"`
	MetricsPort int `yaml:"metrics_port"`
}

// GetListenPort returns the TCP port the wire protocol listens on, with
// config -> env -> default precedence.
func (s ServerConfig) GetListenPort() int {
	return getPortWithEnvFallback(s.ListenPort, "ASHFALL_LISTEN_PORT", 7777)
}

// GetMetricsPort returns the Prometheus metrics port.
func (s ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "ASHFALL_METRICS_PORT", 2112)
}

func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}
	return defaultPort
}

// PersistenceConfig locates the character repository's data directory.
type PersistenceConfig struct {
	DataPath string `yaml:"data_path"`
}

// GetDataPath returns the configured persistence directory, falling back
// to ./data.
func (p PersistenceConfig) GetDataPath() string {
	if p.DataPath != "" {
		return p.DataPath
	}
	if env := os.Getenv("ASHFALL_DATA_PATH"); env != "" {
		return env
	}
	return "./data"
}

// CacheConfig enables the optional distributed chunk cache. Redis/NATS
// are skipped entirely when Enabled is false; a miss just falls through to
// the in-process synth pipeline.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	NodeID  string `yaml:"node_id"`
	Redis   RedisConfig `yaml:"redis"`
	NATS    NATSConfig  `yaml:"nats"`
}

// RedisConfig is read by internal/cache.NewRedisCache.
type RedisConfig struct {
	URL string `yaml:"url"`
	TTL int    `yaml:"ttl_seconds"`
}

// NATSConfig is read by internal/cache.NewNATSInvalidator.
type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// Load reads a YAML config file. If path is empty, it reads from the
// ASHFALL_CONFIG environment variable; if that's also unset, it returns a
// nil Config and no error, leaving every field's getters to fall back to
// their defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("ASHFALL_CONFIG")
		if path == "" {
			return nil, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
