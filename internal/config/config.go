// Package config holds the process configuration, constructed once at
// startup and passed by reference. There are no ambient environment
// lookups inside components.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	DataDir    string `yaml:"data_dir"`

	Coordinator Coordinator `yaml:"coordinator"`
	Agents      Agents      `yaml:"agents"`
}

// Coordinator is the orchestrator connection. The timeout bounds every
// outbound call so a slow coordinator degrades to the soft-failure paths
// instead of stalling tactical responses.
type Coordinator struct {
	BaseURL             string `yaml:"base_url"`
	APIKey              string `yaml:"api_key"`
	SyncIntervalSeconds int    `yaml:"sync_interval_seconds"`
	TimeoutSeconds      int    `yaml:"timeout_seconds"`
}

type Agents struct {
	MaxActors         int `yaml:"max_actors"`
	TelemetryCapacity int `yaml:"telemetry_capacity"`
}

func Defaults() Config {
	return Config{
		ListenAddr: ":8787",
		DataDir:    "./data",
		Coordinator: Coordinator{
			BaseURL:             "http://localhost:8080",
			SyncIntervalSeconds: 5,
			TimeoutSeconds:      2,
		},
		Agents: Agents{
			MaxActors:         256,
			TelemetryCapacity: 100,
		},
	}
}

// Load reads the YAML config at path, or returns defaults when path is
// empty.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("reflex.yaml: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("reflex.yaml: %w", err)
	}
	return cfg, nil
}

func (c *Config) Normalize() {
	if c == nil {
		return
	}
	d := Defaults()
	if strings.TrimSpace(c.ListenAddr) == "" {
		c.ListenAddr = d.ListenAddr
	}
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = d.DataDir
	}
	if c.Coordinator.SyncIntervalSeconds <= 0 {
		c.Coordinator.SyncIntervalSeconds = d.Coordinator.SyncIntervalSeconds
	}
	if c.Coordinator.TimeoutSeconds <= 0 {
		c.Coordinator.TimeoutSeconds = d.Coordinator.TimeoutSeconds
	}
	if c.Agents.MaxActors <= 0 {
		c.Agents.MaxActors = d.Agents.MaxActors
	}
	if c.Agents.TelemetryCapacity <= 0 {
		c.Agents.TelemetryCapacity = d.Agents.TelemetryCapacity
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Coordinator.BaseURL) == "" {
		return fmt.Errorf("coordinator.base_url must not be empty")
	}
	if c.Coordinator.SyncIntervalSeconds <= 0 {
		return fmt.Errorf("coordinator.sync_interval_seconds must be > 0")
	}
	if c.Coordinator.TimeoutSeconds <= 0 {
		return fmt.Errorf("coordinator.timeout_seconds must be > 0")
	}
	if c.Agents.MaxActors <= 0 {
		return fmt.Errorf("agents.max_actors must be > 0")
	}
	if c.Agents.TelemetryCapacity <= 0 {
		return fmt.Errorf("agents.telemetry_capacity must be > 0")
	}
	return nil
}

func (c Config) SyncInterval() time.Duration {
	return time.Duration(c.Coordinator.SyncIntervalSeconds) * time.Second
}

func (c Config) CoordinatorTimeout() time.Duration {
	return time.Duration(c.Coordinator.TimeoutSeconds) * time.Second
}
