package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"semester/internal/domain/simulation"
)

type Config struct {
	Preset     string           `yaml:"preset" json:"preset"`
	HTTP       HTTPConfig       `yaml:"http" json:"http"`
	Storage    StorageConfig    `yaml:"storage" json:"storage"`
	Log        LogConfig        `yaml:"log" json:"log"`
	Simulation SimulationConfig `yaml:"simulation" json:"simulation"`
	Narrative  NarrativeConfig  `yaml:"narrative" json:"narrative"`
}

type HTTPConfig struct {
	Addr           string   `yaml:"addr" json:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`
}

type StorageConfig struct {
	DSN        string `yaml:"dsn" json:"dsn"`
	SQLitePath string `yaml:"sqlite_path" json:"sqlite_path"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

type SimulationConfig struct {
	PlayerID                 string                `yaml:"player_id" json:"player_id"`
	TickIntervalMS           int                   `yaml:"tick_interval_ms" json:"tick_interval_ms"`
	RecoveryIntervalMS       int                   `yaml:"recovery_interval_ms" json:"recovery_interval_ms"`
	SettleDelayMS            int                   `yaml:"settle_delay_ms" json:"settle_delay_ms"`
	HoursPerDay              float64               `yaml:"hours_per_day" json:"hours_per_day"`
	DisableCrashDetection    bool                  `yaml:"disable_crash_detection" json:"disable_crash_detection"`
	DisableNarrativeTriggers bool                  `yaml:"disable_narrative_triggers" json:"disable_narrative_triggers"`
	InitialResources         *simulation.Resources `yaml:"initial_resources" json:"initial_resources,omitempty"`
}

type NarrativeConfig struct {
	WebhookURL string `yaml:"webhook_url" json:"webhook_url"`
	TimeoutMS  int    `yaml:"timeout_ms" json:"timeout_ms"`
}

const (
	DefaultAddr          = ":8080"
	DefaultPlayerID      = "demo-player"
	DefaultSettleDelayMS = 100
	DefaultSQLitePath    = "semester.db"
	DefaultNarrativeMS   = 2000
)

func (s *SimulationConfig) ApplyDefaults(b Balance) {
	if s.PlayerID == "" {
		s.PlayerID = DefaultPlayerID
	}
	if s.TickIntervalMS <= 0 {
		s.TickIntervalMS = int(b.TickInterval / time.Millisecond)
	}
	if s.RecoveryIntervalMS <= 0 {
		s.RecoveryIntervalMS = int(b.RecoveryInterval / time.Millisecond)
	}
	if s.SettleDelayMS <= 0 {
		s.SettleDelayMS = DefaultSettleDelayMS
	}
	if s.HoursPerDay <= 0 {
		s.HoursPerDay = b.HoursPerDay
	}
	if s.InitialResources == nil {
		r := b.InitialResources
		s.InitialResources = &r
	}
}

func (c *Config) ApplyDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultAddr
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = DefaultSQLitePath
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Narrative.TimeoutMS <= 0 {
		c.Narrative.TimeoutMS = DefaultNarrativeMS
	}
	c.Simulation.ApplyDefaults(PresetByName(c.Preset))
}

func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// Load reads a YAML file and fills unset fields. An empty path yields the
// defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	return &c, nil
}

func (c *Config) EngineOptions() simulation.Options {
	return simulation.Options{
		HoursPerDay:              c.Simulation.HoursPerDay,
		DisableCrashDetection:    c.Simulation.DisableCrashDetection,
		DisableNarrativeTriggers: c.Simulation.DisableNarrativeTriggers,
		TickInterval:             c.TickInterval(),
	}
}

func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Simulation.TickIntervalMS) * time.Millisecond
}

func (c *Config) RecoveryInterval() time.Duration {
	return time.Duration(c.Simulation.RecoveryIntervalMS) * time.Millisecond
}

func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.Simulation.SettleDelayMS) * time.Millisecond
}

func (c *Config) NarrativeTimeout() time.Duration {
	return time.Duration(c.Narrative.TimeoutMS) * time.Millisecond
}

// InitialResources returns the configured starting resources, validated and
// clamped.
func (c *Config) InitialResources() (simulation.Resources, error) {
	r := simulation.DefaultResources()
	if c.Simulation.InitialResources != nil {
		r = *c.Simulation.InitialResources
	}
	return simulation.NewResources(r.Energy, r.Stress, r.Knowledge, r.Social, r.Money)
}
