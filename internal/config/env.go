package config

import (
	"os"
	"strconv"
	"strings"
)

// FromEnv loads the file named by SEMESTER_CONFIG, if any, and then applies
// SEMESTER_* overrides.
func FromEnv() (*Config, error) {
	c, err := Load(strings.TrimSpace(os.Getenv("SEMESTER_CONFIG")))
	if err != nil {
		return nil, err
	}
	c.ApplyEnv()
	return c, nil
}

func (c *Config) ApplyEnv() {
	if preset := strings.TrimSpace(os.Getenv("SEMESTER_PRESET")); preset != "" && preset != c.Preset {
		c.Preset = preset
		c.Simulation.TickIntervalMS = 0
		c.Simulation.RecoveryIntervalMS = 0
		c.Simulation.InitialResources = nil
	}
	c.HTTP.Addr = stringEnv("SEMESTER_HTTP_ADDR", c.HTTP.Addr)
	if origins := stringEnv("SEMESTER_ALLOWED_ORIGINS", ""); origins != "" {
		c.HTTP.AllowedOrigins = splitList(origins)
	}
	c.Storage.DSN = stringEnv("SEMESTER_DB_DSN", c.Storage.DSN)
	c.Storage.SQLitePath = stringEnv("SEMESTER_SQLITE_PATH", c.Storage.SQLitePath)
	c.Log.Level = stringEnv("SEMESTER_LOG_LEVEL", c.Log.Level)
	c.Log.Format = stringEnv("SEMESTER_LOG_FORMAT", c.Log.Format)
	c.Simulation.PlayerID = stringEnv("SEMESTER_PLAYER_ID", c.Simulation.PlayerID)
	c.Simulation.TickIntervalMS = intEnv("SEMESTER_TICK_INTERVAL_MS", c.Simulation.TickIntervalMS)
	c.Simulation.RecoveryIntervalMS = intEnv("SEMESTER_RECOVERY_INTERVAL_MS", c.Simulation.RecoveryIntervalMS)
	c.Simulation.SettleDelayMS = intEnv("SEMESTER_SETTLE_DELAY_MS", c.Simulation.SettleDelayMS)
	c.Simulation.HoursPerDay = floatEnv("SEMESTER_HOURS_PER_DAY", c.Simulation.HoursPerDay)
	c.Simulation.DisableCrashDetection = boolEnv("SEMESTER_DISABLE_CRASH_DETECTION", c.Simulation.DisableCrashDetection)
	c.Simulation.DisableNarrativeTriggers = boolEnv("SEMESTER_DISABLE_NARRATIVE_TRIGGERS", c.Simulation.DisableNarrativeTriggers)
	c.Narrative.WebhookURL = stringEnv("SEMESTER_NARRATIVE_WEBHOOK_URL", c.Narrative.WebhookURL)
	c.Narrative.TimeoutMS = intEnv("SEMESTER_NARRATIVE_TIMEOUT_MS", c.Narrative.TimeoutMS)
	c.ApplyDefaults()
}

func stringEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func floatEnv(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func boolEnv(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
