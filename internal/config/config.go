// Package config loads flipstudy configuration from a YAML file and FLIPSTUDY_*
// environment variables.
//
// Precedence, lowest first: Default(), the YAML file, the environment, and
// finally command-line flags applied by the caller.
//
// Example Usage:
//
//	cfg, err := config.Load("flipstudy.yaml")
//	if err != nil {
//		return err
//	}
//	model, err := spacing.New(cfg.Spacing())
//
// Environment Variables:
//   - FLIPSTUDY_FLIP_ENABLED=true
//   - FLIPSTUDY_FLIP_THRESHOLD=-0.75
//   - FLIPSTUDY_FLIP_POLARITY=above
//   - FLIPSTUDY_SESSION_DURATION=10m
//   - FLIPSTUDY_SESSION_MAX_TRIALS=0
//   - FLIPSTUDY_SESSION_SEED=0
//   - FLIPSTUDY_EXPORT_PATH=data.csv
//   - FLIPSTUDY_LOG_LEVEL=info
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nvandessel/flipstudy/internal/spacing"
)

// Config is the complete flipstudy configuration.
type Config struct {
	Model   ModelConfig   `yaml:"model"`
	Flip    FlipConfig    `yaml:"flip"`
	Session SessionConfig `yaml:"session"`
	Export  ExportConfig  `yaml:"export"`
	Log     LogConfig     `yaml:"log"`
}

// ModelConfig holds the activation model parameters.
type ModelConfig struct {
	DefaultAlpha    float64       `yaml:"default_alpha"`
	DecayScale      float64       `yaml:"decay_scale"`
	LatencyFactor   float64       `yaml:"latency_factor"`
	ForgetThreshold float64       `yaml:"forget_threshold"`
	Lookahead       time.Duration `yaml:"lookahead"`
}

// FlipConfig holds the orientation flip policy.
type FlipConfig struct {
	Enabled   bool             `yaml:"enabled"`
	Threshold float64          `yaml:"threshold"`
	Polarity  spacing.Polarity `yaml:"polarity"`
	Alpha     float64          `yaml:"alpha"`
}

// SessionConfig bounds a study session and its test phase.
type SessionConfig struct {
	Duration  time.Duration `yaml:"duration"`
	MaxTrials int           `yaml:"max_trials"` // 0 = unlimited
	FactLimit int           `yaml:"fact_limit"` // 0 = all rows
	Seed      int64         `yaml:"seed"`       // 0 = time-based
	Test      bool          `yaml:"test"`
	TestRatio float64       `yaml:"test_ratio"`
	TestMax   int           `yaml:"test_max"` // 0 = all studied facts
}

// ExportConfig selects where the response log is written.
type ExportConfig struct {
	Path string `yaml:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	sp := spacing.DefaultConfig()
	return &Config{
		Model: ModelConfig{
			DefaultAlpha:    sp.DefaultAlpha,
			DecayScale:      sp.DecayScale,
			LatencyFactor:   sp.LatencyFactor,
			ForgetThreshold: sp.ForgetThreshold,
			Lookahead:       sp.Lookahead,
		},
		Flip: FlipConfig{
			Enabled:   sp.FlipEnabled,
			Threshold: sp.FlipThreshold,
			Polarity:  sp.FlipPolarity,
			Alpha:     sp.FlipAlpha,
		},
		Session: SessionConfig{
			Duration:  10 * time.Minute,
			TestRatio: 0.5,
		},
		Export: ExportConfig{Path: "data.csv"},
		Log:    LogConfig{Level: "info"},
	}
}

// Load builds a Config from the defaults, the YAML file at path and the
// environment. An empty path skips the file. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from FLIPSTUDY_* environment variables. Unset or
// unparsable variables leave the field unchanged.
func (c *Config) ApplyEnv() {
	c.Flip.Enabled = getEnvBool("FLIPSTUDY_FLIP_ENABLED", c.Flip.Enabled)
	c.Flip.Threshold = getEnvFloat("FLIPSTUDY_FLIP_THRESHOLD", c.Flip.Threshold)
	c.Flip.Polarity = spacing.Polarity(getEnv("FLIPSTUDY_FLIP_POLARITY", string(c.Flip.Polarity)))
	c.Session.Duration = getEnvDuration("FLIPSTUDY_SESSION_DURATION", c.Session.Duration)
	c.Session.MaxTrials = getEnvInt("FLIPSTUDY_SESSION_MAX_TRIALS", c.Session.MaxTrials)
	c.Session.Seed = int64(getEnvInt("FLIPSTUDY_SESSION_SEED", int(c.Session.Seed)))
	c.Export.Path = getEnv("FLIPSTUDY_EXPORT_PATH", c.Export.Path)
	c.Log.Level = getEnv("FLIPSTUDY_LOG_LEVEL", c.Log.Level)
}

// Validate reports the first impossible value in the configuration.
func (c *Config) Validate() error {
	if err := c.Spacing().Validate(); err != nil {
		return err
	}
	if c.Session.Duration <= 0 {
		return fmt.Errorf("invalid session duration: %s", c.Session.Duration)
	}
	if c.Session.MaxTrials < 0 {
		return fmt.Errorf("invalid max trials: %d", c.Session.MaxTrials)
	}
	if c.Session.FactLimit < 0 {
		return fmt.Errorf("invalid fact limit: %d", c.Session.FactLimit)
	}
	if c.Session.TestRatio < 0 || c.Session.TestRatio > 1 {
		return fmt.Errorf("invalid test ratio: %v (want 0..1)", c.Session.TestRatio)
	}
	if c.Session.TestMax < 0 {
		return fmt.Errorf("invalid test max: %d", c.Session.TestMax)
	}
	if strings.TrimSpace(c.Export.Path) == "" {
		return errors.New("export path is required")
	}
	return nil
}

// Spacing converts the model and flip sections into a spacing.Config.
func (c *Config) Spacing() spacing.Config {
	return spacing.Config{
		DefaultAlpha:    c.Model.DefaultAlpha,
		DecayScale:      c.Model.DecayScale,
		LatencyFactor:   c.Model.LatencyFactor,
		ForgetThreshold: c.Model.ForgetThreshold,
		Lookahead:       c.Model.Lookahead,
		FlipEnabled:     c.Flip.Enabled,
		FlipThreshold:   c.Flip.Threshold,
		FlipPolarity:    c.Flip.Polarity,
		FlipAlpha:       c.Flip.Alpha,
		Seed:            c.Session.Seed,
	}
}

// YAML renders the configuration as a YAML document.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch val {
	case "":
		return defaultVal
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		// Bare numbers are minutes, matching the --time flag.
		if mins, err := strconv.Atoi(val); err == nil {
			return time.Duration(mins) * time.Minute
		}
	}
	return defaultVal
}
