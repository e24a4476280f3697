// Package config loads loom runtime configuration from YAML files and
// environment variables.
package config

import (
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	loomerrors "github.com/loomtui/loom/pkg/errors"
	"github.com/loomtui/loom/pkg/theme"
)

// Default configuration values exported for documentation and validation
const (
	DefaultTheme          = "default"
	DefaultTickRateMs     = 16
	DefaultInvalidateRate = 120
	DefaultMessageBuffer  = 128
	DefaultMetricsAddr    = "127.0.0.1:9190"
	DefaultLogLevel       = "info"
)

// Config is the complete loom runtime configuration.
type Config struct {
	Theme   ThemeConfig   `yaml:"theme"`
	Render  RenderConfig  `yaml:"render"`
	Input   InputConfig   `yaml:"input"`
	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
}

// ThemeConfig selects the theme. A file path wins over a built-in name.
type ThemeConfig struct {
	Name  string `yaml:"name"`  // Built-in theme: default, light
	Path  string `yaml:"path"`  // Theme file; overrides Name
	Watch bool   `yaml:"watch"` // Hot-reload the file on change
}

// RenderConfig controls the frame loop.
type RenderConfig struct {
	TickRateMs     int `yaml:"tick_rate_ms"`    // Animation tick interval; 0 disables ticks
	InvalidateRate int `yaml:"invalidate_rate"` // Honored invalidations per second
}

// InputConfig controls terminal input handling.
type InputConfig struct {
	Mouse          bool `yaml:"mouse"`
	BracketedPaste bool `yaml:"bracketed_paste"`
	MessageBuffer  int  `yaml:"message_buffer"` // Queued messages before drops
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Empty logs to stderr
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		Theme: ThemeConfig{
			Name: DefaultTheme,
		},
		Render: RenderConfig{
			TickRateMs:     DefaultTickRateMs,
			InvalidateRate: DefaultInvalidateRate,
		},
		Input: InputConfig{
			Mouse:          true,
			BracketedPaste: true,
			MessageBuffer:  DefaultMessageBuffer,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    DefaultMetricsAddr,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Load reads configuration with the usual precedence: defaults, then the
// user config (~/.loom/config.yaml), then the project config
// (./.loom/config.yaml), then environment variables.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	if home != "" {
		userPath := filepath.Join(home, ".loom", "config.yaml")
		if err := loadAndMerge(cfg, userPath); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	projectPath := filepath.Join(".", ".loom", "config.yaml")
	if err := loadAndMerge(cfg, projectPath); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath reads configuration from a specific file, still applying
// defaults underneath and environment variables on top.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := loadAndMerge(cfg, path); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadAndMerge unmarshals a YAML file into cfg in place. Absent keys keep
// their current values, which is what gives later files precedence over
// earlier ones without a separate merge pass.
func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		return loomerrors.Wrap(err, loomerrors.ErrCodeConfigLoad, "read config file").
			WithContext("path", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return loomerrors.Wrap(err, loomerrors.ErrCodeConfigParse, "parse config file").
			WithContext("path", path)
	}
	return nil
}

// applyEnvOverrides applies LOOM_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOOM_THEME"); v != "" {
		cfg.Theme.Name = v
	}
	if v := os.Getenv("LOOM_THEME_PATH"); v != "" {
		cfg.Theme.Path = v
	}
	if val, ok := envBool("LOOM_THEME_WATCH"); ok {
		cfg.Theme.Watch = val
	}
	if val, ok := envInt("LOOM_TICK_RATE_MS"); ok {
		cfg.Render.TickRateMs = val
	}
	if val, ok := envInt("LOOM_INVALIDATE_RATE"); ok {
		cfg.Render.InvalidateRate = val
	}
	if val, ok := envBool("LOOM_MOUSE"); ok {
		cfg.Input.Mouse = val
	}
	if val, ok := envInt("LOOM_MESSAGE_BUFFER"); ok {
		cfg.Input.MessageBuffer = val
	}
	if v := os.Getenv("LOOM_METRICS_ADDR"); v != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("LOOM_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOOM_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

func envBool(key string) (bool, bool) {
	val := os.Getenv(key)
	if val == "" {
		return false, false
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

func envInt(key string) (int, bool) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return 0, false
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Validate checks the configuration for values the runtime cannot use.
func (c *Config) Validate() error {
	if c.Theme.Path == "" && theme.Lookup(c.Theme.Name) == nil {
		return loomerrors.New(loomerrors.ErrCodeConfigInvalid, "unknown theme").
			WithContext("theme", c.Theme.Name).
			WithRemediation("use default or light, or set theme.path to a theme file")
	}
	if c.Render.TickRateMs < 0 {
		return loomerrors.New(loomerrors.ErrCodeConfigInvalid, "tick rate must not be negative").
			WithContext("tick_rate_ms", c.Render.TickRateMs)
	}
	if c.Render.InvalidateRate <= 0 {
		return loomerrors.New(loomerrors.ErrCodeConfigInvalid, "invalidate rate must be positive").
			WithContext("invalidate_rate", c.Render.InvalidateRate)
	}
	if c.Input.MessageBuffer <= 0 {
		return loomerrors.New(loomerrors.ErrCodeConfigInvalid, "message buffer must be positive").
			WithContext("message_buffer", c.Input.MessageBuffer)
	}
	if c.Metrics.Enabled {
		if _, _, err := net.SplitHostPort(c.Metrics.Addr); err != nil {
			return loomerrors.Wrap(err, loomerrors.ErrCodeConfigInvalid, "metrics address must be host:port").
				WithContext("addr", c.Metrics.Addr)
		}
	}
	if _, ok := parseLogLevel(c.Log.Level); !ok {
		return loomerrors.New(loomerrors.ErrCodeConfigInvalid, "unknown log level").
			WithContext("level", c.Log.Level).
			WithRemediation("use debug, info, warn, or error")
	}
	return nil
}

// TickRate returns the animation tick interval. A zero tick_rate_ms disables
// ticking, which NewApp expects as a negative duration.
func (c *Config) TickRate() time.Duration {
	if c.Render.TickRateMs <= 0 {
		return -1
	}
	return time.Duration(c.Render.TickRateMs) * time.Millisecond
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() slog.Level {
	level, _ := parseLogLevel(c.Log.Level)
	return level
}

func parseLogLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// ApplyEnvOverridesForTest exposes env override logic for tests without file I/O.
func ApplyEnvOverridesForTest(cfg *Config) {
	applyEnvOverrides(cfg)
}

// ResolveTheme loads the configured theme: the file at theme.path when set,
// otherwise the built-in theme by name.
func (c *Config) ResolveTheme() (*theme.Theme, error) {
	if c.Theme.Path != "" {
		return theme.Load(c.Theme.Path)
	}
	if th := theme.Lookup(c.Theme.Name); th != nil {
		return th, nil
	}
	return nil, loomerrors.New(loomerrors.ErrCodeConfigInvalid, "unknown theme").
		WithContext("theme", c.Theme.Name)
}
