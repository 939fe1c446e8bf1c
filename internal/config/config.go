package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"citypick/internal/domain"
)

// EnvPrefix prefixes environment overrides, e.g. CITYPICK_PICKER_SIZE
const EnvPrefix = "CITYPICK"

// Config represents the application configuration
type Config struct {
	Picker   PickerConfig   `mapstructure:"picker"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Tabs     []domain.Tab   `mapstructure:"tabs"`
}

// PickerConfig holds presentation settings
type PickerConfig struct {
	Title        string        `mapstructure:"title"`
	Size         int           `mapstructure:"size"`
	Layout       string        `mapstructure:"layout"`
	ShowSelected bool          `mapstructure:"show_selected"`
	Debounce     time.Duration `mapstructure:"debounce"`
}

// DatabaseConfig holds sqlite settings
type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	Dataset string `mapstructure:"dataset"` // TOML seed; empty means the embedded one
}

// LogConfig holds log file settings
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// MetricsConfig holds the prometheus endpoint
type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // empty disables the endpoint
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// NewConfigService creates a config service for path. An empty path means
// $CITYPICK_CONFIG, then the user config directory.
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path == "" {
		path = filepath.Join(configDir(), "config.toml")
	}
	return &configService{filePath: path}
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		dir, err = os.UserHomeDir()
		if err != nil {
			dir = "."
		}
		dir = filepath.Join(dir, ".config")
	}
	return filepath.Join(dir, "citypick")
}

func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".local", "share", "citypick")
}

func (cs *configService) Path() string { return cs.filePath }

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("picker.title", d.Picker.Title)
	v.SetDefault("picker.size", d.Picker.Size)
	v.SetDefault("picker.layout", d.Picker.Layout)
	v.SetDefault("picker.show_selected", d.Picker.ShowSelected)
	v.SetDefault("picker.debounce", d.Picker.Debounce)
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("database.dataset", d.Database.Dataset)
	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
}

// Load reads the config file if present, then environment overrides
func (cs *configService) Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	v.SetConfigFile(cs.filePath)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// A missing file means defaults; anything else is a broken file
		if _, statErr := os.Stat(cs.filePath); !os.IsNotExist(statErr) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(cfg.Tabs) == 0 {
		cfg.Tabs = domain.DefaultTabs()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config as TOML, creating the config directory if needed
func (cs *configService) Save(config *Config) error {
	if err := os.MkdirAll(filepath.Dir(cs.filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("picker.title", config.Picker.Title)
	v.Set("picker.size", config.Picker.Size)
	v.Set("picker.layout", config.Picker.Layout)
	v.Set("picker.show_selected", config.Picker.ShowSelected)
	v.Set("picker.debounce", config.Picker.Debounce.String())
	v.Set("database.path", config.Database.Path)
	v.Set("database.dataset", config.Database.Dataset)
	v.Set("log.path", config.Log.Path)
	v.Set("log.level", config.Log.Level)
	v.Set("metrics.addr", config.Metrics.Addr)

	tabs := make([]map[string]any, 0, len(config.Tabs))
	for _, t := range config.Tabs {
		tabs = append(tabs, map[string]any{"key": t.Key, "title": t.Title, "source": t.Source})
	}
	v.Set("tabs", tabs)

	if err := v.WriteConfigAs(cs.filePath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate rejects settings the picker cannot run with
func (c *Config) Validate() error {
	if c.Picker.Size < 1 {
		return fmt.Errorf("picker.size must be at least 1, got %d", c.Picker.Size)
	}
	seen := make(map[string]bool, len(c.Tabs))
	for _, t := range c.Tabs {
		if t.Key == "" {
			return fmt.Errorf("tab %q has no key", t.Title)
		}
		if seen[t.Key] {
			return fmt.Errorf("duplicate tab key %q", t.Key)
		}
		seen[t.Key] = true
		switch t.Source {
		case domain.SourceChina, domain.SourceForeign:
		default:
			return fmt.Errorf("tab %q: unknown source %q", t.Key, t.Source)
		}
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses the configured log level
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Picker: PickerConfig{
			Title:        "Select a city",
			Size:         1,
			Layout:       "popup",
			ShowSelected: true,
			Debounce:     500 * time.Millisecond,
		},
		Database: DatabaseConfig{
			Path: filepath.Join(dataDir(), "citypick.db"),
		},
		Log: LogConfig{
			Path:  "citypick.log",
			Level: "info",
		},
		Tabs: domain.DefaultTabs(),
	}
}
