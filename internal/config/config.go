// Package config loads layered configuration: defaults, an optional YAML
// file, a .env file and WS101_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix is the prefix of environment overrides, e.g. WS101_SERVER_ADDR.
const EnvPrefix = "WS101"

// Config is the full application configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Market  MarketConfig  `mapstructure:"market"`
	Server  ServerConfig  `mapstructure:"server"`
	Journal JournalConfig `mapstructure:"journal"`
	Catalog CatalogConfig `mapstructure:"catalog"`
}

// LogConfig controls the rotating log file.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`

	// Console also writes logs to stderr. Never enable it under the TUI.
	Console bool `mapstructure:"console"`
}

// MarketConfig tunes the market data client.
type MarketConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	ShortTTL  time.Duration `mapstructure:"short_ttl"`
	LongTTL   time.Duration `mapstructure:"long_ttl"`
	RateLimit float64       `mapstructure:"rate_limit"`
	Burst     int           `mapstructure:"burst"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr          string        `mapstructure:"addr"`
	Mode          string        `mapstructure:"mode"` // gin mode: debug, release or test
	SessionIdle   time.Duration `mapstructure:"session_idle"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	Metrics       bool          `mapstructure:"metrics"`
}

// JournalConfig selects the event journal database.
type JournalConfig struct {
	// DSN is a sqlite DSN or file path. Empty uses an in-memory database.
	DSN string `mapstructure:"dsn"`
}

// CatalogConfig points at a custom catalog.
type CatalogConfig struct {
	// Path is a catalog JSON file. Empty uses the embedded catalog.
	Path string `mapstructure:"path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:      "info",
			File:       DefaultLogPath(),
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Market: MarketConfig{
			BaseURL:   "https://query1.finance.yahoo.com",
			Timeout:   10 * time.Second,
			ShortTTL:  10 * time.Minute,
			LongTTL:   time.Hour,
			RateLimit: 4,
			Burst:     8,
		},
		Server: ServerConfig{
			Addr:          ":8080",
			Mode:          "release",
			SessionIdle:   30 * time.Minute,
			SweepInterval: time.Minute,
			Metrics:       true,
		},
	}
}

// DefaultLogPath returns $XDG_STATE_HOME/ws101/ws101.log, falling back to
// ~/.local/state.
func DefaultLogPath() string {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "ws101", "ws101.log")
		}
		base = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(base, "ws101", "ws101.log")
}

func configDir() string {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, "ws101")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "ws101")
	}
	return ""
}

// LoadOptions controls where Load looks.
type LoadOptions struct {
	// File is an explicit YAML file. It must exist when set.
	File string

	// SearchPaths are searched for ws101.yaml when File is empty. Nil
	// searches the working directory and the XDG config directory.
	SearchPaths []string

	// EnvFile is the dotenv file to load. Empty uses ".env". A missing file
	// is ignored.
	EnvFile string
}

// Load reads the configuration layers over Default and validates the result.
func Load(opts LoadOptions) (Config, error) {
	if err := loadDotEnv(opts.EnvFile); err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v, Default())

	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", opts.File, err)
		}
	} else {
		v.SetConfigName("ws101")
		v.SetConfigType("yaml")
		paths := opts.SearchPaths
		if paths == nil {
			paths = []string{"."}
			if dir := configDir(); dir != "" {
				paths = append(paths, dir)
			}
		}
		for _, p := range paths {
			v.AddConfigPath(p)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// setDefaults registers every key so environment overrides apply to keys
// that no file sets.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
	v.SetDefault("log.compress", d.Log.Compress)
	v.SetDefault("log.console", d.Log.Console)

	v.SetDefault("market.base_url", d.Market.BaseURL)
	v.SetDefault("market.timeout", d.Market.Timeout)
	v.SetDefault("market.short_ttl", d.Market.ShortTTL)
	v.SetDefault("market.long_ttl", d.Market.LongTTL)
	v.SetDefault("market.rate_limit", d.Market.RateLimit)
	v.SetDefault("market.burst", d.Market.Burst)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.session_idle", d.Server.SessionIdle)
	v.SetDefault("server.sweep_interval", d.Server.SweepInterval)
	v.SetDefault("server.metrics", d.Server.Metrics)

	v.SetDefault("journal.dsn", d.Journal.DSN)
	v.SetDefault("catalog.path", d.Catalog.Path)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.MaxSizeMB <= 0 {
		return fmt.Errorf("log.max_size_mb must be positive, got %d", c.Log.MaxSizeMB)
	}
	if c.Market.BaseURL == "" {
		return errors.New("market.base_url must be set")
	}
	if c.Market.Timeout <= 0 {
		return fmt.Errorf("market.timeout must be positive, got %s", c.Market.Timeout)
	}
	if c.Market.ShortTTL <= 0 || c.Market.LongTTL <= 0 {
		return errors.New("market cache TTLs must be positive")
	}
	if c.Market.RateLimit <= 0 || c.Market.Burst <= 0 {
		return errors.New("market.rate_limit and market.burst must be positive")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode)
	}
	if c.Server.SessionIdle <= 0 || c.Server.SweepInterval <= 0 {
		return errors.New("server.session_idle and server.sweep_interval must be positive")
	}
	return nil
}
