package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config keeps runtime settings for the tracker.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	HTTP     HTTPConfig     `mapstructure:"http" yaml:"http"`
	Telegram TelegramConfig `mapstructure:"telegram" yaml:"telegram"`
	Tracker  TrackerConfig  `mapstructure:"tracker" yaml:"tracker"`
	Streak   StreakConfig   `mapstructure:"streak" yaml:"streak"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"` // sqlite | postgres
	URL    string `mapstructure:"url" yaml:"url"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

type TelegramConfig struct {
	Token               string `mapstructure:"token" yaml:"token"`
	ReportIntervalHours int    `mapstructure:"report_interval_hours" yaml:"report_interval_hours"`
}

type TrackerConfig struct {
	RefreshTime    string `mapstructure:"refresh_time" yaml:"refresh_time"` // HH:MM
	SessionMinutes int    `mapstructure:"session_minutes" yaml:"session_minutes"`
}

type StreakConfig struct {
	// CalendarDays makes streaks require dates exactly one day apart.
	CalendarDays bool `mapstructure:"calendar_days" yaml:"calendar_days"`
}

// ReportInterval is the period between Telegram summaries; zero disables them.
func (c Config) ReportInterval() time.Duration {
	if c.Telegram.ReportIntervalHours <= 0 {
		return 0
	}
	return time.Duration(c.Telegram.ReportIntervalHours) * time.Hour
}

// Default returns a Config populated with sane defaults.
func Default() Config {
	return Config{
		Database: DatabaseConfig{Driver: "sqlite", URL: "focus_tracker.db"},
		HTTP:     HTTPConfig{Addr: ":8080"},
		Telegram: TelegramConfig{ReportIntervalHours: 5},
		Tracker:  TrackerConfig{RefreshTime: "00:05", SessionMinutes: 25},
	}
}

// envBindings keeps the variable names the deployment already uses.
var envBindings = map[string]string{
	"database.driver":                "DATABASE_DRIVER",
	"database.url":                   "DATABASE_URL",
	"http.addr":                      "HTTP_ADDR",
	"telegram.token":                 "TELEGRAM_TOKEN",
	"telegram.report_interval_hours": "REPORT_INTERVAL_HOURS",
	"tracker.refresh_time":           "TRACKER_REFRESH_TIME",
	"streak.calendar_days":           "STREAK_CALENDAR_DAYS",
}

// Load reads configuration from defaults, an optional YAML file and environment
// variables, in increasing priority. An empty path skips the file.
func Load(path string) (Config, error) {
	def := Default()
	v := viper.New()
	v.SetDefault("database.driver", def.Database.Driver)
	v.SetDefault("database.url", def.Database.URL)
	v.SetDefault("http.addr", def.HTTP.Addr)
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.report_interval_hours", def.Telegram.ReportIntervalHours)
	v.SetDefault("tracker.refresh_time", def.Tracker.RefreshTime)
	v.SetDefault("tracker.session_minutes", def.Tracker.SessionMinutes)
	v.SetDefault("streak.calendar_days", def.Streak.CalendarDays)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Telegram.Token = strings.TrimSpace(cfg.Telegram.Token)
	cfg.Database.URL = strings.TrimSpace(cfg.Database.URL)

	return cfg, cfg.Validate()
}

// Validate checks values that would otherwise fail deep inside startup.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Database.Driver == "postgres" && c.Database.URL == "" {
		return errors.New("database.url is required for postgres")
	}
	if c.Tracker.SessionMinutes <= 0 {
		return errors.New("tracker.session_minutes must be positive")
	}
	return nil
}

// Write stores cfg as YAML at path, creating parent directories.
func Write(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
