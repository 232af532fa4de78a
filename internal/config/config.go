package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"StockForecast/internal/collector"
)

// DefaultPath is used when neither a flag nor CONFIG_PATH names a file.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port       int    `yaml:"port"`
		APIKey     string `yaml:"api_key"`
		CORSOrigin string `yaml:"cors_origin"`
	} `yaml:"server"`
	DataSource struct {
		Provider string `yaml:"provider"`
		BaseURL  string `yaml:"base_url"`
		APIKey   string `yaml:"api_key"`
		Period   string `yaml:"period"`
	} `yaml:"data_source"`
	Cache struct {
		// TTL of 0 uses the default; a negative TTL disables the cache.
		TTL time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
	Forecast struct {
		// MaxHorizon of 0 uses the default; a negative value removes the limit.
		MaxHorizon    int  `yaml:"max_horizon"`
		SkipWeekends  bool `yaml:"skip_weekends"`
		DigestHorizon int  `yaml:"digest_horizon"`
	} `yaml:"forecast"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		WarmupCron string `yaml:"warmup_cron"`
		EvictCron  string `yaml:"evict_cron"`
		DigestCron string `yaml:"digest_cron"`
	} `yaml:"schedule"`
	Watchlist []string `yaml:"watchlist"`
	Telegram  struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// Providers lists the accepted data_source.provider values.
var Providers = []string{"yahoo", "financego", "rest", "mock"}

// ResolvePath picks the config file: explicit flag, then CONFIG_PATH, then DefaultPath.
func ResolvePath(flag string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file, loads .env, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env never overrides variables already set in the process
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("STOCKFORECAST_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("STOCKFORECAST_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("CORS_ALLOW_ORIGIN"); v != "" {
		cfg.Server.CORSOrigin = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Watchlist = nil
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				cfg.Watchlist = append(cfg.Watchlist, s)
			}
		}
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CACHE_TTL: %w", err)
		}
		cfg.Cache.TTL = ttl
	}
	if v := os.Getenv("FORECAST_MAX_HORIZON"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FORECAST_MAX_HORIZON: %w", err)
		}
		cfg.Forecast.MaxHorizon = n
	}
	if v := os.Getenv("FORECAST_SKIP_WEEKENDS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("FORECAST_SKIP_WEEKENDS: %w", err)
		}
		cfg.Forecast.SkipWeekends = b
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8050
	}
	if cfg.Server.CORSOrigin == "" {
		cfg.Server.CORSOrigin = "*"
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.DataSource.Period == "" {
		cfg.DataSource.Period = collector.DefaultPeriod
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 15 * time.Minute
	}
	if cfg.Forecast.MaxHorizon == 0 {
		cfg.Forecast.MaxHorizon = 365
	}
	if cfg.Forecast.DigestHorizon == 0 {
		cfg.Forecast.DigestHorizon = 5
	}
	if cfg.Schedule.WarmupCron == "" {
		cfg.Schedule.WarmupCron = "0 0 22 * * 1-5"
	}
	if cfg.Schedule.EvictCron == "" {
		cfg.Schedule.EvictCron = "0 */10 * * * *"
	}
	if cfg.Schedule.DigestCron == "" {
		cfg.Schedule.DigestCron = "0 0 8 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stockforecast.db"
	}
}

// CacheEnabled reports whether fetched series are cached.
func (c *Config) CacheEnabled() bool { return c.Cache.TTL > 0 }

// TelegramEnabled reports whether the bot token and chat are both set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that all settings are usable.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	known := false
	for _, p := range Providers {
		if c.DataSource.Provider == p {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("data_source.provider must be one of %s", strings.Join(Providers, ", "))
	}
	if c.DataSource.Provider == "rest" && c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required for the rest provider")
	}
	if !collector.ValidPeriod(c.DataSource.Period) {
		return fmt.Errorf("data_source.period %q is not supported", c.DataSource.Period)
	}
	if c.Forecast.DigestHorizon < 0 || (c.Forecast.MaxHorizon > 0 && c.Forecast.DigestHorizon > c.Forecast.MaxHorizon) {
		return fmt.Errorf("forecast.digest_horizon must be between 0 and %d", c.Forecast.MaxHorizon)
	}
	for _, s := range c.Watchlist {
		if err := collector.ValidateSymbol(collector.NormalizeSymbol(s)); err != nil {
			return fmt.Errorf("watchlist: %w", err)
		}
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}
