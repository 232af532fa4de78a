package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

var overrideKeys = []string{
	"STOCKFORECAST_PORT", "API_KEY", "CORS_ALLOW_ORIGIN", "DATA_PROVIDER", "DATA_BASE_URL",
	"DATA_API_KEY", "HTTPS_PROXY", "SQLITE_PATH", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
	"WATCHLIST", "CACHE_TTL", "FORECAST_MAX_HORIZON", "FORECAST_SKIP_WEEKENDS",
}

// clearEnv blanks every override so the host environment does not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range overrideKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	cfg, err := Load("missing.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8050 {
		t.Errorf("expected port 8050, got %d", cfg.Server.Port)
	}
	if cfg.DataSource.Provider != "yahoo" || cfg.DataSource.Period != "1y" {
		t.Errorf("unexpected data source defaults %+v", cfg.DataSource)
	}
	if cfg.Cache.TTL != 15*time.Minute {
		t.Errorf("expected 15m ttl, got %v", cfg.Cache.TTL)
	}
	if cfg.Forecast.MaxHorizon != 365 || cfg.Forecast.DigestHorizon != 5 {
		t.Errorf("unexpected forecast defaults %+v", cfg.Forecast)
	}
	if cfg.Schedule.WarmupCron != "0 0 22 * * 1-5" {
		t.Errorf("unexpected warmup cron %q", cfg.Schedule.WarmupCron)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeFile(t, dir, "config.yaml", `
server:
  port: 9000
data_source:
  provider: rest
  base_url: http://bars.local
cache:
  ttl: 2m
watchlist: [AAPL, MSFT]
`)
	t.Setenv("STOCKFORECAST_PORT", "9100")
	t.Setenv("WATCHLIST", "spy, qqq ,")
	t.Setenv("FORECAST_SKIP_WEEKENDS", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("env should override port, got %d", cfg.Server.Port)
	}
	if cfg.Cache.TTL != 2*time.Minute {
		t.Errorf("expected 2m ttl, got %v", cfg.Cache.TTL)
	}
	if len(cfg.Watchlist) != 2 || cfg.Watchlist[0] != "spy" || cfg.Watchlist[1] != "qqq" {
		t.Errorf("unexpected watchlist %v", cfg.Watchlist)
	}
	if !cfg.Forecast.SkipWeekends {
		t.Error("expected skip_weekends from env")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, ".env", "API_KEY=from-dotenv\n")
	clearEnv(t)
	os.Unsetenv("API_KEY")

	cfg, err := Load("missing.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.APIKey != "from-dotenv" {
		t.Errorf("expected api key from .env, got %q", cfg.Server.APIKey)
	}
}

func TestLoad_BadEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CACHE_TTL", "soon")
	if _, err := Load("missing.yaml"); err == nil {
		t.Fatal("expected error for unparseable CACHE_TTL")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeFile(t, dir, "config.yaml", "server: [")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }},
		{"rest without url", func(c *Config) { c.DataSource.Provider = "rest" }},
		{"bad period", func(c *Config) { c.DataSource.Period = "7w" }},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"digest beyond max", func(c *Config) { c.Forecast.DigestHorizon = 400 }},
		{"bad watchlist symbol", func(c *Config) { c.Watchlist = []string{"NOT A SYMBOL"} }},
		{"telegram half configured", func(c *Config) { c.Telegram.BotToken = "tok" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("missing.yaml")
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	if got := ResolvePath(""); got != DefaultPath {
		t.Errorf("expected default path, got %q", got)
	}
	t.Setenv("CONFIG_PATH", "/etc/sf.yaml")
	if got := ResolvePath(""); got != "/etc/sf.yaml" {
		t.Errorf("expected env path, got %q", got)
	}
	if got := ResolvePath("flag.yaml"); got != "flag.yaml" {
		t.Errorf("expected flag path, got %q", got)
	}
}

func TestLoad_NegativeDisablesCacheAndHorizonLimit(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeFile(t, dir, "config.yaml", `
cache:
  ttl: -1s
forecast:
  max_horizon: -1
  digest_horizon: 400
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CacheEnabled() {
		t.Errorf("expected cache disabled, ttl=%v", cfg.Cache.TTL)
	}
	if cfg.Forecast.MaxHorizon != -1 {
		t.Errorf("expected unlimited horizon to be kept, got %d", cfg.Forecast.MaxHorizon)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestLoad_ZeroUsesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeFile(t, dir, "config.yaml", "cache:\n  ttl: 0s\nforecast:\n  max_horizon: 0\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.CacheEnabled() || cfg.Forecast.MaxHorizon != 365 {
		t.Errorf("expected defaults, got ttl=%v max_horizon=%d", cfg.Cache.TTL, cfg.Forecast.MaxHorizon)
	}
}
