// Package cli wires configuration, providers and services into the
// stockforecast command tree.
package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"StockForecast/internal/collector"
	"StockForecast/internal/config"
	"StockForecast/internal/forecast"
	"StockForecast/internal/recorder"
	"StockForecast/internal/service"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var cfgPath string
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "stockforecast",
		Short: "Stock price history and Holt trend forecasts",
		Long: `stockforecast fetches daily closing prices and projects them forward with
Holt's linear trend method. Run "serve" for the dashboard or use the
forecast and history commands directly from the terminal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(config.ResolvePath(cfgPath))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := loaded.Validate(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			*cfg = *loaded
			return nil
		},
	}

	rootCmd.AddCommand(newServeCmd(cfg))
	rootCmd.AddCommand(newForecastCmd(cfg))
	rootCmd.AddCommand(newHistoryCmd(cfg))

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Configuration file path (default $CONFIG_PATH or "+config.DefaultPath+")")

	return rootCmd
}

// newForecastCmd creates the forecast command
func newForecastCmd(cfg *config.Config) *cobra.Command {
	var (
		days   int
		period string
		mock   bool
	)
	cmd := &cobra.Command{
		Use:   "forecast SYMBOL",
		Short: "Forecast closing prices for a symbol",
		Example: `  stockforecast forecast AAPL --days 10
  stockforecast forecast MSFT --days 30 --period 2y`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 0 {
				return fmt.Errorf("--days must not be negative")
			}
			if period == "" {
				period = cfg.DataSource.Period
			}
			svc, _, cleanup, err := buildService(cfg, mock, false)
			if err != nil {
				return err
			}
			defer cleanup()

			series, res, err := svc.Forecast(cmd.Context(), args[0], period, days, "cli")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderForecast(series, res))
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 10, "Number of days to forecast")
	cmd.Flags().StringVar(&period, "period", "", "History period (1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max)")
	cmd.Flags().BoolVar(&mock, "mock", false, "Use generated data instead of a live provider")
	return cmd
}

// newHistoryCmd creates the history command
func newHistoryCmd(cfg *config.Config) *cobra.Command {
	var (
		period string
		rows   int
		mock   bool
	)
	cmd := &cobra.Command{
		Use:   "history SYMBOL",
		Short: "Show recent closing prices and summary statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if period == "" {
				period = cfg.DataSource.Period
			}
			svc, _, cleanup, err := buildService(cfg, mock, false)
			if err != nil {
				return err
			}
			defer cleanup()

			series, err := svc.History(cmd.Context(), args[0], period)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderHistory(series, rows))
			return nil
		},
	}
	cmd.Flags().StringVar(&period, "period", "", "History period (1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max)")
	cmd.Flags().IntVar(&rows, "rows", 10, "Number of recent rows to print")
	cmd.Flags().BoolVar(&mock, "mock", false, "Use generated data instead of a live provider")
	return cmd
}

// newFetcher picks the configured price history provider.
func newFetcher(cfg *config.Config, mock bool) (collector.Fetcher, error) {
	if mock {
		return &collector.MockFetcher{Price: 100}, nil
	}
	switch cfg.DataSource.Provider {
	case "yahoo":
		return collector.NewYahooFetcher(cfg.Proxy), nil
	case "financego":
		return collector.NewFinanceGoFetcher(), nil
	case "rest":
		return collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy), nil
	case "mock":
		return &collector.MockFetcher{Price: 100}, nil
	default:
		return nil, fmt.Errorf("unknown data provider %q", cfg.DataSource.Provider)
	}
}

// newRecorder opens the SQLite recorder, falling back to noop.
func newRecorder(path string) recorder.Recorder {
	if path == "" {
		return recorder.NewNoopRecorder()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("[WARN] create data dir failed, using noop recorder: %v", err)
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(path)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}

// buildService assembles fetcher, optional cache, collector, forecaster and
// recorder. The returned cleanup closes the recorder.
func buildService(cfg *config.Config, mock, cached bool) (*service.Service, *collector.CachedFetcher, func(), error) {
	fetcher, err := newFetcher(cfg, mock)
	if err != nil {
		return nil, nil, nil, err
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	var cache *collector.CachedFetcher
	if cached && cfg.CacheEnabled() {
		cache = collector.NewCachedFetcher(fetcher, cfg.Cache.TTL)
		fetcher = cache
	}

	rec := newRecorder(cfg.Database.SQLitePath)
	svc := service.New(
		collector.NewCollector(fetcher),
		forecast.Forecaster{SkipWeekends: cfg.Forecast.SkipWeekends},
		rec,
		cfg.Forecast.MaxHorizon,
	)
	cleanup := func() {
		if err := rec.Close(); err != nil {
			log.Printf("[WARN] close recorder: %v", err)
		}
	}
	return svc, cache, cleanup, nil
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
