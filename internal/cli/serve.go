package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"StockForecast/internal/config"
	"StockForecast/internal/dashboard"
	"StockForecast/internal/notifier"
	"StockForecast/internal/scheduler"
)

const shutdownTimeout = 10 * time.Second

// newServeCmd creates the serve command
func newServeCmd(cfg *config.Config) *cobra.Command {
	var mock bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the forecast dashboard",
		Long: `Start the web dashboard, the cache warm-up and eviction jobs and, when
telegram.bot_token and telegram.chat_id are set, the Telegram bot.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg, mock)
		},
	}
	cmd.Flags().BoolVar(&mock, "mock", false, "Use generated data instead of a live provider")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, mock bool) error {
	log.Println("[INFO] stockforecast starting...")

	svc, cache, cleanup, err := buildService(cfg, mock, true)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	}

	sched := scheduler.NewScheduler(ctx, svc, cache, tn, cfg.Watchlist, cfg.DataSource.Period, cfg.Forecast.DigestHorizon)
	if err := sched.RegisterAll(cfg.Schedule.WarmupCron, cfg.Schedule.EvictCron, cfg.Schedule.DigestCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, warming cache now")
		go sched.RunWarmupNow()
	}

	srv := dashboard.NewServer(svc, dashboard.Options{
		Port:          cfg.Server.Port,
		APIKey:        cfg.Server.APIKey,
		CORSOrigin:    cfg.Server.CORSOrigin,
		DefaultPeriod: cfg.DataSource.Period,
	})
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Println("[INFO] shutdown signal received, stopping...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("dashboard server: %w", err)
		}
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] dashboard shutdown: %v", err)
	}
	log.Println("[INFO] stockforecast stopped")
	return nil
}
