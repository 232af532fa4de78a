package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"StockForecast/internal/collector"
	"StockForecast/internal/forecast"
	"StockForecast/internal/notifier"
	"StockForecast/internal/service"
	"StockForecast/internal/strategy"
)

// Scheduler manages cache warm-up, eviction and the Telegram digest.
type Scheduler struct {
	Cron          *cron.Cron
	Service       *service.Service
	Cache         *collector.CachedFetcher
	Notifier      *notifier.TelegramNotifier
	Watchlist     []string
	Period        string
	DigestHorizon int
	Ctx           context.Context

	now func() time.Time
}

// NewScheduler creates a new Scheduler. cache and tn may be nil.
func NewScheduler(ctx context.Context, svc *service.Service, cache *collector.CachedFetcher, tn *notifier.TelegramNotifier, watchlist []string, period string, digestHorizon int) *Scheduler {
	return &Scheduler{
		Cron:          cron.New(cron.WithSeconds()),
		Service:       svc,
		Cache:         cache,
		Notifier:      tn,
		Watchlist:     watchlist,
		Period:        period,
		DigestHorizon: digestHorizon,
		Ctx:           ctx,
		now:           time.Now,
	}
}

// RegisterAll registers the warm-up, eviction and digest jobs.
func (s *Scheduler) RegisterAll(warmupCron, evictCron, digestCron string) error {
	if s.Cache != nil {
		if _, err := s.Cron.AddFunc(warmupCron, s.warmup); err != nil {
			return fmt.Errorf("register warmup task: %w", err)
		}
		if _, err := s.Cron.AddFunc(evictCron, s.evict); err != nil {
			return fmt.Errorf("register evict task: %w", err)
		}
	}
	if s.Notifier.Enabled() {
		if _, err := s.Cron.AddFunc(digestCron, s.digest); err != nil {
			return fmt.Errorf("register digest task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Printf("[INFO] scheduler started with %d jobs", len(s.Cron.Entries()))
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunWarmupNow fills the cache immediately (for RUN_ON_START style use).
func (s *Scheduler) RunWarmupNow() {
	if s.Cache != nil {
		s.warmup()
	}
}

func (s *Scheduler) warmup() {
	if len(s.Watchlist) == 0 {
		return
	}
	log.Printf("[INFO] warming cache for %d symbols", len(s.Watchlist))
	n := s.Cache.Warm(s.Ctx, s.Watchlist, s.Period)
	log.Printf("[INFO] cache warm-up done: %d/%d symbols", n, len(s.Watchlist))
}

func (s *Scheduler) evict() {
	if n := s.Cache.Evict(); n > 0 {
		log.Printf("[INFO] evicted %d cache entries, %d remain", n, s.Cache.Len())
	}
}

func (s *Scheduler) digest() {
	log.Println("[INFO] running forecast digest")
	s.trySend(s.Digest(s.Ctx))
}

// Digest forecasts every watchlist symbol and renders one message.
func (s *Scheduler) Digest(ctx context.Context) string {
	lines := make([]notifier.DigestLine, 0, len(s.Watchlist))
	for _, sym := range s.Watchlist {
		line := notifier.DigestLine{Symbol: collector.NormalizeSymbol(sym)}
		series, res, err := s.Service.Forecast(ctx, sym, s.Period, s.DigestHorizon, "digest")
		if err != nil {
			log.Printf("[WARN] digest forecast %s: %v", sym, err)
			line.Err = err
			lines = append(lines, line)
			continue
		}
		if last, ok := series.Last(); ok {
			line.Last = last.Price
		}
		line.Target = line.Last
		if n := len(res.Prices); n > 0 {
			line.Target = res.Prices[n-1]
		}
		lines = append(lines, line)
	}
	return notifier.FormatDigest(lines, s.DigestHorizon, s.now())
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.HelpText()
	}
	// strip the @botname suffix Telegram adds in group chats
	name, _, _ := strings.Cut(fields[0], "@")
	args := fields[1:]

	switch name {
	case "/forecast":
		if len(args) == 0 {
			return "Usage: /forecast SYMBOL [DAYS]"
		}
		days := s.DigestHorizon
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				return fmt.Sprintf("❌ invalid days %q", args[1])
			}
			days = n
		}
		series, res, err := s.Service.Forecast(ctx, args[0], s.Period, days, "telegram")
		if err != nil {
			return "❌ " + s.describe(err)
		}
		st := collector.Summarize(series)
		return notifier.FormatForecast(st, res, strategy.Evaluate(st, res))
	case "/history":
		if len(args) == 0 {
			return "Usage: /history SYMBOL"
		}
		series, err := s.Service.History(ctx, args[0], s.Period)
		if err != nil {
			return "❌ " + s.describe(err)
		}
		return notifier.FormatSummary(collector.Summarize(series))
	case "/watchlist":
		if len(s.Watchlist) == 0 {
			return "Watchlist is empty"
		}
		return "Watchlist: " + strings.Join(s.Watchlist, ", ")
	default:
		return notifier.HelpText()
	}
}

// describe turns service errors into short user-facing text.
func (s *Scheduler) describe(err error) string {
	var fitErr *forecast.FitError
	switch {
	case errors.As(err, &fitErr):
		return fitErr.Error()
	case errors.Is(err, collector.ErrInvalidSymbol):
		return "invalid symbol"
	case errors.Is(err, collector.ErrNoData):
		return "no data for symbol"
	case errors.Is(err, service.ErrHorizonTooLarge):
		return fmt.Sprintf("at most %d days", s.Service.MaxHorizon)
	default:
		return "data source unavailable"
	}
}
