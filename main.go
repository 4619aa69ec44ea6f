package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"sjsage522/vintedscout/config"
	"sjsage522/vintedscout/helpers"
	"sjsage522/vintedscout/internal/client"
	"sjsage522/vintedscout/internal/criteria"
	"sjsage522/vintedscout/internal/market"
	"sjsage522/vintedscout/internal/pacer"
	"sjsage522/vintedscout/internal/pipeline"
	"sjsage522/vintedscout/logger"
	scouterr "sjsage522/vintedscout/pkg/errors"
	"sjsage522/vintedscout/services/cache"
	"sjsage522/vintedscout/services/publisher"
	"sjsage522/vintedscout/services/reporter"
	"sjsage522/vintedscout/services/worker"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	searchCriteria, err := criteria.Parse(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatal().Err(err).Msg("Invalid search criteria")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("search", searchCriteria.SearchText).
		Str("mode", string(searchCriteria.SortMode)).
		Str("max_age", string(searchCriteria.MaxAge)).
		Dur("run_interval", cfg.RunInterval).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services := initializeServices(ctx, cfg)
	defer services.Cleanup()

	w := newWorker(ctx, cfg, searchCriteria, services, os.Stdout)

	// Start worker in a goroutine
	workerDone := make(chan error, 1)
	go func() {
		workerDone <- w.Start()
	}()

	// Wait for shutdown signal or worker completion
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
		<-workerDone
	case err := <-workerDone:
		if err != nil {
			services.Cleanup()
			withFailureDetails(log.Fatal(), err).Msg("Run failed")
		}
	}

	log.Info().Msg("Shutting down gracefully...")
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		if err := s.Publisher.Close(); err != nil {
			logger.LogError("publisher", err, "Failed to close publisher")
		}
		s.Publisher = nil
	}
}

// initializeServices connects the optional backing stores. Unreachable
// stores are logged and replaced by their in-process fallback or left out.
func initializeServices(ctx context.Context, cfg *config.Config) *Services {
	log := logger.Default
	services := &Services{Cache: cache.NewMemoryService()}

	if cfg.MemcacheAddr != "" {
		memcacheService := cache.NewMemcacheService(cfg.MemcacheAddr)
		if err := memcacheService.Ping(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.MemcacheAddr).Msg("Memcache unavailable, keeping cooldown in process")
		} else {
			services.Cache = memcacheService
			log.Info().Str("addr", cfg.MemcacheAddr).Msg("Connected to Memcache")
		}
	}

	if cfg.RedisAddr != "" {
		redisPublisher := publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamMaxLength,
		)
		if err := redisPublisher.Ping(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, matches will not be published")
			redisPublisher.Close()
		} else {
			services.Publisher = redisPublisher
			log.Info().
				Str("addr", cfg.RedisAddr).
				Int("db", cfg.RedisDB).
				Str("stream", cfg.RedisStream).
				Msg("Connected to Redis")
		}
	}

	return services
}

// withFailureDetails adds the upstream answer behind err, if any, to event
func withFailureDetails(event *zerolog.Event, err error) *zerolog.Event {
	event = event.Err(err).Str("error_type", string(scouterr.TypeOf(err)))

	var remoteErr *scouterr.RemoteRequestError
	if errors.As(err, &remoteErr) {
		event = event.
			Str("url", remoteErr.URL).
			Int("status", remoteErr.Status).
			Time("answered_at", remoteErr.Time)
	}
	return event
}

// newWorker wires the client, pacer and pipeline into a worker reporting to out
func newWorker(ctx context.Context, cfg *config.Config, c market.SearchCriteria, services *Services, out io.Writer) *worker.Worker {
	apiClient := client.New(client.Options{
		ProfileURL: cfg.ProfileURL,
		Headers:    cfg.Headers(),
		HTTPClient: helpers.NewClient(cfg.RequestTimeout),
		Cooldown:   cache.NewCooldown(services.Cache, cfg.BlockTime),
	})

	p := pacer.New(cfg.PauseMin, cfg.PauseMax, pacer.WithRatePerMinute(cfg.ProfileRatePerMinute))

	return worker.NewWorker(ctx, worker.Options{
		Items:     apiClient,
		Evaluator: pipeline.New(apiClient, p, cfg.WebsiteURL),
		Reporter:  reporter.NewTextReporter(out),
		Publisher: services.Publisher,
		ItemsURL:  cfg.ItemsURL,
		Criteria:  c,
		Interval:  cfg.RunInterval,
	})
}
