// cmd/worker-manager/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"

	"donor-field-workers/internal/common/camunda"
	"donor-field-workers/internal/common/config"
	"donor-field-workers/internal/common/database"
	"donor-field-workers/internal/common/health"
	"donor-field-workers/internal/common/logger"
	"donor-field-workers/internal/common/observability"
	"donor-field-workers/internal/countryrules"

	mi "donor-field-workers/internal/workers/donor/mask-identifier"
	mp "donor-field-workers/internal/workers/donor/mask-phone"
	vdf "donor-field-workers/internal/workers/donor/validate-donor-fields"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// countrySource is the configured Country record backend plus its
// readiness checks and cleanup.
type countrySource struct {
	source  countryrules.Source
	checks  map[string]health.Check
	closers []func() error
}

func buildCountrySource(ctx context.Context, cfg *config.Config, zapLog *zap.Logger, log logger.Logger) (*countrySource, error) {
	rules := cfg.CountryRules
	cs := &countrySource{checks: make(map[string]health.Check)}

	switch rules.Source {
	case config.SourcePostgres:
		var pg *database.PostgresClient
		err := retryWithBackoff(ctx, func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			if err := pg.Ping(ctx); err != nil {
				_ = pg.Close()
				return err
			}
			return nil
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			return nil, err
		}
		cs.source = countryrules.NewPostgresSource(pg.DB, rules.Table)
		cs.checks["postgres"] = pg.Ping
		cs.closers = append(cs.closers, pg.Close)

	case config.SourceElasticsearch:
		var esClient *database.ElasticsearchClient
		err := retryWithBackoff(ctx, func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			return nil, err
		}
		cs.source = countryrules.NewElasticsearchSource(esClient.Client, rules.ElasticsearchIndex)
		cs.checks["elasticsearch"] = esClient.Ping

	case config.SourceFrappe:
		cs.source = countryrules.NewFrappeSource(rules.Frappe)

	case config.SourceStatic:
		cs.source = countryrules.StaticSourceFromConfig(rules.Static)

	default:
		return nil, fmt.Errorf("unsupported country_rules.source %q", rules.Source)
	}

	if rules.CacheTTL > 0 {
		var rdb *database.RedisClient
		err := retryWithBackoff(ctx, func() error {
			rdb = database.NewRedis(cfg.Database.Redis)
			if err := rdb.Ping(ctx); err != nil {
				_ = rdb.Close()
				return err
			}
			return nil
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			cs.close(zapLog)
			return nil, err
		}
		cs.source = countryrules.NewRedisCache(cs.source, rdb.Client, config.GetDuration(rules.CacheTTL), log)
		cs.checks["redis"] = rdb.Ping
		cs.closers = append(cs.closers, rdb.Close)
	}

	return cs, nil
}

func (cs *countrySource) close(zapLog *zap.Logger) {
	for _, closeFn := range cs.closers {
		if err := closeFn(); err != nil {
			zapLog.Warn("Error closing country source", zap.Error(err))
		}
	}
}

type jobHandler interface {
	Register(client zbc.Client) error
	Close()
	TaskType() string
	IsEnabled() bool
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootstrap := logger.New("info", "console")
		bootstrap.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"app":         cfg.App.Name,
		"environment": cfg.App.Environment,
	})

	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("countryRuleSource", cfg.CountryRules.Source),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("OpenTelemetry metrics disabled", zap.Error(err))
	}
	defer func() {
		if err := obs.Shutdown(context.Background()); err != nil {
			zapLog.Warn("Error shutting down OpenTelemetry", zap.Error(err))
		}
	}()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(ctx, func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(ctx, camunda.ConfigFromApp(cfg.Camunda))
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Country rule registry ---
	cs, err := buildCountrySource(ctx, cfg, zapLog, log)
	if err != nil {
		_ = zeebe.Close()
		zapLog.Fatal("country rule source failed", zap.Error(err))
	}
	defer cs.close(zapLog)

	registry := countryrules.NewRegistry(countryrules.Options{
		Source:        cs.source,
		Policy:        countryrules.PolicyFromConfig(cfg.CountryRules),
		Logger:        log,
		LookupTimeout: config.GetDuration(cfg.CountryRules.LookupTimeout),
	})
	zapLog.Info("Country rule registry ready", zap.String("source", cs.source.Name()))

	// --- Register workers ---
	identifierHandler, err := mi.NewHandler(mi.HandlerOptions{
		AppConfig:     cfg,
		Logger:        log,
		Observability: obs,
	})
	if err != nil {
		zapLog.Fatal("failed to create mask-identifier handler", zap.Error(err))
	}

	phoneHandler, err := mp.NewHandler(mp.HandlerOptions{
		AppConfig:     cfg,
		Rules:         registry,
		Logger:        log,
		Observability: obs,
	})
	if err != nil {
		zapLog.Fatal("failed to create mask-phone handler", zap.Error(err))
	}

	fieldsHandler, err := vdf.NewHandler(vdf.HandlerOptions{
		AppConfig:     cfg,
		Rules:         registry,
		Logger:        log,
		Observability: obs,
	})
	if err != nil {
		zapLog.Fatal("failed to create validate-donor-fields handler", zap.Error(err))
	}

	handlers := []jobHandler{identifierHandler, phoneHandler, fieldsHandler}
	registered := 0
	for _, h := range handlers {
		if err := h.Register(zeebe.GetClient()); err != nil {
			zapLog.Fatal("worker registration failed", zap.String("taskType", h.TaskType()), zap.Error(err))
		}
		if h.IsEnabled() {
			registered++
		}
	}
	zapLog.Info("Workers registered", zap.Int("count", registered))

	// --- Health & Metrics Server ---
	checks := map[string]health.Check{"zeebe": zeebe.HealthCheck}
	for name, check := range cs.checks {
		checks[name] = check
	}
	serverDone := make(chan error, 1)
	go func() {
		serverDone <- health.Serve(ctx, cfg.Server.Address, health.NewRouter(checks, log),
			config.GetDuration(cfg.Server.ShutdownTimeout), log)
	}()

	// --- Graceful Shutdown ---
	select {
	case <-ctx.Done():
		zapLog.Info("Shutdown signal received, stopping workers...")
	case err := <-serverDone:
		zapLog.Error("Health/Metrics server failed", zap.Error(err))
		stop()
	}

	for _, h := range handlers {
		h.Close()
	}

	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
