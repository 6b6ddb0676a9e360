package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spigell/cvbank/internal/events"
	"github.com/spigell/cvbank/internal/lock"
	"github.com/spigell/cvbank/internal/logger"
	"github.com/spigell/cvbank/internal/matching"
	"github.com/spigell/cvbank/internal/metrics"
	"github.com/spigell/cvbank/internal/secrets"
	"github.com/spigell/cvbank/internal/service"
	"github.com/spigell/cvbank/internal/store/postgres"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// backend bundles what the online commands need.
type backend struct {
	config   *Config
	logger   *zap.Logger
	store    *postgres.Store
	redis    *redis.Client
	registry *prometheus.Registry
	svc      *service.Service
}

// setup builds the logger and reads the config. It exits on failure.
func setup() (*Config, *zap.Logger) {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	return config, l
}

// openBackend connects to Postgres and, when configured, Redis, and builds
// the service on top of them.
func openBackend(ctx context.Context, config *Config, l *zap.Logger) (*backend, error) {
	dsn, err := resolveDatabaseURL(config)
	if err != nil {
		return nil, err
	}

	store, err := postgres.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}

	b := &backend{
		config:   config,
		logger:   l,
		store:    store,
		registry: prometheus.NewRegistry(),
	}

	opts := []service.Option{
		service.WithRecorder(metrics.New(b.registry)),
		service.WithWorkers(config.Matching.Workers),
		service.WithStrictTransitions(config.Matching.StrictTransitions),
	}

	if url := strings.TrimSpace(config.Redis.URL); url != "" {
		rdb, err := events.NewRedisClient(ctx, url)
		if err != nil {
			store.Close()
			return nil, err
		}
		b.redis = rdb
		opts = append(opts,
			service.WithLocker(lock.NewRedis(rdb, config.Matching.LockTTL, l.Named("lock"))),
			service.WithPublisher(events.NewPublisher(rdb)),
		)
		l.Debug("redis enabled for locks and events")
	}

	b.svc = service.New(store, l, opts...)

	return b, nil
}

func (b *backend) Close() {
	if b.redis != nil {
		if err := b.redis.Close(); err != nil {
			b.logger.Warn("closing redis", zap.Error(err))
		}
	}
	b.store.Close()
}

// mustBackend is openBackend for commands that cannot continue without it.
func mustBackend(ctx context.Context) *backend {
	config, l := setup()

	b, err := openBackend(ctx, config, l)
	if err != nil {
		fatal(l, "connecting to storage", err)
	}
	return b
}

func resolveDatabaseURL(config *Config) (string, error) {
	if config == nil || config.Database == nil {
		return "", errors.New("config is required")
	}

	dsn, err := secrets.Load(secrets.Source{
		Name:  "database url",
		Value: config.Database.URL,
		File:  config.Database.URLFile,
	})
	if err != nil {
		return "", fmt.Errorf("%w (set DATABASE_URL, CVBANK_DATABASE_URL_FILE or database.url)", err)
	}
	return dsn, nil
}

// hint tells the operator what to do about a failure.
func hint(err error) string {
	switch {
	case errors.Is(err, matching.ErrNotFound):
		return "check the job or match id"
	case errors.Is(err, matching.ErrAccessDenied):
		return "only the recruiter who owns the job can do this"
	case errors.Is(err, matching.ErrStorageUnavailable):
		return "check that postgres is reachable at the configured database url"
	case errors.Is(err, matching.ErrInvalidStatus):
		return "reviewers can set shortlisted, contacted or rejected"
	case errors.Is(err, matching.ErrForbiddenTransition):
		return "allowed moves are pending to shortlisted or rejected, shortlisted to contacted or rejected; disable matching.strict-transitions to allow any order"
	default:
		return ""
	}
}

func fatal(l *zap.Logger, msg string, err error) {
	fields := []zap.Field{zap.Error(err)}
	if h := hint(err); h != "" {
		fields = append(fields, zap.String("hint", h))
	}
	l.Fatal(msg, fields...)
}
