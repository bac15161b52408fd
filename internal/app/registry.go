package app

import (
	"time"

	"go-hris-analytics/internal/analytics"
	"go-hris-analytics/internal/config"
	"go-hris-analytics/internal/loader"
	"go-hris-analytics/internal/messaging/kafka"
	"go-hris-analytics/internal/shared/connection"
	"go-hris-analytics/internal/shared/workerpool"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// infra holds the connections every binary shares.
type infra struct {
	db     *gorm.DB
	rdb    *redis.Client
	pool   *workerpool.Pool
	logger *zap.Logger
}

func connectInfra(cfg *config.Config, logger *zap.Logger) (*infra, error) {
	db, err := connection.ConnectGORMWithRetry(cfg.Database, 5)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established", zap.String("driver", cfg.Database.Driver))

	in := &infra{db: db, logger: logger}

	if cfg.Redis.Addr != "" {
		rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, 5)
		if err != nil {
			in.close()
			return nil, err
		}
		in.rdb = rdb
		logger.Info("redis connection established", zap.String("addr", cfg.Redis.Addr))
	} else {
		logger.Warn("REDIS_ADDR not set, report cache disabled")
	}

	pool, err := workerpool.New(cfg.Analytics.DashboardWorkers, logger)
	if err != nil {
		in.close()
		return nil, err
	}
	in.pool = pool

	return in, nil
}

func (in *infra) close() {
	if in.pool != nil {
		if err := in.pool.Release(5 * time.Second); err != nil {
			in.logger.Warn("release worker pool failed", zap.Error(err))
		}
	}
	if in.rdb != nil {
		_ = in.rdb.Close()
	}
	if sqlDB, err := in.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (in *infra) analyticsConfig(cfg *config.Config) analytics.Config {
	return analytics.Config{
		CacheTTL: cfg.Analytics.CacheTTL,
		Exec:     in.pool.Run,
	}
}

// newAnalyticsService builds the service; outboxRepo may be nil for
// processes that never publish.
func (in *infra) newAnalyticsService(cfg *config.Config, outboxRepo kafka.OutboxRepository) analytics.Service {
	repo := loader.NewRepository(in.db, in.logger)
	return analytics.NewServiceWithOutbox(repo, outboxRepo, in.rdb, in.analyticsConfig(cfg), in.logger)
}

// newOutbox creates the outbox table when missing and returns its repository.
func (in *infra) newOutbox() (kafka.OutboxRepository, error) {
	if err := kafka.Migrate(in.db); err != nil {
		return nil, err
	}
	return kafka.NewOutboxRepository(in.db), nil
}
