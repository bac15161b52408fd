package app

import (
	"context"
	"errors"
	"time"

	"go-hris-analytics/internal/analytics"
	"go-hris-analytics/internal/bootstrap"
	"go-hris-analytics/internal/config"
	"go-hris-analytics/internal/messaging/kafka/producer"
	"go-hris-analytics/internal/report"
	"go-hris-analytics/internal/shared/connection"
	"go-hris-analytics/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// warmReports are recomputed and published after every scheduled refresh.
var warmReports = []string{"dashboard"}

// RunWorker refreshes the snapshot on a ticker, publishes the warm reports
// through the outbox and relays the outbox to kafka.
func RunWorker(cfg *config.Config) error {
	logger := zap.L().Named("app.worker")

	if cfg.Kafka.Broker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	in, err := connectInfra(cfg, logger)
	if err != nil {
		return err
	}
	defer in.close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo, err := in.newOutbox()
	if err != nil {
		return err
	}
	svc := in.newAnalyticsService(cfg, outboxRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		3*time.Second,
	)
	go runWarmLoop(ctx, svc, cfg.Analytics.WarmInterval, logger)

	sig := bootstrap.WaitForSignal()
	logger.Info("worker shutting down", zap.String("signal", sig.String()))
	cancel()

	return nil
}

func runWarmLoop(ctx context.Context, svc analytics.Service, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("warm loop started", zap.Duration("interval", interval))
	for {
		if err := warm(ctx, svc, logger); err != nil {
			logger.Error("warm cycle failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			logger.Info("warm loop stopped")
			return
		case <-ticker.C:
		}
	}
}

// warm reloads the snapshot and publishes every warm report. A failing report
// does not stop the others.
func warm(ctx context.Context, svc analytics.Service, logger *zap.Logger) error {
	ctx = contextutil.WithRequestID(ctx, "warm-"+uuid.NewString())

	info, err := svc.Refresh(ctx)
	if err != nil {
		return err
	}

	var errs []error
	for _, name := range warmReports {
		resp, err := svc.Publish(ctx, name, report.Params{})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		logger.Info("report warmed",
			zap.String("report", name),
			zap.String("snapshot_version", info.Version),
			zap.Int("rows", len(resp.Rows)),
		)
	}
	return errors.Join(errs...)
}
