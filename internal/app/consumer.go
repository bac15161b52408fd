package app

import (
	"context"
	"errors"
	"sync"

	"go-hris-analytics/internal/bootstrap"
	"go-hris-analytics/internal/config"
	"go-hris-analytics/internal/events"
	"go-hris-analytics/internal/messaging/kafka/consumer"
	"go-hris-analytics/internal/shared/connection"

	"go.uber.org/zap"
)

// RunConsumer refreshes the snapshot on HR data changes and serves report
// requests from kafka.
func RunConsumer(cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.Kafka.Broker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	in, err := connectInfra(cfg, logger)
	if err != nil {
		return err
	}
	defer in.close()

	outboxRepo, err := in.newOutbox()
	if err != nil {
		return err
	}
	svc := in.newAnalyticsService(cfg, outboxRepo)

	changes := connection.NewKafkaReader(cfg.Kafka.Broker, cfg.Kafka.GroupID, events.RefreshTopics...)
	defer changes.Close()
	requests := connection.NewKafkaReader(cfg.Kafka.Broker, cfg.Kafka.GroupID+"-requests", events.ReportRequestedTopic)
	defer requests.Close()

	policy := consumer.DefaultRetryPolicy()
	policy.MaxRetries = cfg.Kafka.MaxRetries

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		consumer.ConsumeDataChanges(ctx, changes, svc, policy, logger)
	}()
	go func() {
		defer wg.Done()
		consumer.ConsumeReportRequests(ctx, requests, svc, policy, logger)
	}()

	sig := bootstrap.WaitForSignal()
	logger.Info("consumer shutting down", zap.String("signal", sig.String()))
	cancel()
	wg.Wait()

	return nil
}
