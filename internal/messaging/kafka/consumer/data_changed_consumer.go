package consumer

import (
	"context"
	"encoding/json"

	"go-hris-analytics/internal/analytics"
	"go-hris-analytics/internal/events"
	"go-hris-analytics/internal/metrics"
	"go-hris-analytics/internal/shared/contextutil"

	"go.uber.org/zap"
)

// ConsumeDataChanges refreshes the analytics snapshot for every HR data
// change. A failing refresh is retried on the same message under policy. Once
// the retries are used up the message is committed as dropped, since any later
// change refreshes the whole snapshot again. On shutdown mid-retry the message
// stays uncommitted.
func ConsumeDataChanges(
	ctx context.Context,
	reader MessageReader,
	analyticsService analytics.Service,
	policy RetryPolicy,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.data_changed")
	log.Info("data changed consumer started", zap.Strings("topics", events.RefreshTopics))

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("data changed consumer stopped")
				return
			}
			log.Error("fetch data changed message failed", zap.Error(err))
			continue
		}

		var event events.HRDataChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			metrics.EventsConsumed.WithLabelValues(msg.Topic, "invalid").Inc()
			log.Error("decode data changed event failed", zap.String("topic", msg.Topic), zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		msgCtx := ctx
		if rid := header(msg, "request_id"); rid != "" {
			msgCtx = contextutil.WithRequestID(ctx, rid)
		}

		var info analytics.SnapshotInfo
		err = policy.run(ctx, func() error {
			var err error
			info, err = analyticsService.Refresh(msgCtx)
			return err
		}, nil, func(attempt int, err error) {
			metrics.EventsConsumed.WithLabelValues(msg.Topic, "retry").Inc()
			log.Warn("refresh snapshot failed, retrying",
				zap.String("table", event.Table),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		})
		if err != nil {
			if ctx.Err() != nil {
				log.Info("data changed consumer stopped", zap.Int64("uncommitted_offset", msg.Offset))
				return
			}
			metrics.EventsConsumed.WithLabelValues(msg.Topic, "dropped").Inc()
			log.Error("refresh snapshot failed, dropping event",
				zap.String("event_type", event.EventType),
				zap.String("table", event.Table),
				zap.Int("retries", policy.MaxRetries),
				zap.Error(err),
			)
			if err := reader.CommitMessages(ctx, msg); err != nil {
				log.Error("commit data changed message failed", zap.Error(err))
			}
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit data changed message failed", zap.Error(err))
			continue
		}
		metrics.EventsConsumed.WithLabelValues(msg.Topic, "success").Inc()

		log.Info("snapshot refreshed from event",
			zap.String("event_type", event.EventType),
			zap.String("table", event.Table),
			zap.String("entity_id", event.EntityID),
			zap.String("snapshot_version", info.Version),
		)
	}
}
