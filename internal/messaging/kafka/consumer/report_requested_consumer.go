package consumer

import (
	"context"
	"encoding/json"
	"net/http"

	"go-hris-analytics/internal/analytics"
	"go-hris-analytics/internal/events"
	"go-hris-analytics/internal/metrics"
	"go-hris-analytics/internal/shared/apperror"
	"go-hris-analytics/internal/shared/contextutil"

	"go.uber.org/zap"
)

// ConsumeReportRequests computes each requested report and queues its
// report-generated event. Requests the engine rejects are committed and
// skipped without a retry. Other failures are retried on the same message
// under policy, then committed as dropped. On shutdown mid-retry the message
// stays uncommitted.
func ConsumeReportRequests(
	ctx context.Context,
	reader MessageReader,
	analyticsService analytics.Service,
	policy RetryPolicy,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.report_requested")
	log.Info("report request consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("report request consumer stopped")
				return
			}
			log.Error("fetch report request message failed", zap.Error(err))
			continue
		}

		var event events.ReportRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			metrics.EventsConsumed.WithLabelValues(msg.Topic, "invalid").Inc()
			log.Error("decode report request failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		msgCtx := ctx
		if event.RequestID != "" {
			msgCtx = contextutil.WithRequestID(ctx, event.RequestID)
		}

		var resp analytics.ReportResponse
		err = policy.run(ctx, func() error {
			var err error
			resp, err = analyticsService.Publish(msgCtx, event.Report, event.Params)
			return err
		}, isRejected, func(attempt int, err error) {
			metrics.EventsConsumed.WithLabelValues(msg.Topic, "retry").Inc()
			log.Warn("generate requested report failed, retrying",
				zap.String("report", event.Report),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		})
		if err != nil {
			if isRejected(err) {
				metrics.EventsConsumed.WithLabelValues(msg.Topic, "rejected").Inc()
				log.Warn("report request rejected, skipping",
					zap.String("report", event.Report),
					zap.String("requested_by", event.RequestedBy),
					zap.Error(err),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			if ctx.Err() != nil {
				log.Info("report request consumer stopped", zap.Int64("uncommitted_offset", msg.Offset))
				return
			}

			metrics.EventsConsumed.WithLabelValues(msg.Topic, "dropped").Inc()
			log.Error("generate requested report failed, dropping request",
				zap.String("report", event.Report),
				zap.String("request_id", event.RequestID),
				zap.Int("retries", policy.MaxRetries),
				zap.Error(err),
			)
			if err := reader.CommitMessages(ctx, msg); err != nil {
				log.Error("commit report request message failed", zap.Error(err))
			}
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit report request message failed", zap.Error(err))
			continue
		}
		metrics.EventsConsumed.WithLabelValues(msg.Topic, "success").Inc()

		log.Info("requested report generated",
			zap.String("report", event.Report),
			zap.String("request_id", event.RequestID),
			zap.String("snapshot_version", resp.SnapshotVersion),
			zap.Int("rows", len(resp.Rows)),
		)
	}
}

// isRejected reports errors that retrying cannot fix.
func isRejected(err error) bool {
	status := apperror.ToHTTP(err).Status
	return status >= http.StatusBadRequest && status < http.StatusInternalServerError
}
