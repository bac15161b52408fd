package analytics

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-hris-analytics/internal/events"
	"go-hris-analytics/internal/export"
	"go-hris-analytics/internal/loader"
	"go-hris-analytics/internal/messaging/kafka"
	"go-hris-analytics/internal/metrics"
	"go-hris-analytics/internal/report"
	"go-hris-analytics/internal/shared/contextutil"
	"go-hris-analytics/internal/store"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	ReportCacheKeyPrefix = "reports:"
	refreshKey           = "snapshot:refresh"
	defaultCacheTTL      = 10 * time.Minute
)

// ReportCacheKey identifies one computed report. The snapshot version is part
// of the key, so a refresh never serves results of older data.
func ReportCacheKey(name string, p report.Params, version string) string {
	return fmt.Sprintf("%s%s:%s:%s", ReportCacheKeyPrefix, name, ParamsHash(p), version)
}

// SnapshotVersion fingerprints the loaded rows, so every replica that loads
// the same data shares its redis cache entries.
func SnapshotVersion(snap store.Snapshot) string {
	data, err := json.Marshal(snap)
	if err != nil {
		return uuid.NewString()
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:12])
}

func ParamsHash(p report.Params) string {
	data, _ := json.Marshal(p)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

//go:generate mockgen -source=analytics_service.go -destination=mock/analytics_service_mock.go -package=mock
type Service interface {
	Catalog() []report.Definition
	RunReport(ctx context.Context, name string, p report.Params) (ReportResponse, error)
	Export(ctx context.Context, name string, p report.Params, format export.Format) (ExportFile, error)
	Status(ctx context.Context) (StatusResponse, error)
	Refresh(ctx context.Context) (SnapshotInfo, error)
	// Publish computes a report and queues a report-generated event.
	Publish(ctx context.Context, name string, p report.Params) (ReportResponse, error)
}

type Config struct {
	CacheTTL time.Duration
	// Exec runs the dashboard metrics; nil runs them sequentially.
	Exec report.Executor
	Now  func() time.Time
	// Version names a loaded snapshot; SnapshotVersion by default.
	Version func(store.Snapshot) string
}

func (c Config) withDefaults() Config {
	if c.CacheTTL <= 0 {
		c.CacheTTL = defaultCacheTTL
	}
	if c.Now == nil {
		c.Now = func() time.Time { return time.Now().UTC() }
	}
	if c.Version == nil {
		c.Version = SnapshotVersion
	}
	return c
}

type snapshot struct {
	store    *store.Store
	version  string
	loadedAt time.Time
}

type service struct {
	repo   loader.Repository
	outbox kafka.OutboxRepository
	rdb    *redis.Client
	sf     *singleflight.Group
	runner report.Runner
	cfg    Config
	logger *zap.Logger

	mu      sync.RWMutex
	current *snapshot
	lastErr error
}

func NewService(repo loader.Repository, rdb *redis.Client, cfg Config, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(repo, nil, rdb, cfg, logger...)
}

func NewServiceWithOutbox(
	repo loader.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	cfg Config,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("analytics.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("analytics.service")
	}
	cfg = cfg.withDefaults()
	return &service{
		repo:   repo,
		outbox: outboxRepo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		runner: report.Runner{Exec: cfg.Exec},
		cfg:    cfg,
		logger: l,
	}
}

func (s *service) Catalog() []report.Definition {
	return report.Catalog()
}

func (s *service) Refresh(ctx context.Context) (SnapshotInfo, error) {
	v, err, _ := s.sf.Do(refreshKey, func() (interface{}, error) {
		return s.load(ctx)
	})
	if err != nil {
		return SnapshotInfo{}, err
	}
	snap := v.(*snapshot)
	return SnapshotInfo{Version: snap.version, LoadedAt: snap.loadedAt, Entities: snap.store.Counts()}, nil
}

// load replaces the current snapshot. On failure the previous snapshot, if
// any, keeps serving.
func (s *service) load(ctx context.Context) (*snapshot, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	start := time.Now()

	raw, st, err := s.loadStore(ctx)
	if err != nil {
		metrics.SnapshotRefreshes.WithLabelValues("error").Inc()
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		log.Error("snapshot refresh failed", zap.Error(err))
		return nil, mapAnalyticsError(err)
	}

	next := &snapshot{store: st, version: s.cfg.Version(raw), loadedAt: s.cfg.Now()}
	s.mu.Lock()
	s.current = next
	s.lastErr = nil
	s.mu.Unlock()

	counts := st.Counts()
	for kind, n := range counts {
		metrics.SnapshotRows.WithLabelValues(string(kind)).Set(float64(n))
	}
	metrics.SnapshotLoadedAt.Set(float64(next.loadedAt.Unix()))
	metrics.SnapshotRefreshes.WithLabelValues("success").Inc()

	log.Info("snapshot refreshed",
		zap.String("snapshot_version", next.version),
		zap.Int("employees", counts[store.KindEmployee]),
		zap.Duration("took", time.Since(start)),
	)
	return next, nil
}

func (s *service) loadStore(ctx context.Context) (store.Snapshot, *store.Store, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return store.Snapshot{}, nil, err
	}
	st, err := store.Load(snap)
	return snap, st, err
}

// snapshot returns the current snapshot, loading the first one on demand.
func (s *service) snapshot(ctx context.Context) (*snapshot, error) {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()
	if current != nil {
		return current, nil
	}

	v, err, _ := s.sf.Do(refreshKey, func() (interface{}, error) {
		return s.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*snapshot), nil
}

// prepare resolves the report and the snapshot it runs on, and pins the
// reference date.
func (s *service) prepare(ctx context.Context, name string, p report.Params) (*snapshot, report.Params, error) {
	if _, err := report.Lookup(name); err != nil {
		return nil, p, mapAnalyticsError(err)
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, p, err
	}
	if p.AsOf.IsZero() {
		p.AsOf = store.Day(s.cfg.Now())
	}
	return snap, p, nil
}

func (s *service) compute(snap *snapshot, name string, p report.Params) (report.Result, error) {
	start := time.Now()
	res, err := s.runner.Run(snap.store, name, p)
	metrics.ReportDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ReportRuns.WithLabelValues(name, "error").Inc()
		return report.Result{}, mapAnalyticsError(err)
	}
	metrics.ReportRuns.WithLabelValues(name, "success").Inc()

	if name == "dashboard" {
		for _, row := range res.Rows {
			if row["status"] == report.StatusUnavailable {
				metric, _ := row["metric"].(string)
				metrics.DashboardMetricsUnavailable.WithLabelValues(metric).Inc()
			}
		}
	}
	return res, nil
}

func (s *service) RunReport(ctx context.Context, name string, p report.Params) (ReportResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("run report requested", zap.String("report", name))

	snap, p, err := s.prepare(ctx, name, p)
	if err != nil {
		log.Warn("run report rejected", zap.String("report", name), zap.Error(err))
		return ReportResponse{}, err
	}

	cacheKey := ReportCacheKey(name, p, snap.version)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp ReportResponse
			if decodeCached(cached, &resp) == nil {
				metrics.CacheLookups.WithLabelValues("hit").Inc()
				resp.Cached = true
				return resp, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Warn("report cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		res, err := s.compute(snap, name, p)
		if err != nil {
			return nil, err
		}
		resp := mapToResponse(res, snap.version, s.cfg.Now())

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, jsonData, s.cfg.CacheTTL).Err(); err != nil {
					log.Warn("report cache write failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		log.Warn("run report failed", zap.String("report", name), zap.Error(err))
		return ReportResponse{}, err
	}

	resp := v.(ReportResponse)
	log.Info("report computed",
		zap.String("report", name),
		zap.String("snapshot_version", resp.SnapshotVersion),
		zap.Int("rows", len(resp.Rows)),
	)
	return resp, nil
}

func decodeCached(cached string, resp *ReportResponse) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(cached)))
	dec.UseNumber()
	return dec.Decode(resp)
}

// Export always computes from the snapshot: cached rows have lost their
// money and ratio types, which the renderers need.
func (s *service) Export(ctx context.Context, name string, p report.Params, format export.Format) (ExportFile, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	snap, p, err := s.prepare(ctx, name, p)
	if err != nil {
		return ExportFile{}, err
	}
	res, err := s.compute(snap, name, p)
	if err != nil {
		log.Warn("export report failed", zap.String("report", name), zap.Error(err))
		return ExportFile{}, err
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, res, format); err != nil {
		log.Error("render report failed", zap.String("report", name), zap.String("format", string(format)), zap.Error(err))
		return ExportFile{}, err
	}

	log.Info("report exported",
		zap.String("report", name),
		zap.String("format", string(format)),
		zap.Int("bytes", buf.Len()),
	)
	return ExportFile{
		Name:        export.FileName(res, format),
		ContentType: format.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

func (s *service) Status(ctx context.Context) (StatusResponse, error) {
	counts, err := s.repo.Counts(ctx)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("count source tables failed", zap.Error(err))
		return StatusResponse{}, mapAnalyticsError(err)
	}

	resp := StatusResponse{SourceTables: counts, Reports: report.Names()}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current != nil {
		loadedAt := s.current.loadedAt
		resp.SnapshotVersion = s.current.version
		resp.LoadedAt = &loadedAt
		resp.Entities = s.current.store.Counts()
	}
	if s.lastErr != nil {
		resp.LastError = s.lastErr.Error()
	}
	return resp, nil
}

func (s *service) Publish(ctx context.Context, name string, p report.Params) (ReportResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	rid := contextutil.GetRequestID(ctx)

	resp, err := s.RunReport(ctx, name, p)
	if err != nil {
		return ReportResponse{}, err
	}
	if s.outbox == nil {
		log.Warn("publish skipped, no outbox configured", zap.String("report", name))
		return resp, nil
	}

	event := events.NewReportGenerated(uuid.NewString(), resp.SnapshotVersion, resp.Result(), resp.GeneratedAt)
	event.RequestID = rid
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
		return ReportResponse{}, err
	}

	if err := s.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            event.EventID,
		RequestID:     rid,
		AggregateType: "report",
		AggregateID:   name,
		EventType:     event.EventType,
		Topic:         events.ReportGeneratedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		log.Error("report outbox persist failed",
			zap.String("report", name),
			zap.Error(err),
		)
		return ReportResponse{}, err
	}

	log.Info("report outbox queued",
		zap.String("report", name),
		zap.String("event_id", event.EventID),
		zap.Int("rows", event.RowCount),
	)
	return resp, nil
}
