package analytics_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"testing"
	"time"

	"go-hris-analytics/internal/analytics"
	"go-hris-analytics/internal/events"
	"go-hris-analytics/internal/export"
	loaderMock "go-hris-analytics/internal/loader/mock"
	"go-hris-analytics/internal/messaging/kafka"
	kafkaMock "go-hris-analytics/internal/messaging/kafka/mock"
	"go-hris-analytics/internal/report"
	"go-hris-analytics/internal/shared/apperror"
	"go-hris-analytics/internal/shared/contextutil"
	"go-hris-analytics/internal/shared/money"
	"go-hris-analytics/internal/store"
	"go-hris-analytics/internal/store/storetest"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const cacheTTL = 10 * time.Minute

type serviceDeps struct {
	service   analytics.Service
	repo      *loaderMock.MockRepository
	outbox    *kafkaMock.MockOutboxRepository
	redismock redismock.ClientMock
}

func versions(vs ...string) func(store.Snapshot) string {
	i := 0
	return func(store.Snapshot) string {
		v := vs[min(i, len(vs)-1)]
		i++
		return v
	}
}

func setupServiceTest(t *testing.T, withRedis bool) *serviceDeps {
	ctrl := gomock.NewController(t)

	repo := loaderMock.NewMockRepository(ctrl)
	outboxRepo := kafkaMock.NewMockOutboxRepository(ctrl)

	var rdb *redis.Client
	var redisMock redismock.ClientMock
	if withRedis {
		rdb, redisMock = redismock.NewClientMock()
	}

	svc := analytics.NewServiceWithOutbox(repo, outboxRepo, rdb, analytics.Config{
		CacheTTL: cacheTTL,
		Now:      func() time.Time { return storetest.AsOf },
		Version:  versions("v1", "v2", "v3"),
	}, zap.NewNop())

	return &serviceDeps{
		service:   svc,
		repo:      repo,
		outbox:    outboxRepo,
		redismock: redisMock,
	}
}

// matchKeyAndTTL compares redis arguments except the payload.
func matchKeyAndTTL(expected, actual []interface{}) error {
	if len(expected) != len(actual) {
		return fmt.Errorf("expected %d args, got %d", len(expected), len(actual))
	}
	for i := range expected {
		if i == 2 {
			continue
		}
		if !reflect.DeepEqual(expected[i], actual[i]) {
			return fmt.Errorf("arg %d: expected %v, got %v", i, expected[i], actual[i])
		}
	}
	return nil
}

func httpStatus(err error) int {
	return apperror.ToHTTP(err).Status
}

func TestAnalyticsService_RunReport(t *testing.T) {
	ctx := context.Background()
	defaults := report.Params{AsOf: storetest.AsOf}

	t.Run("computes on miss, caches, then serves the cache", func(t *testing.T) {
		deps := setupServiceTest(t, true)
		key := analytics.ReportCacheKey("top-salaries", defaults, "v1")

		deps.repo.EXPECT().Load(gomock.Any()).Return(storetest.Snapshot(), nil).Times(1)
		deps.redismock.ExpectGet(key).RedisNil()
		deps.redismock.CustomMatch(matchKeyAndTTL).ExpectSet(key, "", cacheTTL).SetVal("OK")

		first, err := deps.service.RunReport(ctx, "top-salaries", report.Params{})

		require.NoError(t, err)
		assert.False(t, first.Cached)
		assert.Equal(t, "v1", first.SnapshotVersion)
		assert.Equal(t, storetest.AsOf, first.Params.AsOf)
		assert.Len(t, first.Rows, 7)

		cached, err := json.Marshal(first)
		require.NoError(t, err)
		deps.redismock.ExpectGet(key).SetVal(string(cached))

		second, err := deps.service.RunReport(ctx, "top-salaries", report.Params{})

		require.NoError(t, err)
		assert.True(t, second.Cached)
		assert.Equal(t, first.Title, second.Title)
		require.Len(t, second.Rows, 7)
		assert.Equal(t, "Engineering", second.Rows[0]["department"])
		assert.Equal(t, json.Number("1"), second.Rows[0]["employeeId"])
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("cache write failure still returns the report", func(t *testing.T) {
		deps := setupServiceTest(t, true)
		key := analytics.ReportCacheKey("department-summary", defaults, "v1")

		deps.repo.EXPECT().Load(gomock.Any()).Return(storetest.Snapshot(), nil)
		deps.redismock.ExpectGet(key).RedisNil()
		deps.redismock.CustomMatch(matchKeyAndTTL).ExpectSet(key, "", cacheTTL).SetErr(errors.New("redis down"))

		resp, err := deps.service.RunReport(ctx, "department-summary", report.Params{})

		require.NoError(t, err)
		assert.Len(t, resp.Rows, 4)
	})

	t.Run("unknown report is rejected before loading", func(t *testing.T) {
		deps := setupServiceTest(t, false)

		_, err := deps.service.RunReport(ctx, "head-count", report.Params{})

		assert.ErrorIs(t, err, report.ErrUnknownReport)
		assert.Equal(t, http.StatusNotFound, httpStatus(err))
		assert.Equal(t, apperror.CodeUnknownReport, apperror.ToHTTP(err).Code)
	})

	t.Run("invalid parameter", func(t *testing.T) {
		deps := setupServiceTest(t, false)
		deps.repo.EXPECT().Load(gomock.Any()).Return(storetest.Snapshot(), nil)

		_, err := deps.service.RunReport(ctx, "attendance-report", report.Params{Month: report.Int(13)})

		var paramErr *report.ParameterError
		require.ErrorAs(t, err, &paramErr)
		assert.Equal(t, "month", paramErr.Param)
		httpErr := apperror.ToHTTP(err)
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		assert.Equal(t, apperror.CodeInvalidParameter, httpErr.Code)
		assert.Contains(t, httpErr.Message, "month")
	})

	t.Run("employee lookup", func(t *testing.T) {
		deps := setupServiceTest(t, false)
		deps.repo.EXPECT().Load(gomock.Any()).Return(storetest.Snapshot(), nil)

		resp, err := deps.service.RunReport(ctx, "employee", report.Params{EmployeeID: report.ID(4)})
		require.NoError(t, err)
		require.Len(t, resp.Rows, 1)
		assert.Equal(t, "Bob Smith", resp.Rows[0]["manager"])

		_, err = deps.service.RunReport(ctx, "employee", report.Params{EmployeeID: report.ID(99)})
		assert.ErrorIs(t, err, store.ErrNotFound)
		httpErr := apperror.ToHTTP(err)
		assert.Equal(t, http.StatusNotFound, httpErr.Status)
		assert.Equal(t, map[string]any{"kind": "Employee", "id": int64(99)}, httpErr.Details)
	})

	t.Run("manager cycle fails hierarchy reports only", func(t *testing.T) {
		deps := setupServiceTest(t, false)
		snap := storetest.Snapshot()
		snap.Employees[0].ManagerID = store.Ref(4)
		deps.repo.EXPECT().Load(gomock.Any()).Return(snap, nil)

		_, err := deps.service.RunReport(ctx, "org-chart", report.Params{})
		assert.Equal(t, http.StatusConflict, httpStatus(err))
		assert.Equal(t, apperror.CodeCyclicHierarchy, apperror.ToHTTP(err).Code)

		resp, err := deps.service.RunReport(ctx, "top-salaries", report.Params{})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Rows)

		dash, err := deps.service.RunReport(ctx, "dashboard", report.Params{})
		require.NoError(t, err)
		for _, row := range dash.Rows {
			if row["metric"] == "Org Depth" {
				assert.Equal(t, report.StatusUnavailable, row["status"])
			} else {
				assert.Equal(t, report.StatusOK, row["status"], row["metric"])
			}
		}
	})

	t.Run("integrity violations surface as 422", func(t *testing.T) {
		deps := setupServiceTest(t, false)
		snap := storetest.Snapshot()
		snap.Employees[1].DepartmentID = 99
		deps.repo.EXPECT().Load(gomock.Any()).Return(snap, nil)
		deps.repo.EXPECT().Counts(gomock.Any()).Return(map[string]int64{"Employees": 8}, nil)

		_, err := deps.service.RunReport(ctx, "top-salaries", report.Params{})

		httpErr := apperror.ToHTTP(err)
		assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Status)
		assert.Equal(t, apperror.CodeIntegrity, httpErr.Code)
		details, ok := httpErr.Details.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, 1, details["count"])

		status, err := deps.service.Status(ctx)
		require.NoError(t, err)
		assert.Empty(t, status.SnapshotVersion)
		assert.Contains(t, status.LastError, "integrity check failed")
	})
}

func TestAnalyticsService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("failed refresh keeps the previous snapshot", func(t *testing.T) {
		deps := setupServiceTest(t, false)
		gomock.InOrder(
			deps.repo.EXPECT().Load(gomock.Any()).Return(storetest.Snapshot(), nil),
			deps.repo.EXPECT().Load(gomock.Any()).Return(store.Snapshot{}, errors.New("dial tcp: connection refused")),
		)

		info, err := deps.service.Refresh(ctx)
		require.NoError(t, err)
		assert.Equal(t, "v1", info.Version)
		assert.Equal(t, 8, info.Entities[store.KindEmployee])

		_, err = deps.service.Refresh(ctx)
		assert.EqualError(t, err, "dial tcp: connection refused")

		resp, err := deps.service.RunReport(ctx, "department-summary", report.Params{})
		require.NoError(t, err)
		assert.Equal(t, "v1", resp.SnapshotVersion)
	})

	t.Run("successful refresh bumps the version", func(t *testing.T) {
		deps := setupServiceTest(t, false)
		deps.repo.EXPECT().Load(gomock.Any()).Return(storetest.Snapshot(), nil).Times(2)

		_, err := deps.service.Refresh(ctx)
		require.NoError(t, err)
		info, err := deps.service.Refresh(ctx)
		require.NoError(t, err)

		assert.Equal(t, "v2", info.Version)
	})

	t.Run("replicas loading the same rows share a version", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		changed := storetest.Snapshot()
		changed.Employees[0].Salary = money.MustParse("150000")

		replica := func(snaps ...store.Snapshot) analytics.Service {
			repo := loaderMock.NewMockRepository(ctrl)
			calls := make([]any, len(snaps))
			for i, snap := range snaps {
				calls[i] = repo.EXPECT().Load(gomock.Any()).Return(snap, nil)
			}
			gomock.InOrder(calls...)
			return analytics.NewService(repo, nil, analytics.Config{}, zap.NewNop())
		}
		a := replica(storetest.Snapshot())
		b := replica(storetest.Snapshot(), changed)

		infoA, err := a.Refresh(ctx)
		require.NoError(t, err)
		infoB, err := b.Refresh(ctx)
		require.NoError(t, err)
		assert.Equal(t, infoA.Version, infoB.Version)
		assert.Equal(t, analytics.SnapshotVersion(storetest.Snapshot()), infoA.Version)

		infoB, err = b.Refresh(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, infoA.Version, infoB.Version, "changed rows get a new version")
	})
}

func TestAnalyticsService_Export(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t, false)
	deps.repo.EXPECT().Load(gomock.Any()).Return(storetest.Snapshot(), nil)

	file, err := deps.service.Export(ctx, "project-budget", report.Params{}, export.FormatCSV)

	require.NoError(t, err)
	assert.Equal(t, "project-budget.csv", file.Name)
	assert.Equal(t, export.FormatCSV.ContentType(), file.ContentType)
	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	assert.Len(t, lines, 6)
	assert.Contains(t, lines[len(lines)-1], "N/A")
}

func TestAnalyticsService_Status(t *testing.T) {
	ctx := context.Background()

	t.Run("reports source counts and snapshot", func(t *testing.T) {
		deps := setupServiceTest(t, false)
		deps.repo.EXPECT().Load(gomock.Any()).Return(storetest.Snapshot(), nil)
		deps.repo.EXPECT().Counts(gomock.Any()).Return(map[string]int64{"Employees": 8, "Departments": 4}, nil)

		_, err := deps.service.Refresh(ctx)
		require.NoError(t, err)
		status, err := deps.service.Status(ctx)

		require.NoError(t, err)
		assert.Equal(t, "v1", status.SnapshotVersion)
		require.NotNil(t, status.LoadedAt)
		assert.Equal(t, storetest.AsOf, *status.LoadedAt)
		assert.Equal(t, int64(8), status.SourceTables["Employees"])
		assert.Equal(t, 4, status.Entities[store.KindDepartment])
		assert.Equal(t, report.Names(), status.Reports)
		assert.Empty(t, status.LastError)
	})

	t.Run("missing source table", func(t *testing.T) {
		deps := setupServiceTest(t, false)
		deps.repo.EXPECT().Counts(gomock.Any()).Return(nil, errors.New("count Employees: no such table: Employees"))

		_, err := deps.service.Status(ctx)

		assert.Equal(t, http.StatusServiceUnavailable, httpStatus(err))
		assert.Equal(t, apperror.CodeSnapshotUnavailable, apperror.ToHTTP(err).Code)
	})
}

func TestAnalyticsService_Publish(t *testing.T) {
	deps := setupServiceTest(t, false)
	ctx := contextutil.WithRequestID(context.Background(), "REQ-7")
	deps.repo.EXPECT().Load(gomock.Any()).Return(storetest.Snapshot(), nil)

	deps.outbox.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e kafka.OutboxEvent) error {
			assert.Equal(t, events.ReportGeneratedTopic, e.Topic)
			assert.Equal(t, "REQ-7", e.RequestID)
			assert.Equal(t, "dashboard", e.AggregateID)
			assert.Equal(t, kafka.OutboxStatusPending, e.Status)

			var ev events.ReportGeneratedEvent
			require.NoError(t, json.Unmarshal(e.Payload, &ev))
			assert.Equal(t, e.ID, ev.EventID)
			assert.Equal(t, "v1", ev.SnapshotVersion)
			assert.Equal(t, 9, ev.RowCount)
			assert.Empty(t, ev.Unavailable)
			return nil
		}).
		Times(1)

	resp, err := deps.service.Publish(ctx, "dashboard", report.Params{})

	require.NoError(t, err)
	assert.Equal(t, "dashboard", resp.Report)
}
