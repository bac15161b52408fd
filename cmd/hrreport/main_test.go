package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go-hris-analytics/internal/analytics"
	loaderMock "go-hris-analytics/internal/loader/mock"
	"go-hris-analytics/internal/report"
	"go-hris-analytics/internal/shared/connection"
	"go-hris-analytics/internal/store"
	"go-hris-analytics/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

// fixtureOpener serves the storetest snapshot through the real analytics
// service.
func fixtureOpener(t *testing.T, mutate func(*store.Snapshot)) (serviceOpener, *int) {
	ctrl := gomock.NewController(t)
	repo := loaderMock.NewMockRepository(ctrl)

	snap := storetest.Snapshot()
	if mutate != nil {
		mutate(&snap)
	}
	repo.EXPECT().Load(gomock.Any()).Return(snap, nil).AnyTimes()
	repo.EXPECT().Counts(gomock.Any()).Return(map[string]int64{"Employees": 8, "Departments": 4}, nil).AnyTimes()

	opened := 0
	return func(*rootOptions) (analytics.Service, func(), error) {
		opened++
		svc := analytics.NewService(repo, nil, analytics.Config{
			Now:     func() time.Time { return storetest.AsOf },
			Version: func(store.Snapshot) string { return "v1" },
		}, zap.NewNop())
		return svc, func() {}, nil
	}, &opened
}

func execute(t *testing.T, open serviceOpener, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(open)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestQuery(t *testing.T) {
	t.Run("csv to stdout", func(t *testing.T) {
		open, _ := fixtureOpener(t, nil)

		out, _, err := execute(t, open, "query", "top-salaries", "--format", "csv")

		require.NoError(t, err)
		assert.Equal(t, 8, strings.Count(out, "\n"), "header plus seven ranked employees")
	})

	t.Run("table is the default format", func(t *testing.T) {
		open, _ := fixtureOpener(t, nil)

		out, _, err := execute(t, open, "query", "department-summary")

		require.NoError(t, err)
		assert.Contains(t, out, "(4 rows)")
	})

	t.Run("xlsx goes to a file", func(t *testing.T) {
		open, _ := fixtureOpener(t, nil)
		path := filepath.Join(t.TempDir(), "budget.xlsx")

		_, stderr, err := execute(t, open, "query", "project-budget", "-f", "xlsx", "-o", path)

		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("PK")))
		assert.Contains(t, stderr, path)
	})

	t.Run("flags become params", func(t *testing.T) {
		open, _ := fixtureOpener(t, nil)

		out, _, err := execute(t, open, "query", "top-salaries", "--limit", "1", "-f", "csv")

		require.NoError(t, err)
		assert.Less(t, strings.Count(out, "\n"), 8)
	})

	t.Run("rejects a bad format before connecting", func(t *testing.T) {
		open, opened := fixtureOpener(t, nil)

		_, _, err := execute(t, open, "query", "dashboard", "--format", "pdf")

		require.Error(t, err)
		assert.Zero(t, *opened)
	})

	t.Run("rejects a malformed date before connecting", func(t *testing.T) {
		open, opened := fixtureOpener(t, nil)

		_, _, err := execute(t, open, "query", "dashboard", "--as-of", "01/07/2024")

		require.Error(t, err)
		assert.Zero(t, *opened)
	})

	t.Run("out of range parameter", func(t *testing.T) {
		open, _ := fixtureOpener(t, nil)

		_, _, err := execute(t, open, "query", "attendance-report", "--month", "13")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "month")
	})

	t.Run("unknown report", func(t *testing.T) {
		open, _ := fixtureOpener(t, nil)

		_, _, err := execute(t, open, "query", "headcount")

		require.Error(t, err)
	})
}

func TestQueryRunAll(t *testing.T) {
	t.Run("every report succeeds", func(t *testing.T) {
		open, _ := fixtureOpener(t, nil)
		path := filepath.Join(t.TempDir(), "all.txt")

		out, _, err := execute(t, open, "query", "run-all", "--output", path)

		require.NoError(t, err)
		assert.Contains(t, out, fmt.Sprintf("%d succeeded, 0 failed", len(report.BatchNames())))
		assert.NotContains(t, out, "OK      employee\n")
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, len(report.BatchNames()), strings.Count(string(data), " rows)\n"))
	})

	t.Run("a cycle fails only the hierarchy report", func(t *testing.T) {
		open, _ := fixtureOpener(t, func(s *store.Snapshot) { s.Employees[0].ManagerID = store.Ref(4) })

		out, _, err := execute(t, open, "query", "run-all")

		require.Error(t, err)
		assert.Equal(t, fmt.Sprintf("1 of %d reports failed", len(report.BatchNames())), err.Error())
		assert.Contains(t, out, "FAILED  org-chart")
		assert.Contains(t, out, "OK      dashboard")
	})
}

func TestEmployee(t *testing.T) {
	t.Run("show prints one employee", func(t *testing.T) {
		open, _ := fixtureOpener(t, nil)

		out, _, err := execute(t, open, "employee", "show", "4")

		require.NoError(t, err)
		assert.Contains(t, out, "Employee Dan Brown")
		assert.Contains(t, out, "Job Title: Engineer\n")
		assert.Contains(t, out, "Department: Engineering\n")
		assert.Contains(t, out, "Manager: Bob Smith\n")
		assert.Contains(t, out, "Salary: $90,000.00\n")
		assert.Contains(t, out, "Phone: None\n")
	})

	t.Run("show reports a missing employee", func(t *testing.T) {
		open, _ := fixtureOpener(t, nil)

		_, _, err := execute(t, open, "employee", "show", "99")

		require.Error(t, err)
		assert.Equal(t, "employee with id 99 not found", err.Error())
	})

	t.Run("show rejects a malformed id before connecting", func(t *testing.T) {
		open, opened := fixtureOpener(t, nil)

		_, _, err := execute(t, open, "employee", "show", "abc")

		require.Error(t, err)
		assert.Zero(t, *opened)
	})

	t.Run("list filters by department", func(t *testing.T) {
		open, _ := fixtureOpener(t, nil)

		out, _, err := execute(t, open, "employee", "list", "-d", "fin", "-l", "2")

		require.NoError(t, err)
		assert.Contains(t, out, "Eve Davis")
		assert.Contains(t, out, "(2 rows)")
	})

	t.Run("query takes the employee id flag", func(t *testing.T) {
		open, _ := fixtureOpener(t, nil)

		out, _, err := execute(t, open, "query", "employee", "--employee-id", "8", "-f", "csv")

		require.NoError(t, err)
		assert.Contains(t, out, "Henry Wilson")
		assert.Equal(t, 2, strings.Count(out, "\n"))
	})
}

func TestStatus(t *testing.T) {
	open, _ := fixtureOpener(t, nil)

	out, _, err := execute(t, open, "status")

	require.NoError(t, err)
	assert.Contains(t, out, "Employees")
	assert.Contains(t, out, "8 records")
	assert.Contains(t, out, "Snapshot: v1")
	assert.NotContains(t, out, "Last error")
}

func TestList(t *testing.T) {
	out, _, err := execute(t, nil, "list")

	require.NoError(t, err)
	for _, name := range report.Names() {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "limit=3")
}

func TestDatabaseConfig(t *testing.T) {
	base := connection.DatabaseConfig{Driver: connection.DriverPostgres, SQLitePath: "hr_database.db"}

	t.Run("db flag selects sqlite", func(t *testing.T) {
		cfg, err := (&rootOptions{dbPath: "/tmp/hr.db"}).databaseConfig(base)
		require.NoError(t, err)
		assert.Equal(t, connection.DriverSQLite, cfg.Driver)
		assert.Equal(t, "/tmp/hr.db", cfg.SQLitePath)
	})

	t.Run("environment wins without flags", func(t *testing.T) {
		cfg, err := (&rootOptions{}).databaseConfig(base)
		require.NoError(t, err)
		assert.Equal(t, base, cfg)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := (&rootOptions{driver: "mysql"}).databaseConfig(base)
		require.Error(t, err)
	})
}
