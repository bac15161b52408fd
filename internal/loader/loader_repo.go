package loader

import (
	"context"
	"database/sql"
	"fmt"

	"go-hris-analytics/internal/store"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=loader_repo.go -destination=mock/loader_repo_mock.go -package=mock
type Repository interface {
	// Load reads every source table inside one read-only transaction and
	// returns them as a snapshot, rows ordered by primary key.
	Load(ctx context.Context) (store.Snapshot, error)
	// Counts returns the row count of each source table.
	Counts(ctx context.Context) (map[string]int64, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewRepository(db *gorm.DB, logger ...*zap.Logger) Repository {
	l := zap.L().Named("loader.repository")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("loader.repository")
	}
	return &repository{db: db, logger: l}
}

// txOptions asks postgres for a repeatable-read snapshot. sqlite transactions
// are already serializable and reject explicit isolation levels.
func (r *repository) txOptions() *sql.TxOptions {
	if r.db.Dialector.Name() == "postgres" {
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return nil
}

func findAll[T any](tx *gorm.DB, orderBy string) ([]T, error) {
	var rows []T
	if err := tx.Order(orderBy).Find(&rows).Error; err != nil {
		var zero T
		return nil, fmt.Errorf("load %T: %w", zero, err)
	}
	return rows, nil
}

func (r *repository) Load(ctx context.Context) (store.Snapshot, error) {
	var raw rawSnapshot
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if raw.jobTitles, err = findAll[JobTitleRow](tx, `"JobTitleID"`); err != nil {
			return err
		}
		if raw.departments, err = findAll[DepartmentRow](tx, `"DepartmentID"`); err != nil {
			return err
		}
		if raw.employees, err = findAll[EmployeeRow](tx, `"EmployeeID"`); err != nil {
			return err
		}
		if raw.projects, err = findAll[ProjectRow](tx, `"ProjectID"`); err != nil {
			return err
		}
		if raw.assignments, err = findAll[EmployeeProjectRow](tx, `"EmployeeID", "ProjectID"`); err != nil {
			return err
		}
		if raw.attendance, err = findAll[AttendanceRow](tx, `"AttendanceID"`); err != nil {
			return err
		}
		if raw.leaves, err = findAll[LeaveRequestRow](tx, `"LeaveID"`); err != nil {
			return err
		}
		if raw.reviews, err = findAll[PerformanceReviewRow](tx, `"ReviewID"`); err != nil {
			return err
		}
		if raw.payroll, err = findAll[PayrollRow](tx, `"PayrollID"`); err != nil {
			return err
		}
		return nil
	}, r.txOptions())
	if err != nil {
		r.logger.Error("load snapshot failed", zap.Error(err))
		return store.Snapshot{}, err
	}

	snap, err := raw.toSnapshot()
	if err != nil {
		r.logger.Error("convert snapshot failed", zap.Error(err))
		return store.Snapshot{}, err
	}

	r.logger.Debug("snapshot loaded",
		zap.Int("employees", len(snap.Employees)),
		zap.Int("departments", len(snap.Departments)),
		zap.Int("payroll", len(snap.Payroll)),
	)
	return snap, nil
}

func (r *repository) Counts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(Tables))
	for _, table := range Tables {
		var n int64
		if err := r.db.WithContext(ctx).Table(table).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}
