package analyticserrors

import (
	"net/http"

	"go-hris-analytics/internal/shared/apperror"
)

var (
	ErrUnknownReport = apperror.New(
		apperror.CodeUnknownReport,
		"Report not found",
		http.StatusNotFound,
	)
	ErrInvalidParameter = apperror.New(
		apperror.CodeInvalidParameter,
		"Invalid report parameter",
		http.StatusBadRequest,
	)
	ErrInvalidFormat = apperror.New(
		apperror.CodeInvalidParameter,
		"Unsupported export format",
		http.StatusBadRequest,
	)
	ErrCyclicHierarchy = apperror.New(
		apperror.CodeCyclicHierarchy,
		"The reporting hierarchy contains a manager cycle",
		http.StatusConflict,
	)
	ErrIntegrityViolation = apperror.New(
		apperror.CodeIntegrity,
		"HR data failed integrity checks",
		http.StatusUnprocessableEntity,
	)
	ErrSnapshotUnavailable = apperror.New(
		apperror.CodeSnapshotUnavailable,
		"HR data snapshot is not available",
		http.StatusServiceUnavailable,
	)
	ErrSourceSchemaMissing = apperror.New(
		apperror.CodeSnapshotUnavailable,
		"HR source tables are missing",
		http.StatusServiceUnavailable,
	)
	ErrSourceUnavailable = apperror.New(
		apperror.CodeSnapshotUnavailable,
		"HR source database is unreachable",
		http.StatusServiceUnavailable,
	)
	ErrInvalidSourceData = apperror.New(
		apperror.CodeSnapshotUnavailable,
		"HR source data could not be read",
		http.StatusServiceUnavailable,
	)
)
