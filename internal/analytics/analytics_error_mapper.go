package analytics

import (
	"errors"
	"strings"

	analyticserrors "go-hris-analytics/internal/analytics/errors"
	"go-hris-analytics/internal/hierarchy"
	"go-hris-analytics/internal/loader"
	"go-hris-analytics/internal/report"
	"go-hris-analytics/internal/shared/apperror"
	"go-hris-analytics/internal/store"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// maxViolationDetails caps how many integrity violations are sent to clients.
const maxViolationDetails = 50

func mapAnalyticsError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	var paramErr *report.ParameterError
	if errors.As(err, &paramErr) {
		e := analyticserrors.ErrInvalidParameter.WithErr(err).WithDetails(map[string]any{
			"param":  paramErr.Param,
			"value":  paramErr.Value,
			"reason": paramErr.Reason,
		})
		e.Message = paramErr.Error()
		return e
	}

	if errors.Is(err, report.ErrUnknownReport) {
		return analyticserrors.ErrUnknownReport.WithErr(err)
	}

	var cycleErr *hierarchy.CyclicHierarchyError
	if errors.As(err, &cycleErr) {
		e := analyticserrors.ErrCyclicHierarchy.WithErr(err).WithDetails(map[string]any{
			"employeeId": cycleErr.EmployeeID,
			"chain":      cycleErr.Chain,
		})
		e.Message = cycleErr.Error()
		return e
	}

	var integrityErr *store.IntegrityError
	if errors.As(err, &integrityErr) {
		violations := integrityErr.Violations
		if len(violations) > maxViolationDetails {
			violations = violations[:maxViolationDetails]
		}
		details := make([]string, len(violations))
		for i, v := range violations {
			details[i] = v.String()
		}
		return analyticserrors.ErrIntegrityViolation.WithErr(err).WithDetails(map[string]any{
			"count":      len(integrityErr.Violations),
			"violations": details,
		})
	}

	var fieldErr *loader.FieldError
	if errors.As(err, &fieldErr) {
		return analyticserrors.ErrInvalidSourceData.WithErr(err).WithDetails(fieldErr.Error())
	}

	var notFound *store.NotFoundError
	if errors.As(err, &notFound) {
		return apperror.ErrNotFound.WithErr(err).WithDetails(map[string]any{
			"kind": string(notFound.Kind),
			"id":   notFound.ID,
		})
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, store.ErrNotFound) {
		return apperror.ErrNotFound.WithErr(err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "42P01":
			return analyticserrors.ErrSourceSchemaMissing.WithErr(err).WithDetails(pgErr.Message)
		case strings.HasPrefix(pgErr.Code, "08"):
			return analyticserrors.ErrSourceUnavailable.WithErr(err)
		}
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return analyticserrors.ErrSourceUnavailable.WithErr(err)
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "no such table") || strings.Contains(errMsg, "does not exist") && strings.Contains(errMsg, "relation") {
		return analyticserrors.ErrSourceSchemaMissing.WithErr(err)
	}

	return err
}
