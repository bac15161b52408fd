package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"testing"

	"go-hris-analytics/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error", func(t *testing.T) {
		err := apperror.New(apperror.CodeUnknownReport, "Report not found", http.StatusNotFound)
		got := apperror.ToHTTP(err)
		assert.Equal(t, http.StatusNotFound, got.Status)
		assert.Equal(t, apperror.CodeUnknownReport, got.Code)
		assert.Equal(t, "Report not found", got.Message)
	})

	t.Run("wrapped app error keeps details", func(t *testing.T) {
		base := apperror.New(apperror.CodeIntegrity, "Integrity", http.StatusUnprocessableEntity)
		err := fmt.Errorf("load: %w", base.WithDetails([]string{"a"}))
		got := apperror.ToHTTP(err)
		assert.Equal(t, http.StatusUnprocessableEntity, got.Status)
		assert.Equal(t, []string{"a"}, got.Details)
		assert.Nil(t, base.Details)
	})

	t.Run("plain error is internal", func(t *testing.T) {
		got := apperror.ToHTTP(errors.New("pq: relation does not exist"))
		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, apperror.CodeInternalError, got.Code)
		assert.NotContains(t, got.Message, "relation")
	})
}

func TestWrap(t *testing.T) {
	assert.Nil(t, apperror.Wrap(nil, apperror.CodeInternalError, "x", 500))

	cause := errors.New("boom")
	err := apperror.Wrap(cause, apperror.CodeInternalError, "failed", 500)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed: boom", err.Error())
}

func TestMapValidationError(t *testing.T) {
	type query struct {
		Month int `json:"month" validate:"required"`
		Limit int `json:"min_projects" validate:"gte=0"`
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string { return f.Tag.Get("json") })

	t.Run("required", func(t *testing.T) {
		err := apperror.MapValidationError(v.Struct(query{}))
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, "Month is required", appErr.Message)
	})

	t.Run("invalid", func(t *testing.T) {
		err := apperror.MapValidationError(v.Struct(query{Month: 1, Limit: -1}))
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, "Min Projects is invalid", appErr.Message)
		assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
	})

	t.Run("not a validation error", func(t *testing.T) {
		err := apperror.MapValidationError(errors.New("bad json"))
		assert.Equal(t, apperror.CodeInvalidInput, apperror.ToHTTP(err).Code)
	})
}
