package analytics

import (
	"fmt"
	"net/http"

	analyticserrors "go-hris-analytics/internal/analytics/errors"
	"go-hris-analytics/internal/export"
	"go-hris-analytics/internal/shared/apperror"
	"go-hris-analytics/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("analytics.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("analytics.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("analytics request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String("report", c.Param("name")),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Catalog(c *gin.Context) {
	defs := h.service.Catalog()
	response.Success(c, http.StatusOK, defs, &response.Meta{RowCount: len(defs)})
}

func (h *Handler) Run(c *gin.Context) {
	name := c.Param("name")
	h.logger.Debug("http run report", zap.String("report", name))

	var q ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	params, err := q.ToParams()
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.RunReport(c.Request.Context(), name, params)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, &response.Meta{
		SnapshotVersion: resp.SnapshotVersion,
		GeneratedAt:     resp.GeneratedAt,
		Cached:          resp.Cached,
		RowCount:        len(resp.Rows),
	})
}

func (h *Handler) Export(c *gin.Context) {
	name := c.Param("name")

	var q ExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	if q.Format == "" {
		q.Format = string(export.FormatCSV)
	}
	format, err := export.ParseFormat(q.Format)
	if err != nil {
		h.writeServiceError(c, analyticserrors.ErrInvalidFormat.WithErr(err))
		return
	}
	params, err := q.ToParams()
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	file, err := h.service.Export(c.Request.Context(), name, params, format)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.logger.Debug("http export report",
		zap.String("report", name),
		zap.String("format", string(format)),
		zap.Int("bytes", len(file.Data)),
	)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

func (h *Handler) Status(c *gin.Context) {
	resp, err := h.service.Status(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, &response.Meta{SnapshotVersion: resp.SnapshotVersion})
}

func (h *Handler) Refresh(c *gin.Context) {
	info, err := h.service.Refresh(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.logger.Info("snapshot refreshed via api", zap.String("snapshot_version", info.Version))
	response.Success(c, http.StatusOK, info, &response.Meta{SnapshotVersion: info.Version, GeneratedAt: info.LoadedAt})
}
