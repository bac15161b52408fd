package response

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Meta describes where a report payload came from.
type Meta struct {
	SnapshotVersion string    `json:"snapshotVersion,omitempty"`
	GeneratedAt     time.Time `json:"generatedAt"`
	Cached          bool      `json:"cached,omitempty"`
	RowCount        int       `json:"rowCount,omitempty"`
}

type ApiEnvelope struct {
	Ok    bool  `json:"ok"`
	Data  any   `json:"data,omitempty"`
	Meta  *Meta `json:"meta,omitempty"`
	Error any   `json:"error,omitempty"`
}

func Success(c *gin.Context, status int, data any, meta *Meta) {
	c.JSON(status, ApiEnvelope{
		Ok:   true,
		Data: data,
		Meta: meta,
	})
}

func Error(c *gin.Context, status int, errorCode string, message string, details any) {
	c.JSON(status, ApiEnvelope{
		Ok: false,
		Error: map[string]any{
			"code":    errorCode,
			"message": message,
			"details": details,
		},
	})
}
