package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput     = "INVALID_INPUT"
	CodeInvalidParameter = "INVALID_PARAMETER"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeUnknownReport    = "UNKNOWN_REPORT"
	CodeConflict         = "CONFLICT"
	CodeCyclicHierarchy  = "CYCLIC_HIERARCHY"
	CodeIntegrity        = "INTEGRITY_VIOLATION"
	CodeTooManyRequests  = "TOO_MANY_REQUESTS"

	// Server errors (5xx)
	CodeInternalError       = "INTERNAL_ERROR"
	CodeSnapshotUnavailable = "SNAPSHOT_UNAVAILABLE"
)
