package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-hris-analytics/internal/middleware"
	"go-hris-analytics/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

func TestAuthMiddleware(t *testing.T) {
	newRouter := func(secret string) *gin.Engine {
		enforcer, err := middleware.NewEnforcer()
		require.NoError(t, err)
		r := gin.New()
		r.GET("/admin", middleware.AuthMiddleware(secret), middleware.Authorize(enforcer, middleware.ResourceSnapshot, middleware.ActionRefresh), func(c *gin.Context) {
			c.String(http.StatusOK, c.GetString(middleware.ContextUserID))
		})
		return r
	}

	tests := []struct {
		name       string
		secret     string
		header     string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "valid admin token",
			secret:     secret,
			header:     "Bearer " + signToken(t, jwt.MapClaims{"user_id": "u-1", "role": "admin", "exp": time.Now().Add(time.Hour).Unix()}),
			wantStatus: http.StatusOK,
			wantBody:   "u-1",
		},
		{
			name:       "analyst is forbidden",
			secret:     secret,
			header:     "Bearer " + signToken(t, jwt.MapClaims{"user_id": "u-2", "role": "analyst"}),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing token",
			secret:     secret,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			secret:     secret,
			header:     "Bearer " + signToken(t, jwt.MapClaims{"user_id": "u-1", "role": "admin", "exp": time.Now().Add(-time.Hour).Unix()}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "token without user id",
			secret:     secret,
			header:     "Bearer " + signToken(t, jwt.MapClaims{"role": "admin"}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "auth disabled",
			secret:     "",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			newRouter(tt.secret).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}

	t.Run("expired token reports expiry", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{"user_id": "u-1", "exp": time.Now().Add(-time.Hour).Unix()}))
		w := httptest.NewRecorder()

		newRouter(secret).ServeHTTP(w, req)

		assert.Equal(t, "UNAUTHORIZED", errorCode(t, w))
		assert.Contains(t, w.Body.String(), "Token expired")
	})
}

func TestAuthorize(t *testing.T) {
	enforcer, err := middleware.NewEnforcer()
	require.NoError(t, err)

	tests := []struct {
		role     string
		resource string
		action   string
		allowed  bool
	}{
		{middleware.RoleAnalyst, middleware.ResourceReports, middleware.ActionRead, true},
		{middleware.RoleAnalyst, middleware.ResourceStatus, middleware.ActionRead, true},
		{middleware.RoleAnalyst, middleware.ResourceSnapshot, middleware.ActionRefresh, false},
		{middleware.RoleAdmin, middleware.ResourceReports, middleware.ActionRead, true},
		{middleware.RoleAdmin, middleware.ResourceSnapshot, middleware.ActionRefresh, true},
		{"auditor", middleware.ResourceReports, middleware.ActionRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.role+" "+tt.resource+" "+tt.action, func(t *testing.T) {
			r := gin.New()
			r.GET("/", func(c *gin.Context) {
				c.Set(middleware.ContextRole, tt.role)
				c.Next()
			}, middleware.Authorize(enforcer, tt.resource, tt.action), func(c *gin.Context) {
				c.Status(http.StatusNoContent)
			})
			w := httptest.NewRecorder()

			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			if tt.allowed {
				assert.Equal(t, http.StatusNoContent, w.Code)
			} else {
				assert.Equal(t, http.StatusForbidden, w.Code)
				assert.Equal(t, "FORBIDDEN", errorCode(t, w))
			}
		})
	}

	t.Run("token without role reads as analyst", func(t *testing.T) {
		r := gin.New()
		r.GET("/reports", middleware.AuthMiddleware(secret), middleware.Authorize(enforcer, middleware.ResourceReports, middleware.ActionRead), func(c *gin.Context) {
			c.String(http.StatusOK, c.GetString(middleware.ContextRole))
		})
		req := httptest.NewRequest(http.MethodGet, "/reports", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{"user_id": "u-3"}))
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, middleware.RoleAnalyst, w.Body.String())
	})
}

func TestContextLogger_PropagatesRequestID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ContextLogger(zap.NewNop()))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, contextutil.GetRequestID(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Body.String())
	assert.Equal(t, "req-42", w.Header().Get(middleware.HeaderRequestID))
}

func TestRateLimitByIP(t *testing.T) {
	r := gin.New()
	r.GET("/reports", middleware.RateLimitByIP(1, 2), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	var codes []int
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestExclusiveLock(t *testing.T) {
	newRouter := func(t *testing.T) (*gin.Engine, redismock.ClientMock) {
		rdb, mock := redismock.NewClientMock()
		r := gin.New()
		r.Use(middleware.RequestID())
		r.POST("/refresh", middleware.ExclusiveLock(rdb, "refresh", time.Minute, zap.NewNop()), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return r, mock
	}
	newRequest := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		req.Header.Set(middleware.HeaderRequestID, "req-1")
		return req
	}

	t.Run("acquires and releases", func(t *testing.T) {
		r, mock := newRouter(t)
		mock.ExpectSetNX("locks:refresh", "req-1", time.Minute).SetVal(true)
		mock.ExpectDel("locks:refresh").SetVal(1)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, newRequest())

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("held lock conflicts", func(t *testing.T) {
		r, mock := newRouter(t)
		mock.ExpectSetNX("locks:refresh", "req-1", time.Minute).SetVal(false)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, newRequest())

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "CONFLICT", errorCode(t, w))
	})

	t.Run("redis failure lets the request through", func(t *testing.T) {
		r, mock := newRouter(t)
		mock.ExpectSetNX("locks:refresh", "req-1", time.Minute).SetErr(errors.New("redis down"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, newRequest())

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
