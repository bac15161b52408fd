package middleware

import (
	"net/http"
	"time"

	"go-hris-analytics/internal/shared/apperror"
	"go-hris-analytics/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrOperationInProgress = apperror.New(
	apperror.CodeConflict,
	"The operation is already running, try again shortly",
	http.StatusConflict,
)

// ExclusiveLock lets one request for key run at a time across every API
// instance sharing rdb. The lock expires after ttl if its holder dies.
func ExclusiveLock(rdb *redis.Client, key string, ttl time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		lockKey := "locks:" + key
		acquired, err := rdb.SetNX(ctx, lockKey, contextutil.GetRequestID(ctx), ttl).Result()
		if err != nil {
			// redis being down must not block the operation itself
			logger.Warn("acquire lock failed", zap.String("key", lockKey), zap.Error(err))
			c.Next()
			return
		}
		if !acquired {
			abortWith(c, ErrOperationInProgress)
			return
		}

		defer func() {
			if err := rdb.Del(ctx, lockKey).Err(); err != nil {
				logger.Warn("release lock failed", zap.String("key", lockKey), zap.Error(err))
			}
		}()
		c.Next()
	}
}
