package contextutil_test

import (
	"context"
	"testing"

	"go-hris-analytics/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMetadata(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "REQ-1")
	ctx = contextutil.WithUserID(ctx, "u-7")

	md := contextutil.ExtractMetadata(ctx)
	assert.Equal(t, "REQ-1", md.RequestID)
	assert.Equal(t, "u-7", md.UserID)
	assert.Len(t, md.Fields(), 2)

	assert.Empty(t, contextutil.ExtractMetadata(context.Background()).Fields())
}

func TestGetLogger(t *testing.T) {
	fallback := zap.NewExample()
	scoped := zap.NewNop()

	assert.Same(t, fallback, contextutil.GetLogger(context.Background(), fallback))
	assert.Same(t, scoped, contextutil.GetLogger(contextutil.WithLogger(context.Background(), scoped), fallback))
	assert.NotNil(t, contextutil.GetLogger(context.Background(), nil))
}
