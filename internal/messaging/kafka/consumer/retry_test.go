package consumer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryPolicy_Delay(t *testing.T) {
	p := DefaultRetryPolicy()

	assert.Equal(t, time.Second, p.delay(0))
	assert.Equal(t, 4*time.Second, p.delay(2))
	assert.Equal(t, 30*time.Second, p.delay(5))
	assert.Equal(t, 30*time.Second, p.delay(200))
	assert.Zero(t, RetryPolicy{MaxRetries: 3}.delay(1))
}

func TestRetryPolicy_Run(t *testing.T) {
	errDown := errors.New("down")
	errBad := errors.New("bad request")
	permanent := func(err error) bool { return errors.Is(err, errBad) }

	tests := []struct {
		name      string
		failures  []error
		wantCalls int
		wantErr   error
	}{
		{"first try", nil, 1, nil},
		{"recovers", []error{errDown, errDown}, 3, nil},
		{"exhausted", []error{errDown, errDown, errDown, errDown}, 3, errDown},
		{"permanent", []error{errBad}, 1, errBad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls, retried := 0, 0
			err := RetryPolicy{MaxRetries: 2}.run(context.Background(), func() error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			}, permanent, func(int, error) { retried++ })

			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, calls)
			assert.Equal(t, calls-1, retried)
		})
	}
}
