// Package workerpool runs batches of independent tasks on a bounded ants pool.
package workerpool

import (
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

type Pool struct {
	pool   *ants.Pool
	logger *zap.Logger
}

// New creates a pool of size workers. Submissions block while all workers are
// busy.
func New(size int, logger ...*zap.Logger) (*Pool, error) {
	l := zap.L().Named("workerpool")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("workerpool")
	}
	p, err := ants.NewPool(size, ants.WithPanicHandler(func(v any) {
		l.Error("task panic", zap.Any("panic", v))
	}))
	if err != nil {
		return nil, err
	}
	return &Pool{pool: p, logger: l}, nil
}

// Run executes tasks concurrently and returns when all have finished. A task
// the pool refuses (for example after Release) runs on the calling goroutine.
func (p *Pool) Run(tasks []func()) {
	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			task()
		})
		if err != nil {
			p.logger.Warn("submit failed, running inline", zap.Error(err))
			func() {
				defer wg.Done()
				task()
			}()
		}
	}
	wg.Wait()
}

// Release stops the pool, waiting up to timeout for running tasks.
func (p *Pool) Release(timeout time.Duration) error {
	return p.pool.ReleaseTimeout(timeout)
}
