package linklayer

import (
	"context"
	"sync"

	"github.com/diwakrZha/node-open-protocol-v2/logger"
)

// loopTask manages the lifecycle of the LinkLayer's goroutines (the
// reader and the protocol loop): no named task registry, no
// sender/receiver specializations, just start / cancel / wait.
type loopTask struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger logger.Logger
}

func newLoopTask(ctx context.Context, l logger.Logger) *loopTask {
	t := &loopTask{logger: l}
	t.ctx, t.cancel = context.WithCancel(ctx)

	return t
}

// Start runs fn in a new goroutine, tracked by the task's WaitGroup. fn
// must return when t.ctx is cancelled.
func (t *loopTask) Start(fn func(ctx context.Context)) {
	t.wg.Add(1)

	go func() {
		defer t.wg.Done()
		fn(t.ctx)
	}()
}

// Stop cancels the task's context, signalling every started goroutine to
// exit.
func (t *loopTask) Stop() { t.cancel() }

// Wait blocks until every started goroutine has returned.
func (t *loopTask) Wait() { t.wg.Wait() }
