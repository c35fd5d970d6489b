package watch

import (
	"context"
	"sync"
)

// PassFunc runs one build pass. It reports failures itself.
type PassFunc func(ctx context.Context)

// worker runs passes one at a time. Requests made while a pass is running
// collapse into a single follow-up pass.
type worker struct {
	pass     PassFunc
	requests chan struct{}
	wg       sync.WaitGroup
}

func newWorker(pass PassFunc) *worker {
	return &worker{pass: pass, requests: make(chan struct{}, 1)}
}

// Request queues a pass unless one is already queued.
func (w *worker) Request() {
	select {
	case w.requests <- struct{}{}:
	default:
	}
}

func (w *worker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.requests:
				w.pass(ctx)
			}
		}
	}()
}

// Wait blocks until the worker goroutine has returned.
func (w *worker) Wait() {
	w.wg.Wait()
}
