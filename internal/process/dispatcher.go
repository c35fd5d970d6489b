package process

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	ferrors "git.home.luguber.info/inful/elmbrunch/internal/foundation/errors"
	"git.home.luguber.info/inful/elmbrunch/internal/metrics"
)

// Observer receives every result a Dispatcher produces.
type Observer func(Result)

// Dispatcher launches commands asynchronously. By default every launch starts
// immediately; WithMaxConcurrency bounds how many run at once.
type Dispatcher struct {
	runner    Runner
	sem       *semaphore.Weighted
	recorder  metrics.Recorder
	observers []Observer
	wg        sync.WaitGroup
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithMaxConcurrency bounds concurrent commands. n <= 0 means unbounded.
func WithMaxConcurrency(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.sem = semaphore.NewWeighted(int64(n))
		} else {
			d.sem = nil
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) DispatcherOption {
	return func(d *Dispatcher) {
		if r != nil {
			d.recorder = r
		}
	}
}

// WithObserver registers an observer. Observers run in the launch goroutine,
// in registration order, before the Handle completes.
func WithObserver(o Observer) DispatcherOption {
	return func(d *Dispatcher) {
		if o != nil {
			d.observers = append(d.observers, o)
		}
	}
}

// NewDispatcher creates a dispatcher running commands with runner.
func NewDispatcher(runner Runner, opts ...DispatcherOption) *Dispatcher {
	if runner == nil {
		runner = ExecRunner{}
	}
	d := &Dispatcher{runner: runner, recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Launch starts cmd in the background and returns immediately. ctx bounds the
// lifetime of the process: cancelling it kills a running command.
func (d *Dispatcher) Launch(ctx context.Context, cmd Command) *Handle {
	h := newHandle(cmd)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		h.finish(d.run(ctx, cmd))
	}()
	return h
}

func (d *Dispatcher) run(ctx context.Context, cmd Command) Result {
	if d.sem != nil {
		if err := d.sem.Acquire(ctx, 1); err != nil {
			res := Result{
				Command:   cmd,
				BuildID:   BuildIDFrom(ctx),
				ExitCode:  -1,
				StartedAt: time.Now(),
				Err: ferrors.WrapError(err, ferrors.CategoryRuntime, "command was not started").
					WithContext("command", cmd.Line).
					Build(),
			}
			d.notify(res)
			return res
		}
		defer d.sem.Release(1)
	}

	d.recorder.IncInvocationStarted()
	res := d.runner.Run(ctx, cmd)
	res.Command = cmd
	res.BuildID = BuildIDFrom(ctx)
	d.recorder.ObserveInvocation(metrics.ResultFor(res.Success()), res.Duration)
	d.notify(res)
	return res
}

func (d *Dispatcher) notify(res Result) {
	for _, o := range d.observers {
		o(res)
	}
}

// Wait blocks until every launched command has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
