package process

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/elmbrunch/internal/foundation/errors"
	"git.home.luguber.info/inful/elmbrunch/internal/metrics"
)

// gatedRunner blocks every Run until release is closed.
type gatedRunner struct {
	release chan struct{}
	started chan Command
	running atomic.Int32
	peak    atomic.Int32
	fail    map[string]bool
}

func newGatedRunner() *gatedRunner {
	return &gatedRunner{release: make(chan struct{}), started: make(chan Command, 16), fail: map[string]bool{}}
}

func (g *gatedRunner) Run(ctx context.Context, cmd Command) Result {
	n := g.running.Add(1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}
	g.started <- cmd
	defer g.running.Add(-1)

	select {
	case <-g.release:
	case <-ctx.Done():
		return Result{Err: ctx.Err(), ExitCode: -1}
	}
	if g.fail[cmd.Line] {
		return Result{Err: errors.New("exit status 1"), ExitCode: 1, Stderr: "compile error", Duration: time.Millisecond}
	}
	return Result{Duration: time.Millisecond}
}

type countingRecorder struct {
	mu       sync.Mutex
	started  int
	observed map[metrics.ResultLabel]int
}

func (c *countingRecorder) IncBuildPass() {}
func (c *countingRecorder) IncInvocationStarted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started++
}
func (c *countingRecorder) ObserveInvocation(r metrics.ResultLabel, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.observed == nil {
		c.observed = map[metrics.ResultLabel]int{}
	}
	c.observed[r]++
}

func TestDispatcher_LaunchDoesNotBlock(t *testing.T) {
	runner := newGatedRunner()
	d := NewDispatcher(runner)

	h1 := d.Launch(context.Background(), Command{Line: "elm make A.elm"})
	h2 := d.Launch(context.Background(), Command{Line: "elm make B.elm"})

	// Both are running at the same time: unbounded by default.
	<-runner.started
	<-runner.started
	_, done := h1.Result()
	assert.False(t, done)
	assert.Equal(t, int32(2), runner.peak.Load())

	close(runner.release)
	results, err := WaitAll(context.Background(), []*Handle{h1, h2})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "elm make A.elm", results[0].Command.Line)
	assert.Equal(t, "elm make B.elm", results[1].Command.Line)
	assert.True(t, results[0].Success())
}

func TestDispatcher_MaxConcurrency(t *testing.T) {
	runner := newGatedRunner()
	d := NewDispatcher(runner, WithMaxConcurrency(1))

	var handles []*Handle
	for _, line := range []string{"a", "b", "c"} {
		handles = append(handles, d.Launch(context.Background(), Command{Line: line}))
	}
	<-runner.started
	select {
	case <-runner.started:
		t.Fatal("second command started while the first was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(runner.release)
	_, err := WaitAll(context.Background(), handles)
	require.NoError(t, err)
	assert.Equal(t, int32(1), runner.peak.Load())
}

func TestDispatcher_ObserversAndMetrics(t *testing.T) {
	runner := newGatedRunner()
	runner.fail["bad"] = true
	rec := &countingRecorder{}

	var mu sync.Mutex
	var seen []Result
	d := NewDispatcher(runner, WithRecorder(rec), WithObserver(func(r Result) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, r)
	}))

	good := d.Launch(context.Background(), Command{Line: "good"})
	bad := d.Launch(context.Background(), Command{Line: "bad"})
	close(runner.release)

	res, err := bad.Wait(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Success())
	assert.Equal(t, "compile error", res.Stderr)
	assert.Equal(t, "bad", res.Command.Line)

	_, err = good.Wait(context.Background())
	require.NoError(t, err)
	d.Wait()

	mu.Lock()
	assert.Len(t, seen, 2)
	mu.Unlock()
	assert.Equal(t, 2, rec.started)
	assert.Equal(t, 1, rec.observed[metrics.ResultSuccess])
	assert.Equal(t, 1, rec.observed[metrics.ResultFailed])
}

func TestDispatcher_QueuedLaunchCancelled(t *testing.T) {
	runner := newGatedRunner()
	d := NewDispatcher(runner, WithMaxConcurrency(1))

	first := d.Launch(context.Background(), Command{Line: "first"})
	<-runner.started

	ctx, cancel := context.WithCancel(context.Background())
	queued := d.Launch(ctx, Command{Line: "queued"})
	cancel()

	res, err := queued.Wait(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Success())
	assert.True(t, ferrors.HasCategory(res.Err, ferrors.CategoryRuntime))

	close(runner.release)
	_, err = first.Wait(context.Background())
	require.NoError(t, err)
}

func TestHandle_WaitRespectsContext(t *testing.T) {
	runner := newGatedRunner()
	d := NewDispatcher(runner)
	h := d.Launch(context.Background(), Command{Line: "slow"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := h.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "slow", h.Command().Line)

	close(runner.release)
	<-h.Done()
	_, ok := h.Result()
	assert.True(t, ok)
}

func TestDispatcherTagsBuildID(t *testing.T) {
	d := NewDispatcher(RunnerFunc(func(context.Context, Command) Result { return Result{} }))
	ctx := WithBuildID(context.Background(), "pass-42")

	res, err := d.Launch(ctx, Command{Line: "elm make Main.elm"}).Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pass-42", res.BuildID)
}
