package metrics

import "time"

// ResultLabel enumerates compile invocation outcomes for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// ResultFor maps a compile outcome onto its label.
func ResultFor(success bool) ResultLabel {
	if success {
		return ResultSuccess
	}
	return ResultFailed
}

// Recorder defines observability hooks for build passes and compiler
// invocations. Implementations may forward to Prometheus or elsewhere.
type Recorder interface {
	IncBuildPass()
	IncInvocationStarted()
	ObserveInvocation(result ResultLabel, d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncBuildPass()                                {}
func (NoopRecorder) IncInvocationStarted()                        {}
func (NoopRecorder) ObserveInvocation(ResultLabel, time.Duration) {}
