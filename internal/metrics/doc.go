// Package metrics provides build pass and compiler invocation metrics.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so nothing needs nil checks when metrics are disabled:
//
//	recorder := metrics.NewPrometheusRecorder(nil)
//	dispatcher := process.NewDispatcher(runner, process.WithRecorder(recorder))
//	http.Handle("/metrics", recorder.Handler())
package metrics
