package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "elmbrunch"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg         *prom.Registry
	passes      prom.Counter
	invocations *prom.CounterVec
	duration    *prom.HistogramVec
	inFlight    prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them on reg
// (a fresh registry when reg is nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		passes: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_passes_total",
			Help:      "Build passes that reached the aggregate compile hook",
		}),
		invocations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "compile_invocations_total",
			Help:      "Completed elm make invocations by result",
		}, []string{"result"}),
		duration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "compile_duration_seconds",
			Help:      "Wall time of elm make invocations",
			Buckets:   prom.DefBuckets,
		}, []string{"result"}),
		inFlight: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "compile_in_flight",
			Help:      "elm make invocations launched but not yet finished",
		}),
	}
	reg.MustRegister(pr.passes, pr.invocations, pr.duration, pr.inFlight)
	return pr
}

func (p *PrometheusRecorder) IncBuildPass() {
	if p == nil {
		return
	}
	p.passes.Inc()
}

func (p *PrometheusRecorder) IncInvocationStarted() {
	if p == nil {
		return
	}
	p.inFlight.Inc()
}

func (p *PrometheusRecorder) ObserveInvocation(result ResultLabel, d time.Duration) {
	if p == nil {
		return
	}
	p.inFlight.Dec()
	p.invocations.WithLabelValues(string(result)).Inc()
	p.duration.WithLabelValues(string(result)).Observe(d.Seconds())
}

// Handler serves the recorder's registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
