package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	ferrors "git.home.luguber.info/inful/elmbrunch/internal/foundation/errors"
	"git.home.luguber.info/inful/elmbrunch/internal/logfields"
	"git.home.luguber.info/inful/elmbrunch/internal/metrics"
	"git.home.luguber.info/inful/elmbrunch/internal/process"
	"git.home.luguber.info/inful/elmbrunch/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	MetricsAddr string `name:"metrics-addr" help:"Serve Prometheus metrics on this address (e.g. :9464)"`

	runner process.Runner `kong:"-"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return w.run(ctx, root)
}

func (w *WatchCmd) run(ctx context.Context, root *CLI) error {
	reg := prometheus.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(reg)

	a, err := setup(ctx, root, recorder, w.runner)
	if err != nil {
		return err
	}
	defer a.Close()

	if w.MetricsAddr != "" {
		srv, err := serveMetrics(w.MetricsAddr, recorder)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Warn("Metrics server shutdown error", logfields.Error(err))
			}
		}()
	}

	a.runPass(ctx)

	watcher := watch.New(watch.Options{
		Roots:      a.pipeline.Watched(),
		Accepts:    a.pipeline.Accepts,
		Extensions: a.pipeline.Extensions(),
		Pass:       a.runPass,
		Debounce:   a.cfg.Watch.DebounceDuration(),
		Interval:   a.cfg.Watch.IntervalDuration(),
	})
	return watcher.Run(ctx)
}

func serveMetrics(addr string, recorder *metrics.PrometheusRecorder) (*http.Server, error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", recorder.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Surface immediate bind failures.
	select {
	case err := <-errCh:
		return nil, ferrors.WrapError(err, ferrors.CategoryNetwork, "failed to start metrics server").
			WithContext("addr", addr).
			Build()
	case <-time.After(100 * time.Millisecond):
	}
	slog.Info("Serving metrics", slog.String("addr", addr), slog.String("path", "/metrics"))
	return srv, nil
}
