package watch

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// scheduler requests a pass every interval.
type scheduler struct {
	scheduler gocron.Scheduler
}

func newScheduler(interval time.Duration, request func()) (*scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			slog.Debug("Scheduled build pass requested")
			request()
		}),
		gocron.WithName("periodic-build-pass"),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create periodic build job: %w", err)
	}
	return &scheduler{scheduler: s}, nil
}

func (s *scheduler) Start() {
	s.scheduler.Start()
}

func (s *scheduler) Stop() error {
	return s.scheduler.Shutdown()
}
