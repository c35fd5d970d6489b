package host

import (
	"context"
	"time"

	ferrors "git.home.luguber.info/inful/elmbrunch/internal/foundation/errors"
	"git.home.luguber.info/inful/elmbrunch/internal/process"
)

// PassReport describes one build pass.
type PassReport struct {
	BuildID   string
	Files     int
	Handles   []*process.Handle
	StartedAt time.Time
}

// Summary aggregates the results of a pass's launches.
type Summary struct {
	Succeeded int
	Failed    int
	Results   []process.Result
}

// Total is the number of launches.
func (s Summary) Total() int {
	return s.Succeeded + s.Failed
}

// Wait blocks until every launch of the pass has finished. It returns a
// compiler error when at least one launch failed.
func (r *PassReport) Wait(ctx context.Context) (Summary, error) {
	var s Summary
	results, err := process.WaitAll(ctx, r.Handles)
	s.Results = results
	for _, res := range results {
		if res.Success() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	if err != nil {
		return s, err
	}
	if s.Failed > 0 {
		return s, ferrors.CompilerError("compilation failed").
			WithContext("build_id", r.BuildID).
			WithContext("failed", s.Failed).
			WithContext("total", s.Total()).
			Build()
	}
	return s, nil
}
