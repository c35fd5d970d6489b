// Package notify publishes compile results to NATS so other tools (live
// reload servers, dashboards) can react to finished builds.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	ferrors "git.home.luguber.info/inful/elmbrunch/internal/foundation/errors"
	"git.home.luguber.info/inful/elmbrunch/internal/logfields"
	"git.home.luguber.info/inful/elmbrunch/internal/process"
	"git.home.luguber.info/inful/elmbrunch/internal/retry"
)

// CompileEvent is the JSON message published for every finished compile.
type CompileEvent struct {
	BuildID    string    `json:"build_id,omitempty"`
	Source     string    `json:"source"`
	Output     string    `json:"output"`
	Command    string    `json:"command"`
	Dir        string    `json:"dir,omitempty"`
	Success    bool      `json:"success"`
	ExitCode   int       `json:"exit_code"`
	Stderr     string    `json:"stderr,omitempty"`
	DurationMS float64   `json:"duration_ms"`
	FinishedAt time.Time `json:"finished_at"`
}

// NewCompileEvent builds the event for res.
func NewCompileEvent(res process.Result) CompileEvent {
	return CompileEvent{
		BuildID:    res.BuildID,
		Source:     res.Command.Label(logfields.KeySource),
		Output:     res.Command.Label(logfields.KeyOutput),
		Command:    res.Command.Line,
		Dir:        res.Command.Dir.UnwrapOr(""),
		Success:    res.Success(),
		ExitCode:   res.ExitCode,
		Stderr:     res.Stderr,
		DurationMS: float64(res.Duration) / float64(time.Millisecond),
		FinishedAt: res.StartedAt.Add(res.Duration),
	}
}

// Conn is the subset of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
}

// Publisher sends compile events to a NATS subject.
type Publisher struct {
	conn    Conn
	subject string
	close   func()
}

// NewPublisher wraps an existing connection.
func NewPublisher(conn Conn, subject string) *Publisher {
	return &Publisher{conn: conn, subject: subject, close: func() {}}
}

// Connect dials the NATS server at url, retrying failed attempts per policy.
func Connect(ctx context.Context, url, subject string, policy retry.Policy) (*Publisher, error) {
	var nc *nats.Conn
	err := retry.Do(ctx, policy, "nats connect", func() error {
		var err error
		nc, err = nats.Connect(url,
			nats.Name("elmbrunch"),
			nats.Timeout(5*time.Second),
			nats.MaxReconnects(-1),
		)
		return err
	})
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryNetwork, "failed to connect to NATS").
			WithContext("url", url).
			Build()
	}
	slog.Info("NATS publisher connected", slog.String("url", url), slog.String("subject", subject))

	p := NewPublisher(nc, subject)
	p.close = func() {
		if err := nc.Drain(); err != nil {
			nc.Close()
		}
	}
	return p, nil
}

// Publish sends the event for res.
func (p *Publisher) Publish(res process.Result) error {
	data, err := json.Marshal(NewCompileEvent(res))
	if err != nil {
		return fmt.Errorf("failed to marshal compile event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish compile event: %w", err)
	}
	return nil
}

// Observe is a process.Observer. Publish failures are logged and never
// affect the compile result.
func (p *Publisher) Observe(res process.Result) {
	if err := p.Publish(res); err != nil {
		slog.Warn("Compile event not published", logfields.Command(res.Command.Line), logfields.Error(err))
	}
}

// Close drains the connection.
func (p *Publisher) Close() {
	p.close()
}
