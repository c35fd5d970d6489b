package process

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"time"

	ferrors "git.home.luguber.info/inful/elmbrunch/internal/foundation/errors"
	"git.home.luguber.info/inful/elmbrunch/internal/logfields"
)

// Result is the outcome of one command. Err is nil exactly when the process
// exited with status zero; Stderr is only kept for failures.
type Result struct {
	Command   Command
	BuildID   string
	Err       error
	Stderr    string
	ExitCode  int
	StartedAt time.Time
	Duration  time.Duration
}

// Success reports whether the command exited with status zero.
func (r Result) Success() bool {
	return r.Err == nil
}

// Runner executes a command and blocks until it finishes.
type Runner interface {
	Run(ctx context.Context, cmd Command) Result
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, cmd Command) Result

func (f RunnerFunc) Run(ctx context.Context, cmd Command) Result {
	return f(ctx, cmd)
}

// ExecRunner runs commands as child processes without a shell.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, cmd Command) Result {
	res := Result{Command: cmd, StartedAt: time.Now(), ExitCode: -1}

	args, err := cmd.Args()
	if err != nil {
		res.Err = ferrors.WrapError(err, ferrors.CategoryValidation, "invalid command line").
			WithContext("command", cmd.Line).
			Build()
		return res
	}

	c := exec.CommandContext(ctx, args[0], args[1:]...)
	if dir, ok := cmd.Dir.Get(); ok {
		c.Dir = dir
	}
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err = c.Run()
	res.Duration = time.Since(res.StartedAt)
	if out := stdout.String(); out != "" {
		slog.Debug("command stdout", logfields.Command(cmd.Line), slog.String("output", out))
	}

	if err == nil {
		res.ExitCode = 0
		return res
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
	}
	res.Stderr = stderr.String()

	b := ferrors.WrapError(err, ferrors.CategoryCompiler, "command failed").
		WithContext("command", cmd.Line).
		WithContext("exit_code", res.ExitCode)
	if errors.Is(err, exec.ErrNotFound) {
		b = b.WithContext("hint", args[0]+" was not found on PATH")
	}
	res.Err = b.Build()
	return res
}
