package process

import "context"

// Handle is the pending result of one launched command.
type Handle struct {
	cmd    Command
	done   chan struct{}
	result Result
}

func newHandle(cmd Command) *Handle {
	return &Handle{cmd: cmd, done: make(chan struct{})}
}

// Command returns what was launched.
func (h *Handle) Command() Command {
	return h.cmd
}

// Done is closed once the result is available.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Result returns the result without blocking; ok is false while running.
func (h *Handle) Result() (Result, bool) {
	select {
	case <-h.done:
		return h.result, true
	default:
		return Result{}, false
	}
}

// Wait blocks until the command finishes or ctx is done.
func (h *Handle) Wait(ctx context.Context) (Result, error) {
	select {
	case <-h.done:
		return h.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func (h *Handle) finish(res Result) {
	h.result = res
	close(h.done)
}

// WaitAll waits for every handle and returns their results in order.
func WaitAll(ctx context.Context, handles []*Handle) ([]Result, error) {
	results := make([]Result, 0, len(handles))
	for _, h := range handles {
		res, err := h.Wait(ctx)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
