package process

import (
	"fmt"

	"github.com/google/shlex"

	"git.home.luguber.info/inful/elmbrunch/internal/foundation"
)

// Command describes one external invocation: a shell-style command line and
// an optional working directory. None means the current process directory.
// When Argv is set it is executed verbatim and Line is only used for display.
type Command struct {
	Line string
	Argv []string
	Dir  foundation.Option[string]
	// Labels annotate the command for observers; they never affect execution.
	Labels map[string]string
}

// Label returns the value of a label, or "" when unset.
func (c Command) Label(key string) string {
	return c.Labels[key]
}

// Args returns a copy of Argv when set. Otherwise it splits Line using shell
// quoting rules, so backslashes in Line are treated as escapes.
func (c Command) Args() ([]string, error) {
	if len(c.Argv) > 0 {
		return append([]string(nil), c.Argv...), nil
	}
	parts, err := shlex.Split(c.Line)
	if err != nil {
		return nil, fmt.Errorf("failed to parse command %q: %w", c.Line, err)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("command cannot be empty")
	}
	return parts, nil
}

func (c Command) String() string {
	if dir, ok := c.Dir.Get(); ok {
		return fmt.Sprintf("%s (in %s)", c.Line, dir)
	}
	return c.Line
}
