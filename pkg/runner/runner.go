// Package runner invokes the external tools a build depends on: the
// packaging tool, the ELF patcher and the service manager.
package runner

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/arthur-debert/wheelstage/pkg/errors"
	"github.com/arthur-debert/wheelstage/pkg/logging"
)

// Command is a single external process invocation
type Command struct {
	Name string
	Args []string
	// Dir is the working directory; empty means the current one
	Dir string
	// Env entries are appended to the inherited environment
	Env []string
	// Stdin is optional process input
	Stdin io.Reader
}

// String renders the command line for logs and error messages
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner runs external commands synchronously
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands with os/exec
type ExecRunner struct {
	// Output, when set, receives the combined process output as it is produced
	Output io.Writer
}

// NewExecRunner creates a runner that streams output to w; nil only captures it
func NewExecRunner(w io.Writer) *ExecRunner {
	return &ExecRunner{Output: w}
}

// Run executes cmd and waits for it. A non-zero exit, a missing binary or a
// canceled context is returned as an EXTERNAL_TOOL error carrying the output.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	logger := logging.GetLogger("runner")
	logging.LogCommand(cmd.Name, cmd.Args)

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	c.Stdin = cmd.Stdin

	var out bytes.Buffer
	var w io.Writer = &out
	if r.Output != nil {
		w = io.MultiWriter(&out, r.Output)
	}
	c.Stdout = w
	c.Stderr = w

	err := c.Run()
	if out.Len() > 0 {
		logger.Trace().Str("command", cmd.Name).Str("output", out.String()).Msg("Command output")
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		e := errors.Wrapf(err, errors.ErrExternalTool, "%s failed", cmd.String()).
			WithDetail("command", cmd.Name).
			WithDetail("output", strings.TrimSpace(out.String()))
		if exitErr, ok := err.(*exec.ExitError); ok {
			e = e.WithDetail("exit_code", exitErr.ExitCode())
		}
		return e
	}

	logger.Debug().Str("command", cmd.Name).Msg("Command completed")
	return nil
}
