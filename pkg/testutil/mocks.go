package testutil

import (
	"context"

	"github.com/arthur-debert/wheelstage/pkg/runner"
	"github.com/stretchr/testify/mock"
)

// MockRunner is a mock implementation of runner.Runner
type MockRunner struct {
	mock.Mock
}

// Run records the call and returns the configured error
func (m *MockRunner) Run(ctx context.Context, cmd runner.Command) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

// Recorder is a runner.Runner that records commands instead of running
// them. Commands whose name is a key of Fail return that error.
type Recorder struct {
	Commands []runner.Command
	Fail     map[string]error
	// OnRun, when set, is called for every recorded command
	OnRun func(cmd runner.Command)
}

// Run records cmd
func (r *Recorder) Run(_ context.Context, cmd runner.Command) error {
	r.Commands = append(r.Commands, cmd)
	if r.OnRun != nil {
		r.OnRun(cmd)
	}
	if err, ok := r.Fail[cmd.Name]; ok {
		return err
	}
	return nil
}

// Lines returns the recorded command lines
func (r *Recorder) Lines() []string {
	lines := make([]string, len(r.Commands))
	for i, c := range r.Commands {
		lines[i] = c.String()
	}
	return lines
}
