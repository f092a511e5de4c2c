package synthfs

import (
	"context"
	"time"

	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/arthur-debert/wheelstage/pkg/errors"
	"github.com/arthur-debert/wheelstage/pkg/logging"
	"github.com/rs/zerolog"
)

// Step is one unit of work handed to the pipeline
type Step struct {
	ID  string
	Run func(ctx context.Context) error
}

// Status is the outcome of a step as reported by the pipeline
type Status string

const (
	StatusSuccess    Status = "success"
	StatusFailure    Status = "failure"
	StatusValidation Status = "validation"
	StatusUnknown    Status = "unknown"
)

// Result reports one executed step
type Result struct {
	ID       string
	Status   Status
	Duration time.Duration
	Error    error
}

// Executor runs steps as a synthfs pipeline
type Executor struct {
	logger     zerolog.Logger
	filesystem filesystem.FullFileSystem
}

// NewExecutor creates an executor whose pipeline works with absolute paths
func NewExecutor() *Executor {
	osfs := filesystem.NewOSFileSystem("/")
	return &Executor{
		logger:     logging.GetLogger("synthfs"),
		filesystem: synthfs.NewPathAwareFileSystem(osfs, "/").WithAbsolutePaths(),
	}
}

// Execute runs the steps and stops at the first failure. The failing step's
// own error is returned, so callers see the codes their steps produce.
func (e *Executor) Execute(ctx context.Context, steps []Step) ([]Result, error) {
	if len(steps) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCanceled, "pipeline canceled")
	}

	sfs := synthfs.New()
	var failed error
	ops := make([]synthfs.Operation, 0, len(steps))
	for _, step := range steps {
		ops = append(ops, sfs.CustomOperationWithID(step.ID, func(ctx context.Context, _ filesystem.FileSystem) error {
			if failed != nil {
				return failed
			}
			if err := ctx.Err(); err != nil {
				failed = errors.Wrap(err, errors.ErrCanceled, "pipeline canceled")
				return failed
			}
			if err := step.Run(ctx); err != nil {
				failed = err
				return err
			}
			return nil
		}))
	}

	options := synthfs.DefaultPipelineOptions()
	options.RollbackOnError = false

	e.logger.Debug().Int("operationCount", len(ops)).Msg("Executing synthfs operations")

	result, err := synthfs.RunWithOptions(ctx, e.filesystem, options, ops...)
	results := convertResults(result)

	if failed != nil {
		return results, failed
	}
	if err != nil {
		return results, errors.Wrap(err, errors.ErrInternal, "synthfs pipeline failed")
	}
	return results, nil
}

func convertResults(result *synthfs.Result) []Result {
	if result == nil {
		return nil
	}

	statusMap := map[synthfs.OperationStatus]Status{
		synthfs.StatusSuccess:    StatusSuccess,
		synthfs.StatusFailure:    StatusFailure,
		synthfs.StatusValidation: StatusValidation,
	}

	var out []Result
	for _, opResult := range result.GetOperations() {
		r, ok := opResult.(synthfs.OperationResult)
		if !ok {
			continue
		}
		status, known := statusMap[r.Status]
		if !known {
			status = StatusUnknown
		}
		out = append(out, Result{
			ID:       string(r.OperationID),
			Status:   status,
			Duration: r.Duration,
			Error:    r.Error,
		})
	}
	return out
}
