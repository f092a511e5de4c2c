package rearrange

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/wheelstage/pkg/config"
	"github.com/arthur-debert/wheelstage/pkg/errors"
	"github.com/arthur-debert/wheelstage/pkg/filesystem"
	"github.com/arthur-debert/wheelstage/pkg/logging"
	"github.com/arthur-debert/wheelstage/pkg/plan"
	"github.com/arthur-debert/wheelstage/pkg/platform"
	"github.com/arthur-debert/wheelstage/pkg/rules"
	"github.com/arthur-debert/wheelstage/pkg/synthfs"
	"github.com/arthur-debert/wheelstage/pkg/types"
	"github.com/rs/zerolog"
)

// Rearranger places artifacts into a staging directory
type Rearranger struct {
	FS       types.FS
	Config   *config.Config
	Platform platform.Platform
	// SourceDir anchors relative artifact paths and the local configuration
	// sources; empty means the process working directory
	SourceDir string

	executor *synthfs.Executor
	logger   zerolog.Logger
}

// New creates a Rearranger for the given filesystem and configuration
func New(fs types.FS, cfg *config.Config, p platform.Platform) *Rearranger {
	return &Rearranger{
		FS:       fs,
		Config:   cfg,
		Platform: p,
		executor: synthfs.NewExecutor(),
		logger:   logging.GetLogger("rearrange"),
	}
}

// CategoryReport counts what happened to the artifacts of one category
type CategoryReport struct {
	Category   types.Category `json:"category"`
	Placed     int            `json:"placed"`
	Excluded   int            `json:"excluded"`
	Skipped    int            `json:"skipped"`
	Dropped    int            `json:"dropped"`
	Duplicates int            `json:"duplicates"`
	Moved      int            `json:"moved"`
}

// Report is the outcome of a Stage call
type Report struct {
	Categories []CategoryReport `json:"categories"`
	// Files lists every placed destination, relative to the staging root
	Files []string `json:"files"`
}

// Placed returns the number of copied artifacts across categories
func (r *Report) Placed() int {
	n := 0
	for _, c := range r.Categories {
		n += c.Placed
	}
	return n
}

// Stage copies the headers, deps, srcs and aot artifacts, in that order,
// into root
func (r *Rearranger) Stage(ctx context.Context, in types.Inputs, root string) (*Report, error) {
	p, err := plan.Build(r.Config, in)
	if err != nil {
		return &Report{}, err
	}
	return r.Apply(ctx, p, root)
}

// Apply executes the operations of p below root. Each category runs its
// placements first and its finishing steps second; the first failure stops
// everything.
func (r *Rearranger) Apply(ctx context.Context, p *plan.Plan, root string) (*Report, error) {
	done := logging.LogOperationStart(r.logger, "stage")
	defer done()

	report := &Report{}
	for _, cat := range types.Categories {
		if err := ctx.Err(); err != nil {
			return report, errors.Wrap(err, errors.ErrCanceled, "staging canceled")
		}
		cr := categoryReport(p, cat)

		for _, phase := range []plan.Phase{plan.PhasePlace, plan.PhaseFinish} {
			ops := p.OperationsFor(cat, phase)
			if err := r.execute(ctx, cat, phase, ops, root); err != nil {
				return report, err
			}
			for _, op := range ops {
				if op.Kind == plan.OpMove {
					cr.Moved++
				}
			}
		}
		report.Categories = append(report.Categories, cr)

		r.logger.Info().
			Str("category", string(cat)).
			Int("placed", cr.Placed).
			Int("excluded", cr.Excluded).
			Int("skipped", cr.Skipped).
			Int("dropped", cr.Dropped).
			Msg("Staged category")
	}

	report.Files, _ = p.Destinations()
	sort.Strings(report.Files)
	return report, nil
}

func categoryReport(p *plan.Plan, cat types.Category) CategoryReport {
	cr := CategoryReport{Category: cat}
	for _, e := range p.ByCategory(cat) {
		if e.Duplicate {
			cr.Duplicates++
			continue
		}
		switch e.Status {
		case rules.StatusPlaced:
			cr.Placed++
		case rules.StatusExcluded:
			cr.Excluded++
		case rules.StatusSkipped:
			cr.Skipped++
		case rules.StatusDropped:
			cr.Dropped++
		}
	}
	return cr
}

func (r *Rearranger) execute(ctx context.Context, cat types.Category, phase plan.Phase, ops []plan.Operation, root string) error {
	steps := make([]synthfs.Step, 0, len(ops))
	for i, op := range ops {
		steps = append(steps, synthfs.Step{
			ID: fmt.Sprintf("%s_%d_%s_%d", cat, phase, op.Kind, i),
			Run: func(context.Context) error {
				return r.apply(op, root)
			},
		})
	}
	_, err := r.executor.Execute(ctx, steps)
	return err
}

// apply performs a single operation against the staging root
func (r *Rearranger) apply(op plan.Operation, root string) error {
	target := filepath.Join(root, filepath.FromSlash(op.Target))

	switch op.Kind {
	case plan.OpCopy:
		r.logger.Trace().Str("path", op.Source).Str("dest", op.Target).Msg("Copying artifact")
		return filesystem.CopyFile(r.FS, r.source(op.Source), target)
	case plan.OpMarker:
		return filesystem.Touch(r.FS, target)
	case plan.OpLocalConfig:
		return r.synthesizeLocalConfig(target)
	case plan.OpMirror:
		source := filepath.Join(root, filepath.FromSlash(op.Source))
		return r.mirror(source, target, op.Optional)
	case plan.OpMove:
		source := filepath.Join(root, filepath.FromSlash(op.Source))
		return filesystem.Move(r.FS, source, target)
	default:
		return errors.Newf(errors.ErrInternal, "unknown staging operation %q", op.Kind)
	}
}

// source resolves an artifact path for reading
func (r *Rearranger) source(p string) string {
	p = filepath.FromSlash(p)
	if r.SourceDir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(r.SourceDir, p)
}
