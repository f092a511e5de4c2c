// Package wheel runs a complete wheel build: it stages the artifacts,
// post-processes the staged package and invokes the packaging tool with the
// staging directory as its working directory. The staging directory is
// removed whatever the outcome.
package wheel

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/wheelstage/pkg/config"
	"github.com/arthur-debert/wheelstage/pkg/errors"
	"github.com/arthur-debert/wheelstage/pkg/logging"
	"github.com/arthur-debert/wheelstage/pkg/platform"
	"github.com/arthur-debert/wheelstage/pkg/postprocess"
	"github.com/arthur-debert/wheelstage/pkg/rearrange"
	"github.com/arthur-debert/wheelstage/pkg/runner"
	"github.com/arthur-debert/wheelstage/pkg/staging"
	"github.com/arthur-debert/wheelstage/pkg/types"
)

// Request describes one wheel build
type Request struct {
	Inputs types.Inputs
	// OutputName is the wheel path; only its directory is used
	OutputName  string
	ProjectName string
	Version     string
}

// Result summarizes a finished build
type Result struct {
	Report  *rearrange.Report `json:"report"`
	DistDir string            `json:"dist_dir"`
}

// Builder wires the build steps together
type Builder struct {
	FS       types.FS
	Config   *config.Config
	Platform platform.Platform
	Runner   runner.Runner
	// WorkDir anchors relative artifact paths and the output name; empty
	// means the process working directory
	WorkDir string
}

// Build stages the request's artifacts and produces the wheel
func (b *Builder) Build(ctx context.Context, req Request) (*Result, error) {
	logger := logging.GetLogger("wheel")

	if req.OutputName == "" {
		return nil, errors.New(errors.ErrInvalidInput, "output name is required")
	}
	if req.ProjectName == "" {
		return nil, errors.New(errors.ErrInvalidInput, "project name is required")
	}

	distDir, err := b.distDir(req.OutputName)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("project", req.ProjectName).
		Str("version", req.Version).
		Int("artifacts", req.Inputs.Len()).
		Str("dist_dir", distDir).
		Msg("Building wheel")

	result := &Result{DistDir: distDir}
	cfg := b.Config
	err = staging.With(b.FS, cfg.Staging.Dir, cfg.Staging.Prefix, func(root string) error {
		r := rearrange.New(b.FS, cfg, b.Platform)
		r.SourceDir = b.WorkDir
		report, err := r.Stage(ctx, req.Inputs, root)
		result.Report = report
		if err != nil {
			return err
		}

		if err := b.postProcess(ctx, root, req.Version); err != nil {
			return err
		}
		return b.pack(ctx, root, distDir, req.ProjectName)
	})
	if err != nil {
		return result, err
	}

	logger.Info().Str("dist_dir", distDir).Msg("Wheel built")
	return result, nil
}

func (b *Builder) postProcess(ctx context.Context, root, version string) error {
	done := logging.LogOperationStart(logging.GetLogger("wheel"), "postprocess")
	defer done()

	cfg := b.Config
	pkgRoot := filepath.Join(root, filepath.FromSlash(cfg.Package.Root))

	if _, err := postprocess.CreateInitFiles(b.FS, pkgRoot, cfg.Package.Marker, cfg.Package.MarkerExtensions); err != nil {
		return err
	}
	if err := postprocess.Move(b.FS, root, cfg.Package.Moves); err != nil {
		return err
	}
	if _, err := postprocess.ReplaceInPlace(b.FS, pkgRoot, cfg.Package.Imports.Extensions, cfg.Package.Imports.Rewrites); err != nil {
		return err
	}
	if err := postprocess.RenameVersionedLibs(b.FS, pkgRoot, cfg.Package.VersionedLibs, version, b.Platform); err != nil {
		return err
	}
	return postprocess.PatchRPaths(ctx, b.Runner, root, cfg.Patchelf.Tool, cfg.Patchelf.Patches, b.Platform)
}

// pack invokes the packaging tool inside the staging directory
func (b *Builder) pack(ctx context.Context, root, distDir, project string) error {
	p := b.Config.Packager
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	args := append([]string{filepath.FromSlash(p.SetupScript)}, p.Args...)
	args = append(args, "--dist-dir="+distDir)

	var env []string
	if p.ProjectEnv != "" {
		env = append(env, p.ProjectEnv+"="+project)
	}
	if b.Platform.IsWindows() {
		env = append(env, "HOMEPATH=C:")
	}

	return b.Runner.Run(ctx, runner.Command{
		Name: p.Python,
		Args: args,
		Dir:  root,
		Env:  env,
	})
}

// distDir returns the absolute directory of the output name
func (b *Builder) distDir(output string) (string, error) {
	path := filepath.FromSlash(output)
	if !filepath.IsAbs(path) {
		base := b.WorkDir
		if base == "" {
			abs, err := filepath.Abs(path)
			if err != nil {
				return "", errors.Wrapf(err, errors.ErrInvalidInput, "cannot resolve output %s", output)
			}
			return filepath.Dir(abs), nil
		}
		path = filepath.Join(base, path)
	}
	return filepath.Dir(path), nil
}
