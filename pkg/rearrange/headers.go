package rearrange

import (
	"path/filepath"
	"sort"

	"github.com/arthur-debert/wheelstage/pkg/errors"
	"github.com/arthur-debert/wheelstage/pkg/filesystem"
)

const (
	numpyIncludeDir  = "numpy_include"
	pythonIncludeDir = "python_include"
)

// synthesizeLocalConfig copies the numpy and python include trees into the
// local python configuration directory dst
func (r *Rearranger) synthesizeLocalConfig(dst string) error {
	lc := r.Config.Headers.LocalConfig

	if lc.NumpyInclude != "" {
		if err := filesystem.CopyTree(r.FS, r.source(lc.NumpyInclude), filepath.Join(dst, numpyIncludeDir)); err != nil {
			return err
		}
	}

	pattern := lc.PythonIncludeGlob
	if r.Platform.IsWindows() && lc.PythonIncludeGlobWindows != "" {
		pattern = lc.PythonIncludeGlobWindows
	}
	if pattern == "" {
		return nil
	}

	src, err := r.firstMatch(pattern)
	if err != nil {
		return err
	}
	if err := filesystem.CopyTree(r.FS, src, filepath.Join(dst, pythonIncludeDir)); err != nil {
		return err
	}

	r.logger.Debug().Str("dir", dst).Str("python_include", src).Msg("Synthesized local python config")
	return nil
}

func (r *Rearranger) firstMatch(pattern string) (string, error) {
	matches, err := r.FS.Glob(r.source(pattern))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "invalid include pattern %s", pattern).
			WithDetail("pattern", pattern)
	}
	if len(matches) == 0 {
		return "", errors.Newf(errors.ErrFileNotFound, "no directory matches %s", pattern).
			WithDetail("pattern", pattern)
	}
	sort.Strings(matches)
	return matches[0], nil
}

// mirror duplicates a staged header tree; an optional tree that was never
// staged is left alone
func (r *Rearranger) mirror(src, dst string, optional bool) error {
	if optional && !filesystem.Exists(r.FS, src) {
		r.logger.Debug().Str("from", src).Msg("Optional header tree absent, not mirrored")
		return nil
	}
	if err := filesystem.CopyTree(r.FS, src, dst); err != nil {
		return err
	}
	r.logger.Debug().Str("from", src).Str("to", dst).Msg("Mirrored header tree")
	return nil
}
