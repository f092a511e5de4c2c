// Package staging manages the temporary directory a wheel is assembled in.
// The directory is exclusive to one build and removed on every exit path.
package staging

import (
	stderrors "errors"
	"sync"

	"github.com/arthur-debert/wheelstage/pkg/errors"
	"github.com/arthur-debert/wheelstage/pkg/logging"
	"github.com/arthur-debert/wheelstage/pkg/types"
)

// DefaultPrefix names staging directories when no prefix is configured
const DefaultPrefix = "tensorflow_wheel"

// Dir is an acquired staging directory
type Dir struct {
	fs   types.FS
	path string
	once sync.Once
	err  error
}

// Acquire creates a fresh staging directory below parent (the OS temp dir
// when empty) whose name starts with prefix
func Acquire(fs types.FS, parent, prefix string) (*Dir, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	path, err := fs.TempDir(parent, prefix)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStaging, "failed to create staging directory").
			WithDetail("parent", parent)
	}
	logger := logging.GetLogger("staging")
	logger.Debug().Str("path", path).Msg("Acquired staging directory")
	return &Dir{fs: fs, path: path}, nil
}

// Path returns the absolute staging directory
func (d *Dir) Path() string {
	return d.path
}

// Release removes the directory tree. Only the first call does any work;
// later calls return the first result.
func (d *Dir) Release() error {
	d.once.Do(func() {
		if err := d.fs.RemoveAll(d.path); err != nil {
			d.err = errors.Wrapf(err, errors.ErrStaging, "failed to remove staging directory %s", d.path).
				WithDetail("path", d.path)
			return
		}
		logger := logging.GetLogger("staging")
		logger.Debug().Str("path", d.path).Msg("Released staging directory")
	})
	return d.err
}

// With acquires a staging directory, runs fn inside it and releases the
// directory whatever fn returns. A release failure is joined to fn's error.
func With(fs types.FS, parent, prefix string, fn func(root string) error) (err error) {
	dir, err := Acquire(fs, parent, prefix)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := dir.Release(); rerr != nil {
			err = stderrors.Join(err, rerr)
		}
	}()
	return fn(dir.Path())
}
