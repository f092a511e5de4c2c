package filesystem

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/wheelstage/pkg/errors"
	"github.com/arthur-debert/wheelstage/pkg/types"
)

// DirMode is used for every directory created while staging
const DirMode fs.FileMode = 0755

// Exists reports whether name exists. Errors other than not-exist count as present
// so callers never overwrite something they could not inspect.
func Exists(fsys types.FS, name string) bool {
	_, err := fsys.Stat(name)
	return err == nil || !stderrors.Is(err, fs.ErrNotExist)
}

// CopyFile copies the whole contents and permission bits of src to dst,
// creating missing parent directories of dst.
func CopyFile(fsys types.FS, src, dst string) error {
	info, err := fsys.Stat(src)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return errors.Wrapf(err, errors.ErrFileNotFound, "artifact %s does not exist", src).
				WithDetail("path", src)
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", src).
			WithDetail("path", src)
	}
	if info.IsDir() {
		return errors.Newf(errors.ErrInvalidInput, "artifact %s is a directory", src).
			WithDetail("path", src)
	}

	data, err := fsys.ReadFile(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", src).
			WithDetail("path", src)
	}

	if err := fsys.MkdirAll(filepath.Dir(dst), DirMode); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory for %s", dst).
			WithDetail("path", dst)
	}

	perm := info.Mode().Perm()
	if err := fsys.WriteFile(dst, data, perm); err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "cannot copy %s to %s", src, dst).
			WithDetail("path", src)
	}
	// WriteFile only applies perm on create and through the umask.
	if err := fsys.Chmod(dst, perm); err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "cannot set mode on %s", dst).
			WithDetail("path", dst)
	}
	return nil
}

// Move relocates src to dst. The source is gone afterwards.
func Move(fsys types.FS, src, dst string) error {
	if _, err := fsys.Stat(src); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return errors.Wrapf(err, errors.ErrFileNotFound, "cannot move %s: file does not exist", src).
				WithDetail("path", src)
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", src).
			WithDetail("path", src)
	}
	if err := fsys.MkdirAll(filepath.Dir(dst), DirMode); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory for %s", dst).
			WithDetail("path", dst)
	}
	if err := fsys.Rename(src, dst); err != nil {
		return errors.Wrapf(err, errors.ErrFileMove, "cannot move %s to %s", src, dst).
			WithDetail("path", src)
	}
	return nil
}

// CopyTree recursively copies the directory src to dst. dst must not exist.
func CopyTree(fsys types.FS, src, dst string) error {
	info, err := fsys.Stat(src)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return errors.Wrapf(err, errors.ErrFileNotFound, "directory %s does not exist", src).
				WithDetail("path", src)
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", src).
			WithDetail("path", src)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrInvalidInput, "%s is not a directory", src).
			WithDetail("path", src)
	}
	if Exists(fsys, dst) {
		return errors.Newf(errors.ErrAlreadyExists, "cannot copy %s: %s already exists", src, dst).
			WithDetail("path", dst)
	}

	return fsys.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot walk %s", path).
				WithDetail("path", path)
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return errors.Wrapf(err, errors.ErrInternal, "cannot relativize %s", path)
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			if err := fsys.MkdirAll(target, info.Mode().Perm()|0700); err != nil {
				return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", target).
					WithDetail("path", target)
			}
			return nil
		}
		return CopyFile(fsys, path, target)
	})
}

// Touch creates an empty file at name unless something already exists there.
func Touch(fsys types.FS, name string) error {
	if Exists(fsys, name) {
		return nil
	}
	if err := fsys.MkdirAll(filepath.Dir(name), DirMode); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory for %s", name).
			WithDetail("path", name)
	}
	if err := fsys.WriteFile(name, nil, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot create %s", name).
			WithDetail("path", name)
	}
	return nil
}
