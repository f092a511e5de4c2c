package filesystem_test

import (
	"testing"

	"github.com/arthur-debert/wheelstage/pkg/errors"
	"github.com/arthur-debert/wheelstage/pkg/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFile(t *testing.T) {
	t.Run("copies_contents_and_creates_parents", func(t *testing.T) {
		fs := filesystem.NewMemory()
		require.NoError(t, fs.MkdirAll("src", 0755))
		require.NoError(t, fs.WriteFile("src/a.h", []byte("#pragma once"), 0640))

		require.NoError(t, filesystem.CopyFile(fs, "src/a.h", "/stage/include/a.h"))

		data, err := fs.ReadFile("/stage/include/a.h")
		require.NoError(t, err)
		assert.Equal(t, "#pragma once", string(data))

		info, err := fs.Stat("/stage/include/a.h")
		require.NoError(t, err)
		assert.Equal(t, "-rw-r-----", info.Mode().Perm().String())
	})

	t.Run("missing_source_is_file_not_found", func(t *testing.T) {
		fs := filesystem.NewMemory()

		err := filesystem.CopyFile(fs, "nope.h", "/stage/nope.h")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))
		assert.Contains(t, err.Error(), "nope.h")
		assert.False(t, filesystem.Exists(fs, "/stage/nope.h"))
	})

	t.Run("directory_source_is_rejected", func(t *testing.T) {
		fs := filesystem.NewMemory()
		require.NoError(t, fs.MkdirAll("dir", 0755))

		err := filesystem.CopyFile(fs, "dir", "/stage/dir")
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})
}

func TestMove(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.MkdirAll("/stage/tensorflow/tools", 0755))
	require.NoError(t, fs.WriteFile("/stage/tensorflow/tools/MANIFEST.in", []byte("include *"), 0644))

	require.NoError(t, filesystem.Move(fs, "/stage/tensorflow/tools/MANIFEST.in", "/stage/MANIFEST.in"))

	assert.False(t, filesystem.Exists(fs, "/stage/tensorflow/tools/MANIFEST.in"))
	data, err := fs.ReadFile("/stage/MANIFEST.in")
	require.NoError(t, err)
	assert.Equal(t, "include *", string(data))

	err = filesystem.Move(fs, "/stage/tensorflow/tools/MANIFEST.in", "/stage/MANIFEST.in")
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))
}

func TestCopyTree(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.MkdirAll("/inc/numpy/core", 0755))
	require.NoError(t, fs.WriteFile("/inc/numpy/core/a.h", []byte("a"), 0644))
	require.NoError(t, fs.WriteFile("/inc/b.h", []byte("b"), 0644))

	require.NoError(t, filesystem.CopyTree(fs, "/inc", "/stage/numpy_include"))

	data, err := fs.ReadFile("/stage/numpy_include/numpy/core/a.h")
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))
	assert.True(t, filesystem.Exists(fs, "/stage/numpy_include/b.h"))

	t.Run("existing_destination_fails", func(t *testing.T) {
		err := filesystem.CopyTree(fs, "/inc", "/stage/numpy_include")
		assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))
	})

	t.Run("missing_source_fails", func(t *testing.T) {
		err := filesystem.CopyTree(fs, "/absent", "/stage/other")
		assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))
	})
}

func TestTouch(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.MkdirAll("/pkg", 0755))
	require.NoError(t, fs.WriteFile("/pkg/__init__.py", []byte("x = 1"), 0644))

	require.NoError(t, filesystem.Touch(fs, "/pkg/__init__.py"))
	data, err := fs.ReadFile("/pkg/__init__.py")
	require.NoError(t, err)
	assert.Equal(t, "x = 1", string(data), "existing markers are left untouched")

	require.NoError(t, filesystem.Touch(fs, "/pkg/sub/__init__.py"))
	data, err = fs.ReadFile("/pkg/sub/__init__.py")
	require.NoError(t, err)
	assert.Empty(t, data)
}
