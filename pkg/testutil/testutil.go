package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/arthur-debert/wheelstage/pkg/types"
)

// CreateFile creates a file with the given content, creating parent
// directories. It fails the test if the file cannot be created.
func CreateFile(t *testing.T, fsys types.FS, path, content string) string {
	t.Helper()
	return CreateFileMode(t, fsys, path, content, 0644)
}

// CreateFileMode is CreateFile with explicit permission bits
func CreateFileMode(t *testing.T, fsys types.FS, path, content string, mode fs.FileMode) string {
	t.Helper()

	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}
	if err := fsys.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}
	if err := fsys.Chmod(path, mode); err != nil {
		t.Fatalf("Failed to chmod %s: %v", path, err)
	}
	return path
}

// CreateFiles creates every file of the map (relative path to content) below root
func CreateFiles(t *testing.T, fsys types.FS, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		CreateFile(t, fsys, filepath.Join(root, filepath.FromSlash(rel)), content)
	}
}

// CreateDir creates a directory and its parents.
// It fails the test if the directory cannot be created.
func CreateDir(t *testing.T, fsys types.FS, path string) string {
	t.Helper()

	if err := fsys.MkdirAll(path, 0755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", path, err)
	}
	return path
}

// FileExists checks if a file exists and is not a directory.
func FileExists(fsys types.FS, path string) bool {
	info, err := fsys.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists checks if a directory exists.
func DirExists(fsys types.FS, path string) bool {
	info, err := fsys.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// ReadFile reads the content of a file and returns it as a string.
// It fails the test if the file cannot be read.
func ReadFile(t *testing.T, fsys types.FS, path string) string {
	t.Helper()

	content, err := fsys.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// AssertFileContent checks that a file exists and has the expected content.
func AssertFileContent(t *testing.T, fsys types.FS, path, expected string) {
	t.Helper()

	if !FileExists(fsys, path) {
		t.Fatalf("File %s does not exist", path)
	}
	actual := ReadFile(t, fsys, path)
	if actual != expected {
		t.Errorf("File %s content mismatch\nExpected: %q\nActual: %q", path, expected, actual)
	}
}

// AssertNoFile checks that nothing exists at path.
func AssertNoFile(t *testing.T, fsys types.FS, path string) {
	t.Helper()

	if _, err := fsys.Stat(path); err == nil {
		t.Errorf("File %s exists but should not", path)
	}
}

// RequireRoot skips the test if not running as root.
func RequireRoot(t *testing.T) {
	t.Helper()

	if os.Geteuid() != 0 {
		t.Skip("Test requires root privileges")
	}
}

// SkipOnWindows skips the test if running on Windows.
func SkipOnWindows(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("Test not supported on Windows")
	}
}
