package testutil

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/arthur-debert/wheelstage/pkg/types"
)

// Checksum calculates a SHA256 checksum for test content
func Checksum(content []byte) string {
	hash := sha256.Sum256(content)
	return fmt.Sprintf("%x", hash)
}

// Snapshot walks root and returns every entry keyed by its slash-separated
// path relative to root. Files map to "<mode> <sha256>", directories to "dir".
func Snapshot(t *testing.T, fsys types.FS, root string) map[string]string {
	t.Helper()

	out := make(map[string]string)
	err := fsys.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if info.IsDir() {
			out[rel] = "dir"
			return nil
		}
		data, err := fsys.ReadFile(path)
		if err != nil {
			return err
		}
		out[rel] = fmt.Sprintf("%v %s", info.Mode().Perm(), Checksum(data))
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to snapshot %s: %v", root, err)
	}
	return out
}

// Files returns the sorted relative paths of the regular files in a snapshot
func Files(snapshot map[string]string) []string {
	var files []string
	for rel, v := range snapshot {
		if v != "dir" {
			files = append(files, rel)
		}
	}
	sort.Strings(files)
	return files
}
