package postprocess

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/wheelstage/pkg/errors"
	"github.com/arthur-debert/wheelstage/pkg/filesystem"
	"github.com/arthur-debert/wheelstage/pkg/logging"
	"github.com/arthur-debert/wheelstage/pkg/types"
)

// DefaultMarker is the empty file that makes a directory an importable package
const DefaultMarker = "__init__.py"

// CreateInitFiles puts an empty marker in every directory from pkgRoot down
// to each directory holding a file with one of exts. Directories without
// such a file below them are left alone. It returns the created markers.
func CreateInitFiles(fsys types.FS, pkgRoot, marker string, exts []string) ([]string, error) {
	if marker == "" {
		marker = DefaultMarker
	}
	logger := logging.GetLogger("postprocess")
	pkgRoot = filepath.Clean(pkgRoot)

	if !filesystem.Exists(fsys, pkgRoot) {
		logger.Debug().Str("root", pkgRoot).Msg("Package root absent, no markers created")
		return nil, nil
	}

	dirs := make(map[string]bool)
	err := fsys.Walk(pkgRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot walk %s", path).
				WithDetail("path", path)
		}
		if info.IsDir() || !hasExt(path, exts) {
			return nil
		}
		for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
			if dirs[dir] {
				break
			}
			dirs[dir] = true
			if dir == pkgRoot || !strings.HasPrefix(dir, pkgRoot) {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sorted := make([]string, 0, len(dirs))
	for dir := range dirs {
		sorted = append(sorted, dir)
	}
	sort.Strings(sorted)

	var created []string
	for _, dir := range sorted {
		path := filepath.Join(dir, marker)
		if filesystem.Exists(fsys, path) {
			continue
		}
		if err := filesystem.Touch(fsys, path); err != nil {
			return created, err
		}
		created = append(created, path)
	}

	logger.Debug().Int("created", len(created)).Str("root", pkgRoot).Msg("Created package markers")
	return created, nil
}

func hasExt(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
