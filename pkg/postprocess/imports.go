package postprocess

import (
	"os"
	"strings"

	"github.com/arthur-debert/wheelstage/pkg/config"
	"github.com/arthur-debert/wheelstage/pkg/errors"
	"github.com/arthur-debert/wheelstage/pkg/logging"
	"github.com/arthur-debert/wheelstage/pkg/types"
)

// ReplaceInPlace applies every rewrite, in order, to the files below root
// whose extension is in exts. An empty exts matches every file. Only files
// whose content changes are written back, with their mode kept. It returns
// the rewritten paths.
func ReplaceInPlace(fsys types.FS, root string, exts []string, rewrites []config.Rewrite) ([]string, error) {
	if len(rewrites) == 0 {
		return nil, nil
	}
	logger := logging.GetLogger("postprocess")

	var changed []string
	err := fsys.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot walk %s", path).
				WithDetail("path", path)
		}
		if info.IsDir() || (len(exts) > 0 && !hasExt(path, exts)) {
			return nil
		}

		data, err := fsys.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", path).
				WithDetail("path", path)
		}
		content := string(data)
		updated := content
		for _, r := range rewrites {
			updated = strings.ReplaceAll(updated, r.From, r.To)
		}
		if updated == content {
			return nil
		}

		if err := fsys.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "cannot rewrite %s", path).
				WithDetail("path", path)
		}
		changed = append(changed, path)
		logger.Trace().Str("path", path).Msg("Rewrote imports")
		return nil
	})
	if err != nil {
		return changed, err
	}

	logger.Debug().Int("files", len(changed)).Str("root", root).Msg("Rewrote imports")
	return changed, nil
}
