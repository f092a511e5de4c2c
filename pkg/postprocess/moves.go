package postprocess

import (
	"path/filepath"

	"github.com/arthur-debert/wheelstage/pkg/filesystem"
	"github.com/arthur-debert/wheelstage/pkg/logging"
	"github.com/arthur-debert/wheelstage/pkg/rules"
	"github.com/arthur-debert/wheelstage/pkg/types"
)

// Move relocates root/From to root/To for every move. The source is removed,
// so the file ends up in the package once.
func Move(fsys types.FS, root string, moves []rules.Move) error {
	logger := logging.GetLogger("postprocess")
	for _, m := range moves {
		from := filepath.Join(root, filepath.FromSlash(m.From))
		to := filepath.Join(root, filepath.FromSlash(m.To))
		if err := filesystem.Move(fsys, from, to); err != nil {
			return err
		}
		logger.Debug().Str("from", m.From).Str("to", m.To).Msg("Moved file")
	}
	return nil
}
