package postprocess

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/wheelstage/pkg/config"
	"github.com/arthur-debert/wheelstage/pkg/logging"
	"github.com/arthur-debert/wheelstage/pkg/platform"
	"github.com/arthur-debert/wheelstage/pkg/runner"
)

// PatchRPaths adds each patch's search path to its binary below root and
// then shrinks the binary's search path list. Both tool runs must succeed.
// Nothing happens on macOS and Windows.
func PatchRPaths(ctx context.Context, r runner.Runner, root, tool string, patches []config.Patch, p platform.Platform) error {
	if !p.PatchesRPaths() {
		return nil
	}
	logger := logging.GetLogger("postprocess")
	for _, patch := range patches {
		file := filepath.Join(root, filepath.FromSlash(patch.File))

		if err := r.Run(ctx, runner.Command{Name: tool, Args: []string{"--add-rpath", patch.RPath, file}}); err != nil {
			return err
		}
		if err := r.Run(ctx, runner.Command{Name: tool, Args: []string{"--shrink-rpath", file}}); err != nil {
			return err
		}
		logger.Debug().Str("file", patch.File).Str("rpath", patch.RPath).Msg("Patched runtime search path")
	}
	return nil
}
