package postprocess

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/wheelstage/pkg/errors"
	"github.com/arthur-debert/wheelstage/pkg/filesystem"
	"github.com/arthur-debert/wheelstage/pkg/logging"
	"github.com/arthur-debert/wheelstage/pkg/platform"
	"github.com/arthur-debert/wheelstage/pkg/types"
	"golang.org/x/mod/semver"
)

// MajorVersion returns the first dot component of version, which must be a
// number: 2.16.1 and 2.17.0rc1 both give 2
func MajorVersion(version string) (string, error) {
	major, _, _ := strings.Cut(version, ".")
	// semver accepts a bare "vMAJOR" and rejects anything but digits there
	if !semver.IsValid("v"+major) || semver.Prerelease("v"+major) != "" || semver.Build("v"+major) != "" {
		return "", errors.Newf(errors.ErrInvalidInput, "invalid version %q", version).
			WithDetail("version", version)
	}
	return major, nil
}

// RenameVersionedLibs renames each lib in dir from its full version suffix
// to the major version only: lib.so.2.16.1 becomes lib.so.2 and, on macOS,
// lib.2.16.1.dylib becomes lib.2.dylib. Nothing happens on Windows.
func RenameVersionedLibs(fsys types.FS, dir string, libs []string, version string, p platform.Platform) error {
	if !p.RenamesVersionedLibs() || len(libs) == 0 {
		return nil
	}
	major, err := MajorVersion(version)
	if err != nil {
		return err
	}

	logger := logging.GetLogger("postprocess")
	for _, lib := range libs {
		from := filepath.Join(dir, p.SharedLibName(lib, version))
		to := filepath.Join(dir, p.SharedLibName(lib, major))
		if err := filesystem.Move(fsys, from, to); err != nil {
			return err
		}
		logger.Debug().Str("from", filepath.Base(from)).Str("to", filepath.Base(to)).Msg("Renamed versioned library")
	}
	return nil
}
