// Package platform describes the host the wheel is staged on. Several
// post-processing steps only apply to some operating systems.
package platform

import (
	"fmt"
	"runtime"
)

// OS name constants for runtime.GOOS comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// Platform represents the detected system platform
type Platform struct {
	OS   string // linux, darwin, windows
	Arch string // amd64, arm64
}

// Detect returns the platform the process runs on
func Detect() Platform {
	return Platform{OS: runtime.GOOS, Arch: runtime.GOARCH}
}

// IsWindows reports whether the platform is Windows
func (p Platform) IsWindows() bool { return p.OS == Windows }

// IsMacOS reports whether the platform is macOS
func (p Platform) IsMacOS() bool { return p.OS == Darwin }

// RenamesVersionedLibs reports whether shared libraries carry a version
// suffix that has to be reduced to the major version
func (p Platform) RenamesVersionedLibs() bool { return !p.IsWindows() }

// PatchesRPaths reports whether compiled extensions get their runtime
// search paths patched. Only ELF platforms qualify.
func (p Platform) PatchesRPaths() bool { return !p.IsWindows() && !p.IsMacOS() }

// SharedLibName returns the versioned file name of a shared library
func (p Platform) SharedLibName(lib, version string) string {
	if p.IsMacOS() {
		return fmt.Sprintf("%s.%s.dylib", lib, version)
	}
	return fmt.Sprintf("%s.so.%s", lib, version)
}

// String returns a string representation of the platform
func (p Platform) String() string {
	return fmt.Sprintf("%s/%s", p.OS, p.Arch)
}
