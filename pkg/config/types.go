package config

import (
	"time"

	"github.com/arthur-debert/wheelstage/pkg/rules"
	"github.com/arthur-debert/wheelstage/pkg/types"
)

// Config is the complete wheelstage configuration
type Config struct {
	Staging  Staging  `koanf:"staging" toml:"staging"`
	Layout   Layout   `koanf:"layout" toml:"layout"`
	Headers  Headers  `koanf:"headers" toml:"headers"`
	Package  Package  `koanf:"package" toml:"package"`
	Patchelf Patchelf `koanf:"patchelf" toml:"patchelf"`
	Packager Packager `koanf:"packager" toml:"packager"`
	Service  Service  `koanf:"service" toml:"service"`
}

// Staging configures the temporary build root
type Staging struct {
	Prefix string `koanf:"prefix" toml:"prefix"`
	// Dir is the parent of the staging directory; empty means the OS temp dir
	Dir string `koanf:"dir" toml:"dir"`
}

// Layout holds one rule layout per artifact category
type Layout struct {
	Headers rules.Layout `koanf:"headers" toml:"headers"`
	Deps    rules.Layout `koanf:"deps" toml:"deps"`
	Srcs    rules.Layout `koanf:"srcs" toml:"srcs"`
	AOT     rules.Layout `koanf:"aot" toml:"aot"`
}

// For returns the layout of a category
func (l Layout) For(c types.Category) rules.Layout {
	switch c {
	case types.CategoryHeaders:
		return l.Headers
	case types.CategoryDeps:
		return l.Deps
	case types.CategorySrcs:
		return l.Srcs
	case types.CategoryAOT:
		return l.AOT
	default:
		return rules.Layout{}
	}
}

// Headers configures the non rule-driven header steps
type Headers struct {
	LocalConfig LocalConfig `koanf:"local_config" toml:"local_config"`
	Mirrors     []Mirror    `koanf:"mirrors" toml:"mirrors"`
}

// LocalConfig locates the numeric-library and language-runtime headers that
// make up the local python configuration subtree
type LocalConfig struct {
	Dir                      string `koanf:"dir" toml:"dir"`
	NumpyInclude             string `koanf:"numpy_include" toml:"numpy_include"`
	PythonIncludeGlob        string `koanf:"python_include_glob" toml:"python_include_glob"`
	PythonIncludeGlobWindows string `koanf:"python_include_glob_windows" toml:"python_include_glob_windows"`
}

// Mirror duplicates a staged tree inside the headers root
type Mirror struct {
	From     string `koanf:"from" toml:"from"`
	To       string `koanf:"to" toml:"to"`
	Optional bool   `koanf:"optional" toml:"optional"`
}

// Package configures post-processing of the staged package root
type Package struct {
	Root             string       `koanf:"root" toml:"root"`
	Marker           string       `koanf:"marker" toml:"marker"`
	MarkerExtensions []string     `koanf:"marker_extensions" toml:"marker_extensions"`
	VersionedLibs    []string     `koanf:"versioned_libs" toml:"versioned_libs"`
	Moves            []rules.Move `koanf:"moves" toml:"moves"`
	Imports          Imports      `koanf:"imports" toml:"imports"`
}

// Imports configures the textual import-path rewrite
type Imports struct {
	Extensions []string  `koanf:"extensions" toml:"extensions"`
	Rewrites   []Rewrite `koanf:"rewrites" toml:"rewrites"`
}

// Rewrite replaces every occurrence of From with To
type Rewrite struct {
	From string `koanf:"from" toml:"from"`
	To   string `koanf:"to" toml:"to"`
}

// Patchelf configures runtime search path patching
type Patchelf struct {
	Tool    string  `koanf:"tool" toml:"tool"`
	Patches []Patch `koanf:"patches" toml:"patches"`
}

// Patch adds RPath to the staged binary File
type Patch struct {
	File  string `koanf:"file" toml:"file"`
	RPath string `koanf:"rpath" toml:"rpath"`
}

// Packager configures the packaging tool invocation
type Packager struct {
	Python      string        `koanf:"python" toml:"python"`
	SetupScript string        `koanf:"setup_script" toml:"setup_script"`
	Args        []string      `koanf:"args" toml:"args"`
	ProjectEnv  string        `koanf:"project_env" toml:"project_env"`
	Timeout     time.Duration `koanf:"timeout" toml:"timeout"`
}

// Service configures the worker service installer
type Service struct {
	UnitDir     string `koanf:"unit_dir" toml:"unit_dir"`
	Name        string `koanf:"name" toml:"name"`
	Systemctl   string `koanf:"systemctl" toml:"systemctl"`
	SudoCommand string `koanf:"sudo_command" toml:"sudo_command"`
}
