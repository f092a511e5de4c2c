package rearrange

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/wheelstage/pkg/config"
	"github.com/arthur-debert/wheelstage/pkg/errors"
	"github.com/arthur-debert/wheelstage/pkg/filesystem"
	"github.com/arthur-debert/wheelstage/pkg/plan"
	"github.com/arthur-debert/wheelstage/pkg/platform"
	"github.com/arthur-debert/wheelstage/pkg/rules"
	"github.com/arthur-debert/wheelstage/pkg/testutil"
	"github.com/arthur-debert/wheelstage/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	work  = "/work"
	stage = "/stage"
)

var linux = platform.Platform{OS: platform.Linux, Arch: "amd64"}

// bareConfig has no header extras so single-category tests stay small
func bareConfig() *config.Config {
	cfg := config.Default()
	cfg.Headers = config.Headers{}
	return cfg
}

func newRearranger(t *testing.T, cfg *config.Config, files map[string]string) (*Rearranger, types.FS) {
	t.Helper()
	fsys := filesystem.NewMemory()
	testutil.CreateFiles(t, fsys, work, files)
	r := New(fsys, cfg, linux)
	r.SourceDir = work
	return r, fsys
}

func TestStageRuleExample(t *testing.T) {
	cfg := bareConfig()
	cfg.Layout.Srcs = rules.Layout{
		Rules: rules.Table{{Prefix: "bazel-out/k8-opt/bin/external/local_xla/", Dest: "tensorflow/compiler"}},
	}
	r, fsys := newRearranger(t, cfg, map[string]string{
		"bazel-out/k8-opt/bin/external/local_xla/foo/bar.h": "bar",
		"tensorflow/core/foo.h":                             "foo",
	})

	report, err := r.Stage(context.Background(), types.Inputs{Srcs: []string{
		"bazel-out/k8-opt/bin/external/local_xla/foo/bar.h",
		"tensorflow/core/foo.h",
	}}, stage)
	require.NoError(t, err)

	testutil.AssertFileContent(t, fsys, "/stage/tensorflow/compiler/foo/bar.h", "bar")
	testutil.AssertFileContent(t, fsys, "/stage/tensorflow/core/foo.h", "foo")
	assert.Equal(t, 2, report.Placed())
	assert.Equal(t, []string{"tensorflow/compiler/foo/bar.h", "tensorflow/core/foo.h"}, report.Files)
}

func TestStageRemovesOnlyFirstOccurrence(t *testing.T) {
	cfg := bareConfig()
	cfg.Layout.Deps = rules.Layout{
		Rules: rules.Table{{Prefix: "gen/", Dest: "out"}},
	}
	r, fsys := newRearranger(t, cfg, map[string]string{
		"a/gen/b/gen/c.py": "c",
	})

	_, err := r.Stage(context.Background(), types.Inputs{Deps: []string{"a/gen/b/gen/c.py"}}, stage)
	require.NoError(t, err)
	testutil.AssertFileContent(t, fsys, "/stage/out/a/b/gen/c.py", "c")
}

func TestStageExclusionsNeverCreateEntries(t *testing.T) {
	cfg := bareConfig()
	r, fsys := newRearranger(t, cfg, map[string]string{
		"external/pypi_numpy/numpy/core/include/numpy/arrayobject.h": "np",
		"tensorflow/core/ops/ops.cc.inc":                             "inc",
		"external/llvm-project/llvm/include/llvm/ADT/APInt.h":        "llvm",
		"tensorflow/core/public/version.h":                           "v",
	})

	report, err := r.Stage(context.Background(), types.Inputs{Headers: []string{
		"external/pypi_numpy/numpy/core/include/numpy/arrayobject.h",
		"tensorflow/core/ops/ops.cc.inc",
		"external/llvm-project/llvm/include/llvm/ADT/APInt.h",
		"tensorflow/core/public/version.h",
	}}, stage)
	require.NoError(t, err)

	snap := testutil.Snapshot(t, fsys, stage)
	assert.Equal(t, []string{"tensorflow/include/tensorflow/core/public/version.h"}, testutil.Files(snap))

	headers := report.Categories[0]
	assert.Equal(t, types.CategoryHeaders, headers.Category)
	assert.Equal(t, 1, headers.Placed)
	assert.Equal(t, 2, headers.Excluded)
	assert.Equal(t, 1, headers.Skipped)
}

func TestStageSrcsDropsUnmatchedExternal(t *testing.T) {
	cfg := bareConfig()
	r, fsys := newRearranger(t, cfg, map[string]string{
		"external/six_archive/six.py":                 "six",
		"external/local_xla/xla/python/xla_client.py": "xla",
		"tensorflow/python/ops/array_ops.py":          "ops",
	})

	report, err := r.Stage(context.Background(), types.Inputs{Srcs: []string{
		"external/six_archive/six.py",
		"external/local_xla/xla/python/xla_client.py",
		"tensorflow/python/ops/array_ops.py",
	}}, stage)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"tensorflow/compiler/xla/python/xla_client.py",
		"tensorflow/python/ops/array_ops.py",
	}, testutil.Files(testutil.Snapshot(t, fsys, stage)))
	assert.Equal(t, 1, report.Categories[2].Dropped)
}

func TestStageDepsCreateInit(t *testing.T) {
	cfg := bareConfig()
	r, fsys := newRearranger(t, cfg, map[string]string{
		"bazel-out/k8-opt/bin/tensorflow/python/_pywrap_tensorflow_internal.so":    "elf",
		"bazel-out/k8-opt/bin/external/local_tsl/tsl/python/lib/core/ml_dtypes.so": "elf",
	})

	_, err := r.Stage(context.Background(), types.Inputs{Deps: []string{
		"bazel-out/k8-opt/bin/tensorflow/python/_pywrap_tensorflow_internal.so",
		"bazel-out/k8-opt/bin/external/local_tsl/tsl/python/lib/core/ml_dtypes.so",
	}}, stage)
	require.NoError(t, err)

	assert.True(t, testutil.FileExists(fsys, "/stage/tensorflow/python/_pywrap_tensorflow_internal.so"))
	assert.True(t, testutil.FileExists(fsys, "/stage/tensorflow/python/__init__.py"))
	assert.True(t, testutil.FileExists(fsys, "/stage/tensorflow/tsl/tsl/python/lib/core/ml_dtypes.so"))
	assert.True(t, testutil.FileExists(fsys, "/stage/tensorflow/tsl/tsl/python/lib/core/__init__.py"))
	// Only the destination directory gets a marker
	testutil.AssertNoFile(t, fsys, "/stage/tensorflow/__init__.py")
}

func TestStageAOTMovesManifest(t *testing.T) {
	cfg := bareConfig()
	r, fsys := newRearranger(t, cfg, map[string]string{
		"external/local_tsl/tsl/platform/logging.cc":               "log",
		"tensorflow/tools/pip_package/v2/xla_build/CMakeLists.txt": "cmake",
	})

	report, err := r.Stage(context.Background(), types.Inputs{AOT: []string{
		"external/local_tsl/tsl/platform/logging.cc",
		"tensorflow/tools/pip_package/v2/xla_build/CMakeLists.txt",
	}}, stage)
	require.NoError(t, err)

	aotRoot := "/stage/tensorflow/xla_aot_runtime_src"
	testutil.AssertFileContent(t, fsys, aotRoot+"/tsl/platform/logging.cc", "log")
	testutil.AssertFileContent(t, fsys, aotRoot+"/CMakeLists.txt", "cmake")
	testutil.AssertNoFile(t, fsys, aotRoot+"/tensorflow/tools/pip_package/v2/xla_build/CMakeLists.txt")
	assert.Equal(t, 1, report.Categories[3].Moved)
}

func TestStageEmptyCategorySkipsMoves(t *testing.T) {
	r, fsys := newRearranger(t, config.Default(), nil)

	report, err := r.Stage(context.Background(), types.Inputs{}, stage)
	require.NoError(t, err)
	assert.Zero(t, report.Placed())
	assert.False(t, filesystem.Exists(fsys, stage))
}

func TestStageHeadersLocalConfigAndMirrors(t *testing.T) {
	files := map[string]string{
		"external/pypi_numpy/site-packages/numpy/core/include/numpy/ndarrayobject.h": "numpy",
		"external/python_x86_64-unknown-linux-gnu/include/python3.11/Python.h":       "python",
		"external/local_xla/xla/shape.h":                                             "shape",
		"external/local_tsl/tsl/platform/status.h":                                   "status",
		"external/com_google_absl/absl/base/config.h":                                "absl",
		"bazel-out/k8-opt/bin/tensorflow/core/framework/types.pb.h":                  "pb",
	}
	r, fsys := newRearranger(t, config.Default(), files)

	_, err := r.Stage(context.Background(), types.Inputs{Headers: []string{
		"external/local_xla/xla/shape.h",
		"external/local_tsl/tsl/platform/status.h",
		"external/com_google_absl/absl/base/config.h",
		"bazel-out/k8-opt/bin/tensorflow/core/framework/types.pb.h",
	}}, stage)
	require.NoError(t, err)

	inc := "/stage/tensorflow/include"
	testutil.AssertFileContent(t, fsys, inc+"/tensorflow/compiler/xla/shape.h", "shape")
	testutil.AssertFileContent(t, fsys, inc+"/tensorflow/tsl/platform/status.h", "status")
	testutil.AssertFileContent(t, fsys, inc+"/absl/base/config.h", "absl")
	testutil.AssertFileContent(t, fsys, inc+"/tensorflow/core/framework/types.pb.h", "pb")

	lc := inc + "/external/local_config_python"
	testutil.AssertFileContent(t, fsys, lc+"/numpy_include/numpy/ndarrayobject.h", "numpy")
	testutil.AssertFileContent(t, fsys, lc+"/python_include/Python.h", "python")

	testutil.AssertFileContent(t, fsys, inc+"/xla/shape.h", "shape")
	testutil.AssertFileContent(t, fsys, inc+"/tsl/platform/status.h", "status")
	assert.False(t, testutil.DirExists(fsys, inc+"/third_party/gpus"))
}

func TestStageHeadersWindowsIncludeGlob(t *testing.T) {
	cfg := config.Default()
	cfg.Headers.Mirrors = nil
	r, fsys := newRearranger(t, cfg, map[string]string{
		"external/pypi_numpy/site-packages/numpy/core/include/numpy/ndarrayobject.h": "numpy",
		"external/python_x86_64-pc-windows-msvc/include/Python.h":                    "python",
		"tensorflow/core/public/version.h":                                           "v",
	})
	r.Platform = platform.Platform{OS: platform.Windows, Arch: "amd64"}

	_, err := r.Stage(context.Background(), types.Inputs{Headers: []string{"tensorflow/core/public/version.h"}}, stage)
	require.NoError(t, err)
	testutil.AssertFileContent(t, fsys,
		"/stage/tensorflow/include/external/local_config_python/python_include/Python.h", "python")
}

func TestStageHeadersRequiredMirrorMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Headers.LocalConfig = config.LocalConfig{}
	r, _ := newRearranger(t, cfg, map[string]string{
		"tensorflow/core/public/version.h": "v",
	})

	_, err := r.Stage(context.Background(), types.Inputs{Headers: []string{"tensorflow/core/public/version.h"}}, stage)
	require.Error(t, err)
	assert.Equal(t, errors.ErrFileNotFound, errors.GetErrorCode(err))
}

func TestStageMissingArtifactAborts(t *testing.T) {
	cfg := bareConfig()
	r, fsys := newRearranger(t, cfg, map[string]string{
		"tensorflow/a.py": "a",
	})

	_, err := r.Stage(context.Background(), types.Inputs{Srcs: []string{
		"tensorflow/a.py",
		"tensorflow/missing.py",
	}, AOT: []string{"tensorflow/a.py"}}, stage)
	require.Error(t, err)
	assert.Equal(t, errors.ErrFileNotFound, errors.GetErrorCode(err))
	assert.Equal(t, filepath.Join(work, "tensorflow/missing.py"), errors.GetErrorDetails(err)["path"])
	assert.Contains(t, err.Error(), "tensorflow/missing.py")
	// The AOT category never ran
	assert.False(t, filesystem.Exists(fsys, "/stage/tensorflow/xla_aot_runtime_src"))
}

func TestStageRejectsEscapingArtifact(t *testing.T) {
	cfg := bareConfig()
	r, _ := newRearranger(t, cfg, nil)

	_, err := r.Stage(context.Background(), types.Inputs{Srcs: []string{"../../etc/passwd"}}, stage)
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidInput, errors.GetErrorCode(err))
}

func TestStageAbsoluteArtifact(t *testing.T) {
	cfg := bareConfig()
	r, fsys := newRearranger(t, cfg, map[string]string{
		"tensorflow/python/platform/build_info.py": "info",
	})

	_, err := r.Stage(context.Background(), types.Inputs{Srcs: []string{
		"/work/tensorflow/python/platform/build_info.py",
	}}, stage)
	require.NoError(t, err)
	testutil.AssertFileContent(t, fsys, "/stage/work/tensorflow/python/platform/build_info.py", "info")
}

func TestStagePreservesMode(t *testing.T) {
	cfg := bareConfig()
	r, fsys := newRearranger(t, cfg, nil)
	testutil.CreateFileMode(t, fsys, "/work/tensorflow/tools/run.sh", "#!/bin/sh", 0755)

	_, err := r.Stage(context.Background(), types.Inputs{Srcs: []string{"tensorflow/tools/run.sh"}}, stage)
	require.NoError(t, err)

	info, err := fsys.Stat("/stage/tensorflow/tools/run.sh")
	require.NoError(t, err)
	assert.Equal(t, "-rwxr-xr-x", info.Mode().Perm().String())
}

func TestStageDuplicateArtifactCopiedOnce(t *testing.T) {
	cfg := bareConfig()
	r, _ := newRearranger(t, cfg, map[string]string{"tensorflow/a.py": "a"})

	report, err := r.Stage(context.Background(), types.Inputs{Srcs: []string{"tensorflow/a.py", "tensorflow/a.py"}}, stage)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Categories[2].Placed)
	assert.Equal(t, 1, report.Categories[2].Duplicates)
}

func TestStageIsDeterministic(t *testing.T) {
	files := map[string]string{
		"external/pypi_numpy/site-packages/numpy/core/include/numpy/ndarrayobject.h": "numpy",
		"external/python_x86_64-unknown-linux-gnu/include/python3.11/Python.h":       "python",
		"external/local_xla/xla/shape.h":                                             "shape",
		"external/local_tsl/tsl/platform/status.h":                                   "status",
		"bazel-out/k8-opt/bin/tensorflow/python/_pywrap_tensorflow_internal.so":      "elf",
		"tensorflow/python/ops/array_ops.py":                                         "ops",
		"tensorflow/tools/pip_package/v2/xla_build/CMakeLists.txt":                   "cmake",
	}
	in := types.Inputs{
		Headers: []string{"external/local_xla/xla/shape.h", "external/local_tsl/tsl/platform/status.h"},
		Deps:    []string{"bazel-out/k8-opt/bin/tensorflow/python/_pywrap_tensorflow_internal.so"},
		Srcs:    []string{"tensorflow/python/ops/array_ops.py"},
		AOT:     []string{"tensorflow/tools/pip_package/v2/xla_build/CMakeLists.txt"},
	}

	r, fsys := newRearranger(t, config.Default(), files)
	_, err := r.Stage(context.Background(), in, "/stage-a")
	require.NoError(t, err)
	_, err = r.Stage(context.Background(), in, "/stage-b")
	require.NoError(t, err)

	a := testutil.Snapshot(t, fsys, "/stage-a")
	assert.NotEmpty(t, a)
	assert.Equal(t, a, testutil.Snapshot(t, fsys, "/stage-b"))
}

func TestStageCanceled(t *testing.T) {
	cfg := bareConfig()
	r, fsys := newRearranger(t, cfg, map[string]string{"tensorflow/a.py": "a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Stage(ctx, types.Inputs{Srcs: []string{"tensorflow/a.py"}}, stage)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCanceled, errors.GetErrorCode(err))
	assert.False(t, filesystem.Exists(fsys, stage))
}

func TestStageDepsOnlySkipsHeaderExtras(t *testing.T) {
	// Full header extras configured, but no numpy or python sources exist.
	r, fsys := newRearranger(t, config.Default(), map[string]string{
		"bazel-out/k8-opt/bin/tensorflow/python/_pywrap_tensorflow_internal.so": "elf",
	})

	_, err := r.Stage(context.Background(), types.Inputs{Deps: []string{
		"bazel-out/k8-opt/bin/tensorflow/python/_pywrap_tensorflow_internal.so",
	}}, stage)
	require.NoError(t, err)

	assert.True(t, testutil.FileExists(fsys, "/stage/tensorflow/python/_pywrap_tensorflow_internal.so"))
	assert.False(t, testutil.DirExists(fsys, "/stage/tensorflow/include"))
}

func TestApplyExecutesPlanOperations(t *testing.T) {
	cfg := bareConfig()
	r, fsys := newRearranger(t, cfg, map[string]string{
		"bazel-out/k8-opt/bin/tensorflow/python/_pywrap_tensorflow_internal.so": "elf",
		"tensorflow/python/ops/array_ops.py":                                    "ops",
		"tensorflow/tools/pip_package/v2/xla_build/CMakeLists.txt":              "cmake",
	})
	in := types.Inputs{
		Deps: []string{"bazel-out/k8-opt/bin/tensorflow/python/_pywrap_tensorflow_internal.so"},
		Srcs: []string{"tensorflow/python/ops/array_ops.py"},
		AOT:  []string{"tensorflow/tools/pip_package/v2/xla_build/CMakeLists.txt"},
	}

	p, err := plan.Build(cfg, in)
	require.NoError(t, err)

	report, err := r.Apply(context.Background(), p, stage)
	require.NoError(t, err)

	for _, op := range p.Operations {
		switch op.Kind {
		case plan.OpCopy, plan.OpMarker:
			if op.Category == types.CategoryAOT {
				continue
			}
			assert.True(t, testutil.FileExists(fsys, filepath.Join(stage, op.Target)), op.Target)
		case plan.OpMove:
			assert.True(t, testutil.FileExists(fsys, filepath.Join(stage, op.Target)), op.Target)
			testutil.AssertNoFile(t, fsys, filepath.Join(stage, op.Source))
		}
	}
	assert.Equal(t, 3, report.Placed())
	assert.Equal(t, 1, report.Categories[3].Moved)
}

func TestApplyUnknownOperation(t *testing.T) {
	r, fsys := newRearranger(t, bareConfig(), nil)
	p := &plan.Plan{Operations: []plan.Operation{
		{Kind: plan.OpKind("rename"), Category: types.CategorySrcs, Target: "tensorflow/a.py"},
	}}

	_, err := r.Apply(context.Background(), p, stage)
	require.Error(t, err)
	assert.Equal(t, errors.ErrInternal, errors.GetErrorCode(err))
	assert.False(t, filesystem.Exists(fsys, stage))
}
