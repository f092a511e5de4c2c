package ui_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/arthur-debert/wheelstage/pkg/config"
	"github.com/arthur-debert/wheelstage/pkg/errors"
	"github.com/arthur-debert/wheelstage/pkg/plan"
	"github.com/arthur-debert/wheelstage/pkg/rearrange"
	"github.com/arthur-debert/wheelstage/pkg/types"
	"github.com/arthur-debert/wheelstage/pkg/ui"
	"github.com/arthur-debert/wheelstage/pkg/wheel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlan(t *testing.T) *plan.Plan {
	t.Helper()
	p, err := plan.Build(config.Default(), types.Inputs{
		Headers: []string{
			"bazel-out/k8-opt/bin/external/local_xla/xla/shape.h",
			"tensorflow/core/ops/ops.cc.inc",
		},
		Srcs: []string{"tensorflow/python/ops/array_ops.py"},
	})
	require.NoError(t, err)
	return p
}

func sampleResult() *wheel.Result {
	return &wheel.Result{
		Report: &rearrange.Report{
			Categories: []rearrange.CategoryReport{
				{Category: types.CategoryHeaders, Placed: 4, Skipped: 1},
				{Category: types.CategoryDeps, Placed: 2, Duplicates: 1},
			},
		},
		DistDir: "/out/dist",
	}
}

func TestNewRenderer(t *testing.T) {
	for _, f := range []ui.Format{ui.FormatAuto, ui.FormatTerminal, ui.FormatText, ui.FormatJSON} {
		r, err := ui.NewRenderer(f, &bytes.Buffer{})
		require.NoError(t, err, f.String())
		assert.NotNil(t, r)
	}

	r, err := ui.NewRenderer(ui.Format(999), &bytes.Buffer{})
	assert.Error(t, err)
	assert.Nil(t, r)
}

func TestTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	r, err := ui.NewRenderer(ui.FormatText, &buf)
	require.NoError(t, err)

	t.Run("plan", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, r.RenderResult(samplePlan(t)))
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 4)
		assert.Regexp(t, `^headers\s+placed\s+bazel-out/\S+shape\.h\s+tensorflow/include/tensorflow/compiler/xla/shape\.h$`, lines[0])
		assert.Regexp(t, `^headers\s+skipped\s+tensorflow/core/ops/ops\.cc\.inc\s+\(cc\.inc\)$`, lines[1])
		assert.Regexp(t, `^srcs\s+placed\s+`, lines[2])
		assert.Equal(t, "3 artifacts: 2 placed, 0 excluded, 1 skipped, 0 dropped, 0 duplicates", lines[3])
	})

	t.Run("build result", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, r.RenderResult(sampleResult()))
		out := buf.String()
		assert.Regexp(t, `headers\s+4\s+0\s+1\s+0\s+0\s+0`, out)
		assert.Contains(t, out, "Output wheel file is in: /out/dist\n")
	})

	t.Run("error", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, r.RenderError(errors.New(errors.ErrAlreadyExists, "unit exists")))
		assert.Equal(t, "Error: [ALREADY_EXISTS] unit exists\n", buf.String())
	})

	t.Run("message", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, r.RenderMessage("done"))
		assert.Equal(t, "done\n", buf.String())
	})
}

func TestTerminalRenderer(t *testing.T) {
	var buf bytes.Buffer
	r, err := ui.NewRenderer(ui.FormatTerminal, &buf)
	require.NoError(t, err)

	require.NoError(t, r.RenderResult(samplePlan(t)))
	out := buf.String()
	assert.Contains(t, out, "Staging plan")
	assert.Contains(t, out, "headers")
	assert.Contains(t, out, "srcs")
	assert.Contains(t, out, "shape.h")
	assert.Contains(t, out, "(cc.inc)")
	assert.Contains(t, out, "3 artifacts")

	buf.Reset()
	require.NoError(t, r.RenderResult(sampleResult()))
	assert.Contains(t, buf.String(), "Wheel built")
	assert.Contains(t, buf.String(), "/out/dist")

	buf.Reset()
	toolErr := errors.New(errors.ErrExternalTool, "python3 failed").WithDetail("output", "Traceback")
	require.NoError(t, r.RenderError(toolErr))
	assert.Contains(t, buf.String(), "EXTERNAL_TOOL")
	assert.Contains(t, buf.String(), "Traceback")
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	r, err := ui.NewRenderer(ui.FormatJSON, &buf)
	require.NoError(t, err)

	require.NoError(t, r.RenderResult(samplePlan(t)))
	var decoded struct {
		Entries []map[string]interface{} `json:"entries"`
		Summary plan.Summary             `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Entries, 3)
	assert.Equal(t, "placed", decoded.Entries[0]["status"])
	assert.Equal(t, "tensorflow/include/tensorflow/compiler/xla/shape.h", decoded.Entries[0]["destination"])
	assert.Equal(t, 2, decoded.Summary.Placed)

	buf.Reset()
	require.NoError(t, r.RenderError(errors.New(errors.ErrFileNotFound, "missing").WithDetail("path", "a.h")))
	var errObj map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &errObj))
	assert.Equal(t, "FILE_NOT_FOUND", errObj["code"])
	assert.Equal(t, map[string]interface{}{"path": "a.h"}, errObj["details"])

	buf.Reset()
	require.NoError(t, r.RenderMessage("ok"))
	assert.JSONEq(t, `{"message": "ok"}`, buf.String())
}
