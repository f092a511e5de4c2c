package service

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/arthur-debert/wheelstage/pkg/config"
	"github.com/arthur-debert/wheelstage/pkg/errors"
	"github.com/arthur-debert/wheelstage/pkg/filesystem"
	"github.com/arthur-debert/wheelstage/pkg/runner"
	"github.com/arthur-debert/wheelstage/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const expectedUnit = `[Unit]
Description=GRPC TPU Worker Service
After=network.target

[Service]
Type=simple
Environment="HOME=/home/tpu-runtime"
EnvironmentFile=/home/tpu-runtime/tpu-env
ExecStartPre=/bin/mkdir -p /tmp/tflogs
ExecStartPre=/bin/touch /tmp/tflogs/grpc_tpu_worker.log
ExecStartPre=/bin/chmod +r /tmp/tflogs
ExecStart=/bin/sh -c 'start_grpc_tpu_worker 2>&1 | tee -a /tmp/tflogs/grpc_tpu_worker.log'
Restart=on-failure
RestartSec=10

[Install]
WantedBy=multi-user.target
`

func TestTPUWorkerUnitRender(t *testing.T) {
	content, err := TPUWorkerUnit().Render()
	require.NoError(t, err)
	assert.Equal(t, expectedUnit, content)
}

func TestRenderRequiresCommand(t *testing.T) {
	_, err := Unit{Description: "x"}.Render()
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidInput, errors.GetErrorCode(err))
}

func TestRenderEscapesEnvironment(t *testing.T) {
	content, err := Unit{ExecStart: "/bin/true", Environment: []string{`GREETING=say "hi"`}}.Render()
	require.NoError(t, err)
	assert.Contains(t, content, `Environment="GREETING=say \"hi\""`)
	assert.NotContains(t, content, "[Install]")
}

func TestShellCommand(t *testing.T) {
	cmd, err := ShellCommand("echo it's | cat")
	require.Error(t, err, "unterminated quote")
	assert.Empty(t, cmd)

	cmd, err = ShellCommand(`worker --flag "a b" | tee log`)
	require.NoError(t, err)
	assert.Equal(t, `/bin/sh -c 'worker --flag "a b" | tee log'`, cmd)
}

func newInstaller(t *testing.T, useSudo bool) (*Installer, *testutil.Recorder) {
	t.Helper()
	rec := &testutil.Recorder{}
	cfg := config.Default().Service
	cfg.UnitDir = t.TempDir()
	inst := NewInstaller(cfg, rec)
	inst.UseSudo = useSudo
	return inst, rec
}

func TestInstall(t *testing.T) {
	inst, rec := newInstaller(t, false)

	require.NoError(t, inst.Install(context.Background()))

	data, err := os.ReadFile(filepath.Join(inst.UnitDir, "grpc_tpu_worker.service"))
	require.NoError(t, err)
	assert.Equal(t, expectedUnit, string(data))

	info, err := os.Stat(inst.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(UnitFileMode), info.Mode().Perm())

	assert.Equal(t, []string{
		"systemctl daemon-reload",
		"systemctl enable grpc_tpu_worker.service",
		"systemctl start grpc_tpu_worker.service",
	}, rec.Lines())
}

func TestInstallTwice(t *testing.T) {
	inst, rec := newInstaller(t, false)

	require.NoError(t, inst.Install(context.Background()))
	before := testutil.Snapshot(t, filesystem.NewOS(), inst.UnitDir)
	commands := len(rec.Commands)

	err := inst.Install(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrAlreadyExists, errors.GetErrorCode(err))
	assert.Equal(t, errors.ExitFailure, errors.ExitCode(err))
	assert.Contains(t, err.Error(), "already exists")

	// Nothing written, nothing run
	assert.Equal(t, before, testutil.Snapshot(t, filesystem.NewOS(), inst.UnitDir))
	assert.Len(t, rec.Commands, commands)
}

func TestInstallRefusesExistingUnit(t *testing.T) {
	inst, rec := newInstaller(t, true)
	require.NoError(t, os.WriteFile(inst.Path(), []byte("custom"), 0o644))

	err := inst.Install(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))
	assert.Equal(t, inst.Path(), errors.GetErrorDetails(err)["path"])
	assert.Empty(t, rec.Commands)

	data, err := os.ReadFile(inst.Path())
	require.NoError(t, err)
	assert.Equal(t, "custom", string(data))
}

func TestInstallWithSudo(t *testing.T) {
	inst, rec := newInstaller(t, true)
	var moved string
	rec.OnRun = func(cmd runner.Command) {
		if cmd.Name == "sudo" && cmd.Args[0] == "mv" {
			data, err := os.ReadFile(cmd.Args[1])
			require.NoError(t, err)
			moved = string(data)
		}
	}

	require.NoError(t, inst.Install(context.Background()))
	assert.Equal(t, expectedUnit, moved)

	lines := rec.Lines()
	require.Len(t, lines, 4)
	assert.Regexp(t, `^sudo mv \S+ `+regexp.QuoteMeta(inst.Path())+`$`, lines[0])
	assert.Contains(t, filepath.Base(rec.Commands[0].Args[1]), "grpc_tpu_worker.service.")
	assert.Equal(t, []string{
		"sudo systemctl daemon-reload",
		"sudo systemctl enable grpc_tpu_worker.service",
		"sudo systemctl start grpc_tpu_worker.service",
	}, lines[1:])

	// The temporary file is cleaned up
	_, err := os.Stat(rec.Commands[0].Args[1])
	assert.True(t, os.IsNotExist(err))
}

func TestInstallSystemctlFailure(t *testing.T) {
	inst, rec := newInstaller(t, false)
	rec.Fail = map[string]error{"systemctl": errors.New(errors.ErrExternalTool, "systemctl exited 1")}

	err := inst.Install(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ExitExternalTool, errors.ExitCode(err))
	assert.Len(t, rec.Commands, 1)
}
