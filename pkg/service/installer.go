package service

import (
	"context"
	"os"
	"path/filepath"

	"github.com/arthur-debert/wheelstage/pkg/config"
	"github.com/arthur-debert/wheelstage/pkg/errors"
	"github.com/arthur-debert/wheelstage/pkg/filesystem"
	"github.com/arthur-debert/wheelstage/pkg/logging"
	"github.com/arthur-debert/wheelstage/pkg/runner"
	"github.com/google/renameio/v2"
)

// UnitFileMode is the permission of installed unit files
const UnitFileMode = 0o644

// Installer writes a unit file and brings the service up
type Installer struct {
	Unit Unit
	// UnitDir is where unit files are written (default: /etc/systemd/system)
	UnitDir string
	// Name is the unit file name, e.g. grpc_tpu_worker.service
	Name string
	// UseSudo runs privileged steps through SudoCommand
	UseSudo     bool
	SudoCommand string
	// Systemctl is the path to the systemctl binary
	Systemctl string
	Runner    runner.Runner
}

// NewInstaller creates an installer for the TPU worker unit from the service
// configuration. Sudo is used when the process is not root.
func NewInstaller(cfg config.Service, r runner.Runner) *Installer {
	return &Installer{
		Unit:        TPUWorkerUnit(),
		UnitDir:     cfg.UnitDir,
		Name:        cfg.Name,
		UseSudo:     os.Geteuid() != 0,
		SudoCommand: cfg.SudoCommand,
		Systemctl:   cfg.Systemctl,
		Runner:      r,
	}
}

// Path returns the unit file location
func (i *Installer) Path() string {
	return filepath.Join(i.UnitDir, i.Name)
}

// Install refuses with ALREADY_EXISTS when the unit file is present, writing
// nothing. Otherwise it writes the unit file, reloads the service manager,
// and enables and starts the service. Every step is fatal on failure.
func (i *Installer) Install(ctx context.Context) error {
	logger := logging.GetLogger("service")
	path := i.Path()

	if filesystem.Exists(filesystem.NewOS(), path) {
		return errors.Newf(errors.ErrAlreadyExists, "Service file %s already exists", path).
			WithDetail("path", path)
	}

	content, err := i.Unit.Render()
	if err != nil {
		return err
	}

	if err := i.writeUnitFile(ctx, path, content); err != nil {
		return err
	}
	logger.Info().Str("path", path).Msg("Service file created")

	for _, args := range [][]string{
		{"daemon-reload"},
		{"enable", i.Name},
		{"start", i.Name},
	} {
		if err := i.Runner.Run(ctx, i.systemctl(args...)); err != nil {
			return err
		}
		logger.Info().Strs("args", args).Msg("Executed systemctl")
	}
	return nil
}

// writeUnitFile writes the unit file, moving it into place with sudo if necessary
func (i *Installer) writeUnitFile(ctx context.Context, path, content string) error {
	if !i.UseSudo {
		if err := renameio.WriteFile(path, []byte(content), UnitFileMode); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", path).
				WithDetail("path", path)
		}
		return nil
	}

	tmp, err := os.CreateTemp("", i.Name+".*")
	if err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "cannot create temporary unit file")
	}
	tmpPath := tmp.Name()
	defer func() {
		// Gone after a successful mv
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", tmpPath)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", tmpPath)
	}
	if err := os.Chmod(tmpPath, UnitFileMode); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot set mode on %s", tmpPath)
	}

	return i.Runner.Run(ctx, runner.Command{Name: i.SudoCommand, Args: []string{"mv", tmpPath, path}})
}

func (i *Installer) systemctl(args ...string) runner.Command {
	if i.UseSudo {
		return runner.Command{Name: i.SudoCommand, Args: append([]string{i.Systemctl}, args...)}
	}
	return runner.Command{Name: i.Systemctl, Args: args}
}
