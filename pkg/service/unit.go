package service

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/wheelstage/pkg/errors"
	"mvdan.cc/sh/v3/syntax"
)

// Unit holds the directives of a simple systemd service unit
type Unit struct {
	Description string
	After       []string

	Type            string
	Environment     []string
	EnvironmentFile string
	ExecStartPre    []string
	ExecStart       string
	Restart         string
	// RestartSec is the delay in seconds before a restart
	RestartSec int

	WantedBy string
}

// TPUWorkerUnit returns the unit that runs the gRPC TPU worker and appends
// its output to a log file under /tmp/tflogs
func TPUWorkerUnit() Unit {
	return Unit{
		Description:     "GRPC TPU Worker Service",
		After:           []string{"network.target"},
		Type:            "simple",
		Environment:     []string{"HOME=/home/tpu-runtime"},
		EnvironmentFile: "/home/tpu-runtime/tpu-env",
		ExecStartPre: []string{
			"/bin/mkdir -p /tmp/tflogs",
			"/bin/touch /tmp/tflogs/grpc_tpu_worker.log",
			"/bin/chmod +r /tmp/tflogs",
		},
		ExecStart:  MustShellCommand("start_grpc_tpu_worker 2>&1 | tee -a /tmp/tflogs/grpc_tpu_worker.log"),
		Restart:    "on-failure",
		RestartSec: 10,
		WantedBy:   "multi-user.target",
	}
}

// ShellCommand wraps a shell pipeline so systemd hands it to /bin/sh.
// systemd does not interpret pipes or redirections in ExecStart itself.
func ShellCommand(pipeline string) (string, error) {
	if _, err := syntax.NewParser().Parse(strings.NewReader(pipeline), "ExecStart"); err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "invalid shell pipeline %q", pipeline)
	}
	quoted, err := syntax.Quote(pipeline, syntax.LangPOSIX)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "cannot quote shell pipeline %q", pipeline)
	}
	return "/bin/sh -c " + quoted, nil
}

// MustShellCommand is ShellCommand for pipelines known to be valid
func MustShellCommand(pipeline string) string {
	cmd, err := ShellCommand(pipeline)
	if err != nil {
		panic(err)
	}
	return cmd
}

// Render generates the unit file content
func (u Unit) Render() (string, error) {
	if u.ExecStart == "" {
		return "", errors.New(errors.ErrInvalidInput, "command not specified")
	}

	var unit strings.Builder

	// [Unit] section
	unit.WriteString("[Unit]\n")
	if u.Description != "" {
		unit.WriteString(fmt.Sprintf("Description=%s\n", u.Description))
	}
	if len(u.After) > 0 {
		unit.WriteString(fmt.Sprintf("After=%s\n", strings.Join(u.After, " ")))
	}
	unit.WriteString("\n")

	// [Service] section
	unit.WriteString("[Service]\n")
	if u.Type != "" {
		unit.WriteString(fmt.Sprintf("Type=%s\n", u.Type))
	}
	for _, env := range u.Environment {
		escaped := strings.ReplaceAll(env, `"`, `\"`)
		unit.WriteString(fmt.Sprintf("Environment=\"%s\"\n", escaped))
	}
	if u.EnvironmentFile != "" {
		unit.WriteString(fmt.Sprintf("EnvironmentFile=%s\n", u.EnvironmentFile))
	}
	for _, pre := range u.ExecStartPre {
		unit.WriteString(fmt.Sprintf("ExecStartPre=%s\n", pre))
	}
	unit.WriteString(fmt.Sprintf("ExecStart=%s\n", u.ExecStart))
	if u.Restart != "" {
		unit.WriteString(fmt.Sprintf("Restart=%s\n", u.Restart))
	}
	if u.RestartSec > 0 {
		unit.WriteString(fmt.Sprintf("RestartSec=%d\n", u.RestartSec))
	}

	if u.WantedBy != "" {
		unit.WriteString("\n")
		unit.WriteString("[Install]\n")
		unit.WriteString(fmt.Sprintf("WantedBy=%s\n", u.WantedBy))
	}

	return unit.String(), nil
}
