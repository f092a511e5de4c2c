// Package service renders the systemd unit of the TPU gRPC worker and
// installs it. Installation refuses to touch an existing unit file; a fresh
// install writes the unit, reloads the service manager, then enables and
// starts the service.
package service
