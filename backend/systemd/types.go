package systemd

import (
	"context"

	sysdbus "github.com/coreos/go-systemd/v22/dbus"

	"github.com/ckgxrg/dwsh/session"
)

// unitStarter is the subset of the systemd user manager connection we use.
type unitStarter interface {
	StartTransientUnitContext(ctx context.Context, name string, mode string, properties []sysdbus.Property, ch chan<- string) (int, error)
	Close()
}

// SystemdBackend launches session commands as transient units of the user
// manager, so they outlive the overlay process that confirmed them.
type SystemdBackend struct {
	conn     unitStarter
	ctx      context.Context
	commands session.Commands
}

// JobError reports a start job that systemd did not complete.
type JobError struct {
	Unit   string
	Result string
}

func (e *JobError) Error() string {
	return "systemd: start job for " + e.Unit + " finished with " + e.Result
}
