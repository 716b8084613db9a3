package systemd

import (
	"context"
	"fmt"
	"time"

	sysdbus "github.com/coreos/go-systemd/v22/dbus"
	"github.com/godbus/dbus/v5"

	"github.com/ckgxrg/dwsh/config"
	"github.com/ckgxrg/dwsh/logger"
	"github.com/ckgxrg/dwsh/session"
)

// New connects to the systemd user manager when the session dispatcher is
// set to "systemd". Any other dispatcher leaves the backend disabled.
func New(ctx context.Context, cfg *config.SessionConfig) (*SystemdBackend, error) {
	if cfg == nil || cfg.Dispatcher != config.DispatcherSystemd {
		return nil, nil
	}

	conn, err := sysdbus.NewUserConnectionContext(ctx)
	if err != nil {
		return nil, err
	}

	return newBackend(ctx, conn, session.Commands{
		Compositor: cfg.Compositor,
		Locker:     cfg.Locker,
	}), nil
}

func newBackend(ctx context.Context, conn unitStarter, c session.Commands) *SystemdBackend {
	if c.Compositor == "" {
		c.Compositor = session.DefaultCompositor
	}
	return &SystemdBackend{conn: conn, ctx: ctx, commands: c}
}

// Dispatch starts the compositor command for a as a transient service. It
// returns once the unit is queued; the job result is only logged.
func (s *SystemdBackend) Dispatch(a session.Action) error {
	arg, ok := s.commands.Argument(a)
	if !ok {
		return &session.ActionError{Action: a, Reason: "not executable"}
	}
	if err := s.ctx.Err(); err != nil {
		return err
	}

	name := unitName(a, time.Now())
	props := unitProperties(a, []string{s.commands.Compositor, arg})

	logger.Info("[systemd] dispatching %s as %s: %s %q", a.Name(), name, s.commands.Compositor, arg)
	ch := make(chan string, 1)
	if _, err := s.conn.StartTransientUnitContext(s.ctx, name, jobMode, props, ch); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}

	go func(timeout time.Duration) {
		if err := awaitJob(s.ctx, name, ch, timeout); err != nil {
			logger.Error("[systemd] %v", err)
		}
	}(jobTimeout)
	return nil
}

// Close releases the user manager connection.
func (s *SystemdBackend) Close() {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}

func unitName(a session.Action, now time.Time) string {
	return fmt.Sprintf("%s%s-%d.service", unitPrefix, a.Name(), now.UnixNano())
}

func unitProperties(a session.Action, argv []string) []sysdbus.Property {
	return []sysdbus.Property{
		sysdbus.PropDescription("dwsh " + a.Name()),
		sysdbus.PropExecStart(argv, false),
		{Name: "CollectMode", Value: dbus.MakeVariant("inactive-or-failed")},
	}
}

// awaitJob waits for the start job result of unit. A job still pending after
// timeout is not an error, systemd will run it once queued.
func awaitJob(ctx context.Context, unit string, ch <-chan string, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-ch:
		if result != "done" {
			return &JobError{Unit: unit, Result: result}
		}
		logger.Debug("[systemd] start job for %s done", unit)
		return nil
	case <-timer.C:
		logger.Warn("[systemd] start job for %s still pending after %s", unit, timeout)
		return nil
	case <-ctx.Done():
		return nil
	}
}
