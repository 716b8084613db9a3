package backend

import (
	"context"

	"github.com/ckgxrg/dwsh/backend/systemd"
	"github.com/ckgxrg/dwsh/config"
	"github.com/ckgxrg/dwsh/logger"
	"github.com/ckgxrg/dwsh/session"
)

// NewDispatcher picks how confirmed actions are launched. A systemd user
// manager that cannot be reached falls back to plain child processes. The
// returned func releases whatever the dispatcher holds.
func NewDispatcher(ctx context.Context, cfg *config.SessionConfig) (session.Dispatcher, func()) {
	commands := session.DefaultCommands()
	if cfg != nil {
		commands = session.Commands{Compositor: cfg.Compositor, Locker: cfg.Locker}
	}

	sd, err := systemd.New(ctx, cfg)
	if err != nil {
		logger.Warn("[systemd] user manager unavailable, spawning directly: %v", err)
	}
	if sd != nil {
		logger.Debug("[session] dispatching through transient user units")
		return sd, sd.Close
	}

	return session.NewExecDispatcher(commands), func() {}
}
