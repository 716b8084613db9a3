package session

import (
	"fmt"
	"os/exec"

	"github.com/ckgxrg/dwsh/logger"
)

// Dispatcher hands a confirmed action to the outside world. Implementations
// must not wait for the spawned command to finish.
type Dispatcher interface {
	Dispatch(a Action) error
}

// ExecDispatcher spawns the compositor command for an action and returns as
// soon as the process is started. The child is reaped in the background.
type ExecDispatcher struct {
	Commands Commands

	// start is swapped in tests to avoid spawning processes.
	start func(cmd *exec.Cmd) error
}

func NewExecDispatcher(c Commands) *ExecDispatcher {
	if c.Compositor == "" {
		c.Compositor = DefaultCompositor
	}
	return &ExecDispatcher{Commands: c, start: startDetached}
}

func (d *ExecDispatcher) Dispatch(a Action) error {
	arg, ok := d.Commands.Argument(a)
	if !ok {
		return &ActionError{Action: a, Reason: "not executable"}
	}

	cmd := exec.Command(d.Commands.Compositor, arg)
	logger.Info("[session] dispatching %s: %s %q", a.Name(), d.Commands.Compositor, arg)
	if err := d.start(cmd); err != nil {
		return fmt.Errorf("spawn %s: %w", d.Commands.Compositor, err)
	}
	return nil
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			logger.Debug("[session] %s exited: %v", cmd.Path, err)
		}
	}()
	return nil
}
