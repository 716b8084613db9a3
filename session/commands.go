package session

import "strings"

const (
	DefaultCompositor = "hyprctl"
	DefaultLocker     = "hyprlock --immediate"
)

// Commands describes how session actions reach the compositor. Every action
// is a single argument passed to Compositor, for instance
// `hyprctl "dispatch exec systemctl poweroff"`.
type Commands struct {
	Compositor string
	Locker     string
}

// DefaultCommands targets Hyprland with hyprlock.
func DefaultCommands() Commands {
	return Commands{Compositor: DefaultCompositor, Locker: DefaultLocker}
}

// Argument returns the compositor argument for an action, or false for None.
func (c Commands) Argument(a Action) (string, bool) {
	switch a {
	case Poweroff:
		return "dispatch exec systemctl poweroff", true
	case Reboot:
		return "dispatch exec systemctl reboot", true
	case Suspend:
		return "dispatch exec systemctl suspend", true
	case Logout:
		return "dispatch exit", true
	case Lock:
		locker := strings.TrimSpace(c.Locker)
		if locker == "" {
			locker = DefaultLocker
		}
		return "dispatch exec " + locker, true
	default:
		return "", false
	}
}
