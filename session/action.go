package session

import (
	"fmt"
	"strings"
)

// Action is a session action the overlay can arm and confirm. None is the
// idle state and is never executable.
type Action int

const (
	None Action = iota
	Poweroff
	Reboot
	Suspend
	Logout
	Lock
)

// Actions lists every executable action in display order.
var Actions = []Action{Poweroff, Reboot, Suspend, Logout, Lock}

var labels = map[Action]string{
	None:     "Daywatch",
	Poweroff: "Power off",
	Reboot:   "Reboot",
	Suspend:  "Suspend",
	Logout:   "Log out",
	Lock:     "Lock screen",
}

var names = map[Action]string{
	None:     "none",
	Poweroff: "poweroff",
	Reboot:   "reboot",
	Suspend:  "suspend",
	Logout:   "logout",
	Lock:     "lock",
}

// String returns the human-readable label shown for the action. None renders
// as the idle placeholder.
func (a Action) String() string {
	if l, ok := labels[a]; ok {
		return l
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Name returns the lowercase identifier used in logs, flags and JSON.
func (a Action) Name() string {
	if n, ok := names[a]; ok {
		return n
	}
	return fmt.Sprintf("action%d", int(a))
}

// Actionable reports whether the action can be executed.
func (a Action) Actionable() bool {
	return a > None && a <= Lock
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.Name()), nil
}

// ParseAction is the inverse of Name.
func ParseAction(name string) (Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, n := range names {
		if n == name {
			return a, nil
		}
	}
	return None, fmt.Errorf("unknown action %q", name)
}
