package session

// Key names follow X keysym spelling ("Escape", "s"), which is what layer-shell
// toolkits report. Hosts with other conventions translate before calling
// IdentifyKey.
var keymap = map[string]Action{
	"Escape": None,
	"s":      Poweroff,
	"r":      Reboot,
	"l":      Lock,
	"e":      Logout,
	"u":      Suspend,
}

// IdentifyKey maps a key to the action it selects. Keys outside the map
// return false and must be ignored by the caller.
func IdentifyKey(key string) (Action, bool) {
	a, ok := keymap[key]
	return a, ok
}

// KeyFor returns the key bound to an action, used for on-screen hints.
func KeyFor(a Action) string {
	for k, v := range keymap {
		if v == a {
			return k
		}
	}
	return ""
}
