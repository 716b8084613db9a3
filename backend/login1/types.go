package login1

import (
	"os"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/ckgxrg/dwsh/cache"
)

// Login1Backend talks to systemd-logind on the system bus: capability
// queries, the idle inhibitor behind coffee mode and backlight brightness.
type Login1Backend struct {
	conn *dbus.Conn
	obj  dbus.BusObject
	sess dbus.BusObject

	backlight    string
	maxBright    uint32
	backlightDir string

	capabilities *cache.Cache[string]

	mu       sync.Mutex
	inhibit  *os.File
	openLock func() (*os.File, error)
}
