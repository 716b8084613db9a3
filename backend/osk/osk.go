package osk

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"

	idbus "github.com/ckgxrg/dwsh/backend/internal/dbus"
	"github.com/ckgxrg/dwsh/config"
	"github.com/ckgxrg/dwsh/logger"
)

// OSKBackend shows and hides the squeekboard on-screen keyboard over the
// session bus.
type OSKBackend struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// New connects to the session bus. It returns nil, nil when the backend is
// disabled. squeekboard does not need to be running yet: calls fail until it
// claims its name.
func New(ctx context.Context, cfg *config.OSKConfig) (*OSKBackend, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("session bus: %w", err)
	}

	b := &OSKBackend{
		conn: conn,
		obj:  idbus.GetObject(conn, OSK_DEST, OSK_PATH),
	}
	logger.Info("[osk] backend initialized")
	return b, nil
}

// SetVisible shows or hides the keyboard.
func (o *OSKBackend) SetVisible(visible bool) error {
	if err := idbus.CallMethod(o.obj, OSK_METHOD_SET_VISIBLE, visible); err != nil {
		return fmt.Errorf("osk SetVisible(%t): %w", visible, err)
	}
	logger.Debug("[osk] visible=%t", visible)
	return nil
}

// Visible reads the keyboard's current visibility.
func (o *OSKBackend) Visible() (bool, error) {
	v, err := idbus.GetProperty(o.obj, OSK_INTERFACE, OSK_PROPERTY_VISIBLE)
	if err != nil {
		return false, err
	}
	visible, ok := idbus.ExtractBool(v)
	if !ok {
		return false, fmt.Errorf("osk %s: unexpected type %s", OSK_PROPERTY_VISIBLE, v.Signature())
	}
	return visible, nil
}

func (o *OSKBackend) Close() {
	if o.conn != nil {
		if err := o.conn.Close(); err != nil {
			logger.Error("[osk] failed to close D-Bus connection: %v", err)
		}
		o.conn = nil
	}
}
