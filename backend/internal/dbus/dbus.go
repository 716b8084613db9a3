package dbus

import (
	"context"
	"errors"
	"time"

	"github.com/godbus/dbus/v5"
)

// DefaultTimeout is the timeout used for all D-Bus calls.
var DefaultTimeout = 5 * time.Second

// Call invokes method with DefaultTimeout and returns the completed call.
// A deadline overrun is reported as *TimeoutError.
func Call(obj dbus.BusObject, method string, args ...interface{}) (*dbus.Call, error) {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()

	call := obj.CallWithContext(ctx, method, 0, args...)
	if call.Err != nil {
		if errors.Is(call.Err, context.DeadlineExceeded) {
			return nil, &TimeoutError{Method: method}
		}
		return nil, call.Err
	}
	return call, nil
}

// CallMethod calls a method whose reply carries nothing of interest.
func CallMethod(obj dbus.BusObject, method string, args ...interface{}) error {
	_, err := Call(obj, method, args...)
	return err
}

// CallString calls a method returning a single string, such as logind's
// Can* queries.
func CallString(obj dbus.BusObject, method string, args ...interface{}) (string, error) {
	call, err := Call(obj, method, args...)
	if err != nil {
		return "", err
	}
	var out string
	if err := call.Store(&out); err != nil {
		return "", err
	}
	return out, nil
}

// GetProperty retrieves a single property from a D-Bus object.
func GetProperty(obj dbus.BusObject, iface, prop string) (dbus.Variant, error) {
	call, err := Call(obj, PROP_GET, iface, prop)
	if err != nil {
		return dbus.Variant{}, err
	}
	var v dbus.Variant
	if err := call.Store(&v); err != nil {
		return dbus.Variant{}, err
	}
	return v, nil
}

// GetObject returns a D-Bus object for the given service and object path.
func GetObject(conn *dbus.Conn, service, path string) dbus.BusObject {
	return conn.Object(service, dbus.ObjectPath(path))
}

// ExtractBool extracts a bool from a dbus.Variant.
func ExtractBool(v dbus.Variant) (bool, bool) {
	val, ok := v.Value().(bool)
	return val, ok
}
