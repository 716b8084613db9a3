package dbus

// Standard D-Bus method names
const (
	DBUS_INTERFACE  = "org.freedesktop.DBus"
	DBUS_PROP_IFACE = DBUS_INTERFACE + ".Properties"

	PROP_GET = DBUS_PROP_IFACE + ".Get"
	PROP_SET = DBUS_PROP_IFACE + ".Set"
)
