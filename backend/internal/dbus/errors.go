package dbus

// TimeoutError is returned when a D-Bus call exceeds its deadline.
type TimeoutError struct {
	Method string
}

func (e *TimeoutError) Error() string {
	if e.Method == "" {
		return "dbus: call timed out"
	}
	return "dbus: " + e.Method + " timed out"
}
