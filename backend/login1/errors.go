package login1

// BacklightError is returned when the backlight device cannot be used.
type BacklightError struct {
	Device string
	Reason string
}

func (e *BacklightError) Error() string {
	if e.Device == "" {
		return "backlight: " + e.Reason
	}
	return "backlight " + e.Device + ": " + e.Reason
}
