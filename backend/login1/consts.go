package login1

const (
	LOGIN1_PREFIX    = "org.freedesktop.login1"
	LOGIN1_PATH      = "/org/freedesktop/login1"
	LOGIN1_INTERFACE = LOGIN1_PREFIX + ".Manager"

	LOGIN1_SESSION_PATH      = LOGIN1_PATH + "/session/auto"
	LOGIN1_SESSION_INTERFACE = LOGIN1_PREFIX + ".Session"

	LOGIN1_METHOD_INHIBIT        = LOGIN1_INTERFACE + ".Inhibit"
	LOGIN1_METHOD_SET_BRIGHTNESS = LOGIN1_SESSION_INTERFACE + ".SetBrightness"

	LOGIN1_CAPABILITY_REBOOT   = LOGIN1_INTERFACE + ".CanReboot"
	LOGIN1_CAPABILITY_POWEROFF = LOGIN1_INTERFACE + ".CanPowerOff"
	LOGIN1_CAPABILITY_SUSPEND  = LOGIN1_INTERFACE + ".CanSuspend"

	// Inhibitor lock parameters for coffee mode
	inhibitWhat = "idle"
	inhibitWho  = "dwsh"
	inhibitWhy  = "Coffee mode"
	inhibitMode = "block"

	backlightSubsystem = "backlight"
	backlightDir       = "/sys/class/backlight"

	// Answer reported for actions logind does not arbitrate.
	capabilityNA = "na"
)
