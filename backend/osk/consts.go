package osk

const (
	OSK_DEST      = "sm.puri.OSK0"
	OSK_PATH      = "/sm/puri/OSK0"
	OSK_INTERFACE = "sm.puri.OSK0"

	OSK_METHOD_SET_VISIBLE = OSK_INTERFACE + ".SetVisible"
	OSK_PROPERTY_VISIBLE   = "Visible"
)
