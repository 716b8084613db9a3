package status

import "errors"

var (
	// ErrNoBattery is returned by TickBattery when the poller runs without a
	// battery device.
	ErrNoBattery = errors.New("no battery device")

	// ErrRefreshInProgress is returned when a battery tick fires while the
	// previous refresh is still reading the device.
	ErrRefreshInProgress = errors.New("battery refresh already in progress")
)
