package status

import (
	"fmt"
	"time"
)

// FormatClock renders the bar clock as the day of the month.
func FormatClock(t time.Time) string {
	return t.Format("02")
}

// FormatBattery renders a reading as a percentage, or "--%" when no reading
// has ever succeeded.
func FormatBattery(b *BatterySample) string {
	if b == nil {
		return "--%"
	}
	return fmt.Sprintf("%.0f%%", b.Percent)
}
