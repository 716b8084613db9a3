package status

import (
	"fmt"
	"math"

	"github.com/distatus/battery"

	"github.com/ckgxrg/dwsh/logger"
)

// SystemBattery reads one battery through the platform power-supply
// interface (sysfs on Linux).
type SystemBattery struct {
	index int
	get   func(idx int) (*battery.Battery, error)
}

// NewSystemBattery probes the battery at index and fails when it cannot be
// read at all.
func NewSystemBattery(index int) (*SystemBattery, error) {
	b := &SystemBattery{index: index, get: battery.Get}
	if _, err := b.Read(); err != nil {
		return nil, err
	}
	return b, nil
}

// OpenSystemBattery is NewSystemBattery for callers that degrade: the failure
// is logged and a nil reader is returned.
func OpenSystemBattery(index int) BatteryReader {
	b, err := NewSystemBattery(index)
	if err != nil {
		logger.Warn("[status] no battery available at index %d: %v", index, err)
		return nil
	}
	return b
}

func (b *SystemBattery) Read() (BatterySample, error) {
	bat, err := b.get(b.index)
	if bat == nil || bat.Full <= 0 {
		if err == nil {
			err = fmt.Errorf("battery %d reports no capacity", b.index)
		}
		return BatterySample{}, err
	}
	if err != nil {
		// partial reading, typically a missing voltage or rate file
		logger.Debug("[status] partial battery reading: %v", err)
	}
	return sampleFrom(bat), nil
}

func sampleFrom(bat *battery.Battery) BatterySample {
	percent := bat.Current / bat.Full * 100
	percent = math.Max(0, math.Min(100, percent))
	return BatterySample{
		Percent:  math.Round(percent*10) / 10,
		EnergyWh: bat.Current / 1000,
		FullWh:   bat.Full / 1000,
		State:    bat.State.String(),
	}
}
