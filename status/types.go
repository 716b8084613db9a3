package status

import "time"

// BatterySample is one successful battery reading.
type BatterySample struct {
	Percent  float64 `json:"percent" yaml:"percent"`
	EnergyWh float64 `json:"energy_wh" yaml:"energy_wh"`
	FullWh   float64 `json:"full_wh" yaml:"full_wh"`
	State    string  `json:"state" yaml:"state"`
}

// BatteryReader refreshes a single battery device. Read is never called
// concurrently by the Poller.
type BatteryReader interface {
	Read() (BatterySample, error)
}

// State is the status bar model. Battery is nil until a reading succeeds.
type State struct {
	Clock   time.Time      `json:"clock" yaml:"clock"`
	Battery *BatterySample `json:"battery" yaml:"battery"`
	Levels  `yaml:",inline"`
	Toggles `yaml:",inline"`
}

type Levels struct {
	Volume     float64 `json:"volume" yaml:"volume"`
	Brightness float64 `json:"brightness" yaml:"brightness"`
}

type Toggles struct {
	IdleInhibit      bool `json:"idle_inhibit" yaml:"idle_inhibit"`
	RotationLock     bool `json:"rotation_lock" yaml:"rotation_lock"`
	OnScreenKeyboard bool `json:"on_screen_keyboard" yaml:"on_screen_keyboard"`
}
