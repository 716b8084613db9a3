package backend

import (
	"os"

	"github.com/ckgxrg/dwsh/backend/pulseaudio"
	"github.com/ckgxrg/dwsh/config"
	"github.com/ckgxrg/dwsh/logger"
	"github.com/ckgxrg/dwsh/status"
)

const UNKNOWN = "unknown"

// ServerDeviceInfo is the payload of GET /server.
type ServerDeviceInfo struct {
	Hostname string                 `json:"hostname"`
	App      string                 `json:"app"`
	Version  string                 `json:"version"`
	Session  SessionInfo            `json:"session"`
	Battery  BatteryInfo            `json:"battery"`
	Audio    *pulseaudio.ServerInfo `json:"audio"`
	Backends Backends               `json:"backends"`
}

// SessionInfo describes how confirmed session actions are run.
type SessionInfo struct {
	Dispatcher        string `json:"dispatcher"`
	CheckCapabilities bool   `json:"check_capabilities"`
}

// BatteryInfo names the polled battery. State is empty until a reading
// succeeds.
type BatteryInfo struct {
	Available bool   `json:"available"`
	Index     int    `json:"index"`
	State     string `json:"state,omitempty"`
}

type Backends struct {
	Login1     bool `json:"login1"`
	PulseAudio bool `json:"pulseaudio"`
	OSK        bool `json:"osk"`
	Zeroconf   bool `json:"zeroconf"`
}

// GetServerDeviceInfo reports the daemon's identity and active backends.
// battery is the latest sample, nil when none was read yet.
func (b *Backend) GetServerDeviceInfo(battery *status.BatterySample) ServerDeviceInfo {
	hostname, err := os.Hostname()
	if err != nil {
		logger.Debug("[backend] failed to get hostname: %v", err)
		hostname = UNKNOWN
	}

	info := ServerDeviceInfo{
		Hostname: hostname,
		App:      config.AppName,
		Version:  config.AppVersion,
		Session: SessionInfo{
			Dispatcher:        b.Dispatcher,
			CheckCapabilities: b.CheckCapabilities,
		},
		Battery: BatteryInfo{
			Available: b.Battery,
			Index:     b.BatteryIndex,
		},
		Backends: Backends{
			Login1:     b.Login1 != nil,
			PulseAudio: b.Pulse != nil,
			OSK:        b.OSK != nil,
			Zeroconf:   b.Zeroconf != nil,
		},
	}
	if battery != nil {
		info.Battery.State = battery.State
	}
	if b.Pulse != nil {
		audio := b.Pulse.ServerInfo()
		info.Audio = &audio
	}
	return info
}
