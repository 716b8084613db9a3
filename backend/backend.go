package backend

import (
	"context"

	"github.com/ckgxrg/dwsh/backend/login1"
	"github.com/ckgxrg/dwsh/backend/osk"
	"github.com/ckgxrg/dwsh/backend/pulseaudio"
	"github.com/ckgxrg/dwsh/backend/zeroconf"
	"github.com/ckgxrg/dwsh/config"
	"github.com/ckgxrg/dwsh/logger"
	"github.com/ckgxrg/dwsh/session"
	"github.com/ckgxrg/dwsh/status"
)

// VolumeControl drives the master volume.
type VolumeControl interface {
	SetVolume(float64) error
	Volume() (float64, error)
}

// BrightnessControl drives the display backlight.
type BrightnessControl interface {
	SetBrightness(float64) error
	Brightness() (float64, error)
}

// IdleInhibitor blocks the idle daemon while enabled.
type IdleInhibitor interface {
	SetIdleInhibit(bool) error
	IdleInhibited() bool
}

// KeyboardControl shows and hides the on-screen keyboard.
type KeyboardControl interface {
	SetVisible(bool) error
	Visible() (bool, error)
}

// Controls are the hardware sides of the status setters. A nil control means
// the matching setter only updates state.
type Controls struct {
	Volume      VolumeControl
	Brightness  BrightnessControl
	IdleInhibit IdleInhibitor
	Keyboard    KeyboardControl
}

type Backend struct {
	// Battery is set by the host once it knows whether a battery is polled.
	Battery           bool
	BatteryIndex      int
	Dispatcher        string
	CheckCapabilities bool

	Login1   *login1.Login1Backend
	Pulse    *pulseaudio.PulseAudioBackend
	OSK      *osk.OSKBackend
	Zeroconf *zeroconf.ZeroConfBackend

	Controls Controls

	locks applyLocks
}

// New opens every enabled backend. A backend that fails to come up is logged
// and left nil; the daemon keeps running with the remaining ones.
func New(ctx context.Context, cfg *config.Config) (*Backend, error) {
	var backend Backend
	if cfg.Session != nil {
		backend.Dispatcher = cfg.Session.Dispatcher
		backend.CheckCapabilities = cfg.Session.CheckCapabilities
	}
	if cfg.Status != nil {
		backend.BatteryIndex = cfg.Status.BatteryIndex
	}

	l, err := login1.New(ctx, cfg.Login1)
	if err != nil {
		logger.Warn("[login1] unavailable: %v", err)
	}
	backend.Login1 = l

	p, err := pulseaudio.New(ctx, cfg.Pulseaudio)
	if err != nil {
		logger.Warn("[pulseaudio] unavailable: %v", err)
	}
	backend.Pulse = p

	o, err := osk.New(ctx, cfg.OSK)
	if err != nil {
		logger.Warn("[osk] unavailable: %v", err)
	}
	backend.OSK = o

	z, err := zeroconf.New(ctx, cfg.Zeroconf)
	if err != nil {
		return nil, err
	}
	backend.Zeroconf = z

	backend.bindControls()
	return &backend, nil
}

// bindControls assigns only non-nil backends so that no control holds a
// typed nil pointer.
func (b *Backend) bindControls() {
	if b.Pulse != nil {
		b.Controls.Volume = b.Pulse
	}
	if b.Login1 != nil {
		b.Controls.Brightness = b.Login1
		b.Controls.IdleInhibit = b.Login1
	}
	if b.OSK != nil {
		b.Controls.Keyboard = b.OSK
	}
}

// Prober returns the capability prober for the logout overlay, or nil when
// logind is unavailable.
func (b *Backend) Prober() session.CapabilityProber {
	if b == nil || b.Login1 == nil {
		return nil
	}
	return b.Login1
}

// Seed copies the current hardware levels into the poller so the first
// snapshot is not all zeroes. Failures are logged and skipped.
func (b *Backend) Seed(p *status.Poller) {
	c := b.Controls
	if c.Volume != nil {
		if v, err := c.Volume.Volume(); err != nil {
			logger.Debug("[pulseaudio] initial volume unavailable: %v", err)
		} else {
			p.SetVolume(v)
		}
	}
	if c.Brightness != nil {
		if v, err := c.Brightness.Brightness(); err != nil {
			logger.Debug("[login1] initial brightness unavailable: %v", err)
		} else {
			p.SetBrightness(v)
		}
	}
	if c.IdleInhibit != nil {
		p.SetIdleInhibit(c.IdleInhibit.IdleInhibited())
	}
	if c.Keyboard != nil {
		if v, err := c.Keyboard.Visible(); err != nil {
			logger.Debug("[osk] initial visibility unavailable: %v", err)
		} else {
			p.SetOnScreenKeyboard(v)
		}
	}
}

// Start begins background work: volume change tracking into p and the mDNS
// advertisement.
func (b *Backend) Start(p *status.Poller) error {
	if b.Pulse != nil {
		if err := b.Pulse.Start(p.SetVolume); err != nil {
			logger.Warn("[pulseaudio] volume tracking disabled: %v", err)
		}
	}

	if b.Zeroconf != nil {
		if err := b.Zeroconf.Start(); err != nil {
			return err
		}
	}

	return nil
}

func (b *Backend) Close() {
	if b.Zeroconf != nil {
		b.Zeroconf.Shutdown()
	}
	if b.Pulse != nil {
		b.Pulse.Close()
	}
	if b.OSK != nil {
		b.OSK.Close()
	}
	if b.Login1 != nil {
		b.Login1.Close()
	}
}
