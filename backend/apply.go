package backend

import (
	"sync"

	"github.com/ckgxrg/dwsh/status"
)

// applyLocks serialize each control so that the hardware and the poller see
// overlapping requests in the same order.
type applyLocks struct {
	volume     sync.Mutex
	brightness sync.Mutex
	inhibit    sync.Mutex
	keyboard   sync.Mutex
}

// The Apply* methods push a value to the hardware and, only on success,
// record it in the poller. Without a control the value is recorded as is.
// The control's lock is held across both steps.

func (b *Backend) ApplyVolume(p *status.Poller, v float64) error {
	b.locks.volume.Lock()
	defer b.locks.volume.Unlock()

	if c := b.Controls.Volume; c != nil {
		if err := c.SetVolume(v); err != nil {
			return err
		}
	}
	p.SetVolume(clamp(v))
	return nil
}

func (b *Backend) ApplyBrightness(p *status.Poller, v float64) error {
	b.locks.brightness.Lock()
	defer b.locks.brightness.Unlock()

	if c := b.Controls.Brightness; c != nil {
		if err := c.SetBrightness(v); err != nil {
			return err
		}
	}
	p.SetBrightness(clamp(v))
	return nil
}

func (b *Backend) ApplyIdleInhibit(p *status.Poller, enabled bool) error {
	b.locks.inhibit.Lock()
	defer b.locks.inhibit.Unlock()

	if c := b.Controls.IdleInhibit; c != nil {
		if err := c.SetIdleInhibit(enabled); err != nil {
			return err
		}
	}
	p.SetIdleInhibit(enabled)
	return nil
}

func (b *Backend) ApplyOnScreenKeyboard(p *status.Poller, visible bool) error {
	b.locks.keyboard.Lock()
	defer b.locks.keyboard.Unlock()

	if c := b.Controls.Keyboard; c != nil {
		if err := c.SetVisible(visible); err != nil {
			return err
		}
	}
	p.SetOnScreenKeyboard(visible)
	return nil
}

// Rotation lock has no hardware side yet, the poller orders it alone.
func (b *Backend) ApplyRotationLock(p *status.Poller, enabled bool) error {
	p.SetRotationLock(enabled)
	return nil
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
