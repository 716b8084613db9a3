package status

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ckgxrg/dwsh/config"
	"github.com/ckgxrg/dwsh/events"
	"github.com/ckgxrg/dwsh/logger"
)

// Poller owns the status bar state. The clock and the battery are refreshed
// by two independent tickers in Run; levels and toggles only change through
// their setters.
type Poller struct {
	mu    sync.RWMutex
	state State

	// refreshMu serializes reads against the battery handle.
	refreshMu       sync.Mutex
	battery         BatteryReader
	noBatteryLogged bool

	now             func() time.Time
	clockInterval   time.Duration
	batteryInterval time.Duration

	events chan events.Event
}

// New creates a poller. A nil reader puts the poller in degraded mode: the
// battery stays unknown and TickBattery returns ErrNoBattery.
func New(cfg *config.StatusConfig, reader BatteryReader) *Poller {
	clockInterval, batteryInterval := time.Second, time.Minute
	if cfg != nil {
		if cfg.ClockInterval > 0 {
			clockInterval = cfg.ClockInterval
		}
		if cfg.BatteryInterval > 0 {
			batteryInterval = cfg.BatteryInterval
		}
	}

	if reader == nil {
		logger.Warn("[status] running without battery data")
	}

	p := &Poller{
		battery:         reader,
		now:             time.Now,
		clockInterval:   clockInterval,
		batteryInterval: batteryInterval,
		events:          make(chan events.Event, 32),
	}
	p.state.Clock = p.now()
	return p
}

// Events returns the change notification channel.
func (p *Poller) Events() <-chan events.Event {
	return p.events
}

func (p *Poller) notify(typ string, data any) {
	e := events.Event{Type: typ, Data: data}
	select {
	case p.events <- e:
	default:
		logger.Debug("[status] event channel full, dropping %s event", typ)
	}
}

// Run drives the clock and battery tickers until ctx is cancelled. The
// battery is read once immediately.
func (p *Poller) Run(ctx context.Context) {
	clock := time.NewTicker(p.clockInterval)
	defer clock.Stop()
	bat := time.NewTicker(p.batteryInterval)
	defer bat.Stop()

	logger.Debug("[status] poller started (clock=%s, battery=%s)", p.clockInterval, p.batteryInterval)
	p.TickClock()
	p.refreshBattery()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("[status] poller stopped")
			return
		case <-clock.C:
			p.TickClock()
		case <-bat.C:
			p.refreshBattery()
		}
	}
}

// refreshBattery is TickBattery with the error reporting policy applied.
func (p *Poller) refreshBattery() {
	err := p.TickBattery()
	switch {
	case err == nil:
	case errors.Is(err, ErrNoBattery):
		if !p.noBatteryLogged {
			logger.Info("[status] battery polling disabled: %v", err)
			p.noBatteryLogged = true
		}
	case errors.Is(err, ErrRefreshInProgress):
		logger.Debug("[status] %v", err)
	default:
		logger.Warn("[status] %v, keeping last reading", err)
	}
}

// TickClock records the current local time.
func (p *Poller) TickClock() {
	p.mu.Lock()
	p.state.Clock = p.now()
	clock := p.state.Clock
	p.mu.Unlock()

	p.notify(events.TypeStatusClock, clock)
}

// TickBattery refreshes the battery sample. On failure the previous sample is
// kept and the error is returned.
func (p *Poller) TickBattery() error {
	if p.battery == nil {
		return ErrNoBattery
	}
	if !p.refreshMu.TryLock() {
		return ErrRefreshInProgress
	}
	defer p.refreshMu.Unlock()

	sample, err := p.battery.Read()
	if err != nil {
		return fmt.Errorf("battery refresh: %w", err)
	}

	p.mu.Lock()
	p.state.Battery = &sample
	p.mu.Unlock()

	logger.Debug("[status] battery at %.1f%% (%s)", sample.Percent, sample.State)
	p.notify(events.TypeStatusBattery, sample)
	return nil
}

func (p *Poller) SetVolume(v float64) {
	p.updateLevels(func(l *Levels) { l.Volume = v })
}

func (p *Poller) SetBrightness(v float64) {
	p.updateLevels(func(l *Levels) { l.Brightness = v })
}

func (p *Poller) SetIdleInhibit(b bool) {
	p.updateToggles(func(t *Toggles) { t.IdleInhibit = b })
}

func (p *Poller) SetRotationLock(b bool) {
	p.updateToggles(func(t *Toggles) { t.RotationLock = b })
}

func (p *Poller) SetOnScreenKeyboard(b bool) {
	p.updateToggles(func(t *Toggles) { t.OnScreenKeyboard = b })
}

func (p *Poller) updateLevels(fn func(*Levels)) {
	p.mu.Lock()
	fn(&p.state.Levels)
	levels := p.state.Levels
	p.mu.Unlock()

	p.notify(events.TypeStatusLevels, levels)
}

func (p *Poller) updateToggles(fn func(*Toggles)) {
	p.mu.Lock()
	fn(&p.state.Toggles)
	toggles := p.state.Toggles
	p.mu.Unlock()

	p.notify(events.TypeStatusToggles, toggles)
}

// Snapshot returns a copy of the current state.
func (p *Poller) Snapshot() State {
	p.mu.RLock()
	defer p.mu.RUnlock()

	s := p.state
	if s.Battery != nil {
		b := *s.Battery
		s.Battery = &b
	}
	return s
}

// HasBattery reports whether a battery reader is attached.
func (p *Poller) HasBattery() bool {
	return p.battery != nil
}
