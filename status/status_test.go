package status

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ckgxrg/dwsh/config"
	"github.com/ckgxrg/dwsh/events"
	"github.com/ckgxrg/dwsh/session"
)

type fakeBattery struct {
	mu      sync.Mutex
	samples []BatterySample
	errs    []error
	calls   int
	entered chan struct{}
	block   chan struct{}
}

func (f *fakeBattery) Read() (BatterySample, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return BatterySample{}, f.errs[i]
	}
	if i < len(f.samples) {
		return f.samples[i], nil
	}
	return BatterySample{}, errors.New("no more samples")
}

func fixedClock(start time.Time) (func() time.Time, func(time.Duration)) {
	var mu sync.Mutex
	now := start
	return func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}, func(d time.Duration) {
			mu.Lock()
			now = now.Add(d)
			mu.Unlock()
		}
}

func TestNew_Defaults(t *testing.T) {
	p := New(nil, nil)
	if p.clockInterval != time.Second {
		t.Errorf("clockInterval = %v, want 1s", p.clockInterval)
	}
	if p.batteryInterval != time.Minute {
		t.Errorf("batteryInterval = %v, want 60s", p.batteryInterval)
	}
	if p.HasBattery() {
		t.Error("HasBattery() should be false with a nil reader")
	}
	if p.Snapshot().Battery != nil {
		t.Error("battery must be unknown before the first reading")
	}
}

func TestNew_FromConfig(t *testing.T) {
	p := New(&config.StatusConfig{ClockInterval: 5 * time.Second, BatteryInterval: 30 * time.Second}, &fakeBattery{})
	if p.clockInterval != 5*time.Second || p.batteryInterval != 30*time.Second {
		t.Errorf("intervals = %v/%v, want 5s/30s", p.clockInterval, p.batteryInterval)
	}
}

func TestTickClock(t *testing.T) {
	p := New(nil, nil)
	now, advance := fixedClock(time.Date(2026, 10, 19, 8, 0, 0, 0, time.Local))
	p.now = now

	p.TickClock()
	if !p.Snapshot().Clock.Equal(now()) {
		t.Errorf("Clock = %v, want %v", p.Snapshot().Clock, now())
	}

	advance(time.Second)
	p.TickClock()
	if !p.Snapshot().Clock.Equal(now()) {
		t.Errorf("Clock = %v after second tick, want %v", p.Snapshot().Clock, now())
	}
}

func TestTickBattery_Success(t *testing.T) {
	want := BatterySample{Percent: 81.5, EnergyWh: 40.7, FullWh: 50, State: "Discharging"}
	p := New(nil, &fakeBattery{samples: []BatterySample{want}})

	if err := p.TickBattery(); err != nil {
		t.Fatalf("TickBattery() error = %v", err)
	}
	got := p.Snapshot().Battery
	if got == nil {
		t.Fatal("Battery should be set after a successful tick")
	}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("Battery mismatch (-want +got):\n%s", diff)
	}
}

func TestTickBattery_FailureKeepsLastReading(t *testing.T) {
	first := BatterySample{Percent: 64, State: "Charging"}
	boom := errors.New("read /sys/class/power_supply/BAT0/energy_now: no such device")
	p := New(nil, &fakeBattery{
		samples: []BatterySample{first},
		errs:    []error{nil, boom},
	})

	if err := p.TickBattery(); err != nil {
		t.Fatalf("first TickBattery() error = %v", err)
	}
	if err := p.TickBattery(); !errors.Is(err, boom) {
		t.Fatalf("second TickBattery() error = %v, want %v", err, boom)
	}

	got := p.Snapshot().Battery
	if got == nil || *got != first {
		t.Errorf("Battery = %+v, want last good reading %+v", got, first)
	}
}

func TestTickBattery_FailureBeforeAnyReading(t *testing.T) {
	p := New(nil, &fakeBattery{errs: []error{errors.New("busy")}})
	if err := p.TickBattery(); err == nil {
		t.Fatal("TickBattery() should fail")
	}
	if p.Snapshot().Battery != nil {
		t.Error("Battery must stay unknown, not a fabricated value")
	}
}

func TestTickBattery_NoBattery(t *testing.T) {
	p := New(nil, nil)
	if err := p.TickBattery(); !errors.Is(err, ErrNoBattery) {
		t.Errorf("TickBattery() error = %v, want ErrNoBattery", err)
	}
}

func TestTickBattery_NoOverlap(t *testing.T) {
	fb := &fakeBattery{
		samples: []BatterySample{{Percent: 50}},
		entered: make(chan struct{}),
		block:   make(chan struct{}),
	}
	p := New(nil, fb)

	done := make(chan error, 1)
	go func() { done <- p.TickBattery() }()

	select {
	case <-fb.entered:
	case <-time.After(time.Second):
		t.Fatal("first refresh never started")
	}

	if err := p.TickBattery(); !errors.Is(err, ErrRefreshInProgress) {
		t.Errorf("overlapping TickBattery() error = %v, want ErrRefreshInProgress", err)
	}

	close(fb.block)
	if err := <-done; err != nil {
		t.Errorf("first TickBattery() error = %v", err)
	}
	if fb.calls != 1 {
		t.Errorf("battery read %d times, want 1", fb.calls)
	}
}

func TestSetters(t *testing.T) {
	p := New(nil, nil)
	p.SetVolume(0.4)
	p.SetBrightness(0.75)
	p.SetIdleInhibit(true)
	p.SetRotationLock(true)
	p.SetOnScreenKeyboard(true)
	p.SetRotationLock(false)

	s := p.Snapshot()
	want := Levels{Volume: 0.4, Brightness: 0.75}
	if s.Levels != want {
		t.Errorf("Levels = %+v, want %+v", s.Levels, want)
	}
	wantToggles := Toggles{IdleInhibit: true, RotationLock: false, OnScreenKeyboard: true}
	if s.Toggles != wantToggles {
		t.Errorf("Toggles = %+v, want %+v", s.Toggles, wantToggles)
	}
}

func TestSetters_Events(t *testing.T) {
	p := New(nil, nil)
	p.SetVolume(0.3)
	p.SetIdleInhibit(true)

	e := <-p.Events()
	if e.Type != events.TypeStatusLevels {
		t.Fatalf("first event = %s, want %s", e.Type, events.TypeStatusLevels)
	}
	if l, ok := e.Data.(Levels); !ok || l.Volume != 0.3 {
		t.Errorf("levels payload = %#v", e.Data)
	}

	e = <-p.Events()
	if e.Type != events.TypeStatusToggles {
		t.Fatalf("second event = %s, want %s", e.Type, events.TypeStatusToggles)
	}
	if tg, ok := e.Data.(Toggles); !ok || !tg.IdleInhibit {
		t.Errorf("toggles payload = %#v", e.Data)
	}
}

func TestNotify_DropsWhenFull(t *testing.T) {
	p := New(nil, nil)
	for i := 0; i < cap(p.events)+10; i++ {
		p.TickClock()
	}
	if len(p.events) != cap(p.events) {
		t.Errorf("len(events) = %d, want %d", len(p.events), cap(p.events))
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	p := New(nil, &fakeBattery{samples: []BatterySample{{Percent: 90}}})
	if err := p.TickBattery(); err != nil {
		t.Fatal(err)
	}
	s := p.Snapshot()
	s.Battery.Percent = 1
	s.Volume = 1

	again := p.Snapshot()
	if again.Battery.Percent != 90 || again.Volume != 0 {
		t.Errorf("Snapshot() leaked internal state: %+v", again)
	}
}

// A clock tick must not disturb the action selector: the two subsystems share
// nothing.
func TestClockTickLeavesSelectorUntouched(t *testing.T) {
	sel := session.NewSelector(nil, nil)
	sel.Select(session.Suspend)

	p := New(nil, nil)
	now, advance := fixedClock(time.Date(2026, 10, 19, 23, 59, 59, 0, time.Local))
	p.now = now
	before := p.Snapshot().Clock

	advance(time.Second)
	p.TickClock()

	if !p.Snapshot().Clock.After(before) {
		t.Error("clock should advance on tick")
	}
	if sel.Armed() != session.Suspend {
		t.Errorf("Armed() = %v, want Suspend", sel.Armed())
	}
}

func TestRun_TicksAndStops(t *testing.T) {
	fb := &fakeBattery{samples: []BatterySample{{Percent: 10}, {Percent: 11}, {Percent: 12}, {Percent: 13}}}
	p := New(&config.StatusConfig{ClockInterval: 5 * time.Millisecond, BatteryInterval: time.Hour}, fb)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	clockEvents := 0
	timeout := time.After(time.Second)
	for clockEvents < 3 {
		select {
		case e := <-p.Events():
			if e.Type == events.TypeStatusClock {
				clockEvents++
			}
		case <-timeout:
			t.Fatalf("received %d clock events before timeout", clockEvents)
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	if b := p.Snapshot().Battery; b == nil || b.Percent != 10 {
		t.Errorf("Run should read the battery once at start, got %+v", b)
	}
}

func TestFormat(t *testing.T) {
	if got := FormatBattery(nil); got != "--%" {
		t.Errorf("FormatBattery(nil) = %q, want --%%", got)
	}
	if got := FormatBattery(&BatterySample{Percent: 57.4}); got != "57%" {
		t.Errorf("FormatBattery(57.4) = %q, want 57%%", got)
	}
	if got := FormatClock(time.Date(2026, 10, 9, 0, 0, 0, 0, time.UTC)); got != "09" {
		t.Errorf("FormatClock() = %q, want 09", got)
	}
}
