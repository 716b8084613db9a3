package login1

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	idbus "github.com/ckgxrg/dwsh/backend/internal/dbus"
	"github.com/ckgxrg/dwsh/cache"
	"github.com/ckgxrg/dwsh/config"
	"github.com/ckgxrg/dwsh/logger"
	"github.com/ckgxrg/dwsh/session"
)

// capabilities rarely change within a session, but polkit rules can be
// edited while the daemon runs
const capabilityTTL = 5 * time.Minute

// New connects to logind. It returns nil, nil when the backend is disabled.
func New(ctx context.Context, cfg *config.Login1Config) (*Login1Backend, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, err
	}

	backend := newBackend(
		idbus.GetObject(conn, LOGIN1_PREFIX, LOGIN1_PATH),
		idbus.GetObject(conn, LOGIN1_PREFIX, LOGIN1_SESSION_PATH),
		cfg.Backlight,
		backlightDir,
	)
	backend.conn = conn

	if backend.backlight != "" {
		if err := backend.loadMaxBrightness(); err != nil {
			logger.Warn("[login1] brightness control disabled: %v", err)
			backend.backlight = ""
		}
	}

	logger.Info("[login1] backend initialized (backlight=%q)", backend.backlight)
	return backend, nil
}

func newBackend(obj, sess dbus.BusObject, backlight, dir string) *Login1Backend {
	b := &Login1Backend{
		obj:          obj,
		sess:         sess,
		backlight:    backlight,
		backlightDir: dir,
		capabilities: cache.New[string](capabilityTTL),
	}
	b.openLock = b.takeInhibitLock
	return b
}

// Close releases the inhibitor lock and the bus connection.
func (l *Login1Backend) Close() {
	if err := l.SetIdleInhibit(false); err != nil {
		logger.Warn("[login1] failed to release inhibitor: %v", err)
	}
	if l.conn != nil {
		if err := l.conn.Close(); err != nil {
			logger.Error("[login1] failed to close D-Bus connection: %v", err)
		}
		l.conn = nil
	}
}

// Probe implements session.CapabilityProber. Logout and Lock go through the
// compositor and are reported as "na".
func (l *Login1Backend) Probe(a session.Action) (string, error) {
	var method string
	switch a {
	case session.Poweroff:
		method = LOGIN1_CAPABILITY_POWEROFF
	case session.Reboot:
		method = LOGIN1_CAPABILITY_REBOOT
	case session.Suspend:
		method = LOGIN1_CAPABILITY_SUSPEND
	default:
		return capabilityNA, nil
	}

	return l.capabilities.GetOrLoad(method, func() (string, error) {
		answer, err := idbus.CallString(l.obj, method)
		if err != nil {
			return "", fmt.Errorf("%s check failed: %w", method, err)
		}
		logger.Debug("[login1] %s -> %s", method, answer)
		return answer, nil
	})
}

// SetIdleInhibit takes or releases an idle inhibitor lock. The lock lives as
// long as its file descriptor stays open.
func (l *Login1Backend) SetIdleInhibit(enabled bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case enabled && l.inhibit == nil:
		f, err := l.openLock()
		if err != nil {
			return err
		}
		l.inhibit = f
		logger.Info("[login1] idle inhibitor taken")
	case !enabled && l.inhibit != nil:
		err := l.inhibit.Close()
		l.inhibit = nil
		if err != nil {
			return fmt.Errorf("release inhibitor: %w", err)
		}
		logger.Info("[login1] idle inhibitor released")
	}
	return nil
}

// IdleInhibited reports whether this process holds an idle inhibitor.
func (l *Login1Backend) IdleInhibited() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inhibit != nil
}

func (l *Login1Backend) takeInhibitLock() (*os.File, error) {
	call, err := idbus.Call(l.obj, LOGIN1_METHOD_INHIBIT, inhibitWhat, inhibitWho, inhibitWhy, inhibitMode)
	if err != nil {
		return nil, fmt.Errorf("inhibit %s: %w", inhibitWhat, err)
	}
	var fd dbus.UnixFD
	if err := call.Store(&fd); err != nil {
		return nil, fmt.Errorf("inhibit %s: %w", inhibitWhat, err)
	}
	return os.NewFile(uintptr(fd), "logind-inhibit"), nil
}

// SetBrightness sets the backlight to v, a fraction of the device maximum.
// Values outside [0, 1] are clamped.
func (l *Login1Backend) SetBrightness(v float64) error {
	if l.backlight == "" || l.maxBright == 0 {
		return &BacklightError{Device: l.backlight, Reason: "no usable device"}
	}
	v = math.Max(0, math.Min(1, v))
	value := uint32(math.Round(v * float64(l.maxBright)))

	logger.Debug("[login1] brightness %s -> %d/%d", l.backlight, value, l.maxBright)
	return idbus.CallMethod(l.sess, LOGIN1_METHOD_SET_BRIGHTNESS, backlightSubsystem, l.backlight, value)
}

// Brightness reads the current backlight level as a fraction.
func (l *Login1Backend) Brightness() (float64, error) {
	if l.backlight == "" || l.maxBright == 0 {
		return 0, &BacklightError{Device: l.backlight, Reason: "no usable device"}
	}
	cur, err := readUint(filepath.Join(l.backlightDir, l.backlight, "actual_brightness"))
	if err != nil {
		return 0, err
	}
	return float64(cur) / float64(l.maxBright), nil
}

func (l *Login1Backend) loadMaxBrightness() error {
	maxValue, err := readUint(filepath.Join(l.backlightDir, l.backlight, "max_brightness"))
	if err != nil {
		return &BacklightError{Device: l.backlight, Reason: err.Error()}
	}
	if maxValue == 0 {
		return &BacklightError{Device: l.backlight, Reason: "max_brightness is 0"}
	}
	l.maxBright = maxValue
	return nil
}

func readUint(path string) (uint32, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(strings.TrimSpace(string(raw)), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	return uint32(v), nil
}
