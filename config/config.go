package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/ckgxrg/dwsh/logger"
)

const (
	AppName     = "dwsh"
	AppVersion  = "0.2.0"
	serviceType = "_dwsh._tcp"
	domain      = "local."

	backlightDir = "/sys/class/backlight"

	DispatcherExec    = "exec"
	DispatcherSystemd = "systemd"
)

type Config struct {
	Api        *ApiConfig
	Session    *SessionConfig
	Status     *StatusConfig
	Pulseaudio *PulseAudioConfig
	Login1     *Login1Config
	OSK        *OSKConfig
	Zeroconf   *ZeroConfig
	UI         *UIConfig
	LogLevel   logger.Level
	// RuntimeDir holds sockets and the overlay log. Never empty.
	RuntimeDir string
}

type ApiConfig struct {
	Enabled bool
	Listen  string
	Port    int
	CORS    *CORSConfig
}

// CORSConfig is nil unless at least one origin is configured.
type CORSConfig struct {
	Origins []string
}

type SessionConfig struct {
	// Compositor is the command-execution tool the session commands go through.
	Compositor        string
	Locker            string
	CheckCapabilities bool
	// Dispatcher is "exec" (child process) or "systemd" (transient user unit).
	Dispatcher string
}

type StatusConfig struct {
	ClockInterval   time.Duration
	BatteryInterval time.Duration
	BatteryIndex    int
}

type PulseAudioConfig struct {
	Enabled    bool
	RuntimeDir string
}

type Login1Config struct {
	Enabled   bool
	Backlight string
}

type OSKConfig struct {
	Enabled bool
}

// UIConfig configures the logout overlay.
type UIConfig struct {
	// ColourScheme is the path of a base16 TOML scheme. A missing file keeps
	// the built-in colours.
	ColourScheme string
}

type ZeroConfig struct {
	Enabled      bool
	InstanceName string
	ServiceType  string
	Domain       string
	Port         int
	TxtRecords   []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("loglevel", "WARN")
	v.SetDefault("runtime_dir", "")

	v.SetDefault("api.enabled", true)
	v.SetDefault("api.listen", "127.0.0.1:8018")
	v.SetDefault("api.cors.origins", []string{})

	v.SetDefault("session.compositor", "hyprctl")
	v.SetDefault("session.locker", "hyprlock --immediate")
	v.SetDefault("session.check_capabilities", true)
	v.SetDefault("session.dispatcher", DispatcherExec)

	v.SetDefault("status.clock_interval", "1s")
	v.SetDefault("status.battery_interval", "60s")
	v.SetDefault("status.battery_index", 0)

	v.SetDefault("pulseaudio.enabled", true)
	v.SetDefault("login1.enabled", true)
	v.SetDefault("login1.backlight", "")
	v.SetDefault("osk.enabled", true)
	v.SetDefault("zeroconf.enabled", false)

	v.SetDefault("ui.colourscheme", "")
}

// New loads the configuration from defaults, the optional config.yaml and
// DWSH_* environment variables.
func New() (*Config, error) {
	v := viper.GetViper()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join("/etc", AppName))
	if home, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, AppName))
	}
	v.SetEnvPrefix(AppName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional, continue with defaults if not found
		if _, isNotFound := err.(viper.ConfigFileNotFoundError); !isNotFound {
			logger.Warn("[config] failed to read config: %v", err)
		}
	}

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	listen := v.GetString("api.listen")
	port, err := listenPort(listen)
	if err != nil {
		return nil, err
	}

	clockInterval := v.GetDuration("status.clock_interval")
	if clockInterval <= 0 {
		return nil, fmt.Errorf("invalid status.clock_interval: %s", v.GetString("status.clock_interval"))
	}
	batteryInterval := v.GetDuration("status.battery_interval")
	if batteryInterval <= 0 {
		return nil, fmt.Errorf("invalid status.battery_interval: %s", v.GetString("status.battery_interval"))
	}
	batteryIndex := v.GetInt("status.battery_index")
	if batteryIndex < 0 {
		return nil, fmt.Errorf("invalid status.battery_index: %d", batteryIndex)
	}

	compositor := strings.TrimSpace(v.GetString("session.compositor"))
	if compositor == "" {
		return nil, fmt.Errorf("session.compositor must not be empty")
	}

	dispatcher := strings.ToLower(strings.TrimSpace(v.GetString("session.dispatcher")))
	if dispatcher != DispatcherExec && dispatcher != DispatcherSystemd {
		return nil, fmt.Errorf("invalid session.dispatcher %q: want %s or %s", dispatcher, DispatcherExec, DispatcherSystemd)
	}

	runtimeDir := strings.TrimSpace(v.GetString("runtime_dir"))
	if runtimeDir == "" {
		runtimeDir = defaultRuntimeDir()
	}

	colourScheme, err := expandHome(strings.TrimSpace(v.GetString("ui.colourscheme")))
	if err != nil {
		return nil, fmt.Errorf("invalid ui.colourscheme: %w", err)
	}
	if colourScheme == "" {
		colourScheme = defaultColourScheme()
	}

	backlight := v.GetString("login1.backlight")
	if backlight == "" {
		backlight = firstEntry(backlightDir)
	}

	cfg := Config{
		Api: &ApiConfig{
			Enabled: v.GetBool("api.enabled"),
			Listen:  listen,
			Port:    port,
			CORS:    corsConfig(v.GetStringSlice("api.cors.origins")),
		},
		Session: &SessionConfig{
			Compositor:        compositor,
			Locker:            strings.TrimSpace(v.GetString("session.locker")),
			CheckCapabilities: v.GetBool("session.check_capabilities"),
			Dispatcher:        dispatcher,
		},
		Status: &StatusConfig{
			ClockInterval:   clockInterval,
			BatteryInterval: batteryInterval,
			BatteryIndex:    batteryIndex,
		},
		Pulseaudio: &PulseAudioConfig{
			Enabled:    v.GetBool("pulseaudio.enabled"),
			RuntimeDir: runtimeDir,
		},
		Login1: &Login1Config{
			Enabled:   v.GetBool("login1.enabled"),
			Backlight: backlight,
		},
		OSK: &OSKConfig{
			Enabled: v.GetBool("osk.enabled"),
		},
		Zeroconf: &ZeroConfig{
			Enabled:      v.GetBool("zeroconf.enabled"),
			InstanceName: instanceName(),
			ServiceType:  serviceType,
			Domain:       domain,
			Port:         port,
			TxtRecords:   []string{"version=" + AppVersion},
		},
		UI: &UIConfig{
			ColourScheme: colourScheme,
		},
		LogLevel:   logger.ParseLevel(v.GetString("loglevel")),
		RuntimeDir: runtimeDir,
	}

	return &cfg, nil
}

// Watch reloads the log level whenever the config file changes. It is a
// no-op when no config file was found.
func Watch() {
	v := viper.GetViper()
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		level := logger.ParseLevel(v.GetString("loglevel"))
		if level == logger.GetLevel() {
			return
		}
		logger.SetLevel(level)
		logger.Info("[config] %s changed, log level now %s", filepath.Base(e.Name), level)
	})
	v.WatchConfig()
	logger.Debug("[config] watching %s", v.ConfigFileUsed())
}

func listenPort(listen string) (int, error) {
	_, portStr, err := net.SplitHostPort(listen)
	if err != nil {
		return 0, fmt.Errorf("invalid api.listen %q: %w", listen, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("invalid port: %s", portStr)
	}
	return port, nil
}

func corsConfig(origins []string) *CORSConfig {
	var out []string
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return &CORSConfig{Origins: out}
}

// defaultRuntimeDir prefers $XDG_RUNTIME_DIR, then the logind per-user
// directory, then the system temp directory.
func defaultRuntimeDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir
	}
	dir := fmt.Sprintf("/run/user/%d", os.Getuid())
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir
	}
	return os.TempDir()
}

func defaultColourScheme() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, "colours.toml")
}

// expandHome resolves a leading "~/" against the user's home directory.
func expandHome(path string) (string, error) {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, rest), nil
}

func instanceName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return AppName
	}
	return AppName + "@" + host
}

// firstEntry returns the name of the first entry in dir, or "" when the
// directory is missing or empty.
func firstEntry(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) == 0 {
		return ""
	}
	return entries[0].Name()
}
