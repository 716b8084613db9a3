package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ckgxrg/dwsh/backend"
	"github.com/ckgxrg/dwsh/config"
	"github.com/ckgxrg/dwsh/logger"
	"github.com/ckgxrg/dwsh/status"
	"github.com/ckgxrg/dwsh/ui"
)

// NewStatusCommand .
func NewStatusCommand() *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the status bar state",
		Long: `Print the status bar state.
The state is read from the running daemon. When no daemon answers, the clock
and the battery are read directly and the levels and toggles show defaults.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			st, source := fetchState(cfg)
			if asYAML {
				out, err := yaml.Marshal(st)
				if err != nil {
					return fmt.Errorf("failed to encode status: %w", err)
				}
				cmd.Print(string(out))
				return nil
			}

			printState(cmd, st, source)
			if source == "daemon" {
				info, err := ui.NewAPIClient(cfg.Api.Port).GetServerInfo()
				if err != nil {
					logger.Debug("[status] server info unavailable: %v", err)
					return nil
				}
				printServer(cmd, info)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the state as YAML")
	return cmd
}

// fetchState asks the daemon first and falls back to a one-off local reading.
func fetchState(cfg *config.Config) (*status.State, string) {
	st, err := ui.NewAPIClient(cfg.Api.Port).GetStatus()
	if err == nil {
		return st, "daemon"
	}
	logger.Info("[status] daemon unreachable, reading locally: %v", err)

	p := status.New(cfg.Status, status.OpenSystemBattery(cfg.Status.BatteryIndex))
	p.TickClock()
	if err := p.TickBattery(); err != nil {
		logger.Debug("[status] %v", err)
	}
	local := p.Snapshot()
	return &local, "local"
}

func printState(cmd *cobra.Command, st *status.State, source string) {
	bold := color.New(color.Bold).Sprintf

	cmd.Println(bold("Status") + color.HiBlackString(" (%s)", source))
	cmd.Printf("  Clock: %s (%s)\n", bold(status.FormatClock(st.Clock)), st.Clock.Format("2006-01-02 15:04:05"))
	if st.Battery != nil {
		cmd.Printf("  Battery: %s, %s\n", bold(status.FormatBattery(st.Battery)), st.Battery.State)
	} else {
		cmd.Printf("  Battery: %s\n", color.YellowString(status.FormatBattery(nil)))
	}
	cmd.Printf("  Volume: %s\n", bold("%.0f%%", st.Volume*100))
	cmd.Printf("  Brightness: %s\n", bold("%.0f%%", st.Brightness*100))
	cmd.Println()

	cmd.Println(bold("Toggles"))
	cmd.Printf("  Idle inhibit: %s\n", bool2Text(st.IdleInhibit))
	cmd.Printf("  Rotation lock: %s\n", bool2Text(st.RotationLock))
	cmd.Printf("  On-screen keyboard: %s\n", bool2Text(st.OnScreenKeyboard))
}

func printServer(cmd *cobra.Command, info *backend.ServerDeviceInfo) {
	bold := color.New(color.Bold).Sprintf

	cmd.Println()
	cmd.Println(bold("Daemon") + color.HiBlackString(" (%s %s on %s)", info.App, info.Version, info.Hostname))
	cmd.Printf("  Dispatcher: %s\n", bold(info.Session.Dispatcher))
	cmd.Printf("  Capability check: %s\n", bool2Text(info.Session.CheckCapabilities))
	if info.Audio != nil {
		cmd.Printf("  Audio server: %s (%s)\n", bold(info.Audio.Name), info.Audio.Kind)
	}
	cmd.Printf("  logind: %s  pulseaudio: %s  osk: %s  zeroconf: %s\n",
		bool2Text(info.Backends.Login1),
		bool2Text(info.Backends.PulseAudio),
		bool2Text(info.Backends.OSK),
		bool2Text(info.Backends.Zeroconf),
	)
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}
