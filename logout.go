package main

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ckgxrg/dwsh/backend"
	"github.com/ckgxrg/dwsh/backend/login1"
	"github.com/ckgxrg/dwsh/config"
	"github.com/ckgxrg/dwsh/logger"
	"github.com/ckgxrg/dwsh/session"
	"github.com/ckgxrg/dwsh/status"
	"github.com/ckgxrg/dwsh/ui"
)

// NewLogoutCommand .
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Open the logout overlay",
		Long: `Open the logout overlay.
Select an action once to arm it and a second time to run it. Escape disarms.
Keys: s power off, r reboot, u suspend, e log out, l lock.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runLogout(cfg)
		},
	}
}

func runLogout(cfg *config.Config) error {
	// Keep log lines off the alternate screen.
	logPath := filepath.Join(cfg.RuntimeDir, config.AppName+"-logout.log")
	f, err := tea.LogToFile(logPath, config.AppName)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	logger.SetOutput(f)
	defer logger.SetOutput(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher, release := backend.NewDispatcher(ctx, cfg.Session)
	defer release()
	selector := session.NewSelector(dispatcher, nil)

	var capabilities map[session.Action]string
	if cfg.Session.CheckCapabilities {
		capabilities = checkCapabilities(ctx, cfg.Login1)
	}

	p := status.New(cfg.Status, status.OpenSystemBattery(cfg.Status.BatteryIndex))
	go p.Run(ctx)

	program := tea.NewProgram(
		ui.NewModel(selector, p, capabilities).WithTheme(ui.LoadTheme(cfg.UI.ColourScheme)),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := program.Run(); err != nil {
		return err
	}

	if !selector.Executed() {
		logger.Info("[session] overlay closed without action")
	}
	return nil
}

// checkCapabilities asks logind which actions are allowed. Without logind
// the overlay still shows every action.
func checkCapabilities(ctx context.Context, cfg *config.Login1Config) map[session.Action]string {
	l, err := login1.New(ctx, cfg)
	if err != nil {
		logger.Warn("[login1] unavailable, skipping capability check: %v", err)
		return nil
	}
	if l == nil {
		return nil
	}
	defer l.Close()
	return session.CheckCapabilities(l)
}
