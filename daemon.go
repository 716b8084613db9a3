package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sddaemon "github.com/coreos/go-systemd/v22/daemon"
	"github.com/spf13/cobra"

	"github.com/ckgxrg/dwsh/api"
	"github.com/ckgxrg/dwsh/backend"
	"github.com/ckgxrg/dwsh/config"
	"github.com/ckgxrg/dwsh/events"
	"github.com/ckgxrg/dwsh/logger"
	"github.com/ckgxrg/dwsh/status"
)

// NewDaemonCommand .
func NewDaemonCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the status daemon in the foreground",
		Long: `Run the status daemon in the foreground.
The daemon polls the clock and the battery, tracks volume, brightness and the
session toggles, and serves them over HTTP (JSON, SSE and WebSocket).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runDaemon(cfg)
		},
	}
}

func runDaemon(cfg *config.Config) error {
	config.Watch()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := status.New(cfg.Status, status.OpenSystemBattery(cfg.Status.BatteryIndex))

	b, err := backend.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()
	b.Battery = p.HasBattery()

	b.Seed(p)
	if err := b.Start(p); err != nil {
		return err
	}

	go p.Run(ctx)

	server := api.NewServer(ctx, cfg.Api, b, p)
	if server == nil {
		logger.Info("[%s] api disabled", config.AppName)
		go drain(ctx, p.Events())
	}

	notify(sddaemon.SdNotifyReady)
	logger.Info("[%s] started", config.AppName)

	if server != nil {
		if err := server.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			notify(sddaemon.SdNotifyStopping)
			return fmt.Errorf("http server: %w", err)
		}
	}

	<-ctx.Done()
	notify(sddaemon.SdNotifyStopping)
	logger.Info("[%s] stopped", config.AppName)
	return nil
}

// drain consumes poller events when nothing else reads them.
func drain(ctx context.Context, ch <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
		}
	}
}

// notify reports to the service manager when running as a Type=notify unit.
func notify(state string) {
	sent, err := sddaemon.SdNotify(false, state)
	if err != nil {
		logger.Debug("[%s] sd_notify %q failed: %v", config.AppName, state, err)
		return
	}
	if sent {
		logger.Debug("[%s] sd_notify %q", config.AppName, state)
	}
}
