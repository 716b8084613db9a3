package main

import (
	"github.com/spf13/cobra"

	"github.com/ckgxrg/dwsh/config"
	"github.com/ckgxrg/dwsh/logger"
)

var (
	logLevel = "warn"
)

// NewCommand builds the dwsh command tree.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          config.AppName,
		Short:        "dwsh is a small desktop shell: a status daemon and a logout overlay",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.SetLevel(logger.ParseLevel(logLevel))
			return nil
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "warn", "log level (debug, info, warn, error, fatal)")

	cmd.AddCommand(
		NewDaemonCommand(),
		NewLogoutCommand(),
		NewSessionCommand(),
		NewStatusCommand(),
		NewVersionCommand(),
	)

	return cmd
}

// NewVersionCommand .
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("%s %s\n", config.AppName, config.AppVersion)
		},
	}
}

// loadConfig reads the configuration and applies its log level unless
// --log-level was given explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	if !cmd.Flags().Changed("log-level") {
		logger.SetLevel(cfg.LogLevel)
	}
	return cfg, nil
}
