package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ckgxrg/dwsh/backend"
	"github.com/ckgxrg/dwsh/session"
)

// NewSessionCommand .
func NewSessionCommand() *cobra.Command {
	names := make([]string, len(session.Actions))
	for i, a := range session.Actions {
		names[i] = a.Name()
	}

	return &cobra.Command{
		Use:       "session <action>",
		Short:     "Run a session action without the overlay",
		Long:      "Run a session action without the overlay.\nActions: " + strings.Join(names, ", ") + ".",
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := parseSessionAction(args[0])
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			dispatcher, release := backend.NewDispatcher(ctx, cfg.Session)
			defer release()
			return runSession(dispatcher, a)
		},
	}
}

func parseSessionAction(name string) (session.Action, error) {
	a, err := session.ParseAction(name)
	if err != nil {
		return session.None, err
	}
	if !a.Actionable() {
		return session.None, &session.ActionError{Action: a, Reason: "not executable"}
	}
	return a, nil
}

// runSession confirms a in one step. The action is dispatched exactly as a
// double selection in the overlay would.
func runSession(d session.Dispatcher, a session.Action) error {
	if !session.NewSelector(d, nil).Execute(a) {
		return &session.ActionError{Action: a, Reason: "not executed"}
	}
	return nil
}
