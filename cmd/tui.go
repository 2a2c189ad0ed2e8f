package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/storewire/storewire/internal/app"
	"github.com/storewire/storewire/internal/config"
	"github.com/storewire/storewire/internal/store"
	"github.com/storewire/storewire/internal/tui"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive inbox panel",
	Long: `Interactive inbox panel.

Connects to the storefront and shows notifications, chat sessions, and
orders in a live terminal view.

USAGE:
    storewire tui [OPTIONS]

OPTIONS:
    --offline          Browse local state without connecting
    -h, --help         Show this help`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().Bool("offline", false, "Browse local state without connecting")
}

func runTUI(cmd *cobra.Command, args []string) error {
	config.Load()
	log := initLogging("tui")
	defer log.Shutdown()

	offline, _ := cmd.Flags().GetBool("offline")

	var rt *app.Runtime
	var err error
	if offline {
		rt, err = app.OpenStores()
	} else {
		rt, err = app.Open()
	}
	if err != nil {
		return err
	}
	defer rt.Close()

	if !offline {
		rt.Connect()
	}

	model := tui.NewModel(rt.Notifications, rt.Sessions, rt.Orders)
	program := tea.NewProgram(model, tea.WithAltScreen())

	if !offline {
		rt.Router.OnTyping(func(sessionID string, isTyping bool, _ string) {
			program.Send(tui.Typing(sessionID, isTyping))
		})
	}

	subs := []*store.Subscription{
		rt.Notifications.Subscribe(),
		rt.Sessions.Subscribe(),
		rt.Orders.Subscribe(),
	}
	done := make(chan struct{})
	defer close(done)
	for _, sub := range subs {
		sub := sub
		defer sub.Cancel()
		go func() {
			for {
				select {
				case <-done:
					return
				case <-sub.C:
					program.Send(tui.Refresh())
				}
			}
		}()
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
