package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/storewire/storewire/internal/colors"
	"github.com/storewire/storewire/internal/config"
	"github.com/storewire/storewire/internal/logging"
	"github.com/storewire/storewire/internal/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "storewire",
	Short:         "Realtime order and support-chat companion for your storefront.",
	Long:          `Realtime order and support-chat companion for your storefront.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		colors.Error(err.Error())
	}
	return err
}

func init() {
	rootCmd.Version = version.String()
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		printHelpText(cmd)
	})
}

// initLogging wires the file logger according to config. Commands call
// it after config.Load so logging_* keys are in effect.
func initLogging(command string) logging.Logger {
	cfg := logging.DefaultConfig()
	cfg.Enabled = config.GetBool("logging_enabled", false)
	cfg.Level = config.Get("logging_level", "info")
	cfg.MaxFiles = config.GetInt("logging_max_files", 10)
	cfg.Command = command
	cfg.StateDir = config.Get("state_dir", "")
	log, err := logging.Init(cfg)
	if err != nil {
		colors.Warning("logging disabled:", err.Error())
		log = logging.Noop()
	}
	logging.SetGlobal(log)
	colors.SetLogger(log)
	colors.SetDebug(config.GetBool("debug", false))
	return log
}

// helpWriter is where printHelpText writes. Can be changed for testing.
var helpWriter io.Writer = os.Stdout

func printHelpText(cmd *cobra.Command) {
	commandOrder := []string{
		"listen",
		"status",
		"list",
		"sessions",
		"orders",
		"send",
		"mark-read",
		"clear",
		"cleanup",
		"tui",
		"help",
		"version",
	}

	var cmdLines []string
	for _, name := range commandOrder {
		var found *cobra.Command
		for _, c := range cmd.Commands() {
			if c.Name() == name {
				found = c
				break
			}
		}
		if found == nil {
			continue
		}
		cmdLines = append(cmdLines, fmt.Sprintf("    %-16s %s", found.Use, found.Short))
	}

	helpText := fmt.Sprintf(`storewire v%s

Realtime order and support-chat companion for your storefront.

USAGE:
    storewire [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
    -h, --help      Show help message
`, version.String(), strings.Join(cmdLines, "\n"))
	fmt.Fprint(helpWriter, helpText)
}
