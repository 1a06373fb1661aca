package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amonks/focus/internal/config"
	"github.com/amonks/focus/internal/paths"
	"github.com/amonks/focus/internal/state"
)

var helpCmd = &cobra.Command{
	Use:   "help [command]",
	Short: "Help about any command",
	Args:  cobra.ArbitraryArgs,
	RunE:  runHelp,
}

var helpConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration keys",
	Args:  cobra.NoArgs,
	RunE:  runHelpConfig,
}

func init() {
	rootCmd.SetHelpCommand(helpCmd)
	helpCmd.AddCommand(helpConfigCmd)
}

func runHelp(cmd *cobra.Command, args []string) error {
	root := cmd.Root()
	if len(args) == 0 {
		return root.Help()
	}

	target, _, err := root.Find(args)
	if err != nil || target == nil || target == root {
		fmt.Fprintf(cmd.ErrOrStderr(), "Unknown help topic %q\n", strings.Join(args, " "))
		return root.Help()
	}

	return target.Help()
}

type configKey struct {
	Name        string
	Description string
}

func configKeys() []configKey {
	return []configKey{
		{"timer.default-minutes", "Duration for tasks that name none (default 25)"},
		{"capacity.daily-minutes", "Daily budget compared against remaining work (default 480)"},
		{"storage.driver", fmt.Sprintf("State backend: %s (default) or %s", state.DriverFile, state.DriverSQLite)},
		{"storage.dir", fmt.Sprintf("State directory; %s overrides it", paths.StateDirEnvVar)},
		{"notify.bell", "Ring the terminal bell on notifications"},
		{"notify.on-finish", "Script to run when a timer finishes"},
		{"server.port", fmt.Sprintf("Port for focus serve (default %d)", config.DefaultPort)},
	}
}

func runHelpConfig(cmd *cobra.Command, args []string) error {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Config is read from ~/.config/focus/config.toml and ./%s.\n", config.ProjectFileName)
	builder.WriteString("Keys in the project file override the global file.\n\n")
	for _, key := range configKeys() {
		fmt.Fprintf(&builder, "%s\n  %s\n", key.Name, key.Description)
	}
	builder.WriteString("\nThe on-finish script receives FOCUS_EVENT, FOCUS_TASK_ID, FOCUS_TASK_TITLE,\nFOCUS_POINTS and FOCUS_MESSAGE.\n")
	_, err := fmt.Fprint(cmd.OutOrStdout(), builder.String())
	return err
}
