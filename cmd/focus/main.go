// Package main implements the focus CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/amonks/focus/internal/ui"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "focus",
	Short: "Countdown timers for tasks, with experience points for finishing them",
	Long: `Countdown timers for tasks, with experience points for finishing them.

Run without arguments in a terminal to open the interactive view.
Otherwise the task list is printed.`,
	Args: cobra.NoArgs,
	RunE: runRoot,
}

func runRoot(cmd *cobra.Command, args []string) error {
	if ui.IsTerminal(os.Stdin) && ui.IsTerminal(os.Stdout) {
		return runTUI(cmd, args)
	}
	return runList(cmd, args)
}
