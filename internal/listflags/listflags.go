// Package listflags defines the output flags shared by focus commands.
package listflags

import "github.com/spf13/cobra"

// AddAllFlag adds --all, which includes completed tasks in listings.
func AddAllFlag(cmd *cobra.Command, target *bool) {
	if target == nil {
		cmd.Flags().Bool("all", false, "Include completed tasks")
		return
	}

	cmd.Flags().BoolVar(target, "all", false, "Include completed tasks")
}

// AddJSONFlag adds --json to each command, all bound to target.
func AddJSONFlag(target *bool, cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		cmd.Flags().BoolVar(target, "json", false, "Output as JSON")
	}
}
