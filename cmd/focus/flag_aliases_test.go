package main

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestMinutesAliasUsesSingleFlag(t *testing.T) {
	var minutes int
	cmd := &cobra.Command{Use: "example"}
	addMinutesFlagAliases(cmd)
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "Example minutes")

	for _, alias := range []string{"min", "mins"} {
		if err := cmd.Flags().Set(alias, "40"); err != nil {
			t.Fatalf("set %s alias: %v", alias, err)
		}
	}
	if minutes != 40 {
		t.Fatalf("expected minutes to be set via alias, got %d", minutes)
	}
	if !cmd.Flags().Changed("minutes") {
		t.Fatal("expected minutes flag to be marked as changed")
	}

	usage := cmd.Flags().FlagUsages()
	if strings.Contains(usage, "--mins ") {
		t.Fatalf("did not expect alias to appear in usage, got %q", usage)
	}
	if !strings.Contains(usage, "-m, --minutes") {
		t.Fatalf("expected shorthand to appear inline, got %q", usage)
	}
}

func TestAddCommandAcceptsMinutesAlias(t *testing.T) {
	flag := addCmd.Flags().Lookup("mins")
	if flag == nil || flag.Name != "minutes" {
		t.Fatalf("expected --mins to resolve to --minutes, got %v", flag)
	}
}
