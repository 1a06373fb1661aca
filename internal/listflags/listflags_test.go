package listflags

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestAddAllFlag(t *testing.T) {
	var all bool
	cmd := &cobra.Command{Use: "list"}
	AddAllFlag(cmd, &all)

	if err := cmd.Flags().Set("all", "true"); err != nil {
		t.Fatalf("set all: %v", err)
	}
	if !all {
		t.Fatal("expected --all to set the target")
	}
}

func TestAddAllFlagWithoutTarget(t *testing.T) {
	cmd := &cobra.Command{Use: "list"}
	AddAllFlag(cmd, nil)

	flag := cmd.Flags().Lookup("all")
	if flag == nil || flag.DefValue != "false" {
		t.Fatalf("expected --all flag defaulting to false, got %v", flag)
	}
}

func TestAddJSONFlagBindsEveryCommand(t *testing.T) {
	var asJSON bool
	first := &cobra.Command{Use: "first"}
	second := &cobra.Command{Use: "second"}
	AddJSONFlag(&asJSON, first, second)

	for _, cmd := range []*cobra.Command{first, second} {
		if cmd.Flags().Lookup("json") == nil {
			t.Fatalf("expected --json on %s", cmd.Use)
		}
	}
	if err := second.Flags().Set("json", "true"); err != nil {
		t.Fatalf("set json: %v", err)
	}
	if !asJSON {
		t.Fatal("expected --json to set the target")
	}
}
