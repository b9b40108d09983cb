package cli

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/superbullet/superbullet/pkg/knit"
)

func TestParseComponents(t *testing.T) {
	got := parseComponents([]string{"GetItems:Returns the items", " AddItem ", "Reset: clears: everything"})

	want := []knit.Component{
		{Name: "GetItems", Description: "Returns the items"},
		{Name: "AddItem"},
		{Name: "Reset", Description: "clears: everything"},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseComponents() mismatch (-want +got):\n%s", diff)
	}
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	root := NewRootCommand()

	for _, name := range []string{"serve", "migrate", "status", "scaffold"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}
