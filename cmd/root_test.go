package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommand(t *testing.T) {
	var buf bytes.Buffer
	RootCmd.SetOut(&buf)
	RootCmd.SetErr(&buf)
	RootCmd.SetArgs([]string{"--help"})
	t.Cleanup(func() { RootCmd.SetArgs(nil) })

	if err := RootCmd.Execute(); err != nil {
		t.Fatalf("root command with --help failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "compares the schemas of two PostgreSQL databases") {
		t.Errorf("expected help output to contain description, got: %s", output)
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range RootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, expected := range []string{"diff", "version"} {
		if !names[expected] {
			t.Errorf("expected subcommand %s not found in: %v", expected, names)
		}
	}
}

func TestDebugFlag(t *testing.T) {
	flag := RootCmd.PersistentFlags().Lookup("debug")
	if flag == nil {
		t.Fatal("expected --debug flag to be defined")
	}
	if flag.DefValue != "false" {
		t.Errorf("expected --debug to default to false, got %s", flag.DefValue)
	}
}
