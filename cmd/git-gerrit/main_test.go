package main

import (
	"testing"
)

func TestCommandsRegistered(t *testing.T) {
	want := []string{
		"sync", "number", "query", "fetch", "checkout",
		"cherry-pick", "log", "unpicked", "review", "install-hooks",
	}
	have := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		have[cmd.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestNumberRejectsBadArgument(t *testing.T) {
	rootCmd.SetArgs([]string{"number", "not-a-number"})
	defer rootCmd.SetArgs(nil)
	if err := rootCmd.Execute(); err == nil {
		t.Error("number with a non-numeric argument succeeded")
	}
}
