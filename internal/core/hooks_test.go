package core

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestInstallHooks(t *testing.T) {
	svc := newTestService(newFakeRepo(t), nil)
	var out bytes.Buffer
	svc.Out = &out

	if err := svc.InstallHooks(context.Background()); err != nil {
		t.Fatalf("InstallHooks() error: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "commit-msg") || !strings.Contains(got, "prepare-commit-msg") {
		t.Errorf("output = %q, want both hooks reported", got)
	}
}
