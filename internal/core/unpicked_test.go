package core

import (
	"context"
	"testing"
)

func TestUnpickedSetAlgebra(t *testing.T) {
	repo := newFakeRepo(t)

	// Upstream carries five commits. One is also on the downstream branch,
	// one was picked onto it, one is itself a pick from it, and two are
	// genuinely unpicked.
	shared := commitID(1)
	pickedOver := commitID(2)
	pickFromDown := commitID(3)
	unpickedA := commitID(4)
	unpickedB := commitID(5)
	downPick := commitID(6)

	repo.hashes["master"] = map[string]bool{
		shared: true, pickedOver: true, pickFromDown: true, unpickedA: true, unpickedB: true,
	}
	repo.hashes["stable"] = map[string]bool{shared: true, downPick: true}
	repo.picked["stable"] = map[string]string{downPick: pickedOver}
	repo.picked["master"] = map[string]string{pickFromDown: downPick}

	var script []string
	script = append(script, logRecord(unpickedB, "newer unpicked fix")...)
	script = append(script, logRecord(unpickedA, "older unpicked fix")...)
	script = append(script, logRecord(pickFromDown, "picked from stable")...)
	script = append(script, logRecord(pickedOver, "already picked")...)
	script = append(script, logRecord(shared, "shared history")...)
	repo.logs["master"] = script

	svc := newTestService(repo, nil)
	entries, err := svc.Unpicked(context.Background(), UnpickedRequest{
		Upstream:   "master",
		Downstream: "stable",
	})
	if err != nil {
		t.Fatalf("Unpicked() error: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	// Log order preserved: newest first.
	if entries[0].OID != unpickedB || entries[1].OID != unpickedA {
		t.Errorf("entries = [%s, %s], want [%s, %s]",
			entries[0].OID, entries[1].OID, unpickedB, unpickedA)
	}
}

func TestUnpickedRequiresDownstream(t *testing.T) {
	svc := newTestService(newFakeRepo(t), nil)
	if _, err := svc.Unpicked(context.Background(), UnpickedRequest{}); err == nil {
		t.Error("Unpicked() without a downstream branch succeeded")
	}
}

func TestUnpickedDefaultsUpstreamToHEAD(t *testing.T) {
	repo := newFakeRepo(t)
	only := commitID(1)
	repo.hashes["HEAD"] = map[string]bool{only: true}
	repo.hashes["stable"] = map[string]bool{}
	repo.logs["HEAD"] = logRecord(only, "lone fix")

	svc := newTestService(repo, nil)
	entries, err := svc.Unpicked(context.Background(), UnpickedRequest{Downstream: "stable"})
	if err != nil {
		t.Fatalf("Unpicked() error: %v", err)
	}
	if len(entries) != 1 || entries[0].OID != only {
		t.Errorf("entries = %+v, want the single HEAD commit", entries)
	}
}
