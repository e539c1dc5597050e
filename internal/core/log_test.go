package core

import (
	"context"
	"testing"
)

func TestLogEnrichesFromCache(t *testing.T) {
	repo := newFakeRepo(t)
	oid := commitID(1)
	repo.refs = []ref{{oid, "refs/changes/34/1234/1"}}
	repo.bodies[oid] = []string{"subject", "", "Change-Id: Iaaaa"}
	repo.logs["HEAD"] = logRecord(oid, "fix the frobinator")

	svc := newTestService(repo, nil)
	if _, err := svc.Sync(context.Background(), 0); err != nil {
		t.Fatal(err)
	}

	stream, err := svc.Log(context.Background(), LogRequest{})
	if err != nil {
		t.Fatalf("Log() error: %v", err)
	}
	defer stream.Close()

	entry, ok := stream.Next()
	if !ok {
		t.Fatalf("Next() = false, err=%v", stream.Err())
	}
	if entry.Number != 1234 || entry.Patchset != 1 {
		t.Errorf("number/patchset = %d/%d, want 1234/1 from the cache", entry.Number, entry.Patchset)
	}
	if entry.ChangeID != "Iaaaa" {
		t.Errorf("ChangeID = %q", entry.ChangeID)
	}
}

func TestLogFallsBackToReviewedOn(t *testing.T) {
	repo := newFakeRepo(t)
	repo.logs["HEAD"] = logRecord(commitID(1), "fix the frobinator",
		"Reviewed-on: https://gerrit.example.com/777")

	svc := newTestService(repo, nil)
	stream, err := svc.Log(context.Background(), LogRequest{})
	if err != nil {
		t.Fatalf("Log() error: %v", err)
	}
	defer stream.Close()

	entry, ok := stream.Next()
	if !ok {
		t.Fatalf("Next() = false, err=%v", stream.Err())
	}
	if entry.Number != 777 {
		t.Errorf("Number = %d, want 777 from the trailer", entry.Number)
	}
}
