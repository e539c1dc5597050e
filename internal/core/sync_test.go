package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func commitID(n int) string {
	return fmt.Sprintf("%040d", n)
}

func TestSyncIngestsAndScans(t *testing.T) {
	repo := newFakeRepo(t)
	repo.refs = []ref{
		{commitID(1), "refs/changes/01/101/1"},
		{commitID(2), "refs/changes/01/101/2"},
		{commitID(3), "refs/changes/02/102/1"},
		{commitID(4), "refs/heads/master"}, // not a change ref
	}
	repo.bodies[commitID(2)] = []string{
		"fix the frobinator",
		"",
		"Change-Id: Iaaaa",
	}
	repo.bodies[commitID(3)] = []string{
		"backport the frobinator fix",
		"",
		"Change-Id: Ibbbb",
		"(cherry picked from commit " + commitID(2) + ")",
	}
	svc := newTestService(repo, nil)

	result, err := svc.Sync(context.Background(), 0)
	if err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	if result.Refs != 3 {
		t.Errorf("Refs = %d, want 3", result.Refs)
	}
	if result.Scanned != 2 {
		t.Errorf("Scanned = %d, want 2 (current patchsets only)", result.Scanned)
	}
	if len(repo.fetched) != 1 || repo.fetched[0] != "refs/changes/*:refs/changes/*" {
		t.Errorf("fetched = %v", repo.fetched)
	}

	change, err := svc.CurrentChange(context.Background(), 101)
	if err != nil {
		t.Fatalf("CurrentChange() error: %v", err)
	}
	if change.CurrentPatchset != 2 || change.ChangeID != "Iaaaa" {
		t.Errorf("change = %+v, want patchset 2 with Iaaaa", change)
	}

	picked, err := svc.CurrentChange(context.Background(), 102)
	if err != nil {
		t.Fatalf("CurrentChange(102) error: %v", err)
	}
	if picked.CherryPickedFrom != 101 {
		t.Errorf("CherryPickedFrom = %d, want 101", picked.CherryPickedFrom)
	}
	if len(change.CherryPickedTo) != 1 || change.CherryPickedTo[0] != 102 {
		t.Errorf("CherryPickedTo = %v, want [102]", change.CherryPickedTo)
	}
}

func TestSyncIsIdempotent(t *testing.T) {
	repo := newFakeRepo(t)
	repo.refs = []ref{{commitID(1), "refs/changes/01/101/1"}}
	repo.bodies[commitID(1)] = []string{"subject", "", "Change-Id: Iaaaa"}
	svc := newTestService(repo, nil)

	if _, err := svc.Sync(context.Background(), 0); err != nil {
		t.Fatalf("first Sync() error: %v", err)
	}
	result, err := svc.Sync(context.Background(), 0)
	if err != nil {
		t.Fatalf("second Sync() error: %v", err)
	}
	if result.Scanned != 0 {
		t.Errorf("second pass Scanned = %d, want 0 (already scanned)", result.Scanned)
	}
}

func TestSyncScanLimitBoundsWork(t *testing.T) {
	repo := newFakeRepo(t)
	for n := 1; n <= 10; n++ {
		repo.refs = append(repo.refs, ref{commitID(n), fmt.Sprintf("refs/changes/%02d/%d/1", n, 100+n)})
		repo.bodies[commitID(n)] = []string{"subject", "", "Change-Id: Iaaaa"}
	}
	svc := newTestService(repo, nil)

	result, err := svc.Sync(context.Background(), 3)
	if err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	if result.Scanned != 3 {
		t.Errorf("Scanned = %d, want 3", result.Scanned)
	}

	// Highest numbers are scanned first.
	change, err := svc.CurrentChange(context.Background(), 110)
	if err != nil {
		t.Fatal(err)
	}
	if change.ChangeID == "" {
		t.Error("newest change not scanned within the limit")
	}
	oldest, err := svc.CurrentChange(context.Background(), 101)
	if err != nil {
		t.Fatal(err)
	}
	if oldest.ChangeID != "" {
		t.Error("oldest change scanned despite the limit")
	}
}

func TestSyncFetchFailureIsFatal(t *testing.T) {
	repo := newFakeRepo(t)
	repo.fetchErr = errors.New("remote hung up")
	svc := newTestService(repo, nil)

	_, err := svc.Sync(context.Background(), 0)
	if err == nil {
		t.Fatal("Sync() succeeded despite fetch failure")
	}
	var opErr *OperationError
	if !errors.As(err, &opErr) {
		t.Errorf("error = %v, want *OperationError", err)
	}
}

func TestSyncSkipsUnreadableCommit(t *testing.T) {
	repo := newFakeRepo(t)
	repo.refs = []ref{
		{commitID(1), "refs/changes/01/101/1"},
		{commitID(2), "refs/changes/02/102/1"},
	}
	// Only 102's commit body is readable.
	repo.bodies[commitID(2)] = []string{"subject", "", "Change-Id: Ibbbb"}
	svc := newTestService(repo, nil)

	result, err := svc.Sync(context.Background(), 0)
	if err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	if result.Failed != 1 || result.Scanned != 1 {
		t.Errorf("Failed/Scanned = %d/%d, want 1/1", result.Failed, result.Scanned)
	}
}

func TestParseChangeRef(t *testing.T) {
	cases := []struct {
		in               string
		number, patchset int
		ok               bool
	}{
		{"refs/changes/34/1234/5", 1234, 5, true},
		{"refs/changes/07/7/1", 7, 1, true},
		{"refs/heads/master", 0, 0, false},
		{"refs/changes/34/bogus/5", 0, 0, false},
	}
	for _, c := range cases {
		number, patchset, ok := parseChangeRef(c.in)
		if number != c.number || patchset != c.patchset || ok != c.ok {
			t.Errorf("parseChangeRef(%q) = %d, %d, %v; want %d, %d, %v",
				c.in, number, patchset, ok, c.number, c.patchset, c.ok)
		}
	}
}
