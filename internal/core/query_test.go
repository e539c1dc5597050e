package core

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"gitgerrit/internal/gerrit"
)

func queryChange(number, patchset int) gerrit.ChangeInfo {
	rev := commitID(number)
	return gerrit.ChangeInfo{
		Number:          number,
		ID:              "myproject~master~Icafe",
		ChangeID:        "Icafe",
		Project:         "myproject",
		Subject:         "fix the frobinator",
		CurrentRevision: rev,
		Revisions: map[string]gerrit.RevisionInfo{
			rev: {Number: patchset, Ref: "refs/changes/34/1234/5"},
		},
	}
}

func TestQueryScopesToProject(t *testing.T) {
	query := &fakeQuery{changes: []gerrit.ChangeInfo{queryChange(1234, 5)}}
	svc := newTestService(newFakeRepo(t), query)

	changes, err := svc.Query(context.Background(), QueryRequest{Search: "status:open"})
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if len(changes) != 1 || changes[0].Number != 1234 {
		t.Fatalf("changes = %+v", changes)
	}
	if got := query.searches[0]; got != "status:open project:myproject" {
		t.Errorf("search = %q", got)
	}
}

func TestQueryKeepsExplicitProject(t *testing.T) {
	query := &fakeQuery{}
	svc := newTestService(newFakeRepo(t), query)

	if _, err := svc.Query(context.Background(), QueryRequest{Search: "project:other"}); err != nil {
		t.Fatal(err)
	}
	if got := query.searches[0]; strings.Contains(got, "myproject") {
		t.Errorf("search = %q, must not append the configured project", got)
	}
}

func TestRemoteChangeNotFound(t *testing.T) {
	svc := newTestService(newFakeRepo(t), &fakeQuery{})

	_, err := svc.RemoteChange(context.Background(), 999)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
}

func TestFetchToBranch(t *testing.T) {
	repo := newFakeRepo(t)
	query := &fakeQuery{changes: []gerrit.ChangeInfo{queryChange(1234, 5)}}
	svc := newTestService(repo, query)
	var out bytes.Buffer
	svc.Out = &out

	err := svc.Fetch(context.Background(), FetchRequest{
		Number:   1234,
		Branch:   "gerrit/{number}/{patchset}",
		Checkout: true,
	})
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(repo.fetched) != 1 || repo.fetched[0] != "refs/changes/34/1234/5:gerrit/1234/5" {
		t.Errorf("fetched = %v", repo.fetched)
	}
	if len(repo.checkedOut) != 1 || repo.checkedOut[0] != "gerrit/1234/5" {
		t.Errorf("checkedOut = %v", repo.checkedOut)
	}
	if !strings.Contains(out.String(), "found patchset number 5") {
		t.Errorf("output missing patchset message:\n%s", out.String())
	}
}

func TestFetchExistingBranchIsNoOp(t *testing.T) {
	repo := newFakeRepo(t)
	repo.branches["gerrit/1234/5"] = true
	query := &fakeQuery{changes: []gerrit.ChangeInfo{queryChange(1234, 5)}}
	svc := newTestService(repo, query)
	var out bytes.Buffer
	svc.Out = &out

	err := svc.Fetch(context.Background(), FetchRequest{Number: 1234, Branch: "gerrit/{number}/{patchset}"})
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(repo.fetched) != 0 {
		t.Errorf("fetched = %v, want none", repo.fetched)
	}
	if !strings.Contains(out.String(), "branch gerrit/1234/5 already exists") {
		t.Errorf("output = %q", out.String())
	}
}

func TestFetchNoBranch(t *testing.T) {
	repo := newFakeRepo(t)
	query := &fakeQuery{changes: []gerrit.ChangeInfo{queryChange(1234, 5)}}
	svc := newTestService(repo, query)

	err := svc.Fetch(context.Background(), FetchRequest{Number: 1234, NoBranch: true})
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(repo.fetched) != 1 || repo.fetched[0] != "refs/changes/34/1234/5" {
		t.Errorf("fetched = %v, want the bare change ref", repo.fetched)
	}
}
