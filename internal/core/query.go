package core

import (
	"context"
	"strconv"
	"strings"

	"gitgerrit/internal/format"
	"gitgerrit/internal/gerrit"
)

// QueryRequest shapes a gerrit change search.
type QueryRequest struct {
	Search  string
	Limit   int  // 0 for the server default
	Details bool // also fetch /changes/<id>/detail per result
}

// Query searches gerrit for changes and returns them flattened for
// display. The configured project is appended to the search unless the
// search already scopes one.
func (s *Service) Query(ctx context.Context, req QueryRequest) ([]*gerrit.Change, error) {
	client, host, err := s.gerritClient(ctx)
	if err != nil {
		return nil, err
	}
	remote, err := s.Git.ConfigString(ctx, "remote")
	if err != nil {
		return nil, err
	}

	search := req.Search
	if !strings.Contains(search, "project:") {
		project, err := s.Git.ConfigString(ctx, "project")
		if err != nil {
			return nil, err
		}
		search += " project:" + project
	}

	infos, err := client.QueryChanges(ctx, search, gerrit.QueryOptions{
		Limit:   req.Limit,
		Options: []string{"CURRENT_REVISION"},
	})
	if err != nil {
		return nil, err
	}

	changes := make([]*gerrit.Change, 0, len(infos))
	for i := range infos {
		change := gerrit.Flatten(&infos[i], host, remote)
		if req.Details {
			detail, err := client.ChangeDetail(ctx, change.ID)
			if err != nil {
				return nil, err
			}
			change.Detail = detail
		}
		changes = append(changes, change)
	}
	return changes, nil
}

// RemoteChange looks one gerrit number up in the review service, including
// its current patchset.
func (s *Service) RemoteChange(ctx context.Context, number int) (*gerrit.Change, error) {
	changes, err := s.Query(ctx, QueryRequest{
		Search: "change:" + strconv.Itoa(number),
		Limit:  1,
	})
	if err != nil {
		return nil, err
	}
	if len(changes) != 1 {
		return nil, notFoundf("gerrit %d not found", number)
	}
	return changes[0], nil
}

// FetchRequest controls how a change is fetched from gerrit.
type FetchRequest struct {
	Number   int
	Branch   string // local branch template, e.g. "gerrit/{number}/{patchset}"
	NoBranch bool   // fetch to FETCH_HEAD instead of a branch
	Checkout bool
}

// Fetch fetches a gerrit number's current patchset, either to FETCH_HEAD
// or to a new local branch, optionally checking it out.
func (s *Service) Fetch(ctx context.Context, req FetchRequest) error {
	s.printf("searching for gerrit %d\n", req.Number)
	change, err := s.RemoteChange(ctx, req.Number)
	if err != nil {
		return err
	}
	s.printf("found patchset number %d\n", change.Patchset)

	if req.NoBranch || req.Branch == "" {
		s.printf("fetching %d,%d\n", req.Number, change.Patchset)
		if err := s.Git.Fetch(ctx, change.Ref); err != nil {
			return err
		}
		s.printf("fetched %d,%d to FETCH_HEAD\n", req.Number, change.Patchset)
		if req.Checkout {
			if err := s.Git.Checkout(ctx, "FETCH_HEAD"); err != nil {
				return err
			}
			s.printf("checked out FETCH_HEAD\n")
		}
		return nil
	}

	branch, err := format.Expand(req.Branch, change.Fields())
	if err != nil {
		return err
	}
	exists, err := s.Git.BranchExists(ctx, branch)
	if err != nil {
		return err
	}
	if exists {
		s.printf("branch %s already exists\n", branch)
		return nil
	}
	s.printf("fetching %d,%d to branch %s\n", req.Number, change.Patchset, branch)
	if err := s.Git.Fetch(ctx, change.Ref+":"+branch); err != nil {
		return err
	}
	s.printf("fetched %d,%d to branch %s\n", req.Number, change.Patchset, branch)
	if req.Checkout {
		if err := s.Git.Checkout(ctx, branch); err != nil {
			return err
		}
		s.printf("checked out branch %s\n", branch)
	}
	return nil
}
