package core

import (
	"context"
)

// CherryPick finds the commit of a gerrit number on an upstream branch and
// cherry-picks it with -x, letting the installed prepare-commit-msg hook
// mint a fresh Change-Id for the new gerrit.
func (s *Service) CherryPick(ctx context.Context, number int, branch string) error {
	stream, err := s.Log(ctx, LogRequest{Revision: branch})
	if err != nil {
		return err
	}

	commitID := ""
	for {
		entry, ok := stream.Next()
		if !ok {
			break
		}
		if entry.Number == number {
			commitID = entry.OID
			break
		}
	}
	scanErr := stream.Err()
	if err := stream.Close(); err == nil {
		err = scanErr
	} else if scanErr != nil {
		err = scanErr
	}
	if err != nil {
		return err
	}

	if commitID == "" {
		return notFoundf("failed to find gerrit number %d on branch %s", number, branch)
	}
	if err := s.Git.CherryPick(ctx, commitID); err != nil {
		return &OperationError{Message: "failed to cherry-pick " + commitID, Err: err}
	}
	return nil
}
