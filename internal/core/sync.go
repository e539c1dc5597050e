package core

import (
	"context"
	"strconv"
	"strings"

	"gitgerrit/internal/gitcmd"
	"gitgerrit/internal/gitlog"
	"gitgerrit/internal/store"
)

// DefaultScanLimit bounds how many current patchsets a single sync scans
// for trailers. Scanning reads full commit message bodies, so the work is
// amortized across repeated syncs, newest numbers first.
const DefaultScanLimit = 3000

// changeRefsSpec fetches the whole numbered-change namespace.
const changeRefsSpec = "refs/changes/*:refs/changes/*"

// changeRefPattern matches refs/changes/<2-digit shard>/<number>/<patchset>.
const changeRefPattern = `refs/changes/\d\d/\d+/\d+`

// SyncResult summarizes one sync pass.
type SyncResult struct {
	Refs    int // change refs ingested (new and already known)
	Scanned int // commits whose trailers were scanned this pass
	Failed  int // commits skipped because their scan failed
}

// Sync brings the cache up to date: fetch all change refs from gerrit,
// ingest them into the changes table, then scan the trailers of up to limit
// unscanned current patchsets (DefaultScanLimit when limit is 0).
//
// Fetch failure aborts the sync before anything is written. A failure on an
// individual commit during the trailer scan is logged and skipped; one
// malformed historical commit must not block synchronization of current
// work.
func (s *Service) Sync(ctx context.Context, limit int) (*SyncResult, error) {
	if limit <= 0 {
		limit = DefaultScanLimit
	}

	if err := s.Git.Fetch(ctx, changeRefsSpec); err != nil {
		return nil, &OperationError{Message: "fetch " + changeRefsSpec, Err: err}
	}

	db, err := s.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	result := &SyncResult{}
	if err := s.ingestRefs(ctx, db, result); err != nil {
		return nil, err
	}
	if err := s.scanTrailers(ctx, db, limit, result); err != nil {
		return nil, err
	}
	return result, nil
}

// ingestRefs enumerates the local change refs and records each
// (number, patchset, commit) triple. Idempotent: known refs are no-ops.
func (s *Service) ingestRefs(ctx context.Context, db *store.Store, result *SyncResult) error {
	return s.Git.ShowRefs(ctx, changeRefPattern, func(commitID, refName string) error {
		number, patchset, ok := parseChangeRef(refName)
		if !ok {
			return nil
		}
		if err := db.AddChange(number, patchset, commitID); err != nil {
			return err
		}
		result.Refs++
		s.tick()
		return nil
	})
}

// scanTrailers reads the commit messages of unscanned current patchsets,
// newest numbers first, extracting the change id and cherry-pick source.
func (s *Service) scanTrailers(ctx context.Context, db *store.Store, limit int, result *SyncResult) error {
	current, err := db.CurrentPatchsets(limit)
	if err != nil {
		return err
	}
	for _, c := range current {
		if c.Flags == store.ScannedFlag {
			continue
		}
		changeID, pickedFrom, err := s.commitTrailers(ctx, c.CommitID)
		if err != nil {
			s.log.Warn("skipping unreadable commit", "commit", c.CommitID, "number", c.Number, "err", err)
			result.Failed++
			continue
		}
		if err := db.UpdateCommit(c.CommitID, changeID, pickedFrom, store.ScannedFlag); err != nil {
			return err
		}
		result.Scanned++
		s.tick()
	}
	return nil
}

// commitTrailers extracts the Change-Id and cherry-pick source from one
// commit's message body.
func (s *Service) commitTrailers(ctx context.Context, commitID string) (changeID, pickedFrom string, err error) {
	lines, err := s.Git.Log(ctx, commitID, gitcmd.LogOptions{Pretty: "%B", MaxCount: 1})
	if err != nil {
		return "", "", err
	}
	return gitlog.Trailers(lines)
}

// parseChangeRef extracts number and patchset from a
// refs/changes/NN/<number>/<patchset> name.
func parseChangeRef(refName string) (number, patchset int, ok bool) {
	parts := strings.Split(refName, "/")
	if len(parts) != 5 {
		return 0, 0, false
	}
	number, err := strconv.Atoi(parts[3])
	if err != nil {
		return 0, 0, false
	}
	patchset, err = strconv.Atoi(parts[4])
	if err != nil {
		return 0, 0, false
	}
	return number, patchset, true
}
