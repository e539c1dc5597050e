package core

import (
	"context"

	"gitgerrit/internal/gitcmd"
	"gitgerrit/internal/gitlog"
	"gitgerrit/internal/store"
)

// LogRequest selects which commits to read and how to render hashes.
type LogRequest struct {
	Revision  string // revision or range, HEAD when empty
	MaxCount  int    // 0 for no limit
	Reverse   bool
	ShortHash bool
}

// LogStream yields log entries enriched with gerrit numbers from the
// cache. Close releases both the log process and the cache handle.
type LogStream struct {
	*gitlog.Scanner
	db *store.Store
}

// Close abandons the stream and closes the cache.
func (l *LogStream) Close() error {
	err := l.Scanner.Close()
	if cerr := l.db.Close(); err == nil {
		err = cerr
	}
	return err
}

// Log streams commits for the requested revision range, each entry
// carrying the gerrit metadata known to the cache (falling back to the
// Reviewed-on trailer for commits not yet synced).
func (s *Service) Log(ctx context.Context, req LogRequest) (*LogStream, error) {
	db, err := s.openStore(ctx)
	if err != nil {
		return nil, err
	}
	lines, err := s.Git.Log(ctx, req.Revision, gitcmd.LogOptions{
		Pretty:   gitlog.PrettyFormat(req.ShortHash),
		MaxCount: req.MaxCount,
		Reverse:  req.Reverse,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &LogStream{Scanner: gitlog.NewScanner(lines, db), db: db}, nil
}
