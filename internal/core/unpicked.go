package core

import (
	"context"

	"golang.org/x/sync/errgroup"

	"gitgerrit/internal/gitlog"
)

// UnpickedRequest names the two branches to compare.
type UnpickedRequest struct {
	Upstream   string // defaults to HEAD
	Downstream string
}

// Unpicked reports the commits on the upstream branch that are neither
// present on the downstream branch nor connected to it by a cherry-pick
// in either direction. Entries are emitted in upstream log order.
//
// Conventionally commits are picked from the upstream branch onto the
// downstream branch, but in rare cases picks go the other way: a change
// lands on the stable branch first and is picked onto master later.
// Both directions count as "picked".
func (s *Service) Unpicked(ctx context.Context, req UnpickedRequest) ([]*gitlog.Entry, error) {
	upstream := req.Upstream
	if upstream == "" {
		upstream = "HEAD"
	}
	if req.Downstream == "" {
		return nil, &OperationError{Message: "downstream branch name is required"}
	}

	// The four branch walks are independent.
	var (
		up, down map[string]bool
		pickedUp map[string]string // upstream commit -> pick source
		pickedDn map[string]string // downstream commit -> pick source
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		up, err = s.Git.Hashes(gctx, upstream)
		return err
	})
	g.Go(func() (err error) {
		down, err = s.Git.Hashes(gctx, req.Downstream)
		return err
	})
	g.Go(func() (err error) {
		pickedUp, err = s.Git.CherryPicked(gctx, upstream)
		return err
	})
	g.Go(func() (err error) {
		pickedDn, err = s.Git.CherryPicked(gctx, req.Downstream)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Upstream commits not on the downstream branch, not picked onto it,
	// and not themselves picks from it.
	unpicked := make(map[string]bool, len(up))
	for oid := range up {
		unpicked[oid] = true
	}
	for oid := range down {
		delete(unpicked, oid)
	}
	for _, source := range pickedDn {
		delete(unpicked, source)
	}
	for oid := range pickedUp {
		delete(unpicked, oid)
	}

	stream, err := s.Log(ctx, LogRequest{Revision: upstream})
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	var entries []*gitlog.Entry
	for {
		entry, ok := stream.Next()
		if !ok {
			break
		}
		if unpicked[entry.OID] {
			entries = append(entries, entry)
		}
		s.tick()
	}
	if err := stream.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
