package core

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"gitgerrit/internal/gitlog"
)

// CurrentChange is the denormalized "latest known state" of a gerrit
// number, assembled from the local cache.
type CurrentChange struct {
	Number               int
	CurrentPatchset      int
	CommitID             string
	ChangeID             string
	Flags                int
	Ref                  string
	CherryPickedFrom     int    // gerrit number of the pick source, 0 if none
	CherryPickedFromHash string // commit id of the pick source, "" if none
	CherryPickedTo       []int  // gerrit numbers picked from this commit
}

// CurrentChange looks a gerrit number up in the local cache and resolves
// its cherry-pick relations to gerrit numbers. Unknown numbers yield a
// *NotFoundError; run sync first to populate the cache.
func (s *Service) CurrentChange(ctx context.Context, number int) (*CurrentChange, error) {
	db, err := s.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	c, err := db.CurrentPatchsetByNumber(number)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFoundf("change %d not found", number)
	}

	out := &CurrentChange{
		Number:          c.Number,
		CurrentPatchset: c.CurrentPatchset,
		CommitID:        c.CommitID,
		ChangeID:        c.ChangeID,
		Flags:           c.Flags,
		Ref:             gitlog.ChangeRef(c.Number, c.CurrentPatchset),
	}

	// Resolve the cherry-picked-from hash to its gerrit number.
	if c.CherryPickedFrom != "" {
		from, err := db.ChangeByCommit(c.CherryPickedFrom)
		if err != nil {
			return nil, err
		}
		if from != nil {
			out.CherryPickedFrom = from.Number
			out.CherryPickedFromHash = c.CherryPickedFrom
		}
	}

	// Find the gerrit numbers cherry-picked from this commit.
	picks, err := db.CherryPicksByCommit(c.CommitID)
	if err != nil {
		return nil, err
	}
	seen := make(map[int]bool)
	for _, p := range picks {
		to, err := db.ChangeByCommit(p.CommitID)
		if err != nil {
			return nil, err
		}
		if to != nil && !seen[to.Number] {
			seen[to.Number] = true
			out.CherryPickedTo = append(out.CherryPickedTo, to.Number)
		}
	}
	sort.Ints(out.CherryPickedTo)
	return out, nil
}

// Fields returns the record as a template field map.
func (c *CurrentChange) Fields() map[string]string {
	blankInt := func(n int) string {
		if n == 0 {
			return ""
		}
		return strconv.Itoa(n)
	}
	to := make([]string, len(c.CherryPickedTo))
	for i, n := range c.CherryPickedTo {
		to[i] = strconv.Itoa(n)
	}
	return map[string]string{
		"number":                  strconv.Itoa(c.Number),
		"current_patchset":        strconv.Itoa(c.CurrentPatchset),
		"patchset":                strconv.Itoa(c.CurrentPatchset),
		"commit_id":               c.CommitID,
		"hash":                    c.CommitID,
		"change_id":               c.ChangeID,
		"flags":                   strconv.Itoa(c.Flags),
		"ref":                     c.Ref,
		"cherry_picked_from":      blankInt(c.CherryPickedFrom),
		"cherry_picked_from_hash": c.CherryPickedFromHash,
		"cherry_picked_to":        strings.Join(to, ","),
	}
}
