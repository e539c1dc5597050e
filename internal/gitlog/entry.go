// Package gitlog turns raw git log output into structured records carrying
// the gerrit metadata embedded in commit message trailers.
package gitlog

import (
	"fmt"
	"strconv"
)

// Entry is one commit record with its review metadata. Numeric fields are
// zero when unknown; string fields are empty.
type Entry struct {
	OID        string // full object id
	Hash       string // short or full, per LogOptions
	Subject    string
	Author     string
	Email      string
	Number     int    // gerrit number, from the cache or the Reviewed-on trailer
	Patchset   int    // from the cache only
	Ref        string // refs/changes/NN/number/patchset, from the cache only
	ChangeID   string
	ReviewedOn int    // last Reviewed-on trailer in the body
	PickedFrom string // gerrit number of the cherry-pick source, from the cache
	PickedTo   string // comma-joined gerrit numbers picked from this commit
	PickedHash string // raw "(cherry picked from commit ...)" hash, last wins
}

// ChangeRef formats the gerrit ref name for a (number, patchset) pair:
// refs/changes/<2-digit shard>/<number>/<patchset>.
func ChangeRef(number, patchset int) string {
	return fmt.Sprintf("refs/changes/%02d/%d/%d", number%100, number, patchset)
}

// Fields returns the entry as a template field map ({number}, {hash}, ...),
// with blanks for unknown values.
func (e *Entry) Fields() map[string]string {
	blankInt := func(n int) string {
		if n == 0 {
			return ""
		}
		return strconv.Itoa(n)
	}
	return map[string]string{
		"author":      e.Author,
		"change_id":   e.ChangeID,
		"email":       e.Email,
		"hash":        e.Hash,
		"number":      blankInt(e.Number),
		"patchset":    blankInt(e.Patchset),
		"picked_from": e.PickedFrom,
		"picked_to":   e.PickedTo,
		"ref":         e.Ref,
		"reviewed_on": blankInt(e.ReviewedOn),
		"subject":     e.Subject,
	}
}
