package gitlog

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gitgerrit/internal/gitcmd"
	"gitgerrit/internal/store"
)

// PrettyFormat builds the git --pretty template the Scanner understands:
// tagged header lines, a body block, and a %% end-of-record sentinel.
func PrettyFormat(shortHash bool) string {
	hash := "%H"
	if shortHash {
		hash = "%h"
	}
	terms := []string{
		"oid:%H",
		"hash:" + hash,
		"subject:%s",
		"author:%an",
		"email:%ae",
		"body:%n%b",
		"%%%%", // renders as a literal %% line
	}
	return strings.Join(terms, "%n")
}

// Resolver answers cache lookups used to enrich log entries with gerrit
// numbers. *store.Store satisfies it; a nil Resolver disables enrichment
// and entries fall back to the Reviewed-on trailer.
type Resolver interface {
	ChangeByCommit(commitID string) (*store.ChangeRow, error)
	CherryPicksByCommit(commitID string) ([]store.CommitMeta, error)
}

var (
	oidRE        = regexp.MustCompile(`^oid:(.*)`)
	hashRE       = regexp.MustCompile(`^hash:(.*)`)
	subjectRE    = regexp.MustCompile(`^subject:(.*)`)
	authorRE     = regexp.MustCompile(`^author:(.*)`)
	emailRE      = regexp.MustCompile(`^email:(.*)`)
	bodyRE       = regexp.MustCompile(`^body:`)
	reviewedOnRE = regexp.MustCompile(`^Reviewed-on: .*/([0-9]+)$`)
	changeIDRE   = regexp.MustCompile(`^Change-Id: (I[0-9a-fA-F]+)$`)
	pickedRE     = regexp.MustCompile(`\(cherry picked from commit (\w+)\)`)
)

// Scanner parses a tagged git log stream into Entry records. It is a lazy,
// non-restartable consumer of the underlying line iterator.
type Scanner struct {
	lines   gitcmd.LineIter
	resolve Resolver
	err     error
}

// NewScanner wraps a line iterator produced with PrettyFormat output.
func NewScanner(lines gitcmd.LineIter, resolve Resolver) *Scanner {
	return &Scanner{lines: lines, resolve: resolve}
}

// Next returns the next complete entry, or nil and false when the stream is
// exhausted or failed. Check Err after the final Next.
func (s *Scanner) Next() (*Entry, bool) {
	if s.err != nil {
		return nil, false
	}
	e := &Entry{}
	for {
		line, ok := s.lines.Next()
		if !ok {
			s.err = s.lines.Err()
			return nil, false
		}
		if m := oidRE.FindStringSubmatch(line); m != nil {
			e.OID = m[1]
			if err := s.enrich(e); err != nil {
				s.err = err
				return nil, false
			}
			continue
		}
		if m := hashRE.FindStringSubmatch(line); m != nil {
			e.Hash = m[1]
			continue
		}
		if m := subjectRE.FindStringSubmatch(line); m != nil {
			e.Subject = Decode(m[1])
			continue
		}
		if m := authorRE.FindStringSubmatch(line); m != nil {
			e.Author = Decode(m[1])
			continue
		}
		if m := emailRE.FindStringSubmatch(line); m != nil {
			e.Email = Decode(m[1])
			continue
		}
		if bodyRE.MatchString(line) {
			continue
		}
		if m := reviewedOnRE.FindStringSubmatch(line); m != nil {
			// Keep the last one seen: backported commits carry several
			// Reviewed-on trailers and the final one is authoritative.
			e.ReviewedOn, _ = strconv.Atoi(m[1])
			continue
		}
		if m := changeIDRE.FindStringSubmatch(line); m != nil {
			// Keep the first one seen; commits normally have zero or one.
			if e.ChangeID == "" {
				e.ChangeID = m[1]
			}
			continue
		}
		if m := pickedRE.FindStringSubmatch(line); m != nil {
			// Keep the last one seen.
			e.PickedHash = m[1]
			continue
		}
		if line == "%%" {
			// End of record. Fall back to the Reviewed-on trailer when the
			// change was not found in the cache.
			if e.Number == 0 {
				e.Number = e.ReviewedOn
			}
			return e, true
		}
	}
}

// Err reports the first stream or lookup error, after Next returned false.
func (s *Scanner) Err() error { return s.err }

// Close abandons the underlying stream.
func (s *Scanner) Close() error { return s.lines.Close() }

// enrich fills gerrit number, patchset, ref, change id, and cherry-pick
// relations from the cache.
func (s *Scanner) enrich(e *Entry) error {
	if s.resolve == nil {
		return nil
	}
	change, err := s.resolve.ChangeByCommit(e.OID)
	if err != nil {
		return err
	}
	if change != nil {
		e.Number = change.Number
		e.Patchset = change.Patchset
		e.Ref = ChangeRef(change.Number, change.Patchset)
		if change.ChangeID != "" {
			e.ChangeID = change.ChangeID
			if change.CherryPickedFrom != "" {
				from, err := s.resolve.ChangeByCommit(change.CherryPickedFrom)
				if err != nil {
					return err
				}
				if from != nil {
					e.PickedFrom = strconv.Itoa(from.Number)
				}
			}
		}
	}

	picks, err := s.resolve.CherryPicksByCommit(e.OID)
	if err != nil {
		return err
	}
	seen := make(map[int]bool)
	var numbers []int
	for _, p := range picks {
		to, err := s.resolve.ChangeByCommit(p.CommitID)
		if err != nil {
			return err
		}
		if to != nil && !seen[to.Number] {
			seen[to.Number] = true
			numbers = append(numbers, to.Number)
		}
	}
	if len(numbers) > 0 {
		sort.Ints(numbers)
		parts := make([]string, len(numbers))
		for i, n := range numbers {
			parts[i] = strconv.Itoa(n)
		}
		e.PickedTo = strings.Join(parts, ",")
	}
	return nil
}

// Trailers scans a single commit's message body lines and extracts the
// change id (first match) and cherry-pick source (last match).
func Trailers(lines gitcmd.LineIter) (changeID, pickedFrom string, err error) {
	defer lines.Close()
	for {
		line, ok := lines.Next()
		if !ok {
			break
		}
		if m := changeIDRE.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			if changeID == "" {
				changeID = m[1]
			}
			continue
		}
		if m := pickedRE.FindStringSubmatch(line); m != nil {
			pickedFrom = m[1]
		}
	}
	return changeID, pickedFrom, lines.Err()
}
