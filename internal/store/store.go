// Package store maintains the local cache of gerrit numbers: a small SQLite
// database mapping change numbers and patchsets to commit ids, plus the
// review metadata scanned out of commit message trailers.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gitgerrit/internal/logging"

	_ "modernc.org/sqlite"
)

// ScannedFlag marks a commit row whose message trailers have been scanned.
const ScannedFlag = 1

// ErrSchema reports a cache file that failed validation: wrong magic tag,
// unknown schema version, or a migration script that did not apply. The
// cache must not be used past this error.
var ErrSchema = errors.New("cache schema error")

// CurrentPatchset is the denormalized "latest known state" of one change
// number: its highest patchset joined with the scanned commit metadata.
type CurrentPatchset struct {
	Number           int
	CurrentPatchset  int
	CommitID         string
	ChangeID         string
	CherryPickedFrom string
	Flags            int
}

// ChangeRow is one (number, patchset) pair joined with its commit metadata.
type ChangeRow struct {
	Number           int
	Patchset         int
	CommitID         string
	ChangeID         string
	CherryPickedFrom string
	Flags            int
}

// CommitMeta is the trailer metadata recorded for a single commit.
type CommitMeta struct {
	CommitID   string
	ChangeID   string
	PickedFrom string
	Flags      int
}

// Store owns the on-disk cache database. Writes are buffered in a single
// transaction and committed lazily before any read, so a session always
// reads its own writes without paying a commit per insert.
type Store struct {
	db    *sql.DB
	tx    *sql.Tx
	dirty bool
	path  string
	log   *slog.Logger
}

// Open opens (creating if absent) the cache database at path and brings the
// schema up to date. A pre-existing file with the wrong application_id tag
// is rejected with ErrSchema.
func Open(path string) (*Store, error) {
	_, statErr := os.Stat(path)
	fresh := os.IsNotExist(statErr)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}

	s := &Store{db: db, path: path, log: logging.New("store")}

	if fresh {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA application_id = %d", magic)); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("stamp cache %s: %w", path, err)
		}
	} else {
		var tag int64
		if err := db.QueryRow("PRAGMA application_id").Scan(&tag); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("read cache tag %s: %w", path, err)
		}
		if tag != magic {
			_ = db.Close()
			return nil, fmt.Errorf("%w: unexpected application_id %#x in %s", ErrSchema, tag, path)
		}
	}

	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// migrate applies each pending migration script in its own transaction and
// bumps the user_version counter by one per script. A database already at
// the latest version is left untouched.
func (s *Store) migrate() error {
	version, err := s.schemaVersion()
	if err != nil {
		return err
	}
	if version > len(migrations) {
		return fmt.Errorf("%w: version %d is newer than this build supports (%d)",
			ErrSchema, version, len(migrations))
	}
	for v := version; v < len(migrations); v++ {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", v+1, err)
		}
		if _, err := tx.Exec(migrations[v]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: migration to version %d: %v", ErrSchema, v+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", v+1, err)
		}
		// user_version cannot be bound as a parameter.
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			return fmt.Errorf("set schema version %d: %w", v+1, err)
		}
		s.log.Debug("migrated cache schema", "path", s.path, "version", v+1)
	}
	return nil
}

func (s *Store) schemaVersion() (int, error) {
	var v int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

// writer returns the buffering transaction, starting one if needed.
func (s *Store) writer() (*sql.Tx, error) {
	if s.tx == nil {
		tx, err := s.db.Begin()
		if err != nil {
			return nil, fmt.Errorf("begin write tx: %w", err)
		}
		s.tx = tx
	}
	return s.tx, nil
}

// flush commits buffered writes so that subsequent reads observe them.
func (s *Store) flush() error {
	if s.tx == nil {
		return nil
	}
	if err := s.tx.Commit(); err != nil {
		return fmt.Errorf("flush cache writes: %w", err)
	}
	s.tx = nil
	s.dirty = false
	return nil
}

// Close flushes pending writes and releases the connection. Call exactly
// once per Open.
func (s *Store) Close() error {
	if err := s.flush(); err != nil {
		_ = s.db.Close()
		return err
	}
	return s.db.Close()
}

// AddChange records that (number, patchset) was fetched as commitID, and
// ensures an unscanned commit row exists for commitID. Both inserts use
// insert-or-ignore semantics; re-adding the same ref is a no-op.
func (s *Store) AddChange(number, patchset int, commitID string) error {
	tx, err := s.writer()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		`INSERT OR IGNORE INTO commits (commit_id, commit_flags) VALUES (?, 0)`,
		commitID,
	); err != nil {
		return fmt.Errorf("add commit %s: %w", commitID, err)
	}
	if _, err := tx.Exec(
		`INSERT OR IGNORE INTO changes (change_number, change_patchset, change_commit_id)
		 VALUES (?, ?, ?)`,
		number, patchset, commitID,
	); err != nil {
		return fmt.Errorf("add change %d,%d: %w", number, patchset, err)
	}
	s.dirty = true
	return nil
}

// UpdateCommit sets the scanned trailer metadata on an existing commit row.
// Empty changeID/pickedFrom are stored as NULL. Updating a commit id that
// was never added is a silent no-op.
func (s *Store) UpdateCommit(commitID, changeID, pickedFrom string, flags int) error {
	tx, err := s.writer()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		`UPDATE commits
		 SET commit_change_id = ?, commit_picked_from = ?, commit_flags = ?
		 WHERE commit_id = ?`,
		nilIfEmpty(changeID), nilIfEmpty(pickedFrom), flags, commitID,
	); err != nil {
		return fmt.Errorf("update commit %s: %w", commitID, err)
	}
	s.dirty = true
	return nil
}

const currentPatchsetSelect = `
	SELECT
		ch.change_number AS number,
		MAX(ch.change_patchset) AS current_patchset,
		ch.change_commit_id AS commit_id,
		co.commit_change_id AS change_id,
		co.commit_picked_from AS cherry_picked_from,
		co.commit_flags AS flags
	FROM changes AS ch
	LEFT JOIN commits AS co ON co.commit_id = ch.change_commit_id
`

// CurrentPatchsets returns the current patchset of every known change,
// highest number first. A limit of 0 returns all; otherwise the first limit
// records (the highest-numbered changes) are returned.
func (s *Store) CurrentPatchsets(limit int) ([]CurrentPatchset, error) {
	if err := s.flush(); err != nil {
		return nil, err
	}
	q := currentPatchsetSelect + " GROUP BY ch.change_number ORDER BY ch.change_number DESC"
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("current patchsets: %w", err)
	}
	defer rows.Close()
	var out []CurrentPatchset
	for rows.Next() {
		c, err := scanCurrentPatchset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("current patchsets: %w", err)
	}
	return out, nil
}

// CurrentPatchsetByNumber returns the current patchset of one change, or
// (nil, nil) when the number is unknown.
func (s *Store) CurrentPatchsetByNumber(number int) (*CurrentPatchset, error) {
	if err := s.flush(); err != nil {
		return nil, err
	}
	row := s.db.QueryRow(
		currentPatchsetSelect+`
		WHERE ch.change_number = ?
		GROUP BY ch.change_number
		LIMIT 1`,
		number,
	)
	c, err := scanCurrentPatchset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ChangeByCommit returns the change row that references commitID, or
// (nil, nil) when no change does. In the rare case that several changes
// share one commit, the lowest (number, patchset) wins, deterministically.
func (s *Store) ChangeByCommit(commitID string) (*ChangeRow, error) {
	if err := s.flush(); err != nil {
		return nil, err
	}
	var (
		c                    ChangeRow
		changeID, pickedFrom sql.NullString
		flags                sql.NullInt64
	)
	err := s.db.QueryRow(
		`SELECT
			ch.change_number,
			ch.change_patchset,
			ch.change_commit_id,
			co.commit_change_id,
			co.commit_picked_from,
			co.commit_flags
		FROM changes AS ch
		LEFT JOIN commits AS co ON co.commit_id = ch.change_commit_id
		WHERE ch.change_commit_id = ?
		ORDER BY ch.change_number, ch.change_patchset
		LIMIT 1`,
		commitID,
	).Scan(&c.Number, &c.Patchset, &c.CommitID, &changeID, &pickedFrom, &flags)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("change by commit %s: %w", commitID, err)
	}
	c.ChangeID = nullStr(changeID)
	c.CherryPickedFrom = nullStr(pickedFrom)
	c.Flags = int(flags.Int64)
	return &c, nil
}

// CherryPicksByCommit returns the commits recorded as cherry-picked from
// commitID. The result is empty, not an error, when there are none.
func (s *Store) CherryPicksByCommit(commitID string) ([]CommitMeta, error) {
	if err := s.flush(); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(
		`SELECT commit_id, commit_change_id, commit_picked_from, commit_flags
		 FROM commits
		 WHERE commit_picked_from = ?
		 ORDER BY commit_id`,
		commitID,
	)
	if err != nil {
		return nil, fmt.Errorf("cherry picks of %s: %w", commitID, err)
	}
	defer rows.Close()
	var out []CommitMeta
	for rows.Next() {
		var (
			m                    CommitMeta
			changeID, pickedFrom sql.NullString
			flags                sql.NullInt64
		)
		if err := rows.Scan(&m.CommitID, &changeID, &pickedFrom, &flags); err != nil {
			return nil, fmt.Errorf("scan cherry pick: %w", err)
		}
		m.ChangeID = nullStr(changeID)
		m.PickedFrom = nullStr(pickedFrom)
		m.Flags = int(flags.Int64)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cherry picks of %s: %w", commitID, err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCurrentPatchset(r rowScanner) (CurrentPatchset, error) {
	var (
		c                    CurrentPatchset
		changeID, pickedFrom sql.NullString
		flags                sql.NullInt64
	)
	err := r.Scan(&c.Number, &c.CurrentPatchset, &c.CommitID, &changeID, &pickedFrom, &flags)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, err
		}
		return c, fmt.Errorf("scan current patchset: %w", err)
	}
	c.ChangeID = nullStr(changeID)
	c.CherryPickedFrom = nullStr(pickedFrom)
	c.Flags = int(flags.Int64)
	return c, nil
}

// nullStr converts a sql.NullString to a plain string (empty if null).
func nullStr(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// nilIfEmpty maps "" to NULL for nullable text columns.
func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
