package store

// DefaultName is the cache database file name, created inside the
// repository's .git directory.
const DefaultName = "git-gerrit.db"

// magic is stamped into the SQLite application_id pragma when the database
// is created, and verified on every subsequent open. It guards against
// opening an unrelated file that happens to live at the same path. ("gitg")
const magic = 0x67697467

// migrations holds one DDL script per schema version. Script i migrates a
// database at user_version i to user_version i+1. Append only; never edit
// a released script.
var migrations = []string{
	`
	CREATE TABLE changes (
		change_number INTEGER,
		change_patchset INTEGER,
		change_commit_id TEXT NOT NULL, /* Not unique */
		PRIMARY KEY (change_number, change_patchset)
	);
	CREATE TABLE commits (
		commit_id TEXT PRIMARY KEY, /* Git object id, e.g. SHA-1 */
		commit_change_id TEXT,      /* Not unique, may be NULL */
		commit_picked_from TEXT,    /* Not unique, may be NULL */
		commit_flags INTEGER
	);
	`,
}
