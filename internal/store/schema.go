// Package store persists serialized bank state in SQLite. The store treats
// state as an opaque blob; it never decodes what it saves.
package store

// Schema creates the tables the store uses.
const Schema = `
-- Current state per key.
CREATE TABLE IF NOT EXISTS state (
    key TEXT PRIMARY KEY,
    data TEXT NOT NULL,
    saved_at TEXT NOT NULL           -- RFC 3339
);

-- Rolling backups, newest has the highest id.
CREATE TABLE IF NOT EXISTS backups (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    key TEXT NOT NULL,
    data TEXT NOT NULL,
    backup_type TEXT NOT NULL,       -- 'auto' or 'restore'
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_backups_key
    ON backups(key, id);
`
