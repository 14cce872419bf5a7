// Package index provides the SQLite-backed persistence layer: documents,
// their snippets, and the two inverted indexes (term->snippet and
// phrase->snippet) that make incremental similarity scoring possible.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	name   TEXT NOT NULL UNIQUE,
	marked INTEGER NOT NULL DEFAULT 0,
	latest INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS snippets (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	body        TEXT NOT NULL,
	document_id INTEGER NOT NULL,
	UNIQUE(body, document_id),
	FOREIGN KEY (document_id) REFERENCES documents (id)
);

CREATE TABLE IF NOT EXISTS terms (
	term       TEXT NOT NULL,
	snippet_id INTEGER NOT NULL,
	PRIMARY KEY (term, snippet_id),
	FOREIGN KEY (snippet_id) REFERENCES snippets (id)
);

CREATE TABLE IF NOT EXISTS phrases (
	phrase     TEXT NOT NULL,
	snippet_id INTEGER NOT NULL,
	PRIMARY KEY (phrase, snippet_id),
	FOREIGN KEY (snippet_id) REFERENCES snippets (id)
);

CREATE INDEX IF NOT EXISTS idx_snippets_document ON snippets(document_id);
CREATE INDEX IF NOT EXISTS idx_terms_snippet ON terms(snippet_id);
CREATE INDEX IF NOT EXISTS idx_phrases_snippet ON phrases(snippet_id);
`

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
