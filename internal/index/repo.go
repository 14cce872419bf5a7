package index

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/ansuz/internal/apperr"
)

// DocumentRow represents a row in the documents table.
type DocumentRow struct {
	ID     int64
	Name   string
	Marked bool
	Latest bool
}

// SnippetRow represents a row in the snippets table.
type SnippetRow struct {
	ID         int64
	Body       string
	DocumentID int64
}

// DocumentSnippets is a document together with its snippets in insertion order.
type DocumentSnippets struct {
	ID       int64
	Name     string
	Marked   bool
	Latest   bool
	Snippets []SnippetRow
}

// AddDocument files a snippet under the named document, creating the document
// if the name is unused, and inserts the snippet's inverted-index rows, all
// in one transaction. Appending identical text to the same document is a
// silent no-op. Returns the resolved document id and whether the document was
// created by this call.
func (db *DB) AddDocument(name, body string, terms, phrases []string) (int64, bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, false, fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	var docID int64
	created := false
	err = tx.QueryRow(`SELECT id FROM documents WHERE name = ?`, name).Scan(&docID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, insErr := tx.Exec(`INSERT INTO documents (name) VALUES (?)`, name)
		if insErr != nil {
			return 0, false, fmt.Errorf("index: insert document: %w", insErr)
		}
		docID, insErr = res.LastInsertId()
		if insErr != nil {
			return 0, false, fmt.Errorf("index: document id: %w", insErr)
		}
		created = true
	case err != nil:
		return 0, false, fmt.Errorf("index: lookup document: %w", err)
	}

	if err := insertSnippet(tx, docID, body, terms, phrases); err != nil {
		return 0, false, err
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("index: commit: %w", err)
	}
	return docID, created, nil
}

// insertSnippet inserts a snippet under an already-resolved document and its
// term/phrase rows. A duplicate (body, document) pair leaves the existing
// snippet and its index rows untouched.
func insertSnippet(tx *sql.Tx, docID int64, body string, terms, phrases []string) error {
	res, err := tx.Exec(`INSERT OR IGNORE INTO snippets (body, document_id) VALUES (?, ?)`, body, docID)
	if err != nil {
		return fmt.Errorf("index: insert snippet: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("index: rows affected: %w", err)
	}
	if affected == 0 {
		return nil
	}
	snippetID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("index: snippet id: %w", err)
	}
	return insertIndexRows(tx, snippetID, terms, phrases)
}

func insertIndexRows(tx *sql.Tx, snippetID int64, terms, phrases []string) error {
	if len(terms) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO terms (term, snippet_id) VALUES (?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare term insert: %w", err)
		}
		defer stmt.Close()
		for _, term := range terms {
			if _, err := stmt.Exec(term, snippetID); err != nil {
				return fmt.Errorf("index: insert term: %w", err)
			}
		}
	}
	if len(phrases) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO phrases (phrase, snippet_id) VALUES (?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare phrase insert: %w", err)
		}
		defer stmt.Close()
		for _, phrase := range phrases {
			if _, err := stmt.Exec(phrase, snippetID); err != nil {
				return fmt.Errorf("index: insert phrase: %w", err)
			}
		}
	}
	return nil
}

// UpdateSnippet replaces a snippet's text and index rows (delete-then-reinsert).
// Returns apperr.ErrNotFound when the snippet id does not exist.
func (db *DB) UpdateSnippet(id int64, body string, terms, phrases []string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var docID int64
	if err := tx.QueryRow(`SELECT document_id FROM snippets WHERE id = ?`, id).Scan(&docID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.ErrNotFound
		}
		return fmt.Errorf("index: lookup snippet: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM terms WHERE snippet_id = ?`, id); err != nil {
		return fmt.Errorf("index: delete terms: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM phrases WHERE snippet_id = ?`, id); err != nil {
		return fmt.Errorf("index: delete phrases: %w", err)
	}
	if _, err := tx.Exec(`UPDATE snippets SET body = ? WHERE id = ?`, body, id); err != nil {
		return fmt.Errorf("index: update snippet: %w", err)
	}
	if err := insertIndexRows(tx, id, terms, phrases); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteSnippet removes a snippet and its index rows. When the owning
// document is left with zero snippets the document is deleted too.
func (db *DB) DeleteSnippet(id int64) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := deleteSnippetTx(tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteSnippetTx(tx *sql.Tx, id int64) error {
	var docID int64
	if err := tx.QueryRow(`SELECT document_id FROM snippets WHERE id = ?`, id).Scan(&docID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.ErrNotFound
		}
		return fmt.Errorf("index: lookup snippet: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM terms WHERE snippet_id = ?`, id); err != nil {
		return fmt.Errorf("index: delete terms: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM phrases WHERE snippet_id = ?`, id); err != nil {
		return fmt.Errorf("index: delete phrases: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM snippets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("index: delete snippet: %w", err)
	}
	return dropDocumentIfEmpty(tx, docID)
}

// dropDocumentIfEmpty enforces the invariant that a document with zero
// snippets does not exist.
func dropDocumentIfEmpty(tx *sql.Tx, docID int64) error {
	var remaining int
	if err := tx.QueryRow(`SELECT count(*) FROM snippets WHERE document_id = ?`, docID).Scan(&remaining); err != nil {
		return fmt.Errorf("index: count snippets: %w", err)
	}
	if remaining == 0 {
		if _, err := tx.Exec(`DELETE FROM documents WHERE id = ?`, docID); err != nil {
			return fmt.Errorf("index: delete empty document: %w", err)
		}
	}
	return nil
}

// DeleteDocument removes every snippet under a document, cascading through
// the same path as DeleteSnippet so index rows and the document row go too.
func (db *DB) DeleteDocument(id int64) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	rows, err := tx.Query(`SELECT id FROM snippets WHERE document_id = ?`, id)
	if err != nil {
		return fmt.Errorf("index: list snippets: %w", err)
	}
	var snippetIDs []int64
	for rows.Next() {
		var sid int64
		if err := rows.Scan(&sid); err != nil {
			rows.Close()
			return err
		}
		snippetIDs = append(snippetIDs, sid)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	if len(snippetIDs) == 0 {
		// Zero-snippet documents cannot normally exist; remove the row if
		// one somehow does, otherwise report not found.
		res, execErr := tx.Exec(`DELETE FROM documents WHERE id = ?`, id)
		if execErr != nil {
			return fmt.Errorf("index: delete document: %w", execErr)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperr.ErrNotFound
		}
		return tx.Commit()
	}

	for _, sid := range snippetIDs {
		if err := deleteSnippetTx(tx, sid); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SetMarked pins a document: the previous holder is cleared and the given
// document becomes the single marked one. Idempotent.
func (db *DB) SetMarked(id int64) error {
	return db.setFlag("marked", id)
}

// SetLatest records a document as the last one written to, clearing the
// previous holder. Idempotent.
func (db *DB) SetLatest(id int64) error {
	return db.setFlag("latest", id)
}

func (db *DB) setFlag(column string, id int64) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// column is always one of "marked"/"latest"; never user input.
	if _, err := tx.Exec(`UPDATE documents SET ` + column + ` = 0 WHERE ` + column + ` = 1`); err != nil {
		return fmt.Errorf("index: clear %s: %w", column, err)
	}
	res, err := tx.Exec(`UPDATE documents SET `+column+` = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("index: set %s: %w", column, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return tx.Commit()
}

// MoveSnippet reassigns a snippet to another document. Its term/phrase rows
// travel with it through the snippet id, so the inverted index stays
// consistent without recomputation. An emptied source document is removed.
func (db *DB) MoveSnippet(snippetID, targetDocID int64) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var sourceDocID int64
	if err := tx.QueryRow(`SELECT document_id FROM snippets WHERE id = ?`, snippetID).Scan(&sourceDocID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.ErrNotFound
		}
		return fmt.Errorf("index: lookup snippet: %w", err)
	}
	var exists int
	if err := tx.QueryRow(`SELECT count(*) FROM documents WHERE id = ?`, targetDocID).Scan(&exists); err != nil {
		return fmt.Errorf("index: lookup target document: %w", err)
	}
	if exists == 0 {
		return apperr.ErrNotFound
	}
	if sourceDocID == targetDocID {
		return tx.Commit()
	}

	if _, err := tx.Exec(`UPDATE snippets SET document_id = ? WHERE id = ?`, targetDocID, snippetID); err != nil {
		return fmt.Errorf("index: move snippet: %w", err)
	}
	if err := dropDocumentIfEmpty(tx, sourceDocID); err != nil {
		return err
	}
	return tx.Commit()
}

// Snippet returns a single snippet row by id.
func (db *DB) Snippet(id int64) (*SnippetRow, error) {
	var row SnippetRow
	err := db.conn.QueryRow(`SELECT id, body, document_id FROM snippets WHERE id = ?`, id).
		Scan(&row.ID, &row.Body, &row.DocumentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get snippet: %w", err)
	}
	return &row, nil
}

// Document returns a document by name together with its ordered snippets.
func (db *DB) Document(name string) (*DocumentSnippets, error) {
	return db.documentBy(`name = ?`, name)
}

// DocumentByID returns a document by id together with its ordered snippets.
func (db *DB) DocumentByID(id int64) (*DocumentSnippets, error) {
	return db.documentBy(`id = ?`, id)
}

// Marked returns the currently pinned document, or apperr.ErrNotFound when
// no document is pinned.
func (db *DB) Marked() (*DocumentSnippets, error) {
	return db.documentBy(`marked = 1`)
}

// Latest returns the most recently written document, or apperr.ErrNotFound.
func (db *DB) Latest() (*DocumentSnippets, error) {
	return db.documentBy(`latest = 1`)
}

func (db *DB) documentBy(where string, args ...any) (*DocumentSnippets, error) {
	var doc DocumentSnippets
	err := db.conn.QueryRow(`SELECT id, name, marked, latest FROM documents WHERE `+where, args...).
		Scan(&doc.ID, &doc.Name, &doc.Marked, &doc.Latest)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get document: %w", err)
	}

	rows, err := db.conn.Query(`SELECT id, body, document_id FROM snippets WHERE document_id = ? ORDER BY id`, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("index: document snippets: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s SnippetRow
		if err := rows.Scan(&s.ID, &s.Body, &s.DocumentID); err != nil {
			return nil, err
		}
		doc.Snippets = append(doc.Snippets, s)
	}
	return &doc, rows.Err()
}
