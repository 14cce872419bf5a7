package index

import "fmt"

// CorpusTerms rebuilds the per-document term lists from the inverted index.
// Each document carries the union of its snippets' terms (a term contributes
// once per document regardless of how many snippets mention it).
func (db *DB) CorpusTerms() (map[string][]string, error) {
	return db.corpusLists(`
		SELECT DISTINCT documents.name, terms.term FROM terms
		JOIN snippets ON snippets.id = terms.snippet_id
		JOIN documents ON documents.id = snippets.document_id`)
}

// CorpusPhrases rebuilds the per-document phrase lists from the inverted index.
func (db *DB) CorpusPhrases() (map[string][]string, error) {
	return db.corpusLists(`
		SELECT DISTINCT documents.name, phrases.phrase FROM phrases
		JOIN snippets ON snippets.id = phrases.snippet_id
		JOIN documents ON documents.id = snippets.document_id`)
}

func (db *DB) corpusLists(query string) (map[string][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("index: load corpus: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		out[name] = append(out[name], value)
	}
	return out, rows.Err()
}

// AllSnippets returns every document's snippet texts keyed by document name,
// in insertion order.
func (db *DB) AllSnippets() (map[string][]string, error) {
	rows, err := db.conn.Query(`
		SELECT documents.name, snippets.body FROM snippets
		JOIN documents ON documents.id = snippets.document_id
		ORDER BY snippets.id`)
	if err != nil {
		return nil, fmt.Errorf("index: all snippets: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var name, body string
		if err := rows.Scan(&name, &body); err != nil {
			return nil, err
		}
		out[name] = append(out[name], body)
	}
	return out, rows.Err()
}
