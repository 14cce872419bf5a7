package index

// SnippetIndex defines the interface for the persistence layer. Consumers
// should depend on this interface rather than the concrete *DB type to
// facilitate testing with mocks.
type SnippetIndex interface {
	AddDocument(name, body string, terms, phrases []string) (int64, bool, error)
	UpdateSnippet(id int64, body string, terms, phrases []string) error
	DeleteSnippet(id int64) error
	DeleteDocument(id int64) error
	MoveSnippet(snippetID, targetDocID int64) error
	SetMarked(id int64) error
	SetLatest(id int64) error
	Snippet(id int64) (*SnippetRow, error)
	Document(name string) (*DocumentSnippets, error)
	DocumentByID(id int64) (*DocumentSnippets, error)
	Marked() (*DocumentSnippets, error)
	Latest() (*DocumentSnippets, error)
	CorpusTerms() (map[string][]string, error)
	CorpusPhrases() (map[string][]string, error)
	AllSnippets() (map[string][]string, error)
	Close() error
}

// Verify *DB satisfies SnippetIndex at compile time.
var _ SnippetIndex = (*DB)(nil)
