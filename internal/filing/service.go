// Package filing implements the auto-filing decision procedure: given a raw
// snippet and an optional title, it decides which document the snippet
// belongs to, honoring the pinned and most-recent overrides, and mutates
// the index store accordingly.
package filing

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/rake"
	"github.com/starford/ansuz/internal/similarity"
	"github.com/starford/ansuz/internal/textproc"
	"github.com/starford/ansuz/internal/tfidf"
)

// Config holds the scoring knobs, loaded once at startup and immutable.
type Config struct {
	// CosineWeight blends the lexical-overlap signal against the
	// keyword-overlap signal.
	CosineWeight float64
	// Threshold is the minimum combined score required to auto-file into an
	// existing document.
	Threshold float64
	// RecencyBias is the bonus added to the last-touched document.
	RecencyBias float64
}

// EventCallback is called after a successful storage mutation. kind is one of
// "document.created", "document.appended", "snippet.updated",
// "snippet.deleted", "document.deleted", "document.marked", "snippet.moved".
type EventCallback func(kind, documentName string)

// Result reports where a submitted snippet was filed.
type Result struct {
	DocumentID   int64  `json:"document_id"`
	DocumentName string `json:"document_name"`
	Created      bool   `json:"created"`
}

// DocumentDetail is a document with its snippets, for the presentation layer.
type DocumentDetail struct {
	DocumentID   int64          `json:"document_id"`
	DocumentName string         `json:"document_name"`
	Snippets     []SnippetEntry `json:"snippets"`
}

// SnippetEntry is one snippet within a DocumentDetail.
type SnippetEntry struct {
	SnippetID int64  `json:"snippet_id"`
	Text      string `json:"text"`
}

// Service coordinates normalization, scoring, and the index store.
//
// The whole load-corpus -> score -> decide -> mutate sequence for a
// submission runs under mu, so concurrent submissions cannot file against a
// stale ranking or race to create the same document.
type Service struct {
	db   index.SnippetIndex
	stop textproc.Stopwords
	cfg  Config
	cb   EventCallback

	mu sync.Mutex
}

// NewService creates a filing service. cb may be nil.
func NewService(db index.SnippetIndex, cfg Config, cb EventCallback) *Service {
	return &Service{
		db:   db,
		stop: textproc.DefaultStopwords(),
		cfg:  cfg,
		cb:   cb,
	}
}

func (s *Service) publish(kind, name string) {
	if s.cb != nil {
		s.cb(kind, name)
	}
}

// Submit files a snippet. Decision order:
//
//  1. empty snippet: no-op, returns (nil, nil);
//  2. explicit title: append there, creating the document if needed;
//  3. a marked document exists: force-append, similarity bypassed;
//  4. empty corpus: new document named after the snippet's first line;
//  5. otherwise rank candidates; top score >= threshold appends, anything
//     less starts a new document from the first line.
//
// Every filing branch inserts the snippet's term/phrase rows and makes the
// target document the new "latest".
func (s *Service) Submit(_ context.Context, text, title string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	terms := textproc.Tokens(text, s.stop)
	phrases := textproc.Phrases(text, s.stop)

	name := strings.TrimSpace(title)
	if name == "" {
		marked, err := s.db.Marked()
		switch {
		case err == nil:
			name = marked.Name
		case errors.Is(err, apperr.ErrNotFound):
			// No pin; fall through to similarity.
		default:
			return nil, err
		}
	}
	if name == "" {
		target, err := s.classify(text, terms, phrases)
		if err != nil {
			return nil, err
		}
		name = target
	}

	docID, created, err := s.db.AddDocument(name, text, terms, phrases)
	if err != nil {
		return nil, err
	}
	if err := s.db.SetLatest(docID); err != nil {
		return nil, err
	}

	kind := "document.appended"
	if created {
		kind = "document.created"
	}
	s.publish(kind, name)
	return &Result{DocumentID: docID, DocumentName: name, Created: created}, nil
}

// classify ranks the corpus against the snippet and picks a destination:
// the best-scoring document when it clears the threshold, otherwise a new
// document named after the snippet's first line.
func (s *Service) classify(text string, terms, phrases []string) (string, error) {
	corpusTerms, err := s.db.CorpusTerms()
	if err != nil {
		return "", err
	}
	corpusPhrases, err := s.db.CorpusPhrases()
	if err != nil {
		return "", err
	}
	if len(corpusTerms) == 0 && len(corpusPhrases) == 0 {
		return textproc.FirstLine(text), nil
	}

	var latestName string
	latest, err := s.db.Latest()
	switch {
	case err == nil:
		latestName = latest.Name
	case errors.Is(err, apperr.ErrNotFound):
	default:
		return "", err
	}

	ranked := similarity.Rank(
		tfidf.DocumentVector(terms, corpusTerms),
		rake.Score(phrases),
		tfidf.CorpusVectors(corpusTerms),
		rake.CorpusScores(corpusPhrases),
		latestName,
		similarity.Weights{Cosine: s.cfg.CosineWeight, RecencyBias: s.cfg.RecencyBias},
	)
	if len(ranked) > 0 && ranked[0].Score >= s.cfg.Threshold {
		return ranked[0].Name, nil
	}
	return textproc.FirstLine(text), nil
}

// Update replaces a snippet's text, re-normalizing and rebuilding its index
// rows. An edit to empty text deletes the snippet instead (cascading to the
// document when it was the last one).
func (s *Service) Update(ctx context.Context, snippetID int64, text string) error {
	if strings.TrimSpace(text) == "" {
		return s.DeleteSnippet(ctx, snippetID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	terms := textproc.Tokens(text, s.stop)
	phrases := textproc.Phrases(text, s.stop)
	if err := s.db.UpdateSnippet(snippetID, text, terms, phrases); err != nil {
		return err
	}
	s.publish("snippet.updated", "")
	return nil
}

// DeleteSnippet removes a snippet; the owning document goes too when the
// snippet was its last.
func (s *Service) DeleteSnippet(_ context.Context, snippetID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DeleteSnippet(snippetID); err != nil {
		return err
	}
	s.publish("snippet.deleted", "")
	return nil
}

// DeleteDocument removes a document and every snippet under it.
func (s *Service) DeleteDocument(_ context.Context, documentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DeleteDocument(documentID); err != nil {
		return err
	}
	s.publish("document.deleted", "")
	return nil
}

// MoveSnippet reassigns a snippet to another document without rescoring.
func (s *Service) MoveSnippet(_ context.Context, snippetID, targetDocumentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.MoveSnippet(snippetID, targetDocumentID); err != nil {
		return err
	}
	s.publish("snippet.moved", "")
	return nil
}

// MarkDocument pins a document so untitled submissions are forced into it.
func (s *Service) MarkDocument(_ context.Context, documentID int64) error {
	if err := s.db.SetMarked(documentID); err != nil {
		return err
	}
	doc, err := s.db.DocumentByID(documentID)
	if err != nil {
		return err
	}
	s.publish("document.marked", doc.Name)
	return nil
}

// Marked returns the pinned document, or apperr.ErrNotFound when none is.
func (s *Service) Marked(_ context.Context) (*DocumentDetail, error) {
	doc, err := s.db.Marked()
	if err != nil {
		return nil, err
	}
	return toDetail(doc), nil
}

// Document returns a document and its snippets by name.
func (s *Service) Document(_ context.Context, name string) (*DocumentDetail, error) {
	doc, err := s.db.Document(name)
	if err != nil {
		return nil, err
	}
	return toDetail(doc), nil
}

// Snippets returns every document's snippet texts keyed by document name.
func (s *Service) Snippets(_ context.Context) (map[string][]string, error) {
	return s.db.AllSnippets()
}

func toDetail(doc *index.DocumentSnippets) *DocumentDetail {
	detail := &DocumentDetail{
		DocumentID:   doc.ID,
		DocumentName: doc.Name,
		Snippets:     make([]SnippetEntry, len(doc.Snippets)),
	}
	for i, s := range doc.Snippets {
		detail.Snippets[i] = SnippetEntry{SnippetID: s.ID, Text: s.Body}
	}
	return detail
}
