package filing

import (
	"context"
	"errors"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/testutil"
)

func testConfig() Config {
	return Config{CosineWeight: 0.6, Threshold: 0.4, RecencyBias: 0.25}
}

func testService(t *testing.T) *Service {
	t.Helper()
	return NewService(testutil.TestDB(t), testConfig(), nil)
}

func TestSubmit_EmptySnippetIsNoop(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	res, err := svc.Submit(ctx, "   \n  ", "")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res != nil {
		t.Errorf("empty submit should return nil result, got %+v", res)
	}
	all, _ := svc.Snippets(ctx)
	if len(all) != 0 {
		t.Errorf("corpus should be untouched, got %v", all)
	}
}

func TestSubmit_EmptyCorpusNamesFromFirstLine(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	res, err := svc.Submit(ctx, "Meeting notes\nDiscuss budget", "")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.DocumentName != "Meeting notes" {
		t.Errorf("document name = %q, want %q", res.DocumentName, "Meeting notes")
	}
	if !res.Created {
		t.Error("first submission should create a document")
	}

	doc, err := svc.Document(ctx, "Meeting notes")
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if len(doc.Snippets) != 1 {
		t.Fatalf("expected 1 snippet, got %d", len(doc.Snippets))
	}
}

func TestSubmit_ExplicitTitleAppendsToExisting(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	first, _ := svc.Submit(ctx, "budget forecast numbers", "Budget")
	second, err := svc.Submit(ctx, "completely unrelated pasta recipe", "Budget")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if second.Created {
		t.Error("submitting with an existing title should append, not create")
	}
	if second.DocumentID != first.DocumentID {
		t.Errorf("document id = %d, want %d", second.DocumentID, first.DocumentID)
	}

	doc, _ := svc.Document(ctx, "Budget")
	if len(doc.Snippets) != 2 {
		t.Errorf("expected 2 snippets under Budget, got %d", len(doc.Snippets))
	}
}

func TestSubmit_MarkedDocumentBypassesSimilarity(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	res, _ := svc.Submit(ctx, "brainstorm ideas", "Ideas")
	if err := svc.MarkDocument(ctx, res.DocumentID); err != nil {
		t.Fatalf("MarkDocument: %v", err)
	}

	// Totally dissimilar text still lands in the pinned document.
	filed, err := svc.Submit(ctx, "quarterly tax filing deadline", "")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if filed.DocumentName != "Ideas" {
		t.Errorf("filed into %q, want Ideas", filed.DocumentName)
	}

	latest, err := svc.db.Latest()
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.Name != "Ideas" {
		t.Errorf("latest = %q, want Ideas", latest.Name)
	}
}

func TestSubmit_BelowThresholdCreatesNewDocument(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	// Single-document corpus: idf is ln(1/1)=0 everywhere, so cosine is 0,
	// and the snippet shares no keywords, so Jaccard is 0 too.
	_, _ = svc.Submit(ctx, "budget forecast numbers", "Budget")

	res, err := svc.Submit(ctx, "Grocery list\nmilk eggs flour", "")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.DocumentName != "Grocery list" {
		t.Errorf("filed into %q, want new document Grocery list", res.DocumentName)
	}
	if !res.Created {
		t.Error("below-threshold submission should create a new document")
	}
}

func TestSubmit_AboveThresholdAppends(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	_, _ = svc.Submit(ctx, "budget forecast numbers", "Budget")
	_, _ = svc.Submit(ctx, "pasta cooking recipe", "Recipes")

	// Heavy term and keyword overlap with Budget.
	res, err := svc.Submit(ctx, "new budget forecast numbers", "")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.DocumentName != "Budget" {
		t.Errorf("filed into %q, want Budget", res.DocumentName)
	}
	if res.Created {
		t.Error("above-threshold submission should append to the existing document")
	}

	latest, _ := svc.db.Latest()
	if latest.Name != "Budget" {
		t.Errorf("latest = %q, want Budget", latest.Name)
	}
}

func TestSubmit_DuplicateTextIsIdempotent(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	_, _ = svc.Submit(ctx, "same snippet text", "Doc")
	_, err := svc.Submit(ctx, "same snippet text", "Doc")
	if err != nil {
		t.Fatalf("duplicate submit: %v", err)
	}
	doc, _ := svc.Document(ctx, "Doc")
	if len(doc.Snippets) != 1 {
		t.Errorf("expected 1 snippet after duplicate submit, got %d", len(doc.Snippets))
	}
}

func TestUpdate_ReplacesText(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	_, _ = svc.Submit(ctx, "original snippet text", "Doc")
	doc, _ := svc.Document(ctx, "Doc")
	sid := doc.Snippets[0].SnippetID

	if err := svc.Update(ctx, sid, "revised snippet text"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	doc, _ = svc.Document(ctx, "Doc")
	if doc.Snippets[0].Text != "revised snippet text" {
		t.Errorf("text = %q, want revised", doc.Snippets[0].Text)
	}
}

func TestUpdate_EmptyTextDeletes(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	_, _ = svc.Submit(ctx, "only snippet", "Doc")
	doc, _ := svc.Document(ctx, "Doc")

	if err := svc.Update(ctx, doc.Snippets[0].SnippetID, ""); err != nil {
		t.Fatalf("Update to empty: %v", err)
	}
	if _, err := svc.Document(ctx, "Doc"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("document should be cascade-deleted, got %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := testService(t)
	if err := svc.Update(context.Background(), 42, "text"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMarked_NonePinned(t *testing.T) {
	svc := testService(t)
	if _, err := svc.Marked(context.Background()); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSnippets_GroupsByDocument(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	_, _ = svc.Submit(ctx, "first entry", "Log")
	_, _ = svc.Submit(ctx, "second entry", "Log")
	_, _ = svc.Submit(ctx, "other text", "Other")

	all, err := svc.Snippets(ctx)
	if err != nil {
		t.Fatalf("Snippets: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(all))
	}
	if len(all["Log"]) != 2 || all["Log"][0] != "first entry" {
		t.Errorf("Log snippets = %v", all["Log"])
	}
}

func TestEvents_PublishedOnMutation(t *testing.T) {
	db := testutil.TestDB(t)
	var kinds []string
	svc := NewService(db, testConfig(), func(kind, _ string) {
		kinds = append(kinds, kind)
	})
	ctx := context.Background()

	res, _ := svc.Submit(ctx, "some text", "Doc")
	_, _ = svc.Submit(ctx, "more text", "Doc")
	_ = svc.DeleteDocument(ctx, res.DocumentID)

	want := []string{"document.created", "document.appended", "document.deleted"}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event[%d] = %q, want %q", i, kinds[i], want[i])
		}
	}
}
