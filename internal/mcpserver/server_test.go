package mcpserver

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/ansuz/internal/filing"
	"github.com/starford/ansuz/internal/testutil"
)

func testServer(t *testing.T) (*Server, *filing.Service) {
	t.Helper()

	db := testutil.TestDB(t)
	svc := filing.NewService(db, filing.Config{CosineWeight: 0.6, Threshold: 0.4, RecencyBias: 0.25}, nil)
	return New(svc), svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we call the
	// handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "submit_snippet":
		result, err = srv.submitSnippet(ctx, req)
	case "read_document":
		result, err = srv.readDocument(ctx, req)
	case "list_documents":
		result, err = srv.listDocuments(ctx, req)
	case "mark_document":
		result, err = srv.markDocument(ctx, req)
	case "delete_snippet":
		result, err = srv.deleteSnippet(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestSubmitAndReadDocument(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "submit_snippet", map[string]interface{}{
		"text":  "Discuss budget with finance",
		"title": "Meeting notes",
	})
	text := resultText(r)
	if !strings.Contains(text, `created document "Meeting notes"`) {
		t.Errorf("submit result = %q", text)
	}

	r = callTool(t, srv, "read_document", map[string]interface{}{
		"name": "Meeting notes",
	})
	text = resultText(r)
	if !strings.Contains(text, "Discuss budget with finance") {
		t.Errorf("read result = %q", text)
	}
}

func TestSubmitEmptySnippet(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "submit_snippet", map[string]interface{}{"text": "  \n "})
	if resultText(r) != "nothing filed: snippet is empty" {
		t.Errorf("result = %q", resultText(r))
	}
}

func TestListDocuments(t *testing.T) {
	srv, _ := testServer(t)
	_ = callTool(t, srv, "submit_snippet", map[string]interface{}{"text": "a", "title": "A"})
	_ = callTool(t, srv, "submit_snippet", map[string]interface{}{"text": "b", "title": "B"})

	r := callTool(t, srv, "list_documents", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, `"A"`) || !strings.Contains(text, `"B"`) {
		t.Errorf("list result = %q", text)
	}
}

func TestReadDocumentMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_document", map[string]interface{}{"name": "Nope"})
	if !r.IsError {
		t.Error("expected error for missing document")
	}
}

func TestMarkDocumentForcesFiling(t *testing.T) {
	srv, svc := testServer(t)

	res, _ := svc.Submit(context.Background(), "brainstorm ideas", "Ideas")
	r := callTool(t, srv, "mark_document", map[string]interface{}{
		"document_id": strconv.FormatInt(res.DocumentID, 10),
	})
	if r.IsError {
		t.Fatalf("mark failed: %q", resultText(r))
	}

	// Untitled submission lands in the pinned document.
	r = callTool(t, srv, "submit_snippet", map[string]interface{}{"text": "totally unrelated text"})
	if !strings.Contains(resultText(r), `"Ideas"`) {
		t.Errorf("submit after mark = %q", resultText(r))
	}
}

func TestMarkDocumentInvalidID(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "mark_document", map[string]interface{}{"document_id": "abc"})
	if !r.IsError {
		t.Error("expected error for non-numeric id")
	}
}

func TestDeleteSnippet(t *testing.T) {
	srv, svc := testServer(t)

	_, _ = svc.Submit(context.Background(), "only snippet", "Doc")
	doc, _ := svc.Document(context.Background(), "Doc")

	r := callTool(t, srv, "delete_snippet", map[string]interface{}{
		"snippet_id": strconv.FormatInt(doc.Snippets[0].SnippetID, 10),
	})
	if r.IsError {
		t.Fatalf("delete failed: %q", resultText(r))
	}

	r = callTool(t, srv, "read_document", map[string]interface{}{"name": "Doc"})
	if !r.IsError {
		t.Error("document should be gone after its last snippet is deleted")
	}
}
