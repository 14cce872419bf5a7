// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Ansuz tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/filing"
)

// Server wraps the MCP server with Ansuz tools.
type Server struct {
	mcp *server.MCPServer
	svc *filing.Service
}

// New creates a new MCP server with all Ansuz tools registered.
func New(svc *filing.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("submit_snippet",
		mcp.WithDescription("Submit a free-text snippet for auto-filing. The engine scores it "+
			"against every existing document and appends it to the best match, or starts a new "+
			"document when nothing is similar enough. Pass a title to file it explicitly."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The snippet text")),
		mcp.WithString("title", mcp.Description("Optional document title to file into directly")),
	), s.submitSnippet)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read a document and all its snippets by name."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Document name")),
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List every document with its snippet texts."),
	), s.listDocuments)

	s.mcp.AddTool(mcp.NewTool("mark_document",
		mcp.WithDescription("Pin a document so every untitled submission is filed into it, "+
			"bypassing similarity scoring."),
		mcp.WithString("document_id", mcp.Required(), mcp.Description("Numeric document id")),
	), s.markDocument)

	s.mcp.AddTool(mcp.NewTool("delete_snippet",
		mcp.WithDescription("Delete a snippet. The owning document is removed too when the "+
			"snippet was its last."),
		mcp.WithString("snippet_id", mcp.Required(), mcp.Description("Numeric snippet id")),
	), s.deleteSnippet)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) submitSnippet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title := ""
	if v, err := req.RequireString("title"); err == nil {
		title = v
	}

	res, err := s.svc.Submit(ctx, text, title)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if res == nil {
		return mcp.NewToolResultText("nothing filed: snippet is empty"), nil
	}
	verb := "appended to"
	if res.Created {
		verb = "created"
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s document %q (id %d)", verb, res.DocumentName, res.DocumentID)), nil
}

func (s *Server) readDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.svc.Document(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", name)), nil
	}
	out, _ := json.MarshalIndent(doc, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, err := s.svc.Snippets(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(docs, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) markDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return mcp.NewToolResultError(fmt.Sprintf("invalid document id: %s", raw)), nil
	}
	if err := s.svc.MarkDocument(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("marked document %d", id)), nil
}

func (s *Server) deleteSnippet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("snippet_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return mcp.NewToolResultError(fmt.Sprintf("invalid snippet id: %s", raw)), nil
	}
	if err := s.svc.DeleteSnippet(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted snippet %d", id)), nil
}
