package api

import "github.com/starford/ansuz/internal/filing"

// SubmitSnippetRequest is the request body for submitting a snippet.
type SubmitSnippetRequest struct {
	Text  string `json:"text" example:"Discuss budget with finance" validate:"required"`
	Title string `json:"title,omitempty" example:"Meeting notes"`
}

// UpdateSnippetRequest is the request body for updating a snippet.
type UpdateSnippetRequest struct {
	Text string `json:"text" example:"Revised snippet text" validate:"required"`
}

// MoveSnippetRequest is the request body for moving a snippet.
type MoveSnippetRequest struct {
	TargetDocumentID int64 `json:"target_document_id" example:"3" validate:"required"`
}

// FilingResult reports where a snippet was filed (aliased from the domain layer).
type FilingResult = filing.Result

// DocumentDetail is the full document response type (aliased from the domain layer).
type DocumentDetail = filing.DocumentDetail

// DocumentListResponse wraps the full corpus keyed by document name.
type DocumentListResponse struct {
	Documents map[string][]string `json:"documents" validate:"required"`
}
