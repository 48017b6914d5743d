package documents

import "context"

// ListFilter narrows and pages List results.
type ListFilter struct {
	FileType string
	Status   Status
	Limit    int
	Offset   int
}

// Repo defines persistence operations for documents.
//
// UpdateStatus must write (processing_status, extracted_text, error_message)
// as one atomic update and return ErrNotFound when the document no longer
// exists, so late writes from background jobs never resurrect deleted rows.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, documentID string) (Document, error)
	List(ctx context.Context, filter ListFilter) ([]Document, error)
	UpdateStatus(ctx context.Context, documentID string, status Status, extractedText, errorMessage *string) error
	Delete(ctx context.Context, documentID string) error
}
