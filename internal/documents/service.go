package documents

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"document-backend/internal/shared/storage/object"
	"document-backend/internal/shared/telemetry"
)

// maxBatchFiles caps how many files one batch upload may carry.
const maxBatchFiles = 10

// JobSubmitter enqueues a background extraction attempt for a document.
// Submission is fire-and-forget; the caller never waits on the result.
type JobSubmitter interface {
	Submit(documentID string)
}

// UploadInput is one candidate file in an upload request.
type UploadInput struct {
	Name     string // display name; defaults to FileName
	FileName string // actual uploaded file name, source of the file type
	Size     int64
	Body     io.Reader
}

// Service contains business logic for documents.
type Service struct {
	Store        object.ObjectStore
	Repo         Repo
	Jobs         JobSubmitter
	MaxFileSize  int64
	AllowedTypes []string
}

// Upload validates, stores, and records a single file, then submits the
// extraction job. Validation violations are returned without creating any
// record or job.
func (s *Service) Upload(ctx context.Context, in UploadInput) (Document, []string, error) {
	if in.FileName == "" || in.Body == nil {
		return Document{}, nil, ErrInvalidInput
	}

	if violations := ValidateFile(in.FileName, in.Size, s.MaxFileSize, s.AllowedTypes); len(violations) > 0 {
		return Document{}, violations, ErrValidation
	}

	return s.admit(ctx, in)
}

// UploadBatch validates every file before admitting any of them, so a
// single bad file rejects the whole batch with per-file violations.
// Admitted documents each get their own independent extraction job.
func (s *Service) UploadBatch(ctx context.Context, files []UploadInput) ([]Document, []string, error) {
	if len(files) == 0 {
		return nil, nil, ErrInvalidInput
	}
	if len(files) > maxBatchFiles {
		return nil, nil, ErrInvalidInput
	}

	var violations []string
	for _, in := range files {
		if in.FileName == "" || in.Body == nil {
			return nil, nil, ErrInvalidInput
		}
		for _, v := range ValidateFile(in.FileName, in.Size, s.MaxFileSize, s.AllowedTypes) {
			violations = append(violations, "file '"+in.FileName+"': "+v)
		}
	}
	if len(violations) > 0 {
		return nil, violations, ErrValidation
	}

	docs := make([]Document, 0, len(files))
	for _, in := range files {
		doc, _, err := s.admit(ctx, in)
		if err != nil {
			return docs, nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil, nil
}

// admit persists the bytes, creates the pending record with file type and
// size recomputed from the stored file, and enqueues the extraction job.
func (s *Service) admit(ctx context.Context, in UploadInput) (Document, []string, error) {
	fileType := FileTypeFromName(in.FileName)

	storageKey, written, err := s.Store.Save(ctx, fileType, in.FileName, in.Body)
	if err != nil {
		return Document{}, nil, err
	}

	name := in.Name
	if name == "" {
		name = in.FileName
	}

	doc := Document{
		ID:               uuid.NewString(),
		Name:             name,
		FileType:         fileType,
		FileSize:         written,
		StorageKey:       storageKey,
		ProcessingStatus: StatusPending,
		UploadTime:       time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		if delErr := s.Store.Delete(ctx, storageKey); delErr != nil {
			telemetry.Warn("document.orphan_bytes", map[string]any{
				"storage_key": storageKey,
				"err":         delErr.Error(),
			})
		}
		return Document{}, nil, err
	}

	if s.Jobs != nil {
		s.Jobs.Submit(doc.ID)
	}

	return doc, nil, nil
}

// Get returns a document by ID.
func (s *Service) Get(ctx context.Context, documentID string) (Document, error) {
	if documentID == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, documentID)
}

// List returns documents matching the filter, newest-first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Document, error) {
	return s.Repo.List(ctx, filter)
}

// Open returns the document and a reader over its original bytes.
func (s *Service) Open(ctx context.Context, documentID string) (Document, io.ReadCloser, error) {
	doc, err := s.Get(ctx, documentID)
	if err != nil {
		return Document{}, nil, err
	}
	body, err := s.Store.Open(ctx, doc.StorageKey)
	if err != nil {
		return Document{}, nil, err
	}
	return doc, body, nil
}

// Delete removes the record and then makes a best-effort attempt to remove
// the stored bytes; a storage failure never blocks record deletion. The
// deleted row acts as a tombstone for any in-flight extraction job.
func (s *Service) Delete(ctx context.Context, documentID string) error {
	doc, err := s.Get(ctx, documentID)
	if err != nil {
		return err
	}

	if err := s.Repo.Delete(ctx, documentID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.Store.Delete(ctx, doc.StorageKey); err != nil {
		telemetry.Warn("document.delete_bytes_failed", map[string]any{
			"document_id": documentID,
			"storage_key": doc.StorageKey,
			"err":         err.Error(),
		})
	}

	return nil
}
