package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    name,
    file_type,
    file_size,
    storage_key,
    processing_status,
    extracted_text,
    error_message,
    upload_time
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	status := doc.ProcessingStatus
	if status == "" {
		status = StatusPending
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.Name,
		doc.FileType,
		doc.FileSize,
		doc.StorageKey,
		string(status),
		nullableText(doc.ExtractedText),
		nullableText(doc.ErrorMessage),
		doc.UploadTime,
	)
	return err
}

// GetByID fetches a document by ID.
func (r *PGRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	const query = `
SELECT id, name, file_type, file_size, storage_key, processing_status, extracted_text, error_message, upload_time
FROM documents
WHERE id = $1
LIMIT 1`

	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// List returns documents newest-first, optionally filtered by file type and
// processing status.
func (r *PGRepo) List(ctx context.Context, filter ListFilter) ([]Document, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var (
		conditions []string
		args       []any
	)
	if filter.FileType != "" {
		args = append(args, strings.ToLower(filter.FileType))
		conditions = append(conditions, "file_type = $"+strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, "processing_status = $"+strconv.Itoa(len(args)))
	}

	query := `
SELECT id, name, file_type, file_size, storage_key, processing_status, extracted_text, error_message, upload_time
FROM documents`
	if len(conditions) > 0 {
		query += "\nWHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, limit)
	query += "\nORDER BY upload_time DESC\nLIMIT $" + strconv.Itoa(len(args))
	args = append(args, offset)
	query += " OFFSET $" + strconv.Itoa(len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// UpdateStatus atomically writes the status triple. A vanished row yields
// ErrNotFound so the caller can drop the late write.
func (r *PGRepo) UpdateStatus(ctx context.Context, documentID string, status Status, extractedText, errorMessage *string) error {
	const query = `
UPDATE documents
SET processing_status = $2, extracted_text = $3, error_message = $4
WHERE id = $1`

	res, err := r.DB.ExecContext(ctx, query, documentID, string(status), nullableText(extractedText), nullableText(errorMessage))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a document row.
func (r *PGRepo) Delete(ctx context.Context, documentID string) error {
	const query = `DELETE FROM documents WHERE id = $1`

	res, err := r.DB.ExecContext(ctx, query, documentID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var (
		doc           Document
		status        string
		extractedText sql.NullString
		errorMessage  sql.NullString
	)
	if err := row.Scan(
		&doc.ID,
		&doc.Name,
		&doc.FileType,
		&doc.FileSize,
		&doc.StorageKey,
		&status,
		&extractedText,
		&errorMessage,
		&doc.UploadTime,
	); err != nil {
		return Document{}, err
	}
	doc.ProcessingStatus = Status(status)
	if extractedText.Valid {
		doc.ExtractedText = &extractedText.String
	}
	if errorMessage.Valid {
		doc.ErrorMessage = &errorMessage.String
	}
	return doc, nil
}

func nullableText(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
