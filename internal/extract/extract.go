// Package extract turns stored document bytes into plain text. One strategy
// per format family; dispatch is keyed on the document's file type.
package extract

import (
	"context"
	"fmt"
	"io"
	"strings"

	"document-backend/internal/shared/storage/object"
)

// OCRConfig locates the external OCR engine. Passed in explicitly so the
// extractor never reads process-global state.
type OCRConfig struct {
	// Command is the tesseract binary to invoke, e.g. "tesseract" or an
	// absolute path.
	Command string
}

// UnsupportedTypeError reports a file type no strategy can handle.
type UnsupportedTypeError struct {
	FileType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.FileType)
}

// Extractor reads stored objects and extracts their text content.
type Extractor struct {
	Store object.ObjectStore
	OCR   OCRConfig
}

// Extract loads the object at storageKey and dispatches to the strategy for
// fileType. Image extensions all route to OCR. The result is trimmed of
// leading and trailing whitespace.
func (e *Extractor) Extract(ctx context.Context, storageKey string, fileType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := e.readObject(ctx, storageKey)
	if err != nil {
		return "", fmt.Errorf("extract key=%s type=%s: %w", storageKey, fileType, err)
	}

	return e.ExtractFromBytes(ctx, data, fileType)
}

// ExtractFromBytes extracts text from an in-memory payload.
func (e *Extractor) ExtractFromBytes(ctx context.Context, data []byte, fileType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch strings.ToLower(strings.TrimSpace(fileType)) {
	case "pdf":
		return extractPDF(data)
	case "docx":
		return extractDOCX(data)
	case "txt":
		return extractTXT(data)
	case "jpg", "jpeg", "png":
		return e.extractImage(ctx, data)
	default:
		return "", &UnsupportedTypeError{FileType: fileType}
	}
}

func (e *Extractor) readObject(ctx context.Context, storageKey string) ([]byte, error) {
	body, err := e.Store.Open(ctx, storageKey)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return data, nil
}
