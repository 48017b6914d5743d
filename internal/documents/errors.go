package documents

import "errors"

var (
	// ErrNotFound indicates the document does not exist (or was deleted).
	ErrNotFound = errors.New("document not found")
	// ErrInvalidInput indicates a malformed request to the service layer.
	ErrInvalidInput = errors.New("invalid input")
	// ErrValidation indicates the upload failed pre-flight validation;
	// the accompanying violations list carries the details.
	ErrValidation = errors.New("file validation failed")
)
