package documents

import "time"

// Document represents an uploaded file and the state of its text extraction.
//
// FileType and FileSize are always recomputed from the stored file, never
// taken from caller input. ExtractedText is set only on completed runs;
// ErrorMessage only on failed ones.
type Document struct {
	ID               string
	Name             string
	FileType         string
	FileSize         int64
	StorageKey       string
	ProcessingStatus Status
	ExtractedText    *string
	ErrorMessage     *string
	UploadTime       time.Time
}
