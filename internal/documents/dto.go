package documents

import (
	"math"
	"time"
)

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	FileType         string    `json:"fileType"`
	FileSize         int64     `json:"fileSize"`
	FileSizeMB       float64   `json:"fileSizeMb"`
	ProcessingStatus Status    `json:"processingStatus"`
	ExtractedText    *string   `json:"extractedText"`
	ErrorMessage     *string   `json:"errorMessage"`
	UploadTime       time.Time `json:"uploadTime"`
	FileURL          string    `json:"fileUrl"`
}

// TextResponse carries the extraction result for the text endpoint.
type TextResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	ExtractedText    *string `json:"extractedText"`
	ProcessingStatus Status  `json:"processingStatus"`
	ErrorMessage     *string `json:"errorMessage"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		ID:               doc.ID,
		Name:             doc.Name,
		FileType:         doc.FileType,
		FileSize:         doc.FileSize,
		FileSizeMB:       sizeMB(doc.FileSize),
		ProcessingStatus: doc.ProcessingStatus,
		ExtractedText:    doc.ExtractedText,
		ErrorMessage:     doc.ErrorMessage,
		UploadTime:       doc.UploadTime,
		FileURL:          "/api/v1/documents/" + doc.ID + "/download",
	}
}

func toTextResponse(doc Document) TextResponse {
	return TextResponse{
		ID:               doc.ID,
		Name:             doc.Name,
		ExtractedText:    doc.ExtractedText,
		ProcessingStatus: doc.ProcessingStatus,
		ErrorMessage:     doc.ErrorMessage,
	}
}

func sizeMB(bytes int64) float64 {
	return math.Round(float64(bytes)/(1024*1024)*100) / 100
}
