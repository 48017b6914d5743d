package documents

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileTypeFromName derives the lowercase extension token from a file name.
func FileTypeFromName(fileName string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
}

// ValidateFile runs the pre-flight checks for a candidate upload and returns
// every violation found; an empty slice means the file is admissible. Both
// checks run independently so the caller sees all problems at once.
func ValidateFile(fileName string, sizeBytes int64, maxBytes int64, allowedTypes []string) []string {
	var violations []string

	if sizeBytes > maxBytes {
		violations = append(violations, fmt.Sprintf(
			"file size exceeds maximum limit of %.1fMB", float64(maxBytes)/(1024*1024)))
	}

	fileType := FileTypeFromName(fileName)
	if !typeAllowed(fileType, allowedTypes) {
		violations = append(violations, fmt.Sprintf(
			"file type %q not allowed. supported types: %s", fileType, strings.Join(allowedTypes, ", ")))
	}

	return violations
}

func typeAllowed(fileType string, allowedTypes []string) bool {
	for _, allowed := range allowedTypes {
		if strings.EqualFold(strings.TrimSpace(allowed), fileType) {
			return true
		}
	}
	return false
}
