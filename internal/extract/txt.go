package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// extractTXT decodes as UTF-8, falling back to Latin-1 for legacy files.
// The Latin-1 decode cannot fail on arbitrary bytes.
func extractTXT(data []byte) (string, error) {
	if utf8.Valid(data) {
		return strings.TrimSpace(string(data)), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("txt extract: latin-1 decode: %w", err)
	}
	return strings.TrimSpace(string(decoded)), nil
}
