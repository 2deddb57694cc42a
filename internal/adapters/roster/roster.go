// Package roster turns uploaded files into roster lines.
package roster

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/okian/simonev/internal/domain/matching"
)

// Extractor turns file content into trimmed, non-empty roster lines.
type Extractor interface {
	Extract(data []byte) ([]string, error)
}

// TextExtractor treats the content as line-delimited text.
type TextExtractor struct{}

// Extract implements Extractor.
func (TextExtractor) Extract(data []byte) ([]string, error) {
	return matching.ParseRoster(string(data)), nil
}

// ForFilename picks an extractor from the file extension.
func ForFilename(name string) (Extractor, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".xlsx", ".xlsm":
		return XLSXExtractor{}, nil
	case ".txt", ".csv", "":
		return TextExtractor{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, ext)
	}
}
