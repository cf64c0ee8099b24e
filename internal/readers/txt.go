package readers

import (
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// TextReader reads plain-text files. Files are decoded as UTF-8 when
// valid; otherwise the reader falls back to Latin-1 and then
// Windows-1252, so legacy exports still ingest instead of failing.
type TextReader struct{}

func NewTextReader() *TextReader { return &TextReader{} }

func (r *TextReader) CanRead(path string) bool {
	return hasExt(path, ".txt", ".md", ".markdown")
}

func (r *TextReader) ReadText(path string) (string, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", path, err)
	}

	if utf8.Valid(raw) {
		return string(raw), "utf-8", nil
	}

	if decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw); err == nil {
		return string(decoded), "latin-1", nil
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return "", "", fmt.Errorf("decoding %s: %w", path, err)
	}
	return string(decoded), "cp1252", nil
}
