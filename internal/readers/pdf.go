package readers

import (
	"fmt"

	"code.sajari.com/docconv/v2"
)

// PDFReader extracts text from PDF documents.
type PDFReader struct{}

func NewPDFReader() *PDFReader { return &PDFReader{} }

func (r *PDFReader) CanRead(path string) bool {
	return hasExt(path, ".pdf")
}

func (r *PDFReader) ReadText(path string) (string, string, error) {
	res, err := docconv.ConvertPath(path)
	if err != nil {
		return "", "", fmt.Errorf("extracting pdf text from %s: %w", path, err)
	}
	return res.Body, "utf-8", nil
}
