package nfse

import (
	"fmt"
	"os"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// PDFReader extracts plain text from fiscal note PDFs using mupdf.
type PDFReader struct {
	logger *zap.Logger
}

// NewPDFReader creates a new PDFReader.
func NewPDFReader(logger *zap.Logger) *PDFReader {
	return &PDFReader{logger: logger}
}

// ExtractText returns the concatenated text of every page.
func (r *PDFReader) ExtractText(pdfPath string) (string, error) {
	if _, err := os.Stat(pdfPath); os.IsNotExist(err) {
		return "", fmt.Errorf("PDF file not found: %s", pdfPath)
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var sb strings.Builder
	pageCount := doc.NumPage()
	for page := 0; page < pageCount; page++ {
		text, err := doc.Text(page)
		if err != nil {
			r.logger.Warn("Failed to extract page text",
				zap.String("path", pdfPath),
				zap.Int("page", page),
				zap.Error(err))
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	r.logger.Debug("PDF text extracted",
		zap.String("path", pdfPath),
		zap.Int("pages", pageCount),
		zap.Int("chars", sb.Len()))
	return sb.String(), nil
}
