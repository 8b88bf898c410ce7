// Package nfse extracts identification fields from service fiscal note
// (NFSe) PDFs. The notes come from several municipal issuers, so each
// field is tried against a list of patterns from most to least specific.
package nfse

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/oficinapro/auditoria/internal/models"
)

// FiscalNote holds the fields extracted from one NFSe PDF. Fields the
// patterns could not find stay zero-valued.
type FiscalNote struct {
	File         string
	Number       string
	TotalValue   float64
	CustomerName string
	Document     string // CNPJ or CPF, as printed
	IssueDate    string // DD/MM/YYYY, as printed
}

var (
	numberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`NFSe[\s\-:]*N[ºo°]?:?\s*(\d+/\d+)`),
		regexp.MustCompile(`Nota Fiscal de Serviços Eletrônica[\s\-:]*N[ºo°]?:?\s*(\d+/\d+)`),
		regexp.MustCompile(`N[ºo°]:?\s*(\d+/\d+)`),
	}
	valuePatterns = []*regexp.Regexp{
		regexp.MustCompile(`Valor dos serviços:?\s*R?\$?\s*([\d.]+,\d{2})`),
		regexp.MustCompile(`Valor Líquido:?\s*R?\$?\s*([\d.]+,\d{2})`),
		regexp.MustCompile(`Valor Total dos Serviços[\s\-:]*R?\$?\s*([\d.]+,\d{2})`),
		regexp.MustCompile(`Valor Total[\s\-:]*R?\$?\s*([\d.]+,\d{2})`),
		regexp.MustCompile(`Total[\s\-:]*R?\$?\s*([\d.]+,\d{2})`),
	}
	customerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`Tomador do\(s\) Serviço\(s\)[^\n]*\nCPF/CNPJ:[^\n]*\n([^\n]+)`),
		regexp.MustCompile(`Tomador[\s\-:]+([^\n\r]+)`),
		regexp.MustCompile(`Razão Social[\s\-:]+([^\n\r]+)`),
	}
	documentPatterns = []*regexp.Regexp{
		regexp.MustCompile(`CPF/CNPJ:\s*([\d./-]+)`),
		regexp.MustCompile(`CNPJ[:\s]*(\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2})`),
		regexp.MustCompile(`CPF[:\s]*(\d{3}\.?\d{3}\.?\d{3}-?\d{2})`),
	}
	issueDatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`Data de Emissão[:\s]*(\d{2}/\d{2}/\d{4})`),
		regexp.MustCompile(`Emissão[:\s]*(\d{2}/\d{2}/\d{4})`),
		regexp.MustCompile(`(\d{2}/\d{2}/\d{4})`),
	}
)

// Extractor reads fiscal note PDFs and pattern-matches their fields.
type Extractor struct {
	reader *PDFReader
	logger *zap.Logger
}

// NewExtractor creates a new Extractor.
func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{
		reader: NewPDFReader(logger),
		logger: logger,
	}
}

// ExtractFile extracts the fields of one PDF.
func (e *Extractor) ExtractFile(path string) (*FiscalNote, error) {
	text, err := e.reader.ExtractText(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	note := e.ExtractText(text)
	note.File = filepath.Base(path)

	e.logger.Info("Fiscal note extracted",
		zap.String("file", note.File),
		zap.String("number", note.Number),
		zap.Float64("total_value", note.TotalValue))
	return note, nil
}

// ExtractText pattern-matches the fields out of already-extracted text.
// First matching pattern wins per field.
func (e *Extractor) ExtractText(text string) *FiscalNote {
	note := &FiscalNote{
		Number:       firstMatch(text, numberPatterns),
		CustomerName: strings.TrimSpace(firstMatch(text, customerPatterns)),
		Document:     firstMatch(text, documentPatterns),
		IssueDate:    firstMatch(text, issueDatePatterns),
	}

	if raw := firstMatch(text, valuePatterns); raw != "" {
		value, err := models.ParseBRNumber(raw)
		if err != nil {
			e.logger.Warn("Fiscal note value did not normalize", zap.String("raw", raw))
		} else {
			note.TotalValue = value
		}
	}
	return note
}

// ExtractDir extracts every PDF under dir, sorted by file name. Files
// that fail to read are logged and skipped.
func (e *Extractor) ExtractDir(dir string) ([]*FiscalNote, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	notes := make([]*FiscalNote, 0, len(paths))
	for _, path := range paths {
		note, err := e.ExtractFile(path)
		if err != nil {
			e.logger.Warn("Skipping fiscal note", zap.String("path", path), zap.Error(err))
			continue
		}
		notes = append(notes, note)
	}
	return notes, nil
}

func firstMatch(text string, patterns []*regexp.Regexp) string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}
