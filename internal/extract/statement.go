package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/oficinapro/auditoria/internal/models"
)

// Column headers of the payment processor export.
const (
	colTimestamp  = "Data e hora"
	colMethod     = "Meio - Meio"
	colIdentifier = "Identificador"
	colGross      = "Valor (R$)"
	colNet        = "Líquido (R$)"
)

// ReasonBadStatementRow is the Diagnostics key for excluded feed rows.
const ReasonBadStatementRow = "linha de extrato inválida"

// StatementParser reads the card/PIX processor export. The feed is
// loosely formatted: timestamps use Portuguese month abbreviations and
// values use comma-decimal notation; rows that fail normalization are
// excluded and counted, never fatal.
type StatementParser struct {
	logger *zap.Logger
}

// NewStatementParser creates a new StatementParser.
func NewStatementParser(logger *zap.Logger) *StatementParser {
	return &StatementParser{logger: logger}
}

// ParseFile reads the export at path. A missing required column is a
// fatal extraction error.
func (p *StatementParser) ParseFile(path string, diag *Diagnostics) ([]models.ExternalTransaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open statement: %w", err)
	}
	defer f.Close()

	txs, err := p.Parse(f, diag)
	if err != nil {
		return nil, fmt.Errorf("statement %s: %w", path, err)
	}
	return txs, nil
}

// Parse reads the export from r, preserving row order.
func (p *StatementParser) Parse(r io.Reader, diag *Diagnostics) ([]models.ExternalTransaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptySource
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colTimestamp, colMethod, colIdentifier, colGross} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}
	netIdx, hasNet := idx[colNet]
	minFields := 0
	for _, required := range []string{colTimestamp, colMethod, colIdentifier, colGross} {
		if idx[required] >= minFields {
			minFields = idx[required] + 1
		}
	}

	var txs []models.ExternalTransaction
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			diag.Excludef(ReasonBadStatementRow, "linha %d: %v", line, err)
			continue
		}
		if len(record) < minFields {
			diag.Excludef(ReasonBadStatementRow, "linha %d: %d campos, esperados %d",
				line, len(record), minFields)
			continue
		}

		ts, err := parseStatementTime(record[idx[colTimestamp]])
		if err != nil {
			diag.Excludef(ReasonBadStatementRow, "linha %d: %v", line, err)
			continue
		}
		gross, err := models.ParseBRNumber(record[idx[colGross]])
		if err != nil {
			diag.Excludef(ReasonBadStatementRow, "linha %d: %v", line, err)
			continue
		}

		tx := models.ExternalTransaction{
			Timestamp:   ts,
			MethodLabel: strings.TrimSpace(record[idx[colMethod]]),
			Identifier:  strings.TrimSpace(record[idx[colIdentifier]]),
			GrossValue:  gross,
		}
		if hasNet && netIdx < len(record) {
			// Net value is informational; a bad one does not drop the row.
			if net, err := models.ParseBRNumber(record[netIdx]); err == nil {
				tx.NetValue = net
			}
		}

		txs = append(txs, tx)
	}

	p.logger.Info("Statement parsed",
		zap.Int("transactions", len(txs)),
		zap.Int("excluded", diag.Count(ReasonBadStatementRow)))
	return txs, nil
}

// statementTimePattern matches "27 Jun, 2025 · 14:32" and tolerates the
// separator variants the processor has shipped over time.
var statementTimePattern = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-zçÇ]{3}),?\s+(\d{4})\s*[·\-]\s*(\d{1,2}):(\d{2})$`)

var ptMonths = map[string]time.Month{
	"jan": time.January, "fev": time.February, "mar": time.March,
	"abr": time.April, "mai": time.May, "jun": time.June,
	"jul": time.July, "ago": time.August, "set": time.September,
	"out": time.October, "nov": time.November, "dez": time.December,
}

func parseStatementTime(s string) (time.Time, error) {
	m := statementTimePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: data %q", ErrMalformedRecord, s)
	}
	month, ok := ptMonths[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: mês %q", ErrMalformedRecord, m[2])
	}
	day, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])

	t := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, fmt.Errorf("%w: data %q", ErrMalformedRecord, s)
	}
	return t, nil
}
