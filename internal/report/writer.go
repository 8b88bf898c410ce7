// Package report renders the consolidated ledger and the reconciliation
// audit as styled Excel workbooks.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/oficinapro/auditoria/internal/models"
)

// Sheet names of the audit workbook.
const (
	SheetSummary     = "Resumo"
	SheetDetails     = "Detalhes"
	SheetDivergences = "Divergências"

	sheetLedger = "Recebimentos"
)

// ledgerHeaders is the fixed export column order of the consolidated
// ledger. Consumers depend on this order; do not reorder.
var ledgerHeaders = []string{
	"N° OS", "DATA PGTO", "VALOR TOTAL", "VALOR MÃO DE OBRA", "VALOR PEÇAS",
	"DESCONTO", "VALOR PAGO", "DEVEDOR", "CARTÃO", "DINHEIRO", "PIX", "TROCO",
	"VEÍCULO (PLACA)", "CÓDIGO CLIENTE", "DATA ENCERRAMENTO",
}

var detailHeaders = []string{
	"Identificador", "Data", "Tipo", "Valor", "Valor Gerado",
	"Diferença", "Diferença (%)", "Status", "Observação",
}

// Writer renders workbooks to an output directory.
type Writer struct {
	outputDir string
	logger    *zap.Logger
}

// NewWriter creates a report writer rooted at outputDir.
func NewWriter(outputDir string, logger *zap.Logger) *Writer {
	return &Writer{outputDir: outputDir, logger: logger}
}

// WriteLedger writes the period's consolidated receipts as
// Recebimentos_YYYY-MM.xlsx and returns the file path. Orders with no
// paid entries in the period keep their paid-side cells empty rather
// than zero.
func (w *Writer) WriteLedger(receipts []models.ConsolidatedReceipt, period models.Period) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newStyleSet(f)
	if err != nil {
		return "", fmt.Errorf("failed to build styles: %w", err)
	}

	if err := f.SetSheetName("Sheet1", sheetLedger); err != nil {
		return "", fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := writeHeaderRow(f, sheetLedger, ledgerHeaders, styles); err != nil {
		return "", err
	}

	for i, r := range receipts {
		row := i + 2
		setCell(f, sheetLedger, 1, row, int(r.OrderNumber))
		if r.Paid != nil {
			setCell(f, sheetLedger, 2, row, r.Paid.PaymentDate)
			setCell(f, sheetLedger, 7, row, r.Paid.PaidAmount)
			setCell(f, sheetLedger, 9, row, r.Paid.CardAmount)
			setCell(f, sheetLedger, 10, row, r.Paid.CashAmount)
			setCell(f, sheetLedger, 11, row, r.Paid.PIXAmount)
			setCell(f, sheetLedger, 12, row, r.Paid.ChangeAmount)
			setCell(f, sheetLedger, 14, row, r.Paid.ClientCode)
		}
		setCell(f, sheetLedger, 3, row, r.TotalValue)
		setCell(f, sheetLedger, 4, row, r.LaborValue)
		setCell(f, sheetLedger, 5, row, r.PartsValue)
		setCell(f, sheetLedger, 6, row, r.Discount)
		setCell(f, sheetLedger, 8, row, r.DebtorAmount)
		setCell(f, sheetLedger, 13, row, r.VehicleLabel)
		if !r.ClosingDate.IsZero() {
			setCell(f, sheetLedger, 15, row, r.ClosingDate)
		}
	}

	w.applyBodyStyles(f, sheetLedger, ledgerHeaders, len(receipts), styles, map[int]int{
		2: styles.date, 3: styles.currency, 4: styles.currency, 5: styles.currency,
		6: styles.currency, 7: styles.currency, 8: styles.currency, 9: styles.currency,
		10: styles.currency, 11: styles.currency, 12: styles.currency, 15: styles.date,
	})

	path := filepath.Join(w.outputDir, fmt.Sprintf("Recebimentos_%s.xlsx", period))
	if err := w.save(f, path); err != nil {
		return "", err
	}

	w.logger.Info("Ledger workbook written",
		zap.String("path", path),
		zap.Int("receipts", len(receipts)))
	return path, nil
}

// WriteAudit writes the three-section reconciliation report and returns
// the file path: Resumo (summary scalars), Detalhes (every result),
// Divergências (non-matched only, feed order).
func (w *Writer) WriteAudit(summary models.AuditSummary, results []models.MatchResult, period models.Period) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newStyleSet(f)
	if err != nil {
		return "", fmt.Errorf("failed to build styles: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return "", fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := w.writeSummarySheet(f, summary, styles); err != nil {
		return "", err
	}
	if err := w.writeResultsSheet(f, SheetDetails, results, styles); err != nil {
		return "", err
	}
	if err := w.writeResultsSheet(f, SheetDivergences, summary.Divergences, styles); err != nil {
		return "", err
	}

	path := filepath.Join(w.outputDir, fmt.Sprintf("Auditoria_%s.xlsx", period))
	if err := w.save(f, path); err != nil {
		return "", err
	}

	w.logger.Info("Audit workbook written",
		zap.String("path", path),
		zap.Int("results", len(results)),
		zap.Int("divergences", len(summary.Divergences)))
	return path, nil
}

func (w *Writer) writeSummarySheet(f *excelize.File, summary models.AuditSummary, styles styleSet) error {
	if err := writeHeaderRow(f, SheetSummary, []string{"Métrica", "Valor"}, styles); err != nil {
		return err
	}

	rows := []struct {
		metric string
		value  interface{}
	}{
		{"Total de Transações", summary.Total},
		{"Coincidentes", summary.Matched},
		{"Coincidentes (Cartão)", summary.MatchedCard},
		{"Coincidentes (PIX)", summary.MatchedPIX},
		{"Divergentes", summary.Mismatched},
		{"Não Encontradas", summary.Unmatched},
		{"Valor Coincidente", summary.MatchedValue},
		{"Valor Não Encontrado", summary.UnmatchedValue},
		{"Taxa de Sucesso (%)", summary.SuccessRate * 100},
		{"Data da Auditoria", time.Now().Format("02/01/2006 15:04:05")},
	}
	for i, r := range rows {
		setCell(f, SheetSummary, 1, i+2, r.metric)
		setCell(f, SheetSummary, 2, i+2, r.value)
	}

	w.applyBodyStyles(f, SheetSummary, []string{"Métrica", "Valor"}, len(rows), styles, nil)
	return nil
}

func (w *Writer) writeResultsSheet(f *excelize.File, sheet string, results []models.MatchResult, styles styleSet) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	if err := writeHeaderRow(f, sheet, detailHeaders, styles); err != nil {
		return err
	}

	for i, r := range results {
		row := i + 2
		setCell(f, sheet, 1, row, r.Transaction.Identifier)
		setCell(f, sheet, 2, row, r.Transaction.Timestamp)
		setCell(f, sheet, 3, row, string(r.Category))
		setCell(f, sheet, 4, row, r.Transaction.GrossValue)
		if r.Receipt != nil && r.Receipt.Paid != nil {
			setCell(f, sheet, 5, row, r.Transaction.GrossValue+r.Difference)
			setCell(f, sheet, 6, row, r.Difference)
			if r.Transaction.GrossValue != 0 {
				setCell(f, sheet, 7, row, r.Difference/r.Transaction.GrossValue*100)
			}
		}
		setCell(f, sheet, 8, row, string(r.Status))
		setCell(f, sheet, 9, row, r.Observation)
	}

	w.applyBodyStyles(f, sheet, detailHeaders, len(results), styles, map[int]int{
		2: styles.date, 4: styles.currency, 5: styles.currency, 6: styles.currency,
	})
	return nil
}

func (w *Writer) applyBodyStyles(f *excelize.File, sheet string, headers []string, rowCount int, styles styleSet, byColumn map[int]int) {
	for col := 1; col <= len(headers); col++ {
		name, _ := excelize.ColumnNumberToName(col)
		if err := f.SetColWidth(sheet, name, name, widthFor(headers[col-1])); err != nil {
			w.logger.Warn("Failed to set column width", zap.String("sheet", sheet), zap.Error(err))
		}
		if rowCount == 0 {
			continue
		}
		style := styles.data
		if s, ok := byColumn[col]; ok {
			style = s
		}
		top, _ := excelize.CoordinatesToCellName(col, 2)
		bottom, _ := excelize.CoordinatesToCellName(col, rowCount+1)
		if err := f.SetCellStyle(sheet, top, bottom, style); err != nil {
			w.logger.Warn("Failed to style column", zap.String("sheet", sheet), zap.Error(err))
		}
	}
}

func (w *Writer) save(f *excelize.File, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string, styles styleSet) error {
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header %s: %w", h, err)
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, 1)
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, first, last, styles.header); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value interface{}) {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	_ = f.SetCellValue(sheet, cell, value)
}
