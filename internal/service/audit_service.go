// Package service orchestrates one reconciliation run: extraction,
// consolidation, matching, aggregation and report output.
package service

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/oficinapro/auditoria/internal/audit"
	"github.com/oficinapro/auditoria/internal/extract"
	"github.com/oficinapro/auditoria/internal/ledger"
	"github.com/oficinapro/auditoria/internal/models"
	"github.com/oficinapro/auditoria/internal/recon"
	"github.com/oficinapro/auditoria/internal/report"
)

// RunOptions parameterizes one run. Period and tolerance are explicit
// here so different periods can be evaluated side by side without any
// process-wide state.
type RunOptions struct {
	Period        string  // "YYYY-MM", required
	Tolerance     float64 // relative; <= 0 falls back to the default 1%
	StatementPath string  // processor export to reconcile
	WriteReports  bool
}

// RunResult is the outcome of one run.
type RunResult struct {
	Period       models.Period
	Summary      models.AuditSummary
	Results      []models.MatchResult
	Receipts     []models.ConsolidatedReceipt
	ExcludedRows int
	LedgerPath   string
	AuditPath    string
}

// AuditService wires the pipeline components over the snapshot database.
type AuditService struct {
	extractor    *extract.Extractor
	statements   *extract.StatementParser
	consolidator *ledger.Consolidator
	writer       *report.Writer
	logger       *zap.Logger
}

// NewAuditService creates an AuditService.
func NewAuditService(db *sql.DB, writer *report.Writer, logger *zap.Logger) *AuditService {
	return &AuditService{
		extractor:    extract.NewExtractor(db, logger),
		statements:   extract.NewStatementParser(logger),
		consolidator: ledger.NewConsolidator(logger),
		writer:       writer,
		logger:       logger,
	}
}

// Run executes one full reconciliation pass. A fatal extraction error
// aborts before any output is produced; record-level problems only feed
// the exclusion diagnostics.
func (s *AuditService) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	period, err := models.ParsePeriod(opts.Period)
	if err != nil {
		return nil, err
	}
	tolerance := opts.Tolerance
	if tolerance <= 0 {
		tolerance = recon.DefaultTolerance
	}

	s.logger.Info("Starting reconciliation run",
		zap.String("period", period.String()),
		zap.Float64("tolerance", tolerance),
		zap.String("statement", opts.StatementPath))

	diag := extract.NewDiagnostics()

	orders, err := s.extractor.Orders(ctx, diag)
	if err != nil {
		return nil, fmt.Errorf("orders extraction: %w", err)
	}
	accounts, err := s.extractor.Accounts(ctx, diag)
	if err != nil {
		return nil, fmt.Errorf("accounts extraction: %w", err)
	}
	cashflow, err := s.extractor.CashFlow(ctx, diag)
	if err != nil {
		return nil, fmt.Errorf("cash flow extraction: %w", err)
	}
	txs, err := s.statements.ParseFile(opts.StatementPath, diag)
	if err != nil {
		return nil, fmt.Errorf("statement extraction: %w", err)
	}

	receipts := s.consolidator.Consolidate(orders, accounts, cashflow, period, diag)
	periodReceipts := ledger.FilterPeriod(receipts, period)

	matcher := recon.NewMatcher(tolerance, s.logger)
	results := matcher.Match(txs, periodReceipts)
	summary := audit.Summarize(results)

	run := &RunResult{
		Period:       period,
		Summary:      summary,
		Results:      results,
		Receipts:     periodReceipts,
		ExcludedRows: diag.Total(),
	}

	if opts.WriteReports {
		ledgerPath, err := s.writer.WriteLedger(periodReceipts, period)
		if err != nil {
			return nil, fmt.Errorf("ledger report: %w", err)
		}
		auditPath, err := s.writer.WriteAudit(summary, results, period)
		if err != nil {
			return nil, fmt.Errorf("audit report: %w", err)
		}
		run.LedgerPath = ledgerPath
		run.AuditPath = auditPath
	}

	s.logger.Info("Reconciliation run complete",
		zap.Int("transactions", summary.Total),
		zap.Int("matched", summary.Matched),
		zap.Int("divergences", len(summary.Divergences)),
		zap.Int("excluded_rows", run.ExcludedRows),
		zap.Float64("success_rate", summary.SuccessRate))
	return run, nil
}

// Receipts consolidates the ledger for one period without reconciling
// against any processor feed.
func (s *AuditService) Receipts(ctx context.Context, periodStr string) ([]models.ConsolidatedReceipt, error) {
	period, err := models.ParsePeriod(periodStr)
	if err != nil {
		return nil, err
	}

	diag := extract.NewDiagnostics()

	orders, err := s.extractor.Orders(ctx, diag)
	if err != nil {
		return nil, fmt.Errorf("orders extraction: %w", err)
	}
	accounts, err := s.extractor.Accounts(ctx, diag)
	if err != nil {
		return nil, fmt.Errorf("accounts extraction: %w", err)
	}
	cashflow, err := s.extractor.CashFlow(ctx, diag)
	if err != nil {
		return nil, fmt.Errorf("cash flow extraction: %w", err)
	}

	receipts := s.consolidator.Consolidate(orders, accounts, cashflow, period, diag)
	return ledger.FilterPeriod(receipts, period), nil
}

