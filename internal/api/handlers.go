package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/oficinapro/auditoria/internal/config"
	"github.com/oficinapro/auditoria/internal/models"
	"github.com/oficinapro/auditoria/internal/nfse"
	"github.com/oficinapro/auditoria/internal/service"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	audits   *service.AuditService
	notes    *nfse.Extractor
	defaults config.AuditConfig
	nfseCfg  config.NFSeConfig
	logger   *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(audits *service.AuditService, notes *nfse.Extractor,
	defaults config.AuditConfig, nfseCfg config.NFSeConfig, logger *zap.Logger) *Handlers {
	return &Handlers{
		audits:   audits,
		notes:    notes,
		defaults: defaults,
		nfseCfg:  nfseCfg,
		logger:   logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ReconcileRequest parameterizes one reconciliation run. Every field is
// optional; omitted ones fall back to the configured defaults.
type ReconcileRequest struct {
	Period        string  `json:"period"`
	Tolerance     float64 `json:"tolerance"`
	StatementPath string  `json:"statement_path"`
	WriteReports  bool    `json:"write_reports"`
}

// ReconcileResponse summarizes one run in API responses.
type ReconcileResponse struct {
	Period         string            `json:"period"`
	Total          int               `json:"total"`
	Matched        int               `json:"matched"`
	MatchedCard    int               `json:"matched_card"`
	MatchedPIX     int               `json:"matched_pix"`
	Mismatched     int               `json:"mismatched"`
	Unmatched      int               `json:"unmatched"`
	MatchedValue   float64           `json:"matched_value"`
	UnmatchedValue float64           `json:"unmatched_value"`
	SuccessRate    float64           `json:"success_rate"`
	ExcludedRows   int               `json:"excluded_rows"`
	Divergences    []DivergenceEntry `json:"divergences"`
	LedgerPath     string            `json:"ledger_path,omitempty"`
	AuditPath      string            `json:"audit_path,omitempty"`
}

// DivergenceEntry is one non-matched transaction in API responses.
type DivergenceEntry struct {
	Identifier  string  `json:"identifier"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	GrossValue  float64 `json:"gross_value"`
	Status      string  `json:"status"`
	Difference  float64 `json:"difference,omitempty"`
	Observation string  `json:"observation,omitempty"`
}

// ReceiptResponse is one consolidated receipt in API responses.
type ReceiptResponse struct {
	OrderNumber  int      `json:"order_number"`
	ClosingDate  string   `json:"closing_date,omitempty"`
	TotalValue   float64  `json:"total_value"`
	LaborValue   float64  `json:"labor_value"`
	PartsValue   float64  `json:"parts_value"`
	Discount     float64  `json:"discount"`
	VehicleLabel string   `json:"vehicle_label,omitempty"`
	DebtorAmount float64  `json:"debtor_amount"`
	PaymentDate  string   `json:"payment_date,omitempty"`
	PaidAmount   *float64 `json:"paid_amount,omitempty"`
	CardAmount   *float64 `json:"card_amount,omitempty"`
	CashAmount   *float64 `json:"cash_amount,omitempty"`
	PIXAmount    *float64 `json:"pix_amount,omitempty"`
	ChangeAmount *float64 `json:"change_amount,omitempty"`
	ClientCode   *int     `json:"client_code,omitempty"`
}

// FiscalNoteResponse is one extracted fiscal note in API responses.
type FiscalNoteResponse struct {
	File         string  `json:"file"`
	Number       string  `json:"number,omitempty"`
	TotalValue   float64 `json:"total_value,omitempty"`
	CustomerName string  `json:"customer_name,omitempty"`
	Document     string  `json:"document,omitempty"`
	IssueDate    string  `json:"issue_date,omitempty"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":    "healthy",
			"service":   "auditoria",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// Reconcile handles POST /api/reconcile
func (h *Handlers) Reconcile(c *gin.Context) {
	req := ReconcileRequest{
		Period:        h.defaults.Period,
		Tolerance:     h.defaults.Tolerance,
		StatementPath: h.defaults.StatementPath,
	}
	// An absent body keeps the defaults; io.EOF is how the bind reports it.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Error("Invalid reconcile request", zap.Error(err))
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}
	if req.Period == "" {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "period is required",
		})
		return
	}
	if req.StatementPath == "" {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "statement_path is required",
		})
		return
	}

	run, err := h.audits.Run(c.Request.Context(), service.RunOptions{
		Period:        req.Period,
		Tolerance:     req.Tolerance,
		StatementPath: req.StatementPath,
		WriteReports:  req.WriteReports,
	})
	if err != nil {
		h.logger.Error("Reconciliation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "reconciliation failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    toReconcileResponse(run),
	})
}

// ListReceipts handles GET /api/receipts
func (h *Handlers) ListReceipts(c *gin.Context) {
	period := c.Query("period")
	if period == "" {
		period = h.defaults.Period
	}
	if period == "" {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "period is required",
		})
		return
	}

	receipts, err := h.audits.Receipts(c.Request.Context(), period)
	if err != nil {
		h.logger.Error("Failed to consolidate receipts", zap.String("period", period), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to consolidate receipts: " + err.Error(),
		})
		return
	}

	out := make([]ReceiptResponse, 0, len(receipts))
	for _, r := range receipts {
		out = append(out, toReceiptResponse(r))
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    out,
	})
}

// ListFiscalNotes handles GET /api/nfse
func (h *Handlers) ListFiscalNotes(c *gin.Context) {
	dir := c.Query("dir")
	if dir == "" {
		dir = h.nfseCfg.InputDir
	}

	notes, err := h.notes.ExtractDir(dir)
	if err != nil {
		h.logger.Error("Failed to extract fiscal notes", zap.String("dir", dir), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to extract fiscal notes: " + err.Error(),
		})
		return
	}

	out := make([]FiscalNoteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, FiscalNoteResponse{
			File:         n.File,
			Number:       n.Number,
			TotalValue:   n.TotalValue,
			CustomerName: n.CustomerName,
			Document:     n.Document,
			IssueDate:    n.IssueDate,
		})
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    out,
	})
}

func toReconcileResponse(run *service.RunResult) ReconcileResponse {
	resp := ReconcileResponse{
		Period:         run.Period.String(),
		Total:          run.Summary.Total,
		Matched:        run.Summary.Matched,
		MatchedCard:    run.Summary.MatchedCard,
		MatchedPIX:     run.Summary.MatchedPIX,
		Mismatched:     run.Summary.Mismatched,
		Unmatched:      run.Summary.Unmatched,
		MatchedValue:   run.Summary.MatchedValue,
		UnmatchedValue: run.Summary.UnmatchedValue,
		SuccessRate:    run.Summary.SuccessRate,
		ExcludedRows:   run.ExcludedRows,
		Divergences:    make([]DivergenceEntry, 0, len(run.Summary.Divergences)),
		LedgerPath:     run.LedgerPath,
		AuditPath:      run.AuditPath,
	}
	for _, d := range run.Summary.Divergences {
		resp.Divergences = append(resp.Divergences, DivergenceEntry{
			Identifier:  d.Transaction.Identifier,
			Date:        d.Transaction.Timestamp.Format("2006-01-02"),
			Category:    string(d.Category),
			GrossValue:  d.Transaction.GrossValue,
			Status:      string(d.Status),
			Difference:  d.Difference,
			Observation: d.Observation,
		})
	}
	return resp
}

func toReceiptResponse(r models.ConsolidatedReceipt) ReceiptResponse {
	resp := ReceiptResponse{
		OrderNumber:  int(r.OrderNumber),
		TotalValue:   r.TotalValue,
		LaborValue:   r.LaborValue,
		PartsValue:   r.PartsValue,
		Discount:     r.Discount,
		VehicleLabel: r.VehicleLabel,
		DebtorAmount: r.DebtorAmount,
	}
	if !r.ClosingDate.IsZero() {
		resp.ClosingDate = r.ClosingDate.Format("2006-01-02")
	}
	if r.Paid != nil {
		paid := r.Paid.PaidAmount
		card := r.Paid.CardAmount
		cash := r.Paid.CashAmount
		pix := r.Paid.PIXAmount
		change := r.Paid.ChangeAmount
		client := int(r.Paid.ClientCode)
		resp.PaidAmount = &paid
		resp.CardAmount = &card
		resp.CashAmount = &cash
		resp.PIXAmount = &pix
		resp.ChangeAmount = &change
		resp.ClientCode = &client
		if !r.Paid.PaymentDate.IsZero() {
			resp.PaymentDate = r.Paid.PaymentDate.Format("2006-01-02")
		}
	}
	return resp
}
