package models

import "time"

// PaymentCategory is the binary classification of an external
// transaction. Cards compare against CARTÃO, everything else against PIX.
type PaymentCategory string

const (
	CategoryCard PaymentCategory = "CARTÃO"
	CategoryPIX  PaymentCategory = "PIX"
)

// MatchStatus classifies the outcome of matching one external
// transaction against the consolidated ledger.
type MatchStatus string

const (
	// StatusMatched: a receipt on the same date carries the value within tolerance.
	StatusMatched MatchStatus = "COINCIDENTE"
	// StatusValueMismatch: date candidates exist but none is within
	// tolerance, and at least one carries a value in the compared column.
	StatusValueMismatch MatchStatus = "DIVERGENTE"
	// StatusDateNotFound: no receipt shares the transaction's calendar date.
	StatusDateNotFound MatchStatus = "DATA NÃO ENCONTRADA"
	// StatusValueNotFound: date candidates exist but the compared column
	// is empty or zero on all of them.
	StatusValueNotFound MatchStatus = "VALOR NÃO ENCONTRADO"
)

// Divergent reports whether the status belongs in the divergence report.
func (s MatchStatus) Divergent() bool {
	return s != StatusMatched
}

// Unmatched reports whether the status means no comparable value was found.
func (s MatchStatus) Unmatched() bool {
	return s == StatusDateNotFound || s == StatusValueNotFound
}

// ExternalTransaction is one row of the payment processor export.
type ExternalTransaction struct {
	Timestamp   time.Time
	MethodLabel string
	Identifier  string
	GrossValue  float64
	NetValue    float64
}

// MatchResult is the classification of one external transaction. Receipt
// is nil when no candidate was selected (DATE_NOT_FOUND / VALUE_NOT_FOUND).
// Difference is ledger value minus transaction value, meaningful for
// matched and mismatched results.
type MatchResult struct {
	Transaction ExternalTransaction
	Category    PaymentCategory
	Receipt     *ConsolidatedReceipt
	Status      MatchStatus
	Difference  float64
	Observation string
}

// AuditSummary is the fold of all match results for one run.
type AuditSummary struct {
	Total          int
	Matched        int
	MatchedCard    int
	MatchedPIX     int
	Mismatched     int
	Unmatched      int
	MatchedValue   float64
	UnmatchedValue float64
	SuccessRate    float64
	Divergences    []MatchResult
}
