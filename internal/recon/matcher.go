package recon

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/oficinapro/auditoria/internal/models"
)

// DefaultTolerance is the relative deviation accepted as a match: 1%.
const DefaultTolerance = 0.01

// Matcher compares external transactions against the consolidated
// ledger under value and date tolerance. It holds no mutable state
// across calls; receipts and transactions are never modified.
type Matcher struct {
	tolerance float64
	logger    *zap.Logger
}

// NewMatcher creates a Matcher with the given relative tolerance.
// Tolerance zero means exact value equality is required.
func NewMatcher(tolerance float64, logger *zap.Logger) *Matcher {
	return &Matcher{tolerance: tolerance, logger: logger}
}

// Match produces one MatchResult per transaction, in input order. The
// receipts slice is the comparison set for the covering period; its
// iteration order (ascending order number, as built by the
// consolidator) decides ties.
func (m *Matcher) Match(txs []models.ExternalTransaction, receipts []models.ConsolidatedReceipt) []models.MatchResult {
	results := make([]models.MatchResult, 0, len(txs))
	for _, tx := range txs {
		results = append(results, m.matchOne(tx, receipts))
	}

	matched := 0
	for _, r := range results {
		if r.Status == models.StatusMatched {
			matched++
		}
	}
	m.logger.Info("Reconciliation pass complete",
		zap.Int("transactions", len(txs)),
		zap.Int("matched", matched),
		zap.Float64("tolerance", m.tolerance))
	return results
}

func (m *Matcher) matchOne(tx models.ExternalTransaction, receipts []models.ConsolidatedReceipt) models.MatchResult {
	category := Classify(tx.MethodLabel)
	result := models.MatchResult{
		Transaction: tx,
		Category:    category,
	}

	candidates := sameDay(tx, receipts)
	if len(candidates) == 0 {
		result.Status = models.StatusDateNotFound
		result.Observation = fmt.Sprintf("Data %s não encontrada nos dados gerados",
			tx.Timestamp.Format("02/01/2006"))
		return result
	}

	// First date candidate within tolerance wins; ties are not ambiguous.
	for i := range candidates {
		value, ok := ledgerValue(candidates[i], category)
		if !ok {
			continue
		}
		if m.withinTolerance(value, tx.GrossValue) {
			result.Status = models.StatusMatched
			result.Receipt = candidates[i]
			result.Difference = value - tx.GrossValue
			result.Observation = fmt.Sprintf("Encontrado na coluna %s (OS %d)",
				category, candidates[i].OrderNumber)
			return result
		}
	}

	// No candidate within tolerance. If the compared column is empty or
	// zero on every candidate there is nothing to diverge from.
	closest, closestValue, found := closestCandidate(candidates, category, tx.GrossValue)
	if !found {
		result.Status = models.StatusValueNotFound
		result.Observation = fmt.Sprintf("Valor %.2f não encontrado na coluna %s para a data %s",
			tx.GrossValue, category, tx.Timestamp.Format("02/01/2006"))
		return result
	}

	result.Status = models.StatusValueMismatch
	result.Receipt = closest
	result.Difference = closestValue - tx.GrossValue
	result.Observation = fmt.Sprintf("Valor mais próximo %.2f na coluna %s (OS %d)",
		closestValue, category, closest.OrderNumber)
	return result
}

// withinTolerance implements |a − b| ≤ tolerance × max(|a|, |b|).
func (m *Matcher) withinTolerance(a, b float64) bool {
	return math.Abs(a-b) <= m.tolerance*math.Max(math.Abs(a), math.Abs(b))
}

// sameDay selects receipts sharing the transaction's calendar date.
// Receipts with no paid aggregate have no payment date and never match.
func sameDay(tx models.ExternalTransaction, receipts []models.ConsolidatedReceipt) []*models.ConsolidatedReceipt {
	var out []*models.ConsolidatedReceipt
	ty, tm, td := tx.Timestamp.Date()
	for i := range receipts {
		if receipts[i].Paid == nil {
			continue
		}
		ry, rm, rd := receipts[i].Paid.PaymentDate.Date()
		if ry == ty && rm == tm && rd == td {
			out = append(out, &receipts[i])
		}
	}
	return out
}

// ledgerValue picks the compared column. Zero counts as "no value in
// this column": the register writes zero when the order was settled by
// another payment form.
func ledgerValue(r *models.ConsolidatedReceipt, category models.PaymentCategory) (float64, bool) {
	if r.Paid == nil {
		return 0, false
	}
	var v float64
	if category == models.CategoryCard {
		v = r.Paid.CardAmount
	} else {
		v = r.Paid.PIXAmount
	}
	if v == 0 {
		return 0, false
	}
	return v, true
}

// closestCandidate returns the candidate whose column value has the
// smallest absolute difference from value.
func closestCandidate(candidates []*models.ConsolidatedReceipt, category models.PaymentCategory, value float64) (*models.ConsolidatedReceipt, float64, bool) {
	var (
		best      *models.ConsolidatedReceipt
		bestValue float64
		bestDiff  float64
	)
	for i := range candidates {
		v, ok := ledgerValue(candidates[i], category)
		if !ok {
			continue
		}
		diff := math.Abs(v - value)
		if best == nil || diff < bestDiff {
			best = candidates[i]
			bestValue = v
			bestDiff = diff
		}
	}
	return best, bestValue, best != nil
}
