// Package audit folds per-transaction match results into the summary
// statistics surfaced in the reconciliation report.
package audit

import "github.com/oficinapro/auditoria/internal/models"

// Summarize folds results into an AuditSummary. Divergences keep the
// original result order so the report reads in feed order. An empty
// input yields a zero summary with success rate 0, not an error.
func Summarize(results []models.MatchResult) models.AuditSummary {
	summary := models.AuditSummary{Total: len(results)}

	for _, r := range results {
		switch {
		case r.Status == models.StatusMatched:
			summary.Matched++
			summary.MatchedValue += r.Transaction.GrossValue
			if r.Category == models.CategoryCard {
				summary.MatchedCard++
			} else {
				summary.MatchedPIX++
			}
		case r.Status == models.StatusValueMismatch:
			summary.Mismatched++
		case r.Status.Unmatched():
			summary.Unmatched++
			summary.UnmatchedValue += r.Transaction.GrossValue
		}

		if r.Status.Divergent() {
			summary.Divergences = append(summary.Divergences, r)
		}
	}

	if summary.Total > 0 {
		summary.SuccessRate = float64(summary.Matched) / float64(summary.Total)
	}
	return summary
}
