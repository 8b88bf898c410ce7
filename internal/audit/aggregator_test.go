package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oficinapro/auditoria/internal/models"
)

func result(id string, status models.MatchStatus, category models.PaymentCategory, value float64) models.MatchResult {
	return models.MatchResult{
		Transaction: models.ExternalTransaction{Identifier: id, GrossValue: value},
		Category:    category,
		Status:      status,
	}
}

func TestSummarize(t *testing.T) {
	results := []models.MatchResult{
		result("TX1", models.StatusMatched, models.CategoryCard, 100.00),
		result("TX2", models.StatusMatched, models.CategoryPIX, 50.00),
		result("TX3", models.StatusValueMismatch, models.CategoryCard, 80.00),
		result("TX4", models.StatusDateNotFound, models.CategoryPIX, 30.00),
		result("TX5", models.StatusValueNotFound, models.CategoryCard, 20.00),
	}

	summary := Summarize(results)

	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 2, summary.Matched)
	assert.Equal(t, 1, summary.MatchedCard)
	assert.Equal(t, 1, summary.MatchedPIX)
	assert.Equal(t, 1, summary.Mismatched)
	assert.Equal(t, 2, summary.Unmatched)
	assert.InDelta(t, 150.00, summary.MatchedValue, 0.001)
	assert.InDelta(t, 50.00, summary.UnmatchedValue, 0.001)
	assert.InDelta(t, 0.4, summary.SuccessRate, 0.001)
}

func TestSummarizeDivergencesKeepFeedOrder(t *testing.T) {
	results := []models.MatchResult{
		result("TX1", models.StatusValueMismatch, models.CategoryCard, 80.00),
		result("TX2", models.StatusMatched, models.CategoryCard, 100.00),
		result("TX3", models.StatusDateNotFound, models.CategoryPIX, 30.00),
		result("TX4", models.StatusValueNotFound, models.CategoryPIX, 10.00),
	}

	summary := Summarize(results)

	require.Len(t, summary.Divergences, 3)
	assert.Equal(t, "TX1", summary.Divergences[0].Transaction.Identifier)
	assert.Equal(t, "TX3", summary.Divergences[1].Transaction.Identifier)
	assert.Equal(t, "TX4", summary.Divergences[2].Transaction.Identifier)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)

	assert.Zero(t, summary.Total)
	assert.Zero(t, summary.SuccessRate)
	assert.Empty(t, summary.Divergences)
}
