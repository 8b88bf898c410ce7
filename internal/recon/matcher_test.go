package recon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oficinapro/auditoria/internal/models"
)

func receiptOn(order models.OrderRef, day int, card, pix float64) models.ConsolidatedReceipt {
	return models.ConsolidatedReceipt{
		OrderNumber: order,
		Paid: &models.PaidAggregate{
			CardAmount:  card,
			PIXAmount:   pix,
			PaymentDate: time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC),
		},
	}
}

func txOn(day int, method string, value float64) models.ExternalTransaction {
	return models.ExternalTransaction{
		Timestamp:   time.Date(2025, 6, day, 14, 32, 0, 0, time.UTC),
		MethodLabel: method,
		Identifier:  "TX001",
		GrossValue:  value,
	}
}

func TestMatcherMatched(t *testing.T) {
	m := NewMatcher(DefaultTolerance, zap.NewNop())
	receipts := []models.ConsolidatedReceipt{receiptOn(100, 27, 2487.00, 0)}

	results := m.Match([]models.ExternalTransaction{txOn(27, "Crédito", 2487.17)}, receipts)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, models.StatusMatched, r.Status)
	assert.Equal(t, models.CategoryCard, r.Category)
	require.NotNil(t, r.Receipt)
	assert.EqualValues(t, 100, r.Receipt.OrderNumber)
	assert.InDelta(t, -0.17, r.Difference, 0.001)
	assert.Contains(t, r.Observation, "OS 100")
}

func TestMatcherValueMismatch(t *testing.T) {
	m := NewMatcher(DefaultTolerance, zap.NewNop())
	receipts := []models.ConsolidatedReceipt{
		receiptOn(100, 27, 2000.00, 0),
		receiptOn(101, 27, 900.00, 0),
	}

	results := m.Match([]models.ExternalTransaction{txOn(27, "Crédito", 2487.17)}, receipts)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, models.StatusValueMismatch, r.Status)
	require.NotNil(t, r.Receipt, "mismatch keeps the closest candidate")
	assert.EqualValues(t, 100, r.Receipt.OrderNumber)
	assert.InDelta(t, 2000.00-2487.17, r.Difference, 0.001)
}

func TestMatcherDateNotFound(t *testing.T) {
	m := NewMatcher(DefaultTolerance, zap.NewNop())
	receipts := []models.ConsolidatedReceipt{
		receiptOn(100, 26, 2487.17, 0),
		{OrderNumber: 101}, // no paid aggregate, no payment date
	}

	results := m.Match([]models.ExternalTransaction{txOn(27, "Crédito", 2487.17)}, receipts)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, models.StatusDateNotFound, r.Status)
	assert.Nil(t, r.Receipt)
	assert.Zero(t, r.Difference)
}

func TestMatcherValueNotFound(t *testing.T) {
	m := NewMatcher(DefaultTolerance, zap.NewNop())
	// Date candidates exist but the card column is zero on all of them.
	receipts := []models.ConsolidatedReceipt{
		receiptOn(100, 27, 0, 350.00),
		receiptOn(101, 27, 0, 120.00),
	}

	results := m.Match([]models.ExternalTransaction{txOn(27, "Crédito", 2487.17)}, receipts)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, models.StatusValueNotFound, r.Status)
	assert.Nil(t, r.Receipt)
}

func TestMatcherPIXComparesPIXColumn(t *testing.T) {
	m := NewMatcher(DefaultTolerance, zap.NewNop())
	receipts := []models.ConsolidatedReceipt{receiptOn(100, 27, 2487.17, 350.00)}

	results := m.Match([]models.ExternalTransaction{txOn(27, "Pix", 350.00)}, receipts)
	require.Len(t, results, 1)
	assert.Equal(t, models.CategoryPIX, results[0].Category)
	assert.Equal(t, models.StatusMatched, results[0].Status)
}

func TestMatcherFirstCandidateWins(t *testing.T) {
	m := NewMatcher(DefaultTolerance, zap.NewNop())
	// Both receipts carry the value; the one earlier in ledger order wins.
	receipts := []models.ConsolidatedReceipt{
		receiptOn(100, 27, 150.00, 0),
		receiptOn(101, 27, 150.00, 0),
	}

	results := m.Match([]models.ExternalTransaction{txOn(27, "Débito", 150.00)}, receipts)
	require.Len(t, results, 1)
	require.NotNil(t, results[0].Receipt)
	assert.EqualValues(t, 100, results[0].Receipt.OrderNumber)
}

func TestMatcherZeroTolerance(t *testing.T) {
	m := NewMatcher(0, zap.NewNop())
	receipts := []models.ConsolidatedReceipt{receiptOn(100, 27, 150.00, 0)}

	exact := m.Match([]models.ExternalTransaction{txOn(27, "Débito", 150.00)}, receipts)
	off := m.Match([]models.ExternalTransaction{txOn(27, "Débito", 150.01)}, receipts)

	assert.Equal(t, models.StatusMatched, exact[0].Status)
	assert.Equal(t, models.StatusValueMismatch, off[0].Status)
}

func TestMatcherPreservesInputOrder(t *testing.T) {
	m := NewMatcher(DefaultTolerance, zap.NewNop())
	receipts := []models.ConsolidatedReceipt{receiptOn(100, 27, 150.00, 0)}
	txs := []models.ExternalTransaction{
		txOn(27, "Débito", 150.00),
		txOn(28, "Pix", 75.00),
		txOn(27, "Crédito", 999.00),
	}

	results := m.Match(txs, receipts)
	require.Len(t, results, 3)
	assert.Equal(t, models.StatusMatched, results[0].Status)
	assert.Equal(t, models.StatusDateNotFound, results[1].Status)
	assert.Equal(t, models.StatusValueMismatch, results[2].Status)
}
