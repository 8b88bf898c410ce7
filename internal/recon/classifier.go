// Package recon matches external processor transactions against the
// consolidated receivables ledger.
package recon

import "github.com/oficinapro/auditoria/internal/models"

// cardLabels is the exact vocabulary the processor uses for card
// transactions, accented and unaccented. Matching is case-sensitive;
// anything outside the set is treated as PIX, so callers needing
// stricter validation must pre-filter the feed.
var cardLabels = map[string]struct{}{
	"Crédito": {},
	"Débito":  {},
	"Credito": {},
	"Debito":  {},
}

// Classify labels a payment-method string as CARD or PIX. The category
// selects which ledger column the matcher compares against.
func Classify(methodLabel string) models.PaymentCategory {
	if _, ok := cardLabels[methodLabel]; ok {
		return models.CategoryCard
	}
	return models.CategoryPIX
}
