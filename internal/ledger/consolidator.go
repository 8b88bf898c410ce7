// Package ledger builds the consolidated receivables ledger: one
// receipt per service order, derived from the order, account and
// cash-flow extracts for a target period.
package ledger

import (
	"sort"

	"go.uber.org/zap"

	"github.com/oficinapro/auditoria/internal/extract"
	"github.com/oficinapro/auditoria/internal/models"
)

// receiptSplit accumulates register receipts per account entry, keyed
// by decoded cash-flow code.
type receiptSplit struct {
	cash float64
	pix  float64
}

// paidAccumulator aggregates the paid entries of one order.
type paidAccumulator struct {
	agg     models.PaidAggregate
	hasData bool
}

// Consolidator joins the three raw extracts into ConsolidatedReceipts.
type Consolidator struct {
	logger *zap.Logger
}

// NewConsolidator creates a new Consolidator.
func NewConsolidator(logger *zap.Logger) *Consolidator {
	return &Consolidator{logger: logger}
}

// Consolidate produces one receipt per order, ascending by order number.
// Paid-side aggregation is restricted to account entries whose payment
// date falls in period; entries with unresolvable references are
// excluded and counted through diag. Orders with no paid entries in the
// period keep a nil Paid aggregate.
func (c *Consolidator) Consolidate(
	orders []models.OrderRecord,
	accounts []models.AccountEntry,
	cashflow []models.CashFlowEntry,
	period models.Period,
	diag *extract.Diagnostics,
) []models.ConsolidatedReceipt {
	splits := c.sumRegisterReceipts(cashflow, diag)
	paid, pending := c.partitionAccounts(accounts, period, diag)
	paidByOrder := c.aggregatePaid(paid, splits)
	debtorByOrder := c.aggregatePending(pending)

	sorted := make([]models.OrderRecord, len(orders))
	copy(sorted, orders)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })

	receipts := make([]models.ConsolidatedReceipt, 0, len(sorted))
	for _, order := range sorted {
		receipt := models.ConsolidatedReceipt{
			OrderNumber:  order.Number,
			ClosingDate:  order.ClosingDate,
			TotalValue:   order.TotalValue(),
			LaborValue:   order.LaborValue,
			PartsValue:   order.PartsValue,
			Discount:     order.OtherValue,
			VehicleLabel: order.VehicleLabel(),
			DebtorAmount: debtorByOrder[order.Number],
		}
		if acc, ok := paidByOrder[order.Number]; ok {
			agg := acc.agg
			receipt.Paid = &agg
		}
		receipts = append(receipts, receipt)
	}

	c.logger.Info("Ledger consolidated",
		zap.String("period", period.String()),
		zap.Int("orders", len(receipts)),
		zap.Int("paid_orders", len(paidByOrder)),
		zap.Int("debtor_orders", len(debtorByOrder)))
	return receipts
}

// FilterPeriod returns the receipts whose payment date falls in period,
// preserving order. This is the comparison set handed to the matcher
// and the sheet exported for the month.
func FilterPeriod(receipts []models.ConsolidatedReceipt, period models.Period) []models.ConsolidatedReceipt {
	out := make([]models.ConsolidatedReceipt, 0, len(receipts))
	for _, r := range receipts {
		if r.Paid != nil && period.Contains(r.Paid.PaymentDate) {
			out = append(out, r)
		}
	}
	return out
}

// sumRegisterReceipts groups cash-flow amounts by decoded account code.
// Only the cash and PIX payment forms participate; other forms are
// settled elsewhere and ignored by the split.
func (c *Consolidator) sumRegisterReceipts(cashflow []models.CashFlowEntry, diag *extract.Diagnostics) map[models.AccountCode]receiptSplit {
	splits := make(map[models.AccountCode]receiptSplit)
	for _, entry := range cashflow {
		code, err := models.DecodeAccountCode(entry.Code)
		if err != nil {
			diag.Excludef(extract.ReasonBadReference, "FCAIXA: %q", entry.Code)
			continue
		}
		split := splits[code]
		switch entry.PaymentForm {
		case models.PaymentFormCash:
			split.cash += entry.Amount
		case models.PaymentFormPIX:
			split.pix += entry.Amount
		default:
			continue
		}
		splits[code] = split
	}
	return splits
}

// partitionAccounts splits entries into paid (restricted to the target
// period) and pending, dropping entries whose reference does not decode.
func (c *Consolidator) partitionAccounts(
	accounts []models.AccountEntry,
	period models.Period,
	diag *extract.Diagnostics,
) (paid, pending []resolvedEntry) {
	for _, entry := range accounts {
		order, err := models.DecodeOrderRef(entry.Reference)
		if err != nil {
			diag.Excludef(extract.ReasonBadReference, "CONTAS %d: %q", entry.Code, entry.Reference)
			continue
		}
		resolved := resolvedEntry{order: order, entry: entry}
		if entry.Paid {
			if period.Contains(entry.PaymentDate) {
				paid = append(paid, resolved)
			}
		} else {
			pending = append(pending, resolved)
		}
	}
	return paid, pending
}

type resolvedEntry struct {
	order models.OrderRef
	entry models.AccountEntry
}

// aggregatePaid groups the paid partition by order, applying the
// cash/PIX split identity per entry:
//
//	cash = register cash − PIX receipts for the entry's code
//	pix  = register cash − cash receipts for the entry's code
//
// Both legs subtract from the same register-cash figure. That is how the
// workshop's register records the split and it is preserved verbatim.
func (c *Consolidator) aggregatePaid(paid []resolvedEntry, splits map[models.AccountCode]receiptSplit) map[models.OrderRef]*paidAccumulator {
	byOrder := make(map[models.OrderRef]*paidAccumulator)
	for _, r := range paid {
		split := splits[r.entry.Code]
		cashAmount := r.entry.RegisterCash - split.pix
		pixAmount := r.entry.RegisterCash - split.cash

		acc, ok := byOrder[r.order]
		if !ok {
			acc = &paidAccumulator{}
			byOrder[r.order] = acc
		}
		if !acc.hasData {
			acc.agg.ClientCode = r.entry.ClientCode
			acc.hasData = true
		}
		acc.agg.PaidAmount += r.entry.Amount
		acc.agg.CardAmount += r.entry.RegisterCard
		acc.agg.CashAmount += cashAmount
		acc.agg.PIXAmount += pixAmount
		acc.agg.ChangeAmount += r.entry.RegisterChange
		if r.entry.PaymentDate.After(acc.agg.PaymentDate) {
			acc.agg.PaymentDate = r.entry.PaymentDate
		}
	}
	return byOrder
}

// aggregatePending sums unpaid amounts per order.
func (c *Consolidator) aggregatePending(pending []resolvedEntry) map[models.OrderRef]float64 {
	debtor := make(map[models.OrderRef]float64)
	for _, r := range pending {
		debtor[r.order] += r.entry.Amount
	}
	return debtor
}
