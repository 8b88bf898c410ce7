package extract

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/oficinapro/auditoria/internal/models"
)

// Exclusion reason keys reported through Diagnostics.
const (
	ReasonBadDate      = "data inválida"
	ReasonBadValue     = "valor inválido"
	ReasonClosedOrder  = "ordem cancelada"
	ReasonBadReference = "referência inválida"
)

// cancelledOrderStatus marks service orders voided in the management
// system; they never reach the ledger.
const cancelledOrderStatus = 11

// dateLayouts accepted for snapshot date columns, tried in order.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// Extractor reads the three raw extracts from the snapshot database.
type Extractor struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewExtractor creates a new Extractor.
func NewExtractor(db *sql.DB, logger *zap.Logger) *Extractor {
	return &Extractor{db: db, logger: logger}
}

// Orders extracts service orders from ORDEMS, excluding cancelled ones.
// A missing column is fatal; a malformed date or value excludes only
// that row.
func (e *Extractor) Orders(ctx context.Context, diag *Diagnostics) ([]models.OrderRecord, error) {
	const q = `
	SELECT CODIGO, SAIDA, V_MAO, V_PECAS, V_DESLOCA, V_TERCEIRO, V_OUTROS,
	       APARELHO, MODELO, COD_CLIENTE, SITUACAO
	FROM ORDEMS`

	rows, err := e.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: ORDEMS: %v", ErrMissingColumn, err)
	}
	defer rows.Close()

	var orders []models.OrderRecord
	for rows.Next() {
		var (
			code                                    int
			saida                                   sql.NullString
			labor, parts, travel, thirdParty, other sql.NullFloat64
			device, model                           sql.NullString
			clientCode, status                      sql.NullInt64
		)
		if err := rows.Scan(&code, &saida, &labor, &parts, &travel, &thirdParty, &other,
			&device, &model, &clientCode, &status); err != nil {
			return nil, fmt.Errorf("failed to scan ORDEMS row: %w", err)
		}

		if status.Int64 == cancelledOrderStatus {
			diag.Excludef(ReasonClosedOrder, "OS %d", code)
			continue
		}

		closing, ok := e.parseDate(saida)
		if !ok {
			diag.Excludef(ReasonBadDate, "OS %d: SAIDA=%q", code, saida.String)
			continue
		}

		orders = append(orders, models.OrderRecord{
			Number:      models.OrderRef(code),
			LaborValue:  labor.Float64,
			PartsValue:  parts.Float64,
			TravelValue: travel.Float64,
			ThirdParty:  thirdParty.Float64,
			OtherValue:  other.Float64,
			Device:      device.String,
			DeviceModel: model.String,
			ClosingDate: closing,
			ClientCode:  int(clientCode.Int64),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading ORDEMS: %w", err)
	}

	e.logger.Info("Orders extracted",
		zap.Int("count", len(orders)),
		zap.Int("excluded_cancelled", diag.Count(ReasonClosedOrder)))
	return orders, nil
}

// Accounts extracts billed items from CONTAS. The paid flag comes over
// as an Access boolean (0 false, nonzero true). Entries keep their raw
// reference string; decoding happens at consolidation.
func (e *Extractor) Accounts(ctx context.Context, diag *Diagnostics) ([]models.AccountEntry, error) {
	const q = `
	SELECT CODIGO, COD_CLIENTE, PAGO, VALOR, REFERENCIA,
	       ECF_DINHEIRO, ECF_CARTAO, ECF_TROCO, DATA_PGTO
	FROM CONTAS`

	rows, err := e.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: CONTAS: %v", ErrMissingColumn, err)
	}
	defer rows.Close()

	var entries []models.AccountEntry
	for rows.Next() {
		var (
			code, clientCode, paid   sql.NullInt64
			amount, cash, card, chng sql.NullFloat64
			reference, paymentDate   sql.NullString
		)
		if err := rows.Scan(&code, &clientCode, &paid, &amount, &reference,
			&cash, &card, &chng, &paymentDate); err != nil {
			return nil, fmt.Errorf("failed to scan CONTAS row: %w", err)
		}

		entry := models.AccountEntry{
			Code:           models.AccountCode(code.Int64),
			Reference:      strings.TrimSpace(reference.String),
			ClientCode:     int(clientCode.Int64),
			Amount:         amount.Float64,
			Paid:           paid.Int64 != 0,
			RegisterCash:   cash.Float64,
			RegisterCard:   card.Float64,
			RegisterChange: chng.Float64,
		}

		// Pending entries legitimately have no payment date yet.
		if paymentDate.Valid && paymentDate.String != "" {
			date, ok := e.parseDate(paymentDate)
			if !ok {
				diag.Excludef(ReasonBadDate, "conta %d: DATA_PGTO=%q", code.Int64, paymentDate.String)
				continue
			}
			entry.PaymentDate = date
		}

		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading CONTAS: %w", err)
	}

	e.logger.Info("Account entries extracted", zap.Int("count", len(entries)))
	return entries, nil
}

// CashFlow extracts register movements from FCAIXA.
func (e *Extractor) CashFlow(ctx context.Context, diag *Diagnostics) ([]models.CashFlowEntry, error) {
	const q = `SELECT COD_CONTA, RECEITA, FORMA FROM FCAIXA`

	rows, err := e.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: FCAIXA: %v", ErrMissingColumn, err)
	}
	defer rows.Close()

	var entries []models.CashFlowEntry
	for rows.Next() {
		var (
			code   sql.NullString
			amount sql.NullFloat64
			form   sql.NullInt64
		)
		if err := rows.Scan(&code, &amount, &form); err != nil {
			return nil, fmt.Errorf("failed to scan FCAIXA row: %w", err)
		}

		entries = append(entries, models.CashFlowEntry{
			Code:        strings.TrimSpace(code.String),
			Amount:      amount.Float64,
			PaymentForm: int(form.Int64),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading FCAIXA: %w", err)
	}

	e.logger.Info("Cash flow entries extracted", zap.Int("count", len(entries)))
	return entries, nil
}

func (e *Extractor) parseDate(v sql.NullString) (time.Time, bool) {
	if !v.Valid {
		return time.Time{}, false
	}
	s := strings.TrimSpace(v.String)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
