package models

import (
	"fmt"
	"time"
)

// Payment form codes used by the FCAIXA register. Other codes exist in
// the database (card machines, store credit) but only these two feed the
// cash/PIX split.
const (
	PaymentFormCash = 0
	PaymentFormPIX  = 5
)

// OrderRecord is one service order as extracted from ORDEMS.
type OrderRecord struct {
	Number       OrderRef
	LaborValue   float64
	PartsValue   float64
	TravelValue  float64
	ThirdParty   float64
	OtherValue   float64
	Device       string
	DeviceModel  string
	ClosingDate  time.Time
	ClientCode   int
}

// TotalValue is the sum of the five billable components.
func (o OrderRecord) TotalValue() float64 {
	return o.LaborValue + o.PartsValue + o.TravelValue + o.ThirdParty + o.OtherValue
}

// VehicleLabel composes the device description with its model, e.g.
// "GOL (ABC1D23)".
func (o OrderRecord) VehicleLabel() string {
	return fmt.Sprintf("%s (%s)", o.Device, o.DeviceModel)
}

// AccountEntry is one billed item from CONTAS. Reference carries the
// encoded owning order ("O1234"); entries whose reference does not
// decode are excluded from aggregation.
type AccountEntry struct {
	Code           AccountCode
	Reference      string
	ClientCode     int
	Amount         float64
	Paid           bool
	RegisterCash   float64
	RegisterCard   float64
	RegisterChange float64
	PaymentDate    time.Time
}

// CashFlowEntry is one register movement from FCAIXA. Code carries the
// encoded owning account entry ("R56").
type CashFlowEntry struct {
	Code        string
	Amount      float64
	PaymentForm int
}

// PaidAggregate holds the paid-side fields of a consolidated receipt.
// It is nil on receipts whose order had no paid entries in the period,
// so consumers can tell "nothing paid" from "paid zero".
type PaidAggregate struct {
	ClientCode   int
	PaidAmount   float64
	CardAmount   float64
	CashAmount   float64
	PIXAmount    float64
	ChangeAmount float64
	PaymentDate  time.Time
}

// ConsolidatedReceipt is the per-order reconciled financial summary,
// one per order number, built fresh each run and never mutated.
type ConsolidatedReceipt struct {
	OrderNumber  OrderRef
	ClosingDate  time.Time
	TotalValue   float64
	LaborValue   float64
	PartsValue   float64
	Discount     float64
	VehicleLabel string
	Paid         *PaidAggregate
	DebtorAmount float64
}

// Period is a target year-month in "YYYY-MM" form.
type Period struct {
	Year  int
	Month time.Month
}

// ParsePeriod parses a "YYYY-MM" period string.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q: %w", s, err)
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}

// Contains reports whether d falls in the period. The zero time never
// belongs to any period.
func (p Period) Contains(d time.Time) bool {
	if d.IsZero() {
		return false
	}
	return d.Year() == p.Year && d.Month() == p.Month
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}
