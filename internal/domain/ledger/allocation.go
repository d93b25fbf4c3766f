package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/medledger/backend/internal/domain/shared"
)

// AllocationBreakdown is the derived reconciliation of one invoice
// against its payments. It is recomputed on every read, never persisted
// and never cached. Field names are part of the external contract;
// dashboard, list and export consumers format them verbatim.
//
// Invariant: PaidViaHSA + PaidViaOther + UnpaidBalance == TotalInvoiced
// whenever OverpaidAmount is zero.
type AllocationBreakdown struct {
	TotalInvoiced              decimal.Decimal  `json:"totalInvoiced"`
	PaidViaHSA                 decimal.Decimal  `json:"paidViaHSA"`
	PaidViaOther               decimal.Decimal  `json:"paidViaOther"`
	UnpaidBalance              decimal.Decimal  `json:"unpaidBalance"`
	OverpaidAmount             decimal.Decimal  `json:"overpaidAmount"`
	HsaReimbursementEligible   decimal.Decimal  `json:"hsaReimbursementEligible"`
	AlreadyPaidRecoverable     decimal.Decimal  `json:"alreadyPaidRecoverable"`
	UnpaidStrategicOpportunity decimal.Decimal  `json:"unpaidStrategicOpportunity"`
	WindowIneligible           decimal.Decimal  `json:"windowIneligible"`
	Warnings                   []shared.Warning `json:"warnings,omitempty"`
}

// IsOverpaid reports whether the payments exceeded the invoiced total
func (b AllocationBreakdown) IsOverpaid() bool {
	return b.OverpaidAmount.IsPositive()
}

// TotalPaid returns the sum of both payment buckets
func (b AllocationBreakdown) TotalPaid() decimal.Decimal {
	return b.PaidViaHSA.Add(b.PaidViaOther)
}

// Balances verifies the core allocation invariant to within a cent
func (b AllocationBreakdown) Balances() bool {
	if b.IsOverpaid() {
		return true
	}
	sum := b.PaidViaHSA.Add(b.PaidViaOther).Add(b.UnpaidBalance)
	return sum.Sub(b.TotalInvoiced).Abs().LessThanOrEqual(decimal.New(1, -2))
}

// Allocate aggregates the payments recorded against an invoice into
// HSA-paid / other-paid / unpaid buckets. Pure function: same inputs,
// same breakdown. Payments referencing a different invoice are ignored.
//
// A negative raw balance (overpayment) is clamped to zero for display
// and reported through OverpaidAmount plus a warning so the caller can
// reconcile or refund instead of silently losing the discrepancy.
func Allocate(invoice *Invoice, payments []PaymentTransaction) AllocationBreakdown {
	total := invoice.TotalInvoiced().Amount()

	paidHSA := decimal.Zero
	paidOther := decimal.Zero
	for _, p := range payments {
		if p.InvoiceID != invoice.ID {
			continue
		}
		switch p.Source {
		case SourceHSADirect:
			paidHSA = paidHSA.Add(p.Amount)
		case SourceOutOfPocket:
			paidOther = paidOther.Add(p.Amount)
		}
	}

	raw := total.Sub(paidHSA).Sub(paidOther)
	unpaid := raw
	overpaid := decimal.Zero
	if raw.IsNegative() {
		unpaid = decimal.Zero
		overpaid = raw.Neg()
	}

	b := AllocationBreakdown{
		TotalInvoiced:              total,
		PaidViaHSA:                 paidHSA,
		PaidViaOther:               paidOther,
		UnpaidBalance:              unpaid,
		OverpaidAmount:             overpaid,
		HsaReimbursementEligible:   decimal.Zero,
		AlreadyPaidRecoverable:     decimal.Zero,
		UnpaidStrategicOpportunity: decimal.Zero,
		WindowIneligible:           decimal.Zero,
	}

	if !invoice.HasTotal() {
		b.Warnings = append(b.Warnings, shared.NewWarning(shared.WarningMissingTotal,
			"Invoice has no total amount; treating invoiced total as zero"))
	}
	if overpaid.IsPositive() {
		b.Warnings = append(b.Warnings, shared.NewWarning(shared.WarningOverpayment,
			fmt.Sprintf("Payments exceed invoiced total by %s", overpaid.StringFixed(2))))
	}

	return b
}
