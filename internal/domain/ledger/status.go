package ledger

// PaymentStatus is the human-facing label derived from an allocation
// breakdown. Used by the presentation layer only; it carries no
// information the breakdown does not already contain.
type PaymentStatus string

const (
	StatusFullyHsaPaid       PaymentStatus = "FULLY_HSA_PAID"
	StatusPartiallyPaidMixed PaymentStatus = "PARTIALLY_PAID_MIXED"
	StatusUnpaidWithBalance  PaymentStatus = "UNPAID_WITH_BALANCE"
	StatusFullyPaidOtherOnly PaymentStatus = "FULLY_PAID_OTHER_ONLY"
	StatusNoCharge           PaymentStatus = "NO_CHARGE"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case StatusFullyHsaPaid, StatusPartiallyPaidMixed, StatusUnpaidWithBalance,
		StatusFullyPaidOtherOnly, StatusNoCharge:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// StatusOf maps a breakdown to its display label. The categories are
// not mutually exclusive on raw numbers, so evaluation order decides
// ties: fully-HSA-paid wins over everything, an open balance wins over
// the mixed/other labels.
func StatusOf(b AllocationBreakdown) PaymentStatus {
	switch {
	case b.TotalInvoiced.IsPositive() && b.PaidViaHSA.Equal(b.TotalInvoiced):
		return StatusFullyHsaPaid
	case b.UnpaidBalance.IsPositive():
		return StatusUnpaidWithBalance
	case b.PaidViaOther.IsPositive() && b.UnpaidBalance.IsZero() && b.PaidViaHSA.IsZero():
		return StatusFullyPaidOtherOnly
	case b.PaidViaHSA.IsPositive() && b.PaidViaOther.IsPositive():
		return StatusPartiallyPaidMixed
	default:
		return StatusNoCharge
	}
}
