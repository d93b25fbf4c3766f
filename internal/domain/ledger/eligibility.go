package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/medledger/backend/internal/domain/shared"
)

// Strictness selects how account windows participate in eligibility.
// The invoice-level flag and the account-window check are distinct
// signals; which one governs is a per-deployment decision, so it is an
// explicit mode rather than a guess.
type Strictness string

const (
	// StrictnessFlagOnly trusts invoice.IsHsaEligible alone. For
	// deployments that do not model HSA accounts yet.
	StrictnessFlagOnly Strictness = "flag_only"
	// StrictnessAccountWindow additionally requires the expense date to
	// fall inside a qualifying account window. Reimbursing an expense
	// incurred before the account existed is a compliance violation, so
	// amounts outside every window are excluded, not merely flagged.
	StrictnessAccountWindow Strictness = "account_window"
	// StrictnessAuto applies the window check whenever at least one
	// well-formed account is supplied and falls back to the flag
	// otherwise.
	StrictnessAuto Strictness = "auto"
)

// IsValid checks if the strictness mode is valid
func (s Strictness) IsValid() bool {
	switch s {
	case StrictnessFlagOnly, StrictnessAccountWindow, StrictnessAuto:
		return true
	}
	return false
}

// String returns the string representation of the strictness mode
func (s Strictness) String() string {
	return string(s)
}

// EligibilityClassifier enriches an allocation breakdown with the
// reimbursement-opportunity fields. Stateless apart from configuration;
// safe for concurrent use.
type EligibilityClassifier struct {
	strictness Strictness
}

// ClassifierOption is a functional option for configuring EligibilityClassifier
type ClassifierOption func(*EligibilityClassifier)

// WithStrictness sets the eligibility strictness mode
func WithStrictness(s Strictness) ClassifierOption {
	return func(c *EligibilityClassifier) {
		if s.IsValid() {
			c.strictness = s
		}
	}
}

// NewEligibilityClassifier creates a classifier with optional configuration
func NewEligibilityClassifier(opts ...ClassifierOption) *EligibilityClassifier {
	c := &EligibilityClassifier{strictness: StrictnessAuto}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Strictness returns the configured strictness mode
func (c *EligibilityClassifier) Strictness() Strictness {
	return c.strictness
}

// Classify extends an allocation breakdown with the reimbursement
// opportunity fields:
//
//   - AlreadyPaidRecoverable: out-of-pocket, not-yet-reimbursed money on
//     an HSA-eligible expense, ready to be pulled back out of the HSA.
//   - UnpaidStrategicOpportunity: the unpaid balance on an eligible
//     expense (pay with a rewards card now, reimburse from HSA later).
//   - HsaReimbursementEligible: the sum of the two.
//
// A non-eligible invoice zeroes all three. When the window check is in
// force and the expense date falls outside every qualifying account
// window, the would-be-eligible amount moves to WindowIneligible and a
// warning is attached.
func (c *EligibilityClassifier) Classify(
	invoice *Invoice,
	breakdown AllocationBreakdown,
	payments []PaymentTransaction,
	accounts []HSAAccount,
) AllocationBreakdown {
	b := breakdown
	b.AlreadyPaidRecoverable = decimal.Zero
	b.UnpaidStrategicOpportunity = decimal.Zero
	b.HsaReimbursementEligible = decimal.Zero
	b.WindowIneligible = decimal.Zero

	if !invoice.IsHsaEligible {
		return b
	}

	recoverable := decimal.Zero
	for _, p := range payments {
		if p.InvoiceID != invoice.ID {
			continue
		}
		if p.IsRecoverable() {
			recoverable = recoverable.Add(p.Amount)
		}
	}
	opportunity := b.UnpaidBalance

	valid, warnings := WellFormedAccounts(accounts)
	b.Warnings = append(b.Warnings, warnings...)

	if c.windowCheckApplies(valid) && !IsDateEligible(invoice.ServiceDate, valid) {
		b.WindowIneligible = recoverable.Add(opportunity)
		if b.WindowIneligible.IsPositive() {
			b.Warnings = append(b.Warnings, shared.NewWarning(shared.WarningWindowIneligible,
				fmt.Sprintf("%s is not reimbursable: expense date %s is outside every HSA account window",
					b.WindowIneligible.StringFixed(2), invoice.ServiceDate.Format("2006-01-02"))))
		}
		return b
	}

	b.AlreadyPaidRecoverable = recoverable
	b.UnpaidStrategicOpportunity = opportunity
	b.HsaReimbursementEligible = recoverable.Add(opportunity)
	return b
}

func (c *EligibilityClassifier) windowCheckApplies(validAccounts []HSAAccount) bool {
	switch c.strictness {
	case StrictnessFlagOnly:
		return false
	case StrictnessAccountWindow:
		return true
	default: // StrictnessAuto
		return len(validAccounts) > 0
	}
}
