package ledger

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medledger/backend/internal/domain/shared"
)

// VaultExpense is the vault tracker's view of an invoice whose
// reimbursement is deliberately deferred so the money stays invested.
type VaultExpense struct {
	ID                       uuid.UUID             `json:"id"`
	Date                     time.Time             `json:"date"`
	Amount                   decimal.Decimal       `json:"amount"`
	ReimbursementStrategy    ReimbursementStrategy `json:"reimbursementStrategy"`
	PlannedReimbursementDate *time.Time            `json:"plannedReimbursementDate"`
	CardPayoffMonths         int                   `json:"cardPayoffMonths"`
	InvestmentNotes          string                `json:"investmentNotes"`
}

// VaultSummary aggregates a portfolio of deferred reimbursements.
type VaultSummary struct {
	TotalInVault         decimal.Decimal `json:"totalInVault"`
	ProjectedGrowth      decimal.Decimal `json:"projectedGrowth"`
	AverageYearsInvested float64         `json:"averageYearsInvested"`
	NextReminder         *time.Time      `json:"nextReminder"`
	ExpenseCount         int             `json:"expenseCount"`
}

// ErrInvalidReturnRate rejects rates at or below -100%, which would
// imply a non-positive growth factor.
var ErrInvalidReturnRate = shared.NewDomainError("INVALID_RETURN_RATE",
	"Annual return rate must be greater than -1")

const daysPerYear = 365.0

// ElapsedYears returns the investment horizon of a vaulted expense in
// fractional years: planned reimbursement date minus expense date, in
// days over 365. An absent planned date means zero - no growth is
// assumed for undated plans. A planned date before the expense date is
// treated the same way.
func ElapsedYears(e VaultExpense) float64 {
	if e.PlannedReimbursementDate == nil {
		return 0
	}
	days := e.PlannedReimbursementDate.Sub(e.Date).Hours() / 24
	if days <= 0 {
		return 0
	}
	return days / daysPerYear
}

// ProjectValue computes the projected value of a vaulted expense at its
// planned reimbursement date under discrete annual compounding with a
// fractional exponent:
//
//	amount * (1 + rate)^years
//
// Negative rates model loss scenarios; rates <= -1 are rejected.
func ProjectValue(e VaultExpense, annualReturnRate float64) (decimal.Decimal, error) {
	if annualReturnRate <= -1 {
		return decimal.Zero, ErrInvalidReturnRate
	}
	years := ElapsedYears(e)
	if years == 0 {
		return e.Amount, nil
	}
	factor := math.Pow(1+annualReturnRate, years)
	return e.Amount.Mul(decimal.NewFromFloat(factor)), nil
}

// Summarize reduces a set of expenses to the vault portfolio view.
// Only deferred strategies (medium, vault) participate; everything else
// is skipped. Undated entries contribute zero years to the average.
// NextReminder is the earliest planned reimbursement date on or after
// today, nil when none is coming up.
func Summarize(expenses []VaultExpense, annualReturnRate float64, today time.Time) (VaultSummary, error) {
	if annualReturnRate <= -1 {
		return VaultSummary{}, ErrInvalidReturnRate
	}

	summary := VaultSummary{
		TotalInVault:    decimal.Zero,
		ProjectedGrowth: decimal.Zero,
	}
	totalYears := 0.0

	for _, e := range expenses {
		if !e.ReimbursementStrategy.IsDeferred() {
			continue
		}
		summary.ExpenseCount++
		summary.TotalInVault = summary.TotalInVault.Add(e.Amount)

		projected, err := ProjectValue(e, annualReturnRate)
		if err != nil {
			return VaultSummary{}, err
		}
		summary.ProjectedGrowth = summary.ProjectedGrowth.Add(projected.Sub(e.Amount))
		totalYears += ElapsedYears(e)

		if e.PlannedReimbursementDate != nil && !e.PlannedReimbursementDate.Before(today) {
			if summary.NextReminder == nil || e.PlannedReimbursementDate.Before(*summary.NextReminder) {
				d := *e.PlannedReimbursementDate
				summary.NextReminder = &d
			}
		}
	}

	if summary.ExpenseCount > 0 {
		summary.AverageYearsInvested = totalYears / float64(summary.ExpenseCount)
	}
	return summary, nil
}
