package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medledger/backend/internal/domain/shared"
)

func newTestInvoice(t *testing.T, total float64, eligible bool) *Invoice {
	t.Helper()
	inv, err := NewInvoice(
		uuid.New(),
		time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		"General Hospital",
		decimal.NewFromFloat(total),
		CategoryMedical,
		eligible,
		StrategyImmediate,
	)
	require.NoError(t, err)
	return inv
}

func newTestPayment(t *testing.T, inv *Invoice, amount float64, source PaymentSource, reimbursed bool) PaymentTransaction {
	t.Helper()
	p, err := NewPaymentTransaction(
		inv.UserID,
		inv.ID,
		inv.ServiceDate.AddDate(0, 0, 7),
		decimal.NewFromFloat(amount),
		source,
	)
	require.NoError(t, err)
	p.IsReimbursed = reimbursed
	return *p
}

func TestAllocate(t *testing.T) {
	t.Run("splits payments into buckets", func(t *testing.T) {
		// Scenario: 500 invoiced, 200 via HSA, 100 out of pocket
		inv := newTestInvoice(t, 500, true)
		payments := []PaymentTransaction{
			newTestPayment(t, inv, 200, SourceHSADirect, false),
			newTestPayment(t, inv, 100, SourceOutOfPocket, false),
		}

		b := Allocate(inv, payments)
		assert.True(t, b.PaidViaHSA.Equal(decimal.NewFromInt(200)))
		assert.True(t, b.PaidViaOther.Equal(decimal.NewFromInt(100)))
		assert.True(t, b.UnpaidBalance.Equal(decimal.NewFromInt(200)))
		assert.True(t, b.TotalInvoiced.Equal(decimal.NewFromInt(500)))
		assert.False(t, b.IsOverpaid())
		assert.Empty(t, b.Warnings)
	})

	t.Run("no payments leaves full balance unpaid", func(t *testing.T) {
		inv := newTestInvoice(t, 350, true)
		b := Allocate(inv, nil)
		assert.True(t, b.PaidViaHSA.IsZero())
		assert.True(t, b.PaidViaOther.IsZero())
		assert.True(t, b.UnpaidBalance.Equal(decimal.NewFromInt(350)))
	})

	t.Run("ignores payments for other invoices", func(t *testing.T) {
		inv := newTestInvoice(t, 100, true)
		other := newTestInvoice(t, 100, true)
		payments := []PaymentTransaction{
			newTestPayment(t, other, 100, SourceHSADirect, false),
		}
		b := Allocate(inv, payments)
		assert.True(t, b.PaidViaHSA.IsZero())
		assert.True(t, b.UnpaidBalance.Equal(decimal.NewFromInt(100)))
	})

	t.Run("overpayment clamps unpaid and flags the excess", func(t *testing.T) {
		inv := newTestInvoice(t, 100, true)
		payments := []PaymentTransaction{
			newTestPayment(t, inv, 80, SourceHSADirect, false),
			newTestPayment(t, inv, 50, SourceOutOfPocket, false),
		}

		b := Allocate(inv, payments)
		assert.True(t, b.UnpaidBalance.IsZero())
		assert.True(t, b.OverpaidAmount.Equal(decimal.NewFromInt(30)))
		require.Len(t, b.Warnings, 1)
		assert.Equal(t, shared.WarningOverpayment, b.Warnings[0].Code)
	})

	t.Run("legacy amount field is an equivalent total", func(t *testing.T) {
		inv := newTestInvoice(t, 0, true)
		legacy := decimal.NewFromInt(250)
		inv.TotalAmount = nil
		inv.Amount = &legacy

		b := Allocate(inv, nil)
		assert.True(t, b.TotalInvoiced.Equal(decimal.NewFromInt(250)))
		assert.True(t, b.UnpaidBalance.Equal(decimal.NewFromInt(250)))
		assert.Empty(t, b.Warnings)
	})

	t.Run("missing both totals resolves to zero with a warning", func(t *testing.T) {
		inv := newTestInvoice(t, 0, true)
		inv.TotalAmount = nil
		inv.Amount = nil

		b := Allocate(inv, nil)
		assert.True(t, b.TotalInvoiced.IsZero())
		assert.True(t, b.UnpaidBalance.IsZero())
		require.Len(t, b.Warnings, 1)
		assert.Equal(t, shared.WarningMissingTotal, b.Warnings[0].Code)
	})

	t.Run("balance invariant holds without overpayment", func(t *testing.T) {
		cases := []struct {
			name  string
			total float64
			hsa   []float64
			other []float64
		}{
			{"unpaid only", 500, nil, nil},
			{"exact hsa", 500, []float64{500}, nil},
			{"split", 500, []float64{200}, []float64{100}},
			{"many small", 123.45, []float64{10.01, 20.02}, []float64{30.03, 40.04}},
			{"zero total", 0, nil, nil},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				inv := newTestInvoice(t, tc.total, true)
				var payments []PaymentTransaction
				for _, a := range tc.hsa {
					payments = append(payments, newTestPayment(t, inv, a, SourceHSADirect, false))
				}
				for _, a := range tc.other {
					payments = append(payments, newTestPayment(t, inv, a, SourceOutOfPocket, false))
				}
				b := Allocate(inv, payments)
				assert.True(t, b.Balances(), "hsa=%s other=%s unpaid=%s total=%s",
					b.PaidViaHSA, b.PaidViaOther, b.UnpaidBalance, b.TotalInvoiced)
			})
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		inv := newTestInvoice(t, 500, true)
		payments := []PaymentTransaction{
			newTestPayment(t, inv, 200, SourceHSADirect, false),
			newTestPayment(t, inv, 100, SourceOutOfPocket, false),
		}
		first := Allocate(inv, payments)
		second := Allocate(inv, payments)
		assert.Equal(t, first, second)
	})
}
