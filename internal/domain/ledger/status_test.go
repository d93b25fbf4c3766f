package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	d := decimal.NewFromInt

	cases := []struct {
		name     string
		total    int64
		hsa      int64
		other    int64
		unpaid   int64
		expected PaymentStatus
	}{
		{"fully hsa paid", 500, 500, 0, 0, StatusFullyHsaPaid},
		{"unpaid with balance", 500, 200, 100, 200, StatusUnpaidWithBalance},
		{"fully paid other only", 300, 0, 300, 0, StatusFullyPaidOtherOnly},
		{"mixed fully paid", 300, 200, 100, 0, StatusPartiallyPaidMixed},
		{"no charge zero total", 0, 0, 0, 0, StatusNoCharge},
		// Ties resolve toward the earliest rule: full HSA payment wins
		// even when an out-of-pocket overpayment is also present.
		{"full hsa beats mixed", 500, 500, 50, 0, StatusFullyHsaPaid},
		// An open balance beats the mixed label.
		{"balance beats mixed", 500, 100, 100, 300, StatusUnpaidWithBalance},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := AllocationBreakdown{
				TotalInvoiced: d(tc.total),
				PaidViaHSA:    d(tc.hsa),
				PaidViaOther:  d(tc.other),
				UnpaidBalance: d(tc.unpaid),
			}
			assert.Equal(t, tc.expected, StatusOf(b))
		})
	}

	t.Run("zero total with hsa payment is not fully hsa paid", func(t *testing.T) {
		b := AllocationBreakdown{
			TotalInvoiced: decimal.Zero,
			PaidViaHSA:    decimal.Zero,
		}
		assert.Equal(t, StatusNoCharge, StatusOf(b))
	})
}

func TestPaymentStatus(t *testing.T) {
	t.Run("IsValid", func(t *testing.T) {
		assert.True(t, StatusFullyHsaPaid.IsValid())
		assert.True(t, StatusNoCharge.IsValid())
		assert.False(t, PaymentStatus("PAID").IsValid())
	})

	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "UNPAID_WITH_BALANCE", StatusUnpaidWithBalance.String())
	})
}
