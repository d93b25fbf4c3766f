package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvoice(t *testing.T) {
	serviceDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("creates valid invoice", func(t *testing.T) {
		inv, err := NewInvoice(uuid.New(), serviceDate, "Dr. Chen",
			decimal.NewFromInt(250), CategoryDental, true, StrategyVault)
		require.NoError(t, err)
		assert.Equal(t, CategoryDental, inv.Category)
		assert.True(t, inv.TotalInvoiced().Amount().Equal(decimal.NewFromInt(250)))
		assert.Equal(t, 1, inv.GetVersion())
	})

	t.Run("rejects negative total", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), serviceDate, "Dr. Chen",
			decimal.NewFromInt(-1), CategoryMedical, true, StrategyImmediate)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be negative")
	})

	t.Run("rejects nil user", func(t *testing.T) {
		_, err := NewInvoice(uuid.Nil, serviceDate, "Dr. Chen",
			decimal.NewFromInt(100), CategoryMedical, true, StrategyImmediate)
		assert.Error(t, err)
	})

	t.Run("rejects unknown category and strategy", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), serviceDate, "Dr. Chen",
			decimal.NewFromInt(100), InvoiceCategory("spa"), true, StrategyImmediate)
		assert.Error(t, err)

		_, err = NewInvoice(uuid.New(), serviceDate, "Dr. Chen",
			decimal.NewFromInt(100), CategoryMedical, true, ReimbursementStrategy("someday"))
		assert.Error(t, err)
	})
}

func TestInvoiceMutations(t *testing.T) {
	t.Run("AmendTotal replaces legacy amount", func(t *testing.T) {
		inv := newTestInvoice(t, 100, true)
		legacy := decimal.NewFromInt(100)
		inv.TotalAmount = nil
		inv.Amount = &legacy

		require.NoError(t, inv.AmendTotal(decimal.NewFromInt(175)))
		assert.Nil(t, inv.Amount)
		assert.True(t, inv.TotalInvoiced().Amount().Equal(decimal.NewFromInt(175)))
		assert.Equal(t, 2, inv.GetVersion())
	})

	t.Run("AmendTotal rejects negative", func(t *testing.T) {
		inv := newTestInvoice(t, 100, true)
		assert.Error(t, inv.AmendTotal(decimal.NewFromInt(-5)))
	})

	t.Run("Retag to vault with planned date", func(t *testing.T) {
		inv := newTestInvoice(t, 100, true)
		planned := inv.ServiceDate.AddDate(10, 0, 0)
		require.NoError(t, inv.Retag(StrategyVault, &planned))
		assert.Equal(t, StrategyVault, inv.ReimbursementStrategy)
		require.NotNil(t, inv.PlannedReimbursementDate)
	})

	t.Run("Retag rejects planned date before service date", func(t *testing.T) {
		inv := newTestInvoice(t, 100, true)
		planned := inv.ServiceDate.AddDate(-1, 0, 0)
		assert.Error(t, inv.Retag(StrategyVault, &planned))
	})
}

func TestReimbursementStrategy(t *testing.T) {
	t.Run("IsDeferred", func(t *testing.T) {
		assert.False(t, StrategyImmediate.IsDeferred())
		assert.True(t, StrategyMedium.IsDeferred())
		assert.True(t, StrategyVault.IsDeferred())
	})

	t.Run("AllReimbursementStrategies", func(t *testing.T) {
		assert.Len(t, AllReimbursementStrategies(), 3)
	})
}

func TestVaultExpenseView(t *testing.T) {
	inv := newTestInvoice(t, 1000, true)
	planned := inv.ServiceDate.AddDate(10, 0, 0)
	require.NoError(t, inv.Retag(StrategyVault, &planned))
	inv.InvestmentNotes = "index fund"

	v := inv.VaultExpense()
	assert.Equal(t, inv.ID, v.ID)
	assert.True(t, v.Amount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, StrategyVault, v.ReimbursementStrategy)
	assert.Equal(t, "index fund", v.InvestmentNotes)
}
