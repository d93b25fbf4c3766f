package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid inputs", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(100), USD)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))
		assert.Equal(t, USD, m.Currency())
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(100), "")
		assert.Error(t, err)
	})

	t.Run("FromCents builds exact decimals", func(t *testing.T) {
		m := NewMoneyUSDFromCents(12345)
		assert.Equal(t, "123.45", m.StringFixed(2))
		assert.Equal(t, int64(12345), m.Cents())
	})
}

func TestMoneyArithmetic(t *testing.T) {
	t.Run("Add sums matching currencies", func(t *testing.T) {
		a := NewMoneyUSDFromCents(1050)
		b := NewMoneyUSDFromCents(2025)
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, int64(3075), sum.Cents())
	})

	t.Run("Add rejects currency mismatch", func(t *testing.T) {
		a := NewMoneyUSD(decimal.NewFromInt(1))
		b, _ := NewMoney(decimal.NewFromInt(1), EUR)
		_, err := a.Add(b)
		assert.Error(t, err)
	})

	t.Run("Subtract can go negative", func(t *testing.T) {
		a := NewMoneyUSDFromCents(100)
		b := NewMoneyUSDFromCents(250)
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.True(t, diff.IsNegative())
	})

	t.Run("ClampNonNegative zeroes negatives only", func(t *testing.T) {
		neg := NewMoneyUSDFromCents(-500)
		pos := NewMoneyUSDFromCents(500)
		assert.True(t, neg.ClampNonNegative().IsZero())
		assert.Equal(t, int64(500), pos.ClampNonNegative().Cents())
	})

	t.Run("cent arithmetic has no float drift", func(t *testing.T) {
		// 0.1 + 0.2 is the classic float failure case
		sum := NewMoneyUSDFromFloat(0.1).MustAdd(NewMoneyUSDFromFloat(0.2))
		assert.True(t, sum.Equals(NewMoneyUSDFromCents(30)))
	})
}

func TestMoneyComparison(t *testing.T) {
	t.Run("EqualsWithinCent tolerates sub-cent noise", func(t *testing.T) {
		a := NewMoneyUSDFromFloat(100.004)
		b := NewMoneyUSDFromCents(10000)
		assert.True(t, a.EqualsWithinCent(b))
	})

	t.Run("EqualsWithinCent rejects a full cent of difference", func(t *testing.T) {
		a := NewMoneyUSDFromCents(10002)
		b := NewMoneyUSDFromCents(10000)
		assert.False(t, a.EqualsWithinCent(b))
	})

	t.Run("LessThan and GreaterThan", func(t *testing.T) {
		a := NewMoneyUSDFromCents(100)
		b := NewMoneyUSDFromCents(200)
		lt, err := a.LessThan(b)
		require.NoError(t, err)
		assert.True(t, lt)
		gt, err := b.GreaterThan(a)
		require.NoError(t, err)
		assert.True(t, gt)
	})
}

func TestMoneyRounding(t *testing.T) {
	t.Run("RoundCents rounds to two places", func(t *testing.T) {
		m := NewMoneyUSD(decimal.RequireFromString("10.555"))
		assert.Equal(t, "10.56", m.RoundCents().StringFixed(2))
	})

	t.Run("RoundBank uses banker's rounding", func(t *testing.T) {
		m := NewMoneyUSD(decimal.RequireFromString("10.125"))
		assert.Equal(t, "10.12", m.RoundBank(2).StringFixed(2))
	})
}

func TestMoneyJSON(t *testing.T) {
	t.Run("marshals amount as string", func(t *testing.T) {
		m := NewMoneyUSDFromCents(4999)
		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.JSONEq(t, `{"amount":"49.99","currency":"USD"}`, string(data))
	})

	t.Run("unmarshal round-trips", func(t *testing.T) {
		var m Money
		err := json.Unmarshal([]byte(`{"amount":"12.34","currency":"USD"}`), &m)
		require.NoError(t, err)
		assert.True(t, m.Equals(NewMoneyUSDFromCents(1234)))
	})

	t.Run("unmarshal rejects bad amount", func(t *testing.T) {
		var m Money
		err := json.Unmarshal([]byte(`{"amount":"abc","currency":"USD"}`), &m)
		assert.Error(t, err)
	})
}

func TestMoneyScan(t *testing.T) {
	t.Run("scans string value", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("55.25"))
		assert.True(t, m.Equals(NewMoneyUSDFromCents(5525)))
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("nil scans to zero", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
	})

	t.Run("rejects unsupported type", func(t *testing.T) {
		var m Money
		assert.Error(t, m.Scan(42))
	})
}
