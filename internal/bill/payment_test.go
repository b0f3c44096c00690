package bill_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/rentledger/internal/bill"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, bill.StatusUnpaid, bill.Classify(0, 100))
	assert.Equal(t, bill.StatusUnpaid, bill.Classify(-5, 100))
	assert.Equal(t, bill.StatusPartial, bill.Classify(1, 100))
	assert.Equal(t, bill.StatusPaid, bill.Classify(100, 100))
	assert.Equal(t, bill.StatusPaid, bill.Classify(150, 100))
}

// Rent 25000 plus 4300 of fixed charges, paid in two instalments with a
// late fee added in between.
func TestLedgerScenario(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 5, d, 10, 0, 0, 0, time.UTC) }

	b, err := bill.Recompute(flatBill())
	require.NoError(t, err)
	assert.Equal(t, int64(29300), b.Total)
	assert.Equal(t, bill.StatusUnpaid, b.Status)

	b, err = bill.ApplyPayment(b, bill.Payment{Amount: 10000, Method: bill.MethodBank, ReceivedAt: day(3)})
	require.NoError(t, err)
	assert.Equal(t, bill.StatusPartial, b.Status)
	assert.Equal(t, int64(19300), b.Due())
	assert.Nil(t, b.PaidDate)

	b, err = bill.AddCharge(b, bill.ExtraCharge{Name: "Late Fee", Amount: 500, AddedAt: day(10)})
	require.NoError(t, err)
	assert.Equal(t, int64(29800), b.Total)
	assert.Equal(t, bill.StatusPartial, b.Status)
	assert.Equal(t, int64(19800), b.Due())

	b, err = bill.ApplyPayment(b, bill.Payment{Amount: 19800, Method: bill.MethodCash, ReceivedAt: day(12)})
	require.NoError(t, err)
	assert.Equal(t, bill.StatusPaid, b.Status)
	assert.Zero(t, b.Due())
	assert.Zero(t, b.Credit())
	require.NotNil(t, b.PaidDate)
	assert.Equal(t, day(12), *b.PaidDate)
	assert.Len(t, b.Payments, 2)
}

func TestApplyPayment(t *testing.T) {
	base, err := bill.Recompute(flatBill())
	require.NoError(t, err)

	t.Run("OverpaymentBecomesCredit", func(t *testing.T) {
		got, err := bill.ApplyPayment(base, bill.Payment{Amount: 30000})
		require.NoError(t, err)
		assert.Equal(t, bill.StatusPaid, got.Status)
		assert.Equal(t, int64(700), got.Credit())
		assert.Equal(t, bill.MethodCash, got.Payments[0].Method)
	})

	t.Run("ZeroIsRecorded", func(t *testing.T) {
		got, err := bill.ApplyPayment(base, bill.Payment{Amount: 0, Method: bill.MethodMobile})
		require.NoError(t, err)
		assert.Equal(t, bill.StatusUnpaid, got.Status)
		assert.Len(t, got.Payments, 1)
	})

	t.Run("NegativeRejected", func(t *testing.T) {
		got, err := bill.ApplyPayment(base, bill.Payment{Amount: -1})
		assert.ErrorIs(t, err, bill.ErrInvalidPaymentAmount)
		assert.Equal(t, base, got)
	})

	t.Run("UnknownMethod", func(t *testing.T) {
		_, err := bill.ApplyPayment(base, bill.Payment{Amount: 1, Method: "barter"})
		assert.ErrorIs(t, err, bill.ErrInvalidPaymentMethod)
	})
}

func TestMarkOverrides(t *testing.T) {
	at := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	base, err := bill.Recompute(flatBill())
	require.NoError(t, err)
	base, err = bill.ApplyPayment(base, bill.Payment{Amount: 100})
	require.NoError(t, err)

	paid := bill.MarkPaid(base, at)
	assert.Equal(t, bill.StatusPaid, paid.Status)
	assert.Equal(t, paid.Total, paid.PaidAmount)
	require.NotNil(t, paid.PaidDate)

	unpaid := bill.MarkUnpaid(paid)
	assert.Equal(t, bill.StatusUnpaid, unpaid.Status)
	assert.Zero(t, unpaid.PaidAmount)
	assert.Nil(t, unpaid.PaidDate)
	assert.Len(t, unpaid.Payments, 1)
}

func TestMarkPartial(t *testing.T) {
	at := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	b := bill.Bill{Total: 999}

	type testCase struct {
		name       string
		partial    bill.Partial
		wantPaid   int64
		wantStatus bill.Status
		wantErr    error
	}

	tests := []testCase{
		{name: "Fixed", partial: bill.Partial{Amount: new(int64(400))}, wantPaid: 400, wantStatus: bill.StatusPartial},
		{name: "FixedClampedToTotal", partial: bill.Partial{Amount: new(int64(5000))}, wantPaid: 999, wantStatus: bill.StatusPaid},
		{name: "FixedZero", partial: bill.Partial{Amount: new(int64(0))}, wantPaid: 0, wantStatus: bill.StatusUnpaid},
		{name: "PercentRoundsHalfAwayFromZero", partial: bill.Partial{Percent: new(decimal.NewFromInt(50))}, wantPaid: 500, wantStatus: bill.StatusPartial},
		{name: "PercentRoundsToNearest", partial: bill.Partial{Percent: new(decimal.RequireFromString("33.3"))}, wantPaid: 333, wantStatus: bill.StatusPartial},
		{name: "PercentOverHundredClamped", partial: bill.Partial{Percent: new(decimal.NewFromInt(150))}, wantPaid: 999, wantStatus: bill.StatusPaid},
		{name: "NegativeFixed", partial: bill.Partial{Amount: new(int64(-1))}, wantErr: bill.ErrInvalidPaymentAmount},
		{name: "NegativePercent", partial: bill.Partial{Percent: new(decimal.NewFromInt(-10))}, wantErr: bill.ErrInvalidPaymentAmount},
		{name: "Neither", partial: bill.Partial{}, wantErr: bill.ErrInvalidPaymentAmount},
		{
			name:    "Both",
			partial: bill.Partial{Amount: new(int64(1)), Percent: new(decimal.NewFromInt(1))},
			wantErr: bill.ErrInvalidPaymentAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bill.MarkPartial(b, tt.partial, at)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantPaid, got.PaidAmount)
			assert.Equal(t, tt.wantStatus, got.Status)
		})
	}
}
