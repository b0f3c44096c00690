package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/rentledger/internal/asset"
	"github.com/MrJamesThe3rd/rentledger/internal/bill"
	"github.com/MrJamesThe3rd/rentledger/internal/preset"
	"github.com/MrJamesThe3rd/rentledger/internal/store/memory"
	"github.com/MrJamesThe3rd/rentledger/internal/tenancy"
)

func newFlat(t *testing.T, s *memory.Store) *asset.Asset {
	t.Helper()

	a, err := asset.NewService(s).Create(context.Background(), asset.CreateParams{
		OwnerID:   "owner-1",
		Kind:      asset.KindFlat,
		Title:     "Banani 3BR",
		Rates:     asset.RateTable{{Cycle: asset.CycleMonthly, Amount: 25000}},
		Utilities: asset.ResidentialCharges{ServiceCharge: 3000, WaterBill: 500, GasBill: 800},
	})
	require.NoError(t, err)

	return a
}

func TestLedgerFlow(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	a := newFlat(t, s)

	tenancies := tenancy.NewService(s)
	bills := bill.NewService(s, bill.WithNamer(preset.NewService(s, nil)))

	res, err := tenancies.Create(ctx, a.ID, tenancy.CreateParams{
		RenterID:  "renter-1",
		StartDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(29300), res.Bill.Total)

	got, err := asset.NewService(s).Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, asset.StatusRented, got.Status)

	b, err := bills.RecordPayment(ctx, res.Bill.ID, bill.PaymentParams{Amount: 10000})
	require.NoError(t, err)
	assert.Equal(t, bill.StatusPartial, b.Status)

	require.NoError(t, preset.NewService(s, nil).Learn(ctx, "late", "Late Fee"))

	bulk, err := bills.AddCharges(ctx, []uuid.UUID{res.Bill.ID}, []bill.ChargeLine{
		{Name: "late payment", Amount: decimal.NewFromInt(500)},
	})
	require.NoError(t, err)
	require.Len(t, bulk.Updated, 1)
	assert.Equal(t, int64(29800), bulk.Updated[0].Total)
	assert.Equal(t, "Late Fee", bulk.Updated[0].ExtraCharges[0].Name)

	b, err = bills.RecordPayment(ctx, res.Bill.ID, bill.PaymentParams{Amount: 19800})
	require.NoError(t, err)
	assert.Equal(t, bill.StatusPaid, b.Status)

	stored, err := bills.Get(ctx, res.Bill.ID)
	require.NoError(t, err)
	assert.Equal(t, b.Total, stored.Total)
	assert.Len(t, stored.Payments, 2)

	ended, err := tenancies.Terminate(ctx, res.Tenancy.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, tenancy.StatusPast, ended.Status)

	got, err = asset.NewService(s).Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, asset.StatusActive, got.Status)

	_, err = tenancies.Terminate(ctx, res.Tenancy.ID, nil)
	assert.ErrorIs(t, err, tenancy.ErrTenancyNotActive)
}

func TestCreateTenancy_UnavailableWritesNothing(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	a := newFlat(t, s)

	require.NoError(t, asset.NewService(s).SetStatus(ctx, a.ID, asset.StatusMaintenance))

	_, err := tenancy.NewService(s).Create(ctx, a.ID, tenancy.CreateParams{RenterID: "renter-1"})
	assert.ErrorIs(t, err, tenancy.ErrAssetUnavailable)

	assertEmpty(t, s)

	got, err := s.GetAsset(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, asset.StatusMaintenance, got.Status)
}

// failingBills makes the bill write of every tenancy transaction fail.
type failingBills struct {
	*memory.Store
}

func (f failingBills) Begin(ctx context.Context) (tenancy.Tx, error) {
	tx, err := f.Store.Begin(ctx)
	if err != nil {
		return nil, err
	}

	return failingBillTx{Tx: tx}, nil
}

type failingBillTx struct {
	tenancy.Tx
}

func (failingBillTx) CreateBill(context.Context, *bill.Bill) error {
	return errors.New("disk full")
}

func TestCreateTenancy_FailedBillRollsBack(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	a := newFlat(t, s)

	_, err := tenancy.NewService(failingBills{s}).Create(ctx, a.ID, tenancy.CreateParams{RenterID: "renter-1"})
	require.Error(t, err)

	assertEmpty(t, s)

	got, err := s.GetAsset(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, asset.StatusActive, got.Status)

	// The lock was released.
	_, err = tenancy.NewService(s).Create(ctx, a.ID, tenancy.CreateParams{RenterID: "renter-1"})
	assert.NoError(t, err)
}

func TestTx_RollbackAfterCommitIsNoop(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	a := newFlat(t, s)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.SetAssetStatus(ctx, a.ID, asset.StatusRented))
	require.NoError(t, tx.Commit())
	assert.NoError(t, tx.Rollback())
	assert.Error(t, tx.Commit())

	got, err := s.GetAsset(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, asset.StatusRented, got.Status)
}

func TestStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	a := newFlat(t, s)

	res, err := tenancy.NewService(s).Create(ctx, a.ID, tenancy.CreateParams{RenterID: "renter-1"})
	require.NoError(t, err)

	b, err := s.GetBill(ctx, res.Bill.ID)
	require.NoError(t, err)

	b.ExtraCharges = append(b.ExtraCharges, bill.ExtraCharge{Name: "x", Amount: 1})
	b.Total = 1

	again, err := s.GetBill(ctx, res.Bill.ID)
	require.NoError(t, err)
	assert.Empty(t, again.ExtraCharges)
	assert.Equal(t, int64(29300), again.Total)

	_, err = s.UpdateBill(ctx, uuid.New(), func(b bill.Bill) (bill.Bill, error) { return b, nil })
	assert.ErrorIs(t, err, bill.ErrNotFound)
}

func TestRecordPayment_ConcurrentPaymentsAllCount(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	a := newFlat(t, s)

	res, err := tenancy.NewService(s).Create(ctx, a.ID, tenancy.CreateParams{RenterID: "renter-1"})
	require.NoError(t, err)

	bills := bill.NewService(s)

	const n = 50

	var wg sync.WaitGroup

	errs := make(chan error, n)

	for range n {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := bills.RecordPayment(ctx, res.Bill.ID, bill.PaymentParams{Amount: 1})
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	got, err := bills.Get(ctx, res.Bill.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), got.PaidAmount)
	assert.Len(t, got.Payments, n)
	assert.Equal(t, bill.StatusPartial, got.Status)
}

func TestUpdateBill_FailedUpdateKeepsStoredBill(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	a := newFlat(t, s)

	res, err := tenancy.NewService(s).Create(ctx, a.ID, tenancy.CreateParams{RenterID: "renter-1"})
	require.NoError(t, err)

	_, err = bill.NewService(s).RecordPayment(ctx, res.Bill.ID, bill.PaymentParams{Amount: -1})
	assert.ErrorIs(t, err, bill.ErrInvalidPaymentAmount)

	got, err := s.GetBill(ctx, res.Bill.ID)
	require.NoError(t, err)
	assert.Zero(t, got.PaidAmount)
	assert.Empty(t, got.Payments)
}

func TestAssetSetStatus_RentedAssetUnchanged(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	a := newFlat(t, s)

	_, err := tenancy.NewService(s).Create(ctx, a.ID, tenancy.CreateParams{RenterID: "renter-1"})
	require.NoError(t, err)

	err = asset.NewService(s).SetStatus(ctx, a.ID, asset.StatusMaintenance)
	assert.ErrorIs(t, err, asset.ErrInvalidStatusTransition)

	got, err := s.GetAsset(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, asset.StatusRented, got.Status)

	assert.ErrorIs(t, s.UpdateStatus(ctx, uuid.New(), asset.StatusActive), asset.ErrNotFound)
}

func TestStore_ListBillsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	svc := tenancy.NewService(s)

	for i := range 3 {
		a := newFlat(t, s)
		_, err := svc.Create(ctx, a.ID, tenancy.CreateParams{
			RenterID:  "renter-1",
			StartDate: time.Date(2026, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}

	bills, err := s.ListBills(ctx, bill.ListFilter{RenterID: new("renter-1")})
	require.NoError(t, err)
	require.Len(t, bills, 3)
	assert.Equal(t, time.March, bills[0].PeriodStart.Month())
	assert.Equal(t, time.January, bills[2].PeriodStart.Month())
}

func assertEmpty(t *testing.T, s *memory.Store) {
	t.Helper()

	tenancies, err := s.ListTenancies(context.Background(), tenancy.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, tenancies)

	bills, err := s.ListBills(context.Background(), bill.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, bills)
}
