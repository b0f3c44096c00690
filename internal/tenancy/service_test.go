package tenancy_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/rentledger/internal/asset"
	"github.com/MrJamesThe3rd/rentledger/internal/bill"
	"github.com/MrJamesThe3rd/rentledger/internal/tenancy"
)

var (
	now   = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	clock = func() time.Time { return now }
)

func flat(id uuid.UUID, status asset.Status) *asset.Asset {
	return &asset.Asset{
		ID:        id,
		OwnerID:   "owner-1",
		Kind:      asset.KindFlat,
		Title:     "Gulshan 2BR",
		Rates:     asset.RateTable{{Cycle: asset.CycleMonthly, Amount: 25000}},
		Status:    status,
		Utilities: asset.ResidentialCharges{ServiceCharge: 3000, WaterBill: 500, GasBill: 800},
	}
}

func TestService_Create(t *testing.T) {
	assetID := uuid.New()
	params := tenancy.CreateParams{RenterID: "renter-1", RenterName: "Rahim", LeaseMonths: 12}

	type testCase struct {
		name         string
		asset        *asset.Asset
		params       tenancy.CreateParams
		setupTx      func(tx *tenancy.MockTx)
		wantErr      error
		wantRent     int64
		wantTotal    int64
		wantWarnings int
	}

	tests := []testCase{
		{
			name:   "Success",
			asset:  flat(assetID, asset.StatusActive),
			params: params,
			setupTx: func(tx *tenancy.MockTx) {
				tx.EXPECT().SetAssetStatus(gomock.Any(), assetID, asset.StatusRented).Return(nil)
				tx.EXPECT().CreateTenancy(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().CreateBill(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().Commit().Return(nil)
			},
			wantRent:  25000,
			wantTotal: 29300,
		},
		{
			name: "VehicleFallsBackToDailyRate",
			asset: &asset.Asset{
				ID:        assetID,
				Kind:      asset.KindVehicle,
				Rates:     asset.RateTable{{Cycle: asset.CycleDaily, Amount: 3000}},
				Status:    asset.StatusActive,
				Utilities: asset.VehicleCharges{},
			},
			params: params,
			setupTx: func(tx *tenancy.MockTx) {
				tx.EXPECT().SetAssetStatus(gomock.Any(), assetID, asset.StatusRented).Return(nil)
				tx.EXPECT().CreateTenancy(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().CreateBill(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().Commit().Return(nil)
			},
			wantRent:     3000,
			wantTotal:    3000,
			wantWarnings: 1,
		},
		{
			name:   "NoRateDefined",
			asset:  &asset.Asset{ID: assetID, Kind: asset.KindService, Status: asset.StatusActive},
			params: params,
			setupTx: func(tx *tenancy.MockTx) {
				tx.EXPECT().SetAssetStatus(gomock.Any(), assetID, asset.StatusRented).Return(nil)
				tx.EXPECT().CreateTenancy(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().CreateBill(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().Commit().Return(nil)
			},
			wantWarnings: 1,
		},
		{
			name:    "AssetRented",
			asset:   flat(assetID, asset.StatusRented),
			params:  params,
			wantErr: tenancy.ErrAssetUnavailable,
		},
		{
			name:    "AssetInMaintenance",
			asset:   flat(assetID, asset.StatusMaintenance),
			params:  params,
			wantErr: tenancy.ErrAssetUnavailable,
		},
		{
			name:   "BillWriteFails",
			asset:  flat(assetID, asset.StatusActive),
			params: params,
			setupTx: func(tx *tenancy.MockTx) {
				tx.EXPECT().SetAssetStatus(gomock.Any(), assetID, asset.StatusRented).Return(nil)
				tx.EXPECT().CreateTenancy(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().CreateBill(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := tenancy.NewMockRepository(ctrl)
			tx := tenancy.NewMockTx(ctrl)

			repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
			tx.EXPECT().LockAsset(gomock.Any(), assetID).Return(tt.asset, nil)
			tx.EXPECT().Rollback().Return(nil)

			if tt.setupTx != nil {
				tt.setupTx(tx)
			}

			svc := tenancy.NewService(repo, tenancy.WithClock(clock))

			res, err := svc.Create(context.Background(), assetID, tt.params)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, res)

				if errors.Is(tt.wantErr, tenancy.ErrAssetUnavailable) {
					assert.ErrorIs(t, err, tenancy.ErrAssetUnavailable)
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tenancy.StatusActive, res.Tenancy.Status)
			assert.Equal(t, now, res.Tenancy.StartDate)
			assert.Equal(t, asset.CycleMonthly, res.Tenancy.BillingCycle)

			assert.Equal(t, res.Tenancy.ID, res.Bill.TenancyID)
			assert.Equal(t, tt.wantRent, res.Bill.RentAmount)
			assert.Equal(t, tt.wantTotal, res.Bill.Total)
			assert.Equal(t, bill.StatusUnpaid, res.Bill.Status)
			assert.Equal(t, now.AddDate(0, 1, 0), res.Bill.DueDate)
			assert.Len(t, res.Warnings, tt.wantWarnings)
		})
	}
}

func TestService_Create_InvalidParams(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := tenancy.NewService(tenancy.NewMockRepository(ctrl))

	for _, p := range []tenancy.CreateParams{
		{},
		{RenterID: "r1", LeaseMonths: -1},
		{RenterID: "r1", BillingCycle: "fortnightly"},
	} {
		_, err := svc.Create(context.Background(), uuid.New(), p)
		assert.ErrorIs(t, err, tenancy.ErrInvalidTenancy)
	}
}

func TestService_Terminate(t *testing.T) {
	id := uuid.New()
	assetID := uuid.New()
	start := now.AddDate(0, -3, 0)

	active := func() *tenancy.Tenancy {
		return &tenancy.Tenancy{ID: id, AssetID: assetID, Status: tenancy.StatusActive, StartDate: start}
	}

	type testCase struct {
		name      string
		tenancy   *tenancy.Tenancy
		endDate   *time.Time
		setupTx   func(tx *tenancy.MockTx)
		wantErr   error
		wantEndAt time.Time
	}

	tests := []testCase{
		{
			name:    "Success",
			tenancy: active(),
			setupTx: func(tx *tenancy.MockTx) {
				tx.EXPECT().
					UpdateTenancy(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, got *tenancy.Tenancy) error {
						assert.Equal(t, tenancy.StatusPast, got.Status)
						return nil
					})
				tx.EXPECT().SetAssetStatus(gomock.Any(), assetID, asset.StatusActive).Return(nil)
				tx.EXPECT().Commit().Return(nil)
			},
			wantEndAt: now,
		},
		{
			name:    "ExplicitEndDate",
			tenancy: active(),
			endDate: new(start.AddDate(0, 1, 0)),
			setupTx: func(tx *tenancy.MockTx) {
				tx.EXPECT().UpdateTenancy(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().SetAssetStatus(gomock.Any(), assetID, asset.StatusActive).Return(nil)
				tx.EXPECT().Commit().Return(nil)
			},
			wantEndAt: start.AddDate(0, 1, 0),
		},
		{
			name:    "AlreadyPast",
			tenancy: &tenancy.Tenancy{ID: id, AssetID: assetID, Status: tenancy.StatusPast},
			wantErr: tenancy.ErrTenancyNotActive,
		},
		{
			name:    "Future",
			tenancy: &tenancy.Tenancy{ID: id, AssetID: assetID, Status: tenancy.StatusFuture},
			wantErr: tenancy.ErrTenancyNotActive,
		},
		{
			name:    "EndBeforeStart",
			tenancy: active(),
			endDate: new(start.AddDate(0, 0, -1)),
			wantErr: tenancy.ErrInvalidTenancy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := tenancy.NewMockRepository(ctrl)
			tx := tenancy.NewMockTx(ctrl)

			repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
			tx.EXPECT().LockTenancy(gomock.Any(), id).Return(tt.tenancy, nil)
			tx.EXPECT().Rollback().Return(nil)

			if tt.setupTx != nil {
				tt.setupTx(tx)
			}

			got, err := tenancy.NewService(repo, tenancy.WithClock(clock)).Terminate(context.Background(), id, tt.endDate)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tenancy.StatusPast, got.Status)
			require.NotNil(t, got.EndDate)
			assert.Equal(t, tt.wantEndAt, *got.EndDate)
		})
	}
}

func TestListFilter_Match(t *testing.T) {
	tn := &tenancy.Tenancy{OwnerID: "o1", RenterID: "r1", Status: tenancy.StatusActive}

	assert.True(t, tenancy.ListFilter{}.Match(tn))
	assert.True(t, tenancy.ListFilter{RenterID: new("r1"), Status: new(tenancy.StatusActive)}.Match(tn))
	assert.False(t, tenancy.ListFilter{OwnerID: new("o2")}.Match(tn))
	assert.False(t, tenancy.ListFilter{AssetID: new(uuid.New())}.Match(tn))
}
