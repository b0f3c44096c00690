package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/rentledger/internal/bill"
	"github.com/MrJamesThe3rd/rentledger/internal/importer"
)

func TestService_Import_BillSheet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	biller := importer.NewMockBiller(ctrl)

	csv := `bill_id;charge;amount
` + billA.String() + `;Late Fee;500
` + billB.String() + `;Parking;300
` + billA.String() + `;Cleaning;200
` + billA.String() + `;Broken;zero
`

	biller.EXPECT().
		AddCharges(gomock.Any(), []uuid.UUID{billA}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ []uuid.UUID, lines []bill.ChargeLine) (*bill.BulkResult, error) {
			require.Len(t, lines, 2)
			assert.Equal(t, "Late Fee", lines[0].Name)
			assert.True(t, decimal.NewFromInt(200).Equal(lines[1].Amount))

			return &bill.BulkResult{
				Updated:  []*bill.Bill{{ID: billA}},
				Rejected: []bill.ChargeError{{Index: 1, Name: "Cleaning", Err: bill.ErrInvalidChargeName}},
			}, nil
		})
	biller.EXPECT().
		AddCharges(gomock.Any(), []uuid.UUID{billB}, gomock.Any()).
		Return(&bill.BulkResult{
			Skipped: []bill.BillError{{BillID: billB, Err: bill.ErrNotFound}},
		}, nil)

	report, err := importer.NewService(biller, nil).Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, "bill", report.Profile)
	assert.Equal(t, 4, report.Rows)
	require.Len(t, report.Updated, 1)
	assert.Equal(t, billA, report.Updated[0].ID)

	require.Len(t, report.Errors, 3)
	assert.Equal(t, 3, report.Errors[0].Line)
	assert.ErrorIs(t, report.Errors[0], bill.ErrNotFound)
	assert.Equal(t, 4, report.Errors[1].Line)
	assert.ErrorIs(t, report.Errors[1], bill.ErrInvalidChargeName)
	assert.Equal(t, 5, report.Errors[2].Line)
	assert.ErrorIs(t, report.Errors[2], importer.ErrInvalidAmount)
}

func TestService_Import_TenancySheet(t *testing.T) {
	tenancyA := uuid.New()
	tenancyB := uuid.New()
	older := uuid.New()
	latest := uuid.New()
	may := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	csv := "tenancy_id,charge,amount\n" +
		tenancyA.String() + ",Late Fee,500\n" +
		tenancyB.String() + ",Late Fee,500\n" +
		tenancyA.String() + ",Parking,300\n"

	type testCase struct {
		name      string
		setupMock func(m *importer.MockBiller)
		wantErr   bool
		wantLines []int
	}

	tests := []testCase{
		{
			name: "LatestBillPerTenancy",
			setupMock: func(m *importer.MockBiller) {
				m.EXPECT().List(gomock.Any(), bill.ListFilter{TenancyID: &tenancyA}).Return([]*bill.Bill{
					{ID: older, PeriodStart: may.AddDate(0, -1, 0)},
					{ID: latest, PeriodStart: may},
				}, nil)
				m.EXPECT().List(gomock.Any(), bill.ListFilter{TenancyID: &tenancyB}).Return(nil, nil)
				m.EXPECT().
					AddCharges(gomock.Any(), []uuid.UUID{latest}, gomock.Len(2)).
					Return(&bill.BulkResult{Updated: []*bill.Bill{{ID: latest}}}, nil)
			},
			wantLines: []int{3},
		},
		{
			name: "ListFails",
			setupMock: func(m *importer.MockBiller) {
				m.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			biller := importer.NewMockBiller(ctrl)
			tt.setupMock(biller)

			report, err := importer.NewService(biller, nil).Import(context.Background(), strings.NewReader(csv))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)

			lines := make([]int, 0, len(report.Errors))
			for _, e := range report.Errors {
				assert.ErrorIs(t, e, importer.ErrNoBill)
				lines = append(lines, e.Line)
			}

			assert.Equal(t, tt.wantLines, lines)
		})
	}
}
