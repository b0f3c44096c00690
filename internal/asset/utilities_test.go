package asset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/rentledger/internal/asset"
)

func TestCheckUtilities(t *testing.T) {
	type testCase struct {
		name    string
		kind    asset.Kind
		u       asset.Utilities
		wantErr error
	}

	tests := []testCase{
		{name: "FlatResidential", kind: asset.KindFlat, u: asset.ResidentialCharges{ServiceCharge: 3000}},
		{name: "BuildingResidential", kind: asset.KindBuilding, u: asset.ResidentialCharges{}},
		{name: "Vehicle", kind: asset.KindVehicle, u: asset.VehicleCharges{FuelCost: 100}},
		{name: "Gadget", kind: asset.KindGadget, u: asset.GadgetCharges{LateFee: 50}},
		{name: "Service", kind: asset.KindService, u: asset.NoCharges{}},
		{name: "FlatWithVehicle", kind: asset.KindFlat, u: asset.VehicleCharges{}, wantErr: asset.ErrUtilitiesMismatch},
		{name: "ServiceWithGadget", kind: asset.KindService, u: asset.GadgetCharges{}, wantErr: asset.ErrUtilitiesMismatch},
		{name: "Nil", kind: asset.KindGadget, u: nil, wantErr: asset.ErrUtilitiesMismatch},
		{name: "Negative", kind: asset.KindFlat, u: asset.ResidentialCharges{GasBill: -1}, wantErr: asset.ErrUtilitiesMismatch},
		{name: "UnknownKind", kind: "boat", u: asset.NoCharges{}, wantErr: asset.ErrInvalidKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := asset.CheckUtilities(tt.kind, tt.u)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestFlatUtilities_For(t *testing.T) {
	t.Run("ResidentialDefaultsMissingFieldsToZero", func(t *testing.T) {
		flat := asset.FlatUtilities{ServiceCharge: new(int64(3000)), GasBill: new(int64(800))}

		u, err := flat.For(asset.KindFlat)
		require.NoError(t, err)
		assert.Equal(t, asset.ResidentialCharges{ServiceCharge: 3000, GasBill: 800}, u)
	})

	t.Run("ForeignFieldRejected", func(t *testing.T) {
		flat := asset.FlatUtilities{WaterBill: new(int64(500)), TollCost: new(int64(20))}

		_, err := flat.For(asset.KindFlat)
		assert.ErrorIs(t, err, asset.ErrUtilitiesMismatch)
	})

	t.Run("ServiceAcceptsNothing", func(t *testing.T) {
		u, err := asset.FlatUtilities{}.For(asset.KindService)
		require.NoError(t, err)
		assert.Equal(t, asset.NoCharges{}, u)

		_, err = asset.FlatUtilities{LateFee: new(int64(1))}.For(asset.KindService)
		assert.ErrorIs(t, err, asset.ErrUtilitiesMismatch)
	})

	t.Run("FlattenOmitsOtherKinds", func(t *testing.T) {
		flat := asset.Flatten(asset.VehicleCharges{FuelCost: 400, DriverCost: 900})

		assert.Nil(t, flat.ServiceCharge)
		assert.Nil(t, flat.LateFee)
		require.NotNil(t, flat.FuelCost)
		assert.Equal(t, int64(400), *flat.FuelCost)
		assert.Equal(t, int64(0), *flat.TollCost)
	})
}
