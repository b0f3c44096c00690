package app

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/rentledger/internal/asset"
	"github.com/MrJamesThe3rd/rentledger/internal/tenancy"
)

const (
	DemoOwner  = "demo-owner"
	DemoRenter = "demo-renter"
)

// Seed creates one asset of every kind for DemoOwner and rents the flat to
// DemoRenter. It does nothing when DemoOwner already has assets.
func Seed(ctx context.Context, a *App) error {
	existing, err := a.Assets.List(ctx, asset.ListFilter{OwnerID: new(DemoOwner)})
	if err != nil {
		return fmt.Errorf("listing demo assets: %w", err)
	}

	if len(existing) > 0 {
		return nil
	}

	demo := []asset.CreateParams{
		{
			Kind:      asset.KindFlat,
			Title:     "Banani 3BR",
			Rates:     asset.RateTable{{Cycle: asset.CycleMonthly, Amount: 25000}},
			Utilities: asset.ResidentialCharges{ServiceCharge: 3000, WaterBill: 500, GasBill: 800},
		},
		{
			Kind:      asset.KindVehicle,
			Title:     "Toyota Noah",
			Rates:     asset.RateTable{{Cycle: asset.CycleDaily, Amount: 3000}},
			Utilities: asset.VehicleCharges{DriverCost: 800},
		},
		{
			Kind:      asset.KindGadget,
			Title:     "Sony A7 III",
			Rates:     asset.RateTable{{Cycle: asset.CycleDaily, Amount: 1200}, {Cycle: asset.CycleWeekly, Amount: 7000}},
			Utilities: asset.GadgetCharges{LateFee: 200},
		},
		{
			Kind:  asset.KindService,
			Title: "Deep cleaning",
			Rates: asset.RateTable{{Cycle: asset.CycleHourly, Amount: 500}},
		},
	}

	var flat *asset.Asset

	for _, p := range demo {
		p.OwnerID = DemoOwner
		p.IsListed = true

		created, err := a.Assets.Create(ctx, p)
		if err != nil {
			return fmt.Errorf("creating demo asset %q: %w", p.Title, err)
		}

		if created.Kind == asset.KindFlat {
			flat = created
		}
	}

	if _, err := a.Tenancies.Create(ctx, flat.ID, tenancy.CreateParams{
		RenterID:    DemoRenter,
		RenterName:  "Demo Renter",
		LeaseMonths: 12,
	}); err != nil {
		return fmt.Errorf("renting demo flat: %w", err)
	}

	return nil
}
