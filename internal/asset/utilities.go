package asset

import "fmt"

// Utilities is the fixed charge schedule billed with the rent of an asset.
// The set of implementations is closed: ResidentialCharges, VehicleCharges,
// GadgetCharges and NoCharges. Each asset kind accepts exactly one of them.
type Utilities interface {
	// Lines returns the named charges of the schedule in display order.
	Lines() []Line
	utilities()
}

// Line is a single named fixed charge.
type Line struct {
	Name   string
	Amount int64
}

// ResidentialCharges apply to flats and buildings.
type ResidentialCharges struct {
	ServiceCharge   int64
	WaterBill       int64
	GasBill         int64
	ElectricityBill int64
}

func (c ResidentialCharges) Lines() []Line {
	return []Line{
		{Name: "Service charge", Amount: c.ServiceCharge},
		{Name: "Water bill", Amount: c.WaterBill},
		{Name: "Gas bill", Amount: c.GasBill},
		{Name: "Electricity bill", Amount: c.ElectricityBill},
	}
}

// VehicleCharges apply to vehicles.
type VehicleCharges struct {
	FuelCost   int64
	DriverCost int64
	TollCost   int64
}

func (c VehicleCharges) Lines() []Line {
	return []Line{
		{Name: "Fuel", Amount: c.FuelCost},
		{Name: "Driver", Amount: c.DriverCost},
		{Name: "Toll", Amount: c.TollCost},
	}
}

// GadgetCharges apply to gadgets.
type GadgetCharges struct {
	DamageCharge int64
	LateFee      int64
}

func (c GadgetCharges) Lines() []Line {
	return []Line{
		{Name: "Damage", Amount: c.DamageCharge},
		{Name: "Late fee", Amount: c.LateFee},
	}
}

// NoCharges is the schedule of services, which carry no fixed charges.
type NoCharges struct{}

func (NoCharges) Lines() []Line { return nil }

func (ResidentialCharges) utilities() {}
func (VehicleCharges) utilities()     {}
func (GadgetCharges) utilities()      {}
func (NoCharges) utilities()          {}

// EmptyUtilities returns the zero schedule accepted by kind.
func EmptyUtilities(kind Kind) (Utilities, error) {
	switch kind {
	case KindFlat, KindBuilding:
		return ResidentialCharges{}, nil
	case KindVehicle:
		return VehicleCharges{}, nil
	case KindGadget:
		return GadgetCharges{}, nil
	case KindService:
		return NoCharges{}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
}

// CheckUtilities verifies that u is the schedule variant of kind and that
// none of its charges is negative.
func CheckUtilities(kind Kind, u Utilities) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	var ok bool

	switch u.(type) {
	case ResidentialCharges:
		ok = kind == KindFlat || kind == KindBuilding
	case VehicleCharges:
		ok = kind == KindVehicle
	case GadgetCharges:
		ok = kind == KindGadget
	case NoCharges:
		ok = kind == KindService
	}

	if !ok {
		return fmt.Errorf("%w: %T for %s", ErrUtilitiesMismatch, u, kind)
	}

	for _, l := range u.Lines() {
		if l.Amount < 0 {
			return fmt.Errorf("%w: %s is negative", ErrUtilitiesMismatch, l.Name)
		}
	}

	return nil
}

// FlatUtilities is the flattened record form of a schedule. Fields that do
// not belong to the asset kind stay nil.
type FlatUtilities struct {
	ServiceCharge   *int64 `json:"service_charge,omitempty"`
	WaterBill       *int64 `json:"water_bill,omitempty"`
	GasBill         *int64 `json:"gas_bill,omitempty"`
	ElectricityBill *int64 `json:"electricity_bill,omitempty"`
	FuelCost        *int64 `json:"fuel_cost,omitempty"`
	DriverCost      *int64 `json:"driver_cost,omitempty"`
	TollCost        *int64 `json:"toll_cost,omitempty"`
	DamageCharge    *int64 `json:"damage_charge,omitempty"`
	LateFee         *int64 `json:"late_fee,omitempty"`
}

// Flatten converts a schedule into its record form.
func Flatten(u Utilities) FlatUtilities {
	switch c := u.(type) {
	case ResidentialCharges:
		return FlatUtilities{
			ServiceCharge:   new(c.ServiceCharge),
			WaterBill:       new(c.WaterBill),
			GasBill:         new(c.GasBill),
			ElectricityBill: new(c.ElectricityBill),
		}
	case VehicleCharges:
		return FlatUtilities{
			FuelCost:   new(c.FuelCost),
			DriverCost: new(c.DriverCost),
			TollCost:   new(c.TollCost),
		}
	case GadgetCharges:
		return FlatUtilities{
			DamageCharge: new(c.DamageCharge),
			LateFee:      new(c.LateFee),
		}
	}

	return FlatUtilities{}
}

// For rebuilds the schedule of kind from the record. Setting a field that
// belongs to another kind is rejected.
func (f FlatUtilities) For(kind Kind) (Utilities, error) {
	residential := f.ServiceCharge != nil || f.WaterBill != nil || f.GasBill != nil || f.ElectricityBill != nil
	vehicle := f.FuelCost != nil || f.DriverCost != nil || f.TollCost != nil
	gadget := f.DamageCharge != nil || f.LateFee != nil

	var u Utilities

	switch kind {
	case KindFlat, KindBuilding:
		if vehicle || gadget {
			return nil, fmt.Errorf("%w: %s accepts residential charges only", ErrUtilitiesMismatch, kind)
		}

		u = ResidentialCharges{
			ServiceCharge:   deref(f.ServiceCharge),
			WaterBill:       deref(f.WaterBill),
			GasBill:         deref(f.GasBill),
			ElectricityBill: deref(f.ElectricityBill),
		}
	case KindVehicle:
		if residential || gadget {
			return nil, fmt.Errorf("%w: %s accepts vehicle charges only", ErrUtilitiesMismatch, kind)
		}

		u = VehicleCharges{
			FuelCost:   deref(f.FuelCost),
			DriverCost: deref(f.DriverCost),
			TollCost:   deref(f.TollCost),
		}
	case KindGadget:
		if residential || vehicle {
			return nil, fmt.Errorf("%w: %s accepts gadget charges only", ErrUtilitiesMismatch, kind)
		}

		u = GadgetCharges{
			DamageCharge: deref(f.DamageCharge),
			LateFee:      deref(f.LateFee),
		}
	case KindService:
		if residential || vehicle || gadget {
			return nil, fmt.Errorf("%w: %s carries no fixed charges", ErrUtilitiesMismatch, kind)
		}

		u = NoCharges{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	if err := CheckUtilities(kind, u); err != nil {
		return nil, err
	}

	return u, nil
}

func deref(v *int64) int64 {
	if v == nil {
		return 0
	}

	return *v
}
