package bill

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/rentledger/internal/asset"
)

// Recompute derives Total and Status from rent, the fixed charges of the
// asset schedule and the extra charges. A bill that is no longer paid loses
// its paid date. The input is never modified.
func Recompute(b Bill) (Bill, error) {
	if b.RentAmount < 0 {
		return b, fmt.Errorf("rent: %w", ErrInvalidChargeAmount)
	}

	total, err := FixedTotal(b.Utilities)
	if err != nil {
		return b, err
	}

	total, err = addAmount(total, b.RentAmount)
	if err != nil {
		return b, err
	}

	for _, c := range b.ExtraCharges {
		if c.Amount <= 0 {
			return b, fmt.Errorf("extra charge %q: %w", c.Name, ErrInvalidChargeAmount)
		}

		total, err = addAmount(total, c.Amount)
		if err != nil {
			return b, err
		}
	}

	b.Total = total
	b.Status = Classify(b.PaidAmount, total)

	if b.Status != StatusPaid {
		b.PaidDate = nil
	}

	return b, nil
}

// FixedTotal sums the recurring charges of a schedule. Every variant is
// handled so a new asset kind fails loudly here instead of billing zero.
func FixedTotal(u asset.Utilities) (int64, error) {
	switch c := u.(type) {
	case asset.ResidentialCharges:
		return sum(c.ServiceCharge, c.WaterBill, c.GasBill, c.ElectricityBill)
	case asset.VehicleCharges:
		return sum(c.FuelCost, c.DriverCost, c.TollCost)
	case asset.GadgetCharges:
		return sum(c.DamageCharge, c.LateFee)
	case asset.NoCharges, nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported charge schedule %T", u)
	}
}

// AddCharge appends one extra charge and recomputes. On failure the original
// bill is returned untouched.
func AddCharge(b Bill, c ExtraCharge) (Bill, error) {
	return AddCharges(b, []ExtraCharge{c})
}

// AddCharges appends every charge or none of them.
func AddCharges(b Bill, charges []ExtraCharge) (Bill, error) {
	for _, c := range charges {
		if err := c.Validate(); err != nil {
			return b, err
		}
	}

	next := b
	next.ExtraCharges = append(slices.Clone(b.ExtraCharges), charges...)

	next, err := Recompute(next)
	if err != nil {
		return b, fmt.Errorf("adding charges: %w", err)
	}

	return next, nil
}

func (c ExtraCharge) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrInvalidChargeName
	}

	if c.Amount <= 0 {
		return fmt.Errorf("%q: %w", c.Name, ErrInvalidChargeAmount)
	}

	return nil
}

// ChargeLine is an unvalidated charge as entered by a user or read from a
// sheet.
type ChargeLine struct {
	Name   string
	Amount decimal.Decimal
	Note   string
}

// Charge converts the line into an ExtraCharge. Amounts must be positive
// whole billing units.
func (l ChargeLine) Charge(at time.Time) (ExtraCharge, error) {
	amount, err := ParseAmount(l.Amount)
	if err != nil {
		return ExtraCharge{}, err
	}

	c := ExtraCharge{
		Name:    strings.TrimSpace(l.Name),
		Amount:  amount,
		Note:    strings.TrimSpace(l.Note),
		AddedAt: at,
	}

	return c, c.Validate()
}

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// ParseAmount accepts positive integral amounts that fit a bill total.
func ParseAmount(d decimal.Decimal) (int64, error) {
	if !d.IsPositive() || !d.IsInteger() || d.GreaterThan(maxAmount) {
		return 0, fmt.Errorf("%s: %w", d.String(), ErrInvalidChargeAmount)
	}

	return d.IntPart(), nil
}

func sum(amounts ...int64) (int64, error) {
	var total int64

	for _, a := range amounts {
		if a < 0 {
			return 0, ErrInvalidChargeAmount
		}

		var err error
		if total, err = addAmount(total, a); err != nil {
			return 0, err
		}
	}

	return total, nil
}

func addAmount(a, b int64) (int64, error) {
	if b > 0 && a > math.MaxInt64-b {
		return 0, ErrTotalOverflow
	}

	return a + b, nil
}
