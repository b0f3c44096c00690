package asset

import (
	"fmt"
	"time"
)

// Cycle is a billing period length.
type Cycle string

const (
	CycleHourly  Cycle = "hourly"
	CycleDaily   Cycle = "daily"
	CycleWeekly  Cycle = "weekly"
	CycleMonthly Cycle = "monthly"
	CycleYearly  Cycle = "yearly"
)

// Valid reports whether c is one of the known cycles.
func (c Cycle) Valid() bool {
	switch c {
	case CycleHourly, CycleDaily, CycleWeekly, CycleMonthly, CycleYearly:
		return true
	}

	return false
}

// Next returns the start of the period following the one starting at t.
func (c Cycle) Next(t time.Time) time.Time {
	switch c {
	case CycleHourly:
		return t.Add(time.Hour)
	case CycleDaily:
		return t.AddDate(0, 0, 1)
	case CycleWeekly:
		return t.AddDate(0, 0, 7)
	case CycleYearly:
		return t.AddDate(1, 0, 0)
	}

	return t.AddDate(0, 1, 0)
}

// Rate is the price of one cycle.
type Rate struct {
	Cycle  Cycle `json:"cycle"`
	Amount int64 `json:"amount"`
}

// RateTable is the ordered list of prices of an asset. Order matters: it is
// the last resort of the fallback policy.
type RateTable []Rate

// Lookup returns the price of cycle c.
func (t RateTable) Lookup(c Cycle) (int64, bool) {
	for _, r := range t {
		if r.Cycle == c {
			return r.Amount, true
		}
	}

	return 0, false
}

// Validate checks that every cycle is known, appears once and has a
// positive price.
func (t RateTable) Validate() error {
	seen := make(map[Cycle]struct{}, len(t))

	for _, r := range t {
		if !r.Cycle.Valid() {
			return fmt.Errorf("%w: unknown cycle %q", ErrInvalidRate, r.Cycle)
		}

		if r.Amount <= 0 {
			return fmt.Errorf("%w: %s price must be positive", ErrInvalidRate, r.Cycle)
		}

		if _, dup := seen[r.Cycle]; dup {
			return fmt.Errorf("%w: %s defined twice", ErrInvalidRate, r.Cycle)
		}

		seen[r.Cycle] = struct{}{}
	}

	return nil
}

// DefaultFallback is the fallback order used when the preferred cycle has
// no price: monthly, then daily, then the first entry of the table.
var DefaultFallback = []Cycle{CycleMonthly, CycleDaily}

// Resolver picks the base rate of a bill from a rate table.
type Resolver struct {
	Fallback []Cycle
}

// NewResolver returns a Resolver using order as fallback. An empty order
// means DefaultFallback.
func NewResolver(order []Cycle) Resolver {
	if len(order) == 0 {
		order = DefaultFallback
	}

	return Resolver{Fallback: order}
}

// Resolve returns the price for preferred if the table defines it.
// Otherwise it walks the fallback order and finally takes the first entry in
// table order. The cycle actually used is returned with the amount.
func (r Resolver) Resolve(rates RateTable, preferred Cycle) (int64, Cycle, error) {
	if len(rates) == 0 {
		return 0, "", ErrNoRateDefined
	}

	if amount, ok := rates.Lookup(preferred); ok {
		return amount, preferred, nil
	}

	for _, c := range r.Fallback {
		if amount, ok := rates.Lookup(c); ok {
			return amount, c, nil
		}
	}

	return rates[0].Amount, rates[0].Cycle, nil
}
