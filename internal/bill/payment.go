package bill

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Classify is the single rule mapping paid amount and total to a status.
func Classify(paid, total int64) Status {
	switch {
	case paid <= 0:
		return StatusUnpaid
	case paid >= total:
		return StatusPaid
	default:
		return StatusPartial
	}
}

// ApplyPayment adds a payment to the paid amount. Amounts above the due
// balance are kept as credit.
func ApplyPayment(b Bill, p Payment) (Bill, error) {
	if p.Amount < 0 {
		return b, fmt.Errorf("%d: %w", p.Amount, ErrInvalidPaymentAmount)
	}

	if p.Method == "" {
		p.Method = MethodCash
	}

	if !p.Method.Valid() {
		return b, fmt.Errorf("%q: %w", p.Method, ErrInvalidPaymentMethod)
	}

	paid, err := addAmount(b.PaidAmount, p.Amount)
	if err != nil {
		return b, err
	}

	next := b
	next.PaidAmount = paid
	next.Payments = append(slices.Clone(b.Payments), p)
	next.Status = Classify(paid, next.Total)
	next.PaidDate = settledDate(next, p.ReceivedAt)

	return next, nil
}

// MarkPaid sets the paid amount to the total.
func MarkPaid(b Bill, at time.Time) Bill {
	b.PaidAmount = b.Total
	b.Status = Classify(b.PaidAmount, b.Total)
	b.PaidDate = settledDate(b, at)

	return b
}

// MarkUnpaid clears the paid amount. The payment history is kept.
func MarkUnpaid(b Bill) Bill {
	b.PaidAmount = 0
	b.Status = StatusUnpaid
	b.PaidDate = nil

	return b
}

// Partial is a manual override of the paid amount, either a fixed amount or
// a percentage of the total. Exactly one must be set.
type Partial struct {
	Amount  *int64
	Percent *decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

func (p Partial) resolve(total int64) (int64, error) {
	switch {
	case p.Amount != nil && p.Percent == nil:
		if *p.Amount < 0 {
			return 0, fmt.Errorf("%d: %w", *p.Amount, ErrInvalidPaymentAmount)
		}

		return *p.Amount, nil
	case p.Percent != nil && p.Amount == nil:
		if p.Percent.IsNegative() {
			return 0, fmt.Errorf("%s%%: %w", p.Percent.String(), ErrInvalidPaymentAmount)
		}

		// Round half away from zero to whole billing units.
		return decimal.NewFromInt(total).Mul(*p.Percent).Div(hundred).Round(0).IntPart(), nil
	default:
		return 0, fmt.Errorf("partial needs exactly one of amount or percent: %w", ErrInvalidPaymentAmount)
	}
}

// MarkPartial sets the paid amount from a fixed amount or a percentage,
// clamped to the total.
func MarkPartial(b Bill, p Partial, at time.Time) (Bill, error) {
	paid, err := p.resolve(b.Total)
	if err != nil {
		return b, err
	}

	b.PaidAmount = min(paid, b.Total)
	b.Status = Classify(b.PaidAmount, b.Total)
	b.PaidDate = settledDate(b, at)

	return b, nil
}

func settledDate(b Bill, at time.Time) *time.Time {
	if b.Status != StatusPaid {
		return nil
	}

	if b.PaidDate != nil {
		return b.PaidDate
	}

	return &at
}
