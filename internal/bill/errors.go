package bill

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNotFound              = errors.New("bill not found")
	ErrInvalidChargeAmount   = errors.New("invalid charge amount")
	ErrInvalidChargeName     = errors.New("invalid charge name")
	ErrTotalOverflow         = errors.New("bill total overflows")
	ErrInvalidPaymentAmount  = errors.New("invalid payment amount")
	ErrInvalidPaymentMethod  = errors.New("invalid payment method")
	ErrInvalidStatusOverride = errors.New("invalid status override")
)

// ChargeError reports a charge line rejected before it reached any bill.
type ChargeError struct {
	Index int
	Name  string
	Err   error
}

func (e ChargeError) Error() string {
	return fmt.Sprintf("charge %d (%q): %v", e.Index, e.Name, e.Err)
}

func (e ChargeError) Unwrap() error { return e.Err }

// BillError reports a bill that was skipped by a bulk operation.
type BillError struct {
	BillID uuid.UUID
	Err    error
}

func (e BillError) Error() string {
	return fmt.Sprintf("bill %s: %v", e.BillID, e.Err)
}

func (e BillError) Unwrap() error { return e.Err }
