package bill

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/rentledger/internal/asset"
)

// Status is derived from the paid amount and the total of a bill.
type Status string

const (
	StatusUnpaid  Status = "unpaid"
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
)

// Method is how a payment was received.
type Method string

const (
	MethodCash   Method = "cash"
	MethodBank   Method = "bank"
	MethodMobile Method = "mobile"
	MethodCard   Method = "card"
	MethodOther  Method = "other"
)

func (m Method) Valid() bool {
	switch m {
	case MethodCash, MethodBank, MethodMobile, MethodCard, MethodOther:
		return true
	}

	return false
}

// ExtraCharge is an ad-hoc amount appended to a bill after it was seeded.
type ExtraCharge struct {
	Name    string    `json:"name"`
	Amount  int64     `json:"amount"`
	Note    string    `json:"note,omitempty"`
	AddedAt time.Time `json:"added_at"`
}

// Payment is one recorded receipt against a bill.
type Payment struct {
	Amount     int64     `json:"amount"`
	Method     Method    `json:"method"`
	Note       string    `json:"note,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// Bill is the invoice of one billing period of a tenancy. Total and Status
// are derived by Recompute and must never be set by hand.
type Bill struct {
	ID           uuid.UUID
	TenancyID    uuid.UUID
	AssetID      uuid.UUID
	OwnerID      string
	RenterID     string
	AssetKind    asset.Kind
	Cycle        asset.Cycle
	PeriodStart  time.Time
	DueDate      time.Time
	RentAmount   int64
	Utilities    asset.Utilities
	ExtraCharges []ExtraCharge
	Total        int64
	PaidAmount   int64
	PaidDate     *time.Time
	Payments     []Payment
	Status       Status
	Warnings     []string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// Remainder is the signed difference between paid amount and total.
// Positive values are credit, negative values are still due.
func (b *Bill) Remainder() int64 {
	return b.PaidAmount - b.Total
}

// Credit is the advance held when the bill was overpaid.
func (b *Bill) Credit() int64 {
	return max(b.Remainder(), 0)
}

// Due is the amount still owed.
func (b *Bill) Due() int64 {
	return max(-b.Remainder(), 0)
}

// ExtraTotal sums the ad-hoc charges.
func (b *Bill) ExtraTotal() int64 {
	var sum int64
	for _, c := range b.ExtraCharges {
		sum += c.Amount
	}

	return sum
}
