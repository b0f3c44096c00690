package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Kind identifies what a renter is being told about.
type Kind string

const (
	KindChargesAdded    Kind = "charges_added"
	KindPaymentReceived Kind = "payment_received"
	KindReminder        Kind = "payment_reminder"
	KindTenancyStarted  Kind = "tenancy_started"
	KindTenancyEnded    Kind = "tenancy_ended"
)

// Event is one renter-facing notification.
type Event struct {
	Kind     Kind      `json:"kind"`
	OwnerID  string    `json:"owner_id"`
	RenterID string    `json:"renter_id"`
	BillID   uuid.UUID `json:"bill_id,omitzero"`
	Amount   int64     `json:"amount,omitempty"`
	Message  string    `json:"message"`
	At       time.Time `json:"at"`
}

// Notifier delivers events. Delivery is best effort: a failed notification
// never fails the ledger operation that produced it.
type Notifier interface {
	Notify(ctx context.Context, e Event)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Notify(context.Context, Event) {}

// Log writes events to a zap logger instead of delivering them.
type Log struct {
	log *zap.Logger
}

func NewLog(log *zap.Logger) *Log {
	return &Log{log: log}
}

func (n *Log) Notify(_ context.Context, e Event) {
	n.log.Info("notification",
		zap.String("kind", string(e.Kind)),
		zap.String("renter_id", e.RenterID),
		zap.Stringer("bill_id", e.BillID),
		zap.Int64("amount", e.Amount),
		zap.String("message", e.Message),
	)
}
