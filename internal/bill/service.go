package bill

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/rentledger/internal/metrics"
	"github.com/MrJamesThe3rd/rentledger/internal/notify"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=bill

type Repository interface {
	GetBill(ctx context.Context, id uuid.UUID) (*Bill, error)
	ListBills(ctx context.Context, filter ListFilter) ([]*Bill, error)
	// UpdateBill passes the stored bill to fn and saves what fn returns. No
	// other update of the same bill runs between the read and the write. An
	// error from fn is returned as is and nothing is saved.
	UpdateBill(ctx context.Context, id uuid.UUID, fn func(Bill) (Bill, error)) (*Bill, error)
}

// Namer maps a typed charge name onto a learned preset name.
type Namer interface {
	Canonical(ctx context.Context, raw string) string
}

type ListFilter struct {
	OwnerID   *string
	RenterID  *string
	TenancyID *uuid.UUID
	AssetID   *uuid.UUID
	Status    *Status
	From      *time.Time
	To        *time.Time
	// Where is applied after the store filter. Stores ignore it.
	Where func(*Bill) bool
}

// Match reports whether b passes the store-level fields of the filter.
func (f ListFilter) Match(b *Bill) bool {
	switch {
	case f.OwnerID != nil && b.OwnerID != *f.OwnerID:
		return false
	case f.RenterID != nil && b.RenterID != *f.RenterID:
		return false
	case f.TenancyID != nil && b.TenancyID != *f.TenancyID:
		return false
	case f.AssetID != nil && b.AssetID != *f.AssetID:
		return false
	case f.Status != nil && b.Status != *f.Status:
		return false
	case f.From != nil && b.PeriodStart.Before(*f.From):
		return false
	case f.To != nil && !b.PeriodStart.Before(*f.To):
		return false
	}

	return true
}

type Service struct {
	repo     Repository
	namer    Namer
	notifier notify.Notifier
	metrics  *metrics.Metrics
	log      *zap.Logger
	now      func() time.Time
}

type Option func(*Service)

func WithNamer(n Namer) Option { return func(s *Service) { s.namer = n } }

func WithNotifier(n notify.Notifier) Option { return func(s *Service) { s.notifier = n } }

func WithMetrics(m *metrics.Metrics) Option { return func(s *Service) { s.metrics = m } }

func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.log = l } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		notifier: notify.Nop{},
		log:      zap.NewNop(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Bill, error) {
	return s.repo.GetBill(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Bill, error) {
	where := filter.Where
	filter.Where = nil

	bills, err := s.repo.ListBills(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing bills: %w", err)
	}

	if where == nil {
		return bills, nil
	}

	out := bills[:0:0]
	for _, b := range bills {
		if where(b) {
			out = append(out, b)
		}
	}

	return out, nil
}

type PaymentParams struct {
	Amount     int64
	Method     Method
	Note       string
	ReceivedAt *time.Time
}

func (s *Service) RecordPayment(ctx context.Context, id uuid.UUID, params PaymentParams) (*Bill, error) {
	at := s.now()
	if params.ReceivedAt != nil {
		at = *params.ReceivedAt
	}

	next, err := s.update(ctx, id, func(b Bill) (Bill, error) {
		return ApplyPayment(b, Payment{
			Amount:     params.Amount,
			Method:     params.Method,
			Note:       params.Note,
			ReceivedAt: at,
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPayment(string(next.Payments[len(next.Payments)-1].Method))
	s.notifier.Notify(ctx, notify.Event{
		Kind:     notify.KindPaymentReceived,
		OwnerID:  next.OwnerID,
		RenterID: next.RenterID,
		BillID:   next.ID,
		Amount:   params.Amount,
		Message:  fmt.Sprintf("payment of %d received, bill is %s", params.Amount, next.Status),
		At:       at,
	})

	return next, nil
}

type StatusParams struct {
	Status  Status
	Partial Partial
}

// SetStatus applies a manual override. Paid and unpaid need no amount,
// partial needs exactly one of a fixed amount or a percentage.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, params StatusParams) (*Bill, error) {
	switch params.Status {
	case StatusPaid, StatusUnpaid, StatusPartial:
	default:
		return nil, fmt.Errorf("%q: %w", params.Status, ErrInvalidStatusOverride)
	}

	now := s.now()

	next, err := s.update(ctx, id, func(b Bill) (Bill, error) {
		switch params.Status {
		case StatusPaid:
			return MarkPaid(b, now), nil
		case StatusUnpaid:
			return MarkUnpaid(b), nil
		default:
			return MarkPartial(b, params.Partial, now)
		}
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordStatusOverride(string(params.Status))

	return next, nil
}

// BulkResult reports what a bulk charge run did.
type BulkResult struct {
	Updated  []*Bill
	Rejected []ChargeError
	Skipped  []BillError
}

// AddCharges validates every line once, then appends the valid lines to
// each selected bill. A bill either receives all valid lines or none of
// them. Invalid lines and failing bills are reported without stopping the
// run.
func (s *Service) AddCharges(ctx context.Context, ids []uuid.UUID, lines []ChargeLine) (*BulkResult, error) {
	res := &BulkResult{}
	now := s.now()

	charges := make([]ExtraCharge, 0, len(lines))

	for i, l := range lines {
		if s.namer != nil {
			l.Name = s.namer.Canonical(ctx, l.Name)
		}

		c, err := l.Charge(now)
		if err != nil {
			res.Rejected = append(res.Rejected, ChargeError{Index: i, Name: l.Name, Err: err})
			continue
		}

		charges = append(charges, c)
	}

	if len(charges) == 0 {
		s.metrics.RecordCharges(0, len(res.Rejected), 0)
		return res, nil
	}

	seen := make(map[uuid.UUID]struct{}, len(ids))

	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if err := ctx.Err(); err != nil {
			return res, err
		}

		b, err := s.applyCharges(ctx, id, charges)
		if err != nil {
			res.Skipped = append(res.Skipped, BillError{BillID: id, Err: err})
			s.log.Warn("skipping bill in bulk charge", zap.Stringer("bill_id", id), zap.Error(err))

			continue
		}

		res.Updated = append(res.Updated, b)
	}

	s.metrics.RecordCharges(len(charges)*len(res.Updated), len(res.Rejected), len(res.Skipped))

	for _, b := range res.Updated {
		s.notifier.Notify(ctx, notify.Event{
			Kind:     notify.KindChargesAdded,
			OwnerID:  b.OwnerID,
			RenterID: b.RenterID,
			BillID:   b.ID,
			Amount:   sumCharges(charges),
			Message:  fmt.Sprintf("%d charge(s) added, new total %d", len(charges), b.Total),
			At:       now,
		})
	}

	return res, nil
}

func (s *Service) applyCharges(ctx context.Context, id uuid.UUID, charges []ExtraCharge) (*Bill, error) {
	return s.update(ctx, id, func(b Bill) (Bill, error) {
		return AddCharges(b, charges)
	})
}

// SendReminders notifies the renter of every matching bill that still has
// a balance due and returns how many reminders were sent.
func (s *Service) SendReminders(ctx context.Context, filter ListFilter) (int, error) {
	bills, err := s.List(ctx, filter)
	if err != nil {
		return 0, err
	}

	now := s.now()
	sent := 0

	for _, b := range bills {
		if b.Status == StatusPaid {
			continue
		}

		if err := ctx.Err(); err != nil {
			return sent, err
		}

		s.notifier.Notify(ctx, notify.Event{
			Kind:     notify.KindReminder,
			OwnerID:  b.OwnerID,
			RenterID: b.RenterID,
			BillID:   b.ID,
			Amount:   b.Due(),
			Message:  fmt.Sprintf("%d due by %s", b.Due(), b.DueDate.Format(time.DateOnly)),
			At:       now,
		})
		sent++
	}

	s.metrics.RecordReminders(sent)

	return sent, nil
}

// update runs fn against the stored bill under the repository lock and
// stamps the result.
func (s *Service) update(ctx context.Context, id uuid.UUID, fn func(Bill) (Bill, error)) (*Bill, error) {
	return s.repo.UpdateBill(ctx, id, func(b Bill) (Bill, error) {
		next, err := fn(b)
		if err != nil {
			return b, err
		}

		now := s.now()
		next.UpdatedAt = &now

		return next, nil
	})
}

func sumCharges(charges []ExtraCharge) int64 {
	var total int64
	for _, c := range charges {
		total += c.Amount
	}

	return total
}
