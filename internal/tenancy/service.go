package tenancy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/rentledger/internal/asset"
	"github.com/MrJamesThe3rd/rentledger/internal/bill"
	"github.com/MrJamesThe3rd/rentledger/internal/metrics"
	"github.com/MrJamesThe3rd/rentledger/internal/notify"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=tenancy
type Repository interface {
	GetTenancy(ctx context.Context, id uuid.UUID) (*Tenancy, error)
	ListTenancies(ctx context.Context, filter ListFilter) ([]*Tenancy, error)

	Begin(ctx context.Context) (Tx, error)
}

// Tx groups the writes of one lifecycle step. Rollback after Commit is a
// no-op.
type Tx interface {
	LockAsset(ctx context.Context, id uuid.UUID) (*asset.Asset, error)
	SetAssetStatus(ctx context.Context, id uuid.UUID, status asset.Status) error
	LockTenancy(ctx context.Context, id uuid.UUID) (*Tenancy, error)
	CreateTenancy(ctx context.Context, t *Tenancy) error
	UpdateTenancy(ctx context.Context, t *Tenancy) error
	CreateBill(ctx context.Context, b *bill.Bill) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo     Repository
	resolver asset.Resolver
	notifier notify.Notifier
	metrics  *metrics.Metrics
	log      *zap.Logger
	now      func() time.Time
}

type Option func(*Service)

func WithResolver(r asset.Resolver) Option { return func(s *Service) { s.resolver = r } }

func WithNotifier(n notify.Notifier) Option { return func(s *Service) { s.notifier = n } }

func WithMetrics(m *metrics.Metrics) Option { return func(s *Service) { s.metrics = m } }

func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.log = l } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		resolver: asset.NewResolver(nil),
		notifier: notify.Nop{},
		log:      zap.NewNop(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateParams struct {
	RenterID         string
	RenterName       string
	RenterPhone      string
	RenterEmail      string
	RenterNationalID string
	LeaseMonths      int
	BillingCycle     asset.Cycle
	StartDate        time.Time
	Notes            string
}

type CreateResult struct {
	Tenancy  *Tenancy
	Bill     *bill.Bill
	Warnings []string
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Tenancy, error) {
	return s.repo.GetTenancy(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Tenancy, error) {
	tenancies, err := s.repo.ListTenancies(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing tenancies: %w", err)
	}

	return tenancies, nil
}

// Create rents out an available asset. The asset flip, the tenancy and its
// first bill are written together or not at all.
func (s *Service) Create(ctx context.Context, assetID uuid.UUID, params CreateParams) (*CreateResult, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning tenancy: %w", err)
	}
	defer tx.Rollback()

	a, err := tx.LockAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if !a.Available() {
		s.metrics.RecordTenancy(metrics.TenancyRejected)
		return nil, fmt.Errorf("asset %s is %s: %w", a.ID, a.Status, ErrAssetUnavailable)
	}

	now := s.now()

	start := params.StartDate
	if start.IsZero() {
		start = now
	}

	cycle := params.BillingCycle
	if cycle == "" {
		cycle = asset.CycleMonthly
	}

	t := &Tenancy{
		ID:               uuid.New(),
		AssetID:          a.ID,
		OwnerID:          a.OwnerID,
		RenterID:         strings.TrimSpace(params.RenterID),
		RenterName:       strings.TrimSpace(params.RenterName),
		RenterPhone:      strings.TrimSpace(params.RenterPhone),
		RenterEmail:      strings.TrimSpace(params.RenterEmail),
		RenterNationalID: strings.TrimSpace(params.RenterNationalID),
		LeaseMonths:      params.LeaseMonths,
		BillingCycle:     cycle,
		Status:           StatusActive,
		StartDate:        start,
		Notes:            params.Notes,
		CreatedAt:        now,
	}

	b, err := s.seedBill(a, t, now)
	if err != nil {
		return nil, fmt.Errorf("seeding bill: %w", err)
	}

	if err := tx.SetAssetStatus(ctx, a.ID, asset.StatusRented); err != nil {
		return nil, fmt.Errorf("renting asset: %w", err)
	}

	if err := tx.CreateTenancy(ctx, t); err != nil {
		return nil, fmt.Errorf("creating tenancy: %w", err)
	}

	if err := tx.CreateBill(ctx, b); err != nil {
		return nil, fmt.Errorf("creating bill: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing tenancy: %w", err)
	}

	s.metrics.RecordTenancy(metrics.TenancyCreated)
	s.notifier.Notify(ctx, notify.Event{
		Kind:     notify.KindTenancyStarted,
		OwnerID:  t.OwnerID,
		RenterID: t.RenterID,
		BillID:   b.ID,
		Amount:   b.Total,
		Message:  fmt.Sprintf("tenancy of %q started, first bill due %s", a.Title, b.DueDate.Format(time.DateOnly)),
		At:       now,
	})

	return &CreateResult{Tenancy: t, Bill: b, Warnings: b.Warnings}, nil
}

// seedBill builds the bill of the first period. A missing rate yields a
// zero rent with a warning rather than blocking the tenancy.
func (s *Service) seedBill(a *asset.Asset, t *Tenancy, now time.Time) (*bill.Bill, error) {
	var warnings []string

	rent, used, err := s.resolver.Resolve(a.Rates, t.BillingCycle)

	switch {
	case errors.Is(err, asset.ErrNoRateDefined):
		warnings = append(warnings, "asset has no rate defined, rent set to 0")
		s.log.Warn("seeding bill without rate", zap.Stringer("asset_id", a.ID))
	case err != nil:
		return nil, err
	case used != t.BillingCycle:
		warnings = append(warnings, fmt.Sprintf("no %s rate, used %s rate", t.BillingCycle, used))
		s.metrics.RecordRateFallback(string(t.BillingCycle), string(used))
	}

	utilities := a.Utilities
	if utilities == nil {
		if utilities, err = asset.EmptyUtilities(a.Kind); err != nil {
			return nil, err
		}
	}

	b := bill.Bill{
		ID:          uuid.New(),
		TenancyID:   t.ID,
		AssetID:     a.ID,
		OwnerID:     a.OwnerID,
		RenterID:    t.RenterID,
		AssetKind:   a.Kind,
		Cycle:       t.BillingCycle,
		PeriodStart: t.StartDate,
		DueDate:     t.BillingCycle.Next(t.StartDate),
		RentAmount:  rent,
		Utilities:   utilities,
		Warnings:    warnings,
		CreatedAt:   now,
	}

	b, err = bill.Recompute(b)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// Terminate ends an active tenancy and puts its asset back on the market.
func (s *Service) Terminate(ctx context.Context, id uuid.UUID, endDate *time.Time) (*Tenancy, error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning termination: %w", err)
	}
	defer tx.Rollback()

	t, err := tx.LockTenancy(ctx, id)
	if err != nil {
		return nil, err
	}

	if t.Status != StatusActive {
		return nil, fmt.Errorf("tenancy %s is %s: %w", t.ID, t.Status, ErrTenancyNotActive)
	}

	now := s.now()

	end := now
	if endDate != nil {
		end = *endDate
	}

	if end.Before(t.StartDate) {
		return nil, fmt.Errorf("end date before start date: %w", ErrInvalidTenancy)
	}

	t.Status = StatusPast
	t.EndDate = &end
	t.UpdatedAt = &now

	if err := tx.UpdateTenancy(ctx, t); err != nil {
		return nil, fmt.Errorf("updating tenancy: %w", err)
	}

	if err := tx.SetAssetStatus(ctx, t.AssetID, asset.StatusActive); err != nil {
		return nil, fmt.Errorf("releasing asset: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing termination: %w", err)
	}

	s.metrics.RecordTenancy(metrics.TenancyTerminated)
	s.notifier.Notify(ctx, notify.Event{
		Kind:     notify.KindTenancyEnded,
		OwnerID:  t.OwnerID,
		RenterID: t.RenterID,
		Message:  fmt.Sprintf("tenancy ended on %s", end.Format(time.DateOnly)),
		At:       now,
	})

	return t, nil
}

func (p CreateParams) validate() error {
	if strings.TrimSpace(p.RenterID) == "" {
		return fmt.Errorf("renter id is required: %w", ErrInvalidTenancy)
	}

	if p.LeaseMonths < 0 {
		return fmt.Errorf("lease months %d: %w", p.LeaseMonths, ErrInvalidTenancy)
	}

	if p.BillingCycle != "" && !p.BillingCycle.Valid() {
		return fmt.Errorf("billing cycle %q: %w", p.BillingCycle, ErrInvalidTenancy)
	}

	return nil
}
