package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/rentledger/internal/asset"
	"github.com/MrJamesThe3rd/rentledger/internal/bill"
	"github.com/MrJamesThe3rd/rentledger/internal/preset"
	"github.com/MrJamesThe3rd/rentledger/internal/tenancy"
)

// Store keeps every ledger entity in process memory. Values are copied in
// and out so callers never share state with the store.
type Store struct {
	mu sync.RWMutex

	assets    map[uuid.UUID]*asset.Asset
	tenancies map[uuid.UUID]*tenancy.Tenancy
	bills     map[uuid.UUID]*bill.Bill
	presets   []preset.Preset

	now func() time.Time
}

func New() *Store {
	return &Store{
		assets:    make(map[uuid.UUID]*asset.Asset),
		tenancies: make(map[uuid.UUID]*tenancy.Tenancy),
		bills:     make(map[uuid.UUID]*bill.Bill),
		now:       time.Now,
	}
}

// Asset store

func (s *Store) CreateAsset(_ context.Context, a *asset.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	if _, exists := s.assets[a.ID]; exists {
		return fmt.Errorf("asset %s already exists", a.ID)
	}

	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}

	s.assets[a.ID] = cloneAsset(a)

	return nil
}

func (s *Store) GetAsset(_ context.Context, id uuid.UUID) (*asset.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.assets[id]
	if !ok {
		return nil, asset.ErrNotFound
	}

	return cloneAsset(a), nil
}

func (s *Store) ListAssets(_ context.Context, filter asset.ListFilter) ([]*asset.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*asset.Asset, 0, len(s.assets))

	for _, a := range s.assets {
		if filter.Match(a) {
			out = append(out, cloneAsset(a))
		}
	}

	slices.SortFunc(out, func(x, y *asset.Asset) int {
		return cmp.Or(x.CreatedAt.Compare(y.CreatedAt), cmp.Compare(x.Title, y.Title))
	})

	return out, nil
}

// UpdateStatus changes the owner-controlled status. A rented asset is left
// alone; tenancy transactions go through setAssetStatus instead.
func (s *Store) UpdateStatus(_ context.Context, id uuid.UUID, status asset.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assets[id]
	if !ok {
		return asset.ErrNotFound
	}

	if a.Status == asset.StatusRented {
		return fmt.Errorf("%w: asset is rented", asset.ErrInvalidStatusTransition)
	}

	return s.setAssetStatus(id, status)
}

func (s *Store) setAssetStatus(id uuid.UUID, status asset.Status) error {
	a, ok := s.assets[id]
	if !ok {
		return asset.ErrNotFound
	}

	now := s.now()
	a.Status = status
	a.UpdatedAt = &now

	return nil
}

// Bill store

func (s *Store) GetBill(_ context.Context, id uuid.UUID) (*bill.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bills[id]
	if !ok {
		return nil, bill.ErrNotFound
	}

	return cloneBill(b), nil
}

// ListBills returns matching bills, newest period first.
func (s *Store) ListBills(_ context.Context, filter bill.ListFilter) ([]*bill.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*bill.Bill, 0, len(s.bills))

	for _, b := range s.bills {
		if filter.Match(b) {
			out = append(out, cloneBill(b))
		}
	}

	slices.SortFunc(out, func(x, y *bill.Bill) int {
		return cmp.Or(y.PeriodStart.Compare(x.PeriodStart), y.CreatedAt.Compare(x.CreatedAt))
	})

	return out, nil
}

// UpdateBill holds the write lock from the read until the write.
func (s *Store) UpdateBill(_ context.Context, id uuid.UUID, fn func(bill.Bill) (bill.Bill, error)) (*bill.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.bills[id]
	if !ok {
		return nil, bill.ErrNotFound
	}

	next, err := fn(*cloneBill(current))
	if err != nil {
		return nil, err
	}

	next.ID = id
	s.bills[id] = cloneBill(&next)

	return cloneBill(&next), nil
}

// Tenancy store

func (s *Store) GetTenancy(_ context.Context, id uuid.UUID) (*tenancy.Tenancy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tenancies[id]
	if !ok {
		return nil, tenancy.ErrNotFound
	}

	return cloneTenancy(t), nil
}

func (s *Store) ListTenancies(_ context.Context, filter tenancy.ListFilter) ([]*tenancy.Tenancy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*tenancy.Tenancy, 0, len(s.tenancies))

	for _, t := range s.tenancies {
		if filter.Match(t) {
			out = append(out, cloneTenancy(t))
		}
	}

	slices.SortFunc(out, func(x, y *tenancy.Tenancy) int {
		return cmp.Or(y.StartDate.Compare(x.StartDate), y.CreatedAt.Compare(x.CreatedAt))
	})

	return out, nil
}

// Preset store

func (s *Store) FindMatch(_ context.Context, rawName string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := preset.Best(s.presets, rawName)
	if !ok {
		return "", nil
	}

	return p.PreferredName, nil
}

func (s *Store) CreatePreset(_ context.Context, rawPattern, preferredName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.presets = append(s.presets, preset.Preset{
		RawPattern:    rawPattern,
		PreferredName: preferredName,
		CreatedAt:     s.now(),
	})

	return nil
}

func cloneAsset(a *asset.Asset) *asset.Asset {
	c := *a
	c.Rates = slices.Clone(a.Rates)

	return &c
}

func cloneBill(b *bill.Bill) *bill.Bill {
	c := *b
	c.ExtraCharges = slices.Clone(b.ExtraCharges)
	c.Payments = slices.Clone(b.Payments)
	c.Warnings = slices.Clone(b.Warnings)

	return &c
}

func cloneTenancy(t *tenancy.Tenancy) *tenancy.Tenancy {
	c := *t

	return &c
}
