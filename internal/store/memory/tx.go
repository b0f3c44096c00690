package memory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/rentledger/internal/asset"
	"github.com/MrJamesThe3rd/rentledger/internal/bill"
	"github.com/MrJamesThe3rd/rentledger/internal/tenancy"
)

var errTxDone = errors.New("transaction already finished")

// tx holds the store write lock from Begin until Commit or Rollback and
// stages every write, so a rollback leaves the store untouched.
type tx struct {
	s    *Store
	done bool

	assetStatus map[uuid.UUID]asset.Status
	tenancies   map[uuid.UUID]*tenancy.Tenancy
	bills       []*bill.Bill
}

// Begin starts a tenancy transaction. Other writers block until it ends.
func (s *Store) Begin(ctx context.Context) (tenancy.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()

	return &tx{
		s:           s,
		assetStatus: make(map[uuid.UUID]asset.Status),
		tenancies:   make(map[uuid.UUID]*tenancy.Tenancy),
	}, nil
}

func (t *tx) LockAsset(_ context.Context, id uuid.UUID) (*asset.Asset, error) {
	if t.done {
		return nil, errTxDone
	}

	a, ok := t.s.assets[id]
	if !ok {
		return nil, asset.ErrNotFound
	}

	c := cloneAsset(a)
	if status, staged := t.assetStatus[id]; staged {
		c.Status = status
	}

	return c, nil
}

func (t *tx) SetAssetStatus(_ context.Context, id uuid.UUID, status asset.Status) error {
	if t.done {
		return errTxDone
	}

	if _, ok := t.s.assets[id]; !ok {
		return asset.ErrNotFound
	}

	t.assetStatus[id] = status

	return nil
}

func (t *tx) LockTenancy(_ context.Context, id uuid.UUID) (*tenancy.Tenancy, error) {
	if t.done {
		return nil, errTxDone
	}

	if staged, ok := t.tenancies[id]; ok {
		return cloneTenancy(staged), nil
	}

	tn, ok := t.s.tenancies[id]
	if !ok {
		return nil, tenancy.ErrNotFound
	}

	return cloneTenancy(tn), nil
}

func (t *tx) CreateTenancy(_ context.Context, tn *tenancy.Tenancy) error {
	if t.done {
		return errTxDone
	}

	if _, exists := t.s.tenancies[tn.ID]; exists {
		return fmt.Errorf("tenancy %s already exists", tn.ID)
	}

	t.tenancies[tn.ID] = cloneTenancy(tn)

	return nil
}

func (t *tx) UpdateTenancy(_ context.Context, tn *tenancy.Tenancy) error {
	if t.done {
		return errTxDone
	}

	_, staged := t.tenancies[tn.ID]
	if _, ok := t.s.tenancies[tn.ID]; !ok && !staged {
		return tenancy.ErrNotFound
	}

	t.tenancies[tn.ID] = cloneTenancy(tn)

	return nil
}

func (t *tx) CreateBill(_ context.Context, b *bill.Bill) error {
	if t.done {
		return errTxDone
	}

	if _, exists := t.s.bills[b.ID]; exists {
		return fmt.Errorf("bill %s already exists", b.ID)
	}

	t.bills = append(t.bills, cloneBill(b))

	return nil
}

func (t *tx) Commit() error {
	if t.done {
		return errTxDone
	}

	for id, status := range t.assetStatus {
		if err := t.s.setAssetStatus(id, status); err != nil {
			t.finish()
			return err
		}
	}

	for id, tn := range t.tenancies {
		t.s.tenancies[id] = tn
	}

	for _, b := range t.bills {
		t.s.bills[b.ID] = b
	}

	t.finish()

	return nil
}

func (t *tx) Rollback() error {
	if t.done {
		return nil
	}

	t.finish()

	return nil
}

func (t *tx) finish() {
	t.done = true
	t.s.mu.Unlock()
}
